// Copyright 2025 Esteban Alvarez. All Rights Reserved.
//
// Created: October 2025
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package trafficnode

import "netsim/pkg/netsim/node"

// Consumer is the reference traffic-sink node kind: every cycle it pops
// one packet from every input port it owns, which both frees the FIFO
// slot and emits the upstream credit (port.InputPort.Pop). It never
// writes to any output port. Grounded on the reference Python source's
// inputs/consumer.py, which drains its single input every cycle
// unconditionally.
type Consumer struct {
	*node.Base

	receivedCounter string
}

// NewConsumer constructs a Consumer. Input ports are attached afterward
// via AddInputPort, as with any node.
func NewConsumer(id string, stats node.Stats) *Consumer {
	c := &Consumer{
		Base:            node.NewBase(id, stats),
		receivedCounter: id + "_pkts_received",
	}
	c.RegisterCounter(c.receivedCounter)
	return c
}

// Advance drains one packet from every input port, in registration
// order, every cycle.
func (c *Consumer) Advance(currentCycle int) error {
	for _, inID := range c.InputPortIDs() {
		if _, ok := c.Recv(inID, currentCycle); ok {
			c.IncrCounter(c.receivedCounter, 1)
		}
	}
	return nil
}
