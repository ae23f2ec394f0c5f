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

// Package trafficnode provides the reference Producer and Consumer node
// kinds: the plain traffic sources and sinks that spec.md's scenarios
// exercise a switch or a bare link against. Grounded on the reference
// Python source's inputs/producer.py and inputs/consumer.py variants,
// with the pattern vocabulary (steady/burst/periodic) borrowed from
// tools/http-loadgen's mode selector (single/zipf -> deterministic,
// no-PRNG traffic shapes).
package trafficnode

import (
	"fmt"
	"strconv"
	"strings"

	"netsim/internal/netsim/params"
	"netsim/pkg/netsim/node"
	"netsim/pkg/netsim/packet"
)

// Pattern decides, for a given cycle, whether a Producer should attempt a
// send this cycle.
type Pattern interface {
	ShouldSend(cycle int) bool
}

// steadyPattern sends every cycle. Matches spec.md scenarios 1 and 2.
type steadyPattern struct{}

func (steadyPattern) ShouldSend(int) bool { return true }

// burstPattern sends for N consecutive cycles, then idles for M cycles,
// repeating indefinitely. Matches spec.md scenario 4 ("Producer bursts of
// 3 packets then idles 3 cycles").
type burstPattern struct{ burst, idle int }

func (p burstPattern) ShouldSend(cycle int) bool {
	period := p.burst + p.idle
	if period <= 0 {
		return false
	}
	return cycle%period < p.burst
}

// periodicPattern sends only on cycles that are multiples of the period.
type periodicPattern struct{ period int }

func (p periodicPattern) ShouldSend(cycle int) bool {
	if p.period <= 0 {
		return false
	}
	return cycle%p.period == 0
}

// ParsePattern interprets the nodes-table (pattern, pattern_params) pair
// spec.md §6 describes. Recognized forms:
//
//	""/"steady"        -> steady (send every cycle)
//	"burst:N,idle:M"   -> burstPattern{N, M}
//	"periodic:K"       -> periodicPattern{K}
//
// An unrecognized pattern name is a configuration error, since it can
// only come from a malformed nodes CSV.
func ParsePattern(name, params string) (Pattern, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "steady":
		return steadyPattern{}, nil
	case "burst":
		burst, idle, err := parseBurstParams(params)
		if err != nil {
			return nil, fmt.Errorf("producer pattern burst: %w", err)
		}
		return burstPattern{burst: burst, idle: idle}, nil
	case "periodic":
		period, err := parsePeriodicParams(params)
		if err != nil {
			return nil, fmt.Errorf("producer pattern periodic: %w", err)
		}
		return periodicPattern{period: period}, nil
	default:
		return nil, fmt.Errorf("unknown producer pattern %q", name)
	}
}

func parseBurstParams(paramStr string) (burst, idle int, err error) {
	fields := params.ParseKV(paramStr)
	burst, err = intField(fields, "burst")
	if err != nil {
		return 0, 0, err
	}
	idle, err = intField(fields, "idle")
	if err != nil {
		return 0, 0, err
	}
	return burst, idle, nil
}

func parsePeriodicParams(paramStr string) (int, error) {
	fields := params.ParseKV(paramStr)
	if v, ok := fields["periodic"]; ok {
		return strconv.Atoi(v)
	}
	return intField(fields, "period")
}

func intField(fields map[string]string, key string) (int, error) {
	v, ok := fields[key]
	if !ok {
		return 0, fmt.Errorf("missing %q field in pattern_params", key)
	}
	return strconv.Atoi(v)
}

// Producer is the reference traffic-source node kind: on every cycle its
// Pattern selects, it attempts exactly one send on OutPortID, addressed
// to Destination. It never reads any input port.
type Producer struct {
	*node.Base

	OutPortID   string
	Destination string
	Pattern     Pattern

	seq int

	sentCounter   string
	failedCounter string
}

// NewProducer constructs a Producer targeting outPortID, stamping every
// packet's Destination field with dest. pattern governs which cycles it
// attempts a send.
func NewProducer(id string, stats node.Stats, outPortID, dest string, pattern Pattern) *Producer {
	p := &Producer{
		Base:          node.NewBase(id, stats),
		OutPortID:     outPortID,
		Destination:   dest,
		Pattern:       pattern,
		sentCounter:   id + "_pkts_sent",
		failedCounter: id + "_pkts_failed",
	}
	p.RegisterCounter(p.sentCounter)
	p.RegisterCounter(p.failedCounter)
	return p
}

// Advance attempts one send per cycle that the Pattern selects. A send
// that fails for lack of credit (spec.md §7, admission-denied) increments
// the failure counter rather than retrying within the same cycle; the
// same packet is not resent on a later cycle — it is dropped at the
// source, matching the reference producers, which never buffer unsent
// traffic.
func (p *Producer) Advance(currentCycle int) error {
	if !p.Pattern.ShouldSend(currentCycle) {
		return nil
	}
	p.seq++
	pkt := packet.Packet{
		ID:          fmt.Sprintf("%s-%d", p.ID(), p.seq),
		Destination: p.Destination,
	}
	if rc := p.Send(pkt, p.OutPortID, currentCycle); rc == 0 {
		p.IncrCounter(p.sentCounter, 1)
	} else {
		p.IncrCounter(p.failedCounter, 1)
	}
	return nil
}
