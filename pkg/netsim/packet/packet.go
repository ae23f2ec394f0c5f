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

// Package packet defines the two value types that travel through the
// simulator's link pipelines: data Packets and the CreditPackets that flow
// back upstream to return admission slots.
package packet

// Packet is an opaque unit of simulated traffic. Payload is left as an
// arbitrary value so reference and user-defined nodes can attach whatever
// data their traffic model needs; the core never inspects it.
type Packet struct {
	ID          string
	Destination string
	Payload     any
}

// CreditPacket is emitted by an InputPort when it drains a Packet and
// travels the reverse direction of a Link to restore one unit of credit
// at the paired OutputPort. It carries no payload: its mere delivery is
// the signal.
type CreditPacket struct{}
