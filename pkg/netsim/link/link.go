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

// Package link models a fixed-latency, bidirectional point-to-point
// channel: data flows one way, credits flow the other. Both directions
// are bounded pipelines of depth equal to the link's latency.
package link

import (
	"fmt"

	"netsim/pkg/netsim/packet"
)

// Full is returned by Push when the addressed pipeline is already at
// capacity. Under correct caller discipline (credits respected before
// sending) this should never happen; callers treat it as a defensive,
// recoverable condition rather than a panic.
const Full = -1

// DataSink receives delivered data packets. InputPort implements this.
type DataSink interface {
	PushPacket(pkt packet.Packet)
}

// CreditSink receives delivered credit notifications. OutputPort
// implements this.
type CreditSink interface {
	NotifyCredit()
}

type dataEntry struct {
	pkt        packet.Packet
	enqueuedAt int
}

// ring is a fixed-capacity FIFO of depth == latency, mirroring the
// reference implementation's collections.deque(maxlen=latency): a true
// bounded ring rather than a slice that reallocates as it slides.
type ring struct {
	buf   []dataEntry
	head  int
	count int
}

func newRing(capacity int) ring {
	return ring{buf: make([]dataEntry, capacity)}
}

func (r *ring) len() int { return r.count }

func (r *ring) full() bool { return r.count == len(r.buf) }

func (r *ring) push(e dataEntry) {
	tail := (r.head + r.count) % len(r.buf)
	r.buf[tail] = e
	r.count++
}

func (r *ring) peek() (dataEntry, bool) {
	if r.count == 0 {
		return dataEntry{}, false
	}
	return r.buf[r.head], true
}

func (r *ring) pop() (dataEntry, bool) {
	e, ok := r.peek()
	if !ok {
		return dataEntry{}, false
	}
	r.head = (r.head + 1) % len(r.buf)
	r.count--
	return e, true
}

// Link is a fixed-latency pipeline pair. The two pipelines are kept as
// distinct, strongly-typed rings rather than a single sum-typed queue:
// this avoids a runtime type switch on every Advance and keeps the data
// and credit paths independently testable, per the design note that
// favors two typed pipelines over one polymorphic one.
type Link struct {
	id      string
	latency int

	output CreditSink
	input  DataSink

	data    ring
	credits ring
}

// New constructs a Link with the given id and latency. Latency must be
// at least 1; the caller (typically the config/setup collaborator) is
// responsible for rejecting non-positive latency before construction.
func New(id string, latency int) *Link {
	if latency < 1 {
		panic(fmt.Sprintf("link %s: latency must be >= 1, got %d", id, latency))
	}
	return &Link{
		id:      id,
		latency: latency,
		data:    newRing(latency),
		credits: newRing(latency),
	}
}

// ID returns the link's identifier.
func (l *Link) ID() string { return l.id }

// Latency returns the configured pipeline depth/delay.
func (l *Link) Latency() int { return l.latency }

// SetOutputPort binds the sending end of the link (receives credits).
func (l *Link) SetOutputPort(sink CreditSink) { l.output = sink }

// SetInputPort binds the receiving end of the link (receives data).
func (l *Link) SetInputPort(sink DataSink) { l.input = sink }

// DataLen reports how many data entries are currently in flight.
func (l *Link) DataLen() int { return l.data.len() }

// CreditLen reports how many credit entries are currently in flight.
func (l *Link) CreditLen() int { return l.credits.len() }

// PushPacket enqueues a data packet at currentCycle. Returns 0 on success,
// Full if the data pipeline is already at its latency-bounded capacity.
func (l *Link) PushPacket(pkt packet.Packet, currentCycle int) int {
	if l.data.full() {
		return Full
	}
	l.data.push(dataEntry{pkt: pkt, enqueuedAt: currentCycle})
	return 0
}

// PushCredit enqueues a credit notification at currentCycle, travelling
// the reverse direction of the link. Returns 0 on success, Full if the
// credit pipeline is already at capacity. CreditPackets carry no payload,
// so the credit ring reuses dataEntry with a zero Packet.
func (l *Link) PushCredit(currentCycle int) int {
	if l.credits.full() {
		return Full
	}
	l.credits.push(dataEntry{enqueuedAt: currentCycle})
	return 0
}

// Advance delivers at most one entry per pipeline: the head of each
// pipeline is popped and delivered iff it was enqueued exactly latency
// cycles ago. Called once per cycle, before any node advances, so that a
// packet enqueued at cycle t is visible to its destination at cycle t+L.
func (l *Link) Advance(currentCycle int) {
	if head, ok := l.data.peek(); ok && head.enqueuedAt+l.latency == currentCycle {
		l.data.pop()
		if l.input != nil {
			l.input.PushPacket(head.pkt)
		}
	}
	if head, ok := l.credits.peek(); ok && head.enqueuedAt+l.latency == currentCycle {
		l.credits.pop()
		if l.output != nil {
			l.output.NotifyCredit()
		}
	}
}
