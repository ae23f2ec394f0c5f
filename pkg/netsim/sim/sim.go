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

// Package sim implements the Simulator described in spec.md §4.5: the
// top-level owner of every node and link, driving the global cycle
// counter through a deterministic setup/run/teardown lifecycle.
//
// Grounded on internal/ratelimiter/core/worker.go's Start/commitLoop/
// evictionLoop shape — here re-expressed without any wall clock or
// goroutines, since spec.md §5 mandates a single-threaded, cooperative,
// non-parallel cycle loop (an explicit non-goal rules out the worker's
// time.Ticker-driven concurrency). The two-phase-per-tick structure
// (advance links, then advance nodes) mirrors the worker's separation of
// its commit and eviction passes into two distinct, ordered steps.
package sim

import (
	"fmt"

	"netsim/internal/netsim/config"
	"netsim/internal/netsim/registry"
	"netsim/pkg/netsim/link"
	"netsim/pkg/netsim/node"
	"netsim/pkg/netsim/port"
)

// Stats is the subset of the stats.Collector surface the Simulator itself
// needs (closing sinks at teardown). Concrete node kinds get their own
// node.Stats handle at construction; the Simulator only needs to close
// it once the run is over.
type Stats interface {
	Close()
}

// Simulator owns every node and link for the duration of a run and
// drives the global cycle counter. Node and link iteration both use
// insertion order, per spec.md §4.5's reproducibility requirement.
type Simulator struct {
	maxCycles int

	nodes     map[string]node.Node
	nodeOrder []string

	links     map[string]*link.Link
	linkOrder []string

	stats Stats
}

// New constructs an empty Simulator with the given cycle budget and
// Stats collaborator (may be nil for a stats-free run, e.g. in tests).
func New(maxCycles int, stats Stats) *Simulator {
	if maxCycles < 0 {
		panic(fmt.Sprintf("sim: max_cycles must be >= 0, got %d", maxCycles))
	}
	return &Simulator{
		maxCycles: maxCycles,
		nodes:     make(map[string]node.Node),
		links:     make(map[string]*link.Link),
		stats:     stats,
	}
}

// AddNode registers n under id. Duplicate ids are a fatal configuration
// error (spec.md §3 invariant 6: node ids unique globally).
func (s *Simulator) AddNode(id string, n node.Node) {
	if _, exists := s.nodes[id]; exists {
		panic(fmt.Sprintf("sim: duplicate node id %q", id))
	}
	s.nodes[id] = n
	s.nodeOrder = append(s.nodeOrder, id)
}

// Node resolves a node by id, or nil if unknown.
func (s *Simulator) Node(id string) node.Node { return s.nodes[id] }

// addLink registers l under its own id. Duplicate link ids are a fatal
// configuration error (spec.md §3 invariant 6).
func (s *Simulator) addLink(l *link.Link) {
	if _, exists := s.links[l.ID()]; exists {
		panic(fmt.Sprintf("sim: duplicate link id %q", l.ID()))
	}
	s.links[l.ID()] = l
	s.linkOrder = append(s.linkOrder, l.ID())
}

// Connect builds one Link plus its paired OutputPort/InputPort from a
// single connections-table row and wires them to the already-registered
// src/dst nodes, per spec.md §4.5 step (c). The caller (Build, or a test)
// is responsible for having already added both nodes via AddNode.
func (s *Simulator) Connect(c config.ConnectionSpec) error {
	srcNode, ok := s.nodes[c.SrcNode]
	if !ok {
		return fmt.Errorf("sim: connect: unknown src node %q", c.SrcNode)
	}
	dstNode, ok := s.nodes[c.DstNode]
	if !ok {
		return fmt.Errorf("sim: connect: unknown dst node %q", c.DstNode)
	}

	l := link.New(c.LinkID, c.Latency)
	in := port.NewInputPort(c.DstPort, c.FifoSize, l)
	out := port.NewOutputPort(c.SrcPort, c.Credit, l)
	l.SetInputPort(in)
	l.SetOutputPort(out)

	srcNode.AddOutputPort(c.SrcPort, out)
	dstNode.AddInputPort(c.DstPort, in)
	s.addLink(l)
	return nil
}

// NodeStats is what a stats collaborator must support to be both handed
// to node factories (node.Stats) and closed at teardown (Stats).
type NodeStats interface {
	node.Stats
	Close()
}

// Build performs the full setup §4.5 step (b)+(c): instantiate every
// node via the registry, then wire every connection. It does not call
// any node's Setup(); callers invoke the lifecycle hooks by calling the
// Simulator's Setup before Run. The stats collaborator given here is
// also attached as the Simulator's own Stats, closed at Teardown.
func Build(nodes []config.NodeSpec, conns []config.ConnectionSpec, reg *registry.Registry, stats NodeStats) (*Simulator, error) {
	s := New(0, stats) // maxCycles is set by the caller via WithMaxCycles
	for _, n := range nodes {
		inst, err := reg.Create(n.Module, n.Class, registry.Deps{
			NodeID:        n.NodeID,
			Stats:         stats,
			Pattern:       n.Pattern,
			PatternParams: n.PatternParams,
		})
		if err != nil {
			return nil, fmt.Errorf("sim: build: node %q: %w", n.NodeID, err)
		}
		s.AddNode(n.NodeID, inst)
	}
	for _, c := range conns {
		if err := s.Connect(c); err != nil {
			return nil, fmt.Errorf("sim: build: %w", err)
		}
	}
	return s, nil
}

// WithMaxCycles sets the cycle budget on an already-built Simulator (used
// after Build, which does not know the CLI's --cycles value).
func (s *Simulator) WithMaxCycles(maxCycles int) *Simulator {
	if maxCycles < 0 {
		panic(fmt.Sprintf("sim: max_cycles must be >= 0, got %d", maxCycles))
	}
	s.maxCycles = maxCycles
	return s
}

// NodeIDs returns node ids in registration order.
func (s *Simulator) NodeIDs() []string { return s.nodeOrder }

// LinkIDs returns link ids in registration order.
func (s *Simulator) LinkIDs() []string { return s.linkOrder }

// MaxCycles returns the configured cycle budget.
func (s *Simulator) MaxCycles() int { return s.maxCycles }

// Setup calls every node's Setup() hook, in registration order. Per
// spec.md §4.5 step (d); configuration loading and node instantiation
// (steps a-c) happen in Build, before Setup is called.
func (s *Simulator) Setup() error {
	for _, id := range s.nodeOrder {
		if err := s.nodes[id].Setup(); err != nil {
			return fmt.Errorf("sim: setup: node %q: %w", id, err)
		}
	}
	return nil
}

// Run executes cycles [0, maxCycles), advancing every link before every
// node each cycle (spec.md §4.5's ordering rationale: a packet enqueued
// at cycle t with latency L becomes visible to its destination exactly
// at cycle t+L, not t+L-1 or t+L+1, because links advance before nodes
// within the same cycle).
func (s *Simulator) Run() error {
	for cycle := 0; cycle < s.maxCycles; cycle++ {
		for _, id := range s.linkOrder {
			s.links[id].Advance(cycle)
		}
		for _, id := range s.nodeOrder {
			if err := s.nodes[id].Advance(cycle); err != nil {
				return fmt.Errorf("sim: run: cycle %d: node %q: %w", cycle, id, err)
			}
		}
	}
	return nil
}

// Teardown calls every node's optional Teardown() hook, in registration
// order, then closes the Stats collaborator (spec.md §4.5: "typically
// used to dump stats").
func (s *Simulator) Teardown() {
	for _, id := range s.nodeOrder {
		s.nodes[id].Teardown()
	}
	if s.stats != nil {
		s.stats.Close()
	}
}

// SetStats replaces the Stats collaborator whose Close will be called at
// Teardown. Build already attaches the collaborator it was given; this
// is for a Simulator assembled by hand with New, AddNode and Connect.
func (s *Simulator) SetStats(stats Stats) { s.stats = stats }
