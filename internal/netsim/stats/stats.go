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

// Package stats implements the Stats collaborator described in spec.md
// §6: counters, per-cycle activity maps, and interval histograms, every
// name registered before use with duplicate registration treated as a
// fatal configuration error. It follows the teacher's persistence/mock
// counter shape (internal/ratelimiter/core/persistence.go's
// mockPersister) but keyed by caller-supplied names instead of fixed
// package-level vars, since node kinds register their own counter names
// at Setup time.
package stats

import (
	"fmt"
	"sort"
)

// Sink receives every stats event as it happens, in addition to the
// Collector's own in-memory bookkeeping. Concrete sinks (stdout, Redis,
// Prometheus — see sink_*.go) use this to mirror state to an external
// system without the Collector needing to know about any of them.
type Sink interface {
	OnRegisterCounter(name string)
	OnCounter(name string, amount, total int64)
	OnRegisterCycleStats(name string)
	OnCycleStat(name string, cycle int, active bool)
	OnRegisterInterval(name string, interval int)
	OnIntervalBucket(name string, bucketStart int, amount, total int64)
	// Close flushes and releases any resources the sink holds (e.g. a
	// Redis connection or an HTTP metrics listener).
	Close()
}

type intervalSeries struct {
	interval int
	buckets  map[int]int64
}

// Collector is the concrete, in-process Stats implementation every
// reference node kind is wired against.
type Collector struct {
	counters         map[string]int64
	cycleStats       map[string]map[int]bool
	intervalCounters map[string]*intervalSeries
	sinks            []Sink
}

// NewCollector constructs an empty Collector with the given sinks
// attached. A Collector with no sinks is valid and behaves as a plain
// in-memory counter set.
func NewCollector(sinks ...Sink) *Collector {
	return &Collector{
		counters:         make(map[string]int64),
		cycleStats:       make(map[string]map[int]bool),
		intervalCounters: make(map[string]*intervalSeries),
		sinks:            sinks,
	}
}

// RegisterCounter registers a named counter at zero. Re-registering the
// same name is a fatal error: it almost always means two node kinds
// collided on a name, or a node kind registered twice by mistake.
func (c *Collector) RegisterCounter(name string) {
	if _, exists := c.counters[name]; exists {
		panic(fmt.Sprintf("stats: counter %q already registered", name))
	}
	c.counters[name] = 0
	for _, s := range c.sinks {
		s.OnRegisterCounter(name)
	}
}

// IncrCounter adds amount to a previously registered counter. Using an
// unregistered name is a fatal error (spec §7: "stat name used without
// prior registration").
func (c *Collector) IncrCounter(name string, amount int64) {
	if _, exists := c.counters[name]; !exists {
		panic(fmt.Sprintf("stats: counter %q incremented before registration", name))
	}
	c.counters[name] += amount
	total := c.counters[name]
	for _, s := range c.sinks {
		s.OnCounter(name, amount, total)
	}
}

// GetCounter returns the current value of a registered counter.
func (c *Collector) GetCounter(name string) int64 {
	if v, exists := c.counters[name]; exists {
		return v
	}
	panic(fmt.Sprintf("stats: counter %q read before registration", name))
}

// RegisterCycleStats registers a named boolean activity series.
func (c *Collector) RegisterCycleStats(name string) {
	if _, exists := c.cycleStats[name]; exists {
		panic(fmt.Sprintf("stats: cycle-stats series %q already registered", name))
	}
	c.cycleStats[name] = make(map[int]bool)
	for _, s := range c.sinks {
		s.OnRegisterCycleStats(name)
	}
}

// RecordCycleStats records whether series name was "active" at cycle.
func (c *Collector) RecordCycleStats(name string, cycle int, active bool) {
	series, exists := c.cycleStats[name]
	if !exists {
		panic(fmt.Sprintf("stats: cycle-stats series %q recorded before registration", name))
	}
	series[cycle] = active
	for _, s := range c.sinks {
		s.OnCycleStat(name, cycle, active)
	}
}

// RegisterIntervalCounter registers a named counter bucketed into
// fixed-width cycle intervals (e.g. "packets delivered per 100 cycles").
func (c *Collector) RegisterIntervalCounter(name string, interval int) {
	if interval <= 0 {
		panic(fmt.Sprintf("stats: interval counter %q requires interval > 0, got %d", name, interval))
	}
	if _, exists := c.intervalCounters[name]; exists {
		panic(fmt.Sprintf("stats: interval counter %q already registered", name))
	}
	c.intervalCounters[name] = &intervalSeries{interval: interval, buckets: make(map[int]int64)}
	for _, s := range c.sinks {
		s.OnRegisterInterval(name, interval)
	}
}

// IncrIntervalCounter adds amount to the bucket covering cycle.
func (c *Collector) IncrIntervalCounter(name string, cycle int, amount int64) {
	series, exists := c.intervalCounters[name]
	if !exists {
		panic(fmt.Sprintf("stats: interval counter %q incremented before registration", name))
	}
	bucketStart := (cycle / series.interval) * series.interval
	series.buckets[bucketStart] += amount
	total := series.buckets[bucketStart]
	for _, s := range c.sinks {
		s.OnIntervalBucket(name, bucketStart, amount, total)
	}
}

// IntervalBuckets returns a copy of the bucket totals for name, sorted by
// bucket start cycle. Used by tests and end-of-run summaries.
func (c *Collector) IntervalBuckets(name string) []int64 {
	series, exists := c.intervalCounters[name]
	if !exists {
		return nil
	}
	starts := make([]int, 0, len(series.buckets))
	for start := range series.buckets {
		starts = append(starts, start)
	}
	sort.Ints(starts)
	out := make([]int64, len(starts))
	for i, start := range starts {
		out[i] = series.buckets[start]
	}
	return out
}

// CounterNames returns all registered counter names, sorted.
func (c *Collector) CounterNames() []string {
	names := make([]string, 0, len(c.counters))
	for n := range c.counters {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Close releases every attached sink. Call once at Simulator teardown.
func (c *Collector) Close() {
	for _, s := range c.sinks {
		s.Close()
	}
}
