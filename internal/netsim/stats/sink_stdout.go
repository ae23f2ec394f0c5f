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

package stats

import (
	"fmt"
	"sort"
	"strings"
)

// StdoutSink prints a single columnar summary at Close, in the same
// spirit as the teacher's mockPersister.PrintFinalMetrics: no per-event
// noise, one readable report at the end of the run.
type StdoutSink struct {
	counters map[string]int64
}

// NewStdoutSink constructs a sink that accumulates counter totals and
// prints them once, on Close.
func NewStdoutSink() *StdoutSink {
	return &StdoutSink{counters: make(map[string]int64)}
}

func (s *StdoutSink) OnRegisterCounter(name string)    { s.counters[name] = 0 }
func (s *StdoutSink) OnCounter(name string, _, total int64) { s.counters[name] = total }
func (s *StdoutSink) OnRegisterCycleStats(string)       {}
func (s *StdoutSink) OnCycleStat(string, int, bool)     {}
func (s *StdoutSink) OnRegisterInterval(string, int)    {}
func (s *StdoutSink) OnIntervalBucket(string, int, int64, int64) {}

// Close prints the final summary.
func (s *StdoutSink) Close() {
	names := make([]string, 0, len(s.counters))
	for n := range s.counters {
		names = append(names, n)
	}
	sort.Strings(names)

	sep := strings.Repeat("-", 40)
	fmt.Println("Final simulation counters")
	fmt.Println(sep)
	fmt.Printf("%-28s %10s\n", "Counter", "Value")
	fmt.Println(sep)
	for _, n := range names {
		fmt.Printf("%-28s %10d\n", n, s.counters[n])
	}
	fmt.Println(sep)
}
