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

package registry

import (
	"fmt"
	"strconv"
	"strings"

	"netsim/internal/netsim/params"
	"netsim/pkg/netsim/node"
	"netsim/pkg/netsim/switchnode"
	"netsim/pkg/netsim/trafficnode"
)

// DefaultModule is the module tag the reference node kinds register
// under. User-supplied kinds register under their own module tag and
// never collide with these.
const DefaultModule = "netsim"

// RegisterDefaults binds the four reference node kinds (producer,
// consumer, switch_round_robin, switch_routed) into r under
// DefaultModule. Grounded on the registration-at-startup shape spec.md
// §9 calls for in place of the reference implementation's dynamic
// module/class loading: cmd/netsim/main.go calls this once, after
// loading the config tables and before building the Simulator.
//
// pattern_params doubles as a generic per-kind configuration string
// (see internal/netsim/params): a Producer row uses it for its traffic
// pattern's own fields plus an optional "dest:<node id>" and
// "out:<port id>" override; a switch row uses it for
// "out:<port id>", "proc:<processing latency>", and, for the routed
// switch, "route:<dst1>=<port1>;<dst2>=<port2>;...".
func RegisterDefaults(r *Registry) {
	r.Register(DefaultModule, "producer", newProducerFactory)
	r.Register(DefaultModule, "consumer", newConsumerFactory)
	r.Register(DefaultModule, "switch_round_robin", newRoundRobinFactory)
	r.Register(DefaultModule, "switch_routed", newRoutedFactory)
}

func newProducerFactory(d Deps) (node.Node, error) {
	fields := params.ParseKV(d.PatternParams)
	pattern, err := trafficnode.ParsePattern(d.Pattern, d.PatternParams)
	if err != nil {
		return nil, fmt.Errorf("producer %q: %w", d.NodeID, err)
	}
	dest, ok := fields["dest"]
	if !ok {
		return nil, fmt.Errorf("producer %q: pattern_params missing required \"dest:<node id>\"", d.NodeID)
	}
	outPort := params.StringOr(fields, "out", "out")
	return trafficnode.NewProducer(d.NodeID, d.Stats, outPort, dest, pattern), nil
}

func newConsumerFactory(d Deps) (node.Node, error) {
	return trafficnode.NewConsumer(d.NodeID, d.Stats), nil
}

func newRoundRobinFactory(d Deps) (node.Node, error) {
	fields := params.ParseKV(d.PatternParams)
	outPort := params.StringOr(fields, "out", "out")
	proc, err := parseProcessingLatency(fields, "switch_round_robin", d.NodeID)
	if err != nil {
		return nil, err
	}
	return switchnode.NewRoundRobin(d.NodeID, d.Stats, outPort, proc), nil
}

func newRoutedFactory(d Deps) (node.Node, error) {
	fields := params.ParseKV(d.PatternParams)
	table, err := parseRoutingTable(fields["route"])
	if err != nil {
		return nil, fmt.Errorf("switch_routed %q: %w", d.NodeID, err)
	}
	proc, err := parseProcessingLatency(fields, "switch_routed", d.NodeID)
	if err != nil {
		return nil, err
	}
	return switchnode.NewRouted(d.NodeID, d.Stats, table, proc), nil
}

// parseProcessingLatency reads the shared "proc:<processing latency>"
// field both switch factories accept (defaults.go doc comment above).
// Absent means 0 (immediate readiness).
func parseProcessingLatency(fields map[string]string, nodeKind, nodeID string) (int, error) {
	v, ok := fields["proc"]
	if !ok {
		return 0, nil
	}
	proc, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s %q: invalid proc: %w", nodeKind, nodeID, err)
	}
	return proc, nil
}

// parseRoutingTable parses "dst1=out0;dst2=out1" into a map. An empty
// string is valid (an empty table; every arrival is unroutable until the
// caller wires one up programmatically via Routed.RoutingTable).
func parseRoutingTable(spec string) (map[string]string, error) {
	table := make(map[string]string)
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return table, nil
	}
	for _, pair := range strings.Split(spec, ";") {
		kv := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(kv) != 2 || kv[0] == "" || kv[1] == "" {
			return nil, fmt.Errorf("invalid route entry %q, want dest=port", pair)
		}
		table[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
	}
	return table, nil
}
