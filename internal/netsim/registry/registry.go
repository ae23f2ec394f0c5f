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

// Package registry implements the process-wide kind registry spec.md §9
// re-expresses in place of the reference implementation's dynamic
// (module, class) -> Python class loading: concrete node kinds register a
// factory under a (module, class) key at process startup (via an init()
// or an explicit Register call in cmd/netsim/main.go), and the Simulator
// resolves node rows against this registry at build time. This removes
// runtime reflection/dynamic loading while preserving the ability to add
// node kinds without touching the simulator core.
//
// Grounded on internal/ratelimiter/persistence/factory.go's string-keyed
// adapter selector (BuildPersister), generalized from a flat string key
// to a (module, class) pair.
package registry

import (
	"fmt"

	"netsim/pkg/netsim/node"
)

// Deps carries everything a factory needs to build one node instance.
// Ports are attached separately, after construction, by the Simulator's
// build phase.
type Deps struct {
	NodeID        string
	Stats         node.Stats
	Pattern       string
	PatternParams string
}

// Factory constructs a fresh, unwired node instance.
type Factory func(Deps) (node.Node, error)

// Registry is a process-wide (module, class) -> Factory lookup.
type Registry struct {
	factories map[string]Factory
}

// New constructs an empty Registry.
func New() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

func key(module, class string) string { return module + "/" + class }

// Register binds a factory to (module, class). Re-registering the same
// pair is a fatal configuration error: it almost always means two node
// kinds were compiled in under the same name.
func (r *Registry) Register(module, class string, f Factory) {
	k := key(module, class)
	if _, exists := r.factories[k]; exists {
		panic(fmt.Sprintf("registry: (%s, %s) already registered", module, class))
	}
	r.factories[k] = f
}

// Create resolves (module, class) and builds a fresh node instance.
// An unresolvable kind is a configuration error (spec §7), returned as an
// error rather than a panic since it originates from user-supplied CSV
// data, not a wiring bug.
func (r *Registry) Create(module, class string, deps Deps) (node.Node, error) {
	f, ok := r.factories[key(module, class)]
	if !ok {
		return nil, fmt.Errorf("registry: unresolvable node kind (module=%q, class=%q)", module, class)
	}
	return f(deps)
}
