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

// Package params parses the small "key:value,key:value" grammar carried
// in the nodes table's pattern_params column (spec.md §6). It is shared
// by every node kind's factory so that a single CSV column doubles as
// free-form per-kind configuration: traffic pattern knobs for Producer,
// output-port and routing-table overrides for the reference switches.
package params

import "strings"

// ParseKV splits a "k1:v1,k2:v2" string into a lookup map. Empty or
// malformed segments are skipped rather than rejected, since an absent
// key is how a factory detects "use the default".
func ParseKV(s string) map[string]string {
	out := make(map[string]string)
	for _, part := range strings.Split(s, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(kv) == 2 {
			k := strings.ToLower(strings.TrimSpace(kv[0]))
			if k != "" {
				out[k] = strings.TrimSpace(kv[1])
			}
		}
	}
	return out
}

// StringOr returns fields[key] if present, otherwise def.
func StringOr(fields map[string]string, key, def string) string {
	if v, ok := fields[key]; ok && v != "" {
		return v
	}
	return def
}
