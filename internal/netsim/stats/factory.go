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

import "fmt"

// Options configures which sinks NewCollectorFromOptions attaches.
// Grounded on internal/ratelimiter/persistence/factory.go's adapter
// selector pattern: pick a backend by name, default to a dependency-free
// one, fail fast on an unknown name.
type Options struct {
	// Sink selects the external mirror: "stdout" (default), "redis", or
	// "none" (no stdout summary, useful for test code).
	Sink string
	// RedisAddr, if non-empty, makes the "redis" sink use a real
	// github.com/redis/go-redis/v9 client instead of the logging stand-in.
	RedisAddr string
	// MetricsAddr, if non-empty, always starts a Prometheus /metrics
	// endpoint in addition to whichever Sink is selected.
	MetricsAddr string
}

// NewCollectorFromOptions builds a Collector wired with the sinks opts
// selects.
func NewCollectorFromOptions(opts Options) (*Collector, error) {
	var sinks []Sink

	switch opts.Sink {
	case "", "stdout":
		sinks = append(sinks, NewStdoutSink())
	case "none":
	case "redis":
		var evaler Evaler
		if opts.RedisAddr != "" {
			evaler = NewGoRedisEvaler(opts.RedisAddr)
		} else {
			evaler = LoggingEvaler{}
		}
		sinks = append(sinks, NewRedisSink(evaler))
	default:
		return nil, fmt.Errorf("unknown stats sink: %s", opts.Sink)
	}

	if opts.MetricsAddr != "" {
		sinks = append(sinks, NewPromSink(opts.MetricsAddr))
	}

	return NewCollector(sinks...), nil
}
