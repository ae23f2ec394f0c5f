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
	"context"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PromSink mirrors every counter, cycle-activity series, and interval
// counter into a dedicated Prometheus registry, and optionally exposes
// it over HTTP. Grounded on the teacher's
// internal/ratelimiter/telemetry/churn package, which registers a fixed
// set of prometheus.Counter/Gauge/Histogram metrics; this sink instead
// creates one metric per registered stats name, since node kinds pick
// their own counter names at Setup time rather than the teacher's fixed
// vocabulary.
//
// A private *prometheus.Registry is used instead of the global default
// registry so that multiple Collectors (e.g. one per test) never
// collide on metric names.
type PromSink struct {
	registry *prometheus.Registry
	counters map[string]prometheus.Counter
	gauges   map[string]prometheus.Gauge
	hists    map[string]prometheus.Histogram

	server *http.Server
}

var invalidMetricChars = regexp.MustCompile(`[^a-zA-Z0-9_:]`)

func sanitizeMetricName(prefix, name string) string {
	return prefix + invalidMetricChars.ReplaceAllString(name, "_")
}

// NewPromSink constructs a sink with its own registry. If addr is
// non-empty, a background HTTP server exposes /metrics on addr, matching
// the teacher's --metrics_addr flag behavior (churn.Config.MetricsAddr).
func NewPromSink(addr string) *PromSink {
	s := &PromSink{
		registry: prometheus.NewRegistry(),
		counters: make(map[string]prometheus.Counter),
		gauges:   make(map[string]prometheus.Gauge),
		hists:    make(map[string]prometheus.Histogram),
	}
	if addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
		s.server = &http.Server{Addr: addr, Handler: mux}
		go func() {
			if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				fmt.Printf("stats: prometheus metrics server on %s stopped: %v\n", addr, err)
			}
		}()
	}
	return s
}

func (s *PromSink) OnRegisterCounter(name string) {
	c := prometheus.NewCounter(prometheus.CounterOpts{
		Name: sanitizeMetricName("netsim_counter_", name),
		Help: fmt.Sprintf("netsim counter %q", name),
	})
	s.registry.MustRegister(c)
	s.counters[name] = c
}

func (s *PromSink) OnCounter(name string, amount, _ int64) {
	if c, ok := s.counters[name]; ok && amount > 0 {
		c.Add(float64(amount))
	}
}

func (s *PromSink) OnRegisterCycleStats(name string) {
	g := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: sanitizeMetricName("netsim_cycle_active_", name),
		Help: fmt.Sprintf("1 if cycle-stats series %q was active on the most recent recorded cycle, else 0", name),
	})
	s.registry.MustRegister(g)
	s.gauges[name] = g
}

func (s *PromSink) OnCycleStat(name string, _ int, active bool) {
	g, ok := s.gauges[name]
	if !ok {
		return
	}
	if active {
		g.Set(1)
	} else {
		g.Set(0)
	}
}

func (s *PromSink) OnRegisterInterval(name string, _ int) {
	h := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    sanitizeMetricName("netsim_interval_", name),
		Help:    fmt.Sprintf("netsim interval-counter increments for %q", name),
		Buckets: prometheus.ExponentialBuckets(1, 2, 16),
	})
	s.registry.MustRegister(h)
	s.hists[name] = h
}

func (s *PromSink) OnIntervalBucket(name string, _ int, amount, _ int64) {
	if h, ok := s.hists[name]; ok && amount > 0 {
		h.Observe(float64(amount))
	}
}

// Close shuts down the metrics HTTP server, if one was started.
func (s *PromSink) Close() {
	if s.server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = s.server.Shutdown(ctx)
}
