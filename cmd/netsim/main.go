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

// netsim is the CLI entry point for the cycle-accurate network
// simulator core. It loads a nodes table and a connections table (both
// CSV, spec.md §6), builds a Simulator from them, runs it for a fixed
// number of cycles, and prints a final counters summary.
//
// Grounded on cmd/ratelimiter-api/main.go's flag-parsing and lifecycle
// shape: parse flags, build the core components, run, then print a
// single end-of-run summary. Unlike the rate limiter demo there is no
// live HTTP traffic and no graceful-shutdown signal handling to wire up,
// since a simulation run is a fixed, finite batch job, not a long-running
// service — unless --metrics-addr is set, in which case a background
// /metrics server is started for the duration of the run.
package main

import (
	"flag"
	"fmt"
	"os"

	"netsim/internal/netsim/config"
	"netsim/internal/netsim/logx"
	"netsim/internal/netsim/registry"
	"netsim/internal/netsim/stats"
	"netsim/pkg/netsim/sim"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "netsim: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		nodesPath   = flag.String("nodes", "", "Path to the nodes CSV table (required)")
		connsPath   = flag.String("connections", "", "Path to the connections CSV table (required)")
		inputsPath  = flag.String("inputs", "", "Directory to resolve user node kinds from (unused by the reference kinds; reserved for user-supplied plugins)")
		cycles      = flag.Int("cycles", 10, "Number of cycles to run (must be > 0)")
		logLevel    = flag.String("log-level", "INFO", "Log level: DEBUG, INFO, WARNING, ERROR, OFF")
		logScope    = flag.String("log-scope", "all", "Comma-separated module name filter, or \"all\"")
		statsSink   = flag.String("stats-sink", "stdout", "Stats sink: stdout, redis, or none")
		redisAddr   = flag.String("redis-addr", "", "Redis address for --stats-sink=redis (e.g. 127.0.0.1:6379); empty uses a dependency-free logging stand-in")
		metricsAddr = flag.String("metrics-addr", "", "If non-empty, expose Prometheus /metrics on this address (e.g. :9090)")
	)
	flag.Parse()

	if *nodesPath == "" || *connsPath == "" {
		flag.Usage()
		return fmt.Errorf("--nodes and --connections are required")
	}
	if *cycles <= 0 {
		return fmt.Errorf("--cycles must be a positive integer, got %d", *cycles)
	}

	level, err := logx.ParseLevel(*logLevel)
	if err != nil {
		return err
	}
	log := logx.New(level, *logScope)
	_ = inputsPath // reserved: the reference kinds need no external plugin directory

	log.Infof("cmd/netsim", "loading nodes table from %s", *nodesPath)
	nodeSpecs, err := config.LoadNodes(*nodesPath)
	if err != nil {
		return fmt.Errorf("loading nodes table: %w", err)
	}

	known := make(map[string]bool, len(nodeSpecs))
	for _, n := range nodeSpecs {
		known[n.NodeID] = true
	}

	log.Infof("cmd/netsim", "loading connections table from %s", *connsPath)
	connSpecs, err := config.LoadConnections(*connsPath, known)
	if err != nil {
		return fmt.Errorf("loading connections table: %w", err)
	}

	collector, err := stats.NewCollectorFromOptions(stats.Options{
		Sink:        *statsSink,
		RedisAddr:   *redisAddr,
		MetricsAddr: *metricsAddr,
	})
	if err != nil {
		return fmt.Errorf("building stats collector: %w", err)
	}

	reg := registry.New()
	registry.RegisterDefaults(reg)

	log.Infof("cmd/netsim", "building simulator: %d nodes, %d connections", len(nodeSpecs), len(connSpecs))
	simulator, err := sim.Build(nodeSpecs, connSpecs, reg, collector)
	if err != nil {
		return fmt.Errorf("building simulator: %w", err)
	}
	simulator.WithMaxCycles(*cycles)

	if err := simulator.Setup(); err != nil {
		return fmt.Errorf("simulator setup: %w", err)
	}

	log.Infof("cmd/netsim", "running %d cycles", *cycles)
	runErr := simulator.Run()

	simulator.Teardown()

	if runErr != nil {
		return fmt.Errorf("simulator run: %w", runErr)
	}
	return nil
}
