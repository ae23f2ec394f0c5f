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

	redis "github.com/redis/go-redis/v9"
)

// Evaler abstracts the minimal Redis surface this sink needs, mirroring
// the teacher's persistence.RedisEvaler split between a real client and a
// dependency-free logging stand-in (internal/ratelimiter/persistence/clients.go).
type Evaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) (interface{}, error)
}

// LoggingEvaler is the dependency-free stand-in used when no Redis
// address is configured: it logs what would have been evaluated instead
// of requiring a live Redis instance for a demo/test run.
type LoggingEvaler struct{}

func (LoggingEvaler) Eval(_ context.Context, script string, keys []string, args ...interface{}) (interface{}, error) {
	fmt.Printf("[stats-redis-demo] EVAL script(len=%d) KEYS=%v ARGS=%v\n", len(script), keys, args)
	return int64(1), nil
}

// GoRedisEvaler wraps a real github.com/redis/go-redis/v9 client.
type GoRedisEvaler struct{ c *redis.Client }

// NewGoRedisEvaler dials addr (e.g. "127.0.0.1:6379") lazily; go-redis
// connects on first command.
func NewGoRedisEvaler(addr string) *GoRedisEvaler {
	return &GoRedisEvaler{c: redis.NewClient(&redis.Options{Addr: addr})}
}

func (g *GoRedisEvaler) Eval(ctx context.Context, script string, keys []string, args ...interface{}) (interface{}, error) {
	return g.c.Eval(ctx, script, keys, args...).Result()
}

// bumpScript idempotently applies a counter delta exactly once per
// marker key: a SETNX'd marker guards the HINCRBY, so replaying a bump
// under the same marker key never double-counts, mirroring
// persistence/redis.go's commit-marker pattern. Marker keys are the
// stats name plus the sink's running sequence number (see markerKey).
const bumpScript = `
local counterKey = KEYS[1]
local markerKey = KEYS[2]
local amount = tonumber(ARGV[1])
if redis.call('SETNX', markerKey, 1) == 1 then
  redis.call('HINCRBY', counterKey, 'value', amount)
  redis.call('EXPIRE', markerKey, 86400)
  return 1
end
return 0
`

// RedisSink pushes counter and interval-bucket totals to Redis hashes
// keyed by stats name, idempotently per (name, cycle-ish sequence
// number). It does not mirror cycle-activity booleans: those are
// high-frequency and intended for local Prometheus gauges, not a shared
// store.
type RedisSink struct {
	client Evaler
	seq    int64
}

// NewRedisSink constructs a sink backed by client.
func NewRedisSink(client Evaler) *RedisSink {
	return &RedisSink{client: client}
}

func (s *RedisSink) counterKey(name string) string { return fmt.Sprintf("netsim:counter:%s", name) }
func (s *RedisSink) markerKey(name string) string {
	s.seq++
	return fmt.Sprintf("netsim:marker:%s:%d", name, s.seq)
}

func (s *RedisSink) bump(name string, amount int64) {
	if amount == 0 {
		return
	}
	keys := []string{s.counterKey(name), s.markerKey(name)}
	if _, err := s.client.Eval(context.Background(), bumpScript, keys, amount); err != nil {
		fmt.Printf("stats: redis sink: bump %s: %v\n", name, err)
	}
}

func (s *RedisSink) OnRegisterCounter(string)                          {}
func (s *RedisSink) OnCounter(name string, amount, _ int64)            { s.bump(name, amount) }
func (s *RedisSink) OnRegisterCycleStats(string)                       {}
func (s *RedisSink) OnCycleStat(string, int, bool)                     {}
func (s *RedisSink) OnRegisterInterval(string, int)                    {}
func (s *RedisSink) OnIntervalBucket(name string, bucketStart int, amount, _ int64) {
	s.bump(fmt.Sprintf("%s:bucket:%d", name, bucketStart), amount)
}

func (s *RedisSink) Close() {}
