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

// Package logx is a small leveled-logging façade over fmt.Printf/
// fmt.Fprintf, in the same spirit as the teacher's ad hoc
// fmt.Printf("ERROR: ...") conventions (see
// internal/ratelimiter/core/worker.go) — no third-party logging library
// is introduced because the teacher never reached for one either. It
// exists only to honor spec.md §6's --log-level/--log-scope CLI surface.
package logx

import (
	"fmt"
	"os"
	"strings"
)

// Level orders from most to least verbose.
type Level int

const (
	Debug Level = iota
	Info
	Warning
	Error
	Off
)

func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return Debug, nil
	case "INFO", "":
		return Info, nil
	case "WARNING":
		return Warning, nil
	case "ERROR":
		return Error, nil
	case "OFF":
		return Off, nil
	default:
		return Info, fmt.Errorf("unknown log level: %s", s)
	}
}

// Logger gates messages by level and by an optional module-name scope
// filter ("all" or a comma-separated allowlist).
type Logger struct {
	level Level
	scope map[string]bool // nil/empty means "all"
}

// New constructs a Logger. scopeCSV is a comma-separated list of module
// names, or "all"/"" to allow every scope.
func New(level Level, scopeCSV string) *Logger {
	l := &Logger{level: level}
	scopeCSV = strings.TrimSpace(scopeCSV)
	if scopeCSV == "" || strings.EqualFold(scopeCSV, "all") {
		return l
	}
	l.scope = make(map[string]bool)
	for _, s := range strings.Split(scopeCSV, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			l.scope[s] = true
		}
	}
	return l
}

func (l *Logger) allowed(module string, lvl Level) bool {
	if l.level == Off || lvl < l.level {
		return false
	}
	if l.scope == nil {
		return true
	}
	return l.scope[module]
}

func (l *Logger) log(module string, lvl Level, tag, format string, args ...any) {
	if !l.allowed(module, lvl) {
		return
	}
	w := os.Stdout
	if lvl >= Error {
		w = os.Stderr
	}
	fmt.Fprintf(w, "%s [%s] %s\n", tag, module, fmt.Sprintf(format, args...))
}

func (l *Logger) Debugf(module, format string, args ...any)   { l.log(module, Debug, "DEBUG", format, args...) }
func (l *Logger) Infof(module, format string, args ...any)    { l.log(module, Info, "INFO", format, args...) }
func (l *Logger) Warningf(module, format string, args ...any) { l.log(module, Warning, "WARNING", format, args...) }
func (l *Logger) Errorf(module, format string, args ...any)   { l.log(module, Error, "ERROR", format, args...) }
