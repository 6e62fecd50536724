// Copyright 2025 tir-schedule Authors
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

// Package xlog is a thin, env-gated wrapper around log.Printf used for
// schedule-primitive debug tracing. It is off by default; set
// TIRSCHED_DEBUG=1 to turn it on.
package xlog

import (
	"log"
	"os"
)

var enabled = os.Getenv("TIRSCHED_DEBUG") != ""

// Enabled reports whether debug logging is turned on.
func Enabled() bool { return enabled }

// Debugf logs format/args via log.Printf if debug logging is enabled.
func Debugf(format string, args ...any) {
	if enabled {
		log.Printf(format, args...)
	}
}

// Warnf logs a non-fatal schedule-primitive warning via log.Printf,
// unconditionally (unlike Debugf, warnings are not gated behind
// TIRSCHED_DEBUG).
func Warnf(format string, args ...any) {
	log.Printf("WARN: "+format, args...)
}
