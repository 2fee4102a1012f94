/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package version carries the build version. Release builds set it with
//
//	go build -ldflags "-X memelab/internal/version.Version=1.2.3"
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version is overridden at link time.
var Version = "0.1.0-dev"

// String returns the version with the VCS revision when the binary
// carries build info.
func String() string {
	s := Version
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, kv := range bi.Settings {
			if kv.Key == "vcs.revision" && len(kv.Value) >= 7 {
				s += "+" + kv.Value[:7]
				break
			}
		}
	}
	return fmt.Sprintf("memelab %s (%s/%s, %s)", s, runtime.GOOS, runtime.GOARCH, runtime.Version())
}
