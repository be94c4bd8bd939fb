// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

// Package api wires the release phase HTTP API.
//
// Usage:
//
//	func main() {
//	    if err := api.Serve(); err != nil {
//	        log.Fatalf("server error: %v", err)
//	    }
//	}
//
// The API layer configures structured logging, loads and compiles the rule
// set once, and registers the release handlers. Server lifecycle,
// middleware, health and metrics live in pkg/server.
//
// # Endpoints
//
//   - GET /v1/phase?version=1.0.0-beta-5  - Evaluate the release phase
//   - GET /v1/version?version=1.0.0.Final - Show the parsed version
//   - GET /v1/rules                       - Show the effective rule set
//   - GET /health, /ready, /metrics       - System endpoints
//
// # Configuration
//
//   - RELPHASE_RULES: rule set location (file, http(s) URL or cm://namespace/name)
//   - RELPHASE_PREFIX: property prefix (default releasePhase)
//   - RELPHASE_DEFAULT_PHASE, RELPHASE_SNAPSHOT_PHASE: fallback overrides
//   - PORT: HTTP server port (default: 8080)
//   - LOG_LEVEL: Logging level (debug, info, warn, error)
//
// Version information is set at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/release-phase/pkg/api.version=1.0.0'"
package api
