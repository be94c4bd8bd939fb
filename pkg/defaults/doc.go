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

// Package defaults provides centralized configuration constants for the
// release phase tools.
//
// # Timeout Categories
//
//   - Handler timeouts: for HTTP request processing
//   - Server timeouts: for HTTP server configuration
//   - Kubernetes timeouts: for ConfigMap reads and writes
//   - HTTP client timeouts: for fetching remote rule files
//
// # Usage
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.ConfigMapReadTimeout)
//	defer cancel()
package defaults
