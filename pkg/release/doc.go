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

// Package release turns a version string into release phase properties.
//
// It is the glue between configuration and the core packages: it parses the
// version with the version package, builds a phase.Evaluator from a
// phase.Config and names the result the way build tooling expects, as a
// property "<prefix>.phase" (or plain "phase" when the prefix is empty).
//
// One-shot evaluation, as done by the CLI:
//
//	opts := release.NewOptions("1.0.0-beta-5")
//	opts.Config.Rules = []phase.Rule{{Pattern: "beta-([0-9]+)", Phase: "2.$1"}}
//	res, err := release.Evaluate(opts)
//	// res.Properties["releasePhase.phase"] == "2.5"
//
// Long-running hosts build the evaluator once and share it through Handler,
// which serves GET /v1/phase, GET /v1/version and GET /v1/rules.
package release
