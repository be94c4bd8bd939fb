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

package phase

const (
	// DefaultSnapshotPhase is returned for snapshot versions unless overridden.
	DefaultSnapshotPhase = "0"
	// DefaultDefaultPhase is returned when no rule applies unless overridden.
	DefaultDefaultPhase = "1"
)

// Rule maps qualifiers matching Pattern to Phase.
//
// Pattern must match the whole qualifier. Phase may reference the pattern's
// capture groups, e.g. pattern "^beta-([0-9]+)$" with phase "2.$1" turns
// qualifier "beta-5" into "2.5". A nil Priority is assigned one more than
// the highest priority registered so far.
type Rule struct {
	Pattern  string `json:"pattern" yaml:"pattern"`
	Phase    string `json:"phase" yaml:"phase"`
	Priority *int   `json:"priority,omitempty" yaml:"priority,omitempty"`
}

// Config is the declarative form of an evaluator, as loaded from rule files
// or ConfigMaps. Empty phases fall back to DefaultSnapshotPhase and
// DefaultDefaultPhase.
type Config struct {
	SnapshotPhase string `json:"snapshotPhase,omitempty" yaml:"snapshotPhase,omitempty"`
	DefaultPhase  string `json:"defaultPhase,omitempty" yaml:"defaultPhase,omitempty"`
	Rules         []Rule `json:"rules,omitempty" yaml:"rules,omitempty"`
}

// DefaultConfig returns a configuration without rules: snapshots evaluate to
// "0", everything else to "1".
func DefaultConfig() Config {
	return Config{
		SnapshotPhase: DefaultSnapshotPhase,
		DefaultPhase:  DefaultDefaultPhase,
	}
}
