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

package release

import (
	"log/slog"

	"github.com/NVIDIA/release-phase/pkg/header"
	"github.com/NVIDIA/release-phase/pkg/phase"
	"github.com/NVIDIA/release-phase/pkg/version"
)

const (
	// DefaultPrefix is prepended to property names unless overridden.
	DefaultPrefix = "releasePhase"

	// PhaseProperty is the name of the phase property.
	PhaseProperty = "phase"
)

// Options describes a single evaluation.
type Options struct {
	// Version is the raw version string, e.g. "1.0.0-beta-5".
	Version string
	// Prefix is prepended to property names; empty means no prefix.
	Prefix string
	// Config holds the fallback phases and rules.
	Config phase.Config
}

// NewOptions returns Options for v with the default prefix and a rule-less
// default configuration.
func NewOptions(v string) Options {
	return Options{
		Version: v,
		Prefix:  DefaultPrefix,
		Config:  phase.DefaultConfig(),
	}
}

// Result is the outcome of an evaluation.
type Result struct {
	header.Header `json:",inline" yaml:",inline"`

	Version    string            `json:"version" yaml:"version"`
	Parsed     version.Version   `json:"parsed" yaml:"parsed"`
	Phase      string            `json:"phase" yaml:"phase"`
	Reason     phase.Reason      `json:"reason" yaml:"reason"`
	Rule       *phase.Rule       `json:"rule,omitempty" yaml:"rule,omitempty"`
	Properties map[string]string `json:"properties" yaml:"properties"`
}

// PropertyMap returns the properties to publish, so that a Result written in
// properties format or to a ConfigMap carries only the phase.
func (r *Result) PropertyMap() map[string]string {
	return r.Properties
}

// PropertyKey returns the property name for name under prefix.
func PropertyKey(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// Evaluate parses opts.Version and evaluates it against opts.Config.
// A malformed rule is returned as an error; no phase is produced.
func Evaluate(opts Options) (*Result, error) {
	ev, err := phase.NewEvaluator(opts.Config)
	if err != nil {
		configErrors.Inc()
		return nil, err
	}
	return Resolve(ev, opts.Version, opts.Prefix), nil
}

// Resolve evaluates raw against an existing evaluator.
func Resolve(ev *phase.Evaluator, raw, prefix string) *Result {
	v := version.Parse(raw)
	explained := ev.Explain(v)
	evaluationsTotal.WithLabelValues(string(explained.Reason)).Inc()

	key := PropertyKey(prefix, PhaseProperty)
	slog.Info("release phase evaluated",
		"version", raw,
		"phase", explained.Phase,
		"reason", explained.Reason,
		"property", key)
	slog.Debug("parsed version", "parsed", v)

	res := &Result{
		Version:    raw,
		Parsed:     v,
		Phase:      explained.Phase,
		Reason:     explained.Reason,
		Rule:       explained.Rule,
		Properties: map[string]string{key: explained.Phase},
	}
	res.Init(header.KindReleasePhase, header.APIVersion, "")
	return res
}
