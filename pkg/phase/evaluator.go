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

import (
	"cmp"
	"fmt"
	"log/slog"
	"regexp"
	"slices"

	"k8s.io/utils/ptr"

	"github.com/NVIDIA/release-phase/pkg/errors"
	"github.com/NVIDIA/release-phase/pkg/version"
)

// Reason tells which branch of the evaluation produced a phase.
type Reason string

const (
	// ReasonSnapshot means the version is a snapshot; rules were not consulted.
	ReasonSnapshot Reason = "snapshot"
	// ReasonNoQualifier means the version has no qualifier to match.
	ReasonNoQualifier Reason = "no-qualifier"
	// ReasonRule means a rule matched the qualifier.
	ReasonRule Reason = "rule"
	// ReasonNoMatch means no rule matched the qualifier.
	ReasonNoMatch Reason = "no-match"
)

// Result is an evaluated phase together with how it was reached.
type Result struct {
	Phase  string `json:"phase" yaml:"phase"`
	Reason Reason `json:"reason" yaml:"reason"`
	// Rule is the matching rule, with its effective priority, when Reason is ReasonRule.
	Rule *Rule `json:"rule,omitempty" yaml:"rule,omitempty"`
}

type entry struct {
	priority int
	pattern  string
	phase    string
	re       *regexp.Regexp
	tmpl     *template
}

func (e entry) rule() Rule {
	return Rule{Pattern: e.pattern, Phase: e.phase, Priority: ptr.To(e.priority)}
}

// Builder collects the fallback phases and rules of an Evaluator.
// A Builder is not safe for concurrent use.
type Builder struct {
	snapshotPhase string
	defaultPhase  string
	maxPriority   int
	entries       []entry
}

// NewBuilder returns a Builder with the default fallback phases and no rules.
func NewBuilder() *Builder {
	return &Builder{
		snapshotPhase: DefaultSnapshotPhase,
		defaultPhase:  DefaultDefaultPhase,
	}
}

// SnapshotPhase sets the phase returned for snapshot versions.
func (b *Builder) SnapshotPhase(phase string) *Builder {
	b.snapshotPhase = phase
	return b
}

// DefaultPhase sets the phase returned when no rule applies.
func (b *Builder) DefaultPhase(phase string) *Builder {
	b.defaultPhase = phase
	return b
}

// AddRule registers a rule with the next free priority, one above the
// highest priority seen so far.
func (b *Builder) AddRule(phase, pattern string) error {
	return b.add(phase, pattern, b.maxPriority+1)
}

// AddRuleWithPriority registers a rule with an explicit priority. Lower
// priorities are evaluated first; equal priorities keep registration order.
func (b *Builder) AddRuleWithPriority(phase, pattern string, priority int) error {
	return b.add(phase, pattern, priority)
}

func (b *Builder) add(phase, pattern string, priority int) error {
	ctx := map[string]any{
		"pattern":  pattern,
		"phase":    phase,
		"priority": priority,
	}

	if _, err := regexp.Compile(pattern); err != nil {
		return errors.WrapWithContext(errors.ErrCodeInvalidConfig, "invalid phase rule pattern", err, ctx)
	}

	// Anchor the pattern so that only whole-qualifier matches count.
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return errors.WrapWithContext(errors.ErrCodeInvalidConfig, "invalid phase rule pattern", err, ctx)
	}

	tmpl, err := compileTemplate(phase, re)
	if err != nil {
		return errors.WrapWithContext(errors.ErrCodeInvalidConfig, "invalid phase rule template", err, ctx)
	}

	b.maxPriority = max(b.maxPriority, priority)
	b.entries = append(b.entries, entry{
		priority: priority,
		pattern:  pattern,
		phase:    phase,
		re:       re,
		tmpl:     tmpl,
	})

	slog.Debug("phase rule registered", "pattern", pattern, "phase", phase, "priority", priority)
	return nil
}

// Build returns an Evaluator for the current configuration. Later changes
// to the Builder do not affect evaluators that were already built.
func (b *Builder) Build() *Evaluator {
	entries := slices.Clone(b.entries)
	slices.SortStableFunc(entries, func(x, y entry) int {
		return cmp.Compare(x.priority, y.priority)
	})
	return &Evaluator{
		snapshotPhase: b.snapshotPhase,
		defaultPhase:  b.defaultPhase,
		entries:       entries,
	}
}

// Evaluator reduces versions to release phases. It is immutable and safe
// for concurrent use.
type Evaluator struct {
	snapshotPhase string
	defaultPhase  string
	entries       []entry
}

// NewEvaluator builds an Evaluator from a declarative configuration. Rules
// are registered in order; the first invalid rule aborts construction.
func NewEvaluator(cfg Config) (*Evaluator, error) {
	b := NewBuilder()
	if cfg.SnapshotPhase != "" {
		b.SnapshotPhase(cfg.SnapshotPhase)
	}
	if cfg.DefaultPhase != "" {
		b.DefaultPhase(cfg.DefaultPhase)
	}

	for i, r := range cfg.Rules {
		var err error
		if r.Priority != nil {
			err = b.AddRuleWithPriority(r.Phase, r.Pattern, *r.Priority)
		} else {
			err = b.AddRule(r.Phase, r.Pattern)
		}
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
	}

	return b.Build(), nil
}

// Eval returns the release phase of v:
//   - the snapshot phase for snapshot versions,
//   - the default phase when v has no qualifier,
//   - the expanded phase of the first rule, by priority, whose pattern
//     matches the whole qualifier,
//   - the default phase when no rule matches.
func (e *Evaluator) Eval(v version.Version) string {
	return e.Explain(v).Phase
}

// Explain evaluates v like Eval and reports which branch decided.
func (e *Evaluator) Explain(v version.Version) Result {
	if v.IsSnapshot() {
		return Result{Phase: e.snapshotPhase, Reason: ReasonSnapshot}
	}

	if v.Qualifier == nil {
		return Result{Phase: e.defaultPhase, Reason: ReasonNoQualifier}
	}

	q := *v.Qualifier
	for _, en := range e.entries {
		m := en.re.FindStringSubmatchIndex(q)
		if m == nil {
			continue
		}
		r := en.rule()
		return Result{
			Phase:  en.tmpl.expand(q, m),
			Reason: ReasonRule,
			Rule:   &r,
		}
	}

	return Result{Phase: e.defaultPhase, Reason: ReasonNoMatch}
}

// SnapshotPhase returns the phase used for snapshot versions.
func (e *Evaluator) SnapshotPhase() string { return e.snapshotPhase }

// DefaultPhase returns the phase used when no rule applies.
func (e *Evaluator) DefaultPhase() string { return e.defaultPhase }

// Rules returns the registered rules in evaluation order, each with its
// effective priority.
func (e *Evaluator) Rules() []Rule {
	rules := make([]Rule, 0, len(e.entries))
	for _, en := range e.entries {
		rules = append(rules, en.rule())
	}
	return rules
}

// Config returns the declarative form of e. Feeding it back to NewEvaluator
// yields an equivalent Evaluator.
func (e *Evaluator) Config() Config {
	return Config{
		SnapshotPhase: e.snapshotPhase,
		DefaultPhase:  e.defaultPhase,
		Rules:         e.Rules(),
	}
}
