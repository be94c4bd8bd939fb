// Package phase maps parsed versions to release phases through prioritized,
// regular-expression rules.
//
// # Overview
//
// A release phase is a short token, typically used as the release number of
// an RPM or similar package. Snapshots and versions without a qualifier get
// fixed fallback phases; everything else is classified by the first rule
// whose pattern matches the whole qualifier.
//
//	b := phase.NewBuilder().DefaultPhase("3")
//	if err := b.AddRule("1", `^alpha-[0-9]+$`); err != nil {
//	    return err
//	}
//	if err := b.AddRule("2.$1", `^beta-([0-9]+)$`); err != nil {
//	    return err
//	}
//	e := b.Build()
//
//	e.Eval(version.Parse("1.0.0-SNAPSHOT")) // "0"
//	e.Eval(version.Parse("1.0.0-alpha-1"))  // "1"
//	e.Eval(version.Parse("1.0.0-beta-5"))   // "2.5"
//	e.Eval(version.Parse("1.0.0"))          // "3"
//
// # Priorities
//
// Rules are tried in ascending priority; equal priorities keep registration
// order. A rule registered without a priority gets one more than the highest
// priority registered before it, so after a rule with priority 10 the next
// unprioritized rule gets 11.
//
// # Templates
//
// The phase of a rule is a template over the pattern's capture groups:
// $1 or ${1} for numbered groups, ${name} for named groups and a backslash
// to escape a literal character. Templates are checked against their
// pattern when the rule is registered, so evaluation never fails.
//
// # Patterns
//
// Patterns use RE2 syntax (package regexp). Backreferences and lookaround
// are not supported and are rejected at registration.
//
// # Concurrency
//
// Builder is single-owner. An Evaluator is immutable once built and may be
// shared by any number of goroutines.
package phase
