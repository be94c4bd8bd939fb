// Package version decomposes free-form version strings into numeric
// components and a qualifier for release phase evaluation.
//
// # Overview
//
// Parse never fails. It scans the input once, left to right, and captures up
// to three dot-separated digit runs as major, minor and micro. Everything
// after that is the qualifier:
//
//	"1"                 major=1
//	"1.0.0"             major=1 minor=0 micro=0
//	"1.0.0-beta-5"      major=1 minor=0 micro=0 qualifier="beta-5"
//	"1.0.0.0.0"         major=1 minor=0 micro=0 qualifier="0.0"
//	"1.Final"           major=1 qualifier="Final"
//	"-1"                qualifier="1"
//
// Components that do not appear in the input stay nil; they are never
// defaulted to zero. Use MajorOrZero and friends where a number is needed.
//
// # Snapshots
//
// A version whose qualifier ends with the literal, case-sensitive suffix
// "SNAPSHOT" is a snapshot (pre-release) build:
//
//	version.Parse("1.0-SNAPSHOT").IsSnapshot() // true
//	version.Parse("1.0-snapshot").IsSnapshot() // false
//
// # Scope
//
// The package does not validate against semantic versioning and does not
// compare or order versions. Only ASCII digits, '.' and '-' are
// significant; any other byte is qualifier text.
package version
