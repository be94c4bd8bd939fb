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

package version

import (
	"log/slog"
	"strconv"
	"strings"
)

// SnapshotSuffix marks a qualifier as a pre-release build.
const SnapshotSuffix = "SNAPSHOT"

// Version is a version string decomposed into up to three numeric
// components and a free-form qualifier. Components that were not present
// in the input are nil rather than zero.
type Version struct {
	Major *int `json:"major,omitempty" yaml:"major,omitempty"`
	Minor *int `json:"minor,omitempty" yaml:"minor,omitempty"`
	Micro *int `json:"micro,omitempty" yaml:"micro,omitempty"`

	// Qualifier is everything after the numeric components, e.g. "Final",
	// "beta-5" or "0-SNAPSHOT" for "1.0.0.0-SNAPSHOT".
	Qualifier *string `json:"qualifier,omitempty" yaml:"qualifier,omitempty"`
}

// IsSnapshot reports whether the qualifier ends with SNAPSHOT.
// The check is case-sensitive.
func (v Version) IsSnapshot() bool {
	return v.Qualifier != nil && strings.HasSuffix(*v.Qualifier, SnapshotSuffix)
}

// MajorOrZero returns the major component, or 0 when it is unset.
func (v Version) MajorOrZero() int { return orZero(v.Major) }

// MinorOrZero returns the minor component, or 0 when it is unset.
func (v Version) MinorOrZero() int { return orZero(v.Minor) }

// MicroOrZero returns the micro component, or 0 when it is unset.
func (v Version) MicroOrZero() int { return orZero(v.Micro) }

// QualifierOrEmpty returns the qualifier, or "" when it is unset.
func (v Version) QualifierOrEmpty() string {
	if v.Qualifier == nil {
		return ""
	}
	return *v.Qualifier
}

// String renders the components that are set, numeric parts joined with
// dots and the qualifier after a dash. It is meant for diagnostics; two
// different inputs may render the same.
func (v Version) String() string {
	var b strings.Builder
	for _, n := range []*int{v.Major, v.Minor, v.Micro} {
		if n == nil {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strconv.Itoa(*n))
	}
	if v.Qualifier != nil {
		if b.Len() > 0 {
			b.WriteByte('-')
		}
		b.WriteString(*v.Qualifier)
	}
	return b.String()
}

// LogValue implements slog.LogValuer so that only the components that are
// set show up in structured logs.
func (v Version) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, 4)
	if v.Major != nil {
		attrs = append(attrs, slog.Int("major", *v.Major))
	}
	if v.Minor != nil {
		attrs = append(attrs, slog.Int("minor", *v.Minor))
	}
	if v.Micro != nil {
		attrs = append(attrs, slog.Int("micro", *v.Micro))
	}
	if v.Qualifier != nil {
		attrs = append(attrs, slog.String("qualifier", *v.Qualifier))
	}
	return slog.GroupValue(attrs...)
}

func orZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// state is the scanner state: numeric tokens first, then the qualifier.
type state int

const (
	stateNumeric state = iota
	stateQualifier
)

// class is the character class driving a transition.
type class int

const (
	classDigit class = iota
	classDot
	classDash
	classOther
)

func classify(c byte) class {
	switch {
	case c >= '0' && c <= '9':
		return classDigit
	case c == '.':
		return classDot
	case c == '-':
		return classDash
	default:
		return classOther
	}
}

// maxNumericTokens is the number of dot-separated numeric tokens captured
// before the rest of the input becomes qualifier text.
const maxNumericTokens = 3

type action func(p *parser, c byte)

// actions is the transition table, indexed by state and character class.
var actions = [2][4]action{
	stateNumeric: {
		classDigit: appendChar,
		classDot:   closeOnDot,
		classDash:  closeOnDash,
		classOther: closeOnOther,
	},
	stateQualifier: {
		classDigit: appendChar,
		classDot:   appendChar,
		classDash:  appendChar,
		classOther: appendChar,
	},
}

type parser struct {
	state state
	tok   int
	buf   strings.Builder

	major, minor, micro *int
}

func appendChar(p *parser, c byte) {
	p.buf.WriteByte(c)
}

func closeOnDot(p *parser, _ byte) {
	p.closeToken()
	if p.tok >= maxNumericTokens {
		p.state = stateQualifier
	}
}

// closeOnDash drops the dash: it is the conventional separator between the
// numeric part and the qualifier.
func closeOnDash(p *parser, _ byte) {
	p.closeToken()
	p.state = stateQualifier
}

func closeOnOther(p *parser, c byte) {
	p.closeToken()
	p.buf.WriteByte(c)
	p.state = stateQualifier
}

// closeToken assigns the buffered digits to the component selected by the
// token index and advances it. Tokens past micro are dropped.
func (p *parser) closeToken() {
	n := toInt(p.buf.String())
	switch p.tok {
	case 0:
		p.major = n
	case 1:
		p.minor = n
	case 2:
		p.micro = n
	}
	p.tok++
	p.buf.Reset()
}

func (p *parser) finish() Version {
	v := Version{}
	if p.state == stateQualifier {
		if p.buf.Len() > 0 {
			q := p.buf.String()
			v.Qualifier = &q
		}
	} else {
		p.closeToken()
	}
	v.Major, v.Minor, v.Micro = p.major, p.minor, p.micro
	return v
}

// toInt returns nil for an empty buffer. Buffers only ever hold ASCII
// digits, so the only possible failure is overflow, which also yields nil.
func toInt(s string) *int {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// Parse decomposes raw into a Version. It never fails: any input, including
// the empty string, yields a Version, possibly with every field unset.
//
// The first three dot-separated digit runs become major, minor and micro.
// The first character that is neither a digit nor a dot ends the numeric
// part; a leading '-' there is dropped, any other character starts the
// qualifier. After the third dot everything, dots included, is qualifier
// text:
//
//	Parse("1.0")              // major=1 minor=0
//	Parse("1.0.0-beta-5")     // major=1 minor=0 micro=0 qualifier="beta-5"
//	Parse("1.0.0.0-SNAPSHOT") // major=1 minor=0 micro=0 qualifier="0-SNAPSHOT"
//	Parse("1.Final")          // major=1 qualifier="Final"
func Parse(raw string) Version {
	p := &parser{}
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		actions[p.state][classify(c)](p, c)
	}
	return p.finish()
}
