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
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// segment is one piece of a compiled phase template: either literal text or
// a reference to a capture group.
type segment struct {
	literal string
	group   int
}

const literalSegment = -1

// template is a phase string compiled against the pattern it belongs to.
type template struct {
	raw      string
	segments []segment
}

// compileTemplate resolves the group references in tmpl against re so that
// expansion can never fail later.
//
// Syntax:
//   - $n refers to group n; further digits are consumed while the number
//     stays a valid group ("$10" with a single group is group 1 then "0")
//   - ${n} or ${name} refers to a group by number or name
//   - \x is a literal x, so \$ and \\ produce "$" and "\"
func compileTemplate(tmpl string, re *regexp.Regexp) (*template, error) {
	t := &template{raw: tmpl}
	groups := re.NumSubexp()

	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			t.segments = append(t.segments, segment{literal: lit.String(), group: literalSegment})
			lit.Reset()
		}
	}

	for i := 0; i < len(tmpl); {
		c := tmpl[i]
		switch c {
		case '\\':
			if i+1 >= len(tmpl) {
				return nil, fmt.Errorf("character to be escaped is missing at end of %q", tmpl)
			}
			_, size := utf8.DecodeRuneInString(tmpl[i+1:])
			lit.WriteString(tmpl[i+1 : i+1+size])
			i += 1 + size

		case '$':
			if i+1 >= len(tmpl) {
				return nil, fmt.Errorf("illegal group reference: trailing $ in %q", tmpl)
			}
			next := tmpl[i+1]
			switch {
			case next == '{':
				end := strings.IndexByte(tmpl[i+2:], '}')
				if end < 0 {
					return nil, fmt.Errorf("named group reference is missing trailing } in %q", tmpl)
				}
				name := tmpl[i+2 : i+2+end]
				g, err := resolveNamedGroup(name, re)
				if err != nil {
					return nil, err
				}
				flush()
				t.segments = append(t.segments, segment{group: g})
				i += 2 + end + 1

			case isDigit(next):
				g := int(next - '0')
				if g > groups {
					return nil, fmt.Errorf("no group %d in pattern", g)
				}
				j := i + 2
				for j < len(tmpl) && isDigit(tmpl[j]) {
					candidate := g*10 + int(tmpl[j]-'0')
					if candidate > groups {
						break
					}
					g = candidate
					j++
				}
				flush()
				t.segments = append(t.segments, segment{group: g})
				i = j

			default:
				return nil, fmt.Errorf("illegal group reference in %q", tmpl)
			}

		default:
			lit.WriteByte(c)
			i++
		}
	}
	flush()
	return t, nil
}

func resolveNamedGroup(name string, re *regexp.Regexp) (int, error) {
	if name == "" {
		return 0, fmt.Errorf("empty group reference in phase template")
	}
	if isAllDigits(name) {
		var g int
		for i := 0; i < len(name); i++ {
			g = g*10 + int(name[i]-'0')
			if g > re.NumSubexp() {
				return 0, fmt.Errorf("no group %s in pattern", name)
			}
		}
		return g, nil
	}
	g := re.SubexpIndex(name)
	if g < 0 {
		return 0, fmt.Errorf("no group with name {%s} in pattern", name)
	}
	return g, nil
}

// expand renders the template for a match of s. match is the result of
// FindStringSubmatchIndex; groups that did not participate expand to "".
func (t *template) expand(s string, match []int) string {
	if len(t.segments) == 1 && t.segments[0].group == literalSegment {
		return t.segments[0].literal
	}

	var sb strings.Builder
	for _, seg := range t.segments {
		if seg.group == literalSegment {
			sb.WriteString(seg.literal)
			continue
		}
		start, end := match[2*seg.group], match[2*seg.group+1]
		if start >= 0 {
			sb.WriteString(s[start:end])
		}
	}
	return sb.String()
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAllDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return s != ""
}
