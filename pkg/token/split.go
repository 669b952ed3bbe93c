// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package token

import "strings"

// Split classifies a raw argument vector (excluding the program name)
// into a Stream. Classification never fails: tokens that look malformed
// are preserved as-is for the binding engine to judge.
func Split(argv []string) *Stream {
	s := &Stream{
		original: append([]string(nil), argv...),
		consumed: make(map[Index]bool),
	}
	seenTerminator := false
	for outer, arg := range argv {
		at := Index{Outer: outer, Sub: SubComplete}
		if seenTerminator {
			s.append(at, Token{Kind: KindValue, Value: arg})
			continue
		}
		if arg == "--" {
			seenTerminator = true
			s.append(at, Token{Kind: KindTerminator})
			continue
		}
		s.classify(outer, arg)
	}
	return s
}

// classify appends the token(s) for one pre-terminator argument.
func (s *Stream) classify(outer int, arg string) {
	at := Index{Outer: outer, Sub: SubComplete}

	if !strings.HasPrefix(arg, "-") || arg == "-" {
		s.append(at, Token{Kind: KindValue, Value: arg})
		return
	}

	if rest, ok := strings.CutPrefix(arg, "--"); ok {
		name, value, hasValue := strings.Cut(rest, "=")
		s.append(at, Token{Kind: KindOption, Option: Option{
			Name:     LongName(name),
			HasValue: hasValue,
			Value:    value,
		}})
		return
	}

	rest := arg[1:]
	if name, value, hasValue := strings.Cut(rest, "="); hasValue {
		var n Name
		if len([]rune(name)) == 1 {
			n = Name{Kind: Short, Value: name}
		} else {
			n = SingleDashName(name)
		}
		s.append(at, Token{Kind: KindOption, Option: Option{
			Name:     n,
			HasValue: true,
			Value:    value,
		}})
		return
	}

	runes := []rune(rest)
	if len(runes) == 1 {
		opt := Option{Name: Name{Kind: Short, Value: rest}}
		if isDigits(rest) {
			s.append(at, Token{Kind: KindPossibleNegative, Value: arg, Option: opt})
		} else {
			s.append(at, Token{Kind: KindOption, Option: opt})
		}
		return
	}

	// Multi-letter single-dash argument: keep both the single-dash long
	// reading and the per-letter cluster reading. All-digit arguments may
	// also be negative numbers, so the complete reading is tagged as such.
	complete := Token{Kind: KindOption, Option: Option{Name: SingleDashName(rest)}}
	if isDigits(rest) {
		complete = Token{Kind: KindPossibleNegative, Value: arg, Option: Option{Name: SingleDashName(rest)}}
	}
	s.append(at, complete)
	for i, r := range runes {
		s.append(Index{Outer: outer, Sub: i}, Token{
			Kind:   KindOption,
			Option: Option{Name: ShortName(r)},
		})
	}
}

func isDigits(v string) bool {
	for _, r := range v {
		if r < '0' || r > '9' {
			return false
		}
	}
	return v != ""
}
