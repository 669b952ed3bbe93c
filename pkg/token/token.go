// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package token

import "fmt"

// SubComplete addresses a whole raw argument, as opposed to one of the
// single-letter units synthesized from a combined short-option cluster.
const SubComplete = -1

// Index addresses one element of a Stream. Outer is the position of the
// raw argument in the original argv; Sub is SubComplete for the argument
// itself or the zero-based position of a unit inside a cluster (for
// "-abc", the cluster is at Sub == SubComplete and 'a', 'b', 'c' are at
// Sub 0, 1, 2). Indices are totally ordered by (Outer, Sub) and stay
// valid for the lifetime of the Stream; removals never renumber them.
type Index struct {
	Outer int
	Sub   int
}

// Before reports whether i orders strictly before j. The complete index
// of an argument orders before all of its sub-units.
func (i Index) Before(j Index) bool {
	if i.Outer != j.Outer {
		return i.Outer < j.Outer
	}
	return i.Sub < j.Sub
}

func (i Index) String() string {
	if i.Sub == SubComplete {
		return fmt.Sprintf("%d", i.Outer)
	}
	return fmt.Sprintf("%d.%d", i.Outer, i.Sub)
}

// NameKind distinguishes the three spellings an option name can take on
// the command line.
type NameKind int

const (
	// Long is a double-dash name: --verbose.
	Long NameKind = iota
	// Short is a single-dash single letter: -v.
	Short
	// LongWithSingleDash is a single-dash multi-letter name: -abc. It is
	// ambiguous with a cluster of short options and both readings are
	// kept in the stream.
	LongWithSingleDash
)

// Name is one concrete option name. Value holds the name without any
// dash prefix; for Short names it is exactly one character.
type Name struct {
	Kind  NameKind
	Value string
}

// LongName returns a long --name.
func LongName(name string) Name { return Name{Kind: Long, Value: name} }

// ShortName returns a short -c name.
func ShortName(c rune) Name { return Name{Kind: Short, Value: string(c)} }

// SingleDashName returns a single-dash long -name.
func SingleDashName(name string) Name { return Name{Kind: LongWithSingleDash, Value: name} }

// String renders the name as the user would type it.
func (n Name) String() string {
	switch n.Kind {
	case Long:
		return "--" + n.Value
	default:
		return "-" + n.Value
	}
}

// Option is a recognized option occurrence: a name, optionally with a
// value attached via '='.
type Option struct {
	Name     Name
	HasValue bool
	Value    string
}

func (o Option) String() string {
	if o.HasValue {
		return o.Name.String() + "=" + o.Value
	}
	return o.Name.String()
}

// Kind classifies a Token.
type Kind int

const (
	// KindValue is a plain value: no leading dash, a bare "-", or
	// anything after the terminator.
	KindValue Kind = iota
	// KindOption is an option occurrence.
	KindOption
	// KindTerminator is the literal "--".
	KindTerminator
	// KindPossibleNegative is a dash-prefixed token made of digits. It
	// carries both an option reading and the raw text, so the engine can
	// try the option-name interpretation first and fall back to treating
	// it as a negative number.
	KindPossibleNegative
)

// Token is one classified unit of the argument vector.
type Token struct {
	Kind   Kind
	Value  string // literal for KindValue, raw text for KindPossibleNegative
	Option Option // set for KindOption and KindPossibleNegative
}

// RawText returns the text the user typed for this token.
func (t Token) RawText() string {
	switch t.Kind {
	case KindValue, KindPossibleNegative:
		return t.Value
	case KindTerminator:
		return "--"
	default:
		return t.Option.String()
	}
}

// Element pairs a Token with its stable stream Index.
type Element struct {
	Index Index
	Token Token
}
