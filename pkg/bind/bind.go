// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bind matches a token stream against a declared argument set
// and produces provenance-tagged bound values. Matching mutates the
// stream by consuming tokens and never retries; it either fully
// succeeds or fails with exactly one reported error.
package bind

import (
	"github.com/yeetrun/snatch/pkg/argdef"
	"github.com/yeetrun/snatch/pkg/token"
)

// Built-in names recognized before any declared argument.
var (
	helpLong       = token.LongName("help")
	helpShort      = token.ShortName('h')
	versionLong    = token.LongName("version")
	completionLong = token.LongName("generate-completion-script")
)

// Bind runs the full pipeline for a leaf command: short-circuit scan,
// named matching, positional binding, leftover aggregation, and default
// fill. The stream is consumed as values bind.
func Bind(st *token.Stream, set *argdef.Set) (*BoundValues, error) {
	if err := ScanShortCircuits(st, set); err != nil {
		return nil, err
	}
	bv, err := MatchNamed(st, set)
	if err != nil {
		return nil, err
	}
	if err := BindPositionals(st, set, bv); err != nil {
		return nil, err
	}
	if err := CheckLeftovers(st, set); err != nil {
		return nil, err
	}
	ApplyDefaults(set, bv)
	if err := CheckRequired(set, bv); err != nil {
		return nil, err
	}
	return bv, nil
}

// ScanShortCircuits aborts matching if help, version, or a completion
// script is requested anywhere before the terminator. These unwind the
// whole resolution immediately; no further matching or validation runs.
func ScanShortCircuits(st *token.Stream, set *argdef.Set) error {
	for _, el := range st.Elements() {
		if err := ShortCircuit(el, set); err != nil {
			return err
		}
	}
	return nil
}

// ShortCircuit checks a single element for the built-in help, version,
// and completion names. The version name is only live when the set
// declares a version string.
func ShortCircuit(el token.Element, set *argdef.Set) error {
	if el.Token.Kind != token.KindOption {
		return nil
	}
	switch el.Token.Option.Name {
	case helpLong, helpShort:
		return ErrHelp
	case versionLong:
		if set.Version != "" {
			return ErrVersion
		}
	case completionLong:
		return &CompletionRequestError{Shell: el.Token.Option.Value}
	}
	return nil
}

// MatchNamed scans the stream for every declared option and flag, in
// declaration order, consuming matched tokens. Unmatched option tokens
// are left for CheckLeftovers to judge.
func MatchNamed(st *token.Stream, set *argdef.Set) (*BoundValues, error) {
	b := &binder{
		stream: st,
		set:    set,
		bound:  NewBoundValues(),
		claims: make(map[string]claim),
	}
	for _, def := range set.Named() {
		if err := b.matchDefinition(def); err != nil {
			return nil, err
		}
	}
	return b.bound, nil
}

// claim records which spelling last set an exclusivity group or key, for
// duplicate diagnostics.
type claim struct {
	key    string
	origin Origin
}

type binder struct {
	stream *token.Stream
	set    *argdef.Set
	bound  *BoundValues
	claims map[string]claim // exclusivity group -> last setter
}

func (b *binder) matchDefinition(def *argdef.Definition) error {
	for {
		el, inverted, ok := b.findOccurrence(def)
		if !ok {
			return nil
		}
		var err error
		if def.Kind == argdef.Flag {
			err = b.bindFlag(def, el, inverted)
		} else {
			err = b.bindOption(def, el)
		}
		if err != nil {
			return err
		}
	}
}

// findOccurrence returns the first unconsumed element whose option
// reading matches one of the definition's names. PossibleNegative
// elements participate with their option reading; the numeric fallback
// only applies when no definition claims them.
func (b *binder) findOccurrence(def *argdef.Definition) (token.Element, bool, bool) {
	for _, el := range b.stream.Elements() {
		if el.Token.Kind != token.KindOption && el.Token.Kind != token.KindPossibleNegative {
			continue
		}
		if ok, inverted := def.HasName(el.Token.Option.Name); ok {
			return el, inverted, true
		}
	}
	return token.Element{}, false, false
}

func (b *binder) bindFlag(def *argdef.Definition, el token.Element, inverted bool) error {
	spelling := el.Token.Option.Name.String()
	literal := "true"
	if inverted {
		literal = "false"
	}
	if el.Token.Option.HasValue {
		// Attached values on flags are only meaningful as bool literals.
		switch el.Token.Option.Value {
		case "true", "false":
			literal = el.Token.Option.Value
			if inverted && literal == "true" {
				literal = "false"
			}
		default:
			return &InvalidValueError{
				Value:  el.Token.Option.Value,
				Usage:  def.Usage(),
				Origin: el.Index,
			}
		}
	}

	origin := Origin{Indices: []token.Index{el.Index}, Spelling: spelling}

	if prev, ok := b.bound.Lookup(def.Key); ok {
		last := prev.Last()
		if last.Literal != literal {
			return &DuplicateFlagError{
				Name:       spelling,
				PrevName:   last.Origin.Spelling,
				Origin:     origin,
				PrevOrigin: last.Origin,
			}
		}
	}
	if def.ExclusiveGroup != "" {
		if prev, ok := b.claims[def.ExclusiveGroup]; ok && prev.key != def.Key {
			return &DuplicateFlagError{
				Name:       spelling,
				PrevName:   prev.origin.Spelling,
				Origin:     origin,
				PrevOrigin: prev.origin,
			}
		}
		b.claims[def.ExclusiveGroup] = claim{key: def.Key, origin: origin}
	}

	b.bound.Add(def, Value{Literal: literal, Origin: origin})
	b.stream.Remove(el.Index)
	return nil
}

func (b *binder) bindOption(def *argdef.Definition, el token.Element) error {
	spelling := el.Token.Option.Name.String()

	if def.Arity == argdef.Scalar && !def.Repeatable {
		if prev, ok := b.bound.Lookup(def.Key); ok {
			last := prev.Last()
			return &DuplicateFlagError{
				Name:       spelling,
				PrevName:   last.Origin.Spelling,
				Origin:     Origin{Indices: []token.Index{el.Index}, Spelling: spelling},
				PrevOrigin: last.Origin,
			}
		}
	}

	// Consuming the occurrence first also retires cluster sub-units, so
	// the following-value search starts at the next raw argument.
	b.stream.Remove(el.Index)

	if el.Token.Option.HasValue {
		return b.addOptionValue(def, el.Token.Option.Value, el.Index, spelling)
	}

	next, ok := b.stream.NextAfter(el.Index)
	if !ok || !b.usableAsValue(next) {
		return &MissingValueError{Usage: def.Usage(), Origin: el.Index}
	}
	b.stream.Remove(next.Index)
	if err := b.addOptionValue(def, next.Token.Value, next.Index, spelling); err != nil {
		return err
	}

	if def.Arity == argdef.Array && def.Greedy {
		last := next.Index
		for {
			follow, ok := b.stream.NextAfter(last)
			if !ok || follow.Token.Kind != token.KindValue {
				break
			}
			b.stream.Remove(follow.Index)
			if err := b.addOptionValue(def, follow.Token.Value, follow.Index, spelling); err != nil {
				return err
			}
			last = follow.Index
		}
	}
	return nil
}

func (b *binder) addOptionValue(def *argdef.Definition, literal string, at token.Index, spelling string) error {
	if err := checkAllowed(def, literal, at); err != nil {
		return err
	}
	b.bound.Add(def, Value{
		Literal: literal,
		Origin:  Origin{Indices: []token.Index{at}, Spelling: spelling},
	})
	return nil
}

// usableAsValue reports whether an element may be consumed as the value
// following a bare option name. Option-name interpretation takes
// priority: a possibleNegative token is only usable as a numeric value
// when none of its option readings is declared in the current set.
func (b *binder) usableAsValue(el token.Element) bool {
	switch el.Token.Kind {
	case token.KindValue:
		return true
	case token.KindPossibleNegative:
		return !b.negativeClaimed(el)
	default:
		return false
	}
}

func (b *binder) negativeClaimed(el token.Element) bool {
	if b.set.Declares(el.Token.Option.Name) {
		return true
	}
	for _, r := range el.Token.Value {
		if r == '-' {
			continue
		}
		if b.set.Declares(token.ShortName(r)) {
			return true
		}
	}
	return false
}

// BindPositionals assigns leftover value tokens (and unresolved
// possibleNegative tokens, now treated as negative numbers) to declared
// positionals in declaration order. The last positional may repeat and
// absorbs every remaining value.
func BindPositionals(st *token.Stream, set *argdef.Set, bv *BoundValues) error {
	for _, def := range set.Positionals() {
		if def.Arity == argdef.Array {
			bound := false
			for {
				el, ok := nextPositionalValue(st)
				if !ok {
					break
				}
				st.Remove(el.Index)
				if err := checkAllowed(def, el.Token.Value, el.Index); err != nil {
					return err
				}
				bv.Add(def, Value{Literal: el.Token.Value, Origin: Origin{Indices: []token.Index{el.Index}}})
				bound = true
			}
			if !bound && def.Required {
				return &MissingArgumentError{Usage: def.Usage()}
			}
			continue
		}

		el, ok := nextPositionalValue(st)
		if !ok {
			if def.DefaultSet {
				bv.Add(def, Value{Literal: def.Default, Origin: Origin{Default: true}})
				continue
			}
			if def.Required {
				return &MissingArgumentError{Usage: def.Usage()}
			}
			continue
		}
		st.Remove(el.Index)
		if err := checkAllowed(def, el.Token.Value, el.Index); err != nil {
			return err
		}
		bv.Add(def, Value{Literal: el.Token.Value, Origin: Origin{Indices: []token.Index{el.Index}}})
	}
	return nil
}

// PeekPositional returns the next unconsumed element that would bind to
// a positional, without consuming it. The resolver uses it to test for
// a subcommand name before positionals are bound.
func PeekPositional(st *token.Stream) (token.Element, bool) {
	return nextPositionalValue(st)
}

// nextPositionalValue finds the next unconsumed element usable as a
// positional: a plain value, or a possibleNegative no definition
// claimed (binding its raw text, e.g. "-5").
func nextPositionalValue(st *token.Stream) (token.Element, bool) {
	for _, el := range st.Elements() {
		switch el.Token.Kind {
		case token.KindValue:
			return el, true
		case token.KindPossibleNegative:
			if st.AnySubConsumed(el.Index.Outer) {
				// Partially matched as short options; spent as options.
				continue
			}
			return el, true
		}
	}
	return token.Element{}, false
}

// CheckLeftovers fails on the first leftover option token (unknown
// option, with an edit-distance suggestion) and otherwise aggregates
// every leftover value into a single unexpected-values report.
func CheckLeftovers(st *token.Stream, set *argdef.Set) error {
	var leftovers []string
	var origins []token.Index
	for _, el := range st.Elements() {
		switch el.Token.Kind {
		case token.KindTerminator:
			// Spent by classification; nothing to claim.
		case token.KindValue, token.KindPossibleNegative:
			if el.Index.Sub == token.SubComplete && st.AnySubConsumed(el.Index.Outer) {
				// A digit cluster partially matched as short options is
				// spent as options; it no longer reads as a number.
				continue
			}
			leftovers = append(leftovers, el.Token.RawText())
			origins = append(origins, el.Index)
		default:
			if el.Index.Sub == token.SubComplete && st.AnySubConsumed(el.Index.Outer) {
				// The cluster was interpreted per-letter; any unconsumed
				// letters are reported individually below.
				continue
			}
			if el.Index.Sub != token.SubComplete && !st.AnySubConsumed(el.Index.Outer) {
				parent, ok := st.Lookup(token.Index{Outer: el.Index.Outer, Sub: token.SubComplete})
				if ok && parent.Token.Kind == token.KindPossibleNegative {
					// The whole argument was judged a leftover number; its
					// digit readings are not separate unknown options. Once
					// any sibling has matched as a short option, the cluster
					// is per-letter and remaining digits are judged below.
					continue
				}
			}
			name := el.Token.Option.Name
			spelling := name.String()
			if el.Index.Sub == token.SubComplete && st.HasSubUnits(el.Index.Outer) {
				spelling = st.Raw(el.Index.Outer)
			}
			return &UnknownOptionError{
				Name:       spelling,
				Suggestion: suggest(spelling, set.LongNames()),
				Origin:     el.Index,
			}
		}
	}
	if len(leftovers) > 0 {
		return &UnexpectedValuesError{Values: leftovers, Origins: origins}
	}
	return nil
}

// ApplyDefaults binds declared defaults for every argument no token
// supplied, with default provenance.
func ApplyDefaults(set *argdef.Set, bv *BoundValues) {
	for _, def := range set.Definitions() {
		if !def.DefaultSet {
			continue
		}
		if _, ok := bv.Lookup(def.Key); ok {
			continue
		}
		bv.Add(def, Value{Literal: def.Default, Origin: Origin{Default: true}})
	}
}

// CheckRequired reports a required option or flag that no token and no
// default supplied. Runs after defaults are applied.
func CheckRequired(set *argdef.Set, bv *BoundValues) error {
	for _, def := range set.Named() {
		if !def.Required {
			continue
		}
		if _, ok := bv.Lookup(def.Key); !ok {
			return &MissingArgumentError{Usage: def.Usage()}
		}
	}
	return nil
}

func checkAllowed(def *argdef.Definition, literal string, at token.Index) error {
	if len(def.Allowed) == 0 {
		return nil
	}
	for _, v := range def.Allowed {
		if v == literal {
			return nil
		}
	}
	return &InvalidValueError{
		Value:   literal,
		Usage:   def.Usage(),
		Allowed: def.Allowed,
		Origin:  at,
	}
}
