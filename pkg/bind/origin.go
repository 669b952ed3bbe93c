// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bind

import (
	"fmt"
	"strings"

	"github.com/yeetrun/snatch/pkg/argdef"
	"github.com/yeetrun/snatch/pkg/token"
)

// Origin records where a bound value came from: the default declared on
// the definition, or one or more stream indices.
type Origin struct {
	Default bool
	Indices []token.Index
	// Spelling is the name the user typed, for named arguments.
	Spelling string
}

func (o Origin) String() string {
	if o.Default {
		return "default"
	}
	parts := make([]string, len(o.Indices))
	for i, idx := range o.Indices {
		parts[i] = idx.String()
	}
	at := strings.Join(parts, ", ")
	if o.Spelling != "" {
		return fmt.Sprintf("%s at %s", o.Spelling, at)
	}
	return "argument " + at
}

// Value is one bound literal with its provenance.
type Value struct {
	Literal string
	Origin  Origin
}

// Binding is everything bound for one argument key, in token order.
type Binding struct {
	Def    *argdef.Definition
	Values []Value
}

// Last returns the most recently bound value.
func (b *Binding) Last() Value {
	return b.Values[len(b.Values)-1]
}

// Literals returns the bound literals in token order.
func (b *Binding) Literals() []string {
	out := make([]string, len(b.Values))
	for i, v := range b.Values {
		out[i] = v.Literal
	}
	return out
}

// BoundValues is the provenance-tagged value bag produced by a parse,
// keyed by argument key, handed to an external decoder for typed-field
// materialization.
type BoundValues struct {
	order []string
	byKey map[string]*Binding
}

// NewBoundValues returns an empty value bag.
func NewBoundValues() *BoundValues {
	return &BoundValues{byKey: make(map[string]*Binding)}
}

// Add appends one value for the definition's key.
func (bv *BoundValues) Add(def *argdef.Definition, v Value) {
	b, ok := bv.byKey[def.Key]
	if !ok {
		b = &Binding{Def: def}
		bv.byKey[def.Key] = b
		bv.order = append(bv.order, def.Key)
	}
	b.Values = append(b.Values, v)
}

// Lookup returns the binding for a key.
func (bv *BoundValues) Lookup(key string) (*Binding, bool) {
	b, ok := bv.byKey[key]
	return b, ok
}

// Keys returns bound keys in first-bound order.
func (bv *BoundValues) Keys() []string {
	return bv.order
}

// First returns the first bound literal for a key.
func (bv *BoundValues) First(key string) (string, bool) {
	b, ok := bv.byKey[key]
	if !ok || len(b.Values) == 0 {
		return "", false
	}
	return b.Values[0].Literal, true
}

// Last returns the most recently bound literal for a key.
func (bv *BoundValues) Last(key string) (string, bool) {
	b, ok := bv.byKey[key]
	if !ok || len(b.Values) == 0 {
		return "", false
	}
	return b.Last().Literal, true
}

// All returns every bound literal for a key in token order.
func (bv *BoundValues) All(key string) []string {
	b, ok := bv.byKey[key]
	if !ok {
		return nil
	}
	return b.Literals()
}
