// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argdef

import "github.com/yeetrun/snatch/pkg/token"

// Set is the ordered collection of argument definitions declared by one
// command. It is built once, validated once, and read-only during
// matching, so independent parses may share it.
type Set struct {
	defs []*Definition

	// BackingKeys, when non-nil, is the custom key set the caller's
	// decoder understands; every definition's Key must appear in it.
	BackingKeys []string

	// Version enables the --version short-circuit when non-empty.
	Version string
}

// NewSet builds a Set from definitions in declaration order.
func NewSet(defs ...*Definition) *Set {
	return &Set{defs: append([]*Definition(nil), defs...)}
}

// WithBackingKeys declares the custom decoding key set.
func (s *Set) WithBackingKeys(keys ...string) *Set {
	s.BackingKeys = keys
	return s
}

// WithVersion sets the version string reported by --version.
func (s *Set) WithVersion(v string) *Set {
	s.Version = v
	return s
}

// Definitions returns the definitions in declaration order.
func (s *Set) Definitions() []*Definition {
	return s.defs
}

// Named returns the option and flag definitions in declaration order.
func (s *Set) Named() []*Definition {
	out := make([]*Definition, 0, len(s.defs))
	for _, d := range s.defs {
		if d.Kind != Positional {
			out = append(out, d)
		}
	}
	return out
}

// Positionals returns the positional definitions in declaration order.
func (s *Set) Positionals() []*Definition {
	out := make([]*Definition, 0, len(s.defs))
	for _, d := range s.defs {
		if d.Kind == Positional {
			out = append(out, d)
		}
	}
	return out
}

// Resolve returns the definition recognizing the given concrete name,
// and whether the spelling is an inverted one.
func (s *Set) Resolve(n token.Name) (def *Definition, inverted bool, ok bool) {
	for _, d := range s.defs {
		if d.Kind == Positional {
			continue
		}
		if has, inv := d.HasName(n); has {
			return d, inv, true
		}
	}
	return nil, false, false
}

// Declares reports whether any definition recognizes the given name.
func (s *Set) Declares(n token.Name) bool {
	_, _, ok := s.Resolve(n)
	return ok
}

// LongNames returns every declared long and single-dash long name,
// rendered with dashes, for suggestion candidates.
func (s *Set) LongNames() []string {
	var out []string
	for _, d := range s.defs {
		if d.Kind == Positional {
			continue
		}
		for _, n := range d.AllNames() {
			if n.Kind == token.Long || n.Kind == token.LongWithSingleDash {
				out = append(out, n.String())
			}
		}
	}
	return out
}
