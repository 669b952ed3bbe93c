// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package token

// Stream is the classified, addressable form of one argument vector. It
// is created once per parse attempt, mutated by the binding engine via
// Remove, and then discarded. Removal marks elements consumed in a map
// keyed by Index; the backing slice is never re-sliced, so no Index is
// ever invalidated or renumbered by another removal.
type Stream struct {
	elements []Element
	original []string
	consumed map[Index]bool
}

func (s *Stream) append(at Index, t Token) {
	s.elements = append(s.elements, Element{Index: at, Token: t})
}

// Original returns the raw argument vector the stream was split from.
func (s *Stream) Original() []string {
	return s.original
}

// Raw returns the original text of the argument at the given outer
// position.
func (s *Stream) Raw(outer int) string {
	if outer < 0 || outer >= len(s.original) {
		return ""
	}
	return s.original[outer]
}

// Elements returns the unconsumed elements in index order.
func (s *Stream) Elements() []Element {
	out := make([]Element, 0, len(s.elements))
	for _, el := range s.elements {
		if !s.consumed[el.Index] {
			out = append(out, el)
		}
	}
	return out
}

// Peek returns the first unconsumed element without consuming it.
func (s *Stream) Peek() (Element, bool) {
	for _, el := range s.elements {
		if !s.consumed[el.Index] {
			return el, true
		}
	}
	return Element{}, false
}

// Pop consumes and returns the first unconsumed element.
func (s *Stream) Pop() (Element, bool) {
	el, ok := s.Peek()
	if !ok {
		return Element{}, false
	}
	s.Remove(el.Index)
	return el, true
}

// NextAfter returns the first unconsumed element ordered strictly after
// the given index.
func (s *Stream) NextAfter(i Index) (Element, bool) {
	for _, el := range s.elements {
		if s.consumed[el.Index] {
			continue
		}
		if i.Before(el.Index) {
			return el, true
		}
	}
	return Element{}, false
}

// Lookup returns the unconsumed element at the given index.
func (s *Stream) Lookup(i Index) (Element, bool) {
	if s.consumed[i] {
		return Element{}, false
	}
	for _, el := range s.elements {
		if el.Index == i {
			return el, true
		}
	}
	return Element{}, false
}

// Remove consumes the element at the given index. Removing the complete
// index of a cluster also consumes all of its sub-units; removing one
// sub-unit leaves its siblings and the complete parent addressable.
func (s *Stream) Remove(i Index) {
	s.consumed[i] = true
	if i.Sub != SubComplete {
		return
	}
	for _, el := range s.elements {
		if el.Index.Outer == i.Outer && el.Index.Sub != SubComplete {
			s.consumed[el.Index] = true
		}
	}
}

// HasSubUnits reports whether the argument at the given outer position
// was split into cluster sub-units.
func (s *Stream) HasSubUnits(outer int) bool {
	for _, el := range s.elements {
		if el.Index.Outer == outer && el.Index.Sub != SubComplete {
			return true
		}
	}
	return false
}

// AnySubConsumed reports whether any sub-unit of the argument at the
// given outer position has been consumed.
func (s *Stream) AnySubConsumed(outer int) bool {
	for _, el := range s.elements {
		if el.Index.Outer == outer && el.Index.Sub != SubComplete && s.consumed[el.Index] {
			return true
		}
	}
	return false
}

// IsEmpty reports whether every element has been consumed.
func (s *Stream) IsEmpty() bool {
	_, ok := s.Peek()
	return !ok
}
