// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argdef

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Validation failures are programmer or configuration mistakes, not user
// input errors. They are surfaced once, at definition time, and should be
// treated as fatal by the embedding application.

// DuplicateNameError reports a concrete name claimed by more than one
// definition.
type DuplicateNameError struct {
	Name  string
	Count int
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("name '%s' declared by %d arguments", e.Name, e.Count)
}

// MisplacedRepeatingPositionalError reports a repeating positional that
// is not the last declared positional.
type MisplacedRepeatingPositionalError struct {
	Repeating string // usage of the repeating positional
	After     string // usage of the positional illegally declared after it
}

func (e *MisplacedRepeatingPositionalError) Error() string {
	return fmt.Sprintf("repeating positional %s must be declared last; %s follows it", e.Repeating, e.After)
}

// MissingBackingKeyError reports definitions whose keys are absent from
// the Set's declared backing keys.
type MissingBackingKeyError struct {
	Keys []string
}

func (e *MissingBackingKeyError) Error() string {
	return fmt.Sprintf("no backing key for: %s", strings.Join(e.Keys, ", "))
}

// NonsensicalDefaultError reports boolean flags that default to true
// without inversion naming; the user could never set them to false.
type NonsensicalDefaultError struct {
	Flags []string
}

func (e *NonsensicalDefaultError) Error() string {
	return fmt.Sprintf("flags default to true and cannot be unset: %s", strings.Join(e.Flags, ", "))
}

// Validate runs every static check over the Set and returns all failures
// joined, or nil. It is run once per declared Set, independent of any
// particular parse.
func Validate(s *Set) error {
	var errs []error
	errs = append(errs, validateUniqueNames(s)...)
	errs = append(errs, validatePositionalOrder(s)...)
	errs = append(errs, validateBackingKeys(s)...)
	errs = append(errs, validateFlagDefaults(s)...)
	return errors.Join(errs...)
}

func validateUniqueNames(s *Set) []error {
	counts := make(map[string]int)
	var order []string
	for _, d := range s.defs {
		if d.Kind == Positional {
			continue
		}
		for _, n := range d.AllNames() {
			key := n.String()
			if counts[key] == 0 {
				order = append(order, key)
			}
			counts[key]++
		}
	}
	var errs []error
	for _, name := range order {
		if counts[name] > 1 {
			errs = append(errs, &DuplicateNameError{Name: name, Count: counts[name]})
		}
	}
	return errs
}

func validatePositionalOrder(s *Set) []error {
	var errs []error
	positionals := s.Positionals()
	for i, d := range positionals {
		if d.Arity != Array {
			continue
		}
		if i < len(positionals)-1 {
			errs = append(errs, &MisplacedRepeatingPositionalError{
				Repeating: d.Usage(),
				After:     positionals[i+1].Usage(),
			})
		}
	}
	return errs
}

func validateBackingKeys(s *Set) []error {
	if s.BackingKeys == nil {
		return nil
	}
	var missing []string
	for _, d := range s.defs {
		if !slices.Contains(s.BackingKeys, d.Key) {
			missing = append(missing, d.Key)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return []error{&MissingBackingKeyError{Keys: missing}}
}

func validateFlagDefaults(s *Set) []error {
	var offenders []string
	for _, d := range s.defs {
		if d.Kind != Flag {
			continue
		}
		if d.DefaultSet && d.Default == "true" && len(d.InvertedNames) == 0 {
			offenders = append(offenders, d.PreferredName().String())
		}
	}
	if len(offenders) == 0 {
		return nil
	}
	return []error{&NonsensicalDefaultError{Flags: offenders}}
}
