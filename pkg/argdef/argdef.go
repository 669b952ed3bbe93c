// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argdef

import (
	"fmt"

	"github.com/yeetrun/snatch/pkg/token"
)

// Kind is the binding style of a declared argument.
type Kind int

const (
	// Positional binds by position in the leftover value stream.
	Positional Kind = iota
	// Option binds by name and takes a value.
	Option
	// Flag binds by name and takes no value.
	Flag
)

func (k Kind) String() string {
	switch k {
	case Positional:
		return "positional"
	case Option:
		return "option"
	default:
		return "flag"
	}
}

// Arity is how many values an argument accumulates.
type Arity int

const (
	// Scalar binds exactly one value.
	Scalar Arity = iota
	// Array accumulates every occurrence in token order.
	Array
)

// Definition describes one declared argument. Definitions are built with
// the fluent constructors below and are immutable inputs to the binding
// engine; the engine never mutates them.
type Definition struct {
	// Key identifies the argument in the bound-value bag and is matched
	// against a Set's backing keys when those are declared.
	Key string

	Kind  Kind
	Arity Arity

	// Names are the recognized spellings, in declaration order. The
	// first long name (or first name) is the preferred rendering.
	Names []token.Name

	// InvertedNames set a flag to false instead of true (--no-color
	// style inversion naming).
	InvertedNames []token.Name

	// ValueName is the placeholder shown in usage strings, e.g. the
	// "format" in "--format <format>". Defaults to Key.
	ValueName string

	// Default, when non-empty (or DefaultSet), binds with default-value
	// provenance if no token supplies the argument.
	Default    string
	DefaultSet bool

	// Required positionals and options produce a missing-argument error
	// when absent.
	Required bool

	// Repeatable permits a scalar option to appear more than once; the
	// last occurrence wins but every origin is recorded.
	Repeatable bool

	// Greedy makes an array option consume consecutive bare values up to
	// the next option-looking token after each occurrence.
	Greedy bool

	// Allowed, when non-empty, restricts values to the listed literals.
	Allowed []string

	// ExclusiveGroup names a mutual-exclusion group; setting two
	// different members of the same group is an error.
	ExclusiveGroup string

	// Hidden arguments work but are omitted from help surfaces.
	Hidden bool
}

// NewFlag declares a boolean flag with the given key and names.
func NewFlag(key string, names ...token.Name) *Definition {
	return &Definition{Key: key, Kind: Flag, Names: names, ValueName: key}
}

// NewOption declares a scalar value-taking option.
func NewOption(key string, names ...token.Name) *Definition {
	return &Definition{Key: key, Kind: Option, Names: names, ValueName: key}
}

// NewArrayOption declares a repeating value-taking option.
func NewArrayOption(key string, names ...token.Name) *Definition {
	return &Definition{Key: key, Kind: Option, Arity: Array, Names: names, ValueName: key}
}

// NewPositional declares a scalar positional argument.
func NewPositional(key string) *Definition {
	return &Definition{Key: key, Kind: Positional, Required: true, ValueName: key}
}

// NewArrayPositional declares a repeating positional argument. It must
// be the last declared positional in its Set.
func NewArrayPositional(key string) *Definition {
	return &Definition{Key: key, Kind: Positional, Arity: Array, ValueName: key}
}

// WithValueName sets the usage placeholder.
func (d *Definition) WithValueName(name string) *Definition {
	d.ValueName = name
	return d
}

// WithDefault sets the default value.
func (d *Definition) WithDefault(v string) *Definition {
	d.Default = v
	d.DefaultSet = true
	d.Required = false
	return d
}

// WithRequired marks the argument required.
func (d *Definition) WithRequired() *Definition {
	d.Required = true
	return d
}

// WithOptional marks a positional optional.
func (d *Definition) WithOptional() *Definition {
	d.Required = false
	return d
}

// WithRepeatable permits repeated occurrences of a scalar option.
func (d *Definition) WithRepeatable() *Definition {
	d.Repeatable = true
	return d
}

// WithGreedy enables up-to-next-option consumption for array options.
func (d *Definition) WithGreedy() *Definition {
	d.Greedy = true
	return d
}

// WithAllowed restricts the accepted value literals.
func (d *Definition) WithAllowed(values ...string) *Definition {
	d.Allowed = values
	return d
}

// WithInversion adds names that set the flag to false.
func (d *Definition) WithInversion(names ...token.Name) *Definition {
	d.InvertedNames = append(d.InvertedNames, names...)
	return d
}

// WithExclusiveGroup places the flag in a mutual-exclusion group.
func (d *Definition) WithExclusiveGroup(group string) *Definition {
	d.ExclusiveGroup = group
	return d
}

// WithHidden hides the argument from help surfaces.
func (d *Definition) WithHidden() *Definition {
	d.Hidden = true
	return d
}

// PreferredName returns the name used when rendering the argument in
// diagnostics: the first long name if one exists, else the first name.
func (d *Definition) PreferredName() token.Name {
	for _, n := range d.Names {
		if n.Kind == token.Long {
			return n
		}
	}
	if len(d.Names) > 0 {
		return d.Names[0]
	}
	return token.LongName(d.Key)
}

// Usage renders the argument for diagnostics: "--format <format>" for
// options, "--verbose" for flags, "<file>" for positionals.
func (d *Definition) Usage() string {
	switch d.Kind {
	case Positional:
		return fmt.Sprintf("<%s>", d.ValueName)
	case Option:
		return fmt.Sprintf("%s <%s>", d.PreferredName(), d.ValueName)
	default:
		return d.PreferredName().String()
	}
}

// AllNames returns every recognized spelling, inversions included.
func (d *Definition) AllNames() []token.Name {
	if len(d.InvertedNames) == 0 {
		return d.Names
	}
	out := make([]token.Name, 0, len(d.Names)+len(d.InvertedNames))
	out = append(out, d.Names...)
	out = append(out, d.InvertedNames...)
	return out
}

// HasName reports whether the definition recognizes the given name, and
// whether that spelling is an inverted one.
func (d *Definition) HasName(n token.Name) (ok, inverted bool) {
	for _, cand := range d.Names {
		if cand == n {
			return true, false
		}
	}
	for _, cand := range d.InvertedNames {
		if cand == n {
			return true, true
		}
	}
	return false, false
}
