// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package manifest loads command trees from YAML manifests, so a tool's
// argument surface can live next to it as data instead of code.
package manifest

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/yeetrun/snatch/pkg/argdef"
	"github.com/yeetrun/snatch/pkg/cmdtree"
	"github.com/yeetrun/snatch/pkg/token"
)

// schemaConstraint is the manifest schema range this package reads.
// Bump the major when the layout changes incompatibly.
var schemaConstraint = mustConstraint("^1")

func mustConstraint(s string) *semver.Constraints {
	c, err := semver.NewConstraint(s)
	if err != nil {
		panic(err)
	}
	return c
}

// File is the top level of a manifest document.
type File struct {
	// Schema is the manifest layout version, e.g. "1.0".
	Schema  string   `yaml:"schema"`
	Command *Command `yaml:"command"`
}

// Command declares one command node: its arguments and child commands.
type Command struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Aliases     []string `yaml:"aliases,omitempty"`
	Version     string   `yaml:"version,omitempty"`
	Hidden      bool     `yaml:"hidden,omitempty"`

	Args        []Arg    `yaml:"args,omitempty"`
	BackingKeys []string `yaml:"backing-keys,omitempty"`

	Commands []*Command `yaml:"commands,omitempty"`

	// DefaultCommand names the child dispatched to when no subcommand
	// token is present.
	DefaultCommand string `yaml:"default-command,omitempty"`
}

// Arg declares one argument of a command.
type Arg struct {
	Key  string `yaml:"key"`
	Type string `yaml:"type"` // "flag", "option", or "positional"

	// Names are dashed spellings: "--format", "-f", "-out".
	Names         []string `yaml:"names,omitempty"`
	InvertedNames []string `yaml:"inverted-names,omitempty"`

	ValueName string  `yaml:"value-name,omitempty"`
	Default   *string `yaml:"default,omitempty"`

	// Required defaults to true for positionals and false otherwise.
	Required *bool `yaml:"required,omitempty"`

	Array          bool     `yaml:"array,omitempty"`
	Repeatable     bool     `yaml:"repeatable,omitempty"`
	Greedy         bool     `yaml:"greedy,omitempty"`
	Allowed        []string `yaml:"allowed,omitempty"`
	ExclusiveGroup string   `yaml:"exclusive-group,omitempty"`
	Hidden         bool     `yaml:"hidden,omitempty"`
}

// UnsupportedSchemaError reports a manifest written against a schema
// this package does not read.
type UnsupportedSchemaError struct {
	Schema string
}

func (e *UnsupportedSchemaError) Error() string {
	return fmt.Sprintf("unsupported manifest schema %q (supported: %v)", e.Schema, schemaConstraint)
}

// LoadFile reads and builds the manifest at path.
func LoadFile(path string) (*cmdtree.Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Load decodes a manifest document and builds its validated command
// tree. Unknown fields are rejected, so typos in manifests surface as
// errors instead of silently dropped configuration.
func Load(r io.Reader) (*cmdtree.Tree, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var file File
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}
	return Build(&file)
}

// Build turns a decoded manifest into a validated command tree.
func Build(file *File) (*cmdtree.Tree, error) {
	if err := checkSchema(file.Schema); err != nil {
		return nil, err
	}
	if file.Command == nil {
		return nil, fmt.Errorf("manifest has no command")
	}
	root, err := buildNode(file.Command, nil)
	if err != nil {
		return nil, err
	}
	return cmdtree.New(root)
}

func checkSchema(schema string) error {
	if schema == "" {
		return &UnsupportedSchemaError{Schema: schema}
	}
	v, err := semver.NewVersion(schema)
	if err != nil {
		return fmt.Errorf("manifest schema %q: %w", schema, err)
	}
	if !schemaConstraint.Check(v) {
		return &UnsupportedSchemaError{Schema: schema}
	}
	return nil
}

func buildNode(c *Command, trail []string) (*cmdtree.Node, error) {
	if c.Name == "" {
		return nil, fmt.Errorf("command under %q has no name", strings.Join(trail, " "))
	}
	trail = append(trail, c.Name)

	defs := make([]*argdef.Definition, 0, len(c.Args))
	for i := range c.Args {
		def, err := buildDef(&c.Args[i])
		if err != nil {
			return nil, fmt.Errorf("command %s: %w", strings.Join(trail, " "), err)
		}
		defs = append(defs, def)
	}
	set := argdef.NewSet(defs...).WithVersion(c.Version)
	if c.BackingKeys != nil {
		set = set.WithBackingKeys(c.BackingKeys...)
	}

	n := &cmdtree.Node{
		Name:        c.Name,
		Description: c.Description,
		Aliases:     c.Aliases,
		Set:         set,
		Hidden:      c.Hidden,
	}
	for _, child := range c.Commands {
		cn, err := buildNode(child, trail)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, cn)
	}
	if c.DefaultCommand != "" {
		for _, child := range n.Children {
			if child.Matches(c.DefaultCommand) {
				n.Default = child
				break
			}
		}
		if n.Default == nil {
			return nil, fmt.Errorf("command %s: default-command %q is not a declared subcommand",
				strings.Join(trail, " "), c.DefaultCommand)
		}
	}
	return n, nil
}

func buildDef(a *Arg) (*argdef.Definition, error) {
	if a.Key == "" {
		return nil, fmt.Errorf("argument has no key")
	}
	names, err := parseNames(a.Names)
	if err != nil {
		return nil, fmt.Errorf("argument %q: %w", a.Key, err)
	}
	inverted, err := parseNames(a.InvertedNames)
	if err != nil {
		return nil, fmt.Errorf("argument %q: %w", a.Key, err)
	}

	var def *argdef.Definition
	switch a.Type {
	case "flag":
		if len(names) == 0 {
			return nil, fmt.Errorf("flag %q has no names", a.Key)
		}
		def = argdef.NewFlag(a.Key, names...)
	case "option":
		if len(names) == 0 {
			return nil, fmt.Errorf("option %q has no names", a.Key)
		}
		if a.Array {
			def = argdef.NewArrayOption(a.Key, names...)
		} else {
			def = argdef.NewOption(a.Key, names...)
		}
	case "positional":
		if len(names) != 0 {
			return nil, fmt.Errorf("positional %q cannot have names", a.Key)
		}
		if a.Array {
			def = argdef.NewArrayPositional(a.Key)
		} else {
			def = argdef.NewPositional(a.Key)
		}
	default:
		return nil, fmt.Errorf("argument %q has unknown type %q", a.Key, a.Type)
	}

	if len(inverted) > 0 {
		if a.Type != "flag" {
			return nil, fmt.Errorf("argument %q: inverted-names only apply to flags", a.Key)
		}
		def = def.WithInversion(inverted...)
	}
	if a.ValueName != "" {
		def = def.WithValueName(a.ValueName)
	}
	if a.Default != nil {
		def = def.WithDefault(*a.Default)
	}
	if a.Required != nil {
		if *a.Required {
			def = def.WithRequired()
		} else {
			def = def.WithOptional()
		}
	}
	if a.Repeatable {
		def = def.WithRepeatable()
	}
	if a.Greedy {
		if a.Type != "option" || !a.Array {
			return nil, fmt.Errorf("argument %q: greedy only applies to array options", a.Key)
		}
		def = def.WithGreedy()
	}
	if len(a.Allowed) > 0 {
		def = def.WithAllowed(a.Allowed...)
	}
	if a.ExclusiveGroup != "" {
		def = def.WithExclusiveGroup(a.ExclusiveGroup)
	}
	if a.Hidden {
		def = def.WithHidden()
	}
	return def, nil
}

func parseNames(spellings []string) ([]token.Name, error) {
	out := make([]token.Name, 0, len(spellings))
	for _, s := range spellings {
		n, err := parseName(s)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// parseName turns a dashed spelling into a concrete name: "--format" is
// a long name, "-f" a short name, and "-out" a single-dash long name.
func parseName(s string) (token.Name, error) {
	switch {
	case strings.HasPrefix(s, "--"):
		rest := strings.TrimPrefix(s, "--")
		if rest == "" {
			return token.Name{}, fmt.Errorf("name %q is empty", s)
		}
		return token.LongName(rest), nil
	case strings.HasPrefix(s, "-"):
		rest := strings.TrimPrefix(s, "-")
		if rest == "" {
			return token.Name{}, fmt.Errorf("name %q is empty", s)
		}
		if utf8.RuneCountInString(rest) == 1 {
			r, _ := utf8.DecodeRuneInString(rest)
			return token.ShortName(r), nil
		}
		return token.SingleDashName(rest), nil
	default:
		return token.Name{}, fmt.Errorf("name %q must start with '-'", s)
	}
}
