// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmdtree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yeetrun/snatch/pkg/bind"
	"github.com/yeetrun/snatch/pkg/token"
)

// HelpRequest is the path-aware form of bind.ErrHelp; errors.Is still
// matches the sentinel.
type HelpRequest struct {
	Path []string
}

func (e *HelpRequest) Error() string {
	return fmt.Sprintf("help requested for '%s'", strings.Join(e.Path, " "))
}

func (e *HelpRequest) Unwrap() error { return bind.ErrHelp }

// VersionRequest is the path-aware form of bind.ErrVersion.
type VersionRequest struct {
	Path    []string
	Version string
}

func (e *VersionRequest) Error() string {
	return fmt.Sprintf("version requested for '%s'", strings.Join(e.Path, " "))
}

func (e *VersionRequest) Unwrap() error { return bind.ErrVersion }

// CompletionRequest is the path-aware form of a completion short-circuit.
type CompletionRequest struct {
	Path []string
	req  *bind.CompletionRequestError
}

// Shell returns the requested shell, if one was attached.
func (e *CompletionRequest) Shell() string { return e.req.Shell }

func (e *CompletionRequest) Error() string {
	return fmt.Sprintf("%v for '%s'", e.req, strings.Join(e.Path, " "))
}

func (e *CompletionRequest) Unwrap() error { return e.req }

// Level is the bound values for one command on the resolved chain.
type Level struct {
	Command *Node
	Values  *bind.BoundValues
}

// Invocation is a fully resolved parse: the chain of commands from the
// root to the terminal command, each with its own bound values.
type Invocation struct {
	Levels []Level
}

// Command returns the terminal command node.
func (inv *Invocation) Command() *Node {
	return inv.Levels[len(inv.Levels)-1].Command
}

// Values returns the terminal command's bound values.
func (inv *Invocation) Values() *bind.BoundValues {
	return inv.Levels[len(inv.Levels)-1].Values
}

// Path returns the command names from root to terminal command.
func (inv *Invocation) Path() []string {
	out := make([]string, len(inv.Levels))
	for i, lvl := range inv.Levels {
		out[i] = lvl.Command.Name
	}
	return out
}

// Resolve tokenizes argv and resolves it against the tree: named
// arguments bind at each level, subcommand name tokens narrow the
// command, and the terminal command binds positionals and judges
// leftovers. Terminal short-circuits (help, version, completion) unwind
// immediately with path-aware errors.
func Resolve(t *Tree, argv []string) (*Invocation, error) {
	st := token.Split(argv)
	if err := scanShortCircuits(t.Root, st); err != nil {
		return nil, err
	}
	return resolve(t.Root, st, nil)
}

// scanShortCircuits checks the whole stream for help, version, and
// completion requests before any matching runs. Subcommand name tokens
// seen along the way narrow the attributed command, so the request
// carries the path the user was asking about.
func scanShortCircuits(root *Node, st *token.Stream) error {
	cur := root
	path := []string{root.Name}
	for _, el := range st.Elements() {
		if el.Token.Kind == token.KindValue {
			if child := cur.findChild(el.Token.Value); child != nil {
				cur = child
				path = append(path, child.Name)
			}
			continue
		}
		verSet := cur.Set
		if verSet == nil || verSet.Version == "" {
			verSet = root.Set
		}
		if err := bind.ShortCircuit(el, verSet); err != nil {
			return wrapShortCircuit(err, path, verSet.Version)
		}
	}
	return nil
}

func resolve(n *Node, st *token.Stream, trail []string) (*Invocation, error) {
	trail = append(trail, n.Name)

	bv, err := bind.MatchNamed(st, n.Set)
	if err != nil {
		return nil, err
	}

	if child, el := dispatchTarget(n, st); child != nil {
		if el != nil {
			st.Remove(el.Index)
		}
		bind.ApplyDefaults(n.Set, bv)
		if err := bind.CheckRequired(n.Set, bv); err != nil {
			return nil, err
		}
		sub, err := resolve(child, st, trail)
		if err != nil {
			return nil, err
		}
		inv := &Invocation{Levels: make([]Level, 0, 1+len(sub.Levels))}
		inv.Levels = append(inv.Levels, Level{Command: n, Values: bv})
		inv.Levels = append(inv.Levels, sub.Levels...)
		return inv, nil
	}

	if err := bind.BindPositionals(st, n.Set, bv); err != nil {
		return nil, err
	}
	if err := bind.CheckLeftovers(st, n.Set); err != nil {
		return nil, err
	}
	bind.ApplyDefaults(n.Set, bv)
	if err := bind.CheckRequired(n.Set, bv); err != nil {
		return nil, err
	}
	return &Invocation{Levels: []Level{{Command: n, Values: bv}}}, nil
}

// dispatchTarget decides whether resolution descends: into the child
// named by the first unassigned positional token, or into the default
// child when no such token exists and the node has no positionals of
// its own.
func dispatchTarget(n *Node, st *token.Stream) (*Node, *token.Element) {
	if len(n.Children) == 0 && n.Default == nil {
		return nil, nil
	}
	el, ok := bind.PeekPositional(st)
	if !ok {
		if n.Default != nil && len(n.Set.Positionals()) == 0 {
			return n.Default, nil
		}
		return nil, nil
	}
	if el.Token.Kind != token.KindValue {
		return nil, nil
	}
	if child := n.findChild(el.Token.Value); child != nil {
		return child, &el
	}
	return nil, nil
}

func wrapShortCircuit(err error, trail []string, version string) error {
	path := append([]string(nil), trail...)
	switch {
	case errors.Is(err, bind.ErrHelp):
		return &HelpRequest{Path: path}
	case errors.Is(err, bind.ErrVersion):
		return &VersionRequest{Path: path, Version: version}
	}
	var completion *bind.CompletionRequestError
	if errors.As(err, &completion) {
		return &CompletionRequest{Path: path, req: completion}
	}
	return err
}
