// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cmdtree resolves argument vectors against a tree of command
// nodes. Trees are built and validated once per declared hierarchy and
// are read-only during matching, so they may be shared across parses.
package cmdtree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yeetrun/snatch/pkg/argdef"
)

// Node is one command: its argument set plus ordered child subcommands.
type Node struct {
	Name        string
	Description string
	Aliases     []string
	Set         *argdef.Set
	Children    []*Node

	// Default, when set, is the child dispatched to when no subcommand
	// token is present and the node declares no positionals of its own.
	Default *Node

	// Hidden commands work but are omitted from help surfaces.
	Hidden bool
}

// Matches reports whether name is the node's name or one of its aliases.
func (n *Node) Matches(name string) bool {
	if name == n.Name {
		return true
	}
	for _, alias := range n.Aliases {
		if alias == name {
			return true
		}
	}
	return false
}

func (n *Node) findChild(name string) *Node {
	for _, child := range n.Children {
		if child.Matches(name) {
			return child
		}
	}
	return nil
}

// CycleError is the fatal configuration error raised when a command is
// its own transitive descendant.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("command cycle: %s", strings.Join(e.Path, " -> "))
}

// NodeConfigError wraps a validator failure with the command it was
// found on.
type NodeConfigError struct {
	Path []string
	Err  error
}

func (e *NodeConfigError) Error() string {
	return fmt.Sprintf("command %s: %v", strings.Join(e.Path, " "), e.Err)
}

func (e *NodeConfigError) Unwrap() error {
	return e.Err
}

// Tree is a validated command hierarchy ready for resolution.
type Tree struct {
	Root *Node
}

// New validates the hierarchy rooted at root and returns it as a Tree.
// Construction fails fast on command cycles and accumulates every
// static validator failure across the tree. These are configuration
// errors: the embedding application should treat them as fatal.
func New(root *Node) (*Tree, error) {
	if root == nil {
		return nil, errors.New("cmdtree: nil root")
	}
	if err := checkCycles(root, make(map[*Node]bool), nil); err != nil {
		return nil, err
	}
	var errs []error
	collectConfigErrors(root, nil, &errs)
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &Tree{Root: root}, nil
}

// checkCycles walks the tree keeping the set of nodes currently on the
// path; revisiting one is a cycle, not a deep tree.
func checkCycles(n *Node, onPath map[*Node]bool, trail []string) error {
	if onPath[n] {
		return &CycleError{Path: append(append([]string(nil), trail...), n.Name)}
	}
	onPath[n] = true
	trail = append(trail, n.Name)
	children := n.Children
	if n.Default != nil && n.findChild(n.Default.Name) == nil {
		children = append(append([]*Node(nil), children...), n.Default)
	}
	for _, child := range children {
		if err := checkCycles(child, onPath, trail); err != nil {
			return err
		}
	}
	delete(onPath, n)
	return nil
}

func collectConfigErrors(n *Node, trail []string, errs *[]error) {
	trail = append(trail, n.Name)
	if n.Set == nil {
		n.Set = argdef.NewSet()
	}
	if err := argdef.Validate(n.Set); err != nil {
		*errs = append(*errs, &NodeConfigError{Path: append([]string(nil), trail...), Err: err})
	}
	for _, child := range n.Children {
		collectConfigErrors(child, trail, errs)
	}
	if n.Default != nil && n.findChild(n.Default.Name) == nil {
		collectConfigErrors(n.Default, trail, errs)
	}
}
