// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bind

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yeetrun/snatch/pkg/token"
)

// Sentinel errors for the terminal short-circuits. They abort matching
// immediately and propagate to the top-level caller, bypassing error
// aggregation.
var (
	// ErrHelp is returned when help is requested (-h or --help).
	ErrHelp = errors.New("help requested")

	// ErrVersion is returned when --version is requested on a command
	// that declares a version string.
	ErrVersion = errors.New("version requested")
)

// CompletionRequestError is returned when a completion script is
// requested. Shell carries the requested shell, if one was attached.
type CompletionRequestError struct {
	Shell string
}

func (e *CompletionRequestError) Error() string {
	if e.Shell == "" {
		return "completion script requested"
	}
	return fmt.Sprintf("completion script requested for %s", e.Shell)
}

// UnknownOptionError is returned for an option name no definition
// recognizes. Suggestion, when non-empty, is the closest declared name
// within the edit-distance threshold.
type UnknownOptionError struct {
	Name       string
	Suggestion string
	Origin     token.Index
}

func (e *UnknownOptionError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("Unknown option '%s'. Did you mean '%s'?", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("Unknown option '%s'", e.Name)
}

// MissingValueError is returned when a value-taking option appears
// without a value.
type MissingValueError struct {
	Usage  string
	Origin token.Index
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("Missing value for '%s'", e.Usage)
}

// MissingArgumentError is returned when a required positional or option
// is absent.
type MissingArgumentError struct {
	Usage string
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("Missing expected argument '%s'", e.Usage)
}

// UnexpectedValuesError aggregates every leftover unclaimed value into a
// single report.
type UnexpectedValuesError struct {
	Values  []string
	Origins []token.Index
}

func (e *UnexpectedValuesError) Error() string {
	if len(e.Values) == 1 {
		return fmt.Sprintf("Unexpected argument '%s'", e.Values[0])
	}
	quoted := make([]string, len(e.Values))
	for i, v := range e.Values {
		quoted[i] = "'" + v + "'"
	}
	return fmt.Sprintf("%d unexpected arguments: %s", len(e.Values), strings.Join(quoted, ", "))
}

// DuplicateFlagError is returned when a value is set twice
// inconsistently: a scalar option repeated, a flag contradicted by its
// inversion, or two members of an exclusivity group. It names both the
// newly attempted spelling and the spelling that set the value first,
// with the origin of each.
type DuplicateFlagError struct {
	Name       string
	PrevName   string
	Origin     Origin
	PrevOrigin Origin
}

func (e *DuplicateFlagError) Error() string {
	return fmt.Sprintf("Value to be set with '%s' had already been set with '%s'", e.Name, e.PrevName)
}

// InvalidValueError is returned when a value fails validation against
// the argument's accepted-values list, or when the caller's decoder
// rejects a literal.
type InvalidValueError struct {
	Value   string
	Usage   string
	Allowed []string
	Origin  token.Index
}

func (e *InvalidValueError) Error() string {
	msg := fmt.Sprintf("The value '%s' is invalid for '%s'", e.Value, e.Usage)
	if len(e.Allowed) == 0 {
		return msg
	}
	quoted := make([]string, len(e.Allowed))
	for i, v := range e.Allowed {
		quoted[i] = "'" + v + "'"
	}
	return fmt.Sprintf("%s. Please provide one of %s.", msg, strings.Join(quoted, ", "))
}

// IsShortCircuit reports whether err is one of the terminal, non-error
// short-circuits (help, version, completion).
func IsShortCircuit(err error) bool {
	var completion *CompletionRequestError
	return errors.Is(err, ErrHelp) || errors.Is(err, ErrVersion) || errors.As(err, &completion)
}
