// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diag renders parse failures and help surfaces for terminal
// users and maps errors to process exit codes.
package diag

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/yeetrun/snatch/pkg/argdef"
	"github.com/yeetrun/snatch/pkg/bind"
	"github.com/yeetrun/snatch/pkg/cmdtree"
	"github.com/yeetrun/snatch/pkg/manifest"
)

// Exit codes follow sysexits: user mistakes and bad declarations are
// usage failures, anything unexpected is a software failure.
const (
	ExitOK       = 0
	ExitUsage    = 64
	ExitSoftware = 70
)

// ExitCode maps an error from resolution (or manifest loading) to the
// process exit code. Help, version, and completion requests are
// successful outcomes.
func ExitCode(err error) int {
	if err == nil || bind.IsShortCircuit(err) {
		return ExitOK
	}
	if isUsage(err) {
		return ExitUsage
	}
	return ExitSoftware
}

func isUsage(err error) bool {
	var (
		unknown    *bind.UnknownOptionError
		missingVal *bind.MissingValueError
		missingArg *bind.MissingArgumentError
		unexpected *bind.UnexpectedValuesError
		duplicate  *bind.DuplicateFlagError
		invalid    *bind.InvalidValueError

		dupName    *argdef.DuplicateNameError
		misplaced  *argdef.MisplacedRepeatingPositionalError
		badKeys    *argdef.MissingBackingKeyError
		badDefault *argdef.NonsensicalDefaultError

		cycle     *cmdtree.CycleError
		nodeCfg   *cmdtree.NodeConfigError
		badSchema *manifest.UnsupportedSchemaError
	)
	switch {
	case errors.As(err, &unknown),
		errors.As(err, &missingVal),
		errors.As(err, &missingArg),
		errors.As(err, &unexpected),
		errors.As(err, &duplicate),
		errors.As(err, &invalid),
		errors.As(err, &dupName),
		errors.As(err, &misplaced),
		errors.As(err, &badKeys),
		errors.As(err, &badDefault),
		errors.As(err, &cycle),
		errors.As(err, &nodeCfg),
		errors.As(err, &badSchema):
		return true
	}
	return false
}

// Renderer writes diagnostics to one stream, with color when that
// stream is an interactive terminal.
type Renderer struct {
	out    io.Writer
	prefix *color.Color
	hint   *color.Color
}

// NewRenderer returns a renderer for out. Color is enabled only when
// out is a terminal and NO_COLOR is unset.
func NewRenderer(out io.Writer) *Renderer {
	return NewRendererColor(out, AutoColor(out))
}

// NewRendererColor returns a renderer with color forced on or off,
// for callers that honor an explicit color preference.
func NewRendererColor(out io.Writer, enable bool) *Renderer {
	r := &Renderer{
		out:    out,
		prefix: color.New(color.FgRed, color.Bold),
		hint:   color.New(color.FgCyan),
	}
	if enable {
		r.prefix.EnableColor()
		r.hint.EnableColor()
	} else {
		r.prefix.DisableColor()
		r.hint.DisableColor()
	}
	return r
}

// AutoColor reports whether color output is appropriate for out: a
// terminal with NO_COLOR unset.
func AutoColor(out io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Render writes one error as a diagnostic line. Unknown-option
// suggestions get their own hint line so they stand out from the
// failure itself.
func (r *Renderer) Render(err error) {
	var unknown *bind.UnknownOptionError
	if errors.As(err, &unknown) && unknown.Suggestion != "" {
		fmt.Fprintf(r.out, "%s Unknown option '%s'.\n", r.prefix.Sprint("Error:"), unknown.Name)
		fmt.Fprintf(r.out, "%s\n", r.hint.Sprintf("Did you mean '%s'?", unknown.Suggestion))
		return
	}
	fmt.Fprintf(r.out, "%s %v\n", r.prefix.Sprint("Error:"), err)
}

// WriteUsage writes the help surface for one command on the resolved
// path. Hidden arguments and hidden subcommands are omitted.
func WriteUsage(w io.Writer, path []string, n *cmdtree.Node) {
	if n.Description != "" {
		fmt.Fprintf(w, "%s\n\n", n.Description)
	}
	fmt.Fprintf(w, "Usage: %s", joinPath(path))
	for _, d := range n.Set.Named() {
		if d.Hidden {
			continue
		}
		if d.Required {
			fmt.Fprintf(w, " %s", d.Usage())
		} else {
			fmt.Fprintf(w, " [%s]", d.Usage())
		}
	}
	for _, d := range n.Set.Positionals() {
		if d.Hidden {
			continue
		}
		usage := d.Usage()
		if d.Arity == argdef.Array {
			usage += "..."
		}
		if d.Required {
			fmt.Fprintf(w, " %s", usage)
		} else {
			fmt.Fprintf(w, " [%s]", usage)
		}
	}
	visible := visibleChildren(n)
	if len(visible) > 0 {
		fmt.Fprint(w, " <command>")
	}
	fmt.Fprintln(w)

	if len(visible) > 0 {
		fmt.Fprintln(w, "\nCommands:")
		width := 0
		for _, c := range visible {
			if len(c.Name) > width {
				width = len(c.Name)
			}
		}
		for _, c := range visible {
			fmt.Fprintf(w, "  %-*s  %s\n", width, c.Name, c.Description)
		}
	}

	named := visibleNamed(n)
	if len(named) > 0 {
		fmt.Fprintln(w, "\nOptions:")
		width := 0
		usages := make([]string, len(named))
		for i, d := range named {
			usages[i] = namedUsage(d)
			if len(usages[i]) > width {
				width = len(usages[i])
			}
		}
		for i, d := range named {
			line := fmt.Sprintf("  %-*s  %s", width, usages[i], describeDef(d))
			fmt.Fprintln(w, strings.TrimRight(line, " "))
		}
	}
}

func joinPath(path []string) string {
	return strings.Join(path, " ")
}

func visibleChildren(n *cmdtree.Node) []*cmdtree.Node {
	var out []*cmdtree.Node
	for _, c := range n.Children {
		if !c.Hidden {
			out = append(out, c)
		}
	}
	return out
}

func visibleNamed(n *cmdtree.Node) []*argdef.Definition {
	var out []*argdef.Definition
	for _, d := range n.Set.Named() {
		if !d.Hidden {
			out = append(out, d)
		}
	}
	return out
}

// namedUsage lists every spelling, so "-v, --verbose" reads like the
// conventional help column.
func namedUsage(d *argdef.Definition) string {
	out := ""
	for i, name := range d.Names {
		if i > 0 {
			out += ", "
		}
		out += name.String()
	}
	if d.Kind == argdef.Option {
		out += fmt.Sprintf(" <%s>", d.ValueName)
	}
	return out
}

func describeDef(d *argdef.Definition) string {
	out := ""
	if d.DefaultSet {
		out = fmt.Sprintf("(default %q)", d.Default)
	}
	if len(d.Allowed) > 0 {
		allowed := ""
		for i, v := range d.Allowed {
			if i > 0 {
				allowed += ", "
			}
			allowed += v
		}
		if out != "" {
			out += " "
		}
		out += fmt.Sprintf("(one of: %s)", allowed)
	}
	return out
}
