// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command snatch inspects command manifests: it validates them and
// shows how an argument vector binds against them. Its own command
// line is declared and resolved with the same engine it inspects.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/yeetrun/snatch/pkg/argdef"
	"github.com/yeetrun/snatch/pkg/bind"
	"github.com/yeetrun/snatch/pkg/cmdtree"
	"github.com/yeetrun/snatch/pkg/diag"
	"github.com/yeetrun/snatch/pkg/manifest"
	"github.com/yeetrun/snatch/pkg/token"
)

const snatchVersion = "0.3.0"

func init() {
	if err := loadedPrefs.load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("failed to load preferences: %v", err)
		}
	}
	if c := os.Getenv("SNATCH_COLOR"); c != "" {
		loadedPrefs.Color = c
	}
	if f := os.Getenv("SNATCH_FORMAT"); f != "" {
		loadedPrefs.Format = f
	}
	if loadedPrefs.Color == "" {
		loadedPrefs.Color = "auto"
	}
	if loadedPrefs.Format == "" {
		loadedPrefs.Format = "json"
	}
}

func driverTree() (*cmdtree.Tree, error) {
	root := &cmdtree.Node{
		Name:        "snatch",
		Description: "inspect command manifests",
		Set: argdef.NewSet(
			argdef.NewOption("color", token.LongName("color")).
				WithAllowed("auto", "always", "never").
				WithDefault(loadedPrefs.Color),
		).WithVersion(snatchVersion),
		Children: []*cmdtree.Node{
			{
				Name:        "check",
				Description: "validate a manifest",
				Set: argdef.NewSet(
					argdef.NewPositional("manifest").WithValueName("manifest"),
				),
			},
			{
				Name:        "parse",
				Description: "bind arguments against a manifest",
				Set: argdef.NewSet(
					argdef.NewPositional("manifest").WithValueName("manifest"),
					argdef.NewArrayPositional("args").WithValueName("arg"),
					argdef.NewOption("format", token.LongName("format"), token.ShortName('f')).
						WithAllowed("json", "text").
						WithDefault(loadedPrefs.Format),
				),
			},
			{
				Name:        "prefs",
				Description: "show or update preferences",
				Set: argdef.NewSet(
					argdef.NewOption("color", token.LongName("color")).
						WithAllowed("auto", "always", "never"),
					argdef.NewOption("format", token.LongName("format")).
						WithAllowed("json", "text"),
					argdef.NewFlag("save", token.LongName("save")),
				),
			},
		},
	}
	return cmdtree.New(root)
}

func main() {
	tree, err := driverTree()
	if err != nil {
		log.Fatalf("command declaration: %v", err)
	}

	inv, err := cmdtree.Resolve(tree, os.Args[1:])
	if err != nil {
		if handleShortCircuit(tree, err) {
			return
		}
		diag.NewRenderer(os.Stderr).Render(err)
		os.Exit(diag.ExitCode(err))
	}

	renderer := diag.NewRendererColor(os.Stderr, colorOn(inv))

	var cmdErr error
	switch inv.Command().Name {
	case "check":
		cmdErr = handleCheck(inv.Values())
	case "parse":
		cmdErr = handleParse(inv.Values())
	case "prefs":
		cmdErr = handlePrefs(inv.Values())
	default:
		diag.WriteUsage(os.Stderr, inv.Path(), inv.Command())
		os.Exit(diag.ExitUsage)
	}
	if cmdErr != nil {
		renderer.Render(cmdErr)
		os.Exit(diag.ExitCode(cmdErr))
	}
}

func colorOn(inv *cmdtree.Invocation) bool {
	mode, _ := inv.Levels[0].Values.Last("color")
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return diag.AutoColor(os.Stderr)
	}
}

func handleShortCircuit(t *cmdtree.Tree, err error) bool {
	var help *cmdtree.HelpRequest
	if errors.As(err, &help) {
		if n := findNode(t, help.Path); n != nil {
			diag.WriteUsage(os.Stdout, help.Path, n)
			return true
		}
	}
	var version *cmdtree.VersionRequest
	if errors.As(err, &version) {
		fmt.Println(version.Version)
		return true
	}
	var completion *cmdtree.CompletionRequest
	if errors.As(err, &completion) {
		if err := writeCompletion(os.Stdout, t.Root, completion.Shell()); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(diag.ExitUsage)
		}
		return true
	}
	return false
}

func findNode(t *cmdtree.Tree, path []string) *cmdtree.Node {
	n := t.Root
	for _, name := range path[1:] {
		found := false
		for _, child := range n.Children {
			if child.Matches(name) {
				n = child
				found = true
				break
			}
		}
		if !found {
			return nil
		}
	}
	return n
}

func handleCheck(values *bind.BoundValues) error {
	path, _ := values.Last("manifest")
	tree, err := manifest.LoadFile(path)
	if err != nil {
		return err
	}
	fmt.Printf("%s: ok (%d commands)\n", path, countCommands(tree.Root))
	return nil
}

func countCommands(n *cmdtree.Node) int {
	total := 1
	for _, child := range n.Children {
		total += countCommands(child)
	}
	return total
}

type parseReport struct {
	Command []string      `json:"command"`
	Levels  []levelReport `json:"levels"`
}

type levelReport struct {
	Command string        `json:"command"`
	Values  []valueReport `json:"values,omitempty"`
}

type valueReport struct {
	Key     string   `json:"key"`
	Values  []string `json:"values"`
	Origins []string `json:"origins"`
}

type shortCircuitReport struct {
	Outcome string   `json:"outcome"`
	Path    []string `json:"path,omitempty"`
	Version string   `json:"version,omitempty"`
	Shell   string   `json:"shell,omitempty"`
}

func handleParse(values *bind.BoundValues) error {
	path, _ := values.Last("manifest")
	format, _ := values.Last("format")
	args := values.All("args")

	tree, err := manifest.LoadFile(path)
	if err != nil {
		return err
	}
	inv, err := cmdtree.Resolve(tree, args)
	if err != nil {
		if bind.IsShortCircuit(err) {
			fmt.Println(asJSON(shortCircuitOutcome(err)))
			return nil
		}
		return err
	}

	report := buildReport(inv)
	if format == "text" {
		writeReportText(os.Stdout, report)
		return nil
	}
	fmt.Println(asJSON(report))
	return nil
}

func shortCircuitOutcome(err error) shortCircuitReport {
	var help *cmdtree.HelpRequest
	if errors.As(err, &help) {
		return shortCircuitReport{Outcome: "help", Path: help.Path}
	}
	var version *cmdtree.VersionRequest
	if errors.As(err, &version) {
		return shortCircuitReport{Outcome: "version", Path: version.Path, Version: version.Version}
	}
	var completion *cmdtree.CompletionRequest
	if errors.As(err, &completion) {
		return shortCircuitReport{Outcome: "completion", Path: completion.Path, Shell: completion.Shell()}
	}
	return shortCircuitReport{Outcome: "unknown"}
}

func buildReport(inv *cmdtree.Invocation) parseReport {
	report := parseReport{Command: inv.Path()}
	for _, lvl := range inv.Levels {
		lr := levelReport{Command: lvl.Command.Name}
		for _, key := range lvl.Values.Keys() {
			binding, _ := lvl.Values.Lookup(key)
			vr := valueReport{Key: key}
			for _, v := range binding.Values {
				vr.Values = append(vr.Values, v.Literal)
				vr.Origins = append(vr.Origins, v.Origin.String())
			}
			lr.Values = append(lr.Values, vr)
		}
		report.Levels = append(report.Levels, lr)
	}
	return report
}

func writeReportText(w io.Writer, report parseReport) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "COMMAND\tKEY\tVALUE\tORIGIN")
	for _, lvl := range report.Levels {
		for _, vr := range lvl.Values {
			for i, v := range vr.Values {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", lvl.Command, vr.Key, v, vr.Origins[i])
			}
		}
	}
	tw.Flush()
}

func handlePrefs(values *bind.BoundValues) error {
	if c, ok := values.Last("color"); ok && c != loadedPrefs.Color {
		loadedPrefs.Color = c
		loadedPrefs.changed = true
	}
	if f, ok := values.Last("format"); ok && f != loadedPrefs.Format {
		loadedPrefs.Format = f
		loadedPrefs.changed = true
	}
	fmt.Println(asJSON(loadedPrefs))
	if save, _ := values.Last("save"); save == "true" {
		if !loadedPrefs.changed {
			fmt.Fprintln(os.Stderr, "No changes to save")
			return nil
		}
		if err := loadedPrefs.save(); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved %s\n", prefsFile)
	}
	return nil
}

func writeCompletion(w io.Writer, root *cmdtree.Node, shell string) error {
	var names []string
	for _, child := range root.Children {
		if !child.Hidden {
			names = append(names, child.Name)
		}
	}
	words := strings.Join(names, " ")
	switch shell {
	case "", "bash":
		fmt.Fprintf(w, "complete -W %q %s\n", words, root.Name)
	case "zsh":
		fmt.Fprintf(w, "compdef '_arguments \"1: :(%s)\"' %s\n", words, root.Name)
	default:
		return fmt.Errorf("unsupported completion shell %q", shell)
	}
	return nil
}

func asJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
