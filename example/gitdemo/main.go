// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command gitdemo resolves its arguments against the example git
// manifest and prints what bound where.
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/yeetrun/snatch/pkg/bind"
	"github.com/yeetrun/snatch/pkg/cmdtree"
	"github.com/yeetrun/snatch/pkg/diag"
	"github.com/yeetrun/snatch/pkg/manifest"
)

func main() {
	tree, err := manifest.LoadFile("example/git.yaml")
	if err != nil {
		log.Fatalf("loading manifest: %v", err)
	}
	inv, err := cmdtree.Resolve(tree, os.Args[1:])
	if err != nil {
		if bind.IsShortCircuit(err) {
			fmt.Println(err)
			return
		}
		diag.NewRenderer(os.Stderr).Render(err)
		os.Exit(diag.ExitCode(err))
	}
	fmt.Printf("resolved: %s\n", strings.Join(inv.Path(), " "))
	for _, lvl := range inv.Levels {
		for _, key := range lvl.Values.Keys() {
			binding, _ := lvl.Values.Lookup(key)
			for _, v := range binding.Values {
				fmt.Printf("  %s.%s = %q (%s)\n", lvl.Command.Name, key, v.Literal, v.Origin)
			}
		}
	}
}
