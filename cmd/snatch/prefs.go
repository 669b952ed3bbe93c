// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

var prefsFile = filepath.Join(os.Getenv("HOME"), ".config", "snatch", "snatch.toml")

var loadedPrefs prefs

type prefs struct {
	changed bool

	// Color is "auto", "always", or "never".
	Color string `toml:"color,omitempty" json:"color"`
	// Format is the default output format for parse: "json" or "text".
	Format string `toml:"format,omitempty" json:"format"`
}

func (p *prefs) load() error {
	_, err := toml.DecodeFile(prefsFile, p)
	return err
}

func (p *prefs) save() error {
	if err := os.MkdirAll(filepath.Dir(prefsFile), 0o755); err != nil {
		return err
	}
	f, err := os.Create(prefsFile)
	if err != nil {
		return err
	}
	defer f.Close()
	encoder := toml.NewEncoder(f)
	return encoder.Encode(p)
}
