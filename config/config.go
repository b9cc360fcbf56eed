// Package config reads and writes solar.yaml, the per-project manifest
// consumed by `solar build` and written by `solar init` — Solar's
// analogue of tawago's "Tawa Module Information" file
// (tawago/main.go's tawaModule), generalized with a couple more fields
// SPEC_FULL.md's driver needs (default output name, release default).
package config

import (
	"fmt"
	"io/ioutil"
	"os"

	"gopkg.in/yaml.v2"
)

// Filename is the manifest's fixed name, resolved relative to the
// current working directory, matching tawago's fixed
// "Tawa Module Information" filename.
const Filename = "solar.yaml"

// Manifest is a project's persisted build configuration.
type Manifest struct {
	Package string `yaml:"package"`
	Output  string `yaml:"output,omitempty"`
	Release bool   `yaml:"release,omitempty"`
}

// Load reads and parses solar.yaml from the current directory.
func Load() (Manifest, error) {
	data, err := ioutil.ReadFile(Filename)
	if err != nil {
		return Manifest{}, fmt.Errorf("read %s: %w", Filename, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse %s: %w", Filename, err)
	}
	return m, nil
}

// Init writes a fresh solar.yaml naming packageName, for `solar init`.
func Init(packageName string) error {
	m := Manifest{Package: packageName}

	out, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", Filename, err)
	}

	return ioutil.WriteFile(Filename, out, os.FileMode(0o644))
}

// OutputName resolves the executable name a build should produce:
// explicit --output flag, else the manifest's Output field, else the
// package name.
func (m Manifest) OutputName(flagOutput string) string {
	if flagOutput != "" {
		return flagOutput
	}
	if m.Output != "" {
		return m.Output
	}
	return m.Package
}
