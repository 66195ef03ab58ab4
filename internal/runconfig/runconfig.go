// Package runconfig loads an optional YAML run-profile supplying default
// CLI flag values, per SPEC_FULL.md §6.1's --config flag.
//
// Grounded on _examples/davidkellis-able's package.lock loader
// (v12/interpreters/go/pkg/driver/lockfile.go: yaml.NewDecoder +
// KnownFields(true) over a disk-backed struct) — library: gopkg.in/yaml.v3.
package runconfig

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Options is the full set of tunables cmd/uframe exposes, settable from
// either CLI flags or a YAML run-profile. Flags always win over a loaded
// profile (see Merge).
type Options struct {
	CompilationDatabase string `yaml:"compilation_database"`
	MessageDefinition   string `yaml:"message_definition"`
	PriorTypes          string `yaml:"prior_types"`
	Verbose             bool   `yaml:"verbose"`
	Workers             int    `yaml:"workers"`
	DebugWritesFile     string `yaml:"debug_writes_file"`
}

// Load parses a YAML run-profile from path.
func Load(path string) (Options, error) {
	var opts Options
	f, err := os.Open(path)
	if err != nil {
		return opts, errors.Wrapf(err, "runconfig: open %s", path)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&opts); err != nil {
		return opts, errors.Wrapf(err, "runconfig: parse %s", path)
	}
	return opts, nil
}

// Merge overlays flags on top of profile: any field flags left at its zero
// value falls back to the profile's value, so a run-profile only needs to
// supply the defaults a project wants to stop repeating on every
// invocation.
func Merge(profile, flags Options) Options {
	out := profile
	if flags.CompilationDatabase != "" {
		out.CompilationDatabase = flags.CompilationDatabase
	}
	if flags.MessageDefinition != "" {
		out.MessageDefinition = flags.MessageDefinition
	}
	if flags.PriorTypes != "" {
		out.PriorTypes = flags.PriorTypes
	}
	if flags.Verbose {
		out.Verbose = true
	}
	if flags.Workers != 0 {
		out.Workers = flags.Workers
	}
	if flags.DebugWritesFile != "" {
		out.DebugWritesFile = flags.DebugWritesFile
	}
	return out
}
