// Package compdb reads a Clang-style compilation database (spec §6
// "compilation-database reader"): a JSON array of translation-unit compile
// commands, each either `{directory, file, arguments}` or
// `{directory, file, command}`.
//
// Grounded on _examples/original_source/src/main.cpp's libclang
// CompilationDatabase usage, reworked onto encoding/json per spec §1's
// external-collaborator note. Per SPEC_FULL.md §6.4, both shapes are
// supported since the distillation does not say which one target projects
// use.
package compdb

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Command is one translation unit's build recipe.
type Command struct {
	Directory string
	File      string
	Arguments []string
}

type rawCommand struct {
	Directory string   `json:"directory"`
	File      string   `json:"file"`
	Arguments []string `json:"arguments"`
	Command   string   `json:"command"`
}

// Load decodes a compile_commands.json document from r into a Command
// slice, preserving array order (worker sharding in spec §4.6 depends on a
// stable index).
func Load(r io.Reader) ([]Command, error) {
	var raw []rawCommand
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "compdb: decode")
	}

	out := make([]Command, 0, len(raw))
	for _, rc := range raw {
		args := rc.Arguments
		if len(args) == 0 && rc.Command != "" {
			args = splitCommandLine(rc.Command)
		}
		out = append(out, Command{
			Directory: rc.Directory,
			File:      rc.File,
			Arguments: args,
		})
	}
	return out, nil
}

// splitCommandLine performs a minimal shell-word split of a compile
// command string, honoring double-quoted spans. Compile commands in
// practice rarely need full shell semantics (no pipes, redirects, or
// globs), so this does not attempt them.
func splitCommandLine(command string) []string {
	var (
		fields    []string
		cur       strings.Builder
		inQuotes  bool
	)
	flush := func() {
		if cur.Len() > 0 {
			fields = append(fields, cur.String())
			cur.Reset()
		}
	}
	for _, r := range command {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ' ' && !inQuotes:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return fields
}
