// SPDX-License-Identifier: MPL-2.0

// Package pipeline defines Context, the explicit record of ambient,
// per-invocation values — NO_COLOR, verbosity, the resolved inkfile, and the
// process's own stdio — that flow through the pipeline as an ordinary
// argument instead of hidden globals (spec.md §9).
package pipeline

import "os"

// Context carries the values every stage past the Locator may need. It is
// built once in cmd/inkjet from the parsed global flags and the Locator's
// Result, then threaded through explicitly rather than read from package
// state.
type Context struct {
	NoColor     bool
	Verbose     bool
	Interactive bool
	Preview     bool

	// InkfilePath is the absolute path to the root inkfile; empty when the
	// source was literal text or stdin.
	InkfilePath string
	// InkfileDir is the working-directory base the Locator resolved.
	InkfileDir string
	// BinaryPath is os.Args[0], used to materialize the INK/INKJET env vars.
	BinaryPath string

	Stdout *os.File
	Stderr *os.File
	Stdin  *os.File
}

// New builds a Context from the resolved global flags, applying the
// NO_COLOR environment convention (spec.md §6) on top of it.
func New(verbose, interactive, preview bool, inkfilePath, inkfileDir, binaryPath string) *Context {
	return &Context{
		NoColor:     os.Getenv("NO_COLOR") != "",
		Verbose:     verbose,
		Interactive: interactive,
		Preview:     preview,
		InkfilePath: inkfilePath,
		InkfileDir:  inkfileDir,
		BinaryPath:  binaryPath,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		Stdin:       os.Stdin,
	}
}
