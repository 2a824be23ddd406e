// SPDX-License-Identifier: MPL-2.0

// Package main wires the pipeline together: it locates and parses an
// inkfile, hands the resulting tree to internal/clibuild, and runs the
// cobra command that produces under fang.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"

	"inkjet/internal/clibuild"
	"inkjet/internal/completion"
	"inkjet/internal/directive"
	"inkjet/internal/importer"
	"inkjet/internal/inkfile"
	"inkjet/internal/issue"
	"inkjet/internal/locate"
	"inkjet/internal/pipeline"
)

// Version is overwritten via -ldflags at build time.
var Version = "dev"

// Execute is the binary's sole entry point. It runs the Locator, Directive
// Scanner, and optional Importer ahead of Parse, since none of those stages
// have a cobra tree to run under yet, then builds the tree internal/clibuild
// derives from the parsed inkfile and executes it under fang's styled usage
// output and signal handling.
func Execute() {
	rest, gf := parseGlobalFlags(os.Args[1:])

	if gf.Version {
		fmt.Println(Version)
		return
	}

	tree, pctx, err := load(gf)
	if err != nil {
		printLoadError(err, gf.Verbose)
		os.Exit(exitCodeFor(err))
	}

	root := clibuild.Build(tree, newExecutor(pctx))
	root.Version = Version
	root.AddCommand(completion.Command())
	root.SetArgs(rest)

	err = fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(Version),
		fang.WithNotifySignal(os.Interrupt),
	)
	if err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(exitCodeFor(err))
	}
}

// load runs the Locator, Directive Scanner, and (when declared) Importer
// stages against the --inkfile source, parses the result, and builds the
// ambient Context the rest of the pipeline runs against (spec.md §4.1-§4.4).
func load(gf globalFlags) (*inkfile.CommandTree, *pipeline.Context, error) {
	located, err := locate.Find(gf.Inkfile, os.Stdin)
	if err != nil {
		return nil, nil, err
	}

	dirs := directive.Scan(located.Text)

	virtualText := located.Text
	fixedDirByFile := map[string]bool{located.Path: dirs.FixedDir}
	if dirs.Import && located.Path != "" {
		virtualText, fixedDirByFile, err = importer.Merge(located.Path, located.Text)
		if err != nil {
			return nil, nil, err
		}
	}

	tree, err := inkfile.Parse([]byte(virtualText), located.Path, dirs.Sort)
	if err != nil {
		return nil, nil, err
	}
	importer.ApplyOriginMetadata(tree, located.Path, fixedDirByFile)

	binaryPath := "inkjet"
	if len(os.Args) > 0 {
		binaryPath = os.Args[0]
	}
	pctx := pipeline.New(gf.Verbose, gf.Interactive, gf.Preview, located.Path, located.Dir, binaryPath)
	return tree, pctx, nil
}

// printLoadError reports a failure from a stage that runs before any cobra
// tree exists (Locate/Scan/Import/Parse), so there is no RunE handler to
// return it from and no fang output to fall back on.
func printLoadError(err error, verbose bool) {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error:"), ae.Format(verbose))
		return
	}
	fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error:"), err)
}

func exitCodeFor(err error) int {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return int(ae.ExitCode())
	}
	return 1
}
