// SPDX-License-Identifier: MPL-2.0

// Package locate finds the inkfile to run: an explicit path, literal
// contents passed on the command line, stdin, or an upward search from the
// current directory (spec.md §4.1).
package locate

import (
	"fmt"
	"io"
	"os"
	"strings"

	"inkjet/internal/issue"
	"inkjet/pkg/fspath"
	"inkjet/pkg/types"
)

// FileName is the inkfile's canonical basename, searched for upward from
// the current directory when no explicit source is given.
const FileName = "inkjet.md"

// Result is what the Locator hands the rest of the pipeline: the raw text,
// the path it came from (empty for stdin/literal text — "synthetic"), and
// the directory scripts should treat as their working directory.
type Result struct {
	Text string
	Path string // empty when the source was literal text or stdin
	Dir  string
}

// Find implements spec.md §4.1's source-selection rules against the
// --inkfile/-c flag value (empty when the flag wasn't given), reading from
// stdin when requested.
func Find(inkfileFlag string, stdin io.Reader) (*Result, error) {
	switch {
	case strings.Contains(inkfileFlag, "\n"):
		return literalResult(inkfileFlag)
	case inkfileFlag == "-":
		return stdinResult(stdin)
	case inkfileFlag != "":
		return pathResult(inkfileFlag)
	default:
		return upwardSearchResult()
	}
}

func literalResult(text string) (*Result, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, locateError("determine working directory", "%v", err)
	}
	return &Result{Text: text, Dir: dir}, nil
}

func stdinResult(stdin io.Reader) (*Result, error) {
	raw, err := io.ReadAll(stdin)
	if err != nil {
		return nil, locateError("read inkfile from stdin", "%v", err)
	}
	dir, err := os.Getwd()
	if err != nil {
		return nil, locateError("determine working directory", "%v", err)
	}
	return &Result{Text: string(raw), Dir: dir}, nil
}

func pathResult(path string) (*Result, error) {
	abs, err := fspath.Abs(types.FilesystemPath(path))
	if err != nil {
		return nil, locateError("resolve inkfile path", "%s: %v", path, err)
	}
	raw, err := os.ReadFile(abs.String())
	if err != nil {
		return nil, locateError("read inkfile", "%s: %v", abs, err)
	}
	return &Result{Text: string(raw), Path: abs.String(), Dir: fspath.Dir(abs).String()}, nil
}

// upwardSearchResult walks from the current directory to the filesystem
// root looking for FileName, per spec.md §4.1's default rule.
func upwardSearchResult() (*Result, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, locateError("determine working directory", "%v", err)
	}
	dir := types.FilesystemPath(wd)

	for {
		candidate := fspath.JoinStr(dir, FileName)
		if info, statErr := os.Stat(candidate.String()); statErr == nil && !info.IsDir() {
			return pathResult(candidate.String())
		}

		parent := fspath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return nil, issue.NewErrorContext(issue.KindLocate).
		WithOperation("locate inkfile").
		WithSuggestion("create an " + FileName + " in this directory or an ancestor").
		WithSuggestion("pass --inkfile/-c with an explicit path").
		WithIssue(issue.InkfileNotFoundId).
		BuildError()
}

func locateError(operation, format string, args ...any) error {
	return issue.NewErrorContext(issue.KindLocate).
		WithOperation(operation).
		Wrap(fmt.Errorf(format, args...)).
		BuildError()
}
