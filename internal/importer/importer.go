// SPDX-License-Identifier: MPL-2.0

// Package importer discovers peer inkfiles under a top-level inkfile's
// directory and merges them into one virtual Markdown document that
// internal/inkfile.Parse can consume unchanged (spec.md §4.3).
package importer

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"inkjet/internal/directive"
	"inkjet/internal/inkfile"
	"inkjet/internal/issue"
	"inkjet/pkg/fspath"
	"inkjet/pkg/types"
)

// Discover finds every file named exactly "inkjet.md" or ending in
// ".inkjet.md" beneath root, sorted by directory depth ascending then path
// lexicographically ascending — the order spec.md §4.3 step 2 requires.
func Discover(root string) ([]string, error) {
	var found []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if name == "inkjet.md" || strings.HasSuffix(name, ".inkjet.md") {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(found, func(i, j int) bool {
		di, dj := depth(root, found[i]), depth(root, found[j])
		if di != dj {
			return di < dj
		}
		return found[i] < found[j]
	})
	return found, nil
}

func depth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator))
}

// Merge builds a single virtual inkfile from topPath/topText and its
// discovered peers: the top-level file always comes first, followed by the
// peers in Discover's order. It returns each origin file's own
// inkjet_fixed_dir directive value, keyed by absolute path, for the
// executor's CWD decision.
func Merge(topPath, topText string) (virtualText string, fixedDirByFile map[string]bool, err error) {
	root := fspath.Dir(types.FilesystemPath(topPath)).String()
	discovered, err := Discover(root)
	if err != nil {
		return "", nil, err
	}
	paths := []string{topPath}
	for _, p := range discovered {
		if p != topPath {
			paths = append(paths, p)
		}
	}

	fixedDirByFile = make(map[string]bool, len(paths))
	segments := make([]string, 0, len(paths))

	for _, p := range paths {
		text := topText
		if p != topPath {
			raw, rerr := os.ReadFile(p)
			if rerr != nil {
				return "", nil, rerr
			}
			text = string(raw)
		}
		dirs := directive.Scan(text)
		if p != topPath && dirs.Import {
			return "", nil, importCycleError(p)
		}
		fixedDirByFile[p] = dirs.FixedDir

		body := text
		if p != topPath {
			body = shiftHeadings(text)
		}
		segments = append(segments, marker(p)+"\n\n"+body)
	}

	return strings.Join(segments, "\n\n"), fixedDirByFile, nil
}

func importCycleError(path string) error {
	return issue.NewErrorContext(issue.KindIO).
		WithOperation("merge imported inkfiles").
		WithResource(path).
		WithIssue(issue.ImportCycleId).
		Wrap(fmt.Errorf("%q declares its own inkjet_import: all — nested imports are not supported", path)).
		BuildError()
}

func marker(path string) string {
	return "<!-- inkfile: " + path + " -->"
}

var headingLineRE = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)

// shiftHeadings implements spec.md §4.3 step 3: a peer file with its own H1
// gets every heading level bumped by one and every heading's visible text
// prefixed with the H1's own text, so "## build" nested under "# frontend"
// becomes "### frontend build" once merged — satisfying the parser's
// full-ancestor-path rule. A peer with no H1 passes through untouched; its
// H2s become siblings of the parent document's own top-level commands.
// Lines inside fenced code blocks are never treated as headings.
func shiftHeadings(text string) string {
	lines := strings.Split(text, "\n")

	fenced := make([]bool, len(lines))
	inFence := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			fenced[i] = true
			continue
		}
		fenced[i] = inFence
	}

	h1 := ""
	for i, line := range lines {
		if fenced[i] {
			continue
		}
		if m := headingLineRE.FindStringSubmatch(line); m != nil && len(m[1]) == 1 {
			h1 = strings.TrimSpace(m[2])
			break
		}
	}
	if h1 == "" {
		return text
	}

	out := make([]string, len(lines))
	for i, line := range lines {
		m := headingLineRE.FindStringSubmatch(line)
		if m == nil || fenced[i] {
			out[i] = line
			continue
		}
		level := len(m[1])
		body := strings.TrimSpace(m[2])
		if level == 1 {
			out[i] = strings.Repeat("#", level+1) + " " + h1
			continue
		}
		out[i] = strings.Repeat("#", level+1) + " " + h1 + " " + body
	}
	return strings.Join(out, "\n")
}

// ApplyOriginMetadata stamps each command with the two facts the Executor
// needs about where it came from: FixedDirOff (from that origin file's own
// inkjet_fixed_dir directive, defaulting to fixed-dir-on when the file was
// never seen by Merge) and FromImport (true once its SourceFile differs
// from the top-level inkfile).
func ApplyOriginMetadata(tree *inkfile.CommandTree, topPath string, fixedDirByFile map[string]bool) {
	tree.Walk(func(_ []*inkfile.Command, cmd *inkfile.Command) {
		fixedDir, known := fixedDirByFile[cmd.SourceFile]
		cmd.FixedDirOff = known && !fixedDir
		cmd.FromImport = cmd.SourceFile != "" && cmd.SourceFile != topPath
	})
}
