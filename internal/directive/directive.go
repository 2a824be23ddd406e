// SPDX-License-Identifier: MPL-2.0

// Package directive scans raw inkfile text for the handful of literal
// control lines Inkjet recognises outside the Markdown grammar proper:
// inkjet_sort, inkjet_fixed_dir, and inkjet_import. The scan happens before
// structural parsing and never consumes or mutates the text it scans.
package directive

import (
	"bufio"
	"strings"
)

// Set is the resolved directive record for one inkfile. Sort and FixedDir
// default true per spec.md §3; Import defaults false.
type Set struct {
	Sort     bool
	FixedDir bool
	Import   bool
}

// Default returns the directive defaults applied when a file declares none.
func Default() Set {
	return Set{Sort: true, FixedDir: true, Import: false}
}

const (
	tokenSort     = "inkjet_sort:"
	tokenFixedDir = "inkjet_fixed_dir:"
	tokenImport   = "inkjet_import:"
)

// Scan reads text line by line looking for the literal directive tokens,
// regardless of what Markdown construct the line sits inside. The last
// occurrence of a given directive wins. Unknown trailing values and unknown
// directive tokens are ignored.
func Scan(text string) Set {
	set := Default()

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case containsToken(line, tokenSort):
			if v, ok := boolValue(line, tokenSort); ok {
				set.Sort = v
			}
		case containsToken(line, tokenFixedDir):
			if v, ok := boolValue(line, tokenFixedDir); ok {
				set.FixedDir = v
			}
		case containsToken(line, tokenImport):
			set.Import = strings.Contains(line, "all")
		}
	}

	return set
}

func containsToken(line, token string) bool {
	return strings.Contains(line, token)
}

// boolValue extracts the true|false token trailing a directive on line,
// ignoring surrounding Markdown markup (backticks, list bullets, etc.).
func boolValue(line, token string) (bool, bool) {
	idx := strings.Index(line, token)
	if idx < 0 {
		return false, false
	}
	rest := line[idx+len(token):]
	switch {
	case strings.Contains(rest, "true"):
		return true, true
	case strings.Contains(rest, "false"):
		return false, true
	default:
		return false, false
	}
}
