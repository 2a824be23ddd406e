// SPDX-License-Identifier: MPL-2.0

package inkfile

import (
	"fmt"

	"inkjet/internal/issue"
)

// ParseError reports a structural violation found while building the
// command tree from Markdown events: an orphan subcommand heading, a
// malformed argument token, a variadic argument that isn't last, and so on.
// Always carries a source location (spec.md §7).
func ParseError(loc SourceLocation, format string, args ...any) error {
	return ParseErrorWithIssue(loc, issue.InkfileParseErrorId, format, args...)
}

// ParseErrorWithIssue is ParseError tagged with a specific canned fix-it
// guide id, for violations more specific than the generic parse-failure
// case (duplicate flags, ambiguous aliases).
func ParseErrorWithIssue(loc SourceLocation, id issue.Id, format string, args ...any) error {
	return issue.NewErrorContext(issue.KindConfig).
		WithOperation("parse inkfile").
		WithResource(loc.String()).
		WithIssue(id).
		Wrap(fmt.Errorf(format, args...)).
		BuildError()
}
