// SPDX-License-Identifier: MPL-2.0

// Package issue defines Inkjet's error taxonomy: five kinds (spec.md §7),
// each carrying the exit code the CLI reports for it, plus a common
// ActionableError shape that pairs an operation, an optional resource
// (file:line for config errors), and suggestions for how to fix it.
package issue

import (
	"errors"
	"fmt"
	"strings"

	"inkjet/pkg/types"
)

// Kind classifies an ActionableError into one of spec.md §7's five error
// kinds, each with a fixed exit code (spec.md §6).
type Kind int

const (
	// KindUsage is a malformed argv; exit 2.
	KindUsage Kind = iota
	// KindLocate is a missing inkfile; exit 66.
	KindLocate
	// KindConfig is a parse or structural violation; always carries a
	// source location; exit 78.
	KindConfig
	// KindIO is a file read, interpreter-not-found, or temp-file failure; exit 5.
	KindIO
	// KindScript means the script exited non-zero; Inkjet exits with that
	// same code, unwrapped — ActionableError is not used for this kind.
	KindScript
)

// ExitCode returns the exit code Inkjet reports for this error kind.
func (k Kind) ExitCode() types.ExitCode {
	switch k {
	case KindUsage:
		return types.ExitUsageError
	case KindLocate:
		return types.ExitLocateError
	case KindConfig:
		return types.ExitConfigError
	case KindIO:
		return types.ExitIoError
	default:
		return types.ExitUsageError
	}
}

func (k Kind) String() string {
	switch k {
	case KindUsage:
		return "usage error"
	case KindLocate:
		return "locate error"
	case KindConfig:
		return "config error"
	case KindIO:
		return "I/O error"
	case KindScript:
		return "script error"
	default:
		return "error"
	}
}

type (
	// ActionableError is an error with context for user-facing error messages.
	// It provides structured information about what operation failed, what resource
	// was involved, and suggestions for how to fix the issue.
	//
	// Use the ErrorContext builder for convenient construction:
	//
	//	err := issue.NewErrorContext(issue.KindConfig).
	//		WithOperation("parse heading").
	//		WithResource("inkjet.md:14").
	//		WithSuggestion("declare ancestor commands before this heading").
	//		Wrap(originalErr).
	//		Build()
	ActionableError struct {
		// Kind selects the exit code this error reports (spec.md §6/§7).
		Kind Kind

		// Operation describes what was being attempted (e.g., "load inkfile", "parse heading").
		Operation string

		// Resource identifies the file, path, or "file:line" location involved (optional).
		Resource string

		// Suggestions provides hints on how to fix the issue (optional).
		Suggestions []string

		// Cause is the underlying error that triggered this error (optional).
		Cause error

		// IssueID identifies the canned fix-it guide to append to Format's
		// output, via issue.Get(IssueID).Render(). Zero means no guide.
		IssueID Id
	}

	// ErrorContext is a builder for constructing ActionableError instances.
	ErrorContext struct {
		kind        Kind
		operation   string
		resource    string
		suggestions []string
		cause       error
		issueID     Id
	}
)

// --- Constructors ---

// NewActionableError creates an ActionableError of the given kind and operation.
func NewActionableError(kind Kind, operation string) *ActionableError {
	return &ActionableError{Kind: kind, Operation: operation}
}

// NewErrorContext creates a new ErrorContext builder for the given kind.
func NewErrorContext(kind Kind) *ErrorContext {
	return &ErrorContext{kind: kind}
}

// WrapWithOperation wraps an error with kind and operation context.
func WrapWithOperation(kind Kind, err error, operation string) *ActionableError {
	if err == nil {
		return nil
	}
	return &ActionableError{Kind: kind, Operation: operation, Cause: err}
}

// WrapWithContext wraps an error with kind, operation, and resource context.
func WrapWithContext(kind Kind, err error, operation, resource string) *ActionableError {
	if err == nil {
		return nil
	}
	return &ActionableError{Kind: kind, Operation: operation, Resource: resource, Cause: err}
}

// --- ActionableError Methods ---

// Error implements the error interface.
// Returns a concise error message suitable for default (non-verbose) output.
func (e *ActionableError) Error() string {
	var msg strings.Builder

	msg.WriteString("failed to ")
	msg.WriteString(e.Operation)

	if e.Resource != "" {
		msg.WriteString(": ")
		msg.WriteString(e.Resource)
	}

	if e.Cause != nil {
		msg.WriteString(": ")
		msg.WriteString(e.Cause.Error())
	}

	return msg.String()
}

// Unwrap returns the underlying cause error for use with errors.Is/As.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code Inkjet should report for this error.
func (e *ActionableError) ExitCode() types.ExitCode {
	return e.Kind.ExitCode()
}

// Format returns a formatted error message with optional verbosity.
//
// When verbose is false:
//
//	<kind>: failed to <operation>: <resource>: <cause message>
//	  • <suggestion 1>
//	  • <suggestion 2>
//
// When verbose is true, additionally includes the full error chain.
func (e *ActionableError) Format(verbose bool) string {
	var msg strings.Builder

	fmt.Fprintf(&msg, "%s: %s", e.Kind, e.Error())

	if len(e.Suggestions) > 0 {
		msg.WriteString("\n")
		for _, suggestion := range e.Suggestions {
			msg.WriteString("\n  • ")
			msg.WriteString(suggestion)
		}
	}

	if verbose && e.Cause != nil {
		msg.WriteString("\n\nError chain:")
		err := e.Cause
		depth := 1
		for err != nil {
			fmt.Fprintf(&msg, "\n  %d. %s", depth, err.Error())
			err = errors.Unwrap(err)
			depth++
		}
	}

	if e.IssueID != 0 {
		if guide := Get(e.IssueID); guide != nil {
			msg.WriteString("\n\n")
			msg.WriteString(guide.Render())
		}
	}

	return msg.String()
}

// HasSuggestions returns true if the error has any suggestions.
func (e *ActionableError) HasSuggestions() bool {
	return len(e.Suggestions) > 0
}

// --- ErrorContext Methods ---

// WithOperation sets the operation being performed.
// The operation should be a verb phrase like "locate inkfile" or "parse heading".
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.operation = op
	return c
}

// WithResource sets the resource (file, path, or "file:line") involved.
func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.resource = res
	return c
}

// WithSuggestion adds a suggestion for how to fix the issue.
// Can be called multiple times to add multiple suggestions.
func (c *ErrorContext) WithSuggestion(sug string) *ErrorContext {
	c.suggestions = append(c.suggestions, sug)
	return c
}

// WithSuggestions adds multiple suggestions at once.
func (c *ErrorContext) WithSuggestions(sugs ...string) *ErrorContext {
	c.suggestions = append(c.suggestions, sugs...)
	return c
}

// Wrap wraps an underlying error as the cause.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.cause = err
	return c
}

// WithIssue tags this error with the canned fix-it guide id to append when
// Format is called. Pass one of the *Id constants from issue.go.
func (c *ErrorContext) WithIssue(id Id) *ErrorContext {
	c.issueID = id
	return c
}

// Build creates an ActionableError from the context.
// Returns nil if no operation is set (operation is required).
func (c *ErrorContext) Build() *ActionableError {
	if c.operation == "" {
		return nil
	}

	return &ActionableError{
		Kind:        c.kind,
		Operation:   c.operation,
		Resource:    c.resource,
		Suggestions: c.suggestions,
		Cause:       c.cause,
		IssueID:     c.issueID,
	}
}

// BuildError creates an ActionableError and returns it as an error interface.
// Returns nil if no operation is set.
func (c *ErrorContext) BuildError() error {
	ae := c.Build()
	if ae == nil {
		return nil
	}
	return ae
}
