// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	InkfileNotFoundId Id = iota + 1
	InkfileParseErrorId
	CommandNotFoundId
	InterpreterNotFoundId
	ShellNotFoundId
	AmbiguousAliasId
	DuplicateFlagId
	InvalidFlagValueId
	ScriptExecutionFailedId
	ImportCycleId
)

type MarkdownMsg string

type HttpLink string

// Issue is a canned, renderable fix-it guide keyed by an Id, printed
// alongside an ActionableError's Format(verbose) output when the error
// carries its IssueID.
type Issue struct {
	id       Id
	mdMsg    MarkdownMsg
	docLinks []HttpLink
	extLinks []HttpLink
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render formats the issue as Markdown text, ready to be passed to a
// render.Renderer. It does not style the text for the terminal itself.
func (i *Issue) Render() string {
	md := string(i.mdMsg)
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md += "\n\n## See also\n"
		for _, link := range i.docLinks {
			md += "- " + string(link) + "\n"
		}
		for _, link := range i.extLinks {
			md += "- " + string(link) + "\n"
		}
	}
	return md
}

var (
	inkfileNotFoundIssue = &Issue{
		id: InkfileNotFoundId,
		mdMsg: `
# No inkfile found

Inkjet searched upward from the current directory for ` + "`inkjet.md`" + ` and
found none.

## Things you can try
- Create an ` + "`inkjet.md`" + ` in your project root:
~~~markdown
# My Project

## build
` + "```" + `sh
go build ./...
` + "```" + `
~~~
- Or point Inkjet at a specific file:
~~~
$ inkjet -c path/to/inkfile.md
~~~`,
	}

	inkfileParseErrorIssue = &Issue{
		id: InkfileParseErrorId,
		mdMsg: `
# Failed to parse inkfile

Your inkfile contains a heading or OPTIONS block Inkjet couldn't parse.

## Common causes
- A name token missing its closing paren, e.g. ` + "`(name`" + ` instead of ` + "`(name)`" + `
- A default value after ` + "`...`" + ` on a variadic argument
- An OPTIONS sub-bullet with no recognized type suffix

## Things you can try
- Re-run with ` + "`--verbose`" + ` to see the exact line Inkjet stopped on
- Check that every command heading is at most one level deeper than its parent`,
	}

	commandNotFoundIssue = &Issue{
		id: CommandNotFoundId,
		mdMsg: `
# Command not found

The command path you gave doesn't match any heading in the inkfile.

## Things you can try
- List available commands:
~~~
$ inkjet --help
~~~
- Check for typos or missing parent commands in the path`,
	}

	interpreterNotFoundIssue = &Issue{
		id: InterpreterNotFoundId,
		mdMsg: `
# Interpreter not found

The command's fenced code block declares a language Inkjet couldn't find an
interpreter for on this system.

## Things you can try
- Install the interpreter (node, python3, ruby, php, deno, ...) and ensure
  it's on PATH
- Add a shebang line as the first line of the script to override the
  language-based lookup`,
	}

	shellNotFoundIssue = &Issue{
		id: ShellNotFoundId,
		mdMsg: `
# Shell not found

The shell named by the code block was not on PATH, and Inkjet's embedded
POSIX shell could not parse or start the script instead.

## Shells Inkjet looks for
- The shell named by the block's language tag (sh, bash, zsh, fish, dash) on PATH
- Otherwise, its own embedded POSIX shell

## Things you can try
- Install bash or another POSIX shell and ensure it's on PATH`,
	}

	ambiguousAliasIssue = &Issue{
		id: AmbiguousAliasId,
		mdMsg: `
# Ambiguous alias

Two sibling commands declare the same alias.

## Things you can try
- Rename one of the conflicting aliases in the ` + "`//`" + ` alias list on the heading`,
	}

	duplicateFlagIssue = &Issue{
		id: DuplicateFlagId,
		mdMsg: `
# Duplicate flag name

A command's OPTIONS block declares the same flag name more than once.

## Things you can try
- Remove or rename the duplicate entry in the OPTIONS list`,
	}

	invalidFlagValueIssue = &Issue{
		id: InvalidFlagValueId,
		mdMsg: `
# Invalid flag value

A flag value couldn't be converted to its declared type.

## Things you can try
- For number flags, pass a plain decimal like ` + "`42`" + ` or ` + "`3.14`" + `
- For boolean flags, omit the value to set it true, or pass ` + "`=false`" + ``,
	}

	scriptExecutionFailedIssue = &Issue{
		id: ScriptExecutionFailedId,
		mdMsg: `
# Script execution failed

The command's script could not be started, or stopped without reporting an
exit status.

## Things you can try
- Run with ` + "`--verbose`" + ` to see the resolved interpreter and working directory
- Test the script's fenced code block content directly in your shell`,
	}

	importCycleIssue = &Issue{
		id: ImportCycleId,
		mdMsg: `
# Import cycle detected

An imported inkfile declares its own ` + "`inkjet_import: all`" + `. Nested
imports could form a cycle, so Inkjet rejects them.

## Things you can try
- Remove the ` + "`inkjet_import: all`" + ` directive from the imported file
  and keep it only in the top-level inkfile`,
	}

	issues = map[Id]*Issue{
		inkfileNotFoundIssue.Id():       inkfileNotFoundIssue,
		inkfileParseErrorIssue.Id():     inkfileParseErrorIssue,
		commandNotFoundIssue.Id():       commandNotFoundIssue,
		interpreterNotFoundIssue.Id():   interpreterNotFoundIssue,
		shellNotFoundIssue.Id():         shellNotFoundIssue,
		ambiguousAliasIssue.Id():        ambiguousAliasIssue,
		duplicateFlagIssue.Id():         duplicateFlagIssue,
		invalidFlagValueIssue.Id():      invalidFlagValueIssue,
		scriptExecutionFailedIssue.Id(): scriptExecutionFailedIssue,
		importCycleIssue.Id():           importCycleIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
