// SPDX-License-Identifier: MPL-2.0

// Package resolver walks a parsed command line against a Command Tree,
// resolving aliases, binding flags and positional arguments, and producing
// an Invocation ready for the executor (spec.md §4.7).
package resolver

import (
	"fmt"
	"strconv"
	"strings"

	"inkjet/internal/inkfile"
	"inkjet/internal/issue"
)

// Invocation is the resolved shape of one command-line call: which Command
// to run, its ancestor chain (for CWD/path bookkeeping), and every arg/flag
// value keyed by its environment-variable name.
type Invocation struct {
	Command   *inkfile.Command
	Ancestors []*inkfile.Command
	Values    map[string]string
	ShowHelp  bool // a group command was invoked bare; print help, exit 0
}

// Resolve implements spec.md §4.7 steps 1-5 against argv (the command-line
// tokens following the global inkjet flags).
func Resolve(tree *inkfile.CommandTree, argv []string) (*Invocation, error) {
	cmd, ancestors, consumed := tree.Lookup(argv)
	return ResolveNode(cmd, ancestors, argv[consumed:])
}

// ResolveNode continues resolution from a command node a caller has already
// located (e.g. a *cobra.Command tree built by internal/clibuild, which does
// its own name/alias-based navigation): it follows the nested-default-child
// redirect loop and binds remaining against the eventual executable leaf.
func ResolveNode(cmd *inkfile.Command, ancestors []*inkfile.Command, remaining []string) (*Invocation, error) {
	for !cmd.Script.Executable() {
		def := cmd.DefaultChild()
		if def == nil {
			if len(remaining) > 0 {
				return nil, usageErrorWithIssue(cmd, issue.CommandNotFoundId, "%q is a group and takes no arguments", strings.Join(inkfile.Path(ancestors, cmd), " "))
			}
			return &Invocation{Command: cmd, Ancestors: ancestors, ShowHelp: true}, nil
		}
		if cmd.Name != "" { // the anonymous tree root is never itself an ancestor
			ancestors = append(append([]*inkfile.Command{}, ancestors...), cmd)
		}
		cmd = def
	}

	values, err := bindArgs(cmd, remaining)
	if err != nil {
		return nil, err
	}
	return &Invocation{Command: cmd, Ancestors: ancestors, Values: values}, nil
}

func usageError(cmd *inkfile.Command, format string, args ...any) error {
	return issue.NewErrorContext(issue.KindUsage).
		WithOperation("resolve command line").
		WithResource(cmd.Name).
		Wrap(fmt.Errorf(format, args...)).
		BuildError()
}

// usageErrorWithIssue is usageError tagged with a specific canned fix-it
// guide id.
func usageErrorWithIssue(cmd *inkfile.Command, id issue.Id, format string, args ...any) error {
	return issue.NewErrorContext(issue.KindUsage).
		WithOperation("resolve command line").
		WithResource(cmd.Name).
		WithIssue(id).
		Wrap(fmt.Errorf(format, args...)).
		BuildError()
}

func bindArgs(cmd *inkfile.Command, tokens []string) (map[string]string, error) {
	values := map[string]string{}
	for _, f := range cmd.Flags {
		if f.Type == inkfile.FlagTypeBool {
			values[f.Long] = "false"
		}
	}

	byLong := make(map[string]inkfile.Flag, len(cmd.Flags))
	byShort := make(map[string]inkfile.Flag, len(cmd.Flags))
	for _, f := range cmd.Flags {
		byLong[f.Long] = f
		if f.Short != "" {
			byShort[f.Short] = f
		}
	}

	var positionals, rawTail []string
	rawTailMode := false

	for i := 0; i < len(tokens); {
		tok := tokens[i]
		switch {
		case tok == "--":
			rawTailMode = true
			i++

		case rawTailMode:
			rawTail = append(rawTail, tok)
			i++

		case strings.HasPrefix(tok, "--"):
			name, val, hasVal := strings.Cut(strings.TrimPrefix(tok, "--"), "=")
			f, ok := byLong[name]
			if !ok {
				return nil, usageError(cmd, "unknown flag --%s", name)
			}
			if f.Type == inkfile.FlagTypeBool && !hasVal {
				values[f.Long] = "true"
				i++
				continue
			}
			if hasVal {
				values[f.Long] = val
				i++
				continue
			}
			if i+1 >= len(tokens) {
				return nil, usageError(cmd, "flag --%s requires a value", name)
			}
			values[f.Long] = tokens[i+1]
			i += 2

		case strings.HasPrefix(tok, "-") && tok != "-" && len(tok) > 1:
			short := tok[1:]
			if allBooleanShorts(short, byShort) {
				for _, c := range short {
					values[byShort[string(c)].Long] = "true"
				}
				i++
				continue
			}
			f, ok := byShort[short[:1]]
			if !ok {
				return nil, usageError(cmd, "unknown flag -%s", short[:1])
			}
			if f.Type == inkfile.FlagTypeBool {
				values[f.Long] = "true"
				i++
				continue
			}
			if len(short) > 1 {
				values[f.Long] = short[1:]
				i++
				continue
			}
			if i+1 >= len(tokens) {
				return nil, usageError(cmd, "flag -%s requires a value", f.Short)
			}
			values[f.Long] = tokens[i+1]
			i += 2

		default:
			positionals = append(positionals, tok)
			i++
		}
	}

	// Without a declared raw-tail group, tokens after "--" are bound like any
	// other positional, so a trailing variadic collects them.
	declaresRawTail := false
	for _, a := range cmd.Args {
		declaresRawTail = declaresRawTail || a.RawTail
	}
	if !declaresRawTail {
		positionals = append(positionals, rawTail...)
	}

	if err := bindPositionals(cmd, positionals, rawTail, values); err != nil {
		return nil, err
	}

	for _, f := range cmd.Flags {
		val, ok := values[f.Long]
		if !ok {
			if f.Required {
				return nil, usageError(cmd, "missing required flag --%s", f.Long)
			}
			continue
		}
		if f.Type == inkfile.FlagTypeNumber {
			if _, err := strconv.ParseFloat(val, 64); err != nil {
				return nil, usageErrorWithIssue(cmd, issue.InvalidFlagValueId, "flag --%s expects a number, got %q", f.Long, val)
			}
		}
	}

	return values, nil
}

func allBooleanShorts(short string, byShort map[string]inkfile.Flag) bool {
	if len(short) < 2 {
		return false
	}
	for _, c := range short {
		f, ok := byShort[string(c)]
		if !ok || f.Type != inkfile.FlagTypeBool {
			return false
		}
	}
	return true
}

func bindPositionals(cmd *inkfile.Command, positionals, rawTail []string, values map[string]string) error {
	idx := 0
	for _, arg := range cmd.Args {
		key := inkfile.EnvKey(arg.Name)

		if arg.RawTail {
			values[key] = strings.Join(rawTail, " ")
			continue
		}
		if arg.Variadic {
			if arg.Required && idx >= len(positionals) {
				return usageError(cmd, "missing required argument %q", arg.Name)
			}
			values[key] = strings.Join(positionals[idx:], " ")
			idx = len(positionals)
			continue
		}
		if idx >= len(positionals) {
			if !arg.Required {
				values[key] = arg.Default
				continue
			}
			return usageError(cmd, "missing required argument %q", arg.Name)
		}

		val := positionals[idx]
		idx++
		if arg.Type == inkfile.FlagTypeNumber {
			if _, err := strconv.ParseFloat(val, 64); err != nil {
				return usageErrorWithIssue(cmd, issue.InvalidFlagValueId, "argument %q expects a number, got %q", arg.Name, val)
			}
		}
		values[key] = val
	}

	if idx < len(positionals) {
		return usageError(cmd, "unexpected extra argument %q", positionals[idx])
	}
	return nil
}
