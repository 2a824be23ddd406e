// SPDX-License-Identifier: MPL-2.0

package inkfile

import (
	"strings"
)

// headingTokens is the parsed shape of a command heading's visible text:
// the space-separated ancestor path (last segment carries hidden/alias
// markup), plus the ordered positional-argument tokens that followed it.
type headingTokens struct {
	pathWords []string
	args      []PositionalArg
}

// parseHeading tokenises a command heading's text into its ancestor-path
// words and positional-argument descriptors. loc is used for diagnostics.
func parseHeading(text string, loc SourceLocation) (headingTokens, error) {
	fields := strings.Fields(text)
	var pathWords []string
	var args []PositionalArg
	rawTail := false

	for _, f := range fields {
		switch {
		case f == "--":
			rawTail = true
		case strings.HasPrefix(f, "(") && strings.HasSuffix(f, ")"):
			arg, err := parseArgToken(f, loc)
			if err != nil {
				return headingTokens{}, err
			}
			arg.RawTail = rawTail
			args = append(args, arg)
		default:
			if len(args) > 0 {
				return headingTokens{}, ParseError(loc, "path segment %q found after argument tokens in heading %q", f, text)
			}
			pathWords = append(pathWords, f)
		}
	}

	if len(pathWords) == 0 {
		return headingTokens{}, ParseError(loc, "command heading %q has no name", text)
	}

	if err := validateArgOrder(args, loc); err != nil {
		return headingTokens{}, err
	}

	return headingTokens{pathWords: pathWords, args: args}, nil
}

// parseArgToken parses one "(...)" token from a heading into a
// PositionalArg. Recognised forms: (name), (name?), (name=value),
// (name...), (name...?).
func parseArgToken(token string, loc SourceLocation) (PositionalArg, error) {
	inner := strings.TrimSuffix(strings.TrimPrefix(token, "("), ")")
	if inner == "" {
		return PositionalArg{}, ParseError(loc, "empty argument name in token %q", token)
	}

	arg := PositionalArg{Required: true, Type: FlagTypeString}

	if idx := strings.IndexByte(inner, '='); idx >= 0 {
		arg.Name = inner[:idx]
		arg.Default = inner[idx+1:]
		arg.Required = false
		if strings.HasSuffix(arg.Name, "...") {
			return PositionalArg{}, ParseError(loc, "variadic argument %q cannot have a default value", token)
		}
		return finishArg(arg, loc, token)
	}

	if strings.HasSuffix(inner, "...?") {
		arg.Name = strings.TrimSuffix(inner, "...?")
		arg.Variadic = true
		arg.Required = false
		return finishArg(arg, loc, token)
	}

	if strings.HasSuffix(inner, "...") {
		arg.Name = strings.TrimSuffix(inner, "...")
		arg.Variadic = true
		arg.Required = true
		return finishArg(arg, loc, token)
	}

	if strings.HasSuffix(inner, "?") {
		arg.Name = strings.TrimSuffix(inner, "?")
		arg.Required = false
		return finishArg(arg, loc, token)
	}

	arg.Name = inner
	return finishArg(arg, loc, token)
}

func finishArg(arg PositionalArg, loc SourceLocation, token string) (PositionalArg, error) {
	if arg.Name == "" {
		return PositionalArg{}, ParseError(loc, "empty argument name in token %q", token)
	}
	return arg, nil
}

// validateArgOrder enforces spec.md §3's PositionalArg invariants: at most
// one variadic and it must be last; a required arg cannot follow an
// optional one; a raw-tail group must be last.
func validateArgOrder(args []PositionalArg, loc SourceLocation) error {
	seenOptional := false
	seenVariadic := false
	seenRawTail := false
	for i, a := range args {
		if seenVariadic {
			return ParseError(loc, "argument %q declared after variadic argument, which must be last", a.Name)
		}
		if seenRawTail && !a.RawTail {
			return ParseError(loc, "argument %q declared after raw-tail group, which must be last", a.Name)
		}
		if a.Variadic {
			seenVariadic = true
		}
		if a.RawTail {
			seenRawTail = true
		}
		if a.Required && seenOptional && !a.RawTail {
			return ParseError(loc, "required argument %q follows an optional argument at position %d", a.Name, i)
		}
		if !a.Required {
			seenOptional = true
		}
	}
	return nil
}

// terminalNameParts is the result of splitting a heading's last path word
// into its hidden marker, canonical name, and alias list.
type terminalNameParts struct {
	Name    string
	Aliases []string
	Hidden  bool
}

// parseTerminalName splits the last path segment of a heading on a leading
// "_" (hidden marker) and "//" (alias list, comma-separated).
func parseTerminalName(word string) terminalNameParts {
	hidden := false
	if strings.HasPrefix(word, "_") {
		hidden = true
		word = strings.TrimPrefix(word, "_")
	}

	name := word
	var aliases []string
	if idx := strings.Index(word, "//"); idx >= 0 {
		name = word[:idx]
		aliasPart := word[idx+2:]
		if aliasPart != "" {
			for _, a := range strings.Split(aliasPart, ",") {
				if a != "" {
					aliases = append(aliases, a)
				}
			}
		}
	}

	return terminalNameParts{Name: name, Aliases: aliases, Hidden: hidden}
}
