// SPDX-License-Identifier: MPL-2.0

package inkfile

import "strings"

// flagBuilder accumulates one flag declaration across the events of a
// single OPTIONS list item, in either its longform (nested sub-bullets) or
// shorthand (single line, "|type|" delimited) form.
type flagBuilder struct {
	long, short, typ, desc string
	required               bool
}

func (b *flagBuilder) build(loc SourceLocation) (Flag, error) {
	if b.long == "" && b.short == "" {
		return Flag{}, ParseError(loc, "OPTIONS entry has no flag name")
	}
	ft := FlagTypeString
	if b.typ != "" {
		var err error
		ft, err = ParseFlagType(b.typ)
		if err != nil {
			return Flag{}, ParseError(loc, "%s", err.Error())
		}
	}
	long := b.long
	if long == "" {
		long = b.short
	}
	return Flag{
		Long:        EnvKey(long),
		Short:       b.short,
		Type:        ft,
		Required:    b.required,
		Description: strings.TrimSpace(b.desc),
	}, nil
}

// parseShorthandFlagLine parses a single-line OPTIONS bullet of the form:
//
//	flag: -x --long |type| [required] description text
//
// Multiple short/long tokens may appear before the "|type|" delimiter.
func parseShorthandFlagLine(line string) (*flagBuilder, bool) {
	prefix, rest, ok := strings.Cut(line, ":")
	if !ok {
		return nil, false
	}
	if key := strings.TrimSpace(prefix); key != "flag" && key != "flags" {
		return nil, false
	}

	b := &flagBuilder{}
	var descWords []string
	for _, word := range strings.Fields(rest) {
		switch {
		case strings.HasPrefix(word, "--"):
			b.long = strings.TrimPrefix(word, "--")
		case strings.HasPrefix(word, "-") && len(word) >= 2:
			b.short = word[1:2]
		case strings.HasPrefix(word, "|") && strings.HasSuffix(word, "|") && len(word) >= 2:
			b.typ = strings.Trim(word, "|")
		case word == "required":
			b.required = true
		default:
			descWords = append(descWords, word)
		}
	}
	b.desc = strings.Join(descWords, " ")
	return b, true
}

// applyLongformField applies a "key: value" sub-bullet line to an
// in-progress longform flag declaration. Recognised keys: flag/flags
// (space-separated short/long tokens), type, desc, and the bare token
// "required" (handled by the caller, since it carries no colon).
func applyLongformField(b *flagBuilder, line string) {
	key, val, ok := strings.Cut(line, ":")
	if !ok {
		return
	}
	key = strings.TrimSpace(key)
	val = strings.TrimSpace(val)

	switch key {
	case "flag", "flags":
		for _, tok := range strings.Fields(val) {
			switch {
			case strings.HasPrefix(tok, "--"):
				b.long = strings.TrimPrefix(tok, "--")
			case strings.HasPrefix(tok, "-") && len(tok) >= 2:
				b.short = tok[1:2]
			}
		}
	case "type":
		b.typ = val
	case "desc":
		b.desc = val
	}
}
