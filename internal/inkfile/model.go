// SPDX-License-Identifier: MPL-2.0

// Package inkfile holds the data model produced by parsing an inkfile:
// Command, PositionalArg, Flag, Script, and the CommandTree that owns them.
package inkfile

import (
	"errors"
	"fmt"

	"inkjet/pkg/types"
)

// FlagType is the declared value type of a Flag or PositionalArg.
type FlagType string

const (
	// FlagTypeString is the default flag/arg type.
	FlagTypeString FlagType = "string"
	// FlagTypeBool is a boolean flag; presence alone sets it true.
	FlagTypeBool FlagType = "boolean"
	// FlagTypeNumber is a decimal-parseable flag or arg.
	FlagTypeNumber FlagType = "number"
)

// ErrInvalidFlagType is the sentinel wrapped by InvalidFlagTypeError.
var ErrInvalidFlagType = errors.New("invalid flag type")

// InvalidFlagTypeError is returned when a shorthand or longform OPTIONS entry
// names a type suffix that isn't one of string/boolean/number.
type InvalidFlagTypeError struct {
	Value string
}

func (e *InvalidFlagTypeError) Error() string {
	return fmt.Sprintf("invalid flag type %q (valid: string, boolean, number)", e.Value)
}

func (e *InvalidFlagTypeError) Unwrap() error { return ErrInvalidFlagType }

// ParseFlagType normalises a type token from an OPTIONS block into a FlagType.
func ParseFlagType(s string) (FlagType, error) {
	switch s {
	case "string", "str":
		return FlagTypeString, nil
	case "boolean", "bool":
		return FlagTypeBool, nil
	case "number", "num", "float", "int":
		return FlagTypeNumber, nil
	default:
		return "", &InvalidFlagTypeError{Value: s}
	}
}

// SourceLocation identifies where in an inkfile a construct was declared,
// for diagnostics and for INKJET_IMPORTED / CWD resolution.
type SourceLocation struct {
	File string
	Line int
}

func (s SourceLocation) String() string {
	if s.File == "" {
		return fmt.Sprintf("line %d", s.Line)
	}
	return fmt.Sprintf("%s:%d", s.File, s.Line)
}

// PositionalArg is one positional argument declared in a command heading.
type PositionalArg struct {
	Name     string
	Required bool
	Default  string // implies Required == false when non-empty
	Variadic bool   // must be the last positional arg
	RawTail  bool   // declared after a literal "--" in the heading; must be last
	Type     FlagType
}

// Flag is one flag declared in a command's OPTIONS block.
type Flag struct {
	Long        string // environment-key form: dashes already replaced with underscores
	Short       string // single character, optional
	Type        FlagType
	Required    bool
	Description string
	Implicit    bool // true for the auto-added "verbose" flag when not explicitly declared
}

// Script is a command's executable body, taken from the first non-empty
// fenced code block following its heading.
type Script struct {
	Language string // normalised per the language table (e.g. "node", not "js")
	Source   string
	Shebang  string // first line, if it begins with "#!"; overrides Language at execution time
}

// Executable reports whether the command has a non-empty script body.
// Commands without one are groups: invocable only through their children.
func (s *Script) Executable() bool {
	return s != nil && s.Source != ""
}

// Command is one node of the command tree: either a group (no Script) or a
// leaf that can be invoked directly.
type Command struct {
	Name        string
	Aliases     []string
	Short       types.DescriptionText // first blockquote after the heading
	Long        types.DescriptionText // subsequent prose
	Args        []PositionalArg
	Flags       []Flag
	Script      *Script  // the block the Executor runs by default (Scripts[0])
	Scripts     []Script // every fenced code block found under this heading, in source order
	Children    []*Command
	Hidden      bool
	Location    SourceLocation
	SourceFile  string // the physical file this command was declared in (importer marker)
	FromImport  bool   // true when SourceFile differs from the top-level inkfile
	FixedDirOff bool   // true when this command's origin file set inkjet_fixed_dir: false
}

// Path returns the ancestor path, one canonical name per segment, used for
// CLI invocation and Invocation bookkeeping, given the ancestor chain.
func Path(ancestors []*Command, cmd *Command) []string {
	names := make([]string, 0, len(ancestors)+1)
	for _, a := range ancestors {
		names = append(names, a.Name)
	}
	names = append(names, cmd.Name)
	return names
}

// MatchesName reports whether token equals the command's canonical name or
// one of its aliases.
func (c *Command) MatchesName(token string) bool {
	if c.Name == token {
		return true
	}
	for _, a := range c.Aliases {
		if a == token {
			return true
		}
	}
	return false
}

// DefaultChild returns the child command whose alias list contains "default",
// or nil if none declares one.
func (c *Command) DefaultChild() *Command {
	for _, child := range c.Children {
		for _, a := range child.Aliases {
			if a == "default" {
				return child
			}
		}
	}
	return nil
}

// EnvKey converts a flag or arg long name to its environment-variable key,
// per spec: dashes become underscores, the rest is passed through verbatim.
func EnvKey(name string) string {
	out := make([]byte, len(name))
	for i := 0; i < len(name); i++ {
		if name[i] == '-' {
			out[i] = '_'
		} else {
			out[i] = name[i]
		}
	}
	return string(out)
}

// EnsureImplicitVerbose adds an implicit "verbose" boolean flag with short
// "v" if the command hasn't declared one explicitly.
func (c *Command) EnsureImplicitVerbose() {
	for _, f := range c.Flags {
		if f.Long == "verbose" {
			return
		}
	}
	c.Flags = append(c.Flags, Flag{
		Long:     "verbose",
		Short:    "v",
		Type:     FlagTypeBool,
		Implicit: true,
	})
}
