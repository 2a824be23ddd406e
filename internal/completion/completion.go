// SPDX-License-Identifier: MPL-2.0

// Package completion backs the hidden inkjet-dynamic-completions command
// spec.md §4.6 describes: it prints a shell completion script for the CLI
// that internal/clibuild built, derived from that tree's visible structure.
package completion

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"inkjet/internal/issue"
)

// Shells lists the shells spec.md §4.6 names: bash and fish.
var Shells = []string{"bash", "fish"}

// CommandName is the hidden command's invocation name.
const CommandName = "inkjet-dynamic-completions"

// Write generates a completion script for shell against root's command tree
// and writes it to w. root must be the tree's actual root command, since
// cobra's generators walk the whole tree from there.
func Write(w io.Writer, root *cobra.Command, shell string) error {
	switch shell {
	case "bash":
		return root.GenBashCompletionV2(w, true)
	case "fish":
		return root.GenFishCompletion(w, true)
	default:
		return issue.NewErrorContext(issue.KindUsage).
			WithOperation("generate shell completion").
			WithResource(shell).
			WithSuggestion("use one of: "+joinShells()).
			Wrap(fmt.Errorf("unsupported shell %q", shell)).
			BuildError()
	}
}

func joinShells() string {
	out := Shells[0]
	for _, s := range Shells[1:] {
		out += ", " + s
	}
	return out
}

// Command builds the hidden inkjet-dynamic-completions <shell> command.
// It is added to the root cobra tree alongside the commands internal/clibuild
// derives from the inkfile itself, and is excluded from --help by Hidden.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:                   CommandName + " <shell>",
		Short:                 "Print a shell completion script",
		Hidden:                true,
		DisableFlagsInUseLine: true,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs:             Shells,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Write(cmd.OutOrStdout(), cmd.Root(), args[0])
		},
	}
}
