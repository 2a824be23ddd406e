// SPDX-License-Identifier: MPL-2.0

// Package clibuild translates a parsed Command Tree into a *cobra.Command
// tree so that --help, subcommand navigation, and shell-completion hooks
// read naturally at every level, while leaving the actual argv-to-values
// binding to internal/resolver (spec.md §4.6).
package clibuild

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"inkjet/internal/inkfile"
)

// Executor is invoked once cobra has located the deepest command node whose
// name/alias path is a prefix of argv. tail holds whatever argv remains
// after that path — the tokens the Resolver still needs to bind.
type Executor func(ctx context.Context, node *inkfile.Command, ancestors []*inkfile.Command, tail []string) error

// ErrShowHelp is the sentinel an Executor returns for a bare group
// invocation (spec.md §4.7's "no default child, no extra args" case): print
// this node's own --help and exit 0, rather than treating it as a failure.
var ErrShowHelp = errors.New("show help")

// Build constructs the root *cobra.Command for tree. Every node gets
// DisableFlagParsing so cobra never tries to interpret an inkfile's own
// flag syntax (`(name?)`, OPTIONS shorthand) as its own — the Resolver owns
// that grammar. Cobra's job here is limited to name/alias-based navigation,
// help text, and the dynamic completion hook spec.md §4.6 requires.
func Build(tree *inkfile.CommandTree, run Executor) *cobra.Command {
	// Ordering of the visible listing is the tree's own (source order or
	// alphabetical, per inkjet_sort) — cobra's default alphabetical
	// resort would undo it, since EnableCommandSorting is a package-level
	// switch rather than a per-command one.
	cobra.EnableCommandSorting = false

	root := &cobra.Command{
		Use:                "inkjet",
		Short:              firstNonEmpty(tree.Root.Short.String(), "Run commands defined in an inkfile"),
		Long:               tree.Root.Long.String(),
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableFlagParsing: true,
	}
	root.RunE = execFunc(root, tree.Root, nil, run)
	root.ValidArgsFunction = completionFunc(tree, tree.Root, nil)

	for _, child := range orderedChildren(tree, tree.Root) {
		root.AddCommand(buildNode(tree, child, nil, run))
	}
	return root
}

func buildNode(tree *inkfile.CommandTree, node *inkfile.Command, ancestors []*inkfile.Command, run Executor) *cobra.Command {
	cmd := &cobra.Command{
		Use:                usage(node),
		Aliases:            visibleAliases(node),
		Short:              node.Short.String(),
		Long:               longDescription(node),
		Hidden:             node.Hidden,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableFlagParsing: true,
	}
	cmd.RunE = execFunc(cmd, node, ancestors, run)
	cmd.ValidArgsFunction = completionFunc(tree, node, ancestors)

	childAncestors := append(append([]*inkfile.Command{}, ancestors...), node)
	for _, child := range orderedChildren(tree, node) {
		cmd.AddCommand(buildNode(tree, child, childAncestors, run))
	}
	return cmd
}

func execFunc(cmd *cobra.Command, node *inkfile.Command, ancestors []*inkfile.Command, run Executor) func(*cobra.Command, []string) error {
	return func(c *cobra.Command, tail []string) error {
		err := run(cmd.Context(), node, ancestors, tail)
		if errors.Is(err, ErrShowHelp) {
			return c.Help()
		}
		return err
	}
}

// completionFunc offers the node's visible child names/aliases as the next
// completion word — the dynamic-completion hook spec.md §4.6 asks for,
// sourced straight from the tree rather than a static cobra registration.
func completionFunc(tree *inkfile.CommandTree, node *inkfile.Command, _ []*inkfile.Command) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var completions []string
		for _, child := range tree.SortedChildren(node) {
			if strings.HasPrefix(child.Name, toComplete) {
				completions = append(completions, child.Name)
			}
		}
		return completions, cobra.ShellCompDirectiveNoFileComp
	}
}

// orderedChildren returns ALL of node's children, hidden ones included, in
// the tree's declared display order. Unlike tree.SortedChildren (which drops
// hidden commands entirely — correct for help listings, wrong for cobra
// navigation), every child still needs a cobra command so Find() can reach
// it; cmd.Hidden is what keeps it out of --help.
func orderedChildren(tree *inkfile.CommandTree, node *inkfile.Command) []*inkfile.Command {
	children := append([]*inkfile.Command{}, node.Children...)
	if !tree.Sort {
		sort.Slice(children, func(i, j int) bool { return children[i].Name < children[j].Name })
	}
	return children
}

func usage(node *inkfile.Command) string {
	parts := []string{node.Name}
	for _, arg := range node.Args {
		parts = append(parts, argPlaceholder(arg))
	}
	return strings.Join(parts, " ")
}

func argPlaceholder(arg inkfile.PositionalArg) string {
	name := arg.Name
	if arg.Variadic {
		name += "..."
	}
	if arg.RawTail {
		return "-- " + name
	}
	if arg.Required {
		return fmt.Sprintf("<%s>", name)
	}
	return fmt.Sprintf("[%s]", name)
}

// visibleAliases drops the synthetic "default" alias, which selects this
// command when its parent is invoked bare — it is not a name a user types.
func visibleAliases(node *inkfile.Command) []string {
	out := make([]string, 0, len(node.Aliases))
	for _, a := range node.Aliases {
		if a != "default" {
			out = append(out, a)
		}
	}
	return out
}

func longDescription(node *inkfile.Command) string {
	if len(node.Flags) == 0 && len(node.Args) == 0 {
		return node.Long.String()
	}
	var b strings.Builder
	b.WriteString(node.Long.String())
	if len(node.Args) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("Arguments:\n")
		for _, arg := range node.Args {
			fmt.Fprintf(&b, "  %s\n", argPlaceholder(arg))
		}
	}
	if len(node.Flags) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("\nOptions:\n")
		for _, flag := range node.Flags {
			short := ""
			if flag.Short != "" {
				short = "-" + flag.Short + ", "
			}
			fmt.Fprintf(&b, "  %s--%s\t%s\n", short, flag.Long, flag.Description)
		}
	}
	return b.String()
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
