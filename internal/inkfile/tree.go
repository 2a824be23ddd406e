// SPDX-License-Identifier: MPL-2.0

package inkfile

import (
	"sort"

	"inkjet/pkg/types"
)

// CommandTree is the rooted forest produced by the Parser. Root represents
// the inkfile itself: its Short is the document's H1 text, its Long the
// prose that sits outside any command, and its Children are the top-level
// commands.
type CommandTree struct {
	Root *Command
	Sort bool // inkjet_sort directive value; true = source order, false = alphabetical
}

// NewCommandTree creates an empty tree with the given root prose and sort
// directive.
func NewCommandTree(short, long string, sortOrder bool) *CommandTree {
	return &CommandTree{
		Root: &Command{Short: types.DescriptionText(short), Long: types.DescriptionText(long)},
		Sort: sortOrder,
	}
}

// AliasConflict reports the first command among children whose canonical
// name or alias list collides with cmd's own name or aliases, or nil if none
// does. Checked against the new command's intended siblings before it
// replaces anything in the tree.
func AliasConflict(children []*Command, cmd *Command) *Command {
	for _, sibling := range children {
		if sibling.Name == cmd.Name {
			continue // the node being replaced, not a collision
		}
		if sibling.MatchesName(cmd.Name) {
			return sibling
		}
		for _, alias := range cmd.Aliases {
			if sibling.MatchesName(alias) {
				return sibling
			}
		}
	}
	return nil
}

// Lookup walks path against the tree, resolving each segment against a
// command's canonical name or aliases. It returns the deepest Command
// reached, the ancestor chain leading to it, and how many path segments
// were consumed.
func (t *CommandTree) Lookup(path []string) (cmd *Command, ancestors []*Command, consumed int) {
	cur := t.Root
	for _, segment := range path {
		next := findChild(cur.Children, segment)
		if next == nil {
			break
		}
		if cur != t.Root {
			ancestors = append(ancestors, cur)
		}
		cur = next
		consumed++
	}
	if consumed == 0 {
		return t.Root, nil, 0
	}
	return cur, ancestors, consumed
}

func findChild(children []*Command, token string) *Command {
	for _, c := range children {
		if c.MatchesName(token) {
			return c
		}
	}
	return nil
}

// SortedChildren returns cmd's visible (non-hidden) children in the tree's
// declared display order: source order when Sort is true, otherwise
// alphabetical by canonical name. Hidden commands are omitted but remain
// invocable via Lookup.
func (t *CommandTree) SortedChildren(cmd *Command) []*Command {
	visible := make([]*Command, 0, len(cmd.Children))
	for _, c := range cmd.Children {
		if !c.Hidden {
			visible = append(visible, c)
		}
	}
	if t.Sort {
		return visible
	}
	sorted := make([]*Command, len(visible))
	copy(sorted, visible)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return sorted
}

// Walk visits every command below the root (the root itself is not
// visited), ancestors-first, depth-first,
// in declaration order (ignoring the sort directive — Walk is for
// construction-time passes, not display).
func (t *CommandTree) Walk(fn func(ancestors []*Command, cmd *Command)) {
	var recurse func(ancestors []*Command, cmd *Command)
	recurse = func(ancestors []*Command, cmd *Command) {
		fn(ancestors, cmd)
		childAncestors := append(append([]*Command{}, ancestors...), cmd)
		for _, child := range cmd.Children {
			recurse(childAncestors, child)
		}
	}
	for _, child := range t.Root.Children {
		recurse(nil, child)
	}
}

// FindByPath resolves an ancestor path, one name or alias per segment, to
// its Command, returning nil if any segment fails to match.
func (t *CommandTree) FindByPath(path []string) *Command {
	cmd, _, consumed := t.Lookup(path)
	if consumed != len(path) {
		return nil
	}
	return cmd
}

// Replace substitutes the child of parent (or a root-level command when
// parent is nil) matching name, replacing it wholesale with replacement.
// This implements the importer's "later definition wins, whole node
// replaced" override semantics (spec.md §4.3).
func (t *CommandTree) Replace(parent *Command, name string, replacement *Command) {
	target := t.Root
	if parent != nil {
		target = parent
	}
	for i, c := range target.Children {
		if c.Name == name {
			target.Children[i] = replacement
			return
		}
	}
	target.Children = append(target.Children, replacement)
}
