// SPDX-License-Identifier: MPL-2.0

package inkfile

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"inkjet/internal/issue"
	"inkjet/pkg/types"
)

// parseState tags where the walker sits in a command's declaration, mirroring
// the explicit state machine spec.md's Parser component is described by: the
// streaming Markdown event source drives transitions between these states
// rather than a recursive-descent grammar.
type parseState int

const (
	stateIdle parseState = iota
	stateAwaitingDescription
	stateCollectingProse
	stateInOptionsList
)

// maxHeadingLevel is the deepest heading Inkjet recognises as a command
// (H2 through H6; H1 is reserved for the document title).
const maxHeadingLevel = 6

// languageAliases normalises a fenced code block's info string per
// spec.md §3's Script language table.
var languageAliases = map[string]string{
	"js":         "node",
	"javascript": "node",
	"py":         "python",
	"rb":         "ruby",
	"ts":         "deno",
	"go":         "yaegi",
}

func normalizeLanguage(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if norm, ok := languageAliases[tag]; ok {
		return norm
	}
	return tag
}

// walker holds the mutable parse state threaded through the AST walk.
type walker struct {
	source      []byte
	sourceFile  string
	tree        *CommandTree
	openByLevel [maxHeadingLevel + 1]*Command // index by heading level 2..6
	current     *Command                      // command the walker is currently populating
	state       parseState
	awaitingOptions bool
	seenH1      bool
	rootProse   []string
	err         error
}

// Parse builds a CommandTree from raw Markdown source. sourceFile is
// attached to every Command's SourceFile for CWD and INKJET_IMPORTED
// bookkeeping; sortOrder is the effective inkjet_sort directive value.
func Parse(source []byte, sourceFile string, sortOrder bool) (*CommandTree, error) {
	md := goldmark.New()
	reader := text.NewReader(source)
	doc := md.Parser().Parse(reader)

	w := &walker{source: source, sourceFile: sourceFile}
	w.tree = NewCommandTree("", "", sortOrder)

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if w.err != nil {
			return nil, w.err
		}
		w.visitTop(n)
	}
	if w.err != nil {
		return nil, w.err
	}

	w.tree.Root.Long = types.DescriptionText(strings.TrimSpace(strings.Join(w.rootProse, "\n\n")))

	w.tree.Walk(func(_ []*Command, cmd *Command) {
		if len(cmd.Scripts) > 0 {
			primary := cmd.Scripts[0]
			cmd.Script = &primary
		}
		if cmd.Script.Executable() {
			cmd.EnsureImplicitVerbose()
		}
	})

	return w.tree, nil
}

func (w *walker) loc(n ast.Node) SourceLocation {
	offset, _ := firstOffset(n)
	return SourceLocation{File: w.sourceFile, Line: lineOf(w.source, offset)}
}

func (w *walker) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

func (w *walker) visitTop(n ast.Node) {
	switch node := n.(type) {
	case *ast.Heading:
		w.visitHeading(node)
	case *ast.Blockquote:
		w.visitBlockquote(node)
	case *ast.Paragraph:
		w.visitParagraph(node)
	case *ast.List:
		w.visitList(node)
	case *ast.FencedCodeBlock:
		w.visitCodeFence(node)
	case *ast.HTMLBlock:
		w.visitHTMLBlock(node)
	default:
		// Everything else (thematic breaks, tables, raw HTML inlines at the
		// top level, etc.) is prose Inkjet doesn't attach meaning to.
	}
}

func (w *walker) visitHeading(h *ast.Heading) {
	loc := w.loc(h)
	text := strings.TrimSpace(extractText(h, w.source))

	if h.Level == 1 {
		w.seenH1 = true
		if w.tree.Root.Short == "" {
			w.tree.Root.Short = types.DescriptionText(text)
		}
		for lvl := 2; lvl <= maxHeadingLevel; lvl++ {
			w.openByLevel[lvl] = nil
		}
		w.current = nil
		w.state = stateIdle
		return
	}

	if h.Level > maxHeadingLevel {
		return
	}

	tokens, err := parseHeading(text, loc)
	if err != nil {
		w.fail(err)
		return
	}

	depth := h.Level - 1 // number of path segments this heading must supply
	if len(tokens.pathWords) != depth {
		w.fail(ParseError(loc, "heading %q at level %d must name exactly %d path segment(s)", text, h.Level, depth))
		return
	}

	var parent *Command
	for i := 0; i < depth-1; i++ {
		ancestor := w.openByLevel[i+2]
		if ancestor == nil || !ancestor.MatchesName(tokens.pathWords[i]) {
			w.fail(ParseError(loc, "heading %q has no open ancestor %q at level %d", text, tokens.pathWords[i], i+2))
			return
		}
		parent = ancestor
	}

	terminal := parseTerminalName(tokens.pathWords[depth-1])
	if terminal.Name == "" {
		w.fail(ParseError(loc, "command heading %q has an empty name", text))
		return
	}

	cmd := &Command{
		Name:       terminal.Name,
		Aliases:    terminal.Aliases,
		Hidden:     terminal.Hidden,
		Args:       tokens.args,
		Location:   loc,
		SourceFile: w.sourceFile,
	}

	siblings := w.tree.Root.Children
	if parent != nil {
		siblings = parent.Children
	}
	if conflict := AliasConflict(siblings, cmd); conflict != nil {
		w.fail(ParseErrorWithIssue(loc, issue.AmbiguousAliasId, "heading %q's name or alias collides with sibling %q", text, conflict.Name))
		return
	}

	w.tree.Replace(parent, cmd.Name, cmd)

	w.openByLevel[h.Level] = cmd
	for lvl := h.Level + 1; lvl <= maxHeadingLevel; lvl++ {
		w.openByLevel[lvl] = nil
	}

	w.current = cmd
	w.state = stateAwaitingDescription
	w.awaitingOptions = false
}

func (w *walker) visitBlockquote(b *ast.Blockquote) {
	text := strings.TrimSpace(extractText(b, w.source))
	if w.current == nil {
		if !w.seenH1 || w.tree.Root.Long == "" {
			w.rootProse = append(w.rootProse, text)
		}
		return
	}
	if w.current.Short == "" {
		w.current.Short = types.DescriptionText(text)
		w.state = stateCollectingProse
		return
	}
	w.appendProse(text)
}

func (w *walker) visitParagraph(p *ast.Paragraph) {
	text := strings.TrimSpace(extractText(p, w.source))
	if isOptionsMarker(text) {
		w.awaitingOptions = true
		w.state = stateInOptionsList
		return
	}
	if w.current == nil {
		w.rootProse = append(w.rootProse, text)
		return
	}
	w.state = stateCollectingProse
	w.appendProse(text)
}

func (w *walker) appendProse(text string) {
	if text == "" || w.current == nil {
		return
	}
	if w.current.Long == "" {
		w.current.Long = types.DescriptionText(text)
		return
	}
	w.current.Long = w.current.Long + types.DescriptionText("\n\n"+text)
}

// isOptionsMarker reports whether a paragraph's visible text (ignoring
// emphasis, which extractText already strips) is exactly "OPTIONS".
func isOptionsMarker(text string) bool {
	return strings.TrimSpace(strings.ToUpper(text)) == "OPTIONS" && strings.ToUpper(text) == text
}

func (w *walker) visitList(l *ast.List) {
	if !w.awaitingOptions || w.current == nil {
		return
	}
	w.awaitingOptions = false
	loc := w.loc(l)

	for _, item := range collectListItems(l, w.source) {
		flag, err := buildFlagFromItem(item, loc)
		if err != nil {
			w.fail(err)
			return
		}
		if err := addFlag(w.current, flag, loc); err != nil {
			w.fail(err)
			return
		}
	}
	w.state = stateCollectingProse
}

func addFlag(cmd *Command, flag Flag, loc SourceLocation) error {
	for _, existing := range cmd.Flags {
		if existing.Long == flag.Long {
			return ParseErrorWithIssue(loc, issue.DuplicateFlagId, "duplicate flag name %q on command %q", flag.Long, cmd.Name)
		}
		if flag.Short != "" && existing.Short == flag.Short {
			return ParseErrorWithIssue(loc, issue.DuplicateFlagId, "duplicate flag short name %q on command %q", flag.Short, cmd.Name)
		}
	}
	cmd.Flags = append(cmd.Flags, flag)
	return nil
}

type listItemText struct {
	Direct string
	Nested []string
}

func collectListItems(l *ast.List, source []byte) []listItemText {
	var items []listItemText
	for n := l.FirstChild(); n != nil; n = n.NextSibling() {
		li, ok := n.(*ast.ListItem)
		if !ok {
			continue
		}
		var direct []string
		var nested []string
		for c := li.FirstChild(); c != nil; c = c.NextSibling() {
			if nl, ok := c.(*ast.List); ok {
				for ni := nl.FirstChild(); ni != nil; ni = ni.NextSibling() {
					if nli, ok := ni.(*ast.ListItem); ok {
						nested = append(nested, strings.TrimSpace(extractText(nli, source)))
					}
				}
				continue
			}
			direct = append(direct, extractText(c, source))
		}
		items = append(items, listItemText{
			Direct: strings.TrimSpace(strings.Join(direct, " ")),
			Nested: nested,
		})
	}
	return items
}

func buildFlagFromItem(item listItemText, loc SourceLocation) (Flag, error) {
	if b, ok := parseShorthandFlagLine(item.Direct); ok {
		return b.build(loc)
	}

	b := &flagBuilder{}
	if strings.Contains(item.Direct, ":") {
		applyLongformField(b, item.Direct)
	}
	for _, line := range item.Nested {
		if strings.TrimSpace(line) == "required" {
			b.required = true
			continue
		}
		applyLongformField(b, line)
	}
	return b.build(loc)
}

// visitCodeFence records every fenced code block under the current command,
// in source order, so the Executor can later choose among them (spec.md
// §4.8's "a command may contain multiple code blocks with different tags").
// Command.Script is finalised to Scripts[0] once the whole document is
// walked (see Parse), matching "the first fenced code block... is its
// script" for the single-block case.
func (w *walker) visitCodeFence(cb *ast.FencedCodeBlock) {
	if w.current == nil {
		return
	}

	var sb strings.Builder
	lines := cb.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(w.source))
	}
	source := sb.String()
	if source == "" {
		return
	}

	shebang := ""
	if strings.HasPrefix(source, "#!") {
		if idx := strings.IndexByte(source, '\n'); idx >= 0 {
			shebang = source[:idx]
		} else {
			shebang = source
		}
	}

	lang := ""
	if info := cb.Language(w.source); info != nil {
		lang = string(info)
	}

	w.current.Scripts = append(w.current.Scripts, Script{
		Language: normalizeLanguage(lang),
		Source:   source,
		Shebang:  shebang,
	})
}

func (w *walker) visitHTMLBlock(h *ast.HTMLBlock) {
	var sb strings.Builder
	for i := 0; i < h.Lines().Len(); i++ {
		seg := h.Lines().At(i)
		sb.Write(seg.Value(w.source))
	}
	raw := strings.TrimSpace(sb.String())
	const marker = "<!-- inkfile:"
	if strings.HasPrefix(raw, marker) {
		path := strings.TrimSuffix(strings.TrimSpace(strings.TrimPrefix(raw, marker)), "-->")
		w.sourceFile = strings.TrimSpace(path)
	}
}

// --- text/line extraction helpers ---

type hasLines interface {
	Lines() *text.Segments
}

func firstOffset(n ast.Node) (int, bool) {
	if hl, ok := n.(hasLines); ok {
		if seg := hl.Lines(); seg != nil && seg.Len() > 0 {
			return seg.At(0).Start, true
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if off, ok := firstOffset(c); ok {
			return off, true
		}
	}
	return 0, false
}

func lineOf(source []byte, offset int) int {
	line := 1
	limit := offset
	if limit > len(source) {
		limit = len(source)
	}
	for i := 0; i < limit; i++ {
		if source[i] == '\n' {
			line++
		}
	}
	return line
}

func extractText(n ast.Node, source []byte) string {
	var sb strings.Builder
	err := ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := node.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		case *ast.CodeSpan:
			sb.WriteByte('`')
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return sb.String()
	}
	return sb.String()
}
