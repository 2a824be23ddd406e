// SPDX-License-Identifier: MPL-2.0

// Package render defines the capability interfaces Inkjet's outer surface
// depends on for rich terminal output — Renderer, Prompter, and Highlighter —
// and a glamour-backed Renderer implementation. All three are optional:
// callers fall back to plain text when NO_COLOR is set or glamour can't be
// constructed.
package render

import (
	"github.com/charmbracelet/glamour"
)

// Renderer turns Markdown prose into styled terminal output. It is the
// interface a command's description/help text is rendered through in
// interactive mode.
type Renderer interface {
	Render(markdown string) (string, error)
}

// Prompter asks the user a question and returns their answer. Implementations
// back Inkjet's interactive mode; there is no default implementation in this
// package since prompting requires a TTY.
type Prompter interface {
	Prompt(question string) (string, error)
}

// Highlighter applies syntax highlighting to a fenced code block's contents,
// keyed by its declared language.
type Highlighter interface {
	Highlight(source, language string) (string, error)
}

// GlamourRenderer renders Markdown with charmbracelet/glamour, styled for a
// dark or light terminal background as auto-detected by glamour itself.
type GlamourRenderer struct {
	renderer *glamour.TermRenderer
}

// NewGlamourRenderer builds a Renderer using glamour's automatic style
// detection. wordWrap of 0 uses glamour's default wrap width.
func NewGlamourRenderer(wordWrap int) (*GlamourRenderer, error) {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if wordWrap > 0 {
		opts = append(opts, glamour.WithWordWrap(wordWrap))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, err
	}
	return &GlamourRenderer{renderer: r}, nil
}

// Render implements Renderer.
func (g *GlamourRenderer) Render(markdown string) (string, error) {
	return g.renderer.Render(markdown)
}

// PlainRenderer is the no-op Renderer used in headless builds or when
// NO_COLOR is set: it returns the Markdown source unchanged.
type PlainRenderer struct{}

// Render implements Renderer by returning in verbatim.
func (PlainRenderer) Render(in string) (string, error) { return in, nil }

// NewRenderer picks GlamourRenderer unless plain is requested (the caller
// passes NO_COLOR's setting), in which case it falls back to PlainRenderer.
// A glamour construction failure also falls back to plain rather than
// failing the whole command.
func NewRenderer(plain bool, wordWrap int) Renderer {
	if plain {
		return PlainRenderer{}
	}
	r, err := NewGlamourRenderer(wordWrap)
	if err != nil {
		return PlainRenderer{}
	}
	return r
}
