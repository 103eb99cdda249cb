// Package markdown turns note content into HTML: goldmark for the
// document, chroma for fenced code blocks, and a pre-pass that resolves
// [[wikilink]] references against the owner's notes.
package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
)

type Renderer struct {
	md goldmark.Markdown
}

func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(goldmark.WithExtensions(&highlightExtension{})),
	}
}

// Render converts Markdown to HTML. The resolver maps wikilink targets to
// hrefs; pass nil to leave wikilinks untouched.
func (r *Renderer) Render(content string, resolve LinkResolver) (string, error) {
	if resolve != nil {
		content = ResolveWikilinks(content, resolve)
	}
	var b strings.Builder
	if err := r.md.Convert([]byte(content), &b); err != nil {
		return "", err
	}
	return b.String(), nil
}
