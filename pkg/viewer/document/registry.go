package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// Renderer turns fetched bytes into a Document. name is the file name the
// bytes were fetched under.
type Renderer interface {
	Format() string
	Render(name string, data []byte) (*Document, error)
}

type registration struct {
	pattern  string
	matcher  glob.Glob
	renderer Renderer
}

// Registry picks a renderer by file name, falling back to content sniffing.
type Registry struct {
	entries  []registration
	fallback Renderer
}

// NewRegistry creates an empty registry whose fallback is fallback.
func NewRegistry(fallback Renderer) *Registry {
	return &Registry{fallback: fallback}
}

// DefaultRegistry knows docx, pdf, html and text/code documents.
func DefaultRegistry() *Registry {
	text := &TextRenderer{Highlight: true}
	r := NewRegistry(text)
	r.MustRegister("*.docx", &DocxRenderer{})
	r.MustRegister("*.pdf", &PDFRenderer{})
	r.MustRegister("*.{htm,html,xhtml}", &HTMLRenderer{})
	r.MustRegister("*", text)
	return r
}

// Register adds renderer for file names matching pattern. Patterns are
// matched case-insensitively, in registration order.
func (r *Registry) Register(pattern string, renderer Renderer) error {
	g, err := glob.Compile(strings.ToLower(pattern))
	if err != nil {
		return fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	r.entries = append(r.entries, registration{pattern: pattern, matcher: g, renderer: renderer})
	return nil
}

// MustRegister is Register that panics on a bad pattern.
func (r *Registry) MustRegister(pattern string, renderer Renderer) {
	if err := r.Register(pattern, renderer); err != nil {
		panic(err)
	}
}

// Lookup returns the renderer for name. Signatures in data win over a
// catch-all match so extensionless URLs still render.
func (r *Registry) Lookup(name string, data []byte) Renderer {
	lower := strings.ToLower(name)
	for _, e := range r.entries {
		if e.pattern == "*" {
			continue
		}
		if e.matcher.Match(lower) {
			return e.renderer
		}
	}

	if sniffed := r.sniff(data); sniffed != nil {
		return sniffed
	}

	for _, e := range r.entries {
		if e.matcher.Match(lower) {
			return e.renderer
		}
	}
	return r.fallback
}

func (r *Registry) sniff(data []byte) Renderer {
	var format string
	switch {
	case bytes.HasPrefix(data, []byte("%PDF-")):
		format = FormatPDF
	case bytes.HasPrefix(data, []byte("PK\x03\x04")):
		format = FormatDocx
	case looksLikeHTML(data):
		format = FormatHTML
	default:
		return nil
	}
	for _, e := range r.entries {
		if e.renderer.Format() == format {
			return e.renderer
		}
	}
	return nil
}

func looksLikeHTML(data []byte) bool {
	head := bytes.ToLower(bytes.TrimSpace(data[:min(len(data), 512)]))
	return bytes.HasPrefix(head, []byte("<!doctype html")) || bytes.HasPrefix(head, []byte("<html"))
}
