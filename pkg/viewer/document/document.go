// Package document fetches a document, renders it to scrollable lines, and
// decides what happens when a link inside it is followed.
package document

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

// Document is a rendered document ready for a scrollable surface.
type Document struct {
	Title  string
	Format string
	// Base is the reference the document was fetched from
	Base  string
	Lines []string
	// Anchors maps element ids to line numbers; Names maps name attributes
	Anchors map[string]int
	Names   map[string]int
	Links   []Link
}

// Link is a hyperlink found while rendering.
type Link struct {
	Href string
	Text string
	Line int
	// Target is the requested browsing context, e.g. "_blank"
	Target string
}

func newDocument(format string) *Document {
	return &Document{
		Format:  format,
		Anchors: make(map[string]int),
		Names:   make(map[string]int),
	}
}

// ActionKind is what following a link does.
type ActionKind int

const (
	// ActionNative leaves the link to its default behavior.
	ActionNative ActionKind = iota
	// ActionScroll scrolls the container to Line.
	ActionScroll
	// ActionOpenExternal opens URL in a new browsing context.
	ActionOpenExternal
	// ActionNone is a hash link whose target does not exist; nothing happens.
	ActionNone
)

// Action is the result of following a link.
type Action struct {
	Kind ActionKind
	Line int
	URL  string
}

var externalLink = regexp.MustCompile(`^(https?:)?//`)

// Resolve decides what following link does. Hash links never navigate:
// the target is looked up by id, then by name. Absolute external links
// open in a new browsing context unless one was already requested.
func (d *Document) Resolve(link Link) Action {
	href := link.Href
	if strings.HasPrefix(href, "#") {
		raw := href[1:]
		id, err := url.PathUnescape(raw)
		if err != nil {
			id = raw
		}
		if line, ok := d.Anchors[id]; ok {
			return Action{Kind: ActionScroll, Line: line}
		}
		if line, ok := d.Names[id]; ok {
			return Action{Kind: ActionScroll, Line: line}
		}
		return Action{Kind: ActionNone}
	}

	resolved := d.absolute(href)
	if link.Target != "_blank" && externalLink.MatchString(href) {
		return Action{Kind: ActionOpenExternal, URL: resolved}
	}
	return Action{Kind: ActionNative, URL: resolved}
}

func (d *Document) absolute(href string) string {
	base, err := url.Parse(d.Base)
	if err != nil || d.Base == "" {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// LinksOn returns the links that start on line.
func (d *Document) LinksOn(line int) []Link {
	var out []Link
	for _, l := range d.Links {
		if l.Line == line {
			out = append(out, l)
		}
	}
	return out
}

// FileName returns the last path segment of ref, unescaped. It titles the
// document modal.
func FileName(ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	p := u.Path
	if p == "" {
		p = u.Opaque
	}
	name := path.Base(p)
	if name == "." || name == "/" || name == "" {
		if u.Host != "" {
			return u.Host
		}
		return ref
	}
	if unescaped, err := url.PathUnescape(name); err == nil {
		return unescaped
	}
	return name
}
