package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const maxDocxPart = 32 << 20

// DocxRenderer renders Office Open XML word documents: paragraphs, heading
// levels, list items, hyperlinks and bookmarks.
type DocxRenderer struct{}

// Format implements Renderer.
func (r *DocxRenderer) Format() string { return FormatDocx }

// Render implements Renderer.
func (r *DocxRenderer) Render(name string, data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &RenderError{Format: FormatDocx, Err: err}
	}

	parts := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		parts[f.Name] = f
	}

	body, ok := parts["word/document.xml"]
	if !ok {
		return nil, &RenderError{Format: FormatDocx, Err: errNoBody}
	}

	rels := map[string]string{}
	if f, ok := parts["word/_rels/document.xml.rels"]; ok {
		if rels, err = readRelationships(f); err != nil {
			return nil, &RenderError{Format: FormatDocx, Err: err}
		}
	}

	doc := newDocument(FormatDocx)
	if f, ok := parts["docProps/core.xml"]; ok {
		doc.Title = readCoreTitle(f)
	}

	rc, err := body.Open()
	if err != nil {
		return nil, &RenderError{Format: FormatDocx, Err: err}
	}
	defer rc.Close()

	w := &docxWalker{doc: doc, rels: rels}
	if err := w.walk(io.LimitReader(rc, maxDocxPart)); err != nil {
		return nil, &RenderError{Format: FormatDocx, Err: err}
	}
	return doc, nil
}

type relationship struct {
	ID         string `xml:"Id,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

func readRelationships(f *zip.File) (map[string]string, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var parsed struct {
		Relationships []relationship `xml:"Relationship"`
	}
	if err := xml.NewDecoder(io.LimitReader(rc, maxDocxPart)).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("relationships: %w", err)
	}

	out := make(map[string]string, len(parsed.Relationships))
	for _, rel := range parsed.Relationships {
		out[rel.ID] = rel.Target
	}
	return out, nil
}

func readCoreTitle(f *zip.File) string {
	rc, err := f.Open()
	if err != nil {
		return ""
	}
	defer rc.Close()

	var core struct {
		Title string `xml:"title"`
	}
	if err := xml.NewDecoder(io.LimitReader(rc, maxDocxPart)).Decode(&core); err != nil {
		return ""
	}
	return strings.TrimSpace(core.Title)
}

// docxWalker streams document.xml and emits one line per paragraph.
type docxWalker struct {
	doc  *Document
	rels map[string]string

	line    strings.Builder
	prefix  string
	inText  bool
	link    *Link
	linkBuf strings.Builder
}

func (w *docxWalker) walk(r io.Reader) error {
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			w.start(t)
		case xml.EndElement:
			w.end(t)
		case xml.CharData:
			if w.inText {
				w.text(string(t))
			}
		}
	}
	if w.line.Len() > 0 {
		w.flush()
	}
	return nil
}

func (w *docxWalker) start(t xml.StartElement) {
	switch t.Name.Local {
	case "p":
		w.line.Reset()
		w.prefix = ""
	case "pStyle":
		w.prefix = headingPrefix(attr(t, "val"))
	case "numPr":
		if w.prefix == "" {
			w.prefix = "• "
		}
	case "t":
		w.inText = true
	case "tab":
		w.text("\t")
	case "br", "cr":
		w.text(" ")
	case "bookmarkStart":
		if name := attr(t, "name"); name != "" {
			if _, exists := w.doc.Anchors[name]; !exists {
				w.doc.Anchors[name] = len(w.doc.Lines)
			}
		}
	case "hyperlink":
		href := ""
		if anchor := attr(t, "anchor"); anchor != "" {
			href = "#" + anchor
		} else if id := attrNS(t, "id"); id != "" {
			href = w.rels[id]
		}
		w.link = &Link{Href: href, Line: len(w.doc.Lines)}
		w.linkBuf.Reset()
	}
}

func (w *docxWalker) end(t xml.EndElement) {
	switch t.Name.Local {
	case "p":
		w.flush()
	case "t":
		w.inText = false
	case "hyperlink":
		if w.link != nil && w.link.Href != "" {
			w.link.Text = w.linkBuf.String()
			w.doc.Links = append(w.doc.Links, *w.link)
		}
		w.link = nil
	}
}

func (w *docxWalker) text(s string) {
	w.line.WriteString(s)
	if w.link != nil {
		w.linkBuf.WriteString(s)
	}
}

func (w *docxWalker) flush() {
	text := w.line.String()
	if text != "" {
		text = w.prefix + text
	}
	if w.doc.Title == "" && strings.HasPrefix(w.prefix, "#") {
		w.doc.Title = strings.TrimSpace(w.line.String())
	}
	w.doc.Lines = append(w.doc.Lines, text)
	w.line.Reset()
	w.prefix = ""
}

func headingPrefix(style string) string {
	switch {
	case style == "Title":
		return "# "
	case strings.HasPrefix(style, "Heading"):
		level := strings.TrimPrefix(style, "Heading")
		if len(level) == 1 && level[0] >= '1' && level[0] <= '6' {
			return strings.Repeat("#", int(level[0]-'0')) + " "
		}
	}
	return ""
}

// attr returns the value of the attribute with the given local name.
func attr(t xml.StartElement, local string) string {
	for _, a := range t.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// attrNS is attr restricted to namespaced attributes, for r:id.
func attrNS(t xml.StartElement, local string) string {
	for _, a := range t.Attr {
		if a.Name.Local == local && a.Name.Space != "" {
			return a.Value
		}
	}
	return ""
}
