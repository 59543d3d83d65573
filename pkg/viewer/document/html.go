package document

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLRenderer renders HTML documents to text lines, keeping element ids,
// anchor names and hyperlinks.
type HTMLRenderer struct{}

// Format implements Renderer.
func (r *HTMLRenderer) Format() string { return FormatHTML }

// Render implements Renderer.
func (r *HTMLRenderer) Render(name string, data []byte) (*Document, error) {
	root, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &RenderError{Format: FormatHTML, Err: err}
	}

	w := &htmlWalker{doc: newDocument(FormatHTML)}
	w.walk(root)
	w.flush()
	return w.doc, nil
}

type htmlWalker struct {
	doc  *Document
	line strings.Builder
	pre  int
	link *Link
	text strings.Builder
}

var blockElements = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Section: true, atom.Article: true,
	atom.Header: true, atom.Footer: true, atom.Li: true, atom.Ul: true,
	atom.Ol: true, atom.Tr: true, atom.Table: true, atom.Blockquote: true,
	atom.Pre: true, atom.Hr: true, atom.H1: true, atom.H2: true, atom.H3: true,
	atom.H4: true, atom.H5: true, atom.H6: true, atom.Dt: true, atom.Dd: true,
}

// current is the index of the line text is being written to.
func (w *htmlWalker) current() int {
	return len(w.doc.Lines)
}

func (w *htmlWalker) flush() {
	if w.line.Len() == 0 {
		return
	}
	w.doc.Lines = append(w.doc.Lines, strings.TrimRight(w.line.String(), " "))
	w.line.Reset()
}

func (w *htmlWalker) write(s string) {
	w.line.WriteString(s)
	if w.link != nil {
		w.text.WriteString(s)
	}
}

func (w *htmlWalker) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.writeText(n.Data)
		return
	case html.ElementNode:
	default:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			w.walk(c)
		}
		return
	}

	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Noscript, atom.Template:
		return
	case atom.Title:
		if n.FirstChild != nil && w.doc.Title == "" {
			w.doc.Title = strings.TrimSpace(n.FirstChild.Data)
		}
		return
	case atom.Br:
		w.flush()
		return
	}

	block := blockElements[n.DataAtom]
	if block {
		w.flush()
	}

	if id := getAttr(n, "id"); id != "" {
		if _, exists := w.doc.Anchors[id]; !exists {
			w.doc.Anchors[id] = w.current()
		}
	}
	if n.DataAtom == atom.A {
		if name := getAttr(n, "name"); name != "" {
			if _, exists := w.doc.Names[name]; !exists {
				w.doc.Names[name] = w.current()
			}
		}
	}

	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		w.write(strings.Repeat("#", int(n.Data[1]-'0')) + " ")
	case atom.Li:
		w.write("• ")
	case atom.Pre:
		w.pre++
	case atom.Td, atom.Th:
		if w.line.Len() > 0 {
			w.write(" | ")
		}
	}

	var link *Link
	if n.DataAtom == atom.A {
		if href, ok := hasAttr(n, "href"); ok {
			link = &Link{Href: href, Line: w.current(), Target: getAttr(n, "target")}
			w.link = link
			w.text.Reset()
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}

	if link != nil {
		link.Text = strings.TrimSpace(w.text.String())
		w.doc.Links = append(w.doc.Links, *link)
		w.link = nil
	}
	if n.DataAtom == atom.Pre {
		w.pre--
	}
	if block {
		w.flush()
	}
	if n.DataAtom == atom.H1 && w.doc.Title == "" && len(w.doc.Lines) > 0 {
		w.doc.Title = strings.TrimPrefix(w.doc.Lines[len(w.doc.Lines)-1], "# ")
	}
}

func (w *htmlWalker) writeText(s string) {
	if w.pre > 0 {
		parts := strings.Split(s, "\n")
		for i, p := range parts {
			if i > 0 {
				w.doc.Lines = append(w.doc.Lines, w.line.String())
				w.line.Reset()
			}
			w.write(p)
		}
		return
	}

	collapsed := strings.Join(strings.Fields(s), " ")
	if collapsed == "" {
		if s != "" && w.line.Len() > 0 && !strings.HasSuffix(w.line.String(), " ") {
			w.write(" ")
		}
		return
	}
	if startsWithSpace(s) && w.line.Len() > 0 && !strings.HasSuffix(w.line.String(), " ") {
		w.write(" ")
	}
	w.write(collapsed)
	if endsWithSpace(s) {
		w.write(" ")
	}
}

func startsWithSpace(s string) bool {
	return s != "" && strings.ContainsRune(" \t\n\r\f", rune(s[0]))
}

func endsWithSpace(s string) bool {
	return s != "" && strings.ContainsRune(" \t\n\r\f", rune(s[len(s)-1]))
}

func getAttr(n *html.Node, key string) string {
	v, _ := hasAttr(n, key)
	return v
}

func hasAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
