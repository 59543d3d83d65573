package document

import (
	"bytes"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

const (
	FormatText = "text"
	FormatDocx = "docx"
	FormatPDF  = "pdf"
	FormatHTML = "html"
)

var (
	markdownHeading = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*#*\s*$`)
	markdownLink    = regexp.MustCompile(`\[([^\]]*)\]\(([^)\s]+)(?:\s+"[^"]*")?\)`)
	slugStrip       = regexp.MustCompile(`[^\p{L}\p{N}\s-]`)
	ansiEscape      = regexp.MustCompile("\x1b\\[[0-9;]*m")
)

// TextRenderer renders plain text, markdown and source code, highlighted
// with the lexer matching the file name.
type TextRenderer struct {
	Highlight bool
	// Style is a chroma style name; empty means monokai
	Style string
}

// Format implements Renderer.
func (r *TextRenderer) Format() string { return FormatText }

// Render implements Renderer.
func (r *TextRenderer) Render(name string, data []byte) (*Document, error) {
	if !utf8.Valid(data) || bytes.IndexByte(data, 0) >= 0 {
		return nil, &RenderError{Format: FormatText, Err: errBinary}
	}

	source := strings.ReplaceAll(string(data), "\r\n", "\n")
	source = strings.TrimRight(source, "\n")

	doc := newDocument(FormatText)
	raw := strings.Split(source, "\n")
	collectMarkdown(doc, raw)

	doc.Lines = raw
	if r.Highlight {
		if highlighted, err := r.highlight(name, source); err == nil {
			if lines := fitLines(strings.Split(highlighted, "\n"), len(raw)); lines != nil {
				doc.Lines = lines
			}
		}
	}
	return doc, nil
}

func (r *TextRenderer) highlight(name, source string) (string, error) {
	lexer := lexers.Match(name)
	if lexer == nil {
		lexer = lexers.Analyse(source)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	styleName := r.Style
	if styleName == "" {
		styleName = "monokai"
	}
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// fitLines folds trailing escape-only lines the formatter may add after a
// final newline back onto the last line. It returns nil if the counts
// still differ.
func fitLines(lines []string, want int) []string {
	for len(lines) > want && len(lines) > 1 && ansiEscape.ReplaceAllString(lines[len(lines)-1], "") == "" {
		last := len(lines) - 1
		lines[last-1] += lines[last]
		lines = lines[:last]
	}
	if len(lines) != want {
		return nil
	}
	return lines
}

// collectMarkdown records heading anchors and inline links. Plain text
// simply yields none.
func collectMarkdown(doc *Document, lines []string) {
	inFence := false
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		if m := markdownHeading.FindStringSubmatch(line); m != nil {
			slug := Slug(m[2])
			if _, exists := doc.Anchors[slug]; !exists {
				doc.Anchors[slug] = i
			}
			if doc.Title == "" && len(m[1]) == 1 {
				doc.Title = m[2]
			}
		}
		for _, m := range markdownLink.FindAllStringSubmatch(line, -1) {
			doc.Links = append(doc.Links, Link{Href: m[2], Text: m[1], Line: i})
		}
	}
}

// Slug converts heading text into the id markdown renderers give it.
func Slug(heading string) string {
	s := strings.ToLower(strings.TrimSpace(heading))
	s = slugStrip.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), "-")
}
