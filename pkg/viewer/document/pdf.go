package document

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFRenderer renders a PDF as its metadata followed by the text shown on
// each page. Pages are addressable as #page=N.
type PDFRenderer struct{}

// Format implements Renderer.
func (r *PDFRenderer) Format() string { return FormatPDF }

// Render implements Renderer.
func (r *PDFRenderer) Render(name string, data []byte) (doc *Document, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			doc, err = nil, &RenderError{Format: FormatPDF, Err: fmt.Errorf("parser panic: %v", rec)}
		}
	}()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return nil, &RenderError{Format: FormatPDF, Err: err}
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, &RenderError{Format: FormatPDF, Err: err}
	}
	if ctx.PageCount == 0 {
		return nil, &RenderError{Format: FormatPDF, Err: errNoPages}
	}

	doc = newDocument(FormatPDF)
	doc.Title = strings.TrimSpace(ctx.Title)
	if doc.Title != "" {
		doc.Lines = append(doc.Lines, "Title: "+doc.Title)
	}
	if author := strings.TrimSpace(ctx.Author); author != "" {
		doc.Lines = append(doc.Lines, "Author: "+author)
	}
	doc.Lines = append(doc.Lines, fmt.Sprintf("Pages: %d", ctx.PageCount), "")

	for page := 1; page <= ctx.PageCount; page++ {
		doc.Anchors[fmt.Sprintf("page=%d", page)] = len(doc.Lines)
		doc.Lines = append(doc.Lines, fmt.Sprintf("--- Page %d ---", page))

		content, err := pdfcpu.ExtractPageContent(ctx, page)
		if err != nil || content == nil {
			doc.Lines = append(doc.Lines, "(page content unavailable)", "")
			continue
		}
		raw, err := io.ReadAll(content)
		if err != nil {
			doc.Lines = append(doc.Lines, "(page content unavailable)", "")
			continue
		}
		doc.Lines = append(doc.Lines, contentText(raw)...)
		doc.Lines = append(doc.Lines, "")
	}
	return doc, nil
}

// contentText pulls the shown strings out of a page content stream. Text
// positioning operators start a new line.
func contentText(stream []byte) []string {
	var (
		lines   []string
		line    strings.Builder
		pending []string
	)
	flush := func() {
		if s := strings.TrimSpace(line.String()); s != "" {
			lines = append(lines, s)
		}
		line.Reset()
	}

	for i := 0; i < len(stream); {
		c := stream[i]
		switch {
		case c == '(':
			s, next := literalString(stream, i)
			pending = append(pending, s)
			i = next
		case c == '<' && i+1 < len(stream) && stream[i+1] != '<':
			s, next := hexString(stream, i)
			pending = append(pending, s)
			i = next
		case c == '%':
			for i < len(stream) && stream[i] != '\n' && stream[i] != '\r' {
				i++
			}
		case isRegular(c):
			start := i
			for i < len(stream) && isRegular(stream[i]) {
				i++
			}
			switch string(stream[start:i]) {
			case "Tj", "TJ":
				line.WriteString(strings.Join(pending, ""))
			case "'", "\"":
				flush()
				line.WriteString(strings.Join(pending, ""))
			case "Td", "TD", "T*", "ET":
				flush()
			}
			if !isOperand(stream[start:i]) {
				pending = pending[:0]
			}
		default:
			i++
		}
	}
	flush()
	return lines
}

func isRegular(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\f', 0, '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return false
	}
	return true
}

// isOperand reports whether tok is a number rather than an operator.
func isOperand(tok []byte) bool {
	for _, c := range tok {
		if (c < '0' || c > '9') && c != '.' && c != '-' && c != '+' {
			return false
		}
	}
	return true
}

func literalString(b []byte, i int) (string, int) {
	var out strings.Builder
	depth := 0
	for i < len(b) {
		c := b[i]
		switch {
		case c == '\\' && i+1 < len(b):
			i++
			switch b[i] {
			case 'n':
				out.WriteByte('\n')
			case 't':
				out.WriteByte('\t')
			case 'r', '\n':
			case '(', ')', '\\':
				out.WriteByte(b[i])
			default:
				// octal escape
				n, digits := 0, 0
				for digits < 3 && i < len(b) && b[i] >= '0' && b[i] <= '7' {
					n = n*8 + int(b[i]-'0')
					i++
					digits++
				}
				if digits > 0 {
					out.WriteByte(byte(n))
					continue
				}
				out.WriteByte(b[i])
			}
			i++
			continue
		case c == '(':
			depth++
			if depth > 1 {
				out.WriteByte(c)
			}
		case c == ')':
			depth--
			if depth == 0 {
				return out.String(), i + 1
			}
			out.WriteByte(c)
		default:
			out.WriteByte(c)
		}
		i++
	}
	return out.String(), i
}

func hexString(b []byte, i int) (string, int) {
	var digits []byte
	i++
	for i < len(b) && b[i] != '>' {
		if c := b[i]; (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') {
			digits = append(digits, c)
		}
		i++
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, 0, len(digits)/2)
	for j := 0; j < len(digits); j += 2 {
		out = append(out, unhex(digits[j])<<4|unhex(digits[j+1]))
	}
	return string(out), i + 1
}

func unhex(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
