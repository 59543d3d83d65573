package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPDFRenderer_Malformed(t *testing.T) {
	_, err := (&PDFRenderer{}).Render("a.pdf", []byte("%PDF-1.4\nthis is not really a pdf"))
	assert.True(t, IsRenderError(err))
}

func TestContentText(t *testing.T) {
	stream := []byte(`BT
/F1 12 Tf
72 712 Td
(Hello, \(world\)) Tj
0 -14 Td
[(Kern) -120 (ed)] TJ
T*
<48692e> Tj
% a comment (ignored) Tj
(next) '
ET`)

	assert.Equal(t, []string{"Hello, (world)", "Kerned", "Hi.", "next"}, contentText(stream))
}

func TestLiteralStringEscapes(t *testing.T) {
	s, next := literalString([]byte(`(a\nb\101(c))rest`), 0)
	assert.Equal(t, "a\nbA(c)", s)
	assert.Equal(t, 13, next)
}
