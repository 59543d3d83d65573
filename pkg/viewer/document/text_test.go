package document

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMarkdown = "# Setup guide\r\n\r\nRead [install](#install-steps) first, then [the site](https://example.com).\r\n\r\n## Install steps\r\n\r\n```sh\r\n# not a heading\r\n```\r\n"

func TestTextRenderer_Markdown(t *testing.T) {
	doc, err := (&TextRenderer{}).Render("guide.md", []byte(sampleMarkdown))
	require.NoError(t, err)

	assert.Equal(t, "Setup guide", doc.Title)
	assert.Len(t, doc.Lines, 9)
	assert.Equal(t, "## Install steps", doc.Lines[4])
	assert.Equal(t, 0, doc.Anchors["setup-guide"])
	assert.Equal(t, 4, doc.Anchors["install-steps"])
	_, fenced := doc.Anchors["not-a-heading"]
	assert.False(t, fenced)

	require.Len(t, doc.Links, 2)
	assert.Equal(t, Action{Kind: ActionScroll, Line: 4}, doc.Resolve(doc.Links[0]))
	assert.Equal(t, ActionOpenExternal, doc.Resolve(doc.Links[1]).Kind)
}

func TestTextRenderer_HighlightKeepsLines(t *testing.T) {
	src := "package main\n\nfunc main() {\n\tprintln(\"hi\")\n}\n"
	plain, err := (&TextRenderer{}).Render("main.go", []byte(src))
	require.NoError(t, err)
	highlighted, err := (&TextRenderer{Highlight: true}).Render("main.go", []byte(src))
	require.NoError(t, err)

	assert.Len(t, highlighted.Lines, len(plain.Lines))
	assert.Contains(t, strings.Join(highlighted.Lines, "\n"), "\x1b[")
}

func TestTextRenderer_RejectsBinary(t *testing.T) {
	_, err := (&TextRenderer{}).Render("blob.bin", []byte{0x00, 0xff, 0x10})
	require.Error(t, err)
	assert.True(t, IsRenderError(err))
	assert.ErrorIs(t, err, errBinary)
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "getting-started", Slug("Getting Started!"))
	assert.Equal(t, "v2-api", Slug("  v2 API "))
}
