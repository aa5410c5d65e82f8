package pdf

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/domain"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/ports/driven"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/postprocessors/chunker"
)

// buildPDF writes a minimal PDF with one Helvetica text line per page.
func buildPDF(pages ...string) []byte {
	var buf bytes.Buffer
	var offsets []int

	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")

	// 1: catalog, 2: page tree, 3: font, then a page and content pair per page.
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	obj("<< /Type /Catalog /Pages 2 0 R >>")
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))
	obj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")
	for i, text := range pages {
		stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		obj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
			"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i))
		obj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}

func TestNew(t *testing.T) {
	normaliser := New()
	require.NotNil(t, normaliser)
	assert.Equal(t, 0, normaliser.maxPages)

	limited := New(WithMaxPages(10))
	assert.Equal(t, 10, limited.maxPages)

	ignored := New(WithMaxPages(-1))
	assert.Equal(t, 0, ignored.maxPages)
}

func TestSupportedMIMETypes(t *testing.T) {
	mimeTypes := New().SupportedMIMETypes()

	require.Len(t, mimeTypes, 1)
	assert.Equal(t, "application/pdf", mimeTypes[0])
}

func TestPriority(t *testing.T) {
	assert.Equal(t, 50, New().Priority())
}

func TestNormalise_NilDocument(t *testing.T) {
	result, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestNormalise_NoContent(t *testing.T) {
	raw := &domain.RawDocument{URI: "https://example.com/a.pdf", MIMEType: MIMEType}

	result, err := New().Normalise(context.Background(), raw)
	assert.ErrorIs(t, err, domain.ErrEmptyDocument)
	assert.Nil(t, result)
}

func TestNormalise_NotAPDF(t *testing.T) {
	raw := &domain.RawDocument{
		URI:      "https://example.com/a.pdf",
		MIMEType: MIMEType,
		Content:  []byte("<html>not found</html>"),
	}

	result, err := New().Normalise(context.Background(), raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse pdf")
	assert.Nil(t, result)
}

func TestNormalise_MissingLocalFile(t *testing.T) {
	raw := &domain.RawDocument{
		URI:       "/docs/a.pdf",
		MIMEType:  MIMEType,
		LocalPath: filepath.Join(t.TempDir(), "missing.pdf"),
	}

	_, err := New().Normalise(context.Background(), raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNormalise_FromContent(t *testing.T) {
	raw := &domain.RawDocument{
		URI:      "https://example.com/model_card.pdf",
		MIMEType: MIMEType,
		Content:  buildPDF("Model Card", "Evaluation Results"),
		Metadata: map[string]any{"status": 200},
	}

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)

	doc := result.Document
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, raw.URI, doc.URI)
	assert.Equal(t, 2, doc.Pages)
	assert.Contains(t, doc.Content, "Model")
	assert.Contains(t, doc.Content, "Evaluation")
	assert.Equal(t, 1, strings.Count(doc.Content, chunker.PageBreak))
	assert.Equal(t, MIMEType, doc.Metadata["mime_type"])
	assert.Equal(t, 2, doc.Metadata["pages"])
	assert.Equal(t, 200, doc.Metadata["status"])
	assert.False(t, doc.CreatedAt.IsZero())
}

func TestNormalise_FromLocalPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "staged.pdf")
	require.NoError(t, os.WriteFile(path, buildPDF("Staged Copy"), 0o600))

	raw := &domain.RawDocument{
		URI:       "https://example.com/a.pdf",
		MIMEType:  MIMEType,
		LocalPath: path,
	}

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Contains(t, result.Document.Content, "Staged")
	assert.Equal(t, 1, result.Document.Pages)
}

func TestNormalise_TooManyPages(t *testing.T) {
	raw := &domain.RawDocument{
		URI:      "https://example.com/long.pdf",
		MIMEType: MIMEType,
		Content:  buildPDF("one", "two", "three"),
	}

	_, err := New(WithMaxPages(2)).Normalise(context.Background(), raw)
	assert.ErrorIs(t, err, domain.ErrTooManyPages)

	_, err = New(WithMaxPages(3)).Normalise(context.Background(), raw)
	assert.NoError(t, err)
}

func TestNormalise_BlankPages(t *testing.T) {
	raw := &domain.RawDocument{
		URI:      "https://example.com/blank.pdf",
		MIMEType: MIMEType,
		Content:  buildPDF("", ""),
	}

	_, err := New().Normalise(context.Background(), raw)
	assert.ErrorIs(t, err, domain.ErrEmptyDocument)
}

func TestNormalise_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	raw := &domain.RawDocument{
		URI:      "https://example.com/a.pdf",
		MIMEType: MIMEType,
		Content:  buildPDF("text"),
	}

	_, err := New().Normalise(ctx, raw)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		uri      string
		expected string
	}{
		{
			name:     "first line as title",
			content:  "Document Title\n\nSome content here.",
			uri:      "/doc.pdf",
			expected: "Document Title",
		},
		{
			name:     "skip empty lines",
			content:  "\n\n\nActual Title\nContent",
			uri:      "/doc.pdf",
			expected: "Actual Title",
		},
		{
			name:     "skip page breaks",
			content:  "\f\fAfter Blank Pages\nContent",
			uri:      "/doc.pdf",
			expected: "After Blank Pages",
		},
		{
			name:     "fallback to filename",
			content:  "",
			uri:      "/path/to/my_document.pdf",
			expected: "my document",
		},
		{
			name:     "fallback to url path",
			content:  "",
			uri:      "https://example.com/files/model-card.pdf",
			expected: "model card",
		},
		{
			name:     "skip very long first line",
			content:  strings.Repeat("x", 250) + "\nShort Title\nContent",
			uri:      "/doc.pdf",
			expected: "Short Title",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, extractTitle(tc.content, tc.uri))
		})
	}
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Normaliser = (*Normaliser)(nil)
}

func TestCopyMetadata(t *testing.T) {
	assert.Nil(t, copyMetadata(nil))

	src := map[string]any{"key1": "value1", "key2": 42}
	dst := copyMetadata(src)
	assert.Equal(t, src, dst)

	dst["key3"] = true
	assert.NotContains(t, src, "key3")
}
