// Package pdf provides a Normaliser for PDF documents.
// Text is extracted page by page and pages are separated by a form feed so
// that chunk metadata can carry page ranges.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	pdflib "github.com/ledongthuc/pdf"

	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/domain"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/ports/driven"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/logger"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/postprocessors/chunker"
)

// MIMEType is the only type this normaliser handles.
const MIMEType = "application/pdf"

const maxTitleLength = 200

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser extracts plain text from PDF documents.
type Normaliser struct {
	maxPages int
}

// Option configures the normaliser.
type Option func(*Normaliser)

// WithMaxPages rejects documents with more than n pages. Zero disables the check.
func WithMaxPages(n int) Option {
	return func(p *Normaliser) {
		if n >= 0 {
			p.maxPages = n
		}
	}
}

// New creates a new PDF normaliser.
func New(opts ...Option) *Normaliser {
	n := &Normaliser{}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{MIMEType}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise extracts the text of every page.
// The staged file at raw.LocalPath is read when present, raw.Content otherwise.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	src, size, closeFn, err := open(raw)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	pages, err := n.extract(ctx, src, size)
	if err != nil {
		return nil, err
	}

	content := strings.Join(pages, chunker.PageBreak)
	if strings.TrimSpace(strings.ReplaceAll(content, chunker.PageBreak, "")) == "" {
		return nil, domain.ErrEmptyDocument
	}

	metadata := copyMetadata(raw.Metadata)
	if metadata == nil {
		metadata = make(map[string]any)
	}
	metadata["mime_type"] = MIMEType
	metadata["pages"] = len(pages)

	doc := domain.Document{
		ID:        uuid.New().String(),
		URI:       raw.URI,
		Title:     extractTitle(content, raw.URI),
		Content:   content,
		Pages:     len(pages),
		Metadata:  metadata,
		CreatedAt: time.Now(),
	}

	logger.Debug("Extracted %d pages (%d bytes of text) from %s", len(pages), len(content), raw.URI)
	return &driven.NormaliseResult{Document: doc}, nil
}

// open returns a random-access view of the document bytes.
func open(raw *domain.RawDocument) (io.ReaderAt, int64, func(), error) {
	if raw.LocalPath == "" {
		if len(raw.Content) == 0 {
			return nil, 0, nil, domain.ErrEmptyDocument
		}
		return bytes.NewReader(raw.Content), int64(len(raw.Content)), func() {}, nil
	}

	f, err := os.Open(raw.LocalPath)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("open pdf: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, nil, fmt.Errorf("stat pdf: %w", err)
	}
	return f, info.Size(), func() { _ = f.Close() }, nil
}

// extract returns the plain text of each page in order.
// The PDF library panics on some malformed inputs, so panics become errors.
func (n *Normaliser) extract(ctx context.Context, src io.ReaderAt, size int64) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()

	reader, err := pdflib.NewReader(src, size)
	if err != nil {
		return nil, fmt.Errorf("parse pdf: %w", err)
	}

	count := reader.NumPage()
	if n.maxPages > 0 && count > n.maxPages {
		return nil, fmt.Errorf("%w: %d pages, limit is %d", domain.ErrTooManyPages, count, n.maxPages)
	}

	pages = make([]string, 0, count)
	for i := 1; i <= count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			logger.Warn("Failed to extract text from page %d: %v", i, err)
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}

// extractTitle uses the first short non-empty line, falling back to the filename.
func extractTitle(content, uri string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(strings.ReplaceAll(line, chunker.PageBreak, ""))
		if line == "" || strings.ContainsRune(line, 0) {
			continue
		}
		if len(line) < maxTitleLength {
			return line
		}
	}

	filename := filepath.Base(uri)
	filename = strings.TrimSuffix(filename, filepath.Ext(filename))
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return filename
}

// copyMetadata creates a shallow copy of metadata.
func copyMetadata(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
