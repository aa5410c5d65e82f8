// Package fetch retrieves document bytes from http(s) URLs and local files.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/domain"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/ports/driven"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/logger"
)

// Ensure Fetcher implements the interface.
var _ driven.DocumentFetcher = (*Fetcher)(nil)

// DefaultUserAgent identifies the fetcher to remote servers.
const DefaultUserAgent = "pdfanalysis/1.0"

const acceptHeader = "application/pdf,application/octet-stream;q=0.9,*/*;q=0.5"

// Config holds fetcher configuration.
type Config struct {
	// MaxBytes caps the document size (default: 32 MiB).
	MaxBytes int64

	// Timeout bounds one download. Zero means no deadline beyond the caller's context.
	Timeout time.Duration

	// UserAgent is sent with remote requests (default: pdfanalysis/1.0).
	UserAgent string

	// Client overrides the HTTP client.
	Client *http.Client
}

// Fetcher reads http(s) URLs, file URLs and absolute paths.
type Fetcher struct {
	client    *http.Client
	maxBytes  int64
	timeout   time.Duration
	userAgent string
}

// New creates a fetcher.
func New(cfg Config) *Fetcher {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = domain.DefaultMaxDocumentBytes
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{}
	}
	return &Fetcher{
		client:    cfg.Client,
		maxBytes:  cfg.MaxBytes,
		timeout:   cfg.Timeout,
		userAgent: cfg.UserAgent,
	}
}

// Fetch returns the bytes behind uri. Every failure is a *domain.FetchError.
func (f *Fetcher) Fetch(ctx context.Context, uri string) (*domain.RawDocument, error) {
	if err := domain.ValidateSource(uri); err != nil {
		return nil, &domain.FetchError{Source: uri, Err: err}
	}

	if path, ok := domain.LocalPath(uri); ok {
		return f.readFile(uri, path)
	}
	return f.download(ctx, uri)
}

func (f *Fetcher) readFile(uri, path string) (*domain.RawDocument, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &domain.FetchError{Source: uri, Err: err}
	}
	if info.IsDir() {
		return nil, &domain.FetchError{Source: uri, Err: fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, path)}
	}
	if info.Size() > f.maxBytes {
		return nil, &domain.FetchError{Source: uri, Err: f.tooLarge(info.Size())}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.FetchError{Source: uri, Err: fmt.Errorf("read file: %w", err)}
	}

	logger.Debug("Read %d bytes from %s", len(content), path)
	return &domain.RawDocument{
		URI:      uri,
		MIMEType: detectMIMEType(mime.TypeByExtension(filepath.Ext(path)), content),
		Content:  content,
		Metadata: map[string]any{
			"path":     path,
			"modified": info.ModTime(),
		},
	}, nil
}

func (f *Fetcher) download(ctx context.Context, uri string) (*domain.RawDocument, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, http.NoBody)
	if err != nil {
		return nil, &domain.FetchError{Source: uri, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", acceptHeader)

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &domain.FetchError{Source: uri, Err: fmt.Errorf("send request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused.
		_, _ = io.CopyN(io.Discard, resp.Body, 4<<10)
		return nil, &domain.FetchError{Source: uri, StatusCode: resp.StatusCode}
	}

	if resp.ContentLength > f.maxBytes {
		return nil, &domain.FetchError{Source: uri, StatusCode: resp.StatusCode, Err: f.tooLarge(resp.ContentLength)}
	}

	content, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, &domain.FetchError{Source: uri, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(content)) > f.maxBytes {
		return nil, &domain.FetchError{Source: uri, StatusCode: resp.StatusCode, Err: f.tooLarge(-1)}
	}

	logger.Debug("Downloaded %d bytes from %s in %s", len(content), uri, time.Since(start).Round(time.Millisecond))
	return &domain.RawDocument{
		URI:      uri,
		MIMEType: detectMIMEType(resp.Header.Get("Content-Type"), content),
		Content:  content,
		Metadata: map[string]any{
			"status":    resp.StatusCode,
			"final_url": resp.Request.URL.String(),
		},
	}, nil
}

func (f *Fetcher) tooLarge(size int64) error {
	if size < 0 {
		return fmt.Errorf("%w: exceeds %d bytes", domain.ErrDocumentTooLarge, f.maxBytes)
	}
	return fmt.Errorf("%w: %d bytes exceeds %d", domain.ErrDocumentTooLarge, size, f.maxBytes)
}

var pdfMagic = []byte("%PDF-")

// detectMIMEType trusts a specific declared type and sniffs generic ones.
// Content starting with the PDF magic is always application/pdf.
func detectMIMEType(declared string, content []byte) string {
	if bytes.HasPrefix(content, pdfMagic) {
		return "application/pdf"
	}

	if declared != "" {
		if mt, _, err := mime.ParseMediaType(declared); err == nil {
			switch mt {
			case "application/octet-stream", "binary/octet-stream", "application/x-download":
			default:
				return mt
			}
		}
	}

	mt, _, err := mime.ParseMediaType(http.DetectContentType(content))
	if err != nil {
		return "application/octet-stream"
	}
	return mt
}
