package services

import (
	"fmt"
	"os"

	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/domain"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/logger"
)

// stagePattern names transient document files. The "*" is replaced with a
// random suffix so concurrent builds never share a file.
const stagePattern = "pdfanalysis-*.pdf"

// stageDocument writes raw.Content to a uniquely named file in dir and sets
// raw.LocalPath to it. The returned cleanup removes the file and clears
// LocalPath; callers defer it immediately, whatever the outcome of the build.
// An empty dir means os.TempDir().
func stageDocument(dir string, raw *domain.RawDocument) (func(), error) {
	f, err := os.CreateTemp(dir, stagePattern)
	if err != nil {
		return func() {}, fmt.Errorf("create staging file: %w", err)
	}
	path := f.Name()

	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Warn("remove staging file %s: %v", path, err)
		}
		raw.LocalPath = ""
	}

	if _, err := f.Write(raw.Content); err != nil {
		f.Close()
		cleanup()
		return func() {}, fmt.Errorf("write staging file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return func() {}, fmt.Errorf("close staging file: %w", err)
	}

	raw.LocalPath = path
	logger.Debug("Staged %d bytes for %s at %s", len(raw.Content), raw.URI, path)
	return cleanup, nil
}
