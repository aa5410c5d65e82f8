package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultSourceURL is the PDF preselected in single-document mode.
const DefaultSourceURL = "https://assets.anthropic.com/m/1cd9d098ac3e6467/original/Claude-3-Model-Card-October-Addendum.pdf"

// ParseSourceList splits user input into Source identifiers.
// One source per line; surrounding whitespace is trimmed and blank lines are dropped.
func ParseSourceList(text string) []string {
	lines := strings.Split(text, "\n")
	sources := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		sources = append(sources, line)
	}
	return sources
}

// ValidateSource checks that a Source identifier can be fetched.
// Accepted forms are http(s) URLs, file URLs and absolute local paths.
func ValidateSource(source string) error {
	if strings.TrimSpace(source) == "" {
		return fmt.Errorf("%w: source is empty", ErrInvalidInput)
	}
	if strings.HasPrefix(source, "/") {
		return nil
	}
	u, err := url.Parse(source)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	switch u.Scheme {
	case "http", "https":
		if u.Host == "" {
			return fmt.Errorf("%w: missing host in %q", ErrInvalidInput, source)
		}
		return nil
	case "file":
		return nil
	default:
		return fmt.Errorf("%w: unsupported scheme %q", ErrInvalidInput, u.Scheme)
	}
}

// LocalPath returns the filesystem path for file sources.
// The boolean is false for remote sources.
func LocalPath(source string) (string, bool) {
	if strings.HasPrefix(source, "/") {
		return source, true
	}
	if strings.HasPrefix(source, "file://") {
		u, err := url.Parse(source)
		if err != nil || u.Path == "" {
			return "", false
		}
		return u.Path, true
	}
	return "", false
}

// Truncate shortens s to at most n runes, appending "..." when cut.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
