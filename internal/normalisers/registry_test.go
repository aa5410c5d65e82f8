package normalisers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/domain"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/ports/driven"
)

// stubNormaliser records which instance handled a document.
type stubNormaliser struct {
	name     string
	types    []string
	priority int
}

func (s *stubNormaliser) SupportedMIMETypes() []string { return s.types }
func (s *stubNormaliser) Priority() int                { return s.priority }

func (s *stubNormaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	return &driven.NormaliseResult{Document: domain.Document{URI: raw.URI, Title: s.name}}, nil
}

func TestRegistry_PriorityWins(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubNormaliser{name: "fallback", types: []string{"application/pdf"}, priority: 5})
	r.Register(&stubNormaliser{name: "specific", types: []string{"application/pdf"}, priority: 50})

	result, err := r.Normalise(context.Background(), &domain.RawDocument{URI: "a", MIMEType: "application/pdf"})
	require.NoError(t, err)
	assert.Equal(t, "specific", result.Document.Title)
}

func TestRegistry_EqualPriorityKeepsOrder(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubNormaliser{name: "first", types: []string{"text/plain"}, priority: 5})
	r.Register(&stubNormaliser{name: "second", types: []string{"text/plain"}, priority: 5})

	result, err := r.Normalise(context.Background(), &domain.RawDocument{MIMEType: "text/plain"})
	require.NoError(t, err)
	assert.Equal(t, "first", result.Document.Title)
}

func TestRegistry_MIMEParameters(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubNormaliser{name: "text", types: []string{"text/plain"}, priority: 5})

	tests := []string{
		"text/plain",
		"text/plain; charset=utf-8",
		"Text/Plain",
		"text/plain;",
	}
	for _, mimeType := range tests {
		t.Run(mimeType, func(t *testing.T) {
			result, err := r.Normalise(context.Background(), &domain.RawDocument{MIMEType: mimeType})
			require.NoError(t, err)
			assert.Equal(t, "text", result.Document.Title)
		})
	}
}

func TestRegistry_Unsupported(t *testing.T) {
	r := NewDefaultRegistry(0)

	_, err := r.Normalise(context.Background(), &domain.RawDocument{MIMEType: "image/png"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	assert.Contains(t, err.Error(), "image/png")

	_, err = r.Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegistry_SupportedMIMETypes(t *testing.T) {
	r := NewDefaultRegistry(10)

	types := r.SupportedMIMETypes()
	assert.Contains(t, types, "application/pdf")
	assert.Contains(t, types, "text/plain")
	assert.IsNonDecreasing(t, types)
}

func TestRegistry_DefaultDispatchesText(t *testing.T) {
	r := NewDefaultRegistry(0)

	result, err := r.Normalise(context.Background(), &domain.RawDocument{
		URI:      "/notes/readme.txt",
		MIMEType: "text/plain; charset=utf-8",
		Content:  []byte("hello"),
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", result.Document.Content)
}

func TestBaseMIMEType(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"application/pdf", "application/pdf"},
		{"application/PDF", "application/pdf"},
		{"text/html; charset=ISO-8859-1", "text/html"},
		{" text/plain ;", "text/plain"},
		{"", ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, baseMIMEType(tc.in), tc.in)
	}
}
