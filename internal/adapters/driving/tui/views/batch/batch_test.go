package batch

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/adapters/driving/tui/components/status"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/adapters/driving/tui/messages"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/domain"
)

// MockAnalysisService implements driving.AnalysisService for testing.
type MockAnalysisService struct {
	BatchAnswerQueriesFunc func(ctx context.Context, sources []string, query string) ([]domain.BatchItem, error)
}

func (m *MockAnalysisService) AnswerQuery(
	_ context.Context,
	source, query string,
	_ bool,
) (*domain.Answer, error) {
	return &domain.Answer{Source: source, Query: query}, nil
}

func (m *MockAnalysisService) BatchAnswerQueries(
	ctx context.Context,
	sources []string,
	query string,
) ([]domain.BatchItem, error) {
	if m.BatchAnswerQueriesFunc != nil {
		return m.BatchAnswerQueriesFunc(ctx, sources, query)
	}
	items := make([]domain.BatchItem, len(sources))
	for i, s := range sources {
		items[i] = domain.BatchItem{Source: s, Status: domain.BatchStatusSuccess, Result: "ok"}
	}
	return items, nil
}

func (m *MockAnalysisService) Invalidate(_ string) {}

func (m *MockAnalysisService) Stats() domain.CacheStats { return domain.CacheStats{} }

func newTestView(svc *MockAnalysisService) *View {
	v := NewView(nil, nil, svc)
	v.SetDimensions(100, 40)
	return v
}

// completion runs cmd and returns the BatchCompleted it produces.
func completion(t *testing.T, cmd tea.Cmd) messages.BatchCompleted {
	t.Helper()
	require.NotNil(t, cmd)
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	for _, c := range batch {
		if c == nil {
			continue
		}
		if done, ok := c().(messages.BatchCompleted); ok {
			return done
		}
	}
	t.Fatal("no BatchCompleted produced")
	return messages.BatchCompleted{}
}

func TestNewView(t *testing.T) {
	v := NewView(nil, nil, &MockAnalysisService{})
	require.NotNil(t, v)

	assert.Equal(t, "Initialising...", v.View())
	assert.Equal(t, domain.DefaultSourceURL, v.sources.Value())
	assert.True(t, v.sources.Focused())
	assert.False(t, v.Done())
	assert.NotNil(t, v.Init())
}

func TestView_Submit(t *testing.T) {
	var gotSources []string
	var gotQuery string
	svc := &MockAnalysisService{
		BatchAnswerQueriesFunc: func(_ context.Context, sources []string, query string) ([]domain.BatchItem, error) {
			gotSources, gotQuery = sources, query
			return []domain.BatchItem{
				{Source: sources[0], Status: domain.BatchStatusSuccess, Result: "first answer"},
				{Source: sources[1], Status: domain.BatchStatusError, Result: "fetch failed"},
			}, nil
		},
	}
	v := newTestView(svc)
	v.SetInputs("https://example.com/a.pdf\n\n  https://example.com/b.pdf  \n", "Key points?")

	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.True(t, v.Running())
	assert.Equal(t, status.StateAnalysing, v.statusbar.State())
	assert.Equal(t, "Analysing 2 PDFs", v.statusbar.Message())

	v, _ = v.Update(completion(t, cmd))
	assert.Equal(t, []string{"https://example.com/a.pdf", "https://example.com/b.pdf"}, gotSources)
	assert.Equal(t, "Key points?", gotQuery)

	assert.False(t, v.Running())
	assert.True(t, v.Done())
	assert.Len(t, v.Items(), 2)
	assert.Equal(t, status.StateDone, v.statusbar.State())
	assert.Equal(t, "Completed analysis of 2 PDFs, 1 failed", v.statusbar.Message())
	assert.Contains(t, v.View(), "first answer")
}

func TestView_SubmitDefaultsQuery(t *testing.T) {
	var gotQuery string
	svc := &MockAnalysisService{
		BatchAnswerQueriesFunc: func(_ context.Context, _ []string, query string) ([]domain.BatchItem, error) {
			gotQuery = query
			return nil, nil
		},
	}
	v := newTestView(svc)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	completion(t, cmd)
	assert.Equal(t, domain.DefaultQuery, gotQuery)
}

func TestView_SubmitWithoutSources(t *testing.T) {
	v := newTestView(&MockAnalysisService{})
	v.SetInputs(" \n\n ", "q")

	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Nil(t, cmd)
	assert.False(t, v.Running())
	assert.Equal(t, "Please enter at least one PDF URL.", v.Warning())
	assert.Contains(t, v.View(), "Please enter at least one PDF URL.")
}

func TestView_AllSucceeded(t *testing.T) {
	v := newTestView(&MockAnalysisService{})
	v.SetInputs("https://example.com/a.pdf", "")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	v, _ = v.Update(completion(t, cmd))
	assert.Equal(t, "Completed analysis of 1 PDFs", v.statusbar.Message())
}

func TestView_BatchError(t *testing.T) {
	v := newTestView(&MockAnalysisService{})

	v, _ = v.Update(messages.BatchCompleted{Err: errors.New("cancelled")})
	assert.True(t, v.Done())
	assert.EqualError(t, v.Err(), "cancelled")
	assert.Equal(t, status.StateError, v.statusbar.State())
	assert.Contains(t, v.View(), "Error: cancelled")
}

func TestView_NoService(t *testing.T) {
	v := NewView(nil, nil, nil)
	v.SetDimensions(100, 40)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.ErrorIs(t, completion(t, cmd).Err, ErrNoAnalysisService)
}

func TestView_FocusAndTyping(t *testing.T) {
	v := newTestView(&MockAnalysisService{})
	v.SetInputs("", "")

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a.pdf")})
	assert.Equal(t, "a.pdf", v.sources.Value())

	// Enter in the URL list starts a new line.
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, v.Running())
	assert.Equal(t, "a.pdf\n", v.sources.Value())

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.True(t, v.query.Focused())
	assert.False(t, v.sources.Focused())

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("why")})
	assert.Equal(t, "why", v.query.Value())

	// Enter in the query submits.
	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, v.Running())
	assert.NotNil(t, cmd)
}

func TestView_ResultsNavigation(t *testing.T) {
	v := newTestView(&MockAnalysisService{})
	v, _ = v.Update(messages.BatchCompleted{Items: []domain.BatchItem{
		{Source: "a", Status: domain.BatchStatusSuccess, Result: "one"},
		{Source: "b", Status: domain.BatchStatusSuccess, Result: "two"},
	}})

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	assert.Equal(t, 1, v.results.Selected())

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	assert.False(t, v.Done())
	assert.Empty(t, v.Items())
	assert.True(t, v.sources.Focused())
}

func TestView_Esc(t *testing.T) {
	v := newTestView(&MockAnalysisService{})
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}

func TestView_Reset(t *testing.T) {
	v := newTestView(&MockAnalysisService{})
	v, _ = v.Update(messages.BatchCompleted{Err: errors.New("x")})

	v.Reset()
	assert.False(t, v.Done())
	assert.NoError(t, v.Err())
	assert.Equal(t, domain.DefaultSourceURL, v.sources.Value())
}
