package list

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/domain"
)

func sampleItems() []domain.BatchItem {
	return []domain.BatchItem{
		{Source: "https://example.com/a.pdf", Status: domain.BatchStatusSuccess, Result: "first answer"},
		{Source: "https://example.com/b.pdf", Status: domain.BatchStatusError, Result: "fetch failed"},
		{Source: "https://example.com/c.pdf", Status: domain.BatchStatusSuccess, Result: "third answer", FromCache: true},
	}
}

func TestNewBatchList(t *testing.T) {
	l := NewBatchList(nil)

	require.NotNil(t, l)
	assert.Equal(t, 0, l.Count())
	assert.Nil(t, l.SelectedItem())
	assert.Contains(t, l.View(), "No results")
}

func TestBatchList_View(t *testing.T) {
	l := NewBatchList(nil)
	l.SetItems(sampleItems())

	view := l.View()

	assert.Contains(t, view, "Completed analysis of 3 PDFs")
	assert.Contains(t, view, "PDF 1: https://example.com/a.pdf")
	assert.Contains(t, view, "PDF 2: https://example.com/b.pdf")
	assert.Contains(t, view, "first answer")
	assert.NotContains(t, view, "third answer")
}

func TestBatchList_ViewSelectedError(t *testing.T) {
	l := NewBatchList(nil)
	l.SetItems(sampleItems())
	l.MoveDown()

	assert.Contains(t, l.View(), "Error processing PDF: fetch failed")
}

func TestBatchList_ViewSelectedFromCache(t *testing.T) {
	l := NewBatchList(nil)
	l.SetItems(sampleItems())
	l.MoveDown()
	l.MoveDown()

	view := l.View()
	assert.Contains(t, view, "third answer")
	assert.Contains(t, view, "Results served from cache.")
}

func TestBatchList_LongSourceTruncated(t *testing.T) {
	l := NewBatchList(nil)
	long := "https://example.com/" + strings.Repeat("x", 100) + ".pdf"
	l.SetItems([]domain.BatchItem{{Source: long, Status: domain.BatchStatusSuccess, Result: "ok"}})

	view := l.View()
	assert.Contains(t, view, domain.Truncate(long, headerWidth))
	assert.NotContains(t, view, long)
}

func TestBatchList_Navigation(t *testing.T) {
	l := NewBatchList(nil)
	l.SetItems(sampleItems())

	l.MoveUp()
	assert.Equal(t, 0, l.Selected())

	l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 1, l.Selected())

	l.Update(tea.KeyMsg{Type: tea.KeyDown})
	l.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, l.Selected())

	l.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, l.Selected())
	assert.Equal(t, "https://example.com/b.pdf", l.SelectedItem().Source)
}

func TestBatchList_SetItemsResetsSelection(t *testing.T) {
	l := NewBatchList(nil)
	l.SetItems(sampleItems())
	l.MoveDown()

	l.SetItems(sampleItems()[:1])

	assert.Equal(t, 0, l.Selected())
	assert.Len(t, l.Items(), 1)
}
