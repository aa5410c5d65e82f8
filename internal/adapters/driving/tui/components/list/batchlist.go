// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/adapters/driving/tui/styles"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/domain"
)

// headerWidth bounds the source shown in each item header.
const headerWidth = 50

// BatchList displays batch outcomes. The selected item is expanded.
type BatchList struct {
	items    []domain.BatchItem
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewBatchList creates a new batch list component.
func NewBatchList(s *styles.Styles) *BatchList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &BatchList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the list.
func (b *BatchList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (b *BatchList) Update(msg tea.Msg) (*BatchList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			b.MoveUp()
		case "down", "j":
			b.MoveDown()
		}
	}
	return b, nil
}

// View renders the list.
func (b *BatchList) View() string {
	if len(b.items) == 0 {
		return b.styles.Muted.Render("No results")
	}

	lines := make([]string, 0, len(b.items)+4)
	header := b.styles.Subtitle.Render(fmt.Sprintf("Completed analysis of %d PDFs", len(b.items)))
	lines = append(lines, header, "")

	for i := range b.items {
		lines = append(lines, b.renderHeader(i))
	}

	lines = append(lines, "", b.renderDetail())
	return strings.Join(lines, "\n")
}

func (b *BatchList) renderHeader(index int) string {
	item := b.items[index]

	mark := b.styles.Success.Render("ok")
	if !item.OK() {
		mark = b.styles.Error.Render("failed")
	}
	text := fmt.Sprintf("PDF %d: %s", index+1, domain.Truncate(item.Source, headerWidth))

	if index == b.selected {
		return b.styles.Selected.Render("> "+text) + " " + mark
	}
	return b.styles.Normal.Render("  "+text) + " " + mark
}

// renderDetail renders the selected item's answer or error.
func (b *BatchList) renderDetail() string {
	item := b.SelectedItem()
	if item == nil {
		return ""
	}
	if !item.OK() {
		return b.styles.Error.Render("Error processing PDF: " + item.Result)
	}

	text := item.Result
	if item.FromCache {
		text += "\n\n" + b.styles.Muted.Render("Results served from cache.")
	}
	return b.styles.Answer.Width(max(b.width-4, 20)).Render(text)
}

// SetItems replaces the list contents.
func (b *BatchList) SetItems(items []domain.BatchItem) {
	b.items = items
	b.selected = 0
}

// Items returns the current items.
func (b *BatchList) Items() []domain.BatchItem {
	return b.items
}

// Selected returns the index of the selected item.
func (b *BatchList) Selected() int {
	return b.selected
}

// SelectedItem returns the selected item, or nil if the list is empty.
func (b *BatchList) SelectedItem() *domain.BatchItem {
	if len(b.items) == 0 || b.selected < 0 || b.selected >= len(b.items) {
		return nil
	}
	return &b.items[b.selected]
}

// MoveUp moves selection up.
func (b *BatchList) MoveUp() {
	if b.selected > 0 {
		b.selected--
	}
}

// MoveDown moves selection down.
func (b *BatchList) MoveDown() {
	if b.selected < len(b.items)-1 {
		b.selected++
	}
}

// SetDimensions sets the component dimensions.
func (b *BatchList) SetDimensions(width, height int) {
	b.width = width
	b.height = height
}

// Count returns the number of items.
func (b *BatchList) Count() int {
	return len(b.items)
}
