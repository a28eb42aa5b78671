package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/kanban/internal/board"
	"github.com/Iron-Ham/kanban/internal/util"
)

// EmptyColumnText is shown in a column without tasks.
const EmptyColumnText = "No tasks here"

// Layout constants
const (
	defaultWidth   = 96
	columnMinWidth = 20
	columnChrome   = 4 // border (2) + horizontal padding (2)
	cardHeight     = 3 // title + description + margin
	boardChrome    = 12
)

// View renders the board.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if m.snap.Err != "" {
		b.WriteString(m.styles.ErrorBanner.Render(m.snap.Err))
		b.WriteString("\n\n")
	}

	switch m.mode {
	case modeForm:
		b.WriteString(m.form.view(m.styles))
		b.WriteString("\n")
		b.WriteString(m.styles.HelpBar.Render(m.help.View(m.form.keys)))
	case modeConfirm:
		b.WriteString(m.renderBoard())
		b.WriteString("\n")
		b.WriteString(m.renderConfirm())
		b.WriteString("\n")
		b.WriteString(m.styles.HelpBar.Render(m.help.View(m.confirmKeys)))
	default:
		b.WriteString(m.renderBoard())
		b.WriteString("\n")
		b.WriteString(m.styles.HelpBar.Render(m.help.View(m.keys)))
	}

	return b.String()
}

func (m Model) renderHeader() string {
	title := m.styles.Title.Render("Kanban")
	count := m.styles.Muted.Render(fmt.Sprintf("%d tasks", m.snap.Columns.Count()))
	parts := []string{title, count}
	if m.busy() {
		parts = append(parts, m.spinner.View()+m.styles.Busy.Render("working"))
	}
	return m.styles.Header.Render(strings.Join(parts, "  "))
}

func (m Model) renderBoard() string {
	inner := m.columnWidth()
	rendered := make([]string, 0, len(m.snap.Columns))
	for i, col := range m.snap.Columns {
		rendered = append(rendered, m.renderColumn(i, col, inner))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderColumn(idx int, col board.Column, inner int) string {
	focused := idx == m.col
	s := m.styles

	heading := s.ColumnTitle.Foreground(s.StageColor(col.Stage)).Render(col.Stage.Title()) +
		" " + s.ColumnCount.Render(fmt.Sprintf("(%d)", len(col.Tasks)))

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n\n")

	if len(col.Tasks) == 0 {
		b.WriteString(s.Empty.Render(EmptyColumnText))
	} else {
		start, end := visibleRange(len(col.Tasks), m.row, m.maxCards(), focused)
		if start > 0 {
			b.WriteString(s.Muted.Render(fmt.Sprintf("↑ %d more", start)))
			b.WriteString("\n")
		}
		for i := start; i < end; i++ {
			b.WriteString(m.renderCard(col, i, inner, focused && i == m.row))
		}
		if end < len(col.Tasks) {
			b.WriteString(s.Muted.Render(fmt.Sprintf("↓ %d more", len(col.Tasks)-end)))
		}
	}

	style := s.Column
	if focused {
		style = s.ColumnFocused
	}
	return style.Width(inner + 2).Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderCard(col board.Column, i, width int, selected bool) string {
	t := col.Tasks[i]
	// Cards spend one column on padding, selected ones on their left border.
	textWidth := width - 1

	lines := []string{util.Truncate(t.Title, textWidth)}
	if desc := util.Summary(t.Description, textWidth); desc != "" {
		lines = append(lines, m.styles.CardDescription.Render(desc))
	}
	body := strings.Join(lines, "\n")

	if selected {
		return m.styles.CardSelected.Width(textWidth).Render(body) + "\n"
	}
	return m.styles.Card.Width(width).Render(body) + "\n"
}

func (m Model) renderConfirm() string {
	title := util.Truncate(m.pending.Title, 48)
	prompt := fmt.Sprintf("Delete %q?", title)
	return m.styles.Dialog.Render(m.styles.Warning.Bold(true).Render(prompt) +
		"\n\n" + m.styles.Muted.Render("This cannot be undone. (y/n)"))
}

// columnWidth returns the inner width of each of the three columns.
func (m Model) columnWidth() int {
	w := m.width
	if w == 0 {
		w = defaultWidth
	}
	n := max(len(m.snap.Columns), 1)
	return max(w/n-columnChrome, columnMinWidth)
}

// maxCards returns how many cards fit vertically, or 0 for no limit.
func (m Model) maxCards() int {
	if m.height == 0 {
		return 0
	}
	return max((m.height-boardChrome)/cardHeight, 1)
}

// visibleRange returns the window [start, end) of n cards to render. The
// focused column scrolls to keep the cursor visible; other columns show their
// head.
func visibleRange(n, cursor, limit int, focused bool) (start, end int) {
	if limit <= 0 || n <= limit {
		return 0, n
	}
	if focused && cursor >= limit {
		start = cursor - limit + 1
	}
	return start, start + limit
}
