package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	minListWidth = 24
	formHeight   = 9
	chromeHeight = 4 // status line, help line, borders
)

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	lw := w / 3
	if lw < minListWidth {
		lw = minListWidth
	}
	lh := h - formHeight - chromeHeight
	if lh < 5 {
		lh = 5
	}
	m.list.SetSize(lw, lh)
	m.create.setWidth(w - 6)
	m.edit.setWidth(m.detailWidth() - 4)
	m.help.Width = w
}

func (m Model) detailWidth() int {
	w := m.width - m.list.Width() - 6
	if w < 20 {
		w = 20
	}
	return w
}

func (m Model) View() string {
	listPane := pane(m.focus == focusList).Render(m.list.View())
	detailPane := pane(m.focus == focusEdit).
		Width(m.detailWidth()).
		Height(m.list.Height()).
		Render(m.detailView())
	top := lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)

	createPane := pane(m.focus == focusCreate).Width(m.width - 4).Render(m.create.view("New post"))

	return lipgloss.JoinVertical(lipgloss.Left, top, createPane, m.statusLine(), m.helpLine())
}

func (m Model) detailView() string {
	switch m.detail {
	case detailViewing:
		p := m.detailPost
		body := lipgloss.NewStyle().Width(m.detailWidth() - 2).Render(p.Content)
		return strings.Join([]string{
			headingStyle.Render(p.Title),
			labelStyle.Render("Image:") + mutedStyle.Render(p.Image),
			labelStyle.Render("Author:") + p.Author,
			"",
			body,
			"",
			accentStyle.Render("[e] EDIT THIS POST") + "   " + errorStyle.Render("[x] DELETE THIS POST"),
		}, "\n")
	case detailEditing:
		return m.edit.view("Edit Post") + "\n" + mutedStyle.Render("editing post "+m.editID.String())
	default:
		return mutedStyle.Render("Select a post and press enter.")
	}
}

func (m Model) statusLine() string {
	var parts []string
	if m.busy() {
		parts = append(parts, pendingStyle.Render(fmt.Sprintf("• loading (%d)", m.inflight)))
	}
	if m.status != "" {
		if m.failed {
			parts = append(parts, errorStyle.Render("✖ "+truncate(m.status, m.width-4)))
		} else {
			parts = append(parts, successStyle.Render("✔ "+m.status))
		}
	}
	return strings.Join(parts, "  ")
}

func (m Model) helpLine() string {
	if m.focus == focusList {
		return m.help.View(m.keys)
	}
	return m.help.View(formKeys{k: m.keys})
}
