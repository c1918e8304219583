package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConfirmModal asks a yes/no question. Enter or y confirms; Esc or n
// cancels. A modal without OnConfirm is a notice that any of those keys
// dismisses.
type ConfirmModal struct {
	Title     string
	Label     string
	Details   string
	OnConfirm func() tea.Msg

	box   lipgloss.Style
	title lipgloss.Style
}

var _ View = (*ConfirmModal)(nil)

// NewConfirmModal creates a confirmation modal styled as a warning.
func NewConfirmModal(title, label string, onConfirm func() tea.Msg) *ConfirmModal {
	return &ConfirmModal{
		Title:     title,
		Label:     label,
		OnConfirm: onConfirm,
		box:       Styles.BoxDanger,
		title:     Styles.TitleDanger,
	}
}

// NewNoticeModal creates a dismiss-only modal, used for failures that need
// acknowledging.
func NewNoticeModal(title, label string) *ConfirmModal {
	return &ConfirmModal{
		Title: title,
		Label: label,
		box:   Styles.Box,
		title: Styles.Title,
	}
}

// WithDetails adds a highlighted detail line below the label.
func (m *ConfirmModal) WithDetails(details string) *ConfirmModal {
	m.Details = details
	return m
}

// NewClearUploadConfirmModal asks before discarding the uploaded file.
func NewClearUploadConfirmModal(filename string) *ConfirmModal {
	return NewConfirmModal(
		"Clear upload?",
		fmt.Sprintf("File: %s", filename),
		func() tea.Msg { return ClearUploadMsg{} },
	).WithDetails("The preview and shape will be removed")
}

// Init implements View.
func (m *ConfirmModal) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (m *ConfirmModal) Update(msg tea.Msg) (View, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	dismiss := func() tea.Msg { return DismissModalMsg{} }
	switch key.String() {
	case "esc", "n":
		return m, dismiss
	case "enter", "y":
		if m.OnConfirm == nil {
			return m, dismiss
		}
		return m, m.OnConfirm
	}
	return m, nil
}

// View implements View.
func (m *ConfirmModal) View() string {
	content := m.title.Render(m.Title) + "\n\n" + Styles.Normal.Render(m.Label)
	if m.Details != "" {
		content += "\n" + Styles.Details.Render(m.Details)
	}
	hint := "y/Enter: confirm  Esc: cancel"
	if m.OnConfirm == nil {
		hint = "Enter/Esc: close"
	}
	content += "\n\n" + Styles.Hint.Render(hint)
	return m.box.Render(content)
}
