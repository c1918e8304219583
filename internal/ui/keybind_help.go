package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// RenderKeybindHelp produces the transient help bar shown after SPC. When
// a longer sequence is in progress only its next keys are listed.
func RenderKeybindHelp(h *KeyHandler, mode AppMode) string {
	if h == nil || h.Registry == nil {
		return ""
	}
	seq := h.CurrentSeq()
	if seq == h.LeaderSeq {
		seq = ""
	}
	hints := h.Registry.LeaderHints(seq, mode)
	if len(hints) == 0 {
		return ""
	}

	bindings := make([]key.Binding, 0, len(hints)+1)
	for _, hint := range hints {
		bindings = append(bindings, key.NewBinding(
			key.WithKeys(hint.Key),
			key.WithHelp(hint.Key, hint.Desc),
		))
	}
	bindings = append(bindings, key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	))

	hm := help.New()
	hm.Styles.ShortKey = lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)).
		Bold(true)
	hm.Styles.ShortDesc = Styles.Muted
	hm.Styles.ShortSeparator = Styles.Muted

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccent)).
		Padding(0, 1)

	prefix := h.CurrentSeq()
	if prefix == "" {
		prefix = h.LeaderSeq
	}
	return box.Render(Styles.Muted.Render(prefix) + " " + hm.ShortHelpView(bindings))
}

// navigationHelp is the always-visible hint line for ModeNavigate.
func navigationHelp() string {
	hm := help.New()
	hm.Styles.ShortKey = Styles.Hint.Bold(true)
	hm.Styles.ShortDesc = Styles.Hint
	hm.Styles.ShortSeparator = Styles.Hint
	return hm.ShortHelpView([]key.Binding{
		key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "tab")),
		key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "focus")),
		key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("←/→", "change")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit")),
		key.NewBinding(key.WithKeys(" "), key.WithHelp("SPC", "menu")),
		key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	})
}
