package ui

import tea "github.com/charmbracelet/bubbletea"

// View is a self-contained screen region with its own update loop. Modals
// and the file picker screen implement it; the page itself is painted by
// PagePainter.
type View interface {
	Init() tea.Cmd
	Update(tea.Msg) (View, tea.Cmd)
	View() string
}
