package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Overlay is a modal drawn above the page. It receives every key until it
// is popped.
type Overlay struct {
	View View
	Name string // for logs and tests
}

// OverlayStack manages a stack of overlays (topmost receives input first).
type OverlayStack struct {
	Stack []Overlay
}

// Push adds an overlay to the top of the stack.
func (s *OverlayStack) Push(o Overlay) {
	s.Stack = append(s.Stack, o)
}

// Pop removes and returns the top overlay.
func (s *OverlayStack) Pop() (Overlay, bool) {
	if len(s.Stack) == 0 {
		return Overlay{}, false
	}
	top := s.Stack[len(s.Stack)-1]
	s.Stack = s.Stack[:len(s.Stack)-1]
	return top, true
}

// Peek returns the top overlay without removing it.
func (s *OverlayStack) Peek() (Overlay, bool) {
	if len(s.Stack) == 0 {
		return Overlay{}, false
	}
	return s.Stack[len(s.Stack)-1], true
}

// Len returns the number of overlays in the stack.
func (s *OverlayStack) Len() int {
	return len(s.Stack)
}

// UpdateTop passes msg to the top overlay and stores the updated view.
// The caller must run the returned cmd.
func (s *OverlayStack) UpdateTop(msg tea.Msg) (tea.Cmd, bool) {
	if len(s.Stack) == 0 {
		return nil, false
	}
	top := &s.Stack[len(s.Stack)-1]
	next, cmd := top.View.Update(msg)
	top.View = next
	return cmd, true
}

// Render centers the top overlay in a width x height area. With no size
// known yet the overlay is appended below base.
func (s *OverlayStack) Render(base string, width, height int) string {
	top, ok := s.Peek()
	if !ok {
		return base
	}
	box := top.View.View()
	if width <= 0 || height <= 0 {
		return base + "\n" + box
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
