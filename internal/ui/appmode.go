package ui

// AppMode decides who receives key presses: the app's keybinds, a text
// editor, or the file picker.
type AppMode int

const (
	ModeNavigate AppMode = iota
	ModeEdit
	ModePickFile
)

func (m AppMode) String() string {
	switch m {
	case ModeNavigate:
		return "Navigate"
	case ModeEdit:
		return "Edit"
	case ModePickFile:
		return "PickFile"
	default:
		return "Unknown"
	}
}
