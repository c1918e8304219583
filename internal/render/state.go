package render

import (
	"fmt"
	"strings"
	"time"

	"showcase/internal/dataset"
)

// Tab identifies one of the four mutually exclusive page sections.
type Tab int

const (
	TabData Tab = iota
	TabWidgets
	TabText
	TabUpload
)

// Tabs lists every tab in display order.
var Tabs = []Tab{TabData, TabWidgets, TabText, TabUpload}

func (t Tab) String() string {
	switch t {
	case TabData:
		return "data"
	case TabWidgets:
		return "widgets"
	case TabText:
		return "text"
	case TabUpload:
		return "upload"
	default:
		return "unknown"
	}
}

// Label is the tab caption shown to the user.
func (t Tab) Label() string {
	switch t {
	case TabData:
		return "📊 Data & Charts"
	case TabWidgets:
		return "🎨 Widgets"
	case TabText:
		return "📝 Text Elements"
	case TabUpload:
		return "📁 File Upload"
	default:
		return "?"
	}
}

// ParseTab maps a tab name ("data", "widgets", ...) back to a Tab.
func ParseTab(s string) (Tab, bool) {
	for _, t := range Tabs {
		if strings.EqualFold(s, t.String()) {
			return t, true
		}
	}
	return TabData, false
}

// MarshalText encodes a tab by name so JSON pages read "widgets", not 1.
func (t Tab) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText accepts the names produced by MarshalText.
func (t *Tab) UnmarshalText(b []byte) error {
	v, ok := ParseTab(string(b))
	if !ok {
		return fmt.Errorf("unknown tab %q", b)
	}
	*t = v
	return nil
}

// Control option lists and ranges.
var (
	Colors = []string{"Red", "Green", "Blue", "Yellow"}
	Genres = []string{"Comedy", "Drama", "Action", "Sci-Fi"}
)

const (
	AgeMin, AgeMax, AgeDefault          = 0, 100, 25
	NumberMin, NumberMax, NumberDefault = 0, 100, 50
	DefaultName                         = "User"
	DateLayout                          = "2006-01-02"
)

// Upload is a file the user supplied together with its parse outcome.
type Upload struct {
	Filename string
	Size     int64
	Result   dataset.ParseResult
}

// State is the current value of every interactive control. A render pass
// is a pure function of State.
type State struct {
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	Color     string    `json:"color"`
	Agree     bool      `json:"agree"`
	Genre     string    `json:"genre"`
	Date      time.Time `json:"date"`
	Number    int       `json:"number"`
	ActiveTab Tab       `json:"active_tab"`
	Upload    *Upload   `json:"-"`
}

// DefaultState returns the control values shown on first load.
func DefaultState(today time.Time) State {
	return State{
		Name:      DefaultName,
		Age:       AgeDefault,
		Color:     Colors[0],
		Genre:     Genres[0],
		Date:      midnight(today),
		Number:    NumberDefault,
		ActiveTab: TabData,
	}
}

// Normalize clamps ranged controls and replaces unknown options with the
// first option.
func (s State) Normalize() State {
	s.Age = clamp(s.Age, AgeMin, AgeMax)
	s.Number = clamp(s.Number, NumberMin, NumberMax)
	if indexOf(Colors, s.Color) < 0 {
		s.Color = Colors[0]
	}
	if indexOf(Genres, s.Genre) < 0 {
		s.Genre = Genres[0]
	}
	if s.ActiveTab < TabData || s.ActiveTab > TabUpload {
		s.ActiveTab = TabData
	}
	s.Date = midnight(s.Date)
	return s
}

// CycleOption returns the option delta steps away from current, wrapping.
func CycleOption(options []string, current string, delta int) string {
	if len(options) == 0 {
		return current
	}
	i := indexOf(options, current)
	if i < 0 {
		i = 0
	}
	n := len(options)
	return options[((i+delta)%n+n)%n]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func indexOf(options []string, v string) int {
	for i, o := range options {
		if o == v {
			return i
		}
	}
	return -1
}

func midnight(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
