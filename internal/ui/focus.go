package ui

// FocusManager tracks which control has focus and rotates through the
// controls of the current page.
type FocusManager struct {
	Current  string   // ID of the focused control
	Order    []string // Tab order
	OnChange func(from, to string)
}

// SetOrder replaces the focus order. Focus stays on Current when it is
// still present, otherwise it moves to the first control.
func (f *FocusManager) SetOrder(order []string) {
	f.Order = order
	if f.indexOf(f.Current) >= 0 {
		return
	}
	to := ""
	if len(order) > 0 {
		to = order[0]
	}
	f.move(to)
}

// Next advances focus to the next control in order.
// Returns the new current focus ID.
func (f *FocusManager) Next() string {
	return f.step(1)
}

// Prev moves focus to the previous control in order.
func (f *FocusManager) Prev() string {
	return f.step(-1)
}

// SetFocus sets focus to the given control ID.
// Returns true if the ID exists in order.
func (f *FocusManager) SetFocus(id string) bool {
	if f.indexOf(id) < 0 {
		return false
	}
	f.move(id)
	return true
}

func (f *FocusManager) step(delta int) string {
	n := len(f.Order)
	if n == 0 {
		return ""
	}
	idx := f.indexOf(f.Current)
	var next int
	switch {
	case idx < 0 && delta < 0:
		next = n - 1
	case idx < 0:
		next = 0
	default:
		next = ((idx+delta)%n + n) % n
	}
	f.move(f.Order[next])
	return f.Current
}

func (f *FocusManager) move(to string) {
	from := f.Current
	f.Current = to
	if f.OnChange != nil && from != to {
		f.OnChange(from, to)
	}
}

func (f *FocusManager) indexOf(id string) int {
	for i, o := range f.Order {
		if o == id {
			return i
		}
	}
	return -1
}
