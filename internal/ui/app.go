package ui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"showcase/internal/render"
	"showcase/internal/session"
)

// Options configures NewAppModel. Only Runner is required.
type Options struct {
	Runner    *session.Runner
	Logger    *slog.Logger
	StartDir  string // first directory shown by the file picker
	ExportDir string // where SPC e writes workbooks
	Now       func() time.Time
	// MarkdownStyle is passed to glamour; "notty" gives plain output.
	MarkdownStyle string
}

// AppModel is the root of the terminal host. It owns one session and
// re-runs the render pass after every state change.
type AppModel struct {
	Mode       AppMode
	Session    *session.Session
	Runner     *session.Runner
	Page       render.Page
	Focus      FocusManager
	KeyHandler *KeyHandler
	Overlays   OverlayStack
	Painter    PagePainter
	Picker     filepicker.Model
	Editor     textinput.Model
	Editing    string // control being edited in ModeEdit
	Width      int
	Height     int
	Status     string
	StatusErr  bool
	ExportDir  string

	ctx    context.Context
	now    func() time.Time
	logger *slog.Logger
}

// Ensure AppModel can be used as tea.Model via adapter.
var _ tea.Model = (*appModelAdapter)(nil)

// appModelAdapter wraps AppModel to implement tea.Model.
type appModelAdapter struct {
	*AppModel
}

// NewAppModel creates the root model and runs the first render pass.
func NewAppModel(opts Options) *AppModel {
	runner := opts.Runner
	if runner == nil {
		runner = &session.Runner{Host: "tui"}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	exportDir := opts.ExportDir
	if exportDir == "" {
		exportDir, _ = os.Getwd()
	}

	m := &AppModel{
		Mode:      ModeNavigate,
		Session:   session.New(now()),
		Runner:    runner,
		Painter:   PagePainter{MarkdownStyle: opts.MarkdownStyle},
		Picker:    newPicker(opts.StartDir),
		ExportDir: exportDir,
		ctx:       context.Background(),
		now:       now,
		logger:    logger,
	}
	m.logger = m.logger.With(slog.String("session", m.Session.ID))
	m.logger.Info("session started", slog.String("host", runner.Host))
	m.KeyHandler = NewKeyHandler(m.keybinds())
	m.Focus.OnChange = func(from, to string) {
		m.logger.Debug("focus", slog.String("from", from), slog.String("to", to))
	}
	m.rerender()
	return m
}

func newPicker(dir string) filepicker.Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".csv", ".xlsx"}
	fp.AutoHeight = true
	fp.Styles.Selected = Styles.Focused
	fp.Styles.Cursor = Styles.Focused
	if dir != "" {
		fp.CurrentDirectory = dir
	} else if wd, err := os.Getwd(); err == nil {
		fp.CurrentDirectory = wd
	}
	return fp
}

func (m *AppModel) keybinds() *KeybindRegistry {
	reg := NewKeybindRegistry()
	nav := []AppMode{ModeNavigate}
	for i, t := range render.Tabs {
		reg.BindForMode(strconv.Itoa(i+1), func() tea.Msg { return SwitchTabMsg{Tab: t} }, t.Label(), nav)
	}
	reg.BindForMode("q", tea.Quit, "Quit", nav)
	reg.BindWithDesc("ctrl+c", tea.Quit, "Quit")
	reg.BindWithDesc("SPC q", tea.Quit, "Quit")
	reg.BindForMode("SPC r", func() tea.Msg { return RerenderMsg{} }, "Re-run", nav)
	reg.BindForMode("SPC e", func() tea.Msg { return ExportMsg{} }, "Export sample", nav)
	reg.BindForMode("SPC c", func() tea.Msg { return ShowClearUploadMsg{} }, "Clear upload", nav)
	return reg
}

// AsTeaModel returns a tea.Model adapter for use with tea.NewProgram.
func (m *AppModel) AsTeaModel() tea.Model {
	return &appModelAdapter{AppModel: m}
}

// rerender runs a full render pass and refreshes the focus order.
func (m *AppModel) rerender() {
	m.Page = m.Runner.Run(m.ctx, m.Session)
	m.Focus.SetOrder(FocusOrder(m.Page))
}

// FocusOrder lists the IDs of the sidebar controls followed by those of
// the active tab.
func FocusOrder(page render.Page) []string {
	var ids []string
	collect := func(n render.Node) {
		if n.Kind == render.KindControl && n.Control != nil {
			ids = append(ids, n.Control.ID)
		}
	}
	render.Walk(page.Sidebar, collect)
	render.Walk(page.ActivePanel().Body, collect)
	return ids
}

func (m *AppModel) setStatus(format string, args ...any) {
	m.Status, m.StatusErr = fmt.Sprintf(format, args...), false
}

func (m *AppModel) setError(format string, args ...any) {
	m.Status, m.StatusErr = fmt.Sprintf(format, args...), true
}

// Init implements tea.Model.
func (a *appModelAdapter) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (a *appModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.Width, a.Height = msg.Width, msg.Height
		a.Painter.Width = msg.Width
		var cmd tea.Cmd
		a.Picker, cmd = a.Picker.Update(msg)
		return a, cmd
	case tea.KeyMsg:
		return a, a.handleKey(msg)
	case SwitchTabMsg:
		a.Session.State.ActiveTab = msg.Tab
		a.rerender()
		return a, nil
	case RerenderMsg:
		a.rerender()
		a.setStatus("Re-ran with a new sample")
		return a, nil
	case ExportMsg:
		return a, exportCmd(a.ctx, a.Runner, a.ExportDir, a.now())
	case ExportDoneMsg:
		if msg.Err != nil {
			a.logger.Error("export failed", slog.String("error", msg.Err.Error()))
			a.Overlays.Push(Overlay{Name: "export-error", View: NewNoticeModal("Export failed", msg.Err.Error())})
			return a, nil
		}
		a.logger.Info("exported sample", slog.String("path", msg.Path))
		a.setStatus("Exported %s", msg.Path)
		return a, nil
	case FileLoadedMsg:
		a.Session.State.Upload = msg.Upload
		a.Mode = ModeNavigate
		a.rerender()
		if msg.Upload.Result.OK() {
			a.setStatus("Loaded %s", msg.Upload.Filename)
		} else {
			a.setError("Could not read %s", msg.Upload.Filename)
		}
		return a, nil
	case ShowClearUploadMsg:
		up := a.Session.State.Upload
		if up == nil {
			a.setStatus("No file uploaded")
			return a, nil
		}
		a.Overlays.Push(Overlay{Name: "clear-upload", View: NewClearUploadConfirmModal(up.Filename)})
		return a, nil
	case ClearUploadMsg:
		a.Overlays.Pop()
		a.Session.State.Upload = nil
		a.rerender()
		a.setStatus("Upload cleared")
		return a, nil
	case DismissModalMsg:
		a.Overlays.Pop()
		return a, nil
	}

	// Directory listings and errors from the picker arrive asynchronously.
	var cmd tea.Cmd
	a.Picker, cmd = a.Picker.Update(msg)
	return a, cmd
}

func (m *AppModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}
	if m.Overlays.Len() > 0 {
		cmd, _ := m.Overlays.UpdateTop(msg)
		return cmd
	}
	switch m.Mode {
	case ModeEdit:
		return m.handleEditKey(msg)
	case ModePickFile:
		return m.handlePickerKey(msg)
	}
	if consumed, cmd := m.KeyHandler.Handle(msg, m.Mode); consumed {
		return cmd
	}
	return m.handleNavigateKey(msg)
}

func (m *AppModel) handleNavigateKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab", "down", "j":
		m.Focus.Next()
	case "shift+tab", "up", "k":
		m.Focus.Prev()
	case "left", "h":
		m.adjust(-1)
	case "right", "l":
		m.adjust(1)
	case "pgdown":
		m.adjust(-10)
	case "pgup":
		m.adjust(10)
	case "x":
		if m.Focus.Current == render.IDAgree {
			m.toggleAgree()
		}
	case "enter":
		return m.activate()
	}
	return nil
}

// adjust steps the focused ranged or option control by delta.
func (m *AppModel) adjust(delta int) {
	st := &m.Session.State
	switch m.Focus.Current {
	case render.IDAge:
		st.Age += delta
	case render.IDNumber:
		st.Number += delta
	case render.IDColor:
		st.Color = render.CycleOption(render.Colors, st.Color, delta)
	case render.IDGenre:
		st.Genre = render.CycleOption(render.Genres, st.Genre, delta)
	case render.IDDate:
		st.Date = st.Date.AddDate(0, 0, delta)
	default:
		return
	}
	*st = st.Normalize()
	m.rerender()
}

func (m *AppModel) toggleAgree() {
	m.Session.State.Agree = !m.Session.State.Agree
	m.rerender()
}

// activate handles enter on the focused control.
func (m *AppModel) activate() tea.Cmd {
	st := m.Session.State
	switch id := m.Focus.Current; id {
	case render.IDAgree:
		m.toggleAgree()
	case render.IDColor, render.IDGenre:
		m.adjust(1)
	case render.IDName:
		return m.startEdit(id, st.Name)
	case render.IDDate:
		return m.startEdit(id, st.Date.Format(render.DateLayout))
	case render.IDNumber:
		return m.startEdit(id, strconv.Itoa(st.Number))
	case render.IDFile:
		m.Mode = ModePickFile
		return m.Picker.Init()
	}
	return nil
}

func (m *AppModel) startEdit(id, value string) tea.Cmd {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 256
	ti.SetValue(value)
	ti.CursorEnd()
	m.Editor = ti
	m.Editing = id
	m.Mode = ModeEdit
	return m.Editor.Focus()
}

func (m *AppModel) stopEdit() {
	m.Editor.Blur()
	m.Editing = ""
	m.Mode = ModeNavigate
	m.setStatus("")
}

func (m *AppModel) handleEditKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.stopEdit()
		return nil
	case "enter":
		if err := m.commitEdit(strings.TrimSpace(m.Editor.Value())); err != nil {
			m.setError("%v", err)
			return nil
		}
		m.stopEdit()
		m.rerender()
		return nil
	}
	var cmd tea.Cmd
	m.Editor, cmd = m.Editor.Update(msg)
	return cmd
}

// commitEdit stores an edited value. Names accept anything, including
// the empty string; dates and numbers must parse.
func (m *AppModel) commitEdit(value string) error {
	st := &m.Session.State
	switch m.Editing {
	case render.IDName:
		st.Name = m.Editor.Value()
	case render.IDDate:
		d, err := time.ParseInLocation(render.DateLayout, value, st.Date.Location())
		if err != nil {
			return fmt.Errorf("invalid date %q, want YYYY-MM-DD", value)
		}
		st.Date = d
	case render.IDNumber:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid number %q", value)
		}
		if n < render.NumberMin || n > render.NumberMax {
			return fmt.Errorf("number must be between %d and %d", render.NumberMin, render.NumberMax)
		}
		st.Number = n
	}
	*st = st.Normalize()
	return nil
}

func (m *AppModel) handlePickerKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "esc" {
		m.Mode = ModeNavigate
		return nil
	}
	var cmd tea.Cmd
	m.Picker, cmd = m.Picker.Update(msg)
	if ok, path := m.Picker.DidSelectFile(msg); ok {
		m.setStatus("Reading %s", path)
		return tea.Batch(cmd, loadFileCmd(m.ctx, m.Runner, path))
	}
	if ok, path := m.Picker.DidSelectDisabledFile(msg); ok {
		m.setError("%s is not a .csv or .xlsx file", path)
	}
	return cmd
}

// View implements tea.Model.
func (a *appModelAdapter) View() string {
	if a.Mode == ModePickFile {
		return a.pickerView()
	}
	a.Painter.Focused = a.Focus.Current
	a.Painter.Editor = func(id string) (string, bool) {
		if a.Mode == ModeEdit && id == a.Editing {
			return a.Editor.View(), true
		}
		return "", false
	}

	var b strings.Builder
	b.WriteString(a.Painter.Paint(a.Page))
	b.WriteString("\n" + a.statusLine())
	if a.KeyHandler.LeaderWaiting {
		b.WriteString("\n" + RenderKeybindHelp(a.KeyHandler, a.Mode))
	}
	return a.Overlays.Render(b.String(), a.Width, a.Height)
}

func (m *AppModel) statusLine() string {
	switch {
	case m.StatusErr:
		return Styles.Error.Render(m.Status)
	case m.Mode == ModeEdit:
		return Styles.Hint.Render("enter: save  esc: cancel")
	case m.Status != "":
		return Styles.Status.Render(m.Status) + "  " + navigationHelp()
	default:
		return navigationHelp()
	}
}

func (m *AppModel) pickerView() string {
	var b strings.Builder
	b.WriteString(Styles.Header.Render("Choose a CSV file") + "\n")
	b.WriteString(Styles.Muted.Render(m.Picker.CurrentDirectory) + "\n\n")
	b.WriteString(m.Picker.View() + "\n")
	if m.StatusErr {
		b.WriteString(Styles.Error.Render(m.Status) + "\n")
	}
	b.WriteString(Styles.Hint.Render("enter: open/select  ←: up  esc: cancel"))
	return b.String()
}
