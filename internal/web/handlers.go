package web

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"showcase/internal/dataset"
	"showcase/internal/jsonutil"
	"showcase/internal/render"
	"showcase/internal/session"
)

// Form field names outside the control IDs.
const (
	fieldTab    = "tab"    // tab button that submitted the form
	fieldActive = "active" // tab that was showing when the form was built
	// fieldClearUpload drops the session's uploaded file.
	fieldClearUpload = "clear_upload"
)

// FormState builds widget state from form or query values. Missing or
// malformed values keep their defaults; out-of-range values are clamped.
// A present but empty name is kept.
func FormState(values url.Values, today time.Time) render.State {
	st := render.DefaultState(today)
	if values.Has(render.IDName) {
		st.Name = values.Get(render.IDName)
	}
	if v, err := strconv.Atoi(values.Get(render.IDAge)); err == nil {
		st.Age = v
	}
	if v := values.Get(render.IDColor); v != "" {
		st.Color = v
	}
	st.Agree = parseCheckbox(values.Get(render.IDAgree))
	if v := values.Get(render.IDGenre); v != "" {
		st.Genre = v
	}
	if d, err := time.ParseInLocation(render.DateLayout, values.Get(render.IDDate), today.Location()); err == nil {
		st.Date = d
	}
	if v, err := strconv.Atoi(values.Get(render.IDNumber)); err == nil {
		st.Number = v
	}
	tab := values.Get(fieldTab)
	if tab == "" {
		tab = values.Get(fieldActive)
	}
	if t, ok := render.ParseTab(tab); ok {
		st.ActiveTab = t
	}
	return st.Normalize()
}

func parseCheckbox(v string) bool {
	switch strings.ToLower(v) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// uploadAction says what a request does to the session's uploaded file.
type uploadAction int

const (
	uploadKeep uploadAction = iota
	uploadReplace
	uploadClear
)

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	ws := s.sessions.lookup(w, r, s.now())
	st, action, err := s.requestState(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ws.mu.Lock()
	switch action {
	case uploadKeep:
		st.Upload = ws.State.Upload
	case uploadClear:
		st.Upload = nil
	}
	ws.State = st
	page := s.runner.Run(r.Context(), ws.Session)
	ws.mu.Unlock()

	s.writeBuffered(w, r, "text/html; charset=utf-8", func(out io.Writer) error {
		return s.painter.Paint(out, page)
	})
}

// requestState parses the form (multipart for uploads) and loads the
// uploaded file, if any. An oversized body becomes a failed upload.
func (s *Server) requestState(w http.ResponseWriter, r *http.Request) (render.State, uploadAction, error) {
	today := s.now()
	if r.Method != http.MethodPost {
		return FormState(r.URL.Query(), today), uploadKeep, nil
	}

	if limit := s.runner.MaxUploadBytes; limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit+formOverhead)
	}
	err := r.ParseMultipartForm(memoryLimit)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		st := FormState(r.URL.Query(), today)
		st.ActiveTab = render.TabUpload
		st.Upload = &render.Upload{
			Filename: "upload",
			Result: dataset.ParseResult{
				Err: fmt.Errorf("%w of %d bytes", session.ErrTooLarge, s.runner.MaxUploadBytes),
			},
		}
		s.logger.Warn("upload rejected", slog.Int64("limit", s.runner.MaxUploadBytes))
		return st, uploadReplace, nil
	}
	if err != nil {
		return render.State{}, uploadKeep, fmt.Errorf("parse form: %w", err)
	}

	st := FormState(r.Form, today)
	if r.Form.Has(fieldClearUpload) {
		st.ActiveTab = render.TabUpload
		return st, uploadClear, nil
	}
	if r.MultipartForm == nil {
		return st, uploadKeep, nil
	}
	files := r.MultipartForm.File[render.IDFile]
	if len(files) == 0 || files[0].Filename == "" {
		return st, uploadKeep, nil
	}
	fh := files[0]
	st.ActiveTab = render.TabUpload
	f, err := fh.Open()
	if err != nil {
		st.Upload = &render.Upload{Filename: fh.Filename, Result: dataset.ParseResult{Err: err}}
		return st, uploadReplace, nil
	}
	defer f.Close()
	st.Upload = s.runner.Load(r.Context(), fh.Filename, f)
	return st, uploadReplace, nil
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	var draw func(io.Writer, render.Chart) error
	switch chi.URLParam(r, "kind") {
	case "line":
		draw = LineChartSVG
	case "bar":
		draw = BarChartSVG
	default:
		http.NotFound(w, r)
		return
	}
	c := render.SampleChart(s.runner.Sample())
	s.writeBuffered(w, r, "image/svg+xml", func(out io.Writer) error {
		return draw(out, c)
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Disposition", `attachment; filename="showcase-sample.xlsx"`)
	s.writeBuffered(w, r, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", func(out io.Writer) error {
		return s.runner.Export(r.Context(), out)
	})
}

// renderRequest is the body of POST /api/render. Dates use the same
// YYYY-MM-DD form as the date control.
type renderRequest struct {
	render.State
	Date string `json:"date"`
}

func (s *Server) handleAPIRender(w http.ResponseWriter, r *http.Request) {
	today := s.now()
	req := renderRequest{State: render.DefaultState(today)}
	if err := jsonutil.DecodeWithContext(r.Body, &req, apiBodyLimit, "decode render request"); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	st := req.State
	if req.Date != "" {
		d, err := time.ParseInLocation(render.DateLayout, req.Date, today.Location())
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid date %q, want YYYY-MM-DD", req.Date), http.StatusBadRequest)
			return
		}
		st.Date = d
	}

	page := s.runner.Pass(r.Context(), st.Normalize())
	s.writeBuffered(w, r, "application/json", func(out io.Writer) error {
		return jsonutil.Encode(out, page, false)
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeBuffered(w, r, "application/json", func(out io.Writer) error {
		return jsonutil.Encode(out, map[string]string{"status": "ok"}, false)
	})
}
