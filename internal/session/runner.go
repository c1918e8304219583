// Package session drives render passes for a host. A Session holds one
// user's widget state; a Runner turns that state into a page, loads
// uploads, and records tracing and metrics for both.
package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"showcase/internal/dataset"
	"showcase/internal/render"
	"showcase/internal/telemetry"
)

// ErrTooLarge is reported when an upload exceeds the configured limit.
var ErrTooLarge = errors.New("file exceeds upload limit")

// Session is the widget state of one user of a host.
type Session struct {
	ID     string
	State  render.State
	Passes int
}

// New starts a session with default control values.
func New(today time.Time) *Session {
	return &Session{
		ID:    uuid.NewString(),
		State: render.DefaultState(today),
	}
}

// Runner executes render passes. The zero value works: default page
// options, random samples, no telemetry, discarded logs.
type Runner struct {
	Host           string // "tui" or "web", used as a metric label
	Options        render.Options
	Seed           uint64 // 0 draws a new random sample each pass
	MaxUploadBytes int64  // 0 means unlimited
	Traces         *telemetry.Provider
	Metrics        *telemetry.Metrics
	Logger         *slog.Logger
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r.Logger
}

func (r *Runner) options() render.Options {
	if r.Options.Title == "" {
		return render.DefaultOptions()
	}
	return r.Options
}

// Sample draws the sample table for one pass.
func (r *Runner) Sample() dataset.Table {
	return dataset.Sample(dataset.NewRand(r.Seed))
}

// Pass renders st with a fresh sample.
func (r *Runner) Pass(ctx context.Context, st render.State) render.Page {
	return r.PassWith(ctx, st, r.Sample())
}

// PassWith renders st with the given sample. Hosts that need the sample
// outside the page (chart images, exports) draw it first with Sample.
func (r *Runner) PassWith(ctx context.Context, st render.State, sample dataset.Table) render.Page {
	return r.pass(ctx, "", st, sample)
}

// Run renders the session state and counts the pass. The session ID is
// recorded on the span and the log entry.
func (r *Runner) Run(ctx context.Context, s *Session) render.Page {
	s.Passes++
	return r.pass(ctx, s.ID, s.State, r.Sample())
}

func (r *Runner) pass(ctx context.Context, sessionID string, st render.State, sample dataset.Table) render.Page {
	attrs := map[string]string{
		"host": r.Host,
		"tab":  st.ActiveTab.String(),
	}
	log := r.logger()
	if sessionID != "" {
		attrs["session"] = sessionID
		log = log.With(slog.String("session", sessionID))
	}

	start := time.Now()
	_, span := r.Traces.Start(ctx, telemetry.SpanRenderPass, attrs)
	page := render.Render(st, sample, r.options())
	span.End()

	elapsed := time.Since(start)
	r.Metrics.ObserveRender(r.Host, st.ActiveTab.String(), elapsed)
	log.Debug("render pass",
		slog.String("tab", st.ActiveTab.String()),
		slog.Duration("elapsed", elapsed),
	)
	return page
}

// Load reads and parses an uploaded file. Failures are carried in the
// returned Upload's Result, never returned as errors.
func (r *Runner) Load(ctx context.Context, filename string, rd io.Reader) *render.Upload {
	format, ferr := dataset.FormatOf(filename)
	if ferr != nil {
		format = "unknown"
	}
	_, span := r.Traces.Start(ctx, telemetry.SpanParse, map[string]string{
		"file":   filename,
		"format": format,
	})
	defer span.End()

	up := &render.Upload{Filename: filename}
	data, err := r.read(rd)
	up.Size = int64(len(data))
	if err != nil {
		up.Result = dataset.ParseResult{Err: err}
	} else {
		up.Result = dataset.Parse(filename, bytes.NewReader(data))
	}

	r.Metrics.ObserveUpload(format, up.Result.OK())
	log := r.logger().With(slog.String("file", filename), slog.Int64("bytes", up.Size))
	if !up.Result.OK() {
		span.RecordError(up.Result.Err)
		log.Warn("upload rejected", slog.String("error", up.Result.Err.Error()))
		return up
	}
	rows, cols := up.Result.Table.Shape()
	span.SetAttributes(telemetry.Attributes(map[string]string{
		"rows": strconv.Itoa(rows),
		"cols": strconv.Itoa(cols),
	})...)
	log.Info("upload parsed", slog.Int("rows", rows), slog.Int("cols", cols))
	return up
}

func (r *Runner) read(rd io.Reader) ([]byte, error) {
	if r.MaxUploadBytes <= 0 {
		return io.ReadAll(rd)
	}
	data, err := io.ReadAll(io.LimitReader(rd, r.MaxUploadBytes+1))
	if err != nil {
		return data, err
	}
	if int64(len(data)) > r.MaxUploadBytes {
		return data[:r.MaxUploadBytes], fmt.Errorf("%w of %d bytes", ErrTooLarge, r.MaxUploadBytes)
	}
	return data, nil
}

// Export writes a fresh sample table as a workbook.
func (r *Runner) Export(ctx context.Context, w io.Writer) error {
	_, span := r.Traces.Start(ctx, telemetry.SpanExport, nil)
	defer span.End()
	if err := dataset.WriteXLSX(w, r.Sample(), "Sample"); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}
