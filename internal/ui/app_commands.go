package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"showcase/internal/dataset"
	"showcase/internal/render"
	"showcase/internal/session"
)

// loadFileCmd reads and parses path off the update loop. An unreadable
// file becomes a failed upload so it is shown like a parse failure.
func loadFileCmd(ctx context.Context, r *session.Runner, path string) tea.Cmd {
	return func() tea.Msg {
		name := filepath.Base(path)
		f, err := os.Open(path)
		if err != nil {
			return FileLoadedMsg{Upload: &render.Upload{
				Filename: name,
				Result:   dataset.ParseResult{Err: err},
			}}
		}
		defer f.Close()
		return FileLoadedMsg{Upload: r.Load(ctx, name, f)}
	}
}

// exportFileName names an export by its timestamp so repeated exports do
// not overwrite each other.
func exportFileName(now time.Time) string {
	return fmt.Sprintf("showcase-sample-%s.xlsx", now.Format("20060102-150405"))
}

// exportCmd writes a sample workbook into dir.
func exportCmd(ctx context.Context, r *session.Runner, dir string, now time.Time) tea.Cmd {
	return func() tea.Msg {
		path := filepath.Join(dir, exportFileName(now))
		f, err := os.Create(path)
		if err != nil {
			return ExportDoneMsg{Err: fmt.Errorf("create export: %w", err)}
		}
		if err := r.Export(ctx, f); err != nil {
			f.Close()
			return ExportDoneMsg{Path: path, Err: fmt.Errorf("write export: %w", err)}
		}
		if err := f.Close(); err != nil {
			return ExportDoneMsg{Path: path, Err: fmt.Errorf("close export: %w", err)}
		}
		return ExportDoneMsg{Path: path}
	}
}
