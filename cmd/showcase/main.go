// Command showcase runs the widget showcase in a terminal or as a web page.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"showcase/internal/config"
	"showcase/internal/jsonutil"
	"showcase/internal/logging"
	"showcase/internal/render"
	"showcase/internal/session"
	"showcase/internal/telemetry"
	"showcase/internal/ui"
	"showcase/internal/web"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:          "showcase",
		Short:        "Interactive widget showcase",
		Long:         "showcase demonstrates charts, widgets, text elements and file upload\nin a terminal UI (default) or over HTTP.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), configPath)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/showcase/config.*)")

	root.AddCommand(
		&cobra.Command{
			Use:   "tui",
			Short: "Run the terminal UI",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runTUI(cmd.Context(), configPath)
			},
		},
		newServeCmd(&configPath),
		newRenderCmd(&configPath),
	)
	return root
}

func newServeCmd(configPath *string) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the showcase over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, *configPath, addr, cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

func newRenderCmd(configPath *string) *cobra.Command {
	var (
		tab    string
		asJSON bool
		width  int
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print one render pass and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			t, ok := render.ParseTab(tab)
			if !ok {
				return fmt.Errorf("unknown tab %q", tab)
			}
			return renderOnce(cmd.Context(), cmd.OutOrStdout(), cfg, t, asJSON, width)
		},
	}
	cmd.Flags().StringVar(&tab, "tab", render.TabData.String(), "active tab: data, widgets, text or upload")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the UI tree as JSON")
	cmd.Flags().IntVar(&width, "width", 100, "terminal width for text output")
	return cmd
}

// newRunner builds the render runner and telemetry shared by every host.
// The returned func flushes spans.
func newRunner(ctx context.Context, cfg config.Config, host string, logger *slog.Logger) (*session.Runner, func(), error) {
	traces, err := telemetry.NewProvider(ctx, telemetry.TraceConfig{
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Stdout:       cfg.Telemetry.Stdout,
		Insecure:     cfg.Telemetry.Insecure,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("init tracing: %w", err)
	}
	runner := &session.Runner{
		Host:           host,
		Options:        cfg.Options(),
		Seed:           cfg.Sample.Seed,
		MaxUploadBytes: cfg.Upload.MaxBytes,
		Traces:         traces,
		Metrics:        telemetry.NewMetrics(),
		Logger:         logging.Component(logger, "session"),
	}
	shutdown := func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := traces.Shutdown(sctx); err != nil {
			logger.Warn("trace shutdown", slog.String("error", err.Error()))
		}
	}
	return runner, shutdown, nil
}

func runTUI(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logFile := cfg.Log.File
	if logFile == "" {
		logFile = logging.DefaultFile()
	}
	logger, closer, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   logFile,
	})
	if err != nil {
		return err
	}
	defer closer.Close()

	runner, shutdown, err := newRunner(ctx, cfg, "tui", logger)
	if err != nil {
		return err
	}
	defer shutdown()

	model := ui.NewAppModel(ui.Options{
		Runner: runner,
		Logger: logging.Component(logger, "ui"),
	})
	p := tea.NewProgram(model.AsTeaModel(), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run terminal ui: %w", err)
	}
	return nil
}

func runServe(ctx context.Context, configPath, addr string, stderr io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger, closer, err := logging.New(logging.Options{
		Level:    cfg.Log.Level,
		Format:   cfg.Log.Format,
		File:     cfg.Log.File,
		Fallback: stderr,
	})
	if err != nil {
		return err
	}
	defer closer.Close()

	runner, shutdown, err := newRunner(ctx, cfg, "web", logger)
	if err != nil {
		return err
	}
	defer shutdown()

	srv, err := web.New(web.Options{
		Runner: runner,
		Logger: logging.Component(logger, "web"),
	})
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}
	return srv.ListenAndServe(ctx, addr)
}

func renderOnce(ctx context.Context, out io.Writer, cfg config.Config, tab render.Tab, asJSON bool, width int) error {
	runner := &session.Runner{
		Host:    "cli",
		Options: cfg.Options(),
		Seed:    cfg.Sample.Seed,
	}
	st := render.DefaultState(time.Now())
	st.ActiveTab = tab
	page := runner.Pass(ctx, st)
	if asJSON {
		return jsonutil.Encode(out, page, true)
	}
	painter := ui.PagePainter{Width: width, MarkdownStyle: "notty"}
	_, err := fmt.Fprintln(out, painter.Paint(page))
	return err
}
