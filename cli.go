package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sadopc/tock/internal/engine"
	"github.com/sadopc/tock/internal/export"
	"github.com/sadopc/tock/internal/logfields"
	"github.com/sadopc/tock/internal/metrics"
	"github.com/sadopc/tock/internal/settings"
	"github.com/sadopc/tock/internal/store"
	"github.com/sadopc/tock/internal/tui"
)

// CLI is the command line: global flags plus subcommands.
type CLI struct {
	DB           string `name:"db" help:"SQLite database path (default: user config dir)." env:"TOCK_DB" type:"path"`
	SettingsFile string `name:"settings-file" help:"Keep timer settings in this YAML file instead of the database." env:"TOCK_SETTINGS_FILE" type:"path"`
	Ephemeral    bool   `help:"Keep settings and history in memory for this session only."`
	LogFile      string `name:"log-file" help:"Log file path (default: user config dir)." env:"TOCK_LOG_FILE" type:"path"`
	Verbose      bool   `short:"v" help:"Enable debug logging."`

	Run    RunCmd    `cmd:"" default:"1" help:"Start the timer (default)."`
	Export ExportCmd `cmd:"" help:"Export run history as CSV or JSON."`
}

// Global is shared by every command.
type Global struct {
	Logger  *slog.Logger
	logFile io.Closer
}

func (g *Global) Close() {
	if g.logFile != nil {
		_ = g.logFile.Close()
	}
}

// execute runs the selected command and closes the log file before
// returning, so a failing command still flushes it before the process exits.
func execute(ctx *kong.Context, g *Global, cli *CLI) error {
	defer g.Close()
	return ctx.Run(g, cli)
}

// setup opens the log sink. The terminal belongs to the UI, so logs never go
// to stdout or stderr.
func (c *CLI) setup() (*Global, error) {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}

	path := c.LogFile
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("locate config dir: %w", err)
		}
		path = filepath.Join(dir, "tock", "tock.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return &Global{Logger: logger, logFile: f}, nil
}

func (c *CLI) openStore() (*store.Store, error) {
	if c.Ephemeral {
		return store.NewMemory()
	}
	path := c.DB
	if path == "" {
		var err error
		if path, err = store.DefaultDBPath(); err != nil {
			return nil, fmt.Errorf("locate database: %w", err)
		}
	}
	return store.New(path)
}

// settingsBackend picks where the engine keys live: memory for an ephemeral
// session, a YAML file when one is named, otherwise the database.
func (c *CLI) settingsBackend(s *store.Store) (settings.Backend, string, error) {
	switch {
	case c.Ephemeral:
		return settings.NewMemory(), "memory", nil
	case c.SettingsFile != "":
		fb, err := settings.OpenFile(c.SettingsFile)
		if err != nil {
			return nil, "", err
		}
		return fb, fb.Path(), nil
	}
	return s, "sqlite", nil
}

// RunCmd starts the terminal UI.
type RunCmd struct {
	MetricsAddr string        `name:"metrics-addr" help:"Serve Prometheus metrics on this address, e.g. :9090." env:"TOCK_METRICS_ADDR"`
	Tick        time.Duration `help:"Display refresh interval while running." default:"50ms" env:"TOCK_TICK"`
}

func (r *RunCmd) Run(g *Global, cli *CLI) error {
	s, err := cli.openStore()
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer s.Close()

	backend, where, err := cli.settingsBackend(s)
	if err != nil {
		return fmt.Errorf("open settings: %w", err)
	}

	session := uuid.NewString()
	logger := g.Logger.With(logfields.Session(session))
	logger.Info("session started", slog.String("settings", where))

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if r.MetricsAddr != "" {
		pr := metrics.NewPrometheusRecorder(prometheus.NewRegistry())
		recorder = pr
		stop := serveMetrics(r.MetricsAddr, pr.Handler(), logger)
		defer stop()
	}

	e := engine.New(settings.New(backend, logger), engine.Options{
		Clock:         clockwork.NewRealClock(),
		Recorder:      recorder,
		Journal:       s,
		Logger:        logger,
		SessionID:     session,
		FlashInterval: s.LoadPreferences().FlashInterval,
	})
	// Persist the live value however the program exits.
	defer e.Sync()

	app := tui.NewApp(s, e, tui.Options{Tick: r.Tick})
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	logger.Info("session ended")
	return nil
}

func serveMetrics(addr string, h http.Handler, logger *slog.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", h)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", slog.String("addr", addr), logfields.Error(err))
		}
	}()
	logger.Info("serving metrics", slog.String("addr", addr))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

// ExportCmd writes the run journal.
type ExportCmd struct {
	Format  string `short:"f" enum:"csv,json" default:"csv" help:"Output format (csv or json)."`
	Output  string `short:"o" help:"Output file (default: stdout)." type:"path"`
	Mode    string `help:"Only runs in this mode (timer or stopwatch)."`
	Session string `help:"Only runs from this session id."`
	Days    int    `help:"Only runs started in the last N days."`
	Limit   int    `help:"At most this many runs, newest first."`
}

func (x *ExportCmd) Run(g *Global, cli *CLI) error {
	return x.export(cli, os.Stdout, time.Now())
}

func (x *ExportCmd) filter(now time.Time) (store.RunFilter, error) {
	f := store.RunFilter{SessionID: x.Session, Limit: x.Limit}
	if x.Mode != "" {
		if !settings.Mode(x.Mode).Valid() {
			return f, fmt.Errorf("unknown mode %q", x.Mode)
		}
		f.Mode = x.Mode
	}
	if x.Days > 0 {
		from := now.AddDate(0, 0, -x.Days)
		f.From = &from
	}
	return f, nil
}

func (x *ExportCmd) export(cli *CLI, stdout io.Writer, now time.Time) error {
	format, err := export.ParseFormat(x.Format)
	if err != nil {
		return err
	}
	filter, err := x.filter(now)
	if err != nil {
		return err
	}

	s, err := cli.openStore()
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer s.Close()

	runs, err := s.ListRuns(filter)
	if err != nil {
		return err
	}
	if x.Output == "" {
		return export.Write(stdout, format, runs)
	}
	if err := export.ToFile(format, runs, x.Output); err != nil {
		return err
	}
	slog.Info("exported runs", logfields.Path(x.Output), slog.Int("count", len(runs)))
	return nil
}
