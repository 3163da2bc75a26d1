package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/five82/lookout/internal/config"
	"github.com/five82/lookout/internal/logging"
	"github.com/five82/lookout/internal/logsapi"
	"github.com/five82/lookout/internal/logtail"
	"github.com/five82/lookout/internal/prefs"
	"github.com/five82/lookout/internal/server"
	"github.com/five82/lookout/internal/session"
	"github.com/five82/lookout/internal/ui"
)

const shutdownTimeout = 5 * time.Second

// Options configure lookout. Non-zero fields override the config file and
// environment.
type Options struct {
	ConfigPath string
	EnvFile    string // empty reads ./.env when present
	PrefsPath  string // empty uses ~/.config/lookout/prefs.toml
	Character  string
	Endpoint   string
	PollEvery  time.Duration
	Level      string
	Debug      bool
}

// Run boots the TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, closeLog, err := logging.New(logging.Options{Path: cfg.LogFile, Debug: opts.Debug})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = closeLog() }()

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	client, err := logsapi.NewClient(cfg.Endpoint)
	if err != nil {
		return fmt.Errorf("init log client: %w", err)
	}

	st := newSession(cfg, userPrefs, logger)
	logger.Info("starting viewer",
		zap.String("character", st.Character()),
		zap.String("endpoint", client.Endpoint()),
		zap.Duration("poll", cfg.PollInterval))

	return ui.Run(ui.Options{
		Context:   ctx,
		Fetcher:   client,
		Session:   st,
		Endpoint:  client.Endpoint(),
		PollTick:  cfg.PollInterval,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
		Logger:    logger,
	})
}

// Tail follows the log without a terminal UI, writing each new visible line
// to out until the context is cancelled.
func Tail(ctx context.Context, opts Options, out io.Writer) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, closeLog, err := logging.New(logging.Options{Debug: opts.Debug})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = closeLog() }()

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	client, err := logsapi.NewClient(cfg.Endpoint)
	if err != nil {
		return fmt.Errorf("init log client: %w", err)
	}

	st := newSession(cfg, userPrefs, logger)
	printer := &tailPrinter{out: out}
	<-StartPoller(ctx, st, client, cfg.PollInterval, printer.update)
	return nil
}

// Serve runs the companion /logs-data endpoint until the context is cancelled.
func Serve(ctx context.Context, opts Options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, closeLog, err := logging.New(logging.Options{Debug: opts.Debug})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = closeLog() }()

	srv := server.New(server.Config{
		Addr:         cfg.ServeAddr,
		Dir:          cfg.ServeDir,
		InitialLines: cfg.InitialLines,
		Logger:       logger,
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	return <-errCh
}

// loadConfig resolves settings: defaults, config file, environment, then
// the non-zero fields of opts.
func loadConfig(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}

	env, err := config.ReadEnv(opts.EnvFile)
	if err != nil {
		return config.Config{}, err
	}
	cfg.ApplyEnv(env)

	if v := strings.TrimSpace(opts.Character); v != "" {
		cfg.Character = v
	}
	if v := strings.TrimSpace(opts.Endpoint); v != "" {
		cfg.Endpoint = v
	}
	if opts.PollEvery > 0 {
		cfg.PollInterval = opts.PollEvery
	}
	if v := strings.TrimSpace(opts.Level); v != "" {
		level, err := logtail.ParseLevel(v)
		if err != nil {
			return config.Config{}, fmt.Errorf("level flag: %w", err)
		}
		cfg.DefaultLevel = level
	}
	return cfg, nil
}

func newSession(cfg config.Config, p prefs.Prefs, logger *zap.Logger) *session.State {
	return session.New(session.Config{
		Character:       cfg.Character,
		MaxLines:        p.MaxLines,
		Level:           cfg.DefaultLevel,
		FollowThreshold: cfg.FollowThreshold,
		Logger:          logger,
	})
}

// tailPrinter writes the visible part of every applied batch. A placeholder
// is written once per change.
type tailPrinter struct {
	out         io.Writer
	placeholder string
	err         error
}

func (p *tailPrinter) update(st *session.State, eff session.Effects) {
	if !eff.Changed || p.err != nil {
		return
	}

	if text := st.Placeholder(); text != "" {
		if text != p.placeholder {
			p.write(text)
		}
		p.placeholder = text
		return
	}
	p.placeholder = ""

	for _, e := range st.Recent() {
		if e.Visible {
			p.write(e.Text)
		}
	}
}

func (p *tailPrinter) write(line string) {
	if _, err := fmt.Fprintln(p.out, line); err != nil && !errors.Is(err, io.ErrClosedPipe) {
		p.err = err
	}
}
