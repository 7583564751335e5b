package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/log"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "mudra: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, closer := log.Init(cfg.Logging, os.Stderr)
	defer closer.Close()

	dbPath, err := resolveDBPath(cfg.Store.Path)
	if err != nil {
		return err
	}
	st, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer st.Close()

	a, err := app.New(app.Config{Settings: cfg, Store: st, Logger: logger})
	if err != nil {
		return err
	}
	defer a.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.LoadTemplates(ctx); err != nil {
		return err
	}
	a.Start(ctx)

	webDir := findWebDir(cfg.Server.StaticDir)
	if webDir != "" {
		logger.Info("serving static files", "dir", webDir)
	}

	srvCfg := server.Config{
		StaticDir:          webDir,
		Store:              st,
		Tracker:            a.Tracker(),
		Frames:             a.Frames(),
		OnTemplatesChanged: a.ReloadTemplates,
		Logger:             log.WithComponent(logger, "server"),
	}
	if overlay := a.Overlay(); overlay != nil {
		srvCfg.Overlay = overlay
	}
	srv := server.New(srvCfg)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe(ctx, cfg.Server.Addr)
		stop()
	}()

	if cfg.Tray.Enabled {
		runTray(ctx, a, stop, cfg.Server.Addr, logger)
	} else {
		<-ctx.Done()
	}
	stop()

	if err := <-errCh; err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// runTray blocks on the system tray until ctx is done or Quit is picked.
func runTray(ctx context.Context, a *app.App, stop func(), addr string, logger *slog.Logger) {
	t := tray.New()
	t.SetEnabled(a.IsEnabled())
	t.SetViews(a.ViewNames(), a.Tracker().Active())
	t.OnToggle(a.SetEnabled)
	t.OnView(func(name string) {
		if err := a.SetActiveView(ctx, name); err != nil {
			logger.Error("failed to switch view", "view", name, "error", err)
		}
	})
	t.OnSettings(func() {
		logger.Info("settings available", "url", "http://localhost"+addr)
	})
	t.OnQuit(stop)
	a.OnGesture(t.SetLastGesture)

	go func() {
		<-ctx.Done()
		t.Quit()
	}()
	t.Run()
}

// resolveDBPath places a relative database path under ~/.mudra.
func resolveDBPath(path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, os.MkdirAll(filepath.Dir(path), 0o755)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	dir := filepath.Join(homeDir, ".mudra")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	return filepath.Join(dir, path), nil
}

// findWebDir returns the configured static directory when it exists, else
// the first of "web", "../web" and ~/.mudra/web that does. It returns the
// empty string when none is found or static serving is disabled.
func findWebDir(configured string) string {
	if configured == "" {
		return ""
	}
	candidates := []string{configured, "web", "../web"}
	if homeDir, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(homeDir, ".mudra", "web"))
	}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	return ""
}
