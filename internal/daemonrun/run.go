// Package daemonrun hosts the contentops daemon process lifecycle shared by
// the contentopsd binary and `contentops serve`.
package daemonrun

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"contentops/internal/config"
	"contentops/internal/daemon"
	"contentops/internal/logging"
	"contentops/internal/notifications"
	"contentops/internal/store"
	"contentops/internal/workflow"
)

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel string
	// Bind overrides [api] bind when set.
	Bind string
}

// Run starts the contentops daemon and blocks until SIGINT/SIGTERM or ctx
// cancellation.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}
	if bind := strings.TrimSpace(opts.Bind); bind != "" {
		cfg.API.Bind = bind
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	level := cfg.Logging.Level
	if strings.TrimSpace(opts.LogLevel) != "" {
		level = opts.LogLevel
	}
	logPath := filepath.Join(cfg.Paths.LogDir, "contentops.log")
	logger, err := logging.New(logging.Options{
		Level:            level,
		Format:           cfg.Logging.Format,
		OutputPaths:      []string{"stdout", logPath},
		ErrorOutputPaths: []string{"stderr", logPath},
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logConfigSnapshot(logger, cfg)

	pidPath := filepath.Join(cfg.Paths.LogDir, "contentops.pid")
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	st, err := store.Open(cfg)
	if err != nil {
		logger.Error("open workflow store", logging.Error(err))
		return err
	}

	engine := workflow.NewEngine(cfg, st, logger, workflow.WithNotifier(notifications.NewService(cfg)))
	if _, err := engine.EnsureTemplates(signalCtx); err != nil {
		logger.Warn("template seeding failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "templates_seed_failed"),
			logging.String(logging.FieldErrorHint, "check workflow.template_catalog"),
			logging.String(logging.FieldImpact, "episodes cannot be scheduled until a template exists"),
		)
	}

	d, err := daemon.New(cfg, engine, logger)
	if err != nil {
		_ = st.Close()
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	if err := d.Start(signalCtx); err != nil {
		logger.Error("daemon start failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "daemon_start_failed"),
			logging.String(logging.FieldErrorHint, "check api.bind and that no other daemon holds "+cfg.LockPath()),
		)
		return err
	}

	<-signalCtx.Done()
	logger.Info("contentops daemon shutting down")
	return nil
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}

func logConfigSnapshot(logger *slog.Logger, cfg *config.Config) {
	if logger == nil || cfg == nil {
		return
	}
	logger.Info("configuration snapshot",
		logging.String(logging.FieldEventType, "config_snapshot"),
		logging.String("database", cfg.DatabasePath()),
		logging.String("api_bind", cfg.API.Bind),
		logging.Bool("api_token_set", cfg.API.Token != ""),
		logging.String("default_timeline", cfg.Workflow.DefaultTimeline),
		logging.Bool("template_catalog", cfg.Workflow.TemplateCatalog != ""),
		logging.Bool("llm_enabled", cfg.LLMEnabled()),
		logging.Bool("ntfy_enabled", strings.TrimSpace(cfg.Notifications.NtfyTopic) != ""),
	)
}
