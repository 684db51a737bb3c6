package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"contentops/internal/config"
	"contentops/internal/content"
	"contentops/internal/logging"
	"contentops/internal/services"
	"contentops/internal/store"
	"contentops/internal/workflow"
)

// clock is the engine time source; tests pin it.
var clock = time.Now

type identityFlags struct {
	user  string
	roles string
}

type commandContext struct {
	configFlag *string
	identity   *identityFlags
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string, identity *identityFlags, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		identity:   identity,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// withEngine opens the workflow database, seeds templates on first use and
// runs fn against a local engine. Engine logs go to the log file only.
func (c *commandContext) withEngine(ctx context.Context, fn func(*workflow.Engine) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logPath := filepath.Join(cfg.Paths.LogDir, "contentops.log")
	logger, err := logging.New(logging.Options{
		Level:            cfg.Logging.Level,
		Format:           cfg.Logging.Format,
		OutputPaths:      []string{logPath},
		ErrorOutputPaths: []string{logPath},
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	st, err := store.Open(cfg)
	if err != nil {
		return fmt.Errorf("open workflow store: %w", err)
	}
	defer st.Close()
	st.SetClock(clock)

	engine := workflow.NewEngine(cfg, st, logger, workflow.WithClock(clock))
	if _, err := engine.EnsureTemplates(ctx); err != nil {
		return err
	}
	return fn(engine)
}

// auth returns the acting user's authorization context.
func (c *commandContext) auth() content.AuthorizationContext {
	user := strings.TrimSpace(c.identity.user)
	if user == "" {
		user = strings.TrimSpace(os.Getenv("CONTENTOPS_USER"))
	}
	if user == "" {
		user = strings.TrimSpace(os.Getenv("USER"))
	}
	return content.NewAuthorization(user, c.identity.roles)
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func parseID(value, label string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		return 0, services.Validation("cli", "parse args", "invalid %s %q", label, value)
	}
	return id, nil
}

// readBody loads text from a file, or from stdin when path is "-". The
// source is never modified, so a failed save loses nothing.
func readBody(cmd *cobra.Command, path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", services.Validation("cli", "read body", "--file is required")
	}
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", expanded, err)
	}
	return string(data), nil
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func valueOrDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
