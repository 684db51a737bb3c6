package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"contentops/internal/api"
	"contentops/internal/notifications"
	"contentops/internal/workflow"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon and database status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			running, err := daemonRunning(cfg.LockPath())
			if err != nil {
				return err
			}
			pid := 0
			if running {
				pid = readPID(filepath.Join(cfg.Paths.LogDir, "contentops.pid"))
			}

			return ctx.withEngine(cmd.Context(), func(engine *workflow.Engine) error {
				status := api.FromStatusSummary(engine.Status(cmd.Context()), pid, cfg.LockPath())
				status.Running = running
				if ctx.jsonOutput() {
					return writeJSON(cmd, status)
				}
				printStatus(cmd, status)
				return nil
			})
		},
	}
}

// daemonRunning probes the daemon lock; holding it briefly means nobody else does.
func daemonRunning(lockPath string) (bool, error) {
	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return false, fmt.Errorf("probe daemon lock: %w", err)
	}
	if locked {
		_ = lock.Unlock()
		return false, nil
	}
	return true, nil
}

func readPID(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0
	}
	return pid
}

func printStatus(cmd *cobra.Command, status api.Status) {
	out := cmd.OutOrStdout()
	daemon := "stopped"
	if status.Running {
		daemon = "running"
		if status.PID > 0 {
			daemon = fmt.Sprintf("running (pid %d)", status.PID)
		}
	}
	fmt.Fprintf(out, "Daemon: %s\n", daemon)
	fmt.Fprintf(out, "Database: %s (schema v%d, integrity %s)\n", status.DatabasePath, status.SchemaVersion, yesNo(status.IntegrityOK))
	if status.DatabaseError != "" {
		fmt.Fprintf(out, "Database error: %s\n", status.DatabaseError)
	}
	if len(status.MissingTables) > 0 {
		fmt.Fprintf(out, "Missing tables: %s\n", strings.Join(status.MissingTables, ", "))
	}
	fmt.Fprintf(out, "Clustering oracle: %s (LLM configured: %s)\n", status.Oracle, yesNo(status.LLMConfigured))
	fmt.Fprintf(out, "Overdue milestones: %d\n", status.OverdueMilestones)

	tables := make([]string, 0, len(status.Counts))
	for name := range status.Counts {
		tables = append(tables, name)
	}
	sort.Strings(tables)
	rows := make([][]string, 0, len(tables))
	for _, name := range tables {
		rows = append(rows, []string{name, strconv.Itoa(status.Counts[name])})
	}
	if len(rows) > 0 {
		fmt.Fprint(out, renderTable([]string{"Table", "Rows"}, rows, []columnAlignment{alignLeft, alignRight}))
	}
}

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test notification to the configured ntfy topic",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(cfg.Notifications.NtfyTopic) == "" {
				return errors.New("notifications.ntfy_topic is not configured")
			}
			notifier := notifications.NewService(cfg)
			payload := notifications.Payload{"source": "contentops test-notify"}
			if err := notifier.Publish(cmd.Context(), notifications.EventTest, payload); err != nil {
				return fmt.Errorf("send test notification: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Test notification sent to %s\n", cfg.Notifications.NtfyTopic)
			return nil
		},
	}
}
