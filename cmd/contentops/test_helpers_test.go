package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"contentops/internal/config"
	"contentops/internal/testsupport"
)

var testNow = time.Date(2024, 3, 28, 10, 0, 0, 0, time.UTC)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("CONTENTOPS_LLM_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("CONTENTOPS_USER", "")
	t.Setenv("USER", "tester")

	configPath := filepath.Join(homeDir, ".config", "contentops", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	previous := clock
	clock = func() time.Time { return testNow }
	t.Cleanup(func() { clock = previous })

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// runJSON runs a command with --json and decodes its output into out.
func runJSON(t *testing.T, env *cliTestEnv, out any, args ...string) {
	t.Helper()
	stdout, _, err := runCLI(t, append([]string{"--json"}, args...), env.configPath)
	if err != nil {
		t.Fatalf("contentops %s: %v", strings.Join(args, " "), err)
	}
	if err := json.Unmarshal([]byte(stdout), out); err != nil {
		t.Fatalf("decode %s output: %v\n%s", strings.Join(args, " "), err, stdout)
	}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\ndata_dir = %q\nlog_dir = %q\n\n[api]\nbind = %q\n",
		cfg.Paths.DataDir,
		cfg.Paths.LogDir,
		cfg.API.Bind,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
