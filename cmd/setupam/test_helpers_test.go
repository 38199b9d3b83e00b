package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"setupam/internal/config"
	"setupam/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	cfg := testsupport.NewConfig(t, append([]testsupport.ConfigOption{testsupport.WithDirectories()}, opts...)...)
	configPath := filepath.Join(homeDir, ".config", "setupam", "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		baseDir:    base,
	}
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

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	testsupport.WriteBytes(t, path, data)
}

func writeTestSpeakers(t *testing.T, cfg *config.Config, names ...string) {
	t.Helper()
	for _, name := range names {
		testsupport.WriteSpeaker(t, cfg.Paths.SourceDir, testsupport.SpeakerFixture{
			Name:    name,
			Audio:   []string{"001", "002", "003"},
			Prompts: map[string]string{"001": "HELLO WORLD", "002": "GOOD MORNING"},
			README:  "User Name:" + name + "\nGender: Female\n",
		})
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
