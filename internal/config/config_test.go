package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"setupam/internal/config"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{config.EnvSource, config.EnvTarget, config.EnvLogLevel, config.EnvStateDir} {
		value, had := os.LookupEnv(key)
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("unset %s: %v", key, err)
		}
		t.Cleanup(func() {
			if had {
				_ = os.Setenv(key, value)
			} else {
				_ = os.Unsetenv(key)
			}
		})
	}
	t.Chdir(t.TempDir())
}

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	isolateEnv(t)
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "setupam")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.LedgerPath() != filepath.Join(wantState, "ledger.db") {
		t.Fatalf("unexpected ledger path: %q", cfg.LedgerPath())
	}
	if !filepath.IsAbs(cfg.Paths.SourceDir) || !filepath.IsAbs(cfg.Paths.TargetDir) {
		t.Fatalf("expected absolute source/target, got %q %q", cfg.Paths.SourceDir, cfg.Paths.TargetDir)
	}
	if cfg.Corpus.AudioFormat != "wav" || cfg.Corpus.PromptExtension != "txt" {
		t.Fatalf("unexpected corpus defaults: %+v", cfg.Corpus)
	}
	if cfg.Corpus.TestRatio != 0.1 {
		t.Fatalf("unexpected test ratio: %v", cfg.Corpus.TestRatio)
	}
	if cfg.Corpus.ManifestEncoding != "iso-8859-1" {
		t.Fatalf("unexpected manifest encoding: %q", cfg.Corpus.ManifestEncoding)
	}
	if !cfg.Ledger.Enabled {
		t.Fatal("expected ledger enabled by default")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	if info, err := os.Stat(cfg.Paths.StateDir); err != nil || !info.IsDir() {
		t.Fatalf("expected state dir to exist: %v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	isolateEnv(t)
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "setupam.toml")

	type payload struct {
		Paths struct {
			SourceDir string `toml:"source_dir"`
			TargetDir string `toml:"target_dir"`
		} `toml:"paths"`
		Corpus struct {
			AudioFormat      string   `toml:"audio_format"`
			PromptCandidates []string `toml:"prompt_candidates"`
			TestRatio        float64  `toml:"test_ratio"`
			Seed             int64    `toml:"seed"`
		} `toml:"corpus"`
	}
	custom := payload{}
	custom.Paths.SourceDir = filepath.Join(tempDir, "voxforge")
	custom.Paths.TargetDir = filepath.Join(tempDir, "out")
	custom.Corpus.AudioFormat = ".FLAC"
	custom.Corpus.PromptCandidates = []string{" etc/PROMPTS ", "", "etc/PROMPTS"}
	custom.Corpus.TestRatio = 0.25
	custom.Corpus.Seed = 42
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if cfg.Paths.SourceDir != custom.Paths.SourceDir {
		t.Fatalf("unexpected source dir: %q", cfg.Paths.SourceDir)
	}
	if cfg.Corpus.AudioFormat != "flac" {
		t.Fatalf("expected normalized audio format, got %q", cfg.Corpus.AudioFormat)
	}
	if len(cfg.Corpus.PromptCandidates) != 1 || cfg.Corpus.PromptCandidates[0] != "etc/PROMPTS" {
		t.Fatalf("expected deduplicated candidates, got %v", cfg.Corpus.PromptCandidates)
	}
	if cfg.Corpus.TestRatio != 0.25 || cfg.Corpus.Seed != 42 {
		t.Fatalf("unexpected split settings: %+v", cfg.Corpus)
	}
}

func TestEnvOverridesConfigFile(t *testing.T) {
	isolateEnv(t)
	configPath := filepath.Join(t.TempDir(), "setupam.toml")
	if err := os.WriteFile(configPath, []byte("[paths]\nsource_dir = \"/from/file\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(config.EnvSource, "/from/env")
	t.Setenv(config.EnvLogLevel, "DEBUG")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.SourceDir != "/from/env" {
		t.Fatalf("expected env source override, got %q", cfg.Paths.SourceDir)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected env log level, got %q", cfg.Logging.Level)
	}
}

func TestDotEnvFileIsLoaded(t *testing.T) {
	isolateEnv(t)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(wd, "corpora")
	if err := os.WriteFile(filepath.Join(wd, ".env"), []byte(config.EnvTarget+"="+target+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, _, err := config.Load(filepath.Join(wd, "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.TargetDir != target {
		t.Fatalf("expected target from .env, got %q", cfg.Paths.TargetDir)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"ratio one", func(c *config.Config) { c.Corpus.TestRatio = 1 }, "test_ratio"},
		{"ratio negative", func(c *config.Config) { c.Corpus.TestRatio = -0.1 }, "test_ratio"},
		{"glob format", func(c *config.Config) { c.Corpus.AudioFormat = "w*" }, "audio_format"},
		{"path format", func(c *config.Config) { c.Corpus.AudioFormat = "a/b" }, "audio_format"},
		{"encoding", func(c *config.Config) { c.Corpus.ManifestEncoding = "klingon" }, "manifest_encoding"},
		{"level", func(c *config.Config) { c.Logging.Level = "loud" }, "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestUnknownKeysRejected(t *testing.T) {
	isolateEnv(t)
	configPath := filepath.Join(t.TempDir(), "setupam.toml")
	if err := os.WriteFile(configPath, []byte("[corpus]\naudio_fromat = \"wav\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected parse error for misspelled key")
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.Corpus.AudioFormat != "wav" || cfg.Logging.Format != "console" {
		t.Fatalf("unexpected sample values: %+v", cfg)
	}
	if _, err := cfg.Encode(); err != nil {
		t.Fatalf("Encode: %v", err)
	}
}
