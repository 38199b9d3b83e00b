package testsupport

import (
	"path/filepath"
	"testing"

	"setupam/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Source, target, log and state directories all live under one temp root.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.SourceDir = filepath.Join(base, "source")
	cfgVal.Paths.TargetDir = filepath.Join(base, "target")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Corpus.Seed = 1

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithTestRatio overrides the share of speakers routed to the test split.
func WithTestRatio(ratio float64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Corpus.TestRatio = ratio
	}
}

// WithLedgerDisabled turns off the run ledger.
func WithLedgerDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Ledger.Enabled = false
	}
}

// WithVerifiedCopies enables hash verification of audio copies.
func WithVerifiedCopies() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Corpus.VerifyCopies = true
	}
}

// WithDirectories creates source, target and state directories on disk.
func WithDirectories() ConfigOption {
	return func(b *configBuilder) {
		for _, dir := range []string{b.cfg.Paths.SourceDir, b.cfg.Paths.TargetDir, b.cfg.Paths.StateDir} {
			MkdirAll(b.t, dir)
		}
	}
}
