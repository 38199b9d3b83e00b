package testsupport

import (
	"context"
	"testing"

	"setupam/internal/config"
	"setupam/internal/ledger"
)

// MustOpenLedger opens a ledger.Store under the config's state dir and
// registers cleanup.
func MustOpenLedger(t testing.TB, cfg *config.Config) *ledger.Store {
	t.Helper()

	store, err := ledger.Open(cfg.LedgerPath())
	if err != nil {
		t.Fatalf("ledger.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// BeginRun starts a run for corpus using the config's directories.
func BeginRun(t testing.TB, store *ledger.Store, cfg *config.Config, corpus string) *ledger.Run {
	t.Helper()

	run, err := store.BeginRun(context.Background(), ledger.RunParams{
		Corpus:    corpus,
		SourceDir: cfg.Paths.SourceDir,
		TargetDir: cfg.Paths.TargetDir,
		TestRatio: cfg.Corpus.TestRatio,
		Seed:      cfg.Corpus.Seed,
	})
	if err != nil {
		t.Fatalf("store.BeginRun: %v", err)
	}
	return run
}
