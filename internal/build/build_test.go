package build_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"setupam/internal/build"
	"setupam/internal/config"
	"setupam/internal/faults"
	"setupam/internal/ledger"
	"setupam/internal/testsupport"
)

func writeSpeakers(t *testing.T, cfg *config.Config, names ...string) {
	t.Helper()
	for _, name := range names {
		testsupport.WriteSpeaker(t, cfg.Paths.SourceDir, testsupport.SpeakerFixture{
			Name:  name,
			Audio: []string{"001", "002", "003"},
			Prompts: map[string]string{
				"001": "HELLO " + strings.ToUpper(name),
				"002": "GOOD MORNING",
			},
		})
	}
}

func TestRunBuildsBothSplits(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithDirectories(), testsupport.WithTestRatio(0.25))
	writeSpeakers(t, cfg, "alice", "bob", "carol", "dave")

	result, err := build.Run(context.Background(), build.Request{Corpus: "an4", Config: cfg})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := len(result.Train.Speakers); got != 3 {
		t.Fatalf("train speakers = %d, want 3", got)
	}
	if got := len(result.Test.Speakers); got != 1 {
		t.Fatalf("test speakers = %d, want 1", got)
	}
	if result.Utterances() != 8 {
		t.Fatalf("utterances = %d, want 8", result.Utterances())
	}
	if result.Skipped() != 4 {
		t.Fatalf("skipped = %d, want 4", result.Skipped())
	}

	corpusDir := filepath.Join(cfg.Paths.TargetDir, "an4")
	trainIDs := testsupport.ReadLines(t, filepath.Join(corpusDir, "etc", "an4_train.fileids"))
	testIDs := testsupport.ReadLines(t, filepath.Join(corpusDir, "etc", "an4_test.fileids"))
	if len(trainIDs) != 6 || len(testIDs) != 2 {
		t.Fatalf("fileids lines train=%d test=%d", len(trainIDs), len(testIDs))
	}

	seen := make(map[string]bool)
	for _, line := range append(trainIDs, testIDs...) {
		if seen[line] {
			t.Fatalf("duplicate fileid %q across splits", line)
		}
		seen[line] = true
		if _, err := os.Stat(filepath.Join(corpusDir, "wav", line+".wav")); err != nil {
			t.Fatalf("missing audio for %q: %v", line, err)
		}
	}
	if testIDs[0] != "000004/000004_007" {
		t.Fatalf("test split should continue the train counters, got %q", testIDs[0])
	}

	if _, err := os.Stat(build.LockPath(cfg.Paths.TargetDir, "an4")); !os.IsNotExist(err) {
		t.Fatalf("expected lock file removed, stat err = %v", err)
	}

	store := testsupport.MustOpenLedger(t, cfg)
	run, err := store.FindRun(context.Background(), result.RunID)
	if err != nil {
		t.Fatalf("FindRun: %v", err)
	}
	if run.Status != ledger.StatusCompleted || run.Utterances != 8 || run.TestSpeakers != 1 {
		t.Fatalf("unexpected run: %+v", run)
	}
	records, err := store.RunUtterances(context.Background(), result.RunID)
	if err != nil {
		t.Fatalf("RunUtterances: %v", err)
	}
	if len(records) != 8 {
		t.Fatalf("recorded %d utterances, want 8", len(records))
	}
	if records[7].Split != "test" || records[0].Split != "train" {
		t.Fatalf("unexpected split order: first=%s last=%s", records[0].Split, records[7].Split)
	}
}

func TestRunSameSeedSamePartition(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithDirectories(), testsupport.WithTestRatio(0.5), testsupport.WithLedgerDisabled())
	writeSpeakers(t, cfg, "s1", "s2", "s3", "s4", "s5", "s6")

	names := func(r *build.Result) string {
		parts := make([]string, 0, len(r.Test.Speakers))
		for _, s := range r.Test.Speakers {
			parts = append(parts, s.Name)
		}
		return strings.Join(parts, ",")
	}

	first, err := build.Run(context.Background(), build.Request{Corpus: "first", Config: cfg})
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	second, err := build.Run(context.Background(), build.Request{Corpus: "second", Config: cfg})
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if first.Seed != 1 || second.Seed != 1 {
		t.Fatalf("seed not honoured: %d %d", first.Seed, second.Seed)
	}
	if names(first) != names(second) {
		t.Fatalf("partitions differ: %q vs %q", names(first), names(second))
	}
}

func TestRunRefusesExistingCorpus(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithDirectories(), testsupport.WithLedgerDisabled())
	writeSpeakers(t, cfg, "alice", "bob")
	testsupport.MkdirAll(t, filepath.Join(cfg.Paths.TargetDir, "an4"))

	_, err := build.Run(context.Background(), build.Request{Corpus: "an4", Config: cfg})
	if !errors.Is(err, faults.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestRunLockContention(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithDirectories(), testsupport.WithLedgerDisabled())
	writeSpeakers(t, cfg, "alice", "bob")

	held := flock.New(build.LockPath(cfg.Paths.TargetDir, "an4"))
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("TryLock: ok=%v err=%v", ok, err)
	}
	defer held.Unlock()

	_, err = build.Run(context.Background(), build.Request{Corpus: "an4", Config: cfg})
	if !errors.Is(err, build.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	if !errors.Is(err, faults.ErrState) {
		t.Fatalf("expected ErrState marker, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(cfg.Paths.TargetDir, "an4")); !os.IsNotExist(statErr) {
		t.Fatalf("corpus directory should not be created while locked")
	}
}

func TestRunTooFewSpeakersRecordsFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithDirectories())
	writeSpeakers(t, cfg, "alone")

	result, err := build.Run(context.Background(), build.Request{Corpus: "an4", Config: cfg})
	if err == nil {
		t.Fatal("expected error with a single speaker")
	}
	if result == nil || result.RunID == "" {
		t.Fatalf("expected partial result with run id, got %+v", result)
	}

	store := testsupport.MustOpenLedger(t, cfg)
	run, findErr := store.FindRun(context.Background(), result.RunID)
	if findErr != nil {
		t.Fatalf("FindRun: %v", findErr)
	}
	if run.Status != ledger.StatusFailed {
		t.Fatalf("status = %q, want failed", run.Status)
	}
	if !errors.Is(err, faults.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
	if run.ErrorKind != faults.Kind(err) {
		t.Fatalf("error kind = %q, want %q", run.ErrorKind, faults.Kind(err))
	}
}

func TestRunCancelled(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithDirectories(), testsupport.WithLedgerDisabled())
	writeSpeakers(t, cfg, "alice", "bob", "carol")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := build.Run(ctx, build.Request{Corpus: "an4", Config: cfg})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(cfg.Paths.TargetDir, "an4", "etc", "an4_train.fileids")); !os.IsNotExist(statErr) {
		t.Fatal("manifests must not be written for a cancelled build")
	}
}

func TestRunRejectsBadInput(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithDirectories(), testsupport.WithLedgerDisabled())
	tests := []struct {
		name string
		req  build.Request
	}{
		{name: "nil config", req: build.Request{Corpus: "an4"}},
		{name: "empty corpus", req: build.Request{Config: cfg}},
		{name: "nested corpus", req: build.Request{Corpus: "a/b", Config: cfg}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := build.Run(context.Background(), tt.req)
			if !errors.Is(err, faults.ErrConfiguration) {
				t.Fatalf("expected ErrConfiguration, got %v", err)
			}
		})
	}
}

type countingProgress struct {
	max   int
	ticks int
}

func (p *countingProgress) ChangeMax(n int) { p.max += n }

func (p *countingProgress) Add(n int) error {
	p.ticks += n
	return nil
}

func TestRunReportsProgress(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithDirectories(), testsupport.WithLedgerDisabled())
	writeSpeakers(t, cfg, "alice", "bob", "carol")

	progress := &countingProgress{}
	result, err := build.Run(context.Background(), build.Request{Corpus: "an4", Config: cfg, Progress: progress})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if progress.ticks != result.Utterances() {
		t.Fatalf("ticks = %d, want %d", progress.ticks, result.Utterances())
	}
}

func TestRunWithVerifiedCopies(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithDirectories(), testsupport.WithLedgerDisabled(), testsupport.WithVerifiedCopies())
	writeSpeakers(t, cfg, "alice", "bob")

	result, err := build.Run(context.Background(), build.Request{Corpus: "an4", Config: cfg})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Utterances() != 4 {
		t.Fatalf("utterances = %d, want 4", result.Utterances())
	}
	if result.RunID == "" {
		t.Fatal("expected a run id even with the ledger disabled")
	}
}
