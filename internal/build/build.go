package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"setupam/internal/config"
	"setupam/internal/corpus"
	"setupam/internal/faults"
	"setupam/internal/ledger"
	"setupam/internal/logging"
	"setupam/internal/preflight"
	"setupam/internal/speaker"
	"setupam/internal/split"
	"setupam/internal/textutil"
)

// ErrLocked reports that another process is building the same corpus.
var ErrLocked = errors.New("corpus build already in progress")

// Request describes one build.
type Request struct {
	Corpus   string
	Config   *config.Config
	Logger   *slog.Logger
	Progress corpus.Progress
}

// Result summarizes a finished build.
type Result struct {
	RunID     string
	Seed      uint64
	CorpusDir string
	Train     corpus.Summary
	Test      corpus.Summary
	Elapsed   time.Duration
}

// Utterances is the total copied across both splits.
func (r *Result) Utterances() int {
	return r.Train.Utterances + r.Test.Utterances
}

// Skipped is the total of audio files without a transcript.
func (r *Result) Skipped() int {
	return r.Train.Skipped + r.Test.Skipped
}

// LockPath is the advisory lock guarding <target>/<corpus>.
func LockPath(target, name string) string {
	return filepath.Join(target, "."+name+".lock")
}

// Run executes the build described by req.
func Run(ctx context.Context, req Request) (*Result, error) {
	cfg := req.Config
	if cfg == nil {
		return nil, faults.Wrap(faults.ErrConfiguration, "build", "run", "", fmt.Errorf("missing configuration"))
	}
	name := strings.TrimSpace(req.Corpus)
	if !textutil.IsSafeName(name) {
		return nil, faults.Wrap(faults.ErrConfiguration, "build", "run", name, fmt.Errorf("corpus name must be a single path segment"))
	}
	logger := logging.NewComponentLogger(req.Logger, "build")
	start := time.Now()

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, faults.Wrap(faults.ErrConfiguration, "build", "ensure directories", cfg.Paths.StateDir, err)
	}

	results := preflight.RunAll(preflight.Request{
		Source:   cfg.Paths.SourceDir,
		Target:   cfg.Paths.TargetDir,
		Corpus:   name,
		StateDir: cfg.Paths.StateDir,
	})
	for _, r := range results {
		logger.Debug("preflight", logging.String("check", r.Name), logging.Bool("passed", r.Passed), logging.String("detail", r.Detail))
	}
	if err := preflight.Err(results); err != nil {
		return nil, err
	}

	lockPath := LockPath(cfg.Paths.TargetDir, name)
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, faults.Wrap(faults.ErrConfiguration, "build", "acquire lock", lockPath, err)
	}
	if !ok {
		return nil, faults.Wrap(faults.ErrState, "build", "acquire lock", lockPath, ErrLocked)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release corpus lock", logging.String(logging.FieldPath, lockPath), logging.Error(err))
			return
		}
		_ = os.Remove(lockPath)
	}()

	var store *ledger.Store
	if cfg.Ledger.Enabled {
		store, err = ledger.Open(cfg.LedgerPath())
		if err != nil {
			return nil, err
		}
		defer store.Close()
	}

	rng, seed := split.NewRand(cfg.Corpus.Seed)
	runID := uuid.NewString()
	if store != nil {
		run, err := store.BeginRun(ctx, ledger.RunParams{
			Corpus:    name,
			SourceDir: cfg.Paths.SourceDir,
			TargetDir: cfg.Paths.TargetDir,
			TestRatio: cfg.Corpus.TestRatio,
			Seed:      int64(seed),
		})
		if err != nil {
			return nil, err
		}
		runID = run.ID
	}
	logger = logging.WithRun(logger, runID, name)
	logger.Info("build started",
		logging.String("source", cfg.Paths.SourceDir),
		logging.String("target", cfg.Paths.TargetDir),
		slog.Uint64("seed", seed),
	)

	b := &builder{
		cfg:      cfg,
		name:     name,
		logger:   logger,
		progress: req.Progress,
		result:   &Result{RunID: runID, Seed: seed, CorpusDir: filepath.Join(cfg.Paths.TargetDir, name)},
	}
	runErr := b.run(ctx, rng)
	b.result.Elapsed = time.Since(start)

	if runErr != nil {
		logging.ErrorWithContext(logger, "build failed", "build_failed",
			logging.String(logging.FieldErrorKind, faults.Kind(runErr)),
			logging.Error(runErr),
		)
		if store != nil {
			// Use a fresh context so a cancelled build is still recorded.
			if err := store.FailRun(context.Background(), runID, faults.Kind(runErr), runErr); err != nil {
				logger.Warn("failed to record failed run", logging.Error(err))
			}
		}
		return b.result, runErr
	}

	if store != nil {
		if err := b.record(ctx, store); err != nil {
			return b.result, err
		}
	}
	logger.Info("build finished",
		logging.Int("train_speakers", len(b.result.Train.Speakers)),
		logging.Int("test_speakers", len(b.result.Test.Speakers)),
		logging.Int("utterances", b.result.Utterances()),
		logging.Int("skipped", b.result.Skipped()),
		logging.String("elapsed", b.result.Elapsed.Round(time.Millisecond).String()),
	)
	return b.result, nil
}

type builder struct {
	cfg      *config.Config
	name     string
	logger   *slog.Logger
	progress corpus.Progress
	result   *Result

	train *corpus.Compiler
	test  *corpus.Compiler
}

func (b *builder) run(ctx context.Context, rng *rand.Rand) error {
	dirs, err := split.DiscoverSpeakers(b.cfg.Paths.SourceDir)
	if err != nil {
		return err
	}
	if err := preflight.Err([]preflight.Result{
		preflight.CheckSpeakerCount(b.cfg.Paths.SourceDir, len(dirs), split.MinSpeakers),
	}); err != nil {
		return err
	}
	trainDirs, testDirs, err := split.Partition(dirs, b.cfg.Corpus.TestRatio, rng)
	if err != nil {
		return err
	}
	b.logger.Info("speakers partitioned",
		logging.Int("train", len(trainDirs)),
		logging.Int("test", len(testDirs)),
	)

	b.train, err = b.compile(ctx, corpus.SuffixTrain, trainDirs, false, corpus.Counters{})
	if b.train != nil {
		b.result.Train = b.train.Summary()
	}
	if err != nil {
		return err
	}

	b.test, err = b.compile(ctx, corpus.SuffixTest, testDirs, true, b.train.Counters())
	if b.test != nil {
		b.result.Test = b.test.Summary()
	}
	return err
}

func (b *builder) compile(ctx context.Context, suffix string, dirs []string, join bool, start corpus.Counters) (*corpus.Compiler, error) {
	c, err := corpus.New(corpus.Options{
		Name:             b.name,
		BasePath:         b.cfg.Paths.TargetDir,
		Suffix:           suffix,
		AudioFormat:      b.cfg.Corpus.AudioFormat,
		VerifyCopies:     b.cfg.Corpus.VerifyCopies,
		Join:             join,
		Start:            start,
		ManifestEncoding: b.cfg.Corpus.ManifestEncoding,
		Speaker:          SpeakerOptions(b.cfg),
		Logger:           b.logger,
		Progress:         b.progress,
	})
	if err != nil {
		return nil, err
	}
	if err := c.SetUp(); err != nil {
		return c, err
	}
	for _, dir := range dirs {
		if _, err := c.AddSpeaker(dir); err != nil {
			return c, err
		}
	}

	need, err := requiredBytes(c.Speakers())
	if err != nil {
		return c, err
	}
	if err := preflight.Err([]preflight.Result{preflight.CheckFreeSpace(c.CorpusDir(), need)}); err != nil {
		return c, err
	}

	if err := c.Compile(ctx); err != nil {
		return c, err
	}
	return c, c.Finish()
}

func (b *builder) record(ctx context.Context, store *ledger.Store) error {
	records := make([]ledger.UtteranceRecord, 0, b.result.Utterances())
	records = appendRecords(records, corpus.SuffixTrain, b.train.Utterances())
	records = appendRecords(records, corpus.SuffixTest, b.test.Utterances())
	if err := store.RecordUtterances(ctx, b.result.RunID, records); err != nil {
		return err
	}
	return store.FinishRun(ctx, b.result.RunID, ledger.Totals{
		TrainSpeakers: len(b.result.Train.Speakers),
		TestSpeakers:  len(b.result.Test.Speakers),
		Utterances:    b.result.Utterances(),
		Skipped:       b.result.Skipped(),
	})
}

func appendRecords(dst []ledger.UtteranceRecord, suffix string, utterances []corpus.Utterance) []ledger.UtteranceRecord {
	for _, u := range utterances {
		dst = append(dst, ledger.UtteranceRecord{
			Split:       suffix,
			SpeakerID:   u.SpeakerID,
			UtteranceID: u.UtteranceID,
			Key:         u.Key,
			SourcePath:  u.Source,
			DestPath:    u.Dest,
			Transcript:  u.Text,
		})
	}
	return dst
}

// SpeakerOptions maps the [corpus] section onto speaker build defaults.
func SpeakerOptions(cfg *config.Config) speaker.BuildOptions {
	return speaker.BuildOptions{
		AudioFormat:      cfg.Corpus.AudioFormat,
		AudioSubdir:      cfg.Corpus.AudioSubdir,
		PromptCandidates: cfg.Corpus.PromptCandidates,
		PromptDir:        cfg.Corpus.PromptDir,
		PromptExt:        cfg.Corpus.PromptExtension,
		MetadataFile:     cfg.Corpus.MetadataFile,
	}
}

// requiredBytes sums the sizes of every audio file that has a transcript.
func requiredBytes(speakers []*speaker.Speaker) (uint64, error) {
	var total uint64
	for _, spk := range speakers {
		for _, entry := range spk.Audio.Entries() {
			if _, ok := spk.Prompts.Lookup(entry.Key); !ok {
				continue
			}
			info, err := os.Stat(entry.Path)
			if err != nil {
				return 0, faults.Wrap(faults.ErrNotFound, "build", "stat audio", entry.Path, err)
			}
			total += uint64(info.Size())
		}
	}
	return total, nil
}
