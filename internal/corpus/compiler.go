package corpus

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"setupam/internal/faults"
	"setupam/internal/fileutil"
	"setupam/internal/logging"
	"setupam/internal/manifest"
	"setupam/internal/speaker"
	"setupam/internal/textenc"
	"setupam/internal/textutil"
)

// Layout names inside a corpus directory.
const (
	AudioDirName    = "wav"
	MetadataDirName = "etc"
	SuffixTrain     = "train"
	SuffixTest      = "test"
)

// Progress receives one tick per copied utterance. ChangeMax is called once
// per Compile with the total of that split.
type Progress interface {
	ChangeMax(int)
	Add(int) error
}

// Options configures a Compiler.
type Options struct {
	Name     string
	BasePath string
	Suffix   string
	// AudioFormat is the audio extension every speaker is scanned for.
	AudioFormat  string
	VerifyCopies bool
	// Join attaches to a corpus directory created by an earlier split.
	Join bool
	// Start seeds the speaker and utterance counters.
	Start Counters
	// ManifestEncoding defaults to ISO-8859-1.
	ManifestEncoding string
	// Speaker supplies defaults merged into every AddSpeaker call.
	Speaker  speaker.BuildOptions
	Logger   *slog.Logger
	Progress Progress
}

// Utterance is one copied audio file and its manifest entries.
type Utterance struct {
	SpeakerID   string
	UtteranceID string
	Key         string
	Source      string
	Dest        string
	Text        string
}

// Compiler builds one split of a corpus.
type Compiler struct {
	opts     Options
	logger   *slog.Logger
	state    State
	failed   error
	counters Counters

	speakers    []*speaker.Speaker
	fileIDs     *manifest.Writer
	transcripts *manifest.Writer
	utterances  []Utterance
	stats       []SpeakerStats
	skipped     int
}

// New validates opts and returns a compiler in StateCreated.
func New(opts Options) (*Compiler, error) {
	opts.Name = strings.TrimSpace(opts.Name)
	opts.Suffix = strings.TrimSpace(opts.Suffix)
	if !textutil.IsSafeName(opts.Name) {
		return nil, faults.Wrap(faults.ErrConfiguration, "corpus", "new", opts.Name, fmt.Errorf("corpus name must be a single path segment"))
	}
	if !textutil.IsSafeName(opts.Suffix) {
		return nil, faults.Wrap(faults.ErrConfiguration, "corpus", "new", opts.Suffix, fmt.Errorf("suffix must be a single path segment"))
	}
	if strings.TrimSpace(opts.BasePath) == "" {
		return nil, faults.Wrap(faults.ErrConfiguration, "corpus", "new", "", fmt.Errorf("missing base path"))
	}
	if strings.TrimSpace(opts.AudioFormat) == "" {
		opts.AudioFormat = "wav"
	}
	logger := logging.NewComponentLogger(opts.Logger, "corpus").With(
		logging.String(logging.FieldCorpus, opts.Name),
		logging.String(logging.FieldSplit, opts.Suffix),
	)
	return &Compiler{
		opts:     opts,
		logger:   logger,
		counters: opts.Start.normalized(),
	}, nil
}

// CorpusDir is <base>/<name>.
func (c *Compiler) CorpusDir() string {
	return filepath.Join(c.opts.BasePath, c.opts.Name)
}

// FileIDsPath is the file-id manifest of this split.
func (c *Compiler) FileIDsPath() string {
	return filepath.Join(c.CorpusDir(), MetadataDirName, c.manifestName("fileids"))
}

// TranscriptionPath is the transcription manifest of this split.
func (c *Compiler) TranscriptionPath() string {
	return filepath.Join(c.CorpusDir(), MetadataDirName, c.manifestName("transcription"))
}

func (c *Compiler) manifestName(ext string) string {
	return fmt.Sprintf("%s_%s.%s", c.opts.Name, c.opts.Suffix, ext)
}

// State reports the lifecycle position.
func (c *Compiler) State() State { return c.state }

// Counters returns the next speaker and utterance ids.
func (c *Compiler) Counters() Counters { return c.counters }

// Utterances returns the copied utterances in manifest order.
func (c *Compiler) Utterances() []Utterance {
	out := make([]Utterance, len(c.utterances))
	copy(out, c.utterances)
	return out
}

// SetUp creates the corpus skeleton and the two manifest writers.
func (c *Compiler) SetUp() error {
	if err := c.expect("set up", StateCreated); err != nil {
		return err
	}
	dir := c.CorpusDir()
	_, err := os.Stat(dir)
	switch {
	case err == nil && !c.opts.Join:
		return faults.Wrap(faults.ErrAlreadyExists, "corpus", "set up", dir, fmt.Errorf("corpus directory exists; choose a fresh target"))
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return faults.Wrap(faults.ErrNotFound, "corpus", "set up", dir, err)
	case err != nil && c.opts.Join:
		return faults.Wrap(faults.ErrNotFound, "corpus", "join", dir, fmt.Errorf("corpus directory must exist before joining"))
	}
	if c.opts.Join {
		for _, path := range []string{c.FileIDsPath(), c.TranscriptionPath()} {
			if _, err := os.Stat(path); err == nil {
				return faults.Wrap(faults.ErrAlreadyExists, "corpus", "join", path, fmt.Errorf("manifest for split %q exists", c.opts.Suffix))
			}
		}
	}

	for _, sub := range []string{AudioDirName, MetadataDirName} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return faults.Wrap(faults.ErrCopy, "corpus", "create directory", filepath.Join(dir, sub), err)
		}
	}

	enc, err := textenc.NewEncoder(c.opts.ManifestEncoding)
	if err != nil {
		return faults.Wrap(faults.ErrConfiguration, "corpus", "manifest encoding", c.opts.ManifestEncoding, err)
	}
	if c.transcripts, err = manifest.NewTranscriptionWriter(c.TranscriptionPath(), manifest.WithEncoder(enc)); err != nil {
		return err
	}
	if c.fileIDs, err = manifest.NewFileIDWriter(c.FileIDsPath(), manifest.WithEncoder(enc)); err != nil {
		return err
	}

	c.state = StateSetUp
	c.logger.Info("corpus set up",
		logging.String(logging.FieldPath, dir),
		logging.Bool("joined", c.opts.Join),
		logging.String("manifest_encoding", enc.Name()),
	)
	return nil
}

// AddSpeaker enrolls the speaker directory at sourceDir using the compiler's
// default build options.
func (c *Compiler) AddSpeaker(sourceDir string) (*speaker.Speaker, error) {
	opts := c.opts.Speaker
	opts.Root = sourceDir
	opts.Name = ""
	return c.AddSpeakerWith(opts)
}

// AddSpeakerWith assigns the next speaker id, resolves the speaker's audio
// and transcripts, and queues it for Compile. The id is consumed even when
// resolution fails.
func (c *Compiler) AddSpeakerWith(opts speaker.BuildOptions) (*speaker.Speaker, error) {
	if err := c.expect("add speaker", StateSetUp); err != nil {
		return nil, err
	}
	if strings.TrimSpace(opts.AudioFormat) == "" {
		opts.AudioFormat = c.opts.AudioFormat
	}
	if opts.Logger == nil {
		opts.Logger = c.logger
	}
	id := c.counters.NextSpeaker
	c.counters.NextSpeaker++

	spk, err := speaker.Build(id, opts)
	if err != nil {
		return nil, err
	}
	c.speakers = append(c.speakers, spk)
	c.logger.Debug("speaker enrolled",
		logging.String(logging.FieldSpeakerID, spk.PaddedID()),
		logging.String(logging.FieldSpeaker, spk.Name),
		logging.Int("audio_files", spk.Audio.Len()),
		logging.Int("prompts", spk.Prompts.Len()),
	)
	return spk, nil
}

// Speakers returns the enrolled speakers in enqueue order.
func (c *Compiler) Speakers() []*speaker.Speaker {
	out := make([]*speaker.Speaker, len(c.speakers))
	copy(out, c.speakers)
	return out
}

// Compile copies every matched utterance and buffers the manifest lines.
// Audio without a transcript is skipped. The first copy failure or context
// cancellation aborts the compiler; Finish then refuses to flush.
func (c *Compiler) Compile(ctx context.Context) error {
	if err := c.expect("compile", StateSetUp); err != nil {
		return err
	}
	c.state = StateCompiling

	if c.opts.Progress != nil {
		total := 0
		for _, spk := range c.speakers {
			total += spk.Matched()
		}
		c.opts.Progress.ChangeMax(total)
	}

	for _, spk := range c.speakers {
		if err := c.compileSpeaker(ctx, spk); err != nil {
			c.failed = err
			return err
		}
	}

	c.logger.Info("corpus compiled",
		logging.Int("speakers", len(c.speakers)),
		logging.Int("utterances", len(c.utterances)),
		logging.Int("skipped", c.skipped),
	)
	return nil
}

func (c *Compiler) compileSpeaker(ctx context.Context, spk *speaker.Speaker) error {
	spkID := spk.PaddedID()
	logger := c.logger.With(logging.String(logging.FieldSpeakerID, spkID))
	dir := filepath.Join(c.CorpusDir(), AudioDirName, spkID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return faults.Wrap(faults.ErrCopy, "corpus", "create speaker directory", dir, err)
	}

	stat := SpeakerStats{
		SpeakerID:    spkID,
		Name:         spk.Name,
		Root:         spk.Root,
		AudioDir:     spk.Audio.Dir(),
		PromptSource: spk.Prompts.Source().String(),
		PromptKind:   spk.Prompts.Source().Kind.String(),
		Metadata:     spk.Metadata,
	}
	for _, entry := range spk.Audio.Entries() {
		text, ok := spk.Prompts.Lookup(entry.Key)
		if !ok {
			stat.Skipped++
			logger.Debug("audio without transcript skipped", logging.String(logging.FieldPath, entry.Path))
			continue
		}
		if err := ctx.Err(); err != nil {
			return faults.Wrap(faults.ErrState, "corpus", "compile", entry.Path, err)
		}

		uttID := FormatUtteranceID(spkID, c.counters.NextUtterance)
		c.counters.NextUtterance++
		dest := filepath.Join(dir, uttID+"."+entry.Ext)
		if err := c.copyAudio(entry.Path, dest); err != nil {
			logging.ErrorWithContext(logger, "audio copy failed", "copy_failed",
				logging.String(logging.FieldUtteranceID, uttID),
				logging.String(logging.FieldPath, entry.Path),
				logging.String("dest", dest),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check free space and permissions on the target"),
			)
			return faults.Wrap(faults.ErrCopy, "corpus", "copy audio", entry.Path, err)
		}

		if err := c.transcripts.AddLine(text, uttID); err != nil {
			return err
		}
		if err := c.fileIDs.AddLine(spkID, uttID); err != nil {
			return err
		}
		c.utterances = append(c.utterances, Utterance{
			SpeakerID:   spkID,
			UtteranceID: uttID,
			Key:         entry.Key,
			Source:      entry.Path,
			Dest:        dest,
			Text:        text,
		})
		stat.Matched++
		if c.opts.Progress != nil {
			if err := c.opts.Progress.Add(1); err != nil {
				logger.Debug("progress update failed", logging.Error(err))
			}
		}
	}

	c.skipped += stat.Skipped
	c.stats = append(c.stats, stat)
	logger.Info("speaker compiled",
		logging.String(logging.FieldSpeaker, spk.Name),
		logging.String("language", spk.Metadata.LanguageCode()),
		logging.Int("matched", stat.Matched),
		logging.Int("skipped", stat.Skipped),
	)
	return nil
}

func (c *Compiler) copyAudio(src, dst string) error {
	if c.opts.VerifyCopies {
		return fileutil.CopyVerified(src, dst)
	}
	return fileutil.CopyPreserving(src, dst)
}

// Finish flushes both manifests. It must be called exactly once, after a
// successful Compile; a failed Finish leaves the compiler aborted.
func (c *Compiler) Finish() error {
	if err := c.expect("finish", StateCompiling); err != nil {
		return err
	}
	if c.fileIDs.Len() != c.transcripts.Len() {
		return faults.Wrap(faults.ErrState, "corpus", "finish", c.CorpusDir(),
			fmt.Errorf("manifest line counts differ: %d fileids, %d transcriptions", c.fileIDs.Len(), c.transcripts.Len()))
	}
	if err := c.flushManifests(); err != nil {
		c.failed = err
		return err
	}
	c.state = StateFlushed
	c.logger.Info("manifests written",
		logging.String("fileids", c.fileIDs.Path()),
		logging.String("transcription", c.transcripts.Path()),
		logging.Int("lines", c.fileIDs.Len()),
	)
	return nil
}

// flushManifests encodes and opens both destinations before writing either,
// so an unwritable path leaves neither file touched.
func (c *Compiler) flushManifests() error {
	writers := []*manifest.Writer{c.transcripts, c.fileIDs}
	rendered := make([][]byte, len(writers))
	for i, w := range writers {
		data, err := w.Render()
		if err != nil {
			return err
		}
		rendered[i] = data
	}

	files := make([]*os.File, 0, len(writers))
	var created []string
	for _, w := range writers {
		_, statErr := os.Stat(w.Path())
		file, err := w.Open()
		if err != nil {
			for _, opened := range files {
				_ = opened.Close()
			}
			for _, path := range created {
				_ = os.Remove(path)
			}
			return err
		}
		if errors.Is(statErr, fs.ErrNotExist) {
			created = append(created, w.Path())
		}
		files = append(files, file)
	}

	var errs []error
	for i, w := range writers {
		if err := w.Append(files[i], rendered[i]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
