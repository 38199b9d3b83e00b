package speaker

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"setupam/internal/faults"
	"setupam/internal/logging"
)

const (
	defaultAudioFormat  = "wav"
	defaultPromptExt    = "txt"
	defaultMetadataFile = "etc/README"
	originalPromptsFile = "etc/prompts-original"
)

// BuildOptions controls how a speaker directory is resolved. Relative paths
// are joined to Root.
type BuildOptions struct {
	Root             string
	Name             string // defaults to the base name of Root
	AudioFormat      string
	AudioSubdir      string
	PromptCandidates []string
	PromptDir        string
	PromptExt        string
	MetadataFile     string
	MetadataPattern  *regexp.Regexp
	Logger           *slog.Logger
}

// Build resolves the audio directory, the transcript source and the optional
// metadata file of one speaker directory.
func Build(id int, opts BuildOptions) (*Speaker, error) {
	root := strings.TrimSpace(opts.Root)
	if root == "" {
		return nil, faults.Wrap(faults.ErrConfiguration, "speaker", "build", "", fmt.Errorf("speaker root is empty"))
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, faults.Wrap(faults.ErrNotFound, "speaker", "stat root", root, err)
	}
	if !info.IsDir() {
		return nil, faults.Wrap(faults.ErrNotFound, "speaker", "stat root", root, fmt.Errorf("not a directory"))
	}

	name := strings.TrimSpace(opts.Name)
	if name == "" {
		name = filepath.Base(filepath.Clean(root))
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.With(logging.String(logging.FieldSpeaker, name))

	format := normalizeExt(opts.AudioFormat)
	if format == "" {
		format = defaultAudioFormat
	}
	audioDir, err := ResolveAudioDir(AudioDirCandidates(root, opts.AudioSubdir), format)
	if err != nil {
		return nil, err
	}
	audio, err := PopulateAudio(audioDir, format)
	if err != nil {
		return nil, err
	}

	source, err := SelectPromptSource(promptCandidates(root, name, opts.PromptCandidates), joinRoot(root, opts.PromptDir), orDefault(opts.PromptExt, defaultPromptExt))
	if err != nil {
		return nil, err
	}
	prompts, err := LoadPrompts(source)
	if err != nil {
		return nil, err
	}

	metadata := loadOptionalMetadata(joinRoot(root, orDefault(opts.MetadataFile, defaultMetadataFile)), opts.MetadataPattern, logger)

	logger.Debug("speaker resolved",
		logging.String("audio_dir", audioDir),
		logging.Int("audio_files", audio.Len()),
		logging.String("prompt_source", source.String()),
		logging.String("prompt_kind", source.Kind.String()),
		logging.Int("prompts", prompts.Len()),
		logging.Int("metadata_fields", len(metadata)),
	)

	return &Speaker{
		ID:       id,
		Name:     name,
		Root:     root,
		Audio:    audio,
		Prompts:  prompts,
		Metadata: metadata,
	}, nil
}

func promptCandidates(root, name string, explicit []string) []string {
	candidates := make([]string, 0, len(explicit)+2)
	for _, candidate := range explicit {
		if strings.TrimSpace(candidate) == "" {
			continue
		}
		candidates = append(candidates, joinRoot(root, candidate))
	}
	return append(candidates,
		filepath.Join(root, filepath.FromSlash(originalPromptsFile)),
		filepath.Join(root, name+"."+defaultPromptExt),
	)
}

// loadOptionalMetadata never fails the speaker: a missing file means no
// metadata and an unreadable one is logged.
func loadOptionalMetadata(path string, pattern *regexp.Regexp, logger *slog.Logger) Metadata {
	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logging.WarnWithContext(logger, "metadata file not accessible", "metadata_skipped",
				logging.String(logging.FieldPath, path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check permissions on the speaker etc directory"),
			)
		}
		return nil
	}
	metadata, err := LoadMetadata(path, pattern)
	if err != nil {
		logging.WarnWithContext(logger, "metadata file unreadable", "metadata_skipped",
			logging.String(logging.FieldPath, path),
			logging.Error(err),
		)
		return nil
	}
	return metadata
}

func joinRoot(root, path string) string {
	path = strings.TrimSpace(path)
	switch {
	case path == "":
		return root
	case filepath.IsAbs(path):
		return path
	default:
		return filepath.Join(root, filepath.FromSlash(path))
	}
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
