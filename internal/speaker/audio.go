package speaker

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"setupam/internal/faults"
)

// AudioEntry is one audio file of a speaker.
type AudioEntry struct {
	Key  string // basename without extension
	Ext  string // extension without the dot
	Path string // absolute source path
}

// AudioIndex is a speaker's audio files in lexicographic key order.
type AudioIndex struct {
	dir     string
	entries []AudioEntry
}

// PopulateAudio lists "*.<format>" files in dir. The listing is sorted by key
// so that output order does not depend on the filesystem.
func PopulateAudio(dir, format string) (*AudioIndex, error) {
	format = normalizeExt(format)
	if format == "" {
		return nil, faults.Wrap(faults.ErrConfiguration, "audio", "populate", dir, fmt.Errorf("audio format is empty"))
	}
	files, err := trackFiles(dir, format)
	if err != nil {
		return nil, faults.Wrap(faults.ErrNotFound, "audio", "list audio files", dir, err)
	}
	entries := make([]AudioEntry, 0, len(files))
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return nil, faults.Wrap(faults.ErrNotFound, "audio", "resolve path", file, err)
		}
		entries = append(entries, AudioEntry{
			Key:  stem(file),
			Ext:  strings.TrimPrefix(filepath.Ext(file), "."),
			Path: abs,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return &AudioIndex{dir: dir, entries: entries}, nil
}

// AudioDirCandidates returns the directories probed for a speaker root, in
// priority order: the explicit sub-path (when given), "<root>/wav", "<root>".
func AudioDirCandidates(root, explicit string) []string {
	candidates := make([]string, 0, 3)
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		if filepath.IsAbs(explicit) {
			candidates = append(candidates, explicit)
		} else {
			candidates = append(candidates, filepath.Join(root, explicit))
		}
	}
	candidates = append(candidates, filepath.Join(root, "wav"), root)
	return candidates
}

// ResolveAudioDir returns the first candidate directory containing at least
// one "*.<format>" file.
func ResolveAudioDir(candidates []string, format string) (string, error) {
	format = normalizeExt(format)
	if len(candidates) == 0 || format == "" {
		return "", faults.Wrap(faults.ErrConfiguration, "audio", "resolve directory", "",
			fmt.Errorf("need candidate directories and an audio format"))
	}
	for _, dir := range candidates {
		files, err := trackFiles(dir, format)
		if err != nil {
			return "", faults.Wrap(faults.ErrNotFound, "audio", "probe directory", dir, err)
		}
		if len(files) > 0 {
			return dir, nil
		}
	}
	return "", faults.Wrap(faults.ErrNotFound, "audio", "resolve directory", strings.Join(candidates, ", "),
		fmt.Errorf("no *.%s files in any candidate directory", format))
}

// Entries returns the audio entries in key order. The slice must not be modified.
func (a *AudioIndex) Entries() []AudioEntry {
	if a == nil {
		return nil
	}
	return a.entries
}

// Len returns the number of audio files.
func (a *AudioIndex) Len() int {
	if a == nil {
		return 0
	}
	return len(a.entries)
}

// Dir returns the directory the index was populated from.
func (a *AudioIndex) Dir() string {
	if a == nil {
		return ""
	}
	return a.dir
}
