package testsupport

import (
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// SpeakerFixture describes a VoxForge-style speaker directory.
type SpeakerFixture struct {
	Name string
	// AudioDir is relative to the speaker root; "" means "wav" and "." means
	// the root itself.
	AudioDir string
	// Audio lists utterance keys; each becomes "<key>.<AudioExt>".
	Audio    []string
	AudioExt string
	// Prompts are written as etc/prompts-original lines "<key> <text>".
	Prompts map[string]string
	// Transcripts are written one file per key as "<key>.txt" in the root.
	Transcripts map[string]string
	README      string
}

// WriteSpeaker materializes fixture under root and returns its directory.
func WriteSpeaker(t testing.TB, root string, fixture SpeakerFixture) string {
	t.Helper()

	dir := filepath.Join(root, fixture.Name)
	MkdirAll(t, dir)

	audioDir := fixture.AudioDir
	switch audioDir {
	case "":
		audioDir = filepath.Join(dir, "wav")
	case ".":
		audioDir = dir
	default:
		audioDir = filepath.Join(dir, audioDir)
	}
	ext := strings.TrimPrefix(fixture.AudioExt, ".")
	if ext == "" {
		ext = "wav"
	}
	for i, key := range fixture.Audio {
		WriteFile(t, filepath.Join(audioDir, key+"."+ext), int64(64+i))
	}

	if len(fixture.Prompts) > 0 {
		keys := make([]string, 0, len(fixture.Prompts))
		for key := range fixture.Prompts {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		var b strings.Builder
		for _, key := range keys {
			b.WriteString(key)
			b.WriteByte(' ')
			b.WriteString(fixture.Prompts[key])
			b.WriteByte('\n')
		}
		WriteText(t, filepath.Join(dir, "etc", "prompts-original"), b.String())
	}
	for key, text := range fixture.Transcripts {
		WriteText(t, filepath.Join(dir, key+".txt"), text)
	}
	if fixture.README != "" {
		WriteText(t, filepath.Join(dir, "etc", "README"), fixture.README)
	}
	return dir
}
