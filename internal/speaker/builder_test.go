package speaker_test

import (
	"errors"
	"path/filepath"
	"testing"

	"setupam/internal/faults"
	"setupam/internal/speaker"
	"setupam/internal/testsupport"
)

func TestBuildSingleFileSpeaker(t *testing.T) {
	root := t.TempDir()
	dir := testsupport.WriteSpeaker(t, root, testsupport.SpeakerFixture{
		Name:    "anonymous-20080425-ftk",
		Audio:   []string{"0002", "0001", "0003"},
		Prompts: map[string]string{"0001": "Olá, mundo", "0002": "Bom dia"},
		README:  "Gender: Female\n",
	})

	spk, err := speaker.Build(3, speaker.BuildOptions{Root: dir})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if spk.PaddedID() != "000003" || spk.Name != "anonymous-20080425-ftk" {
		t.Fatalf("unexpected identity %s %s", spk.PaddedID(), spk.Name)
	}
	if spk.Audio.Dir() != filepath.Join(dir, "wav") {
		t.Fatalf("audio dir = %q", spk.Audio.Dir())
	}
	if spk.Prompts.Source().Kind != speaker.SourceSingleFile {
		t.Fatalf("expected single-file prompts, got %v", spk.Prompts.Source())
	}
	if spk.Matched() != 2 {
		t.Fatalf("Matched() = %d", spk.Matched())
	}
	if un := spk.Unmatched(); len(un) != 1 || un[0] != "0003" {
		t.Fatalf("Unmatched() = %v", un)
	}
	if spk.Metadata[speaker.FieldGender] != "Female" {
		t.Fatalf("metadata = %v", spk.Metadata)
	}
}

func TestBuildFallsBackToPerUtteranceTranscripts(t *testing.T) {
	root := t.TempDir()
	dir := testsupport.WriteSpeaker(t, root, testsupport.SpeakerFixture{
		Name:        "spk",
		AudioDir:    ".",
		Audio:       []string{"007", "008"},
		Transcripts: map[string]string{"007": "\n", "008": "Good morning\n"},
	})

	spk, err := speaker.Build(1, speaker.BuildOptions{Root: dir})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if spk.Audio.Dir() != dir {
		t.Fatalf("audio dir = %q", spk.Audio.Dir())
	}
	if spk.Prompts.Source().Kind != speaker.SourceMultiFile {
		t.Fatalf("expected multi-file prompts, got %v", spk.Prompts.Source())
	}
	if spk.Prompts.Len() != 1 || spk.Metadata != nil {
		t.Fatalf("prompts=%d metadata=%v", spk.Prompts.Len(), spk.Metadata)
	}
}

func TestBuildUsesSpeakerNamedPromptsFile(t *testing.T) {
	root := t.TempDir()
	dir := testsupport.WriteSpeaker(t, root, testsupport.SpeakerFixture{
		Name:  "ana",
		Audio: []string{"1"},
	})
	testsupport.WriteText(t, filepath.Join(dir, "ana.txt"), "1. Primeira frase\n")

	spk, err := speaker.Build(1, speaker.BuildOptions{Root: dir})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := spk.Prompts.Source().Path; got != filepath.Join(dir, "ana.txt") {
		t.Fatalf("prompt source = %q", got)
	}
	if text, _ := spk.Prompts.Lookup("1"); text != "primeira frase" {
		t.Fatalf("Lookup(1) = %q", text)
	}
}

func TestBuildExplicitCandidatesWin(t *testing.T) {
	root := t.TempDir()
	dir := testsupport.WriteSpeaker(t, root, testsupport.SpeakerFixture{
		Name:     "spk",
		AudioDir: "audio",
		AudioExt: "flac",
		Audio:    []string{"01"},
		Prompts:  map[string]string{"01": "from original"},
	})
	testsupport.WriteText(t, filepath.Join(dir, "etc", "PROMPTS"), "01 from explicit\n")

	spk, err := speaker.Build(1, speaker.BuildOptions{
		Root:             dir,
		AudioFormat:      "flac",
		AudioSubdir:      "audio",
		PromptCandidates: []string{"etc/PROMPTS"},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if text, _ := spk.Prompts.Lookup("01"); text != "from explicit" {
		t.Fatalf("Lookup(01) = %q", text)
	}
	if spk.Audio.Entries()[0].Ext != "flac" {
		t.Fatalf("unexpected audio %+v", spk.Audio.Entries())
	}
}

func TestBuildErrors(t *testing.T) {
	if _, err := speaker.Build(1, speaker.BuildOptions{}); !errors.Is(err, faults.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if _, err := speaker.Build(1, speaker.BuildOptions{Root: filepath.Join(t.TempDir(), "missing")}); !errors.Is(err, faults.ErrNotFound) {
		t.Fatalf("expected not found for missing root, got %v", err)
	}
	empty := t.TempDir()
	if _, err := speaker.Build(1, speaker.BuildOptions{Root: empty}); !errors.Is(err, faults.ErrNotFound) {
		t.Fatalf("expected not found for speaker without audio, got %v", err)
	}
}
