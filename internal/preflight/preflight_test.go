package preflight

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"setupam/internal/faults"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckReadable_EmptyPath(t *testing.T) {
	if CheckReadable("source", "").Passed {
		t.Fatal("expected failure for empty path")
	}
}

func TestCheckTarget(t *testing.T) {
	base := t.TempDir()
	if r := CheckTarget(base, "an4"); !r.Passed {
		t.Fatalf("expected fresh target to pass: %s", r.Detail)
	}
	if err := os.Mkdir(filepath.Join(base, "an4"), 0o755); err != nil {
		t.Fatal(err)
	}
	r := CheckTarget(base, "an4")
	if r.Passed || !strings.Contains(r.Detail, "already exists") {
		t.Fatalf("expected existing corpus to fail, got %+v", r)
	}
}

func TestCheckSpeakerCount(t *testing.T) {
	if CheckSpeakerCount("/src", 1, 2).Passed {
		t.Fatal("expected failure below minimum")
	}
	if !CheckSpeakerCount("/src", 2, 2).Passed {
		t.Fatal("expected pass at minimum")
	}
}

func TestCheckFreeSpace(t *testing.T) {
	orig := statfs
	t.Cleanup(func() { statfs = orig })
	statfs = func(string) (uint64, error) { return 1 << 20, nil }

	if r := CheckFreeSpace("/target", 1<<10); !r.Passed {
		t.Fatalf("expected pass: %s", r.Detail)
	}
	r := CheckFreeSpace("/target", 1<<30)
	if r.Passed || !strings.Contains(r.Detail, "1.0 GiB needed") {
		t.Fatalf("expected failure naming the need, got %+v", r)
	}

	statfs = func(string) (uint64, error) { return 0, errors.New("boom") }
	if CheckFreeSpace("/target", 1).Passed {
		t.Fatal("expected failure on statfs error")
	}
}

func TestRunAllAndErr(t *testing.T) {
	base := t.TempDir()
	source := filepath.Join(base, "source")
	target := filepath.Join(base, "target")
	for _, dir := range []string{source, target, filepath.Join(target, "an4")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}

	results := RunAll(Request{Source: source, Target: target, Corpus: "an4"})
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if len(Failed(results)) != 1 {
		t.Fatalf("expected only the corpus check to fail: %+v", results)
	}
	if err := Err(results); !errors.Is(err, faults.ErrAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}

	results = RunAll(Request{Source: filepath.Join(base, "missing"), Target: target, Corpus: "fresh", StateDir: base})
	if len(results) != 4 {
		t.Fatalf("expected state dir check, got %d results", len(results))
	}
	if err := Err(results); !errors.Is(err, faults.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if Err(RunAll(Request{Source: source, Target: target, Corpus: "fresh"})) != nil {
		t.Fatal("expected all checks to pass")
	}
}
