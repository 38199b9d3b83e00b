package speaker

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"setupam/internal/faults"
	"setupam/internal/testsupport"
)

func TestParsePromptLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want map[string]string
	}{
		{
			name: "requires whitespace before text",
			in:   "094   Vou tomar?  \n095 Para onde?\n096Que horas?\n",
			want: map[string]string{"094": "vou tomar?", "095": "para onde?"},
		},
		{
			name: "separator after key",
			in:   "16.       Para onde?\n17- Aqui\n",
			want: map[string]string{"16": "para onde?", "17": "aqui"},
		},
		{
			name: "crlf and junk lines",
			in:   "# header\r\n\r\nrec-001 nope\r\n001 Bom Dia\r\n",
			want: map[string]string{"001": "bom dia"},
		},
		{
			name: "double space truncates text",
			in:   "002 one  two\n",
			want: map[string]string{"002": "one"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parsePromptLines(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("parsePromptLines() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadSingleFileDecodesLatin1(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts-original")
	testsupport.WriteBytes(t, path, []byte("001 A\xc7\xc3O\n"))

	index, err := LoadSingleFile(path)
	if err != nil {
		t.Fatalf("LoadSingleFile: %v", err)
	}
	if text, ok := index.Lookup("001"); !ok || text != "ação" {
		t.Fatalf("Lookup(001) = %q, %v", text, ok)
	}
	if index.Source().Kind != SourceSingleFile {
		t.Fatalf("unexpected source %v", index.Source())
	}
}

func TestLoadMultiFile(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteText(t, filepath.Join(dir, "007.txt"), "\nignored second line\n")
	testsupport.WriteText(t, filepath.Join(dir, "008.txt"), "Good morning\nsecond line\n")
	testsupport.WriteText(t, filepath.Join(dir, "009.txt"), "")
	testsupport.WriteText(t, filepath.Join(dir, "010.lab"), "other extension")

	index, err := LoadMultiFile(dir, ".txt")
	if err != nil {
		t.Fatalf("LoadMultiFile: %v", err)
	}
	if _, ok := index.Lookup("007"); ok {
		t.Fatal("blank first line must not produce an entry")
	}
	if _, ok := index.Lookup("009"); ok {
		t.Fatal("empty file must not produce an entry")
	}
	if text, ok := index.Lookup("008"); !ok || text != "good morning" {
		t.Fatalf("Lookup(008) = %q, %v", text, ok)
	}
	if !reflect.DeepEqual(index.Keys(), []string{"008"}) {
		t.Fatalf("Keys() = %v", index.Keys())
	}
}

func TestSelectPromptSource(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "etc", "prompts-original")
	testsupport.WriteText(t, existing, "001 hi\n")
	missing := filepath.Join(dir, "PROMPTS")

	src, err := SelectPromptSource([]string{missing, existing}, dir, "txt")
	if err != nil {
		t.Fatalf("SelectPromptSource: %v", err)
	}
	if src.Kind != SourceSingleFile || src.Path != existing {
		t.Fatalf("expected single-file %s, got %v", existing, src)
	}

	src, err = SelectPromptSource([]string{missing}, dir, "")
	if err != nil {
		t.Fatalf("SelectPromptSource fallback: %v", err)
	}
	if src.Kind != SourceMultiFile || src.Dir != dir || src.Ext != "txt" {
		t.Fatalf("expected multi-file fallback, got %+v", src)
	}

	if _, err := SelectPromptSource(nil, "", "txt"); !errors.Is(err, faults.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if _, err := SelectPromptSource([]string{missing}, "", "txt"); !errors.Is(err, faults.ErrNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestLoadPromptsRejectsUnknownKind(t *testing.T) {
	if _, err := LoadPrompts(PromptSource{}); !errors.Is(err, faults.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
