package speaker

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"setupam/internal/faults"
	"setupam/internal/textenc"
	"setupam/internal/textutil"
)

// promptLine matches "<digits><optional separator><spaces><text>". Text is a
// run of words separated by single spaces, so trailing blanks are dropped and
// a line without whitespace before the text ("096Que horas?") never matches.
var promptLine = regexp.MustCompile(`^(\d+)[^\w\s]?[ ]+(\S+(?: \S+)*)`)

// SourceKind identifies where a speaker's transcripts come from.
type SourceKind int

const (
	// SourceSingleFile is one multi-line prompts file.
	SourceSingleFile SourceKind = iota + 1
	// SourceMultiFile is a directory with one transcript file per utterance.
	SourceMultiFile
)

func (k SourceKind) String() string {
	switch k {
	case SourceSingleFile:
		return "single-file"
	case SourceMultiFile:
		return "multi-file"
	default:
		return "unknown"
	}
}

// PromptSource is the resolved transcript location for one speaker.
type PromptSource struct {
	Kind SourceKind
	Path string // SourceSingleFile
	Dir  string // SourceMultiFile
	Ext  string // SourceMultiFile
}

func (s PromptSource) String() string {
	switch s.Kind {
	case SourceSingleFile:
		return s.Path
	case SourceMultiFile:
		return fmt.Sprintf("%s/*.%s", s.Dir, s.Ext)
	default:
		return "(none)"
	}
}

// SelectPromptSource probes candidates in order and returns the first existing
// file as a single-file source. When none exists the fallback directory is
// used as a multi-file source, whether or not it contains transcripts.
func SelectPromptSource(candidates []string, fallbackDir, ext string) (PromptSource, error) {
	if len(candidates) == 0 && strings.TrimSpace(fallbackDir) == "" {
		return PromptSource{}, faults.Wrap(faults.ErrConfiguration, "prompts", "select source", "",
			fmt.Errorf("need at least one candidate file or a fallback directory"))
	}
	for _, candidate := range candidates {
		if fileExists(candidate) {
			return PromptSource{Kind: SourceSingleFile, Path: candidate}, nil
		}
	}
	if strings.TrimSpace(fallbackDir) == "" {
		return PromptSource{}, faults.Wrap(faults.ErrNotFound, "prompts", "select source",
			strings.Join(candidates, ", "), fmt.Errorf("no candidate prompts file exists and no fallback directory was given"))
	}
	ext = normalizeExt(ext)
	if ext == "" {
		ext = "txt"
	}
	return PromptSource{Kind: SourceMultiFile, Dir: fallbackDir, Ext: ext}, nil
}

// PromptIndex maps utterance keys to lowercased transcript text.
type PromptIndex struct {
	source  PromptSource
	entries map[string]string
}

// LoadPrompts loads the index described by source.
func LoadPrompts(source PromptSource) (*PromptIndex, error) {
	switch source.Kind {
	case SourceSingleFile:
		return LoadSingleFile(source.Path)
	case SourceMultiFile:
		return LoadMultiFile(source.Dir, source.Ext)
	default:
		return nil, faults.Wrap(faults.ErrConfiguration, "prompts", "load", "", fmt.Errorf("unknown source kind %d", source.Kind))
	}
}

// LoadSingleFile parses a prompts file where each line is "<key> <text>".
// Lines that do not match are skipped.
func LoadSingleFile(path string) (*PromptIndex, error) {
	text, _, err := textenc.ReadFile(path)
	if err != nil {
		return nil, faults.Wrap(faults.ErrNotFound, "prompts", "read prompts file", path, err)
	}
	return &PromptIndex{
		source:  PromptSource{Kind: SourceSingleFile, Path: path},
		entries: parsePromptLines(text),
	}, nil
}

func parsePromptLines(text string) map[string]string {
	entries := make(map[string]string)
	for _, line := range strings.Split(text, "\n") {
		match := promptLine.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		entries[match[1]] = textutil.Lower(match[2])
	}
	return entries
}

// LoadMultiFile reads every "*.<ext>" file in dir. The key is the file stem
// and the value is the first line; files whose first line is blank add nothing.
func LoadMultiFile(dir, ext string) (*PromptIndex, error) {
	ext = normalizeExt(ext)
	if ext == "" {
		ext = "txt"
	}
	files, err := trackFiles(dir, ext)
	if err != nil {
		return nil, faults.Wrap(faults.ErrNotFound, "prompts", "list transcript files", dir, err)
	}
	entries := make(map[string]string, len(files))
	for _, file := range files {
		text, _, err := textenc.ReadFile(file)
		if err != nil {
			return nil, faults.Wrap(faults.ErrNotFound, "prompts", "read transcript file", file, err)
		}
		first, _, _ := strings.Cut(text, "\n")
		first = strings.TrimSpace(first)
		if first == "" {
			continue
		}
		entries[stem(file)] = textutil.Lower(first)
	}
	return &PromptIndex{
		source:  PromptSource{Kind: SourceMultiFile, Dir: dir, Ext: ext},
		entries: entries,
	}, nil
}

// Lookup returns the transcript for key.
func (p *PromptIndex) Lookup(key string) (string, bool) {
	if p == nil {
		return "", false
	}
	text, ok := p.entries[key]
	return text, ok
}

// Len returns the number of transcripts.
func (p *PromptIndex) Len() int {
	if p == nil {
		return 0
	}
	return len(p.entries)
}

// Keys returns the utterance keys in lexicographic order.
func (p *PromptIndex) Keys() []string {
	if p == nil {
		return nil
	}
	keys := make([]string, 0, len(p.entries))
	for key := range p.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Source reports where the transcripts were loaded from.
func (p *PromptIndex) Source() PromptSource {
	if p == nil {
		return PromptSource{}
	}
	return p.source
}
