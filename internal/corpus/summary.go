package corpus

import "setupam/internal/speaker"

// SpeakerStats describes how one speaker contributed to a split.
type SpeakerStats struct {
	SpeakerID    string
	Name         string
	Root         string
	AudioDir     string
	PromptSource string
	PromptKind   string
	Matched      int
	Skipped      int
	Metadata     speaker.Metadata
}

// Summary is a snapshot of a compiler's progress.
type Summary struct {
	Name              string
	Suffix            string
	CorpusDir         string
	FileIDsPath       string
	TranscriptionPath string
	State             State
	Speakers          []SpeakerStats
	Utterances        int
	Skipped           int
	Next              Counters
}

// Summary reports per-speaker statistics for the speakers compiled so far.
func (c *Compiler) Summary() Summary {
	stats := make([]SpeakerStats, len(c.stats))
	copy(stats, c.stats)
	return Summary{
		Name:              c.opts.Name,
		Suffix:            c.opts.Suffix,
		CorpusDir:         c.CorpusDir(),
		FileIDsPath:       c.FileIDsPath(),
		TranscriptionPath: c.TranscriptionPath(),
		State:             c.state,
		Speakers:          stats,
		Utterances:        len(c.utterances),
		Skipped:           c.skipped,
		Next:              c.counters,
	}
}
