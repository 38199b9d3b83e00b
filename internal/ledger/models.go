package ledger

import "time"

// Status is the lifecycle state of a run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Run is one build of one corpus.
type Run struct {
	ID            string
	Corpus        string
	SourceDir     string
	TargetDir     string
	TestRatio     float64
	Seed          int64
	Status        Status
	TrainSpeakers int
	TestSpeakers  int
	Utterances    int
	Skipped       int
	ErrorKind     string
	ErrorMessage  string
	StartedAt     time.Time
	FinishedAt    *time.Time
}

// Duration is the wall time of a finished run, or zero.
func (r *Run) Duration() time.Duration {
	if r == nil || r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// RunParams describes a run about to start.
type RunParams struct {
	Corpus    string
	SourceDir string
	TargetDir string
	TestRatio float64
	Seed      int64
}

// Totals are the counts recorded when a run completes.
type Totals struct {
	TrainSpeakers int
	TestSpeakers  int
	Utterances    int
	Skipped       int
}

// UtteranceRecord traces one copied audio file.
type UtteranceRecord struct {
	Split       string
	SpeakerID   string
	UtteranceID string
	Key         string
	SourcePath  string
	DestPath    string
	Transcript  string
}
