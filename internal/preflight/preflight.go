package preflight

import (
	"fmt"
	"strings"

	"setupam/internal/faults"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Request names the paths a build is about to use.
type Request struct {
	Source   string
	Target   string
	Corpus   string
	StateDir string // checked only when set
}

// RunAll executes the path checks for a build.
func RunAll(req Request) []Result {
	results := []Result{
		CheckReadable("Source directory", req.Source),
		CheckDirectoryAccess("Target directory", req.Target),
		CheckTarget(req.Target, req.Corpus),
	}
	if strings.TrimSpace(req.StateDir) != "" {
		results = append(results, CheckDirectoryAccess("State directory", req.StateDir))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

// Err folds failed results into one error, or nil when all passed. A target
// that already holds the corpus is reported as ErrAlreadyExists, everything
// else as ErrNotFound.
func Err(results []Result) error {
	failed := Failed(results)
	if len(failed) == 0 {
		return nil
	}
	parts := make([]string, 0, len(failed))
	marker := faults.ErrNotFound
	for _, r := range failed {
		parts = append(parts, fmt.Sprintf("%s: %s", r.Name, r.Detail))
		if r.Name == "Corpus directory" && strings.Contains(r.Detail, "already exists") {
			marker = faults.ErrAlreadyExists
		}
	}
	return faults.Wrap(marker, "preflight", "check", "", fmt.Errorf("%s", strings.Join(parts, "; ")))
}
