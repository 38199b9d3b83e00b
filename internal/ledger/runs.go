package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrRunNotFound is returned when no run matches an id or prefix.
var ErrRunNotFound = errors.New("run not found")

const runColumns = "id, corpus, source_dir, target_dir, test_ratio, seed, status, train_speakers, test_speakers, utterances, skipped, error_kind, error_message, started_at, finished_at"

// BeginRun inserts a running run with a fresh id.
func (s *Store) BeginRun(ctx context.Context, params RunParams) (*Run, error) {
	if strings.TrimSpace(params.Corpus) == "" {
		return nil, errors.New("corpus name is required")
	}
	run := &Run{
		ID:        uuid.NewString(),
		Corpus:    params.Corpus,
		SourceDir: params.SourceDir,
		TargetDir: params.TargetDir,
		TestRatio: params.TestRatio,
		Seed:      params.Seed,
		Status:    StatusRunning,
		StartedAt: time.Now().UTC(),
	}
	_, err := s.execWithRetry(ctx,
		`INSERT INTO runs (id, corpus, source_dir, target_dir, test_ratio, seed, status, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Corpus, run.SourceDir, run.TargetDir, run.TestRatio, run.Seed, string(run.Status), formatTime(run.StartedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// RecordUtterances stores records for runID in one transaction.
func (s *Store) RecordUtterances(ctx context.Context, runID string, records []UtteranceRecord) error {
	if len(records) == 0 {
		return nil
	}
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin utterance tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO utterances (run_id, split, speaker_id, utterance_id, utterance_key, source_path, dest_path, transcript)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare utterance insert: %w", err)
		}
		defer stmt.Close()

		for _, r := range records {
			if _, err := stmt.ExecContext(ctx, runID, r.Split, r.SpeakerID, r.UtteranceID, r.Key, r.SourcePath, r.DestPath, r.Transcript); err != nil {
				return fmt.Errorf("insert utterance %s: %w", r.UtteranceID, err)
			}
		}
		return tx.Commit()
	})
}

// FinishRun marks runID completed with totals.
func (s *Store) FinishRun(ctx context.Context, runID string, totals Totals) error {
	res, err := s.execWithRetry(ctx,
		`UPDATE runs SET status = ?, train_speakers = ?, test_speakers = ?, utterances = ?, skipped = ?, finished_at = ?
		 WHERE id = ?`,
		string(StatusCompleted), totals.TrainSpeakers, totals.TestSpeakers, totals.Utterances, totals.Skipped,
		formatTime(time.Now()), runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return requireRow(res, runID)
}

// FailRun marks runID failed. kind is a short classification of cause.
func (s *Store) FailRun(ctx context.Context, runID, kind string, cause error) error {
	message := ""
	if cause != nil {
		message = cause.Error()
	}
	res, err := s.execWithRetry(ctx,
		`UPDATE runs SET status = ?, error_kind = ?, error_message = ?, finished_at = ? WHERE id = ?`,
		string(StatusFailed), nullableString(kind), nullableString(message), formatTime(time.Now()), runID,
	)
	if err != nil {
		return fmt.Errorf("fail run: %w", err)
	}
	return requireRow(res, runID)
}

func requireRow(res interface{ RowsAffected() (int64, error) }, runID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}

// ListRuns returns the most recent runs first. limit <= 0 means all.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	ctx = ensureContext(ctx)
	query := "SELECT " + runColumns + " FROM runs ORDER BY started_at DESC, rowid DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// FindRun resolves a full id or a unique id prefix.
func (s *Store) FindRun(ctx context.Context, idOrPrefix string) (*Run, error) {
	ctx = ensureContext(ctx)
	idOrPrefix = strings.TrimSpace(idOrPrefix)
	if idOrPrefix == "" {
		return nil, fmt.Errorf("%w: empty id", ErrRunNotFound)
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+runColumns+" FROM runs WHERE id = ? OR id LIKE ? ORDER BY started_at DESC, rowid DESC LIMIT 2",
		idOrPrefix, stripLikeWildcards(idOrPrefix)+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("find run: %w", err)
	}
	defer rows.Close()

	var found []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if run.ID == idOrPrefix {
			return run, nil
		}
		found = append(found, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	switch len(found) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, idOrPrefix)
	case 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("run prefix %q is ambiguous", idOrPrefix)
	}
}

// RunUtterances returns the utterances of runID in manifest order.
func (s *Store) RunUtterances(ctx context.Context, runID string) ([]UtteranceRecord, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT split, speaker_id, utterance_id, utterance_key, source_path, dest_path, transcript
		 FROM utterances WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("list utterances: %w", err)
	}
	defer rows.Close()

	var records []UtteranceRecord
	for rows.Next() {
		var r UtteranceRecord
		if err := rows.Scan(&r.Split, &r.SpeakerID, &r.UtteranceID, &r.Key, &r.SourcePath, &r.DestPath, &r.Transcript); err != nil {
			return nil, fmt.Errorf("scan utterance: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run         Run
		status      string
		errorKind   sql.NullString
		errorMsg    sql.NullString
		startedRaw  string
		finishedRaw sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&run.Corpus,
		&run.SourceDir,
		&run.TargetDir,
		&run.TestRatio,
		&run.Seed,
		&status,
		&run.TrainSpeakers,
		&run.TestSpeakers,
		&run.Utterances,
		&run.Skipped,
		&errorKind,
		&errorMsg,
		&startedRaw,
		&finishedRaw,
	); err != nil {
		return nil, err
	}
	run.Status = Status(status)
	run.ErrorKind = errorKind.String
	run.ErrorMessage = errorMsg.String
	if started, err := parseTimeString(startedRaw); err == nil {
		run.StartedAt = started
	}
	if finishedRaw.Valid {
		if finished, err := parseTimeString(finishedRaw.String); err == nil {
			run.FinishedAt = &finished
		}
	}
	return &run, nil
}

func stripLikeWildcards(value string) string {
	return strings.NewReplacer("%", "", "_", "").Replace(value)
}
