// Package ledger persists the history of corpus builds in SQLite.
//
// Every build opens a run row, records one row per copied utterance (source
// path, destination path, transcript) and closes the run as completed or
// failed. The ledger answers "which source file became 000004_117.wav" long
// after the build finished, and backs the CLI history commands.
//
// The database lives at <state_dir>/ledger.db, runs in WAL mode, and retries
// briefly when another process holds the write lock.
package ledger
