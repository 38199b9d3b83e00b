// Package logging assembles the structured slog loggers used by setupam.
//
// It owns the console and JSON handlers, the optional rotating log file, and
// a small set of standard field keys so compile logs can be filtered by run,
// split, and speaker. A no-op logger is provided for tests and wiring code
// that has no logger to pass.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits records with the same shape.
package logging
