// Package build runs a complete corpus build: it checks the paths, locks the
// target, splits the speakers into train and test sets, compiles both splits
// into one corpus tree and records the run in the ledger.
package build
