// Package faults defines the error taxonomy shared by the corpus builder.
//
// Errors are plain wrapped errors tagged with one of the sentinel markers so
// callers can classify failures with errors.Is without type assertions. Every
// message names the component, the operation that was attempted, and the path
// involved, which is what the CLI prints before exiting.
package faults
