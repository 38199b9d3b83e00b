package faults

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration marks missing or contradictory arguments. These are
	// programming or usage errors and are always fatal.
	ErrConfiguration = errors.New("configuration error")
	// ErrNotFound marks a required resource (audio directory, file) that does
	// not exist.
	ErrNotFound = errors.New("resource not found")
	// ErrAlreadyExists marks a destination that must be fresh but is not.
	ErrAlreadyExists = errors.New("already exists")
	// ErrCopy marks an I/O failure while duplicating an audio payload.
	ErrCopy = errors.New("copy failure")
	// ErrState marks an operation invoked out of lifecycle order.
	ErrState = errors.New("invalid state")
)

// Wrap builds an error tagged with marker whose message carries the component,
// operation and path context. A nil marker defaults to ErrConfiguration.
func Wrap(marker error, component, operation, path string, err error) error {
	if marker == nil {
		marker = ErrConfiguration
	}
	detail := buildDetail(component, operation, path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind returns a short classification label for err, used in logs and the
// run ledger.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, ErrCopy):
		return "copy"
	case errors.Is(err, ErrState):
		return "state"
	default:
		return "unknown"
	}
}

func buildDetail(component, operation, path string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if path = strings.TrimSpace(path); path != "" {
		parts = append(parts, path)
	}
	if len(parts) == 0 {
		return "corpus failure"
	}
	return strings.Join(parts, ": ")
}
