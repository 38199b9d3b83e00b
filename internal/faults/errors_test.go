package faults

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

func TestWrapTagsMarkerAndCause(t *testing.T) {
	err := Wrap(ErrCopy, "corpus", "copy audio", "/src/a.wav", fs.ErrPermission)
	if !errors.Is(err, ErrCopy) {
		t.Fatalf("expected ErrCopy marker, got %v", err)
	}
	if !errors.Is(err, fs.ErrPermission) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	msg := err.Error()
	for _, want := range []string{"copy failure", "corpus", "copy audio", "/src/a.wav"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
}

func TestWrapDefaults(t *testing.T) {
	err := Wrap(nil, "", "", "", nil)
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected default marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "corpus failure") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{Wrap(ErrConfiguration, "x", "y", "", nil), "configuration"},
		{Wrap(ErrNotFound, "x", "y", "", nil), "not_found"},
		{Wrap(ErrAlreadyExists, "x", "y", "", nil), "already_exists"},
		{Wrap(ErrCopy, "x", "y", "", nil), "copy"},
		{Wrap(ErrState, "x", "y", "", nil), "state"},
		{errors.New("boom"), "unknown"},
	}
	for _, tt := range tests {
		if got := Kind(tt.err); got != tt.want {
			t.Errorf("Kind(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
