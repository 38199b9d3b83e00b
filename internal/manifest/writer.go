package manifest

import (
	"bytes"
	"fmt"
	"os"

	"setupam/internal/faults"
	"setupam/internal/textenc"
	"setupam/internal/textutil"
)

// Kind selects the line template of a Writer.
type Kind int

const (
	// FileIDs renders "<speakerId>/<utteranceId>".
	FileIDs Kind = iota + 1
	// Transcriptions renders "<s> <text> </s> (<utteranceId>)".
	Transcriptions
)

func (k Kind) String() string {
	switch k {
	case FileIDs:
		return "fileids"
	case Transcriptions:
		return "transcription"
	default:
		return "unknown"
	}
}

// Option customizes a Writer.
type Option func(*Writer)

// WithEncoder overrides the output encoding.
func WithEncoder(enc *textenc.Encoder) Option {
	return func(w *Writer) {
		if enc != nil {
			w.encoder = enc
		}
	}
}

// Writer accumulates formatted manifest lines for one destination file.
type Writer struct {
	kind    Kind
	path    string
	encoder *textenc.Encoder
	lines   []string
}

// New returns a writer of the given kind targeting path.
func New(kind Kind, path string, opts ...Option) (*Writer, error) {
	if kind != FileIDs && kind != Transcriptions {
		return nil, faults.Wrap(faults.ErrConfiguration, "manifest", "new writer", path, fmt.Errorf("unknown kind %d", kind))
	}
	if path == "" {
		return nil, faults.Wrap(faults.ErrConfiguration, "manifest", "new writer", "", fmt.Errorf("missing destination path"))
	}
	w := &Writer{kind: kind, path: path}
	for _, opt := range opts {
		opt(w)
	}
	if w.encoder == nil {
		enc, err := textenc.NewEncoder(textenc.Legacy)
		if err != nil {
			return nil, faults.Wrap(faults.ErrConfiguration, "manifest", "new writer", path, err)
		}
		w.encoder = enc
	}
	return w, nil
}

// NewFileIDWriter returns a file-id writer.
func NewFileIDWriter(path string, opts ...Option) (*Writer, error) {
	return New(FileIDs, path, opts...)
}

// NewTranscriptionWriter returns a transcription writer.
func NewTranscriptionWriter(path string, opts ...Option) (*Writer, error) {
	return New(Transcriptions, path, opts...)
}

// AddLine formats fields with the writer's template and buffers the result.
// Both templates take exactly two fields. For transcriptions the first field
// is lowercased and its punctuation runs collapsed before formatting.
func (w *Writer) AddLine(fields ...string) error {
	if len(fields) != 2 {
		return faults.Wrap(faults.ErrConfiguration, "manifest", "add line", w.path,
			fmt.Errorf("%s template takes 2 fields, got %d", w.kind, len(fields)))
	}
	var line string
	switch w.kind {
	case FileIDs:
		line = fields[0] + "/" + fields[1]
	case Transcriptions:
		line = "<s> " + textutil.NormalizeTranscript(fields[0]) + " </s> (" + fields[1] + ")"
	}
	w.lines = append(w.lines, line)
	return nil
}

// Render encodes every buffered line in the writer's encoding, one newline
// each.
func (w *Writer) Render() ([]byte, error) {
	var buf bytes.Buffer
	for _, line := range w.lines {
		encoded, err := w.encoder.String(line)
		if err != nil {
			return nil, faults.Wrap(faults.ErrConfiguration, "manifest", "encode line", w.path, err)
		}
		buf.Write(encoded)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// Open opens the destination file for appending, creating it if needed.
func (w *Writer) Open() (*os.File, error) {
	file, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, faults.Wrap(faults.ErrNotFound, "manifest", "open for append", w.path, err)
	}
	return file, nil
}

// Append writes rendered to file and closes it.
func (w *Writer) Append(file *os.File, rendered []byte) error {
	if _, err := file.Write(rendered); err != nil {
		_ = file.Close()
		return faults.Wrap(faults.ErrCopy, "manifest", "write", w.path, err)
	}
	if err := file.Close(); err != nil {
		return faults.Wrap(faults.ErrCopy, "manifest", "close", w.path, err)
	}
	return nil
}

// Flush appends every buffered line to the destination file.
func (w *Writer) Flush() error {
	rendered, err := w.Render()
	if err != nil {
		return err
	}
	file, err := w.Open()
	if err != nil {
		return err
	}
	return w.Append(file, rendered)
}

// Lines returns a copy of the buffered lines.
func (w *Writer) Lines() []string {
	out := make([]string, len(w.lines))
	copy(out, w.lines)
	return out
}

// Len returns the number of buffered lines.
func (w *Writer) Len() int { return len(w.lines) }

// Path returns the destination file.
func (w *Writer) Path() string { return w.path }

// Kind returns the template kind.
func (w *Writer) Kind() Kind { return w.kind }

// Encoding names the output encoding.
func (w *Writer) Encoding() string { return w.encoder.Name() }
