package corpus

import (
	"fmt"

	"setupam/internal/faults"
)

// State is the lifecycle position of a Compiler.
type State int

const (
	StateCreated State = iota
	StateSetUp
	StateCompiling
	StateFlushed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateSetUp:
		return "set_up"
	case StateCompiling:
		return "compiling"
	case StateFlushed:
		return "flushed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func (c *Compiler) expect(op string, want State) error {
	if c.failed != nil {
		return faults.Wrap(faults.ErrState, "corpus", op, c.CorpusDir(), fmt.Errorf("compiler aborted earlier: %w", c.failed))
	}
	if c.state != want {
		return faults.Wrap(faults.ErrState, "corpus", op, c.CorpusDir(), fmt.Errorf("state is %s, want %s", c.state, want))
	}
	return nil
}
