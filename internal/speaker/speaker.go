package speaker

import "fmt"

// Speaker is one enrolled speaker. ID is assigned by the compiler at
// enrollment and never reused.
type Speaker struct {
	ID       int
	Name     string
	Root     string
	Audio    *AudioIndex
	Prompts  *PromptIndex
	Metadata Metadata
}

// PaddedID renders ID the way it appears in manifests and directory names.
func (s *Speaker) PaddedID() string {
	return fmt.Sprintf("%06d", s.ID)
}

// Matched counts audio entries that have a transcript.
func (s *Speaker) Matched() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, entry := range s.Audio.Entries() {
		if _, ok := s.Prompts.Lookup(entry.Key); ok {
			n++
		}
	}
	return n
}

// Unmatched returns audio keys without a transcript, in key order.
func (s *Speaker) Unmatched() []string {
	if s == nil {
		return nil
	}
	var keys []string
	for _, entry := range s.Audio.Entries() {
		if _, ok := s.Prompts.Lookup(entry.Key); !ok {
			keys = append(keys, entry.Key)
		}
	}
	return keys
}
