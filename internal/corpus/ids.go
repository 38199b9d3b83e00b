package corpus

import "fmt"

// Counters holds the next identifiers a compiler will hand out. Zero values
// mean 1.
type Counters struct {
	NextSpeaker   int
	NextUtterance int
}

func (c Counters) normalized() Counters {
	if c.NextSpeaker < 1 {
		c.NextSpeaker = 1
	}
	if c.NextUtterance < 1 {
		c.NextUtterance = 1
	}
	return c
}

// FormatUtteranceID combines a rendered speaker id with an utterance ordinal
// padded to three digits. Wider ordinals print in full.
func FormatUtteranceID(speakerID string, n int) string {
	return fmt.Sprintf("%s_%03d", speakerID, n)
}
