// Package textutil provides the text transformations applied to transcripts
// and user supplied names.
//
// Transcript text goes through two steps: Lower at load time, and
// CollapsePunctuation when a transcription manifest line is formatted. Both
// are idempotent, so re-normalizing already normalized text is a no-op.
package textutil
