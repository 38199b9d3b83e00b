// Package speaker turns one speaker's source directory into typed indexes the
// corpus compiler can iterate.
//
// A Speaker carries an AudioIndex (utterance key to audio file, sorted by key),
// a PromptIndex (utterance key to lowercased transcript), and optional
// Metadata scraped from a free-text README. The Build function applies the
// directory-resolution policy: which audio directory to use, and whether the
// transcripts come from a single prompts file or one file per utterance.
//
// Indexes are immutable after construction. Only Build and the Load*/Populate*
// constructors touch the filesystem.
package speaker
