// Package corpus compiles enrolled speakers into the Sphinx training layout.
//
// A Compiler owns one split of one corpus:
//
//	<base>/<name>/wav/<speakerId>/<speakerId>_<utteranceId>.<ext>
//	<base>/<name>/etc/<name>_<suffix>.fileids
//	<base>/<name>/etc/<name>_<suffix>.transcription
//
// It walks the states Created, SetUp, Compiling and Flushed in that order.
// Speaker and utterance counters are fields of the Compiler; a second split
// that shares the corpus tree is seeded with the first split's Counters so
// identifiers stay unique inside it. Speakers are compiled strictly in
// enqueue order and audio in sorted key order, which keeps line i of both
// manifests and the copied audio tree in lock-step.
package corpus
