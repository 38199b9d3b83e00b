// Package manifest buffers and persists the two parallel line files a Sphinx
// training tree needs: the file-id list and the transcription list.
//
// Lines are formatted on AddLine and held in memory; Flush appends them to the
// destination in the configured single-byte encoding (ISO-8859-1 unless told
// otherwise). Flush never truncates, so calling it twice duplicates the
// content. The corpus compiler owns both writers and flushes each exactly once.
package manifest
