// Package textenc decodes corpus text files of unknown encoding and encodes
// manifest output for the legacy trainer.
//
// Speaker prompt files and READMEs arrive as UTF-8, UTF-8/16 with a byte
// order mark, or a Western single-byte code page. Detection is best effort:
// a BOM wins, valid UTF-8 is taken as UTF-8, and anything else is read as
// Windows-1252. Output encodings are resolved by IANA name.
package textenc
