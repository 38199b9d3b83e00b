package textenc

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// Detected encoding labels reported by Decode.
const (
	UTF8        = "utf-8"
	UTF8BOM     = "utf-8-bom"
	UTF16LE     = "utf-16le"
	UTF16BE     = "utf-16be"
	Windows1252 = "windows-1252"
)

// Legacy is the manifest encoding the Sphinx trainer expects.
const Legacy = "iso-8859-1"

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Decode converts raw bytes to a string and reports the encoding it settled on.
func Decode(data []byte) (string, string, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return string(data[len(bomUTF8):]), UTF8BOM, nil
	case bytes.HasPrefix(data, bomUTF16LE):
		out, err := decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), data)
		return out, UTF16LE, err
	case bytes.HasPrefix(data, bomUTF16BE):
		out, err := decodeWith(unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM), data)
		return out, UTF16BE, err
	case utf8.Valid(data):
		return string(data), UTF8, nil
	default:
		out, err := decodeWith(charmap.Windows1252, data)
		return out, Windows1252, err
	}
}

// ReadFile reads and decodes path.
func ReadFile(path string) (string, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	text, name, err := Decode(data)
	if err != nil {
		return "", "", fmt.Errorf("decode %s as %s: %w", path, name, err)
	}
	return text, name, nil
}

func decodeWith(enc encoding.Encoding, data []byte) (string, error) {
	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Encoder is a lossy output encoder: runes outside the target repertoire are
// written as '?' instead of failing the whole manifest.
type Encoder struct {
	name      string
	supported func(rune) bool
	encode    *encoding.Encoder
}

// NewEncoder resolves an IANA encoding name. Supported targets are UTF-8 and
// single-byte code pages resolvable through the IANA index.
func NewEncoder(name string) (*Encoder, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		normalized = Legacy
	}
	if normalized == UTF8 || normalized == "utf8" {
		return &Encoder{name: UTF8}, nil
	}
	enc, err := ianaindex.IANA.Encoding(normalized)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	return &Encoder{name: normalized, supported: repertoire(enc), encode: enc.NewEncoder()}, nil
}

// repertoire reports which runes enc can represent.
func repertoire(enc encoding.Encoding) func(rune) bool {
	if cm, ok := enc.(*charmap.Charmap); ok {
		return func(r rune) bool {
			_, ok := cm.EncodeRune(r)
			return ok
		}
	}
	return func(r rune) bool {
		_, err := enc.NewEncoder().String(string(r))
		return err == nil
	}
}

// Name returns the canonical label of the encoder.
func (e *Encoder) Name() string {
	return e.name
}

// String encodes s. Unmappable runes become '?'.
func (e *Encoder) String(s string) ([]byte, error) {
	if e.encode == nil {
		return []byte(s), nil
	}
	replacer := runes.Map(func(r rune) rune {
		if !e.supported(r) {
			return '?'
		}
		return r
	})
	out, _, err := transform.Bytes(transform.Chain(replacer, encoding.ReplaceUnsupported(e.encode)), []byte(s))
	if err != nil {
		return nil, fmt.Errorf("encode as %s: %w", e.name, err)
	}
	return out, nil
}
