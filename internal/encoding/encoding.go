// Package encoding implements §3's ContentType and §4.3's encoding sniff and
// decode. UTF-16 decoding uses golang.org/x/text/encoding/unicode (an
// indirect dependency of the teacher, promoted to direct here); UTF-32 has
// no x/text codec, so it is decoded by hand with stdlib unicode/utf8, and
// UTF-8 needs no library at all -- both are exactly the narrow slice of
// stdlib usage the DESIGN.md ledger calls for when no pack library covers a
// concern.
package encoding

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// Kind tags the ContentType variant of §3.
type Kind int

const (
	UTF8 Kind = iota
	UTF16LE
	UTF16BE
	UTF32LE
	UTF32BE
	Binary
)

// ContentType is the tagged variant of §3. BinaryDescription is only
// meaningful when Kind == Binary.
type ContentType struct {
	Kind              Kind
	BinaryDescription string
}

// TerminatorWidth returns the width in bytes of this encoding's line
// terminator unit (used by the §4.3 line-reading state machine to choose its
// fast/slow path).
func (c ContentType) TerminatorWidth() int {
	switch c.Kind {
	case UTF16LE, UTF16BE:
		return 2
	case UTF32LE, UTF32BE:
		return 4
	default:
		return 1
	}
}

// Tag returns the header encoding tag of §4.7, or "" for plain UTF-8.
func (c ContentType) Tag() string {
	switch c.Kind {
	case Binary:
		return "<BINARY>"
	case UTF16LE:
		return "<UTF-16LE>"
	case UTF16BE:
		return "<UTF-16BE>"
	case UTF32LE:
		return "<UTF-32LE>"
	case UTF32BE:
		return "<UTF-32BE>"
	default:
		return ""
	}
}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF32LE = []byte{0xFF, 0xFE, 0x00, 0x00}
	bomUTF32BE = []byte{0x00, 0x00, 0xFE, 0xFF}
)

// Sniff inspects up to the first 8KiB of input (prefix) and derives a
// ContentType, per §4.3. BOM-based detection is tried first (it is
// unambiguous and the same on every platform); past that, detection is
// platform-specific -- sniffPlatform shells out to file(1) on Unix and falls
// back to the in-process byte-pattern detector everywhere else (encoding_unix.go/
// encoding_other.go).
func Sniff(prefix []byte) ContentType {
	switch {
	case hasPrefix(prefix, bomUTF32LE):
		return ContentType{Kind: UTF32LE}
	case hasPrefix(prefix, bomUTF32BE):
		return ContentType{Kind: UTF32BE}
	case hasPrefix(prefix, bomUTF16LE):
		return ContentType{Kind: UTF16LE}
	case hasPrefix(prefix, bomUTF16BE):
		return ContentType{Kind: UTF16BE}
	case hasPrefix(prefix, bomUTF8):
		return ContentType{Kind: UTF8}
	}

	return sniffPlatform(prefix)
}

func hasPrefix(b, prefix []byte) bool {
	return len(b) >= len(prefix) && string(b[:len(prefix)]) == string(prefix)
}

// sniffFallback applies the classic "any NUL byte in the sniffed prefix"
// binary heuristic. Used directly on non-Unix platforms, and as the Unix
// path's own fallback when file(1) cannot be run.
func sniffFallback(prefix []byte) ContentType {
	if looksBinary(prefix) {
		return ContentType{Kind: Binary, BinaryDescription: "data"}
	}
	return ContentType{Kind: UTF8}
}

// looksBinary applies the classic "any NUL byte in the sniffed prefix" rule.
func looksBinary(prefix []byte) bool {
	for _, b := range prefix {
		if b == 0 {
			return true
		}
	}
	return false
}

// StripBOM removes a leading BOM matching ct from raw, returning the
// remainder. BOMs are stripped only on the very first read (§4.3); callers
// must only invoke this for the first chunk of an input.
func StripBOM(raw []byte, ct ContentType) []byte {
	var bom []byte
	switch ct.Kind {
	case UTF8:
		bom = bomUTF8
	case UTF16LE:
		bom = bomUTF16LE
	case UTF16BE:
		bom = bomUTF16BE
	case UTF32LE:
		bom = bomUTF32LE
	case UTF32BE:
		bom = bomUTF32BE
	}
	if hasPrefix(raw, bom) {
		return raw[len(bom):]
	}
	return raw
}

// Decode produces a lossy UTF-8 string for raw under ct (replacement
// character for malformed sequences); for Binary it returns "", false so
// callers can decide what to do (§4.3).
func Decode(raw []byte, ct ContentType) (string, bool) {
	switch ct.Kind {
	case UTF8:
		return decodeUTF8Lossy(raw), true
	case UTF16LE:
		return decodeUTF16(raw, unicode.LittleEndian), true
	case UTF16BE:
		return decodeUTF16(raw, unicode.BigEndian), true
	case UTF32LE:
		return decodeUTF32(raw, false), true
	case UTF32BE:
		return decodeUTF32(raw, true), true
	default:
		return "", false
	}
}

func decodeUTF8Lossy(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	var b strings.Builder
	for len(raw) > 0 {
		r, size := utf8.DecodeRune(raw)
		b.WriteRune(r)
		raw = raw[size:]
	}
	return b.String()
}

func decodeUTF16(raw []byte, endian unicode.Endianness) string {
	dec := unicode.UTF16(endian, unicode.IgnoreBOM).NewDecoder()
	out, err := dec.Bytes(raw)
	if err != nil {
		return decodeUTF8Lossy(raw)
	}
	return string(out)
}

func decodeUTF32(raw []byte, bigEndian bool) string {
	var b strings.Builder
	for i := 0; i+4 <= len(raw); i += 4 {
		var cp uint32
		if bigEndian {
			cp = uint32(raw[i])<<24 | uint32(raw[i+1])<<16 | uint32(raw[i+2])<<8 | uint32(raw[i+3])
		} else {
			cp = uint32(raw[i+3])<<24 | uint32(raw[i+2])<<16 | uint32(raw[i+1])<<8 | uint32(raw[i])
		}
		r := rune(cp)
		if cp > utf8.MaxRune || (cp >= 0xD800 && cp <= 0xDFFF) {
			r = utf8.RuneError
		}
		b.WriteRune(r)
	}
	return b.String()
}
