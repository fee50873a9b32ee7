package input

import (
	"bytes"
	"errors"
	"io"

	"github.com/batgo/batgo/internal/encoding"
)

// ErrUnexpectedEOF is returned by ReadLine when the stream ends mid
// terminator (§4.3).
var ErrUnexpectedEOF = errors.New("input: unexpected EOF mid line terminator")

// sniffCap bounds the prefix used for content-type detection (§4.3: "On
// first fill, inspect up to 8 KiB").
const sniffCap = 8 * 1024

// Reader is the encoding-aware line reader of §4.3: it sniffs the content
// type from the first chunk of the underlying stream, then serves
// terminator-preserving lines one at a time.
type Reader struct {
	src io.Reader

	sniffed      bool
	contentType  encoding.ContentType
	decodedFirst bool

	buf  []byte
	eof  bool
	fill [sniffCap]byte
}

// newReader wraps r for encoding-aware line reading.
func newReader(r io.Reader) *Reader {
	return &Reader{src: r}
}

// ContentType returns the sniffed content type, sniffing on first call.
func (r *Reader) ContentType() (encoding.ContentType, error) {
	if err := r.ensureSniffed(); err != nil {
		return encoding.ContentType{}, err
	}
	return r.contentType, nil
}

func (r *Reader) ensureSniffed() error {
	if r.sniffed {
		return nil
	}
	n, err := io.ReadFull(r.src, r.fill[:])
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return err
	}
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		r.eof = true
	}
	prefix := r.fill[:n]
	r.contentType = encoding.Sniff(prefix)
	r.buf = append(r.buf, prefix...)
	r.sniffed = true
	return nil
}

// terminator returns the byte sequence that ends a line for ct.
func terminator(ct encoding.ContentType) []byte {
	switch ct.Kind {
	case encoding.UTF16LE:
		return []byte{0x0A, 0x00}
	case encoding.UTF16BE:
		return []byte{0x00, 0x0A}
	case encoding.UTF32LE:
		return []byte{0x0A, 0x00, 0x00, 0x00}
	case encoding.UTF32BE:
		return []byte{0x00, 0x00, 0x00, 0x0A}
	default:
		return []byte{0x0A}
	}
}

// findTerminator locates term in buf. For width 1 it's a plain byte search
// (the LF fast path); for wider terminators it only ever compares at
// width-aligned offsets -- the "aligned chunk" fast path of §4.3 -- so a
// terminator byte pattern straddling a code unit boundary is never
// mistaken for a real line break.
func findTerminator(buf, term []byte, width int) int {
	if width == 1 {
		return bytes.Index(buf, term)
	}
	aligned := len(buf) - len(buf)%width
	for i := 0; i+width <= aligned; i += width {
		if bytes.Equal(buf[i:i+width], term) {
			return i
		}
	}
	return -1
}

// ReadLine returns the next line, including its terminator bytes, in the
// stream's original encoding. A leading BOM, if any, stays part of the raw
// bytes of the first line -- only Decode strips it, so a caller comparing
// raw bytes against the undecoded input sees exactly what was read.
// io.EOF signals no more input; ErrUnexpectedEOF signals a trailing partial
// terminator unit.
func (r *Reader) ReadLine() ([]byte, error) {
	if err := r.ensureSniffed(); err != nil {
		return nil, err
	}

	width := r.contentType.TerminatorWidth()
	term := terminator(r.contentType)

	for {
		if idx := findTerminator(r.buf, term, width); idx >= 0 {
			line := r.buf[:idx+len(term)]
			r.buf = r.buf[idx+len(term):]
			out := make([]byte, len(line))
			copy(out, line)
			return out, nil
		}
		if r.eof {
			break
		}
		if err := r.refill(); err != nil {
			return nil, err
		}
	}

	if len(r.buf) == 0 {
		return nil, io.EOF
	}
	if width > 1 && len(r.buf)%width != 0 {
		return nil, ErrUnexpectedEOF
	}
	out := r.buf
	r.buf = nil
	return out, nil
}

func (r *Reader) refill() error {
	var chunk [4096]byte
	n, err := r.src.Read(chunk[:])
	if n > 0 {
		r.buf = append(r.buf, chunk[:n]...)
	}
	if err != nil {
		if err == io.EOF {
			r.eof = true
			return nil
		}
		return err
	}
	return nil
}

// Decode decodes raw (as returned by ReadLine, terminator included) into a
// display string in this reader's content type (§4.3). A leading BOM is
// stripped here, on the first call only, since it is a stream-level marker
// rather than displayable content.
func (r *Reader) Decode(raw []byte) (string, bool) {
	if !r.decodedFirst {
		raw = encoding.StripBOM(raw, r.contentType)
		r.decodedFirst = true
	}
	return encoding.Decode(raw, r.contentType)
}
