package esp

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"io"
	"math"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// reader is a bounds-checked sequential cursor over an immutable byte
// buffer. All multi-byte reads are little-endian. Reads past the end of
// the buffer fail with io.ErrUnexpectedEOF; the cursor never grows or
// mutates the underlying data.
type reader struct {
	data []byte
	pos  int
}

func newReader(data []byte) *reader {
	return &reader{data: data}
}

func (r *reader) readN(n int) ([]byte, error) {
	if n < 0 || n > len(r.data)-r.pos {
		return nil, io.ErrUnexpectedEOF
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *reader) readU8() (uint8, error) {
	b, err := r.readN(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) readU16() (uint16, error) {
	b, err := r.readN(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *reader) readU32() (uint32, error) {
	b, err := r.readN(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *reader) readI32() (int32, error) {
	v, err := r.readU32()
	return int32(v), err
}

func (r *reader) readF32() (float32, error) {
	v, err := r.readU32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// readString reads n bytes and decodes them as text, stopping at the
// first embedded null. See decodeText for the encoding fallback chain.
func (r *reader) readString(n int) (string, error) {
	b, err := r.readN(n)
	if err != nil {
		return "", err
	}
	return decodeText(b), nil
}

// readSig reads a 4-byte record or subrecord signature. Signatures that
// are not printable ASCII come back hex-encoded so they stay usable as
// map keys.
func (r *reader) readSig() (string, error) {
	b, err := r.readN(4)
	if err != nil {
		return "", err
	}
	return sigString(b), nil
}

// peekSig returns the next 4 bytes as a signature without consuming
// them, or "" when fewer than 4 bytes remain or the bytes are not
// printable ASCII.
func (r *reader) peekSig() string {
	if len(r.data)-r.pos < 4 {
		return ""
	}
	b := r.data[r.pos : r.pos+4]
	if !printableASCII(b) {
		return ""
	}
	return string(b)
}

func (r *reader) skip(n int) {
	if n > len(r.data)-r.pos {
		n = len(r.data) - r.pos
	}
	if n > 0 {
		r.pos += n
	}
}

func (r *reader) remaining() int {
	return len(r.data) - r.pos
}

func (r *reader) hasData() bool {
	return r.pos < len(r.data)
}

func sigString(b []byte) string {
	if printableASCII(b) {
		return string(b)
	}
	return hex.EncodeToString(b)
}

func printableASCII(b []byte) bool {
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return false
		}
	}
	return true
}

// decodeText converts a raw string payload to a Go string. The payload
// is truncated at the first null byte, then decoded as UTF-8, falling
// back to Windows-1252 for legacy plugins and finally to a hex dump.
// It never fails on malformed text.
func decodeText(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	if len(b) == 0 {
		return ""
	}
	if utf8.Valid(b) {
		return string(b)
	}
	if s, err := charmap.Windows1252.NewDecoder().Bytes(b); err == nil {
		return string(s)
	}
	return hex.EncodeToString(b)
}
