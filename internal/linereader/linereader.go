// Package linereader splits an encoded byte stream into logical UTF-8 lines.
//
// Single-byte encodings (UTF-8, Latin-1, Latin-9, Windows-1252) end a line at
// LF, CR or CRLF and drop NUL bytes. UTF-16 and UTF-32 are read in code units
// of the stream's endianness; a line ends at the LF unit and one trailing CR
// unit is stripped. A lone CR does not end a wide-encoded line.
package linereader

import (
	"bufio"
	"errors"
	"io"

	"github.com/shapestone/shape-table/internal/codec"
)

const defaultBufferSize = 64 * 1024

// Reader yields decoded lines, terminators removed.
//
// Usage follows bufio.Scanner:
//
//	lr := linereader.New(f, codec.UTF8)
//	for lr.Scan() {
//	    line := lr.Line()
//	}
//	if err := lr.Err(); err != nil {
//	    // handle error
//	}
type Reader struct {
	br     *bufio.Reader
	enc    codec.Encoding
	raw    []byte
	unit   [4]byte
	line   string
	lineNo int
	term   bool
	done   bool
	err    error
}

// New returns a Reader decoding src with encoding enc.
func New(src io.Reader, enc codec.Encoding) *Reader {
	return &Reader{
		br:  bufio.NewReaderSize(src, defaultBufferSize),
		enc: enc,
		raw: make([]byte, 0, 256),
	}
}

// Reset discards all buffered state and continues reading from src.
// Callers rewinding a seekable stream seek first, then Reset.
func (r *Reader) Reset(src io.Reader) {
	r.br.Reset(src)
	r.raw = r.raw[:0]
	r.line = ""
	r.lineNo = 0
	r.term = false
	r.done = false
	r.err = nil
}

// Skip discards the next n bytes, typically a byte-order mark.
func (r *Reader) Skip(n int) error {
	if n <= 0 {
		return nil
	}
	_, err := r.br.Discard(n)
	if errors.Is(err, io.EOF) {
		r.done = true
		return nil
	}
	return err
}

// Scan advances to the next line. It returns false once the stream is
// exhausted or a read error occurred.
func (r *Reader) Scan() bool {
	if r.done {
		return false
	}
	var ok bool
	if r.enc.UnitWidth() == 1 {
		ok = r.scanBytes()
	} else {
		ok = r.scanUnits(r.enc.UnitWidth())
	}
	if ok {
		r.lineNo++
	}
	return ok
}

// Line returns the most recent line produced by Scan, as valid UTF-8.
func (r *Reader) Line() string {
	return r.line
}

// LineNumber returns the 1-based number of the most recent line.
func (r *Reader) LineNumber() int {
	return r.lineNo
}

// Err returns the first non-EOF read error.
func (r *Reader) Err() error {
	return r.err
}

// Terminated reports whether the most recent line ended at a line
// terminator rather than at the end of the stream.
func (r *Reader) Terminated() bool {
	return r.term
}

func (r *Reader) fail(err error) {
	r.done = true
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		r.err = err
	}
}

func (r *Reader) scanBytes() bool {
	r.raw = r.raw[:0]
	r.term = false
	for {
		b, err := r.br.ReadByte()
		if err != nil {
			r.fail(err)
			if len(r.raw) == 0 {
				return false
			}
			r.line = codec.DecodeLine(r.raw, r.enc)
			return true
		}
		switch b {
		case '\n':
			r.term = true
			r.line = codec.DecodeLine(r.raw, r.enc)
			return true
		case '\r':
			r.term = true
			next, err := r.br.ReadByte()
			if err != nil {
				r.fail(err)
			} else if next != '\n' {
				_ = r.br.UnreadByte()
			}
			r.line = codec.DecodeLine(r.raw, r.enc)
			return true
		case 0:
			continue
		default:
			r.raw = append(r.raw, b)
		}
	}
}

func (r *Reader) scanUnits(width int) bool {
	r.raw = r.raw[:0]
	unit := r.unit[:width]
	bigEndian := r.enc.BigEndian()
	r.term = false
	for {
		if _, err := io.ReadFull(r.br, unit); err != nil {
			r.fail(err)
			if len(r.raw) == 0 {
				return false
			}
			break
		}
		if unitValue(unit, bigEndian) == '\n' {
			r.term = true
			break
		}
		r.raw = append(r.raw, unit...)
	}
	if n := len(r.raw); n >= width && unitValue(r.raw[n-width:], bigEndian) == '\r' {
		r.raw = r.raw[:n-width]
	}
	r.line = codec.DecodeLine(r.raw, r.enc)
	return true
}

func unitValue(unit []byte, bigEndian bool) uint32 {
	if len(unit) == 2 {
		return uint32(codec.DecodeUnit16(unit, bigEndian))
	}
	return codec.DecodeUnit32(unit, bigEndian)
}
