package codec

import (
	"io"
	"unicode/utf8"
)

// UTF8SniffLimit is the stream size from which SniffUTF8 stops validating.
// Larger inputs would need a full scan just to guess the encoding.
const UTF8SniffLimit = 200 * 1024 * 1024

// DetectBOM inspects up to the first four bytes of a stream and returns the
// encoding announced by a byte-order mark together with the mark's length.
// Without a recognizable mark it returns (None, 0).
//
// The checks run longest-ambiguous-first: FF FE 00 00 is UTF-32LE, while
// FF FE followed by anything else is UTF-16LE.
func DetectBOM(prefix []byte) (Encoding, int) {
	has := func(seq ...byte) bool {
		if len(prefix) < len(seq) {
			return false
		}
		for i, b := range seq {
			if prefix[i] != b {
				return false
			}
		}
		return true
	}

	switch {
	case has(0xEF, 0xBB, 0xBF):
		return UTF8, 3
	case has(0x00, 0x00, 0xFE, 0xFF):
		return UTF32BE, 4
	case has(0xFF, 0xFE, 0x00, 0x00):
		return UTF32LE, 4
	case has(0xFE, 0xFF):
		return UTF16BE, 2
	case has(0xFF, 0xFE):
		return UTF16LE, 2
	}
	return None, 0
}

// BOM returns the byte-order mark written in front of saved output, or nil
// for encodings that are saved without one.
func BOM(enc Encoding) []byte {
	switch enc {
	case UTF16LE:
		return []byte{0xFF, 0xFE}
	case UTF16BE:
		return []byte{0xFE, 0xFF}
	case UTF32LE:
		return []byte{0xFF, 0xFE, 0x00, 0x00}
	case UTF32BE:
		return []byte{0x00, 0x00, 0xFE, 0xFF}
	}
	return nil
}

// SniffUTF8 reports whether the remaining stream is well-formed UTF-8.
// Streams of size limit or larger are never scanned and yield false.
func SniffUTF8(r io.Reader, size, limit int64) (bool, error) {
	if size >= limit {
		return false, nil
	}
	data, err := io.ReadAll(io.LimitReader(r, limit))
	if err != nil {
		return false, err
	}
	return utf8.Valid(data), nil
}
