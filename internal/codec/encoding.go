// Package codec converts between the text encodings a delimited file may use and UTF-8.
//
// Decoding is best-effort: malformed input is replaced with U+FFFD or dropped,
// never reported as an error. Encoding (used when saving) goes through
// golang.org/x/text so every supported encoding round-trips with the decoders here.
package codec

import (
	"fmt"
	"strings"
)

// Encoding identifies the text encoding of a byte stream.
type Encoding int

const (
	// None means no encoding could be determined. It is decoded like UTF-8.
	None Encoding = iota
	UTF8
	UTF16LE
	UTF16BE
	UTF32LE
	UTF32BE
	Latin1
	Latin9
	Win1252
)

var encodingNames = [...]string{
	None:    "NONE",
	UTF8:    "UTF-8",
	UTF16LE: "UTF-16LE",
	UTF16BE: "UTF-16BE",
	UTF32LE: "UTF-32LE",
	UTF32BE: "UTF-32BE",
	Latin1:  "Latin-1",
	Latin9:  "Latin-9",
	Win1252: "Win1252",
}

// String returns the display name of the encoding.
func (e Encoding) String() string {
	if e < 0 || int(e) >= len(encodingNames) {
		return fmt.Sprintf("Encoding(%d)", int(e))
	}
	return encodingNames[e]
}

// UnitWidth returns the size in bytes of one code unit: 1, 2 or 4.
func (e Encoding) UnitWidth() int {
	switch e {
	case UTF16LE, UTF16BE:
		return 2
	case UTF32LE, UTF32BE:
		return 4
	default:
		return 1
	}
}

// BigEndian reports whether multi-byte code units are stored most significant byte first.
func (e Encoding) BigEndian() bool {
	return e == UTF16BE || e == UTF32BE
}

// ParseEncoding maps a user supplied name ("utf8", "UTF-16LE", "cp1252", ...) to an Encoding.
func ParseEncoding(name string) (Encoding, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.NewReplacer("-", "", "_", "", " ", "").Replace(key)
	switch key {
	case "", "none", "auto":
		return None, nil
	case "utf8":
		return UTF8, nil
	case "utf16le":
		return UTF16LE, nil
	case "utf16be":
		return UTF16BE, nil
	case "utf32le":
		return UTF32LE, nil
	case "utf32be":
		return UTF32BE, nil
	case "latin1", "iso88591":
		return Latin1, nil
	case "latin9", "iso885915":
		return Latin9, nil
	case "win1252", "windows1252", "cp1252":
		return Win1252, nil
	}
	return None, fmt.Errorf("unknown encoding %q", name)
}
