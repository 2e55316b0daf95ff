package codec

import (
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"
)

// textEncoding returns the x/text encoding used to write enc, or nil when
// output is plain UTF-8.
func textEncoding(enc Encoding) encoding.Encoding {
	switch enc {
	case UTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	case UTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	case UTF32LE:
		return utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM)
	case UTF32BE:
		return utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM)
	case Latin1:
		return charmap.ISO8859_1
	case Latin9:
		return charmap.ISO8859_15
	case Win1252:
		return charmap.Windows1252
	}
	return nil
}

// Encode converts UTF-8 text to enc. Characters the target cannot represent
// are replaced with the encoding's substitute byte rather than failing.
func Encode(s string, enc Encoding) ([]byte, error) {
	te := textEncoding(enc)
	if te == nil {
		return []byte(s), nil
	}
	out, _, err := transform.Bytes(encoding.ReplaceUnsupported(te.NewEncoder()), []byte(s))
	return out, err
}

// NewWriter returns a writer that converts UTF-8 written to it into enc.
// Close must be called to flush buffered output; it does not close w.
func NewWriter(w io.Writer, enc Encoding) io.WriteCloser {
	te := textEncoding(enc)
	if te == nil {
		return nopCloser{w}
	}
	return transform.NewWriter(w, encoding.ReplaceUnsupported(te.NewEncoder()))
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
