package codec

import (
	"encoding/binary"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// win1252 maps the C1 range 0x80-0x9F of Windows-1252 to Unicode.
// Zero entries are undefined in the code page and decode to nothing.
var win1252 = [32]rune{
	0x20AC, 0, 0x201A, 0x0192, 0x201E, 0x2026, 0x2020, 0x2021,
	0x02C6, 0x2030, 0x0160, 0x2039, 0x0152, 0, 0x017D, 0,
	0, 0x2018, 0x2019, 0x201C, 0x201D, 0x2022, 0x2013, 0x2014,
	0x02DC, 0x2122, 0x0161, 0x203A, 0x0153, 0, 0x017E, 0x0178,
}

// DecodeLine converts the raw bytes of one line in encoding enc to UTF-8.
// The result is always valid UTF-8.
func DecodeLine(raw []byte, enc Encoding) string {
	switch enc {
	case Latin1:
		return Latin1ToUTF8(raw)
	case Win1252:
		return Win1252ToUTF8(raw)
	case Latin9:
		out, err := charmap.ISO8859_15.NewDecoder().Bytes(raw)
		if err != nil {
			return Latin1ToUTF8(raw)
		}
		return string(out)
	case UTF16LE, UTF16BE:
		return UTF16ToUTF8(raw, enc.BigEndian())
	case UTF32LE, UTF32BE:
		return UTF32ToUTF8(raw, enc.BigEndian())
	default:
		return FixUTF8(raw)
	}
}

// FixUTF8 returns raw as a string with every invalid sequence replaced by U+FFFD.
func FixUTF8(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	return strings.ToValidUTF8(string(raw), string(utf8.RuneError))
}

// Latin1ToUTF8 decodes ISO-8859-1. Bytes 0x80-0x9F are control codes
// without a printable meaning and are dropped.
func Latin1ToUTF8(raw []byte) string {
	out := make([]byte, 0, len(raw)+len(raw)/4)
	for _, b := range raw {
		switch {
		case b < 0x80:
			out = append(out, b)
		case b > 0x9F:
			out = append(out, 0xC0|b>>6, 0x80|b&0x3F)
		}
	}
	return string(out)
}

// Win1252ToUTF8 decodes Windows-1252. The C1 range is remapped through the
// code page table, everything else follows Latin-1.
func Win1252ToUTF8(raw []byte) string {
	out := make([]byte, 0, len(raw)+len(raw)/4)
	for _, b := range raw {
		switch {
		case b < 0x80:
			out = append(out, b)
		case b <= 0x9F:
			if r := win1252[b-0x80]; r != 0 {
				out = utf8.AppendRune(out, r)
			}
		default:
			out = append(out, 0xC0|b>>6, 0x80|b&0x3F)
		}
	}
	return string(out)
}

// DecodeUnit16 reads one 16-bit code unit from the first two bytes of b.
func DecodeUnit16(b []byte, bigEndian bool) uint16 {
	if bigEndian {
		return binary.BigEndian.Uint16(b)
	}
	return binary.LittleEndian.Uint16(b)
}

// DecodeUnit32 reads one 32-bit code unit from the first four bytes of b.
func DecodeUnit32(b []byte, bigEndian bool) uint32 {
	if bigEndian {
		return binary.BigEndian.Uint32(b)
	}
	return binary.LittleEndian.Uint32(b)
}

// IsLeadSurrogate reports whether u opens a UTF-16 surrogate pair.
func IsLeadSurrogate(u uint16) bool {
	return u >= 0xD800 && u <= 0xDBFF
}

// AppendUTF16 appends the UTF-8 form of a UTF-16 code unit, or of a surrogate
// pair when hi is a lead surrogate. Broken pairs and lone trail surrogates
// become U+FFFD.
func AppendUTF16(dst []byte, hi, lo uint16) []byte {
	if !IsLeadSurrogate(hi) {
		return utf8.AppendRune(dst, rune(hi))
	}
	return utf8.AppendRune(dst, utf16.DecodeRune(rune(hi), rune(lo)))
}

// UTF16ToUTF8 decodes a sequence of UTF-16 code units. A trailing odd byte is ignored.
func UTF16ToUTF8(raw []byte, bigEndian bool) string {
	out := make([]byte, 0, len(raw))
	for i := 0; i+1 < len(raw); i += 2 {
		hi := DecodeUnit16(raw[i:], bigEndian)
		var lo uint16
		if IsLeadSurrogate(hi) && i+3 < len(raw) {
			lo = DecodeUnit16(raw[i+2:], bigEndian)
			i += 2
		}
		out = AppendUTF16(out, hi, lo)
	}
	return string(out)
}

// UTF32ToUTF8 decodes a sequence of UTF-32 code units. Values outside the
// Unicode range become U+FFFD. Trailing partial units are ignored.
func UTF32ToUTF8(raw []byte, bigEndian bool) string {
	out := make([]byte, 0, len(raw)/2)
	for i := 0; i+3 < len(raw); i += 4 {
		u := DecodeUnit32(raw[i:], bigEndian)
		if u > utf8.MaxRune {
			out = utf8.AppendRune(out, utf8.RuneError)
			continue
		}
		out = utf8.AppendRune(out, rune(u))
	}
	return string(out)
}
