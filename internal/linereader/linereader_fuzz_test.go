//go:build go1.18
// +build go1.18

package linereader

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/shapestone/shape-table/internal/codec"
)

// FuzzScan checks that every encoding yields valid UTF-8 lines without terminators.
// Run with: go test -fuzz=FuzzScan -fuzztime=30s ./internal/linereader
func FuzzScan(f *testing.F) {
	seeds := [][]byte{
		nil,
		[]byte("a,b\nc,d"),
		[]byte("\r\n\r\n"),
		{0xFF, 0xFE, 'a', 0, '\n', 0},
		{0x00, 0xD8, 0x00, 0xDC},
		{0xC3},
	}
	for _, s := range seeds {
		f.Add(s)
	}

	encodings := []codec.Encoding{codec.UTF8, codec.Latin1, codec.Win1252, codec.UTF16LE, codec.UTF16BE, codec.UTF32LE}

	f.Fuzz(func(t *testing.T, input []byte) {
		for _, enc := range encodings {
			r := New(bytes.NewReader(input), enc)
			for r.Scan() {
				line := r.Line()
				if !utf8.ValidString(line) {
					t.Fatalf("%v: invalid UTF-8 line %q", enc, line)
				}
				if enc.UnitWidth() == 1 && strings.ContainsAny(line, "\r\n\x00") {
					t.Fatalf("%v: terminator or NUL left in line %q", enc, line)
				}
			}
		}
	})
}
