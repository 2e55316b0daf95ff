package dialect

import (
	"errors"
	"testing"

	"github.com/shapestone/shape-table/internal/codec"
)

func TestDefault(t *testing.T) {
	d := Default()
	if d.Delimiter != ',' || d.Quote != '"' || d.Escape != '"' {
		t.Errorf("Default() = %+v", d)
	}
	if d.Encoding != codec.UTF8 || d.LineBreak != CRLF {
		t.Errorf("Default() encoding/linebreak = %v/%q", d.Encoding, d.LineBreak)
	}
	if d.HasDistinctEscape() {
		t.Error("Default() has distinct escape")
	}
	if !d.WithEscape('\\').HasDistinctEscape() {
		t.Error("backslash dialect should have distinct escape")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		d       Dialect
		wantErr bool
	}{
		{"default", Default(), false},
		{"semicolon backslash", Default().WithDelimiter(';').WithEscape('\\'), false},
		{"delimiter equals quote", Default().WithDelimiter('"'), true},
		{"newline delimiter", Default().WithDelimiter('\n'), true},
		{"zero delimiter", Default().WithDelimiter(0), true},
		{"non ascii", Default().WithDelimiter(0xA7), true},
		{"bom too long", Dialect{Delimiter: ',', Quote: '"', Escape: '"', BOMLength: 5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.d.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidDialect) {
				t.Errorf("error %v does not wrap ErrInvalidDialect", err)
			}
		})
	}
}

func TestParseDelimiter(t *testing.T) {
	tests := map[string]byte{"comma": ',', "tab": '\t', ";": ';', "|": '|', "colon": ':'}
	for in, want := range tests {
		got, err := ParseDelimiter(in)
		if err != nil || got != want {
			t.Errorf("ParseDelimiter(%q) = (%q, %v), want %q", in, got, err, want)
		}
	}
	if _, err := ParseDelimiter(",,"); err == nil {
		t.Error("ParseDelimiter(\",,\") should fail")
	}
}

func TestParseQuoteStyle(t *testing.T) {
	for _, s := range []QuoteStyle{QuoteWhenNeeded, QuoteAll, QuoteNonNumeric} {
		got, err := ParseQuoteStyle(s.String())
		if err != nil || got != s {
			t.Errorf("ParseQuoteStyle(%q) = (%v, %v)", s.String(), got, err)
		}
	}
	if _, err := ParseQuoteStyle("sometimes"); err == nil {
		t.Error("ParseQuoteStyle(sometimes) should fail")
	}
}

func TestParseEscape(t *testing.T) {
	tests := map[string]byte{"backslash": '\\', `\`: '\\', "double": '"', "'": '\''}
	for in, want := range tests {
		got, err := ParseEscape(in)
		if err != nil || got != want {
			t.Errorf("ParseEscape(%q) = (%q, %v), want %q", in, got, err, want)
		}
	}
	if _, err := ParseEscape("xx"); !errors.Is(err, ErrInvalidDialect) {
		t.Errorf("ParseEscape(xx) error = %v", err)
	}
}
