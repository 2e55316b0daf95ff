package casefold

import "testing"

func TestString(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"abc", "abc"},
		{"ABC", "abc"},
		{"Straße", "strasse"},
		{"ÄÖÜ", "äöü"},
		{"ΣΑΣ", "σασ"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := String(tt.in); got != tt.want {
				t.Errorf("String(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if got := Folder()(tt.in); got != tt.want {
				t.Errorf("Folder()(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	if !Equal("STRASSE", "straße") {
		t.Error("Equal(STRASSE, straße) = false")
	}
	if Equal("a", "b") {
		t.Error("Equal(a, b) = true")
	}
}
