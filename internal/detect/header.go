package detect

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/shapestone/shape-table/internal/store"
)

var (
	headerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`),       // snake_case or identifier
		regexp.MustCompile(`^[a-zA-Z]+[A-Z][a-zA-Z]*$`),      // camelCase
		regexp.MustCompile(`^[A-Z][a-z]+([ ][A-Z][a-z]+)*$`), // Title Case
	}
	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
		regexp.MustCompile(`^\d{2}[./]\d{2}[./]\d{4}$`),
	}
)

// HasHeader reports whether the first row of t looks like column names.
// It needs at least two rows.
func HasHeader(t *store.Table) bool {
	if t.Rows() < 2 || t.Columns() == 0 {
		return false
	}

	headerScore, dataScore := 0, 0
	for _, field := range t.RawRow(0) {
		field = strings.TrimSpace(field)
		if isLikelyHeader(field) {
			headerScore++
		}
		if isLikelyData(field) {
			dataScore++
		}
	}
	if headerScore > dataScore {
		return true
	}

	// A text-only first row above numeric columns still reads as a header.
	for c := 0; c < t.Columns(); c++ {
		first := strings.TrimSpace(t.Get(0, c))
		if first == "" || isNumeric(first) {
			continue
		}
		if columnIsNumeric(t, c) {
			return true
		}
	}
	return false
}

func columnIsNumeric(t *store.Table, c int) bool {
	seen := false
	for r := 1; r < t.Rows() && r <= DefaultProbeLines; r++ {
		v := strings.TrimSpace(t.Get(r, c))
		if v == "" {
			continue
		}
		if !isNumeric(v) {
			return false
		}
		seen = true
	}
	return seen
}

func isLikelyHeader(s string) bool {
	if s == "" || isNumeric(s) {
		return false
	}
	for _, pattern := range headerPatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

func isLikelyData(s string) bool {
	if s == "" {
		return false
	}
	if isNumeric(s) || strings.Contains(s, "@") {
		return true
	}
	for _, pattern := range datePatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

// isNumeric accepts an optional minus sign followed by digits with at most
// one decimal point or comma.
func isNumeric(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if s[0] == '-' {
		s = s[1:]
	}
	hasPoint := false
	for _, ch := range s {
		if ch == '.' || ch == ',' {
			if hasPoint {
				return false
			}
			hasPoint = true
		} else if !unicode.IsDigit(ch) {
			return false
		}
	}
	return len(s) > 0
}
