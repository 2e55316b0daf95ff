package store

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/shapestone/shape-table/internal/casefold"
)

// SortMode selects how cells are compared.
type SortMode int

const (
	// SortNumeric compares cells as floating point numbers. A cell without a
	// leading number compares as 0.
	SortNumeric SortMode = iota
	// SortString compares raw bytes.
	SortString
	// SortFold compares case-folded text.
	SortFold
)

// String returns the mode name.
func (m SortMode) String() string {
	switch m {
	case SortNumeric:
		return "numeric"
	case SortString:
		return "string"
	case SortFold:
		return "fold"
	}
	return fmt.Sprintf("SortMode(%d)", int(m))
}

// ParseSortMode maps "numeric", "string" or "fold" to a SortMode.
func ParseSortMode(s string) (SortMode, error) {
	switch strings.ToLower(s) {
	case "numeric", "number", "num":
		return SortNumeric, nil
	case "string", "text", "":
		return SortString, nil
	case "fold", "nocase", "ignorecase":
		return SortFold, nil
	}
	return SortString, fmt.Errorf("unknown sort mode %q", s)
}

// DefaultYieldEvery is the number of comparisons between two Yield calls.
const DefaultYieldEvery = 50000

// SortOptions tunes Sort. The zero value is ready to use.
type SortOptions struct {
	// Yield, when set, is called every YieldEvery comparisons.
	Yield func()
	// YieldEvery defaults to DefaultYieldEvery.
	YieldEvery int
	// Fold replaces the default case folding of SortFold.
	Fold func(string) string
}

// Sort orders the rows by column c. Rows with equal keys keep their
// relative order. Tables with fewer than two rows and out of range
// columns are left alone.
func (t *Table) Sort(c int, ascending bool, mode SortMode, opts SortOptions) {
	if len(t.rows) <= 1 || c < 0 || c >= t.columns {
		return
	}
	every := opts.YieldEvery
	if every <= 0 {
		every = DefaultYieldEvery
	}

	// Keys are computed once per row instead of once per comparison.
	type keyed struct {
		r   row
		s   string
		num float64
	}
	items := make([]keyed, len(t.rows))
	var fold func(string) string
	if mode == SortFold {
		fold = opts.Fold
		if fold == nil {
			fold = casefold.Folder()
		}
	}
	for i, rw := range t.rows {
		k := keyed{r: rw}
		if c < rw.fields {
			start, end := rw.span(c)
			k.s = rw.data[start:end]
		}
		switch mode {
		case SortNumeric:
			k.num = LeadingFloat(k.s)
		case SortFold:
			k.s = fold(k.s)
		}
		items[i] = k
	}

	counter := 0
	slices.SortStableFunc(items, func(a, b keyed) int {
		if opts.Yield != nil && counter%every == 0 {
			opts.Yield()
		}
		counter++
		var n int
		if mode == SortNumeric {
			switch {
			case a.num < b.num:
				n = -1
			case a.num > b.num:
				n = 1
			}
		} else {
			n = strings.Compare(a.s, b.s)
		}
		if !ascending {
			n = -n
		}
		return n
	})
	for i := range items {
		t.rows[i] = items[i].r
	}
}

// LeadingFloat parses the longest numeric prefix of s after leading white
// space. It returns 0 when s does not start with a number.
func LeadingFloat(s string) float64 {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			i = j
		}
	}
	// Out of range values parse to ±Inf.
	f, _ := strconv.ParseFloat(s[:i], 64)
	return f
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }
