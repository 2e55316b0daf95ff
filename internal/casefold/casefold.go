// Package casefold provides Unicode case folding for case-insensitive
// comparison. It wraps golang.org/x/text/cases.
package casefold

import (
	"sync"

	"golang.org/x/text/cases"
)

// A cases.Caser carries state and must not be shared between goroutines.
var pool = sync.Pool{
	New: func() any {
		c := cases.Fold()
		return &c
	},
}

// String returns the case-folded form of s.
func String(s string) string {
	if isFolded(s) {
		return s
	}
	c := pool.Get().(*cases.Caser)
	out := c.String(s)
	pool.Put(c)
	return out
}

// Folder returns a fold function owned by the caller. It avoids the pool
// round trip in tight loops such as sorting. The function is not safe for
// concurrent use.
func Folder() func(string) string {
	c := cases.Fold()
	return func(s string) string {
		if isFolded(s) {
			return s
		}
		return c.String(s)
	}
}

// Equal reports whether a and b are equal under Unicode case folding.
func Equal(a, b string) bool {
	return String(a) == String(b)
}

// isFolded is a fast path for ASCII text without upper case letters.
func isFolded(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x80 || ('A' <= c && c <= 'Z') {
			return false
		}
	}
	return true
}
