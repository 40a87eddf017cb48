package store

import "strconv"

// ParseNumericID reports whether s denotes a store-assigned id: one or more
// ASCII digits whose integer value is greater than zero. No sign, no
// decimal point, no exponent, no surrounding whitespace. Every id-addressed
// operation shares this predicate.
func ParseNumericID(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
