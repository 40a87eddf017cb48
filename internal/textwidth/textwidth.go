// Package textwidth measures the terminal display width of strings so that
// tables mixing ASCII and East-Asian or emoji content stay aligned.
//
// Classification is an approximate East Asian Width + emoji heuristic over a
// fixed range table, not full UAX #11 conformance: control characters and
// combining diacritical marks count 0, characters in the wide ranges count 2,
// everything else counts 1.
package textwidth

import "strings"

type interval struct {
	first rune
	last  rune
}

// Ranges that occupy two terminal columns. Sorted by first code point for
// binary search.
var wide = []interval{
	{0x1100, 0x115F},   // Hangul Jamo
	{0x2E80, 0x303E},   // CJK Radicals .. CJK Symbols and Punctuation
	{0x3041, 0x33FF},   // Hiragana, Katakana, CJK compatibility
	{0x3400, 0x4DBF},   // CJK Unified Ideographs Extension A
	{0x4E00, 0x9FFF},   // CJK Unified Ideographs
	{0xA000, 0xA4CF},   // Yi Syllables
	{0xAC00, 0xD7A3},   // Hangul Syllables
	{0xF900, 0xFAFF},   // CJK Compatibility Ideographs
	{0xFE30, 0xFE4F},   // CJK Compatibility Forms
	{0xFF00, 0xFF60},   // Fullwidth Forms
	{0xFFE0, 0xFFE6},   // Fullwidth Signs
	{0x1F300, 0x1F64F}, // Misc Symbols and Pictographs, Emoticons
	{0x1F680, 0x1F6FF}, // Transport and Map Symbols
	{0x1F900, 0x1F9FF}, // Supplemental Symbols and Pictographs
	{0x20000, 0x2FFFD}, // CJK Unified Ideographs Extension B ..
	{0x30000, 0x3FFFD}, // CJK Unified Ideographs Extension G ..
}

var zero = []interval{
	{0x0300, 0x036F}, // Combining Diacritical Marks
}

func in(table []interval, r rune) bool {
	lo, hi := 0, len(table)-1
	if len(table) == 0 || r < table[0].first || r > table[hi].last {
		return false
	}
	for lo <= hi {
		mid := (lo + hi) / 2
		switch {
		case r < table[mid].first:
			hi = mid - 1
		case r > table[mid].last:
			lo = mid + 1
		default:
			return true
		}
	}
	return false
}

// RuneWidth reports the column width of a single code point.
func RuneWidth(r rune) int {
	switch {
	case r < 0x20, r >= 0x7F && r <= 0x9F:
		return 0
	case in(zero, r):
		return 0
	case in(wide, r):
		return 2
	default:
		return 1
	}
}

// Width reports the number of terminal columns s occupies.
func Width(s string) int {
	w := 0
	for _, r := range s {
		w += RuneWidth(r)
	}
	return w
}

// Truncate shortens s to at most maxWidth columns, appending ellipsis when
// anything was cut. When maxWidth cannot even hold the ellipsis, the
// ellipsis itself is cut to maxWidth runes.
func Truncate(s string, maxWidth int, ellipsis string) string {
	if Width(s) <= maxWidth {
		return s
	}
	ew := Width(ellipsis)
	if maxWidth <= ew {
		r := []rune(ellipsis)
		if maxWidth < 0 {
			return ""
		}
		if len(r) > maxWidth {
			r = r[:maxWidth]
		}
		return string(r)
	}
	budget := maxWidth - ew
	var b strings.Builder
	w := 0
	for _, r := range s {
		rw := RuneWidth(r)
		if w+rw > budget {
			break
		}
		b.WriteRune(r)
		w += rw
	}
	return b.String() + ellipsis
}

// PadEnd appends copies of fill until s reaches targetWidth columns. It
// never truncates: a string already at or past the target is returned
// unchanged.
func PadEnd(s string, targetWidth int, fill string) string {
	w := Width(s)
	if w >= targetWidth {
		return s
	}
	fw := Width(fill)
	if fw <= 0 {
		return s
	}
	return s + strings.Repeat(fill, (targetWidth-w)/fw)
}
