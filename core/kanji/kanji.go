// Package kanji identifies the CJK ideographs that take part in
// classification and provides an ordered, deduplicated character set.
package kanji

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Ideograph ranges eligible for classification. Everything else passes
// through unannotated.
const (
	UnifiedFirst    = '\u4e00'
	UnifiedLast     = '\u9faf'
	ExtensionAFirst = '\u3400'
	ExtensionALast  = '\u4dbf'
)

// IsKanji reports whether r lies in U+4E00–U+9FAF or U+3400–U+4DBF.
func IsKanji(r rune) bool {
	return (r >= UnifiedFirst && r <= UnifiedLast) ||
		(r >= ExtensionAFirst && r <= ExtensionALast)
}

// Set is an unordered set of kanji. The zero value is an empty set ready
// to use with Add.
type Set struct {
	m map[rune]struct{}
}

// NewSet returns a set holding every kanji in runes. Non-kanji are dropped.
func NewSet(runes ...rune) Set {
	s := Set{m: make(map[rune]struct{}, len(runes))}
	for _, r := range runes {
		s.Add(r)
	}
	return s
}

// ParseSet returns the set of kanji found in text. The input may be an
// arbitrary passage; every non-kanji character is ignored.
func ParseSet(text string) Set {
	return NewSet([]rune(norm.NFC.String(text))...)
}

// Add inserts r if it is a kanji and reports whether the set changed.
func (s *Set) Add(r rune) bool {
	if !IsKanji(r) {
		return false
	}
	if s.m == nil {
		s.m = make(map[rune]struct{})
	}
	if _, ok := s.m[r]; ok {
		return false
	}
	s.m[r] = struct{}{}
	return true
}

// AddString inserts every kanji in text.
func (s *Set) AddString(text string) {
	for _, r := range norm.NFC.String(text) {
		s.Add(r)
	}
}

// Remove deletes every kanji in text from the set.
func (s *Set) Remove(text string) {
	for _, r := range norm.NFC.String(text) {
		delete(s.m, r)
	}
}

// Contains reports whether r is in the set.
func (s Set) Contains(r rune) bool {
	_, ok := s.m[r]
	return ok
}

// Len returns the number of kanji in the set.
func (s Set) Len() int {
	return len(s.m)
}

// Runes returns the members in ascending code point order.
func (s Set) Runes() []rune {
	out := make([]rune, 0, len(s.m))
	for r := range s.m {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// String returns the members concatenated in code point order, the form
// in which override lists are persisted.
func (s Set) String() string {
	return string(s.Runes())
}

// InString strips every non-kanji character from text, removes duplicates
// and returns the remaining kanji sorted by code point.
func InString(text string) string {
	return ParseSet(text).String()
}

// Count returns the number of kanji occurrences in text, duplicates included.
func Count(text string) int {
	n := 0
	for _, r := range text {
		if IsKanji(r) {
			n++
		}
	}
	return n
}

// HasKanji reports whether text contains at least one kanji.
func HasKanji(text string) bool {
	return strings.IndexFunc(text, IsKanji) >= 0
}
