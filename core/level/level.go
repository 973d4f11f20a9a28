// Package level defines the per-character knowledge level and the map that
// a compiled dictionary produces.
package level

import (
	"sort"
	"strconv"
)

// Kind discriminates the variants of Level.
type Kind uint8

const (
	// KindUnknown means no dictionary disclosed the character.
	KindUnknown Kind = iota
	// KindRank is an ordinary dictionary rank.
	KindRank
	// KindManuallyKnown marks a character from the user's known list.
	KindManuallyKnown
	// KindManuallySeen marks a character from the user's seen list.
	KindManuallySeen
)

// Level is a sum type: Rank(n) | ManuallyKnown | ManuallySeen | Unknown.
// The zero value is Unknown.
type Level struct {
	kind Kind
	rank int
}

// Sentinel levels.
var (
	Unknown       = Level{}
	ManuallyKnown = Level{kind: KindManuallyKnown}
	ManuallySeen  = Level{kind: KindManuallySeen}
)

// Legacy integer encodings of the sentinels, as stored by earlier versions.
const (
	LegacyManuallyKnown = -1
	LegacyManuallySeen  = -2
)

// Rank returns the level for dictionary rank n.
func Rank(n int) Level {
	return Level{kind: KindRank, rank: n}
}

// Kind returns the variant of l.
func (l Level) Kind() Kind { return l.kind }

// Rank returns the dictionary rank and true when l is a rank.
func (l Level) Rank() (int, bool) {
	return l.rank, l.kind == KindRank
}

// IsRank reports whether l is an ordinary dictionary rank.
func (l Level) IsRank() bool { return l.kind == KindRank }

// Disclosed reports whether l is anything other than Unknown.
func (l Level) Disclosed() bool { return l.kind != KindUnknown }

// Legacy returns the integer form of l (rank, -1, -2) and false for Unknown.
func (l Level) Legacy() (int, bool) {
	switch l.kind {
	case KindRank:
		return l.rank, true
	case KindManuallyKnown:
		return LegacyManuallyKnown, true
	case KindManuallySeen:
		return LegacyManuallySeen, true
	}
	return 0, false
}

// FromLegacy decodes the integer form produced by Legacy.
func FromLegacy(v int) Level {
	switch v {
	case LegacyManuallyKnown:
		return ManuallyKnown
	case LegacyManuallySeen:
		return ManuallySeen
	}
	return Rank(v)
}

// AtMost reports whether l is a rank no greater than threshold.
func (l Level) AtMost(threshold int) bool {
	return l.kind == KindRank && l.rank <= threshold
}

func (l Level) String() string {
	switch l.kind {
	case KindRank:
		return strconv.Itoa(l.rank)
	case KindManuallyKnown:
		return "manually-known"
	case KindManuallySeen:
		return "manually-seen"
	}
	return "unknown"
}

// Map assigns a level to each character a dictionary discloses. A missing
// key means the character is unknown to that dictionary.
type Map map[rune]Level

// Get returns the level of r, or Unknown.
func (m Map) Get(r rune) Level {
	return m[r]
}

// Lookup returns the level of r and whether the map holds it.
func (m Map) Lookup(r rune) (Level, bool) {
	l, ok := m[r]
	return l, ok
}

// Chars returns the keys in ascending code point order.
func (m Map) Chars() []rune {
	out := make([]rune, 0, len(m))
	for r := range m {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Clone returns an independent copy of m.
func (m Map) Clone() Map {
	out := make(Map, len(m))
	for r, l := range m {
		out[r] = l
	}
	return out
}
