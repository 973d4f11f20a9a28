// Package dictionary compiles ranked kanji dictionaries and the user's
// override lists into a per-character level map.
//
// A ranked dictionary is an ordered list of groups; group i holds the
// characters first introduced at rank i+Offset. Dictionaries can be read
// from JSON (array or rank-keyed object), from a line-oriented text format,
// and from either of those compressed with xz.
package dictionary

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/FocuswithJustin/KanjiLens/core/errors"
	"github.com/FocuswithJustin/KanjiLens/core/kanji"
	"github.com/FocuswithJustin/KanjiLens/core/level"
)

// MaxRank is the highest rank a dictionary may assign. Rank-keyed input
// is expanded into one group per rank, so larger keys are rejected before
// anything is allocated.
const MaxRank = 10000

// Dictionary is a named ranked dictionary.
type Dictionary struct {
	Name   string
	Offset int
	Groups []string
}

// Overrides holds the user's manually known and manually seen kanji.
type Overrides struct {
	Known kanji.Set
	Seen  kanji.Set
}

// ParseOverrides builds Overrides from the persisted string form of both lists.
func ParseOverrides(known, seen string) Overrides {
	return Overrides{Known: kanji.ParseSet(known), Seen: kanji.ParseSet(seen)}
}

// New returns a dictionary whose first group has rank offset.
func New(name string, offset int, groups ...string) *Dictionary {
	return &Dictionary{Name: name, Offset: offset, Groups: groups}
}

// RankCount returns the highest rank the dictionary assigns, or 0 when it
// has no groups.
func (d *Dictionary) RankCount() int {
	if len(d.Groups) == 0 {
		return 0
	}
	return d.Offset + len(d.Groups) - 1
}

// Len returns the number of distinct characters across all groups.
func (d *Dictionary) Len() int {
	seen := make(map[rune]struct{})
	for _, g := range d.Groups {
		for _, r := range g {
			seen[r] = struct{}{}
		}
	}
	return len(seen)
}

// Validate checks that every group is a well-formed character sequence.
func (d *Dictionary) Validate() error {
	if d.Offset < 0 {
		return errors.NewDictionaryFormat(d.Name, -1, "negative rank offset")
	}
	if d.RankCount() > MaxRank {
		return errors.NewDictionaryFormat(d.Name, -1, fmt.Sprintf("rank %d exceeds the maximum of %d", d.RankCount(), MaxRank))
	}
	for i, g := range d.Groups {
		if !utf8.ValidString(g) {
			return errors.NewDictionaryFormat(d.Name, i, "group is not valid UTF-8 text")
		}
	}
	return nil
}

// fromRanks lays out rank-keyed groups, filling gaps with empty groups.
// The offset is the smallest rank.
func fromRanks(name string, byRank map[int]string) (*Dictionary, error) {
	ranks := make([]int, 0, len(byRank))
	for rank := range byRank {
		if rank < 0 || rank > MaxRank {
			return nil, errors.NewDictionaryFormat(name, -1, fmt.Sprintf("rank %d outside 0..%d", rank, MaxRank))
		}
		ranks = append(ranks, rank)
	}
	sort.Ints(ranks)

	offset := ranks[0]
	d := &Dictionary{Name: name, Offset: offset, Groups: make([]string, ranks[len(ranks)-1]-offset+1)}
	for _, rank := range ranks {
		d.Groups[rank-offset] = byRank[rank]
	}
	return d, d.Validate()
}

// Compile returns the level map for d with the given overrides applied
// relative to threshold.
func (d *Dictionary) Compile(o Overrides, threshold int) (level.Map, error) {
	m, err := Compile(d.Groups, d.Offset, o.Known, o.Seen, threshold)
	if err != nil {
		var fe *errors.DictionaryFormatError
		if errors.As(err, &fe) && fe.Source == "" {
			fe.Source = d.Name
		}
		return nil, err
	}
	return m, nil
}

// Compile assigns every character in groups[i] the rank i+offset, scanning
// groups in ascending order so a character repeated in a later group keeps
// the later rank. Then the known overrides and after them the seen
// overrides replace any character that is absent from the map or ranked
// above threshold. A character on both lists therefore ends up
// ManuallySeen whenever it was eligible for an override.
//
// Overrides containing non-kanji are ignored. A group that is not valid
// UTF-8 fails the whole call with a DictionaryFormatError and no map.
func Compile(groups []string, offset int, known, seen kanji.Set, threshold int) (level.Map, error) {
	for i, g := range groups {
		if !utf8.ValidString(g) {
			return nil, errors.NewDictionaryFormat("", i, "group is not valid UTF-8 text")
		}
	}

	m := make(level.Map)
	for i, g := range groups {
		rank := level.Rank(i + offset)
		for _, r := range g {
			m[r] = rank
		}
	}

	applyOverride(m, known, level.ManuallyKnown, threshold)
	applyOverride(m, seen, level.ManuallySeen, threshold)
	return m, nil
}

// applyOverride never downgrades a character whose dictionary rank is at or
// below threshold. Eligibility is judged on the dictionary rank, so a
// sentinel written by an earlier override step may be replaced.
func applyOverride(m level.Map, set kanji.Set, sentinel level.Level, threshold int) {
	for _, r := range set.Runes() {
		cur, ok := m[r]
		if !ok || !cur.IsRank() {
			m[r] = sentinel
			continue
		}
		if rank, _ := cur.Rank(); rank > threshold {
			m[r] = sentinel
		}
	}
}
