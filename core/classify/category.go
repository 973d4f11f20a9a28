// Package classify maps a resolved knowledge level to the render category
// of a single character.
package classify

import (
	"fmt"
	"strconv"
)

// Category is the render category of a character. Categories are
// comparable; equal categories merge into a single run.
type Category int

const (
	// None means the character is not annotated.
	None Category = iota
	// ManuallyKnown is a kanji from the user's known list.
	ManuallyKnown
	// ManuallySeen is a kanji from the user's seen list.
	ManuallySeen
	// Missing is a kanji that no source discloses.
	Missing
	// Current is a kanji whose rank equals the threshold.
	Current
	// Known is a kanji ranked at or below the threshold.
	Known

	unknownBase
)

// UnknownStep returns the category for not-yet-known bucket k.
func UnknownStep(k int) Category {
	if k < 0 {
		k = 0
	}
	return unknownBase + Category(k)
}

// Step returns the bucket index and true for UnknownStep categories.
func (c Category) Step() (int, bool) {
	if c < unknownBase {
		return 0, false
	}
	return int(c - unknownBase), true
}

// Tag is the short identifier used in markers and style class names.
func (c Category) Tag() string {
	switch c {
	case None:
		return ""
	case ManuallyKnown:
		return "A"
	case ManuallySeen:
		return "S"
	case Missing:
		return "X"
	case Current:
		return "C"
	case Known:
		return "K"
	}
	k, _ := c.Step()
	return strconv.Itoa(k)
}

func (c Category) String() string {
	switch c {
	case None:
		return "none"
	case ManuallyKnown:
		return "manually-known"
	case ManuallySeen:
		return "manually-seen"
	case Missing:
		return "missing"
	case Current:
		return "current"
	case Known:
		return "known"
	}
	k, _ := c.Step()
	return fmt.Sprintf("unknown-%d", k)
}

// ParseTag is the inverse of Tag.
func ParseTag(tag string) (Category, error) {
	switch tag {
	case "":
		return None, nil
	case "A":
		return ManuallyKnown, nil
	case "S":
		return ManuallySeen, nil
	case "X":
		return Missing, nil
	case "C":
		return Current, nil
	case "K":
		return Known, nil
	}
	k, err := strconv.Atoi(tag)
	if err != nil || k < 0 {
		return None, fmt.Errorf("unknown category tag %q", tag)
	}
	return UnknownStep(k), nil
}

// Categories lists every category that a classifier with stepCount
// buckets can produce, None excluded.
func Categories(stepCount int) []Category {
	out := []Category{ManuallyKnown, ManuallySeen, Missing, Current, Known}
	for k := 0; k < stepCount; k++ {
		out = append(out, UnknownStep(k))
	}
	return out
}
