package highlight

import (
	"fmt"

	"github.com/FocuswithJustin/KanjiLens/core/level"
)

// Stats summarises a level map against a threshold.
type Stats struct {
	// Learned counts kanji ranked at or below the threshold.
	Learned int `json:"learned"`
	// Additional counts manually known kanji.
	Additional int `json:"additional"`
	// Known is Learned + Additional.
	Known int `json:"known"`
	// Seen counts manually seen kanji.
	Seen int `json:"seen"`
	// Unknown counts kanji ranked above the threshold.
	Unknown int `json:"unknown"`
}

// ComputeStats counts the levels in m.
func ComputeStats(m level.Map, threshold int) Stats {
	var st Stats
	for _, l := range m {
		st.add(l, threshold)
	}
	return st
}

func (s *Stats) add(l level.Level, threshold int) {
	switch l.Kind() {
	case level.KindManuallyKnown:
		s.Additional++
		s.Known++
	case level.KindManuallySeen:
		s.Seen++
	case level.KindRank:
		if l.AtMost(threshold) {
			s.Learned++
			s.Known++
		} else {
			s.Unknown++
		}
	}
}

// Total is the number of kanji counted.
func (s Stats) Total() int {
	return s.Known + s.Seen + s.Unknown
}

func (s Stats) String() string {
	return fmt.Sprintf("%d kanji have already been learned. There are %d additionally known kanji. "+
		"The number of known kanji in total is %d, plus %d marked as seen.",
		s.Learned, s.Additional, s.Known, s.Seen)
}
