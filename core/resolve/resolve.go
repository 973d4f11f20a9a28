// Package resolve picks one authoritative level per character when several
// ranked sources disclose it.
package resolve

import (
	"fmt"

	"github.com/FocuswithJustin/KanjiLens/core/errors"
	"github.com/FocuswithJustin/KanjiLens/core/level"
)

// NoSource is the Source index reported when no source discloses a character.
const NoSource = -1

// Source is one compiled level map together with the user's threshold and
// the source's highest rank.
type Source struct {
	Name      string
	Levels    level.Map
	Threshold int
	RankCount int
}

// Resolved is the level chosen for a character and the context it must be
// classified in.
type Resolved struct {
	Level     level.Level
	Threshold int
	RankCount int
	Source    int
}

// Resolver resolves characters against an immutable list of sources.
// It is safe for concurrent use as long as the level maps are not mutated.
type Resolver struct {
	sources []Source
}

// New validates sources and returns a Resolver. Sources are consulted in
// the given order, which breaks ties.
func New(sources ...Source) (*Resolver, error) {
	if len(sources) == 0 {
		return nil, errors.NewConfiguration("sources", "at least one source is required")
	}
	for i, s := range sources {
		if s.Threshold < 0 {
			return nil, errors.NewConfiguration(sourceField(i, s), fmt.Sprintf("negative threshold %d", s.Threshold))
		}
		if s.RankCount < 0 {
			return nil, errors.NewConfiguration(sourceField(i, s), fmt.Sprintf("negative rank count %d", s.RankCount))
		}
	}
	out := make([]Source, len(sources))
	copy(out, sources)
	return &Resolver{sources: out}, nil
}

// FromMaps pairs parallel slices into sources. Mismatched lengths fail with
// a ConfigurationError before any character is looked at. rankCounts may be
// nil, in which case every source's rank count is the highest rank found in
// its map.
func FromMaps(maps []level.Map, thresholds, rankCounts []int) (*Resolver, error) {
	if len(thresholds) != len(maps) {
		return nil, errors.NewConfiguration("thresholds",
			fmt.Sprintf("%d thresholds for %d sources", len(thresholds), len(maps)))
	}
	if rankCounts != nil && len(rankCounts) != len(maps) {
		return nil, errors.NewConfiguration("rankCounts",
			fmt.Sprintf("%d rank counts for %d sources", len(rankCounts), len(maps)))
	}

	sources := make([]Source, len(maps))
	for i, m := range maps {
		rc := maxRank(m)
		if rankCounts != nil {
			rc = rankCounts[i]
		}
		sources[i] = Source{
			Name:      fmt.Sprintf("source %d", i),
			Levels:    m,
			Threshold: thresholds[i],
			RankCount: rc,
		}
	}
	return New(sources...)
}

// Sources returns a copy of the configured sources.
func (r *Resolver) Sources() []Source {
	out := make([]Source, len(r.sources))
	copy(out, r.sources)
	return out
}

// Resolve returns the level of c from the source that is closest to
// mastering it: the smallest distance wins, and the earlier source wins a
// tie. With a single disclosing source its level is returned unchanged.
// When no source discloses c the result is level.Unknown with the first
// source's threshold and rank count and Source == NoSource.
//
// Callers are expected to pass only kanji; non-kanji are never annotated.
func (r *Resolver) Resolve(c rune) Resolved {
	best := Resolved{
		Level:     level.Unknown,
		Threshold: r.sources[0].Threshold,
		RankCount: r.sources[0].RankCount,
		Source:    NoSource,
	}
	var bestDist int

	for i, s := range r.sources {
		lvl, ok := s.Levels.Lookup(c)
		if !ok || !lvl.Disclosed() {
			continue
		}
		d := Distance(lvl, s.Threshold)
		if best.Source == NoSource || d < bestDist {
			best = Resolved{Level: lvl, Threshold: s.Threshold, RankCount: s.RankCount, Source: i}
			bestDist = d
		}
	}
	return best
}

// Distance measures how far lvl is from mastery under threshold. Ranks
// give rank-threshold, negative once mastered. Sentinel levels use their
// legacy value (-1 manually known, -2 manually seen) without subtracting
// the threshold.
func Distance(lvl level.Level, threshold int) int {
	if rank, ok := lvl.Rank(); ok {
		return rank - threshold
	}
	v, _ := lvl.Legacy()
	return v
}

func maxRank(m level.Map) int {
	highest := 0
	for _, l := range m {
		if rank, ok := l.Rank(); ok && rank > highest {
			highest = rank
		}
	}
	return highest
}

func sourceField(i int, s Source) string {
	if s.Name != "" {
		return fmt.Sprintf("sources[%d] (%s)", i, s.Name)
	}
	return fmt.Sprintf("sources[%d]", i)
}
