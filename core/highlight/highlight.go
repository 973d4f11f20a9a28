// Package highlight ties resolution, classification and run encoding into
// one immutable Annotator.
package highlight

import (
	"sort"

	"github.com/FocuswithJustin/KanjiLens/core/classify"
	"github.com/FocuswithJustin/KanjiLens/core/kanji"
	"github.com/FocuswithJustin/KanjiLens/core/level"
	"github.com/FocuswithJustin/KanjiLens/core/markup"
	"github.com/FocuswithJustin/KanjiLens/core/resolve"
)

// Config holds the render settings of an Annotator. Features is used as
// given; start from DefaultConfig to get every rule enabled.
type Config struct {
	Features  classify.Feature
	StepCount int
	Marker    markup.Marker
}

// DefaultConfig enables every feature with the default step count and span
// markers.
func DefaultConfig() Config {
	return Config{
		Features:  classify.DefaultFeatures,
		StepCount: classify.DefaultStepCount,
		Marker:    markup.SpanMarker{},
	}
}

// Annotator is a snapshot of compiled sources and render settings. It holds
// no mutable state and may be shared between goroutines.
type Annotator struct {
	cfg        Config
	resolver   *resolve.Resolver
	classifier classify.Classifier
	encoder    markup.Encoder
}

// New builds an Annotator over sources. It fails with a ConfigurationError
// when the sources are invalid.
func New(cfg Config, sources ...resolve.Source) (*Annotator, error) {
	r, err := resolve.New(sources...)
	if err != nil {
		return nil, err
	}
	if cfg.Marker == nil {
		cfg.Marker = markup.SpanMarker{}
	}
	c := classify.Classifier{StepCount: cfg.StepCount}
	cfg.StepCount = c.Steps()
	return &Annotator{
		cfg:        cfg,
		resolver:   r,
		classifier: c,
		encoder:    markup.Encoder{Marker: cfg.Marker},
	}, nil
}

// Config returns the effective settings.
func (a *Annotator) Config() Config { return a.cfg }

// Sources returns the configured sources in resolution order.
func (a *Annotator) Sources() []resolve.Source { return a.resolver.Sources() }

// Resolve returns the authoritative level of a kanji.
func (a *Annotator) Resolve(r rune) resolve.Resolved { return a.resolver.Resolve(r) }

// Category classifies one character. Non-kanji are always None and are
// never resolved.
func (a *Annotator) Category(r rune) classify.Category {
	if !kanji.IsKanji(r) {
		return classify.None
	}
	res := a.resolver.Resolve(r)
	return a.classifier.Classify(res.Level, res.Threshold, res.RankCount, a.cfg.Features)
}

// Annotate wraps every classified run of text in markers.
func (a *Annotator) Annotate(text string) markup.Result {
	return a.encoder.Encode(text, a.Category)
}

// Runs splits text into maximal category runs.
func (a *Annotator) Runs(text string) []markup.Run {
	return markup.Segment(text, a.Category)
}

// Changed reports whether Annotate would alter text.
func (a *Annotator) Changed(text string) bool {
	for _, r := range text {
		if a.Category(r) != classify.None {
			return true
		}
	}
	return false
}

// Chars returns every kanji disclosed by at least one source, sorted.
func (a *Annotator) Chars() []rune {
	seen := make(map[rune]struct{})
	for _, s := range a.resolver.Sources() {
		for r := range s.Levels {
			seen[r] = struct{}{}
		}
	}
	out := make([]rune, 0, len(seen))
	for r := range seen {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Stats counts the resolved levels of every disclosed kanji.
func (a *Annotator) Stats() Stats {
	var st Stats
	for _, r := range a.Chars() {
		res := a.resolver.Resolve(r)
		st.add(res.Level, res.Threshold)
	}
	return st
}

// KnownList returns the kanji ranked at or below their threshold plus the
// manually known ones, sorted by code point.
func (a *Annotator) KnownList() string {
	return a.list(isKnown)
}

// UnknownList returns the kanji ranked above their threshold, sorted by
// code point.
func (a *Annotator) UnknownList() string {
	return a.list(isUnknown)
}

func (a *Annotator) list(keep func(level.Level, int) bool) string {
	var out []rune
	for _, r := range a.Chars() {
		res := a.resolver.Resolve(r)
		if keep(res.Level, res.Threshold) {
			out = append(out, r)
		}
	}
	return string(out)
}

// KnownList is Annotator.KnownList for a single level map.
func KnownList(m level.Map, threshold int) string {
	return listMap(m, threshold, isKnown)
}

// UnknownList is Annotator.UnknownList for a single level map.
func UnknownList(m level.Map, threshold int) string {
	return listMap(m, threshold, isUnknown)
}

func listMap(m level.Map, threshold int, keep func(level.Level, int) bool) string {
	var out []rune
	for _, r := range m.Chars() {
		if keep(m[r], threshold) {
			out = append(out, r)
		}
	}
	return string(out)
}

func isKnown(l level.Level, threshold int) bool {
	return l == level.ManuallyKnown || l.AtMost(threshold)
}

func isUnknown(l level.Level, threshold int) bool {
	rank, ok := l.Rank()
	return ok && rank > threshold
}
