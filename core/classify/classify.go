package classify

import (
	"math"

	"github.com/FocuswithJustin/KanjiLens/core/level"
)

// DefaultStepCount is the number of not-yet-known buckets.
const DefaultStepCount = 5

// Classifier turns a resolved level into a Category.
type Classifier struct {
	// StepCount is the number of not-yet-known buckets. Values below 1
	// use DefaultStepCount.
	StepCount int
}

// Classify applies the decision list in order; the first enabled rule that
// matches wins:
//
//  1. add-known and lvl is ManuallyKnown   -> ManuallyKnown
//  2. add-seen and lvl is ManuallySeen     -> ManuallySeen
//  3. missing and lvl is Unknown           -> Missing
//  4. current and rank == threshold        -> Current
//  5. known and rank <= threshold          -> Known
//  6. unknown and rank > threshold         -> UnknownStep(Bucket(...))
//  7. otherwise                            -> None
//
// Sentinel levels fall through to None when their rule is disabled; they
// never compare against the threshold.
func (c Classifier) Classify(lvl level.Level, threshold, rankCount int, mask Feature) Category {
	switch lvl.Kind() {
	case level.KindManuallyKnown:
		if mask.Has(FeatureAddKnown) {
			return ManuallyKnown
		}
		return None
	case level.KindManuallySeen:
		if mask.Has(FeatureAddSeen) {
			return ManuallySeen
		}
		return None
	case level.KindUnknown:
		if mask.Has(FeatureMissing) {
			return Missing
		}
		return None
	}

	rank, _ := lvl.Rank()
	switch {
	case mask.Has(FeatureCurrent) && rank == threshold:
		return Current
	case mask.Has(FeatureKnown) && rank <= threshold:
		return Known
	case mask.Has(FeatureUnknown) && rank > threshold:
		return UnknownStep(c.Bucket(rank, threshold, rankCount))
	}
	return None
}

// Steps returns the effective bucket count.
func (c Classifier) Steps() int {
	if c.StepCount < 1 {
		return DefaultStepCount
	}
	return c.StepCount
}

// Bucket grades a rank above threshold into [0, Steps()-1]. The first rank
// above the threshold maps to bucket 0 and rankCount maps to the last
// bucket, linearly in between with halves rounded up. When no rank lies
// strictly between threshold and rankCount (including rankCount <=
// threshold) the last bucket is used.
func (c Classifier) Bucket(rank, threshold, rankCount int) int {
	last := c.Steps() - 1
	span := rankCount - threshold - 1
	if span <= 0 {
		return last
	}
	x := float64(rank-threshold-1) / float64(span) * float64(last)
	b := int(math.Floor(x + 0.5))
	if b < 0 {
		return 0
	}
	if b > last {
		return last
	}
	return b
}

// Classify uses a Classifier with the default step count.
func Classify(lvl level.Level, threshold, rankCount int, mask Feature) Category {
	return Classifier{}.Classify(lvl, threshold, rankCount, mask)
}
