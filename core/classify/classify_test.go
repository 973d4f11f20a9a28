package classify

import (
	"testing"

	"github.com/FocuswithJustin/KanjiLens/core/level"
)

func TestClassifyDecisionList(t *testing.T) {
	const threshold, rankCount = 5, 10

	tests := []struct {
		name string
		lvl  level.Level
		mask Feature
		want Category
	}{
		{"manually known", level.ManuallyKnown, AllFeatures, ManuallyKnown},
		{"manually known disabled", level.ManuallyKnown, AllFeatures &^ FeatureAddKnown, None},
		{"manually seen", level.ManuallySeen, AllFeatures, ManuallySeen},
		{"manually seen disabled", level.ManuallySeen, AllFeatures &^ FeatureAddSeen, None},
		{"missing", level.Unknown, AllFeatures, Missing},
		{"missing disabled", level.Unknown, AllFeatures &^ FeatureMissing, None},
		{"current", level.Rank(5), AllFeatures, Current},
		{"current disabled falls to known", level.Rank(5), AllFeatures &^ FeatureCurrent, Known},
		{"current and known disabled", level.Rank(5), FeatureUnknown, None},
		{"known", level.Rank(2), AllFeatures, Known},
		{"known disabled", level.Rank(2), AllFeatures &^ FeatureKnown, None},
		{"current only does not mark lower ranks", level.Rank(2), FeatureCurrent, None},
		{"first unknown rank", level.Rank(6), AllFeatures, UnknownStep(0)},
		{"last rank", level.Rank(10), AllFeatures, UnknownStep(4)},
		{"beyond rank count", level.Rank(14), AllFeatures, UnknownStep(4)},
		{"unknown disabled", level.Rank(8), AllFeatures &^ FeatureUnknown, None},
		{"empty mask", level.Rank(1), 0, None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.lvl, threshold, rankCount, tt.mask)
			if got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.lvl, got, tt.want)
			}
			if again := Classify(tt.lvl, threshold, rankCount, tt.mask); again != got {
				t.Errorf("Classify is not deterministic: %v then %v", got, again)
			}
		})
	}
}

func TestBucket(t *testing.T) {
	tests := []struct {
		name      string
		steps     int
		rank      int
		thr       int
		rankCount int
		want      int
	}{
		{"first rank above threshold", 5, 6, 5, 10, 0},
		{"second rank", 5, 7, 5, 10, 1},
		{"middle", 5, 8, 5, 10, 2},
		{"fourth", 5, 9, 5, 10, 3},
		{"last rank", 5, 10, 5, 10, 4},
		{"rank past rank count clamps", 5, 30, 5, 10, 4},
		{"rank count equals threshold", 5, 6, 5, 5, 4},
		{"rank count below threshold", 5, 9, 8, 4, 4},
		{"single rank above threshold", 5, 10, 9, 10, 4},
		{"rounding half up", 3, 3, 1, 6, 1},
		{"wanikani level 2 of 60", 5, 3, 2, 60, 0},
		{"wanikani level 60", 5, 60, 2, 60, 4},
		{"default step count", 0, 10, 5, 10, 4},
		{"single step", 1, 10, 5, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classifier{StepCount: tt.steps}
			if got := c.Bucket(tt.rank, tt.thr, tt.rankCount); got != tt.want {
				t.Errorf("Bucket(%d, %d, %d) = %d, want %d", tt.rank, tt.thr, tt.rankCount, got, tt.want)
			}
		})
	}
}

func TestBucketStaysInRange(t *testing.T) {
	for steps := 1; steps <= 7; steps++ {
		c := Classifier{StepCount: steps}
		for thr := 0; thr <= 12; thr++ {
			for rc := 0; rc <= 12; rc++ {
				for rank := thr + 1; rank <= 15; rank++ {
					b := c.Bucket(rank, thr, rc)
					if b < 0 || b >= steps {
						t.Fatalf("Bucket(%d, %d, %d) with %d steps = %d", rank, thr, rc, steps, b)
					}
				}
			}
		}
	}
}

func TestCategoryTags(t *testing.T) {
	for _, c := range append(Categories(5), None) {
		got, err := ParseTag(c.Tag())
		if err != nil {
			t.Fatalf("ParseTag(%q) error = %v", c.Tag(), err)
		}
		if got != c {
			t.Errorf("ParseTag(%q) = %v, want %v", c.Tag(), got, c)
		}
	}

	if UnknownStep(3).Tag() != "3" || UnknownStep(3).String() != "unknown-3" {
		t.Errorf("UnknownStep(3) = %q/%q", UnknownStep(3).Tag(), UnknownStep(3).String())
	}
	if k, ok := UnknownStep(2).Step(); !ok || k != 2 {
		t.Errorf("Step() = (%d, %v), want (2, true)", k, ok)
	}
	if _, ok := Known.Step(); ok {
		t.Error("Known is not an unknown step")
	}
	if _, err := ParseTag("Z"); err == nil {
		t.Error("ParseTag(Z) should fail")
	}
	if got := len(Categories(5)); got != 10 {
		t.Errorf("len(Categories(5)) = %d, want 10", got)
	}
}

func TestParseFeatures(t *testing.T) {
	tests := []struct {
		in      string
		want    Feature
		wantErr bool
	}{
		{"", 0, false},
		{"known", FeatureKnown, false},
		{"known, current", FeatureKnown | FeatureCurrent, false},
		{"all", AllFeatures, false},
		{"all,-missing", AllFeatures &^ FeatureMissing, false},
		{"ADD-KNOWN,add-seen", FeatureAddKnown | FeatureAddSeen, false},
		{"all,none,unknown", FeatureUnknown, false},
		{"bogus", 0, true},
		{"-none", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFeatures(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFeatures(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFeatures(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFeatureString(t *testing.T) {
	if got := Feature(0).String(); got != "none" {
		t.Errorf("String() = %q, want none", got)
	}
	if got := (FeatureKnown | FeatureCurrent).String(); got != "known,current" {
		t.Errorf("String() = %q, want known,current", got)
	}
	round, err := ParseFeatures(DefaultFeatures.String())
	if err != nil || round != AllFeatures {
		t.Errorf("ParseFeatures(DefaultFeatures.String()) = %v, %v", round, err)
	}
	if FeatureKnown != 1 || FeatureMissing != 2 || FeatureUnknown != 4 ||
		FeatureAddKnown != 8 || FeatureAddSeen != 16 || FeatureCurrent != 32 {
		t.Error("feature bits changed; persisted render settings depend on them")
	}
}
