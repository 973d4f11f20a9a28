package highlight

import (
	"testing"

	"github.com/FocuswithJustin/KanjiLens/core/classify"
	"github.com/FocuswithJustin/KanjiLens/core/dictionary"
	"github.com/FocuswithJustin/KanjiLens/core/kanji"
	"github.com/FocuswithJustin/KanjiLens/core/level"
	"github.com/FocuswithJustin/KanjiLens/core/markup"
	"github.com/FocuswithJustin/KanjiLens/core/resolve"
)

func compile(t *testing.T, d *dictionary.Dictionary, o dictionary.Overrides, threshold int) resolve.Source {
	t.Helper()
	m, err := d.Compile(o, threshold)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	return resolve.Source{Name: d.Name, Levels: m, Threshold: threshold, RankCount: d.RankCount()}
}

func TestEndToEndKnownOnly(t *testing.T) {
	src := compile(t, dictionary.New("test", 1, "一二"), dictionary.Overrides{}, 1)
	a, err := New(Config{Features: classify.FeatureKnown, Marker: markup.BracketMarker{}}, src)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	res := a.Annotate("一二三")
	if res.Text != "[K:一二]三" || res.Markers != 1 {
		t.Errorf("Annotate() = %+v, want [K:一二]三", res)
	}

	runs := a.Runs("一二三")
	want := []markup.Run{{Category: classify.Known, Text: "一二"}, {Category: classify.None, Text: "三"}}
	if len(runs) != len(want) {
		t.Fatalf("Runs() = %v, want %v", runs, want)
	}
	for i := range want {
		if runs[i] != want[i] {
			t.Errorf("Runs()[%d] = %v, want %v", i, runs[i], want[i])
		}
	}
}

func TestAnnotatorCategories(t *testing.T) {
	d := dictionary.New("test", 1, "一二", "三", "四", "五", "六", "七", "八", "九", "十")
	o := dictionary.ParseOverrides("私九", "猫")
	a, err := New(DefaultConfig(), compile(t, d, o, 2))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		r    rune
		want classify.Category
	}{
		{'一', classify.Known},
		{'三', classify.Current},
		{'四', classify.UnknownStep(0)},
		{'十', classify.UnknownStep(4)},
		{'私', classify.ManuallyKnown},
		{'九', classify.ManuallyKnown},
		{'猫', classify.ManuallySeen},
		{'語', classify.Missing},
		{'a', classify.None},
		{'か', classify.None},
	}
	for _, tt := range tests {
		if got := a.Category(tt.r); got != tt.want {
			t.Errorf("Category(%q) = %v, want %v", tt.r, got, tt.want)
		}
	}

	if a.Changed("hello かな") {
		t.Error("Changed() on kana-only text should be false")
	}
	if !a.Changed("hello 語") {
		t.Error("Changed() on a missing kanji should be true")
	}
}

func TestAnnotatorMultipleSources(t *testing.T) {
	a1 := compile(t, dictionary.New("a", 1, "", "", "", "", "字"), dictionary.Overrides{}, 5)
	b1 := compile(t, dictionary.New("b", 1, "", "", "字"), dictionary.Overrides{}, 1)

	a, err := New(DefaultConfig(), a1, b1)
	if err != nil {
		t.Fatal(err)
	}
	if got := a.Resolve('字'); got.Source != 0 {
		t.Errorf("Resolve() source = %d, want 0", got.Source)
	}
	if got := a.Category('字'); got != classify.Current {
		t.Errorf("Category() = %v, want current", got)
	}
}

func TestNewRequiresSources(t *testing.T) {
	if _, err := New(DefaultConfig()); err == nil {
		t.Error("New() without sources should fail")
	}
}

func TestStatsAndLists(t *testing.T) {
	d := dictionary.New("test", 1, "一二", "三", "四五")
	o := dictionary.ParseOverrides("私四", "猫")
	src := compile(t, d, o, 2)

	want := Stats{Learned: 3, Additional: 2, Known: 5, Seen: 1, Unknown: 1}
	if got := ComputeStats(src.Levels, 2); got != want {
		t.Errorf("ComputeStats() = %+v, want %+v", got, want)
	}
	if want.Total() != 7 {
		t.Errorf("Total() = %d, want 7", want.Total())
	}

	a, err := New(DefaultConfig(), src)
	if err != nil {
		t.Fatal(err)
	}
	if got := a.Stats(); got != want {
		t.Errorf("Annotator.Stats() = %+v, want %+v", got, want)
	}

	wantKnown := kanji.InString("一二三私四")
	if got := KnownList(src.Levels, 2); got != wantKnown {
		t.Errorf("KnownList() = %q, want %q", got, wantKnown)
	}
	if got := a.KnownList(); got != wantKnown {
		t.Errorf("Annotator.KnownList() = %q, want %q", got, wantKnown)
	}
	if got := UnknownList(src.Levels, 2); got != "五" {
		t.Errorf("UnknownList() = %q, want 五", got)
	}
	if got := a.UnknownList(); got != "五" {
		t.Errorf("Annotator.UnknownList() = %q, want 五", got)
	}
}

func TestStatsIgnoresUnknownLevels(t *testing.T) {
	m := level.Map{'一': level.Unknown, '二': level.Rank(1)}
	if got := ComputeStats(m, 1); got.Total() != 1 {
		t.Errorf("ComputeStats() total = %d, want 1", got.Total())
	}
}
