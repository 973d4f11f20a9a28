package markup

import (
	"strings"
	"testing"

	"github.com/FocuswithJustin/KanjiLens/core/classify"
	"github.com/FocuswithJustin/KanjiLens/core/kanji"
)

// byTable classifies kanji from a table; other kanji are Missing and
// everything else is None.
func byTable(table map[rune]classify.Category) func(rune) classify.Category {
	return func(r rune) classify.Category {
		if !kanji.IsKanji(r) {
			return classify.None
		}
		if c, ok := table[r]; ok {
			return c
		}
		return classify.Missing
	}
}

var sample = byTable(map[rune]classify.Category{
	'一': classify.Known,
	'二': classify.Known,
	'三': classify.Current,
	'日': classify.UnknownStep(0),
	'本': classify.UnknownStep(4),
	'私': classify.ManuallyKnown,
	'猫': classify.ManuallySeen,
	'鼠': classify.None,
})

var inputs = []string{
	"",
	"hello, world",
	"一",
	"一二三",
	"一二三日本",
	"私は猫です。一二、三!",
	"日本語のテキスト <b>本</b> & 一",
	"鼠一鼠二",
	"一 二",
	"emoji 😀 一二 😀",
}

func TestEncodeExamples(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"no kanji", "kana かな only", "kana かな only"},
		{"single run", "一二", `<span class="wk_K">一二</span>`},
		{"category change", "一二三", `<span class="wk_K">一二</span><span class="wk_C">三</span>`},
		{"non-kanji splits runs", "一 二", `<span class="wk_K">一</span> <span class="wk_K">二</span>`},
		{"unknown buckets", "日本", `<span class="wk_0">日</span><span class="wk_4">本</span>`},
		{"none kanji", "鼠一", `鼠<span class="wk_K">一</span>`},
		{"missing", "語", `<span class="wk_X">語</span>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Encode(tt.in, sample); got != tt.want {
				t.Errorf("Encode(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEncodePreservesContent(t *testing.T) {
	for _, in := range inputs {
		res := Encoder{}.Encode(in, sample)
		if got := Strip(res.Text, DefaultPrefix); got != in {
			t.Errorf("Strip(Encode(%q)) = %q", in, got)
		}
	}
}

func TestEncodeRunsAreMaximal(t *testing.T) {
	for _, in := range inputs {
		runs := Segment(in, sample)
		var joined strings.Builder
		nonNone := 0
		for i, run := range runs {
			joined.WriteString(run.Text)
			if run.Text == "" {
				t.Errorf("Segment(%q) produced an empty run", in)
			}
			if i > 0 && runs[i-1].Category == run.Category {
				t.Errorf("Segment(%q) split a run of %v", in, run.Category)
			}
			if run.Category != classify.None {
				nonNone++
			}
		}
		if joined.String() != in {
			t.Errorf("Segment(%q) joined = %q", in, joined.String())
		}

		res := Encoder{Marker: BracketMarker{}}.Encode(in, sample)
		if res.Markers != nonNone {
			t.Errorf("Encode(%q) opened %d markers, want %d", in, res.Markers, nonNone)
		}
		if res.Markers > len([]rune(in)) {
			t.Errorf("Encode(%q) opened more markers than characters", in)
		}
	}
}

func TestEncodeNoEmptyMarkers(t *testing.T) {
	m := SpanMarker{}
	for _, in := range inputs {
		out := Encode(in, sample)
		for _, c := range classify.Categories(5) {
			if strings.Contains(out, m.Open(c)+m.Close(c)) {
				t.Errorf("Encode(%q) contains an empty %v marker", in, c)
			}
		}
	}
}

func TestEncodeUnchanged(t *testing.T) {
	in := "ひらがな and ASCII"
	res := Encoder{}.Encode(in, sample)
	if res.Changed() || res.Text != in {
		t.Errorf("Encode(%q) = %+v, want unchanged", in, res)
	}
	if !(Encoder{}.Encode("一", sample)).Changed() {
		t.Error("Encode(一) should report a change")
	}
}

func TestEndToEndKnownOnly(t *testing.T) {
	levels := func(r rune) classify.Category {
		switch r {
		case '一', '二':
			return classify.Known
		}
		return classify.None
	}
	got := Encoder{Marker: BracketMarker{}}.Encode("一二三", levels)
	if got.Text != "[K:一二]三" || got.Markers != 1 {
		t.Errorf("Encode = %+v, want [K:一二]三 with one marker", got)
	}
}

func TestSpanMarkerPrefix(t *testing.T) {
	m := SpanMarker{Prefix: "kl-"}
	if got := m.Open(classify.Known); got != `<span class="kl-K">` {
		t.Errorf("Open() = %q", got)
	}
	out := Encoder{Marker: m}.Encode("私は", sample).Text
	if out != `<span class="kl-A">私</span>は` {
		t.Errorf("Encode = %q", out)
	}
	if Strip(out, "kl-") != "私は" {
		t.Errorf("Strip(%q) = %q", out, Strip(out, "kl-"))
	}
}

func TestStripKeepsNonMarkers(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"marker", `<span class="wk_3">猫</span>`, "猫"},
		{"unknown class", `<span class="wk_note">猫</span>`, `<span class="wk_note">猫</span>`},
		{"empty class", `<span class="wk_">猫</span>`, `<span class="wk_">猫</span>`},
		{"extra attribute", `<span class="wk_K" id="x">猫</span>`, `<span class="wk_K" id="x">猫</span>`},
		{"unclosed", `<span class="wk_K">猫`, `<span class="wk_K">猫`},
		{"stray close", `猫</span>`, `猫</span>`},
		{"other prefix", `<span class="kl-K">猫</span>`, `<span class="kl-K">猫</span>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Strip(tt.in, DefaultPrefix); got != tt.want {
				t.Errorf("Strip(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSegmentEmpty(t *testing.T) {
	if runs := Segment("", sample); len(runs) != 0 {
		t.Errorf("Segment(\"\") = %v, want none", runs)
	}
}

func TestHTMLEscapesText(t *testing.T) {
	runs := Segment("<一>&二", sample)
	got := HTML(runs, SpanMarker{})
	want := `&lt;<span class="wk_K">一</span>&gt;&amp;<span class="wk_K">二</span>`
	if got != want {
		t.Errorf("HTML() = %q, want %q", got, want)
	}
}
