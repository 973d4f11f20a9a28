package kanji

import "testing"

func TestIsKanji(t *testing.T) {
	tests := []struct {
		name string
		r    rune
		want bool
	}{
		{"first unified", '一', true},
		{"last unified", '\u9faf', true},
		{"past unified range", '\u9fb0', false},
		{"extension A start", '\u3400', true},
		{"extension A end", '\u4dbf', true},
		{"hiragana", 'あ', false},
		{"katakana", 'カ', false},
		{"latin", 'a', false},
		{"ideographic space", '　', false},
		{"common kanji", '語', true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsKanji(tt.r); got != tt.want {
				t.Errorf("IsKanji(%U) = %v, want %v", tt.r, got, tt.want)
			}
		})
	}
}

func TestInString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"no kanji", "hello, world", ""},
		{"dedupe and sort", "三二一二三", "一三二"},
		{"mixed text", "私は日本語を勉強しています。日本!", "勉強日本私語"},
		{"compatibility ideograph normalised", "\uf900", "\u8c48"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InString(tt.in); got != tt.want {
				t.Errorf("InString(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSetOperations(t *testing.T) {
	var s Set
	if s.Len() != 0 || s.Contains('一') {
		t.Fatal("zero Set should be empty")
	}

	s.AddString("日本a")
	if !s.Add('語') {
		t.Error("Add of new kanji should report a change")
	}
	if s.Add('語') {
		t.Error("Add of existing kanji should not report a change")
	}
	if s.Add('x') {
		t.Error("Add of non-kanji should be ignored")
	}
	if got, want := s.String(), "日本語"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	s.Remove("本x")
	if s.Contains('本') {
		t.Error("Remove did not delete 本")
	}
	if got := s.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
}

func TestCount(t *testing.T) {
	if got := Count("一二三 and 一"); got != 4 {
		t.Errorf("Count() = %d, want 4", got)
	}
	if HasKanji("kana かな") {
		t.Error("HasKanji reported kanji in kana-only text")
	}
	if !HasKanji("かな漢字") {
		t.Error("HasKanji missed kanji")
	}
}
