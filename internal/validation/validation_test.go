package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"simple", "levels.json", nil},
		{"nested", "dicts/jlpt.txt.xz", nil},
		{"empty", "", ErrEmptyPath},
		{"too long", strings.Repeat("a", MaxPathLength+1), ErrPathTooLong},
		{"null byte", "a\x00b", ErrInvalidCharacter},
		{"control", "a\x1bb", ErrInvalidCharacter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidatePath(%q) = %v, want nil", tt.path, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidatePath(%q) = %v, want %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestValidateText(t *testing.T) {
	if err := ValidateText("私は猫です"); err != nil {
		t.Errorf("ValidateText() = %v", err)
	}
	if err := ValidateText(""); err != nil {
		t.Errorf("empty text should be accepted, got %v", err)
	}
	if err := ValidateText(strings.Repeat("a", MaxTextSize+1)); !errors.Is(err, ErrTextTooLarge) {
		t.Errorf("oversized text: got %v", err)
	}
	if err := ValidateText("a\xffb"); !errors.Is(err, ErrInvalidUTF8) {
		t.Errorf("invalid UTF-8: got %v", err)
	}
	if err := ValidateText("a\x00b"); !errors.Is(err, ErrInvalidCharacter) {
		t.Errorf("null byte: got %v", err)
	}
}

func TestValidateTemplate(t *testing.T) {
	valid := []string{
		"",
		"https://www.wanikani.com/kanji/$K",
		"http://jisho.org/search/$K #kanji",
		"HTTPS://example.com/",
	}
	for _, v := range valid {
		if err := ValidateTemplate(v); err != nil {
			t.Errorf("ValidateTemplate(%q) = %v", v, err)
		}
	}

	invalid := []string{
		"javascript:alert('$K')",
		"ftp://example.com/$K",
		"/relative/$K",
		"https://example.com/\n$K",
		"https://" + strings.Repeat("a", MaxTemplateLength),
	}
	for _, v := range invalid {
		if err := ValidateTemplate(v); !errors.Is(err, ErrInvalidTemplate) {
			t.Errorf("ValidateTemplate(%q) = %v, want ErrInvalidTemplate", v, err)
		}
	}
}

func TestDetectFileType(t *testing.T) {
	tests := []struct {
		name string
		head []byte
		want FileType
	}{
		{"xz", []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00, 0x00}, FileTypeXZ},
		{"json array", []byte(`["一二三"]`), FileTypeJSON},
		{"json object with space", []byte("  \n{\"3\": \"一\"}"), FileTypeJSON},
		{"text", []byte("# levels\n1: 一二三\n"), FileTypeText},
		{"cut rune", []byte("1: 一二\xe4\xb8"), FileTypeText},
		{"binary", []byte{0x00, 0x01, 0x02}, FileTypeUnknown},
		{"invalid utf8", []byte("1: \xff\xfe abc"), FileTypeUnknown},
		{"empty", nil, FileTypeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFileType(tt.head); got != tt.want {
				t.Errorf("DetectFileType() = %s, want %s", got, tt.want)
			}
		})
	}
}
