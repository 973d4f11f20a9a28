// Package validation checks user input before it reaches the annotator or
// the settings store.
package validation

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Limits on user input.
const (
	// MaxTextSize is the largest text accepted for a single annotation pass.
	MaxTextSize = 1 << 20
	// MaxPathLength is the maximum allowed path length.
	MaxPathLength = 4096
	// MaxTemplateLength is the maximum length of an info page template.
	MaxTemplateLength = 2048
)

// Common validation errors.
var (
	ErrEmptyPath        = errors.New("path cannot be empty")
	ErrPathTooLong      = errors.New("path too long")
	ErrInvalidCharacter = errors.New("invalid character")
	ErrTextTooLarge     = errors.New("text too large")
	ErrInvalidUTF8      = errors.New("text is not valid UTF-8")
	ErrInvalidTemplate  = errors.New("invalid page template")
)

// ValidatePath checks a user-supplied file path for length limits and
// control characters.
func ValidatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	if len(path) > MaxPathLength {
		return ErrPathTooLong
	}
	if strings.Contains(path, "\x00") {
		return fmt.Errorf("%w: null byte not allowed", ErrInvalidCharacter)
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidCharacter)
		}
	}
	return nil
}

// ValidateText checks text submitted for annotation.
func ValidateText(text string) error {
	if len(text) > MaxTextSize {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrTextTooLarge, len(text), MaxTextSize)
	}
	if !utf8.ValidString(text) {
		return ErrInvalidUTF8
	}
	if strings.Contains(text, "\x00") {
		return fmt.Errorf("%w: null byte not allowed", ErrInvalidCharacter)
	}
	return nil
}

// ValidateTemplate checks an info page template. The empty template is
// accepted and means "use the default". Anything else must be an http or
// https URL without control characters.
func ValidateTemplate(tmpl string) error {
	if tmpl == "" {
		return nil
	}
	if len(tmpl) > MaxTemplateLength {
		return fmt.Errorf("%w: longer than %d bytes", ErrInvalidTemplate, MaxTemplateLength)
	}
	lower := strings.ToLower(tmpl)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return fmt.Errorf("%w: only http and https URLs are allowed", ErrInvalidTemplate)
	}
	for _, r := range tmpl {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidTemplate)
		}
	}
	return nil
}

// FileType is the detected encoding of an uploaded dictionary.
type FileType string

const (
	FileTypeXZ      FileType = "xz"
	FileTypeJSON    FileType = "json"
	FileTypeText    FileType = "text"
	FileTypeUnknown FileType = "unknown"
)

var xzMagic = []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}

// DetectFileType classifies the leading bytes of a dictionary upload.
func DetectFileType(head []byte) FileType {
	if bytes.HasPrefix(head, xzMagic) {
		return FileTypeXZ
	}
	trimmed := bytes.TrimSpace(head)
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		return FileTypeJSON
	}
	if isLikelyText(head) {
		return FileTypeText
	}
	return FileTypeUnknown
}

// isLikelyText reports whether buf looks like UTF-8 text: no NUL bytes and
// almost no control characters. A rune cut off at the end of buf is allowed.
func isLikelyText(buf []byte) bool {
	if len(buf) == 0 || bytes.IndexByte(buf, 0) != -1 {
		return false
	}

	printable, control := 0, 0
	for len(buf) > 0 {
		r, size := utf8.DecodeRune(buf)
		if r == utf8.RuneError && size == 1 {
			if len(buf) < utf8.UTFMax && !utf8.FullRune(buf) {
				break
			}
			return false
		}
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			printable++
		case unicode.IsControl(r):
			control++
		default:
			printable++
		}
		buf = buf[size:]
	}
	return printable > 0 && float64(printable)/float64(printable+control) > 0.95
}
