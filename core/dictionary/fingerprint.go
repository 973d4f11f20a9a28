package dictionary

import (
	"encoding/hex"
	"strconv"

	"github.com/zeebo/blake3"
)

// Fingerprint returns the BLAKE3 hash of the dictionary's ranks and groups.
// Two dictionaries with the same offset and groups share a fingerprint
// regardless of name.
func (d *Dictionary) Fingerprint() string {
	h := blake3.New()
	h.Write([]byte(strconv.Itoa(d.Offset)))
	for _, g := range d.Groups {
		h.Write([]byte{0x1e})
		h.Write([]byte(g))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// CompileKey identifies the level map produced by d.Compile(o, threshold).
func (d *Dictionary) CompileKey(o Overrides, threshold int) string {
	h := blake3.New()
	h.Write([]byte(d.Fingerprint()))
	h.Write([]byte{0x1f})
	h.Write([]byte(o.Known.String()))
	h.Write([]byte{0x1f})
	h.Write([]byte(o.Seen.String()))
	h.Write([]byte{0x1f})
	h.Write([]byte(strconv.Itoa(threshold)))
	return hex.EncodeToString(h.Sum(nil))
}
