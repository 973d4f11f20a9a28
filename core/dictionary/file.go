package dictionary

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/KanjiLens/core/errors"
)

// Format names a serialised dictionary form.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// MaxFileSize bounds the decompressed size of a dictionary file (16 MB).
const MaxFileSize = 16 << 20

// Load reads a dictionary file. A ".xz" suffix selects xz decompression;
// the remaining extension picks the format (".json", ".txt"), and any
// other extension is sniffed from the content. The dictionary is named
// after the file.
func Load(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	defer f.Close()

	base := filepath.Base(path)
	var r io.Reader = f
	if strings.HasSuffix(base, ".xz") {
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, &errors.DictionaryFormatError{Source: path, Group: -1, Message: "invalid xz stream", Err: err}
		}
		r = xr
		base = strings.TrimSuffix(base, ".xz")
	}

	name := strings.TrimSuffix(base, filepath.Ext(base))
	return Read(r, name, formatForExt(filepath.Ext(base)))
}

// Read decodes a dictionary from r. An empty format sniffs the content:
// input starting with '[' or '{' is JSON, anything else is text.
func Read(r io.Reader, name string, format Format) (*Dictionary, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return nil, errors.NewIO("read", name, err)
	}
	if len(data) > MaxFileSize {
		return nil, errors.NewDictionaryFormat(name, -1, fmt.Sprintf("larger than %d bytes", MaxFileSize))
	}

	if format == "" {
		format = sniff(data)
	}
	switch format {
	case FormatJSON:
		return ParseJSON(name, data)
	case FormatText:
		return ParseText(name, data)
	}
	return nil, errors.NewValidation("format", fmt.Sprintf("unknown dictionary format %q", format))
}

// Save writes d to path in the format implied by its extension, xz
// compressed when the path ends in ".xz". Unknown extensions get JSON.
func Save(path string, d *Dictionary) error {
	base := filepath.Base(path)
	compress := strings.HasSuffix(base, ".xz")
	format := formatForExt(filepath.Ext(strings.TrimSuffix(base, ".xz")))
	if format == "" {
		format = FormatJSON
	}

	var buf bytes.Buffer
	if err := Write(&buf, d, format, compress); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return errors.NewIO("write", path, err)
	}
	return nil
}

// Write encodes d to w.
func Write(w io.Writer, d *Dictionary, format Format, compress bool) error {
	var data []byte
	switch format {
	case FormatJSON, "":
		b, err := d.JSON()
		if err != nil {
			return fmt.Errorf("encoding dictionary: %w", err)
		}
		data = append(b, '\n')
	case FormatText:
		data = d.Text()
	default:
		return errors.NewValidation("format", fmt.Sprintf("unknown dictionary format %q", format))
	}

	if !compress {
		_, err := w.Write(data)
		return err
	}

	xw, err := xz.NewWriter(w)
	if err != nil {
		return fmt.Errorf("creating xz writer: %w", err)
	}
	if _, err := xw.Write(data); err != nil {
		xw.Close()
		return fmt.Errorf("compressing dictionary: %w", err)
	}
	return xw.Close()
}

func formatForExt(ext string) Format {
	switch strings.ToLower(ext) {
	case ".json":
		return FormatJSON
	case ".txt", ".text", ".dict":
		return FormatText
	}
	return ""
}

func sniff(data []byte) Format {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		return FormatJSON
	}
	return FormatText
}
