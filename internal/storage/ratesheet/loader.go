package ratesheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"rate_desk/internal/adapters/observability"
	"rate_desk/internal/domain"
)

type Loader struct {
	legacy encoding.Encoding // used only for input that is not valid UTF-8
	comma  rune
}

// New resolves charset by its WHATWG label (utf-8, windows-1252, latin1,
// shift_jis, ...). Input that is valid UTF-8 is always read as UTF-8; charset
// decodes everything else, with windows-1252 standing in when charset is
// UTF-8 itself. A zero delimiter means comma.
func New(charset string, delimiter rune) (*Loader, error) {
	if charset == "" {
		charset = "utf-8"
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, fmt.Errorf("unknown rate sheet encoding %q: %w", charset, err)
	}
	if name, _ := htmlindex.Name(enc); name == "utf-8" {
		enc = charmap.Windows1252
	}
	if delimiter == 0 {
		delimiter = ','
	}
	return &Loader{legacy: enc, comma: delimiter}, nil
}

// Load reads a rate sheet. Delimited text and .xlsx workbooks are supported.
func (l *Loader) Load(path string) (domain.RateTable, error) {
	records, err := l.read(path)
	if err != nil {
		observability.ObserveLoad("unavailable", 0)
		return domain.RateTable{}, err
	}
	t, err := build(path, records)
	if err != nil {
		observability.ObserveLoad("schema", 0)
		return domain.RateTable{}, err
	}
	observability.ObserveLoad("ok", len(t.Rows))
	log.Debug().Str("path", path).Int("rows", len(t.Rows)).Msg("rate sheet loaded")
	return t, nil
}

func (l *Loader) read(path string) ([][]string, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDataUnavailable, err)
	}
	if st.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrDataUnavailable, path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readWorkbook(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDataUnavailable, err)
	}
	return l.readDelimited(data)
}

func (l *Loader) readDelimited(data []byte) ([][]string, error) {
	enc := l.legacy
	if utf8.Valid(data) {
		enc = unicode.UTF8
	}
	// BOMOverride switches to UTF-8/16 when the file starts with a byte order mark.
	dec := transform.NewReader(bytes.NewReader(data), unicode.BOMOverride(enc.NewDecoder()))

	cr := csv.NewReader(dec)
	cr.Comma = l.comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	var out [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: parse rate sheet: %v", domain.ErrDataUnavailable, err)
		}
		out = append(out, rec)
	}
}

// build maps raw records onto rows. Header cells are trimmed; values are
// trimmed at both ends only, so multi-line remarks keep their line breaks.
func build(path string, records [][]string) (domain.RateTable, error) {
	t := domain.RateTable{Source: path}
	if len(records) == 0 {
		return t, &domain.SchemaError{Path: path, Column: domain.RequiredColumns[0]}
	}

	header := records[0]
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	t.Columns = cols

	for _, req := range domain.RequiredColumns {
		if !t.HasColumn(req) {
			return domain.RateTable{}, &domain.SchemaError{Path: path, Column: req}
		}
	}

	for _, rec := range records[1:] {
		var row domain.RateRow
		for i, v := range rec {
			if i >= len(cols) {
				break
			}
			row.Set(cols[i], strings.TrimSpace(v))
		}
		if row.CityCode == "" || row.Hotel == "" {
			continue
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
