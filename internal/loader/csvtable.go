package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// csvTable reads a headed CSV and resolves fields by column name.
type csvTable struct {
	name string
	r    *csv.Reader
	cols map[string]int
	rec  []string
	line int
}

func newCSVTable(name string, src io.Reader, required ...string) (*csvTable, error) {
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.ReuseRecord = true

	hdr, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", name, err)
	}
	cols := make(map[string]int, len(hdr))
	for i, h := range hdr {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := cols[h]; !dup {
			cols[h] = i
		}
	}
	var missing []string
	for _, c := range required {
		if _, ok := cols[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%s: required columns missing: %s", name, strings.Join(missing, ", "))
	}
	return &csvTable{name: name, r: r, cols: cols, line: 1}, nil
}

// next advances to the next record. It returns false at EOF.
func (t *csvTable) next() (bool, error) {
	rec, err := t.r.Read()
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	t.line++
	if err != nil {
		return false, fmt.Errorf("%s: line %d: %w", t.name, t.line, err)
	}
	t.rec = rec
	return true, nil
}

func (t *csvTable) has(col string) bool {
	_, ok := t.cols[col]
	return ok
}

// str returns the trimmed field, or "" when the column is absent or short.
func (t *csvTable) str(col string) string {
	i, ok := t.cols[col]
	if !ok || i >= len(t.rec) {
		return ""
	}
	return strings.TrimSpace(t.rec[i])
}

func (t *csvTable) fieldErr(col string, err error) error {
	return fmt.Errorf("%s: line %d: column %s: %w", t.name, t.line, col, err)
}

func isNA(s string) bool {
	return s == "" || s == "NA" || s == "NaN" || s == "nan"
}

// int64 parses a required integer field. Pandas-style "123.0" is accepted.
func (t *csvTable) int64(col string) (int64, error) {
	s := t.str(col)
	if isNA(s) {
		return 0, t.fieldErr(col, fmt.Errorf("missing value"))
	}
	return t.parseInt(col, s)
}

// optInt64 parses an integer field, returning 0 when it is missing.
func (t *csvTable) optInt64(col string) (int64, error) {
	s := t.str(col)
	if isNA(s) {
		return 0, nil
	}
	return t.parseInt(col, s)
}

func (t *csvTable) parseInt(col, s string) (int64, error) {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, t.fieldErr(col, fmt.Errorf("invalid integer %q", s))
	}
	return int64(f), nil
}

// float parses a numeric field, returning NaN when it is missing.
func (t *csvTable) float(col string) (float64, error) {
	s := t.str(col)
	if isNA(s) {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, t.fieldErr(col, fmt.Errorf("invalid number %q", s))
	}
	return v, nil
}

// flag parses a 0/1 credit column; missing counts as 0.
func (t *csvTable) flag(col string) (bool, error) {
	v, err := t.optInt64(col)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}
