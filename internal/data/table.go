package data

import (
	"fmt"
	"strconv"
)

// HeaderIndex maps a header row to column positions and checks that every
// required column is present. Readers match columns by name, so hand-edited
// files survive reordering.
func HeaderIndex(header, required []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}
	for _, name := range required {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}
	return idx, nil
}

// FormatFloat keeps full precision so written tables read back bit-equal.
func FormatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// RowParser pulls typed values out of one CSV row, remembering the first
// parse failure instead of erroring on every column.
type RowParser struct {
	row []string
	idx map[string]int
	err error
}

// NewRowParser wraps one row with the column index built by HeaderIndex.
func NewRowParser(row []string, idx map[string]int) *RowParser {
	return &RowParser{row: row, idx: idx}
}

func (p *RowParser) Float(name string) float64 {
	if p.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(p.row[p.idx[name]], 64)
	if err != nil {
		p.err = fmt.Errorf("column %q: %w", name, err)
	}
	return v
}

func (p *RowParser) Int(name string) int {
	if p.err != nil {
		return 0
	}
	v, err := strconv.Atoi(p.row[p.idx[name]])
	if err != nil {
		p.err = fmt.Errorf("column %q: %w", name, err)
	}
	return v
}

// Err reports the first parse failure, or nil.
func (p *RowParser) Err() error {
	return p.err
}
