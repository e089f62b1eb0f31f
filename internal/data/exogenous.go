package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"equilibrium-sim/internal/model"
)

// exogenousHeader fixes the column order of run input files. Reads match
// columns by name, so hand-edited files survive reordering.
var exogenousHeader = []string{"period", "a", "td", "sub", "itc"}

// LoadExogenousCSV reads a run input table: one row per period with the
// technology factor and policy rates.
func LoadExogenousCSV(path string) (model.ExogenousPath, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: empty input file", path)
	}

	idx, err := HeaderIndex(rows[0], exogenousHeader)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	out := make(model.ExogenousPath, 0, len(rows)-1)
	for n, row := range rows[1:] {
		p := NewRowParser(row, idx)
		rec := model.ExoRecord{
			Period:           p.Int("period"),
			Technology:       p.Float("a"),
			DividendTax:      p.Float("td"),
			ProductionCredit: p.Float("sub"),
			InvestmentCredit: p.Float("itc"),
		}
		if err := p.Err(); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, n+1, err)
		}
		out = append(out, rec)
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// WriteExogenousCSV writes a run input table, creating parent directories as
// needed.
func WriteExogenousCSV(path string, exo model.ExogenousPath) error {
	if err := exo.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create input directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(exogenousHeader); err != nil {
		return err
	}
	for _, rec := range exo {
		row := []string{
			strconv.Itoa(rec.Period),
			FormatFloat(rec.Technology),
			FormatFloat(rec.DividendTax),
			FormatFloat(rec.ProductionCredit),
			FormatFloat(rec.InvestmentCredit),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}
