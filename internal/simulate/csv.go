package simulate

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"equilibrium-sim/internal/data"
	"equilibrium-sim/internal/model"
)

// trajectoryHeader fixes the column order of trajectory CSV files. Reads
// match columns by name, so files survive reordering, but writes always use
// this order.
var trajectoryHeader = []string{
	"period",
	"a",
	"td",
	"sub",
	"itc",
	"p",
	"p_net",
	"pk_net",
	"gamma",
	"lam_ss",
	"inv_ss",
	"cap_ss",
	"lam",
	"cap",
	"inv",
	"q",
	"cons",
	"rev_ptc",
	"rev_itc",
	"p_market",
	"p_diff",
}

// WriteTrajectoryCSV writes a solved trajectory as one row per period. Values
// keep full precision; rolled runs inherit their initial capital from these
// files.
func WriteTrajectoryCSV(path string, tr *Trajectory) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(trajectoryHeader); err != nil {
		return err
	}

	for _, r := range tr.Results {
		row := []string{
			strconv.Itoa(r.Period),
			data.FormatFloat(r.Technology),
			data.FormatFloat(r.DividendTax),
			data.FormatFloat(r.ProductionCredit),
			data.FormatFloat(r.InvestmentCredit),
			data.FormatFloat(r.Price),
			data.FormatFloat(r.NetPrice),
			data.FormatFloat(r.NetCapitalPrice),
			data.FormatFloat(r.Gamma),
			data.FormatFloat(r.ShadowSteady),
			data.FormatFloat(r.InvestSteady),
			data.FormatFloat(r.CapitalSteady),
			data.FormatFloat(r.Shadow),
			data.FormatFloat(r.Capital),
			data.FormatFloat(r.Investment),
			data.FormatFloat(r.Output),
			data.FormatFloat(r.Consumption),
			data.FormatFloat(r.RevPTC),
			data.FormatFloat(r.RevITC),
			data.FormatFloat(r.MarketPrice),
			data.FormatFloat(r.PriceGap),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

// ReadTrajectoryCSV loads a trajectory file written by WriteTrajectoryCSV.
func ReadTrajectoryCSV(path string) ([]model.PeriodResult, error) {
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
		return nil, fmt.Errorf("%s: empty trajectory file", path)
	}

	idx, err := data.HeaderIndex(rows[0], trajectoryHeader)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	out := make([]model.PeriodResult, 0, len(rows)-1)
	for n, row := range rows[1:] {
		p := data.NewRowParser(row, idx)
		rec := model.PeriodResult{
			Period:           p.Int("period"),
			Technology:       p.Float("a"),
			DividendTax:      p.Float("td"),
			ProductionCredit: p.Float("sub"),
			InvestmentCredit: p.Float("itc"),
			Price:            p.Float("p"),
			NetPrice:         p.Float("p_net"),
			NetCapitalPrice:  p.Float("pk_net"),
			Gamma:            p.Float("gamma"),
			ShadowSteady:     p.Float("lam_ss"),
			InvestSteady:     p.Float("inv_ss"),
			CapitalSteady:    p.Float("cap_ss"),
			Shadow:           p.Float("lam"),
			Capital:          p.Float("cap"),
			Investment:       p.Float("inv"),
			Output:           p.Float("q"),
			Consumption:      p.Float("cons"),
			RevPTC:           p.Float("rev_ptc"),
			RevITC:           p.Float("rev_itc"),
			MarketPrice:      p.Float("p_market"),
			PriceGap:         p.Float("p_diff"),
		}
		if err := p.Err(); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, n+1, err)
		}
		out = append(out, rec)
	}
	return out, nil
}
