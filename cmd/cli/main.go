package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"equilibrium-sim/internal/analysis"
	"equilibrium-sim/internal/batch"
	"equilibrium-sim/internal/config"
	"equilibrium-sim/internal/data"
	"equilibrium-sim/internal/model"
	"equilibrium-sim/internal/simulate"

	"github.com/fatih/color"
)

var (
	doneStyle = color.New(color.FgGreen)
	skipStyle = color.New(color.FgYellow)
	failStyle = color.New(color.FgRed)
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "run":
		cmdRun(os.Args[2:])
	case "steady":
		cmdSteady(os.Args[2:])
	case "compare":
		cmdCompare(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli run --config examples/model.yaml [--base-only] [--force]")
	fmt.Println("  cli steady --config examples/model.yaml [-p 1.0] [-sub 0.1] [-itc 0]")
	fmt.Println("  cli compare --config examples/model.yaml --scenario r02-ptc [--base r01-baseline]")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - run solves every r*.csv under input_dir and writes one trajectory CSV per run")
	fmt.Println("  - runs whose output already exists are skipped unless --force or base_only is set")
	fmt.Println("  - steady prints the closed-form stock and flow levels for one policy mix")
	fmt.Println("  - compare diffs two finished trajectory CSVs period by period")
}

func cmdRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	baseOnly := fs.Bool("base-only", false, "Solve only the baseline run")
	force := fs.Bool("force", false, "Recompute runs whose output already exists")
	_ = fs.Parse(args)

	if *cfgPath == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		panic(err)
	}
	if *baseOnly {
		cfg.BaseOnly = true
	}
	if *force {
		cfg.Force = true
	}

	mode := cfg.Mode()
	outDir := cfg.OutputDir(mode)

	files, err := data.ListRunFiles(cfg.InputDir)
	if err != nil {
		panic(err)
	}
	if cfg.BaseOnly {
		kept := files[:0]
		for _, f := range files {
			if f.ID == cfg.Baseline {
				kept = append(kept, f)
			}
		}
		files = kept
		if len(files) == 0 {
			fmt.Printf("baseline %s not found in %s\n", cfg.Baseline, cfg.InputDir)
			os.Exit(2)
		}
	}
	if len(files) == 0 {
		fmt.Printf("no run inputs found in %s\n", cfg.InputDir)
		os.Exit(2)
	}

	// Runs whose output file already exists are up to date; base-only
	// invocations always recompute the baseline.
	var specs []batch.RunSpec
	skipped := 0
	for _, f := range files {
		outPath := filepath.Join(outDir, f.ID+".csv")
		if !cfg.Force && !cfg.BaseOnly {
			if _, err := os.Stat(outPath); err == nil {
				skipStyle.Printf("skip %s: %s exists\n", f.ID, outPath)
				skipped++
				continue
			}
		}

		exo, err := data.LoadExogenousCSV(f.Path)
		if err != nil {
			panic(err)
		}
		if cfg.HorizonLength > 0 && cfg.HorizonLength < exo.Horizon() {
			exo, err = exo.Truncate(cfg.HorizonLength)
			if err != nil {
				panic(err)
			}
		}

		spec := batch.RunSpec{ID: f.ID, Mode: mode, Exo: exo}
		if mode == model.PriceEndogenous && hasString(cfg.Inertial, f.ID) {
			spec.Inertial = true
		}
		if rc, ok := cfg.Roll[f.ID]; ok {
			spec.Roll = &batch.RollSpec{Base: rc.Base, Year: rc.Year, Capital: rc.Cap0}
		}
		specs = append(specs, spec)
	}
	if len(specs) == 0 {
		fmt.Printf("all %d runs up to date in %s (use --force to recompute)\n", skipped, outDir)
		return
	}

	par := cfg.ToParameters()

	// Rolls onto a run solved by an earlier invocation read the base back
	// from its output file.
	inBatch := make(map[string]bool, len(specs))
	for _, s := range specs {
		inBatch[s.ID] = true
	}
	baselines := map[string]*simulate.Trajectory{}
	for _, s := range specs {
		if s.Roll == nil || inBatch[s.Roll.Base] || baselines[s.Roll.Base] != nil {
			continue
		}
		tr, err := readTrajectory(outDir, s.Roll.Base, mode, par)
		if err != nil {
			failStyle.Printf("roll base %s: %v\n", s.Roll.Base, err)
			continue
		}
		baselines[s.Roll.Base] = tr
	}

	// ensure output dir exists
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		panic(err)
	}

	opts := batch.Options{
		FixedPoint: cfg.ToFixedPointConfig(),
		Workers:    cfg.Workers,
		Baselines:  baselines,
	}
	written := 0
	sum, err := batch.Run(context.Background(), par, specs, opts, func(out batch.Outcome) {
		if out.Err != nil {
			failStyle.Printf("fail %s: %v\n", out.ID, out.Err)
			return
		}
		outPath := filepath.Join(outDir, out.ID+".csv")
		if err := simulate.WriteTrajectoryCSV(outPath, out.Trajectory); err != nil {
			panic(err)
		}
		written++
		tr := out.Trajectory
		if mode == model.PriceEndogenous {
			doneStyle.Printf("done %s: %d periods, %d iterations, residual %.3g -> %s\n",
				out.ID, len(tr.Results), tr.Iterations, tr.Residual, outPath)
		} else {
			doneStyle.Printf("done %s: %d periods -> %s\n", out.ID, len(tr.Results), outPath)
		}
	})
	if err != nil {
		panic(err)
	}

	if tr := sum.Trajectories[cfg.Baseline]; tr != nil {
		last := tr.Results[len(tr.Results)-1]
		fmt.Printf("baseline %s: final cap=%.4f q=%.4f p_market=%.4f\n",
			cfg.Baseline, tr.FinalState.Capital, last.Output, last.MarketPrice)
	}
	for _, s := range specs {
		tr := sum.Trajectories[s.ID]
		if tr == nil {
			continue
		}
		rec := peakCredit(tr)
		if rec.ProductionCredit > 0 {
			itc := analysis.BenchmarkITC(par, par.SteadyPrice, rec.Technology, rec.ProductionCredit)
			fmt.Printf("%s: sub=%.3f matches itc=%.4f in steady investment\n", s.ID, rec.ProductionCredit, itc)
		}
	}

	fmt.Printf("Solved %d runs (%d skipped, %d failed), %s mode\n",
		written, skipped, len(sum.Failures), mode)
	if len(sum.Failures) > 0 {
		os.Exit(1)
	}
}

func cmdSteady(args []string) {
	fs := flag.NewFlagSet("steady", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	price := fs.Float64("p", 0, "Output price (0 = steady price from config)")
	tech := fs.Float64("a", 1, "Technology factor")
	td := fs.Float64("td", 0, "Dividend tax rate")
	sub := fs.Float64("sub", 0, "Production credit rate")
	itc := fs.Float64("itc", 0, "Investment credit rate")
	_ = fs.Parse(args)

	if *cfgPath == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		panic(err)
	}
	par := cfg.ToParameters()
	p := *price
	if p == 0 {
		p = par.SteadyPrice
	}

	rec := model.ExoRecord{Technology: *tech, DividendTax: *td, ProductionCredit: *sub, InvestmentCredit: *itc}
	block, err := analysis.SteadyState(par, rec, p)
	if err != nil {
		panic(err)
	}

	rows := []struct {
		name  string
		value float64
	}{
		{"p", block.Price},
		{"p_net", block.NetPrice},
		{"pk_net", block.NetCapitalPrice},
		{"gamma", block.Gamma},
		{"lam_ss", block.Shadow},
		{"inv_ss", block.Investment},
		{"cap_ss", block.Capital},
		{"q_ss", block.Output},
		{"p_market", block.MarketPrice},
	}
	for _, r := range rows {
		fmt.Printf("%-10s %12.6f\n", r.name, r.value)
	}
	if *sub > 0 {
		fmt.Printf("%-10s %12.6f\n", "itc_equiv", analysis.BenchmarkITC(par, p, *tech, *sub))
	}
}

func cmdCompare(args []string) {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	baseID := fs.String("base", "", "Baseline run id (default: config baseline)")
	scenID := fs.String("scenario", "", "Scenario run id")
	_ = fs.Parse(args)

	if *cfgPath == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}
	if *scenID == "" {
		fmt.Println("--scenario is required")
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		panic(err)
	}
	mode := cfg.Mode()
	outDir := cfg.OutputDir(mode)
	par := cfg.ToParameters()
	base := *baseID
	if base == "" {
		base = cfg.Baseline
	}

	baseTr, err := readTrajectory(outDir, base, mode, par)
	if err != nil {
		panic(err)
	}
	scenTr, err := readTrajectory(outDir, *scenID, mode, par)
	if err != nil {
		panic(err)
	}

	cmp, err := analysis.Compare(baseTr, scenTr)
	if err != nil {
		panic(err)
	}

	fmt.Printf("%s vs %s (%s mode, scenario minus base)\n", cmp.ScenarioID, cmp.BaseID, mode)
	fmt.Printf("%-8s %-12s %-12s %-12s %-12s %-12s %-12s\n",
		"period", "dq", "dinv", "dcap", "dp_market", "drev_ptc", "drev_itc")
	for _, d := range cmp.Deltas {
		fmt.Printf("%-8d %-12.6f %-12.6f %-12.6f %-12.6f %-12.6f %-12.6f\n",
			d.Period, d.Output, d.Investment, d.Capital, d.MarketPrice, d.RevPTC, d.RevITC)
	}
	fmt.Printf("mean dq=%.6f peak dq=%.6f peak dcap=%.6f\n", cmp.MeanOutput, cmp.PeakOutput, cmp.PeakCapital)
	fmt.Printf("credit cost over base: ptc=%.4f itc=%.4f\n", cmp.TotalRevPTC, cmp.TotalRevITC)
}

func readTrajectory(dir, id string, mode model.Mode, par model.Parameters) (*simulate.Trajectory, error) {
	results, err := simulate.ReadTrajectoryCSV(filepath.Join(dir, id+".csv"))
	if err != nil {
		return nil, err
	}
	return &simulate.Trajectory{
		RunID:      id,
		Mode:       mode,
		Results:    results,
		FinalState: simulate.FinalStateFrom(results, par.Depreciation),
	}, nil
}

func peakCredit(tr *simulate.Trajectory) model.PeriodResult {
	best := tr.Results[0]
	for _, r := range tr.Results {
		if r.ProductionCredit > best.ProductionCredit {
			best = r
		}
	}
	return best
}

func hasString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
