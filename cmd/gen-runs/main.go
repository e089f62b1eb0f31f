package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"

	"equilibrium-sim/internal/data"
	"equilibrium-sim/internal/model"
)

func main() {
	var (
		outDir  = flag.String("out", "inputs", "Directory to write run input files into")
		horizon = flag.Int("horizon", 30, "Last period T (each file covers 0..T)")
	)
	flag.Parse()

	if *horizon < 10 {
		log.Fatal("horizon must be at least 10 so the windowed scenarios fit")
	}

	files := []struct {
		name string
		exo  model.ExogenousPath
	}{
		{"r01-baseline.csv", neutral(*horizon)},
		{"r02-ptc.csv", window(neutral(*horizon), 5, 9, func(r *model.ExoRecord) { r.ProductionCredit = 0.10 })},
		{"r03-itc.csv", window(neutral(*horizon), 5, 9, func(r *model.ExoRecord) { r.InvestmentCredit = 0.30 })},
		{"r04-inertial.csv", window(neutral(*horizon), 5, *horizon, func(r *model.ExoRecord) { r.ProductionCredit = 0.05 })},
		{"r05-roll.csv", window(neutral(*horizon), 10, *horizon, func(r *model.ExoRecord) { r.ProductionCredit = 0.10 })},
	}

	fmt.Printf("Writing %d scenario files to %s\n", len(files), *outDir)
	for _, f := range files {
		path := filepath.Join(*outDir, f.name)
		if err := data.WriteExogenousCSV(path, f.exo); err != nil {
			log.Fatalf("Failed to write %s: %v", path, err)
		}
		fmt.Printf("  wrote %s (%d periods)\n", path, len(f.exo))
	}
	fmt.Println("Done. Point input_dir at the directory and run `cli run`.")
}

// neutral builds a no-policy path: unit technology, zero rates.
func neutral(horizon int) model.ExogenousPath {
	return model.ConstantPath(horizon, model.ExoRecord{Technology: 1})
}

// window applies set to periods from..to and returns the same path.
func window(exo model.ExogenousPath, from, to int, set func(*model.ExoRecord)) model.ExogenousPath {
	for t := from; t <= to && t < len(exo); t++ {
		set(&exo[t])
	}
	return exo
}
