package batch

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"equilibrium-sim/internal/model"
	"equilibrium-sim/internal/simulate"
)

// Options tune a whole batch.
type Options struct {
	// FixedPoint configures the expectations solver shared by all runs.
	// Unset fields take their defaults.
	FixedPoint simulate.FixedPointConfig

	// Workers is the number of runs solved concurrently; values below 1
	// mean sequential.
	Workers int

	// Baselines supplies trajectories from earlier invocations so rolled
	// runs can continue bases that are not part of this batch.
	Baselines map[string]*simulate.Trajectory
}

// Outcome is the terminal status of one run.
type Outcome struct {
	ID         string
	Trajectory *simulate.Trajectory // nil when the run failed
	Err        error                // nil when the run completed
}

// Summary collects a finished batch. A failed run never appears in
// Trajectories and never blocks the rest of the batch.
type Summary struct {
	Trajectories map[string]*simulate.Trajectory
	Failures     map[string]error
}

// FailedIDs returns the failed run ids in stable order.
func (s *Summary) FailedIDs() []string {
	ids := make([]string, 0, len(s.Failures))
	for id := range s.Failures {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// job carries one ready run into the worker pool with its roll base already
// resolved, so workers never touch the shared result maps.
type job struct {
	spec RunSpec
	base *simulate.Trajectory
}

// Run executes every run in specs against one parameter set. Runs are
// isolated: a run that fails is recorded in the summary and the batch moves
// on. Rolled runs wait for their base and are scheduled once it completes;
// a failed or missing base fails only its dependents.
//
// visit, when non-nil, observes each outcome as it lands; calls arrive one
// at a time. Run returns an error only for batch-level problems that stop
// anything from being scheduled.
func Run(ctx context.Context, par model.Parameters, specs []RunSpec, opts Options, visit func(Outcome)) (*Summary, error) {
	if err := par.Validate(); err != nil {
		return nil, fmt.Errorf("model parameters: %w", err)
	}
	fp, err := simulate.NewFixedPoint(opts.FixedPoint.WithDefaults())
	if err != nil {
		return nil, fmt.Errorf("fixed point config: %w", err)
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	inBatch := make(map[string]bool, len(specs))
	for i, s := range specs {
		if s.ID == "" {
			return nil, fmt.Errorf("spec %d has no run id", i)
		}
		if inBatch[s.ID] {
			return nil, fmt.Errorf("duplicate run id %q", s.ID)
		}
		inBatch[s.ID] = true
	}

	sum := &Summary{
		Trajectories: make(map[string]*simulate.Trajectory, len(specs)),
		Failures:     make(map[string]error),
	}
	record := func(out Outcome) {
		if out.Err != nil {
			sum.Failures[out.ID] = out.Err
		} else {
			sum.Trajectories[out.ID] = out.Trajectory
		}
		if visit != nil {
			visit(out)
		}
	}
	engine := simulate.New()

	pending := append([]RunSpec(nil), specs...)
	for len(pending) > 0 {
		if err := ctx.Err(); err != nil {
			for _, s := range pending {
				record(Outcome{ID: s.ID, Err: err})
			}
			break
		}

		// Partition pending runs into those ready now and those still
		// waiting on a base scheduled later in this batch.
		var ready []job
		var waiting []RunSpec
		for _, s := range pending {
			if s.Roll == nil {
				ready = append(ready, job{spec: s})
				continue
			}
			base := s.Roll.Base
			switch {
			case sum.Trajectories[base] != nil:
				ready = append(ready, job{spec: s, base: sum.Trajectories[base]})
			case sum.Failures[base] != nil:
				record(Outcome{ID: s.ID, Err: fmt.Errorf("run %s: base run %q failed: %w", s.ID, base, sum.Failures[base])})
			case inBatch[base]:
				waiting = append(waiting, s)
			case opts.Baselines[base] != nil:
				ready = append(ready, job{spec: s, base: opts.Baselines[base]})
			default:
				record(Outcome{ID: s.ID, Err: &InvalidRunSpecError{Run: s.ID, Reason: fmt.Sprintf("roll base %q is not in this batch or its baselines", base)}})
			}
		}
		if len(ready) == 0 {
			// Nothing can make progress: the remaining rolls depend on
			// each other.
			for _, s := range waiting {
				record(Outcome{ID: s.ID, Err: &InvalidRunSpecError{Run: s.ID, Reason: fmt.Sprintf("unresolvable roll dependency on %q", s.Roll.Base)}})
			}
			break
		}

		runWave(ctx, par, engine, fp, ready, workers, record)
		pending = waiting
	}

	return sum, nil
}

// runWave solves one set of mutually independent runs on a small worker
// pool, feeding outcomes back to the caller's collector as they land.
func runWave(ctx context.Context, par model.Parameters, engine *simulate.Engine, fp *simulate.FixedPoint, jobs []job, workers int, record func(Outcome)) {
	if workers > len(jobs) {
		workers = len(jobs)
	}

	jobsCh := make(chan job)
	results := make(chan Outcome, len(jobs))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobsCh {
				results <- runOne(ctx, par, engine, fp, j)
			}
		}()
	}

	go func() {
		for _, j := range jobs {
			jobsCh <- j
		}
		close(jobsCh)
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	for out := range results {
		record(out)
	}
}

func runOne(ctx context.Context, par model.Parameters, engine *simulate.Engine, fp *simulate.FixedPoint, j job) Outcome {
	s := j.spec
	if err := s.Validate(); err != nil {
		return Outcome{ID: s.ID, Err: err}
	}

	initial := s.Initial
	if initial.Capital == 0 {
		initial.Capital = par.InitialCapital
	}
	if s.Roll != nil {
		if s.Roll.Capital > 0 {
			initial.Capital = s.Roll.Capital
		} else {
			cap, err := j.base.CapitalAt(s.Roll.Year)
			if err != nil {
				return Outcome{ID: s.ID, Err: &InvalidRunSpecError{Run: s.ID, Reason: fmt.Sprintf("roll base %q: %v", s.Roll.Base, err)}}
			}
			initial.Capital = cap
		}
	}

	prices := s.Prices
	if len(prices) == 0 {
		prices = model.ConstantPrices(len(s.Exo), par.SteadyPrice)
	}

	var traj *simulate.Trajectory
	var err error
	switch s.Mode {
	case model.PriceExogenous:
		traj, err = engine.Simulate(par, s.Exo, initial, prices)
	case model.PriceEndogenous:
		if s.Inertial {
			traj, err = fp.SolveInertial(ctx, par, s.Exo, initial, prices[0])
		} else {
			traj, err = fp.Solve(ctx, par, s.Exo, initial, prices)
		}
	}
	if err != nil {
		return Outcome{ID: s.ID, Err: fmt.Errorf("run %s: %w", s.ID, err)}
	}

	traj.RunID = s.ID
	traj.Mode = s.Mode
	if s.Roll != nil && s.Roll.Year > 0 {
		traj, err = simulate.Splice(j.base, traj, s.Roll.Year)
		if err != nil {
			return Outcome{ID: s.ID, Err: fmt.Errorf("run %s: splice onto %q: %w", s.ID, s.Roll.Base, err)}
		}
	}
	return Outcome{ID: s.ID, Trajectory: traj}
}
