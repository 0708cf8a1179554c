package sim

import (
	"fmt"
	"time"
)

// PhysicalConstants groups reservoir fluid and depletion parameters.
// Loaded once at initialization from the fluid/PVT builder and treated as
// read-only for the life of the run.
type PhysicalConstants struct {
	OilCompressibility   float64 // 1/psi (must be > 0)
	WaterCompressibility float64 // 1/psi (must be >= 0)
	BubblePointPressure  float64 // psi; below this, solution gas liberates
	GasLiberationRate    float64 // fraction of oil saturation converted per step below bubble point
	LiberationOnsetStep  int     // steps before first gas breakout is allowed (calibrated, not derived)
	AbandonmentPressure  float64 // psi floor; pressure never reported below this
	InitialPressure      float64 // psi at time zero
	OOIP                 float64 // original oil in place, stock-tank barrels (0 = derive from grid)
	WaterFVF             float64 // water formation volume factor (default 1.0)
}

// Validate checks constants before the run enters the Running state.
func (c PhysicalConstants) Validate() error {
	if c.OilCompressibility <= 0 {
		return fmt.Errorf("%w: oil compressibility must be > 0", ErrBadScenario)
	}
	if c.WaterCompressibility < 0 {
		return fmt.Errorf("%w: water compressibility must be >= 0", ErrBadScenario)
	}
	if c.BubblePointPressure < 0 {
		return fmt.Errorf("%w: bubble point pressure must be >= 0", ErrBadScenario)
	}
	if c.GasLiberationRate < 0 || c.GasLiberationRate >= 1 {
		return fmt.Errorf("%w: gas liberation rate must be in [0,1)", ErrBadScenario)
	}
	if c.LiberationOnsetStep < 0 {
		return fmt.Errorf("%w: liberation onset step must be >= 0", ErrBadScenario)
	}
	if c.AbandonmentPressure < 0 {
		return fmt.Errorf("%w: abandonment pressure must be >= 0", ErrBadScenario)
	}
	if c.InitialPressure <= c.AbandonmentPressure {
		return fmt.Errorf("%w: initial pressure must exceed abandonment pressure", ErrBadScenario)
	}
	return nil
}

// StepConfig groups time-discretization parameters.
type StepConfig struct {
	HorizonMonths int     // total number of monthly steps (must be > 0)
	DaysPerStep   float64 // calendar days per step (default 30.4375)
}

// SolverConfig groups flow-solve retry parameters.
type SolverConfig struct {
	RetryBudget int // max retries per step on non-convergence (default 3)
}

// SimulationContext carries every input the engine reads during a run.
// Constructed once at startup; components receive it explicitly and never
// read global state.
type SimulationContext struct {
	Constants PhysicalConstants
	Grid      *Grid
	PVT       *PVTTable
	Wells     []WellDefinition
	Step      StepConfig
	Solver    SolverConfig

	// InitialSaturations seed every region at time zero. Must sum to 1
	// within SaturationTolerance.
	InitialSaturations Saturations

	// SaturationTolerance bounds both the normalization check and the
	// fatal-negativity threshold (default 1e-6).
	SaturationTolerance float64

	// WallClockBudget aborts the run at the next step boundary once
	// exceeded. Zero means unlimited.
	WallClockBudget time.Duration
}

// HorizonDays returns the calendar length of the run.
func (ctx *SimulationContext) HorizonDays() float64 {
	return float64(ctx.Step.HorizonMonths) * ctx.Step.DaysPerStep
}

// OOIPEstimate returns the configured OOIP, or derives it from grid pore
// volume and initial saturations when the scenario leaves it zero.
func (ctx *SimulationContext) OOIPEstimate(initial *ReservoirState) float64 {
	if ctx.Constants.OOIP > 0 {
		return ctx.Constants.OOIP
	}
	bo := ctx.PVT.OilFVF(ctx.Constants.InitialPressure)
	var ooip float64
	for i, r := range ctx.Grid.Regions {
		ooip += r.PoreVolume * initial.Regions[i].Sat.Oil / bo
	}
	return ooip
}

// Validate checks the whole context before the Running state is entered.
// Configuration errors here are fatal per the error taxonomy.
func (ctx *SimulationContext) Validate() error {
	if ctx.Grid == nil {
		return fmt.Errorf("%w: grid is required", ErrBadScenario)
	}
	if err := ctx.Grid.Validate(); err != nil {
		return err
	}
	if ctx.PVT == nil {
		return fmt.Errorf("%w: PVT table is required", ErrBadScenario)
	}
	if err := ctx.Constants.Validate(); err != nil {
		return err
	}
	if ctx.Step.HorizonMonths <= 0 {
		return fmt.Errorf("%w: horizon must be > 0 months", ErrBadScenario)
	}
	if ctx.Step.DaysPerStep <= 0 {
		return fmt.Errorf("%w: days per step must be > 0", ErrBadScenario)
	}
	if ctx.Solver.RetryBudget < 0 {
		return fmt.Errorf("%w: solver retry budget must be >= 0", ErrBadScenario)
	}
	tol := ctx.SaturationTolerance
	if tol <= 0 {
		tol = 1e-6
	}
	if d := ctx.InitialSaturations.Sum() - 1; d > tol || d < -tol {
		return fmt.Errorf("%w: initial saturations sum to %.8f, want 1", ErrBadScenario, ctx.InitialSaturations.Sum())
	}
	if ctx.InitialSaturations.Water < 0 || ctx.InitialSaturations.Oil < 0 || ctx.InitialSaturations.Gas < 0 {
		return fmt.Errorf("%w: initial saturations must be >= 0", ErrBadScenario)
	}
	if len(ctx.Wells) == 0 {
		return fmt.Errorf("%w: at least one well is required", ErrBadScenario)
	}
	seen := make(map[string]bool, len(ctx.Wells))
	for _, w := range ctx.Wells {
		if err := w.Validate(); err != nil {
			return err
		}
		if seen[w.ID] {
			return fmt.Errorf("%w: duplicate well ID %q", ErrBadScenario, w.ID)
		}
		seen[w.ID] = true
	}
	return nil
}
