// sim/simulator.go
package sim

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// RunState is the orchestrator's lifecycle state.
type RunState string

const (
	StateUninitialized RunState = "uninitialized"
	StateRunning       RunState = "running"
	StateCompleted     RunState = "completed"
	StateAborted       RunState = "aborted"
)

// StepResult is the append-only snapshot taken at the end of every step.
// Never mutated after creation; the history sequence is the run's primary
// output.
type StepResult struct {
	Step        int              `json:"step"`
	Day         float64          `json:"day"`
	State       ReservoirState   `json:"state"`
	ActiveWells []string         `json:"active_wells"`
	Rates       []WellRates      `json:"rates"`
	Ledger      ProductionLedger `json:"ledger"`
	Metrics     DerivedMetrics   `json:"metrics"`
	Warnings    []Warning        `json:"warnings,omitempty"`
}

// HistorySink receives step snapshots as they are produced. Sink failures
// are logged and do not abort the run; the in-memory history is
// authoritative.
type HistorySink interface {
	AppendStep(*StepResult) error
}

// Simulator is the timestep orchestrator. It owns ReservoirState and the
// ProductionLedger exclusively for the lifetime of a run; components receive
// values or short-lived pointers and hold no long-lived references, so no
// locking is needed. Steps run strictly sequentially.
type Simulator struct {
	ctx    *SimulationContext
	solver FlowSolver
	sink   HistorySink

	State       RunState
	Reservoir   *ReservoirState
	Activation  *WellActivationState
	Ledger      ProductionLedger
	History     []StepResult
	StepCount   int
	AbortReason string

	// defaults resolved at construction so the caller's context is never
	// mutated
	satTol   float64
	waterFVF float64

	ooip    float64
	started time.Time
}

// NewSimulator validates the context and builds a run in the Uninitialized
// state. Configuration errors are fatal here, before Running is ever
// entered. sink may be nil.
func NewSimulator(ctx *SimulationContext, solver FlowSolver, sink HistorySink) (*Simulator, error) {
	if err := ctx.Validate(); err != nil {
		return nil, err
	}
	if solver == nil {
		return nil, fmt.Errorf("%w: flow solver is required", ErrBadScenario)
	}

	s := &Simulator{
		ctx:        ctx,
		solver:     solver,
		sink:       sink,
		State:      StateUninitialized,
		Reservoir:  NewReservoirState(ctx.Grid, ctx.Constants.InitialPressure, ctx.InitialSaturations),
		Activation: NewWellActivationState(),
		satTol:     ctx.SaturationTolerance,
		waterFVF:   ctx.Constants.WaterFVF,
	}
	if s.satTol <= 0 {
		s.satTol = 1e-6
	}
	if s.waterFVF <= 0 {
		s.waterFVF = 1.0
	}
	s.ooip = ctx.OOIPEstimate(s.Reservoir)
	return s, nil
}

// OOIP returns the original-oil-in-place estimate the run uses for recovery
// factor.
func (s *Simulator) OOIP() float64 { return s.ooip }

// Run advances the full horizon. Returns nil on completion, or the abort
// cause; either way the history holds every step produced (no rollback).
// Run may be called once per Simulator.
func (s *Simulator) Run() error {
	if s.State != StateUninitialized {
		return fmt.Errorf("run already started (state %s)", s.State)
	}
	s.State = StateRunning
	s.started = time.Now()
	logrus.Infof("run started: %d monthly steps, %d wells, OOIP %.0f stb",
		s.ctx.Step.HorizonMonths, len(s.ctx.Wells), s.ooip)

	for i := 1; i <= s.ctx.Step.HorizonMonths; i++ {
		// cancellation is honored at step boundaries only
		if s.ctx.WallClockBudget > 0 && time.Since(s.started) > s.ctx.WallClockBudget {
			s.abort(i, errors.New("wall-clock budget exceeded"))
			break
		}
		if err := s.step(i); err != nil {
			s.abort(i, err)
			break
		}
	}

	if s.State == StateRunning {
		s.State = StateCompleted
		logrus.Infof("run completed: %d steps, recovery factor %.4f", s.StepCount, s.finalMetrics().RecoveryFactor)
		return nil
	}
	return fmt.Errorf("run aborted: %s", s.AbortReason)
}

func (s *Simulator) abort(step int, cause error) {
	s.State = StateAborted
	s.AbortReason = fmt.Sprintf("step %d: %v", step, cause)
	logrus.Errorf("run aborted at %s", s.AbortReason)
}

// step executes one monthly iteration: schedule, flow solve (with bounded
// retries), pressure, liberation, saturation update, accounting, snapshot.
func (s *Simulator) step(idx int) error {
	ctx := s.ctx
	day := float64(idx-1) * ctx.Step.DaysPerStep

	var warnings []Warning
	active, warns := s.Activation.Resolve(day, ctx.Wells, ctx.HorizonDays(), idx)
	warnings = append(warnings, warns...)

	res, retryWarns, err := s.solveWithRetries(idx, active)
	warnings = append(warnings, retryWarns...)
	if err != nil {
		return err
	}

	// integrate volumes at the pre-update field pressure; accounting always
	// covers the full month even when the solver converged at a reduced
	// internal step
	fieldP := s.Reservoir.FieldPressure(ctx.Grid)
	vols := IntegrateStep(res.Rates, ctx.Step.DaysPerStep, ctx.PVT, fieldP, s.waterFVF)
	s.Reservoir.CumNetWithdrawal += vols.NetWithdrawalRV()

	totalPV := ctx.Grid.TotalPoreVolume()
	for ri, region := range ctx.Grid.Regions {
		share := region.PoreVolume / totalPV
		rs := &s.Reservoir.Regions[ri]

		ct := TotalCompressibility(ctx.Constants, region, rs.Sat, rs.Pressure)
		out := UpdatePressure(rs.Pressure, vols.NetWithdrawalRV()*share, ct, region.PoreVolume, ctx.Constants.AbandonmentPressure)
		switch out.Kind {
		case OutcomeFatal:
			return fmt.Errorf("pressure update, region %s: %s", region.Name, out.Reason)
		case OutcomeClamped:
			w := Warning{Step: idx, Code: WarnPressureFloor, Detail: out.Reason}
			logrus.Warnf("%s", w)
			warnings = append(warnings, w)
		}
		rs.Pressure = out.Value

		sat, clamps := ApplyRateDeltas(rs.Sat, region,
			vols.OilRV*share, vols.WaterRV*share, vols.FreeGasRV*share, vols.InjectedRV*share)
		for _, c := range clamps {
			w := Warning{Step: idx, Code: WarnProductionClamped, Detail: c.Reason}
			logrus.Warnf("%s", w)
			warnings = append(warnings, w)
		}

		lib := ApplyLiberation(sat, rs.Pressure, idx, ctx.Constants, region)
		if lib.Outcome.Kind == OutcomeClamped {
			w := Warning{Step: idx, Code: WarnSaturationBound, Detail: lib.Outcome.Reason}
			logrus.Warnf("%s", w)
			warnings = append(warnings, w)
		}

		norm, err := Normalize(lib.Sat, s.satTol)
		if err != nil {
			return fmt.Errorf("region %s: %w", region.Name, err)
		}
		rs.Sat = norm
	}

	var metrics DerivedMetrics
	s.Ledger, metrics = Accumulate(s.Ledger, vols, s.ooip)

	activeIDs := make([]string, len(active))
	for i, w := range active {
		activeIDs[i] = w.ID
	}

	sr := StepResult{
		Step:        idx,
		Day:         day,
		State:       s.Reservoir.Clone(),
		ActiveWells: activeIDs,
		Rates:       res.Rates,
		Ledger:      s.Ledger,
		Metrics:     metrics,
		Warnings:    warnings,
	}
	s.History = append(s.History, sr)
	s.StepCount = idx
	if s.sink != nil {
		if err := s.sink.AppendStep(&sr); err != nil {
			logrus.Warnf("history sink failed at step %d: %v", idx, err)
		}
	}

	logrus.Infof("[step %04d] day=%07.1f p=%.1f rf=%.4f gor=%.1f vrr=%.3f active=%d",
		idx, day, s.Reservoir.FieldPressure(ctx.Grid), metrics.RecoveryFactor, metrics.GOR,
		metrics.VoidageRatio, len(activeIDs))
	return nil
}

// solveWithRetries invokes the flow solver, halving the step duration it
// sees on each non-convergence up to the retry budget. Only the solver call
// is ever retried; every other component is a deterministic transformation.
func (s *Simulator) solveWithRetries(idx int, active []WellDefinition) (*SolveResult, []Warning, error) {
	stepDays := s.ctx.Step.DaysPerStep
	var warnings []Warning
	for attempt := 0; ; attempt++ {
		res, err := s.solver.SolveStep(s.ctx, s.Reservoir, active, stepDays)
		if err == nil {
			return res, warnings, nil
		}
		if !errors.Is(err, ErrNotConverged) {
			return nil, warnings, fmt.Errorf("flow solve: %w", err)
		}
		if attempt >= s.ctx.Solver.RetryBudget {
			return nil, warnings, fmt.Errorf("flow solve retry budget (%d) exhausted: %w",
				s.ctx.Solver.RetryBudget, err)
		}
		stepDays /= 2
		w := Warning{Step: idx, Code: WarnSolverRetry,
			Detail: fmt.Sprintf("non-convergence, retry %d at %.2f-day step", attempt+1, stepDays)}
		logrus.Warnf("%s", w)
		warnings = append(warnings, w)
	}
}

func (s *Simulator) finalMetrics() DerivedMetrics {
	if len(s.History) == 0 {
		return DerivedMetrics{}
	}
	return s.History[len(s.History)-1].Metrics
}
