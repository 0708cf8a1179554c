package sim

import "github.com/sirupsen/logrus"

// SolveResult is a flow solver's output for one step: one rate entry per
// active well, in the order the wells were passed in.
type SolveResult struct {
	Rates []WellRates
}

// FlowSolver computes the per-well rate distribution for one step. The
// engine treats the call as opaque and synchronous: it must return either a
// valid result or an error, with ErrNotConverged marking a retryable
// non-convergence. No state is shared with the engine beyond the documented
// inputs and outputs.
type FlowSolver interface {
	SolveStep(ctx *SimulationContext, state *ReservoirState, active []WellDefinition, stepDays float64) (*SolveResult, error)
}

// WellModelSolver is the built-in analytic solver: producers deliver their
// target liquid rate limited by available drawdown, with water cut and
// producing GOR derived from the current field saturations; injectors
// deliver their target rate unless field pressure has reached their maximum
// BHP. Fully deterministic.
type WellModelSolver struct {
	// ProductivityIndex limits producer liquid rate to PI × drawdown when
	// set (> 0). Zero means pure rate control.
	ProductivityIndex float64

	// FreeGasBoost scales the producing GOR above solution GOR in
	// proportion to free-gas saturation (gas is far more mobile than oil
	// once liberated).
	FreeGasBoost float64
}

// NewWellModelSolver returns a solver with the default free-gas mobility
// boost.
func NewWellModelSolver() *WellModelSolver {
	return &WellModelSolver{FreeGasBoost: 25}
}

// SolveStep implements FlowSolver.
func (s *WellModelSolver) SolveStep(ctx *SimulationContext, state *ReservoirState, active []WellDefinition, stepDays float64) (*SolveResult, error) {
	p := state.FieldPressure(ctx.Grid)
	sat := fieldAverageSaturations(ctx.Grid, state)

	res := &SolveResult{Rates: make([]WellRates, 0, len(active))}
	for _, w := range active {
		r := WellRates{WellID: w.ID}
		switch w.Role {
		case RoleProducer:
			liquid := s.producerLiquidRate(w, p, ctx.Constants.AbandonmentPressure)
			wc := waterCut(ctx.Grid, sat)
			r.Oil = liquid * (1 - wc)
			r.Water = liquid * wc
			gor := ctx.PVT.SolutionGOR(p)
			if sat.Gas > 0 {
				gor *= 1 + s.FreeGasBoost*sat.Gas
			}
			r.Gas = r.Oil * gor
		case RoleInjector:
			if w.MaxBHP > 0 && p >= w.MaxBHP {
				logrus.Warnf("injector %s shut in: field pressure %.1f at max BHP %.1f", w.ID, p, w.MaxBHP)
			} else {
				r.WaterInjected = w.TargetRate
			}
		}
		res.Rates = append(res.Rates, r)
	}
	return res, nil
}

func (s *WellModelSolver) producerLiquidRate(w WellDefinition, p, abandonment float64) float64 {
	if p <= abandonment {
		return 0
	}
	liquid := w.TargetRate
	if s.ProductivityIndex > 0 {
		// BHP-targeted wells draw down to their target, floored at MinBHP
		flowing := max(w.MinBHP, w.TargetBHP)
		drawdown := p - flowing
		if drawdown <= 0 {
			return 0
		}
		liquid = min(liquid, s.ProductivityIndex*drawdown)
	}
	return liquid
}

// fieldAverageSaturations pore-volume-weights the region saturations.
func fieldAverageSaturations(grid *Grid, state *ReservoirState) Saturations {
	total := grid.TotalPoreVolume()
	var out Saturations
	for i, r := range grid.Regions {
		w := r.PoreVolume / total
		out.Water += state.Regions[i].Sat.Water * w
		out.Oil += state.Regions[i].Sat.Oil * w
		out.Gas += state.Regions[i].Sat.Gas * w
	}
	return out
}

// waterCut is the producing water fraction from a simplified fractional
// flow: zero at connate water, approaching 1 as mobile oil runs out.
func waterCut(grid *Grid, sat Saturations) float64 {
	// use pore-volume-weighted endpoints
	total := grid.TotalPoreVolume()
	var swc, sor float64
	for _, r := range grid.Regions {
		w := r.PoreVolume / total
		swc += r.ConnateWater * w
		sor += r.ResidualOil * w
	}
	mobile := 1 - swc - sor
	if mobile <= 0 {
		return 0
	}
	wc := (sat.Water - swc) / mobile
	if wc < 0 {
		return 0
	}
	if wc > 0.95 {
		return 0.95
	}
	return wc
}
