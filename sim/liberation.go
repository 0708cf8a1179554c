package sim

import "fmt"

// LiberationResult reports what ApplyLiberation did to a region.
type LiberationResult struct {
	Sat       Saturations
	Liberated float64 // saturation fraction moved from oil to gas (>= 0)
	Outcome   Outcome
}

// ApplyLiberation converts dissolved gas to free gas once region pressure
// falls below bubble point. Each step below bubble point moves
// liberationRate × So from oil saturation to gas saturation, preserving the
// liquid+gas volume basis.
//
// Liberation is suppressed while step < onsetStep, modelling the observed
// lag before first gas breakout; the threshold is scenario-calibrated, not
// derived. Free gas never exceeds 1 − Swc − Sor for the region: overflow is
// clamped and reported as a saturation-bound violation (non-fatal). The
// liberated increment is never negative.
func ApplyLiberation(sat Saturations, pressure float64, step int, c PhysicalConstants, region RockRegion) LiberationResult {
	if pressure >= c.BubblePointPressure || step < c.LiberationOnsetStep || c.GasLiberationRate == 0 {
		return LiberationResult{Sat: sat, Outcome: OK(0)}
	}

	delta := c.GasLiberationRate * sat.Oil
	if delta <= 0 {
		return LiberationResult{Sat: sat, Outcome: OK(0)}
	}

	maxSg := region.MaxGasSaturation()
	out := OK(delta)
	if sat.Gas+delta > maxSg {
		clamped := maxSg - sat.Gas
		if clamped < 0 {
			clamped = 0
		}
		out = ClampedTo(clamped, fmt.Sprintf(
			"region %s: liberated gas would exceed max gas saturation %.4f; increment clamped from %.6f to %.6f",
			region.Name, maxSg, delta, clamped))
		delta = clamped
	}

	sat.Oil -= delta
	sat.Gas += delta
	return LiberationResult{Sat: sat, Liberated: delta, Outcome: out}
}
