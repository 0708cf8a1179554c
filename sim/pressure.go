package sim

import "fmt"

// UpdatePressure applies the single-phase material-balance approximation:
// the pressure drop is the net reservoir-volume withdrawal divided by the
// product of pore volume and total compressibility. Linear in withdrawal
// and fully deterministic.
//
// The result is clamped at the abandonment pressure; a clamp represents
// shut-in from insufficient drive and is reported as a Clamped outcome, not
// an error. A non-positive compressibility-volume product is a configuration
// or upstream defect and yields a Fatal outcome.
func UpdatePressure(prior, netWithdrawal, totalCompressibility, poreVolume, abandonmentPressure float64) Outcome {
	cv := totalCompressibility * poreVolume
	if cv <= 0 {
		return FatalOutcome(fmt.Sprintf("non-positive compressibility-volume product %.3g", cv))
	}
	p := prior - netWithdrawal/cv
	if p < abandonmentPressure {
		return ClampedTo(abandonmentPressure,
			fmt.Sprintf("material balance pressure %.2f below abandonment floor %.2f", p, abandonmentPressure))
	}
	return OK(p)
}

// TotalCompressibility combines fluid and rock compressibilities for a
// region, saturation-weighting the fluid terms. Free gas is far more
// compressible than the liquids; its contribution is approximated as 1/p
// when gas saturation is present.
func TotalCompressibility(c PhysicalConstants, region RockRegion, sat Saturations, pressure float64) float64 {
	ct := c.OilCompressibility*sat.Oil + c.WaterCompressibility*sat.Water + region.RockCompressibility
	if sat.Gas > 0 && pressure > 0 {
		ct += sat.Gas / pressure
	}
	return ct
}
