package sim

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Normalize rescales the three phase saturations so their sum is exactly 1,
// distributing the correction proportionally rather than biasing one phase.
//
// Any single phase more negative than -tol before normalization signals an
// upstream physical-model bug, not numerical noise, and returns
// ErrNegativeSaturation so the run stops instead of masking it. Negatives
// within tolerance are treated as noise and zeroed before rescaling.
func Normalize(sat Saturations, tol float64) (Saturations, error) {
	phases := []float64{sat.Water, sat.Oil, sat.Gas}
	names := []string{"water", "oil", "gas"}
	for i, v := range phases {
		if v < -tol {
			return sat, fmt.Errorf("%w: %s saturation %.8f", ErrNegativeSaturation, names[i], v)
		}
		if v < 0 {
			phases[i] = 0
		}
	}
	sum := floats.Sum(phases)
	if sum <= 0 {
		return sat, fmt.Errorf("%w: all phase saturations zero", ErrNegativeSaturation)
	}
	floats.Scale(1/sum, phases)
	return Saturations{Water: phases[0], Oil: phases[1], Gas: phases[2]}, nil
}

// ApplyRateDeltas moves a step's produced and injected reservoir volumes
// into the region's saturations: produced oil and free gas reduce their
// phases, produced water reduces and injected water increases the water
// phase. Volumes are in reservoir barrels over the step.
//
// Withdrawal past the mobile endpoints (oil below residual, water below
// connate, gas below zero) is clamped, with one Clamped outcome per floored
// phase so the audit trail keeps every intervention; the solver's rates
// imply more fluid than the region can give up, which is expected behaviour
// near depletion, not a defect.
func ApplyRateDeltas(sat Saturations, region RockRegion, oilRB, waterRB, freeGasRB, injectedRB float64) (Saturations, []Outcome) {
	pv := region.PoreVolume
	var clamps []Outcome

	so := sat.Oil - oilRB/pv
	if so < region.ResidualOil {
		clamps = append(clamps, ClampedTo(region.ResidualOil, fmt.Sprintf(
			"region %s: oil saturation floored at residual %.4f", region.Name, region.ResidualOil)))
		so = region.ResidualOil
	}

	sw := sat.Water + (injectedRB-waterRB)/pv
	if sw < region.ConnateWater {
		clamps = append(clamps, ClampedTo(region.ConnateWater, fmt.Sprintf(
			"region %s: water saturation floored at connate %.4f", region.Name, region.ConnateWater)))
		sw = region.ConnateWater
	}

	sg := sat.Gas - freeGasRB/pv
	if sg < 0 {
		clamps = append(clamps, ClampedTo(0, fmt.Sprintf(
			"region %s: free gas saturation floored at 0", region.Name)))
		sg = 0
	}

	return Saturations{Water: sw, Oil: so, Gas: sg}, clamps
}
