package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_ProportionalCorrection(t *testing.T) {
	sat, err := Normalize(Saturations{Water: 0.3, Oil: 0.9, Gas: 0.3}, 1e-6)
	assert.NoError(t, err)
	assert.InDelta(t, 1.0, sat.Sum(), 1e-12)
	// correction is distributed proportionally, preserving phase ratios
	assert.InDelta(t, 0.3/1.5, sat.Water, 1e-12)
	assert.InDelta(t, 0.9/1.5, sat.Oil, 1e-12)
	assert.InDelta(t, 0.3/1.5, sat.Gas, 1e-12)
}

func TestNormalize_AlreadyNormalizedIsStable(t *testing.T) {
	in := Saturations{Water: 0.25, Oil: 0.75, Gas: 0}
	sat, err := Normalize(in, 1e-6)
	assert.NoError(t, err)
	assert.InDelta(t, in.Water, sat.Water, 1e-12)
	assert.InDelta(t, in.Oil, sat.Oil, 1e-12)
}

func TestNormalize_NoiseWithinToleranceZeroed(t *testing.T) {
	sat, err := Normalize(Saturations{Water: -1e-9, Oil: 0.8, Gas: 0.2}, 1e-6)
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, sat.Water, 0.0)
	assert.InDelta(t, 1.0, sat.Sum(), 1e-12)
}

func TestNormalize_FatalOnNegativeBeyondTolerance(t *testing.T) {
	_, err := Normalize(Saturations{Water: -0.01, Oil: 0.8, Gas: 0.21}, 1e-6)
	assert.ErrorIs(t, err, ErrNegativeSaturation)
}

func TestApplyRateDeltas_ProductionAndInjection(t *testing.T) {
	region := RockRegion{Name: "r1", PoreVolume: 1e6, ConnateWater: 0.2, ResidualOil: 0.2}
	sat := Saturations{Water: 0.3, Oil: 0.7}

	// produce 10k rb oil, inject 5k rb water
	out, clamps := ApplyRateDeltas(sat, region, 10000, 0, 0, 5000)
	assert.Empty(t, clamps)
	assert.InDelta(t, 0.7-0.01, out.Oil, 1e-12)
	assert.InDelta(t, 0.3+0.005, out.Water, 1e-12)
}

func TestApplyRateDeltas_ClampsAtEndpoints(t *testing.T) {
	region := RockRegion{Name: "r1", PoreVolume: 1e6, ConnateWater: 0.2, ResidualOil: 0.2}
	sat := Saturations{Water: 0.3, Oil: 0.21, Gas: 0.49}

	// withdrawal far past mobile oil
	out, clamps := ApplyRateDeltas(sat, region, 1e6, 0, 0, 0)
	if assert.Len(t, clamps, 1) {
		assert.Equal(t, OutcomeClamped, clamps[0].Kind)
	}
	assert.Equal(t, region.ResidualOil, out.Oil)

	// free gas floored at zero
	out, clamps = ApplyRateDeltas(sat, region, 0, 0, 1e6, 0)
	if assert.Len(t, clamps, 1) {
		assert.Equal(t, OutcomeClamped, clamps[0].Kind)
	}
	assert.Zero(t, out.Gas)
}

func TestApplyRateDeltas_ReportsEveryClamp(t *testing.T) {
	region := RockRegion{Name: "r1", PoreVolume: 1e6, ConnateWater: 0.2, ResidualOil: 0.2}
	sat := Saturations{Water: 0.3, Oil: 0.21, Gas: 0.49}

	// oil past residual, water past connate, and gas past zero in one call:
	// every floored phase keeps its own entry in the audit trail
	out, clamps := ApplyRateDeltas(sat, region, 1e6, 2e5, 1e6, 0)
	assert.Len(t, clamps, 3)
	for _, c := range clamps {
		assert.Equal(t, OutcomeClamped, c.Kind)
	}
	assert.Equal(t, region.ResidualOil, out.Oil)
	assert.Equal(t, region.ConnateWater, out.Water)
	assert.Zero(t, out.Gas)
}
