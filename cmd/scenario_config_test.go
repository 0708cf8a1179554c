package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sim "github.com/fieldsim/fieldsim/sim"
)

const sampleScenario = `
name: test-field
constants:
  oil_compressibility: 1.2e-5
  water_compressibility: 3.0e-6
  bubble_point_pressure: 2100
  gas_liberation_rate: 0.02
  liberation_onset_step: 36
  abandonment_pressure: 800
  initial_pressure: 3200
step:
  horizon_months: 24
initial_saturations:
  water: 0.25
  oil: 0.75
regions:
  - name: upper-sand
    pore_volume: 5.0e7
    connate_water: 0.22
    residual_oil: 0.25
    rock_compressibility: 4.0e-6
wells:
  - id: P-01
    role: producer
    activation_day: 0
    target_rate: 1500
    min_bhp: 500
  - id: I-01
    role: injector
    activation_day: 365
    target_rate: 2000
    max_bhp: 4200
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadScenario_Complete(t *testing.T) {
	ctx, spec, err := LoadScenario(writeScenario(t, sampleScenario))
	require.NoError(t, err)

	assert.Equal(t, "test-field", spec.Name)
	assert.Equal(t, 24, ctx.Step.HorizonMonths)
	assert.Equal(t, 2100.0, ctx.Constants.BubblePointPressure)
	assert.Equal(t, 36, ctx.Constants.LiberationOnsetStep)
	require.Len(t, ctx.Wells, 2)
	assert.Equal(t, sim.RoleProducer, ctx.Wells[0].Role)
	assert.Equal(t, 365.0, ctx.Wells[1].ActivationDay)
	require.Len(t, ctx.Grid.Regions, 1)
	assert.Equal(t, 0.22, ctx.Grid.Regions[0].ConnateWater)

	// the loaded context passes engine validation as-is
	_, err = sim.NewSimulator(ctx, sim.NewWellModelSolver(), nil)
	assert.NoError(t, err)
}

func TestLoadScenario_Defaults(t *testing.T) {
	ctx, _, err := LoadScenario(writeScenario(t, sampleScenario))
	require.NoError(t, err)

	assert.Equal(t, 30.4375, ctx.Step.DaysPerStep)
	assert.Equal(t, 3, ctx.Solver.RetryBudget)
	// no pvt block: built-in default table
	assert.NotNil(t, ctx.PVT)
}

func TestLoadScenario_InlinePVT(t *testing.T) {
	body := sampleScenario + `
pvt:
  pressures: [1000, 2000, 3000]
  oil_fvf: [1.08, 1.17, 1.24]
  gas_fvf: [2.9e-3, 1.5e-3, 1.0e-3]
  solution_gor: [180, 380, 560]
`
	ctx, _, err := LoadScenario(writeScenario(t, body))
	require.NoError(t, err)
	assert.InDelta(t, 1.17, ctx.PVT.OilFVF(2000), 1e-12)
}

func TestLoadScenario_BadPVTRejected(t *testing.T) {
	body := sampleScenario + `
pvt:
  pressures: [1000, 2000]
  oil_fvf: [1.08]
  gas_fvf: [2.9e-3, 1.5e-3]
  solution_gor: [180, 380]
`
	_, _, err := LoadScenario(writeScenario(t, body))
	assert.ErrorIs(t, err, sim.ErrBadScenario)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, _, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadScenario_MalformedYAML(t *testing.T) {
	_, _, err := LoadScenario(writeScenario(t, "wells: [unclosed"))
	assert.Error(t, err)
}

func TestScenario_InvalidConstantsFailEngineValidation(t *testing.T) {
	// zero oil compressibility is a configuration error caught before Running
	ctx, _, err := LoadScenario(writeScenario(t, sampleScenario))
	require.NoError(t, err)
	ctx.Constants.OilCompressibility = 0

	_, err = sim.NewSimulator(ctx, sim.NewWellModelSolver(), nil)
	assert.ErrorIs(t, err, sim.ErrBadScenario)
}
