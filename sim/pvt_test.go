package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPVTTable_Validation(t *testing.T) {
	_, err := NewPVTTable([]float64{1000}, []float64{1.1}, []float64{1e-3}, []float64{200})
	assert.ErrorIs(t, err, ErrBadScenario)

	_, err = NewPVTTable([]float64{1000, 2000}, []float64{1.1}, []float64{1e-3, 1e-3}, []float64{200, 300})
	assert.ErrorIs(t, err, ErrBadScenario)
}

func TestPVTTable_InterpolatesBetweenNodes(t *testing.T) {
	tbl, err := NewPVTTable(
		[]float64{1000, 2000},
		[]float64{1.10, 1.20},
		[]float64{2e-3, 1e-3},
		[]float64{200, 400},
	)
	assert.NoError(t, err)

	assert.InDelta(t, 1.15, tbl.OilFVF(1500), 1e-12)
	assert.InDelta(t, 1.5e-3, tbl.GasFVF(1500), 1e-12)
	assert.InDelta(t, 300, tbl.SolutionGOR(1500), 1e-12)
}

func TestPVTTable_ClampsOutsideRange(t *testing.T) {
	tbl, err := NewPVTTable(
		[]float64{1000, 2000},
		[]float64{1.10, 1.20},
		[]float64{2e-3, 1e-3},
		[]float64{200, 400},
	)
	assert.NoError(t, err)

	// no extrapolation below or above the tabulated range
	assert.InDelta(t, 1.10, tbl.OilFVF(100), 1e-12)
	assert.InDelta(t, 1.20, tbl.OilFVF(9000), 1e-12)
	assert.InDelta(t, 200, tbl.SolutionGOR(0), 1e-12)
}

func TestDefaultPVTTable_PhysicallySensible(t *testing.T) {
	tbl := DefaultPVTTable()

	// Bo and Rs grow with pressure, Bg shrinks
	assert.Greater(t, tbl.OilFVF(4000), tbl.OilFVF(1000))
	assert.Greater(t, tbl.SolutionGOR(4000), tbl.SolutionGOR(1000))
	assert.Less(t, tbl.GasFVF(4000), tbl.GasFVF(1000))
}
