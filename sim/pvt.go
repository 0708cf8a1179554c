package sim

import (
	"fmt"

	"gonum.org/v1/gonum/interp"
)

// PVTTable interpolates black-oil fluid properties against pressure.
// Tables come from the external fluid/PVT builder as monotonically
// increasing pressure nodes with matching property columns.
type PVTTable struct {
	pressures []float64

	bo interp.PiecewiseLinear // oil formation volume factor, rb/stb
	bg interp.PiecewiseLinear // gas formation volume factor, rb/scf
	rs interp.PiecewiseLinear // solution gas-oil ratio, scf/stb
}

// NewPVTTable fits piecewise-linear interpolants to the property columns.
// Pressure nodes must be strictly increasing and each column must match
// their length.
func NewPVTTable(pressures, bo, bg, rs []float64) (*PVTTable, error) {
	if len(pressures) < 2 {
		return nil, fmt.Errorf("%w: PVT table needs at least 2 pressure nodes", ErrBadScenario)
	}
	if len(bo) != len(pressures) || len(bg) != len(pressures) || len(rs) != len(pressures) {
		return nil, fmt.Errorf("%w: PVT column lengths do not match pressure nodes", ErrBadScenario)
	}
	t := &PVTTable{pressures: append([]float64(nil), pressures...)}
	if err := t.bo.Fit(pressures, bo); err != nil {
		return nil, fmt.Errorf("%w: oil FVF column: %v", ErrBadScenario, err)
	}
	if err := t.bg.Fit(pressures, bg); err != nil {
		return nil, fmt.Errorf("%w: gas FVF column: %v", ErrBadScenario, err)
	}
	if err := t.rs.Fit(pressures, rs); err != nil {
		return nil, fmt.Errorf("%w: solution GOR column: %v", ErrBadScenario, err)
	}
	return t, nil
}

// clamp keeps lookups inside the tabulated pressure range; the engine does
// not extrapolate fluid properties.
func (t *PVTTable) clamp(p float64) float64 {
	if p < t.pressures[0] {
		return t.pressures[0]
	}
	if last := t.pressures[len(t.pressures)-1]; p > last {
		return last
	}
	return p
}

// OilFVF returns Bo at the given pressure, rb/stb.
func (t *PVTTable) OilFVF(p float64) float64 { return t.bo.Predict(t.clamp(p)) }

// GasFVF returns Bg at the given pressure, rb/scf.
func (t *PVTTable) GasFVF(p float64) float64 { return t.bg.Predict(t.clamp(p)) }

// SolutionGOR returns Rs at the given pressure, scf/stb.
func (t *PVTTable) SolutionGOR(p float64) float64 { return t.rs.Predict(t.clamp(p)) }

// DefaultPVTTable returns a generic black-oil table spanning 500-5000 psi.
// Used by scenarios that do not supply their own table.
func DefaultPVTTable() *PVTTable {
	t, err := NewPVTTable(
		[]float64{500, 1000, 1500, 2000, 2500, 3000, 3500, 4000, 5000},
		[]float64{1.05, 1.08, 1.12, 1.17, 1.21, 1.24, 1.26, 1.27, 1.28},
		[]float64{5.6e-3, 2.9e-3, 1.9e-3, 1.5e-3, 1.2e-3, 1.0e-3, 0.9e-3, 0.85e-3, 0.8e-3},
		[]float64{90, 180, 280, 380, 480, 560, 620, 660, 700},
	)
	if err != nil {
		// static table, cannot fail
		panic(err)
	}
	return t
}
