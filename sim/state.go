package sim

// Saturations holds the three phase fractions for a rock region.
type Saturations struct {
	Water float64 `json:"water"`
	Oil   float64 `json:"oil"`
	Gas   float64 `json:"gas"`
}

// Sum returns the phase-fraction total (1.0 within tolerance when valid).
func (s Saturations) Sum() float64 {
	return s.Water + s.Oil + s.Gas
}

// RegionState is the dynamic state of one rock region.
type RegionState struct {
	Name     string      `json:"name"`
	Pressure float64     `json:"pressure"`
	Sat      Saturations `json:"saturations"`
}

// ReservoirState is the full dynamic state of the field. Owned and
// exclusively mutated by the Simulator through its delegated components;
// region order matches Grid.Regions.
type ReservoirState struct {
	Regions []RegionState `json:"regions"`

	// CumNetWithdrawal is reservoir barrels withdrawn net of injection
	// since time zero.
	CumNetWithdrawal float64 `json:"cum_net_withdrawal"`
}

// NewReservoirState builds the time-zero state: every region at initial
// pressure with the supplied initial saturations.
func NewReservoirState(grid *Grid, initialPressure float64, initial Saturations) *ReservoirState {
	st := &ReservoirState{Regions: make([]RegionState, len(grid.Regions))}
	for i, r := range grid.Regions {
		st.Regions[i] = RegionState{Name: r.Name, Pressure: initialPressure, Sat: initial}
	}
	return st
}

// FieldPressure returns the pore-volume-weighted mean region pressure.
func (s *ReservoirState) FieldPressure(grid *Grid) float64 {
	total := grid.TotalPoreVolume()
	if total <= 0 {
		return 0
	}
	var p float64
	for i, r := range grid.Regions {
		p += s.Regions[i].Pressure * r.PoreVolume / total
	}
	return p
}

// Clone returns a deep copy, used for append-only step snapshots.
func (s *ReservoirState) Clone() ReservoirState {
	out := ReservoirState{
		Regions:          make([]RegionState, len(s.Regions)),
		CumNetWithdrawal: s.CumNetWithdrawal,
	}
	copy(out.Regions, s.Regions)
	return out
}
