package sim

import "fmt"

// RockRegion classifies a group of grid cells sharing rock-type properties.
// Regions are produced by the external grid/rock builder and consumed here
// as already-validated structured data.
type RockRegion struct {
	Name                string  // region identifier (unique within a grid)
	PoreVolume          float64 // reservoir barrels (must be > 0)
	ConnateWater        float64 // irreducible water saturation, fraction
	ResidualOil         float64 // residual oil saturation, fraction
	RockCompressibility float64 // pore-volume compressibility, 1/psi
}

// MaxGasSaturation returns the free-gas saturation cap for the region.
func (r RockRegion) MaxGasSaturation() float64 {
	return 1 - r.ConnateWater - r.ResidualOil
}

// Grid holds the static region decomposition of the reservoir.
type Grid struct {
	Regions []RockRegion
}

// TotalPoreVolume sums pore volume across all regions.
func (g *Grid) TotalPoreVolume() float64 {
	var total float64
	for _, r := range g.Regions {
		total += r.PoreVolume
	}
	return total
}

// Region returns the region with the given name.
func (g *Grid) Region(name string) (RockRegion, bool) {
	for _, r := range g.Regions {
		if r.Name == name {
			return r, true
		}
	}
	return RockRegion{}, false
}

// Validate checks region data before the run enters the Running state.
func (g *Grid) Validate() error {
	if len(g.Regions) == 0 {
		return fmt.Errorf("%w: grid has no rock regions", ErrBadScenario)
	}
	seen := make(map[string]bool, len(g.Regions))
	for _, r := range g.Regions {
		if r.Name == "" {
			return fmt.Errorf("%w: rock region with empty name", ErrBadScenario)
		}
		if seen[r.Name] {
			return fmt.Errorf("%w: duplicate rock region %q", ErrBadScenario, r.Name)
		}
		seen[r.Name] = true
		if r.PoreVolume <= 0 {
			return fmt.Errorf("%w: region %q pore volume must be > 0", ErrBadScenario, r.Name)
		}
		if r.ConnateWater < 0 || r.ResidualOil < 0 || r.ConnateWater+r.ResidualOil >= 1 {
			return fmt.Errorf("%w: region %q saturation endpoints out of range", ErrBadScenario, r.Name)
		}
		if r.RockCompressibility < 0 {
			return fmt.Errorf("%w: region %q rock compressibility must be >= 0", ErrBadScenario, r.Name)
		}
	}
	return nil
}
