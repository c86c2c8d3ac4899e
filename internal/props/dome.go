package props

import (
	"fmt"
	"sync"

	"gonum.org/v1/gonum/floats"
)

// DomePoint is one sample of the two-phase boundary.
type DomePoint struct {
	Temperature    float64 `json:"temperature"`     // K
	Pressure       float64 `json:"pressure"`        // Pa
	LiquidEnthalpy float64 `json:"liquid_enthalpy"` // J/kg
	VaporEnthalpy  float64 `json:"vapor_enthalpy"`  // J/kg
	LiquidEntropy  float64 `json:"liquid_entropy"`  // J/kg/K
	VaporEntropy   float64 `json:"vapor_entropy"`   // J/kg/K
}

var (
	domeMu    sync.Mutex
	domeCache = map[string][]DomePoint{}
)

// SaturationDome samples the saturation curve of the oracle's refrigerant at
// n evenly spaced temperatures from the correlation floor up to just below
// the critical point. The curve never changes for a given refrigerant, so
// results are memoized per (refrigerant, n); callers must not mutate the
// returned slice.
func SaturationDome(o Oracle, n int) ([]DomePoint, error) {
	if n < 2 {
		return nil, fmt.Errorf("saturation dome needs at least 2 points, got %d", n)
	}

	key := fmt.Sprintf("%s/%d", o.Name(), n)
	domeMu.Lock()
	defer domeMu.Unlock()
	if pts, ok := domeCache[key]; ok {
		return pts, nil
	}

	temps := floats.Span(make([]float64, n), o.MinTemperature(), o.CriticalTemperature()-0.1)
	pts := make([]DomePoint, 0, n)
	for _, t := range temps {
		p, err := o.PressureTQ(t, 0)
		if err != nil {
			return nil, fmt.Errorf("dome at %.2f K: %w", t, err)
		}
		hf, err := o.EnthalpyTQ(t, 0)
		if err != nil {
			return nil, fmt.Errorf("dome at %.2f K: %w", t, err)
		}
		hg, err := o.EnthalpyTQ(t, 1)
		if err != nil {
			return nil, fmt.Errorf("dome at %.2f K: %w", t, err)
		}
		sf, err := o.EntropyTQ(t, 0)
		if err != nil {
			return nil, fmt.Errorf("dome at %.2f K: %w", t, err)
		}
		sg, err := o.EntropyTQ(t, 1)
		if err != nil {
			return nil, fmt.Errorf("dome at %.2f K: %w", t, err)
		}
		pts = append(pts, DomePoint{
			Temperature:    t,
			Pressure:       p,
			LiquidEnthalpy: hf,
			VaporEnthalpy:  hg,
			LiquidEntropy:  sf,
			VaporEntropy:   sg,
		})
	}

	domeCache[key] = pts
	return pts, nil
}
