package cycle

import (
	"fmt"

	"github.com/SrClicks/simulador-refrigeracion/internal/props"
)

// Solver turns three operating inputs into a fully-determined cycle.
//
// The model: saturated vapor at evaporator exit, isentropic compression to
// the condensing pressure, saturated liquid at condenser exit, isenthalpic
// throttling back to the evaporating pressure. Condensing temperature is the
// ambient plus a fixed approach delta.
//
// Solve performs no feasibility validation of its own: physically
// inconsistent inputs surface as property-query errors, or as Inf/NaN
// metrics when the compression step collapses (see Metrics.COP). Callers own
// plausibility checks.
type Solver struct {
	oracle props.Oracle
}

func NewSolver(oracle props.Oracle) *Solver {
	return &Solver{oracle: oracle}
}

// Solve computes the four state points and the derived metrics for the given
// ambient temperature (degC), interior temperature (degC) and refrigerant
// mass flow rate (kg/s). Either every state and metric is computed or an
// error is returned; there is no partial result.
func (sv *Solver) Solve(ambientC, interiorC, massFlowKgS float64) (Result, error) {
	evapTempK := kelvin(interiorC)
	condTempK := kelvin(ambientC) + CondenserApproachDelta

	// State 1: saturated vapor at the evaporating temperature.
	h1, err := sv.oracle.EnthalpyTQ(evapTempK, 1)
	if err != nil {
		return Result{}, fmt.Errorf("state 1 enthalpy: %w", err)
	}
	s1, err := sv.oracle.EntropyTQ(evapTempK, 1)
	if err != nil {
		return Result{}, fmt.Errorf("state 1 entropy: %w", err)
	}

	// Condensing pressure: saturation pressure at the condensing temperature.
	condPressPa, err := sv.oracle.PressureTQ(condTempK, 0)
	if err != nil {
		return Result{}, fmt.Errorf("condensing pressure: %w", err)
	}

	// State 2: isentropic compression, s2 = s1 at the condensing pressure.
	s2 := s1
	h2, err := sv.oracle.EnthalpyPS(condPressPa, s2)
	if err != nil {
		return Result{}, fmt.Errorf("state 2 enthalpy: %w", err)
	}
	compressorPowerW := massFlowKgS * (h2 - h1)

	// State 3: saturated liquid at the condensing pressure.
	h3, err := sv.oracle.EnthalpyPQ(condPressPa, 0)
	if err != nil {
		return Result{}, fmt.Errorf("state 3 enthalpy: %w", err)
	}
	t3, err := sv.oracle.TemperaturePQ(condPressPa, 0)
	if err != nil {
		return Result{}, fmt.Errorf("state 3 temperature: %w", err)
	}
	s3, err := sv.oracle.EntropyPQ(condPressPa, 0)
	if err != nil {
		return Result{}, fmt.Errorf("state 3 entropy: %w", err)
	}

	// State 4: isenthalpic throttle down to the evaporating pressure.
	h4 := h3
	evapPressPa, err := sv.oracle.PressureTQ(evapTempK, 1)
	if err != nil {
		return Result{}, fmt.Errorf("evaporating pressure: %w", err)
	}
	x4, err := sv.oracle.QualityPH(evapPressPa, h4)
	if err != nil {
		return Result{}, fmt.Errorf("state 4 quality: %w", err)
	}
	s4, err := sv.oracle.EntropyPH(evapPressPa, h4)
	if err != nil {
		return Result{}, fmt.Errorf("state 4 entropy: %w", err)
	}

	heatExtractedW := massFlowKgS * (h1 - h4)

	// Discharge temperature is re-derived from (h2, P2) rather than assumed:
	// the vapor leaves the compressor superheated, above the condensing
	// temperature.
	t2, err := sv.oracle.TemperaturePH(condPressPa, h2)
	if err != nil {
		return Result{}, fmt.Errorf("discharge temperature: %w", err)
	}

	return Result{
		States: [4]StatePoint{
			CompressorInlet: {
				Pressure:    evapPressPa,
				Temperature: evapTempK,
				Enthalpy:    h1,
				Entropy:     s1,
				Location:    stateLocations[CompressorInlet],
			},
			CondenserInlet: {
				Pressure:    condPressPa,
				Temperature: t2,
				Enthalpy:    h2,
				Entropy:     s2,
				Location:    stateLocations[CondenserInlet],
			},
			CondenserOutlet: {
				Pressure:    condPressPa,
				Temperature: t3,
				Enthalpy:    h3,
				Entropy:     s3,
				Location:    stateLocations[CondenserOutlet],
			},
			EvaporatorInlet: {
				Pressure:    evapPressPa,
				Temperature: evapTempK,
				Enthalpy:    h4,
				Entropy:     s4,
				Location:    stateLocations[EvaporatorInlet],
			},
		},
		Metrics: Metrics{
			CompressorPowerKW:      compressorPowerW / 1e3,
			HeatExtractedKW:        heatExtractedW / 1e3,
			COP:                    heatExtractedW / compressorPowerW,
			EvaporatorInletQuality: x4,
			DischargeTemperatureC:  celsius(t2),
			MassFlowRateKgS:        massFlowKgS,
		},
	}, nil
}
