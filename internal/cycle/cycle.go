// Package cycle computes the steady-state operating point of a single-stage
// vapor-compression refrigeration loop: evaporator, compressor, condenser,
// expansion valve.
package cycle

// Temperature difference assumed between the condensing refrigerant and the
// ambient air rejecting its heat (heat-exchanger approach), in K.
const CondenserApproachDelta = 15.0

// State ids, fixed meaning around the loop.
const (
	CompressorInlet = iota // 1: saturated vapor leaving the evaporator
	CondenserInlet         // 2: superheated vapor leaving the compressor
	CondenserOutlet        // 3: saturated liquid entering the valve
	EvaporatorInlet        // 4: two-phase mixture after throttling
)

var stateLocations = [4]string{
	CompressorInlet: "compressor inlet",
	CondenserInlet:  "condenser inlet",
	CondenserOutlet: "condenser outlet",
	EvaporatorInlet: "evaporator inlet",
}

// StatePoint is one corner of the cycle in SI base units.
type StatePoint struct {
	Pressure    float64 // Pa
	Temperature float64 // K
	Enthalpy    float64 // J/kg
	Entropy     float64 // J/kg/K
	Location    string
}

// Metrics are the derived cycle performance figures, in reporting units.
type Metrics struct {
	CompressorPowerKW      float64 // work rate demanded by isentropic compression
	HeatExtractedKW        float64 // evaporator heat-absorption rate
	COP                    float64 // HeatExtractedKW / CompressorPowerKW
	EvaporatorInletQuality float64 // vapor fraction after the valve (flash gas)
	DischargeTemperatureC  float64 // actual superheated compressor outlet temperature
	MassFlowRateKgS        float64 // input echoed back
}

// Result is a fully-determined cycle: all four states or nothing.
type Result struct {
	States  [4]StatePoint
	Metrics Metrics
}

// Inputs are the three operating parameters of the loop.
type Inputs struct {
	AmbientTemperatureC  float64 // air the condenser rejects to
	InteriorTemperatureC float64 // target space temperature; sets evaporation
	MassFlowRateKgS      float64 // refrigerant flow, > 0
}

func kelvin(celsius float64) float64 { return celsius + 273.15 }

func celsius(kelvin float64) float64 { return kelvin - 273.15 }
