// Package props evaluates thermodynamic properties of a refrigerant from
// pairs of independent properties. All inputs and outputs are SI base units:
// pressure in Pa, temperature in K, specific enthalpy in J/kg, specific
// entropy in J/kg/K. Vapor quality is a mass fraction.
package props

import "errors"

var (
	ErrTemperatureOutOfRange = errors.New("temperature outside saturation range")
	ErrPressureOutOfRange    = errors.New("pressure outside saturation range")
	ErrQualityOutOfRange     = errors.New("quality must be in [0, 1]")
	ErrStateNotResolvable    = errors.New("state not resolvable from property pair")
)

// Oracle answers property queries for one fixed refrigerant.
//
// Method names encode the input pair: TQ is temperature + quality on the
// saturation dome, PQ is pressure + quality, PS is pressure + entropy,
// PH is pressure + enthalpy. Quality arguments must lie in [0, 1];
// QualityPH may return values outside [0, 1] when the enthalpy falls off
// the two-phase dome at that pressure.
//
// Implementations must be safe for concurrent use.
type Oracle interface {
	// Name identifies the refrigerant, e.g. "R134a".
	Name() string
	// CriticalTemperature returns the critical temperature in K.
	CriticalTemperature() float64
	// MinTemperature returns the lowest temperature in K at which
	// saturation queries are answered. Together with CriticalTemperature
	// it bounds the refrigerant's usable saturation range.
	MinTemperature() float64

	EnthalpyTQ(tempK, quality float64) (float64, error)
	EntropyTQ(tempK, quality float64) (float64, error)
	PressureTQ(tempK, quality float64) (float64, error)

	EnthalpyPQ(pressurePa, quality float64) (float64, error)
	EntropyPQ(pressurePa, quality float64) (float64, error)
	TemperaturePQ(pressurePa, quality float64) (float64, error)

	EnthalpyPS(pressurePa, entropy float64) (float64, error)

	TemperaturePH(pressurePa, enthalpy float64) (float64, error)
	EntropyPH(pressurePa, enthalpy float64) (float64, error)
	QualityPH(pressurePa, enthalpy float64) (float64, error)
}
