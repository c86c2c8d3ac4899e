package props

import (
	"fmt"
	"math"
)

// R134a property coefficients.
//
// The saturation pressure curve is an Antoine-form fit anchored to published
// R134a saturation tables at -40, 0 and 40 degC; saturated liquid/vapor
// enthalpy and liquid entropy are quadratic fits over the same anchors
// (ASHRAE reference state: h = 0, s = 0 for saturated liquid at -40 degC).
// Saturated vapor entropy is derived as sf + (hg-hf)/T so the curves stay
// Clausius-consistent by construction. Fits are good to well under 1% over
// -40..70 degC and degrade gracefully toward the critical point.
const (
	r134aCriticalTempK    = 374.21
	r134aCriticalPressKPa = 4059.28
	r134aMinTempK         = 213.15 // -60 degC, correlation floor

	// ln(Psat[kPa]) = antoineA - antoineB/(T[K] + antoineC)
	antoineA = 14.3969
	antoineB = 2092.6
	antoineC = -33.096

	// kJ/kg over t in degC
	liqEnthA = 51.86
	liqEnthB = 1.35325
	liqEnthC = 0.0014188

	vapEnthA = 250.45
	vapEnthB = 0.567625
	vapEnthC = -0.0011781

	// kJ/kg/K over t in degC
	liqEntrA = 0.20439
	liqEntrB = 4.93575e-3
	liqEntrC = -4.35e-6

	// Mean vapor heat capacity in the superheat region, kJ/kg/K.
	vapCp = 1.10
)

// Correlations work in kPa, kJ and degC internally; the Oracle boundary is
// strict SI (Pa, J, K).
const (
	kiloPascal    = 1e3
	kiloJoule     = 1e3
	celsiusOffset = 273.15
)

// R134a evaluates properties of refrigerant R134a from built-in saturation
// correlations and a constant-cp superheated vapor model. The zero value is
// ready to use; the type is stateless and safe for concurrent callers.
type R134a struct{}

// NewR134a returns an oracle for refrigerant R134a.
func NewR134a() *R134a { return &R134a{} }

func (R134a) Name() string { return "R134a" }

func (R134a) CriticalTemperature() float64 { return r134aCriticalTempK }

func (R134a) MinTemperature() float64 { return r134aMinTempK }

// --- saturation curve, internal units (kPa, kJ) ---

func satPressureKPa(tempK float64) float64 {
	return math.Exp(antoineA - antoineB/(tempK+antoineC))
}

func satTemperatureK(pressKPa float64) float64 {
	return antoineB/(antoineA-math.Log(pressKPa)) - antoineC
}

func liquidEnthalpyKJ(tempK float64) float64 {
	t := tempK - celsiusOffset
	return liqEnthA + liqEnthB*t + liqEnthC*t*t
}

func vaporEnthalpyKJ(tempK float64) float64 {
	t := tempK - celsiusOffset
	return vapEnthA + vapEnthB*t + vapEnthC*t*t
}

func liquidEntropyKJ(tempK float64) float64 {
	t := tempK - celsiusOffset
	return liqEntrA + liqEntrB*t + liqEntrC*t*t
}

func vaporEntropyKJ(tempK float64) float64 {
	return liquidEntropyKJ(tempK) + (vaporEnthalpyKJ(tempK)-liquidEnthalpyKJ(tempK))/tempK
}

// --- argument validation ---

func checkSatTemperature(tempK float64) error {
	if math.IsNaN(tempK) || tempK < r134aMinTempK || tempK >= r134aCriticalTempK {
		return fmt.Errorf("%w: %.2f K not in [%.2f, %.2f)",
			ErrTemperatureOutOfRange, tempK, r134aMinTempK, r134aCriticalTempK)
	}
	return nil
}

func checkSatPressure(pressPa float64) (tempK float64, err error) {
	pKPa := pressPa / kiloPascal
	minKPa := satPressureKPa(r134aMinTempK)
	if math.IsNaN(pKPa) || pKPa < minKPa || pKPa >= r134aCriticalPressKPa {
		return 0, fmt.Errorf("%w: %.1f Pa not in [%.1f, %.1f) Pa",
			ErrPressureOutOfRange, pressPa, minKPa*kiloPascal, r134aCriticalPressKPa*kiloPascal)
	}
	return satTemperatureK(pKPa), nil
}

func checkQuality(q float64) error {
	if math.IsNaN(q) || q < 0 || q > 1 {
		return fmt.Errorf("%w: got %g", ErrQualityOutOfRange, q)
	}
	return nil
}

// --- temperature + quality ---

func (R134a) EnthalpyTQ(tempK, quality float64) (float64, error) {
	if err := checkSatTemperature(tempK); err != nil {
		return 0, err
	}
	if err := checkQuality(quality); err != nil {
		return 0, err
	}
	hf := liquidEnthalpyKJ(tempK)
	hg := vaporEnthalpyKJ(tempK)
	return (hf + quality*(hg-hf)) * kiloJoule, nil
}

func (R134a) EntropyTQ(tempK, quality float64) (float64, error) {
	if err := checkSatTemperature(tempK); err != nil {
		return 0, err
	}
	if err := checkQuality(quality); err != nil {
		return 0, err
	}
	sf := liquidEntropyKJ(tempK)
	sg := vaporEntropyKJ(tempK)
	return (sf + quality*(sg-sf)) * kiloJoule, nil
}

// PressureTQ returns the saturation pressure. The dome pressure is the same
// at any quality, so the quality argument only gets validated.
func (R134a) PressureTQ(tempK, quality float64) (float64, error) {
	if err := checkSatTemperature(tempK); err != nil {
		return 0, err
	}
	if err := checkQuality(quality); err != nil {
		return 0, err
	}
	return satPressureKPa(tempK) * kiloPascal, nil
}

// --- pressure + quality ---

func (o R134a) EnthalpyPQ(pressurePa, quality float64) (float64, error) {
	tempK, err := checkSatPressure(pressurePa)
	if err != nil {
		return 0, err
	}
	return o.EnthalpyTQ(tempK, quality)
}

func (o R134a) EntropyPQ(pressurePa, quality float64) (float64, error) {
	tempK, err := checkSatPressure(pressurePa)
	if err != nil {
		return 0, err
	}
	return o.EntropyTQ(tempK, quality)
}

func (R134a) TemperaturePQ(pressurePa, quality float64) (float64, error) {
	tempK, err := checkSatPressure(pressurePa)
	if err != nil {
		return 0, err
	}
	if err := checkQuality(quality); err != nil {
		return 0, err
	}
	return tempK, nil
}

// --- pressure + entropy ---

// EnthalpyPS resolves enthalpy at a given pressure and entropy. Entropies at
// or above the dew line resolve in the superheated region via the constant-cp
// model (T = Tsat * exp((s-sg)/cp)); entropies inside the dome resolve by the
// lever rule. Compressed liquid states are not modeled.
func (R134a) EnthalpyPS(pressurePa, entropy float64) (float64, error) {
	tSat, err := checkSatPressure(pressurePa)
	if err != nil {
		return 0, err
	}
	s := entropy / kiloJoule
	sf := liquidEntropyKJ(tSat)
	sg := vaporEntropyKJ(tSat)
	switch {
	case math.IsNaN(s):
		return 0, fmt.Errorf("%w: entropy is NaN", ErrStateNotResolvable)
	case s >= sg:
		tempK := tSat * math.Exp((s-sg)/vapCp)
		return (vaporEnthalpyKJ(tSat) + vapCp*(tempK-tSat)) * kiloJoule, nil
	case s >= sf:
		x := (s - sf) / (sg - sf)
		hf := liquidEnthalpyKJ(tSat)
		hg := vaporEnthalpyKJ(tSat)
		return (hf + x*(hg-hf)) * kiloJoule, nil
	default:
		return 0, fmt.Errorf("%w: entropy %.1f J/kg/K below saturated liquid at %.1f Pa",
			ErrStateNotResolvable, entropy, pressurePa)
	}
}

// --- pressure + enthalpy ---

func (R134a) TemperaturePH(pressurePa, enthalpy float64) (float64, error) {
	tSat, err := checkSatPressure(pressurePa)
	if err != nil {
		return 0, err
	}
	h := enthalpy / kiloJoule
	hf := liquidEnthalpyKJ(tSat)
	hg := vaporEnthalpyKJ(tSat)
	switch {
	case math.IsNaN(h):
		return 0, fmt.Errorf("%w: enthalpy is NaN", ErrStateNotResolvable)
	case h >= hg:
		return tSat + (h-hg)/vapCp, nil
	case h >= hf:
		// Two-phase: isobars are isotherms inside the dome.
		return tSat, nil
	default:
		return 0, fmt.Errorf("%w: enthalpy %.1f J/kg below saturated liquid at %.1f Pa",
			ErrStateNotResolvable, enthalpy, pressurePa)
	}
}

func (R134a) EntropyPH(pressurePa, enthalpy float64) (float64, error) {
	tSat, err := checkSatPressure(pressurePa)
	if err != nil {
		return 0, err
	}
	h := enthalpy / kiloJoule
	hf := liquidEnthalpyKJ(tSat)
	hg := vaporEnthalpyKJ(tSat)
	switch {
	case math.IsNaN(h):
		return 0, fmt.Errorf("%w: enthalpy is NaN", ErrStateNotResolvable)
	case h >= hg:
		tempK := tSat + (h-hg)/vapCp
		return (vaporEntropyKJ(tSat) + vapCp*math.Log(tempK/tSat)) * kiloJoule, nil
	case h >= hf:
		x := (h - hf) / (hg - hf)
		sf := liquidEntropyKJ(tSat)
		sg := vaporEntropyKJ(tSat)
		return (sf + x*(sg-sf)) * kiloJoule, nil
	default:
		return 0, fmt.Errorf("%w: enthalpy %.1f J/kg below saturated liquid at %.1f Pa",
			ErrStateNotResolvable, enthalpy, pressurePa)
	}
}

// QualityPH returns the lever-rule vapor fraction at the given pressure.
// Enthalpies off the two-phase dome yield values outside [0, 1] rather than
// an error; callers decide what an off-dome fraction means.
func (R134a) QualityPH(pressurePa, enthalpy float64) (float64, error) {
	tSat, err := checkSatPressure(pressurePa)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(enthalpy) {
		return 0, fmt.Errorf("%w: enthalpy is NaN", ErrStateNotResolvable)
	}
	h := enthalpy / kiloJoule
	hf := liquidEnthalpyKJ(tSat)
	hg := vaporEnthalpyKJ(tSat)
	return (h - hf) / (hg - hf), nil
}
