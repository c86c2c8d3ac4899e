package cycle

import "errors"

var (
	ErrNonPositiveMassFlow  = errors.New("mass flow rate must be greater than zero")
	ErrNonFiniteTemperature = errors.New("temperature must be a finite number")
	ErrAmbientAboveCritical = errors.New("ambient plus approach delta reaches the refrigerant critical temperature")
)
