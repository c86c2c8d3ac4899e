package cycle

import (
	"math"
	"sync"
)

// Unit is a refrigeration unit holding one mutable operating point. Setters
// validate the cheap domain constraints up front; deeper infeasibility still
// surfaces from Solve as a property-query error. Safe for concurrent use.
type Unit struct {
	mu     sync.RWMutex
	in     Inputs
	solver *Solver
}

func NewUnit(solver *Solver, initial Inputs) (*Unit, error) {
	u := &Unit{solver: solver}
	if err := u.validateAmbient(initial.AmbientTemperatureC); err != nil {
		return nil, err
	}
	if err := validateTemperature(initial.InteriorTemperatureC); err != nil {
		return nil, err
	}
	if err := validateMassFlow(initial.MassFlowRateKgS); err != nil {
		return nil, err
	}
	u.in = initial
	return u, nil
}

func validateTemperature(c float64) error {
	if math.IsNaN(c) || math.IsInf(c, 0) {
		return ErrNonFiniteTemperature
	}
	return nil
}

func validateMassFlow(kgS float64) error {
	if math.IsNaN(kgS) || kgS <= 0 {
		return ErrNonPositiveMassFlow
	}
	return nil
}

func (u *Unit) validateAmbient(c float64) error {
	if err := validateTemperature(c); err != nil {
		return err
	}
	// The condensing lookup happens at ambient + approach; it must stay
	// below the critical point or no saturation state exists there.
	if kelvin(c)+CondenserApproachDelta >= u.solver.oracle.CriticalTemperature() {
		return ErrAmbientAboveCritical
	}
	return nil
}

func (u *Unit) Inputs() Inputs {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.in
}

func (u *Unit) SetAmbientTemperature(c float64) error {
	if err := u.validateAmbient(c); err != nil {
		return err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.in.AmbientTemperatureC = c
	return nil
}

func (u *Unit) SetInteriorTemperature(c float64) error {
	if err := validateTemperature(c); err != nil {
		return err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.in.InteriorTemperatureC = c
	return nil
}

func (u *Unit) SetMassFlowRate(kgS float64) error {
	if err := validateMassFlow(kgS); err != nil {
		return err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.in.MassFlowRateKgS = kgS
	return nil
}

// Solve computes a fresh cycle from the current inputs. Nothing beyond the
// inputs persists between calls.
func (u *Unit) Solve() (Result, error) {
	in := u.Inputs()
	return u.solver.Solve(in.AmbientTemperatureC, in.InteriorTemperatureC, in.MassFlowRateKgS)
}
