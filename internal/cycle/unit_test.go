package cycle

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SrClicks/simulador-refrigeracion/internal/props"
)

func newTestInputs(opts ...func(*Inputs)) Inputs {
	in := Inputs{
		AmbientTemperatureC:  25,
		InteriorTemperatureC: 4,
		MassFlowRateKgS:      0.1,
	}
	for _, opt := range opts {
		opt(&in)
	}
	return in
}

func newTestUnit(t *testing.T, opts ...func(*Inputs)) *Unit {
	t.Helper()
	u, err := NewUnit(newTestSolver(), newTestInputs(opts...))
	if err != nil {
		t.Fatalf("NewUnit() failed: %v", err)
	}
	return u
}

func TestNewUnitValidation(t *testing.T) {
	solver := newTestSolver()

	_, err := NewUnit(solver, newTestInputs(func(in *Inputs) { in.MassFlowRateKgS = 0 }))
	assert.ErrorIs(t, err, ErrNonPositiveMassFlow)

	_, err = NewUnit(solver, newTestInputs(func(in *Inputs) { in.MassFlowRateKgS = -1 }))
	assert.ErrorIs(t, err, ErrNonPositiveMassFlow)

	_, err = NewUnit(solver, newTestInputs(func(in *Inputs) { in.AmbientTemperatureC = math.NaN() }))
	assert.ErrorIs(t, err, ErrNonFiniteTemperature)

	_, err = NewUnit(solver, newTestInputs(func(in *Inputs) { in.InteriorTemperatureC = math.Inf(1) }))
	assert.ErrorIs(t, err, ErrNonFiniteTemperature)

	// Ambient + approach delta must stay below the critical point.
	_, err = NewUnit(solver, newTestInputs(func(in *Inputs) { in.AmbientTemperatureC = 90 }))
	assert.ErrorIs(t, err, ErrAmbientAboveCritical)
}

func TestSettersValidate(t *testing.T) {
	u := newTestUnit(t)

	assert.ErrorIs(t, u.SetMassFlowRate(0), ErrNonPositiveMassFlow)
	assert.ErrorIs(t, u.SetAmbientTemperature(math.NaN()), ErrNonFiniteTemperature)
	assert.ErrorIs(t, u.SetAmbientTemperature(200), ErrAmbientAboveCritical)
	assert.ErrorIs(t, u.SetInteriorTemperature(math.Inf(-1)), ErrNonFiniteTemperature)

	// Rejected writes leave the inputs untouched.
	assert.Equal(t, newTestInputs(), u.Inputs())

	require.NoError(t, u.SetAmbientTemperature(30))
	require.NoError(t, u.SetInteriorTemperature(-5))
	require.NoError(t, u.SetMassFlowRate(0.25))
	assert.Equal(t, Inputs{AmbientTemperatureC: 30, InteriorTemperatureC: -5, MassFlowRateKgS: 0.25}, u.Inputs())
}

func TestUnitSolveUsesCurrentInputs(t *testing.T) {
	u := newTestUnit(t)

	before, err := u.Solve()
	require.NoError(t, err)

	require.NoError(t, u.SetMassFlowRate(0.2))
	after, err := u.Solve()
	require.NoError(t, err)

	assert.InEpsilon(t, 2*before.Metrics.CompressorPowerKW, after.Metrics.CompressorPowerKW, 1e-12)
}

// Interior above the dome ceiling passes the cheap setter checks but fails
// at solve time with a property error; the Unit must hand that through.
func TestUnitSolveSurfacesOracleErrors(t *testing.T) {
	u := newTestUnit(t)
	require.NoError(t, u.SetInteriorTemperature(-120))

	_, err := u.Solve()
	assert.ErrorIs(t, err, props.ErrTemperatureOutOfRange)
}

func TestUnitConcurrentAccess(t *testing.T) {
	u := newTestUnit(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if i%2 == 0 {
					_ = u.SetAmbientTemperature(20 + float64(i))
				} else if _, err := u.Solve(); err != nil {
					t.Errorf("concurrent solve: %v", err)
				}
			}
		}(i)
	}
	wg.Wait()
}
