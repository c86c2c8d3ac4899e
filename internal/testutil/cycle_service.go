package testutil

import "github.com/SrClicks/simulador-refrigeracion/internal/cycle"

// FakeCycleService is a reusable fake implementing ports.CycleService.
// Put ONLY what multiple test packages need here.
type FakeCycleService struct {
	In cycle.Inputs

	SolveResult cycle.Result
	SolveErr    error
	SolveCalls  int

	SetAmbientCalled bool
	SetAmbientArg    float64
	SetAmbientErr    error

	SetInteriorCalled bool
	SetInteriorArg    float64
	SetInteriorErr    error

	SetMassFlowCalled bool
	SetMassFlowArg    float64
	SetMassFlowErr    error
}

func NewFakeCycleService() *FakeCycleService {
	return &FakeCycleService{
		In: cycle.Inputs{
			AmbientTemperatureC:  25,
			InteriorTemperatureC: 4,
			MassFlowRateKgS:      0.1,
		},
		SolveResult: cycle.Result{
			Metrics: cycle.Metrics{
				CompressorPowerKW:      2.3,
				HeatExtractedKW:        14.4,
				COP:                    6.3,
				EvaporatorInletQuality: 0.26,
				DischargeTemperatureC:  44.1,
				MassFlowRateKgS:        0.1,
			},
		},
	}
}

func (f *FakeCycleService) Inputs() cycle.Inputs { return f.In }

func (f *FakeCycleService) Solve() (cycle.Result, error) {
	f.SolveCalls++
	if f.SolveErr != nil {
		return cycle.Result{}, f.SolveErr
	}
	return f.SolveResult, nil
}

func (f *FakeCycleService) SetAmbientTemperature(v float64) error {
	f.SetAmbientCalled = true
	f.SetAmbientArg = v
	if f.SetAmbientErr != nil {
		return f.SetAmbientErr
	}
	f.In.AmbientTemperatureC = v
	return nil
}

func (f *FakeCycleService) SetInteriorTemperature(v float64) error {
	f.SetInteriorCalled = true
	f.SetInteriorArg = v
	if f.SetInteriorErr != nil {
		return f.SetInteriorErr
	}
	f.In.InteriorTemperatureC = v
	return nil
}

func (f *FakeCycleService) SetMassFlowRate(v float64) error {
	f.SetMassFlowCalled = true
	f.SetMassFlowArg = v
	if f.SetMassFlowErr != nil {
		return f.SetMassFlowErr
	}
	f.In.MassFlowRateKgS = v
	return nil
}
