package ports

import "github.com/SrClicks/simulador-refrigeracion/internal/cycle"

// CycleService is the control-plane port used by controllers (HTTP/MQTT/etc).
type CycleService interface {
	Inputs() cycle.Inputs
	Solve() (cycle.Result, error)
	SetAmbientTemperature(float64) error
	SetInteriorTemperature(float64) error
	SetMassFlowRate(float64) error
}
