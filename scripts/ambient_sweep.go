// Sweeps ambient temperature at a fixed interior temperature and mass flow
// and writes the resulting cycle metrics to CSV, one row per ambient step.
// Feed the output to any plotting tool to see how lift eats into COP.
package main

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/floats"

	"github.com/SrClicks/simulador-refrigeracion/internal/cycle"
	"github.com/SrClicks/simulador-refrigeracion/internal/props"
)

type sweepRow struct {
	AmbientTemperature   float64 `csv:"ambient_c"`
	CondensingPressure   float64 `csv:"condensing_pressure_kpa"`
	CompressorPower      float64 `csv:"compressor_power_kw"`
	HeatExtracted        float64 `csv:"heat_extracted_kw"`
	COP                  float64 `csv:"cop"`
	EvaporatorQuality    float64 `csv:"evaporator_inlet_quality"`
	DischargeTemperature float64 `csv:"discharge_c"`
}

func sweep(ambientFromC, ambientToC float64, steps int, interiorC, massFlowKgS float64, filename string) error {
	solver := cycle.NewSolver(props.NewR134a())

	ambients := floats.Span(make([]float64, steps), ambientFromC, ambientToC)
	rows := make([]sweepRow, 0, steps)
	for _, amb := range ambients {
		res, err := solver.Solve(amb, interiorC, massFlowKgS)
		if err != nil {
			return fmt.Errorf("solve at ambient %.1f C: %v", amb, err)
		}
		rows = append(rows, sweepRow{
			AmbientTemperature:   amb,
			CondensingPressure:   res.States[cycle.CondenserInlet].Pressure / 1e3,
			CompressorPower:      res.Metrics.CompressorPowerKW,
			HeatExtracted:        res.Metrics.HeatExtractedKW,
			COP:                  res.Metrics.COP,
			EvaporatorQuality:    res.Metrics.EvaporatorInletQuality,
			DischargeTemperature: res.Metrics.DischargeTemperatureC,
		})
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	return gocsv.MarshalFile(&rows, file)
}

func main() {
	if err := sweep(15, 45, 61, 4.0, 0.1, "ambient_sweep.csv"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
