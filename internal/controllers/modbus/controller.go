package modbusctrl

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	mbserver "github.com/tbrandon/mbserver"

	"github.com/SrClicks/simulador-refrigeracion/internal/ports"
)

// Register map.
//
// Holding registers (read FC3, write FC6/FC16), scaled int16:
//
//	HR 0  ambient temperature, centi-degC
//	HR 1  interior temperature, centi-degC
//	HR 2  mass flow rate, g/s
//
// Input registers (read FC4), computed from a fresh solve:
//
//	IR 0  compressor power, centi-kW
//	IR 1  heat extracted, centi-kW
//	IR 2  COP x100
//	IR 3  evaporator inlet quality x1000
//	IR 4  discharge temperature, centi-degC
//	IR 5  condensing pressure, kPa
const (
	holdingRegCount = 3
	inputRegCount   = 6
)

// Config for the Modbus controller.
type Config struct {
	DeviceID string
	Addr     string
	UnitID   byte // Modbus slave/unit ID, 1..247.
}

type Controller struct {
	svc ports.CycleService
	cfg Config

	serv *mbserver.Server
}

func New(svc ports.CycleService, cfg Config) (*Controller, error) {
	if cfg.UnitID == 0 {
		return nil, errors.New("modbus: UnitID is required (non-zero)")
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:1502"
	}
	return &Controller{svc: svc, cfg: cfg}, nil
}

// Run starts the Modbus server and registers handlers that apply writes
// immediately and serve reads straight from the cycle service. It blocks
// until ctx is canceled.
func (c *Controller) Run(ctx context.Context) error {
	serv := mbserver.NewServer()
	c.serv = serv

	// Register handlers BEFORE starting the TCP listener to avoid races
	// inside mbserver between registration and the server's goroutines.

	// Read Holding Registers (function 3) - current inputs.
	serv.RegisterFunctionHandler(3, func(s *mbserver.Server, frame mbserver.Framer) ([]byte, *mbserver.Exception) {
		data := frame.GetData()
		if len(data) < 4 {
			return []byte{}, &mbserver.IllegalDataValue
		}
		start := int(binary.BigEndian.Uint16(data[0:2]))
		qty := int(binary.BigEndian.Uint16(data[2:4]))
		if qty == 0 || qty > 125 {
			return []byte{}, &mbserver.IllegalDataValue
		}
		if start < 0 || start+qty > holdingRegCount {
			return []byte{}, &mbserver.IllegalDataAddress
		}
		in := c.svc.Inputs()
		regs := make([]uint16, 0, qty)
		for i := 0; i < qty; i++ {
			switch start + i {
			case 0:
				regs = append(regs, encodeScaled(in.AmbientTemperatureC, temperatureScale))
			case 1:
				regs = append(regs, encodeScaled(in.InteriorTemperatureC, temperatureScale))
			case 2:
				regs = append(regs, encodeScaled(in.MassFlowRateKgS, flowScale))
			default:
				return []byte{}, &mbserver.IllegalDataAddress
			}
		}
		return packRegisters(regs), &mbserver.Success
	})

	// Read Input Registers (function 4) - computed cycle metrics.
	serv.RegisterFunctionHandler(4, func(s *mbserver.Server, frame mbserver.Framer) ([]byte, *mbserver.Exception) {
		data := frame.GetData()
		if len(data) < 4 {
			return []byte{}, &mbserver.IllegalDataValue
		}
		start := int(binary.BigEndian.Uint16(data[0:2]))
		qty := int(binary.BigEndian.Uint16(data[2:4]))
		if qty == 0 || qty > 125 {
			return []byte{}, &mbserver.IllegalDataValue
		}
		if start < 0 || start+qty > inputRegCount {
			return []byte{}, &mbserver.IllegalDataAddress
		}
		res, err := c.svc.Solve()
		if err != nil {
			return []byte{}, &mbserver.SlaveDeviceFailure
		}
		m := res.Metrics
		condPressPa := res.States[1].Pressure
		regs := make([]uint16, 0, qty)
		for i := 0; i < qty; i++ {
			switch start + i {
			case 0:
				regs = append(regs, encodeScaled(m.CompressorPowerKW, powerScale))
			case 1:
				regs = append(regs, encodeScaled(m.HeatExtractedKW, powerScale))
			case 2:
				regs = append(regs, encodeScaled(m.COP, copScale))
			case 3:
				regs = append(regs, encodeScaled(m.EvaporatorInletQuality, qualityScale))
			case 4:
				regs = append(regs, encodeScaled(m.DischargeTemperatureC, temperatureScale))
			case 5:
				regs = append(regs, encodeScaled(condPressPa/1e3, 1))
			default:
				return []byte{}, &mbserver.IllegalDataAddress
			}
		}
		return packRegisters(regs), &mbserver.Success
	})

	// Write Single Register (function 6)
	serv.RegisterFunctionHandler(6, func(s *mbserver.Server, frame mbserver.Framer) ([]byte, *mbserver.Exception) {
		data := frame.GetData()
		if len(data) < 4 {
			return []byte{}, &mbserver.IllegalDataValue
		}
		addr := binary.BigEndian.Uint16(data[0:2])
		value := binary.BigEndian.Uint16(data[2:4])

		if ex := c.applyWrite(int(addr), value); ex != nil {
			return []byte{}, ex
		}

		// echo request (address + value)
		resp := make([]byte, 4)
		copy(resp, data[0:4])
		return resp, &mbserver.Success
	})

	// Write Multiple Registers (function 16)
	serv.RegisterFunctionHandler(16, func(s *mbserver.Server, frame mbserver.Framer) ([]byte, *mbserver.Exception) {
		d := frame.GetData()
		if len(d) < 5 {
			return []byte{}, &mbserver.IllegalDataValue
		}
		start := binary.BigEndian.Uint16(d[0:2])
		quantity := binary.BigEndian.Uint16(d[2:4])
		byteCount := int(d[4])
		if byteCount != int(quantity)*2 || len(d) < 5+byteCount {
			return []byte{}, &mbserver.IllegalDataValue
		}
		for i := 0; i < int(quantity); i++ {
			val := binary.BigEndian.Uint16(d[5+i*2 : 5+i*2+2])
			if ex := c.applyWrite(int(start)+i, val); ex != nil {
				return []byte{}, ex
			}
		}

		resp := make([]byte, 4)
		binary.BigEndian.PutUint16(resp[0:2], start)
		binary.BigEndian.PutUint16(resp[2:4], quantity)
		return resp, &mbserver.Success
	})

	// Now start listening after all handlers are registered.
	if err := serv.ListenTCP(c.cfg.Addr); err != nil {
		return fmt.Errorf("mbserver listen tcp %s: %w", c.cfg.Addr, err)
	}

	// Block until ctx.Done()
	<-ctx.Done()
	serv.Close()
	return ctx.Err()
}

func (c *Controller) applyWrite(addr int, value uint16) *mbserver.Exception {
	switch addr {
	case 0:
		if err := c.svc.SetAmbientTemperature(decodeScaled(value, temperatureScale)); err != nil {
			return &mbserver.IllegalDataValue
		}
	case 1:
		if err := c.svc.SetInteriorTemperature(decodeScaled(value, temperatureScale)); err != nil {
			return &mbserver.IllegalDataValue
		}
	case 2:
		if err := c.svc.SetMassFlowRate(decodeScaled(value, flowScale)); err != nil {
			return &mbserver.IllegalDataValue
		}
	default:
		return &mbserver.IllegalDataAddress
	}
	return nil
}

func packRegisters(regs []uint16) []byte {
	byteCount := len(regs) * 2
	resp := make([]byte, 1+byteCount)
	resp[0] = byte(byteCount)
	for i, r := range regs {
		binary.BigEndian.PutUint16(resp[1+i*2:1+i*2+2], r)
	}
	return resp
}

const (
	temperatureScale = 100  // centi-degC
	flowScale        = 1000 // g/s
	powerScale       = 100  // centi-kW
	copScale         = 100
	qualityScale     = 1000
)

func encodeScaled(v float64, scale float64) uint16 {
	r := math.Round(v * scale)
	// Inf/NaN metrics saturate; registers cannot carry them.
	r = min(max(r, math.MinInt16), math.MaxInt16)
	if math.IsNaN(r) {
		r = math.MaxInt16
	}
	return uint16(int16(r))
}

func decodeScaled(u uint16, scale float64) float64 {
	return float64(int16(u)) / scale
}
