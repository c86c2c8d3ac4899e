package httpctrl

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/SrClicks/simulador-refrigeracion/internal/cycle"
	"github.com/SrClicks/simulador-refrigeracion/internal/ports"
	"github.com/SrClicks/simulador-refrigeracion/internal/props"
)

const defaultDomePoints = 100

type Server struct {
	svc      ports.CycleService
	oracle   props.Oracle
	srv      *http.Server
	deviceID string
}

// New returns a runnable server.
func New(svc ports.CycleService, oracle props.Oracle, addr string, deviceID string) *Server {
	mux := http.NewServeMux()
	s := &Server{svc: svc, oracle: oracle, deviceID: deviceID}

	// Read: solve the current operating point.
	mux.HandleFunc("GET /v1", s.handleGet)

	// Write: one endpoint per input variable.
	mux.HandleFunc("POST /v1/ambient_temperature", s.handlePostAmbient)
	mux.HandleFunc("POST /v1/interior_temperature", s.handlePostInterior)
	mux.HandleFunc("POST /v1/mass_flow_rate", s.handlePostMassFlow)

	// Saturation dome samples for P-h chart clients.
	mux.HandleFunc("GET /v1/dome", s.handleGetDome)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// ---- DTOs ----

type statePointDTO struct {
	Pressure    float64 `json:"pressure"`
	Temperature float64 `json:"temperature"`
	Enthalpy    float64 `json:"enthalpy"`
	Entropy     float64 `json:"entropy"`
	Location    string  `json:"location"`
}

type reportDTO struct {
	DeviceID             string           `json:"device_id"`
	Refrigerant          string           `json:"refrigerant"`
	AmbientTemperature   float64          `json:"ambient_temperature"`
	InteriorTemperature  float64          `json:"interior_temperature"`
	MassFlowRate         float64          `json:"mass_flow_rate"`
	CompressorPowerKW    float64          `json:"compressor_power_kw"`
	HeatExtractedKW      float64          `json:"heat_extracted_kw"`
	COP                  float64          `json:"cop"`
	EvaporatorQuality    float64          `json:"evaporator_inlet_quality"`
	DischargeTemperature float64          `json:"discharge_temperature"`
	States               [4]statePointDTO `json:"states"`
}

func toDTO(in cycle.Inputs, res cycle.Result) reportDTO {
	dto := reportDTO{
		AmbientTemperature:   in.AmbientTemperatureC,
		InteriorTemperature:  in.InteriorTemperatureC,
		MassFlowRate:         res.Metrics.MassFlowRateKgS,
		CompressorPowerKW:    res.Metrics.CompressorPowerKW,
		HeatExtractedKW:      res.Metrics.HeatExtractedKW,
		COP:                  res.Metrics.COP,
		EvaporatorQuality:    res.Metrics.EvaporatorInletQuality,
		DischargeTemperature: res.Metrics.DischargeTemperatureC,
	}
	for i, st := range res.States {
		dto.States[i] = statePointDTO{
			Pressure:    st.Pressure,
			Temperature: st.Temperature,
			Enthalpy:    st.Enthalpy,
			Entropy:     st.Entropy,
			Location:    st.Location,
		}
	}
	return dto
}

// ---- Handlers ----

func (s *Server) handleGet(w http.ResponseWriter, _ *http.Request) {
	s.respondReport(w)
}

func (s *Server) handlePostAmbient(w http.ResponseWriter, r *http.Request) {
	postValue(s, w, r, func(v float64) error {
		return s.svc.SetAmbientTemperature(v)
	})
}

func (s *Server) handlePostInterior(w http.ResponseWriter, r *http.Request) {
	postValue(s, w, r, func(v float64) error {
		return s.svc.SetInteriorTemperature(v)
	})
}

func (s *Server) handlePostMassFlow(w http.ResponseWriter, r *http.Request) {
	postValue(s, w, r, func(v float64) error {
		return s.svc.SetMassFlowRate(v)
	})
}

func (s *Server) handleGetDome(w http.ResponseWriter, r *http.Request) {
	n := defaultDomePoints
	if q := r.URL.Query().Get("points"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil {
			writeErr(w, http.StatusBadRequest, "invalid points")
			return
		}
		n = v
	}
	pts, err := props.SaturationDome(s.oracle, n)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"refrigerant": s.oracle.Name(),
		"points":      pts,
	})
}

// ---- generic helpers ----

func (s *Server) respondReport(w http.ResponseWriter) {
	res, err := s.svc.Solve()
	if err != nil {
		writeErr(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	dto := toDTO(s.svc.Inputs(), res)
	dto.DeviceID = s.deviceID
	dto.Refrigerant = s.oracle.Name()
	writeJSON(w, http.StatusOK, dto)
}

func postValue[T any](s *Server, w http.ResponseWriter, r *http.Request, apply func(T) error) {
	dec := json.NewDecoder(r.Body)
	var req struct {
		Value *T `json:"value"`
	}
	if err := dec.Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Value == nil {
		writeErr(w, http.StatusBadRequest, "missing field 'value'")
		return
	}

	if err := apply(*req.Value); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	s.respondReport(w)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	// Marshal up front: degenerate cycles carry Inf/NaN metrics, which
	// encoding/json rejects, and that must not surface as an empty 200.
	b, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"result contains non-finite metrics"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(b)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
