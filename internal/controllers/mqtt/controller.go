package mqttctrl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/SrClicks/simulador-refrigeracion/internal/cycle"
	"github.com/SrClicks/simulador-refrigeracion/internal/ports"
)

type Config struct {
	// Identity
	DeviceID string

	// MQTT connection
	BrokerURL string
	ClientID  string

	// Topics
	BaseTopic string

	// Behavior
	QoS             byte
	RetainReport    bool
	PublishInterval time.Duration

	Username string
	Password string
}

type Controller struct {
	svc ports.CycleService
	cfg Config

	client mqtt.Client
}

func New(svc ports.CycleService, cfg Config) (*Controller, error) {
	// ---- defaults ----

	if cfg.BrokerURL == "" {
		cfg.BrokerURL = "tcp://localhost:1883"
	}

	if cfg.DeviceID == "" {
		return nil, errors.New("mqtt: DeviceID is required")
	}
	if cfg.BaseTopic == "" {
		cfg.BaseTopic = "vaporsim/" + cfg.DeviceID
	}
	if cfg.ClientID == "" {
		cfg.ClientID = "vaporsim-" + cfg.DeviceID
	}
	if cfg.PublishInterval <= 0 {
		cfg.PublishInterval = 1 * time.Second
	}
	if cfg.QoS > 1 {
		return nil, errors.New("mqtt: QoS must be 0 or 1")
	}
	return &Controller{
		svc: svc,
		cfg: cfg,
	}, nil
}

func (c *Controller) Run(ctx context.Context) error {
	opts := mqtt.NewClientOptions().
		AddBroker(c.cfg.BrokerURL).
		SetClientID(c.cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(2 * time.Second)

	if c.cfg.Username != "" {
		opts.SetUsername(c.cfg.Username)
		opts.SetPassword(c.cfg.Password)
	}

	// Subscribe when connected/reconnected.
	opts.OnConnect = func(cl mqtt.Client) {
		// Subscribe to all set commands under BaseTopic.
		topic := c.topic("set/+")
		token := cl.Subscribe(topic, c.cfg.QoS, c.onMessage)
		token.Wait()
		// If subscribe fails, paho exposes token.Error().
	}

	c.client = mqtt.NewClient(opts)
	tok := c.client.Connect()
	tok.Wait()
	if err := tok.Error(); err != nil {
		return fmt.Errorf("mqtt connect: %w", err)
	}

	// Publish loop: solve and publish on interval, and only when the
	// operating point changed. The solve itself is cheap, so recomputing
	// per tick beats caching a stale report.
	ticker := time.NewTicker(c.cfg.PublishInterval)
	defer ticker.Stop()

	var last cycle.Inputs
	first := true

	// publish immediately once
	c.publishReport()

	for {
		select {
		case <-ctx.Done():
			c.client.Disconnect(250)
			return ctx.Err()

		case <-ticker.C:
			cur := c.svc.Inputs()
			if first || cur != last {
				c.publishReport()
				last = cur
				first = false
			}
		}
	}
}

func (c *Controller) publishReport() {
	res, err := c.svc.Solve()
	if err != nil {
		b, _ := json.Marshal(map[string]string{"error": err.Error()})
		c.client.Publish(c.topic("report"), c.cfg.QoS, false, b)
		return
	}
	in := c.svc.Inputs()
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
	b, err := json.Marshal(dto)
	if err != nil {
		// Inf/NaN metrics are not representable in JSON.
		b, _ = json.Marshal(map[string]string{"error": "result contains non-finite metrics"})
	}
	c.client.Publish(c.topic("report"), c.cfg.QoS, c.cfg.RetainReport, b)
}

type reportDTO struct {
	AmbientTemperature   float64 `json:"ambient_temperature"`
	InteriorTemperature  float64 `json:"interior_temperature"`
	MassFlowRate         float64 `json:"mass_flow_rate"`
	CompressorPowerKW    float64 `json:"compressor_power_kw"`
	HeatExtractedKW      float64 `json:"heat_extracted_kw"`
	COP                  float64 `json:"cop"`
	EvaporatorQuality    float64 `json:"evaporator_inlet_quality"`
	DischargeTemperature float64 `json:"discharge_temperature"`
}

// Command payload format: {"value": ...}
type valueReq[T any] struct {
	Value *T `json:"value"`
}

func (c *Controller) onMessage(_ mqtt.Client, msg mqtt.Message) {
	// topic format: <base>/set/<field>
	t := msg.Topic()
	prefix := c.cfg.BaseTopic + "/set/"
	if !strings.HasPrefix(t, prefix) {
		return
	}
	field := strings.TrimPrefix(t, prefix)

	payload := msg.Payload()

	// Dispatch by field
	switch field {
	case "ambient_temperature":
		v, err := decodeValueStrict[float64](payload)
		if err != nil {
			return
		}
		_ = c.svc.SetAmbientTemperature(v)

	case "interior_temperature":
		v, err := decodeValueStrict[float64](payload)
		if err != nil {
			return
		}
		_ = c.svc.SetInteriorTemperature(v)

	case "mass_flow_rate":
		v, err := decodeValueStrict[float64](payload)
		if err != nil {
			return
		}
		_ = c.svc.SetMassFlowRate(v)
	}
}

func (c *Controller) topic(suffix string) string {
	return strings.TrimRight(c.cfg.BaseTopic, "/") + "/" + suffix
}

func decodeValueStrict[T any](b []byte) (T, error) {
	var zero T
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	var req valueReq[T]
	if err := dec.Decode(&req); err != nil {
		return zero, err
	}
	if req.Value == nil {
		return zero, errors.New("missing field 'value'")
	}
	return *req.Value, nil
}
