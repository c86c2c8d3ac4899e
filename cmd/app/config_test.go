package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEnvKeyTransform_TopLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"DEVICE_ID", "device_id"},
		{"REFRIGERANT", "refrigerant"},
		{"ADDR", "addr"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		got := envKeyTransform(tt.in)
		if got != tt.want {
			t.Fatalf("envKeyTransform(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEnvKeyTransform_Controllers(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"CONTROLLERS_HTTP_ADDR", "controllers.http.addr"},
		{"CONTROLLERS_MQTT_PUBLISH_INTERVAL", "controllers.mqtt.publish_interval"},
		{"CONTROLLERS_MODBUS_UNIT_ID", "controllers.modbus.unit_id"},
		{"CONTROLLERS_HTTP", "controllers_http"},   // not enough parts -> fallback
		{"CONTROLLERS__ADDR", "controllers..addr"}, // edge case
		{"controllers_HTTP_addr", "controllers.http.addr"},
		{"CONTROLLERS_MQTT_RETAIN_REPORT", "controllers.mqtt.retain_report"},
	}

	for _, tt := range tests {
		got := envKeyTransform(tt.in)
		if got != tt.want {
			t.Fatalf("envKeyTransform(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEnvKeyTransform_Cycle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"CYCLE_AMBIENT_TEMPERATURE", "cycle.ambient_temperature"},
		{"CYCLE_INTERIOR_TEMPERATURE", "cycle.interior_temperature"},
		{"CYCLE_MASS_FLOW_RATE", "cycle.mass_flow_rate"},
		{"CYCLE", "cycle"}, // not enough parts -> passthrough
	}

	for _, tt := range tests {
		got := envKeyTransform(tt.in)
		if got != tt.want {
			t.Fatalf("envKeyTransform(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadConfig_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.DeviceID != "default" {
		t.Fatalf("expected device_id=default, got %q", cfg.DeviceID)
	}
	if cfg.Refrigerant != "r134a" {
		t.Fatalf("expected refrigerant=r134a, got %q", cfg.Refrigerant)
	}
	if !cfg.Controllers.HTTP.Enabled || cfg.Controllers.HTTP.Addr != ":8080" {
		t.Fatalf("unexpected http defaults: %+v", cfg.Controllers.HTTP)
	}
	if cfg.Controllers.MQTT.PublishInterval != 1*time.Second {
		t.Fatalf("unexpected mqtt publish interval: %v", cfg.Controllers.MQTT.PublishInterval)
	}
	if cfg.Controllers.MODBUS.Addr != "127.0.0.1:1502" || cfg.Controllers.MODBUS.UnitID != 1 {
		t.Fatalf("unexpected modbus defaults: %+v", cfg.Controllers.MODBUS)
	}
	if cfg.Cycle.AmbientTemperature != 25 || cfg.Cycle.InteriorTemperature != 4 || cfg.Cycle.MassFlowRate != 0.1 {
		t.Fatalf("unexpected cycle defaults: %+v", cfg.Cycle)
	}
}

func TestLoadConfig_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
device_id: coldroom1
controllers:
  http:
    addr: ":9090"
  mqtt:
    enabled: true
    broker_url: "tcp://broker:1883"
cycle:
  ambient_temperature: 35
  mass_flow_rate: 0.2
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.DeviceID != "coldroom1" {
		t.Fatalf("expected device_id=coldroom1, got %q", cfg.DeviceID)
	}
	if cfg.Controllers.HTTP.Addr != ":9090" {
		t.Fatalf("expected http addr :9090, got %q", cfg.Controllers.HTTP.Addr)
	}
	if !cfg.Controllers.MQTT.Enabled || cfg.Controllers.MQTT.BrokerURL != "tcp://broker:1883" {
		t.Fatalf("unexpected mqtt config: %+v", cfg.Controllers.MQTT)
	}
	if cfg.Cycle.AmbientTemperature != 35 || cfg.Cycle.MassFlowRate != 0.2 {
		t.Fatalf("unexpected cycle config: %+v", cfg.Cycle)
	}
	// untouched keys keep their defaults
	if cfg.Cycle.InteriorTemperature != 4 {
		t.Fatalf("expected interior default 4, got %v", cfg.Cycle.InteriorTemperature)
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("device_id: fromfile\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("VAPORSIM_DEVICE_ID", "fromenv")
	t.Setenv("VAPORSIM_CONTROLLERS_HTTP_ADDR", ":7070")
	t.Setenv("VAPORSIM_CYCLE_INTERIOR_TEMPERATURE", "-18")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.DeviceID != "fromenv" {
		t.Fatalf("expected env to win, got device_id=%q", cfg.DeviceID)
	}
	if cfg.Controllers.HTTP.Addr != ":7070" {
		t.Fatalf("expected http addr :7070, got %q", cfg.Controllers.HTTP.Addr)
	}
	if cfg.Cycle.InteriorTemperature != -18 {
		t.Fatalf("expected interior -18, got %v", cfg.Cycle.InteriorTemperature)
	}
}

func TestLoadConfig_UnsupportedExtension(t *testing.T) {
	if _, err := LoadConfig("config.toml"); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestConfigOracle(t *testing.T) {
	cfg := defaultConfig()
	o, err := cfg.Oracle()
	if err != nil {
		t.Fatalf("Oracle: %v", err)
	}
	if o.Name() != "R134a" {
		t.Fatalf("expected R134a oracle, got %q", o.Name())
	}

	cfg.Refrigerant = "r744"
	if _, err := cfg.Oracle(); err == nil {
		t.Fatal("expected error for unsupported refrigerant")
	}
}

func TestConfigInputs(t *testing.T) {
	cfg := defaultConfig()
	in := cfg.Inputs()
	if in.AmbientTemperatureC != 25 || in.InteriorTemperatureC != 4 || in.MassFlowRateKgS != 0.1 {
		t.Fatalf("unexpected inputs: %+v", in)
	}
}
