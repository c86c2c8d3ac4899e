package app

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	kjson "github.com/knadh/koanf/parsers/json"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/SrClicks/simulador-refrigeracion/internal/cycle"
	"github.com/SrClicks/simulador-refrigeracion/internal/props"
)

const envPrefix = "VAPORSIM_"

type Config struct {
	DeviceID    string `koanf:"device_id"`
	Refrigerant string `koanf:"refrigerant"`

	Controllers struct {
		HTTP   HTTPConfig   `koanf:"http"`
		MQTT   MQTTConfig   `koanf:"mqtt"`
		MODBUS ModbusConfig `koanf:"modbus"`
	} `koanf:"controllers"`

	Cycle CycleConfig `koanf:"cycle"`
}

type CycleConfig struct {
	AmbientTemperature  float64 `koanf:"ambient_temperature"`
	InteriorTemperature float64 `koanf:"interior_temperature"`
	MassFlowRate        float64 `koanf:"mass_flow_rate"`
}

type HTTPConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

type MQTTConfig struct {
	Enabled         bool          `koanf:"enabled"`
	BrokerURL       string        `koanf:"broker_url"`
	ClientID        string        `koanf:"client_id"`
	BaseTopic       string        `koanf:"base_topic"`
	QoS             byte          `koanf:"qos"`
	RetainReport    bool          `koanf:"retain_report"`
	PublishInterval time.Duration `koanf:"publish_interval"`
	Username        string        `koanf:"username"`
	Password        string        `koanf:"password"`
}

type ModbusConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
	UnitID  byte   `koanf:"unit_id"`
}

func defaultConfig() Config {
	var cfg Config
	cfg.DeviceID = "default"
	cfg.Refrigerant = "r134a"
	cfg.Controllers.HTTP.Enabled = true
	cfg.Controllers.HTTP.Addr = ":8080"
	cfg.Controllers.MQTT.PublishInterval = 1 * time.Second
	cfg.Controllers.MODBUS.Addr = "127.0.0.1:1502"
	cfg.Controllers.MODBUS.UnitID = 1
	// Scenario defaults mirror a household fridge on a warm day.
	cfg.Cycle.AmbientTemperature = 25.0
	cfg.Cycle.InteriorTemperature = 4.0
	cfg.Cycle.MassFlowRate = 0.1
	return cfg
}

// LoadConfig layers defaults, an optional YAML/JSON file, and VAPORSIM_*
// environment overrides, in that order of precedence (env wins).
func LoadConfig(path string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return Config{}, err
		}
		err = k.Load(file.Provider(path), parser)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load config file: %w", err)
		}
		// Config file missing -> defaults + env only.
	}

	err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			return envKeyTransform(strings.TrimPrefix(key, envPrefix)), value
		},
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return kyaml.Parser(), nil
	case ".json":
		return kjson.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config extension %q", filepath.Ext(path))
	}
}

// envKeyTransform maps flattened env var names onto the dotted config tree:
// CONTROLLERS_HTTP_ADDR -> controllers.http.addr, CYCLE_MASS_FLOW_RATE ->
// cycle.mass_flow_rate, DEVICE_ID -> device_id. Names that don't reach into
// a known section pass through lowercased.
func envKeyTransform(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	parts := strings.Split(key, "_")

	switch {
	case parts[0] == "controllers" && len(parts) >= 3:
		return parts[0] + "." + parts[1] + "." + strings.Join(parts[2:], "_")
	case parts[0] == "cycle" && len(parts) >= 2:
		return parts[0] + "." + strings.Join(parts[1:], "_")
	default:
		return key
	}
}

// Oracle builds the property oracle for the configured refrigerant.
func (c Config) Oracle() (props.Oracle, error) {
	switch strings.ToLower(c.Refrigerant) {
	case "", "r134a":
		return props.NewR134a(), nil
	default:
		return nil, fmt.Errorf("unsupported refrigerant %q", c.Refrigerant)
	}
}

// Inputs returns the initial operating point.
func (c Config) Inputs() cycle.Inputs {
	return cycle.Inputs{
		AmbientTemperatureC:  c.Cycle.AmbientTemperature,
		InteriorTemperatureC: c.Cycle.InteriorTemperature,
		MassFlowRateKgS:      c.Cycle.MassFlowRate,
	}
}
