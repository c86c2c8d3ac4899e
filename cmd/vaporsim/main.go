package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/SrClicks/simulador-refrigeracion/cmd/app"
	httpctrl "github.com/SrClicks/simulador-refrigeracion/internal/controllers/http"
	modbusctrl "github.com/SrClicks/simulador-refrigeracion/internal/controllers/modbus"
	mqttctrl "github.com/SrClicks/simulador-refrigeracion/internal/controllers/mqtt"
	"github.com/SrClicks/simulador-refrigeracion/internal/cycle"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "path to config file (.yaml/.yml/.json)")
	flag.Parse()

	cfg, err := app.LoadConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}

	oracle, err := cfg.Oracle()
	if err != nil {
		log.Fatal(err)
	}
	unit, err := cycle.NewUnit(cycle.NewSolver(oracle), cfg.Inputs())
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	if cfg.Controllers.HTTP.Enabled {
		srv := httpctrl.New(unit, oracle, cfg.Controllers.HTTP.Addr, cfg.DeviceID)
		log.Printf("vaporsim http listening on %s", cfg.Controllers.HTTP.Addr)
		g.Go(func() error { return srv.Run(ctx) })
	}

	if cfg.Controllers.MQTT.Enabled {
		ctrl, err := mqttctrl.New(unit, mqttctrl.Config{
			DeviceID:        cfg.DeviceID,
			BrokerURL:       cfg.Controllers.MQTT.BrokerURL,
			ClientID:        cfg.Controllers.MQTT.ClientID,
			BaseTopic:       cfg.Controllers.MQTT.BaseTopic,
			QoS:             cfg.Controllers.MQTT.QoS,
			RetainReport:    cfg.Controllers.MQTT.RetainReport,
			PublishInterval: cfg.Controllers.MQTT.PublishInterval,
			Username:        cfg.Controllers.MQTT.Username,
			Password:        cfg.Controllers.MQTT.Password,
		})
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("vaporsim mqtt publishing to %s", cfg.Controllers.MQTT.BrokerURL)
		g.Go(func() error { return ctrl.Run(ctx) })
	}

	if cfg.Controllers.MODBUS.Enabled {
		ctrl, err := modbusctrl.New(unit, modbusctrl.Config{
			DeviceID: cfg.DeviceID,
			Addr:     cfg.Controllers.MODBUS.Addr,
			UnitID:   cfg.Controllers.MODBUS.UnitID,
		})
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("vaporsim modbus listening on %s", cfg.Controllers.MODBUS.Addr)
		g.Go(func() error { return ctrl.Run(ctx) })
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("controller exited: %v", err)
	}
}
