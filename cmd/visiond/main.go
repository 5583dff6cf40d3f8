// cmd/visiond/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/tamzrod/pose-fusion/internal/arm"
	"github.com/tamzrod/pose-fusion/internal/bus"
	"github.com/tamzrod/pose-fusion/internal/config"
	"github.com/tamzrod/pose-fusion/internal/field"
	"github.com/tamzrod/pose-fusion/internal/loop"
	"github.com/tamzrod/pose-fusion/internal/telemetry"
	"github.com/tamzrod/pose-fusion/internal/vision"
	"github.com/tamzrod/pose-fusion/internal/writer"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: visiond <config.yaml>")
		os.Exit(2)
	}

	if err := run(os.Args[1]); err != nil {
		slog.Error("visiond failed", "err", err)
		os.Exit(1)
	}
}

func run(cfgPath string) error {
	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	config.Normalize(cfg)

	log := newLogger(cfg.Log)
	slog.SetDefault(log)

	layout, err := field.Load(cfg.Field.LayoutPath)
	if err != nil {
		return fmt.Errorf("field layout: %w", err)
	}
	log.Info("field layout loaded",
		"path", cfg.Field.LayoutPath,
		"tags", layout.TagCount(),
		"length", layout.FieldLength(),
		"width", layout.FieldWidth(),
	)

	// --------------------
	// Transport
	// --------------------

	// Subscriptions are registered before dialing; the client issues them on
	// every connect.
	mqttTimeout := time.Duration(cfg.MQTT.TimeoutMs) * time.Millisecond
	subs := bus.NewSubscriptions(mqttTimeout, log)

	cameras := make([]vision.Camera, 0, len(cfg.Cameras))
	for i, c := range cfg.Cameras {
		src, err := bus.NewSource(c.Topic, time.Duration(c.StaleAfterMs)*time.Millisecond, log)
		if err != nil {
			return fmt.Errorf("camera %d: %w", i, err)
		}
		if err := src.Register(subs); err != nil {
			return fmt.Errorf("camera %d: %w", i, err)
		}
		cameras = append(cameras, vision.Camera{Name: c.Name, Source: src})
	}

	loopCfg := loop.Config{
		Interval: time.Duration(cfg.Loop.IntervalMs) * time.Millisecond,
		Logger:   log,
	}
	if topic := cfg.Control.EnabledTopic; topic != "" {
		sw, err := bus.NewEnableSwitch(topic, log)
		if err != nil {
			return err
		}
		if err := sw.Register(subs); err != nil {
			return err
		}
		loopCfg.Enabled = sw.Enabled
	}

	var armCommands *bus.ArmCommands
	if a := cfg.Arm; a != nil && a.CommandTopic != "" {
		armCommands, err = bus.NewArmCommands(a.CommandTopic, log)
		if err != nil {
			return err
		}
		if err := armCommands.Register(subs); err != nil {
			return err
		}
	}

	client, err := bus.Dial(bus.Config{
		Broker:   cfg.MQTT.Broker,
		ClientID: cfg.MQTT.ClientID,
		Timeout:  mqttTimeout,
	}, subs, log)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	fusion, err := bus.NewFusionPublisher(client, cfg.Fusion.Topic, log)
	if err != nil {
		return err
	}

	// --------------------
	// Diagnostics (log + optional status block + optional recorder)
	// --------------------

	sinks := []vision.DiagnosticsSink{telemetry.NewLogSink(log)}

	if s := cfg.Status; s != nil {
		plan, err := writer.BuildPlan(*s, cfg.Cameras)
		if err != nil {
			return fmt.Errorf("status plan failed: %w", err)
		}
		cli, closeStatus, err := writer.BuildEndpointClient(*s)
		if err != nil {
			return fmt.Errorf("status client failed: %w", err)
		}
		defer closeStatus()

		sink, err := writer.New(plan, cli, log)
		if err != nil {
			return err
		}
		defer func() {
			sink.Close()
			if n := sink.Dropped(); n > 0 {
				log.Warn("status sink dropped cycles", "count", n)
			}
		}()
		sinks = append(sinks, sink)
	}

	if r := cfg.Recorder; r != nil {
		rec, err := telemetry.OpenRecorder(r.Path, log)
		if err != nil {
			return err
		}
		defer func() {
			if err := rec.Close(); err != nil {
				log.Warn("recorder close failed", "err", err)
			}
			if n := rec.Dropped(); n > 0 {
				log.Warn("recorder dropped cycles", "count", n)
			}
		}()
		sinks = append(sinks, rec)
	}

	// --------------------
	// Subsystems
	// --------------------

	v, err := vision.New(vision.Config{
		Params:      vision.ParamsFromConfig(cfg.Vision),
		Layout:      layout,
		Diagnostics: telemetry.NewFanout(log, sinks...),
		Logger:      log,
	}, fusion, cameras...)
	if err != nil {
		return err
	}

	subsystems := []loop.Subsystem{v}

	if a := cfg.Arm; a != nil {
		io, closeArm, err := arm.Build(*a)
		if err != nil {
			return fmt.Errorf("arm build failed: %w", err)
		}
		defer closeArm()

		motor, err := arm.New(io, log)
		if err != nil {
			return err
		}
		if armCommands != nil {
			motor.SetCommandSource(armCommands)
		}
		// stop on the way out regardless of enable state
		defer motor.Stop()
		subsystems = append(subsystems, motor)
	}

	runner, err := loop.New(loopCfg, subsystems...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("visiond running",
		"cameras", v.CameraCount(),
		"interval", loopCfg.Interval,
		"arm", cfg.Arm != nil,
		"status", cfg.Status != nil,
		"recorder", cfg.Recorder != nil,
	)
	runner.Run(ctx)
	log.Info("visiond shutting down")
	return nil
}

func newLogger(c config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.Level))); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
