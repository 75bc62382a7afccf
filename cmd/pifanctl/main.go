// Copyright © 2024 Mutker Telag <witty.text5011@fastmail.com>
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"codeberg.org/mutker/pifanctl/internal/config"
	"codeberg.org/mutker/pifanctl/internal/controller"
	"codeberg.org/mutker/pifanctl/internal/errors"
	"codeberg.org/mutker/pifanctl/internal/gpio"
	"codeberg.org/mutker/pifanctl/internal/history"
	"codeberg.org/mutker/pifanctl/internal/logger"
	"codeberg.org/mutker/pifanctl/internal/pid"
	"codeberg.org/mutker/pifanctl/internal/sensor"
	"codeberg.org/mutker/pifanctl/internal/state"
	"github.com/spf13/pflag"
)

// Exit codes. The negative ones surface as 255, 254 and 253.
const (
	exitOK             = 0
	exitArgumentCount  = -1
	exitThreshold      = -2
	exitVariance       = -3
	exitGPIOInit       = 1
	exitSensorOpen     = 2
	exitSensorRead     = 3
	exitLoadState      = 4
	exitWriteOutput    = 5
	exitSaveState      = 6
	exitConfig         = 7
	exitAlreadyRunning = 8
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	cfg, err := config.Load(args)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			usage(stdout)
			return exitOK
		}
		fmt.Fprintln(stdout, err)
		return exitCode(err)
	}

	level, _ := logger.ParseLevel(cfg.LogLevel.String())
	logCloser, err := logger.Init(logger.Options{
		Level:       level,
		FilePath:    cfg.LogPath,
		FileEnabled: cfg.LogEnabled,
		Verbose:     cfg.Verbose,
	})
	if err != nil {
		fmt.Fprintf(stdout, "%v, logging to stdout\n", err)
	}
	defer logCloser.Close()

	log := logger.Default()

	if cfg.LockFile != "" {
		lock, err := pid.Acquire(cfg.LockFile)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.LockFile).Msg("Skipping run")
			return exitCode(err)
		}
		defer func() {
			if err := lock.Release(); err != nil {
				log.Warn().Err(err).Msg("Failed to remove PID file")
			}
		}()
	}

	recorder, err := history.NewService(history.Config{
		DBPath:  cfg.HistoryDB,
		Enabled: cfg.History,
	}, log)
	if err != nil {
		log.Warn().Err(err).Msg("Run history unavailable")
		recorder = history.Noop()
	}
	defer func() {
		if err := recorder.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close run history")
		}
	}()

	output, err := gpio.New(cfg.Driver, cfg.Chip, log)
	if err != nil {
		log.Error().Err(err).Msg("Invalid GPIO driver")
		return exitConfig
	}

	c := controller.New(controller.Options{
		Threshold: cfg.Threshold,
		Variance:  cfg.Variance,
		Pin:       cfg.Pin,
		FailOpen:  cfg.FailMode == config.FailOpen,
	}, controller.Deps{
		Sensor:  sensor.NewThermalZone(cfg.SensorPath),
		Store:   state.NewFileStore(cfg.StatusPath),
		Output:  output,
		History: recorder,
		Logger:  log,
	})

	if _, err := c.Run(context.Background()); err != nil {
		if errors.HasCode(err, controller.ErrOutputInit) {
			fmt.Fprintln(stdout, err)
		}
		code := exitCode(err)
		var appErr errors.Error
		if errors.As(err, &appErr) {
			log.ErrorWithCode(appErr).Int("exit_code", code).Msg("Run aborted")
		}
		return code
	}

	return exitOK
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.HasCode(err, errors.ErrArgumentCount):
		return exitArgumentCount
	case errors.HasCode(err, errors.ErrInvalidThreshold):
		return exitThreshold
	case errors.HasCode(err, errors.ErrInvalidVariance):
		return exitVariance
	case errors.HasCode(err, controller.ErrOutputInit):
		return exitGPIOInit
	case errors.HasCode(err, sensor.ErrSensorUnavailable):
		return exitSensorOpen
	case errors.HasCode(err, controller.ErrReadSensor):
		return exitSensorRead
	case errors.HasCode(err, controller.ErrLoadState):
		return exitLoadState
	case errors.HasCode(err, controller.ErrWriteOutput):
		return exitWriteOutput
	case errors.HasCode(err, controller.ErrSaveState):
		return exitSaveState
	case errors.HasCode(err, errors.ErrAlreadyRunning):
		return exitAlreadyRunning
	default:
		return exitConfig
	}
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "Usage: %s [flags] <threshold> <variance>\n\n", config.Name)
	fmt.Fprintln(w, "Turns the fan on at threshold+variance °C and off at threshold-variance °C.")
	fmt.Fprintln(w)

	fs := config.NewFlagSet()
	fs.SetOutput(w)
	fs.PrintDefaults()
}
