// Package controller runs one fan control cycle: it reads the persisted state
// and the temperature, applies the hysteresis policy, drives the pin and
// persists the result.
package controller

import (
	"context"
	"io/fs"
	"strings"
	"time"

	"codeberg.org/mutker/pifanctl/internal/errors"
	"codeberg.org/mutker/pifanctl/internal/fan"
	"codeberg.org/mutker/pifanctl/internal/gpio"
	"codeberg.org/mutker/pifanctl/internal/history"
	"codeberg.org/mutker/pifanctl/internal/logger"
	"codeberg.org/mutker/pifanctl/internal/sensor"
	"codeberg.org/mutker/pifanctl/internal/state"
)

// actionAbort marks a journaled run that stopped before driving the pin.
const actionAbort = "abort"

type Options struct {
	Threshold int
	Variance  int
	Pin       int
	// FailOpen continues on status and sensor errors instead of aborting.
	FailOpen bool
}

// Deps are the collaborators of a Controller. Logger and History may be nil.
type Deps struct {
	Sensor  sensor.Source
	Store   state.Store
	Output  gpio.Output
	History history.Recorder
	Logger  logger.Logger
}

type Controller struct {
	opts    Options
	sensor  sensor.Source
	store   state.Store
	output  gpio.Output
	history history.Recorder
	log     logger.Logger
	runID   string
	started time.Time
}

// Result describes what a run did.
type Result struct {
	RunID            string
	Temperature      fan.Temperature
	TemperatureValid bool
	Decision         fan.Decision
	Written          bool
	Saved            bool
	// Failures lists errors that were logged but did not abort the run.
	Failures []error
}

func New(opts Options, deps Deps) *Controller {
	started := time.Now()
	runID := NewRunID(started)

	log := deps.Logger
	if log == nil {
		log = logger.Default()
	}
	rec := deps.History
	if rec == nil {
		rec = history.Noop()
	}

	return &Controller{
		opts:    opts,
		sensor:  deps.Sensor,
		store:   deps.Store,
		output:  deps.Output,
		history: rec,
		log:     log.With("run_id", runID),
		runID:   runID,
		started: started,
	}
}

// RunID returns the identifier attached to this run's log lines and record.
func (c *Controller) RunID() string {
	return c.runID
}

// Run executes one control cycle. In fail-closed mode the first error after
// GPIO initialization is returned; in fail-open mode only a GPIO
// initialization error is, and the others are collected in Result.Failures.
func (c *Controller) Run(ctx context.Context) (res Result, err error) {
	errFactory := errors.New()
	res.RunID = c.runID

	rec := &history.Record{
		RunID:     c.runID,
		Timestamp: c.started,
		Threshold: c.opts.Threshold,
		Variance:  c.opts.Variance,
		Action:    actionAbort,
		FailOpen:  c.opts.FailOpen,
	}
	defer func() {
		c.journal(ctx, rec, res, err)
	}()

	if err := c.output.Initialize(); err != nil {
		c.log.Error().Err(err).Msg("Failed to initialize GPIO")
		return res, errFactory.Wrap(ErrOutputInit, err)
	}
	defer func() {
		if err := c.output.Close(); err != nil {
			c.log.Warn().Err(err).Msg("Failed to terminate GPIO")
		}
	}()

	if err := c.output.SetMode(c.opts.Pin, gpio.OutputMode); err != nil {
		c.log.Error().Err(err).Int("pin", c.opts.Pin).Msg("Failed to set pin to output")
		return res, errFactory.Wrap(ErrOutputInit, err)
	}

	current, err := c.store.Load()
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist):
		// First run: nothing has been commanded yet.
		c.log.Info().Msg("No fan status file, assuming fan is OFF")
		current = fan.Off
	default:
		c.log.Error().Err(err).Msg("Failed to load fan state")
		if err := c.fail(&res, errFactory.Wrap(ErrLoadState, err)); err != nil {
			return res, err
		}
		current = fan.Off
		c.log.Warn().Msg("Assuming fan is OFF")
	}
	rec.Previous = int(current)
	rec.Next = int(current)
	c.log.Debug().Stringer("state", current).Msg("Loaded fan state")

	var decision fan.Decision
	temperature, err := c.sensor.Read()
	if err != nil {
		c.log.Error().Err(err).Msg("Failed to read CPU temperature")
		if err := c.fail(&res, errFactory.Wrap(ErrReadSensor, err)); err != nil {
			return res, err
		}
		decision = forceOn(current)
		c.log.Warn().Msg("Temperature unknown, forcing fan ON")
	} else {
		res.Temperature = temperature
		res.TemperatureValid = true
		c.log.Info().Msgf("CPU Temperature: %s", temperature)
		decision = fan.Evaluate(current, temperature, c.opts.Threshold, c.opts.Variance)
	}
	res.Decision = decision
	rec.Next = int(decision.Next)
	rec.Action = decision.Action.String()

	level := gpio.LevelFor(decision.Next)
	c.logDecision(decision, level)

	if err := c.output.Write(c.opts.Pin, level); err != nil {
		c.log.Error().Err(err).Int("pin", c.opts.Pin).Msg("Failed to drive fan pin")
		// The pin state is unknown; keep the previous record on disk.
		return res, c.fail(&res, errFactory.Wrap(ErrWriteOutput, err))
	}
	res.Written = true

	if err := c.store.Save(decision.Next); err != nil {
		c.log.Error().Err(err).Msg("Failed to save fan state")
		return res, c.fail(&res, errFactory.Wrap(ErrSaveState, err))
	}
	res.Saved = true
	c.log.Debug().Stringer("state", decision.Next).Msg("Saved fan state")

	return res, nil
}

// fail returns err when the run must stop, or records it and returns nil when
// running fail-open.
func (c *Controller) fail(res *Result, err error) error {
	if !c.opts.FailOpen {
		return err
	}
	res.Failures = append(res.Failures, err)

	return nil
}

func forceOn(current fan.State) fan.Decision {
	if current == fan.On {
		return fan.Decision{Previous: current, Next: fan.On, Action: fan.Hold}
	}

	return fan.Decision{Previous: current, Next: fan.On, Action: fan.TurnOn}
}

func (c *Controller) logDecision(d fan.Decision, level gpio.Level) {
	ev := c.log.Info().
		Int("threshold", c.opts.Threshold).
		Int("variance", c.opts.Variance).
		Stringer("previous", d.Previous).
		Stringer("next", d.Next).
		Stringer("action", d.Action)

	switch d.Action {
	case fan.TurnOn, fan.TurnOff:
		ev.Msgf("Setting pin GPIO%d to %s", c.opts.Pin, level)
	default:
		ev.Msgf("Pin GPIO%d is already %s", c.opts.Pin, level)
	}
}

func (c *Controller) journal(ctx context.Context, rec *history.Record, res Result, runErr error) {
	rec.Temperature = float64(res.Temperature)
	rec.TemperatureValid = res.TemperatureValid

	var msgs []string
	for _, f := range res.Failures {
		msgs = append(msgs, f.Error())
	}
	if runErr != nil {
		msgs = append(msgs, runErr.Error())
	}
	rec.Error = strings.Join(msgs, "; ")

	if err := c.history.Record(ctx, rec); err != nil {
		c.log.Warn().Err(err).Msg("Failed to record run history")
	}
}
