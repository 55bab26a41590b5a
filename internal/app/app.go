// Package app assembles a simulator session from a Config: the event bus,
// the simulation, the phase scheduler with its menu and running states,
// and the optional event recorder. Both hosts drive an App one tick at a
// time.
package app

import (
	"errors"
	"fmt"
	"io"

	"atc-grid/internal/config"
	"atc-grid/internal/game/event"
	"atc-grid/internal/game/eventlog"
	"atc-grid/internal/game/phase"
	"atc-grid/internal/game/simulation"
	"atc-grid/internal/logging"

	"github.com/labstack/gommon/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// MenuState is the idle state: nothing spawns or moves.
const MenuState phase.State = "menu"

type App struct {
	Config *config.Config
	Bus    *event.Bus
	Sim    *simulation.Simulation
	Phases *phase.Scheduler

	// Events is the host's own view of the bus. Hosts drain it every tick.
	Events *event.Subscription

	recorder  *eventlog.Recorder
	eventFile io.WriteCloser
	lg        *log.Logger
}

// New builds an App. A nil sink discards all logging.
func New(cfg *config.Config, sink *logging.Sink) (*App, error) {
	logger := func(prefix string) *log.Logger {
		if sink == nil {
			return logging.Discard(prefix)
		}
		return sink.Logger(prefix)
	}
	lg := logger("app")

	grid, err := cfg.Grid()
	if err != nil {
		return nil, err
	}
	policy, err := event.ParsePolicy(cfg.Delivery, logger("event"))
	if err != nil {
		return nil, err
	}

	bus := event.NewBus(logger("bus"))
	sim, err := simulation.NewSimulation(simulation.Options{
		Grid:          grid,
		TileSize:      cfg.TileSize,
		SpawnPeriod:   cfg.SpawnPeriod,
		AirplaneSpeed: cfg.AirplaneSpeed,
		Source:        simulation.NewPCGSource(cfg.Seed),
		Publisher:     event.NewPublisher(bus.Sender(), policy),
		Logger:        logger("sim"),
	})
	if err != nil {
		return nil, err
	}

	a := &App{
		Config: cfg,
		Bus:    bus,
		Sim:    sim,
		Phases: phase.NewScheduler(logger("phase")),
		Events: bus.Subscribe(),
		lg:     lg,
	}
	a.Phases.Register(simulation.RunningState, simulation.NewRunning(sim))
	a.Phases.Register(MenuState, phase.PluginFunc(func(h *phase.Hooks) {
		h.Enter(func(float64) error {
			st := a.Sim.Stats()
			a.lg.Infof("In menu; spawned %d, landed %d, lost %d", st.Spawned, st.Landed, st.Lost)
			return nil
		})
	}))

	if cfg.EventLog != "" {
		f := &lumberjack.Logger{
			Filename:   cfg.EventLog,
			MaxSize:    64, // MB
			MaxBackups: 5,
		}
		a.eventFile = f
		a.recorder = eventlog.NewRecorder(bus, f, logger("eventlog"))
		lg.Infof("Recording events to %s", cfg.EventLog)
	}
	return a, nil
}

// Start enters the first state.
func (a *App) Start(state phase.State) error {
	return a.Phases.Transition(state)
}

// Running reports whether the simulation is the current state.
func (a *App) Running() bool {
	state, ok := a.Phases.Current()
	return ok && state == simulation.RunningState
}

// Tick runs the current state's systems for dt seconds and flushes the
// event recorder.
func (a *App) Tick(dt float64) error {
	err := a.Phases.Update(dt)
	if a.recorder != nil {
		if _, ferr := a.recorder.Flush(); ferr != nil {
			err = errors.Join(err, fmt.Errorf("event log: %w", ferr))
		}
	}
	return err
}

// Close leaves the current state, closes the recorder and the bus. The
// App cannot be used afterwards.
func (a *App) Close() error {
	var errs []error
	if err := a.Phases.Stop(); err != nil {
		errs = append(errs, err)
	}
	if a.recorder != nil {
		if err := a.recorder.Close(); err != nil {
			errs = append(errs, fmt.Errorf("event log: %w", err))
		}
		if err := a.eventFile.Close(); err != nil {
			errs = append(errs, fmt.Errorf("event log: %w", err))
		}
	}
	a.Events.Unsubscribe()
	a.Bus.Close()
	return errors.Join(errs...)
}
