// Package phase runs systems attached to the states of an application
// state machine. Each state has three hook points: systems run once when
// the state is entered, on every tick while it is current, and once when
// it is left. Who decides to change state is up to the caller.
package phase

import (
	"errors"
	"fmt"

	"atc-grid/internal/logging"

	"github.com/labstack/gommon/log"
)

type State string

// System is one step run from a hook. Enter and exit hooks get dt == 0.
type System func(dt float64) error

type Hooks struct {
	OnEnter  []System
	OnUpdate []System
	OnExit   []System
}

func (h *Hooks) Enter(s ...System) *Hooks {
	h.OnEnter = append(h.OnEnter, s...)
	return h
}

func (h *Hooks) Update(s ...System) *Hooks {
	h.OnUpdate = append(h.OnUpdate, s...)
	return h
}

func (h *Hooks) Exit(s ...System) *Hooks {
	h.OnExit = append(h.OnExit, s...)
	return h
}

// Plugin adds its systems to the hooks of the state it is registered for.
type Plugin interface {
	Build(h *Hooks)
}

// PluginFunc adapts a function to Plugin.
type PluginFunc func(h *Hooks)

func (f PluginFunc) Build(h *Hooks) { f(h) }

type Scheduler struct {
	hooks   map[State]*Hooks
	current State
	active  bool
	lg      *log.Logger
}

func NewScheduler(lg *log.Logger) *Scheduler {
	if lg == nil {
		lg = logging.Discard("phase")
	}
	return &Scheduler{
		hooks: make(map[State]*Hooks),
		lg:    lg,
	}
}

// Register attaches p's systems to state. Several plugins may share a
// state; their systems run in registration order.
func (s *Scheduler) Register(state State, p Plugin) {
	h, ok := s.hooks[state]
	if !ok {
		h = &Hooks{}
		s.hooks[state] = h
	}
	p.Build(h)
}

// Current returns the active state; ok is false before the first
// Transition and after Stop.
func (s *Scheduler) Current() (state State, ok bool) {
	return s.current, s.active
}

// Transition leaves the current state and enters next. All exit systems of
// the old state run even if some fail; enter systems of next stop at the
// first error. next becomes current in either case. Transitioning to the
// current state does nothing.
func (s *Scheduler) Transition(next State) error {
	if s.active && s.current == next {
		return nil
	}

	var errs []error
	if err := s.exit(); err != nil {
		errs = append(errs, err)
	}

	s.lg.Infof("entering %s", next)
	s.current, s.active = next, true
	if h, ok := s.hooks[next]; ok {
		if err := runAll(h.OnEnter, 0); err != nil {
			errs = append(errs, fmt.Errorf("enter %s: %w", next, err))
		}
	}
	return errors.Join(errs...)
}

// Update runs the update systems of the current state in order, stopping
// at the first error.
func (s *Scheduler) Update(dt float64) error {
	if !s.active {
		return nil
	}
	h, ok := s.hooks[s.current]
	if !ok {
		return nil
	}
	if err := runAll(h.OnUpdate, dt); err != nil {
		return fmt.Errorf("update %s: %w", s.current, err)
	}
	return nil
}

// Stop leaves the current state without entering another.
func (s *Scheduler) Stop() error {
	return s.exit()
}

func (s *Scheduler) exit() error {
	if !s.active {
		return nil
	}
	prev := s.current
	s.active = false
	s.lg.Infof("leaving %s", prev)

	h, ok := s.hooks[prev]
	if !ok {
		return nil
	}
	var errs []error
	for _, sys := range h.OnExit {
		if err := sys(0); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("exit %s: %w", prev, err)
	}
	return nil
}

func runAll(systems []System, dt float64) error {
	for _, sys := range systems {
		if err := sys(dt); err != nil {
			return err
		}
	}
	return nil
}
