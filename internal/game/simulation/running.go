package simulation

import (
	"atc-grid/internal/game/event"
	"atc-grid/internal/game/phase"
)

const RunningState phase.State = "running"

// Running attaches a Simulation to the running state of the host's state
// machine. Entering starts a fresh session and then announces it, so a
// failed announcement still leaves a working session. Every tick runs
// spawn, movement and despawn in that order, and leaving stops the spawn
// timer and drops all airplanes.
type Running struct {
	Sim *Simulation
}

func NewRunning(sim *Simulation) *Running {
	return &Running{Sim: sim}
}

func (r *Running) Build(h *phase.Hooks) {
	h.Enter(r.setup, r.announce).
		Update(r.Sim.SpawnSystem, r.Sim.MoveSystem, r.Sim.DespawnSystem).
		Exit(r.teardown)
}

func (r *Running) announce(float64) error {
	return r.Sim.Publish(event.PhaseStarted{})
}

func (r *Running) setup(float64) error {
	r.Sim.Reset()
	r.Sim.lg.Infof("Running on %sx%s, airport %s at %s",
		r.Sim.Grid.Width, r.Sim.Grid.Height, r.Sim.Grid.Airport.ID, r.Sim.Grid.Airport.Tile)
	return nil
}

func (r *Running) teardown(float64) error {
	r.Sim.Stop()
	return nil
}
