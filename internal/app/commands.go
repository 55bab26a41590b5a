package app

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"atc-grid/internal/game/airspace"
	"atc-grid/internal/game/simulation"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrBadArgument    = errors.New("bad argument")
	ErrNotRunning     = errors.New("simulation is not running")
)

// Execute runs one console command and returns a short reply:
//
//	START                     enter the running state
//	STOP | MENU               go back to the menu
//	SPAWN [edge [offset]]     spawn now, on a random or given edge tile
//	LIST                      live airplanes in spawn order
//	STATS                     airplanes spawned, landed and lost
func (a *App) Execute(line string) (string, error) {
	fields := strings.Fields(strings.ToUpper(line))
	if len(fields) == 0 {
		return "", nil
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "START":
		if err := a.Phases.Transition(simulation.RunningState); err != nil {
			return "", err
		}
		return "running", nil

	case "STOP", "MENU":
		if err := a.Phases.Transition(MenuState); err != nil {
			return "", err
		}
		return "menu", nil

	case "SPAWN":
		if !a.Running() {
			return "", ErrNotRunning
		}
		tile := a.Sim.RandomSpawn()
		if len(args) > 0 {
			edge, err := parseEdge(args[0])
			if err != nil {
				return "", err
			}
			offset := 0
			if len(args) > 1 {
				if offset, err = strconv.Atoi(args[1]); err != nil {
					return "", fmt.Errorf("%w: offset %q", ErrBadArgument, args[1])
				}
			}
			if n := a.Sim.Grid.EdgeLen(edge); offset < 0 || offset >= n {
				return "", fmt.Errorf("%w: offset %d outside [0,%d) on %s", ErrBadArgument, offset, n, edge)
			}
			tile = a.Sim.Grid.EdgeTile(edge, offset)
		}
		ac, err := a.Sim.SpawnAirplaneAt(tile)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s spawned at %s", ac.ID, tile), nil

	case "LIST":
		planes := a.Sim.Aircraft()
		if len(planes) == 0 {
			return "no traffic", nil
		}
		lines := make([]string, 0, len(planes))
		for _, ac := range planes {
			lines = append(lines, fmt.Sprintf("%s %s %d to go",
				ac.ID, ac.Tile(a.Sim.TileSize), ac.FlightPlan.Len()))
		}
		return strings.Join(lines, "\n"), nil

	case "STATS":
		st := a.Sim.Stats()
		return fmt.Sprintf("spawned %d, landed %d, lost %d", st.Spawned, st.Landed, st.Lost), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
}

func parseEdge(s string) (airspace.Edge, error) {
	for e, name := range airspace.EdgeStringMap {
		if name == s || name[:1] == s {
			return e, nil
		}
	}
	return 0, fmt.Errorf("%w: edge %q, want TOP, RIGHT, BOTTOM or LEFT", ErrBadArgument, s)
}
