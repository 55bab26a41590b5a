package simulation

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"atc-grid/internal/game/aircraft"
	"atc-grid/internal/game/airspace"
	"atc-grid/internal/game/event"
	"atc-grid/internal/game/flightplan"
	"atc-grid/internal/logging"
	"atc-grid/pkg/types"

	"github.com/labstack/gommon/log"
)

const (
	DefaultTileSize    = 32.0
	DefaultSpawnPeriod = time.Second
)

var ErrInvalidOptions = errors.New("invalid simulation options")

// Stats counts airplanes over the lifetime of a Simulation, across
// sessions.
type Stats struct {
	Spawned int
	Landed  int
	Lost    int
}

type Options struct {
	Grid          *airspace.Grid
	TileSize      float64         // world units per tile, DefaultTileSize if 0
	SpawnPeriod   time.Duration   // DefaultSpawnPeriod if 0
	AirplaneSpeed float64         // aircraft.DefaultSpeed if 0
	Source        Source          // pcg seeded from the clock if nil
	Publisher     event.Publisher // the default bus with the drop policy if unset
	Logger        *log.Logger
}

// Simulation holds all state of a running session: the airplanes, the
// spawn timer and the id counter. It is driven by one tick loop and is not
// safe for concurrent use.
type Simulation struct {
	Airplanes       map[types.AirplaneID]*aircraft.Airplane
	Grid            *airspace.Grid
	TileSize        float64
	GameTimeSeconds float64

	RadioLog        []RadioMessage
	maxRadioLogSize int

	order      []types.AirplaneID
	stats      Stats
	spawnTimer *Timer
	ids        aircraft.IDGenerator
	rnd        Source
	speed      float64
	pub        event.Publisher
	lg         *log.Logger
}

func NewSimulation(opts Options) (*Simulation, error) {
	if opts.Grid == nil {
		return nil, fmt.Errorf("%w: no grid", ErrInvalidOptions)
	}
	if opts.TileSize == 0 {
		opts.TileSize = DefaultTileSize
	}
	if opts.SpawnPeriod == 0 {
		opts.SpawnPeriod = DefaultSpawnPeriod
	}
	if opts.AirplaneSpeed == 0 {
		opts.AirplaneSpeed = aircraft.DefaultSpeed
	}
	if opts.TileSize < 0 || opts.SpawnPeriod < 0 || opts.AirplaneSpeed < 0 {
		return nil, fmt.Errorf("%w: tile size %.1f, spawn period %s, speed %.1f",
			ErrInvalidOptions, opts.TileSize, opts.SpawnPeriod, opts.AirplaneSpeed)
	}
	if opts.Source == nil {
		opts.Source = NewPCGSource(0)
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard("sim")
	}
	if opts.Publisher.Sender == (event.Sender{}) {
		opts.Publisher = event.NewPublisher(event.Default().Sender(), event.Drop(opts.Logger))
	}

	return &Simulation{
		Airplanes:       make(map[types.AirplaneID]*aircraft.Airplane),
		Grid:            opts.Grid,
		TileSize:        opts.TileSize,
		maxRadioLogSize: 50,
		spawnTimer:      NewTimer(opts.SpawnPeriod, true),
		rnd:             opts.Source,
		speed:           opts.AirplaneSpeed,
		pub:             opts.Publisher,
		lg:              opts.Logger,
	}, nil
}

// Update runs one tick: spawn, then movement, then despawn.
func (s *Simulation) Update(dt float64) error {
	for _, sys := range []func(float64) error{s.SpawnSystem, s.MoveSystem, s.DespawnSystem} {
		if err := sys(dt); err != nil {
			return err
		}
	}
	return nil
}

// SpawnSystem advances the session clock and the spawn timer, and creates
// one airplane whenever the timer expired during dt, no matter how many
// periods dt spans.
func (s *Simulation) SpawnSystem(dt float64) error {
	s.GameTimeSeconds += dt
	if s.spawnTimer.Tick(seconds(dt)) == 0 {
		return nil
	}
	_, err := s.SpawnAirplaneAt(s.RandomSpawn())
	return err
}

// RandomSpawn picks an edge uniformly, then a tile along it uniformly.
func (s *Simulation) RandomSpawn() types.Tile {
	edge := airspace.Edge(s.rnd.Intn(int(airspace.NumEdges)))
	return s.Grid.EdgeTile(edge, s.rnd.Intn(s.Grid.EdgeLen(edge)))
}

// SpawnAirplaneAt creates an airplane on tile with a flight plan to the
// airport and publishes AirplaneDetected. If routing or publishing fails
// the airplane is not added; its id is not reused.
func (s *Simulation) SpawnAirplaneAt(tile types.Tile) (*aircraft.Airplane, error) {
	id := s.ids.Generate()
	route, err := airspace.RouteBetween(s.Grid, tile, s.Grid.Airport.Tile)
	if err != nil {
		return nil, fmt.Errorf("spawn %s: %w", id, err)
	}

	fp := flightplan.New(route)
	ac := aircraft.NewAirplane(id, tile.Point(s.TileSize), s.speed, fp)

	err = s.pub.Publish(event.AirplaneDetected{
		ID:         id,
		Location:   types.LocationOf(tile),
		FlightPlan: fp.Clone(),
	})
	if err != nil {
		return nil, fmt.Errorf("spawn %s: %w", id, err)
	}

	s.Airplanes[id] = ac
	s.order = append(s.order, id)
	s.stats.Spawned++
	s.AddRadioMessage(id, fmt.Sprintf("radar contact %s, proceed to %s", tile, s.Grid.Airport.ID), false)
	s.lg.Infof("Spawned airplane %s at %s, %d waypoints to %s", id, tile, fp.Len(), s.Grid.Airport.ID)
	return ac, nil
}

// MoveSystem advances every airplane along its flight plan.
func (s *Simulation) MoveSystem(dt float64) error {
	for _, id := range s.order {
		ac := s.Airplanes[id]
		if n := ac.Advance(dt, s.TileSize); n > 0 {
			s.lg.Debugf("%s reached %d waypoints, %d left", id, n, ac.FlightPlan.Len())
		}
	}
	return nil
}

// DespawnSystem removes airplanes that completed their flight plan and, as
// a safety net, airplanes that drifted off the map. Each removal is
// published once. Failed publications are reported after the pass; the
// airplanes are removed regardless.
func (s *Simulation) DespawnSystem(float64) error {
	bounds := s.Grid.Bounds(s.TileSize)

	var errs []error
	removed := make(map[types.AirplaneID]bool)
	for _, id := range s.order {
		ac := s.Airplanes[id]
		loc := types.LocationOf(ac.Tile(s.TileSize))

		var ev event.Event
		switch {
		case ac.Arrived():
			ev = event.AirplaneLanded{ID: id, Location: loc}
			s.stats.Landed++
			s.AddRadioMessage(id, "landed, good day", false)
			s.lg.Infof("Airplane %s landed at %s", id, loc)
		case !bounds.Contains(ac.Position):
			ev = event.AirplaneLost{ID: id, Location: loc}
			s.stats.Lost++
			s.AddRadioMessage(id, "radar contact lost", true)
			s.lg.Warnf("Airplane %s left the map near %s with %d waypoints left", id, loc, ac.FlightPlan.Len())
		default:
			continue
		}

		delete(s.Airplanes, id)
		removed[id] = true
		if err := s.pub.Publish(ev); err != nil {
			errs = append(errs, fmt.Errorf("despawn %s: %w", id, err))
		}
	}

	if len(removed) > 0 {
		s.order = slices.DeleteFunc(s.order, func(id types.AirplaneID) bool { return removed[id] })
	}
	return errors.Join(errs...)
}

// Aircraft returns the live airplanes in spawn order.
func (s *Simulation) Aircraft() []*aircraft.Airplane {
	out := make([]*aircraft.Airplane, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.Airplanes[id])
	}
	return out
}

func (s *Simulation) Airplane(id types.AirplaneID) (*aircraft.Airplane, bool) {
	ac, ok := s.Airplanes[id]
	return ac, ok
}

// Reset clears the session and restarts the spawn timer. Ids keep
// counting up.
func (s *Simulation) Reset() {
	s.clear()
	s.spawnTimer.Reset()
}

// Stop clears the session and stops the spawn timer.
func (s *Simulation) Stop() {
	s.clear()
	s.spawnTimer.Stop()
}

func (s *Simulation) Stats() Stats {
	return s.stats
}

func (s *Simulation) SpawnTimer() *Timer {
	return s.spawnTimer
}

func (s *Simulation) Publish(e event.Event) error {
	return s.pub.Publish(e)
}

func (s *Simulation) clear() {
	clear(s.Airplanes)
	s.order = s.order[:0]
	s.RadioLog = nil
	s.GameTimeSeconds = 0
}
