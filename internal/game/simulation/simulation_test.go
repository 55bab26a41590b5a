package simulation

import (
	"testing"
	"time"

	"atc-grid/internal/game/aircraft"
	"atc-grid/internal/game/airspace"
	"atc-grid/internal/game/event"
	"atc-grid/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedSource replays vals in order, wrapping around.
type scriptedSource struct {
	vals []int
	next int
}

func (s *scriptedSource) Intn(n int) int {
	v := s.vals[s.next%len(s.vals)]
	s.next++
	return v % n
}

type harness struct {
	sim *Simulation
	bus *event.Bus
	sub *event.Subscription
}

func newHarness(t *testing.T, period time.Duration, src Source) *harness {
	t.Helper()

	grid, err := airspace.NewGrid(airspace.Range{Min: -10, Max: 10}, airspace.Range{Min: -10, Max: 10})
	require.NoError(t, err)

	bus := event.NewBus(nil)
	sub := bus.Subscribe()
	sim, err := NewSimulation(Options{
		Grid:        grid,
		SpawnPeriod: period,
		Source:      src,
		Publisher:   event.NewPublisher(bus.Sender(), event.Strict),
	})
	require.NoError(t, err)

	return &harness{sim: sim, bus: bus, sub: sub}
}

func eventsOfKind(events []event.Event, k event.Kind) []event.Event {
	var out []event.Event
	for _, e := range events {
		if e.Kind() == k {
			out = append(out, e)
		}
	}
	return out
}

func TestSpawnTopEdgeScenario(t *testing.T) {
	// Edge 0 is the top edge; offset 15 from x=-10 is x=5.
	h := newHarness(t, time.Second, &scriptedSource{vals: []int{0, 15}})

	require.NoError(t, h.sim.Update(1.0))

	events := h.sub.Get()
	require.Len(t, events, 1)
	detected, ok := events[0].(event.AirplaneDetected)
	require.True(t, ok)

	assert.Equal(t, types.AirplaneID(1), detected.ID)
	assert.Equal(t, types.Location{X: 5, Y: 10}, detected.Location)
	require.Equal(t, 15, detected.FlightPlan.Len())

	dest, _ := detected.FlightPlan.Destination()
	assert.Equal(t, types.NewTile(0, 0), dest)

	prev := types.NewTile(5, 10)
	for _, tile := range detected.FlightPlan.Waypoints() {
		assert.Equal(t, 1, prev.Manhattan(tile))
		assert.Less(t, tile.Manhattan(dest), prev.Manhattan(dest))
		prev = tile
	}

	ac, ok := h.sim.Airplane(1)
	require.True(t, ok)
	assert.Equal(t, aircraft.DefaultSpeed, ac.Speed)
	// Movement ran in the same tick, one tile at the default speed.
	assert.Equal(t, 14, ac.FlightPlan.Len())
	assert.Equal(t, types.NewTile(5, 9).Point(DefaultTileSize), ac.Position)
}

func TestSpawnTimerFiresOnceForThreeShortTicks(t *testing.T) {
	h := newHarness(t, time.Second, NewPCGSource(1))

	for _, dt := range []float64{0.4, 0.4, 0.4} {
		require.NoError(t, h.sim.Update(dt))
	}

	assert.Len(t, eventsOfKind(h.sub.Get(), event.AirplaneDetectedKind), 1)
	assert.Len(t, h.sim.Airplanes, 1)
}

func TestLongTickSpawnsOnce(t *testing.T) {
	h := newHarness(t, time.Second, NewPCGSource(1))
	require.NoError(t, h.sim.Update(3.5))
	assert.Len(t, eventsOfKind(h.sub.Get(), event.AirplaneDetectedKind), 1)
}

func TestEveryEdgeIsReachable(t *testing.T) {
	for edge := airspace.EdgeTop; edge < airspace.NumEdges; edge++ {
		h := newHarness(t, time.Second, &scriptedSource{vals: []int{int(edge), 7}})
		tile := h.sim.RandomSpawn()

		switch edge {
		case airspace.EdgeTop:
			assert.Equal(t, types.NewTile(-3, 10), tile)
		case airspace.EdgeRight:
			assert.Equal(t, types.NewTile(10, -3), tile)
		case airspace.EdgeBottom:
			assert.Equal(t, types.NewTile(-3, -10), tile)
		case airspace.EdgeLeft:
			assert.Equal(t, types.NewTile(-10, -3), tile)
		}
	}
}

func TestRandomSpawnStaysOnEdges(t *testing.T) {
	h := newHarness(t, time.Second, NewPCGSource(42))

	seen := make(map[int]bool)
	for i := 0; i < 2000; i++ {
		tile := h.sim.RandomSpawn()
		require.True(t, h.sim.Grid.OnEdge(tile), "%s", tile)
		switch {
		case tile.Y == 10:
			seen[0] = true
		case tile.X == 10:
			seen[1] = true
		case tile.Y == -10:
			seen[2] = true
		case tile.X == -10:
			seen[3] = true
		}
	}
	assert.Len(t, seen, 4)
}

func TestAirplaneLandsExactlyOnce(t *testing.T) {
	h := newHarness(t, time.Hour, NewPCGSource(1))

	_, err := h.sim.SpawnAirplaneAt(types.NewTile(5, 10))
	require.NoError(t, err)

	var landed []event.Event
	for i := 0; i < 40; i++ {
		require.NoError(t, h.sim.Update(0.5))
		landed = append(landed, eventsOfKind(h.sub.Get(), event.AirplaneLandedKind)...)
		if i < 29 {
			assert.Len(t, h.sim.Airplanes, 1, "tick %d", i)
		}
	}

	require.Len(t, landed, 1)
	assert.Equal(t, event.AirplaneLanded{ID: 1, Location: types.Location{X: 0, Y: 0}}, landed[0])
	assert.Empty(t, h.sim.Airplanes)
	assert.Empty(t, h.sim.Aircraft())
	assert.Empty(t, eventsOfKind(h.sub.Get(), event.AirplaneLostKind))
	assert.Equal(t, Stats{Spawned: 1, Landed: 1}, h.sim.Stats())
}

func TestDespawnLostAirplane(t *testing.T) {
	h := newHarness(t, time.Hour, NewPCGSource(1))

	ac, err := h.sim.SpawnAirplaneAt(types.NewTile(-10, 0))
	require.NoError(t, err)
	h.sub.Get()

	ac.Position = types.NewVec2(-1000, 0)
	require.NoError(t, h.sim.DespawnSystem(0))
	require.NoError(t, h.sim.DespawnSystem(0))

	events := h.sub.Get()
	require.Len(t, events, 1)
	lost, ok := events[0].(event.AirplaneLost)
	require.True(t, ok)
	assert.Equal(t, ac.ID, lost.ID)
	assert.Empty(t, h.sim.Airplanes)

	require.Len(t, h.sim.RadioLog, 2)
	assert.True(t, h.sim.RadioLog[1].IsUrgent)
	assert.Equal(t, Stats{Spawned: 1, Lost: 1}, h.sim.Stats())
}

func TestSpawnedAirplaneIsNotDespawnedInSameTick(t *testing.T) {
	h := newHarness(t, time.Second, &scriptedSource{vals: []int{1, 0}})
	require.NoError(t, h.sim.Update(1))

	assert.Len(t, h.sim.Airplanes, 1)
	assert.Empty(t, eventsOfKind(h.sub.Get(), event.AirplaneLandedKind))
}

func TestIdsAreNeverReused(t *testing.T) {
	h := newHarness(t, time.Second, NewPCGSource(3))

	var ids []types.AirplaneID
	for i := 0; i < 5; i++ {
		ac, err := h.sim.SpawnAirplaneAt(types.NewTile(1, 0))
		require.NoError(t, err)
		ids = append(ids, ac.ID)
	}
	for i := 0; i < 3; i++ {
		require.NoError(t, h.sim.Update(1))
	}
	h.sim.Reset()

	ac, err := h.sim.SpawnAirplaneAt(types.NewTile(1, 0))
	require.NoError(t, err)
	assert.Equal(t, []types.AirplaneID{1, 2, 3, 4, 5}, ids)
	assert.Greater(t, ac.ID, types.AirplaneID(5))
}

func TestStrictPublishFailureLeavesNoAirplane(t *testing.T) {
	h := newHarness(t, time.Second, NewPCGSource(1))
	h.sub.Unsubscribe()

	_, err := h.sim.SpawnAirplaneAt(types.NewTile(3, 10))
	assert.ErrorIs(t, err, event.ErrNoSubscribers)
	assert.Empty(t, h.sim.Airplanes)

	err = h.sim.Update(1)
	assert.ErrorIs(t, err, event.ErrNoSubscribers)
	assert.Empty(t, h.sim.Airplanes)
}

func TestDropPolicyKeepsSimulating(t *testing.T) {
	grid, err := airspace.NewGrid(airspace.Range{Min: -3, Max: 3}, airspace.Range{Min: -3, Max: 3})
	require.NoError(t, err)

	bus := event.NewBus(nil)
	sim, err := NewSimulation(Options{
		Grid:      grid,
		Source:    NewPCGSource(9),
		Publisher: event.NewPublisher(bus.Sender(), event.Drop(nil)),
	})
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		require.NoError(t, sim.Update(0.5))
	}
	assert.NotEmpty(t, sim.RadioLog)
}

func TestSpawnOutOfRange(t *testing.T) {
	h := newHarness(t, time.Second, NewPCGSource(1))

	_, err := h.sim.SpawnAirplaneAt(types.NewTile(30, 0))
	assert.ErrorIs(t, err, airspace.ErrOutOfRange)
	assert.Empty(t, h.sim.Airplanes)
	assert.Empty(t, h.sub.Get())
}

func TestAircraftInSpawnOrder(t *testing.T) {
	h := newHarness(t, time.Hour, NewPCGSource(1))
	for _, tile := range []types.Tile{{X: 10, Y: 0}, {X: -10, Y: 0}, {X: 0, Y: 10}} {
		_, err := h.sim.SpawnAirplaneAt(tile)
		require.NoError(t, err)
	}

	var ids []types.AirplaneID
	for _, ac := range h.sim.Aircraft() {
		ids = append(ids, ac.ID)
	}
	assert.Equal(t, []types.AirplaneID{1, 2, 3}, ids)
}

func TestRadioLogIsBounded(t *testing.T) {
	h := newHarness(t, time.Second, NewPCGSource(1))
	for i := 0; i < 60; i++ {
		h.sim.AddRadioMessage(types.AirplaneID(i), "hello", false)
	}
	require.Len(t, h.sim.RadioLog, 50)
	assert.Equal(t, types.AirplaneID(10), h.sim.RadioLog[0].Callsign)
}

func TestNewSimulationValidates(t *testing.T) {
	_, err := NewSimulation(Options{})
	assert.ErrorIs(t, err, ErrInvalidOptions)

	grid, err := airspace.NewGrid(airspace.Range{Min: -1, Max: 1}, airspace.Range{Min: -1, Max: 1})
	require.NoError(t, err)
	_, err = NewSimulation(Options{Grid: grid, AirplaneSpeed: -1})
	assert.ErrorIs(t, err, ErrInvalidOptions)

	sim, err := NewSimulation(Options{Grid: grid})
	require.NoError(t, err)
	assert.Equal(t, DefaultTileSize, sim.TileSize)
	assert.Equal(t, DefaultSpawnPeriod, sim.SpawnTimer().Period)
}
