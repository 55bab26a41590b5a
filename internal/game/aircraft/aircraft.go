package aircraft

import (
	"image/color"

	"atc-grid/internal/game/flightplan"
	"atc-grid/pkg/types"
)

type AirplaneState int

const (
	ENROUTE AirplaneState = iota
	ARRIVED
)

var StateStringMap = map[AirplaneState]string{
	ENROUTE: "ENROUTE",
	ARRIVED: "ARRIVED",
}

const (
	DefaultSpeed = 32.0
	DefaultScale = 8.0
)

var DefaultColor = color.RGBA{255, 0, 0, 255}

type Airplane struct {
	ID         types.AirplaneID
	Position   types.Vec2
	Speed      float64 // world units per second
	FlightPlan flightplan.FlightPlan
	State      AirplaneState

	Scale float64
	Color color.RGBA
}

// Sprite is what a renderer needs to draw an airplane.
type Sprite struct {
	Position types.Vec2
	Scale    float64
	Color    color.RGBA
}

func NewAirplane(id types.AirplaneID, pos types.Vec2, speed float64, fp flightplan.FlightPlan) *Airplane {
	ac := &Airplane{
		ID:         id,
		Position:   pos,
		Speed:      speed,
		FlightPlan: fp,
		State:      ENROUTE,
		Scale:      DefaultScale,
		Color:      DefaultColor,
	}
	if fp.Empty() {
		ac.State = ARRIVED
	}
	return ac
}

// Advance moves the airplane along its flight plan for dt seconds. Every
// waypoint reached or passed is popped and the remaining distance carries
// over to the next one. It returns the number of waypoints reached.
func (ac *Airplane) Advance(dt, tileSize float64) int {
	budget := ac.Speed * dt
	if budget < 0 {
		budget = 0
	}

	reached := 0
	for {
		next, ok := ac.FlightPlan.Next()
		if !ok {
			break
		}

		target := next.Point(tileSize)
		dist := ac.Position.DistanceTo(target)
		if dist <= budget {
			ac.Position = target
			ac.FlightPlan.Pop()
			budget -= dist
			reached++
			continue
		}

		dir := target.Sub(ac.Position).Scale(1 / dist)
		ac.Position = ac.Position.Add(dir.Scale(budget))
		break
	}

	if ac.FlightPlan.Empty() {
		ac.State = ARRIVED
	}
	return reached
}

func (ac *Airplane) Arrived() bool {
	return ac.FlightPlan.Empty()
}

// Tile returns the tile whose centre is closest to the airplane.
func (ac *Airplane) Tile(tileSize float64) types.Tile {
	return types.NewTile(roundDiv(ac.Position.X, tileSize), roundDiv(ac.Position.Y, tileSize))
}

func (ac *Airplane) Sprite() Sprite {
	return Sprite{
		Position: ac.Position,
		Scale:    ac.Scale,
		Color:    ac.Color,
	}
}

func roundDiv(v, size float64) int {
	q := v / size
	if q < 0 {
		return -int(-q + 0.5)
	}
	return int(q + 0.5)
}
