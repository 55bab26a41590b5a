package flightplan

import (
	"slices"

	"atc-grid/pkg/types"
)

// FlightPlan is the queue of tiles an airplane still has to fly through.
// The front is the next waypoint; an empty plan means the airplane arrived.
type FlightPlan struct {
	waypoints []types.Tile
}

func New(route []types.Tile) FlightPlan {
	return FlightPlan{waypoints: slices.Clone(route)}
}

func (fp FlightPlan) Len() int {
	return len(fp.waypoints)
}

func (fp FlightPlan) Empty() bool {
	return len(fp.waypoints) == 0
}

// Next returns the next waypoint, if any.
func (fp FlightPlan) Next() (types.Tile, bool) {
	if len(fp.waypoints) == 0 {
		return types.Tile{}, false
	}
	return fp.waypoints[0], true
}

// Destination returns the last waypoint, if any.
func (fp FlightPlan) Destination() (types.Tile, bool) {
	if len(fp.waypoints) == 0 {
		return types.Tile{}, false
	}
	return fp.waypoints[len(fp.waypoints)-1], true
}

// Pop drops the next waypoint.
func (fp *FlightPlan) Pop() (types.Tile, bool) {
	next, ok := fp.Next()
	if ok {
		fp.waypoints = fp.waypoints[1:]
	}
	return next, ok
}

// Waypoints returns a copy of the remaining waypoints.
func (fp FlightPlan) Waypoints() []types.Tile {
	return slices.Clone(fp.waypoints)
}

// Clone returns a plan that shares no storage with fp, so events can carry
// the plan as it was at creation time.
func (fp FlightPlan) Clone() FlightPlan {
	return New(fp.waypoints)
}
