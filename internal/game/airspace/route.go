package airspace

import (
	"fmt"

	"atc-grid/pkg/types"
)

// RouteBetween returns the tiles an airplane visits going from origin to
// destination, origin excluded and destination included. Consecutive tiles
// are one orthogonal step apart, so the route holds exactly
// origin.Manhattan(destination) tiles. Each step reduces the axis with the
// larger remaining distance, X on ties. When origin equals destination the
// route is just the destination.
//
// Both tiles must be reachable on g; anything else is rejected with
// ErrOutOfRange.
func RouteBetween(g *Grid, origin, destination types.Tile) ([]types.Tile, error) {
	if !g.Reachable(origin) {
		return nil, fmt.Errorf("%w: origin %s outside %sx%s", ErrOutOfRange, origin, g.Width, g.Height)
	}
	if !g.Reachable(destination) {
		return nil, fmt.Errorf("%w: destination %s outside %sx%s", ErrOutOfRange, destination, g.Width, g.Height)
	}

	if origin == destination {
		return []types.Tile{destination}, nil
	}

	route := make([]types.Tile, 0, origin.Manhattan(destination))
	current := origin
	for current != destination {
		dx := destination.X - current.X
		dy := destination.Y - current.Y

		if abs(dx) >= abs(dy) {
			current = current.Add(sign(dx), 0)
		} else {
			current = current.Add(0, sign(dy))
		}
		route = append(route, current)
	}
	return route, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
