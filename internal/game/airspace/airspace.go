package airspace

import (
	"errors"
	"fmt"

	"atc-grid/pkg/types"
)

var (
	ErrInvalidRange = errors.New("invalid grid range")
	ErrOutOfRange   = errors.New("tile out of range")
)

// Range is an inclusive interval of tile coordinates along one axis.
type Range struct {
	Min int
	Max int
}

func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

func (r Range) Len() int {
	return r.Max - r.Min + 1
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d]", r.Min, r.Max)
}

type Edge int

const (
	EdgeTop Edge = iota
	EdgeRight
	EdgeBottom
	EdgeLeft
	NumEdges
)

var EdgeStringMap = map[Edge]string{
	EdgeTop:    "TOP",
	EdgeRight:  "RIGHT",
	EdgeBottom: "BOTTOM",
	EdgeLeft:   "LEFT",
}

func (e Edge) String() string {
	if s, ok := EdgeStringMap[e]; ok {
		return s
	}
	return fmt.Sprintf("Edge(%d)", int(e))
}

// Grid is the bounded map airplanes fly over. It never changes after
// construction.
type Grid struct {
	Width   Range
	Height  Range
	Airport *Airport
}

func NewGrid(width, height Range) (*Grid, error) {
	if width.Min > width.Max {
		return nil, fmt.Errorf("%w: width %s", ErrInvalidRange, width)
	}
	if height.Min > height.Max {
		return nil, fmt.Errorf("%w: height %s", ErrInvalidRange, height)
	}

	return &Grid{
		Width:   width,
		Height:  height,
		Airport: NewAirport("AIRPORT", "Airport", types.NewTile(0, 0)),
	}, nil
}

func (g *Grid) Contains(t types.Tile) bool {
	return g.Width.Contains(t.X) && g.Height.Contains(t.Y)
}

// Reachable reports whether t may appear on a route: any grid tile, plus
// the airport which is reachable even when the ranges exclude it.
func (g *Grid) Reachable(t types.Tile) bool {
	return g.Contains(t) || t == g.Airport.Tile
}

// EdgeLen returns the number of tiles along edge e.
func (g *Grid) EdgeLen(e Edge) int {
	switch e {
	case EdgeTop, EdgeBottom:
		return g.Width.Len()
	default:
		return g.Height.Len()
	}
}

// EdgeTile returns the i-th tile along edge e, counted from the low end of
// the edge's axis. i is clamped to the edge.
func (g *Grid) EdgeTile(e Edge, i int) types.Tile {
	i = max(0, min(i, g.EdgeLen(e)-1))

	switch e {
	case EdgeTop:
		return types.NewTile(g.Width.Min+i, g.Height.Max)
	case EdgeRight:
		return types.NewTile(g.Width.Max, g.Height.Min+i)
	case EdgeBottom:
		return types.NewTile(g.Width.Min+i, g.Height.Min)
	default:
		return types.NewTile(g.Width.Min, g.Height.Min+i)
	}
}

// OnEdge reports whether t lies on the border of the grid.
func (g *Grid) OnEdge(t types.Tile) bool {
	if !g.Contains(t) {
		return false
	}
	return t.X == g.Width.Min || t.X == g.Width.Max || t.Y == g.Height.Min || t.Y == g.Height.Max
}

// Rect is an axis-aligned world-space rectangle.
type Rect struct {
	Min types.Vec2
	Max types.Vec2
}

func (r Rect) Contains(p types.Vec2) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Bounds returns the world-space area covered by the grid tiles (and the
// airport), padded by half a tile on every side.
func (g *Grid) Bounds(tileSize float64) Rect {
	minX, maxX := min(g.Width.Min, g.Airport.Tile.X), max(g.Width.Max, g.Airport.Tile.X)
	minY, maxY := min(g.Height.Min, g.Airport.Tile.Y), max(g.Height.Max, g.Airport.Tile.Y)
	half := tileSize / 2

	return Rect{
		Min: types.NewVec2(float64(minX)*tileSize-half, float64(minY)*tileSize-half),
		Max: types.NewVec2(float64(maxX)*tileSize+half, float64(maxY)*tileSize+half),
	}
}
