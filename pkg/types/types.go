package types

import (
	"fmt"
	"math"
)

// AirplaneID identifies an airplane for the lifetime of the process.
type AirplaneID uint64

func (id AirplaneID) String() string {
	return fmt.Sprintf("AT%04d", uint64(id))
}

type Vec2 struct {
	X float64
	Y float64
}

func NewVec2(x, y float64) Vec2 {
	return Vec2{x, y}
}

func (v1 Vec2) DistanceTo(v2 Vec2) float64 {
	dx := v1.X - v2.X
	dy := v1.Y - v2.Y
	return math.Sqrt(dx*dx + dy*dy)
}

func (v1 Vec2) Add(v2 Vec2) Vec2 {
	return Vec2{v1.X + v2.X, v1.Y + v2.Y}
}

func (v1 Vec2) Sub(v2 Vec2) Vec2 {
	return Vec2{v1.X - v2.X, v1.Y - v2.Y}
}

func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

func (v Vec2) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Tile is a discrete grid cell.
type Tile struct {
	X int
	Y int
}

func NewTile(x, y int) Tile {
	return Tile{x, y}
}

func (t Tile) Add(dx, dy int) Tile {
	return Tile{t.X + dx, t.Y + dy}
}

// Manhattan returns the number of orthogonal steps between t and o.
func (t Tile) Manhattan(o Tile) int {
	return abs(t.X-o.X) + abs(t.Y-o.Y)
}

// Point returns the world position of the tile's centre. World Y grows
// upwards, same as tile Y.
func (t Tile) Point(tileSize float64) Vec2 {
	return Vec2{float64(t.X) * tileSize, float64(t.Y) * tileSize}
}

func (t Tile) String() string {
	return fmt.Sprintf("(%d,%d)", t.X, t.Y)
}

// Location is a tile position as reported to consumers of simulation events.
type Location struct {
	X int `msgpack:"x"`
	Y int `msgpack:"y"`
}

func LocationOf(t Tile) Location {
	return Location{X: t.X, Y: t.Y}
}

func (l Location) String() string {
	return fmt.Sprintf("(%d,%d)", l.X, l.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
