package airspace

import "atc-grid/pkg/types"

type Airport struct {
	ID   string
	Name string
	Tile types.Tile
}

func NewAirport(id, name string, tile types.Tile) *Airport {
	return &Airport{
		ID:   id,
		Name: name,
		Tile: tile,
	}
}

func (ap *Airport) Position(tileSize float64) types.Vec2 {
	return ap.Tile.Point(tileSize)
}
