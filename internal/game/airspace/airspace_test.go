package airspace

import (
	"testing"

	"atc-grid/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGrid(t *testing.T) *Grid {
	t.Helper()
	g, err := NewGrid(Range{-10, 10}, Range{-10, 10})
	require.NoError(t, err)
	return g
}

func TestNewGridRejectsInvertedRanges(t *testing.T) {
	_, err := NewGrid(Range{5, -5}, Range{-1, 1})
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = NewGrid(Range{-1, 1}, Range{3, 2})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestNewGridSingleTile(t *testing.T) {
	g, err := NewGrid(Range{0, 0}, Range{0, 0})
	require.NoError(t, err)
	for e := EdgeTop; e < NumEdges; e++ {
		assert.Equal(t, 1, g.EdgeLen(e))
		assert.Equal(t, types.NewTile(0, 0), g.EdgeTile(e, 0))
	}
}

func TestGridAirport(t *testing.T) {
	g, err := NewGrid(Range{3, 8}, Range{3, 8})
	require.NoError(t, err)

	assert.Equal(t, types.NewTile(0, 0), g.Airport.Tile)
	assert.False(t, g.Contains(g.Airport.Tile))
	assert.True(t, g.Reachable(g.Airport.Tile))
	assert.False(t, g.Reachable(types.NewTile(1, 1)))
}

func TestEdgeTiles(t *testing.T) {
	g, err := NewGrid(Range{-4, 6}, Range{-2, 3})
	require.NoError(t, err)

	assert.Equal(t, 11, g.EdgeLen(EdgeTop))
	assert.Equal(t, 11, g.EdgeLen(EdgeBottom))
	assert.Equal(t, 6, g.EdgeLen(EdgeLeft))
	assert.Equal(t, 6, g.EdgeLen(EdgeRight))

	assert.Equal(t, types.NewTile(-4, 3), g.EdgeTile(EdgeTop, 0))
	assert.Equal(t, types.NewTile(6, -2), g.EdgeTile(EdgeRight, 0))
	assert.Equal(t, types.NewTile(6, -2), g.EdgeTile(EdgeBottom, 10))
	assert.Equal(t, types.NewTile(-4, 3), g.EdgeTile(EdgeLeft, 5))

	for e := EdgeTop; e < NumEdges; e++ {
		for i := 0; i < g.EdgeLen(e); i++ {
			tile := g.EdgeTile(e, i)
			assert.True(t, g.OnEdge(tile), "%s %d -> %s", e, i, tile)
		}
	}
}

func TestEdgeTileClamps(t *testing.T) {
	g := newTestGrid(t)
	assert.Equal(t, types.NewTile(10, 10), g.EdgeTile(EdgeTop, 100))
	assert.Equal(t, types.NewTile(-10, -10), g.EdgeTile(EdgeLeft, -3))
}

func TestBounds(t *testing.T) {
	g := newTestGrid(t)
	b := g.Bounds(32)

	assert.Equal(t, types.NewVec2(-336, -336), b.Min)
	assert.Equal(t, types.NewVec2(336, 336), b.Max)
	assert.True(t, b.Contains(types.NewTile(10, -10).Point(32)))
	assert.False(t, b.Contains(types.NewVec2(400, 0)))
}

func TestEdgeString(t *testing.T) {
	assert.Equal(t, "TOP", EdgeTop.String())
	assert.Equal(t, "Edge(9)", Edge(9).String())
}
