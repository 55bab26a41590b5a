package aircraft

import "atc-grid/pkg/types"

// IDGenerator hands out airplane ids starting at 1. Ids are uint64 and are
// never reused; wrapping after 2^64-1 ids is not handled. An IDGenerator
// is not safe for concurrent use.
type IDGenerator struct {
	last types.AirplaneID
}

func (g *IDGenerator) Generate() types.AirplaneID {
	g.last++
	return g.last
}

// Last returns the most recently generated id, or 0 if none was issued.
func (g *IDGenerator) Last() types.AirplaneID {
	return g.last
}
