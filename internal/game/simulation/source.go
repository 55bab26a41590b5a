package simulation

import (
	"time"

	"github.com/MichaelTJones/pcg"
)

// Source provides the randomness used to place new airplanes.
type Source interface {
	// Intn returns a value in [0, n). n > 0.
	Intn(n int) int
}

type PCGSource struct {
	r *pcg.PCG32
}

// NewPCGSource returns a seeded source; seed 0 picks one from the clock.
func NewPCGSource(seed uint64) *PCGSource {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	r := pcg.NewPCG32()
	r.Seed(seed, 0xda3e39cb94b95bdb)
	return &PCGSource{r: r}
}

func (s *PCGSource) Intn(n int) int {
	return int(s.r.Bounded(uint32(n)))
}
