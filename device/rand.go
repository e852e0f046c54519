package device

//go:generate go tool mockgen -source=rand.go -destination=mock_rand.go -package=device

import "math/rand/v2"

// Rand is the source of sensor noise. Float64 returns a value in [0, 1).
type Rand interface {
	Float64() float64
}

type defaultRand struct{}

func (defaultRand) Float64() float64 { return rand.Float64() }

// NewRand returns a Rand backed by a seeded PCG generator, for reproducible
// runs.
func NewRand(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed))
}
