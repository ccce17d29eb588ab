package entropy

import (
	"math/rand"
	"sync"
)

// Deterministic is a seeded Source. The same seed always yields the same
// sequence of seeds.
type Deterministic struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewDeterministic creates a reproducible seed source.
func NewDeterministic(seed int64) *Deterministic {
	return &Deterministic{rng: rand.New(rand.NewSource(seed))}
}

// Seed implements Source. It never fails.
func (d *Deterministic) Seed() (int64, error) {
	return d.Int63(), nil
}

// Int63 returns the next seed in the stream.
func (d *Deterministic) Int63() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rng.Int63()
}

// Fork draws a master seed from src and returns a Deterministic source built
// on it. Each trial forks its own stream so trials share no generator.
func Fork(src Source) (*Deterministic, error) {
	seed, err := src.Seed()
	if err != nil {
		return nil, err
	}
	return NewDeterministic(seed), nil
}
