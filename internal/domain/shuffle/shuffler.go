// Package shuffle reorders whole albums in the play queue while keeping
// track order inside each album.
package shuffle

import (
	"math/rand/v2"
	"slices"
)

// Shuffler produces uniform random permutations of album identifiers.
type Shuffler struct {
	rng *rand.Rand
}

// NewShuffler creates a shuffler drawing from rng. A nil rng uses the
// randomly seeded global source.
func NewShuffler(rng *rand.Rand) *Shuffler {
	return &Shuffler{rng: rng}
}

// Shuffle returns a Fisher-Yates permutation of ids. The input is not modified.
func (s *Shuffler) Shuffle(ids []string) Plan {
	plan := Plan(slices.Clone(ids))
	for i := len(plan) - 1; i > 0; i-- {
		j := s.intN(i + 1)
		plan[i], plan[j] = plan[j], plan[i]
	}
	return plan
}

func (s *Shuffler) intN(n int) int {
	if s.rng == nil {
		return rand.IntN(n)
	}
	return s.rng.IntN(n)
}
