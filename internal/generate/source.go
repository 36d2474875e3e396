// Package generate builds the in-memory graph of synthetic FHIR resources.
// All randomness flows through a single seeded Source so a given seed and
// configuration always produce the same graph.
package generate

import (
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
)

// anchorDate is the fixed reference point for all generated dates. A wall
// clock anchor would make the same seed produce different graphs on
// different days.
var anchorDate = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// Source is the single randomness provider for a generation run. It wraps a
// seeded faker for demographic data and a separate seeded stream for UUIDs.
type Source struct {
	Faker *gofakeit.Faker

	// Now anchors all generated dates. Fixed per seed, never read from
	// the clock, so two runs with the same seed produce identical
	// timestamps.
	Now time.Time

	rng *rand.Rand
}

// NewSource creates a Source from a seed. Seed 0 derives one from the clock.
func NewSource(seed uint64) *Source {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Source{
		Faker: gofakeit.New(seed),
		Now:   anchorDate,
		rng:   rand.New(rand.NewSource(int64(seed))),
	}
}

// UUID returns a new random UUID drawn from the seeded stream
func (s *Source) UUID() string {
	id, err := uuid.NewRandomFromReader(s.rng)
	if err != nil {
		// math/rand readers never fail
		return uuid.New().String()
	}
	return id.String()
}

// IntRange returns an int in [min, max]
func (s *Source) IntRange(min, max int) int {
	if min >= max {
		return min
	}
	return s.Faker.IntRange(min, max)
}

// Float64Range returns a float64 in [min, max]
func (s *Source) Float64Range(min, max float64) float64 {
	if min >= max {
		return min
	}
	return s.Faker.Float64Range(min, max)
}

// PickIndex returns an index in [0, n)
func (s *Source) PickIndex(n int) int {
	return s.IntRange(0, n-1)
}

// Chance reports whether a coin flip at the given probability succeeds.
// Probability 0.0 never succeeds, 1.0 always does.
func (s *Source) Chance(probability float64) bool {
	if probability <= 0.0 {
		return false
	}
	if probability >= 1.0 {
		return true
	}
	return s.Faker.Float64Range(0.0, 1.0) < probability
}

// DateBetween returns a random time between the two bounds
func (s *Source) DateBetween(start, end time.Time) time.Time {
	if !start.Before(end) {
		return start
	}
	return s.Faker.DateRange(start, end)
}

// Pick returns a random element of a non-empty slice
func Pick[T any](s *Source, items []T) T {
	return items[s.PickIndex(len(items))]
}

// MaybeCreate runs fn when a coin flip at the given probability succeeds and
// reports whether it ran. All optional resource creation goes through this
// gate so probability semantics stay uniform.
func MaybeCreate(probability float64, s *Source, fn func() error) (bool, error) {
	if !s.Chance(probability) {
		return false, nil
	}
	if err := fn(); err != nil {
		return false, err
	}
	return true, nil
}
