package services

import "math/rand"

// RandomSource supplies the randomness behind games so tests can force outcomes
type RandomSource interface {
	// Intn returns a uniform value in [0, n)
	Intn(n int) int
	// Float64 returns a uniform value in [0.0, 1.0)
	Float64() float64
}

type mathRandSource struct{}

// NewRandomSource returns a RandomSource backed by math/rand
func NewRandomSource() RandomSource {
	return mathRandSource{}
}

func (mathRandSource) Intn(n int) int {
	return rand.Intn(n)
}

func (mathRandSource) Float64() float64 {
	return rand.Float64()
}
