package prng

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEqualSeedsProduceIdenticalStreams(t *testing.T) {
	a := New(42)
	b := New(42)

	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Gaussian(0, 1), b.Gaussian(0, 1))
	}
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Uniform(-5, 5), b.Uniform(-5, 5))
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	a := New(1)
	b := New(2)

	same := true
	for i := 0; i < 10; i++ {
		if a.Gaussian(0, 1) != b.Gaussian(0, 1) {
			same = false
			break
		}
	}
	assert.False(t, same)
}

func TestUniformBounds(t *testing.T) {
	s := New(7)
	for i := 0; i < 1000; i++ {
		v := s.Uniform(2, 3)
		assert.GreaterOrEqual(t, v, 2.0)
		assert.Less(t, v, 3.0)
	}
}
