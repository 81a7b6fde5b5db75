package pose

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapAngle(t *testing.T) {
	assert.InDelta(t, 0.0, WrapAngle(0), 1e-9)
	assert.InDelta(t, math.Pi, WrapAngle(math.Pi), 1e-9)
	assert.InDelta(t, -math.Pi/2, WrapAngle(3*math.Pi/2), 1e-9)
	assert.InDelta(t, 0.1, WrapAngle(2*math.Pi+0.1), 1e-9)
}

func TestMap2BaseLinkRoundTrip(t *testing.T) {
	poses := []Pose2D{
		New(0, 0, 0),
		New(1.5, -2.3, math.Pi/3),
		New(-4, 10, math.Pi),
		New(3, 3, -2.1),
	}
	points := [][2]float64{{0, 0}, {1, 1}, {-5, 2.5}, {10, -10}}

	for _, p := range poses {
		for _, pt := range points {
			bx, by := p.ToBaseLink(pt[0], pt[1])
			x, y := p.FromBaseLink(bx, by)
			assert.InDelta(t, pt[0], x, 1e-6)
			assert.InDelta(t, pt[1], y, 1e-6)
		}
	}
}

func TestLaserOrigin(t *testing.T) {
	p := New(1, 1, 0)
	x, y := p.LaserOrigin()
	assert.InDelta(t, 1.2, x, 1e-9)
	assert.InDelta(t, 1.0, y, 1e-9)
}
