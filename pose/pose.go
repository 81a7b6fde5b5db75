// Package pose defines the planar pose type shared by every localization
// and navigation component, along with the map/base-link frame transforms
// the particle filter and latency compensator build on.
package pose

import "math"

// LaserForwardOffset is the fixed forward offset of the laser frame from
// base_link along heading, in meters.
const LaserForwardOffset = 0.2

// Pose2D is a planar position and heading. Theta is wrapped to (-pi, pi].
type Pose2D struct {
	X, Y, Theta float64
}

// New returns a Pose2D with Theta wrapped to (-pi, pi].
func New(x, y, theta float64) Pose2D {
	return Pose2D{X: x, Y: y, Theta: WrapAngle(theta)}
}

// WrapAngle wraps an angle in radians to (-pi, pi].
func WrapAngle(theta float64) float64 {
	wrapped := math.Mod(theta+math.Pi, 2*math.Pi)
	if wrapped <= 0 {
		wrapped += 2 * math.Pi
	}
	return wrapped - math.Pi
}

// AngleDiff returns a-b wrapped to (-pi, pi].
func AngleDiff(a, b float64) float64 {
	return WrapAngle(a - b)
}

// LaserOrigin returns the laser frame's origin in map coordinates for this
// pose: base_link translated LaserForwardOffset meters along heading.
func (p Pose2D) LaserOrigin() (x, y float64) {
	return p.X + LaserForwardOffset*math.Cos(p.Theta), p.Y + LaserForwardOffset*math.Sin(p.Theta)
}

// RotateOdomToMap rotates an odometry-frame translation delta into this
// pose's map-frame heading basis, given the odometry heading it was measured
// against. This is the R_Odom2Map step of the motion model: the rotation by
// the heading delta between the particle and the previous odometry angle.
func (p Pose2D) RotateOdomToMap(dx, dy, prevOdomAngle float64) (mx, my float64) {
	theta := AngleDiff(p.Theta, prevOdomAngle)
	sin, cos := math.Sin(theta), math.Cos(theta)
	return cos*dx - sin*dy, sin*dx + cos*dy
}

// ToBaseLink transforms a map-frame point into this pose's base_link frame:
// rotate by -Theta then subtract the laser forward offset, mirroring the
// original particle filter's Map2BaseLink.
func (p Pose2D) ToBaseLink(x, y float64) (bx, by float64) {
	dx, dy := x-p.X, y-p.Y
	sin, cos := math.Sin(-p.Theta), math.Cos(-p.Theta)
	rx, ry := cos*dx-sin*dy, sin*dx+cos*dy
	return rx - LaserForwardOffset, ry
}

// FromBaseLink is the inverse of ToBaseLink: given a point in this pose's
// base_link frame, return its map-frame coordinates. FromBaseLink(ToBaseLink(p))
// is the identity to floating-point tolerance, and vice versa.
func (p Pose2D) FromBaseLink(bx, by float64) (x, y float64) {
	rx, ry := bx+LaserForwardOffset, by
	sin, cos := math.Sin(p.Theta), math.Cos(p.Theta)
	dx, dy := cos*rx-sin*ry, sin*rx+cos*ry
	return p.X + dx, p.Y + dy
}

// Distance returns the Euclidean distance between two poses' positions.
func Distance(a, b Pose2D) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return math.Hypot(dx, dy)
}
