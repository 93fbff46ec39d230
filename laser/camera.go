package laser

import (
	"math"
	"sort"

	"github.com/fogleman/pt/pt"
	lin "github.com/sgreben/piecewiselinear"
)

// Camera is a free-flying observer. Yaw 0 looks down +Z with +X to the
// right; positive pitch looks down.
type Camera struct {
	Position pt.Vector

	yaw, pitch float64 // degrees

	moveSpeed        float64
	lookSensitivity  float64
	minPitch         float64
	maxPitch         float64
	lookAcceleration *lin.Function
}

var _ Emitter = &Camera{}

// CameraOption configures a Camera.
type CameraOption func(*Camera)

// WithMoveSpeed sets the translation speed in units per second.
func WithMoveSpeed(speed float64) CameraOption {
	return func(c *Camera) { c.moveSpeed = speed }
}

// WithLookSensitivity sets degrees of rotation per unit of pointer motion.
func WithLookSensitivity(s float64) CameraOption {
	return func(c *Camera) { c.lookSensitivity = s }
}

// WithPitchLimits clamps how far up and down the camera can look, in degrees.
func WithPitchLimits(min, max float64) CameraOption {
	return func(c *Camera) {
		if min > max {
			min, max = max, min
		}
		c.minPitch, c.maxPitch = min, max
	}
}

// WithOrientation sets the initial yaw and pitch in degrees.
func WithOrientation(yaw, pitch float64) CameraOption {
	return func(c *Camera) { c.yaw, c.pitch = yaw, pitch }
}

// WithLookAcceleration scales sensitivity by pointer speed. curve maps the
// magnitude of a pointer delta onto a multiplier and is interpolated linearly
// between points.
func WithLookAcceleration(curve map[float64]float64) CameraOption {
	return func(c *Camera) {
		if len(curve) == 0 {
			c.lookAcceleration = nil
			return
		}
		xs := make([]float64, 0, len(curve))
		for x := range curve {
			xs = append(xs, x)
		}
		sort.Float64s(xs)
		ys := make([]float64, len(xs))
		for i, x := range xs {
			ys[i] = curve[x]
		}
		c.lookAcceleration = &lin.Function{X: xs, Y: ys}
	}
}

// NewCamera creates a camera at position. Defaults: speed 10, sensitivity
// 0.2, pitch limited to ±80 degrees.
func NewCamera(position pt.Vector, opts ...CameraOption) *Camera {
	c := &Camera{
		Position:        position,
		moveSpeed:       10,
		lookSensitivity: 0.2,
		minPitch:        -80,
		maxPitch:        80,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.pitch = clamp(c.pitch, c.minPitch, c.maxPitch)
	return c
}

func clamp(v, min, max float64) float64 {
	return math.Max(min, math.Min(max, v))
}

func (c *Camera) Yaw() float64 {
	return c.yaw
}

func (c *Camera) Pitch() float64 {
	return c.pitch
}

// Forward is the unit view direction.
func (c *Camera) Forward() pt.Vector {
	pitched := rotateAbout(WorldForward, WorldRight, c.pitch)
	return rotateAbout(pitched, WorldUp, c.yaw).Normalize()
}

// Right is the unit vector to the right of the view, kept horizontal.
func (c *Camera) Right() pt.Vector {
	return rotateAbout(WorldRight, WorldUp, c.yaw).Normalize()
}

// Pose implements Emitter so a beam can be carried by the camera.
func (c *Camera) Pose() (pt.Vector, pt.Vector) {
	return c.Position, c.Forward()
}

// Ray is the line of sight through the middle of the view, used for
// pointing at things.
func (c *Camera) Ray() pt.Ray {
	return pt.Ray{Origin: c.Position, Direction: c.Forward()}
}

// Move translates the camera relative to where it is looking. forward and
// right are input axes in [-1, 1]; diagonal input is not faster.
func (c *Camera) Move(forward, right, dt float64) {
	input := c.Forward().MulScalar(forward).Add(c.Right().MulScalar(right))
	if input.Length() == 0 {
		return
	}
	c.Position = c.Position.Add(input.Normalize().MulScalar(c.moveSpeed * dt))
}

// Look turns the camera by a pointer delta.
func (c *Camera) Look(dx, dy float64) {
	s := c.lookSensitivity
	if c.lookAcceleration != nil {
		s *= c.lookAcceleration.At(math.Hypot(dx, dy))
	}
	c.yaw = math.Mod(c.yaw+dx*s, 360)
	c.pitch = clamp(c.pitch-dy*s, c.minPitch, c.maxPitch)
}
