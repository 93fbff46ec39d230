package laser

import (
	"math"
	"testing"

	"github.com/fogleman/pt/pt"
	"github.com/stretchr/testify/assert"
)

func TestCameraOrientation(t *testing.T) {
	s := math.Sqrt2 / 2
	tests := []struct {
		name       string
		yaw, pitch float64
		forward    pt.Vector
		right      pt.Vector
	}{
		{"default", 0, 0, V(0, 0, 1), V(1, 0, 0)},
		{"yaw_90", 90, 0, V(1, 0, 0), V(0, 0, -1)},
		{"yaw_180", 180, 0, V(0, 0, -1), V(-1, 0, 0)},
		{"look_down", 0, 45, V(0, -s, s), V(1, 0, 0)},
		{"look_up", 0, -45, V(0, s, s), V(1, 0, 0)},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := NewCamera(V(0, 0, 0), WithOrientation(test.yaw, test.pitch))
			assert.True(t, near(test.forward, c.Forward()), "forward %v", pretty(c.Forward()))
			assert.True(t, near(test.right, c.Right()), "right %v", pretty(c.Right()))
			origin, forward := c.Pose()
			assert.Equal(t, c.Position, origin)
			assert.Equal(t, c.Forward(), forward)
			assert.Equal(t, c.Forward(), c.Ray().Direction)
		})
	}
}

func TestCameraPitchClamp(t *testing.T) {
	assert := assert.New(t)

	c := NewCamera(V(0, 0, 0), WithOrientation(0, 120))
	assert.Equal(80.0, c.Pitch())

	c = NewCamera(V(0, 0, 0))
	c.Look(0, -500)
	assert.Equal(80.0, c.Pitch())
	c.Look(0, 5000)
	assert.Equal(-80.0, c.Pitch())

	c = NewCamera(V(0, 0, 0), WithPitchLimits(30, -30))
	c.Look(0, -500)
	assert.Equal(30.0, c.Pitch())
}

func TestCameraLook(t *testing.T) {
	assert := assert.New(t)

	c := NewCamera(V(0, 0, 0))
	c.Look(10, 0)
	assert.InDelta(2, c.Yaw(), 1e-9)
	c.Look(0, 10)
	assert.InDelta(-2, c.Pitch(), 1e-9)

	// Yaw wraps instead of growing without bound
	c = NewCamera(V(0, 0, 0), WithLookSensitivity(1))
	c.Look(370, 0)
	assert.InDelta(10, c.Yaw(), 1e-9)
}

func TestCameraLookAcceleration(t *testing.T) {
	c := NewCamera(V(0, 0, 0), WithLookAcceleration(map[float64]float64{0: 1, 100: 3}))
	c.Look(50, 0)
	// 50 * 0.2 sensitivity * 2 from the curve
	assert.InDelta(t, 20, c.Yaw(), 1e-9)
}

func TestCameraMove(t *testing.T) {
	assert := assert.New(t)

	c := NewCamera(V(0, 0, 0))
	c.Move(1, 0, 0.5)
	assert.True(near(V(0, 0, 5), c.Position), "%v", pretty(c.Position))

	c = NewCamera(V(0, 0, 0))
	c.Move(0, -1, 0.1)
	assert.True(near(V(-1, 0, 0), c.Position), "%v", pretty(c.Position))

	// Diagonal input is normalized
	c = NewCamera(V(0, 0, 0), WithMoveSpeed(2))
	c.Move(1, 1, 1)
	assert.InDelta(2, c.Position.Length(), 1e-9)

	c = NewCamera(V(1, 2, 3))
	c.Move(0, 0, 1)
	assert.Equal(V(1, 2, 3), c.Position)
}

func TestCameraCarriesBeam(t *testing.T) {
	w, r, _ := receiverWorld(t)
	c := NewCamera(V(0, 0, 0))
	assert.NoError(t, w.AddEmitter("camera", c, DefaultTraceParams))

	w.Tick()
	assert.Equal(t, Activated, r.State())

	c.Look(500, 0)
	w.Tick()
	assert.Equal(t, Idle, r.State())
}
