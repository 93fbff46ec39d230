package laser

import (
	"fmt"

	"github.com/fogleman/pt/pt"
)

// MirrorSpec is the size of a mirror plate.
type MirrorSpec struct {
	Width  float64
	Height float64
}

var DefaultMirrorSpec = MirrorSpec{Width: 1, Height: 1}

// Mirror is a placeable reflector standing on some ground surface.
//
// In its local frame the plate spans x in [-Width/2, Width/2] and y in
// [0, Height] and faces +z. Local up is the ground normal; yaw turns the
// plate around it and tilt leans it around local x.
type Mirror struct {
	Spec    MirrorSpec
	Surface *Surface

	position     pt.Vector
	groundNormal pt.Vector
	yaw, tilt    float64 // degrees
}

func newMirror(name string, spec MirrorSpec, position, groundNormal pt.Vector, yaw float64) *Mirror {
	m := &Mirror{
		Spec:         spec,
		position:     position,
		groundNormal: groundNormal.Normalize(),
		yaw:          yaw,
	}
	m.Surface = &Surface{Name: name, Role: Reflector, Layers: LayerMirror}
	m.Surface.SetMesh(m.buildMesh())
	return m
}

func (m *Mirror) Position() pt.Vector {
	return m.position
}

func (m *Mirror) GroundNormal() pt.Vector {
	return m.groundNormal
}

func (m *Mirror) Yaw() float64 {
	return m.yaw
}

func (m *Mirror) Tilt() float64 {
	return m.tilt
}

// toWorld rotates a local direction into world space.
func (m *Mirror) toWorld(v pt.Vector) pt.Vector {
	v = rotateAbout(v, WorldRight, m.tilt)
	v = rotateAbout(v, WorldUp, m.yaw)
	axis, angle := rotationAxisAngle(WorldUp, m.groundNormal)
	return rotateAbout(v, axis, angle)
}

// Axes returns the plate's right, up and facing directions in world space.
func (m *Mirror) Axes() (right, up, facing pt.Vector) {
	return m.toWorld(WorldRight), m.toWorld(WorldUp), m.toWorld(WorldForward)
}

// Normal is the direction the reflective face points.
func (m *Mirror) Normal() pt.Vector {
	_, _, facing := m.Axes()
	return facing
}

// LocalPoint expresses a world point in the mirror's frame.
func (m *Mirror) LocalPoint(p pt.Vector) pt.Vector {
	right, up, facing := m.Axes()
	d := p.Sub(m.position)
	return V(d.Dot(right), d.Dot(up), d.Dot(facing))
}

// Corners lists the plate corners in winding order.
func (m *Mirror) Corners() [4]pt.Vector {
	right, up, _ := m.Axes()
	hw := m.Spec.Width / 2
	at := func(x, y float64) pt.Vector {
		return m.position.Add(right.MulScalar(x)).Add(up.MulScalar(y))
	}
	return [4]pt.Vector{
		at(-hw, 0),
		at(hw, 0),
		at(hw, m.Spec.Height),
		at(-hw, m.Spec.Height),
	}
}

func (m *Mirror) buildMesh() *pt.Mesh {
	c := m.Corners()
	return Quad(c[0], c[1], c[2], c[3])
}

func (m *Mirror) rebuild() {
	m.Surface.SetMesh(m.buildMesh())
}

// SetPose seats the mirror at position on ground with the given normal,
// keeping its yaw and tilt.
func (m *Mirror) SetPose(position, groundNormal pt.Vector) {
	m.position = position
	m.groundNormal = groundNormal.Normalize()
	m.rebuild()
}

func (m *Mirror) SetYaw(degrees float64) {
	m.yaw = degrees
	m.rebuild()
}

// Rotate turns the mirror around its local up axis.
func (m *Mirror) Rotate(degrees float64) {
	m.SetYaw(m.yaw + degrees)
}

func (m *Mirror) SetTilt(degrees float64) {
	m.tilt = degrees
	m.rebuild()
}

func (m *Mirror) String() string {
	return fmt.Sprintf("%s at %v yaw %.1f tilt %.1f", m.Surface.Name, m.position, m.yaw, m.tilt)
}
