package laser

import (
	"math"

	"github.com/fogleman/pt/pt"
	"gonum.org/v1/gonum/spatial/r3"
)

// SurfaceEpsilon is how far a reflected beam is pushed off the mirror it just
// hit before the next query, so the same surface is not found again.
const SurfaceEpsilon = 1e-4

const degToRad = math.Pi / 180

var (
	WorldUp      = V(0, 1, 0)
	WorldRight   = V(1, 0, 0)
	WorldForward = V(0, 0, 1)
)

// V is a shorthand constructor for pt.Vector
func V(X, Y, Z float64) pt.Vector {
	return pt.Vector{X: X, Y: Y, Z: Z}
}

// Reflect mirrors the direction d about the unit normal n.
//
// The result is renormalized so repeated bounces do not drift off unit length.
func Reflect(d, n pt.Vector) pt.Vector {
	return d.Sub(n.MulScalar(2 * d.Dot(n))).Normalize()
}

func isFinite(v pt.Vector) bool {
	for _, c := range []float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// unitDirection normalizes v. Dividing by the largest component first keeps
// the length from overflowing or underflowing, so ok is false only for zero
// or non-finite input.
func unitDirection(v pt.Vector) (pt.Vector, bool) {
	if !isFinite(v) {
		return pt.Vector{}, false
	}
	m := math.Max(math.Abs(v.X), math.Max(math.Abs(v.Y), math.Abs(v.Z)))
	if m == 0 {
		return pt.Vector{}, false
	}
	u := v.DivScalar(m).Normalize()
	if math.Abs(u.Length()-1) > 1e-9 {
		return pt.Vector{}, false
	}
	return u, true
}

func toR3(v pt.Vector) r3.Vec {
	return r3.Vec{X: v.X, Y: v.Y, Z: v.Z}
}

func fromR3(v r3.Vec) pt.Vector {
	return pt.Vector{X: v.X, Y: v.Y, Z: v.Z}
}

// rotateAbout rotates v by degrees around axis (right-handed).
func rotateAbout(v, axis pt.Vector, degrees float64) pt.Vector {
	if degrees == 0 || axis.Length() == 0 {
		return v
	}
	rot := r3.NewRotation(degrees*degToRad, toR3(axis.Normalize()))
	return fromR3(rot.Rotate(toR3(v)))
}

// rotationAxisAngle returns the axis and angle (degrees) of the shortest
// rotation that carries unit vector from onto unit vector to.
func rotationAxisAngle(from, to pt.Vector) (pt.Vector, float64) {
	axis := from.Cross(to)
	sin := axis.Length()
	cos := from.Dot(to)
	if sin < 1e-9 {
		if cos > 0 {
			return pt.Vector{}, 0
		}
		return perpendicular(from), 180
	}
	return axis.MulScalar(1 / sin), math.Atan2(sin, cos) / degToRad
}

// slopeDegrees is the angle between a surface normal and world up.
func slopeDegrees(normal pt.Vector) float64 {
	_, angle := rotationAxisAngle(WorldUp, normal.Normalize())
	return angle
}

func perpendicular(a pt.Vector) pt.Vector {
	if a.X == 0 && a.Y == 0 {
		if a.Z == 0 {
			return pt.Vector{}
		}
		return V(0, 1, 0)
	}
	return V(-a.Y, a.X, 0).Normalize()
}
