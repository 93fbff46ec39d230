package laser

import (
	"github.com/fogleman/pt/pt"
)

// Most of the slicing code is adapted from https://github.com/fogleman/choppy

type Point2D struct {
	X, Y float64
}

func (p Point2D) Translate(x, y float64) Point2D {
	return Point2D{p.X + x, p.Y + y}
}

func (p Point2D) Scale(s float64) Point2D {
	return Point2D{p.X * s, p.Y * s}
}

// Path2D is a polyline in plane coordinates.
type Path2D []Point2D

// BoundingBox returns the extent of the path. An empty path has a zero box.
func (p Path2D) BoundingBox() (XMin, XMax, YMin, YMax float64) {
	for i, q := range p {
		if i == 0 || q.X < XMin {
			XMin = q.X
		}
		if i == 0 || q.X > XMax {
			XMax = q.X
		}
		if i == 0 || q.Y < YMin {
			YMin = q.Y
		}
		if i == 0 || q.Y > YMax {
			YMax = q.Y
		}
	}
	return
}

// Plane is a slicing and projection plane with an in-plane basis U, V.
type Plane struct {
	Point  pt.Vector
	Normal pt.Vector
	U, V   pt.Vector
}

func MakePlane(point, normal pt.Vector) Plane {
	normal = normal.Normalize()
	u := perpendicular(normal).Normalize()
	v := u.Cross(normal).Normalize()
	return Plane{point, normal, u, v}
}

// TopDown is a horizontal plane at the given height, seen from above with x
// to the right and z down the image.
func TopDown(height float64) Plane {
	return Plane{
		Point:  V(0, height, 0),
		Normal: WorldUp,
		U:      WorldRight,
		V:      WorldForward,
	}
}

// Project returns the in-plane coordinates of point.
func (p Plane) Project(point pt.Vector) Point2D {
	d := point.Sub(p.Point)
	return Point2D{d.Dot(p.U), d.Dot(p.V)}
}

// ProjectPath projects a 3D polyline onto the plane.
func (p Plane) ProjectPath(points []pt.Vector) Path2D {
	path := make(Path2D, len(points))
	for i, v := range points {
		path[i] = p.Project(v)
	}
	return path
}

func (p Plane) intersectSegment(v0, v1 pt.Vector) (pt.Vector, bool) {
	u := v1.Sub(v0)
	w := v0.Sub(p.Point)
	d := p.Normal.Dot(u)
	if d > -1e-9 && d < 1e-9 {
		return pt.Vector{}, false
	}
	n := -p.Normal.Dot(w)
	t := n / d
	if t < 0 || t > 1 {
		return pt.Vector{}, false
	}
	return v0.Add(u.MulScalar(t)), true
}

// IntersectTriangle returns the segment where the plane cuts t.
func (p Plane) IntersectTriangle(t *pt.Triangle) (pt.Vector, pt.Vector, bool) {
	v1, ok1 := p.intersectSegment(t.V1, t.V2)
	v2, ok2 := p.intersectSegment(t.V2, t.V3)
	v3, ok3 := p.intersectSegment(t.V3, t.V1)
	var p1, p2 pt.Vector
	switch {
	case ok1 && ok2:
		p1, p2 = v1, v2
	case ok1 && ok3:
		p1, p2 = v1, v3
	case ok2 && ok3:
		p1, p2 = v2, v3
	default:
		return pt.Vector{}, pt.Vector{}, false
	}
	if p1 == p2 {
		return pt.Vector{}, pt.Vector{}, false
	}
	return p1, p2, true
}

// SliceMesh cuts every triangle of m with the plane and returns the segments
// projected into plane coordinates.
func (p Plane) SliceMesh(m *pt.Mesh) []Path2D {
	var paths []Path2D
	for _, t := range m.Triangles {
		if v1, v2, ok := p.IntersectTriangle(t); ok {
			paths = append(paths, Path2D{p.Project(v1), p.Project(v2)})
		}
	}
	return paths
}

// Outline projects the edges of every triangle of m. Used for surfaces the
// plane does not cut, such as floors.
func (p Plane) Outline(m *pt.Mesh) []Path2D {
	paths := make([]Path2D, 0, len(m.Triangles))
	for _, t := range m.Triangles {
		paths = append(paths, p.ProjectPath([]pt.Vector{t.V1, t.V2, t.V3, t.V1}))
	}
	return paths
}
