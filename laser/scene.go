package laser

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/fogleman/pt/pt"
	"github.com/hpinc/go3mf"
)

// Intersection is the nearest surface a query ran into.
type Intersection struct {
	Position pt.Vector
	// Normal is a unit vector facing back against the query direction.
	Normal   pt.Vector
	Distance float64
	Surface  *Surface
}

// Querier is the scene capability the tracer consumes: the nearest
// intersection along a ray within maxDistance, considering only surfaces
// whose layers overlap filter.
type Querier interface {
	Query(origin, direction pt.Vector, maxDistance float64, filter Layer) (Intersection, bool)
}

var (
	ErrEmptyMesh      = errors.New("surface mesh has no triangles")
	ErrDuplicateName  = errors.New("surface name already in use")
	ErrUnknownSurface = errors.New("surface is not part of the scene")
	ErrReceiverRole   = errors.New("receiver surfaces must be added with AddReceiver")
)

// Scene holds every surface a beam can run into.
type Scene struct {
	surfaces  []*Surface
	receivers []*Receiver
	byName    map[string]*Surface
}

var _ Querier = &Scene{}

func NewScene() *Scene {
	return &Scene{byName: map[string]*Surface{}}
}

func (s *Scene) add(surface *Surface, m *pt.Mesh) error {
	if m == nil || len(m.Triangles) == 0 {
		return fmt.Errorf("%s: %w", surface.Name, ErrEmptyMesh)
	}
	if _, ok := s.byName[surface.Name]; ok {
		return fmt.Errorf("%s: %w", surface.Name, ErrDuplicateName)
	}
	surface.SetMesh(m)
	s.surfaces = append(s.surfaces, surface)
	s.byName[surface.Name] = surface
	return nil
}

// AddSurface registers a reflector or plain absorber. The role is fixed from
// here on.
func (s *Scene) AddSurface(name string, role Role, layers Layer, m *pt.Mesh) (*Surface, error) {
	if role == ReceiverAbsorber {
		return nil, fmt.Errorf("%s: %w", name, ErrReceiverRole)
	}
	surface := &Surface{Name: name, Role: role, Layers: layers}
	if err := s.add(surface, m); err != nil {
		return nil, err
	}
	return surface, nil
}

// AddReceiver registers an absorber that exposes a Receiver. Nil colors fall
// back to DefaultReceiverColor and DefaultActiveColor.
func (s *Scene) AddReceiver(name string, layers Layer, m *pt.Mesh, baseline, active color.Color) (*Receiver, error) {
	receiver := NewReceiver(name, baseline, active)
	surface := &Surface{Name: name, Role: ReceiverAbsorber, Layers: layers, Receiver: receiver}
	if err := s.add(surface, m); err != nil {
		return nil, err
	}
	s.receivers = append(s.receivers, receiver)
	return receiver, nil
}

// RemoveSurface drops a surface, and its receiver if it has one.
func (s *Scene) RemoveSurface(surface *Surface) error {
	idx := -1
	for i, candidate := range s.surfaces {
		if candidate == surface {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrUnknownSurface
	}
	s.surfaces = append(s.surfaces[:idx], s.surfaces[idx+1:]...)
	delete(s.byName, surface.Name)
	if surface.Receiver != nil {
		for i, r := range s.receivers {
			if r == surface.Receiver {
				s.receivers = append(s.receivers[:i], s.receivers[i+1:]...)
				break
			}
		}
	}
	return nil
}

func (s *Scene) Surfaces() []*Surface {
	return s.surfaces
}

func (s *Scene) Receivers() []*Receiver {
	return s.receivers
}

// Surface looks a surface up by name.
func (s *Scene) Surface(name string) (*Surface, bool) {
	surface, ok := s.byName[name]
	return surface, ok
}

// Query implements Querier.
func (s *Scene) Query(origin, direction pt.Vector, maxDistance float64, filter Layer) (Intersection, bool) {
	ray := pt.Ray{Origin: origin, Direction: direction}
	best := Intersection{Distance: math.Inf(1)}
	found := false
	for _, surface := range s.surfaces {
		if !surface.Layers.Overlaps(filter) {
			continue
		}
		hit := surface.intersect(ray)
		if !hit.Ok() || hit.T <= 0 || hit.T > maxDistance || hit.T >= best.Distance {
			continue
		}
		position := origin.Add(direction.MulScalar(hit.T))
		best = Intersection{
			Position: position,
			Normal:   surface.normalAt(hit, position, direction),
			Distance: hit.T,
			Surface:  surface,
		}
		found = true
	}
	return best, found
}

// faceNormal returns the flat normal of the hit shape, flipped to face the
// incoming direction.
func faceNormal(shape pt.Shape, position, direction pt.Vector) pt.Vector {
	var n pt.Vector
	if tri, ok := shape.(*pt.Triangle); ok {
		n = tri.V2.Sub(tri.V1).Cross(tri.V3.Sub(tri.V1)).Normalize()
	} else {
		n = shape.NormalAt(position).Normalize()
	}
	if n.Dot(direction) > 0 {
		n = n.Negate()
	}
	return n
}

// onTriangle reports whether p lies on t, allowing tol of slack both off the
// plane and past the edges.
func onTriangle(t *pt.Triangle, p pt.Vector, tol float64) bool {
	e1 := t.V2.Sub(t.V1)
	e2 := t.V3.Sub(t.V1)
	n := e1.Cross(e2)
	area := n.Length()
	if area == 0 {
		return false
	}
	d := p.Sub(t.V1)
	if math.Abs(d.Dot(n))/area > tol {
		return false
	}
	d00, d01, d11 := e1.Dot(e1), e1.Dot(e2), e2.Dot(e2)
	d20, d21 := d.Dot(e1), d.Dot(e2)
	denom := d00*d11 - d01*d01
	v := (d11*d20 - d01*d21) / denom
	w := (d00*d21 - d01*d20) / denom
	slack := tol / math.Sqrt(math.Min(d00, d11))
	return v >= -slack && w >= -slack && v+w <= 1+slack
}

// SurfaceAssignment says what a named object of a loaded mesh becomes.
type SurfaceAssignment struct {
	Role   Role
	Layers Layer
	// Colors are only used for receivers.
	Baseline color.Color
	Active   color.Color
}

// DefaultAssignment is the key looked up for objects without their own entry.
const DefaultAssignment = "default"

// NewSceneFrom3MF builds a scene with one surface per object in a 3MF file.
//
// Roles are resolved here, once, from assignments keyed by object name.
// Vertex coordinates are divided by scale (1000 for a model drawn in mm).
func NewSceneFrom3MF(filepath string, assignments map[string]SurfaceAssignment, scale float64) (*Scene, error) {
	if scale <= 0 {
		scale = 1
	}
	var model go3mf.Model
	r, err := go3mf.OpenReader(filepath)
	if err != nil {
		return nil, fmt.Errorf("opening 3mf: %w", err)
	}
	defer r.Close()
	if err := r.Decode(&model); err != nil {
		return nil, fmt.Errorf("decoding 3mf: %w", err)
	}

	scene := NewScene()
	for i, item := range model.Build.Items {
		obj, ok := model.FindObject(item.ObjectPath(), item.ObjectID)
		if !ok || obj.Mesh == nil {
			continue
		}
		name := obj.Name
		if name == "" {
			name = fmt.Sprintf("object_%d", i)
		}
		assignment, ok := assignments[name]
		if !ok {
			assignment = assignments[DefaultAssignment]
		}
		if assignment.Layers == 0 {
			assignment.Layers = LayerDefault
		}

		vertex := func(idx uint32) pt.Vector {
			v := obj.Mesh.Vertices.Vertex[idx]
			return V(float64(v.X())/scale, float64(v.Y())/scale, float64(v.Z())/scale)
		}
		triangles := make([]*pt.Triangle, 0, len(obj.Mesh.Triangles.Triangle))
		for _, t := range obj.Mesh.Triangles.Triangle {
			triangles = append(triangles, pt.NewTriangle(vertex(t.V1), vertex(t.V2), vertex(t.V3), pt.Vector{}, pt.Vector{}, pt.Vector{}, pt.Material{}))
		}
		mesh := pt.NewMesh(triangles)

		if assignment.Role == ReceiverAbsorber {
			_, err = scene.AddReceiver(name, assignment.Layers, mesh, assignment.Baseline, assignment.Active)
		} else {
			_, err = scene.AddSurface(name, assignment.Role, assignment.Layers, mesh)
		}
		if err != nil {
			return nil, err
		}
	}
	return scene, nil
}

// Box is a convenience mesh for axis-aligned blocks such as walls and targets.
func Box(min, max pt.Vector) *pt.Mesh {
	return pt.NewCube(min, max, pt.Material{}).Mesh()
}

// Quad is a two-triangle mesh with corners given in winding order.
func Quad(a, b, c, d pt.Vector) *pt.Mesh {
	return pt.NewMesh([]*pt.Triangle{
		pt.NewTriangle(a, b, c, pt.Vector{}, pt.Vector{}, pt.Vector{}, pt.Material{}),
		pt.NewTriangle(a, c, d, pt.Vector{}, pt.Vector{}, pt.Vector{}, pt.Material{}),
	})
}
