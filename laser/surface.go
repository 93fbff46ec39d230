package laser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fogleman/pt/pt"
)

// Role is what a surface does to a beam that reaches it.
type Role int

const (
	// PlainAbsorber stops the beam without side effects.
	PlainAbsorber Role = iota
	// Reflector bounces the beam by mirror reflection.
	Reflector
	// ReceiverAbsorber stops the beam and activates the surface's Receiver.
	ReceiverAbsorber
)

var roleNames = map[Role]string{
	PlainAbsorber:    "absorber",
	Reflector:        "reflector",
	ReceiverAbsorber: "receiver",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// ParseRole maps a config name onto a Role.
func ParseRole(name string) (Role, error) {
	for role, n := range roleNames {
		if strings.EqualFold(n, name) {
			return role, nil
		}
	}
	return 0, fmt.Errorf("unknown surface role %q", name)
}

// Layer is a bitmask of collision categories. A query only sees surfaces
// whose layers intersect its filter.
type Layer uint32

const (
	LayerDefault Layer = 1 << iota
	LayerGround
	LayerMirror
	LayerReceiver
	LayerWall

	AllLayers Layer = ^Layer(0)
)

var layerNames = map[string]Layer{
	"default":  LayerDefault,
	"ground":   LayerGround,
	"mirror":   LayerMirror,
	"receiver": LayerReceiver,
	"wall":     LayerWall,
	"all":      AllLayers,
}

// ParseLayers ORs together the named layers. An empty list means LayerDefault.
func ParseLayers(names []string) (Layer, error) {
	if len(names) == 0 {
		return LayerDefault, nil
	}
	var l Layer
	for _, name := range names {
		bit, ok := layerNames[strings.ToLower(name)]
		if !ok {
			return 0, fmt.Errorf("unknown layer %q", name)
		}
		l |= bit
	}
	return l, nil
}

// LayerNames lists the layer names accepted by ParseLayers.
func LayerNames() []string {
	names := make([]string, 0, len(layerNames))
	for name := range layerNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (l Layer) Overlaps(filter Layer) bool {
	return l&filter != 0
}

// Surface is one piece of scene geometry with a fixed role.
type Surface struct {
	Name   string
	Role   Role
	Layers Layer
	// Receiver is set if and only if Role is ReceiverAbsorber.
	Receiver *Receiver

	mesh *pt.Mesh
}

// compileThreshold is the triangle count above which a mesh gets a k-d tree.
// pt logs every tree build to stdout, and mirror plates are rebuilt on every
// move, so smaller meshes are intersected triangle by triangle.
const compileThreshold = 16

// edgeTolerance is how far a hit may sit from a triangle and still count as
// touching it when normals are blended at edges and corners.
const edgeTolerance = 1e-7

// Mesh returns the geometry of the surface.
func (s *Surface) Mesh() *pt.Mesh {
	return s.mesh
}

// SetMesh replaces the surface geometry, e.g. after a mirror moves.
func (s *Surface) SetMesh(m *pt.Mesh) {
	if len(m.Triangles) > compileThreshold {
		m.Compile()
	}
	s.mesh = m
}

func (s *Surface) compiled() bool {
	return len(s.mesh.Triangles) > compileThreshold
}

func (s *Surface) intersect(r pt.Ray) pt.Hit {
	if s.compiled() {
		return s.mesh.Intersect(r)
	}
	best := pt.NoHit
	for _, t := range s.mesh.Triangles {
		if hit := t.Intersect(r); hit.T < best.T {
			best = hit
		}
	}
	return best
}

// normalAt is the normal of the hit, facing the incoming direction. A hit on
// a shared edge or corner of a small mesh gets the mean of the distinct face
// normals meeting there, so a beam into the corner of a closed mirror box
// comes back out of the corner instead of leaking through a neighbor face.
func (s *Surface) normalAt(hit pt.Hit, position, direction pt.Vector) pt.Vector {
	if s.compiled() {
		return faceNormal(hit.Shape, position, direction)
	}
	var sum pt.Vector
	var seen []pt.Vector
	for _, t := range s.mesh.Triangles {
		if !onTriangle(t, position, edgeTolerance) {
			continue
		}
		n := faceNormal(t, position, direction)
		dup := false
		for _, m := range seen {
			if m.Sub(n).Length() < edgeTolerance {
				dup = true
				break
			}
		}
		if !dup {
			seen = append(seen, n)
			sum = sum.Add(n)
		}
	}
	if len(seen) == 0 || sum.Length() == 0 {
		return faceNormal(hit.Shape, position, direction)
	}
	return sum.Normalize()
}

func (s *Surface) String() string {
	return fmt.Sprintf("%s (%s)", s.Name, s.Role)
}
