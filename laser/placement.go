package laser

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/fogleman/pt/pt"
)

var (
	ErrNoGround           = errors.New("pointer is not over any ground surface")
	ErrNoSelection        = errors.New("no mirror selected")
	ErrNoReferenceGrounds = errors.New("tilt toggle needs two reference ground surfaces")
)

// tiltTolerance is how close, in degrees, a mirror must be to the tilt target
// to count as already tilted.
const tiltTolerance = 0.1

// PlacerConfig holds the tuning of the placement tool.
type PlacerConfig struct {
	Spec MirrorSpec
	// GroundFilter selects the surfaces mirrors can be placed on.
	GroundFilter Layer
	// SurfaceOffset lifts a mirror off the ground along the ground normal.
	SurfaceOffset float64
	// Grabbing a mirror further than this from its center (local x) rotates
	// it instead of moving it.
	RotationZoneWidth float64
	// Degrees of yaw per unit of horizontal pointer motion.
	RotationSensitivity float64
	// Two presses closer together than this spawn a mirror.
	DoubleClick time.Duration
	// The tilt toggle leans mirrors to half the summed slope of these two.
	ReferenceGrounds [2]string
}

var DefaultPlacerConfig = PlacerConfig{
	Spec:                DefaultMirrorSpec,
	GroundFilter:        LayerGround,
	SurfaceOffset:       0.01,
	RotationZoneWidth:   0.3,
	RotationSensitivity: 0.5,
	DoubleClick:         300 * time.Millisecond,
}

// Placer spawns, selects, drags, rotates, tilts and deletes mirrors. It works
// on the scene and pointer rays it is handed; it never looks anything up
// from global state.
type Placer struct {
	scene  *Scene
	config PlacerConfig

	mirrors  []*Mirror
	bySurf   map[*Surface]*Mirror
	selected *Mirror
	dragging bool
	rotating bool
	lastDown time.Time
	spawned  int
}

func NewPlacer(scene *Scene, config PlacerConfig) *Placer {
	return &Placer{
		scene:  scene,
		config: config,
		bySurf: map[*Surface]*Mirror{},
	}
}

// Mirrors lists live mirrors in the order they were placed.
func (p *Placer) Mirrors() []*Mirror {
	return p.mirrors
}

// Selected is the highlighted mirror, or nil.
func (p *Placer) Selected() *Mirror {
	return p.selected
}

// Dragging reports whether a press is in progress and whether it rotates.
func (p *Placer) Dragging() (dragging, rotating bool) {
	return p.dragging, p.rotating
}

// MirrorFor resolves a scene surface to the mirror that owns it.
func (p *Placer) MirrorFor(s *Surface) (*Mirror, bool) {
	m, ok := p.bySurf[s]
	return m, ok
}

// AddMirror places a mirror directly, without a pointer.
func (p *Placer) AddMirror(name string, position, groundNormal pt.Vector, yaw float64) (*Mirror, error) {
	if name == "" {
		p.spawned++
		name = fmt.Sprintf("mirror_%d", p.spawned)
	}
	m := newMirror(name, p.config.Spec, position, groundNormal, yaw)
	if err := p.scene.add(m.Surface, m.Surface.Mesh()); err != nil {
		return nil, err
	}
	p.mirrors = append(p.mirrors, m)
	p.bySurf[m.Surface] = m
	return m, nil
}

// Spawn places a new mirror where ray meets the ground and selects it.
func (p *Placer) Spawn(ray pt.Ray) (*Mirror, error) {
	hit, ok := p.scene.Query(ray.Origin, ray.Direction.Normalize(), math.Inf(1), p.config.GroundFilter)
	if !ok {
		return nil, ErrNoGround
	}
	m, err := p.AddMirror("", hit.Position.Add(hit.Normal.MulScalar(p.config.SurfaceOffset)), hit.Normal, 0)
	if err != nil {
		return nil, err
	}
	p.selected = m
	return m, nil
}

// Press handles a primary button press at time at. A second press within
// the double-click window spawns a mirror; otherwise the press grabs the
// mirror under the pointer.
func (p *Placer) Press(ray pt.Ray, at time.Time) (*Mirror, error) {
	if !p.lastDown.IsZero() && at.Sub(p.lastDown) <= p.config.DoubleClick {
		p.lastDown = time.Time{}
		return p.Spawn(ray)
	}
	p.lastDown = at
	p.grab(ray)
	return p.selected, nil
}

func (p *Placer) grab(ray pt.Ray) {
	hit, ok := p.scene.Query(ray.Origin, ray.Direction.Normalize(), math.Inf(1), AllLayers)
	if !ok {
		return
	}
	m, isMirror := p.bySurf[hit.Surface]
	if !isMirror {
		p.selected = nil
		return
	}
	p.selected = m
	p.dragging = true
	// A tilted mirror can only be moved.
	p.rotating = m.Tilt() == 0 && math.Abs(m.LocalPoint(hit.Position).X) > p.config.RotationZoneWidth
}

// Drag continues a press. dx is the horizontal pointer delta since the last
// call.
func (p *Placer) Drag(ray pt.Ray, dx float64) {
	if !p.dragging || p.selected == nil {
		return
	}
	hit, ok := p.scene.Query(ray.Origin, ray.Direction.Normalize(), math.Inf(1), p.config.GroundFilter)
	if !ok {
		return
	}
	if p.rotating {
		p.selected.Rotate(-dx * p.config.RotationSensitivity)
		return
	}
	p.selected.SetPose(hit.Position.Add(hit.Normal.MulScalar(p.config.SurfaceOffset)), hit.Normal)
}

// Release ends a press.
func (p *Placer) Release() {
	p.dragging = false
	p.rotating = false
}

// TiltTarget is the lean angle the toggle moves mirrors to: half the summed
// slopes of the two reference grounds.
func (p *Placer) TiltTarget() (float64, error) {
	var slopes [2]float64
	for i, name := range p.config.ReferenceGrounds {
		s, ok := p.scene.Surface(name)
		if !ok || name == "" {
			return 0, ErrNoReferenceGrounds
		}
		slopes[i] = surfaceSlope(s)
	}
	return (math.Abs(slopes[0]) + math.Abs(slopes[1])) / 2, nil
}

// ToggleTilt leans the selected mirror to the tilt target, or stands it back
// up if it is already there.
func (p *Placer) ToggleTilt() error {
	if p.selected == nil {
		return ErrNoSelection
	}
	target, err := p.TiltTarget()
	if err != nil {
		return err
	}
	if math.Abs(p.selected.Tilt()-target) < tiltTolerance {
		target = 0
	}
	p.selected.SetTilt(target)
	return nil
}

// Delete removes the selected mirror from the scene.
func (p *Placer) Delete() error {
	m := p.selected
	if m == nil {
		return ErrNoSelection
	}
	if err := p.scene.RemoveSurface(m.Surface); err != nil {
		return err
	}
	delete(p.bySurf, m.Surface)
	for i, candidate := range p.mirrors {
		if candidate == m {
			p.mirrors = append(p.mirrors[:i], p.mirrors[i+1:]...)
			break
		}
	}
	p.selected = nil
	p.dragging = false
	p.rotating = false
	return nil
}

// surfaceSlope is the incline of a flat surface from horizontal, in degrees.
func surfaceSlope(s *Surface) float64 {
	m := s.Mesh()
	if m == nil || len(m.Triangles) == 0 {
		return 0
	}
	t := m.Triangles[0]
	n := t.V2.Sub(t.V1).Cross(t.V3.Sub(t.V1)).Normalize()
	slope := slopeDegrees(n)
	if slope > 90 {
		slope = 180 - slope
	}
	return slope
}
