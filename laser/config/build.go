package config

import (
	"fmt"
	"image/color"
	"time"

	"github.com/fogleman/pt/pt"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/jdginn/go-laser-mirrors/laser"
)

// Setup is everything needed to step and show a scene
type Setup struct {
	Scene  *laser.Scene
	World  *laser.World
	Camera *laser.Camera
	Placer *laser.Placer
	View   *laser.View
}

func vec(v [3]float64) pt.Vector {
	return laser.V(v[0], v[1], v[2])
}

// Merge returns t with any fields set in override replacing its own
func (t Trace) Merge(override *Trace) Trace {
	if override == nil {
		return t
	}
	merged := t
	if override.MaxDistance != 0 {
		merged.MaxDistance = override.MaxDistance
	}
	if override.MaxBounces != nil {
		merged.MaxBounces = override.MaxBounces
	}
	if len(override.Filter) > 0 {
		merged.Filter = override.Filter
	}
	return merged
}

// Params converts the trace section into tracer parameters. An empty filter
// sees every layer.
func (t Trace) Params() (laser.TraceParams, error) {
	params := laser.DefaultTraceParams
	if t.MaxDistance != 0 {
		params.MaxDistance = t.MaxDistance
	}
	if t.MaxBounces != nil {
		params.MaxBounces = *t.MaxBounces
	}
	if len(t.Filter) > 0 {
		filter, err := laser.ParseLayers(t.Filter)
		if err != nil {
			return laser.TraceParams{}, err
		}
		params.Filter = filter
	}
	return params, nil
}

func parseColor(hex string) (color.Color, error) {
	if hex == "" {
		return nil, nil
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, fmt.Errorf("parsing color %q: %w", hex, err)
	}
	return c, nil
}

// Colors returns the baseline and active colors for a receiver. Unset
// values are nil so the receiver falls back to its defaults.
func (r *Receivers) Colors(name string) (baseline, active color.Color, err error) {
	colors := r.Default
	if inline, ok := r.Inline[name]; ok {
		if inline.Baseline != "" {
			colors.Baseline = inline.Baseline
		}
		if inline.Active != "" {
			colors.Active = inline.Active
		}
	}
	if baseline, err = parseColor(colors.Baseline); err != nil {
		return nil, nil, err
	}
	if active, err = parseColor(colors.Active); err != nil {
		return nil, nil, err
	}
	return baseline, active, nil
}

func (c *SceneConfig) assignment(name, role string, layers []string) (laser.SurfaceAssignment, error) {
	if role == "" {
		a, ok := c.SurfaceAssignments.Lookup(name)
		if !ok {
			return laser.SurfaceAssignment{}, fmt.Errorf("no surface assignment for %q", name)
		}
		role = a.Role
		if len(layers) == 0 {
			layers = a.Layers
		}
	}
	r, err := laser.ParseRole(role)
	if err != nil {
		return laser.SurfaceAssignment{}, fmt.Errorf("%s: %w", name, err)
	}
	l, err := laser.ParseLayers(layers)
	if err != nil {
		return laser.SurfaceAssignment{}, fmt.Errorf("%s: %w", name, err)
	}
	out := laser.SurfaceAssignment{Role: r, Layers: l}
	if r == laser.ReceiverAbsorber {
		if out.Baseline, out.Active, err = c.Receivers.Colors(name); err != nil {
			return laser.SurfaceAssignment{}, fmt.Errorf("%s: %w", name, err)
		}
	}
	return out, nil
}

// MeshAssignments resolves every inline surface assignment, for loading a mesh
func (c *SceneConfig) MeshAssignments() (map[string]laser.SurfaceAssignment, error) {
	out := make(map[string]laser.SurfaceAssignment, len(c.SurfaceAssignments.Inline))
	for name, a := range c.SurfaceAssignments.Inline {
		resolved, err := c.assignment(name, a.Role, a.Layers)
		if err != nil {
			return nil, err
		}
		out[name] = resolved
	}
	return out, nil
}

// BuildScene loads the mesh, if any, and adds the declared primitives
func (c *SceneConfig) BuildScene() (*laser.Scene, error) {
	scene := laser.NewScene()
	if c.Input.Mesh.Path != "" {
		assignments, err := c.MeshAssignments()
		if err != nil {
			return nil, err
		}
		if scene, err = laser.NewSceneFrom3MF(c.Input.Mesh.Path, assignments, c.Input.Mesh.Scale); err != nil {
			return nil, err
		}
	}

	for _, p := range c.Primitives {
		a, err := c.assignment(p.Name, p.Role, p.Layers)
		if err != nil {
			return nil, err
		}
		mesh := laser.Box(vec(p.Min), vec(p.Max))
		if a.Role == laser.ReceiverAbsorber {
			_, err = scene.AddReceiver(p.Name, a.Layers, mesh, a.Baseline, a.Active)
		} else {
			_, err = scene.AddSurface(p.Name, a.Role, a.Layers, mesh)
		}
		if err != nil {
			return nil, fmt.Errorf("adding primitive: %w", err)
		}
	}
	return scene, nil
}

// Create builds the camera described by the config
func (cam *Camera) Create() *laser.Camera {
	return laser.NewCamera(vec(cam.Position),
		laser.WithOrientation(cam.Yaw, cam.Pitch),
		laser.WithMoveSpeed(cam.MoveSpeed),
		laser.WithLookSensitivity(cam.LookSensitivity),
		laser.WithPitchLimits(cam.MinPitch, cam.MaxPitch),
		laser.WithLookAcceleration(cam.LookAcceleration),
	)
}

// PlacerConfig converts the mirror and placement sections
func (c *SceneConfig) PlacerConfig() (laser.PlacerConfig, error) {
	ground, err := laser.ParseLayers(c.Placement.GroundLayers)
	if err != nil {
		return laser.PlacerConfig{}, err
	}
	return laser.PlacerConfig{
		Spec:                laser.MirrorSpec{Width: c.Mirrors.Width, Height: c.Mirrors.Height},
		GroundFilter:        ground,
		SurfaceOffset:       c.Placement.SurfaceOffset,
		RotationZoneWidth:   c.Placement.RotationZoneWidth,
		RotationSensitivity: c.Placement.RotationSensitivity,
		DoubleClick:         time.Duration(c.Placement.DoubleClickMS * float64(time.Millisecond)),
		ReferenceGrounds:    c.Placement.ReferenceGrounds,
	}, nil
}

// Build assembles the scene, camera, mirrors, emitters and view
func (c *SceneConfig) Build(logger laser.Logger) (*Setup, error) {
	scene, err := c.BuildScene()
	if err != nil {
		return nil, err
	}

	setup := &Setup{
		Scene:  scene,
		World:  laser.NewWorld(scene, logger),
		Camera: c.Camera.Create(),
		View:   laser.NewTopDownView(c.Render.Width, c.Render.Height, c.Render.SliceY),
	}

	placerConfig, err := c.PlacerConfig()
	if err != nil {
		return nil, err
	}
	setup.Placer = laser.NewPlacer(scene, placerConfig)
	for _, m := range c.Mirrors.Placed {
		normal := laser.WorldUp
		if m.Normal != [3]float64{0, 0, 0} {
			normal = vec(m.Normal)
		}
		mirror, err := setup.Placer.AddMirror(m.Name, vec(m.Position), normal, m.Yaw)
		if err != nil {
			return nil, fmt.Errorf("placing mirror: %w", err)
		}
		if m.Tilt != 0 {
			mirror.SetTilt(m.Tilt)
		}
	}

	for _, e := range c.Emitters {
		params, err := c.Trace.Merge(e.Trace).Params()
		if err != nil {
			return nil, fmt.Errorf("emitter %q: %w", e.Name, err)
		}
		var emitter laser.Emitter = setup.Camera
		if !e.AttachToCamera {
			emitter = &laser.FixedEmitter{Position: vec(e.Position), Forward: vec(e.Direction).Normalize()}
		}
		if err := setup.World.AddEmitter(e.Name, emitter, params); err != nil {
			return nil, err
		}
	}
	return setup, nil
}
