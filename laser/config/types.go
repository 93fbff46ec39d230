package config

// SceneConfig is the complete description of a laser and mirror scene
type SceneConfig struct {
	Metadata           Metadata           `yaml:"metadata"`
	Input              Input              `yaml:"input"`
	SurfaceAssignments SurfaceAssignments `yaml:"surface_assignments"`
	Primitives         []Primitive        `yaml:"primitives,omitempty"`
	Receivers          Receivers          `yaml:"receivers"`
	Trace              Trace              `yaml:"trace"`
	Emitters           []Emitter          `yaml:"emitters"`
	Camera             Camera             `yaml:"camera"`
	Mirrors            Mirrors            `yaml:"mirrors"`
	Placement          Placement          `yaml:"placement"`
	Render             Render             `yaml:"render"`
}

type Metadata struct {
	Timestamp string `yaml:"timestamp"` // YYYY-MM-DD HH:MM:SS in UTC
	GitCommit string `yaml:"git_commit"`
}

type Input struct {
	Mesh struct {
		Path  string  `yaml:"path,omitempty"`
		Scale float64 `yaml:"scale,omitempty"` // divide vertex coordinates by this, e.g. 1000 for mm
	} `yaml:"mesh"`
}

// Assignment gives a named surface its role and layers
type Assignment struct {
	Role   string   `yaml:"role" json:"role"` // reflector, receiver or absorber
	Layers []string `yaml:"layers,omitempty" json:"layers,omitempty"`
}

type SurfaceAssignments struct {
	Inline   map[string]Assignment `yaml:"inline,omitempty"` // surface name -> assignment
	FromFile string                `yaml:"from_file,omitempty"`
}

// Primitive is an axis-aligned box surface declared directly in the config
type Primitive struct {
	Name string     `yaml:"name"`
	Min  [3]float64 `yaml:"min"`
	Max  [3]float64 `yaml:"max"`
	// Role and layers default to the surface assignment for Name
	Role   string   `yaml:"role,omitempty"`
	Layers []string `yaml:"layers,omitempty"`
}

type ReceiverColors struct {
	Baseline string `yaml:"baseline,omitempty"` // hex, e.g. "#808080"
	Active   string `yaml:"active,omitempty"`
}

type Receivers struct {
	Default ReceiverColors            `yaml:"default"`
	Inline  map[string]ReceiverColors `yaml:"inline,omitempty"`
}

type Trace struct {
	MaxDistance float64  `yaml:"max_distance,omitempty"`
	MaxBounces  *int     `yaml:"max_bounces,omitempty"` // nil means the default of 10, zero is a single segment
	Filter      []string `yaml:"filter,omitempty"`
}

type Emitter struct {
	Name      string     `yaml:"name"`
	Position  [3]float64 `yaml:"position"`
	Direction [3]float64 `yaml:"direction,omitempty"`
	// AttachToCamera makes the beam follow the camera instead of a fixed pose
	AttachToCamera bool   `yaml:"attach_to_camera,omitempty"`
	Trace          *Trace `yaml:"trace,omitempty"` // overrides the scene-wide trace settings
}

type Camera struct {
	Position         [3]float64          `yaml:"position"`
	Yaw              float64             `yaml:"yaw"`
	Pitch            float64             `yaml:"pitch"`
	MoveSpeed        float64             `yaml:"move_speed"`
	LookSensitivity  float64             `yaml:"look_sensitivity"`
	MinPitch         float64             `yaml:"min_pitch"`
	MaxPitch         float64             `yaml:"max_pitch"`
	LookAcceleration map[float64]float64 `yaml:"look_acceleration,omitempty"` // pointer speed -> multiplier
}

type MirrorPlacement struct {
	Name     string     `yaml:"name,omitempty"`
	Position [3]float64 `yaml:"position"`
	Normal   [3]float64 `yaml:"normal,omitempty"` // ground normal, defaults to +Y
	Yaw      float64    `yaml:"yaw"`
	Tilt     float64    `yaml:"tilt"`
}

type Mirrors struct {
	Width  float64           `yaml:"width"`
	Height float64           `yaml:"height"`
	Placed []MirrorPlacement `yaml:"placed,omitempty"`
}

type Placement struct {
	GroundLayers        []string  `yaml:"ground_layers,omitempty"`
	SurfaceOffset       float64   `yaml:"surface_offset"`
	RotationZoneWidth   float64   `yaml:"rotation_zone_width"`
	RotationSensitivity float64   `yaml:"rotation_sensitivity"`
	DoubleClickMS       float64   `yaml:"double_click_ms"`
	ReferenceGrounds    [2]string `yaml:"reference_grounds,omitempty"`
}

type Render struct {
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	SliceY float64 `yaml:"slice_y"` // height of the top-down slicing plane
}
