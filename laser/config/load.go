package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadOptions configures the behavior of config loading
type LoadOptions struct {
	ValidateImmediately bool
	ResolvePaths        bool
	MergeFiles          bool
}

// LoadFromFile loads a SceneConfig from a YAML file
func LoadFromFile(path string, opts LoadOptions) (*SceneConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config, err := Parse(data)
	if err != nil {
		return nil, err
	}

	if opts.ResolvePaths {
		baseDir := filepath.Dir(path)
		resolver := NewPathResolver(baseDir)
		if err := config.ResolvePaths(resolver); err != nil {
			return nil, fmt.Errorf("resolving paths: %w", err)
		}
	}

	if opts.MergeFiles {
		if err := config.LoadAndMerge(); err != nil {
			return nil, fmt.Errorf("merging external files: %w", err)
		}
	}

	if opts.ValidateImmediately {
		if errs := config.Validate(); len(errs) > 0 {
			return nil, fmt.Errorf("validation errors:\n%s", FormatValidationErrors(errs))
		}
	}

	return config, nil
}

// Parse decodes YAML and fills in defaults for anything left unset
func Parse(data []byte) (*SceneConfig, error) {
	config := &SceneConfig{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	config.ApplyDefaults()
	return config, nil
}

// SaveToFile saves a SceneConfig to a YAML file
func SaveToFile(config *SceneConfig, path string) error {
	// Update metadata before saving
	collector, err := NewMetadataCollector()
	if err != nil {
		return fmt.Errorf("creating metadata collector: %w", err)
	}
	collector.PopulateMetadata(config)

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// ResolvePaths resolves all relative paths in the config to absolute paths
func (c *SceneConfig) ResolvePaths(resolver *PathResolver) error {
	if c.Input.Mesh.Path != "" {
		c.Input.Mesh.Path = resolver.ResolvePath(c.Input.Mesh.Path)
	}

	if c.SurfaceAssignments.FromFile != "" {
		c.SurfaceAssignments.FromFile = resolver.ResolvePath(c.SurfaceAssignments.FromFile)
	}

	return nil
}

// ApplyDefaults fills zero values with defaults
func (c *SceneConfig) ApplyDefaults() {
	if c.Input.Mesh.Scale == 0 {
		c.Input.Mesh.Scale = 1
	}
	if c.Trace.MaxDistance == 0 {
		c.Trace.MaxDistance = 100
	}
	if c.Trace.MaxBounces == nil {
		bounces := 10
		c.Trace.MaxBounces = &bounces
	}

	cam := &c.Camera
	if cam.MoveSpeed == 0 {
		cam.MoveSpeed = 10
	}
	if cam.LookSensitivity == 0 {
		cam.LookSensitivity = 0.2
	}
	if cam.MinPitch == 0 && cam.MaxPitch == 0 {
		cam.MinPitch, cam.MaxPitch = -80, 80
	}

	if c.Mirrors.Width == 0 {
		c.Mirrors.Width = 1
	}
	if c.Mirrors.Height == 0 {
		c.Mirrors.Height = 1
	}

	p := &c.Placement
	if len(p.GroundLayers) == 0 {
		p.GroundLayers = []string{"ground"}
	}
	if p.SurfaceOffset == 0 {
		p.SurfaceOffset = 0.01
	}
	if p.RotationZoneWidth == 0 {
		p.RotationZoneWidth = 0.3
	}
	if p.RotationSensitivity == 0 {
		p.RotationSensitivity = 0.5
	}
	if p.DoubleClickMS == 0 {
		p.DoubleClickMS = 300
	}

	if c.Render.Width == 0 {
		c.Render.Width = 800
	}
	if c.Render.Height == 0 {
		c.Render.Height = 800
	}
	if c.Render.SliceY == 0 {
		c.Render.SliceY = 0.5
	}
}
