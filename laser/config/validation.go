package config

import (
	"fmt"
	"math"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/jdginn/go-laser-mirrors/laser"
)

// Validation helper functions
func validatePositive(field string, value float64) []ValidationError {
	if value <= 0 {
		return []ValidationError{{
			Field:   field,
			Message: "must be positive",
		}}
	}
	return nil
}

func validateNonNegative(field string, value float64) []ValidationError {
	if value < 0 {
		return []ValidationError{{
			Field:   field,
			Message: "must be non-negative",
		}}
	}
	return nil
}

func validateNonZeroVector(field string, vec [3]float64) []ValidationError {
	length := math.Sqrt(vec[0]*vec[0] + vec[1]*vec[1] + vec[2]*vec[2])
	if length == 0 || math.IsNaN(length) || math.IsInf(length, 0) {
		return []ValidationError{{
			Field:   field,
			Message: "must be a finite non-zero vector",
		}}
	}
	return nil
}

func validateLayers(field string, names []string) []ValidationError {
	if _, err := laser.ParseLayers(names); err != nil {
		return []ValidationError{{
			Field:   field,
			Message: fmt.Sprintf("%v (known layers: %s)", err, strings.Join(laser.LayerNames(), ", ")),
		}}
	}
	return nil
}

func validateRole(field, role string) []ValidationError {
	if _, err := laser.ParseRole(role); err != nil {
		return []ValidationError{{
			Field:   field,
			Message: err.Error(),
		}}
	}
	return nil
}

func validateColor(field, hex string) []ValidationError {
	if hex == "" {
		return nil
	}
	if _, err := colorful.Hex(hex); err != nil {
		return []ValidationError{{
			Field:   field,
			Message: fmt.Sprintf("invalid hex color %q", hex),
		}}
	}
	return nil
}

// ValidationError represents a structured validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FormatValidationErrors groups errors by top-level section for display
func FormatValidationErrors(errs []ValidationError) string {
	if len(errs) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Validation Errors:\n")

	categories := map[string][]ValidationError{}
	var order []string
	for _, err := range errs {
		category := strings.Split(err.Field, ".")[0]
		if _, seen := categories[category]; !seen {
			order = append(order, category)
		}
		categories[category] = append(categories[category], err)
	}

	for _, category := range order {
		b.WriteString(fmt.Sprintf("\n%s:\n", strings.ToUpper(category)))
		for _, err := range categories[category] {
			// Remove category prefix from field for cleaner display
			field := strings.TrimPrefix(err.Field, category+".")
			if field == category {
				field = "general"
			}
			b.WriteString(fmt.Sprintf("  - %s: %s\n", field, err.Message))
		}
	}

	return b.String()
}

// Validate performs validation on the entire configuration
func (c *SceneConfig) Validate() []ValidationError {
	var errors []ValidationError
	errors = append(errors, c.Input.Validate(len(c.Primitives))...)
	errors = append(errors, c.SurfaceAssignments.Validate()...)
	for i, p := range c.Primitives {
		errors = append(errors, p.Validate(fmt.Sprintf("primitives[%d]", i), &c.SurfaceAssignments)...)
	}
	errors = append(errors, c.Receivers.Validate()...)
	errors = append(errors, c.Trace.Validate("trace")...)
	errors = append(errors, c.validateEmitters()...)
	errors = append(errors, c.Camera.Validate()...)
	errors = append(errors, c.Mirrors.Validate()...)
	errors = append(errors, c.Placement.Validate()...)
	errors = append(errors, c.Render.Validate()...)
	return errors
}

func (i *Input) Validate(primitives int) []ValidationError {
	var errors []ValidationError
	if i.Mesh.Path == "" && primitives == 0 {
		errors = append(errors, ValidationError{
			Field:   "input.mesh.path",
			Message: "a mesh path is required when no primitives are declared",
		})
	}
	errors = append(errors, validatePositive("input.mesh.scale", i.Mesh.Scale)...)
	return errors
}

func (sa *SurfaceAssignments) Validate() []ValidationError {
	var errors []ValidationError

	if sa.Inline == nil && sa.FromFile == "" {
		errors = append(errors, ValidationError{
			Field:   "surface_assignments",
			Message: "either inline or from_file must be specified",
		})
		return errors
	}

	if sa.Inline != nil {
		if _, hasDefault := sa.Inline["default"]; !hasDefault {
			errors = append(errors, ValidationError{
				Field:   "surface_assignments.inline",
				Message: "must include a default assignment",
			})
		}
		for surface, a := range sa.Inline {
			field := fmt.Sprintf("surface_assignments.inline.%s", surface)
			errors = append(errors, validateRole(field+".role", a.Role)...)
			errors = append(errors, validateLayers(field+".layers", a.Layers)...)
		}
	}

	return errors
}

func (p *Primitive) Validate(field string, assignments *SurfaceAssignments) []ValidationError {
	var errors []ValidationError
	if p.Name == "" {
		errors = append(errors, ValidationError{Field: field + ".name", Message: "name is required"})
	}
	for axis := 0; axis < 3; axis++ {
		if p.Max[axis] < p.Min[axis] {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("%s.max[%d]", field, axis),
				Message: "must not be less than min",
			})
		}
	}
	if p.Role != "" {
		errors = append(errors, validateRole(field+".role", p.Role)...)
	} else if _, ok := assignments.Lookup(p.Name); !ok {
		errors = append(errors, ValidationError{
			Field:   field + ".role",
			Message: "no role given and no surface assignment matches",
		})
	}
	errors = append(errors, validateLayers(field+".layers", p.Layers)...)
	return errors
}

func (r *Receivers) Validate() []ValidationError {
	var errors []ValidationError
	errors = append(errors, validateColor("receivers.default.baseline", r.Default.Baseline)...)
	errors = append(errors, validateColor("receivers.default.active", r.Default.Active)...)
	for name, colors := range r.Inline {
		errors = append(errors, validateColor(fmt.Sprintf("receivers.inline.%s.baseline", name), colors.Baseline)...)
		errors = append(errors, validateColor(fmt.Sprintf("receivers.inline.%s.active", name), colors.Active)...)
	}
	return errors
}

func (t *Trace) Validate(field string) []ValidationError {
	var errors []ValidationError
	errors = append(errors, validatePositive(field+".max_distance", t.MaxDistance)...)
	if t.MaxBounces != nil {
		errors = append(errors, validateNonNegative(field+".max_bounces", float64(*t.MaxBounces))...)
	}
	errors = append(errors, validateLayers(field+".filter", t.Filter)...)
	return errors
}

func (c *SceneConfig) validateEmitters() []ValidationError {
	var errors []ValidationError
	if len(c.Emitters) == 0 {
		errors = append(errors, ValidationError{
			Field:   "emitters",
			Message: "at least one emitter is required",
		})
	}
	seen := map[string]bool{}
	for i, e := range c.Emitters {
		field := fmt.Sprintf("emitters[%d]", i)
		if e.Name == "" {
			errors = append(errors, ValidationError{Field: field + ".name", Message: "name is required"})
		} else if seen[e.Name] {
			errors = append(errors, ValidationError{Field: field + ".name", Message: fmt.Sprintf("duplicate emitter %q", e.Name)})
		}
		seen[e.Name] = true
		if !e.AttachToCamera {
			errors = append(errors, validateNonZeroVector(field+".direction", e.Direction)...)
		}
		if e.Trace != nil {
			override := c.Trace.Merge(e.Trace)
			errors = append(errors, override.Validate(field+".trace")...)
		}
	}
	return errors
}

func (cam *Camera) Validate() []ValidationError {
	var errors []ValidationError
	errors = append(errors, validatePositive("camera.move_speed", cam.MoveSpeed)...)
	errors = append(errors, validatePositive("camera.look_sensitivity", cam.LookSensitivity)...)
	if cam.MinPitch > cam.MaxPitch {
		errors = append(errors, ValidationError{
			Field:   "camera.min_pitch",
			Message: "must not exceed max_pitch",
		})
	}
	if cam.MinPitch < -90 || cam.MaxPitch > 90 {
		errors = append(errors, ValidationError{
			Field:   "camera.pitch",
			Message: "pitch limits must stay within -90 and 90 degrees",
		})
	}
	for speed, mult := range cam.LookAcceleration {
		errors = append(errors, validateNonNegative(fmt.Sprintf("camera.look_acceleration.%v", speed), speed)...)
		errors = append(errors, validatePositive(fmt.Sprintf("camera.look_acceleration.%v", speed), mult)...)
	}
	return errors
}

func (m *Mirrors) Validate() []ValidationError {
	var errors []ValidationError
	errors = append(errors, validatePositive("mirrors.width", m.Width)...)
	errors = append(errors, validatePositive("mirrors.height", m.Height)...)
	for i, p := range m.Placed {
		if p.Normal != [3]float64{0, 0, 0} {
			errors = append(errors, validateNonZeroVector(fmt.Sprintf("mirrors.placed[%d].normal", i), p.Normal)...)
		}
	}
	return errors
}

func (p *Placement) Validate() []ValidationError {
	var errors []ValidationError
	errors = append(errors, validateLayers("placement.ground_layers", p.GroundLayers)...)
	errors = append(errors, validateNonNegative("placement.surface_offset", p.SurfaceOffset)...)
	errors = append(errors, validateNonNegative("placement.rotation_zone_width", p.RotationZoneWidth)...)
	errors = append(errors, validatePositive("placement.rotation_sensitivity", p.RotationSensitivity)...)
	errors = append(errors, validatePositive("placement.double_click_ms", p.DoubleClickMS)...)
	return errors
}

func (r *Render) Validate() []ValidationError {
	var errors []ValidationError
	errors = append(errors, validatePositive("render.width", float64(r.Width))...)
	errors = append(errors, validatePositive("render.height", float64(r.Height))...)
	return errors
}
