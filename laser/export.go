package laser

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"

	"github.com/fogleman/pt/pt"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// JSON schema types
type PointJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type BeamJSON struct {
	Emitter  string      `json:"emitter"`
	Points   []PointJSON `json:"points"`
	Surfaces []string    `json:"surfaces"`
	Receiver string      `json:"receiver,omitempty"`
	Bounces  int         `json:"bounces"`
	Length   float64     `json:"length"`
}

type ReceiverJSON struct {
	Name  string `json:"name"`
	State string `json:"state"`
	Color string `json:"color"`
}

type MirrorJSON struct {
	Name     string    `json:"name"`
	Position PointJSON `json:"position"`
	Normal   PointJSON `json:"normal"`
	Yaw      float64   `json:"yaw"`
	Tilt     float64   `json:"tilt"`
	Selected bool      `json:"selected,omitempty"`
}

type FrameJSON struct {
	Frame     uint64         `json:"frame"`
	Beams     []BeamJSON     `json:"beams"`
	Skipped   []string       `json:"skipped,omitempty"`
	Receivers []ReceiverJSON `json:"receivers"`
	Mirrors   []MirrorJSON   `json:"mirrors,omitempty"`
}

func VectorToJSON(v pt.Vector) PointJSON {
	return PointJSON{X: v.X, Y: v.Y, Z: v.Z}
}

func colorToHex(c color.Color) string {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return ""
	}
	return cf.Hex()
}

func BeamToJSON(b Beam) BeamJSON {
	out := BeamJSON{
		Emitter:  b.Emitter,
		Points:   make([]PointJSON, len(b.Trace.Points)),
		Surfaces: make([]string, len(b.Trace.Hits)),
		Bounces:  b.Trace.Bounces(),
		Length:   b.Trace.Length(),
	}
	for i, p := range b.Trace.Points {
		out.Points[i] = VectorToJSON(p)
	}
	for i, s := range b.Trace.Hits {
		if s != nil {
			out.Surfaces[i] = s.Name
		}
	}
	if b.Trace.Receiver != nil {
		out.Receiver = b.Trace.Receiver.Name
	}
	return out
}

func ReceiverToJSON(r *Receiver) ReceiverJSON {
	return ReceiverJSON{
		Name:  r.Name,
		State: r.State().String(),
		Color: colorToHex(r.Appearance()),
	}
}

func MirrorToJSON(m *Mirror, selected bool) MirrorJSON {
	return MirrorJSON{
		Name:     m.Surface.Name,
		Position: VectorToJSON(m.Position()),
		Normal:   VectorToJSON(m.Normal()),
		Yaw:      m.Yaw(),
		Tilt:     m.Tilt(),
		Selected: selected,
	}
}

// FrameToJSON snapshots a frame together with receiver and mirror state as
// they stand after the frame's decay phase.
func FrameToJSON(frame Frame, receivers []*Receiver, placer *Placer) FrameJSON {
	out := FrameJSON{
		Frame:     frame.Number,
		Beams:     make([]BeamJSON, 0, len(frame.Beams)),
		Skipped:   frame.Skipped,
		Receivers: make([]ReceiverJSON, 0, len(receivers)),
	}
	for _, b := range frame.Beams {
		out.Beams = append(out.Beams, BeamToJSON(b))
	}
	for _, r := range receivers {
		out.Receivers = append(out.Receivers, ReceiverToJSON(r))
	}
	if placer != nil {
		for _, m := range placer.Mirrors() {
			out.Mirrors = append(out.Mirrors, MirrorToJSON(m, m == placer.Selected()))
		}
	}
	return out
}

// SaveFrameToJSON writes FrameToJSON to filename.
func SaveFrameToJSON(filename string, frame Frame, receivers []*Receiver, placer *Placer) error {
	data, err := json.MarshalIndent(FrameToJSON(frame, receivers, placer), "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling frame: %w", err)
	}
	return os.WriteFile(filename, data, 0644)
}
