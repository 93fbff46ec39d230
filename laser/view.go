package laser

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
)

var (
	backgroundColor = color.White
	groundColor     = color.RGBA{R: 0xd0, G: 0xd0, B: 0xd0, A: 0xff}
	wallColor       = color.Black
	mirrorColor     = color.RGBA{R: 0x30, G: 0x60, B: 0xc0, A: 0xff}
	highlightColor  = color.RGBA{R: 0xff, G: 0xd7, A: 0xff}
	beamColor       = color.RGBA{R: 0xff, G: 0x40, B: 0x20, A: 0xff}
)

// View renders a scene and the beams of a frame projected onto a plane.
type View struct {
	Plane Plane
	XSize int
	YSize int
	// Margin in pixels kept clear around the drawing.
	Margin float64

	// These cache the values needed to scale and translate from the scene to the requested image size
	scale      float64
	xTranslate float64
	yTranslate float64
}

// NewTopDownView looks down on the scene, slicing walls at height.
func NewTopDownView(xSize, ySize int, height float64) *View {
	return &View{Plane: TopDown(height), XSize: xSize, YSize: ySize, Margin: 10}
}

type styledPath struct {
	path  Path2D
	color color.Color
	width float64
}

func (view *View) surfacePaths(scene *Scene, selected *Mirror) []styledPath {
	var out []styledPath
	for _, s := range scene.Surfaces() {
		paths := view.Plane.SliceMesh(s.Mesh())
		if len(paths) == 0 || s.Layers.Overlaps(LayerGround) {
			paths = view.Plane.Outline(s.Mesh())
		}
		var c color.Color = wallColor
		width := 2.0
		switch {
		case s.Layers.Overlaps(LayerGround):
			c, width = groundColor, 1
		case s.Role == Reflector:
			c, width = mirrorColor, 3
		case s.Role == ReceiverAbsorber:
			c, width = s.Receiver.Appearance(), 4
		}
		if selected != nil && selected.Surface == s {
			c, width = highlightColor, 5
		}
		for _, p := range paths {
			out = append(out, styledPath{path: p, color: c, width: width})
		}
	}
	return out
}

func (view *View) beamPaths(frame Frame) []styledPath {
	out := make([]styledPath, 0, len(frame.Beams))
	for _, beam := range frame.Beams {
		out = append(out, styledPath{path: view.Plane.ProjectPath(beam.Trace.Points), color: beamColor, width: 2})
	}
	return out
}

func (view *View) computeScaleAndTranslation(paths []styledPath) {
	first := true
	var XMin, XMax, YMin, YMax float64
	for _, p := range paths {
		if len(p.path) == 0 {
			continue
		}
		pXMin, pXMax, pYMin, pYMax := p.path.BoundingBox()
		if first {
			XMin, XMax, YMin, YMax = pXMin, pXMax, pYMin, pYMax
			first = false
			continue
		}
		XMin, XMax = math.Min(XMin, pXMin), math.Max(XMax, pXMax)
		YMin, YMax = math.Min(YMin, pYMin), math.Max(YMax, pYMax)
	}
	view.xTranslate = -XMin
	view.yTranslate = -YMin
	w := math.Max(XMax-XMin, 1e-6)
	h := math.Max(YMax-YMin, 1e-6)
	XScale := (float64(view.XSize) - 2*view.Margin) / w
	YScale := (float64(view.YSize) - 2*view.Margin) / h
	view.scale = math.Max(math.Min(XScale, YScale), 0)
}

func (view *View) translateAndScale(p Point2D) Point2D {
	return p.Translate(view.xTranslate, view.yTranslate).Scale(view.scale).Translate(view.Margin, view.Margin)
}

// Render draws the scene surfaces, the beams of frame, and receivers in the
// color of their current state. selected may be nil.
func (view *View) Render(scene *Scene, frame Frame, selected *Mirror) image.Image {
	paths := append(view.surfacePaths(scene, selected), view.beamPaths(frame)...)
	view.computeScaleAndTranslation(paths)

	c := gg.NewContext(view.XSize, view.YSize)
	c.SetColor(backgroundColor)
	c.Clear()

	for _, p := range paths {
		if len(p.path) < 2 {
			continue
		}
		c.SetColor(p.color)
		c.SetLineWidth(p.width)
		start := view.translateAndScale(p.path[0])
		c.MoveTo(start.X, start.Y)
		for _, q := range p.path[1:] {
			next := view.translateAndScale(q)
			c.LineTo(next.X, next.Y)
		}
		c.Stroke()
	}

	for _, beam := range frame.Beams {
		end := view.translateAndScale(view.Plane.Project(beam.Trace.End()))
		c.SetColor(beamColor)
		c.DrawCircle(end.X, end.Y, 3)
		c.Fill()
	}
	return c.Image()
}

// SavePNG renders to a PNG file.
func (view *View) SavePNG(path string, scene *Scene, frame Frame, selected *Mirror) error {
	return gg.SavePNG(path, view.Render(scene, frame, selected))
}
