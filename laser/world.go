package laser

import (
	"fmt"

	"github.com/fogleman/pt/pt"
)

// Logger is the logging capability the frame driver needs. *log.Logger
// satisfies it.
type Logger interface {
	Printf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// Emitter supplies the current world pose of something casting a beam.
type Emitter interface {
	Pose() (position, forward pt.Vector)
}

// FixedEmitter is an emitter that stays where it was put.
type FixedEmitter struct {
	Position pt.Vector
	Forward  pt.Vector
}

func (e *FixedEmitter) Pose() (pt.Vector, pt.Vector) {
	return e.Position, e.Forward
}

// Aim points the emitter at target.
func (e *FixedEmitter) Aim(target pt.Vector) {
	e.Forward = target.Sub(e.Position).Normalize()
}

type registeredEmitter struct {
	name    string
	emitter Emitter
	params  TraceParams
}

// Beam is one emitter's result for a frame.
type Beam struct {
	Emitter string
	Trace   Trace
}

// Frame is everything traced during one tick.
type Frame struct {
	Number uint64
	Beams  []Beam
	// Skipped lists emitters whose beam could not be traced this frame.
	Skipped []string
}

// World steps beams and receivers one frame at a time.
type World struct {
	scene    *Scene
	emitters []registeredEmitter
	frame    uint64
	logger   Logger
}

// NewWorld creates a world over scene. A nil logger discards messages.
func NewWorld(scene *Scene, logger Logger) *World {
	if scene == nil {
		scene = NewScene()
	}
	if logger == nil {
		logger = nopLogger{}
	}
	return &World{scene: scene, logger: logger}
}

func (w *World) Scene() *Scene {
	return w.scene
}

// FrameNumber is the number of the last completed tick.
func (w *World) FrameNumber() uint64 {
	return w.frame
}

// AddEmitter registers a beam source. Names must be unique.
func (w *World) AddEmitter(name string, e Emitter, params TraceParams) error {
	for _, existing := range w.emitters {
		if existing.name == name {
			return fmt.Errorf("emitter %q already registered", name)
		}
	}
	w.emitters = append(w.emitters, registeredEmitter{name: name, emitter: e, params: params})
	return nil
}

// RemoveEmitter unregisters a beam source, reporting whether it existed.
func (w *World) RemoveEmitter(name string) bool {
	for i, existing := range w.emitters {
		if existing.name == name {
			w.emitters = append(w.emitters[:i], w.emitters[i+1:]...)
			return true
		}
	}
	return false
}

// EmitterNames lists registered emitters in registration order.
func (w *World) EmitterNames() []string {
	names := make([]string, len(w.emitters))
	for i, e := range w.emitters {
		names[i] = e.name
	}
	return names
}

// Tick runs one frame. Every emitter traces and activates whatever receiver
// it reaches; only once all of them are done does each receiver decay.
func (w *World) Tick() Frame {
	w.frame++
	frame := Frame{Number: w.frame, Beams: make([]Beam, 0, len(w.emitters))}

	for _, e := range w.emitters {
		origin, forward := e.emitter.Pose()
		trace, err := TraceBeam(w.scene, origin, forward, e.params)
		if err != nil {
			w.logger.Printf("frame %d: skipping beam %q: %v", w.frame, e.name, err)
			frame.Skipped = append(frame.Skipped, e.name)
			continue
		}
		if trace.Receiver != nil {
			trace.Receiver.Activate()
		}
		frame.Beams = append(frame.Beams, Beam{Emitter: e.name, Trace: trace})
	}

	for _, r := range w.scene.Receivers() {
		r.DecayIfUnstruck()
	}
	return frame
}
