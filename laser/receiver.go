package laser

import (
	"image/color"
)

// ReceiverState is the logical state a renderer reads to pick a receiver's look.
type ReceiverState int

const (
	Idle ReceiverState = iota
	Activated
)

func (s ReceiverState) String() string {
	if s == Activated {
		return "activated"
	}
	return "idle"
}

var (
	DefaultReceiverColor = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	DefaultActiveColor   = color.RGBA{R: 0xff, A: 0xff}
)

// Receiver lights up while at least one beam reaches it during a frame.
//
// Frames run in two phases: every beam calls Activate, then every receiver
// calls DecayIfUnstruck exactly once. Interleaving the two phases makes a
// receiver flicker between frames.
type Receiver struct {
	Name string

	baseline color.Color
	active   color.Color
	state    ReceiverState
	struck   bool
}

// NewReceiver creates an idle receiver. The baseline appearance is captured
// here and never changes afterwards.
func NewReceiver(name string, baseline, active color.Color) *Receiver {
	if baseline == nil {
		baseline = DefaultReceiverColor
	}
	if active == nil {
		active = DefaultActiveColor
	}
	return &Receiver{
		Name:     name,
		baseline: baseline,
		active:   active,
	}
}

// Activate marks the receiver as struck this frame. Safe to call any number
// of times from any number of beams.
func (r *Receiver) Activate() {
	r.struck = true
	r.state = Activated
}

// DecayIfUnstruck ends the frame for this receiver: unless it was struck it
// goes back to Idle, and the struck flag is cleared either way.
func (r *Receiver) DecayIfUnstruck() {
	if !r.struck {
		r.state = Idle
	}
	r.struck = false
}

func (r *Receiver) State() ReceiverState {
	return r.state
}

// Struck reports whether Activate has been called since the last decay.
func (r *Receiver) Struck() bool {
	return r.struck
}

// Appearance is the color to draw the receiver with, derived from its state.
func (r *Receiver) Appearance() color.Color {
	if r.state == Activated {
		return r.active
	}
	return r.baseline
}

func (r *Receiver) Baseline() color.Color {
	return r.baseline
}
