package laser

import (
	"errors"
	"fmt"
	"math"

	"github.com/fogleman/pt/pt"
)

// TraceParams bounds a single beam.
type TraceParams struct {
	// Range of each straight segment. A segment that hits nothing ends this far
	// from where it started.
	MaxDistance float64
	// Number of mirror reflections allowed. Zero means one unreflected segment.
	MaxBounces int
	// Only surfaces on these layers are seen. The same filter applies to every
	// segment, not just the first.
	Filter Layer
}

// DefaultTraceParams gives a 100 unit range per segment and ten bounces.
var DefaultTraceParams = TraceParams{
	MaxDistance: 100,
	MaxBounces:  10,
	Filter:      AllLayers,
}

// Trace is the path one beam took during a frame.
type Trace struct {
	// Points starts at the emitter and lists every hit in traversal order.
	// It always has at least two entries.
	Points []pt.Vector
	// Hits holds the surface behind every point after the first; nil marks
	// the open-space end of a beam that hit nothing.
	Hits []*Surface
	// Receiver is the receiver the beam ended on, if any. Trace does not
	// activate it.
	Receiver *Receiver
}

// End is the last point of the path.
func (t Trace) End() pt.Vector {
	return t.Points[len(t.Points)-1]
}

// Bounces counts the reflections along the path.
func (t Trace) Bounces() int {
	n := 0
	for i, s := range t.Hits {
		if s != nil && s.Role == Reflector && i < len(t.Hits)-1 {
			n++
		}
	}
	return n
}

// Length is the total distance travelled.
func (t Trace) Length() float64 {
	total := 0.0
	for i := 1; i < len(t.Points); i++ {
		total += t.Points[i].Sub(t.Points[i-1]).Length()
	}
	return total
}

var (
	ErrNoScene         = errors.New("no scene to trace against")
	ErrZeroDirection   = errors.New("beam direction must be a finite non-zero vector")
	ErrInvalidDistance = errors.New("max distance must be positive")
	ErrInvalidBounces  = errors.New("max bounces must not be negative")
)

func (p TraceParams) validate() error {
	if math.IsNaN(p.MaxDistance) || p.MaxDistance <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidDistance, p.MaxDistance)
	}
	if p.MaxBounces < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidBounces, p.MaxBounces)
	}
	return nil
}

// TraceBeam follows a beam from origin along direction, reflecting off
// Reflector surfaces until it is absorbed, escapes into open space, or runs
// out of bounces.
//
// At most params.MaxBounces+1 queries are issued. When the budget runs out on
// a mirror the path ends at that mirror with no trailing segment.
func TraceBeam(q Querier, origin, direction pt.Vector, params TraceParams) (Trace, error) {
	if q == nil {
		return Trace{}, ErrNoScene
	}
	dir, ok := unitDirection(direction)
	if !ok {
		return Trace{}, ErrZeroDirection
	}
	if err := params.validate(); err != nil {
		return Trace{}, err
	}

	pos := origin
	trace := Trace{
		Points: make([]pt.Vector, 1, params.MaxBounces+2),
		Hits:   make([]*Surface, 0, params.MaxBounces+1),
	}
	trace.Points[0] = origin

	for i := 0; i <= params.MaxBounces; i++ {
		hit, ok := q.Query(pos, dir, params.MaxDistance, params.Filter)
		if !ok {
			trace.Points = append(trace.Points, pos.Add(dir.MulScalar(params.MaxDistance)))
			trace.Hits = append(trace.Hits, nil)
			return trace, nil
		}
		trace.Points = append(trace.Points, hit.Position)
		trace.Hits = append(trace.Hits, hit.Surface)

		if hit.Surface.Role != Reflector {
			trace.Receiver = hit.Surface.Receiver
			return trace, nil
		}

		isLastQuery := i == params.MaxBounces
		if isLastQuery {
			break
		}
		reflected := Reflect(dir, hit.Normal)
		verifyReflectionLaw(dir, hit.Normal, reflected)
		dir = reflected
		pos = hit.Position.Add(dir.MulScalar(SurfaceEpsilon))
	}
	return trace, nil
}
