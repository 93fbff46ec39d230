package laser

import (
	"math"
	"testing"

	"github.com/fogleman/pt/pt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func params(maxDistance float64, maxBounces int) TraceParams {
	return TraceParams{MaxDistance: maxDistance, MaxBounces: maxBounces, Filter: AllLayers}
}

func TestTraceOpenSpace(t *testing.T) {
	trace, err := TraceBeam(NewScene(), V(0, 0, 0), V(0, 0, 1), params(100, 10))
	require.NoError(t, err)
	assert.Equal(t, []pt.Vector{V(0, 0, 0), V(0, 0, 100)}, trace.Points)
	assert.Nil(t, trace.Receiver)
	assert.Equal(t, []*Surface{nil}, trace.Hits)
}

func TestTraceNormalizesDirection(t *testing.T) {
	trace, err := TraceBeam(NewScene(), V(1, 1, 1), V(0, 0, 5), params(10, 0))
	require.NoError(t, err)
	assertPath(t, []pt.Vector{V(1, 1, 1), V(1, 1, 11)}, trace.Points)
}

func TestTraceExtremeDirections(t *testing.T) {
	for _, tc := range []struct {
		name string
		dir  pt.Vector
		want pt.Vector
	}{
		{"huge", V(0, 0, 1e200), V(0, 0, 100)},
		{"tiny", V(0, 0, 1e-200), V(0, 0, 100)},
		{"huge_diagonal", V(3e300, 0, 4e300), V(60, 0, 80)},
		{"subnormal", V(-5e-324, 0, 0), V(-100, 0, 0)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			trace, err := TraceBeam(NewScene(), V(0, 0, 0), tc.dir, params(100, 0))
			require.NoError(t, err)
			assertPath(t, []pt.Vector{V(0, 0, 0), tc.want}, trace.Points)
		})
	}
}

func TestTracePlainAbsorber(t *testing.T) {
	scene := NewScene()
	wall, err := scene.AddSurface("wall", PlainAbsorber, LayerWall, zWall(10))
	require.NoError(t, err)

	trace, err := TraceBeam(scene, V(0, 0, 0), V(0, 0, 1), params(100, 10))
	require.NoError(t, err)
	assertPath(t, []pt.Vector{V(0, 0, 0), V(0, 0, 10)}, trace.Points)
	assert.Nil(t, trace.Receiver)
	assert.Equal(t, []*Surface{wall}, trace.Hits)
}

func TestTraceReceiver(t *testing.T) {
	scene := NewScene()
	receiver, err := scene.AddReceiver("target", LayerReceiver, zWall(10), nil, nil)
	require.NoError(t, err)

	trace, err := TraceBeam(scene, V(0, 0, 0), V(0, 0, 1), params(100, 10))
	require.NoError(t, err)
	assertPath(t, []pt.Vector{V(0, 0, 0), V(0, 0, 10)}, trace.Points)
	assert.Same(t, receiver, trace.Receiver)
	// Tracing identifies the receiver but leaves activation to the caller
	assert.Equal(t, Idle, receiver.State())
	assert.False(t, receiver.Struck())
}

func TestTraceSingleBounce(t *testing.T) {
	scene := NewScene()
	_, err := scene.AddSurface("mirror", Reflector, LayerMirror, diagonalMirror())
	require.NoError(t, err)
	receiver, err := scene.AddReceiver("target", LayerReceiver, xWall(10), nil, nil)
	require.NoError(t, err)

	trace, err := TraceBeam(scene, V(0, 0, 0), V(0, 0, 1), params(100, 10))
	require.NoError(t, err)
	assertPath(t, []pt.Vector{V(0, 0, 0), V(0, 0, 5), V(10, 0, 5)}, trace.Points)
	assert.Same(t, receiver, trace.Receiver)
	assert.Equal(t, 1, trace.Bounces())
	assert.InDelta(t, 15, trace.Length(), 1e-6)
}

func TestTraceBounceBudget(t *testing.T) {
	scene := NewScene()
	_, err := scene.AddSurface("front", Reflector, LayerMirror, zWall(5))
	require.NoError(t, err)
	_, err = scene.AddSurface("back", Reflector, LayerMirror, zWall(-5))
	require.NoError(t, err)

	tests := []struct {
		name    string
		bounces int
		want    []pt.Vector
	}{
		{"zero_bounces", 0, []pt.Vector{V(0, 0, 0), V(0, 0, 5)}},
		{"one_bounce", 1, []pt.Vector{V(0, 0, 0), V(0, 0, 5), V(0, 0, -5)}},
		{"three_bounces", 3, []pt.Vector{V(0, 0, 0), V(0, 0, 5), V(0, 0, -5), V(0, 0, 5), V(0, 0, -5)}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			q := &countingQuerier{q: scene}
			trace, err := TraceBeam(q, V(0, 0, 0), V(0, 0, 1), params(100, test.bounces))
			require.NoError(t, err)
			assertPath(t, test.want, trace.Points)
			assert.Nil(t, trace.Receiver)
			assert.Equal(t, test.bounces+1, q.queries)
			assert.Len(t, trace.Points, test.bounces+2)
			assert.Equal(t, Reflector, trace.Hits[len(trace.Hits)-1].Role)
			assert.Equal(t, test.bounces, trace.Bounces())
		})
	}
}

func TestTraceFilterAppliesToEverySegment(t *testing.T) {
	scene := NewScene()
	_, err := scene.AddSurface("mirror", Reflector, LayerMirror, diagonalMirror())
	require.NoError(t, err)
	_, err = scene.AddSurface("wall", PlainAbsorber, LayerWall, xWall(10))
	require.NoError(t, err)

	p := TraceParams{MaxDistance: 100, MaxBounces: 10, Filter: LayerMirror}
	trace, err := TraceBeam(scene, V(0, 0, 0), V(0, 0, 1), p)
	require.NoError(t, err)
	assertPath(t, []pt.Vector{V(0, 0, 0), V(0, 0, 5), V(100+SurfaceEpsilon, 0, 5)}, trace.Points)

	p.Filter = LayerWall
	trace, err = TraceBeam(scene, V(0, 0, 0), V(0, 0, 1), p)
	require.NoError(t, err)
	assertPath(t, []pt.Vector{V(0, 0, 0), V(0, 0, 100)}, trace.Points)
}

func TestTraceRangeIsPerSegment(t *testing.T) {
	scene := NewScene()
	_, err := scene.AddSurface("mirror", Reflector, LayerMirror, diagonalMirror())
	require.NoError(t, err)
	_, err = scene.AddSurface("wall", PlainAbsorber, LayerWall, xWall(10))
	require.NoError(t, err)

	trace, err := TraceBeam(scene, V(0, 0, 0), V(0, 0, 1), params(6, 10))
	require.NoError(t, err)
	assertPath(t, []pt.Vector{V(0, 0, 0), V(0, 0, 5), V(6+SurfaceEpsilon, 0, 5)}, trace.Points)

	trace, err = TraceBeam(scene, V(0, 0, 0), V(0, 0, 1), params(4, 10))
	require.NoError(t, err)
	assertPath(t, []pt.Vector{V(0, 0, 0), V(0, 0, 4)}, trace.Points)
}

func TestTracePreconditions(t *testing.T) {
	scene := NewScene()
	tests := []struct {
		name      string
		q         Querier
		direction pt.Vector
		params    TraceParams
		want      error
	}{
		{"no_scene", nil, V(0, 0, 1), params(100, 1), ErrNoScene},
		{"zero_direction", scene, V(0, 0, 0), params(100, 1), ErrZeroDirection},
		{"nan_direction", scene, V(math.NaN(), 0, 1), params(100, 1), ErrZeroDirection},
		{"infinite_direction", scene, V(math.Inf(1), 0, 0), params(100, 1), ErrZeroDirection},
		{"zero_distance", scene, V(0, 0, 1), params(0, 1), ErrInvalidDistance},
		{"negative_distance", scene, V(0, 0, 1), params(-1, 1), ErrInvalidDistance},
		{"nan_distance", scene, V(0, 0, 1), params(math.NaN(), 1), ErrInvalidDistance},
		{"negative_bounces", scene, V(0, 0, 1), params(100, -1), ErrInvalidBounces},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := TraceBeam(test.q, V(0, 0, 0), test.direction, test.params)
			assert.ErrorIs(t, err, test.want)
		})
	}
}

func TestTraceBounds(t *testing.T) {
	// A box of mirrors traps the beam, so every query finds a reflector
	scene := NewScene()
	_, err := scene.AddSurface("cell", Reflector, LayerMirror, Box(V(-5, -5, -5), V(5, 5, 5)))
	require.NoError(t, err)

	directions := []pt.Vector{V(0, 0, 1), V(1, 1, 0), V(0.3, -0.7, 0.2), V(-1, 2, 3)}
	for _, d := range directions {
		for _, bounces := range []int{0, 1, 4, 9} {
			q := &countingQuerier{q: scene}
			trace, err := TraceBeam(q, V(0.1, 0.2, 0.3), d, params(100, bounces))
			require.NoError(t, err)
			assert.GreaterOrEqual(t, len(trace.Points), 2)
			assert.LessOrEqual(t, len(trace.Points), bounces+2)
			assert.LessOrEqual(t, q.queries, bounces+1)
			assert.Len(t, trace.Hits, len(trace.Points)-1)
		}
	}
}

func TestReflectionLaw(t *testing.T) {
	tests := []struct {
		name string
		d, n pt.Vector
	}{
		{"head_on", V(0, 0, 1), V(0, 0, -1)},
		{"45deg", V(0, 0, 1), V(1, 0, -1).Normalize()},
		{"grazing", V(1, 0, 0.01).Normalize(), V(0, 0, -1)},
		{"arbitrary", V(0.3, -0.5, 0.8).Normalize(), V(-0.2, 0.9, 0.1).Normalize()},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := Reflect(test.d, test.n)
			assert.InDelta(t, -test.d.Dot(test.n), r.Dot(test.n), 1e-9)
			assert.InDelta(t, test.d.Length(), r.Length(), 1e-9)
			// Reflecting twice gets the incoming direction back
			assert.True(t, near(test.d, Reflect(r, test.n)))
		})
	}
}
