package laser

import (
	"fmt"
	"math"
	"testing"

	"github.com/fogleman/pt/pt"
	"github.com/stretchr/testify/assert"
)

type pp struct {
	X, Y, Z float64
}

func (p pp) String() string {
	return "{" + fmt.Sprintf("%.3f, %.3f, %.3f", p.X, p.Y, p.Z) + "}"
}

func pretty(p pt.Vector) pp {
	return pp{X: p.X, Y: p.Y, Z: p.Z}
}

func prettyArr(a []pt.Vector) []pp {
	b := make([]pp, len(a))
	for i, v := range a {
		b[i] = pretty(v)
	}
	return b
}

func near(a, b pt.Vector) bool {
	return math.Abs(a.X-b.X) < 1e-6 && math.Abs(a.Y-b.Y) < 1e-6 && math.Abs(a.Z-b.Z) < 1e-6
}

func assertPath(t *testing.T, want, got []pt.Vector) {
	t.Helper()
	if !assert.Len(t, got, len(want), "path %v", prettyArr(got)) {
		return
	}
	for i := range want {
		assert.True(t, near(want[i], got[i]), "point %d: want %v got %v\nfull path %v", i, pretty(want[i]), pretty(got[i]), prettyArr(got))
	}
}

// zWall is a panel in the plane z = z, offset so the z axis does not cross
// the diagonal shared by its two triangles.
func zWall(z float64) *pt.Mesh {
	return Quad(V(-1, -2, z), V(3, -2, z), V(3, 2, z), V(-1, 2, z))
}

// xWall is a panel in the plane x = x covering the segment y = 0, z = 5.
func xWall(x float64) *pt.Mesh {
	return Quad(V(x, -2, 0), V(x, -2, 9), V(x, 3, 9), V(x, 3, 0))
}

// diagonalMirror sits in the plane x - z = -5 and turns a beam travelling
// along +z at the origin into one travelling along +x from (0, 0, 5).
func diagonalMirror() *pt.Mesh {
	return Quad(V(-2, -3, 3), V(2, -3, 7), V(2, 2, 7), V(-2, 2, 3))
}

type countingQuerier struct {
	q       Querier
	queries int
}

func (c *countingQuerier) Query(origin, direction pt.Vector, maxDistance float64, filter Layer) (Intersection, bool) {
	c.queries++
	return c.q.Query(origin, direction, maxDistance, filter)
}

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Printf(format string, args ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}
