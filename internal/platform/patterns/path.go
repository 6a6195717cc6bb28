package patterns

import (
	"math"
)

// CornerMargin keeps eased hops this many pixels away from the screen edges.
const CornerMargin = 20

// Point is a cursor coordinate or offset in pixels.
type Point struct {
	X float64
	Y float64
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Dist is the euclidean distance to q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Ints rounds to the nearest pixel.
func (p Point) Ints() (int, int) {
	return int(math.Round(p.X)), int(math.Round(p.Y))
}

// Bounds is the usable screen area.
type Bounds struct {
	W      int
	H      int
	Margin int
}

// NewBounds uses the default corner margin.
func NewBounds(w, h int) Bounds {
	return Bounds{W: w, H: h, Margin: CornerMargin}
}

// Center is the middle of the screen.
func (b Bounds) Center() Point {
	return Point{X: float64(b.W / 2), Y: float64(b.H / 2)}
}

// NearCorner reports whether p sits inside one of the four margin squares.
func (b Bounds) NearCorner(p Point) bool {
	m := float64(b.Margin)
	left, right := p.X < m, p.X > float64(b.W)-m
	top, bottom := p.Y < m, p.Y > float64(b.H)-m
	return (left || right) && (top || bottom)
}

// Clamp pulls p inside the margin on every side. A screen smaller than two
// margins collapses to its center.
func (b Bounds) Clamp(p Point) Point {
	m := float64(b.Margin)
	return Point{
		X: clampAxis(p.X, m, float64(b.W)-m),
		Y: clampAxis(p.Y, m, float64(b.H)-m),
	}
}

func clampAxis(v, lo, hi float64) float64 {
	if hi < lo {
		return (lo + hi) / 2
	}
	return math.Max(lo, math.Min(hi, v))
}

// Ease is the cosine ease-in-out curve over t in [0,1].
func Ease(t float64) float64 {
	return 0.5 - math.Cos(t*math.Pi)/2
}

// EasedPath returns steps points from just after from up to and including
// to, spaced along the ease curve.
func EasedPath(from, to Point, steps int) []Point {
	steps = max(steps, 1)
	pts := make([]Point, steps)
	for i := range pts {
		e := Ease(float64(i+1) / float64(steps))
		pts[i] = Point{
			X: from.X + (to.X-from.X)*e,
			Y: from.Y + (to.Y-from.Y)*e,
		}
	}
	return pts
}

// Destination picks a hop of at most maxDelta pixels per axis from start
// and clamps it inside b's margin. A start parked in a corner is first
// replaced by the screen center; the returned start reflects that.
func (g *Generator) Destination(start Point, b Bounds, maxDelta float64) (from, to Point) {
	from = start
	if b.NearCorner(from) {
		from = b.Center()
	}
	d := int(maxDelta)
	dx := float64(g.rnd.Intn(2*d+1) - d)
	dy := float64(g.rnd.Intn(2*d+1) - d)
	return from, b.Clamp(from.Add(Point{X: dx, Y: dy}))
}

// PathSteps draws the number of points for one eased hop.
func (g *Generator) PathSteps(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + g.rnd.Intn(hi-lo+1)
}
