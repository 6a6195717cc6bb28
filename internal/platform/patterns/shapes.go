// Package patterns builds cursor trajectories: short eased hops that keep
// away from the screen corners, and small jiggle shapes used for filler
// movement between larger actions.
package patterns

import (
	"math"
	"math/rand"
	"time"
)

// Jiggle shape and timing parameters.
const (
	JiggleMinSize = 5.0
	JiggleMaxSize = 20.0

	StepDelayMin = 5 * time.Millisecond
	StepDelayMax = 120 * time.Millisecond
	ReturnMin    = 10 * time.Millisecond
	ReturnMax    = 50 * time.Millisecond

	PauseProbability = 0.12
	PauseMin         = 150 * time.Millisecond
	PauseMax         = 400 * time.Millisecond

	IntermediateProbability = 0.35
	IntermediateMinDistance = 8.0
	intermediateAt          = 0.4
	intermediateJitter      = 1.5

	SpeedMin      = 0.7
	SpeedMax      = 1.3
	LongHopFactor = 1.2
	LongHop       = 10.0
)

// Shape names a jiggle outline.
type Shape int

const (
	ShapeCircle Shape = iota
	ShapeSquare
	ShapeZigZag
	ShapeWalk
	shapeCount
)

func (s Shape) String() string {
	switch s {
	case ShapeCircle:
		return "circle"
	case ShapeSquare:
		return "square"
	case ShapeZigZag:
		return "zigzag"
	case ShapeWalk:
		return "walk"
	default:
		return "unknown"
	}
}

// Generator draws paths and delays from a single random stream.
type Generator struct {
	rnd *rand.Rand
}

// NewGenerator wraps rnd.
func NewGenerator(rnd *rand.Rand) *Generator {
	return &Generator{rnd: rnd}
}

// Jiggle returns a small closed-ish outline as offsets from the current
// cursor position, plus the shape that was drawn.
func (g *Generator) Jiggle() ([]Point, Shape) {
	shape := Shape(g.rnd.Intn(int(shapeCount)))
	size := JiggleMinSize + g.rnd.Float64()*(JiggleMaxSize-JiggleMinSize)
	n := 4 + g.rnd.Intn(8)
	return g.Outline(shape, n, size), shape
}

// Outline builds n points of the given shape scaled to size pixels.
func (g *Generator) Outline(shape Shape, n int, size float64) []Point {
	n = max(n, 4)
	switch shape {
	case ShapeCircle:
		return circle(n, size)
	case ShapeSquare:
		return square(n, size)
	case ShapeZigZag:
		return zigzag(n, size)
	default:
		return g.walk(n, size)
	}
}

func circle(n int, size float64) []Point {
	pts := make([]Point, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = Point{X: size * math.Cos(a), Y: size * math.Sin(a)}
	}
	return pts
}

// square walks the perimeter clockwise from the top-left corner with
// side points per edge.
func square(n int, size float64) []Point {
	side := max(int(math.Sqrt(float64(n))), 2)
	step := size / float64(side-1)
	pts := make([]Point, 0, 4*(side-1))
	for i := 0; i < side-1; i++ {
		pts = append(pts, Point{X: step * float64(i)})
	}
	for i := 0; i < side-1; i++ {
		pts = append(pts, Point{X: size, Y: step * float64(i)})
	}
	for i := side - 1; i > 0; i-- {
		pts = append(pts, Point{X: step * float64(i), Y: size})
	}
	for i := side - 1; i > 0; i-- {
		pts = append(pts, Point{Y: step * float64(i)})
	}
	return pts
}

func zigzag(n int, size float64) []Point {
	pts := make([]Point, n)
	for i := range pts {
		y := size / 2
		if i%2 == 0 {
			y = -y
		}
		pts[i] = Point{X: size * float64(i) / float64(n-1), Y: y}
	}
	return pts
}

func (g *Generator) walk(n int, size float64) []Point {
	pts := make([]Point, n)
	step := size / 3
	for i := 1; i < n; i++ {
		a := g.rnd.Float64() * 2 * math.Pi
		pts[i] = pts[i-1].Add(Point{X: step * math.Cos(a), Y: step * math.Sin(a)})
	}
	return pts
}

// SegmentDistance is the length from points[i] to the next point, or back
// to the origin for the last one.
func SegmentDistance(points []Point, i int) float64 {
	if i < 0 || i >= len(points) {
		return 0
	}
	if i < len(points)-1 {
		return points[i].Dist(points[i+1])
	}
	return points[i].Dist(Point{})
}

// StepDelay is the pause after moving distance pixels. Longer hops are
// slightly slower.
func (g *Generator) StepDelay(distance float64) time.Duration {
	base := g.between(StepDelayMin, StepDelayMax)
	speed := SpeedMin + g.rnd.Float64()*(SpeedMax-SpeedMin)
	if distance > LongHop {
		speed *= LongHopFactor
	}
	return time.Duration(float64(base) * speed)
}

// ShouldPause reports whether to hesitate mid-shape.
func (g *Generator) ShouldPause() bool {
	return g.rnd.Float64() < PauseProbability
}

// PauseDelay is a hesitation length.
func (g *Generator) PauseDelay() time.Duration {
	return g.between(PauseMin, PauseMax)
}

// ShouldAddIntermediate reports whether segment i is long enough and lucky
// enough to get an extra waypoint.
func (g *Generator) ShouldAddIntermediate(points []Point, i int, distance float64) bool {
	if i >= len(points)-1 || distance <= IntermediateMinDistance {
		return false
	}
	return g.rnd.Float64() < IntermediateProbability
}

// Intermediate returns a jittered waypoint 40% along segment i and a delay
// derived from base.
func (g *Generator) Intermediate(points []Point, i int, base time.Duration) (Point, time.Duration) {
	from, to := points[i], points[i+1]
	mid := Point{
		X: from.X + (to.X-from.X)*intermediateAt + (g.rnd.Float64()-0.5)*intermediateJitter,
		Y: from.Y + (to.Y-from.Y)*intermediateAt + (g.rnd.Float64()-0.5)*intermediateJitter,
	}
	factor := 0.6 + g.rnd.Float64()*0.8
	return mid, time.Duration(float64(base) * factor)
}

// ReturnDelay is the pause before snapping back to the start.
func (g *Generator) ReturnDelay() time.Duration {
	return g.between(ReturnMin, ReturnMax)
}

func (g *Generator) between(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(g.rnd.Int63n(int64(hi-lo)+1))
}
