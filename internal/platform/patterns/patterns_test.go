package patterns

import (
	"errors"
	"math/rand"
	"testing"
	"time"
)

func TestJiggleHasEnoughPoints(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewSource(42)))

	for i := 0; i < 50; i++ {
		points, shape := gen.Jiggle()
		if len(points) < 4 {
			t.Errorf("%s: expected at least 4 points, got %d", shape, len(points))
		}
	}
}

func TestJiggleDeterministic(t *testing.T) {
	p1, s1 := NewGenerator(rand.New(rand.NewSource(12345))).Jiggle()
	p2, s2 := NewGenerator(rand.New(rand.NewSource(12345))).Jiggle()

	if s1 != s2 || len(p1) != len(p2) {
		t.Fatalf("same seed gave %s/%d and %s/%d", s1, len(p1), s2, len(p2))
	}
	for i := range p1 {
		if p1[i] != p2[i] {
			t.Errorf("point %d differs: %v vs %v", i, p1[i], p2[i])
		}
	}
}

func TestOutlineShapes(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewSource(1)))

	tests := []struct {
		shape Shape
		n     int
		want  int
	}{
		{ShapeCircle, 6, 6},
		{ShapeZigZag, 5, 5},
		{ShapeWalk, 7, 7},
		{ShapeSquare, 9, 8},
		{ShapeCircle, 2, 4},
	}

	for _, tt := range tests {
		t.Run(tt.shape.String(), func(t *testing.T) {
			got := gen.Outline(tt.shape, tt.n, 10)
			if len(got) != tt.want {
				t.Errorf("Outline(%s, %d) gave %d points, want %d", tt.shape, tt.n, len(got), tt.want)
			}
			for _, p := range got {
				if p.Dist(Point{}) > 25 {
					t.Errorf("point %v too far from origin for size 10", p)
				}
			}
		})
	}
}

func TestSegmentDistance(t *testing.T) {
	tests := []struct {
		name     string
		points   []Point
		index    int
		expected float64
	}{
		{"empty points", []Point{}, 0, 0},
		{"out of bounds", []Point{{0, 0}}, 5, 0},
		{"negative index", []Point{{3, 4}}, -1, 0},
		{"single point distance to origin", []Point{{3, 4}}, 0, 5},
		{"two points horizontal", []Point{{0, 0}, {10, 0}}, 0, 10},
		{"last point to origin", []Point{{0, 0}, {6, 8}}, 1, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SegmentDistance(tt.points, tt.index); got != tt.expected {
				t.Errorf("SegmentDistance() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestStepDelayRange(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewSource(42)))
	lo := time.Duration(float64(StepDelayMin) * SpeedMin)
	hi := time.Duration(float64(StepDelayMax) * SpeedMax * LongHopFactor)

	for i := 0; i < 200; i++ {
		d := gen.StepDelay(float64(i % 20))
		if d < lo || d > hi {
			t.Errorf("delay %v out of [%v, %v]", d, lo, hi)
		}
	}
}

func TestShouldPauseRate(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewSource(42)))
	const n = 10000
	count := 0
	for i := 0; i < n; i++ {
		if gen.ShouldPause() {
			count++
		}
	}
	if rate := float64(count) / n; rate < PauseProbability-0.05 || rate > PauseProbability+0.05 {
		t.Errorf("pause rate %.3f, expected around %.2f", rate, PauseProbability)
	}
}

func TestDelayRanges(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewSource(42)))
	for i := 0; i < 100; i++ {
		if d := gen.PauseDelay(); d < PauseMin || d > PauseMax {
			t.Errorf("pause delay %v out of range", d)
		}
		if d := gen.ReturnDelay(); d < ReturnMin || d > ReturnMax {
			t.Errorf("return delay %v out of range", d)
		}
	}
}

func TestIntermediate(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewSource(42)))
	points := []Point{{0, 0}, {10, 10}, {20, 20}}
	base := 100 * time.Millisecond

	mid, delay := gen.Intermediate(points, 0, base)
	if mid.X < 3 || mid.X > 5 || mid.Y < 3 || mid.Y > 5 {
		t.Errorf("intermediate %v not near 40%% of the segment", mid)
	}
	if delay < 60*time.Millisecond || delay > 140*time.Millisecond {
		t.Errorf("intermediate delay %v out of range", delay)
	}

	for i := 0; i < 100; i++ {
		if gen.ShouldAddIntermediate(points, 2, 100) {
			t.Fatal("last point must not get an intermediate")
		}
		if gen.ShouldAddIntermediate(points, 0, IntermediateMinDistance-1) {
			t.Fatal("short segment must not get an intermediate")
		}
	}
}

func TestEasedPath(t *testing.T) {
	from, to := Point{X: 100, Y: 100}, Point{X: 160, Y: 40}
	path := EasedPath(from, to, 10)

	if len(path) != 10 {
		t.Fatalf("got %d points, want 10", len(path))
	}
	if path[len(path)-1] != to {
		t.Errorf("path ends at %v, want %v", path[len(path)-1], to)
	}
	if mid := path[4]; mid.Dist(Point{X: 130, Y: 70}) > 1e-9 {
		t.Errorf("halfway point %v, want 130,70", mid)
	}
	for i := 1; i < len(path); i++ {
		if path[i].X < path[i-1].X {
			t.Errorf("x went backwards at step %d", i)
		}
	}
	// ease-in: the first step is shorter than the middle one
	if path[0].Dist(from) >= path[5].Dist(path[4]) {
		t.Error("expected slow start")
	}

	if got := EasedPath(from, to, 0); len(got) != 1 || got[0] != to {
		t.Errorf("zero steps should jump to target, got %v", got)
	}
}

func TestBounds(t *testing.T) {
	b := NewBounds(1920, 1080)

	tests := []struct {
		p    Point
		near bool
	}{
		{Point{X: 5, Y: 5}, true},
		{Point{X: 1915, Y: 5}, true},
		{Point{X: 5, Y: 1075}, true},
		{Point{X: 1915, Y: 1075}, true},
		{Point{X: 5, Y: 500}, false},
		{Point{X: 960, Y: 5}, false},
		{Point{X: 960, Y: 540}, false},
	}
	for _, tt := range tests {
		if got := b.NearCorner(tt.p); got != tt.near {
			t.Errorf("NearCorner(%v) = %v, want %v", tt.p, got, tt.near)
		}
	}

	if c := b.Center(); c != (Point{X: 960, Y: 540}) {
		t.Errorf("Center() = %v", c)
	}
	if got := b.Clamp(Point{X: -50, Y: 2000}); got != (Point{X: 20, Y: 1060}) {
		t.Errorf("Clamp() = %v", got)
	}
	if got := NewBounds(30, 30).Clamp(Point{X: 0, Y: 0}); got != (Point{X: 15, Y: 15}) {
		t.Errorf("tiny screen Clamp() = %v", got)
	}
}

func TestDestinationAvoidsCorners(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewSource(7)))
	b := NewBounds(800, 600)

	starts := []Point{{X: 0, Y: 0}, {X: 799, Y: 599}, {X: 25, Y: 25}, {X: 400, Y: 300}, {X: 790, Y: 10}}
	for _, s := range starts {
		for i := 0; i < 200; i++ {
			from, to := gen.Destination(s, b, 60)
			if b.NearCorner(from) {
				t.Fatalf("start %v was not moved out of the corner", s)
			}
			if to.X < 20 || to.X > 780 || to.Y < 20 || to.Y > 580 {
				t.Fatalf("destination %v outside margin", to)
			}
			if to.X-from.X > 60 || from.X-to.X > 60 || to.Y-from.Y > 60 || from.Y-to.Y > 60 {
				t.Fatalf("hop %v -> %v exceeds max delta", from, to)
			}
		}
	}
}

func TestIdleTracker(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tr := NewIdleTracker()
	tr.now = func() time.Time { return now }

	if v := tr.Check(0, errors.New("no idle source"), "test"); !v.Simulate || v.Message != "" {
		t.Errorf("failed sample should simulate silently, got %+v", v)
	}

	v := tr.Check(time.Second, nil, "test")
	if v.Simulate || v.Message == "" {
		t.Errorf("active user should hold with a message, got %+v", v)
	}

	now = now.Add(time.Minute)
	if v := tr.Check(time.Second, nil, "test"); v.Simulate || v.Message != "" {
		t.Errorf("second active sample inside log interval should be silent, got %+v", v)
	}

	now = now.Add(2 * ActiveLogInterval)
	if v := tr.Check(time.Second, nil, "test"); v.Message == "" {
		t.Error("expected the active message to repeat after the log interval")
	}

	v = tr.Check(10*time.Second, nil, "test")
	if !v.Simulate || v.Message == "" {
		t.Errorf("transition to idle should resume with a message, got %+v", v)
	}
	if v := tr.Check(10*time.Second, nil, "test"); !v.Simulate || v.Message != "" {
		t.Errorf("steady idle should be silent, got %+v", v)
	}
}
