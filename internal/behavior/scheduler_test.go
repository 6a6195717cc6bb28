package behavior

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeighted(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))

	t.Run("zero weights never picked", func(t *testing.T) {
		choices := []Choice[string]{{"a", 0}, {"b", 1}, {"c", 0}}
		for i := 0; i < 200; i++ {
			assert.Equal(t, "b", Weighted(rnd, choices))
		}
	})

	t.Run("empty returns zero value", func(t *testing.T) {
		assert.Equal(t, "", Weighted[string](rnd, nil))
	})

	t.Run("all zero falls back to last", func(t *testing.T) {
		choices := []Choice[int]{{1, 0}, {2, 0}}
		assert.Equal(t, 2, Weighted(rnd, choices))
	})

	t.Run("distribution roughly follows weights", func(t *testing.T) {
		choices := []Choice[string]{{"move", 0.5}, {"click", 0.1}, {"scroll", 0.2}, {"type", 0.2}}
		counts := map[string]int{}
		const n = 20000
		for i := 0; i < n; i++ {
			counts[Weighted(rnd, choices)]++
		}
		assert.InDelta(t, 0.5, float64(counts["move"])/n, 0.03)
		assert.InDelta(t, 0.1, float64(counts["click"])/n, 0.03)
		assert.InDelta(t, 0.2, float64(counts["scroll"])/n, 0.03)
		assert.InDelta(t, 0.2, float64(counts["type"])/n, 0.03)
	})
}

func TestBetweenStaysInRange(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	r := DurationRange{Min: 500 * time.Millisecond, Max: 2500 * time.Millisecond}
	for i := 0; i < 1000; i++ {
		d := Between(rnd, r)
		require.GreaterOrEqual(t, d, r.Min)
		require.LessOrEqual(t, d, r.Max)
	}
	assert.Equal(t, time.Second, Between(rnd, DurationRange{Min: time.Second, Max: time.Second}))
}

func TestIntBetweenInclusive(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	seen := map[int]bool{}
	for i := 0; i < 500; i++ {
		v := IntBetween(rnd, 1, 3)
		require.True(t, v >= 1 && v <= 3, "value %d out of range", v)
		seen[v] = true
	}
	assert.Len(t, seen, 3)
}

func TestNextInputTypeForcesSwitchAfterLongRun(t *testing.T) {
	p := DefaultProfile()
	p.Input = InputWeights{Mouse: 1}
	p.MaxSameInput = 3
	s := NewScheduler(rand.New(rand.NewSource(11)), p)

	for i := 0; i < 4; i++ {
		got, forced := s.NextInputType()
		require.Equal(t, InputMouse, got, "pick %d", i)
		require.False(t, forced)
	}

	got, forced := s.NextInputType()
	assert.Equal(t, InputMixed, got)
	assert.True(t, forced)

	got, forced = s.NextInputType()
	assert.Equal(t, InputMouse, got)
	assert.False(t, forced)
}

func TestNextInputTypeRunContinuesAfterForcedSwitch(t *testing.T) {
	p := DefaultProfile()
	p.Input = InputWeights{Mouse: 1}
	p.MaxSameInput = 1
	s := NewScheduler(rand.New(rand.NewSource(3)), p)

	var forcedAt []int
	for i := 1; i <= 7; i++ {
		if _, forced := s.NextInputType(); forced {
			forcedAt = append(forcedAt, i)
		}
	}
	assert.Equal(t, []int{3, 5, 7}, forcedAt)
}

func TestNextInputTypeMixedRunGivesWayToMouse(t *testing.T) {
	p := DefaultProfile()
	p.Input = InputWeights{Mixed: 1}
	p.MaxSameInput = 1
	s := NewScheduler(rand.New(rand.NewSource(5)), p)

	s.NextInputType()
	s.NextInputType()
	got, forced := s.NextInputType()
	assert.Equal(t, InputMouse, got)
	assert.True(t, forced)
}

func TestNoSingleInputTypeDominatesDefaultProfile(t *testing.T) {
	s := NewScheduler(rand.New(rand.NewSource(99)), DefaultProfile())
	counts := map[InputType]int{}
	for i := 0; i < 3000; i++ {
		got, _ := s.NextInputType()
		counts[got]++
	}
	for _, typ := range []InputType{InputMouse, InputKeyboard, InputMixed} {
		assert.Greater(t, counts[typ], 300, "input type %s starved", typ)
	}
}

func TestShouldSwitchWindowRate(t *testing.T) {
	s := NewScheduler(rand.New(rand.NewSource(42)), DefaultProfile())
	switches := 0
	const n = 10000
	for i := 0; i < n; i++ {
		if s.ShouldSwitchWindow() {
			switches++
		}
	}
	assert.InDelta(t, 0.35, float64(switches)/n, 0.03)
}

func TestDefaultProfileValidates(t *testing.T) {
	for _, goos := range []string{"linux", "windows", "darwin"} {
		require.NoError(t, defaultProfileFor(goos).Validate(), goos)
	}
	assert.Equal(t, 12, defaultProfileFor("linux").MinEventsPerMinute)
	assert.Equal(t, 8, defaultProfileFor("windows").MinEventsPerMinute)
	assert.Equal(t, 30, defaultProfileFor("linux").ScrollAmplitude)
}

func TestProfileValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Profile)
		want   string
	}{
		{"negative weight", func(p *Profile) { p.Mouse.Click = -1 }, "mouse weights"},
		{"zero sum", func(p *Profile) { p.Input = InputWeights{} }, "input weights"},
		{"inverted range", func(p *Profile) { p.CycleDelay = DurationRange{Min: time.Second, Max: 0} }, "cycle_delay"},
		{"probability above one", func(p *Profile) { p.LongBreak = 1.5 }, "long_break"},
		{"bad switch range", func(p *Profile) { p.WindowSwitch = Range{Min: 0.6, Max: 0.2} }, "window_switch"},
		{"zero max same", func(p *Profile) { p.MaxSameInput = 0 }, "max_same_input"},
		{"bad easing", func(p *Profile) { p.Activity.Easing = 0 }, "activity.easing"},
		{"snippets never", func(p *Profile) { p.SnippetEvery = 0 }, "snippet_every"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultProfile()
			tt.mutate(&p)
			err := p.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
