package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDryRunTracksVirtualCursor(t *testing.T) {
	d := NewDryRun(zap.NewNop(), 800, 600)

	x, y, err := d.Position()
	require.NoError(t, err)
	assert.Equal(t, 400, x)
	assert.Equal(t, 300, y)

	require.NoError(t, d.MoveRelative(10, -20))
	x, y, _ = d.Position()
	assert.Equal(t, 410, x)
	assert.Equal(t, 280, y)

	require.NoError(t, d.MoveTo(-5, 9000))
	x, y, _ = d.Position()
	assert.Equal(t, 0, x)
	assert.Equal(t, 599, y)

	w, h, err := d.ScreenSize()
	require.NoError(t, err)
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
}

func TestDryRunRecordsEvents(t *testing.T) {
	d := NewDryRun(zap.NewNop(), 100, 100)

	require.NoError(t, d.Click(ButtonLeft))
	require.NoError(t, d.Scroll(-3))
	require.NoError(t, d.KeyTap("tab", "ctrl"))
	for _, r := range "hi" {
		require.NoError(t, d.TypeRune(r))
	}
	require.NoError(t, d.Close())

	events := d.Events()
	require.Len(t, events, 5)
	assert.Equal(t, Event{Kind: EventClick, Button: ButtonLeft, X: 50, Y: 50}, events[0])
	assert.Equal(t, -3, events[1].Amount)
	assert.Equal(t, []string{"ctrl"}, events[2].Mods)
	assert.Equal(t, "hi", d.Typed())
	assert.Equal(t, map[string]int{EventClick: 1, EventScroll: 1, EventKey: 1, EventType: 2}, d.Counts())

	events[0].Kind = "mutated"
	assert.Equal(t, EventClick, d.Events()[0].Kind, "Events must return a copy")
}

func TestDryRunSatisfiesInjector(t *testing.T) {
	var inj Injector = NewDryRun(zap.NewNop(), 10, 10)
	assert.Equal(t, "dryrun", inj.Name())
}

func TestDryRunLogsEveryAction(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	d := NewDryRun(zap.New(core), 100, 100)

	require.NoError(t, d.MoveTo(10, 10))
	require.NoError(t, d.MoveRelative(1, 1))
	require.NoError(t, d.Click(ButtonLeft))
	require.NoError(t, d.Scroll(2))
	require.NoError(t, d.KeyTap("enter"))
	require.NoError(t, d.TypeRune('x'))

	entries := logs.AllUntimed()
	require.Len(t, entries, 6)
	for _, e := range entries {
		assert.Equal(t, zap.InfoLevel, e.Level, e.Message)
		assert.Equal(t, true, e.ContextMap()["dry_run"], e.Message)
	}
	assert.Equal(t, "x", entries[5].ContextMap()["rune"])
}
