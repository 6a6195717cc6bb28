package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/stigoleg/activity-sim/internal/behavior"
	"github.com/stigoleg/activity-sim/internal/config"
	"github.com/stigoleg/activity-sim/internal/platform"
	"github.com/stigoleg/activity-sim/internal/snippets"
	"github.com/stigoleg/activity-sim/internal/window"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fastSleeper shrinks every pause a hundred thousandfold.
type fastSleeper struct{}

func (fastSleeper) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d / 100000)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func dryRunEnv(t *testing.T, cfg *config.Config) (*Env, *platform.DryRun) {
	t.Helper()
	lib, err := snippets.Open("")
	require.NoError(t, err)
	inj := platform.NewDryRun(zap.NewNop(), 1920, 1080)
	return &Env{
		Config:   cfg,
		Log:      zap.NewNop(),
		Injector: inj,
		Windows:  window.NewStatic(window.Rect{W: 1920, H: 1080}),
		Snippets: lib,
		Seed:     7,
		Sleeper:  fastSleeper{},
	}, inj
}

func dryRunConfig(d time.Duration) *config.Config {
	return &config.Config{
		Duration: d,
		Stack:    "html",
		DryRun:   true,
		Backend:  platform.BackendDryRun,
		Profile:  behavior.DefaultProfile(),
		NoTUI:    true,
	}
}

func TestHeadlessTimedRun(t *testing.T) {
	cfg := dryRunConfig(300 * time.Millisecond)
	env, inj := dryRunEnv(t, cfg)
	keeper := NewKeeper(env)

	start := time.Now()
	require.NoError(t, Headless(context.Background(), keeper, cfg, zap.NewNop()))
	assert.Less(t, time.Since(start), 5*time.Second)

	assert.False(t, keeper.IsRunning())
	assert.NotEmpty(t, inj.Events())
	s := keeper.Stats()
	assert.Positive(t, s.Cycles)
	assert.Zero(t, s.Failures)
	assert.NotEmpty(t, keeper.SessionID())
}

func TestHeadlessStopsOnCancel(t *testing.T) {
	cfg := dryRunConfig(0)
	env, _ := dryRunEnv(t, cfg)
	keeper := NewKeeper(env)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	require.NoError(t, Headless(ctx, keeper, cfg, zap.NewNop()))
	assert.False(t, keeper.IsRunning())
}

func TestHeadlessLogsProgress(t *testing.T) {
	old := statsInterval
	statsInterval = 20 * time.Millisecond
	t.Cleanup(func() { statsInterval = old })

	cfg := dryRunConfig(150 * time.Millisecond)
	env, _ := dryRunEnv(t, cfg)

	core, logs := observer.New(zap.InfoLevel)
	require.NoError(t, Headless(context.Background(), NewKeeper(env), cfg, zap.New(core)))
	assert.NotZero(t, logs.FilterMessage("progress").Len())
	assert.Equal(t, 1, logs.FilterMessage("session summary").Len())
}

func TestHeadlessUntilInPast(t *testing.T) {
	cfg := dryRunConfig(0)
	cfg.Until = time.Now().Add(-time.Minute)
	env, _ := dryRunEnv(t, cfg)

	err := Headless(context.Background(), NewKeeper(env), cfg, zap.NewNop())
	assert.Error(t, err)
}
