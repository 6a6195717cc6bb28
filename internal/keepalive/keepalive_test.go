package keepalive

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/stigoleg/activity-sim/internal/simulator"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeSession blocks until its context ends or d elapses.
type fakeSession struct {
	stats   simulator.Stats
	err     error
	started chan struct{}
	gotD    time.Duration
}

func newFakeSession() *fakeSession {
	return &fakeSession{started: make(chan struct{})}
}

func (f *fakeSession) Run(ctx context.Context, d time.Duration) error {
	f.gotD = d
	close(f.started)
	if f.err != nil {
		return f.err
	}
	if d > 0 {
		select {
		case <-time.After(d):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	<-ctx.Done()
	return ctx.Err()
}

func (f *fakeSession) Stats() *simulator.Stats { return &f.stats }

type fakeGuard struct {
	acquired atomic.Int32
	released atomic.Int32
	err      error
}

func (g *fakeGuard) Acquire(context.Context) error {
	g.acquired.Add(1)
	return g.err
}

func (g *fakeGuard) Release() error {
	g.released.Add(1)
	return nil
}

func newKeeper(t *testing.T, guard *fakeGuard) (*Keeper, func() *fakeSession) {
	t.Helper()
	var (
		mu       sync.Mutex
		sessions []*fakeSession
	)
	opts := Options{
		Factory: func(id string, _ *zap.Logger) (Session, error) {
			assert.NotEmpty(t, id)
			s := newFakeSession()
			mu.Lock()
			sessions = append(sessions, s)
			mu.Unlock()
			return s, nil
		},
	}
	// Avoid storing a typed nil *fakeGuard in the interface field.
	if guard != nil {
		opts.Guard = guard
	}
	k := New(opts)
	t.Cleanup(func() { _ = k.Stop() })
	return k, func() *fakeSession {
		mu.Lock()
		defer mu.Unlock()
		return sessions[len(sessions)-1]
	}
}

func TestKeeperIndefinite(t *testing.T) {
	guard := &fakeGuard{}
	k, last := newKeeper(t, guard)
	assert.False(t, k.IsRunning())
	assert.Nil(t, k.Done())

	require.NoError(t, k.StartIndefinite())
	<-last().started
	assert.True(t, k.IsRunning())
	assert.Zero(t, last().gotD)
	assert.Zero(t, k.TimeRemaining())
	assert.ErrorIs(t, k.StartIndefinite(), ErrAlreadyRunning)

	require.NoError(t, k.Stop())
	assert.False(t, k.IsRunning())
	assert.Equal(t, int32(1), guard.acquired.Load())
	assert.Equal(t, int32(1), guard.released.Load())

	// Stopping twice is a no-op.
	require.NoError(t, k.Stop())
}

func TestKeeperTimed(t *testing.T) {
	k, last := newKeeper(t, nil)

	require.NoError(t, k.StartTimed(50*time.Millisecond))
	<-last().started
	assert.Equal(t, 50*time.Millisecond, last().gotD)
	rem := k.TimeRemaining()
	assert.Positive(t, rem)
	assert.LessOrEqual(t, rem, 50*time.Millisecond)

	select {
	case <-k.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("timed session did not end")
	}
	assert.False(t, k.IsRunning())
	assert.NoError(t, k.Err())
	assert.Zero(t, k.TimeRemaining())
}

func TestKeeperRejectsBadDurations(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	k := New(Options{
		Factory: func(string, *zap.Logger) (Session, error) { return newFakeSession(), nil },
		Now:     func() time.Time { return now },
	})
	assert.Error(t, k.StartTimed(0))
	assert.Error(t, k.StartTimed(-time.Second))
	assert.Error(t, k.StartUntil(now.Add(-time.Minute)))
	assert.False(t, k.IsRunning())
}

func TestKeeperStartUntil(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	var got *fakeSession
	k := New(Options{
		Factory: func(string, *zap.Logger) (Session, error) {
			got = newFakeSession()
			return got, nil
		},
		Now: func() time.Time { return now },
	})
	defer k.Stop()

	require.NoError(t, k.StartUntil(now.Add(90*time.Minute)))
	<-got.started
	assert.Equal(t, 90*time.Minute, got.gotD)
	assert.Equal(t, 90*time.Minute, k.TimeRemaining())
}

func TestKeeperFactoryError(t *testing.T) {
	k := New(Options{Factory: func(string, *zap.Logger) (Session, error) {
		return nil, errors.New("no backend")
	}})
	err := k.StartIndefinite()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no backend")
	assert.False(t, k.IsRunning())

	assert.Error(t, New(Options{}).StartIndefinite())
}

func TestKeeperSessionError(t *testing.T) {
	boom := errors.New("injector gone")
	k := New(Options{Factory: func(string, *zap.Logger) (Session, error) {
		s := newFakeSession()
		s.err = boom
		return s, nil
	}})
	require.NoError(t, k.StartIndefinite())
	<-k.Done()
	assert.ErrorIs(t, k.Err(), boom)
	assert.False(t, k.IsRunning())
}

func TestKeeperGuardFailureIsNotFatal(t *testing.T) {
	guard := &fakeGuard{err: errors.New("no inhibitor")}
	k, last := newKeeper(t, guard)
	require.NoError(t, k.StartIndefinite())
	<-last().started
	assert.True(t, k.IsRunning())
	require.NoError(t, k.Stop())
}

func TestKeeperStopTimeout(t *testing.T) {
	release := make(chan struct{})
	k := New(Options{Factory: func(string, *zap.Logger) (Session, error) {
		return stubborn{release: release}, nil
	}})
	require.NoError(t, k.StartIndefinite())

	err := k.StopWithTimeout(20 * time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	<-k.Done()
	assert.False(t, k.IsRunning())
}

// stubborn ignores cancellation until released.
type stubborn struct {
	release chan struct{}
}

func (s stubborn) Run(context.Context, time.Duration) error {
	<-s.release
	return nil
}

func (stubborn) Stats() *simulator.Stats { return &simulator.Stats{} }

func TestSimulationHealth(t *testing.T) {
	k := New(Options{Factory: func(string, *zap.Logger) (Session, error) { return newFakeSession(), nil }})
	assert.Equal(t, SimulationHealthUnknown, k.GetSimulationHealth())
	assert.Equal(t, "unknown", k.GetSimulationHealth().String())
}

func TestKeeperRestart(t *testing.T) {
	k, last := newKeeper(t, nil)
	require.NoError(t, k.StartIndefinite())
	<-last().started
	first := k.SessionID()
	require.NoError(t, k.Stop())

	require.NoError(t, k.StartIndefinite())
	<-last().started
	assert.NotEqual(t, first, k.SessionID())
	require.NoError(t, k.Stop())
}

// slowGuard blocks Acquire until release is closed.
type slowGuard struct {
	entered chan struct{}
	release chan struct{}
}

func (g *slowGuard) Acquire(ctx context.Context) error {
	close(g.entered)
	select {
	case <-g.release:
	case <-ctx.Done():
	}
	return nil
}

func (g *slowGuard) Release() error { return nil }

func TestKeeperSlowGuardDoesNotBlockQueries(t *testing.T) {
	guard := &slowGuard{entered: make(chan struct{}), release: make(chan struct{})}
	session := newFakeSession()
	k := New(Options{
		Factory: func(string, *zap.Logger) (Session, error) { return session, nil },
		Guard:   guard,
	})

	require.NoError(t, k.StartTimed(time.Hour))
	<-guard.entered

	queried := make(chan struct{})
	go func() {
		defer close(queried)
		_ = k.IsRunning()
		_ = k.TimeRemaining()
		_ = k.Stats()
	}()
	select {
	case <-queried:
	case <-time.After(2 * time.Second):
		t.Fatal("queries blocked while the sleep guard was acquiring")
	}
	assert.True(t, k.IsRunning())

	close(guard.release)
	<-session.started
	require.NoError(t, k.Stop())
}
