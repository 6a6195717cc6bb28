package keepalive

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stigoleg/activity-sim/internal/platform"
	"github.com/stigoleg/activity-sim/internal/simulator"
)

// ErrAlreadyRunning is returned when a session is started twice.
var ErrAlreadyRunning = errors.New("simulation already running")

// SimulationHealth represents the runtime health of activity simulation
type SimulationHealth int

const (
	SimulationHealthUnknown SimulationHealth = iota
	SimulationHealthOK
	SimulationHealthFailed
)

func (h SimulationHealth) String() string {
	switch h {
	case SimulationHealthOK:
		return "ok"
	case SimulationHealthFailed:
		return "failing"
	default:
		return "unknown"
	}
}

// Session is one simulation run.
type Session interface {
	Run(ctx context.Context, d time.Duration) error
	Stats() *simulator.Stats
}

// Factory builds the session for a new run. id is unique per run and log
// already carries it.
type Factory func(id string, log *zap.Logger) (Session, error)

// Options configure a Keeper. Factory is required.
type Options struct {
	Factory Factory
	// Guard, when set, holds off sleep and screen lock while a session runs.
	Guard platform.SleepGuard
	Log   *zap.Logger
	Now   func() time.Time
}

// Keeper manages the simulation session lifecycle
type Keeper struct {
	factory Factory
	guard   platform.SleepGuard
	log     *zap.Logger
	now     func() time.Time

	mu      sync.Mutex
	running bool
	id      string
	session Session
	cancel  context.CancelFunc
	done    chan struct{}
	endTime time.Time
	lastErr error
	last    simulator.Snapshot
}

// New returns an idle Keeper.
func New(opts Options) *Keeper {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Keeper{
		factory: opts.Factory,
		guard:   opts.Guard,
		log:     opts.Log.With(zap.String("component", "keeper")),
		now:     opts.Now,
	}
}

// IsRunning returns whether a session is currently active
func (k *Keeper) IsRunning() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.running
}

// StartIndefinite runs until Stop is called
func (k *Keeper) StartIndefinite() error {
	return k.start(0)
}

// StartTimed runs for d
func (k *Keeper) StartTimed(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("duration must be positive, got %s", d)
	}
	return k.start(d)
}

// StartUntil runs until the wall clock reaches t
func (k *Keeper) StartUntil(t time.Time) error {
	d := t.Sub(k.now())
	if d <= 0 {
		return fmt.Errorf("end time %s is in the past", t.Format(time.Kitchen))
	}
	return k.start(d)
}

func (k *Keeper) start(d time.Duration) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.running {
		return ErrAlreadyRunning
	}
	if k.factory == nil {
		return errors.New("keeper has no session factory")
	}

	id := uuid.NewString()
	log := k.log.With(zap.String("session", id))
	session, err := k.factory(id, log)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	// The simulator checks its deadline only between cycles, so timed
	// sessions also get a context deadline.
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if d > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), d)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}
	k.running = true
	k.id = id
	k.session = session
	k.cancel = cancel
	k.done = make(chan struct{})
	k.lastErr = nil
	k.endTime = time.Time{}
	if d > 0 {
		k.endTime = k.now().Add(d)
	}

	go k.run(ctx, cancel, session, d, k.done, log)

	if d > 0 {
		log.Info("session started", zap.Duration("duration", d))
	} else {
		log.Info("session started", zap.String("mode", "indefinite"))
	}
	return nil
}

func (k *Keeper) run(ctx context.Context, cancel context.CancelFunc, session Session, d time.Duration, done chan struct{}, log *zap.Logger) {
	defer close(done)
	defer cancel()

	// Inhibitors make bus round trips; acquire outside k.mu.
	if k.guard != nil {
		if err := k.guard.Acquire(ctx); err != nil {
			log.Warn("sleep inhibition unavailable", zap.Error(err))
		}
	}

	err := session.Run(ctx, d)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	if k.guard != nil {
		if rerr := k.guard.Release(); rerr != nil {
			log.Warn("release sleep inhibition", zap.Error(rerr))
		}
	}

	snap := session.Stats().Snapshot()
	k.mu.Lock()
	k.running = false
	k.lastErr = err
	k.last = snap
	k.cancel = nil
	k.mu.Unlock()

	if err != nil {
		log.Error("session ended with error", zap.Error(err))
		return
	}
	log.Info("session ended",
		zap.Int64("events", snap.Events()),
		zap.Int64("cycles", snap.Cycles),
		zap.Int64("failures", snap.Failures))
}

// Done is closed when the current session ends. It is nil before the
// first start.
func (k *Keeper) Done() <-chan struct{} {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.done
}

// Err returns the error the last session ended with.
func (k *Keeper) Err() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.lastErr
}

// SessionID identifies the current or last session.
func (k *Keeper) SessionID() string {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.id
}

// Stop ends the session
func (k *Keeper) Stop() error {
	return k.StopWithTimeout(0)
}

// StopWithTimeout ends the session and waits up to timeout for it to
// unwind
func (k *Keeper) StopWithTimeout(timeout time.Duration) error {
	k.mu.Lock()
	if !k.running {
		k.mu.Unlock()
		return nil
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if k.cancel != nil {
		k.cancel()
		k.cancel = nil
	}
	done := k.done
	k.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		k.log.Info("session stopped", zap.String("session", k.SessionID()))
		return k.Err()
	case <-timer.C:
		k.log.Warn("stop timeout exceeded", zap.Duration("timeout", timeout))
		return fmt.Errorf("stop: %w", context.DeadlineExceeded)
	}
}

// TimeRemaining returns the remaining duration for timed mode
func (k *Keeper) TimeRemaining() time.Duration {
	k.mu.Lock()
	defer k.mu.Unlock()

	if !k.running || k.endTime.IsZero() {
		return 0
	}
	return max(0, k.endTime.Sub(k.now()))
}

// Stats returns live counters of the running session, or the final
// counters of the last one.
func (k *Keeper) Stats() simulator.Snapshot {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.running && k.session != nil {
		return k.session.Stats().Snapshot()
	}
	return k.last
}

// GetSimulationHealth derives health from the session counters: failing
// when injections fail and nothing got through.
func (k *Keeper) GetSimulationHealth() SimulationHealth {
	snap := k.Stats()
	switch {
	case snap.Failures > 0 && snap.Events() == 0:
		return SimulationHealthFailed
	case snap.Events() > 0:
		return SimulationHealthOK
	default:
		return SimulationHealthUnknown
	}
}
