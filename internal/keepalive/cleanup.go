package keepalive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrCleanupTimeout is reported when cleanups outlive the manager timeout.
var ErrCleanupTimeout = errors.New("cleanup timeout exceeded")

// CleanupResource is something released at shutdown
type CleanupResource interface {
	Cleanup() error
	Name() string
}

type cleanupFunc struct {
	name string
	fn   func() error
}

func (c cleanupFunc) Cleanup() error { return c.fn() }
func (c cleanupFunc) Name() string   { return c.name }

// CleanupManager releases registered resources once, in reverse order of
// registration, within a timeout. A panicking cleanup is recovered and
// reported as an error.
type CleanupManager struct {
	mu        sync.Mutex
	resources []CleanupResource
	timeout   time.Duration
	log       *zap.Logger

	once sync.Once
	err  error
}

// NewCleanupManager creates a manager; a non-positive timeout means 5s.
func NewCleanupManager(timeout time.Duration, log *zap.Logger) *CleanupManager {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CleanupManager{timeout: timeout, log: log.With(zap.String("component", "cleanup"))}
}

// Register adds a resource to be cleaned up
func (cm *CleanupManager) Register(resource CleanupResource) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.resources = append(cm.resources, resource)
}

// RegisterFunc registers a cleanup function
func (cm *CleanupManager) RegisterFunc(name string, fn func() error) {
	cm.Register(cleanupFunc{name: name, fn: fn})
}

// RegisterCloser registers c.Close.
func (cm *CleanupManager) RegisterCloser(name string, c io.Closer) {
	cm.RegisterFunc(name, c.Close)
}

// Execute runs every cleanup. Later calls return the first call's result.
func (cm *CleanupManager) Execute() error {
	cm.once.Do(func() {
		cm.err = cm.executeWithTimeout()
	})
	return cm.err
}

func (cm *CleanupManager) executeWithTimeout() error {
	cm.mu.Lock()
	resources := make([]CleanupResource, len(cm.resources))
	copy(resources, cm.resources)
	cm.mu.Unlock()

	if len(resources) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), cm.timeout)
	defer cancel()

	done := make(chan struct{})
	var (
		mu   sync.Mutex
		errs []error
	)
	go func() {
		defer close(done)
		for i := len(resources) - 1; i >= 0; i-- {
			if err := cm.cleanupOne(resources[i]); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}
	}()

	select {
	case <-done:
	case <-ctx.Done():
		cm.log.Warn("cleanup timed out, some resources may leak", zap.Duration("timeout", cm.timeout))
		mu.Lock()
		errs = append(errs, ErrCleanupTimeout)
		mu.Unlock()
	}

	mu.Lock()
	defer mu.Unlock()
	return errors.Join(errs...)
}

func (cm *CleanupManager) cleanupOne(r CleanupResource) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("cleanup %s: panic: %v", r.Name(), p)
			cm.log.Error("cleanup panicked", zap.String("resource", r.Name()), zap.Any("panic", p))
		}
	}()
	if err := r.Cleanup(); err != nil {
		cm.log.Warn("cleanup failed", zap.String("resource", r.Name()), zap.Error(err))
		return fmt.Errorf("cleanup %s: %w", r.Name(), err)
	}
	cm.log.Debug("cleaned up", zap.String("resource", r.Name()))
	return nil
}

// Clear removes all registered resources without executing cleanup
func (cm *CleanupManager) Clear() {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.resources = cm.resources[:0]
}
