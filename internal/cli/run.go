package cli

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/stigoleg/activity-sim/internal/config"
	"github.com/stigoleg/activity-sim/internal/inject/robot"
	"github.com/stigoleg/activity-sim/internal/keepalive"
	"github.com/stigoleg/activity-sim/internal/logging"
	"github.com/stigoleg/activity-sim/internal/platform"
	"github.com/stigoleg/activity-sim/internal/simulator"
	"github.com/stigoleg/activity-sim/internal/snippets"
	"github.com/stigoleg/activity-sim/internal/ui"
	"github.com/stigoleg/activity-sim/internal/window"
)

// cleanupTimeout bounds shutdown of the injector, watcher and session.
const cleanupTimeout = 5 * time.Second

// Env carries the pieces a session is assembled from. Tests build one by
// hand; Run builds it from the detected machine.
type Env struct {
	Config   *config.Config
	Log      *zap.Logger
	Injector platform.Injector
	Windows  window.Manager
	Snippets *snippets.Library
	Idle     platform.IdleDetector
	Guard    platform.SleepGuard
	// Seed fixes the random stream when non-zero.
	Seed int64
	// Sleeper replaces real pauses; nil sleeps on timers.
	Sleeper simulator.Sleeper
}

// Run sets up logging and the platform pieces, then runs the TUI or a
// headless session.
func Run(ctx context.Context, cfg *config.Config, version string) error {
	log, err := logging.New(logging.Options{
		Verbose: cfg.Verbose,
		File:    cfg.LogTarget(),
		Console: cfg.NoTUI,
	})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	log.Info("starting", zap.String("version", version), zap.Bool("dry_run", cfg.DryRun), zap.String("backend", string(cfg.Backend)))

	cleanup := keepalive.NewCleanupManager(cleanupTimeout, log)
	defer func() {
		if err := cleanup.Execute(); err != nil {
			log.Warn("cleanup incomplete", zap.Error(err))
		}
	}()

	env, err := buildEnv(ctx, cfg, log, cleanup)
	if err != nil {
		return err
	}
	keeper := NewKeeper(env)
	cleanup.RegisterFunc("session", keeper.Stop)

	if cfg.NoTUI {
		return Headless(ctx, keeper, cfg, log)
	}
	model := ui.NewModel(keeper, ui.Options{DryRun: cfg.DryRun, Backend: env.Injector.Name(), Stack: cfg.Stack})
	if cfg.Duration > 0 {
		model = ui.NewRunningModel(keeper, model.Options, cfg.Duration)
	}
	err = ui.Run(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func buildEnv(ctx context.Context, cfg *config.Config, log *zap.Logger, cleanup *keepalive.CleanupManager) (*Env, error) {
	caps := platform.Detect()
	if report := caps.Report(); report != "" && !cfg.DryRun {
		log.Warn("missing dependencies", zap.String("report", report))
	}

	inj, err := platform.Select(cfg.Backend, caps, platform.SelectOptions{Robot: robot.New, Log: log})
	if err != nil {
		return nil, fmt.Errorf("input backend: %w", err)
	}
	cleanup.RegisterCloser("injector", inj)

	env := &Env{Config: cfg, Log: log, Injector: inj}
	env.Windows = openWindows(cfg, inj, log)
	cleanup.RegisterCloser("windows", env.Windows)

	lib, err := snippets.Open(cfg.SnippetsDir)
	if err != nil {
		return nil, err
	}
	env.Snippets = lib
	if lib.Root() != "" {
		w, err := snippets.NewWatcher(lib, log, snippets.DefaultDebounce)
		if err != nil {
			log.Warn("snippet hot reload disabled", zap.Error(err))
		} else {
			w.Start(ctx)
			cleanup.RegisterFunc("snippet watcher", w.Stop)
		}
	}

	if !cfg.DryRun {
		env.Idle = platform.NewIdleDetector(caps, log)
		cleanup.RegisterCloser("idle detector", env.Idle)
		if cfg.InhibitSleep {
			env.Guard = platform.NewSleepGuard(caps, log)
		}
	}
	return env, nil
}

// openWindows uses the OS window manager for real runs and a fixed set of
// windows for dry runs or when the OS backend is unavailable.
func openWindows(cfg *config.Config, inj platform.Injector, log *zap.Logger) window.Manager {
	w, h, err := inj.ScreenSize()
	if err != nil || w <= 0 || h <= 0 {
		w, h = platform.DefaultScreenWidth, platform.DefaultScreenHeight
	}
	static := window.NewStatic(window.Rect{W: w, H: h})
	if cfg.DryRun {
		return static
	}
	m, err := window.New(window.Options{Log: log})
	if err != nil {
		log.Warn("window control unavailable, switching is simulated", zap.Error(err))
		return static
	}
	return m
}

// NewKeeper returns a Keeper whose sessions are simulators over env.
func NewKeeper(env *Env) *keepalive.Keeper {
	cfg := env.Config
	factory := func(_ string, log *zap.Logger) (keepalive.Session, error) {
		seed := env.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		return simulator.New(simulator.Config{
			Stack:        cfg.Stack,
			DryRun:       cfg.DryRun,
			SnippetEvery: cfg.SnippetEvery,
			MinEvents:    cfg.MinEvents,
			YieldToUser:  cfg.YieldToUser,
		}, simulator.Deps{
			Injector: env.Injector,
			Windows:  env.Windows,
			Snippets: env.Snippets,
			Idle:     env.Idle,
			Profile:  &cfg.Profile,
			Log:      log,
			Rand:     rand.New(rand.NewSource(seed)),
			Sleeper:  env.Sleeper,
		})
	}
	return keepalive.New(keepalive.Options{
		Factory: factory,
		Guard:   env.Guard,
		Log:     env.Log,
	})
}
