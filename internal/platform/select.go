package platform

import (
	"fmt"

	"go.uber.org/zap"
)

// Default virtual screen for the dry-run injector.
const (
	DefaultScreenWidth  = 1920
	DefaultScreenHeight = 1080
)

// RobotFactory builds the robotgo injector. It lives behind a factory so
// only binaries that link robotgo pay for cgo.
type RobotFactory func() (Injector, error)

// SelectOptions carries the optional pieces of backend selection.
type SelectOptions struct {
	Robot RobotFactory
	Log   *zap.Logger
}

// Select builds the injector for kind. BackendAuto walks AutoCandidates
// and falls back to dry run with a warning when nothing native works.
func Select(kind Backend, caps Capabilities, opts SelectOptions) (Injector, error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	switch kind {
	case BackendDryRun:
		return NewDryRun(log, DefaultScreenWidth, DefaultScreenHeight), nil
	case BackendRobotgo:
		if opts.Robot == nil {
			return nil, fmt.Errorf("robotgo backend not built in: %w", ErrUnsupported)
		}
		return opts.Robot()
	case BackendUinput, BackendXdotool, BackendYdotool:
		return openNative(kind, caps)
	case BackendAuto, "":
	default:
		return nil, fmt.Errorf("unknown backend %q", kind)
	}

	for _, candidate := range AutoCandidates(caps, opts.Robot != nil) {
		inj, err := Select(candidate, caps, opts)
		if err == nil {
			log.Info("input backend selected", zap.String("backend", inj.Name()))
			return inj, nil
		}
		log.Warn("input backend unavailable", zap.String("backend", string(candidate)), zap.Error(err))
	}

	log.Warn("no native input backend works here; falling back to dry run")
	if report := caps.Report(); report != "" {
		log.Warn("missing dependencies", zap.String("report", report))
	}
	return NewDryRun(log, DefaultScreenWidth, DefaultScreenHeight), nil
}

// AutoCandidates orders the native backends worth trying. robotgo cannot
// inject under Wayland, so it is skipped there.
func AutoCandidates(caps Capabilities, haveRobot bool) []Backend {
	var out []Backend
	if haveRobot && !(caps.OS == "linux" && caps.DisplayServer == "wayland") {
		out = append(out, BackendRobotgo)
	}
	if caps.OS != "linux" {
		return out
	}
	if caps.Uinput {
		out = append(out, BackendUinput)
	}
	if caps.Has("ydotool") {
		out = append(out, BackendYdotool)
	}
	if caps.Has("xdotool") && caps.DisplayServer == "x11" {
		out = append(out, BackendXdotool)
	}
	return out
}
