//go:build darwin

package platform

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/stigoleg/activity-sim/internal/util"
)

var hidIdleRe = regexp.MustCompile(`"HIDIdleTime"\s*=\s*(\d+)`)

type darwinIdle struct{}

// NewIdleDetector reads HIDIdleTime from ioreg.
func NewIdleDetector(_ Capabilities, _ *zap.Logger) IdleDetector {
	return darwinIdle{}
}

func (darwinIdle) Idle(ctx context.Context) (time.Duration, error) {
	out, err := util.Run(ctx, "ioreg", "-c", "IOHIDSystem")
	if err != nil {
		return 0, err
	}
	return parseHIDIdle(out)
}

func (darwinIdle) Close() error { return nil }

func parseHIDIdle(out string) (time.Duration, error) {
	m := hidIdleRe.FindStringSubmatch(out)
	if len(m) < 2 {
		return 0, fmt.Errorf("HIDIdleTime not found in ioreg output")
	}
	nanos, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse HIDIdleTime: %w", err)
	}
	return time.Duration(nanos), nil
}
