//go:build linux

package linux

import (
	"context"
	"time"

	"github.com/stigoleg/activity-sim/internal/util"
)

// commandTimeout bounds every helper tool invocation.
const commandTimeout = 3 * time.Second

var hasCommand = util.HasCommand

// runTimeout runs name through run with commandTimeout applied.
func runTimeout(ctx context.Context, run util.Runner, name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()
	return run(ctx, name, args...)
}
