package window

import (
	"runtime"

	"go.uber.org/zap"

	"github.com/stigoleg/activity-sim/internal/util"
)

// Options configures the OS window backend.
type Options struct {
	Log        *zap.Logger
	Filter     *Filter
	Run        util.Runner
	HasCommand func(string) bool
}

func (o Options) withDefaults() Options {
	if o.Log == nil {
		o.Log = zap.NewNop()
	}
	o.Log = o.Log.With(zap.String("component", "window"))
	if o.Filter == nil {
		f := DefaultFilter(runtime.GOOS)
		o.Filter = &f
	}
	if o.Run == nil {
		o.Run = util.Run
	}
	if o.HasCommand == nil {
		o.HasCommand = util.HasCommand
	}
	return o
}
