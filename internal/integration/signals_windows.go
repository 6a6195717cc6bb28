//go:build windows

package integration

import (
	"os"
	"syscall"
)

func shutdownSignals() []os.Signal {
	return []os.Signal{syscall.SIGINT, syscall.SIGTERM}
}

// interruptSignals is empty: os.Process.Signal cannot deliver interrupts
// on Windows.
func interruptSignals() []os.Signal {
	return nil
}
