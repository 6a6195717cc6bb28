//go:build !linux

package platform

import "runtime"

// Detect reports the OS; injection on Windows and macOS goes through
// robotgo, so there are no helper tools to look for.
func Detect() Capabilities {
	return Capabilities{OS: runtime.GOOS, Tools: map[string]bool{}}
}
