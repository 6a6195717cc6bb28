//go:build !linux

package platform

import "fmt"

func openNative(kind Backend, _ Capabilities) (Injector, error) {
	return nil, fmt.Errorf("backend %s: %w", kind, ErrUnsupported)
}
