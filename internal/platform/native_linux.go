//go:build linux

package platform

import (
	"fmt"

	"github.com/stigoleg/activity-sim/internal/platform/linux"
)

func openNative(kind Backend, caps Capabilities) (Injector, error) {
	switch kind {
	case BackendUinput:
		if !caps.Uinput {
			return nil, fmt.Errorf("uinput not accessible: %s", caps.UinputMessage)
		}
		dev, err := linux.OpenDevice()
		if err != nil {
			return nil, err
		}
		return dev, nil
	case BackendXdotool, BackendYdotool:
		if !caps.Has(string(kind)) {
			return nil, fmt.Errorf("%s not found on PATH", kind)
		}
		inj, err := linux.NewCommandInjector(string(kind), nil)
		if err != nil {
			return nil, err
		}
		return inj, nil
	}
	return nil, fmt.Errorf("backend %s: %w", kind, ErrUnsupported)
}
