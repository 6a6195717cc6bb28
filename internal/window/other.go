//go:build !linux && !windows

package window

// New reports ErrUnsupported; callers fall back to Static.
func New(Options) (Manager, error) {
	return nil, ErrUnsupported
}
