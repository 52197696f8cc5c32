//go:build !darwin && !freebsd && !linux && !windows

package compression

func openOodle(string) (oodleLibrary, error) {
	return nil, ErrOodleUnsupported
}
