//go:build !darwin

package platform

import "runtime"

// Native returns the implementation for the running OS.
func Native() Platform {
	return noop{goos: runtime.GOOS}
}
