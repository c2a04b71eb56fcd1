// Package platform applies OS-specific window chrome. Each OS gets its
// own implementation; platforms without native tweaks get a no-op.
package platform

import (
	"errors"
	"unsafe"
)

var (
	// ErrNoHandle is returned when the native window handle is zero.
	ErrNoHandle = errors.New("platform: native window handle unavailable")
	// ErrUnsupported is returned for adjustments the current OS does not have.
	ErrUnsupported = errors.New("platform: not supported on this OS")
)

// Handle converts the pointer a toolkit hands out for its native window
// (nil while the window is not running) into a handle for Platform.
func Handle(p unsafe.Pointer) (uintptr, error) {
	if p == nil {
		return 0, ErrNoHandle
	}
	return uintptr(p), nil
}

// Cosmetics describes the one-time chrome applied when the window is ready.
type Cosmetics struct {
	// Translucent puts a vibrancy effect behind the web content.
	Translucent bool
	// FullSizeContent lets content extend under the titlebar.
	FullSizeContent bool
}

// Platform performs native window adjustments given a raw window handle
// (an NSWindow pointer on macOS).
type Platform interface {
	// Name identifies the implementation in logs.
	Name() string
	// ApplyCosmetics makes the titlebar transparent, marks the window
	// restorable and applies opts. Platforms without these features
	// return nil.
	ApplyCosmetics(handle uintptr, opts Cosmetics) error
	// SetTitlebar shows an opaque titlebar with its title when show is
	// true, and a transparent untitled one otherwise.
	SetTitlebar(handle uintptr, show bool) error
}

// noop is used on platforms without native chrome tweaks.
type noop struct {
	goos string
}

func (n noop) Name() string { return n.goos }

func (noop) ApplyCosmetics(uintptr, Cosmetics) error { return nil }

func (noop) SetTitlebar(uintptr, bool) error { return ErrUnsupported }
