//go:build !darwin

package platform

import (
	"errors"
	"runtime"
	"testing"
)

func TestNativeIsNoopOffMac(t *testing.T) {
	p := Native()
	if p.Name() != runtime.GOOS {
		t.Errorf("expected name %s, got %s", runtime.GOOS, p.Name())
	}
	if err := p.ApplyCosmetics(0, Cosmetics{Translucent: true, FullSizeContent: true}); err != nil {
		t.Errorf("cosmetics must be a silent no-op, got %v", err)
	}
	if err := p.SetTitlebar(42, true); !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
}
