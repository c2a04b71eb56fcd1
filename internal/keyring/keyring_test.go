package keyring

import (
	"errors"
	"testing"

	zkr "github.com/zalando/go-keyring"
)

func TestRoundTrip(t *testing.T) {
	zkr.MockInit()

	if _, err := Get(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty keychain, got %v", err)
	}

	if err := Set("sk-ant-test"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := Get()
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != "sk-ant-test" {
		t.Errorf("expected sk-ant-test, got %q", got)
	}

	if err := Delete(); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := Delete(); err != nil {
		t.Errorf("second Delete should be a no-op, got %v", err)
	}
}

func TestAvailableOptOut(t *testing.T) {
	zkr.MockInit()
	t.Setenv("MASTERMIND_KEYRING_DISABLED", "1")
	if Available() {
		t.Error("expected keychain to be reported unavailable")
	}

	t.Setenv("MASTERMIND_KEYRING_DISABLED", "")
	if !Available() {
		t.Error("mock keychain should be available")
	}
}
