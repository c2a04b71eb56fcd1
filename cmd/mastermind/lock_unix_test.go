//go:build darwin || linux

package cli

import "testing"

func TestLockIsExclusive(t *testing.T) {
	dir := t.TempDir()

	first, err := acquireLock(dir)
	if err != nil {
		t.Fatalf("first lock failed: %v", err)
	}

	if second, err := acquireLock(dir); err == nil {
		releaseLock(second)
		t.Fatal("second lock should fail while the first is held")
	}

	releaseLock(first)
	again, err := acquireLock(dir)
	if err != nil {
		t.Fatalf("lock should be free after release: %v", err)
	}
	releaseLock(again)
}
