package keyring

import (
	"errors"
	"fmt"
	"os"

	zkr "github.com/zalando/go-keyring"
)

const (
	serviceName = "mastermind"
	accountName = "api-key"
)

// ErrNotFound is returned when no API key is stored in the keychain.
var ErrNotFound = errors.New("keychain: api key not found")

// Get retrieves the stored API key from the OS keychain.
func Get() (string, error) {
	v, err := zkr.Get(serviceName, accountName)
	if errors.Is(err, zkr.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("keychain get: %w", err)
	}
	return v, nil
}

// Set stores the API key in the OS keychain.
func Set(key string) error {
	if err := zkr.Set(serviceName, accountName, key); err != nil {
		return fmt.Errorf("keychain set: %w", err)
	}
	return nil
}

// Delete removes the API key from the OS keychain. Deleting a missing
// entry is not an error.
func Delete() error {
	err := zkr.Delete(serviceName, accountName)
	if err != nil && !errors.Is(err, zkr.ErrNotFound) {
		return fmt.Errorf("keychain delete: %w", err)
	}
	return nil
}

// Available returns true if the OS keychain is functional.
// Returns false if MASTERMIND_KEYRING_DISABLED=1 is set (opt-in for headless/CI/Docker).
// Otherwise probes the keychain with a test write/read/delete cycle.
func Available() bool {
	if os.Getenv("MASTERMIND_KEYRING_DISABLED") == "1" {
		return false
	}
	testService := "mastermind-keyring-probe"
	testAccount := "probe"
	if err := zkr.Set(testService, testAccount, "ok"); err != nil {
		return false
	}
	_ = zkr.Delete(testService, testAccount)
	return true
}
