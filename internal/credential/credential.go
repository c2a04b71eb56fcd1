// Package credential resolves the API key the shell hands to its UI.
package credential

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mastermind-ai/mastermind/internal/config"
	"github.com/mastermind-ai/mastermind/internal/keyring"
)

// ErrMissing means no API key was found in any configured source.
var ErrMissing = errors.New("credential: API key not configured")

// Source names where a credential came from.
type Source string

const (
	SourceEnv     Source = "env"
	SourceKeyring Source = "keyring"
)

// Credential is a resolved API key.
type Credential struct {
	Value  string
	Source Source
	// Name is the environment variable or keychain entry it was read from.
	Name string
}

// Masked returns the key with all but its edges hidden.
func (c Credential) Masked() string { return Mask(c.Value) }

// keychainGet is swapped out in tests.
var keychainGet = keyring.Get

// Load resolves the API key from the environment variable named in cfg,
// falling back to the OS keychain when cfg.UseKeyring is set. The value is
// returned exactly as stored; only an all-whitespace value counts as unset.
func Load(cfg config.CredentialConfig) (Credential, error) {
	name := cfg.EnvVar
	if name == "" {
		name = config.DefaultEnvVar
	}

	if v, ok := os.LookupEnv(name); ok && strings.TrimSpace(v) != "" {
		return Credential{Value: v, Source: SourceEnv, Name: name}, nil
	}

	if cfg.UseKeyring {
		v, err := keychainGet()
		switch {
		case err == nil && strings.TrimSpace(v) != "":
			return Credential{Value: v, Source: SourceKeyring, Name: "mastermind/api-key"}, nil
		case err != nil && !errors.Is(err, keyring.ErrNotFound):
			return Credential{}, fmt.Errorf("%w: %s is unset and keychain lookup failed: %v", ErrMissing, name, err)
		}
		return Credential{}, fmt.Errorf("%w: set %s or run `mastermind key set`", ErrMissing, name)
	}

	return Credential{}, fmt.Errorf("%w: set %s in the environment or a .env file", ErrMissing, name)
}

// Mask hides the middle of a key for display. Short keys are fully hidden.
func Mask(key string) string {
	if len(key) <= 12 {
		return strings.Repeat("*", len(key))
	}
	return key[:7] + "..." + key[len(key)-4:]
}
