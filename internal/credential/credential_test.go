package credential

import (
	"errors"
	"testing"

	"github.com/mastermind-ai/mastermind/internal/config"
	"github.com/mastermind-ai/mastermind/internal/keyring"
)

func stubKeychain(t *testing.T, v string, err error) {
	t.Helper()
	orig := keychainGet
	keychainGet = func() (string, error) { return v, err }
	t.Cleanup(func() { keychainGet = orig })
}

func TestLoadFromEnvIsExact(t *testing.T) {
	const key = "  sk-ant-api03-é\tweird  "
	t.Setenv(config.DefaultEnvVar, key)

	c, err := Load(config.CredentialConfig{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.Value != key {
		t.Errorf("expected value byte-for-byte %q, got %q", key, c.Value)
	}
	if c.Source != SourceEnv || c.Name != config.DefaultEnvVar {
		t.Errorf("unexpected source %s/%s", c.Source, c.Name)
	}
}

func TestLoadMissing(t *testing.T) {
	t.Setenv("MASTERMIND_TEST_KEY", "")
	stubKeychain(t, "from-keychain", nil)

	_, err := Load(config.CredentialConfig{EnvVar: "MASTERMIND_TEST_KEY"})
	if !errors.Is(err, ErrMissing) {
		t.Fatalf("expected ErrMissing, got %v", err)
	}
}

func TestLoadCustomEnvVar(t *testing.T) {
	t.Setenv("MASTERMIND_TEST_KEY", "custom")

	c, err := Load(config.CredentialConfig{EnvVar: "MASTERMIND_TEST_KEY"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.Value != "custom" {
		t.Errorf("expected custom, got %q", c.Value)
	}
}

func TestLoadKeychainFallback(t *testing.T) {
	t.Setenv("MASTERMIND_TEST_KEY", "")

	stubKeychain(t, "from-keychain", nil)
	c, err := Load(config.CredentialConfig{EnvVar: "MASTERMIND_TEST_KEY", UseKeyring: true})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.Value != "from-keychain" || c.Source != SourceKeyring {
		t.Errorf("unexpected credential %+v", c)
	}

	stubKeychain(t, "", keyring.ErrNotFound)
	if _, err := Load(config.CredentialConfig{EnvVar: "MASTERMIND_TEST_KEY", UseKeyring: true}); !errors.Is(err, ErrMissing) {
		t.Errorf("expected ErrMissing when keychain is empty, got %v", err)
	}

	stubKeychain(t, "", errors.New("dbus unavailable"))
	if _, err := Load(config.CredentialConfig{EnvVar: "MASTERMIND_TEST_KEY", UseKeyring: true}); !errors.Is(err, ErrMissing) {
		t.Errorf("expected ErrMissing when keychain fails, got %v", err)
	}
}

func TestMask(t *testing.T) {
	if got := Mask("short"); got != "*****" {
		t.Errorf("expected short key fully hidden, got %q", got)
	}
	if got := Mask("sk-ant-api03-abcdefghijkl"); got != "sk-ant-...ijkl" {
		t.Errorf("unexpected mask %q", got)
	}
}
