package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/mastermind-ai/mastermind/internal/config"
	"github.com/mastermind-ai/mastermind/internal/credential"
	"github.com/mastermind-ai/mastermind/internal/defaults"
	"github.com/mastermind-ai/mastermind/internal/relay"
)

// runtimeEnv is everything resolved before the first window is created.
type runtimeEnv struct {
	DataDir    string
	ConfigPath string
	Config     config.Config
	Credential credential.Credential
	Relay      *relay.Client
}

// configPath picks the user config file: --config, then MASTERMIND_CONFIG,
// then config.yaml in the data directory.
func configPath(dataDir string) string {
	if cfgFile != "" {
		return cfgFile
	}
	if p := os.Getenv("MASTERMIND_CONFIG"); p != "" {
		return p
	}
	return defaults.ConfigPath(dataDir)
}

// loadConfig prepares the data directory, loads its .env file and layers
// the user config over base. Variables already in the environment win
// over .env entries.
func loadConfig(base config.Config) (dataDir, path string, cfg config.Config, err error) {
	dataDir, err = defaults.EnsureDataDir()
	if err != nil {
		return "", "", base, fmt.Errorf("failed to initialize data directory: %w", err)
	}
	// Apps launched from Finder or a desktop launcher start in /, so the
	// working-directory .env loaded by main is rarely the user's.
	if err := godotenv.Load(filepath.Join(dataDir, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return dataDir, "", base, fmt.Errorf("load %s: %w", filepath.Join(dataDir, ".env"), err)
	}
	path = configPath(dataDir)
	cfg, err = config.LoadFile(base, path)
	if err != nil {
		return dataDir, path, base, err
	}
	return dataDir, path, cfg, nil
}

// prepare resolves configuration and the credential. Any error here is
// fatal for the desktop shell and must stop it before a window exists.
func prepare(base config.Config) (*runtimeEnv, error) {
	dataDir, path, cfg, err := loadConfig(base)
	if err != nil {
		return nil, err
	}

	cred, err := credential.Load(cfg.Credential)
	if err != nil {
		return nil, err
	}

	return &runtimeEnv{
		DataDir:    dataDir,
		ConfigPath: path,
		Config:     cfg,
		Credential: cred,
		Relay:      newRelay(cfg),
	}, nil
}

func newRelay(cfg config.Config) *relay.Client {
	return relay.New(cfg.Relay.BaseURL,
		relay.WithTimeout(cfg.Relay.Timeout),
		relay.WithUserAgent("mastermind/"+AppVersion),
	)
}

// baseConfig returns the embedded config, or built-in defaults when main
// did not set one (tests).
func baseConfig() config.Config {
	if AppConfig != nil {
		return *AppConfig
	}
	c, _ := config.LoadFromBytes(nil)
	return c
}

// fatalf prints a red diagnostic and exits.
func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\033[31mError: %s\033[0m\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}
