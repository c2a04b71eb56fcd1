package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultEnvVar is the environment variable that holds the API key
// unless the config names another one.
const DefaultEnvVar = "ANTHROPIC_API_KEY"

type Config struct {
	App struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
	} `yaml:"app"`
	Window     WindowConfig     `yaml:"window"`
	Relay      RelayConfig      `yaml:"relay"`
	Credential CredentialConfig `yaml:"credential"`
}

type WindowConfig struct {
	Title           string `yaml:"title"`
	Width           int    `yaml:"width"`
	Height          int    `yaml:"height"`
	MinWidth        int    `yaml:"min_width"`
	MinHeight       int    `yaml:"min_height"`
	FullSizeContent bool   `yaml:"full_size_content"`
	Translucent     bool   `yaml:"translucent"`
}

type RelayConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type CredentialConfig struct {
	EnvVar     string `yaml:"env_var"`
	UseKeyring bool   `yaml:"use_keyring"`
}

// LoadFromBytes loads configuration from YAML bytes with environment variable expansion
func LoadFromBytes(data []byte) (Config, error) {
	var c Config
	if err := c.Overlay(data); err != nil {
		return c, err
	}
	c.applyDefaults()
	return c, c.Validate()
}

// Overlay decodes data on top of c. Keys absent from data keep their
// current values.
func (c *Config) Overlay(data []byte) error {
	expanded := os.ExpandEnv(string(data))
	if len(bytes.TrimSpace([]byte(expanded))) == 0 {
		return nil
	}
	if err := yaml.Unmarshal([]byte(expanded), c); err != nil {
		return fmt.Errorf("config: decode: %w", err)
	}
	return nil
}

// LoadFile returns base overlaid with the file at path. A missing file
// is not an error.
func LoadFile(base Config, path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return base, nil
	}
	if err != nil {
		return base, fmt.Errorf("config: read %s: %w", path, err)
	}
	c := base
	if err := c.Overlay(data); err != nil {
		return base, fmt.Errorf("%s: %w", path, err)
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return base, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "Mastermind"
	}
	if c.Window.Title == "" {
		c.Window.Title = c.App.Name
	}
	if c.Window.Width == 0 {
		c.Window.Width = 1200
	}
	if c.Window.Height == 0 {
		c.Window.Height = 800
	}
	if c.Window.MinWidth == 0 {
		c.Window.MinWidth = 800
	}
	if c.Window.MinHeight == 0 {
		c.Window.MinHeight = 600
	}
	if c.Relay.BaseURL == "" {
		c.Relay.BaseURL = "http://localhost:8000"
	}
	if c.Credential.EnvVar == "" {
		c.Credential.EnvVar = DefaultEnvVar
	}
}

// Validate reports settings that would make the shell unusable.
func (c Config) Validate() error {
	u, err := url.Parse(c.Relay.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("config: relay.base_url %q is not an http(s) URL", c.Relay.BaseURL)
	}
	if c.Relay.Timeout < 0 {
		return fmt.Errorf("config: relay.timeout must not be negative")
	}
	if c.Window.Width < c.Window.MinWidth || c.Window.Height < c.Window.MinHeight {
		return fmt.Errorf("config: window size %dx%d is below the minimum %dx%d",
			c.Window.Width, c.Window.Height, c.Window.MinWidth, c.Window.MinHeight)
	}
	return nil
}
