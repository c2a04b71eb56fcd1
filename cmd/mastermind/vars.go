package cli

import (
	"github.com/mastermind-ai/mastermind/internal/config"
)

// Shared CLI flags (used across multiple command files)
var (
	cfgFile string
	verbose bool
	quiet   bool
)

// AppVersion is set at build time via ldflags.
var AppVersion = "dev"

// AppConfig holds the embedded configuration (set by main). The user
// config file is layered on top at startup.
var AppConfig *config.Config
