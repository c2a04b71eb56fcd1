package main

import (
	_ "embed"
	"fmt"
	"os"

	cli "github.com/mastermind-ai/mastermind/cmd/mastermind"
	"github.com/mastermind-ai/mastermind/internal/config"

	"github.com/joho/godotenv"
)

//go:embed etc/mastermind.yaml
var embeddedConfig []byte

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	c, err := config.LoadFromBytes(embeddedConfig)
	if err != nil {
		fmt.Printf("Failed to load embedded config: %v\n", err)
		os.Exit(1)
	}

	if err := cli.SetupRootCmd(&c).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
