package cli

import (
	"github.com/spf13/cobra"

	"github.com/mastermind-ai/mastermind/internal/config"
	"github.com/mastermind-ai/mastermind/internal/logging"
)

// SetupRootCmd configures the root command with all subcommands and flags
func SetupRootCmd(c *config.Config) *cobra.Command {
	AppConfig = c

	rootCmd := &cobra.Command{
		Use:   "mastermind",
		Short: "Mastermind - desktop AI assistant",
		Long: `Mastermind opens the desktop chat window and relays messages to the
local Mastermind backend (http://localhost:8000 by default).

The API key is read from ANTHROPIC_API_KEY (or the variable named in
config.yaml); the app refuses to start without it.`,
		Version: AppVersion,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			applyLogFlags()
		},
		Run: func(cmd *cobra.Command, args []string) {
			RunDesktop()
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: <data dir>/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress log output")

	rootCmd.AddCommand(SendCmd())
	rootCmd.AddCommand(DoctorCmd())
	rootCmd.AddCommand(KeyCmd())

	return rootCmd
}

func applyLogFlags() {
	logging.SetVerbose(verbose)
	if quiet {
		logging.Disable()
	} else {
		logging.Enable()
	}
}
