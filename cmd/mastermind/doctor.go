package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/mastermind-ai/mastermind/internal/config"
	"github.com/mastermind-ai/mastermind/internal/crashlog"
	"github.com/mastermind-ai/mastermind/internal/credential"
	"github.com/mastermind-ai/mastermind/internal/defaults"
	"github.com/mastermind-ai/mastermind/internal/keyring"
	"github.com/mastermind-ai/mastermind/internal/platform"
	"github.com/mastermind-ai/mastermind/internal/relay"
)

// checkTimeout bounds every request doctor makes, whatever relay.timeout says.
const checkTimeout = 5 * time.Second

// DoctorCmd creates the doctor command for health checks
func DoctorCmd() *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, credential and backend",
		Long: `Run diagnostics on your Mastermind installation.

Checks:
  - Data directory and config file
  - API key
  - Backend reachability
  - Platform window support

Examples:
  mastermind doctor           # Run all diagnostics
  mastermind doctor --reset   # Restore the default config.yaml first`,
		Run: func(cmd *cobra.Command, args []string) {
			if reset {
				if err := resetDefaults(); err != nil {
					fmt.Fprintf(os.Stderr, "reset failed: %v\n", err)
				}
			}
			results := runChecks(cmd.Context())
			if printResults(cmd.OutOrStdout(), results) > 0 {
				os.Exit(1)
			}
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "restore default config files before checking")

	return cmd
}

// resetDefaults restores the embedded default files, creating the data
// directory first on a machine that has never run Mastermind.
func resetDefaults() error {
	dir, err := defaults.EnsureDataDir()
	if err != nil {
		return err
	}
	return defaults.Reset(dir)
}

type checkStatus string

const (
	statusOK    checkStatus = "ok"
	statusWarn  checkStatus = "warn"
	statusError checkStatus = "error"
)

type checkResult struct {
	name    string
	status  checkStatus
	message string
}

func runChecks(ctx context.Context) []checkResult {
	if ctx == nil {
		ctx = context.Background()
	}
	dataDir, path, cfg, err := loadConfig(baseConfig())
	results := checkConfig(dataDir, path, err)
	results = append(results, checkCredential(cfg)...)
	results = append(results, checkBackend(ctx, cfg)...)
	results = append(results, checkPlatform()...)
	results = append(results, checkCrashLog(dataDir)...)
	return results
}

// printResults writes the report and returns the number of errors.
func printResults(out io.Writer, results []checkResult) int {
	fmt.Fprintln(out, "\033[1mMastermind Doctor\033[0m")
	fmt.Fprintln(out, "=================")
	fmt.Fprintln(out)

	var okCount, warnCount, errorCount int
	for _, r := range results {
		switch r.status {
		case statusOK:
			fmt.Fprintf(out, "\033[32m✓\033[0m %s: %s\n", r.name, r.message)
			okCount++
		case statusWarn:
			fmt.Fprintf(out, "\033[33m⚠\033[0m %s: %s\n", r.name, r.message)
			warnCount++
		case statusError:
			fmt.Fprintf(out, "\033[31m✗\033[0m %s: %s\n", r.name, r.message)
			errorCount++
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Summary:")
	fmt.Fprintf(out, "  \033[32m%d passed\033[0m", okCount)
	if warnCount > 0 {
		fmt.Fprintf(out, "  \033[33m%d warnings\033[0m", warnCount)
	}
	if errorCount > 0 {
		fmt.Fprintf(out, "  \033[31m%d errors\033[0m", errorCount)
	}
	fmt.Fprintln(out)
	return errorCount
}

func checkConfig(dataDir, path string, loadErr error) []checkResult {
	if dataDir == "" {
		return []checkResult{{name: "Data Directory", status: statusError, message: loadErr.Error()}}
	}
	results := []checkResult{{name: "Data Directory", status: statusOK, message: dataDir}}

	switch {
	case loadErr != nil:
		results = append(results, checkResult{name: "Config File", status: statusError, message: loadErr.Error()})
	default:
		if _, err := os.Stat(path); err != nil {
			results = append(results, checkResult{name: "Config File", status: statusWarn, message: path + " not found, using built-in defaults"})
		} else {
			results = append(results, checkResult{name: "Config File", status: statusOK, message: path})
		}
	}
	return results
}

func checkCredential(cfg config.Config) []checkResult {
	cred, err := credential.Load(cfg.Credential)
	if err != nil {
		return []checkResult{{name: "API Key", status: statusError, message: err.Error()}}
	}
	results := []checkResult{{
		name:    "API Key",
		status:  statusOK,
		message: fmt.Sprintf("%s (%s %s)", cred.Masked(), cred.Source, cred.Name),
	}}
	if cfg.Credential.UseKeyring && !keyring.Available() {
		results = append(results, checkResult{name: "Keychain", status: statusWarn, message: "use_keyring is set but the OS keychain is unavailable"})
	}
	return results
}

// diagnosticRelay is a relay client for diagnostics. It does not share the
// configured timeout so a slow backend cannot hang the report.
func diagnosticRelay(cfg config.Config) *relay.Client {
	return relay.New(cfg.Relay.BaseURL,
		relay.WithHTTPClient(&http.Client{Timeout: checkTimeout}),
		relay.WithUserAgent("mastermind-doctor/"+AppVersion),
	)
}

func checkBackend(ctx context.Context, cfg config.Config) []checkResult {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	client := diagnosticRelay(cfg)
	if err := client.Health(ctx); err != nil {
		return []checkResult{{
			name:    "Backend",
			status:  statusWarn,
			message: fmt.Sprintf("not reachable at %s (%v)", client.BaseURL(), err),
		}}
	}
	return []checkResult{{name: "Backend", status: statusOK, message: "healthy at " + client.BaseURL()}}
}

func checkPlatform() []checkResult {
	p := platform.Native()
	if runtime.GOOS == "darwin" {
		return []checkResult{{name: "Window Chrome", status: statusOK, message: "translucent titlebar (" + p.Name() + ")"}}
	}
	return []checkResult{{name: "Window Chrome", status: statusOK, message: "standard window (" + p.Name() + ")"}}
}

func checkCrashLog(dataDir string) []checkResult {
	if dataDir == "" {
		return nil
	}
	path := filepath.Join(dataDir, crashlog.FileName)
	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		return nil
	}
	return []checkResult{{
		name:    "Crash Log",
		status:  statusWarn,
		message: fmt.Sprintf("%s has entries (last written %s)", path, info.ModTime().Format(time.DateTime)),
	}}
}
