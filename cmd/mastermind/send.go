package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mastermind-ai/mastermind/internal/credential"
	"github.com/mastermind-ai/mastermind/internal/relay"
)

type sendOptions struct {
	context string
	model   string
	apiKey  string
	jsonOut bool
}

// SendCmd relays a single message from the terminal, the same way the
// window does.
func SendCmd() *cobra.Command {
	var opts sendOptions

	cmd := &cobra.Command{
		Use:   "send [message]",
		Short: "Send one message to the backend and print the reply",
		Long: `Send a chat message to the Mastermind backend without opening a window.

The message is taken from the arguments, or from stdin when none are given.

Examples:
  mastermind send "What did we decide about the schema?"
  echo "summarise today" | mastermind send --model claude-3-haiku
  mastermind send --json "hello"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			message := strings.Join(args, " ")
			if message == "" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				message = strings.TrimSpace(string(data))
			}
			if message == "" {
				return fmt.Errorf("no message given")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runSend(ctx, cmd.OutOrStdout(), message, opts)
		},
	}

	cmd.Flags().StringVar(&opts.context, "context", "", "context passed along with the message")
	cmd.Flags().StringVarP(&opts.model, "model", "m", "claude-3-sonnet", "model the backend should use")
	cmd.Flags().StringVar(&opts.apiKey, "api-key", "", "API key (default: the configured credential)")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print the raw response as JSON")

	return cmd
}

func runSend(ctx context.Context, out io.Writer, message string, opts sendOptions) error {
	_, _, cfg, err := loadConfig(baseConfig())
	if err != nil {
		return err
	}

	apiKey := opts.apiKey
	if apiKey == "" {
		cred, err := credential.Load(cfg.Credential)
		if err != nil {
			return err
		}
		apiKey = cred.Value
	}

	resp, err := newRelay(cfg).ProcessMessage(ctx, relay.Request{
		APIKey:  apiKey,
		Message: message,
		Context: opts.context,
		Model:   opts.model,
	})
	if err != nil {
		return err
	}

	if opts.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	fmt.Fprintln(out, resp.Content)
	if len(resp.Memories) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "\033[2mMemories:\033[0m")
		for _, m := range resp.Memories {
			fmt.Fprintf(out, "  \033[2m- %s\033[0m\n", m)
		}
	}
	return nil
}
