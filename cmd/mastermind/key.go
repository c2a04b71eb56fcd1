package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mastermind-ai/mastermind/internal/credential"
	"github.com/mastermind-ai/mastermind/internal/keyring"
)

// KeyCmd manages the API key stored in the OS keychain.
func KeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the API key kept in the OS keychain",
		Long: `Store the API key in the OS keychain instead of the environment.

The keychain is only consulted when credential.use_keyring is true in
config.yaml; the environment variable always wins when it is set.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set [key]",
		Short: "Store the API key (reads stdin when no argument is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := ""
			if len(args) == 1 {
				key = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && !errors.Is(err, io.EOF) {
					return fmt.Errorf("read stdin: %w", err)
				}
				key = strings.TrimRight(line, "\r\n")
			}
			if strings.TrimSpace(key) == "" {
				return errors.New("empty key")
			}
			if err := keyring.Set(key); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stored %s in the keychain\n", credential.Mask(key))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete",
		Short: "Remove the stored API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := keyring.Delete(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Removed API key from the keychain")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show where the API key would be loaded from",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, cfg, err := loadConfig(baseConfig())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			cred, err := credential.Load(cfg.Credential)
			if err != nil {
				fmt.Fprintf(out, "No API key: %v\n", err)
				return nil
			}
			fmt.Fprintf(out, "%s from %s %s\n", cred.Masked(), cred.Source, cred.Name)
			return nil
		},
	})

	return cmd
}
