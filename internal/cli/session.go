package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/gamenight/internal/api/request"
	"github.com/mcoot/gamenight/internal/api/response"
	"github.com/mcoot/gamenight/internal/services/auth"
)

func newLoginCmd() *cobra.Command {
	var passphrase string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Open a control session and save its token",
		Long: `Open a control session with the server passphrase.

The passphrase is read from --passphrase, or from the first line of stdin.
The session token is saved to the token file for later commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				p, err := readLine(cmd.InOrStdin())
				if err != nil {
					return err
				}
				passphrase = p
			}

			req := request.LoginRequest{Passphrase: passphrase}
			var result response.Session

			if err := client.Post("/api/v1/session", req, &result); err != nil {
				return err
			}

			// Save token
			if err := cfg.SaveToken(result.SessionToken); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout(), cmd.ErrOrStderr())
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&passphrase, "passphrase", "", "Control passphrase")

	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Close the control session and forget its token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/session"); err != nil {
				return err
			}

			if err := cfg.ClearToken(); err != nil {
				return fmt.Errorf("failed to remove token: %w", err)
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout(), cmd.ErrOrStderr())
			out.PrintMessage("Logged out")
			return nil
		},
	}
}

func newHashPassphraseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-passphrase [passphrase]",
		Short: "Print a bcrypt hash for CONTROL_PASSWORD_HASH",
		Long: `Hash a control passphrase for the server's CONTROL_PASSWORD_HASH setting.

The passphrase is taken from the argument, or from the first line of stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var passphrase string
			if len(args) == 1 {
				passphrase = args[0]
			} else {
				p, err := readLine(cmd.InOrStdin())
				if err != nil {
					return err
				}
				passphrase = p
			}

			hash, err := auth.HashPassphrase(passphrase)
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if cfg.Output == "json" {
				out.Print(map[string]string{"hash": hash})
			} else {
				out.PrintMessage(hash)
			}
			return nil
		},
	}
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read passphrase: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
