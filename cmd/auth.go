package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/kklein/payslip/internal/config"
	"github.com/kklein/payslip/internal/logging"
)

func newAuthCmd() *cobra.Command {
	cfg := config.Load()

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize access to Gmail and Google Drive",
		Long: `Open the printed URL in a browser, grant access and paste the
authorization code. The resulting token is stored in the user cache
directory and refreshed automatically by later runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			auth, store, err := newAuthenticator(cfg, nil)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Visit this URL to authorize account %q:\n\n%s\n\n", cfg.Google.Account, auth.AuthCodeURL("payslip"))
			fmt.Fprint(out, "Enter the authorization code: ")

			code, err := readLine(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read authorization code: %w", err)
			}
			if code == "" {
				return fmt.Errorf("no authorization code entered")
			}

			tok, err := auth.Exchange(cmd.Context(), code)
			if err != nil {
				return err
			}
			slog.Debug("stored oauth token",
				logging.Operation("auth"),
				slog.String(logging.KeyAccount, cfg.Google.Account),
				slog.String("access_token", logging.SanitizeToken(tok.AccessToken)))

			fmt.Fprintf(out, "Token saved to %s\n", store.Path())
			return nil
		},
	}

	cmd.Flags().StringVar(&cfg.Google.Account, "account", cfg.Google.Account, "Google account name to authorize")
	cmd.Flags().StringVar(&cfg.Google.CredentialsFile, "credentials", cfg.Google.CredentialsFile, "OAuth client secrets file")
	cmd.Flags().StringVar(&cfg.Google.TokenFile, "token-file", cfg.Google.TokenFile, "Token file (default: per-account file in the user cache dir)")

	return cmd
}
