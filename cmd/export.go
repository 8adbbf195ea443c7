package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kklein/payslip/internal/config"
	"github.com/kklein/payslip/internal/instrumentation"
	"github.com/kklein/payslip/internal/logging"
	"github.com/kklein/payslip/internal/pipeline"
)

func newExportCmd() *cobra.Command {
	cfg := config.Load()

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export, decrypt and upload payslip PDFs",
		Long: `Search for emails whose subject contains the given text, write the single
PDF attached to each of them without password protection into the export
directory, then upload every file in that directory.

The password is taken from --password, the PAYSLIP_PASSWORD environment
variable, or asked for on the terminal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			password, err := resolvePassword(cfg.Password, terminalPrompt(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			cfg.Password = password

			_, err = runExport(ctx, cfg, slog.Default())
			return err
		},
	}

	cmd.Flags().StringVar(&cfg.Password, "password", cfg.Password, "Password of the encrypted PDFs (default: $PAYSLIP_PASSWORD or prompt)")
	cmd.Flags().StringVar(&cfg.Subject, "subject", cfg.Subject, "Text the email subject must contain")
	cmd.Flags().StringVar(&cfg.ExportDir, "export-dir", cfg.ExportDir, "Directory for the decrypted PDFs (default: the subject)")
	cmd.Flags().StringVar(&cfg.Google.Account, "account", cfg.Google.Account, "Google account name to use")
	cmd.Flags().StringVar(&cfg.Google.CredentialsFile, "credentials", cfg.Google.CredentialsFile, "OAuth client secrets file")
	cmd.Flags().StringVar(&cfg.Google.TokenFile, "token-file", cfg.Google.TokenFile, "Token file written by 'payslip auth' (default: per-account file in the user cache dir)")
	cmd.Flags().StringVar(&cfg.Source, "source", cfg.Source, "Message source: gmail, mbox:<file> or eml:<dir>")
	cmd.Flags().StringVar(&cfg.Storage, "storage", cfg.Storage, "Upload backend: drive, s3 or none")
	cmd.Flags().StringVar(&cfg.Google.DriveFolder, "drive-folder", cfg.Google.DriveFolder, "Google Drive folder id to upload into")
	cmd.Flags().StringVar(&cfg.OnCollision, "on-collision", cfg.OnCollision, "Duplicate filename handling within a run: error or suffix")

	return cmd
}

// runExport wires collaborators and instrumentation around one pipeline run
func runExport(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (*pipeline.Summary, error) {
	policy, err := pipeline.ParseCollisionPolicy(cfg.OnCollision)
	if err != nil {
		return nil, err
	}

	instCfg := instrumentation.DefaultConfig()
	instCfg.ServiceVersion = version
	provider, err := instrumentation.NewProvider(ctx, instCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize instrumentation: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := provider.PushMetrics(shutdownCtx); err != nil {
			logger.Warn("failed to push metrics", logging.Err(err))
		}
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("failed to shutdown instrumentation", logging.Err(err))
		}
	}()

	logger = logging.WithOperation(logging.WithAccount(logger, cfg.Google.Account), "export")
	clients := &googleClients{cfg: cfg, metrics: provider.Metrics()}

	source, err := buildSource(ctx, cfg, clients, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open message source: %w", err)
	}
	uploader, err := buildUploader(ctx, cfg, clients)
	if err != nil {
		return nil, fmt.Errorf("failed to create uploader: %w", err)
	}

	p := pipeline.New(source, uploader, pipeline.Options{
		Query:       "subject:" + cfg.Subject,
		Password:    cfg.Password,
		ExportDir:   cfg.ResolvedExportDir(),
		OnCollision: policy,
	}, logger, provider.Metrics())

	return p.Run(ctx)
}
