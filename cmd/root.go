package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kklein/payslip/internal/config"
	"github.com/kklein/payslip/internal/logging"
)

// rootCmd represents the base command for the payslip application
var rootCmd = &cobra.Command{
	Use:   "payslip",
	Short: "Exports password-protected payslip PDFs from Gmail",
	Long: `payslip searches your mailbox for payslip emails, removes the password
protection from the attached PDF and archives the unencrypted files.

Each matching email must carry exactly one attachment. The decrypted PDFs are
written to a local export directory, which is then uploaded to Google Drive
or an S3-compatible bucket.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger, err := logging.New(cmd.ErrOrStderr(), logLevel, logFormat)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		return nil
	},
}

// version will be set by main
var version = "dev"

// Persistent logging flags
var logLevel, logFormat string

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "payslip version %s\n" .Version}}`)

	// If no subcommand is provided, run the export command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "export")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cfg := config.Load()
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", cfg.Log.Level, "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", cfg.Log.Format, "Log format: text, json")

	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newVersionCmd())
}
