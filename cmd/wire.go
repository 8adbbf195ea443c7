package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/kklein/payslip/internal/config"
	"github.com/kklein/payslip/internal/drive"
	"github.com/kklein/payslip/internal/gmail"
	"github.com/kklein/payslip/internal/google"
	"github.com/kklein/payslip/internal/instrumentation"
	"github.com/kklein/payslip/internal/logging"
	"github.com/kklein/payslip/internal/mailbox"
	"github.com/kklein/payslip/internal/pipeline"
	"github.com/kklein/payslip/internal/storage"
)

// newAuthenticator builds the Google authenticator for the configured account
func newAuthenticator(cfg *config.AppConfig, metrics *instrumentation.Metrics) (*google.Authenticator, *google.FileStore, error) {
	tokenFile := cfg.Google.TokenFile
	if tokenFile == "" {
		var err error
		tokenFile, err = google.DefaultTokenPath(cfg.Google.Account)
		if err != nil {
			return nil, nil, err
		}
	}

	store := google.NewFileStore(tokenFile)
	auth, err := google.NewAuthenticator(cfg.Google.CredentialsFile, store, metrics)
	if err != nil {
		return nil, nil, err
	}
	return auth, store, nil
}

// googleClients lazily creates one authenticated HTTP client that the Gmail
// and Drive collaborators share
type googleClients struct {
	cfg     *config.AppConfig
	metrics *instrumentation.Metrics
	client  *http.Client
}

func (g *googleClients) httpClient(ctx context.Context) (*http.Client, error) {
	if g.client != nil {
		return g.client, nil
	}

	auth, _, err := newAuthenticator(g.cfg, g.metrics)
	if err != nil {
		return nil, err
	}
	client, err := auth.HTTPClient(ctx)
	if errors.Is(err, google.ErrNoCredentials) {
		return nil, fmt.Errorf("%w: run 'payslip auth --account %s' first", err, g.cfg.Google.Account)
	}
	if err != nil {
		return nil, err
	}
	g.client = client
	return client, nil
}

// buildSource opens the configured message source
func buildSource(ctx context.Context, cfg *config.AppConfig, clients *googleClients, logger *slog.Logger) (pipeline.Source, error) {
	kind, location, err := config.ParseSource(cfg.Source)
	if err != nil {
		return nil, err
	}

	logger = logging.WithService(logger, kind)

	switch kind {
	case config.SourceMbox:
		return mailbox.OpenMbox(location, logger)
	case config.SourceEML:
		return mailbox.OpenEMLDir(location, logger)
	default:
		httpClient, err := clients.httpClient(ctx)
		if err != nil {
			return nil, err
		}
		return gmail.NewClient(ctx, cfg.Google.Account, httpClient, clients.metrics)
	}
}

// buildUploader returns the configured upload backend; nil disables uploads
func buildUploader(ctx context.Context, cfg *config.AppConfig, clients *googleClients) (pipeline.Uploader, error) {
	if err := config.ValidateStorage(cfg.Storage); err != nil {
		return nil, err
	}

	switch cfg.Storage {
	case config.StorageNone:
		return nil, nil
	case config.StorageS3:
		return storage.NewMinIO(ctx, cfg.MinIO)
	default:
		httpClient, err := clients.httpClient(ctx)
		if err != nil {
			return nil, err
		}
		return drive.NewClient(ctx, cfg.Google.Account, cfg.Google.DriveFolder, httpClient, clients.metrics)
	}
}
