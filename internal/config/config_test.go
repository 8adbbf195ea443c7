package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PAYSLIP_SUBJECT", "PAYSLIP_PASSWORD", "PAYSLIP_EXPORT_DIR", "PAYSLIP_SOURCE",
		"PAYSLIP_STORAGE", "PAYSLIP_ON_COLLISION", "GOOGLE_ACCOUNT", "GOOGLE_CREDENTIALS_FILE",
		"GOOGLE_TOKEN_FILE", "DRIVE_FOLDER_ID", "MINIO_USE_SSL", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, DefaultSubject, cfg.Subject)
	assert.Empty(t, cfg.Password)
	assert.Equal(t, SourceGmail, cfg.Source)
	assert.Equal(t, StorageDrive, cfg.Storage)
	assert.Equal(t, "error", cfg.OnCollision)
	assert.Equal(t, "default", cfg.Google.Account)
	assert.Equal(t, "credentials.json", cfg.Google.CredentialsFile)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, DefaultSubject, cfg.ResolvedExportDir())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PAYSLIP_SUBJECT", "Gehalt")
	t.Setenv("PAYSLIP_EXPORT_DIR", "/tmp/payslips")
	t.Setenv("PAYSLIP_STORAGE", "s3")
	t.Setenv("DRIVE_FOLDER_ID", "folder-1")
	t.Setenv("MINIO_ENDPOINT", "localhost:9000")
	t.Setenv("MINIO_BUCKET", "payslips")
	t.Setenv("MINIO_USE_SSL", "false")

	cfg := Load()

	assert.Equal(t, "Gehalt", cfg.Subject)
	assert.Equal(t, "/tmp/payslips", cfg.ResolvedExportDir())
	assert.Equal(t, StorageS3, cfg.Storage)
	assert.Equal(t, "folder-1", cfg.Google.DriveFolder)
	assert.Equal(t, "localhost:9000", cfg.MinIO.Endpoint)
	assert.Equal(t, "payslips", cfg.MinIO.Bucket)
	assert.False(t, cfg.MinIO.UseSSL)
}

func TestGetEnv(t *testing.T) {
	key := "PAYSLIP_TEST_ENV_VAR"
	t.Setenv(key, "value")

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("PAYSLIP_NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "PAYSLIP_TEST_BOOL_VAR"

	t.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	t.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	t.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	t.Setenv(key, "")
	assert.True(t, getEnvBool(key, true))
}

func TestParseSource(t *testing.T) {
	tests := []struct {
		in           string
		wantKind     string
		wantLocation string
		wantErr      bool
	}{
		{in: "gmail", wantKind: SourceGmail},
		{in: " gmail ", wantKind: SourceGmail},
		{in: "mbox:/var/mail/me", wantKind: SourceMbox, wantLocation: "/var/mail/me"},
		{in: "eml:./archive", wantKind: SourceEML, wantLocation: "./archive"},
		{in: "eml:C:/mail", wantKind: SourceEML, wantLocation: "C:/mail"},
		{in: "gmail:foo", wantErr: true},
		{in: "mbox", wantErr: true},
		{in: "imap:host", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			kind, location, err := ParseSource(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, kind)
			assert.Equal(t, tt.wantLocation, location)
		})
	}
}

func TestValidateStorage(t *testing.T) {
	for _, s := range []string{StorageDrive, StorageS3, StorageNone} {
		assert.NoError(t, ValidateStorage(s))
	}
	assert.Error(t, ValidateStorage("dropbox"))
}
