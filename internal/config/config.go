package config

import (
	"os"
	"strconv"

	// Populate the environment from a .env file in the working directory.
	_ "github.com/joho/godotenv/autoload"
)

// Source and storage kinds
const (
	SourceGmail = "gmail"
	SourceMbox  = "mbox"
	SourceEML   = "eml"

	StorageDrive = "drive"
	StorageS3    = "s3"
	StorageNone  = "none"
)

// DefaultSubject is the subject searched for when none is configured
const DefaultSubject = "Lohnabrechnung"

// GoogleConfig holds OAuth and Drive settings
type GoogleConfig struct {
	Account         string
	CredentialsFile string
	// TokenFile overrides the per-account token file in the user cache dir
	TokenFile   string
	DriveFolder string
}

// MinIOConfig holds object storage settings for MinIO or any other
// S3-compatible service.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Prefix    string
	UseSSL    bool
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string
	Format string
}

// AppConfig is the centralized configuration of a payslip run.
// Command line flags override these values.
type AppConfig struct {
	Subject     string
	Password    string
	ExportDir   string
	Source      string
	Storage     string
	OnCollision string
	Google      GoogleConfig
	MinIO       MinIOConfig
	Log         LogConfig
}

// Load reads configuration from environment variables. A .env file is
// auto-loaded; real environment variables take precedence over it.
func Load() *AppConfig {
	return &AppConfig{
		Subject:     getEnv("PAYSLIP_SUBJECT", DefaultSubject),
		Password:    getEnv("PAYSLIP_PASSWORD", ""),
		ExportDir:   getEnv("PAYSLIP_EXPORT_DIR", ""),
		Source:      getEnv("PAYSLIP_SOURCE", SourceGmail),
		Storage:     getEnv("PAYSLIP_STORAGE", StorageDrive),
		OnCollision: getEnv("PAYSLIP_ON_COLLISION", "error"),
		Google: GoogleConfig{
			Account:         getEnv("GOOGLE_ACCOUNT", "default"),
			CredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", "credentials.json"),
			TokenFile:       getEnv("GOOGLE_TOKEN_FILE", ""),
			DriveFolder:     getEnv("DRIVE_FOLDER_ID", ""),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			Region:    getEnv("MINIO_REGION", ""),
			Prefix:    getEnv("MINIO_PREFIX", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", true),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
}

// ResolvedExportDir returns the export directory, defaulting to a directory
// named after the subject.
func (c *AppConfig) ResolvedExportDir() string {
	if c.ExportDir != "" {
		return c.ExportDir
	}
	return c.Subject
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}
