package config

import (
	"fmt"
	"strings"
)

// ParseSource splits a source setting such as "mbox:/path/inbox.mbox" into
// its kind and location. "gmail" takes no location.
func ParseSource(s string) (kind, location string, err error) {
	kind, location, _ = strings.Cut(strings.TrimSpace(s), ":")
	switch kind {
	case SourceGmail:
		if location != "" {
			return "", "", fmt.Errorf("source %q takes no location", kind)
		}
		return kind, "", nil
	case SourceMbox, SourceEML:
		if location == "" {
			return "", "", fmt.Errorf("source %q requires a path, e.g. %s:/path", kind, kind)
		}
		return kind, location, nil
	default:
		return "", "", fmt.Errorf("unknown source %q, must be one of: gmail, mbox:<path>, eml:<dir>", s)
	}
}

// ValidateStorage checks a storage setting
func ValidateStorage(s string) error {
	switch s {
	case StorageDrive, StorageS3, StorageNone:
		return nil
	default:
		return fmt.Errorf("unknown storage %q, must be one of: drive, s3, none", s)
	}
}
