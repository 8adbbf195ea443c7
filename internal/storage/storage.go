// Package storage uploads exported files to S3-compatible object storage
// (MinIO, AWS S3 and similar services).
package storage

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// objectKey places a local file's base name under prefix
func objectKey(prefix, filePath string) string {
	name := filepath.Base(filePath)
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

// objectURI is the id reported for an uploaded object
func objectURI(bucket, key string) string {
	return fmt.Sprintf("s3://%s/%s", bucket, key)
}
