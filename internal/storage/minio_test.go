package storage

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kklein/payslip/internal/config"
)

func TestObjectKey(t *testing.T) {
	tests := []struct {
		prefix string
		path   string
		want   string
	}{
		{"", "/tmp/export/Mai_2024.pdf", "Mai_2024.pdf"},
		{"payslips", "export/Mai_2024.pdf", "payslips/Mai_2024.pdf"},
		{"/payslips/2024/", "Mai_2024.pdf", "payslips/2024/Mai_2024.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, objectKey(tt.prefix, tt.path))
		})
	}
}

func TestNewMinIO_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.MinIOConfig
	}{
		{"missing endpoint", config.MinIOConfig{AccessKey: "a", SecretKey: "s", Bucket: "b"}},
		{"missing credentials", config.MinIOConfig{Endpoint: "localhost:9000", Bucket: "b"}},
		{"missing bucket", config.MinIOConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMinIO(context.Background(), tt.cfg)
			assert.Error(t, err)
		})
	}
}

// fakeS3 is a minimal path-style S3 endpoint
type fakeS3 struct {
	mu            sync.Mutex
	bucketExists  bool
	bucketCreated bool
	objects       map[string][]byte
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	bucket, key, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/"), "/")
	switch {
	case r.Method == http.MethodHead && key == "":
		if !f.bucketExists {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut && key == "":
		f.bucketExists = true
		f.bucketCreated = true
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[bucket+"/"+key] = body
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusNotImplemented)
	}
}

func newFakeS3(t *testing.T, bucketExists bool) (*fakeS3, config.MinIOConfig) {
	t.Helper()

	fake := &fakeS3{bucketExists: bucketExists, objects: make(map[string][]byte)}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	return fake, config.MinIOConfig{
		Endpoint:  strings.TrimPrefix(srv.URL, "http://"),
		AccessKey: "access",
		SecretKey: "secret",
		Bucket:    "payslips",
		Region:    "us-east-1",
		Prefix:    "2024",
		UseSSL:    false,
	}
}

func TestNewMinIO_CreatesMissingBucket(t *testing.T) {
	fake, cfg := newFakeS3(t, false)

	_, err := NewMinIO(context.Background(), cfg)
	require.NoError(t, err)
	assert.True(t, fake.bucketCreated)
}

func TestNewMinIO_ExistingBucket(t *testing.T) {
	fake, cfg := newFakeS3(t, true)

	_, err := NewMinIO(context.Background(), cfg)
	require.NoError(t, err)
	assert.False(t, fake.bucketCreated)
}

func TestMinIO_Upload(t *testing.T) {
	fake, cfg := newFakeS3(t, true)
	store, err := NewMinIO(context.Background(), cfg)
	require.NoError(t, err)

	content := []byte("%PDF-1.4 payslip content")
	path := filepath.Join(t.TempDir(), "Mai_2024.pdf")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	id, err := store.Upload(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "s3://payslips/2024/Mai_2024.pdf", id)

	body, ok := fake.objects["payslips/2024/Mai_2024.pdf"]
	require.True(t, ok, "object stored under prefixed key")
	// Plain HTTP uploads may use chunked signing, so the payload is embedded
	assert.True(t, bytes.Contains(body, content))
}

func TestMinIO_UploadMissingFile(t *testing.T) {
	_, cfg := newFakeS3(t, true)
	store, err := NewMinIO(context.Background(), cfg)
	require.NoError(t, err)

	_, err = store.Upload(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
}
