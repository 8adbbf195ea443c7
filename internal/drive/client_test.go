package drive

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

func TestConvertToFileInfo(t *testing.T) {
	driveFile := &drive.File{
		Id:           "file123",
		Name:         "test.pdf",
		MimeType:     "application/pdf",
		Size:         1024,
		CreatedTime:  "2023-01-01T10:00:00Z",
		ModifiedTime: "2023-01-02T15:30:00Z",
		WebViewLink:  "https://drive.google.com/file/d/file123/view",
		Parents:      []string{"parent1"},
	}

	fileInfo := convertToFileInfo(driveFile)

	if fileInfo.ID != "file123" {
		t.Errorf("Expected ID file123, got %s", fileInfo.ID)
	}
	if fileInfo.Name != "test.pdf" {
		t.Errorf("Expected Name test.pdf, got %s", fileInfo.Name)
	}
	if fileInfo.Size != 1024 {
		t.Errorf("Expected Size 1024, got %d", fileInfo.Size)
	}
	if len(fileInfo.Parents) != 1 || fileInfo.Parents[0] != "parent1" {
		t.Errorf("Expected Parents [parent1], got %v", fileInfo.Parents)
	}

	expectedCreated, _ := time.Parse(time.RFC3339, "2023-01-01T10:00:00Z")
	if !fileInfo.CreatedTime.Equal(expectedCreated) {
		t.Errorf("Expected CreatedTime %v, got %v", expectedCreated, fileInfo.CreatedTime)
	}
	expectedModified, _ := time.Parse(time.RFC3339, "2023-01-02T15:30:00Z")
	if !fileInfo.ModifiedTime.Equal(expectedModified) {
		t.Errorf("Expected ModifiedTime %v, got %v", expectedModified, fileInfo.ModifiedTime)
	}
}

func TestConvertToFileInfo_InvalidTimestamps(t *testing.T) {
	fileInfo := convertToFileInfo(&drive.File{Id: "x", CreatedTime: "yesterday"})

	if !fileInfo.CreatedTime.IsZero() {
		t.Errorf("Expected zero CreatedTime for unparsable input, got %v", fileInfo.CreatedTime)
	}
}

type uploadRequest struct {
	metadata drive.File
	content  []byte
}

// newUploadServer answers multipart media uploads and records what it received
func newUploadServer(t *testing.T, status int) (*httptest.Server, *[]uploadRequest) {
	t.Helper()

	var got []uploadRequest
	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload/drive/v3/files", func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			http.Error(w, `{"error":{"code":400,"message":"bad request"}}`, status)
			return
		}

		mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		require.NoError(t, err)
		require.Equal(t, "multipart/related", mediaType)

		mr := multipart.NewReader(r.Body, params["boundary"])
		var req uploadRequest

		meta, err := mr.NextPart()
		require.NoError(t, err)
		require.NoError(t, json.NewDecoder(meta).Decode(&req.metadata))

		media, err := mr.NextPart()
		require.NoError(t, err)
		req.content, err = io.ReadAll(media)
		require.NoError(t, err)

		got = append(got, req)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(&drive.File{
			Id:       "drive-" + req.metadata.Name,
			Name:     req.metadata.Name,
			MimeType: req.metadata.MimeType,
			Parents:  req.metadata.Parents,
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &got
}

func newTestClient(t *testing.T, srv *httptest.Server, folderID string) *Client {
	t.Helper()

	c, err := NewClient(context.Background(), "test", folderID, srv.Client(), nil,
		option.WithEndpoint(srv.URL+"/drive/v3/"))
	require.NoError(t, err)
	return c
}

func TestUpload(t *testing.T) {
	srv, got := newUploadServer(t, http.StatusOK)
	c := newTestClient(t, srv, "folder-1")

	path := filepath.Join(t.TempDir(), "Mai_2024.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 test"), 0o600))

	id, err := c.Upload(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "drive-Mai_2024.pdf", id)

	require.Len(t, *got, 1)
	req := (*got)[0]
	assert.Equal(t, "Mai_2024.pdf", req.metadata.Name)
	assert.Equal(t, []string{"folder-1"}, req.metadata.Parents)
	assert.Equal(t, "application/pdf", req.metadata.MimeType)
	assert.NotEmpty(t, req.metadata.ModifiedTime)
	assert.Equal(t, []byte("%PDF-1.4 test"), req.content)
}

func TestUpload_RootFolder(t *testing.T) {
	srv, got := newUploadServer(t, http.StatusOK)
	c := newTestClient(t, srv, "")

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

	_, err := c.Upload(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, *got, 1)
	assert.Empty(t, (*got)[0].metadata.Parents)
}

func TestUpload_MissingFile(t *testing.T) {
	srv, got := newUploadServer(t, http.StatusOK)
	c := newTestClient(t, srv, "")

	_, err := c.Upload(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)
	assert.Empty(t, *got)
}

func TestUpload_APIError(t *testing.T) {
	srv, _ := newUploadServer(t, http.StatusBadRequest)
	c := newTestClient(t, srv, "")

	path := filepath.Join(t.TempDir(), "a.pdf")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	_, err := c.Upload(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to upload file a.pdf")
}

func TestUploadFile_Validation(t *testing.T) {
	srv, _ := newUploadServer(t, http.StatusOK)
	c := newTestClient(t, srv, "")

	_, err := c.UploadFile(context.Background(), "", nil, nil)
	assert.Error(t, err)

	_, err = c.UploadFile(context.Background(), "name.pdf", nil, nil)
	assert.Error(t, err)
}

func TestNewClient_RequiresHTTPClient(t *testing.T) {
	_, err := NewClient(context.Background(), "test", "", nil, nil)
	assert.Error(t, err)
}
