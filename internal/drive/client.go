package drive

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"time"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/kklein/payslip/internal/instrumentation"
)

// uploadFields are the file fields requested back from an upload
const uploadFields = "id, name, mimeType, size, createdTime, modifiedTime, webViewLink, parents"

// Client wraps the Google Drive API service
type Client struct {
	service  *drive.Service
	account  string // The account this client is associated with
	folderID string // Parent folder for uploads; empty means My Drive root
	metrics  *instrumentation.Metrics
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// FolderID returns the parent folder uploads are placed in
func (c *Client) FolderID() string {
	return c.folderID
}

// NewClient creates a Drive client on top of an authenticated HTTP client.
// Uploads go to folderID, or to the root of My Drive when it is empty.
func NewClient(ctx context.Context, account, folderID string, httpClient *http.Client, metrics *instrumentation.Metrics, opts ...option.ClientOption) (*Client, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("http client is required")
	}

	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	driveService, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	return &Client{
		service:  driveService,
		account:  account,
		folderID: folderID,
		metrics:  metrics,
	}, nil
}

// Upload stores the local file at path in Drive under its base name and
// returns the id of the created file. Every call creates a new file.
func (c *Client) Upload(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}
	modified := stat.ModTime()

	options := &UploadOptions{
		MimeType:     mime.TypeByExtension(filepath.Ext(path)),
		ModifiedTime: &modified,
	}
	if c.folderID != "" {
		options.ParentFolders = []string{c.folderID}
	}

	info, err := c.UploadFile(ctx, filepath.Base(path), f, options)
	if err != nil {
		return "", err
	}
	return info.ID, nil
}

// UploadFile uploads content to Google Drive as a new file
func (c *Client) UploadFile(ctx context.Context, name string, content io.Reader, options *UploadOptions) (*FileInfo, error) {
	if name == "" {
		return nil, fmt.Errorf("file name is required")
	}
	if content == nil {
		return nil, fmt.Errorf("file content is required")
	}

	file := &drive.File{
		Name: name,
	}

	if options != nil {
		if len(options.ParentFolders) > 0 {
			file.Parents = options.ParentFolders
		}
		if options.Description != "" {
			file.Description = options.Description
		}
		if options.MimeType != "" {
			file.MimeType = options.MimeType
		}
		if options.ModifiedTime != nil {
			file.ModifiedTime = options.ModifiedTime.UTC().Format(time.RFC3339)
		}
	}

	ctx, span := instrumentation.StartGoogleAPISpan(ctx, instrumentation.ServiceDrive, "files.create",
		instrumentation.NewSpanAttributeBuilder().WithAccount(c.account).WithFile(name).Build()...)
	defer span.End()

	start := time.Now()
	driveFile, err := c.service.Files.Create(file).
		Context(ctx).
		Media(content, googleapi.ContentType(file.MimeType)).
		Fields(uploadFields).
		Do()
	if err != nil {
		instrumentation.SetSpanError(span, err)
		c.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceDrive, "files.create", instrumentation.StatusError, time.Since(start))
		return nil, fmt.Errorf("failed to upload file %s: %w", name, err)
	}
	instrumentation.SetSpanSuccess(span)
	c.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceDrive, "files.create", instrumentation.StatusSuccess, time.Since(start))

	return convertToFileInfo(driveFile), nil
}

// convertToFileInfo converts a Drive API File to our FileInfo type
func convertToFileInfo(f *drive.File) *FileInfo {
	fileInfo := &FileInfo{
		ID:          f.Id,
		Name:        f.Name,
		MimeType:    f.MimeType,
		Size:        f.Size,
		WebViewLink: f.WebViewLink,
		Parents:     f.Parents,
	}

	// Parse timestamps
	if f.CreatedTime != "" {
		if t, err := time.Parse(time.RFC3339, f.CreatedTime); err == nil {
			fileInfo.CreatedTime = t
		}
	}
	if f.ModifiedTime != "" {
		if t, err := time.Parse(time.RFC3339, f.ModifiedTime); err == nil {
			fileInfo.ModifiedTime = t
		}
	}

	return fileInfo
}
