package drive

import "time"

// FileInfo represents metadata about an uploaded file in Google Drive
type FileInfo struct {
	// ID is the unique identifier for the file
	ID string `json:"id"`

	// Name is the name of the file
	Name string `json:"name"`

	// MimeType is the MIME type of the file
	MimeType string `json:"mimeType"`

	// Size is the size of the file in bytes
	Size int64 `json:"size,omitempty"`

	// CreatedTime is when the file was created
	CreatedTime time.Time `json:"createdTime"`

	// ModifiedTime is when the file was last modified
	ModifiedTime time.Time `json:"modifiedTime"`

	// WebViewLink is a link for opening the file in a relevant Google viewer
	WebViewLink string `json:"webViewLink,omitempty"`

	// Parents are the IDs of the parent folders
	Parents []string `json:"parents,omitempty"`
}

// UploadOptions contains options for uploading files
type UploadOptions struct {
	// ParentFolders are the IDs of parent folders (defaults to root if empty)
	ParentFolders []string

	// Description is an optional description of the file
	Description string

	// MimeType is the MIME type of the file (auto-detected by Drive if empty)
	MimeType string

	// ModifiedTime optionally sets the modification time
	ModifiedTime *time.Time
}
