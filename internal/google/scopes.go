package google

// DefaultOAuthScopes are the Google OAuth scopes the export needs.
//
// The scopes provide access to:
//   - Gmail: read-only, for searching messages and fetching attachments
//   - Google Drive: files created by this application, for uploads
var DefaultOAuthScopes = []string{
	"https://www.googleapis.com/auth/gmail.readonly",
	"https://www.googleapis.com/auth/drive.file",
}
