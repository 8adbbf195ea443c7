package attachment

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/kklein/payslip/internal/message"
)

// ErrNoBody is returned when a part reached the materializer without inline
// data or an attachment id. The walker never emits such parts, so this
// signals a programming error upstream.
var ErrNoBody = errors.New("attachment part has neither inline data nor attachment id")

// Fetcher retrieves an out-of-line attachment body as base64url text
type Fetcher interface {
	GetAttachment(ctx context.Context, messageID, attachmentID string) (string, error)
}

// Attachment is a decoded attachment ready to be written to disk
type Attachment struct {
	Data     []byte
	Filename string
}

// Materialize resolves part into its raw bytes and derived filename.
// Inline bodies are decoded directly, referenced bodies are fetched
// through f first.
func Materialize(ctx context.Context, f Fetcher, messageID string, part *message.Part) (*Attachment, error) {
	if part == nil {
		return nil, fmt.Errorf("message %s: %w", messageID, ErrNoBody)
	}

	var encoded string
	switch {
	case part.Body.HasInlineData():
		encoded = part.Body.Data
	case part.Body.HasAttachmentID():
		data, err := f.GetAttachment(ctx, messageID, part.Body.AttachmentID)
		if err != nil {
			return nil, err
		}
		encoded = data
	default:
		return nil, fmt.Errorf("message %s, part %q: %w", messageID, part.Filename, ErrNoBody)
	}

	data, err := Decode(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode attachment %q of message %s: %w", part.Filename, messageID, err)
	}

	return &Attachment{
		Data:     data,
		Filename: DeriveFilename(part.Filename),
	}, nil
}

// Decode decodes base64url text. Trailing padding is optional.
func Decode(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
}

// DeriveFilename makes an attachment filename usable as a single path
// element: spaces become underscores, then forward slashes become hyphens.
// Nothing else is changed.
func DeriveFilename(name string) string {
	name = strings.ReplaceAll(name, " ", "_")
	return strings.ReplaceAll(name, "/", "-")
}
