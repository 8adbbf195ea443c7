package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrZeroAttachments means a matching message carried no attachment
	ErrZeroAttachments = errors.New("message contains no attachment")

	// ErrMultipleAttachments means a matching message carried more than one
	// attachment and there is no rule for picking one
	ErrMultipleAttachments = errors.New("message contains more than one attachment")

	// ErrFilenameCollision means two messages of the same run produced the
	// same derived filename
	ErrFilenameCollision = errors.New("derived filename already exported in this run")
)

// AttachmentCountError reports a message whose attachment count is not
// exactly one. It matches ErrZeroAttachments or ErrMultipleAttachments.
type AttachmentCountError struct {
	MessageID string
	Filenames []string
}

func (e *AttachmentCountError) Error() string {
	if len(e.Filenames) == 0 {
		return fmt.Sprintf("message %s: %v", e.MessageID, ErrZeroAttachments)
	}
	return fmt.Sprintf("message %s: %v (%d found: %s)", e.MessageID, ErrMultipleAttachments,
		len(e.Filenames), strings.Join(e.Filenames, ", "))
}

func (e *AttachmentCountError) Is(target error) bool {
	switch target {
	case ErrZeroAttachments:
		return len(e.Filenames) == 0
	case ErrMultipleAttachments:
		return len(e.Filenames) > 1
	}
	return false
}

// CollaboratorError wraps a failure of the mail source or the uploader.
// The underlying error is passed through unchanged.
type CollaboratorError struct {
	Op  string
	Err error
}

func (e *CollaboratorError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}
