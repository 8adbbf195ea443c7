package pipeline

import (
	"context"

	"github.com/kklein/payslip/internal/message"
)

// Searcher finds messages matching a query, paging through all results
type Searcher interface {
	Search(ctx context.Context, query string) ([]message.Ref, error)
}

// Fetcher loads full messages and their out-of-line attachment bodies
type Fetcher interface {
	GetFull(ctx context.Context, messageID string) (*message.Message, error)
	GetAttachment(ctx context.Context, messageID, attachmentID string) (string, error)
}

// Source is a mailbox the pipeline reads from
type Source interface {
	Searcher
	Fetcher
}

// Uploader archives an exported file and returns its remote id
type Uploader interface {
	Upload(ctx context.Context, path string) (string, error)
}

// attachmentFetcher marks attachment fetch failures as collaborator errors
type attachmentFetcher struct {
	f Fetcher
}

func (a attachmentFetcher) GetAttachment(ctx context.Context, messageID, attachmentID string) (string, error) {
	data, err := a.f.GetAttachment(ctx, messageID, attachmentID)
	if err != nil {
		return "", &CollaboratorError{Op: "get attachment", Err: err}
	}
	return data, nil
}
