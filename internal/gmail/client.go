package gmail

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/kklein/payslip/internal/instrumentation"
	"github.com/kklein/payslip/internal/message"
)

// userID addresses the mailbox of the authenticated user
const userID = "me"

// Client wraps the Gmail Users service
type Client struct {
	svc     *gmail.UsersService
	account string // The account this client is associated with
	metrics *instrumentation.Metrics
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// NewClient creates a Gmail client on top of an authenticated HTTP client.
// Extra options are passed to the Gmail service (tests use option.WithEndpoint).
func NewClient(ctx context.Context, account string, httpClient *http.Client, metrics *instrumentation.Metrics, opts ...option.ClientOption) (*Client, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("http client is required")
	}

	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	return &Client{
		svc:     svc.Users,
		account: account,
		metrics: metrics,
	}, nil
}

// Search returns all messages matching the query, following page tokens
// until the result set is exhausted.
func (c *Client) Search(ctx context.Context, q string) ([]message.Ref, error) {
	refs := []message.Ref{}
	err := c.observe(ctx, "messages.list", nil, func(ctx context.Context) error {
		pageToken := ""
		for {
			req := c.svc.Messages.List(userID).Q(q).Context(ctx)
			if pageToken != "" {
				req.PageToken(pageToken)
			}
			res, err := req.Do()
			if err != nil {
				return err
			}
			for _, m := range res.Messages {
				if m == nil {
					continue
				}
				refs = append(refs, message.Ref{ID: m.Id, ThreadID: m.ThreadId})
			}
			if res.NextPageToken == "" {
				return nil
			}
			pageToken = res.NextPageToken
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search messages %q: %w", q, err)
	}
	return refs, nil
}

// GetFull retrieves a message with its complete MIME part tree
func (c *Client) GetFull(ctx context.Context, messageID string) (*message.Message, error) {
	if messageID == "" {
		return nil, fmt.Errorf("messageID is required")
	}

	var msg *gmail.Message
	attrs := instrumentation.NewSpanAttributeBuilder().WithAccount(c.account).WithMessage(messageID).Build()
	err := c.observe(ctx, "messages.get", attrs, func(ctx context.Context) error {
		var err error
		msg, err = c.svc.Messages.Get(userID, messageID).Format("full").Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", messageID, err)
	}

	return convertMessage(msg), nil
}

// GetAttachment retrieves the base64url encoded content of an out-of-line
// attachment. Decoding is left to the caller.
func (c *Client) GetAttachment(ctx context.Context, messageID, attachmentID string) (string, error) {
	if messageID == "" {
		return "", fmt.Errorf("messageID is required")
	}
	if attachmentID == "" {
		return "", fmt.Errorf("attachmentID is required")
	}

	var body *gmail.MessagePartBody
	attrs := instrumentation.NewSpanAttributeBuilder().
		WithAccount(c.account).
		WithMessage(messageID).
		WithAttachment(attachmentID).
		Build()
	err := c.observe(ctx, "messages.attachments.get", attrs, func(ctx context.Context) error {
		var err error
		body, err = c.svc.Messages.Attachments.Get(userID, messageID, attachmentID).Context(ctx).Do()
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to get attachment %s: %w", attachmentID, err)
	}

	// Check size limit
	if body.Size > MaxAttachmentSize {
		return "", fmt.Errorf("attachment size %d exceeds maximum size %d", body.Size, MaxAttachmentSize)
	}

	return body.Data, nil
}

// observe runs fn inside a Google API span and records its outcome
func (c *Client) observe(ctx context.Context, operation string, attrs []attribute.KeyValue, fn func(context.Context) error) error {
	ctx, span := instrumentation.StartGoogleAPISpan(ctx, instrumentation.ServiceGmail, operation, attrs...)
	defer span.End()

	start := time.Now()
	err := fn(ctx)

	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
		instrumentation.SetSpanError(span, err)
	} else {
		instrumentation.SetSpanSuccess(span)
	}
	c.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceGmail, operation, status, time.Since(start))

	return err
}
