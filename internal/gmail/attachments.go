package gmail

import (
	"strings"

	gmail "google.golang.org/api/gmail/v1"

	"github.com/kklein/payslip/internal/message"
)

const (
	// MaxAttachmentSize defines the maximum attachment size in bytes (25MB)
	MaxAttachmentSize = 25 * 1024 * 1024
)

// convertMessage turns an API message into the typed message tree.
// A payload without parts yields nil Parts; present but empty parts
// yield an empty slice.
func convertMessage(m *gmail.Message) *message.Message {
	if m == nil {
		return nil
	}

	msg := &message.Message{
		ID:       m.Id,
		ThreadID: m.ThreadId,
	}
	if m.Payload == nil {
		return msg
	}

	msg.Subject = headerValue(m.Payload.Headers, "Subject")
	if m.Payload.Parts != nil {
		msg.Parts = convertParts(m.Payload.Parts)
	}
	return msg
}

func convertParts(parts []*gmail.MessagePart) []*message.Part {
	out := make([]*message.Part, 0, len(parts))
	for _, p := range parts {
		if p == nil {
			continue
		}
		out = append(out, convertPart(p))
	}
	return out
}

func convertPart(p *gmail.MessagePart) *message.Part {
	part := &message.Part{
		PartID:   p.PartId,
		MimeType: p.MimeType,
		Filename: p.Filename,
	}
	if p.Body != nil {
		part.Body = &message.Body{
			Data:         p.Body.Data,
			AttachmentID: p.Body.AttachmentId,
			Size:         p.Body.Size,
		}
	}
	if len(p.Parts) > 0 {
		part.Parts = convertParts(p.Parts)
	}
	return part
}

// headerValue returns the first header with the given name, case-insensitively
func headerValue(headers []*gmail.MessagePartHeader, name string) string {
	for _, h := range headers {
		if h != nil && strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}
