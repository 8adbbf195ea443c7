package mailbox

import (
	"encoding/base64"
	"fmt"
	"io"
	"strconv"
	"strings"

	gomessage "github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"

	"github.com/kklein/payslip/internal/message"
)

// Parse reads one RFC 5322 message. fallbackID is used when the message has
// no Message-Id header.
func Parse(r io.Reader, fallbackID string) (*message.Message, error) {
	e, err := gomessage.Read(r)
	if err != nil && !gomessage.IsUnknownCharset(err) && !gomessage.IsUnknownEncoding(err) {
		return nil, fmt.Errorf("failed to read message: %w", err)
	}

	header := mail.Header{Header: e.Header}

	id := strings.Trim(strings.TrimSpace(header.Get("Message-Id")), "<>")
	if id == "" {
		id = fallbackID
	}

	subject, err := header.Subject()
	if err != nil {
		subject = header.Get("Subject")
	}

	msg := &message.Message{
		ID:       id,
		ThreadID: id,
		Subject:  subject,
	}

	if mr := e.MultipartReader(); mr != nil {
		msg.Parts, err = readParts(mr, "")
		if err != nil {
			return nil, fmt.Errorf("message %s: %w", id, err)
		}
	}

	return msg, nil
}

// readParts converts the children of a multipart entity. Part ids follow
// the Gmail numbering: "0", "1" at the top, "1.0" below part "1".
func readParts(mr gomessage.MultipartReader, prefix string) ([]*message.Part, error) {
	parts := []*message.Part{}
	for i := 0; ; i++ {
		e, err := mr.NextPart()
		if err == io.EOF {
			return parts, nil
		}
		if err != nil && !gomessage.IsUnknownCharset(err) && !gomessage.IsUnknownEncoding(err) {
			return nil, fmt.Errorf("failed to read part: %w", err)
		}

		part, err := convertEntity(e, prefix+strconv.Itoa(i))
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
}

// convertEntity turns a MIME entity into a part. Leaf bodies are decoded
// from their transfer encoding and stored inline.
func convertEntity(e *gomessage.Entity, partID string) (*message.Part, error) {
	mimeType, _, _ := e.Header.ContentType()
	ah := mail.AttachmentHeader{Header: e.Header}
	filename, _ := ah.Filename()

	part := &message.Part{
		PartID:   partID,
		MimeType: mimeType,
		Filename: filename,
	}

	if mr := e.MultipartReader(); mr != nil {
		children, err := readParts(mr, partID+".")
		if err != nil {
			return nil, err
		}
		part.Parts = children
		return part, nil
	}

	data, err := io.ReadAll(e.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read part %s: %w", partID, err)
	}
	part.Body = &message.Body{
		Data: base64.RawURLEncoding.EncodeToString(data),
		Size: int64(len(data)),
	}
	return part, nil
}
