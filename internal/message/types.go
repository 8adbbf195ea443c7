package message

// Ref identifies a mail item returned by a search
type Ref struct {
	ID       string
	ThreadID string
}

// Message is a fetched mail item with its MIME part tree.
//
// Parts is nil when the payload carried no parts at all, and an empty
// non-nil slice when parts were present but empty. Neither contains
// attachments.
type Message struct {
	ID       string
	ThreadID string
	Subject  string
	Parts    []*Part
}

// Part is a node in a message's MIME tree
type Part struct {
	PartID   string
	MimeType string
	// Filename is empty for structural parts such as multipart containers
	Filename string
	Body     *Body
	Parts    []*Part
}

// Body describes the content of a part. Data holds inline content in
// base64url form; AttachmentID references a blob stored out of line.
type Body struct {
	Data         string
	AttachmentID string
	Size         int64
}

// HasInlineData reports whether the body carries its content inline
func (b *Body) HasInlineData() bool {
	return b != nil && b.Data != ""
}

// HasAttachmentID reports whether the body references an out-of-line blob
func (b *Body) HasAttachmentID() bool {
	return b != nil && b.AttachmentID != ""
}

// IsAttachment reports whether the part is an attachment: it has a
// non-empty filename and a resolvable body.
func (p *Part) IsAttachment() bool {
	if p == nil || p.Filename == "" {
		return false
	}
	return p.Body.HasInlineData() || p.Body.HasAttachmentID()
}
