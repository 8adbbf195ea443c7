package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func filenames(parts []*Part) []string {
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		names = append(names, p.Filename)
	}
	return names
}

func TestAttachments(t *testing.T) {
	tests := []struct {
		name  string
		parts []*Part
		want  []string
	}{
		{
			name:  "no parts field",
			parts: nil,
			want:  []string{},
		},
		{
			name:  "empty parts",
			parts: []*Part{},
			want:  []string{},
		},
		{
			name: "no attachments at any depth",
			parts: []*Part{
				{
					MimeType: "multipart/alternative",
					Parts: []*Part{
						{MimeType: "text/plain", Body: &Body{Data: "aGVsbG8"}},
						{MimeType: "text/html", Body: &Body{Data: "PGI-aGk8L2I-"}},
					},
				},
			},
			want: []string{},
		},
		{
			name: "attachment nested three levels deep",
			parts: []*Part{
				{
					MimeType: "multipart/mixed",
					Parts: []*Part{
						{
							MimeType: "multipart/related",
							Parts: []*Part{
								{
									Filename: "payslip.pdf",
									MimeType: "application/pdf",
									Body:     &Body{AttachmentID: "att-1"},
								},
							},
						},
					},
				},
			},
			want: []string{"payslip.pdf"},
		},
		{
			name: "two top-level attachments keep order",
			parts: []*Part{
				{Filename: "first.pdf", Body: &Body{AttachmentID: "a"}},
				{Filename: "second.pdf", Body: &Body{Data: "JVBERi0"}},
			},
			want: []string{"first.pdf", "second.pdf"},
		},
		{
			name: "parent emitted before its children",
			parts: []*Part{
				{
					Filename: "outer.eml",
					Body:     &Body{AttachmentID: "outer"},
					Parts: []*Part{
						{Filename: "inner.pdf", Body: &Body{AttachmentID: "inner"}},
					},
				},
				{Filename: "last.pdf", Body: &Body{AttachmentID: "last"}},
			},
			want: []string{"outer.eml", "inner.pdf", "last.pdf"},
		},
		{
			name: "filename without body reference is skipped",
			parts: []*Part{
				{Filename: "broken.pdf"},
				{Filename: "empty-body.pdf", Body: &Body{Size: 10}},
				{Filename: "ok.pdf", Body: &Body{AttachmentID: "x"}},
			},
			want: []string{"ok.pdf"},
		},
		{
			name: "nil entries are ignored",
			parts: []*Part{
				nil,
				{Filename: "ok.pdf", Body: &Body{AttachmentID: "x"}, Parts: []*Part{nil}},
			},
			want: []string{"ok.pdf"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Attachments(tt.parts)
			if got == nil {
				t.Fatal("Attachments() returned nil, want non-nil slice")
			}
			assert.Equal(t, tt.want, filenames(got))
		})
	}
}

func TestAttachmentsDoesNotModifyInput(t *testing.T) {
	child := &Part{Filename: "b.pdf", Body: &Body{AttachmentID: "b"}}
	parts := []*Part{
		{Filename: "a.pdf", Body: &Body{AttachmentID: "a"}, Parts: []*Part{child}},
	}

	first := Attachments(parts)
	second := Attachments(parts)

	assert.Equal(t, filenames(first), filenames(second), "repeated walks differ")
	if len(parts[0].Parts) != 1 || parts[0].Parts[0] != child {
		t.Error("walk modified the input tree")
	}
}

func TestIsAttachment(t *testing.T) {
	tests := []struct {
		name string
		part *Part
		want bool
	}{
		{"nil part", nil, false},
		{"no filename", &Part{Body: &Body{AttachmentID: "x"}}, false},
		{"no body", &Part{Filename: "a.pdf"}, false},
		{"inline data", &Part{Filename: "a.pdf", Body: &Body{Data: "JVBE"}}, true},
		{"attachment id", &Part{Filename: "a.pdf", Body: &Body{AttachmentID: "x"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.part.IsAttachment(); got != tt.want {
				t.Errorf("IsAttachment() = %v, want %v", got, tt.want)
			}
		})
	}
}
