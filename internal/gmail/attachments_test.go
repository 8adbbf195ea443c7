package gmail

import (
	"testing"

	gmail "google.golang.org/api/gmail/v1"
)

func TestConvertMessage(t *testing.T) {
	tests := []struct {
		name      string
		msg       *gmail.Message
		wantNil   bool
		wantParts int
	}{
		{
			name:    "nil message",
			msg:     nil,
			wantNil: true,
		},
		{
			name:      "nil payload",
			msg:       &gmail.Message{Id: "m"},
			wantNil:   true,
			wantParts: 0,
		},
		{
			name: "parts absent",
			msg: &gmail.Message{Id: "m", Payload: &gmail.MessagePart{
				MimeType: "text/plain",
			}},
			wantNil: true,
		},
		{
			name: "parts present but empty",
			msg: &gmail.Message{Id: "m", Payload: &gmail.MessagePart{
				Parts: []*gmail.MessagePart{},
			}},
			wantParts: 0,
		},
		{
			name: "nil part entries dropped",
			msg: &gmail.Message{Id: "m", Payload: &gmail.MessagePart{
				Parts: []*gmail.MessagePart{nil, {PartId: "1"}},
			}},
			wantParts: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := convertMessage(tt.msg)
			if tt.msg == nil {
				if got != nil {
					t.Errorf("convertMessage(nil) = %v, want nil", got)
				}
				return
			}
			if (got.Parts == nil) != tt.wantNil {
				t.Errorf("Parts == nil is %v, want %v", got.Parts == nil, tt.wantNil)
			}
			if len(got.Parts) != tt.wantParts {
				t.Errorf("len(Parts) = %d, want %d", len(got.Parts), tt.wantParts)
			}
		})
	}
}

func TestHeaderValue(t *testing.T) {
	headers := []*gmail.MessagePartHeader{
		nil,
		{Name: "SUBJECT", Value: "first"},
		{Name: "Subject", Value: "second"},
	}

	if got := headerValue(headers, "subject"); got != "first" {
		t.Errorf("headerValue() = %q, want %q", got, "first")
	}
	if got := headerValue(headers, "From"); got != "" {
		t.Errorf("headerValue() = %q, want empty", got)
	}
}
