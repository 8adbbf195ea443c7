package mailbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	mboxlib "github.com/emersion/go-mbox"

	"github.com/kklein/payslip/internal/logging"
	"github.com/kklein/payslip/internal/message"
)

// ErrNotFound is returned for message or attachment ids the mailbox does not hold
var ErrNotFound = errors.New("not found in mailbox")

const subjectPrefix = "subject:"

// Mailbox is an in-memory message source loaded from a local archive
type Mailbox struct {
	origin   string
	order    []string
	messages map[string]*message.Message
}

// OpenEMLDir loads every *.eml file in dir, in lexical file name order
func OpenEMLDir(dir string, logger *slog.Logger) (*Mailbox, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read eml directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type().IsRegular() && strings.EqualFold(filepath.Ext(entry.Name()), ".eml") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	mb := newMailbox(dir)
	for _, name := range names {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		msg, err := Parse(bytes.NewReader(raw), strings.TrimSuffix(name, filepath.Ext(name)))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		mb.add(msg, logger)
	}

	loggerOrDefault(logger).Debug("eml directory loaded",
		slog.String(logging.KeyFile, dir),
		slog.Int("messages", len(mb.order)))
	return mb, nil
}

// OpenMbox loads every message of an mbox file
func OpenMbox(path string, logger *slog.Logger) (*Mailbox, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mbox: %w", err)
	}
	defer file.Close()

	return ReadMbox(file, path, logger)
}

// ReadMbox loads every message of an mbox stream. origin names the stream
// in logs and fallback message ids.
func ReadMbox(r io.Reader, origin string, logger *slog.Logger) (*Mailbox, error) {
	reader := mboxlib.NewReader(r)
	mb := newMailbox(origin)
	base := strings.TrimSuffix(filepath.Base(origin), filepath.Ext(origin))

	for idx := 0; ; idx++ {
		msgReader, err := reader.NextMessage()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", idx, err)
		}

		msg, err := Parse(msgReader, base+"-"+strconv.Itoa(idx))
		if err != nil {
			return nil, fmt.Errorf("message %d parse: %w", idx, err)
		}
		mb.add(msg, logger)
	}

	loggerOrDefault(logger).Debug("mbox loaded",
		slog.String(logging.KeyFile, origin),
		slog.Int("messages", len(mb.order)))
	return mb, nil
}

func newMailbox(origin string) *Mailbox {
	return &Mailbox{
		origin:   origin,
		messages: make(map[string]*message.Message),
	}
}

// add keeps the first message for a duplicated Message-Id
func (m *Mailbox) add(msg *message.Message, logger *slog.Logger) {
	if _, dup := m.messages[msg.ID]; dup {
		loggerOrDefault(logger).Warn("skipping message with duplicate id",
			slog.String(logging.KeyMessageID, msg.ID),
			slog.String(logging.KeyFile, m.origin))
		return
	}
	m.order = append(m.order, msg.ID)
	m.messages[msg.ID] = msg
}

// Len returns the number of messages held
func (m *Mailbox) Len() int {
	return len(m.order)
}

// Search returns the messages matching q in archive order
func (m *Mailbox) Search(ctx context.Context, q string) ([]message.Ref, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	match := matcher(q)
	refs := []message.Ref{}
	for _, id := range m.order {
		msg := m.messages[id]
		if match(msg) {
			refs = append(refs, message.Ref{ID: msg.ID, ThreadID: msg.ThreadID})
		}
	}
	return refs, nil
}

// GetFull returns the parsed message
func (m *Mailbox) GetFull(ctx context.Context, messageID string) (*message.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	msg, ok := m.messages[messageID]
	if !ok {
		return nil, fmt.Errorf("message %s: %w", messageID, ErrNotFound)
	}
	return msg, nil
}

// GetAttachment always fails: archive parts carry their data inline
func (m *Mailbox) GetAttachment(ctx context.Context, messageID, attachmentID string) (string, error) {
	return "", fmt.Errorf("attachment %s of message %s: %w", attachmentID, messageID, ErrNotFound)
}

func matcher(q string) func(*message.Message) bool {
	q = strings.TrimSpace(q)
	if len(q) < len(subjectPrefix) || !strings.EqualFold(q[:len(subjectPrefix)], subjectPrefix) {
		return func(*message.Message) bool { return true }
	}

	want := strings.ToLower(strings.Trim(strings.TrimSpace(q[len(subjectPrefix):]), `"`))
	return func(msg *message.Message) bool {
		return strings.Contains(strings.ToLower(msg.Subject), want)
	}
}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
