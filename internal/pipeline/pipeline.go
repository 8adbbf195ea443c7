package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kklein/payslip/internal/attachment"
	"github.com/kklein/payslip/internal/instrumentation"
	"github.com/kklein/payslip/internal/logging"
	"github.com/kklein/payslip/internal/message"
	"github.com/kklein/payslip/internal/pdf"
)

// CollisionPolicy decides what happens when two messages of one run derive
// the same filename
type CollisionPolicy string

const (
	// CollisionError aborts the run
	CollisionError CollisionPolicy = "error"
	// CollisionSuffix appends the message id to the later filename
	CollisionSuffix CollisionPolicy = "suffix"
)

// ParseCollisionPolicy validates a policy name; empty means CollisionError
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	switch CollisionPolicy(s) {
	case "", CollisionError:
		return CollisionError, nil
	case CollisionSuffix:
		return CollisionSuffix, nil
	}
	return "", fmt.Errorf("invalid collision policy %q, must be one of: error, suffix", s)
}

// Options configures a pipeline run
type Options struct {
	// Query selects the messages to export, e.g. "subject:Lohnabrechnung"
	Query string
	// Password unlocks encrypted attachments
	Password string
	// ExportDir receives the decrypted files; created if missing
	ExportDir   string
	OnCollision CollisionPolicy
}

// Summary reports what a finished run did
type Summary struct {
	RunID    string
	Exported int
	Uploaded int
}

// Pipeline exports one decrypted attachment per matching message and
// uploads the export directory afterwards. It processes messages serially
// and is not safe for concurrent use.
type Pipeline struct {
	source   Source
	uploader Uploader
	opts     Options
	logger   *slog.Logger
	metrics  *instrumentation.Metrics

	// exported maps derived filenames written in this run to their message
	exported map[string]string
}

// New creates a pipeline. A nil uploader skips the upload phase; nil logger
// and metrics fall back to slog.Default and a no-op recorder.
func New(source Source, uploader Uploader, opts Options, logger *slog.Logger, metrics *instrumentation.Metrics) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = &instrumentation.Metrics{}
	}
	if opts.OnCollision == "" {
		opts.OnCollision = CollisionError
	}
	return &Pipeline{
		source:   source,
		uploader: uploader,
		opts:     opts,
		logger:   logger,
		metrics:  metrics,
		exported: make(map[string]string),
	}
}

// Run searches the source, exports every matching message and uploads the
// export directory. The first error stops the run; files already written
// stay on disk.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{RunID: uuid.NewString()}
	logger := p.logger.With(slog.String(logging.KeyRunID, summary.RunID))

	ctx, span := instrumentation.StartSpan(ctx, "pipeline.run",
		attribute.String(instrumentation.SpanAttrRunID, summary.RunID))
	defer span.End()

	if err := os.MkdirAll(p.opts.ExportDir, 0700); err != nil {
		err = fmt.Errorf("failed to create export directory: %w", err)
		instrumentation.SetSpanError(span, err)
		return summary, err
	}

	refs, err := p.source.Search(ctx, p.opts.Query)
	if err != nil {
		err = &CollaboratorError{Op: "search messages", Err: err}
		instrumentation.SetSpanError(span, err)
		return summary, err
	}
	logger.Info("found messages matching query",
		slog.String(logging.KeyQuery, p.opts.Query),
		slog.Int("count", len(refs)))

	for _, ref := range refs {
		res, err := p.ProcessMessage(ctx, ref)
		if err != nil {
			p.metrics.RecordMessageProcessed(ctx, instrumentation.StatusError)
			logger.Error("failed to process message",
				slog.String(logging.KeyMessageID, ref.ID),
				logging.Status(logging.StatusError),
				logging.Err(err))
			instrumentation.SetSpanError(span, err)
			return summary, err
		}
		p.metrics.RecordMessageProcessed(ctx, instrumentation.StatusSuccess)
		summary.Exported++
		logger.Info("wrote unencrypted pdf",
			slog.String(logging.KeyMessageID, ref.ID),
			slog.String(logging.KeyFile, res.Path),
			slog.Int("pages", res.Pages),
			slog.Bool("decrypted", res.Decrypted))
	}

	if p.uploader == nil {
		logger.Info("upload disabled, keeping exported files locally",
			slog.String(logging.KeyFile, p.opts.ExportDir))
	} else {
		n, err := p.UploadAll(ctx)
		summary.Uploaded = n
		if err != nil {
			instrumentation.SetSpanError(span, err)
			return summary, err
		}
	}

	instrumentation.SetSpanSuccess(span)
	attrs := []any{
		logging.Status(logging.StatusSuccess),
		slog.Int("exported", summary.Exported),
		slog.Int("uploaded", summary.Uploaded),
	}
	if traceID := instrumentation.GetTraceID(ctx); traceID != "" {
		attrs = append(attrs, slog.String(logging.KeyTraceID, traceID))
	}
	logger.Info("run complete", attrs...)
	return summary, nil
}

// ProcessMessage exports the single attachment of the referenced message.
// Messages with zero or several attachments fail before anything is
// written.
func (p *Pipeline) ProcessMessage(ctx context.Context, ref message.Ref) (*pdf.Result, error) {
	ctx, span := instrumentation.StartSpan(ctx, "pipeline.message",
		attribute.String(instrumentation.SpanAttrMessageID, ref.ID))
	defer span.End()

	res, err := p.processMessage(ctx, ref)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return nil, err
	}
	instrumentation.SetSpanSuccess(span)
	return res, nil
}

func (p *Pipeline) processMessage(ctx context.Context, ref message.Ref) (*pdf.Result, error) {
	logger := p.logger.With(slog.String(logging.KeyMessageID, ref.ID))

	msg, err := p.source.GetFull(ctx, ref.ID)
	if err != nil {
		return nil, &CollaboratorError{Op: "get message " + ref.ID, Err: err}
	}
	logger.Debug("fetched message", slog.String("subject", msg.Subject))

	parts := message.Attachments(msg.Parts)
	if len(parts) != 1 {
		names := make([]string, 0, len(parts))
		for _, part := range parts {
			names = append(names, part.Filename)
		}
		return nil, &AttachmentCountError{MessageID: ref.ID, Filenames: names}
	}
	logger.Debug("attachment state", slog.String(logging.KeyState, StateFetched.String()))

	att, err := attachment.Materialize(ctx, attachmentFetcher{f: p.source}, ref.ID, parts[0])
	if err != nil {
		return nil, err
	}
	logger.Debug("attachment state",
		slog.String(logging.KeyState, StateDecoded.String()),
		slog.Int("bytes", len(att.Data)))

	info, err := pdf.Inspect(att.Data, p.opts.Password)
	if err != nil {
		return nil, fmt.Errorf("message %s: %w", ref.ID, err)
	}
	state := StatePassThrough
	if info.Encrypted {
		state = StateDecrypted
	}

	name, err := p.claimFilename(att.Filename, ref.ID)
	if err != nil {
		return nil, err
	}
	logger.Debug("attachment state",
		slog.String(logging.KeyState, state.String()),
		slog.Int("pages", info.Pages))

	res, err := pdf.Normalize(att.Data, p.opts.Password, filepath.Join(p.opts.ExportDir, name))
	if err != nil {
		return nil, fmt.Errorf("message %s: %w", ref.ID, err)
	}
	p.exported[name] = ref.ID

	logger.Debug("attachment state",
		slog.String(logging.KeyState, StateWritten.String()),
		slog.String(logging.KeyFile, res.Path))
	p.metrics.RecordAttachmentExported(ctx, state.String())

	return res, nil
}

// claimFilename applies the collision policy to a derived filename
func (p *Pipeline) claimFilename(name, messageID string) (string, error) {
	previous, taken := p.exported[name]
	if !taken {
		return name, nil
	}

	if p.opts.OnCollision == CollisionSuffix {
		ext := filepath.Ext(name)
		suffixed := strings.TrimSuffix(name, ext) + "-" + attachment.DeriveFilename(messageID) + ext
		if _, taken := p.exported[suffixed]; !taken {
			return suffixed, nil
		}
	}
	return "", fmt.Errorf("message %s: %w: %s (first written for message %s)",
		messageID, ErrFilenameCollision, name, previous)
}

// UploadAll uploads every regular file in the export directory, in lexical
// order, and returns how many were uploaded.
func (p *Pipeline) UploadAll(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(p.opts.ExportDir)
	if err != nil {
		return 0, fmt.Errorf("failed to read export directory: %w", err)
	}

	n := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() || p.isPendingWrite(entry.Name()) {
			continue
		}
		path := filepath.Join(p.opts.ExportDir, entry.Name())

		start := time.Now()
		id, err := p.uploader.Upload(ctx, path)
		if err != nil {
			p.metrics.RecordUpload(ctx, instrumentation.StatusError, time.Since(start))
			return n, &CollaboratorError{Op: "upload " + entry.Name(), Err: err}
		}
		p.metrics.RecordUpload(ctx, instrumentation.StatusSuccess, time.Since(start))
		n++

		p.logger.Info("uploaded file",
			slog.String(logging.KeyFile, path),
			slog.String("remote_id", id))
	}
	return n, nil
}

// isPendingWrite matches the temporary file pdf.Normalize creates next to
// a file exported in this run
func (p *Pipeline) isPendingWrite(name string) bool {
	if !strings.HasSuffix(name, ".tmp") {
		return false
	}
	for exported := range p.exported {
		if strings.HasPrefix(name, "."+exported+".") {
			return true
		}
	}
	return false
}
