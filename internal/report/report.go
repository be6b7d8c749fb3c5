package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"classroom-provisioner/internal/logger"
	"classroom-provisioner/internal/storage"

	"github.com/rs/zerolog"
)

// Report is the JSON summary of one pass (provisioning, revocation, or
// filename normalization), archived after the pass completes.
type Report struct {
	Pass       string    `json:"pass"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Entries    []Entry   `json:"entries"`
}

type Entry struct {
	Kind    string `json:"kind"`
	Subject string `json:"subject"`
	Detail  string `json:"detail,omitempty"`
	Error   string `json:"error,omitempty"`
}

func New(pass string) *Report {
	return &Report{Pass: pass, StartedAt: time.Now().UTC()}
}

func (r *Report) Add(kind, subject, detail string) {
	r.Entries = append(r.Entries, Entry{Kind: kind, Subject: subject, Detail: detail})
}

func (r *Report) AddError(kind, subject string, err error) {
	r.Entries = append(r.Entries, Entry{Kind: kind, Subject: subject, Error: err.Error()})
}

// Writer archives reports to object storage. A nil Writer discards reports,
// so callers don't have to guard the dry-run and test paths.
type Writer struct {
	store storage.Storage
	log   zerolog.Logger
}

func NewWriter(store storage.Storage) *Writer {
	return &Writer{
		store: store,
		log:   logger.Get(),
	}
}

func (w *Writer) Write(ctx context.Context, r *Report) error {
	if w == nil || w.store == nil {
		return nil
	}

	r.FinishedAt = time.Now().UTC()

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	key := fmt.Sprintf("reports/%s/%s.json", r.Pass, r.FinishedAt.Format("20060102-150405"))
	if err := w.store.Upload(ctx, key, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to upload report: %w", err)
	}

	w.log.Info().Str("key", key).Int("entries", len(r.Entries)).Msg("Pass report archived")
	return nil
}
