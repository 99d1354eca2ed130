package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"golang.org/x/exp/slog"

	"fieldvoice/internal/domain/recording"
)

const defaultTimeout = 120 * time.Second

// Options tunes the pipeline. Zero values select the defaults.
type Options struct {
	// MaxAttempts bounds how many times a record is submitted before the
	// retry pass starts skipping it. 0 means the default of 5.
	MaxAttempts int
	// RetryBackoff is the base delay applied before a re-attempted record,
	// doubled per previous attempt. 0 means the default of 2s.
	RetryBackoff time.Duration
	// Timeout caps a single upload request.
	Timeout time.Duration
}

// Service submits stored recordings to the analysis webhook and drives the
// pending/uploading/completed/failed state machine. Upload never returns an
// error: failures are absorbed into the failed status so callers are never
// blocked by network trouble.
type Service struct {
	store       recording.Store
	client      *http.Client
	webhookURL  string
	maxAttempts int
	backoff     time.Duration
	sleep       func(time.Duration)
	log         *slog.Logger
}

func NewService(store recording.Store, webhookURL string, opts Options, log *slog.Logger) *Service {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 5
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = 2 * time.Second
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	return &Service{
		store:       store,
		client:      &http.Client{Timeout: opts.Timeout},
		webhookURL:  webhookURL,
		maxAttempts: opts.MaxAttempts,
		backoff:     opts.RetryBackoff,
		sleep:       time.Sleep,
		log:         log.With("component", "upload_service"),
	}
}

// Upload submits one record and reports success. The uploading status is
// persisted before the network call so a crash mid-upload leaves the record
// retryable rather than silently lost. Completed records are not
// re-submitted.
func (s *Service) Upload(ctx context.Context, rec *recording.Record) bool {
	if rec.UploadStatus.Terminal() {
		s.log.Debug("skipping completed recording", "id", rec.ID)
		return true
	}

	attempts := rec.UploadAttempts + 1
	if !s.setStatus(ctx, rec.ID, recording.StatusUploading, &attempts, nil) {
		return false
	}
	rec.UploadAttempts = attempts

	s.log.Info("starting upload", "id", rec.ID, "job_id", rec.JobID, "attempt", attempts)

	analysis, err := s.submit(ctx, rec)
	if err != nil {
		s.log.Error("upload failed", "id", rec.ID, "error", err)
		s.setStatus(ctx, rec.ID, recording.StatusFailed, nil, nil)
		return false
	}

	if !s.setStatus(ctx, rec.ID, recording.StatusCompleted, nil, analysis) {
		return false
	}
	s.log.Info("upload completed", "id", rec.ID, "job_id", rec.JobID)
	return true
}

// RetryPending re-submits every record left in pending or failed status,
// sequentially, skipping records that exhausted their attempt budget.
// It performs zero network calls when nothing is pending. Returns the
// number of records attempted.
func (s *Service) RetryPending(ctx context.Context) int {
	pending, err := s.store.PendingUploads(ctx)
	if err != nil {
		s.log.Error("failed to read pending uploads", "error", err)
		return 0
	}

	attempted := 0
	for i := range pending {
		rec := &pending[i]
		if rec.UploadAttempts >= s.maxAttempts {
			s.log.Warn("retry budget exhausted", "id", rec.ID, "attempts", rec.UploadAttempts)
			continue
		}
		if rec.UploadAttempts > 0 {
			s.sleep(s.backoff << (rec.UploadAttempts - 1))
		}
		attempted++
		s.Upload(ctx, rec)
	}
	return attempted
}

func (s *Service) submit(ctx context.Context, rec *recording.Record) (*recording.Analysis, error) {
	audio, err := os.Open(rec.URI)
	if err != nil {
		return nil, fmt.Errorf("open audio asset: %w", err)
	}
	defer audio.Close()

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	if err := BuildForm(form, rec, audio); err != nil {
		return nil, err
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, &body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post recording: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("webhook returned %d: %s", resp.StatusCode, truncate(respBody, 200))
	}

	return DecodeAnalysis(respBody)
}

func (s *Service) setStatus(ctx context.Context, id string, status recording.UploadStatus, attempts *int, analysis *recording.Analysis) bool {
	patch := recording.Patch{
		UploadStatus:   &status,
		UploadAttempts: attempts,
		Analysis:       analysis,
	}
	if err := s.store.Update(ctx, id, patch); err != nil {
		s.log.Error("failed to persist upload status", "id", id, "status", status, "error", err)
		return false
	}
	return true
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
