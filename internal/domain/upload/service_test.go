package upload

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"fieldvoice/internal/domain/recording"
)

// trackingStore records every persisted patch so tests can assert on the
// status transition sequence.
type trackingStore struct {
	records map[string]*recording.Record
	updates []recording.Patch
}

func newTrackingStore(records ...*recording.Record) *trackingStore {
	s := &trackingStore{records: make(map[string]*recording.Record)}
	for _, rec := range records {
		s.records[rec.ID] = rec.Clone()
	}
	return s
}

func (s *trackingStore) GetAll(_ context.Context) ([]recording.Record, error) {
	var out []recording.Record
	for _, rec := range s.records {
		out = append(out, *rec.Clone())
	}
	return out, nil
}

func (s *trackingStore) Get(_ context.Context, id string) (*recording.Record, error) {
	rec, ok := s.records[id]
	if !ok {
		return nil, recording.ErrNotFound
	}
	return rec.Clone(), nil
}

func (s *trackingStore) Append(_ context.Context, rec *recording.Record) error {
	s.records[rec.ID] = rec.Clone()
	return nil
}

func (s *trackingStore) Update(_ context.Context, id string, patch recording.Patch) error {
	rec, ok := s.records[id]
	if !ok {
		return recording.ErrNotFound
	}
	s.updates = append(s.updates, patch)
	patch.Apply(rec)
	return nil
}

func (s *trackingStore) Delete(_ context.Context, id string) error {
	delete(s.records, id)
	return nil
}

func (s *trackingStore) PendingUploads(_ context.Context) ([]recording.Record, error) {
	var out []recording.Record
	for _, rec := range s.records {
		if !rec.UploadStatus.Terminal() {
			out = append(out, *rec.Clone())
		}
	}
	return out, nil
}

func (s *trackingStore) Close() error { return nil }

func (s *trackingStore) statuses() []recording.UploadStatus {
	var out []recording.UploadStatus
	for _, patch := range s.updates {
		if patch.UploadStatus != nil {
			out = append(out, *patch.UploadStatus)
		}
	}
	return out
}

func pendingRecord(t *testing.T, attempts int) *recording.Record {
	t.Helper()
	uri := filepath.Join(t.TempDir(), "recording.m4a")
	require.NoError(t, os.WriteFile(uri, []byte("audio-bytes"), 0o600))
	return &recording.Record{
		ID:             "rec-1",
		URI:            uri,
		JobID:          "JOB-1",
		MeetingType:    recording.MeetingScope,
		Participants:   []recording.Participant{{Role: "PM", Name: "Ada"}},
		ConsentGiven:   true,
		UploadStatus:   recording.StatusPending,
		UploadAttempts: attempts,
	}
}

func newUploadService(store recording.Store, url string, opts Options) *Service {
	svc := NewService(store, url, opts, slog.Default())
	svc.sleep = func(time.Duration) {}
	return svc
}

func TestUploadSuccess(t *testing.T) {
	var gotJobID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotJobID = r.FormValue("jobId")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"summary":{"text":"recap"}}`))
	}))
	defer server.Close()

	rec := pendingRecord(t, 0)
	store := newTrackingStore(rec)
	svc := newUploadService(store, server.URL, Options{})

	assert.True(t, svc.Upload(context.Background(), rec))
	assert.Equal(t, "JOB-1", gotJobID)

	assert.Equal(t, []recording.UploadStatus{recording.StatusUploading, recording.StatusCompleted}, store.statuses())

	stored, err := store.Get(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, recording.StatusCompleted, stored.UploadStatus)
	assert.Equal(t, 1, stored.UploadAttempts)
	require.NotNil(t, stored.Analysis)
	assert.Equal(t, "recap", stored.Analysis.EditedSummary.Text)
	assert.Equal(t, 1, stored.Analysis.EditedSummary.Version)
}

func TestUploadServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	rec := pendingRecord(t, 0)
	store := newTrackingStore(rec)
	svc := newUploadService(store, server.URL, Options{})

	assert.False(t, svc.Upload(context.Background(), rec))

	// The uploading status is persisted before the request so a crash
	// mid-flight leaves the record retryable.
	assert.Equal(t, []recording.UploadStatus{recording.StatusUploading, recording.StatusFailed}, store.statuses())

	stored, err := store.Get(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, recording.StatusFailed, stored.UploadStatus)
	assert.Equal(t, 1, stored.UploadAttempts)
	assert.Nil(t, stored.Analysis)
}

func TestUploadSkipsCompleted(t *testing.T) {
	rec := pendingRecord(t, 0)
	rec.UploadStatus = recording.StatusCompleted
	store := newTrackingStore(rec)
	svc := newUploadService(store, "http://unreachable.invalid", Options{})

	assert.True(t, svc.Upload(context.Background(), rec))
	assert.Empty(t, store.updates)
}

func TestRetryPendingEmptyQueue(t *testing.T) {
	store := newTrackingStore()
	svc := newUploadService(store, "http://unreachable.invalid", Options{})

	assert.Zero(t, svc.RetryPending(context.Background()))
	assert.Empty(t, store.updates)
}

func TestRetryPendingSkipsExhausted(t *testing.T) {
	rec := pendingRecord(t, 5)
	rec.UploadStatus = recording.StatusFailed
	store := newTrackingStore(rec)
	svc := newUploadService(store, "http://unreachable.invalid", Options{MaxAttempts: 5})

	assert.Zero(t, svc.RetryPending(context.Background()))
	assert.Empty(t, store.updates)
}

func TestRetryPendingBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"summary":{"text":"recap"}}`))
	}))
	defer server.Close()

	rec := pendingRecord(t, 3)
	rec.UploadStatus = recording.StatusFailed
	store := newTrackingStore(rec)

	svc := NewService(store, server.URL, Options{RetryBackoff: time.Second}, slog.Default())
	var slept []time.Duration
	svc.sleep = func(d time.Duration) { slept = append(slept, d) }

	assert.Equal(t, 1, svc.RetryPending(context.Background()))
	// Base backoff doubled per previous attempt: 1s << (3-1).
	assert.Equal(t, []time.Duration{4 * time.Second}, slept)
}

func TestRetryPendingNoBackoffOnFirstAttempt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"summary":{"text":"recap"}}`))
	}))
	defer server.Close()

	rec := pendingRecord(t, 0)
	store := newTrackingStore(rec)

	svc := NewService(store, server.URL, Options{}, slog.Default())
	var slept []time.Duration
	svc.sleep = func(d time.Duration) { slept = append(slept, d) }

	assert.Equal(t, 1, svc.RetryPending(context.Background()))
	assert.Empty(t, slept)
}
