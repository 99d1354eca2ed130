package recording

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

// memStore is an in-memory Store for tests.
type memStore struct {
	mu      sync.Mutex
	records map[string]*Record
}

func newMemStore() *memStore {
	return &memStore{records: make(map[string]*Record)}
}

func (s *memStore) GetAll(_ context.Context) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, *rec.Clone())
	}
	return out, nil
}

func (s *memStore) Get(_ context.Context, id string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return rec.Clone(), nil
}

func (s *memStore) Append(_ context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[rec.ID]; ok {
		return ErrDuplicateID
	}
	s.records[rec.ID] = rec.Clone()
	return nil
}

func (s *memStore) Update(_ context.Context, id string, patch Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return ErrNotFound
	}
	patch.Apply(rec)
	return nil
}

func (s *memStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return ErrNotFound
	}
	delete(s.records, id)
	return nil
}

func (s *memStore) PendingUploads(_ context.Context) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Record
	for _, rec := range s.records {
		if !rec.UploadStatus.Terminal() {
			out = append(out, *rec.Clone())
		}
	}
	return out, nil
}

func (s *memStore) Close() error { return nil }

func writeTempAudio(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("audio-bytes"), 0o600))
	return path
}

func validMeta() Metadata {
	return Metadata{
		DurationMillis: 1500,
		MeetingType:    MeetingScope,
		Participants:   []Participant{{Role: "PM", Name: "Ada"}},
		ConsentGiven:   true,
	}
}

func newTestService(t *testing.T, store Store) *Service {
	t.Helper()
	assets, err := NewMoveAssets(t.TempDir())
	require.NoError(t, err)
	return NewService(store, assets, slog.Default())
}

func TestSaveRecording(t *testing.T) {
	store := newMemStore()
	svc := newTestService(t, store)

	tempPath := writeTempAudio(t, "capture.m4a")
	rec, err := svc.SaveRecording(context.Background(), tempPath, validMeta())
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, StatusPending, rec.UploadStatus)
	assert.NotEqual(t, tempPath, rec.URI)
	assert.FileExists(t, rec.URI)
	assert.NoFileExists(t, tempPath)
	assert.NotZero(t, rec.Timestamp)
	assert.Equal(t, fmt.Sprintf("JOB-%d", rec.Timestamp), rec.JobID)

	stored, err := store.Get(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.URI, stored.URI)
}

func TestSaveRecordingValidation(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Metadata)
		expectedErr error
	}{
		{
			name:        "consent required",
			mutate:      func(m *Metadata) { m.ConsentGiven = false },
			expectedErr: ErrConsentRequired,
		},
		{
			name:        "participants required",
			mutate:      func(m *Metadata) { m.Participants = nil },
			expectedErr: ErrNoParticipants,
		},
		{
			name:        "meeting type must be known",
			mutate:      func(m *Metadata) { m.MeetingType = "Standup" },
			expectedErr: ErrInvalidMeeting,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			svc := newTestService(t, store)

			meta := validMeta()
			tt.mutate(&meta)

			tempPath := writeTempAudio(t, "capture.m4a")
			_, err := svc.SaveRecording(context.Background(), tempPath, meta)
			assert.ErrorIs(t, err, tt.expectedErr)

			// A rejected save must not move the file.
			assert.FileExists(t, tempPath)
			all, _ := store.GetAll(context.Background())
			assert.Empty(t, all)
		})
	}
}

func TestSaveRecordingFailedMoveLeavesNoRecord(t *testing.T) {
	store := newMemStore()
	svc := newTestService(t, store)

	_, err := svc.SaveRecording(context.Background(), filepath.Join(t.TempDir(), "missing.m4a"), validMeta())
	require.Error(t, err)

	all, _ := store.GetAll(context.Background())
	assert.Empty(t, all)
}

func TestSaveRecordingReferenceStrategy(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, ReferenceAssets{}, slog.Default())

	tempPath := writeTempAudio(t, "capture.m4a")
	rec, err := svc.SaveRecording(context.Background(), tempPath, validMeta())
	require.NoError(t, err)

	assert.Equal(t, tempPath, rec.URI)
	assert.FileExists(t, tempPath)
}

func TestListSortsNewestFirst(t *testing.T) {
	store := newMemStore()
	svc := newTestService(t, store)

	for i, ts := range []int64{100, 300, 200} {
		require.NoError(t, store.Append(context.Background(), &Record{
			ID:        fmt.Sprintf("rec-%d", i),
			Timestamp: ts,
		}))
	}

	records, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, int64(300), records[0].Timestamp)
	assert.Equal(t, int64(200), records[1].Timestamp)
	assert.Equal(t, int64(100), records[2].Timestamp)
}

func TestDeleteReclaimsAsset(t *testing.T) {
	store := newMemStore()
	svc := newTestService(t, store)

	rec, err := svc.SaveRecording(context.Background(), writeTempAudio(t, "capture.m4a"), validMeta())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), rec.ID))

	_, err = store.Get(context.Background(), rec.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoFileExists(t, rec.URI)
}

func TestDeleteUnknownID(t *testing.T) {
	store := newMemStore()
	svc := newTestService(t, store)

	err := svc.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
