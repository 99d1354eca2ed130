package recording

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

// Metadata is the caller-supplied part of a new record. URI and upload
// status are owned by the service.
type Metadata struct {
	DurationMillis int64
	Timestamp      int64
	JobID          string
	MeetingType    string
	Participants   []Participant
	ConsentGiven   bool
}

// Service owns the recording lifecycle: turning an ephemeral capture file
// into a durably stored asset plus a metadata record, and reclaiming both
// on deletion.
type Service struct {
	store  Store
	assets AssetStore
	log    *slog.Logger
}

func NewService(store Store, assets AssetStore, log *slog.Logger) *Service {
	return &Service{
		store:  store,
		assets: assets,
		log:    log.With("component", "recording_service"),
	}
}

// SaveRecording relocates the captured file and appends the metadata record
// in pending status. The append happens strictly after the file move
// succeeds; a failed move leaves no partial record behind.
func (s *Service) SaveRecording(ctx context.Context, tempPath string, meta Metadata) (*Record, error) {
	if !meta.ConsentGiven {
		return nil, ErrConsentRequired
	}
	if len(meta.Participants) == 0 {
		return nil, ErrNoParticipants
	}
	if !ValidMeetingType(meta.MeetingType) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMeeting, meta.MeetingType)
	}

	if meta.Timestamp == 0 {
		meta.Timestamp = NowMillis()
	}
	if meta.JobID == "" {
		meta.JobID = fmt.Sprintf("JOB-%d", meta.Timestamp)
	}

	uri, err := s.assets.Put(tempPath)
	if err != nil {
		return nil, fmt.Errorf("store audio asset: %w", err)
	}

	rec := &Record{
		ID:             uuid.NewString(),
		URI:            uri,
		DurationMillis: meta.DurationMillis,
		Timestamp:      meta.Timestamp,
		JobID:          meta.JobID,
		MeetingType:    meta.MeetingType,
		Participants:   append([]Participant(nil), meta.Participants...),
		ConsentGiven:   meta.ConsentGiven,
		UploadStatus:   StatusPending,
	}

	if err := s.store.Append(ctx, rec); err != nil {
		s.log.Error("failed to append recording metadata", "id", rec.ID, "error", err)
		return nil, fmt.Errorf("append recording: %w", err)
	}

	s.log.Info("recording saved", "id", rec.ID, "job_id", rec.JobID, "uri", rec.URI)
	return rec, nil
}

// List returns all records sorted by timestamp, newest first.
func (s *Service) List(ctx context.Context) ([]Record, error) {
	records, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list recordings: %w", err)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp > records[j].Timestamp
	})
	return records, nil
}

// Get returns one record by id.
func (s *Service) Get(ctx context.Context, id string) (*Record, error) {
	return s.store.Get(ctx, id)
}

// Delete removes the record and reclaims its audio asset. Metadata goes
// first: a leaked file after a crash can be swept later, a record pointing
// at a removed file cannot be recovered.
func (s *Service) Delete(ctx context.Context, id string) error {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete recording: %w", err)
	}
	if err := s.assets.Remove(rec.URI); err != nil {
		s.log.Warn("recording deleted but asset not reclaimed", "id", id, "uri", rec.URI, "error", err)
	} else {
		s.log.Info("recording deleted", "id", id)
	}
	return nil
}
