package client

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"fieldvoice/internal/domain/recording"
)

// FileStore keeps the full recording collection in a single JSON file,
// mirroring the metadata document the mobile app maintains. All methods
// serialize through one mutex, so read-modify-write cycles cannot
// interleave.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create metadata directory: %w", err)
	}
	s := &FileStore{path: path}

	// Fail fast on a corrupt document rather than on the first operation.
	if _, err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) load() ([]recording.Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []recording.Record{}, nil
		}
		return nil, fmt.Errorf("read metadata file: %w", err)
	}
	if len(data) == 0 {
		return []recording.Record{}, nil
	}

	var records []recording.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", recording.ErrCorruptStore, err)
	}
	return records, nil
}

func (s *FileStore) save(records []recording.Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}

	// Write-then-rename keeps the previous document intact if the write
	// is interrupted.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write metadata file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace metadata file: %w", err)
	}
	return nil
}

func (s *FileStore) GetAll(ctx context.Context) ([]recording.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *FileStore) Get(ctx context.Context, id string) (*recording.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].ID == id {
			return records[i].Clone(), nil
		}
	}
	return nil, fmt.Errorf("recording %s: %w", id, recording.ErrNotFound)
}

func (s *FileStore) Append(ctx context.Context, rec *recording.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}
	for i := range records {
		if records[i].ID == rec.ID {
			return fmt.Errorf("recording %s: %w", rec.ID, recording.ErrDuplicateID)
		}
	}
	records = append(records, *rec.Clone())
	return s.save(records)
}

func (s *FileStore) Update(ctx context.Context, id string, patch recording.Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}
	for i := range records {
		if records[i].ID == id {
			patch.Apply(&records[i])
			return s.save(records)
		}
	}
	return fmt.Errorf("recording %s: %w", id, recording.ErrNotFound)
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}
	for i := range records {
		if records[i].ID == id {
			records = append(records[:i], records[i+1:]...)
			return s.save(records)
		}
	}
	return fmt.Errorf("recording %s: %w", id, recording.ErrNotFound)
}

func (s *FileStore) PendingUploads(ctx context.Context) ([]recording.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}
	var pending []recording.Record
	for i := range records {
		if !records[i].UploadStatus.Terminal() {
			pending = append(pending, records[i])
		}
	}
	return pending, nil
}

func (s *FileStore) Close() error {
	return nil
}
