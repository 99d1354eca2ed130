package client

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"fieldvoice/internal/domain/recording"
)

// SQLiteStore persists recording metadata in a local SQLite database.
// Structured sub-documents (participants, analysis, approval, history)
// are stored as JSON columns since they are only ever read whole. A
// mutex serializes read-modify-write in Update.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init tables: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initTables() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS recordings (
			id TEXT PRIMARY KEY,
			uri TEXT NOT NULL,
			duration_millis INTEGER NOT NULL DEFAULT 0,
			timestamp INTEGER NOT NULL,
			job_id TEXT NOT NULL,
			meeting_type TEXT NOT NULL,
			participants TEXT NOT NULL,
			consent_given BOOLEAN NOT NULL DEFAULT 0,
			upload_status TEXT NOT NULL,
			upload_attempts INTEGER NOT NULL DEFAULT 0,
			analysis TEXT,
			approval TEXT,
			history TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_recordings_status ON recordings(upload_status);
		CREATE INDEX IF NOT EXISTS idx_recordings_timestamp ON recordings(timestamp);
	`)

	return err
}

const recordingColumns = `id, uri, duration_millis, timestamp, job_id, meeting_type,
	participants, consent_given, upload_status, upload_attempts, analysis, approval, history`

func (s *SQLiteStore) GetAll(ctx context.Context) ([]recording.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+recordingColumns+` FROM recordings`)
	if err != nil {
		return nil, fmt.Errorf("query recordings: %w", err)
	}
	defer rows.Close()

	var records []recording.Record
	for rows.Next() {
		rec, err := scanRecording(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if records == nil {
		records = []recording.Record{}
	}
	return records, rows.Err()
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*recording.Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordingColumns+` FROM recordings WHERE id = ?`, id)
	rec, err := scanRecording(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("recording %s: %w", id, recording.ErrNotFound)
	}
	return rec, err
}

func (s *SQLiteStore) Append(ctx context.Context, rec *recording.Record) error {
	participants, analysis, approval, history, err := encodeColumns(rec)
	if err != nil {
		return err
	}

	var exists bool
	if err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM recordings WHERE id = ?)", rec.ID).Scan(&exists); err != nil {
		return fmt.Errorf("check recording existence: %w", err)
	}
	if exists {
		return fmt.Errorf("recording %s: %w", rec.ID, recording.ErrDuplicateID)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO recordings (`+recordingColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.URI, rec.DurationMillis, rec.Timestamp, rec.JobID, rec.MeetingType,
		participants, rec.ConsentGiven, string(rec.UploadStatus), rec.UploadAttempts,
		analysis, approval, history)
	if err != nil {
		return fmt.Errorf("insert recording: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Update(ctx context.Context, id string, patch recording.Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	patch.Apply(rec)

	participants, analysis, approval, history, err := encodeColumns(rec)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE recordings
		SET uri = ?, duration_millis = ?, timestamp = ?, job_id = ?, meeting_type = ?,
		    participants = ?, consent_given = ?, upload_status = ?, upload_attempts = ?,
		    analysis = ?, approval = ?, history = ?
		WHERE id = ?
	`, rec.URI, rec.DurationMillis, rec.Timestamp, rec.JobID, rec.MeetingType,
		participants, rec.ConsentGiven, string(rec.UploadStatus), rec.UploadAttempts,
		analysis, approval, history, id)
	if err != nil {
		return fmt.Errorf("update recording: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM recordings WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete recording: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete recording: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("recording %s: %w", id, recording.ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) PendingUploads(ctx context.Context) ([]recording.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+recordingColumns+` FROM recordings
		WHERE upload_status != ?
	`, string(recording.StatusCompleted))
	if err != nil {
		return nil, fmt.Errorf("query pending uploads: %w", err)
	}
	defer rows.Close()

	var records []recording.Record
	for rows.Next() {
		rec, err := scanRecording(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func encodeColumns(rec *recording.Record) (participants string, analysis, approval, history sql.NullString, err error) {
	p, err := json.Marshal(rec.Participants)
	if err != nil {
		return "", analysis, approval, history, fmt.Errorf("encode participants: %w", err)
	}
	participants = string(p)

	if rec.Analysis != nil {
		data, err := json.Marshal(rec.Analysis)
		if err != nil {
			return "", analysis, approval, history, fmt.Errorf("encode analysis: %w", err)
		}
		analysis = sql.NullString{String: string(data), Valid: true}
	}
	if rec.Approval != nil {
		data, err := json.Marshal(rec.Approval)
		if err != nil {
			return "", analysis, approval, history, fmt.Errorf("encode approval: %w", err)
		}
		approval = sql.NullString{String: string(data), Valid: true}
	}
	if rec.History != nil {
		data, err := json.Marshal(rec.History)
		if err != nil {
			return "", analysis, approval, history, fmt.Errorf("encode history: %w", err)
		}
		history = sql.NullString{String: string(data), Valid: true}
	}
	return participants, analysis, approval, history, nil
}

func scanRecording(scan func(dest ...any) error) (*recording.Record, error) {
	var rec recording.Record
	var status, participants string
	var analysis, approval, history sql.NullString

	err := scan(&rec.ID, &rec.URI, &rec.DurationMillis, &rec.Timestamp, &rec.JobID,
		&rec.MeetingType, &participants, &rec.ConsentGiven, &status, &rec.UploadAttempts,
		&analysis, &approval, &history)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan recording: %w", err)
	}
	rec.UploadStatus = recording.UploadStatus(status)

	if err := json.Unmarshal([]byte(participants), &rec.Participants); err != nil {
		return nil, fmt.Errorf("%w: participants: %v", recording.ErrCorruptStore, err)
	}
	if analysis.Valid {
		rec.Analysis = &recording.Analysis{}
		if err := json.Unmarshal([]byte(analysis.String), rec.Analysis); err != nil {
			return nil, fmt.Errorf("%w: analysis: %v", recording.ErrCorruptStore, err)
		}
	}
	if approval.Valid {
		rec.Approval = &recording.Approval{}
		if err := json.Unmarshal([]byte(approval.String), rec.Approval); err != nil {
			return nil, fmt.Errorf("%w: approval: %v", recording.ErrCorruptStore, err)
		}
	}
	if history.Valid {
		if err := json.Unmarshal([]byte(history.String), &rec.History); err != nil {
			return nil, fmt.Errorf("%w: history: %v", recording.ErrCorruptStore, err)
		}
	}
	return &rec, nil
}
