package recording

import "context"

// Patch is a partial update merged onto an existing record. Nil fields are
// left untouched; History, when non-nil, replaces the stored slice (callers
// append to a copy, never trim).
type Patch struct {
	UploadStatus   *UploadStatus
	UploadAttempts *int
	Analysis       *Analysis
	Approval       *Approval
	History        []HistoryEntry
}

// Apply merges the patch onto r.
func (p Patch) Apply(r *Record) {
	if p.UploadStatus != nil {
		r.UploadStatus = *p.UploadStatus
	}
	if p.UploadAttempts != nil {
		r.UploadAttempts = *p.UploadAttempts
	}
	if p.Analysis != nil {
		r.Analysis = p.Analysis
	}
	if p.Approval != nil {
		r.Approval = p.Approval
	}
	if p.History != nil {
		r.History = p.History
	}
}

// Store is the durable recording collection. Implementations serialize
// read-modify-write cycles internally so that concurrent status updates and
// review saves cannot lose each other's writes.
type Store interface {
	// GetAll returns every record. Order is not guaranteed; callers sort by
	// Timestamp when display order matters.
	GetAll(ctx context.Context) ([]Record, error)
	// Get returns the record with the given id, or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)
	// Append adds a new record. Returns ErrDuplicateID when the id exists.
	Append(ctx context.Context, rec *Record) error
	// Update merges patch into the record with the given id. Returns
	// ErrNotFound when the id does not exist.
	Update(ctx context.Context, id string, patch Patch) error
	// Delete removes the record. Returns ErrNotFound when absent.
	Delete(ctx context.Context, id string) error
	// PendingUploads returns every record not yet completed: pending,
	// failed, and records left in uploading by an interrupted run.
	PendingUploads(ctx context.Context) ([]Record, error)
	Close() error
}
