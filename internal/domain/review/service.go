package review

import (
	"context"
	"fmt"

	"golang.org/x/exp/slog"

	"fieldvoice/internal/domain/recording"
)

// Section selects which action-item list an edit targets.
type Section string

const (
	SectionPM           Section = "pm"
	SectionOtherParties Section = "otherParties"
)

// Draft is an editable working copy of a record's analysis. The stored
// record is untouched until the draft is saved; discarding the draft
// cancels the edit with no persisted side effects.
type Draft struct {
	Analysis *recording.Analysis
}

// SetSummary replaces the draft summary text.
func (d *Draft) SetSummary(text string) {
	d.Analysis.EditedSummary.Text = text
}

// SetTranscriptEntry edits one utterance. Edits land in the
// editedTranscript override, which is seeded from the raw transcript on
// first edit; the raw ASR output is never mutated.
func (d *Draft) SetTranscriptEntry(i int, entry recording.TranscriptEntry) error {
	if d.Analysis.EditedTranscript == nil {
		d.Analysis.EditedTranscript = append([]recording.TranscriptEntry(nil), d.Analysis.RawTranscript...)
	}
	if i < 0 || i >= len(d.Analysis.EditedTranscript) {
		return fmt.Errorf("transcript index %d out of range", i)
	}
	d.Analysis.EditedTranscript[i] = entry
	return nil
}

// UpdateItem replaces the action item at index i, producing a new slice.
func (d *Draft) UpdateItem(sec Section, i int, item recording.ActionItem) error {
	items, err := d.section(sec)
	if err != nil {
		return err
	}
	if i < 0 || i >= len(items) {
		return fmt.Errorf("action item index %d out of range", i)
	}
	next := append([]recording.ActionItem(nil), items...)
	next[i] = item
	return d.setSection(sec, next)
}

// AppendItem adds an action item, producing a new slice.
func (d *Draft) AppendItem(sec Section, item recording.ActionItem) error {
	items, err := d.section(sec)
	if err != nil {
		return err
	}
	return d.setSection(sec, append(append([]recording.ActionItem(nil), items...), item))
}

// RemoveItem deletes the action item at index i, producing a new slice.
func (d *Draft) RemoveItem(sec Section, i int) error {
	items, err := d.section(sec)
	if err != nil {
		return err
	}
	if i < 0 || i >= len(items) {
		return fmt.Errorf("action item index %d out of range", i)
	}
	next := make([]recording.ActionItem, 0, len(items)-1)
	next = append(next, items[:i]...)
	next = append(next, items[i+1:]...)
	return d.setSection(sec, next)
}

func (d *Draft) section(sec Section) ([]recording.ActionItem, error) {
	switch sec {
	case SectionPM:
		return d.Analysis.ActionItems.PM, nil
	case SectionOtherParties:
		return d.Analysis.ActionItems.OtherParties, nil
	default:
		return nil, fmt.Errorf("unknown action item section %q", sec)
	}
}

func (d *Draft) setSection(sec Section, items []recording.ActionItem) error {
	switch sec {
	case SectionPM:
		d.Analysis.ActionItems.PM = items
	case SectionOtherParties:
		d.Analysis.ActionItems.OtherParties = items
	default:
		return fmt.Errorf("unknown action item section %q", sec)
	}
	return nil
}

// SaveOptions controls a SaveEdit call.
type SaveOptions struct {
	Editor  string
	Approve bool
}

// Service applies reviewer edits to completed analyses with versioned,
// append-only history.
type Service struct {
	store recording.Store
	now   func() int64
	log   *slog.Logger
}

func NewService(store recording.Store, log *slog.Logger) *Service {
	return &Service{
		store: store,
		now:   recording.NowMillis,
		log:   log.With("component", "review_service"),
	}
}

// BeginEdit deep-copies the record's analysis into a draft.
func (s *Service) BeginEdit(rec *recording.Record) (*Draft, error) {
	if rec.Analysis == nil {
		return nil, recording.ErrNoAnalysis
	}
	return &Draft{Analysis: rec.Analysis.Clone()}, nil
}

// SaveEdit persists the draft: the summary version is incremented by one
// and a history entry is appended carrying the pre-edit version and the
// pre-edit summary text. With Approve set, the record's approval is marked
// approved as of now.
func (s *Service) SaveEdit(ctx context.Context, rec *recording.Record, draft *Draft, opts SaveOptions) (*recording.Record, error) {
	if rec.Analysis == nil {
		return nil, recording.ErrNoAnalysis
	}

	prevVersion := rec.Analysis.EditedSummary.Version
	if prevVersion == 0 {
		prevVersion = 1
	}
	draft.Analysis.EditedSummary.Version = prevVersion + 1

	entry := recording.HistoryEntry{
		Timestamp: s.now(),
		Version:   prevVersion,
		Summary:   rec.Analysis.EditedSummary.Text,
		Editor:    opts.Editor,
	}
	history := append(append([]recording.HistoryEntry(nil), rec.History...), entry)

	patch := recording.Patch{
		Analysis: draft.Analysis,
		History:  history,
	}
	if opts.Approve {
		patch.Approval = &recording.Approval{
			Status:    recording.ApprovalApproved,
			Timestamp: s.now(),
			Approver:  opts.Editor,
		}
	}

	if err := s.store.Update(ctx, rec.ID, patch); err != nil {
		s.log.Error("failed to save edit", "id", rec.ID, "error", err)
		return nil, fmt.Errorf("save edit: %w", err)
	}

	updated := rec.Clone()
	patch.Apply(updated)
	s.log.Info("analysis edit saved",
		"id", rec.ID,
		"version", updated.Analysis.EditedSummary.Version,
		"approved", opts.Approve,
	)
	return updated, nil
}

// Approve marks the record's analysis as approved without editing it.
func (s *Service) Approve(ctx context.Context, rec *recording.Record, approver string) error {
	return s.setApproval(ctx, rec, recording.ApprovalApproved, approver)
}

// Discard marks the record's analysis as discarded.
func (s *Service) Discard(ctx context.Context, rec *recording.Record, approver string) error {
	return s.setApproval(ctx, rec, recording.ApprovalDiscarded, approver)
}

func (s *Service) setApproval(ctx context.Context, rec *recording.Record, status recording.ApprovalStatus, approver string) error {
	if rec.Analysis == nil {
		return recording.ErrNoAnalysis
	}

	patch := recording.Patch{
		Approval: &recording.Approval{
			Status:    status,
			Timestamp: s.now(),
			Approver:  approver,
		},
	}
	if err := s.store.Update(ctx, rec.ID, patch); err != nil {
		return fmt.Errorf("set approval: %w", err)
	}

	s.log.Info("approval updated", "id", rec.ID, "status", status)
	return nil
}
