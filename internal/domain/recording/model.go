package recording

import "time"

// UploadStatus is the processing state of a recording in the local queue.
type UploadStatus string

const (
	StatusPending   UploadStatus = "pending"
	StatusUploading UploadStatus = "uploading"
	StatusCompleted UploadStatus = "completed"
	StatusFailed    UploadStatus = "failed"
)

// Terminal reports whether the status admits no further transitions.
func (s UploadStatus) Terminal() bool {
	return s == StatusCompleted
}

// Meeting type labels shown in the pre-meeting form.
const (
	MeetingScope    = "Scope"
	MeetingSchedule = "Schedule"
	MeetingMaterial = "Material"
	MeetingSubCoord = "Sub Coord"
	MeetingVendor   = "Vendor"
	MeetingInternal = "Internal"
)

// MeetingTypes lists the supported session-type labels in display order.
var MeetingTypes = []string{
	MeetingScope,
	MeetingSchedule,
	MeetingMaterial,
	MeetingSubCoord,
	MeetingVendor,
	MeetingInternal,
}

// ValidMeetingType reports whether t is one of the fixed session-type labels.
func ValidMeetingType(t string) bool {
	for _, mt := range MeetingTypes {
		if mt == t {
			return true
		}
	}
	return false
}

// Participant is one attendee of a recorded session.
type Participant struct {
	Role string `json:"role"`
	Name string `json:"name"`
}

type ApprovalStatus string

const (
	ApprovalPending   ApprovalStatus = "pending"
	ApprovalApproved  ApprovalStatus = "approved"
	ApprovalDiscarded ApprovalStatus = "discarded"
)

// Approval captures the review outcome for a completed analysis.
type Approval struct {
	Status    ApprovalStatus `json:"status"`
	Timestamp int64          `json:"timestamp"`
	Approver  string         `json:"approver,omitempty"`
}

// HistoryEntry is an immutable snapshot taken on every save-with-edit.
// Entries are appended and never mutated or removed.
type HistoryEntry struct {
	Timestamp int64  `json:"timestamp"`
	Version   int    `json:"version"`
	Summary   string `json:"summary"`
	Editor    string `json:"editor"`
}

// Record is a captured session: the stored audio asset plus everything the
// pipeline and the reviewer attach to it. JSON field names are the storage
// and wire contract and must not change.
type Record struct {
	ID             string         `json:"id"`
	URI            string         `json:"uri"`
	DurationMillis int64          `json:"durationMillis"`
	Timestamp      int64          `json:"timestamp"`
	JobID          string         `json:"jobId"`
	MeetingType    string         `json:"meetingType"`
	Participants   []Participant  `json:"participants"`
	ConsentGiven   bool           `json:"consentGiven"`
	UploadStatus   UploadStatus   `json:"uploadStatus"`
	UploadAttempts int            `json:"uploadAttempts,omitempty"`
	Analysis       *Analysis      `json:"analysis,omitempty"`
	Approval       *Approval      `json:"approval,omitempty"`
	History        []HistoryEntry `json:"history,omitempty"`
}

// Clone returns an independent deep copy of the record.
func (r *Record) Clone() *Record {
	c := *r
	c.Participants = append([]Participant(nil), r.Participants...)
	c.History = append([]HistoryEntry(nil), r.History...)
	if r.Analysis != nil {
		c.Analysis = r.Analysis.Clone()
	}
	if r.Approval != nil {
		ap := *r.Approval
		c.Approval = &ap
	}
	return &c
}

// NowMillis is the timestamp convention used across records and history
// entries (Unix milliseconds, matching the mobile client that produced the
// original data).
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
