package recording

import "errors"

var (
	ErrNotFound        = errors.New("recording not found")
	ErrDuplicateID     = errors.New("recording id already exists")
	ErrConsentRequired = errors.New("consent must be given before a session is saved")
	ErrNoParticipants  = errors.New("at least one participant is required")
	ErrInvalidMeeting  = errors.New("unknown meeting type")
	ErrNoAnalysis      = errors.New("recording has no analysis")
	ErrCorruptStore    = errors.New("recording store is unreadable")
)
