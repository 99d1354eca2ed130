package recording

import (
	"encoding/json"
	"fmt"
)

// Analysis is the processing result returned by the analysis webhook.
type Analysis struct {
	EditedSummary    Summary           `json:"editedSummary"`
	RawTranscript    []TranscriptEntry `json:"rawTranscript"`
	EditedTranscript []TranscriptEntry `json:"editedTranscript,omitempty"`
	ActionItems      ActionItems       `json:"actionItems"`
	Quality          *Quality          `json:"quality,omitempty"`
	Audit            *Audit            `json:"audit,omitempty"`
}

// Summary is the reviewable summary text with its edit version counter.
type Summary struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Version    int     `json:"version"`
}

// TranscriptEntry is one utterance of the ASR output.
type TranscriptEntry struct {
	SpeakerName string  `json:"speakerName"`
	Text        string  `json:"text"`
	Time        string  `json:"time"`
	Confidence  float64 `json:"confidence"`
}

// ActionItems groups extracted follow-ups by responsible side.
type ActionItems struct {
	PM           []ActionItem `json:"pm"`
	OtherParties []ActionItem `json:"otherParties"`
}

// Quality carries the webhook's confidence self-assessment.
type Quality struct {
	TranscriptionConfidence      float64  `json:"transcriptionConfidence"`
	SpeakerRecognitionConfidence float64  `json:"speakerRecognitionConfidence"`
	ActionExtractionConfidence   float64  `json:"actionExtractionConfidence"`
	Flags                        []string `json:"flags,omitempty"`
}

// Audit identifies the model run that produced the analysis.
type Audit struct {
	AIModel             string `json:"aiModel"`
	ProcessingTimestamp string `json:"processingTimestamp"`
	SpecVersion         string `json:"specVersion"`
}

// ActionItem is either a plain string or a structured item on the wire:
//
//	"call the vendor"
//	{"title": "call the vendor", "ownerName": "Alice", "dueDate": "2024-03-01"}
//
// Plain items round-trip as strings; anything with an owner or due date is
// encoded as an object.
type ActionItem struct {
	Title     string `json:"title"`
	OwnerName string `json:"ownerName,omitempty"`
	DueDate   string `json:"dueDate,omitempty"`
}

func (a ActionItem) structured() bool {
	return a.OwnerName != "" || a.DueDate != ""
}

func (a ActionItem) MarshalJSON() ([]byte, error) {
	if !a.structured() {
		return json.Marshal(a.Title)
	}
	type wire ActionItem
	return json.Marshal(wire(a))
}

func (a *ActionItem) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &a.Title)
	}
	type wire ActionItem
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("action item: %w", err)
	}
	*a = ActionItem(w)
	return nil
}

// Clone returns an independent deep copy of the analysis.
func (a *Analysis) Clone() *Analysis {
	c := *a
	c.RawTranscript = append([]TranscriptEntry(nil), a.RawTranscript...)
	c.EditedTranscript = append([]TranscriptEntry(nil), a.EditedTranscript...)
	c.ActionItems.PM = append([]ActionItem(nil), a.ActionItems.PM...)
	c.ActionItems.OtherParties = append([]ActionItem(nil), a.ActionItems.OtherParties...)
	if a.Quality != nil {
		q := *a.Quality
		q.Flags = append([]string(nil), a.Quality.Flags...)
		c.Quality = &q
	}
	if a.Audit != nil {
		au := *a.Audit
		c.Audit = &au
	}
	return &c
}
