package upload

import (
	"bytes"
	"encoding/json"
	"fmt"

	"fieldvoice/internal/domain/recording"
)

// analysisPayload tolerates the webhook's summary field naming: workflows
// return either "summary" or the already-normalized "editedSummary".
type analysisPayload struct {
	Summary          *recording.Summary          `json:"summary"`
	EditedSummary    *recording.Summary          `json:"editedSummary"`
	RawTranscript    []recording.TranscriptEntry `json:"rawTranscript"`
	Transcript       []recording.TranscriptEntry `json:"transcript"`
	EditedTranscript []recording.TranscriptEntry `json:"editedTranscript"`
	ActionItems      recording.ActionItems       `json:"actionItems"`
	Quality          *recording.Quality          `json:"quality"`
	Audit            *recording.Audit            `json:"audit"`
}

// DecodeAnalysis parses a webhook response body into an analysis object.
// The top-level shape may be the analysis itself, an object wrapping it in
// a "json" field, or a single-element array of either; all are unwrapped.
func DecodeAnalysis(body []byte) (*recording.Analysis, error) {
	raw := bytes.TrimSpace(body)
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty response body")
	}

	if raw[0] == '{' {
		var envelope struct {
			JSON json.RawMessage `json:"json"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil, fmt.Errorf("parse response: %w", err)
		}
		if len(envelope.JSON) > 0 {
			raw = bytes.TrimSpace(envelope.JSON)
		}
	}
	if len(raw) > 0 && raw[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("parse response array: %w", err)
		}
		if len(items) == 0 {
			return nil, fmt.Errorf("empty response array")
		}
		raw = items[0]
	}

	var payload analysisPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("parse analysis: %w", err)
	}

	analysis := &recording.Analysis{
		RawTranscript:    payload.RawTranscript,
		EditedTranscript: payload.EditedTranscript,
		ActionItems:      payload.ActionItems,
		Quality:          payload.Quality,
		Audit:            payload.Audit,
	}
	if analysis.RawTranscript == nil {
		analysis.RawTranscript = payload.Transcript
	}
	switch {
	case payload.EditedSummary != nil:
		analysis.EditedSummary = *payload.EditedSummary
	case payload.Summary != nil:
		analysis.EditedSummary = *payload.Summary
	default:
		return nil, fmt.Errorf("analysis has no summary")
	}
	if analysis.EditedSummary.Version == 0 {
		analysis.EditedSummary.Version = 1
	}
	return analysis, nil
}
