package analysis

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"

	"fieldvoice/internal/domain/recording"
	"fieldvoice/internal/domain/upload"
)

const maxUploadBytes = 256 << 20

// Handler is the development stand-in for the external analysis
// workflow. It accepts the same multipart submission the real webhook
// takes and answers with a canned analysis so the client pipeline can be
// exercised end to end without the transcription backend.
type Handler struct {
	log *slog.Logger
}

func NewHandler(log *slog.Logger) *Handler {
	return &Handler{log: log.With("component", "analysis_webhook")}
}

// SetupRoutes mounts the webhook on the raw router. Multipart uploads do
// not fit typed request bodies, so this stays off the OpenAPI surface.
func (h *Handler) SetupRoutes(r chi.Router) {
	r.Post("/webhook/analyze", h.analyze)
}

func (h *Handler) analyze(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.fail(w, http.StatusBadRequest, fmt.Sprintf("invalid multipart form: %v", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.fail(w, http.StatusBadRequest, "missing audio file")
		return
	}
	defer file.Close()

	size, err := io.Copy(io.Discard, file)
	if err != nil {
		h.fail(w, http.StatusBadRequest, "unreadable audio file")
		return
	}

	jobID := r.FormValue("jobId")
	meetingType := r.FormValue("meetingType")

	var participants []recording.Participant
	if raw := r.FormValue("participants"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &participants); err != nil {
			h.fail(w, http.StatusBadRequest, "invalid participants field")
			return
		}
	}

	h.log.Info("analysis request received",
		"job_id", jobID,
		"meeting_type", meetingType,
		"file", header.Filename,
		"bytes", size,
		"participants", len(participants),
	)

	// Letter-indexed speaker fields override the participant names when
	// present, matching how the real workflow resolves speakers.
	for i := range participants {
		if name := r.FormValue(upload.SpeakerFieldName(i)); name != "" {
			participants[i].Name = name
		}
	}

	result := h.cannedAnalysis(jobID, meetingType, participants)

	w.Header().Set("Content-Type", "application/json")
	// The workflow wraps its output in a json envelope; the client
	// unwraps it, so the dev endpoint replies in the same shape.
	if err := json.NewEncoder(w).Encode(map[string]any{"json": result}); err != nil {
		h.log.Error("failed to encode analysis response", "error", err)
	}
}

func (h *Handler) cannedAnalysis(jobID, meetingType string, participants []recording.Participant) *recording.Analysis {
	speakers := make([]string, 0, len(participants))
	for _, p := range participants {
		speakers = append(speakers, p.Name)
	}
	if len(speakers) == 0 {
		speakers = []string{"Speaker A"}
	}

	transcript := make([]recording.TranscriptEntry, 0, len(speakers))
	for i, name := range speakers {
		transcript = append(transcript, recording.TranscriptEntry{
			SpeakerName: name,
			Text:        fmt.Sprintf("Placeholder utterance %d for %s.", i+1, jobID),
			Time:        fmt.Sprintf("00:%02d", i*15),
			Confidence:  0.9,
		})
	}

	return &recording.Analysis{
		EditedSummary: recording.Summary{
			Text:       fmt.Sprintf("Development summary for %s (%s).", jobID, meetingType),
			Confidence: 0.9,
			Version:    1,
		},
		RawTranscript: transcript,
		ActionItems: recording.ActionItems{
			PM: []recording.ActionItem{
				{Title: "Confirm meeting notes with the site team"},
			},
		},
	}
}

func (h *Handler) fail(w http.ResponseWriter, status int, msg string) {
	h.log.Debug("rejected analysis request", "status", status, "reason", msg)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
