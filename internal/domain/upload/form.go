package upload

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strconv"

	"fieldvoice/internal/domain/recording"
)

// Multipart field names of the webhook contract.
const (
	fieldFile         = "file"
	fieldJobID        = "jobId"
	fieldMeetingType  = "meetingType"
	fieldParticipants = "participants"
	fieldConsentGiven = "consentGiven"

	fileName        = "recording.m4a"
	fileContentType = "audio/m4a"
)

// SpeakerFieldName returns the letter-indexed form field carrying the name
// of participant i: 0 -> "speakerA", 1 -> "speakerB", and so on. The
// positional mapping is a contract with the analysis endpoint and extends
// past 'Z' in rune order for oversized rosters, matching the original
// producer.
func SpeakerFieldName(i int) string {
	return "speaker" + string(rune('A'+i))
}

// BuildForm writes the full multipart submission for a record into w:
// the audio asset plus jobId, meetingType, the JSON-encoded participant
// list, the stringified consent flag, and one speaker field per
// participant in order.
func BuildForm(w *multipart.Writer, rec *recording.Record, audio io.Reader) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, fieldFile, fileName))
	h.Set("Content-Type", fileContentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return fmt.Errorf("copy audio: %w", err)
	}

	participants, err := json.Marshal(rec.Participants)
	if err != nil {
		return fmt.Errorf("encode participants: %w", err)
	}

	fields := []struct{ name, value string }{
		{fieldJobID, rec.JobID},
		{fieldMeetingType, rec.MeetingType},
		{fieldParticipants, string(participants)},
		{fieldConsentGiven, strconv.FormatBool(rec.ConsentGiven)},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return fmt.Errorf("write field %s: %w", f.name, err)
		}
	}
	for i, p := range rec.Participants {
		if err := w.WriteField(SpeakerFieldName(i), p.Name); err != nil {
			return fmt.Errorf("write speaker field %d: %w", i, err)
		}
	}
	return nil
}
