package upload

import (
	"bytes"
	"io"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldvoice/internal/domain/recording"
)

func TestSpeakerFieldName(t *testing.T) {
	assert.Equal(t, "speakerA", SpeakerFieldName(0))
	assert.Equal(t, "speakerB", SpeakerFieldName(1))
	assert.Equal(t, "speakerZ", SpeakerFieldName(25))
}

func TestBuildForm(t *testing.T) {
	rec := &recording.Record{
		ID:          "rec-1",
		JobID:       "JOB-42",
		MeetingType: recording.MeetingVendor,
		Participants: []recording.Participant{
			{Role: "PM", Name: "Ada"},
			{Role: "Vendor", Name: "Grace"},
		},
		ConsentGiven: true,
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(t, BuildForm(form, rec, strings.NewReader("audio-bytes")))
	require.NoError(t, form.Close())

	reader := multipart.NewReader(&buf, form.Boundary())

	filePart, err := reader.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "file", filePart.FormName())
	assert.Equal(t, "recording.m4a", filePart.FileName())
	assert.Equal(t, "audio/m4a", filePart.Header.Get("Content-Type"))
	content, err := io.ReadAll(filePart)
	require.NoError(t, err)
	assert.Equal(t, "audio-bytes", string(content))

	fields := map[string]string{}
	var order []string
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		value, err := io.ReadAll(part)
		require.NoError(t, err)
		fields[part.FormName()] = string(value)
		order = append(order, part.FormName())
	}

	assert.Equal(t, "JOB-42", fields["jobId"])
	assert.Equal(t, recording.MeetingVendor, fields["meetingType"])
	assert.Equal(t, "true", fields["consentGiven"])
	assert.JSONEq(t, `[{"role":"PM","name":"Ada"},{"role":"Vendor","name":"Grace"}]`, fields["participants"])
	assert.Equal(t, "Ada", fields["speakerA"])
	assert.Equal(t, "Grace", fields["speakerB"])
	assert.Equal(t, []string{"jobId", "meetingType", "participants", "consentGiven", "speakerA", "speakerB"}, order)
}

func TestBuildFormNoConsent(t *testing.T) {
	rec := &recording.Record{
		JobID:        "JOB-1",
		MeetingType:  recording.MeetingInternal,
		Participants: []recording.Participant{{Role: "PM", Name: "Ada"}},
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(t, BuildForm(form, rec, strings.NewReader("x")))
	require.NoError(t, form.Close())

	parsed, err := multipart.NewReader(&buf, form.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	defer parsed.RemoveAll()

	assert.Equal(t, []string{"false"}, parsed.Value["consentGiven"])
}
