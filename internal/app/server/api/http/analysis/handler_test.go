package analysis

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"fieldvoice/internal/domain/recording"
	"fieldvoice/internal/domain/upload"
)

func newWebhookServer(t *testing.T) *httptest.Server {
	t.Helper()
	router := chi.NewRouter()
	NewHandler(slog.Default()).SetupRoutes(router)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func postRecording(t *testing.T, url string, rec *recording.Record) *http.Response {
	t.Helper()

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	require.NoError(t, upload.BuildForm(form, rec, strings.NewReader("audio-bytes")))
	require.NoError(t, form.Close())

	resp, err := http.Post(url+"/webhook/analyze", form.FormDataContentType(), &body)
	require.NoError(t, err)
	return resp
}

func TestAnalyzeRespondsWithDecodableAnalysis(t *testing.T) {
	server := newWebhookServer(t)

	rec := &recording.Record{
		JobID:       "JOB-42",
		MeetingType: recording.MeetingScope,
		Participants: []recording.Participant{
			{Role: "PM", Name: "Ada"},
			{Role: "Sub", Name: "Grace"},
		},
		ConsentGiven: true,
	}

	resp := postRecording(t, server.URL, rec)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	// The response must round-trip through the client decoder.
	analysis, err := upload.DecodeAnalysis(body)
	require.NoError(t, err)

	assert.Contains(t, analysis.EditedSummary.Text, "JOB-42")
	assert.Equal(t, 1, analysis.EditedSummary.Version)
	require.Len(t, analysis.RawTranscript, 2)
	assert.Equal(t, "Ada", analysis.RawTranscript[0].SpeakerName)
	assert.Equal(t, "Grace", analysis.RawTranscript[1].SpeakerName)
	require.NotEmpty(t, analysis.ActionItems.PM)
}

func TestAnalyzeWrapsResultInEnvelope(t *testing.T) {
	server := newWebhookServer(t)

	rec := &recording.Record{
		JobID:        "JOB-1",
		MeetingType:  recording.MeetingInternal,
		Participants: []recording.Participant{{Role: "PM", Name: "Ada"}},
	}

	resp := postRecording(t, server.URL, rec)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Contains(t, envelope, "json")
}

func TestAnalyzeMissingFile(t *testing.T) {
	server := newWebhookServer(t)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	require.NoError(t, form.WriteField("jobId", "JOB-1"))
	require.NoError(t, form.Close())

	resp, err := http.Post(server.URL+"/webhook/analyze", form.FormDataContentType(), &body)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errResp map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, "missing audio file", errResp["message"])
}

func TestAnalyzeNotMultipart(t *testing.T) {
	server := newWebhookServer(t)

	resp, err := http.Post(server.URL+"/webhook/analyze", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errResp map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Contains(t, errResp["message"], "invalid multipart form")
}

func TestAnalyzeInvalidParticipants(t *testing.T) {
	server := newWebhookServer(t)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", "recording.m4a")
	require.NoError(t, err)
	_, err = part.Write([]byte("audio-bytes"))
	require.NoError(t, err)
	require.NoError(t, form.WriteField("participants", "{not json"))
	require.NoError(t, form.Close())

	resp, err := http.Post(server.URL+"/webhook/analyze", form.FormDataContentType(), &body)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errResp map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, "invalid participants field", errResp["message"])
}
