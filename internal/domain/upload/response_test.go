package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAnalysis(t *testing.T) {
	tests := []struct {
		name            string
		body            string
		expectedText    string
		expectedVersion int
	}{
		{
			name:            "plain object",
			body:            `{"summary":{"text":"site walk recap"}}`,
			expectedText:    "site walk recap",
			expectedVersion: 1,
		},
		{
			name:            "json envelope",
			body:            `{"json":{"summary":{"text":"wrapped"}}}`,
			expectedText:    "wrapped",
			expectedVersion: 1,
		},
		{
			name:            "single element array",
			body:            `[{"summary":{"text":"from array"}}]`,
			expectedText:    "from array",
			expectedVersion: 1,
		},
		{
			name:            "envelope around array",
			body:            `{"json":[{"summary":{"text":"both"}}]}`,
			expectedText:    "both",
			expectedVersion: 1,
		},
		{
			name:            "already normalized editedSummary",
			body:            `{"editedSummary":{"text":"kept","version":3}}`,
			expectedText:    "kept",
			expectedVersion: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis, err := DecodeAnalysis([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.expectedText, analysis.EditedSummary.Text)
			assert.Equal(t, tt.expectedVersion, analysis.EditedSummary.Version)
		})
	}
}

func TestDecodeAnalysisTranscriptFallback(t *testing.T) {
	body := `{"summary":{"text":"s"},"transcript":[{"speakerName":"Ada","text":"hello"}]}`

	analysis, err := DecodeAnalysis([]byte(body))
	require.NoError(t, err)
	require.Len(t, analysis.RawTranscript, 1)
	assert.Equal(t, "Ada", analysis.RawTranscript[0].SpeakerName)
	assert.Equal(t, "hello", analysis.RawTranscript[0].Text)
}

func TestDecodeAnalysisActionItems(t *testing.T) {
	body := `{
		"summary":{"text":"s"},
		"actionItems":{
			"pm":["call the vendor",{"title":"send drawings","ownerName":"Ada"}],
			"otherParties":[]
		}
	}`

	analysis, err := DecodeAnalysis([]byte(body))
	require.NoError(t, err)
	require.Len(t, analysis.ActionItems.PM, 2)
	assert.Equal(t, "call the vendor", analysis.ActionItems.PM[0].Title)
	assert.Equal(t, "send drawings", analysis.ActionItems.PM[1].Title)
	assert.Equal(t, "Ada", analysis.ActionItems.PM[1].OwnerName)
}

func TestDecodeAnalysisErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty body", body: ""},
		{name: "whitespace only", body: "  \n "},
		{name: "no summary", body: `{"transcript":[]}`},
		{name: "empty array", body: `[]`},
		{name: "malformed json", body: `{"summary":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeAnalysis([]byte(tt.body))
			assert.Error(t, err)
		})
	}
}
