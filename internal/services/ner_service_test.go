package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/justsurfingit/job-extractor/internal/config"
	"github.com/justsurfingit/job-extractor/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateTokens(t *testing.T) {
	tokens := []TokenPrediction{
		{Entity: "I-LOC", Word: "New", Score: 0.9, Index: 5, Start: 10, End: 13},
		{Entity: "I-LOC", Word: "York", Score: 0.8, Index: 6, Start: 14, End: 18},
		{Entity: "I-ORG", Word: "Ac", Score: 0.7, Index: 9, Start: 25, End: 27},
		{Entity: "I-ORG", Word: "##me", Score: 0.9, Index: 10, Start: 27, End: 29},
		{Entity: "I-LOC", Word: "Paris", Score: 0.95, Index: 12, Start: 33, End: 38},
		{Entity: "B-LOC", Word: "Lyon", Score: 0.99, Index: 13, Start: 39, End: 43},
	}

	spans := AggregateTokens(tokens)
	require.Len(t, spans, 4)

	assert.Equal(t, "New York", spans[0].Word)
	assert.Equal(t, models.GroupLocation, spans[0].Group)
	assert.InDelta(t, 0.85, spans[0].Score, 1e-9)
	assert.Equal(t, 10, spans[0].Start)
	assert.Equal(t, 18, spans[0].End)

	assert.Equal(t, "Acme", spans[1].Word)
	assert.Equal(t, models.GroupOrganization, spans[1].Group)

	assert.Equal(t, "Paris", spans[2].Word)
	assert.Equal(t, "Lyon", spans[3].Word)
}

func TestAggregateTokens_SplitsOnGapsAndOutsideTokens(t *testing.T) {
	tokens := []TokenPrediction{
		{Entity: "I-LOC", Word: "Berlin", Index: 1},
		{Entity: "I-LOC", Word: "Munich", Index: 3},
		{Entity: "O", Word: "and", Index: 4},
		{Entity: "I-PER", Word: "Jane", Index: 5},
		{Entity: "I-DATE", Word: "Monday", Index: 6},
		{Entity: "I-PER", Word: "Doe", Index: 7},
	}

	spans := AggregateTokens(tokens)
	require.Len(t, spans, 4)
	assert.Equal(t, "Berlin", spans[0].Word)
	assert.Equal(t, "Munich", spans[1].Word)
	assert.Equal(t, "Jane", spans[2].Word)
	assert.Equal(t, "Doe", spans[3].Word)
}

func TestAggregateTokens_LeadingContinuationKept(t *testing.T) {
	spans := AggregateTokens([]TokenPrediction{
		{Entity: "I-LOC", Word: "##ark", Index: 2},
	})
	require.Len(t, spans, 1)
	assert.Equal(t, "##ark", spans[0].Word)
	assert.Equal(t, "ark", StripContinuation(spans[0].Word))
}

func TestAggregateTokens_Empty(t *testing.T) {
	assert.Empty(t, AggregateTokens(nil))
}

func TestNewRecognizer_HuggingFaceWarmupRetries(t *testing.T) {
	restore := warmupBackoff
	warmupBackoff = time.Millisecond
	t.Cleanup(func() { warmupBackoff = restore })

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":"Model is currently loading","estimated_time":20}`))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.HFAPIURL = server.URL
	cfg.WarmupAttempts = 3

	rec, err := NewRecognizer(context.Background(), &cfg)
	require.NoError(t, err)
	assert.IsType(t, &HFRecognizer{}, rec)
	assert.Equal(t, int32(2), calls.Load())
}

func TestNewRecognizer_WarmupFailsFastOnAuthError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Invalid credentials"}`))
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.HFAPIURL = server.URL
	cfg.WarmupAttempts = 5

	rec, err := NewRecognizer(context.Background(), &cfg)
	require.Error(t, err)
	assert.Nil(t, rec)
	assert.ErrorIs(t, err, ErrInferenceFailed)
	assert.Equal(t, int32(1), calls.Load())
}

func TestNewRecognizer_UnknownBackend(t *testing.T) {
	cfg := config.Default()
	cfg.NERBackend = "spacy"

	rec, err := NewRecognizer(context.Background(), &cfg)
	assert.ErrorIs(t, err, ErrUnknownBackend)
	assert.Nil(t, rec)
}
