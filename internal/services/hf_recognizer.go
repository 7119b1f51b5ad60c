package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/justsurfingit/job-extractor/internal/models"
)

const warmupText = "Warmup request from Berlin."

// HFRecognizer calls a HuggingFace-style token-classification endpoint and
// aggregates the returned sub-word predictions locally.
type HFRecognizer struct {
	endpoint string
	token    string
	client   *http.Client
}

type hfRequest struct {
	Inputs     string         `json:"inputs"`
	Parameters hfParameters   `json:"parameters"`
	Options    map[string]any `json:"options,omitempty"`
}

type hfParameters struct {
	AggregationStrategy string `json:"aggregation_strategy"`
}

// hfPrediction covers both raw token output ("entity") and
// server-side aggregated output ("entity_group").
type hfPrediction struct {
	Entity      string  `json:"entity"`
	EntityGroup string  `json:"entity_group"`
	Word        string  `json:"word"`
	Score       float64 `json:"score"`
	Index       int     `json:"index"`
	Start       int     `json:"start"`
	End         int     `json:"end"`
}

func NewHFRecognizer(baseURL, token string, timeout time.Duration) *HFRecognizer {
	return &HFRecognizer{
		endpoint: strings.TrimRight(baseURL, "/") + "/" + NERModel,
		token:    token,
		client:   &http.Client{Timeout: timeout},
	}
}

// Warmup forces the remote model to load. It waits for the model instead of
// failing fast on a cold endpoint.
func (r *HFRecognizer) Warmup(ctx context.Context) error {
	_, err := r.infer(ctx, warmupText, true)
	return err
}

func (r *HFRecognizer) Recognize(ctx context.Context, text string) ([]models.EntitySpan, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	return r.infer(ctx, text, false)
}

func (r *HFRecognizer) infer(ctx context.Context, text string, waitForModel bool) ([]models.EntitySpan, error) {
	body := hfRequest{
		Inputs:     text,
		Parameters: hfParameters{AggregationStrategy: "none"},
	}
	if waitForModel {
		body.Options = map[string]any{"wait_for_model": true}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInferenceFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrInferenceFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("%w: status %d: %s", ErrInferenceFailed, resp.StatusCode, strings.TrimSpace(string(raw)))
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound, http.StatusBadRequest:
			return nil, permanent(err)
		}
		return nil, err
	}

	var preds []hfPrediction
	if err := json.Unmarshal(raw, &preds); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrInferenceFailed, err)
	}
	return toSpans(preds), nil
}

func toSpans(preds []hfPrediction) []models.EntitySpan {
	if len(preds) > 0 && preds[0].EntityGroup != "" {
		spans := make([]models.EntitySpan, 0, len(preds))
		for _, p := range preds {
			eg, ok := models.ParseEntityGroup(p.EntityGroup)
			if !ok {
				continue
			}
			spans = append(spans, models.EntitySpan{
				Word:  p.Word,
				Group: eg,
				Score: p.Score,
				Start: p.Start,
				End:   p.End,
			})
		}
		return spans
	}

	tokens := make([]TokenPrediction, len(preds))
	for i, p := range preds {
		tokens[i] = TokenPrediction{
			Entity: p.Entity,
			Word:   p.Word,
			Score:  p.Score,
			Index:  p.Index,
			Start:  p.Start,
			End:    p.End,
		}
	}
	return AggregateTokens(tokens)
}
