package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/justsurfingit/job-extractor/internal/config"
	"github.com/justsurfingit/job-extractor/internal/models"
)

// NERModel is the pretrained token-classification model the service runs against.
const NERModel = "dbmdz/bert-large-cased-finetuned-conll03-english"

// continuationMarker prefixes WordPiece tokens that continue the previous token.
const continuationMarker = "##"

var (
	ErrInferenceFailed = errors.New("entity recognition failed")
	ErrUnknownBackend  = errors.New("unknown recognizer backend")
)

// EntityRecognizer turns raw text into whole-word entity spans.
// Implementations are safe for concurrent use once constructed.
type EntityRecognizer interface {
	Recognize(ctx context.Context, text string) ([]models.EntitySpan, error)
}

// warmer is implemented by recognizers that need a probe call before serving.
type warmer interface {
	Warmup(ctx context.Context) error
}

// TokenPrediction is a single sub-word prediction before aggregation.
type TokenPrediction struct {
	Entity string  `json:"entity"`
	Word   string  `json:"word"`
	Score  float64 `json:"score"`
	Index  int     `json:"index"`
	Start  int     `json:"start"`
	End    int     `json:"end"`
}

// NewRecognizer builds the configured backend and warms it up. An error here
// means the model is unusable and the caller must not start serving.
func NewRecognizer(ctx context.Context, cfg *config.Config) (EntityRecognizer, error) {
	var rec EntityRecognizer
	switch cfg.NERBackend {
	case config.BackendHuggingFace:
		rec = NewHFRecognizer(cfg.HFAPIURL, cfg.HFAPIToken, cfg.NERTimeout)
	case config.BackendLLM:
		llm, err := NewLLMService(ctx, cfg)
		if err != nil {
			return nil, err
		}
		rec = llm
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.NERBackend)
	}

	if w, ok := rec.(warmer); ok {
		log.Printf("⏳ Warming up %s recognizer...", cfg.NERBackend)
		err := retry(ctx, cfg.WarmupAttempts, warmupBackoff, func() error {
			return w.Warmup(ctx)
		})
		if err != nil {
			return nil, fmt.Errorf("recognizer warmup: %w", err)
		}
	}
	log.Printf("✅ %s recognizer ready", cfg.NERBackend)
	return rec, nil
}

// AggregateTokens merges sub-word predictions into whole-word spans.
// Adjacent tokens sharing an entity type are joined unless the later one
// opens a new entity (B- prefix). Outside tokens and unknown labels are dropped.
func AggregateTokens(tokens []TokenPrediction) []models.EntitySpan {
	var spans []models.EntitySpan
	var group []TokenPrediction
	var groupType models.EntityGroup

	flush := func() {
		if len(group) > 0 {
			spans = append(spans, mergeGroup(group, groupType))
		}
		group = nil
	}

	for _, tok := range tokens {
		bi, tag := splitTag(tok.Entity)
		eg, ok := models.ParseEntityGroup(tag)
		if !ok {
			flush()
			continue
		}

		if len(group) > 0 {
			last := group[len(group)-1]
			adjacent := tok.Index == 0 || last.Index == 0 || tok.Index == last.Index+1
			if eg == groupType && bi != "B" && adjacent {
				group = append(group, tok)
				continue
			}
		}
		flush()
		group = []TokenPrediction{tok}
		groupType = eg
	}
	flush()
	return spans
}

func splitTag(entity string) (string, string) {
	if strings.HasPrefix(entity, "B-") {
		return "B", entity[2:]
	}
	if strings.HasPrefix(entity, "I-") {
		return "I", entity[2:]
	}
	return "I", entity
}

func mergeGroup(group []TokenPrediction, eg models.EntityGroup) models.EntitySpan {
	var sb strings.Builder
	var total float64
	for i, tok := range group {
		total += tok.Score
		switch {
		case i == 0:
			sb.WriteString(tok.Word)
		case strings.HasPrefix(tok.Word, continuationMarker):
			sb.WriteString(strings.TrimPrefix(tok.Word, continuationMarker))
		default:
			sb.WriteString(" ")
			sb.WriteString(tok.Word)
		}
	}
	return models.EntitySpan{
		Word:  sb.String(),
		Group: eg,
		Score: total / float64(len(group)),
		Start: group[0].Start,
		End:   group[len(group)-1].End,
	}
}

// StripContinuation removes every sub-word continuation marker from s.
func StripContinuation(s string) string {
	return strings.ReplaceAll(s, continuationMarker, "")
}
