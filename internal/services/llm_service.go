package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/justsurfingit/job-extractor/internal/config"
	"github.com/justsurfingit/job-extractor/internal/models"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
)

const maxPromptChars = 20000

const entityPrompt = `
You are a named entity recognizer trained on the CoNLL-2003 scheme.

### INSTRUCTIONS:
1. Find every person (PER), organization (ORG), location (LOC) and miscellaneous (MISC) entity in the text.
2. Copy each entity exactly as written. Do not normalize, translate or merge entities.
3. List entities in the order they appear. Repeat an entity each time it appears.
4. Output valid JSON only. Do not wrap the output in markdown code blocks.

### OUTPUT SCHEMA:
[
    {"entity_group": "LOC", "word": "New York", "score": 0.98}
]

Return [] when the text has no entities.

### TEXT:
%s
`

// LLMService recognizes entities by prompting a chat model through langchaingo.
type LLMService struct {
	Client  llms.Model
	timeout time.Duration
}

type llmEntity struct {
	EntityGroup string  `json:"entity_group"`
	Word        string  `json:"word"`
	Score       float64 `json:"score"`
}

// NewLLMService initializes the client for the configured provider.
func NewLLMService(ctx context.Context, cfg *config.Config) (*LLMService, error) {
	var (
		client llms.Model
		err    error
	)
	switch cfg.LLMProvider {
	case config.ProviderGoogleAI:
		client, err = googleai.New(ctx,
			googleai.WithAPIKey(cfg.GeminiAPIKey),
			googleai.WithDefaultModel(cfg.GeminiModel),
		)
	case config.ProviderOllama:
		client, err = ollama.New(
			ollama.WithServerURL(cfg.OllamaURL),
			ollama.WithModel(cfg.OllamaModel),
		)
	default:
		return nil, fmt.Errorf("%w: llm provider %q", ErrUnknownBackend, cfg.LLMProvider)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s client: %w", cfg.LLMProvider, err)
	}
	return NewLLMServiceWithModel(client, cfg.NERTimeout), nil
}

func NewLLMServiceWithModel(client llms.Model, timeout time.Duration) *LLMService {
	return &LLMService{Client: client, timeout: timeout}
}

// Warmup checks the provider answers at all before the server starts.
func (s *LLMService) Warmup(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := llms.GenerateFromSinglePrompt(ctx, s.Client, "Reply with OK."); err != nil {
		return fmt.Errorf("%w: %v", ErrInferenceFailed, err)
	}
	return nil
}

func (s *LLMService) Recognize(ctx context.Context, text string) ([]models.EntitySpan, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	text = truncateUTF8(text, maxPromptChars)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := llms.GenerateFromSinglePrompt(ctx, s.Client, fmt.Sprintf(entityPrompt, text),
		llms.WithTemperature(0),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInferenceFailed, err)
	}

	var entities []llmEntity
	if err := json.Unmarshal([]byte(jsonArrayPayload(resp)), &entities); err != nil {
		return nil, fmt.Errorf("%w: parse model output: %v", ErrInferenceFailed, err)
	}

	spans := make([]models.EntitySpan, 0, len(entities))
	for _, e := range entities {
		eg, ok := models.ParseEntityGroup(e.EntityGroup)
		if !ok || strings.TrimSpace(e.Word) == "" {
			continue
		}
		spans = append(spans, models.EntitySpan{Word: e.Word, Group: eg, Score: e.Score})
	}
	return spans, nil
}

// truncateUTF8 cuts s to at most n bytes without splitting a character.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// jsonArrayPayload pulls the JSON array out of a model reply, dropping
// markdown fences and any prose the model put around it.
func jsonArrayPayload(reply string) string {
	start := strings.IndexByte(reply, '[')
	end := strings.LastIndexByte(reply, ']')
	if start < 0 || end < start {
		return strings.TrimSpace(reply)
	}
	return reply[start : end+1]
}
