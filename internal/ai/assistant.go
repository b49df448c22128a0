package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
)

const modelsCacheKey = "models"

type Config struct {
	BaseURL        string
	APIKey         string
	Models         []string
	AttemptTimeout time.Duration
	MaxTokens      int
}

// ModelChain tries each configured model in order until one answers.
type ModelChain struct {
	client         *openai.Client
	models         []string
	attemptTimeout time.Duration
	maxTokens      int
	cache          *cache.Cache
	logger         zerolog.Logger
}

type RateLimitError struct {
	Model string
}

func (r RateLimitError) Error() string {
	return fmt.Sprintf("model %s rate limited", r.Model)
}

func NewModelChain(cfg Config, logger zerolog.Logger) (*ModelChain, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" || strings.TrimSpace(cfg.APIKey) == "" || len(cfg.Models) == 0 {
		return nil, ErrNotConfigured
	}
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = 20 * time.Second
	}
	return &ModelChain{
		client:         newOpenAIClient(cfg.BaseURL, cfg.APIKey, cfg.AttemptTimeout+5*time.Second),
		models:         cfg.Models,
		attemptTimeout: cfg.AttemptTimeout,
		maxTokens:      cfg.MaxTokens,
		cache:          cache.New(5*time.Minute, 10*time.Minute),
		logger:         logger.With().Str("component", "genai").Logger(),
	}, nil
}

func (m *ModelChain) Models() []string {
	return append([]string(nil), m.models...)
}

func (m *ModelChain) Generate(ctx context.Context, prompt string) (string, error) {
	var errs []error
	for _, model := range m.models {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		start := time.Now()
		out, err := m.attempt(ctx, model, prompt)
		if err == nil {
			m.logger.Debug().Str("model", model).Dur("elapsed", time.Since(start)).Msg("generation completed")
			return out, nil
		}
		m.logger.Warn().Err(err).Str("model", model).Dur("elapsed", time.Since(start)).Msg("generation failed, trying next model")
		errs = append(errs, err)
	}
	return "", fmt.Errorf("all models failed: %w", errors.Join(errs...))
}

func (m *ModelChain) attempt(ctx context.Context, model, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, m.attemptTimeout)
	defer cancel()

	resp, err := m.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		MaxTokens:   m.maxTokens,
		Temperature: 0.2,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return "", RateLimitError{Model: model}
		}
		return "", fmt.Errorf("model %s: %w", model, err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("model %s: %w", model, ErrEmptyResponse)
	}
	return resp.Choices[0].Message.Content, nil
}

// ListModels returns the endpoint's model ids, sorted. Results are cached
// for five minutes.
func (m *ModelChain) ListModels(ctx context.Context) ([]string, error) {
	if v, ok := m.cache.Get(modelsCacheKey); ok {
		return v.([]string), nil
	}
	list, err := m.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	ids := make([]string, 0, len(list.Models))
	for _, mdl := range list.Models {
		ids = append(ids, strings.TrimPrefix(mdl.ID, "models/"))
	}
	sort.Strings(ids)
	m.cache.Set(modelsCacheKey, ids, cache.DefaultExpiration)
	return ids, nil
}
