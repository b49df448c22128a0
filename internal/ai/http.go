package ai

import (
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// newOpenAIClient points the SDK at baseURL. The per-attempt deadline comes
// from the request context, the client timeout only bounds stuck sockets.
func newOpenAIClient(baseURL, apiKey string, timeout time.Duration) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	cfg.HTTPClient = &http.Client{Timeout: timeout}
	return openai.NewClientWithConfig(cfg)
}
