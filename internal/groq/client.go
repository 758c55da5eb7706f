// Package groq wraps the Groq chat-completion API: model listing over plain
// HTTP and completions through langchaingo's OpenAI-compatible provider.
package groq

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is Groq's OpenAI-compatible endpoint.
const DefaultBaseURL = "https://api.groq.com/openai/v1"

const (
	defaultTemperature = 0.3
	defaultMaxTokens   = 8192
)

// Model IDs containing any of these keywords are not chat models (speech,
// audio, guard models) and are filtered out of listings.
var nonTextGenerationKeywords = []string{"whisper", "tts", "playai", "distil"}

// Client issues requests against the Groq API on behalf of a single API key.
type Client struct {
	apiKey      string
	baseURL     string
	httpc       *http.Client
	limiter     *rate.Limiter
	temperature float64
	maxTokens   int
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different OpenAI-compatible endpoint.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// WithRequestsPerMinute paces outgoing completions so map-phase bursts stay
// under the provider's RPM limit. Zero disables pacing.
func WithRequestsPerMinute(rpm int) Option {
	return func(c *Client) {
		if rpm > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1)
		}
	}
}

// WithTemperature sets the default sampling temperature for completions.
func WithTemperature(t float64) Option {
	return func(c *Client) { c.temperature = t }
}

// WithMaxTokens sets the default output token cap for completions.
func WithMaxTokens(n int) Option {
	return func(c *Client) { c.maxTokens = n }
}

// NewClient creates a client for the given API key.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		httpc:   &http.Client{Timeout: 120 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// isTextGenerationModel reports whether the model ID looks like a chat model.
func isTextGenerationModel(modelID string) bool {
	lower := strings.ToLower(modelID)
	for _, kw := range nonTextGenerationKeywords {
		if strings.Contains(lower, kw) {
			return false
		}
	}
	return true
}

// ListModels fetches the provider's model list and returns the IDs of
// text-generation-capable models, preserving the provider's order.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	url := c.baseURL + "/models"
	log.Debug().Str("url", url).Msg("Fetching available models")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &AuthError{Err: fmt.Errorf("model list returned status %d", resp.StatusCode)}
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &RateLimitError{Err: fmt.Errorf("model list returned status %d", resp.StatusCode)}
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &NetworkError{Err: fmt.Errorf("model list returned status %d: %s", resp.StatusCode, body)}
	}

	var payload struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("decoding model list: %w", err)}
	}

	var models []string
	for _, m := range payload.Data {
		if isTextGenerationModel(m.ID) {
			models = append(models, m.ID)
		}
	}

	log.Info().
		Int("total", len(payload.Data)).
		Int("text_generation", len(models)).
		Msg("Fetched model list")

	return models, nil
}

// CompletionRequest describes a single chat completion.
type CompletionRequest struct {
	Model        string
	SystemPrompt string
	UserContent  string
	Temperature  float64 // 0 means the default (0.3)
	MaxTokens    int     // 0 means the default (8192)
}

// Usage carries the provider's token accounting for one completion.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Completion is the result of a single chat completion.
type Completion struct {
	Content string        `json:"content"`
	Model   string        `json:"model"`
	Usage   Usage         `json:"usage"`
	Elapsed time.Duration `json:"elapsed"`
}

// Complete sends one system+user message pair and returns the generated text.
// Errors are classified into AuthError, RateLimitError, and NetworkError; no
// retry is performed here.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &NetworkError{Err: err}
		}
	}

	temperature := req.Temperature
	if temperature == 0 {
		temperature = c.temperature
	}
	if temperature == 0 {
		temperature = defaultTemperature
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.maxTokens
	}
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	log.Debug().
		Str("model", req.Model).
		Int("system_chars", len(req.SystemPrompt)).
		Int("user_chars", len(req.UserContent)).
		Msg("Calling chat completion")

	llm, err := openai.New(
		openai.WithToken(c.apiKey),
		openai.WithBaseURL(c.baseURL),
		openai.WithModel(req.Model),
		openai.WithHTTPClient(c.httpc),
	)
	if err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("initializing LLM client: %w", err)}
	}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, req.SystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, req.UserContent),
	}

	start := time.Now()
	resp, err := llm.GenerateContent(ctx, messages,
		llms.WithTemperature(temperature),
		llms.WithMaxTokens(maxTokens),
	)
	if err != nil {
		return nil, classifyCompletionError(err)
	}
	elapsed := time.Since(start)

	if len(resp.Choices) == 0 {
		return nil, &NetworkError{Err: fmt.Errorf("provider returned no choices")}
	}
	choice := resp.Choices[0]

	completion := &Completion{
		Content: choice.Content,
		Model:   req.Model,
		Usage:   usageFromGenerationInfo(choice.GenerationInfo),
		Elapsed: elapsed,
	}

	log.Info().
		Str("model", req.Model).
		Int("response_chars", len(completion.Content)).
		Dur("elapsed", elapsed).
		Msg("Chat completion received")

	return completion, nil
}

// usageFromGenerationInfo pulls token counts out of langchaingo's
// provider-specific generation info map.
func usageFromGenerationInfo(info map[string]any) Usage {
	var u Usage
	if v, ok := info["PromptTokens"].(int); ok {
		u.PromptTokens = v
	}
	if v, ok := info["CompletionTokens"].(int); ok {
		u.CompletionTokens = v
	}
	if v, ok := info["TotalTokens"].(int); ok {
		u.TotalTokens = v
	}
	if u.TotalTokens == 0 {
		u.TotalTokens = u.PromptTokens + u.CompletionTokens
	}
	return u
}

// classifyCompletionError maps provider failures onto the error kinds the
// workflow layer reports to users.
func classifyCompletionError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "401") || strings.Contains(msg, "invalid api key") ||
		strings.Contains(msg, "invalid_api_key") || strings.Contains(msg, "unauthorized"):
		return &AuthError{Err: err}
	case strings.Contains(msg, "429") || strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "rate_limit"):
		return &RateLimitError{Err: err}
	default:
		return &NetworkError{Err: err}
	}
}
