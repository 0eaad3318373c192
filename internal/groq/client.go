// Package groq adapts the Groq OpenAI-compatible chat endpoint to the
// SummaryClient interface the core consumes. The core never talks to a
// language model directly.
package groq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	openai "github.com/sashabaranov/go-openai"

	"github.com/ytbrain/ytbrain/internal/domain"
)

const (
	// DefaultBaseURL is the Groq OpenAI-compatible endpoint.
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	// DefaultModel is the chat model used for summaries.
	DefaultModel = "llama-3.1-8b-instant"

	summaryMaxTokens = 800
)

// ErrNoAPIKey is returned when no API key is configured.
var ErrNoAPIKey = errors.New("groq api key not set")

// ChatAPI is the completion surface the client depends on.
type ChatAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client wraps the Groq chat API.
type Client struct {
	api   ChatAPI
	model string
}

// Config holds explicit client configuration.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

// NewClient creates a Client for the given configuration.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	apiCfg.BaseURL = cfg.BaseURL

	return &Client{
		api:   openai.NewClientWithConfig(apiCfg),
		model: cfg.Model,
	}, nil
}

// NewClientWithAPI creates a Client over a custom API implementation.
func NewClientWithAPI(api ChatAPI, model string) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{api: api, model: model}
}

const summaryPrompt = `Analyze this video transcript and return ONLY valid JSON.
No markdown, no explanation, just the JSON object.

{
  "overview": "3-4 sentence summary of the video",
  "deep_concepts": [
    {"name": "concept name", "explanation": "2 sentence explanation", "start_time": 0}
  ],
  "actionable_takeaways": ["takeaway 1", "takeaway 2", "takeaway 3", "takeaway 4", "takeaway 5"]
}

Include 4-5 deep_concepts and exactly 5 actionable_takeaways.
Use actual start_time seconds from the transcript context.

TRANSCRIPT:
`

// SummarizeTranscript asks the model for a structured JSON summary.
// Rate-limit and transport failures are retried with exponential backoff;
// other API errors surface immediately.
func (c *Client) SummarizeTranscript(ctx context.Context, transcript string) (*domain.VideoSummary, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: summaryPrompt + transcript},
		},
		MaxTokens:   summaryMaxTokens,
		Temperature: 0.1,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	var content string
	operation := func() error {
		resp, err := c.api.CreateChatCompletion(ctx, req)
		if err != nil {
			if retryable(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		if len(resp.Choices) == 0 {
			return backoff.Permanent(errors.New("no completion choices returned"))
		}
		content = resp.Choices[0].Message.Content
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 2 * time.Second
	policy.MaxElapsedTime = 30 * time.Second
	if err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, 2), ctx)); err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}

	var summary domain.VideoSummary
	if err := json.Unmarshal([]byte(content), &summary); err != nil {
		return nil, fmt.Errorf("summary response parse: %w", err)
	}
	return &summary, nil
}

// retryable reports whether the API error is rate limiting or a server
// fault worth retrying.
func retryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500
	}
	// Transport-level failures carry no status; retry them.
	return true
}
