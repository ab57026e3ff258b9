// Package generate produces example text for new cards via an
// OpenAI-compatible chat-completions endpoint. Generation is a
// best-effort enrichment: a card is stored whether or not the
// generator call succeeds.
package generate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/avast/retry-go/v4"
	"resty.dev/v3"

	"github.com/ekoshkin/recallbox/internal/client/models"
	"github.com/ekoshkin/recallbox/internal/common"
)

// Client talks to an OpenAI-compatible chat-completions API.
type Client struct {
	httpClient       *resty.Client
	apiKey           string
	model            string
	maxRetryAttempts uint
}

func NewClient(baseURL, apiKey, model string, retryAttempts uint) *Client {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetHeader("Authorization", "Bearer "+apiKey)
	client.SetHeader("Content-Type", "application/json")

	return &Client{
		httpClient:       client,
		apiKey:           apiKey,
		model:            model,
		maxRetryAttempts: retryAttempts,
	}
}

func (c *Client) Close() error {
	return c.httpClient.Close()
}

type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float32   `json:"temperature,omitempty"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []choice `json:"choices"`
}

type choice struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate returns model-produced text for the given card input. It fails
// fast with common.ErrAPIKeyMissing when no key is configured and retries
// transient failures with exponential backoff.
func (c *Client) Generate(ctx context.Context, category models.Category, input, topic string) (string, error) {
	if c.apiKey == "" {
		return "", common.ErrAPIKeyMissing
	}

	var result string
	err := retry.Do(
		func() error {
			text, err := c.generate(ctx, category, input, topic)
			if err != nil {
				if !isRetryable(err) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			result = text
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.maxRetryAttempts+1),
	)
	if err != nil {
		return "", err
	}
	return result, nil
}

func (c *Client) generate(ctx context.Context, category models.Category, input, topic string) (string, error) {
	body := chatCompletionRequest{
		Model: c.model,
		Messages: []message{
			{Role: "user", Content: buildPrompt(category, input, topic)},
		},
		MaxTokens:   300,
		Temperature: 0.7,
	}

	var out chatCompletionResponse
	var apiErr apiError
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		SetError(&apiErr).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	if resp.StatusCode() == http.StatusTooManyRequests {
		return "", common.ErrRateLimited
	}
	if resp.IsError() {
		msg := apiErr.Error.Message
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode())
		}
		if resp.StatusCode() >= http.StatusInternalServerError {
			return "", fmt.Errorf("%w: %s", common.ErrUnavailable, msg)
		}
		return "", fmt.Errorf("generator error: %s", msg)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("generator returned no choices")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

func isRetryable(err error) bool {
	return errors.Is(err, common.ErrUnavailable) || errors.Is(err, common.ErrRateLimited)
}
