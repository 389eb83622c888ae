// Package ai calls the external chat-completions service that answers
// chat messages addressed to the assistant.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1/chat/completions"

	systemPrompt = "You are CollabAI, a helpful coding assistant."
	temperature  = 0.7

	// Answer when the service returns a well-formed but empty choice.
	fallbackReply = "I'm not sure about that."
)

// Failure classes. Each maps to a distinct user-facing message; only
// ErrUnavailable is a server-side fault worth logging as an error.
var (
	ErrRateLimited     = errors.New("ai: rate limited")
	ErrUnauthorized    = errors.New("ai: unauthorized or misconfigured")
	ErrContentRejected = errors.New("ai: content rejected")
	ErrUnavailable     = errors.New("ai: service unavailable")
)

// UserMessage translates a failure class into the system message
// posted into the room.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrRateLimited):
		return "CollabAI is getting too many requests right now. Please try again in a moment."
	case errors.Is(err, ErrUnauthorized):
		return "CollabAI is not configured on this server."
	case errors.Is(err, ErrContentRejected):
		return "CollabAI couldn't answer that message."
	default:
		return "CollabAI failed to respond."
	}
}

type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	model   string
}

func NewClient(apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		model:   model,
	}
}

// WithBaseURL overrides the endpoint, for tests.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = url
	return c
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Reply sends one user message and returns the generated answer.
// The wait is bounded by the client timeout; failures come back as
// one of the package's failure classes.
func (c *Client) Reply(ctx context.Context, message string) (string, error) {
	if c.apiKey == "" {
		return "", ErrUnauthorized
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: message},
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		log.Error().Str("module", "ai").Err(err).Msg("chat completion request failed")
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp.StatusCode); err != nil {
		if errors.Is(err, ErrUnavailable) {
			log.Error().Str("module", "ai").Int("status", resp.StatusCode).Msg("chat completion failed")
		}
		return "", err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		log.Error().Str("module", "ai").Err(err).Msg("bad chat completion response")
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return fallbackReply, nil
	}
	return parsed.Choices[0].Message.Content, nil
}

func classifyStatus(status int) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusTooManyRequests:
		return ErrRateLimited
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrUnauthorized
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return ErrContentRejected
	default:
		return ErrUnavailable
	}
}
