// Package reasoning talks to an OpenAI-compatible chat completions service.
package reasoning

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/ericogr/creature-arena/internal/constants"
	"github.com/ericogr/creature-arena/internal/logging"
)

// Completer returns free-form text for a system and user prompt.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

type Options struct {
	BaseURL   string
	Model     string
	Timeout   time.Duration
	MaxTokens int
	// TokenSource authenticates requests; nil sends none.
	TokenSource oauth2.TokenSource
}

// Client is a chat completions client.
type Client struct {
	baseURL    string
	model      string
	maxTokens  int
	httpClient *http.Client
}

func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = constants.OpenAIBaseURL
	}
	if opts.Model == "" {
		opts.Model = constants.OpenAIChatModel
	}
	if opts.Timeout <= 0 {
		opts.Timeout = constants.DefaultReasoningTimeout
	}
	var transport http.RoundTripper = http.DefaultTransport
	if opts.TokenSource != nil {
		transport = &oauth2.Transport{Source: opts.TokenSource, Base: http.DefaultTransport}
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		model:      opts.Model,
		maxTokens:  opts.MaxTokens,
		httpClient: &http.Client{Timeout: opts.Timeout, Transport: transport},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model               string        `json:"model"`
	Messages            []chatMessage `json:"messages"`
	MaxCompletionTokens int           `json:"max_completion_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete posts one chat completion and returns the trimmed content of the
// first choice. Every failure is a *ServiceError.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxCompletionTokens: c.maxTokens,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", &ServiceError{Kind: KindResponse, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+constants.OpenAIChatCompletionsPath, bytes.NewReader(b))
	if err != nil {
		return "", &ServiceError{Kind: KindConnectivity, Err: err}
	}
	req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", classify(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", &ServiceError{Kind: KindResponse, Status: resp.StatusCode, Err: errors.New(strings.TrimSpace(string(body)))}
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return "", classify(ctx, cerr)
		}
		return "", &ServiceError{Kind: KindResponse, Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(out.Choices) == 0 {
		return "", &ServiceError{Kind: KindResponse, Err: errors.New("empty response")}
	}
	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return "", &ServiceError{Kind: KindResponse, Err: errors.New("empty content")}
	}
	logging.Debug("reasoning completion", logging.Fields{constants.LogFieldModel: c.model, constants.LogFieldDuration: time.Since(start).Milliseconds()})
	return text, nil
}

func classify(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &ServiceError{Kind: KindTimeout, Err: err}
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return &ServiceError{Kind: KindTimeout, Err: err}
	}
	return &ServiceError{Kind: KindConnectivity, Err: err}
}
