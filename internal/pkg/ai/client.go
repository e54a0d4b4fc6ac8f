// Package ai provides the inference API client for gitquill.
package ai

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	apperrors "github.com/gitquill/gitquill/internal/pkg/errors"
	"github.com/gitquill/gitquill/internal/pkg/git"
)

const (
	// DefaultModel is the model used when none is configured.
	DefaultModel = "openai/gpt-4.1"

	// GenerationTemperature fixes generation at temperature zero so the
	// same diff yields the same draft. A literal 0 would be dropped from
	// the request by the client's omitempty tag; the library documents
	// the smallest nonzero float as the way to send an effective zero.
	GenerationTemperature float32 = math.SmallestNonzeroFloat32

	// DefaultTimeout is the default timeout for API calls.
	DefaultTimeout = 30 * time.Second
)

// GenerateRequest contains the data needed to generate a commit message.
type GenerateRequest struct {
	Diff  *git.Diff
	Model string
}

// Client defines the interface for the inference API.
type Client interface {
	// ListModels returns the model identifiers the endpoint offers, in the
	// order the API returned them. Communication errors degrade to an
	// empty list with a logged diagnostic.
	ListModels(ctx context.Context) []string

	// GenerateCommitMessage returns the trimmed text of the first choice.
	GenerateCommitMessage(ctx context.Context, req *GenerateRequest) (string, error)
}

// OpenAIClient implements Client against an OpenAI-compatible endpoint.
type OpenAIClient struct {
	client  *openai.Client
	baseURL string
	prompts *PromptTemplate
}

// NewOpenAIClient creates a client for the given credentials.
func NewOpenAIClient(apiKey, baseURL string) (*OpenAIClient, error) {
	if apiKey == "" || baseURL == "" {
		return nil, apperrors.NewMissingCredentialsError()
	}

	clientConfig := openai.DefaultConfig(apiKey)
	clientConfig.BaseURL = baseURL

	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     90 * time.Second,
	}
	clientConfig.HTTPClient = &http.Client{
		Timeout:   DefaultTimeout,
		Transport: transport,
	}

	prompts, err := NewPromptTemplate()
	if err != nil {
		return nil, err
	}

	return &OpenAIClient{
		client:  openai.NewClientWithConfig(clientConfig),
		baseURL: baseURL,
		prompts: prompts,
	}, nil
}

// ListModels queries the endpoint for available model identifiers.
func (c *OpenAIClient) ListModels(ctx context.Context) []string {
	list, err := c.client.ListModels(ctx)
	if err != nil {
		apperrors.Error("failed to list models: %v", err)
		return nil
	}

	ids := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		ids = append(ids, m.ID)
	}
	return ids
}

// GenerateCommitMessage sends the diff to the chat-completion endpoint with
// a single user-role instruction and returns the first choice, trimmed.
func (c *OpenAIClient) GenerateCommitMessage(ctx context.Context, req *GenerateRequest) (string, error) {
	if req == nil || req.Diff == nil {
		return "", errors.New("request cannot be nil")
	}

	prompt, err := c.prompts.Render(req.Diff)
	if err != nil {
		return "", apperrors.NewCompletionError(err)
	}

	chatReq := openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: GenerationTemperature,
	}

	apperrors.LogAPIRequest(c.baseURL, req.Model, len(prompt))
	startTime := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", wrapAPIError(c.baseURL, err)
	}

	if len(resp.Choices) == 0 {
		return "", apperrors.New(apperrors.ErrCompletionFailed, "no choices returned by the API")
	}

	message := strings.TrimSpace(resp.Choices[0].Message.Content)
	apperrors.LogAPIResponse(c.baseURL, len(message), time.Since(startTime))

	return message, nil
}

// wrapAPIError wraps an API error with a user-friendly message.
func wrapAPIError(endpoint string, err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return apperrors.NewAuthenticationError(endpoint)
		default:
			return apperrors.NewCompletionError(err)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewTimeoutError(err)
	}

	return apperrors.NewCompletionError(err)
}
