// Package groq talks to Groq's OpenAI-compatible chat completions API.
package groq

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/icyphotoget/perfume/internal/core/domain"
	"github.com/icyphotoget/perfume/internal/core/ports"
	"github.com/icyphotoget/perfume/internal/infrastructure/llm"
	"github.com/icyphotoget/perfume/internal/infrastructure/resilience"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1/"
	DefaultModel   = "llama-3.1-8b-instant"
)

var (
	_ ports.ProfileExtractor     = (*Client)(nil)
	_ ports.ExplanationGenerator = (*Client)(nil)
)

// ChatCompletionsService is the part of the openai-go client this adapter
// uses, so tests can substitute it.
type ChatCompletionsService interface {
	New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

type Options struct {
	BaseURL  string
	Model    string
	Executor *resilience.Executor
}

type Client struct {
	completions ChatCompletionsService
	model       string
	executor    *resilience.Executor
}

func New(apiKey string, options Options) *Client {
	baseURL := strings.TrimSpace(options.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	)
	return NewWithService(client.Chat.Completions, options)
}

func NewWithService(completions ChatCompletionsService, options Options) *Client {
	model := strings.TrimSpace(options.Model)
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		completions: completions,
		model:       model,
		executor:    options.Executor,
	}
}

func (c *Client) Model() string {
	return c.model
}

func (c *Client) Extract(ctx context.Context, answers []string) (domain.StructuredProfile, error) {
	if len(answers) == 0 {
		return domain.EmptyProfile(), nil
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.F(openai.ChatModel(c.model)),
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(llm.ProfileSystemPrompt),
			openai.UserMessage(llm.JoinAnswers(answers)),
		}),
		ResponseFormat: openai.F[openai.ChatCompletionNewParamsResponseFormatUnion](
			openai.ResponseFormatJSONObjectParam{
				Type: openai.F(openai.ResponseFormatJSONObjectTypeJSONObject),
			},
		),
		Temperature: openai.F(0.2),
		MaxTokens:   openai.F(int64(300)),
	}

	content, err := c.complete(ctx, "groq.extract_profile", params)
	if err != nil {
		return domain.StructuredProfile{}, err
	}
	return llm.ParseProfile(content)
}

func (c *Client) Explain(ctx context.Context, profile *domain.StructuredProfile, item domain.Item) (string, error) {
	userContent, err := llm.ExplanationUserContent(profile, item)
	if err != nil {
		return "", err
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.F(openai.ChatModel(c.model)),
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(llm.ExplanationSystemPrompt),
			openai.UserMessage(userContent),
		}),
		Temperature: openai.F(0.5),
		MaxTokens:   openai.F(int64(120)),
	}
	return c.complete(ctx, "groq.explain", params)
}

func (c *Client) complete(ctx context.Context, operation string, params openai.ChatCompletionNewParams) (string, error) {
	content, err := resilience.Do(ctx, c.executor, operation, func(callCtx context.Context) (string, error) {
		resp, err := c.completions.New(callCtx, params)
		if err != nil {
			return "", fmt.Errorf("groq chat completion: %w", err)
		}
		if resp == nil || len(resp.Choices) == 0 {
			return "", domain.WrapError(domain.ErrInvalidResponse, operation, errors.New("no choices returned"))
		}
		text := strings.TrimSpace(resp.Choices[0].Message.Content)
		if text == "" {
			return "", domain.WrapError(domain.ErrInvalidResponse, operation, errors.New("empty content"))
		}
		return text, nil
	}, classifyGroqError)
	if err != nil {
		return "", wrapTemporaryIfNeeded(operation, err)
	}
	return content, nil
}
