package ollama

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/icyphotoget/perfume/internal/core/domain"
	"github.com/icyphotoget/perfume/internal/core/ports"
	"github.com/icyphotoget/perfume/internal/infrastructure/llm"
	"github.com/icyphotoget/perfume/internal/infrastructure/resilience"
)

var (
	_ ports.ProfileExtractor     = (*Client)(nil)
	_ ports.ExplanationGenerator = (*Client)(nil)
)

type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(baseURL, model string) *Client {
	return NewWithExecutor(baseURL, model, nil)
}

func NewWithExecutor(baseURL, model string, executor *resilience.Executor) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		executor:   executor,
	}
}

func (c *Client) Model() string {
	return c.model
}

func (c *Client) Extract(ctx context.Context, answers []string) (domain.StructuredProfile, error) {
	if len(answers) == 0 {
		return domain.EmptyProfile(), nil
	}
	respText, err := c.generateJSON(ctx, buildProfilePrompt(answers), generationOptions{Temperature: 0.2, NumPredict: 300})
	if err != nil {
		return domain.StructuredProfile{}, err
	}
	return llm.ParseProfile(respText)
}

func (c *Client) Explain(ctx context.Context, profile *domain.StructuredProfile, item domain.Item) (string, error) {
	prompt, err := buildExplanationPrompt(profile, item)
	if err != nil {
		return "", err
	}
	return c.generateText(ctx, prompt, generationOptions{Temperature: 0.5, NumPredict: 120})
}

type generationOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

func (c *Client) generateJSON(ctx context.Context, prompt string, options generationOptions) (string, error) {
	reqBody := map[string]any{
		"model":   c.model,
		"prompt":  prompt,
		"stream":  false,
		"format":  "json",
		"options": options,
	}
	return c.generate(ctx, "extract_profile", reqBody)
}

func (c *Client) generateText(ctx context.Context, prompt string, options generationOptions) (string, error) {
	reqBody := map[string]any{
		"model":   c.model,
		"prompt":  prompt,
		"stream":  false,
		"options": options,
	}
	return c.generate(ctx, "explain", reqBody)
}

func (c *Client) generate(ctx context.Context, operation string, reqBody map[string]any) (string, error) {
	text, err := resilience.Do(ctx, c.executor, "ollama."+operation, func(callCtx context.Context) (string, error) {
		var response struct {
			Response string `json:"response"`
		}
		if err := c.postJSON(callCtx, "/api/generate", reqBody, &response, operation); err != nil {
			return "", err
		}
		return strings.TrimSpace(response.Response), nil
	}, classifyOllamaError)
	if err != nil {
		return "", wrapTemporaryIfNeeded("ollama "+operation, err)
	}
	return text, nil
}
