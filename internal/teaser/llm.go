package teaser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// CompletionRequest is one narrative request to an LLM transport.
type CompletionRequest struct {
	Provider     string
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
}

// LLMClient abstracts the narrative backend so the service can run against
// the edge proxy, the OpenAI API directly, or a test fake.
type LLMClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// ProxyClient calls the edge proxy endpoint that fronts all AI providers.
// The proxy holds the upstream API keys; this client only names the provider.
type ProxyClient struct {
	client *http.Client
	url    string
}

func NewProxyClient(url string) *ProxyClient {
	return &ProxyClient{client: &http.Client{}, url: url}
}

func (c *ProxyClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"provider":     req.Provider,
		"systemPrompt": req.SystemPrompt,
		"userPrompt":   req.UserPrompt,
		"maxTokens":    req.MaxTokens,
	})
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("ai proxy error %d: %s", resp.StatusCode, string(body))
	}

	var out struct {
		Success bool `json:"success"`
		Data    *struct {
			Content string `json:"content"`
		} `json:"data"`
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode ai proxy response: %w", err)
	}
	if !out.Success || out.Data == nil {
		return "", fmt.Errorf("ai proxy failure: %s", out.Error)
	}
	return out.Data.Content, nil
}

// openaiClient talks to the OpenAI API directly for deployments that hold an
// API key server-side.
type openaiClient struct {
	client openai.Client
	model  string
}

func NewOpenAIClient(apiKey, model string) LLMClient {
	return &openaiClient{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (c *openaiClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.SystemPrompt),
			openai.UserMessage(req.UserPrompt),
		},
		MaxTokens: openai.Int(int64(req.MaxTokens)),
	})
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no choices in LLM response")
	}
	return completion.Choices[0].Message.Content, nil
}
