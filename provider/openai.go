package provider

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// openAIProvider speaks the OpenAI chat completion API, optionally against
// a compatible third-party endpoint via a custom base URL.
type openAIProvider struct {
	client *openai.Client
	model  string
}

func newOpenAI(cfg Config) *openAIProvider {
	cc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		cc.BaseURL = cfg.BaseURL
	}
	cc.HTTPClient = makeHTTPClient(cfg.Proxy, cfg.effectiveTimeout())

	return &openAIProvider{
		client: openai.NewClientWithConfig(cc),
		model:  cfg.Model,
	}
}

func (p *openAIProvider) Name() string { return BackendOpenAI }

func (p *openAIProvider) Invoke(ctx context.Context, req Request) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("empty response from %s", p.model)
	}
	return resp.Choices[0].Message.Content, nil
}
