package translate

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// Compatible implements Translator for DeepSeek and any other endpoint that
// speaks the OpenAI chat completions protocol.
type Compatible struct {
	client   *openai.Client
	model    string
	provider string
}

// NewCompatible creates a translator for an OpenAI-compatible endpoint.
// The generic "compatible" provider requires BaseURL and Model.
func NewCompatible(cfg Config) (*Compatible, error) {
	provider := cfg.Provider
	if provider == "" {
		provider = ProviderCompatible
	}
	info, _ := LookupProvider(provider)

	if cfg.APIKey == "" && (info == nil || info.NeedsKey) {
		return nil, missingKey(provider)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" && info != nil {
		baseURL = info.DefaultBaseURL
	}
	if baseURL == "" {
		return nil, fmt.Errorf("%s: base URL is required", provider)
	}
	model := modelOrDefault(provider, cfg.Model)
	if model == "" {
		return nil, fmt.Errorf("%s: model is required", provider)
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = baseURL
	clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Compatible{
		client:   openai.NewClientWithConfig(clientConfig),
		model:    model,
		provider: provider,
	}, nil
}

// Name returns the provider name.
func (c *Compatible) Name() string {
	return c.provider
}

// Translate sends one chunk as a chat completion.
func (c *Compatible) Translate(ctx context.Context, req *Request) (map[int]string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt(req)},
			{Role: openai.ChatMessageRoleUser, Content: UserPrompt(req)},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return nil, classify(c.provider, err, compatibleStatus)
	}
	if len(resp.Choices) == 0 {
		return nil, malformed(c.provider, fmt.Errorf("no choices in response"))
	}

	out, err := parseTranslations(resp.Choices[0].Message.Content, req.Items)
	if err != nil {
		return nil, malformed(c.provider, err)
	}
	return out, nil
}

func compatibleStatus(err error) (int, bool) {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode, true
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode, true
	}
	return 0, false
}
