package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAI implements Translator using the official OpenAI SDK. Qwen reuses it
// through DashScope's OpenAI-compatible endpoint.
type OpenAI struct {
	client   openai.Client
	model    string
	provider string
}

// NewOpenAI creates an OpenAI translator.
func NewOpenAI(cfg Config) (*OpenAI, error) {
	return newOpenAIClient(ProviderOpenAI, cfg)
}

// NewQwen creates a Qwen translator backed by DashScope.
func NewQwen(cfg Config) (*OpenAI, error) {
	return newOpenAIClient(ProviderQwen, cfg)
}

func newOpenAIClient(provider string, cfg Config) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, missingKey(provider)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		if p, ok := LookupProvider(provider); ok {
			baseURL = p.DefaultBaseURL
		}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(cfg.Timeout),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &OpenAI{
		client:   openai.NewClient(opts...),
		model:    modelOrDefault(provider, cfg.Model),
		provider: provider,
	}, nil
}

// Name returns the provider name.
func (o *OpenAI) Name() string {
	return o.provider
}

// Translate sends one chunk as a chat completion.
func (o *OpenAI) Translate(ctx context.Context, req *Request) (map[int]string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(SystemPrompt(req)),
			openai.UserMessage(UserPrompt(req)),
		},
	}
	if supportsTemperature(o.model) {
		params.Temperature = openai.Float(0.3)
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, classify(o.provider, err, openAIStatus)
	}
	if len(resp.Choices) == 0 {
		return nil, malformed(o.provider, fmt.Errorf("no choices in response"))
	}

	out, err := parseTranslations(resp.Choices[0].Message.Content, req.Items)
	if err != nil {
		return nil, malformed(o.provider, err)
	}
	return out, nil
}

// Reasoning models only accept the default temperature.
func supportsTemperature(model string) bool {
	for _, prefix := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(model, prefix) {
			return false
		}
	}
	return true
}

func openAIStatus(err error) (int, bool) {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode, true
	}
	return 0, false
}
