package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Anthropic implements Translator using Anthropic Claude.
type Anthropic struct {
	client *anthropic.Client
	model  string
}

// NewAnthropic creates an Anthropic translator.
func NewAnthropic(cfg Config) (*Anthropic, error) {
	if cfg.APIKey == "" {
		return nil, missingKey(ProviderAnthropic)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(cfg.Timeout),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	client := anthropic.NewClient(opts...)

	return &Anthropic{
		client: &client,
		model:  modelOrDefault(ProviderAnthropic, cfg.Model),
	}, nil
}

// Name returns the provider name.
func (a *Anthropic) Name() string {
	return ProviderAnthropic
}

// Translate sends one chunk as a single message.
func (a *Anthropic) Translate(ctx context.Context, req *Request) (map[int]string, error) {
	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   anthropicMaxTokens(len(req.Items)),
		Temperature: anthropic.Float(0.3),
		System:      []anthropic.TextBlockParam{{Text: SystemPrompt(req)}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(UserPrompt(req))),
		},
	})
	if err != nil {
		return nil, classify(ProviderAnthropic, err, anthropicStatus)
	}

	var content strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			content.WriteString(block.Text)
		}
	}
	if content.Len() == 0 {
		return nil, malformed(ProviderAnthropic, fmt.Errorf("no text in response"))
	}

	out, err := parseTranslations(content.String(), req.Items)
	if err != nil {
		return nil, malformed(ProviderAnthropic, err)
	}
	return out, nil
}

func anthropicStatus(err error) (int, bool) {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode, true
	}
	return 0, false
}

// Output token budget for one chunk. Each cue gets room for its translation
// plus JSON framing; small chunks keep the floor.
const (
	anthropicMinTokens     = 4096
	anthropicTokensPerItem = 256
)

func anthropicMaxTokens(items int) int64 {
	return int64(max(anthropicMinTokens, 512+items*anthropicTokensPerItem))
}
