package translate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

// Ollama implements Translator against a local Ollama server. No API key is
// needed; the server address comes from BaseURL or OLLAMA_HOST.
type Ollama struct {
	client *api.Client
	model  string
}

// NewOllama creates an Ollama translator.
func NewOllama(cfg Config) (*Ollama, error) {
	var client *api.Client
	if cfg.BaseURL != "" {
		u, err := url.Parse(cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid ollama URL %q: %w", cfg.BaseURL, err)
		}
		client = api.NewClient(u, &http.Client{Timeout: cfg.Timeout})
	} else {
		var err error
		client, err = api.ClientFromEnvironment()
		if err != nil {
			return nil, fmt.Errorf("create ollama client: %w", err)
		}
	}

	return &Ollama{
		client: client,
		model:  modelOrDefault(ProviderOllama, cfg.Model),
	}, nil
}

// Name returns the provider name.
func (o *Ollama) Name() string {
	return ProviderOllama
}

// Translate sends one chunk as a non-streaming chat request.
func (o *Ollama) Translate(ctx context.Context, req *Request) (map[int]string, error) {
	stream := false
	chatReq := &api.ChatRequest{
		Model: o.model,
		Messages: []api.Message{
			{Role: "system", Content: SystemPrompt(req)},
			{Role: "user", Content: UserPrompt(req)},
		},
		Stream:  &stream,
		Options: map[string]any{"temperature": 0.3},
	}

	var content strings.Builder
	err := o.client.Chat(ctx, chatReq, func(resp api.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return nil, classify(ProviderOllama, err, ollamaStatus)
	}

	out, err := parseTranslations(content.String(), req.Items)
	if err != nil {
		return nil, malformed(ProviderOllama, err)
	}
	return out, nil
}

func ollamaStatus(err error) (int, bool) {
	var statusErr api.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode, true
	}
	return 0, false
}
