package translate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// Gemini implements Translator using the Google Gen AI SDK.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini translator.
func NewGemini(cfg Config) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, missingKey(ProviderGemini)
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(context.Background(), clientConfig)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Gemini{
		client: client,
		model:  modelOrDefault(ProviderGemini, cfg.Model),
	}, nil
}

// Name returns the provider name.
func (g *Gemini) Name() string {
	return ProviderGemini
}

// Translate sends one chunk with JSON output requested.
func (g *Gemini) Translate(ctx context.Context, req *Request) (map[int]string, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(UserPrompt(req)), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemPrompt(req), genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.3),
		ResponseMIMEType:  "application/json",
	})
	if err != nil {
		return nil, classify(ProviderGemini, err, geminiStatus)
	}
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return nil, malformed(ProviderGemini, fmt.Errorf("empty response"))
	}

	var text strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" && !part.Thought {
			text.WriteString(part.Text)
		}
	}

	out, err := parseTranslations(text.String(), req.Items)
	if err != nil {
		return nil, malformed(ProviderGemini, err)
	}
	return out, nil
}

func geminiStatus(err error) (int, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return apiErrPtr.Code, true
	}
	return 0, false
}
