// Package translate sends subtitle text to language-model APIs and applies
// the translations back onto parsed cues.
package translate

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Item is one cue's text keyed by its cue number.
type Item struct {
	Index int
	Text  string
}

// Request is a single chunk of cues to translate.
type Request struct {
	SourceLang string
	TargetLang string
	// Hint is free-form context about the media, passed to the model verbatim.
	Hint  string
	Items []Item
}

// Translator is implemented by each model provider.
type Translator interface {
	// Translate returns the translated text for every item, keyed by Item.Index.
	Translate(ctx context.Context, req *Request) (map[int]string, error)

	// Name returns the provider name.
	Name() string
}

// Config selects and configures a provider. The API key is always passed in
// explicitly; this package never reads credentials from the environment.
type Config struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration
}

const defaultTimeout = 5 * time.Minute

// New creates the Translator named by cfg.Provider. A provider that needs an
// API key fails here with ErrMissingAPIKey, before any request is made.
func New(cfg Config) (Translator, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	switch cfg.Provider {
	case "", ProviderOpenAI:
		return NewOpenAI(cfg)
	case ProviderQwen:
		return NewQwen(cfg)
	case ProviderAnthropic:
		return NewAnthropic(cfg)
	case ProviderDeepSeek, ProviderCompatible:
		return NewCompatible(cfg)
	case ProviderGemini:
		return NewGemini(cfg)
	case ProviderOllama:
		return NewOllama(cfg)
	default:
		return nil, fmt.Errorf("unsupported translation provider: %s", cfg.Provider)
	}
}

func modelOrDefault(provider, model string) string {
	if model != "" {
		return model
	}
	if p, ok := LookupProvider(provider); ok {
		return p.DefaultModel
	}
	return ""
}
