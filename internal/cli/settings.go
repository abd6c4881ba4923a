package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/guiyumin/srt-translator/internal/core/config"
	"github.com/guiyumin/srt-translator/internal/core/translate"
)

var (
	inputPath   string
	outputPath  string
	targetLang  string
	sourceLang  string
	provider    string
	model       string
	baseURL     string
	chunkSize   int
	concurrency int
	retries     int
	hint        string
	renumber    bool
	verbose     bool
	noProgress  bool
)

// addTranslateFlags registers the flags shared by the root and watch commands.
func addTranslateFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&targetLang, "to", "t", "", "target language (default from config, else zh)")
	f.StringVarP(&sourceLang, "from", "f", "", "source language (default auto)")
	f.StringVarP(&provider, "provider", "p", "", "provider: "+strings.Join(translate.ProviderNames(), ", "))
	f.StringVarP(&model, "model", "m", "", "model ID (provider default otherwise)")
	f.StringVar(&baseURL, "base-url", "", "override the API endpoint")
	f.IntVar(&chunkSize, "chunk-size", config.DefaultChunkSize, "cues per request")
	f.IntVar(&concurrency, "concurrency", config.DefaultConcurrency, "requests in flight at once")
	f.IntVar(&retries, "retries", config.DefaultMaxRetries, "retries per chunk for transient errors")
	f.StringVar(&hint, "hint", "", "context about the video (names, topic) to improve the translation")
	f.BoolVarP(&verbose, "verbose", "v", false, "debug logging to stderr")

	cmd.RegisterFlagCompletionFunc("provider", completeProviders)
	cmd.RegisterFlagCompletionFunc("model", completeModels)
}

// settings is the effective configuration of one run.
type settings struct {
	Provider    string
	Model       string
	BaseURL     string
	SourceLang  string
	TargetLang  string
	ChunkSize   int
	Concurrency int
	MaxRetries  int
	Hint        string
	LogLevel    string
}

// resolveSettings merges flags over the config file. Only flags the user
// actually set take precedence.
func resolveSettings(cmd *cobra.Command, cfg *config.Config) (settings, error) {
	s := settings{
		Provider:    cfg.Provider,
		Model:       cfg.Model,
		BaseURL:     cfg.BaseURL,
		SourceLang:  cfg.SourceLanguage,
		TargetLang:  cfg.TargetLanguage,
		ChunkSize:   cfg.ChunkSize,
		Concurrency: cfg.Concurrency,
		MaxRetries:  cfg.Retries(),
		Hint:        hint,
		LogLevel:    cfg.LogLevel,
	}

	flags := cmd.Flags()
	if flags.Changed("provider") {
		s.Provider = provider
		// A model or endpoint from the config belongs to the configured provider.
		if !strings.EqualFold(provider, cfg.Provider) {
			s.Model = ""
			s.BaseURL = ""
		}
	}
	if flags.Changed("model") {
		s.Model = model
	}
	if flags.Changed("base-url") {
		s.BaseURL = baseURL
	}
	if flags.Changed("from") {
		s.SourceLang = sourceLang
	}
	if flags.Changed("to") {
		s.TargetLang = targetLang
	}
	if flags.Changed("chunk-size") {
		s.ChunkSize = chunkSize
	}
	if flags.Changed("concurrency") {
		s.Concurrency = concurrency
	}
	if flags.Changed("retries") {
		s.MaxRetries = retries
	}
	if verbose {
		s.LogLevel = "debug"
	}

	s.Provider = strings.ToLower(s.Provider)
	if s.Provider == "" {
		s.Provider = config.DefaultProvider
	}
	if s.TargetLang == "" {
		s.TargetLang = config.DefaultTargetLanguage
	}
	if s.SourceLang == "" {
		s.SourceLang = config.DefaultSourceLanguage
	}

	if _, ok := translate.LookupProvider(s.Provider); !ok {
		return s, usageErrorf("unknown provider %q (choose from %s)", s.Provider, strings.Join(translate.ProviderNames(), ", "))
	}
	if s.ChunkSize <= 0 {
		return s, usageErrorf("--chunk-size must be positive, got %d", s.ChunkSize)
	}
	if s.Concurrency <= 0 {
		return s, usageErrorf("--concurrency must be positive, got %d", s.Concurrency)
	}
	if s.MaxRetries < 0 {
		return s, usageErrorf("--retries must not be negative, got %d", s.MaxRetries)
	}
	return s, nil
}

func (s settings) String() string {
	return fmt.Sprintf("provider=%s model=%s from=%s to=%s chunk=%d concurrency=%d retries=%d",
		s.Provider, orDefault(s.Model, "default"), s.SourceLang, s.TargetLang, s.ChunkSize, s.Concurrency, s.MaxRetries)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
