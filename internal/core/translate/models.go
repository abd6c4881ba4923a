package translate

import "strings"

const (
	ProviderOpenAI     = "openai"
	ProviderQwen       = "qwen"
	ProviderAnthropic  = "anthropic"
	ProviderDeepSeek   = "deepseek"
	ProviderCompatible = "compatible"
	ProviderGemini     = "gemini"
	ProviderOllama     = "ollama"
)

// Model describes a model suitable for subtitle translation.
type Model struct {
	ID          string // API model ID
	Description string
	Tier        string // "flagship", "standard", "fast", "economy", "local"
}

// ProviderInfo describes a supported provider.
type ProviderInfo struct {
	Name           string
	EnvVar         string // environment variable holding the API key
	DefaultModel   string
	DefaultBaseURL string
	NeedsKey       bool
	Models         []Model
}

// Providers lists every provider the CLI can dispatch to.
var Providers = []ProviderInfo{
	{
		Name:         ProviderOpenAI,
		EnvVar:       "OPENAI_API_KEY",
		DefaultModel: "gpt-4o-mini",
		NeedsKey:     true,
		Models: []Model{
			{ID: "gpt-4.1", Description: "Smartest non-reasoning model", Tier: "flagship"},
			{ID: "gpt-4o", Description: "Fast, intelligent, flexible", Tier: "standard"},
			{ID: "gpt-4.1-mini", Description: "Faster version of GPT-4.1", Tier: "fast"},
			{ID: "gpt-4o-mini", Description: "Fast, affordable for focused tasks", Tier: "fast"},
			{ID: "gpt-4.1-nano", Description: "Most cost-efficient GPT-4.1", Tier: "economy"},
			{ID: "gpt-4-0125-preview", Description: "GPT-4 Turbo preview", Tier: "legacy"},
			{ID: "gpt-3.5-turbo", Description: "Cheap legacy model", Tier: "legacy"},
		},
	},
	{
		Name:         ProviderAnthropic,
		EnvVar:       "ANTHROPIC_API_KEY",
		DefaultModel: "claude-sonnet-4-20250514",
		NeedsKey:     true,
		Models: []Model{
			{ID: "claude-sonnet-4-20250514", Description: "Balanced quality and speed", Tier: "standard"},
			{ID: "claude-3-5-haiku-latest", Description: "Fast and inexpensive", Tier: "fast"},
		},
	},
	{
		Name:           ProviderQwen,
		EnvVar:         "DASHSCOPE_API_KEY",
		DefaultModel:   "qwen-plus",
		DefaultBaseURL: "https://dashscope.aliyuncs.com/compatible-mode/v1",
		NeedsKey:       true,
		Models: []Model{
			{ID: "qwen-max", Description: "Most capable Qwen model", Tier: "flagship"},
			{ID: "qwen-plus", Description: "Good balance of cost and quality", Tier: "standard"},
			{ID: "qwen-turbo", Description: "Fastest, lowest cost", Tier: "fast"},
		},
	},
	{
		Name:           ProviderDeepSeek,
		EnvVar:         "DEEPSEEK_API_KEY",
		DefaultModel:   "deepseek-chat",
		DefaultBaseURL: "https://api.deepseek.com/v1",
		NeedsKey:       true,
		Models: []Model{
			{ID: "deepseek-chat", Description: "General chat model", Tier: "standard"},
		},
	},
	{
		Name:     ProviderCompatible,
		EnvVar:   "OPENAI_COMPATIBLE_API_KEY",
		NeedsKey: false,
	},
	{
		Name:         ProviderGemini,
		EnvVar:       "GEMINI_API_KEY",
		DefaultModel: "gemini-2.5-flash",
		NeedsKey:     true,
		Models: []Model{
			{ID: "gemini-2.5-pro", Description: "Highest quality Gemini", Tier: "flagship"},
			{ID: "gemini-2.5-flash", Description: "Fast with strong quality", Tier: "fast"},
		},
	},
	{
		Name:         ProviderOllama,
		EnvVar:       "OLLAMA_API_KEY",
		DefaultModel: "qwen3:14b",
		NeedsKey:     false,
		Models: []Model{
			{ID: "qwen3:14b", Description: "Runs locally through Ollama", Tier: "local"},
			{ID: "llama3.1:8b", Description: "Runs locally through Ollama", Tier: "local"},
		},
	},
}

// LookupProvider returns provider info by name.
func LookupProvider(name string) (*ProviderInfo, bool) {
	name = strings.ToLower(name)
	for i := range Providers {
		if Providers[i].Name == name {
			return &Providers[i], true
		}
	}
	return nil, false
}

// ProviderNames returns the names of all providers in display order.
func ProviderNames() []string {
	names := make([]string, len(Providers))
	for i, p := range Providers {
		names[i] = p.Name
	}
	return names
}

func envVarFor(provider string) string {
	if p, ok := LookupProvider(provider); ok {
		return p.EnvVar
	}
	return "the provider API key"
}
