package i18n

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yml
var localesFS embed.FS

// Translations holds all translation strings organized by section
type Translations struct {
	Translate TranslateTranslations `yaml:"translate"`
	Config    ConfigTranslations    `yaml:"config"`
	Watch     WatchTranslations     `yaml:"watch"`
	Errors    ErrorTranslations     `yaml:"errors"`
	Update    UpdateTranslations    `yaml:"update"`
	Wizard    WizardTranslations    `yaml:"wizard"`
}

type TranslateTranslations struct {
	Translating string `yaml:"translating"`
	Progress    string `yaml:"progress"`
	Completed   string `yaml:"completed"`
	Failed      string `yaml:"failed"`
	Interrupted string `yaml:"interrupted"`
	SavedTo     string `yaml:"saved_to"`
}

type ConfigTranslations struct {
	Current            string `yaml:"current"`
	Saved              string `yaml:"saved"`
	Unset              string `yaml:"unset"`
	EnterAPIKey        string `yaml:"enter_api_key"`
	EnterPassphrase    string `yaml:"enter_passphrase"`
	ConfirmPassphrase  string `yaml:"confirm_passphrase"`
	PassphraseMismatch string `yaml:"passphrase_mismatch"`
	KeySaved           string `yaml:"key_saved"`
	KeyNotSet          string `yaml:"key_not_set"`
}

type WatchTranslations struct {
	Watching string `yaml:"watching"`
	Detected string `yaml:"detected"`
	Skipped  string `yaml:"skipped"`
	Stopped  string `yaml:"stopped"`
}

type ErrorTranslations struct {
	Input       string `yaml:"input"`
	Credential  string `yaml:"credential"`
	Translation string `yaml:"translation"`
	Output      string `yaml:"output"`
	Config      string `yaml:"config"`
	MissingKey  string `yaml:"missing_key"`
}

type UpdateTranslations struct {
	Checking  string `yaml:"checking"`
	UpToDate  string `yaml:"up_to_date"`
	Available string `yaml:"available"`
	Updated   string `yaml:"updated"`
	DevBuild  string `yaml:"dev_build"`
}

type WizardTranslations struct {
	StepOf       string `yaml:"step_of"`
	Language     string `yaml:"language"`
	LanguageDesc string `yaml:"language_desc"`
	Provider     string `yaml:"provider"`
	ProviderDesc string `yaml:"provider_desc"`
	Target       string `yaml:"target"`
	TargetDesc   string `yaml:"target_desc"`
	Model        string `yaml:"model"`
	ModelDesc    string `yaml:"model_desc"`
	Confirm      string `yaml:"confirm"`
	ConfirmDesc  string `yaml:"confirm_desc"`
	YesSave      string `yaml:"yes_save"`
	NoCancel     string `yaml:"no_cancel"`
	DefaultModel string `yaml:"default_model"`
	Help         string `yaml:"help"`
	Cancelled    string `yaml:"cancelled"`
	Saved        string `yaml:"saved"`
}

var (
	translationsCache = make(map[string]*Translations)
	cacheMutex        sync.RWMutex
	defaultLang       = "en"
)

// SupportedLanguages returns all available language codes
var SupportedLanguages = []struct {
	Code string
	Name string
}{
	{"en", "English"},
	{"zh", "中文"},
}

// GetTranslations returns translations for the specified language
func GetTranslations(lang string) *Translations {
	cacheMutex.RLock()
	if t, ok := translationsCache[lang]; ok {
		cacheMutex.RUnlock()
		return t
	}
	cacheMutex.RUnlock()

	t, err := loadTranslations(lang)
	if err != nil {
		if lang != defaultLang {
			return GetTranslations(defaultLang)
		}
		return &Translations{}
	}

	cacheMutex.Lock()
	translationsCache[lang] = t
	cacheMutex.Unlock()

	return t
}

func loadTranslations(lang string) (*Translations, error) {
	filename := fmt.Sprintf("locales/%s.yml", lang)
	data, err := localesFS.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var t Translations
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, err
	}

	return &t, nil
}

// T is a convenience function for getting translations
func T(lang string) *Translations {
	return GetTranslations(lang)
}
