package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/guiyumin/srt-translator/internal/core/config"
	"github.com/guiyumin/srt-translator/internal/core/i18n"
	"github.com/guiyumin/srt-translator/internal/core/secret"
	"github.com/guiyumin/srt-translator/internal/core/translate"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage translator configuration",
	Long:  "View and modify translator settings, including stored API keys",
}

// translator config show - show current config
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		t := i18n.T(cfg.Language)
		notSet := func(v string) string { return orDefault(v, t.Config.KeyNotSet) }

		fmt.Println(t.Config.Current)
		fmt.Printf("  Language:        %s\n", notSet(cfg.Language))
		fmt.Printf("  Provider:        %s\n", notSet(cfg.Provider))
		fmt.Printf("  Model:           %s\n", notSet(cfg.Model))
		fmt.Printf("  BaseURL:         %s\n", notSet(cfg.BaseURL))
		fmt.Printf("  SourceLanguage:  %s\n", notSet(cfg.SourceLanguage))
		fmt.Printf("  TargetLanguage:  %s\n", notSet(cfg.TargetLanguage))
		fmt.Printf("  ChunkSize:       %d\n", cfg.ChunkSize)
		fmt.Printf("  Concurrency:     %d\n", cfg.Concurrency)
		fmt.Printf("  MaxRetries:      %d\n", cfg.Retries())
		fmt.Printf("  LogLevel:        %s\n", notSet(cfg.LogLevel))
		fmt.Printf("  WatchOutputDir:  %s\n", notSet(cfg.WatchOutputDir))
		fmt.Printf("  Config:          %s\n", config.SavePath())

		if providers := cfg.StoredKeyProviders(); len(providers) > 0 {
			fmt.Println("\nAPI keys:")
			for _, p := range providers {
				if cfg.EncryptedAPIKey(p) != "" {
					fmt.Printf("  %s: %s\n", p, color.GreenString("encrypted"))
				} else {
					fmt.Printf("  %s: %s\n", p, maskKey(cfg.APIKey(p)))
				}
			}
		}
		return nil
	},
}

// translator config path - show config file path
var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show config file path",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(config.SavePath())
	},
}

// translator config set KEY VALUE - set a config value
var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in config.yml.

Supported keys:
  language             Message language (en, zh)
  provider             openai, anthropic, qwen, deepseek, compatible, gemini, ollama
  model                Model ID (empty uses the provider default)
  base_url             API endpoint override
  source_language      Source language code, or auto
  target_language      Target language code (e.g., zh, ja, es)
  chunk_size           Cues per request
  concurrency          Requests in flight at once
  max_retries          Retries per chunk
  log_level            debug, info, warn, error
  watch_output_dir     Default output directory for watch
  api_keys.<provider>  Plain-text API key (prefer 'config set-key')

Examples:
  translator config set provider anthropic
  translator config set target_language ja
  translator config set chunk_size 20`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.Set(key, value); err != nil {
			return usageErrorf("%v\nRun 'translator config set --help' to see supported keys", err)
		}
		if err := cfg.Validate(); err != nil {
			return usageErrorf("%v", err)
		}
		if err := config.Save(cfg); err != nil {
			return usageErrorf("failed to save config: %v", err)
		}

		shown := value
		if strings.HasPrefix(key, "api_keys.") {
			shown = maskKey(value)
		}
		fmt.Printf(i18n.T(cfg.Language).Config.Saved+"\n", key, shown)
		return nil
	},
}

// translator config get KEY - get a config value
var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long: `Get a configuration value from config.yml.

Examples:
  translator config get provider
  translator config get target_language`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		value, err := cfg.Get(args[0])
		if err != nil {
			return usageErrorf("%v\nRun 'translator config set --help' to see supported keys", err)
		}
		fmt.Println(value)
		return nil
	},
}

// translator config unset KEY - clear a config value
var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Unset a configuration value",
	Long: `Unset (clear) a configuration value in config.yml. Cleared values fall
back to their defaults. 'api_keys.<provider>' removes both the plain and the
encrypted key.

Examples:
  translator config unset model
  translator config unset api_keys.openai`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.Unset(key); err != nil {
			return usageErrorf("%v", err)
		}
		if err := config.Save(cfg); err != nil {
			return usageErrorf("failed to save config: %v", err)
		}

		fmt.Printf(i18n.T(cfg.Language).Config.Unset+"\n", key)
		return nil
	},
}

// translator config set-key PROVIDER - store an encrypted API key
var configSetKeyCmd = &cobra.Command{
	Use:   "set-key <provider>",
	Short: "Store an API key encrypted with a passphrase",
	Long: `Prompt for an API key and a passphrase, then store the key encrypted
in config.yml. The passphrase is asked for again when the key is needed,
unless TRANSLATOR_PASSPHRASE is set.

Examples:
  translator config set-key openai
  translator config set-key anthropic`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: translate.ProviderNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, ok := translate.LookupProvider(args[0])
		if !ok {
			return usageErrorf("unknown provider %q (choose from %s)", args[0], strings.Join(translate.ProviderNames(), ", "))
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		t := i18n.T(cfg.Language)

		blob, err := promptEncryptedKey(t, info.Name)
		if err != nil {
			return err
		}
		cfg.SetEncryptedAPIKey(info.Name, blob)
		if err := config.Save(cfg); err != nil {
			return usageErrorf("failed to save config: %v", err)
		}

		fmt.Println(color.GreenString(t.Config.KeySaved, info.Name, config.SavePath()))
		return nil
	},
}

func promptEncryptedKey(t *i18n.Translations, provider string) (string, error) {
	key, err := readPassword(fmt.Sprintf(t.Config.EnterAPIKey, provider))
	if err != nil {
		return "", fmt.Errorf("read API key: %w", err)
	}
	if key == "" {
		return "", usageErrorf("API key must not be empty")
	}

	passphrase, err := readPassword(t.Config.EnterPassphrase)
	if err != nil {
		return "", fmt.Errorf("read passphrase: %w", err)
	}
	if err := secret.ValidatePassphrase(passphrase); err != nil {
		return "", err
	}
	confirm, err := readPassword(t.Config.ConfirmPassphrase)
	if err != nil {
		return "", fmt.Errorf("read passphrase: %w", err)
	}
	if confirm != passphrase {
		return "", usageErrorf("%s", t.Config.PassphraseMismatch)
	}

	return secret.Encrypt(key, passphrase, provider)
}

// maskKey shows only the ends of a secret.
func maskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", 4) + key[len(key)-4:]
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configUnsetCmd)
	configCmd.AddCommand(configSetKeyCmd)
	rootCmd.AddCommand(configCmd)
}
