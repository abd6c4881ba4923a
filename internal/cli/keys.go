package cli

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/guiyumin/srt-translator/internal/core/config"
	"github.com/guiyumin/srt-translator/internal/core/i18n"
	"github.com/guiyumin/srt-translator/internal/core/secret"
	"github.com/guiyumin/srt-translator/internal/core/translate"
)

// PassphraseEnv unlocks encrypted API keys without a prompt.
const PassphraseEnv = "TRANSLATOR_PASSPHRASE"

// stdinIsTerminal reports whether prompts can be answered. Replaced in tests.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// readPassword reads a line from the terminal without echo. Replaced in tests.
var readPassword = func(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// resolveAPIKey finds the key for a provider: the provider's environment
// variable first, then a plain key in the config, then an encrypted one.
// An empty result lets the provider decide whether a key is required.
func resolveAPIKey(cfg *config.Config, provider string) (string, error) {
	info, ok := translate.LookupProvider(provider)
	if !ok {
		return "", usageErrorf("unknown provider %q", provider)
	}

	if key := strings.TrimSpace(os.Getenv(info.EnvVar)); key != "" {
		return key, nil
	}
	if key := cfg.APIKey(info.Name); key != "" {
		return key, nil
	}

	blob := cfg.EncryptedAPIKey(info.Name)
	if blob == "" {
		return "", nil
	}

	passphrase := os.Getenv(PassphraseEnv)
	if passphrase == "" {
		if !stdinIsTerminal() {
			return "", fmt.Errorf("API key for %s is encrypted; set %s: %w", info.Name, PassphraseEnv, secret.ErrDecryptionFailed)
		}
		var err error
		passphrase, err = readPassword(i18n.T(cfg.Language).Config.EnterPassphrase)
		if err != nil {
			return "", fmt.Errorf("read passphrase: %w", err)
		}
	}

	key, err := secret.Decrypt(blob, passphrase, info.Name)
	if err != nil {
		return "", fmt.Errorf("unlock API key for %s: %w", info.Name, err)
	}
	return key, nil
}
