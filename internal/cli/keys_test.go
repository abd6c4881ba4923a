package cli

import (
	"errors"
	"testing"

	"github.com/guiyumin/srt-translator/internal/core/config"
	"github.com/guiyumin/srt-translator/internal/core/secret"
)

func TestResolveAPIKey(t *testing.T) {
	defer func(orig func() bool) { stdinIsTerminal = orig }(stdinIsTerminal)
	stdinIsTerminal = func() bool { return false }

	blob, err := secret.Encrypt("sk-encrypted", "hunter22", "openai")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		env        string
		passphrase string
		plain      string
		encrypted  string
		want       string
		wantErr    error
	}{
		{name: "environment wins", env: "sk-env", plain: "sk-plain", want: "sk-env"},
		{name: "plain config key", plain: "sk-plain", encrypted: blob, want: "sk-plain"},
		{name: "encrypted config key", passphrase: "hunter22", encrypted: blob, want: "sk-encrypted"},
		{name: "wrong passphrase", passphrase: "wrong-pass", encrypted: blob, wantErr: secret.ErrDecryptionFailed},
		{name: "no passphrase without a terminal", encrypted: blob, wantErr: secret.ErrDecryptionFailed},
		{name: "nothing stored", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("OPENAI_API_KEY", tt.env)
			t.Setenv(PassphraseEnv, tt.passphrase)

			cfg := config.DefaultConfig()
			if tt.plain != "" {
				cfg.APIKeys = map[string]string{"openai": tt.plain}
			}
			if tt.encrypted != "" {
				cfg.EncryptedAPIKeys = map[string]string{"openai": tt.encrypted}
			}

			got, err := resolveAPIKey(cfg, "openai")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("resolveAPIKey() error = %v, want %v", err, tt.wantErr)
				}
				if code := exitCode(err); code != ExitCredential {
					t.Errorf("exitCode = %d, want %d", code, ExitCredential)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveAPIKey() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("resolveAPIKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveAPIKeyUsesProviderEnvVar(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")

	got, err := resolveAPIKey(config.DefaultConfig(), "anthropic")
	if err != nil {
		t.Fatal(err)
	}
	if got != "sk-ant" {
		t.Errorf("resolveAPIKey(anthropic) = %q, want sk-ant", got)
	}
}

func TestMissingKeyFailsBeforeAnyRequest(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv(PassphraseEnv, "")

	s := settings{Provider: "openai", SourceLang: "auto", TargetLang: "zh", ChunkSize: 10, Concurrency: 1}
	_, _, err := newRunner(config.DefaultConfig(), s, nil)
	if err == nil {
		t.Fatal("newRunner() without a key should fail")
	}
	if code := exitCode(err); code != ExitCredential {
		t.Errorf("exitCode(%v) = %d, want %d", err, code, ExitCredential)
	}
}
