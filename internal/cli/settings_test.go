package cli

import (
	"testing"

	"github.com/spf13/cobra"

	"github.com/guiyumin/srt-translator/internal/core/config"
)

func parseTranslateFlags(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addTranslateFlags(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags(%v) error = %v", args, err)
	}
	return cmd
}

func TestResolveSettings(t *testing.T) {
	fromFile := config.DefaultConfig()
	fromFile.Provider = "anthropic"
	fromFile.Model = "claude-3-5-haiku-latest"
	fromFile.TargetLanguage = "ja"
	fromFile.ChunkSize = 25

	tests := []struct {
		name  string
		cfg   *config.Config
		args  []string
		check func(t *testing.T, s settings)
	}{
		{
			name: "defaults",
			cfg:  config.DefaultConfig(),
			check: func(t *testing.T, s settings) {
				if s.Provider != "openai" || s.TargetLang != "zh" || s.SourceLang != "auto" {
					t.Errorf("got %s", s)
				}
				if s.ChunkSize != 10 || s.Concurrency != 1 || s.MaxRetries != 3 {
					t.Errorf("got %s", s)
				}
			},
		},
		{
			name: "config file values",
			cfg:  fromFile,
			check: func(t *testing.T, s settings) {
				if s.Provider != "anthropic" || s.Model != "claude-3-5-haiku-latest" || s.TargetLang != "ja" || s.ChunkSize != 25 {
					t.Errorf("got %s", s)
				}
			},
		},
		{
			name: "flags override config",
			cfg:  fromFile,
			args: []string{"-t", "es", "--chunk-size", "5", "--retries", "0", "--hint", "a cooking show"},
			check: func(t *testing.T, s settings) {
				if s.TargetLang != "es" || s.ChunkSize != 5 || s.MaxRetries != 0 {
					t.Errorf("got %s", s)
				}
				if s.Hint != "a cooking show" {
					t.Errorf("Hint = %q", s.Hint)
				}
				if s.Model != "claude-3-5-haiku-latest" {
					t.Errorf("Model = %q, want the configured model kept", s.Model)
				}
			},
		},
		{
			name: "switching provider drops the configured model",
			cfg:  fromFile,
			args: []string{"-p", "OpenAI"},
			check: func(t *testing.T, s settings) {
				if s.Provider != "openai" || s.Model != "" {
					t.Errorf("got %s", s)
				}
			},
		},
		{
			name: "verbose forces debug",
			cfg:  config.DefaultConfig(),
			args: []string{"-v"},
			check: func(t *testing.T, s settings) {
				if s.LogLevel != "debug" {
					t.Errorf("LogLevel = %q", s.LogLevel)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := parseTranslateFlags(t, tt.args...)
			s, err := resolveSettings(cmd, tt.cfg)
			if err != nil {
				t.Fatalf("resolveSettings() error = %v", err)
			}
			tt.check(t, s)
		})
	}
}

func TestResolveSettingsRejectsBadValues(t *testing.T) {
	tests := [][]string{
		{"-p", "babelfish"},
		{"--chunk-size", "0"},
		{"--concurrency", "-1"},
		{"--retries", "-2"},
	}
	for _, args := range tests {
		cmd := parseTranslateFlags(t, args...)
		_, err := resolveSettings(cmd, config.DefaultConfig())
		if err == nil {
			t.Errorf("resolveSettings(%v) should fail", args)
			continue
		}
		if code := exitCode(err); code != ExitUsage {
			t.Errorf("exitCode(%v) = %d, want %d", err, code, ExitUsage)
		}
	}
}
