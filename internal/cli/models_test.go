package cli

import (
	"strings"
	"testing"

	"github.com/guiyumin/srt-translator/internal/core/translate"
)

func TestRenderModels(t *testing.T) {
	out := renderModels(translate.Providers)
	for _, p := range translate.Providers {
		if !strings.Contains(out, p.Name) || !strings.Contains(out, p.EnvVar) {
			t.Errorf("output does not list provider %s (%s)", p.Name, p.EnvVar)
		}
		for _, m := range p.Models {
			if !strings.Contains(out, m.ID) {
				t.Errorf("output does not list model %s", m.ID)
			}
		}
	}
	if !strings.Contains(out, "gpt-4o-mini") {
		t.Error("default OpenAI model missing")
	}
}
