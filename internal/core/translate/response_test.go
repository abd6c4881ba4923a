package translate

import (
	"strings"
	"testing"
)

var twoItems = []Item{{Index: 3, Text: "Hello world"}, {Index: 4, Text: "How are you?"}}

func TestParseTranslations(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"plain array", `[{"index": 3, "translation": "你好世界"}, {"index": 4, "translation": "你好吗？"}]`},
		{"reversed order", `[{"index": 4, "translation": "你好吗？"}, {"index": 3, "translation": "你好世界"}]`},
		{"string index", `[{"index": "3", "translation": "你好世界"}, {"index": "4.", "translation": "你好吗？"}]`},
		{"markdown fence", "```json\n[{\"index\": 3, \"translation\": \"你好世界\"}, {\"index\": 4, \"translation\": \"你好吗？\"}]\n```"},
		{"wrapped object", `{"translations": [{"index": 3, "translation": "你好世界"}, {"index": 4, "translation": "你好吗？"}]}`},
		{"leading prose", "Here you go:\n[{\"index\": 3, \"translation\": \"你好世界\"}, {\"index\": 4, \"translation\": \"你好吗？\"}]"},
		{"think block", "<think>\nlet me see [1]\n</think>\n[{\"index\": 3, \"translation\": \"你好世界\"}, {\"index\": 4, \"translation\": \"你好吗？\"}]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTranslations(tt.content, twoItems)
			if err != nil {
				t.Fatalf("parseTranslations() error = %v", err)
			}
			if got[3] != "你好世界" || got[4] != "你好吗？" {
				t.Errorf("parseTranslations() = %v", got)
			}
		})
	}
}

func TestParseTranslationsLineBreaks(t *testing.T) {
	items := []Item{{Index: 1, Text: "Two\nlines"}}
	for _, content := range []string{
		`[{"index": 1, "translation": "两\n行"}]`,
		`[{"index": 1, "translation": "两\\n行"}]`,
		`[{"index": 1, "translation": "两\N行"}]`,
	} {
		got, err := parseTranslations(content, items)
		if err != nil {
			t.Errorf("parseTranslations(%s) error = %v", content, err)
			continue
		}
		if got[1] != "两\n行" {
			t.Errorf("parseTranslations(%s) = %q, want %q", content, got[1], "两\n行")
		}
	}
}

func TestParseTranslationsErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"empty", "  ", "empty response"},
		{"not json", "你好世界\n你好吗？", "not a JSON translation array"},
		{"missing index", `[{"index": 3, "translation": "你好世界"}]`, "missing translations for index 4"},
		{"foreign index", `[{"index": 3, "translation": "a"}, {"index": 4, "translation": "b"}, {"index": 9, "translation": "c"}]`, "unexpected index 9"},
		{"duplicate index", `[{"index": 3, "translation": "a"}, {"index": 3, "translation": "b"}]`, "index 3 returned twice"},
		{"empty translation", `[{"index": 3, "translation": "a"}, {"index": 4, "translation": " "}]`, "empty translation for index 4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseTranslations(tt.content, twoItems)
			if err == nil {
				t.Fatal("parseTranslations() should fail")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}
