package cli

import (
	"path/filepath"
	"testing"
)

func TestTranslatedPath(t *testing.T) {
	tests := []struct {
		input, outDir, lang string
		want                string
	}{
		{"subs/movie.srt", "", "zh", "subs/movie.zh.srt"},
		{"subs/movie.en.srt", "", "ja", "subs/movie.en.ja.srt"},
		{"subs/movie.srt", "out", "ZH", "out/movie.zh.srt"},
		{"movie.SRT", "", "Simplified Chinese", "movie.simplified-chinese.srt"},
		{"movie.srt", "", "", "movie.zh.srt"},
	}
	for _, tt := range tests {
		got := translatedPath(filepath.FromSlash(tt.input), filepath.FromSlash(tt.outDir), tt.lang)
		if got != filepath.FromSlash(tt.want) {
			t.Errorf("translatedPath(%q, %q, %q) = %q, want %q", tt.input, tt.outDir, tt.lang, got, tt.want)
		}
	}
}

func TestIsTranslation(t *testing.T) {
	tests := []struct {
		path, lang string
		want       bool
	}{
		{"movie.zh.srt", "zh", true},
		{"movie.ZH.srt", "zh", true},
		{"movie.srt", "zh", false},
		{"movie.en.srt", "zh", false},
		{"movie.ja.srt", "ja", true},
	}
	for _, tt := range tests {
		if got := isTranslation(tt.path, tt.lang); got != tt.want {
			t.Errorf("isTranslation(%q, %q) = %v, want %v", tt.path, tt.lang, got, tt.want)
		}
	}

	// Output of one pass must never be picked up as new input.
	out := translatedPath("movie.srt", "", "zh")
	if !isTranslation(out, "zh") {
		t.Errorf("%s should be recognized as a translation", out)
	}
}
