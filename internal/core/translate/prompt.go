package translate

import (
	"fmt"
	"strings"
)

// languageNames maps common language codes to the names models understand best.
var languageNames = map[string]string{
	"en":    "English",
	"zh":    "Simplified Chinese",
	"zh-cn": "Simplified Chinese",
	"zh-tw": "Traditional Chinese",
	"ja":    "Japanese",
	"ko":    "Korean",
	"fr":    "French",
	"de":    "German",
	"es":    "Spanish",
	"pt":    "Portuguese",
	"it":    "Italian",
	"ru":    "Russian",
	"ar":    "Arabic",
	"vi":    "Vietnamese",
	"th":    "Thai",
	"id":    "Indonesian",
	"tr":    "Turkish",
	"nl":    "Dutch",
	"pl":    "Polish",
	"uk":    "Ukrainian",
}

// LanguageName returns a human-readable name for a language code.
// Unknown codes and free-form names are returned unchanged.
func LanguageName(code string) string {
	if name, ok := languageNames[strings.ToLower(strings.TrimSpace(code))]; ok {
		return name
	}
	return code
}

const systemPromptTemplate = `You are a professional subtitle translator. Translate the given subtitles %s into %s.

Requirements:
1. Keep the translation accurate, natural and concise, suitable for on-screen reading
2. Translate the meaning rather than word by word
3. Each input line is "<index>. <text>"; a literal \n inside the text marks a line break and should be kept where it still makes sense
4. Return every index exactly once, and never merge or split subtitles
5. Respond with a JSON array only, without explanations or markdown, where each element has the original "index" and the "translation"

Example input:
3. Hello world
4. How are you?

Example output:
[
    {"index": 3, "translation": "..."},
    {"index": 4, "translation": "..."}
]`

// SystemPrompt builds the instruction sent with every chunk.
func SystemPrompt(req *Request) string {
	from := "from " + LanguageName(req.SourceLang)
	if req.SourceLang == "" || strings.EqualFold(req.SourceLang, "auto") {
		from = "from their original language"
	}
	prompt := fmt.Sprintf(systemPromptTemplate, from, LanguageName(req.TargetLang))
	if hint := strings.TrimSpace(req.Hint); hint != "" {
		prompt += "\n\nContext about the video, use it to pick names and terminology:\n" + hint
	}
	return prompt
}

// UserPrompt lists the chunk's cues, one per line.
func UserPrompt(req *Request) string {
	var b strings.Builder
	for _, it := range req.Items {
		fmt.Fprintf(&b, "%d. %s\n", it.Index, escapeLines(it.Text))
	}
	return b.String()
}

func escapeLines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(strings.TrimSpace(text), "\n", `\n`)
}
