package translate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	thinkRe = regexp.MustCompile(`(?s)<think>.*?</think>`)
	fenceRe = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")
)

type translation struct {
	Index       flexInt `json:"index"`
	Translation string  `json:"translation"`
}

// flexInt accepts both 3 and "3".
type flexInt int

func (n *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(s, ".")))
		if err != nil {
			return fmt.Errorf("index %q is not a number", s)
		}
		*n = flexInt(v)
		return nil
	}
	var v int
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*n = flexInt(v)
	return nil
}

// parseTranslations decodes a model reply and checks it covers exactly the
// requested indices, each with a non-empty translation.
func parseTranslations(content string, items []Item) (map[int]string, error) {
	entries, err := decodeEntries(content)
	if err != nil {
		return nil, err
	}

	want := make(map[int]bool, len(items))
	for _, it := range items {
		want[it.Index] = true
	}

	out := make(map[int]string, len(items))
	for _, e := range entries {
		idx := int(e.Index)
		if !want[idx] {
			return nil, fmt.Errorf("unexpected index %d in response", idx)
		}
		if _, dup := out[idx]; dup {
			return nil, fmt.Errorf("index %d returned twice", idx)
		}
		text := strings.TrimSpace(strings.ReplaceAll(e.Translation, `\n`, "\n"))
		if text == "" {
			return nil, fmt.Errorf("empty translation for index %d", idx)
		}
		out[idx] = text
	}

	var missing []string
	for _, it := range items {
		if _, ok := out[it.Index]; !ok {
			missing = append(missing, strconv.Itoa(it.Index))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing translations for index %s", strings.Join(missing, ", "))
	}
	return out, nil
}

func decodeEntries(content string) ([]translation, error) {
	content = strings.TrimSpace(thinkRe.ReplaceAllString(content, ""))
	if m := fenceRe.FindStringSubmatch(content); m != nil {
		content = m[1]
	}
	// ASS-style \N is not a valid JSON escape.
	content = strings.ReplaceAll(content, `\N`, `\n`)
	if content == "" {
		return nil, errors.New("empty response")
	}

	var entries []translation
	err := json.Unmarshal([]byte(content), &entries)
	if err == nil {
		return entries, nil
	}

	var wrapped map[string]json.RawMessage
	if json.Unmarshal([]byte(content), &wrapped) == nil {
		for _, v := range wrapped {
			if json.Unmarshal(v, &entries) == nil && len(entries) > 0 {
				return entries, nil
			}
		}
	}

	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start >= 0 && end > start {
		if json.Unmarshal([]byte(content[start:end+1]), &entries) == nil {
			return entries, nil
		}
	}
	return nil, fmt.Errorf("response is not a JSON translation array: %w", err)
}
