package strutil

import (
	"strings"

	"github.com/pkg/errors"
)

// ExtractJSONObject returns the substring of content from the first '{'
// to the last '}' after stripping markdown code fences. Models wrap JSON
// in fences or prose despite instructions; this cuts the noise away
// before decoding.
func ExtractJSONObject(content string) (string, error) {
	cleaned := strings.ReplaceAll(content, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return "", errors.New("no JSON object in content")
	}
	return cleaned[start : end+1], nil
}
