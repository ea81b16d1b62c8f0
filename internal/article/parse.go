// Package article turns raw generator output into a domain.GeneratedArticle
// and builds the prompts sent to the generator.
package article

import (
	"fmt"
	"strings"

	"AutoPublisher/internal/domain"
)

// ParseMode selects how raw text is split into title and body.
type ParseMode string

const (
	// ModeFirstLine takes the first non-blank line as title and keeps the whole text as body.
	ModeFirstLine ParseMode = "first-line"
	// ModeSplit takes the first non-blank line as title and the remaining lines as body.
	ModeSplit ParseMode = "split"
)

// ParseModeFromString maps a config value to a ParseMode.
func ParseModeFromString(value string) (ParseMode, error) {
	switch ParseMode(strings.ToLower(strings.TrimSpace(value))) {
	case "", ModeFirstLine:
		return ModeFirstLine, nil
	case ModeSplit:
		return ModeSplit, nil
	default:
		return "", fmt.Errorf("unknown parse mode %q", value)
	}
}

// Parse converts raw Markdown into an article. It fails with
// domain.ErrIncompleteArticle when title or body ends up empty.
func Parse(raw string, mode ParseMode) (domain.GeneratedArticle, error) {
	var art domain.GeneratedArticle

	switch mode {
	case ModeSplit:
		lines := nonBlankLines(raw)
		if len(lines) > 0 {
			art.Title = StripHeading(lines[0])
			art.Body = strings.Join(lines[1:], "\n\n")
		}
	case ModeFirstLine, "":
		lines := nonBlankLines(raw)
		if len(lines) > 0 {
			art.Title = StripHeading(lines[0])
		}
		art.Body = raw
	default:
		return domain.GeneratedArticle{}, fmt.Errorf("unknown parse mode %q", mode)
	}

	if !art.Complete() {
		return domain.GeneratedArticle{}, fmt.Errorf("%w: title=%q body_len=%d",
			domain.ErrIncompleteArticle, art.Title, len(strings.TrimSpace(art.Body)))
	}
	return art, nil
}

// StripHeading removes leading Markdown heading markers and surrounding whitespace.
func StripHeading(line string) string {
	line = strings.TrimSpace(line)
	line = strings.TrimLeft(line, "#")
	return strings.TrimSpace(line)
}

func nonBlankLines(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}
