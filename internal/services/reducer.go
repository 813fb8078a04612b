package services

import (
	"strings"
	"unicode/utf8"
)

// TextReducer bounds the resume text before it is embedded in a prompt.
type TextReducer interface {
	Reduce(text string) string
}

// TruncateReducer keeps the first MaxChars characters.
type TruncateReducer struct {
	MaxChars int
}

func (t TruncateReducer) Reduce(text string) string {
	return getFirstNChars(text, t.MaxChars)
}

var DefaultSectionKeywords = []string{"skill", "experience", "work", "project", "education", "technical"}

// KeywordWindowReducer keeps every line that mentions a section keyword plus
// the Window-1 lines after it, capped at MaxLines lines. Windows may overlap,
// in which case lines repeat. Without any keyword line the first FallbackChars
// characters are kept instead. MaxChars caps the final result.
type KeywordWindowReducer struct {
	Keywords      []string
	Window        int
	MaxLines      int
	FallbackChars int
	MaxChars      int
}

func NewKeywordWindowReducer() KeywordWindowReducer {
	return KeywordWindowReducer{
		Keywords:      DefaultSectionKeywords,
		Window:        4,
		MaxLines:      50,
		FallbackChars: 1500,
		MaxChars:      8000,
	}
}

func (k KeywordWindowReducer) Reduce(text string) string {
	lines := strings.Split(text, "\n")

	var sections []string
	for i, line := range lines {
		if !k.matches(line) {
			continue
		}
		end := i + k.Window
		if end > len(lines) {
			end = len(lines)
		}
		sections = append(sections, lines[i:end]...)
		if k.MaxLines > 0 && len(sections) >= k.MaxLines {
			break
		}
	}

	if len(sections) == 0 {
		return getFirstNChars(text, k.FallbackChars)
	}

	if k.MaxLines > 0 && len(sections) > k.MaxLines {
		sections = sections[:k.MaxLines]
	}
	return getFirstNChars(strings.Join(sections, "\n"), k.MaxChars)
}

func (k KeywordWindowReducer) matches(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range k.Keywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// getFirstNChars cuts on rune boundaries. n <= 0 disables the cap.
func getFirstNChars(text string, n int) string {
	if n <= 0 || utf8.RuneCountInString(text) <= n {
		return text
	}

	runes := []rune(text)
	return string(runes[:n])
}
