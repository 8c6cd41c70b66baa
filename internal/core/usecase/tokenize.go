package usecase

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/icyphotoget/perfume/internal/core/domain"
)

// minTokenLength drops short fragments such as "in" or "of".
const minTokenLength = 3

// Tokenize lower-cases text (ASCII only), splits it on whitespace and keeps
// tokens of at least three characters. Leading and trailing punctuation is trimmed
// so "dark," yields "dark"; inner punctuation such as "night-time" is kept.
func Tokenize(text string) []string {
	fields := strings.Fields(asciiLower(text))
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		field = strings.TrimFunc(field, isTokenEdge)
		if utf8.RuneCountInString(field) < minTokenLength {
			continue
		}
		tokens = append(tokens, field)
	}
	return tokens
}

// Contains is a plain substring test, so "art" matches "heart".
func Contains(haystack, token string) bool {
	return strings.Contains(haystack, token)
}

// SearchableText is the lower-cased text an item is matched against.
func SearchableText(item domain.Item) string {
	return asciiLower(item.Description + " " + strings.Join(item.CategoryTags, " "))
}

func isTokenEdge(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func asciiLower(s string) string {
	hasUpper := false
	for i := 0; i < len(s); i++ {
		if c := s[i]; 'A' <= c && c <= 'Z' {
			hasUpper = true
			break
		}
	}
	if !hasUpper {
		return s
	}

	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
