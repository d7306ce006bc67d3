package domain

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// ErrTypingInputEmpty is returned when a typing attempt has nothing to compare.
var ErrTypingInputEmpty = errors.New("typing input cannot be empty")

// NormalizeTyping reduces typed text to the characters that are compared.
// Width variants fold to their canonical form (fullwidth ASCII to halfwidth,
// halfwidth kana to fullwidth), then whitespace and sentence punctuation are dropped.
func NormalizeTyping(s string) string {
	folded := width.Fold.String(s)
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsSpace(r) || isTypingPunct(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isTypingPunct(r rune) bool {
	switch r {
	case '。', '、', '!', '?', '.', ',', '・', '「', '」', '『', '』':
		return true
	}
	return false
}
