package grounding

import (
	"strings"
	"unicode/utf8"

	"guarded-chat-be/pkg/utils"
)

// ExtractNumbers returns every number-like run in text: an optional '+',
// a digit, then any mix of digits, whitespace, '-', '.', ',', ':' and '%'.
// Runs are trimmed of surrounding whitespace. The grammar is greedy on
// purpose, so trailing punctuation such as a sentence-ending dot is kept.
func ExtractNumbers(text string) []string {
	var out []string

	i := 0
	for i < len(text) {
		start := -1
		switch {
		case isDigit(text[i]):
			start = i
		case text[i] == '+' && i+1 < len(text) && isDigit(text[i+1]):
			start = i
			i++
		}
		if start < 0 {
			i++
			continue
		}

		// text[i] is the mandatory leading digit
		i++
		for i < len(text) {
			r, size := utf8.DecodeRuneInString(text[i:])
			if !isNumberRune(r) {
				break
			}
			i += size
		}

		m := strings.TrimFunc(text[start:i], isSpace)
		if m != "" && strings.IndexFunc(m, func(r rune) bool { return r >= '0' && r <= '9' }) >= 0 {
			out = append(out, m)
		}
	}

	return out
}

// NormalizeNumber maps a number string to its comparable form: commas become
// dots, whitespace is removed and the result is lower-cased. Every other
// character passes through, so "12.50" and "12.5" stay distinct.
func NormalizeNumber(num string) string {
	num = strings.ReplaceAll(num, ",", ".")
	num = strings.Map(func(r rune) rune {
		if isSpace(r) {
			return -1
		}
		return r
	}, num)
	return strings.ToLower(num)
}

// NumbersMatch reports whether a and b normalize to the same string.
func NumbersMatch(a, b string) bool {
	return NormalizeNumber(a) == NormalizeNumber(b)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isNumberRune(r rune) bool {
	if r >= '0' && r <= '9' {
		return true
	}
	switch r {
	case '-', '.', ',', ':', '%':
		return true
	}
	return isSpace(r)
}

func isSpace(r rune) bool {
	return utils.IsSpace(r)
}
