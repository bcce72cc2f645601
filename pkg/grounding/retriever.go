package grounding

import (
	"strings"
	"unicode/utf8"

	"guarded-chat-be/pkg/knowledge"
)

// minTermLength is the shortest query term, in characters, that takes part in retrieval.
const minTermLength = 3

// QueryTerms lower-cases the query, splits it on whitespace and keeps terms
// of at least three characters.
func QueryTerms(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), isSpace)

	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= minTermLength {
			terms = append(terms, f)
		}
	}
	return terms
}

// Retrieve returns the documents whose lower-cased text contains at least
// one query term as a substring. A query without usable terms matches nothing.
func Retrieve(query string, docs []knowledge.Document) []knowledge.Document {
	terms := QueryTerms(query)
	if len(terms) == 0 {
		return nil
	}

	var relevant []knowledge.Document
	for _, doc := range docs {
		text := strings.ToLower(doc.Text)
		for _, term := range terms {
			if strings.Contains(text, term) {
				relevant = append(relevant, doc)
				break
			}
		}
	}
	return relevant
}

// FindExcerpt locates the first line that contains searchTerm (case
// insensitive) or carries a number equal to it after normalization, and
// returns that line with at most one line of context on each side.
func FindExcerpt(text, searchTerm string) (string, bool) {
	lines := strings.Split(text, "\n")
	searchLower := strings.ToLower(searchTerm)
	searchNormalized := NormalizeNumber(searchTerm)

	for i, line := range lines {
		if !lineMatches(line, searchLower, searchNormalized) {
			continue
		}
		start := max(0, i-1)
		end := min(len(lines), i+2)
		return strings.TrimFunc(strings.Join(lines[start:end], "\n"), isSpace), true
	}

	return "", false
}

func lineMatches(line, searchLower, searchNormalized string) bool {
	if strings.Contains(strings.ToLower(line), searchLower) {
		return true
	}
	for _, num := range ExtractNumbers(line) {
		if NormalizeNumber(num) == searchNormalized {
			return true
		}
	}
	return false
}
