package grounding

import (
	"guarded-chat-be/pkg/knowledge"
)

// FailReason explains why a reply was not grounded.
type FailReason string

const (
	FailReasonNone              FailReason = "none"
	FailReasonNoSources         FailReason = "no_sources"
	FailReasonUngroundedNumbers FailReason = "ungrounded_numbers"
)

// Citation points at the excerpt of a document that backs a number.
type Citation struct {
	SourceID string `json:"sourceId"`
	Snippet  string `json:"snippet"`
}

// Verdict is the outcome of a grounding check. Grounded is true exactly when
// FailReason is FailReasonNone.
type Verdict struct {
	Grounded          bool       `json:"grounded"`
	Citations         []Citation `json:"citations"`
	UngroundedNumbers []string   `json:"ungroundedNumbers"`
	FailReason        FailReason `json:"failReason"`
}

// Verify checks that every number in reply can be cited from a document
// relevant to query. It fails closed when no document is relevant, and when
// any single number cannot be found in the relevant documents. Citations for
// the numbers that did ground are kept on failure.
func Verify(query, reply string, docs []knowledge.Document) Verdict {
	relevant := Retrieve(query, docs)
	if len(relevant) == 0 {
		return Verdict{
			Grounded:          false,
			Citations:         []Citation{},
			UngroundedNumbers: []string{},
			FailReason:        FailReasonNoSources,
		}
	}

	replyNumbers := ExtractNumbers(reply)
	if len(replyNumbers) == 0 {
		return Verdict{
			Grounded:          true,
			Citations:         []Citation{},
			UngroundedNumbers: []string{},
			FailReason:        FailReasonNone,
		}
	}

	index := indexNumbers(relevant)
	citations := []Citation{}
	seen := make(map[Citation]struct{})
	ungrounded := []string{}

	for _, num := range replyNumbers {
		normalized := NormalizeNumber(num)
		matched := false

		for i, doc := range relevant {
			if _, ok := index[i][normalized]; !ok {
				continue
			}
			matched = true

			snippet, ok := FindExcerpt(doc.Text, num)
			if !ok {
				continue
			}
			c := Citation{SourceID: doc.ID, Snippet: snippet}
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}
			citations = append(citations, c)
		}

		if !matched {
			ungrounded = append(ungrounded, num)
		}
	}

	if len(ungrounded) > 0 {
		return Verdict{
			Grounded:          false,
			Citations:         citations,
			UngroundedNumbers: ungrounded,
			FailReason:        FailReasonUngroundedNumbers,
		}
	}

	return Verdict{
		Grounded:          true,
		Citations:         citations,
		UngroundedNumbers: []string{},
		FailReason:        FailReasonNone,
	}
}

// indexNumbers returns, per document, the set of normalized numbers it contains.
func indexNumbers(docs []knowledge.Document) []map[string]struct{} {
	index := make([]map[string]struct{}, len(docs))
	for i, doc := range docs {
		set := make(map[string]struct{})
		for _, num := range ExtractNumbers(doc.Text) {
			set[NormalizeNumber(num)] = struct{}{}
		}
		index[i] = set
	}
	return index
}
