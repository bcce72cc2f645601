package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"guarded-chat-be/pkg/grounding"
)

func TestChooseReply(t *testing.T) {
	cites := []grounding.Citation{{SourceID: "kb/pricing.md", Snippet: "- Standard: 299 kr/månad"}}

	tests := []struct {
		name          string
		verdict       grounding.Verdict
		wantText      string
		wantCitations []grounding.Citation
	}{
		{
			name:          "grounded passes reply through",
			verdict:       grounding.Verdict{Grounded: true, Citations: cites, FailReason: grounding.FailReasonNone},
			wantText:      "svar",
			wantCitations: cites,
		},
		{
			name:          "no sources drops citations",
			verdict:       grounding.Verdict{Citations: []grounding.Citation{}, FailReason: grounding.FailReasonNoSources},
			wantText:      NoticeNoSources,
			wantCitations: []grounding.Citation{},
		},
		{
			name:          "ungrounded keeps partial citations",
			verdict:       grounding.Verdict{Citations: cites, UngroundedNumbers: []string{"999"}, FailReason: grounding.FailReasonUngroundedNumbers},
			wantText:      NoticeUngroundedNumbers,
			wantCitations: cites,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, citations := chooseReply("svar", tt.verdict)
			assert.Equal(t, tt.wantText, text)
			assert.Equal(t, tt.wantCitations, citations)
		})
	}
}
