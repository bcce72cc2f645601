package session

import "guarded-chat-be/pkg/grounding"

// Fixed texts streamed in place of a reply that failed verification.
const (
	NoticeNoSources             = "Jag hittar ingen information om det i kunskapsbasen. Kontakta gärna kundtjänst för hjälp."
	NoticeUngroundedNumbers     = "Jag kunde inte verifiera alla uppgifter i svaret mot kunskapsbasen, så jag visar det inte. Kontakta gärna kundtjänst för exakta uppgifter."
	NoticeGenerationUnavailable = "Jag kan inte ta fram ett svar just nu. Försök igen om en stund eller kontakta kundtjänst."
)

// chooseReply picks the text and citations to stream for a verdict.
func chooseReply(reply string, v grounding.Verdict) (string, []grounding.Citation) {
	switch v.FailReason {
	case grounding.FailReasonNoSources:
		return NoticeNoSources, []grounding.Citation{}
	case grounding.FailReasonUngroundedNumbers:
		return NoticeUngroundedNumbers, v.Citations
	default:
		return reply, v.Citations
	}
}
