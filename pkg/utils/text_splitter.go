package utils

// SplitTokens splits text on whitespace boundaries. Runs of whitespace are
// kept as their own tokens, so joining the result reproduces text exactly.
func SplitTokens(text string) []string {
	var tokens []string

	start := 0
	inSpace := false
	for i, r := range text {
		space := IsSpace(r)
		if i == 0 {
			inSpace = space
			continue
		}
		if space != inSpace {
			tokens = append(tokens, text[start:i])
			start = i
			inSpace = space
		}
	}
	if start < len(text) {
		tokens = append(tokens, text[start:])
	}

	return tokens
}
