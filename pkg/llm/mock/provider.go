package mock

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"

	"guarded-chat-be/pkg/llm"
	"guarded-chat-be/pkg/utils"
)

// Category groups canned replies by the topic detected in the prompt.
type Category string

const (
	CategoryPricing Category = "pricing"
	CategoryReturns Category = "returns"
	CategoryContact Category = "contact"
	CategoryDefault Category = "default"
)

// Responses mixes correct replies with ones carrying numbers that are not in
// the knowledge base, to exercise grounding.
var Responses = map[Category][]string{
	CategoryPricing: {
		"Vårt standardpaket kostar 299 kr/månad.",
		"Vårt standardpaket kostar 349 kr/månad.",
		"Premium kostar 599 kr/månad med 20% rabatt första året.",
	},
	CategoryReturns: {
		"Ni har 14 dagars ångerrätt enligt lag.",
		"Ni har 30 dagars ångerrätt enligt lag.",
		"Ångerrätten gäller i 14 dagar från leverans.",
	},
	CategoryContact: {
		"Ring oss på 08-123 45 67.",
		"Ring oss på 08-999 88 77.",
		"Vår support nås på support@example.com.",
	},
	CategoryDefault: {
		"Jag kan hjälpa dig med det.",
		"Låt mig kolla det åt dig.",
		"Tyvärr har jag inte den informationen just nu.",
	},
}

// Picker returns an index in [0, n).
type Picker func(n int) int

type MockProvider struct {
	Delay  time.Duration
	Picker Picker
}

var _ llm.Generator = &MockProvider{}

func NewMockProvider(delay time.Duration) *MockProvider {
	return &MockProvider{
		Delay:  delay,
		Picker: rand.IntN,
	}
}

// Categorize maps a prompt to a reply category by keyword.
func Categorize(prompt string) Category {
	lower := strings.ToLower(prompt)
	switch {
	case strings.Contains(lower, "pris"), strings.Contains(lower, "kost"):
		return CategoryPricing
	case strings.Contains(lower, "ånger"), strings.Contains(lower, "retur"):
		return CategoryReturns
	case strings.Contains(lower, "kontakt"), strings.Contains(lower, "telefon"), strings.Contains(lower, "ring"):
		return CategoryContact
	default:
		return CategoryDefault
	}
}

func (m *MockProvider) pick(prompt string) string {
	options := Responses[Categorize(prompt)]
	idx := 0
	if m.Picker != nil {
		idx = m.Picker(len(options))
	}
	if idx < 0 || idx >= len(options) {
		idx = 0
	}
	return options[idx]
}

func (m *MockProvider) Generate(ctx context.Context, prompt string, onToken llm.TokenHandler, _ ...llm.Option) error {
	tokens := utils.SplitTokens(m.pick(prompt))

	for _, token := range tokens {
		if err := ctx.Err(); err != nil {
			return err
		}

		onToken(token)

		if m.Delay > 0 {
			timer := time.NewTimer(m.Delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
	}

	return ctx.Err()
}
