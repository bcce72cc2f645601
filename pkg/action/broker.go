package action

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

type Kind string

const (
	KindScheduleCallback Kind = "schedule_callback"
	KindSendSMS          Kind = "send_sms"
	KindCreateTicket     Kind = "create_ticket"
)

const DefaultIdempotencyWindow = 10 * time.Minute

type trigger struct {
	kind    Kind
	phrases []string
}

// Table order is the tie-break when several kinds match.
var triggers = []trigger{
	{KindScheduleCallback, []string{"ring mig", "ring upp mig", "kontakta mig", "call me", "callback"}},
	{KindSendSMS, []string{"skicka sms", "sms:a mig", "send sms", "text me"}},
	{KindCreateTicket, []string{"skapa ärende", "öppna ärende", "create ticket", "support ticket"}},
}

// DetectTrigger returns the first action kind with a phrase contained in text.
func DetectTrigger(text string) (Kind, bool) {
	lower := strings.ToLower(text)
	for _, t := range triggers {
		for _, phrase := range t.phrases {
			if strings.Contains(lower, phrase) {
				return t.kind, true
			}
		}
	}
	return "", false
}

type PendingAction struct {
	ID        string
	Kind      Kind
	Payload   map[string]any
	CreatedAt time.Time
}

type Outcome int

const (
	// OutcomeDropped means the id is unknown or its execution has aged out.
	OutcomeDropped Outcome = iota
	OutcomeSuccess
	OutcomeIgnored
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeIgnored:
		return "ignored"
	default:
		return "dropped"
	}
}

// Broker tracks proposals and confirmations for a single connection.
type Broker struct {
	mu       sync.Mutex
	pending  map[string]PendingAction
	executed *cache.Cache
	newID    func() string
	now      func() time.Time
}

func NewBroker(window time.Duration) *Broker {
	if window <= 0 {
		window = DefaultIdempotencyWindow
	}
	return &Broker{
		pending: make(map[string]PendingAction),
		// No janitor: expired entries are purged on confirmation.
		executed: cache.New(window, 0),
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

// Propose records a pending action for the first trigger phrase in text.
func (b *Broker) Propose(text string) (PendingAction, bool) {
	kind, ok := DetectTrigger(text)
	if !ok {
		return PendingAction{}, false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	p := PendingAction{
		ID:        b.newID(),
		Kind:      kind,
		Payload:   map[string]any{},
		CreatedAt: b.now(),
	}
	b.pending[p.ID] = p
	return p, true
}

// Confirm executes a pending action at most once per id.
func (b *Broker) Confirm(id string) (PendingAction, Outcome) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if v, found := b.executed.Get(id); found {
		return v.(PendingAction), OutcomeIgnored
	}

	p, ok := b.pending[id]
	if !ok {
		return PendingAction{}, OutcomeDropped
	}

	delete(b.pending, id)
	b.executed.SetDefault(id, p)
	b.executed.DeleteExpired()

	return p, OutcomeSuccess
}

// Pending returns the number of proposals awaiting confirmation.
func (b *Broker) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Executed returns the number of executed entries still tracked, expired ones included.
func (b *Broker) Executed() int {
	return b.executed.ItemCount()
}
