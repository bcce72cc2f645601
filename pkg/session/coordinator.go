package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"guarded-chat-be/internal/pkg/logger"
	"guarded-chat-be/pkg/action"
	"guarded-chat-be/pkg/events"
	"guarded-chat-be/pkg/grounding"
	"guarded-chat-be/pkg/knowledge"
	"guarded-chat-be/pkg/llm"
	"guarded-chat-be/pkg/utils"
)

const (
	logModule = "SESSION"

	DefaultTokenDelay = 50 * time.Millisecond
)

// Sink delivers frames to the connected peer. Send is called with the
// coordinator lock held and must return within a bounded time.
type Sink interface {
	Send(msg Message) error
}

type Options struct {
	ConnectionID      string
	TokenDelay        time.Duration
	IdempotencyWindow time.Duration
	Publisher         events.Publisher
	Logger            logger.ILogger
	Tracer            trace.Tracer
}

type turn struct {
	messageID string
	ctx       context.Context
	cancel    context.CancelFunc
}

// Coordinator runs the conversation protocol for one connection. At most one
// turn is active at a time; every frame of a turn is sent under mu after
// checking the turn's context, so nothing from a cancelled turn reaches the
// peer once its cancellation has been acknowledged.
type Coordinator struct {
	connectionID string
	sink         Sink
	generator    llm.Generator
	corpus       knowledge.Provider
	broker       *action.Broker
	publisher    events.Publisher
	logger       logger.ILogger
	tracer       trace.Tracer
	delay        time.Duration

	root       context.Context
	cancelRoot context.CancelFunc
	wg         sync.WaitGroup

	mu     sync.Mutex
	active *turn
	closed bool
}

func NewCoordinator(sink Sink, generator llm.Generator, corpus knowledge.Provider, opts Options) *Coordinator {
	if opts.Logger == nil {
		opts.Logger = logger.NewNopLogger()
	}
	if opts.Tracer == nil {
		opts.Tracer = otel.Tracer("guarded-chat-be/session")
	}
	if opts.TokenDelay < 0 {
		opts.TokenDelay = 0
	}

	root, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		connectionID: opts.ConnectionID,
		sink:         sink,
		generator:    generator,
		corpus:       corpus,
		broker:       action.NewBroker(opts.IdempotencyWindow),
		publisher:    opts.Publisher,
		logger:       opts.Logger,
		tracer:       opts.Tracer,
		delay:        opts.TokenDelay,
		root:         root,
		cancelRoot:   cancel,
	}
}

// HandleMessage starts a new turn for text. A turn still in progress is
// cancelled first and acknowledged with stream_end{cancelled}.
func (c *Coordinator) HandleMessage(messageID, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	if c.active != nil {
		c.logger.Info(logModule, "Preempting active turn", map[string]interface{}{
			"connection_id": c.connectionID,
			"message_id":    c.active.messageID,
		})
		c.active.cancel()
		c.active = nil
		c.send(NewStreamEnd(ReasonCancelled))
	}

	ctx, cancel := context.WithCancel(c.root)
	t := &turn{messageID: messageID, ctx: ctx, cancel: cancel}
	c.active = t

	c.wg.Add(1)
	go c.run(t, text)
}

// Cancel stops the active turn. It reports whether there was one.
func (c *Coordinator) Cancel() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.active == nil {
		return false
	}

	c.logger.Info(logModule, "Turn cancelled", map[string]interface{}{
		"connection_id": c.connectionID,
		"message_id":    c.active.messageID,
	})
	c.active.cancel()
	c.active = nil
	c.send(NewStreamEnd(ReasonCancelled))
	return true
}

// Confirm executes a proposed action. Fresh duplicates are acknowledged as
// ignored; unknown or expired ids produce no frame.
func (c *Coordinator) Confirm(suggestionID string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	p, outcome := c.broker.Confirm(suggestionID)
	switch outcome {
	case action.OutcomeSuccess:
		c.send(NewActionExecuted(suggestionID, ActionResult{Success: true}))
	case action.OutcomeIgnored:
		c.send(NewActionExecuted(suggestionID, ActionResult{Ignored: true}))
	}
	c.mu.Unlock()

	details := map[string]interface{}{
		"connection_id": c.connectionID,
		"suggestion_id": suggestionID,
		"outcome":       outcome.String(),
	}
	if outcome != action.OutcomeSuccess {
		c.logger.Debug(logModule, "Confirmation not executed", details)
		return
	}

	details["action"] = p.Kind
	c.logger.Info(logModule, "Action executed", details)
	c.publish(c.root, events.NewActionExecuted(c.connectionID, suggestionID, string(p.Kind), time.Now()))
}

// Active reports whether a turn is in progress.
func (c *Coordinator) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active != nil
}

// Close cancels any active turn and waits for its goroutine to exit. No frame
// is sent.
func (c *Coordinator) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if c.active != nil {
		c.active.cancel()
		c.active = nil
	}
	c.mu.Unlock()

	c.cancelRoot()
	c.wg.Wait()
}

func (c *Coordinator) run(t *turn, text string) {
	defer c.wg.Done()
	defer c.release(t)

	ctx, span := c.tracer.Start(t.ctx, "session.turn", trace.WithAttributes(
		attribute.String("connection.id", c.connectionID),
		attribute.String("message.id", t.messageID),
	))
	defer span.End()

	summary := events.TurnSummary{ConnectionID: c.connectionID, MessageID: t.messageID}

	var buf strings.Builder
	genErr := c.generator.Generate(ctx, text, func(token string) {
		buf.WriteString(token)
	})
	if ctx.Err() != nil {
		span.SetAttributes(attribute.Bool("turn.cancelled", true))
		return
	}

	var reply string
	var citations []grounding.Citation
	if genErr != nil {
		c.logger.Error(logModule, "Generation failed", map[string]interface{}{
			"connection_id": c.connectionID,
			"message_id":    t.messageID,
			"error":         genErr.Error(),
		})
		span.RecordError(genErr)
		span.SetStatus(codes.Error, "generation failed")
		summary.GenerationError = genErr.Error()
		reply, citations = NoticeGenerationUnavailable, []grounding.Citation{}
	} else {
		docs, err := c.corpus.ListDocuments(ctx)
		if err != nil {
			c.logger.Error(logModule, "Listing documents failed", map[string]interface{}{
				"connection_id": c.connectionID,
				"error":         err.Error(),
			})
			docs = nil
		}

		verdict := grounding.Verify(text, buf.String(), docs)
		span.SetAttributes(
			attribute.Bool("grounding.grounded", verdict.Grounded),
			attribute.String("grounding.fail_reason", string(verdict.FailReason)),
			attribute.Int("grounding.citations", len(verdict.Citations)),
		)
		summary.Grounded = verdict.Grounded
		summary.FailReason = string(verdict.FailReason)
		summary.CitationCount = len(verdict.Citations)
		summary.UngroundedNumbers = verdict.UngroundedNumbers

		if !verdict.Grounded {
			c.logger.Warn(logModule, "Reply suppressed", map[string]interface{}{
				"connection_id":      c.connectionID,
				"message_id":         t.messageID,
				"fail_reason":        verdict.FailReason,
				"ungrounded_numbers": verdict.UngroundedNumbers,
			})
		}
		reply, citations = chooseReply(buf.String(), verdict)
	}
	if ctx.Err() != nil {
		span.SetAttributes(attribute.Bool("turn.cancelled", true))
		return
	}

	for _, token := range utils.SplitTokens(reply) {
		if !c.emit(t, NewStream(token)) || !wait(ctx, c.delay) {
			span.SetAttributes(attribute.Bool("turn.cancelled", true))
			return
		}
	}

	proposal, ok := c.complete(t, reply, citations, text)
	if !ok {
		span.SetAttributes(attribute.Bool("turn.cancelled", true))
		return
	}
	if proposal != nil {
		summary.ActionProposed = string(proposal.Kind)
	}

	c.publish(context.WithoutCancel(ctx), events.NewTurnCompleted(summary, time.Now()))
}

// complete sends the closing frames of a turn and, if the user text asks for
// an action, its proposal. It returns false when the turn was cancelled first.
func (c *Coordinator) complete(t *turn, reply string, citations []grounding.Citation, text string) (*action.PendingAction, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t.ctx.Err() != nil {
		return nil, false
	}

	c.send(NewStreamEnd(ReasonDone))
	c.send(NewResponse(reply, citations))

	var proposal *action.PendingAction
	if p, ok := c.broker.Propose(text); ok {
		c.send(NewActionSuggestion(p))
		proposal = &p
	}

	if c.active == t {
		c.active = nil
	}
	return proposal, true
}

// emit sends msg unless t has been cancelled.
func (c *Coordinator) emit(t *turn, msg Message) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t.ctx.Err() != nil {
		return false
	}
	c.send(msg)
	return true
}

func (c *Coordinator) release(t *turn) {
	c.mu.Lock()
	if c.active == t {
		c.active = nil
	}
	c.mu.Unlock()
	t.cancel()
}

// send must be called with mu held. A frame the sink cannot accept is
// dropped; the turn and any pending cancel carry on.
func (c *Coordinator) send(msg Message) {
	if err := c.sink.Send(msg); err != nil {
		c.logger.Debug(logModule, "Send failed", map[string]interface{}{
			"connection_id": c.connectionID,
			"type":          msg.MessageType(),
			"error":         err.Error(),
		})
	}
}

func (c *Coordinator) publish(ctx context.Context, evt events.Event) {
	if c.publisher == nil {
		return
	}
	if err := c.publisher.Publish(ctx, evt); err != nil {
		c.logger.Warn(logModule, "Failed to publish event", map[string]interface{}{
			"type":  evt.EventType(),
			"error": err.Error(),
		})
	}
}

// wait sleeps for d unless ctx ends first. Cancellation is checked again after
// the timer fires.
func wait(ctx context.Context, d time.Duration) bool {
	if d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return false
		case <-timer.C:
		}
	}
	return ctx.Err() == nil
}
