package bootstrap

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"guarded-chat-be/internal/config"
	"guarded-chat-be/internal/controller"
	"guarded-chat-be/internal/handler"
	"guarded-chat-be/internal/pkg/logger"
	"guarded-chat-be/internal/pkg/serverutils"
	"guarded-chat-be/internal/repository/contract"
	"guarded-chat-be/internal/repository/implementation"
	"guarded-chat-be/internal/service"
	"guarded-chat-be/internal/websocket"
	"guarded-chat-be/pkg/events"
	"guarded-chat-be/pkg/llm/factory"
	pktNats "guarded-chat-be/pkg/nats"
	"guarded-chat-be/pkg/session"
)

type Container struct {
	// Controllers
	KnowledgeController controller.IKnowledgeController
	ChatHandler         *handler.ChatHandler

	// Background workers (run by main.go)
	ConsumerService service.IConsumerService
	WebSocketHub    *websocket.Hub

	Logger logger.ILogger

	closers []func()
}

// NewContainer wires the application. db may be nil, in which case auditing
// and the "db" knowledge source are unavailable. NATS and Redis are optional
// and skipped with a warning when unreachable.
func NewContainer(ctx context.Context, cfg *config.Config, db *gorm.DB, sysLogger logger.ILogger) (*Container, error) {
	c := &Container{Logger: sysLogger}

	// 1. Persistence
	var (
		knowledgeRepo contract.KnowledgeDocumentRepository
		auditRepo     contract.TurnAuditRepository
	)
	if db != nil {
		knowledgeRepo = implementation.NewKnowledgeDocumentRepository(db)
		auditRepo = implementation.NewTurnAuditRepository(db)
	}

	// 2. Knowledge corpus, loaded once and shared read-only by every session
	corpus, err := service.LoadCorpus(ctx, cfg.Grounding, knowledgeRepo)
	if err != nil {
		return nil, err
	}
	docs, _ := corpus.ListDocuments(ctx)
	sysLogger.Info("BOOTSTRAP", "Knowledge corpus loaded", map[string]interface{}{
		"source":    cfg.Grounding.KnowledgeSource,
		"documents": len(docs),
	})

	// 3. Generator
	generator, err := factory.NewGenerator(cfg.Ai.LLMProvider, cfg.Ai.LLMModel, cfg.Ai.OllamaBaseURL, cfg.Ai.MockDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize generator: %w", err)
	}
	sysLogger.Info("BOOTSTRAP", "Generator ready", map[string]interface{}{
		"provider": cfg.Ai.LLMProvider,
		"model":    cfg.Ai.LLMModel,
	})

	// 4. Event bus
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	var forwarders []events.Publisher
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "NATS unavailable, forwarding disabled", map[string]interface{}{"error": err.Error()})
		} else {
			forwarders = append(forwarders, natsPub)
			c.closers = append(c.closers, natsPub.Close)
		}
	}
	if rdb := newRedisClient(ctx, cfg.App.RedisURL, sysLogger); rdb != nil {
		forwarders = append(forwarders, service.NewRedisForwarder(rdb))
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	publisherService := service.NewPublisherService(cfg.App.EventTopic, pubSub)
	c.ConsumerService = service.NewConsumerService(pubSub, cfg.App.EventTopic, auditRepo, forwarders, sysLogger)

	// 5. Sessions
	sessionLogger := logger.NewIsolatedLogger(cfg.App.SessionLogFilePath)
	c.closers = append(c.closers, func() { _ = sessionLogger.Sync() })

	c.WebSocketHub = websocket.NewHub(sessionLogger)
	newSession := func(connectionID string, sink session.Sink) websocket.Session {
		return session.NewCoordinator(sink, generator, corpus, session.Options{
			ConnectionID:      connectionID,
			TokenDelay:        cfg.Grounding.TokenDelay,
			IdempotencyWindow: cfg.Grounding.IdempotencyWindow,
			Publisher:         publisherService,
			Logger:            sessionLogger,
		})
	}

	// 6. Transport
	c.ChatHandler = handler.NewChatHandler(c.WebSocketHub, newSession, cfg.Auth.JWTSecret, serverutils.Validator(), sessionLogger)
	c.KnowledgeController = controller.NewKnowledgeController(
		service.NewKnowledgeService(corpus),
		c.WebSocketHub,
		cfg.Ai.LLMProvider,
		serverutils.NewJwtMiddleware(cfg.Auth.JWTSecret),
	)

	return c, nil
}

// Close releases the bus and external connections in reverse order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

func newRedisClient(ctx context.Context, url string, log logger.ILogger) *redis.Client {
	if url == "" {
		return nil
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Warn("BOOTSTRAP", "Failed to parse Redis URL, using direct Addr", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{Addr: url}
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("BOOTSTRAP", "Redis unavailable, fan-out disabled", map[string]interface{}{"error": err.Error()})
		_ = rdb.Close()
		return nil
	}
	return rdb
}
