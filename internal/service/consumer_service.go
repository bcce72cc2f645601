package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"guarded-chat-be/internal/dto"
	"guarded-chat-be/internal/model"
	"guarded-chat-be/internal/pkg/logger"
	"guarded-chat-be/internal/repository/contract"
	"guarded-chat-be/pkg/events"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	auditRepo  contract.TurnAuditRepository
	forwarders []events.Publisher
	logger     logger.ILogger
}

// NewConsumerService drains session events from the bus, storing each in the
// audit table (when auditRepo is set) and forwarding it to every forwarder.
func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	auditRepo contract.TurnAuditRepository,
	forwarders []events.Publisher,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		auditRepo:  auditRepo,
		forwarders: forwarders,
		logger:     log,
	}
}

// Consume subscribes and processes messages in the background until ctx ends.
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.EventMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("CONSUMER", "Failed to unmarshal event", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	connectionID, _ := payload.Payload["connection_id"].(string)
	cs.logger.Info("CONSUMER", "Session event", map[string]interface{}{
		"type":          payload.Type,
		"connection_id": connectionID,
		"payload":       payload.Payload,
	})

	if cs.auditRepo != nil {
		raw, err := json.Marshal(payload.Payload)
		if err != nil {
			cs.logger.Error("CONSUMER", "Failed to encode audit payload", map[string]interface{}{"error": err.Error()})
			msg.Ack()
			return
		}

		audit := &model.TurnAudit{
			Id:           uuid.New(),
			EventType:    payload.Type,
			ConnectionId: connectionID,
			Payload:      datatypes.JSON(raw),
			OccurredAt:   payload.OccurredAt,
		}
		if err := cs.auditRepo.Create(ctx, audit); err != nil {
			cs.logger.Error("CONSUMER", "Failed to store audit row", map[string]interface{}{
				"type":  payload.Type,
				"error": err.Error(),
			})
		}
	}

	evt := events.BaseEvent{
		Type:       payload.Type,
		Data:       payload.Payload,
		OccurredAt: payload.OccurredAt,
	}
	for _, f := range cs.forwarders {
		if err := f.Publish(ctx, evt); err != nil {
			cs.logger.Warn("CONSUMER", "Failed to forward event", map[string]interface{}{
				"type":  payload.Type,
				"error": err.Error(),
			})
		}
	}

	msg.Ack()
}
