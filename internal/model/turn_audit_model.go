package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TurnAudit records a session event (completed turn or executed action).
type TurnAudit struct {
	Id           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EventType    string         `gorm:"type:varchar(50);not null;index"`
	ConnectionId string         `gorm:"type:varchar(64);not null;index"`
	Payload      datatypes.JSON `gorm:"type:jsonb;not null"`
	OccurredAt   time.Time      `gorm:"not null;index"`
	CreatedAt    time.Time      `gorm:"default:now();not null"`
}

func (TurnAudit) TableName() string {
	return "turn_audits"
}
