package contract

import (
	"context"

	"guarded-chat-be/internal/model"
	"guarded-chat-be/internal/repository/specification"
)

type TurnAuditRepository interface {
	Create(ctx context.Context, audit *model.TurnAudit) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*model.TurnAudit, error)
}
