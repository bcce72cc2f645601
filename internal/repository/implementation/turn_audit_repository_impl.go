package implementation

import (
	"context"

	"gorm.io/gorm"

	"guarded-chat-be/internal/model"
	"guarded-chat-be/internal/repository/contract"
	"guarded-chat-be/internal/repository/specification"
)

type TurnAuditRepositoryImpl struct {
	db *gorm.DB
}

func NewTurnAuditRepository(db *gorm.DB) contract.TurnAuditRepository {
	return &TurnAuditRepositoryImpl{
		db: db,
	}
}

func (r *TurnAuditRepositoryImpl) Create(ctx context.Context, audit *model.TurnAudit) error {
	return r.db.WithContext(ctx).Create(audit).Error
}

func (r *TurnAuditRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*model.TurnAudit, error) {
	var audits []*model.TurnAudit
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.Find(&audits).Error; err != nil {
		return nil, err
	}
	return audits, nil
}
