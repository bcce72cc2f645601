package implementation

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"guarded-chat-be/internal/model"
	"guarded-chat-be/internal/repository/contract"
	"guarded-chat-be/internal/repository/specification"
)

type KnowledgeDocumentRepositoryImpl struct {
	db *gorm.DB
}

func NewKnowledgeDocumentRepository(db *gorm.DB) contract.KnowledgeDocumentRepository {
	return &KnowledgeDocumentRepositoryImpl{
		db: db,
	}
}

func (r *KnowledgeDocumentRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *KnowledgeDocumentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*model.KnowledgeDocument, error) {
	var docs []*model.KnowledgeDocument
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *KnowledgeDocumentRepositoryImpl) Upsert(ctx context.Context, doc *model.KnowledgeDocument) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"text", "updated_at"}),
	}).Create(doc).Error
}

func (r *KnowledgeDocumentRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.KnowledgeDocument{}).Count(&count).Error
	return count, err
}
