package contract

import (
	"context"

	"guarded-chat-be/internal/model"
	"guarded-chat-be/internal/repository/specification"
)

type KnowledgeDocumentRepository interface {
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*model.KnowledgeDocument, error)
	Upsert(ctx context.Context, doc *model.KnowledgeDocument) error
	Count(ctx context.Context) (int64, error)
}
