package unitofwork

import (
	"context"

	"guarded-chat-be/internal/repository/contract"
)

// RepositoryFactory hands out a unit of work per operation.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	KnowledgeDocumentRepository() contract.KnowledgeDocumentRepository
	TurnAuditRepository() contract.TurnAuditRepository
}
