package unitofwork

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost"}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	if err != nil {
		t.Fatalf("open dry-run db: %v", err)
	}
	return db
}

func TestUnitOfWork_CommitWithoutBegin(t *testing.T) {
	uow := NewRepositoryFactory(dryRunDB(t)).NewUnitOfWork(context.Background())

	assert.Error(t, uow.Commit())
	assert.Error(t, uow.Rollback())
	assert.NotNil(t, uow.KnowledgeDocumentRepository())
	assert.NotNil(t, uow.TurnAuditRepository())
}
