package specification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type auditRow struct {
	Id        string
	EventType string
}

func (auditRow) TableName() string { return "turn_audits" }

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost user=test dbname=test sslmode=disable"}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db
}

func TestSpecificationsBuildSQL(t *testing.T) {
	db := dryRunDB(t)

	query := db.Model(&auditRow{})
	for _, spec := range []Specification{
		ByEventType{EventType: "TURN_COMPLETED"},
		Filter("connection_id", "conn-1"),
		OrderBy{Field: "occurred_at", Desc: true},
		Pagination{Limit: 10, Offset: 5},
	} {
		query = spec.Apply(query)
	}

	var rows []auditRow
	stmt := query.Find(&rows).Statement
	sql := stmt.SQL.String()

	assert.Contains(t, sql, `FROM "turn_audits"`)
	assert.Contains(t, sql, "event_type = $1")
	assert.Contains(t, sql, "connection_id = $2")
	assert.Contains(t, sql, "ORDER BY occurred_at DESC")
	assert.Contains(t, sql, "LIMIT $3 OFFSET $4")
	assert.Equal(t, []interface{}{"TURN_COMPLETED", "conn-1", 10, 5}, stmt.Vars)
}

func TestByID(t *testing.T) {
	db := dryRunDB(t)

	var rows []auditRow
	stmt := ByID{ID: "kb/pricing.md"}.Apply(db.Model(&auditRow{})).Find(&rows).Statement

	assert.Contains(t, stmt.SQL.String(), "id = $1")
	assert.Equal(t, []interface{}{"kb/pricing.md"}, stmt.Vars)
}
