package model

import "time"

// KnowledgeDocument is a knowledge-base document stored in Postgres. Id uses
// the same "kb/<file>" form as the embedded corpus.
type KnowledgeDocument struct {
	Id        string    `gorm:"type:varchar(255);primaryKey"`
	Text      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"default:now();not null"`
	UpdatedAt time.Time `gorm:"default:now();not null"`
}

func (KnowledgeDocument) TableName() string {
	return "knowledge_documents"
}
