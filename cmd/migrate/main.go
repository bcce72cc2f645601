package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/gorm/logger"

	"guarded-chat-be/internal/model"
	"guarded-chat-be/pkg/database"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, logger.Info)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Running AutoMigrate...")
	models := []interface{}{
		&model.KnowledgeDocument{},
		&model.TurnAudit{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatal("Error: AutoMigrate failed:", err)
	}

	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_turn_audits_connection ON turn_audits (connection_id, occurred_at);`).Error; err != nil {
		log.Printf("Warn: Failed to create audit index: %v", err)
	}

	log.Println("✅ Migration complete")
}
