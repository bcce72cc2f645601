package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/gorm/logger"

	"guarded-chat-be/internal/repository/unitofwork"
	"guarded-chat-be/internal/service"
	"guarded-chat-be/kb"
	"guarded-chat-be/pkg/database"
	"guarded-chat-be/pkg/knowledge"
)

func main() {
	dir := flag.String("dir", "", "directory of markdown documents (default: embedded kb)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	db, err := database.NewGormDBFromDSN(os.Getenv("DB_CONNECTION_STRING"), logger.Warn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	var src knowledge.Provider = knowledge.NewFSProvider(kb.FS)
	if *dir != "" {
		src = knowledge.NewFSProvider(os.DirFS(*dir))
	}

	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		log.Fatal("Error: Failed to begin transaction:", err)
	}

	n, err := service.SeedKnowledge(ctx, src, uow.KnowledgeDocumentRepository())
	if err != nil {
		_ = uow.Rollback()
		log.Fatal("Error: Seeding failed:", err)
	}
	if err := uow.Commit(); err != nil {
		log.Fatal("Error: Commit failed:", err)
	}

	total, _ := uow.KnowledgeDocumentRepository().Count(ctx)
	log.Printf("✅ Seeded %d documents (%d in table)", n, total)
}
