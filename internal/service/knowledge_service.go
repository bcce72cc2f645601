package service

import (
	"context"
	"fmt"
	"os"
	"strings"

	"guarded-chat-be/internal/config"
	"guarded-chat-be/internal/dto"
	"guarded-chat-be/internal/model"
	"guarded-chat-be/internal/repository/contract"
	"guarded-chat-be/internal/repository/specification"
	"guarded-chat-be/kb"
	"guarded-chat-be/pkg/grounding"
	"guarded-chat-be/pkg/knowledge"
)

const (
	SourceEmbedded = "embedded"
	SourceDir      = "dir"
	SourceDB       = "db"
)

type IKnowledgeService interface {
	Corpus() knowledge.Provider
	ListDocuments(ctx context.Context) ([]dto.KnowledgeDocumentResponse, error)
	Verify(ctx context.Context, req *dto.VerifyGroundingRequest) (*dto.VerifyGroundingResponse, error)
}

type knowledgeService struct {
	corpus *knowledge.StaticProvider
}

func NewKnowledgeService(corpus *knowledge.StaticProvider) IKnowledgeService {
	return &knowledgeService{corpus: corpus}
}

func (s *knowledgeService) Corpus() knowledge.Provider {
	return s.corpus
}

func (s *knowledgeService) ListDocuments(ctx context.Context) ([]dto.KnowledgeDocumentResponse, error) {
	docs, err := s.corpus.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]dto.KnowledgeDocumentResponse, 0, len(docs))
	for _, d := range docs {
		res = append(res, dto.KnowledgeDocumentResponse{
			ID:    d.ID,
			Bytes: len(d.Text),
			Lines: strings.Count(d.Text, "\n") + 1,
		})
	}
	return res, nil
}

func (s *knowledgeService) Verify(ctx context.Context, req *dto.VerifyGroundingRequest) (*dto.VerifyGroundingResponse, error) {
	docs, err := s.corpus.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}

	numbers := grounding.ExtractNumbers(req.Reply)
	if numbers == nil {
		numbers = []string{}
	}

	return &dto.VerifyGroundingResponse{
		Verdict: grounding.Verify(req.Query, req.Reply, docs),
		Numbers: numbers,
	}, nil
}

// RepositoryProvider serves documents stored in Postgres.
type RepositoryProvider struct {
	repo contract.KnowledgeDocumentRepository
}

var _ knowledge.Provider = (*RepositoryProvider)(nil)

func NewRepositoryProvider(repo contract.KnowledgeDocumentRepository) *RepositoryProvider {
	return &RepositoryProvider{repo: repo}
}

func (p *RepositoryProvider) ListDocuments(ctx context.Context) ([]knowledge.Document, error) {
	rows, err := p.repo.FindAll(ctx, specification.OrderBy{Field: "id"})
	if err != nil {
		return nil, fmt.Errorf("failed to load knowledge documents: %w", err)
	}

	docs := make([]knowledge.Document, 0, len(rows))
	for _, r := range rows {
		docs = append(docs, knowledge.Document{ID: r.Id, Text: r.Text})
	}
	return docs, nil
}

// LoadCorpus snapshots the configured knowledge source. repo is only needed
// for the "db" source.
func LoadCorpus(ctx context.Context, cfg config.GroundingConfig, repo contract.KnowledgeDocumentRepository) (*knowledge.StaticProvider, error) {
	var src knowledge.Provider
	switch cfg.KnowledgeSource {
	case "", SourceEmbedded:
		src = knowledge.NewFSProvider(kb.FS)
	case SourceDir:
		src = knowledge.NewFSProvider(os.DirFS(cfg.KnowledgeDir))
	case SourceDB:
		if repo == nil {
			return nil, fmt.Errorf("knowledge source %q requires DB_CONNECTION_STRING", SourceDB)
		}
		src = NewRepositoryProvider(repo)
	default:
		return nil, fmt.Errorf("unknown knowledge source %q", cfg.KnowledgeSource)
	}

	corpus, err := knowledge.Snapshot(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("load %s knowledge: %w", cfg.KnowledgeSource, err)
	}
	return corpus, nil
}

// SeedKnowledge copies every document from src into the repository.
func SeedKnowledge(ctx context.Context, src knowledge.Provider, repo contract.KnowledgeDocumentRepository) (int, error) {
	docs, err := src.ListDocuments(ctx)
	if err != nil {
		return 0, err
	}

	for _, d := range docs {
		if err := repo.Upsert(ctx, &model.KnowledgeDocument{Id: d.ID, Text: d.Text}); err != nil {
			return 0, fmt.Errorf("upsert %s: %w", d.ID, err)
		}
	}
	return len(docs), nil
}
