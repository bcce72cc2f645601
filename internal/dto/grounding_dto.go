package dto

import "guarded-chat-be/pkg/grounding"

type VerifyGroundingRequest struct {
	Query string `json:"query" validate:"required"`
	Reply string `json:"reply"`
}

type VerifyGroundingResponse struct {
	grounding.Verdict
	Numbers []string `json:"numbers"`
}

type KnowledgeDocumentResponse struct {
	ID    string `json:"id"`
	Bytes int    `json:"bytes"`
	Lines int    `json:"lines"`
}

type HealthResponse struct {
	Status            string `json:"status"`
	Documents         int    `json:"documents"`
	ActiveConnections int    `json:"activeConnections"`
	Generator         string `json:"generator"`
}
