package knowledge

import (
	"context"
	"errors"
)

// ErrEmptyCorpus is returned when a source yields no documents at all.
var ErrEmptyCorpus = errors.New("knowledge corpus is empty")

// Document is an immutable knowledge source entry.
type Document struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Provider lists the documents of a knowledge source.
type Provider interface {
	ListDocuments(ctx context.Context) ([]Document, error)
}

// StaticProvider serves a snapshot loaded once at startup. It is safe for
// concurrent use because the snapshot is never mutated.
type StaticProvider struct {
	docs []Document
}

var _ Provider = (*StaticProvider)(nil)

func NewStaticProvider(docs []Document) *StaticProvider {
	snapshot := make([]Document, len(docs))
	copy(snapshot, docs)
	return &StaticProvider{docs: snapshot}
}

func (p *StaticProvider) ListDocuments(ctx context.Context) ([]Document, error) {
	return p.docs, nil
}

// Snapshot loads every document from src once and freezes the result.
func Snapshot(ctx context.Context, src Provider) (*StaticProvider, error) {
	docs, err := src.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrEmptyCorpus
	}
	return NewStaticProvider(docs), nil
}
