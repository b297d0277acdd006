package interfaces

import (
	"context"

	"glimpse/internal/model"
	"glimpse/internal/service"
)

// ChatService is the contract the API layer depends on. Depending on the
// interface instead of the concrete service decouples the transport from
// the business logic and lets handler tests substitute a mock.
type ChatService interface {
	CreateSession(ctx context.Context) (*model.SessionDocument, error)
	ListSessions(ctx context.Context) ([]model.SessionSummary, error)
	GetSession(ctx context.Context, sessionID string) (*model.SessionDocument, error)
	RenameSession(ctx context.Context, sessionID, title string) error
	DeleteSession(ctx context.Context, sessionID string) error
	SubmitMessage(ctx context.Context, sessionID, text string, images []service.ImageUpload) (int, error)
	StreamTurn(ctx context.Context, sessionID string, events chan<- model.StreamEvent)
}
