package repository

import (
	"context"

	"glimpse/internal/model"
)

// Repository is a durable document store keyed by session id.
// This interface makes it easy to switch storage backends.
type Repository interface {
	// Create writes the initial document. Ids are generated server-side and
	// collision-free in practice, so overwrite-on-create is acceptable.
	Create(ctx context.Context, doc *model.SessionDocument) error
	// Load returns the document for the given id, or ErrNotFound.
	Load(ctx context.Context, sessionID string) (*model.SessionDocument, error)
	// Save overwrites the document unconditionally and refreshes UpdatedAt.
	// The caller is responsible for having merged history correctly.
	Save(ctx context.Context, doc *model.SessionDocument) error
	// Rename updates only the title (and UpdatedAt) of an existing document.
	Rename(ctx context.Context, sessionID, title string) error
	// Delete removes the document. Deleting a nonexistent id is not an error.
	Delete(ctx context.Context, sessionID string) error
	// List returns summaries of all documents, most recently updated first.
	// Corrupt or unreadable documents are skipped, never fatal.
	List(ctx context.Context) ([]model.SessionSummary, error)
}
