package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"glimpse/internal/model"
)

// sqliteRepository is an alternative backend that keeps the same
// one-document-per-session shape in a single table, with the history stored
// as a JSON column. Selected with STORAGE=sqlite.
type sqliteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) Create(ctx context.Context, doc *model.SessionDocument) error {
	return r.Save(ctx, doc)
}

func (r *sqliteRepository) Load(ctx context.Context, sessionID string) (*model.SessionDocument, error) {
	query := "SELECT id, title, created_at, updated_at, history FROM sessions WHERE id = ?"
	row := r.db.QueryRowContext(ctx, query, sessionID)

	var doc model.SessionDocument
	var history string
	err := row.Scan(&doc.ID, &doc.Title, &doc.CreatedAt, &doc.UpdatedAt, &history)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("could not load session: %w", err)
	}
	if err := json.Unmarshal([]byte(history), &doc.History); err != nil {
		return nil, fmt.Errorf("could not decode session history %s: %w", sessionID, err)
	}
	return &doc, nil
}

func (r *sqliteRepository) Save(ctx context.Context, doc *model.SessionDocument) error {
	doc.UpdatedAt = time.Now().UTC()
	history, err := json.Marshal(doc.History)
	if err != nil {
		return fmt.Errorf("could not encode session history: %w", err)
	}
	query := `
		INSERT INTO sessions (id, title, created_at, updated_at, history)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title = excluded.title, updated_at = excluded.updated_at, history = excluded.history
	`
	_, err = r.db.ExecContext(ctx, query, doc.ID, doc.Title, doc.CreatedAt, doc.UpdatedAt, string(history))
	if err != nil {
		return fmt.Errorf("could not save session: %w", err)
	}
	return nil
}

func (r *sqliteRepository) Rename(ctx context.Context, sessionID, title string) error {
	query := "UPDATE sessions SET title = ?, updated_at = ? WHERE id = ?"
	res, err := r.db.ExecContext(ctx, query, title, time.Now().UTC(), sessionID)
	if err != nil {
		return fmt.Errorf("could not rename session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not rename session: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sqliteRepository) Delete(ctx context.Context, sessionID string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", sessionID)
	if err != nil {
		return fmt.Errorf("could not delete session: %w", err)
	}
	return nil
}

func (r *sqliteRepository) List(ctx context.Context) ([]model.SessionSummary, error) {
	query := "SELECT id, title, created_at, updated_at, history FROM sessions ORDER BY updated_at DESC"
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("could not list sessions: %w", err)
	}
	defer rows.Close()

	var summaries []model.SessionSummary
	for rows.Next() {
		var s model.SessionSummary
		var history string
		if err := rows.Scan(&s.ID, &s.Title, &s.CreatedAt, &s.UpdatedAt, &history); err != nil {
			return nil, err
		}
		var messages []model.Message
		if err := json.Unmarshal([]byte(history), &messages); err != nil {
			slog.Warn("Skipping session with corrupt history", "session_id", s.ID, "error", err)
			continue
		}
		for _, m := range messages {
			if m.Role == model.RoleModel {
				s.Turns++
			}
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
