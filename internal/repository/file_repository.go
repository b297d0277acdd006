package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"glimpse/internal/model"
)

// fileRepository stores one JSON document per session under a single
// directory: <dir>/<session id>.json. This is the default backend and the
// system of record; documents contain the full history verbatim, inline
// image payloads included, which makes them potentially large. That is the
// accepted tradeoff for a flat document store.
type fileRepository struct {
	dir string
}

// NewFileRepository ensures the data directory exists and returns a
// file-backed Repository.
func NewFileRepository(dir string) (Repository, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("could not create session directory: %w", err)
	}
	return &fileRepository{dir: dir}, nil
}

// path maps a session id to its document path. Ids arrive from the URL, so
// anything that would escape the data directory is rejected up front.
func (r *fileRepository) path(sessionID string) (string, error) {
	if sessionID == "" || sessionID != filepath.Base(sessionID) || strings.HasPrefix(sessionID, ".") {
		return "", fmt.Errorf("%w: invalid session id %q", ErrNotFound, sessionID)
	}
	return filepath.Join(r.dir, sessionID+".json"), nil
}

func (r *fileRepository) Create(ctx context.Context, doc *model.SessionDocument) error {
	return r.Save(ctx, doc)
}

func (r *fileRepository) Load(_ context.Context, sessionID string) (*model.SessionDocument, error) {
	path, err := r.path(sessionID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("could not read session document: %w", err)
	}
	var doc model.SessionDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("could not decode session document %s: %w", sessionID, err)
	}
	return &doc, nil
}

// Save writes the document atomically: marshal to a temp file in the same
// directory, then rename over the target. A crash mid-write leaves the
// previous document intact.
func (r *fileRepository) Save(_ context.Context, doc *model.SessionDocument) error {
	path, err := r.path(doc.ID)
	if err != nil {
		return err
	}
	doc.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("could not encode session document: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0640); err != nil {
		return fmt.Errorf("could not write session document: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("could not commit session document: %w", err)
	}
	return nil
}

func (r *fileRepository) Rename(ctx context.Context, sessionID, title string) error {
	doc, err := r.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	doc.Title = title
	return r.Save(ctx, doc)
}

func (r *fileRepository) Delete(_ context.Context, sessionID string) error {
	path, err := r.path(sessionID)
	if err != nil {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("could not delete session document: %w", err)
	}
	return nil
}

func (r *fileRepository) List(_ context.Context) ([]model.SessionSummary, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("could not read session directory: %w", err)
	}

	summaries := make([]model.SessionSummary, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(r.dir, entry.Name()))
		if err != nil {
			slog.Warn("Skipping unreadable session document", "file", entry.Name(), "error", err)
			continue
		}
		var doc model.SessionDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			slog.Warn("Skipping corrupt session document", "file", entry.Name(), "error", err)
			continue
		}
		summaries = append(summaries, model.SessionSummary{
			ID:        doc.ID,
			Title:     doc.Title,
			CreatedAt: doc.CreatedAt,
			UpdatedAt: doc.UpdatedAt,
			Turns:     doc.Turns(),
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})
	return summaries, nil
}
