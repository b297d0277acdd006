package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"glimpse/internal/artifact"
	apperrors "glimpse/internal/errors"
	"glimpse/internal/llm"
	"glimpse/internal/model"
	"glimpse/internal/repository"
)

// titleLimit caps auto-derived session titles, in runes.
const titleLimit = 30

// liveSession is the in-memory handle for one session: the history cache,
// the generation lock, and the completed-turn counter. Generating and Turn
// exist only in memory; they reset on process restart.
type liveSession struct {
	ID         string
	Title      string
	CreatedAt  time.Time
	History    []model.Message
	Generating bool
	Turn       int
}

// ImageUpload is one decoded image from a submit request.
type ImageUpload struct {
	MIMEType string
	Data     []byte
}

// ChatService owns the session registry and drives the turn lifecycle:
// accept a user message, run exactly one generation per session at a time,
// relay partial output, and commit the buffered result to the repository
// when the stream ends. The repository stays the source of truth; the
// registry is a cache warmed lazily from it.
type ChatService struct {
	repo      repository.Repository
	llm       llm.Provider
	artifacts *artifact.Store
	modelName string

	mu       sync.Mutex
	sessions map[string]*liveSession
}

func NewChatService(repo repository.Repository, provider llm.Provider, artifacts *artifact.Store, modelName string) *ChatService {
	return &ChatService{
		repo:      repo,
		llm:       provider,
		artifacts: artifacts,
		modelName: modelName,
		sessions:  make(map[string]*liveSession),
	}
}

// CreateSession creates an empty session with a generated id and a
// timestamp-based placeholder title; the first user message replaces it
// with a derived one.
func (s *ChatService) CreateSession(ctx context.Context) (*model.SessionDocument, error) {
	now := time.Now().UTC()
	doc := &model.SessionDocument{
		ID:        uuid.NewString(),
		Title:     deriveTitle("", 0, now),
		CreatedAt: now,
		UpdatedAt: now,
		History:   []model.Message{},
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("could not create session: %w", err)
	}

	s.mu.Lock()
	s.sessions[doc.ID] = &liveSession{
		ID:        doc.ID,
		Title:     doc.Title,
		CreatedAt: doc.CreatedAt,
		History:   []model.Message{},
	}
	s.mu.Unlock()

	return doc, nil
}

// ListSessions returns summaries sorted by recency.
func (s *ChatService) ListSessions(ctx context.Context) ([]model.SessionSummary, error) {
	return s.repo.List(ctx)
}

// GetSession returns the full document and warms the registry entry.
func (s *ChatService) GetSession(ctx context.Context, sessionID string) (*model.SessionDocument, error) {
	doc, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: session %s", apperrors.ErrNotFound, sessionID)
		}
		return nil, err
	}

	s.mu.Lock()
	if _, ok := s.sessions[sessionID]; !ok {
		s.sessions[sessionID] = liveFromDocument(doc)
	}
	s.mu.Unlock()

	return doc, nil
}

// RenameSession updates the title in the repository and in the live entry.
func (s *ChatService) RenameSession(ctx context.Context, sessionID, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("%w: title cannot be empty", apperrors.ErrValidation)
	}
	if err := s.repo.Rename(ctx, sessionID, title); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: session %s", apperrors.ErrNotFound, sessionID)
		}
		return err
	}
	s.mu.Lock()
	if live, ok := s.sessions[sessionID]; ok {
		live.Title = title
	}
	s.mu.Unlock()
	return nil
}

// DeleteSession removes the durable document and evicts the live entry.
// Deletion is terminal and idempotent: deleting a nonexistent id succeeds.
func (s *ChatService) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	return nil
}

// SubmitMessage buffers a user message into the session's history and
// persists any attached images as artifacts, returning the turn number the
// message will produce a response for. It does not start generation; the
// caller opens the turn stream separately. Rejected with ErrConflict while
// a generation is in flight: a second writer is refused, never queued.
func (s *ChatService) SubmitMessage(ctx context.Context, sessionID, text string, images []ImageUpload) (int, error) {
	text = strings.TrimSpace(text)
	if text == "" && len(images) == 0 {
		return 0, fmt.Errorf("%w: message requires text or at least one image", apperrors.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	live, err := s.liveLocked(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	if live.Generating {
		return 0, fmt.Errorf("%w: a generation is already in flight for session %s", apperrors.ErrConflict, sessionID)
	}

	turn := live.Turn + 1
	parts := make([]model.Part, 0, len(images)+1)
	if text != "" {
		parts = append(parts, model.TextPart(text))
	}
	for i, img := range images {
		// Input images are made durable before the message is accepted, so
		// they survive a later generation failure. A failed save is logged
		// and swallowed: artifact persistence is a non-critical side effect.
		name := artifact.Name(sessionID, turn, i, img.MIMEType)
		if _, err := s.artifacts.Save(name, img.Data); err != nil {
			slog.Warn("Failed to persist input image", "session_id", sessionID, "name", name, "error", err)
		}
		parts = append(parts, model.ImagePart(img.MIMEType, img.Data))
	}

	firstUserMessage := live.Turn == 0 && !hasUserMessage(live.History)
	live.History = append(live.History, model.Message{Role: model.RoleUser, Parts: parts})
	if firstUserMessage {
		live.Title = deriveTitle(text, len(images), time.Now().UTC())
	}

	return turn, nil
}

// StreamTurn runs one generation for the session and publishes progress on
// events: status, then text/image events in arrival order, then done or
// error. The channel is always closed before returning, and the session's
// generation lock is released exactly once on every exit path. On error or
// client disconnect nothing is committed; history stays as it was when the
// stream opened.
func (s *ChatService) StreamTurn(ctx context.Context, sessionID string, events chan<- model.StreamEvent) {
	defer close(events)

	s.mu.Lock()
	live, err := s.liveLocked(ctx, sessionID)
	if err != nil {
		s.mu.Unlock()
		emit(ctx, events, model.StreamEvent{Type: model.EventError, Message: "Session not found."})
		return
	}
	if live.Generating {
		s.mu.Unlock()
		emit(ctx, events, model.StreamEvent{Type: model.EventError, Message: "A generation is already in flight for this session."})
		return
	}
	live.Generating = true
	turn := live.Turn + 1
	history := slices.Clone(live.History)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		live.Generating = false
		s.mu.Unlock()
	}()

	if !emit(ctx, events, model.StreamEvent{Type: model.EventStatus, Message: "Generating…"}) {
		return
	}

	req := &llm.GenerateRequest{
		Model:      s.modelName,
		History:    history,
		Modalities: modalitiesFor(history),
	}

	chunks := make(chan llm.StreamChunk)
	go func() {
		if err := s.llm.GenerateStream(ctx, req, chunks); err != nil {
			slog.Warn("Generation stream ended with error", "session_id", sessionID, "turn", turn, "error", err)
		}
	}()

	var accumulated []model.Part
	imageIndex := 0
	for chunk := range chunks {
		if chunk.Error != "" {
			// The provider closes the channel right after a terminal error
			// chunk; relay it and leave history untouched.
			emit(ctx, events, model.StreamEvent{Type: model.EventError, Message: chunk.Error})
			return
		}
		for _, part := range chunk.Parts {
			switch part.Kind {
			case model.PartImage:
				if !emit(ctx, events, model.StreamEvent{Type: model.EventImage, MIMEType: part.MIMEType, Data: part.Data}) {
					return
				}
				name := artifact.Name(sessionID, turn, imageIndex, part.MIMEType)
				if _, err := s.artifacts.Save(name, part.Data); err != nil {
					slog.Warn("Failed to persist generated image", "session_id", sessionID, "name", name, "error", err)
				}
				imageIndex++
				accumulated = append(accumulated, part)
			case model.PartText:
				if part.Text == "" {
					continue
				}
				if !emit(ctx, events, model.StreamEvent{Type: model.EventText, Text: part.Text}) {
					return
				}
				accumulated = append(accumulated, part)
			}
		}
	}
	if ctx.Err() != nil {
		// Client went away mid-stream: discard the accumulated output and
		// let the deferred unlock run. Nothing more can be delivered.
		return
	}

	s.mu.Lock()
	if s.sessions[sessionID] != live {
		// The session was deleted while the turn was streaming. Deletion is
		// terminal, so the completed turn is discarded; saving here would
		// resurrect the document.
		s.mu.Unlock()
		slog.Info("Discarding turn for deleted session", "session_id", sessionID, "turn", turn)
		emit(ctx, events, model.StreamEvent{Type: model.EventDone})
		return
	}
	live.History = append(live.History, model.Message{Role: model.RoleModel, Parts: accumulated})
	live.Turn++
	doc := documentFromLive(live)
	s.mu.Unlock()

	// A failed write-back is logged but does not fail the stream: the
	// user-visible generation succeeded and the live history stays
	// authoritative until the next successful save. The turn is lost on
	// process restart if no later save lands.
	if err := s.repo.Save(ctx, doc); err != nil {
		slog.Error("Failed to persist session after turn", "session_id", sessionID, "turn", turn, "error", err)
	}

	emit(ctx, events, model.StreamEvent{Type: model.EventDone})
}

// liveLocked returns the registry entry for the session, warming it from
// the repository on first access. Callers must hold s.mu.
func (s *ChatService) liveLocked(ctx context.Context, sessionID string) (*liveSession, error) {
	if live, ok := s.sessions[sessionID]; ok {
		return live, nil
	}
	doc, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: session %s", apperrors.ErrNotFound, sessionID)
		}
		return nil, err
	}
	live := liveFromDocument(doc)
	s.sessions[sessionID] = live
	return live, nil
}

func liveFromDocument(doc *model.SessionDocument) *liveSession {
	return &liveSession{
		ID:        doc.ID,
		Title:     doc.Title,
		CreatedAt: doc.CreatedAt,
		History:   slices.Clone(doc.History),
		Turn:      doc.Turns(),
	}
}

// documentFromLive snapshots the live state into a durable document. The
// history is cloned so a later append cannot race the repository write.
func documentFromLive(live *liveSession) *model.SessionDocument {
	return &model.SessionDocument{
		ID:        live.ID,
		Title:     live.Title,
		CreatedAt: live.CreatedAt,
		History:   slices.Clone(live.History),
	}
}

// emit delivers an event unless the consumer is gone. A false return means
// the stream's context was cancelled and no further events can be sent.
func emit(ctx context.Context, events chan<- model.StreamEvent, ev model.StreamEvent) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// modalitiesFor requests image output when the latest user message carries
// an inline image. This is a heuristic, not a contract with the model: it
// merely avoids asking for image modality on plain text turns.
func modalitiesFor(history []model.Message) []string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role != model.RoleUser {
			continue
		}
		if history[i].HasImage() {
			return []string{llm.ModalityImage, llm.ModalityText}
		}
		break
	}
	return []string{llm.ModalityText}
}

// deriveTitle produces the automatic session title: a whitespace-collapsed,
// length-capped prefix of the text; an image-count label when there is no
// text; a timestamp label when there is neither.
func deriveTitle(text string, imageCount int, now time.Time) string {
	collapsed := strings.Join(strings.Fields(text), " ")
	if collapsed != "" {
		runes := []rune(collapsed)
		if len(runes) > titleLimit {
			return string(runes[:titleLimit]) + "…"
		}
		return collapsed
	}
	if imageCount == 1 {
		return "1 image"
	}
	if imageCount > 1 {
		return fmt.Sprintf("%d images", imageCount)
	}
	return "Chat " + now.Format("2006-01-02 15:04")
}

func hasUserMessage(history []model.Message) bool {
	for _, m := range history {
		if m.Role == model.RoleUser {
			return true
		}
	}
	return false
}
