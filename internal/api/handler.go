package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	apperrors "glimpse/internal/errors"
	"glimpse/internal/interfaces"
	"glimpse/internal/model"
	"glimpse/internal/service"
)

// maxUploadBytes caps the in-memory portion of a multipart submit.
const maxUploadBytes = 32 << 20

// keepAliveInterval is how often an SSE comment is written to an otherwise
// idle turn stream.
const keepAliveInterval = 15 * time.Second

// SessionHandler handles all session and turn HTTP endpoints.
type SessionHandler struct {
	service interfaces.ChatService
}

func NewSessionHandler(svc interfaces.ChatService) *SessionHandler {
	return &SessionHandler{service: svc}
}

// HandleCreateSession godoc
// @Summary      Create a session
// @Description  Creates a new empty session with a generated id and title.
// @Tags         Sessions
// @Produce      json
// @Success      201  {object}  model.SessionDocument
// @Failure      500  {object}  ErrorResponse
// @Router       /v1/sessions [post]
func (h *SessionHandler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	doc, err := h.service.CreateSession(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, doc)
}

// HandleListSessions godoc
// @Summary      List sessions
// @Description  Returns session summaries sorted by most recent activity.
// @Tags         Sessions
// @Produce      json
// @Success      200  {array}   model.SessionSummary
// @Failure      500  {object}  ErrorResponse
// @Router       /v1/sessions [get]
func (h *SessionHandler) HandleListSessions(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.ListSessions(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, summaries)
}

// HandleGetSession godoc
// @Summary      Get a session
// @Description  Returns the full session document including history.
// @Tags         Sessions
// @Produce      json
// @Param        sessionID  path  string  true  "Session ID"
// @Success      200  {object}  model.SessionDocument
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/sessions/{sessionID} [get]
func (h *SessionHandler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	doc, err := h.service.GetSession(r.Context(), sessionID)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, doc)
}

// HandleRenameSession godoc
// @Summary      Rename a session
// @Description  Updates the session title.
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        sessionID  path  string              true  "Session ID"
// @Param        title      body  UpdateTitleRequest  true  "New Title"
// @Success      200  {object}  StatusResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/sessions/{sessionID}/title [put]
func (h *SessionHandler) HandleRenameSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req UpdateTitleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, fmt.Errorf("%w: invalid request body", apperrors.ErrValidation))
		return
	}
	if err := validateRequest(req); err != nil {
		respondWithError(w, err)
		return
	}
	if err := h.service.RenameSession(r.Context(), sessionID, req.Title); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// HandleDeleteSession godoc
// @Summary      Delete a session
// @Description  Removes the session document and evicts the live entry. Idempotent.
// @Tags         Sessions
// @Produce      json
// @Param        sessionID  path  string  true  "Session ID"
// @Success      200  {object}  StatusResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /v1/sessions/{sessionID} [delete]
func (h *SessionHandler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if err := h.service.DeleteSession(r.Context(), sessionID); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// HandleSubmitMessage godoc
// @Summary      Submit a user message
// @Description  Accepts a multipart form with an optional `text` field and zero or more `images` files, and returns the turn number the message will produce a response for. Generation starts when the turn stream is opened.
// @Tags         Turns
// @Accept       multipart/form-data
// @Produce      json
// @Param        sessionID  path      string  true   "Session ID"
// @Param        text       formData  string  false  "Message text"
// @Param        images     formData  file    false  "Image attachments"
// @Success      200  {object}  TurnResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /v1/sessions/{sessionID}/messages [post]
func (h *SessionHandler) HandleSubmitMessage(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondWithError(w, fmt.Errorf("%w: invalid multipart form", apperrors.ErrValidation))
		return
	}

	text := r.FormValue("text")
	var images []service.ImageUpload
	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["images"] {
			img, err := readUpload(header)
			if err != nil {
				respondWithError(w, fmt.Errorf("%w: could not read image %s", apperrors.ErrValidation, header.Filename))
				return
			}
			images = append(images, img)
		}
	}

	turn, err := h.service.SubmitMessage(r.Context(), sessionID, text, images)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, TurnResponse{Turn: turn})
}

// readUpload pulls one multipart file into memory, taking the MIME type
// from the part header and sniffing the content when the header is absent.
func readUpload(header *multipart.FileHeader) (service.ImageUpload, error) {
	file, err := header.Open()
	if err != nil {
		return service.ImageUpload{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return service.ImageUpload{}, err
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}
	return service.ImageUpload{MIMEType: mimeType, Data: data}, nil
}

// HandleStreamTurn godoc
// @Summary      Stream a turn
// @Description  Opens a Server-Sent Events stream for the session's pending turn. Emits status, text, image, and finally done or error events; the connection is closed by the server afterwards.
// @Tags         Turns
// @Produce      text/event-stream
// @Param        sessionID  path  string  true  "Session ID"
// @Router       /v1/sessions/{sessionID}/stream [get]
func (h *SessionHandler) HandleStreamTurn(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	events := make(chan model.StreamEvent)
	go h.service.StreamTurn(r.Context(), sessionID, events)

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	// The relay loop is the single consumer, so emission order is preserved
	// end to end. When this handler returns, the request context is
	// cancelled and the service abandons the turn without committing.
	for {
		select {
		case ev, open := <-events:
			if !open {
				return
			}
			if err := writeStreamEvent(w, ev); err != nil {
				slog.Debug("Client disconnected mid-stream", "session_id", sessionID, "error", err)
				return
			}
		case <-ticker.C:
			if err := writeKeepAlive(w); err != nil {
				slog.Debug("Client disconnected during keep-alive", "session_id", sessionID, "error", err)
				return
			}
		case <-r.Context().Done():
			return
		}
	}
}
