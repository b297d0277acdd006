package model

import "time"

// Message roles. History strictly alternates user then model, starting
// with user; it is replayed verbatim on every generation call, so it must
// only ever be appended to.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Part kinds. Part is a closed union: exactly one of the two shapes below.
const (
	PartText  = "text"
	PartImage = "image"
)

// Part is an atomic unit of message content: a text fragment or an inline
// binary image. Data holds raw bytes in memory and base64 on the wire and
// on disk (encoding/json handles []byte transparently).
type Part struct {
	Kind     string `json:"kind"`
	Text     string `json:"text,omitempty"`
	MIMEType string `json:"mime_type,omitempty"`
	Data     []byte `json:"data,omitempty"`
}

// TextPart builds a text part.
func TextPart(text string) Part {
	return Part{Kind: PartText, Text: text}
}

// ImagePart builds an inline image part.
func ImagePart(mimeType string, data []byte) Part {
	return Part{Kind: PartImage, MIMEType: mimeType, Data: data}
}

// Message is one entry in a session's history.
type Message struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

// HasImage reports whether any part of the message is an inline image.
func (m Message) HasImage() bool {
	for _, p := range m.Parts {
		if p.Kind == PartImage {
			return true
		}
	}
	return false
}

// SessionDocument is the durable form of a session: the system of record,
// one document per session id. After any successful turn its History equals
// the live session's history.
type SessionDocument struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	History   []Message `json:"history"`
}

// Turns counts completed assistant responses in the history.
func (d *SessionDocument) Turns() int {
	n := 0
	for _, m := range d.History {
		if m.Role == RoleModel {
			n++
		}
	}
	return n
}

// SessionSummary is a listing projection of a session document, without the
// (potentially large) history body.
type SessionSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Turns     int       `json:"turns"`
}

// Stream event types, in the order a client typically sees them.
const (
	EventStatus = "status"
	EventText   = "text"
	EventImage  = "image"
	EventError  = "error"
	EventDone   = "done"
)

// StreamEvent is one unit of server-to-client notification on a turn stream.
// Type selects the SSE event name; the remaining fields are the payload.
// Text events carry incremental deltas, never cumulative text.
type StreamEvent struct {
	Type     string `json:"-"`
	Text     string `json:"text,omitempty"`
	MIMEType string `json:"mime_type,omitempty"`
	Data     []byte `json:"data,omitempty"`
	Message  string `json:"message,omitempty"`
}
