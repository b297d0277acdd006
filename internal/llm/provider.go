package llm

import (
	"context"

	"glimpse/internal/model"
)

// Response modalities requested from the model.
const (
	ModalityText  = "TEXT"
	ModalityImage = "IMAGE"
)

// GenerateRequest carries everything the provider needs for one generation
// call: the model id, the entire ordered history (never just the newest
// message), and the requested response modalities.
type GenerateRequest struct {
	Model      string
	History    []model.Message
	Modalities []string
}

// StreamChunk is one unit of lazily produced model output: zero or more
// parts, or a terminal error. After a chunk with a non-empty Error the
// provider closes the channel; no further chunks follow.
type StreamChunk struct {
	Parts []model.Part
	Error string
}

// Provider is the opaque remote generation capability: given an ordered
// message history, produce a lazy sequence of output chunks. Implementations
// must close ch before returning, on every path.
type Provider interface {
	GenerateStream(ctx context.Context, req *GenerateRequest, ch chan<- StreamChunk) error
}
