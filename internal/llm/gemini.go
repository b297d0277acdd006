package llm

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/genai"

	"glimpse/internal/model"
)

type geminiProvider struct {
	apiKey string

	mu     sync.Mutex
	client *genai.Client
}

// NewGeminiProvider returns a Provider backed by the Gemini API. The client
// is initialized lazily on the first generation call, so a missing API key
// surfaces as a per-stream error rather than a startup crash.
func NewGeminiProvider(apiKey string) Provider {
	return &geminiProvider{apiKey: apiKey}
}

func (p *geminiProvider) ensureClient(ctx context.Context) (*genai.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		return p.client, nil
	}
	if p.apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not configured")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  p.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create gemini client: %w", err)
	}
	p.client = client
	return p.client, nil
}

func (p *geminiProvider) GenerateStream(ctx context.Context, req *GenerateRequest, ch chan<- StreamChunk) error {
	defer close(ch)

	client, err := p.ensureClient(ctx)
	if err != nil {
		send(ctx, ch, StreamChunk{Error: err.Error()})
		return err
	}

	contents := toContents(req.History)
	config := &genai.GenerateContentConfig{ResponseModalities: req.Modalities}

	for resp, err := range client.Models.GenerateContentStream(ctx, req.Model, contents, config) {
		if err != nil {
			send(ctx, ch, StreamChunk{Error: fmt.Sprintf("generation failed: %v", err)})
			return err
		}
		parts := fromResponse(resp)
		if len(parts) == 0 {
			continue
		}
		if !send(ctx, ch, StreamChunk{Parts: parts}) {
			return ctx.Err()
		}
	}
	return nil
}

func send(ctx context.Context, ch chan<- StreamChunk, chunk StreamChunk) bool {
	select {
	case ch <- chunk:
		return true
	case <-ctx.Done():
		return false
	}
}

// toContents converts session history into the wire format. Roles map
// one-to-one: our histories already use the API's "user"/"model" convention.
func toContents(history []model.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		role := genai.Role(genai.RoleUser)
		if msg.Role == model.RoleModel {
			role = genai.RoleModel
		}
		parts := make([]*genai.Part, 0, len(msg.Parts))
		for _, p := range msg.Parts {
			switch p.Kind {
			case model.PartImage:
				parts = append(parts, genai.NewPartFromBytes(p.Data, p.MIMEType))
			default:
				parts = append(parts, genai.NewPartFromText(p.Text))
			}
		}
		contents = append(contents, genai.NewContentFromParts(parts, role))
	}
	return contents
}

// fromResponse flattens the first candidate's parts into our part union.
// Empty text fragments are dropped; thought parts are not requested and
// therefore not expected.
func fromResponse(resp *genai.GenerateContentResponse) []model.Part {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	var parts []model.Part
	for _, p := range resp.Candidates[0].Content.Parts {
		if p == nil {
			continue
		}
		if p.InlineData != nil && len(p.InlineData.Data) > 0 {
			parts = append(parts, model.ImagePart(p.InlineData.MIMEType, p.InlineData.Data))
			continue
		}
		if p.Text != "" {
			parts = append(parts, model.TextPart(p.Text))
		}
	}
	return parts
}
