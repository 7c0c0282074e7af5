package provider

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/parley-ai/parley-backend/internal/domain"
)

// Vertex implements ChatProvider on Vertex AI (Gemini). The genai API is
// stateless, so this adapter bridges the continuation-token contract by
// keeping a token-to-history table at the provider boundary: the core still
// stores no message text, the thread lives here the way it would live inside
// a thread-supporting provider. A token is good for one continuation; each
// turn supersedes it with a fresh one.
type Vertex struct {
	client    *genai.Client
	modelName string

	mu      sync.Mutex
	threads map[string][]*genai.Content
}

func NewVertex(ctx context.Context, projectID, location, modelName string) (*Vertex, error) {
	if projectID == "" || location == "" {
		return nil, fmt.Errorf("projectID and location are required for the Vertex provider")
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Vertex AI client: %w", err)
	}

	return &Vertex{
		client:    client,
		modelName: modelName,
		threads:   make(map[string][]*genai.Content),
	}, nil
}

func (p *Vertex) Send(ctx context.Context, req domain.ChatRequest) (*domain.ChatReply, error) {
	model := p.modelName
	if req.Config != nil && req.Config.Model != "" {
		model = req.Config.Model
	}

	var contents []*genai.Content
	if req.ContinuationToken != "" {
		p.mu.Lock()
		contents = append(contents, p.threads[req.ContinuationToken]...)
		p.mu.Unlock()
	}
	contents = append(contents, genai.NewContentFromText(req.Message, genai.RoleUser))

	temp := float32(0.7)
	topP := float32(0.9)
	outputTokens := int32(8192)

	cfg := &genai.GenerateContentConfig{
		Temperature:     &temp,
		TopP:            &topP,
		MaxOutputTokens: outputTokens,
	}
	if req.ContinuationToken == "" && req.Config != nil && req.Config.SystemPrompt != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.Config.SystemPrompt, genai.RoleUser)
	}

	res, err := p.client.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return nil, domain.NewUpstreamError("vertex generate content failed", 0, err)
	}

	text := res.Text()
	if text == "" {
		text = FallbackReply
	}

	token := uuid.NewString()
	history := append(contents, genai.NewContentFromText(text, genai.RoleModel))

	p.mu.Lock()
	delete(p.threads, req.ContinuationToken)
	p.threads[token] = history
	p.mu.Unlock()

	return &domain.ChatReply{
		Text:              text,
		ContinuationToken: token,
		Metadata:          map[string]any{"model": model},
	}, nil
}
