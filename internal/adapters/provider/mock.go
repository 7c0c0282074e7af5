package provider

import (
	"context"
	"fmt"
	"sync"

	"github.com/parley-ai/parley-backend/internal/domain"
)

// Mock is a deterministic in-process provider, useful for local dev without
// credentials and for tests.
type Mock struct {
	mu    sync.Mutex
	turns int
}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Send(_ context.Context, req domain.ChatRequest) (*domain.ChatReply, error) {
	m.mu.Lock()
	m.turns++
	n := m.turns
	m.mu.Unlock()

	return &domain.ChatReply{
		Text:              fmt.Sprintf("You said %q. Tell me more about that.", req.Message),
		ContinuationToken: fmt.Sprintf("mock-turn-%d", n),
	}, nil
}
