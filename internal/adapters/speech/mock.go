package speech

import (
	"context"

	"github.com/parley-ai/parley-backend/internal/domain"
)

// Mock returns fake audio bytes so the endpoint works without credentials.
type Mock struct{}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Synthesize(_ context.Context, req domain.SpeechRequest) (*domain.SpeechResult, error) {
	return &domain.SpeechResult{
		Audio:       append([]byte("MOCK-AUDIO:"), req.Text...),
		ContentType: "application/octet-stream",
	}, nil
}
