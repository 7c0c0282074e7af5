package provider

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"

	"github.com/parley-ai/parley-backend/internal/domain"
)

// OpenAI implements ChatProvider on the OpenAI Responses API. The provider's
// previous_response_id mechanism is a native continuation token: each reply's
// response id continues the thread on the next call, so no message content is
// kept on this side.
type OpenAI struct {
	client openai.Client
	model  string
}

func NewOpenAI(apiKey, model string) *OpenAI {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAI{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (p *OpenAI) Send(ctx context.Context, req domain.ChatRequest) (*domain.ChatReply, error) {
	model := p.model
	if req.Config != nil && req.Config.Model != "" {
		model = req.Config.Model
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(model),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(req.Message),
		},
	}

	if req.ContinuationToken != "" {
		params.PreviousResponseID = openai.String(req.ContinuationToken)
	} else if req.Config != nil && req.Config.SystemPrompt != "" {
		params.Instructions = openai.String(req.Config.SystemPrompt)
	}

	resp, err := p.client.Responses.New(ctx, params)
	if err != nil {
		var apierr *openai.Error
		if errors.As(err, &apierr) {
			return nil, domain.NewUpstreamError("openai: "+apierr.Message, apierr.StatusCode, err)
		}
		return nil, domain.NewUpstreamError("openai request failed", 0, err)
	}

	text := resp.OutputText()
	if text == "" {
		text = FallbackReply
	}

	return &domain.ChatReply{
		Text:              text,
		ContinuationToken: resp.ID,
		Metadata:          map[string]any{"model": string(resp.Model)},
	}, nil
}
