package speech

import (
	"context"
	"errors"
	"io"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/parley-ai/parley-backend/internal/domain"
)

// OpenAI implements SpeechProvider on the OpenAI text-to-speech endpoint.
// Pure pass-through: text in, binary audio out, no state.
type OpenAI struct {
	client openai.Client
	model  string
	voice  string
}

func NewOpenAI(apiKey, model, voice string) *OpenAI {
	if model == "" {
		model = string(openai.SpeechModelTTS1)
	}
	if voice == "" {
		voice = string(openai.AudioSpeechNewParamsVoiceAlloy)
	}
	return &OpenAI{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
		voice:  voice,
	}
}

func (p *OpenAI) Synthesize(ctx context.Context, req domain.SpeechRequest) (*domain.SpeechResult, error) {
	voice := p.voice
	if req.Voice != "" {
		voice = req.Voice
	}

	res, err := p.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model:          openai.SpeechModel(p.model),
		Input:          req.Text,
		Voice:          openai.AudioSpeechNewParamsVoice(voice),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
	})
	if err != nil {
		var apierr *openai.Error
		if errors.As(err, &apierr) {
			return nil, domain.NewUpstreamError("speech provider: "+apierr.Message, apierr.StatusCode, err)
		}
		return nil, domain.NewUpstreamError("speech request failed", 0, err)
	}
	defer res.Body.Close()

	audio, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, domain.NewUpstreamError("reading speech response", res.StatusCode, err)
	}

	contentType := res.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "audio/mpeg"
	}

	return &domain.SpeechResult{
		Audio:       audio,
		ContentType: contentType,
	}, nil
}
