package speech

import (
	"context"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAISynthesizer uses the OpenAI speech endpoint. It returns MP3 audio.
type OpenAISynthesizer struct {
	client *openai.Client
	model  openai.SpeechModel
	voice  openai.SpeechVoice
}

// NewOpenAISynthesizer creates an OpenAI speech synthesizer.
func NewOpenAISynthesizer(cfg Config) (*OpenAISynthesizer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required for speech")
	}

	s := &OpenAISynthesizer{
		client: openai.NewClient(cfg.APIKey),
		model:  openai.SpeechModel(cfg.Model),
		voice:  openai.SpeechVoice(cfg.Voice),
	}
	if s.model == "" {
		s.model = openai.TTSModel1
	}
	if s.voice == "" {
		s.voice = openai.VoiceAlloy
	}
	return s, nil
}

func (s *OpenAISynthesizer) Name() string { return "openai" }

func (s *OpenAISynthesizer) Synthesize(ctx context.Context, text string) (*Audio, error) {
	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          s.model,
		Input:          text,
		Voice:          s.voice,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, &SynthesisError{Backend: s.Name(), Err: err}
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return nil, &SynthesisError{Backend: s.Name(), Err: fmt.Errorf("read audio: %w", err)}
	}
	return &Audio{Data: data, MIMEType: "audio/mpeg"}, nil
}
