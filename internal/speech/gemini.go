package speech

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const (
	defaultGeminiTTSModel = "gemini-2.5-flash-preview-tts"
	defaultGeminiVoice    = "Kore"
)

// GeminiSynthesizer uses Gemini's native TTS models. It returns WAV audio.
type GeminiSynthesizer struct {
	client   *genai.Client
	model    string
	voice    string
	language string
}

// NewGeminiSynthesizer creates a Gemini TTS synthesizer.
func NewGeminiSynthesizer(ctx context.Context, cfg Config) (*GeminiSynthesizer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required for speech")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	s := &GeminiSynthesizer{
		client:   client,
		model:    cfg.Model,
		voice:    cfg.Voice,
		language: cfg.Language,
	}
	if s.model == "" {
		s.model = defaultGeminiTTSModel
	}
	if s.voice == "" {
		s.voice = defaultGeminiVoice
	}
	return s, nil
}

func (s *GeminiSynthesizer) Name() string { return "gemini" }

func (s *GeminiSynthesizer) Synthesize(ctx context.Context, text string) (*Audio, error) {
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			LanguageCode: s.language,
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: s.voice},
			},
		},
	}

	result, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(text), config)
	if err != nil {
		return nil, &SynthesisError{Backend: s.Name(), Err: err}
	}

	blob := firstAudioBlob(result)
	if blob == nil {
		return nil, &SynthesisError{Backend: s.Name(), Err: errors.New("no audio in response")}
	}
	return audioFromBlob(blob.MIMEType, blob.Data), nil
}

func firstAudioBlob(result *genai.GenerateContentResponse) *genai.Blob {
	if result == nil {
		return nil
	}
	for _, c := range result.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if p.InlineData != nil && len(p.InlineData.Data) > 0 {
				return p.InlineData
			}
		}
	}
	return nil
}

// audioFromBlob wraps raw PCM into WAV. Already-containerized audio passes
// through.
func audioFromBlob(mime string, data []byte) *Audio {
	lower := strings.ToLower(mime)
	if strings.HasPrefix(lower, "audio/l16") || strings.Contains(lower, "pcm") {
		rate := pcmRate(mime)
		return &Audio{Data: wrapWAV(data, rate), MIMEType: "audio/wav", SampleRate: rate}
	}
	return &Audio{Data: data, MIMEType: mime}
}
