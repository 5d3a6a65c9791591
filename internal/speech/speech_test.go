package speech

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"testing"
)

func TestWrapWAV(t *testing.T) {
	pcm := []byte{1, 0, 2, 0, 3, 0, 4, 0}
	wav := wrapWAV(pcm, 24000)

	if len(wav) != 44+len(pcm) {
		t.Fatalf("len = %d, want %d", len(wav), 44+len(pcm))
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		t.Errorf("bad RIFF header: %q", wav[:12])
	}
	if got := binary.LittleEndian.Uint32(wav[4:8]); got != uint32(36+len(pcm)) {
		t.Errorf("RIFF size = %d", got)
	}
	if got := binary.LittleEndian.Uint32(wav[24:28]); got != 24000 {
		t.Errorf("sample rate = %d, want 24000", got)
	}
	if got := binary.LittleEndian.Uint32(wav[28:32]); got != 48000 {
		t.Errorf("byte rate = %d, want 48000", got)
	}
	if string(wav[36:40]) != "data" {
		t.Errorf("missing data chunk")
	}
	if !bytes.Equal(wav[44:], pcm) {
		t.Error("payload changed")
	}
}

func TestPCMRate(t *testing.T) {
	tests := []struct {
		mime string
		want int
	}{
		{"audio/L16;codec=pcm;rate=24000", 24000},
		{"audio/L16; rate=16000", 16000},
		{"audio/L16", defaultPCMRate},
		{"audio/L16;rate=abc", defaultPCMRate},
	}
	for _, tt := range tests {
		if got := pcmRate(tt.mime); got != tt.want {
			t.Errorf("pcmRate(%q) = %d, want %d", tt.mime, got, tt.want)
		}
	}
}

func TestAudioFromBlob(t *testing.T) {
	a := audioFromBlob("audio/L16;codec=pcm;rate=16000", []byte{0, 0})
	if a.MIMEType != "audio/wav" || a.SampleRate != 16000 {
		t.Errorf("pcm blob = %s@%d, want audio/wav@16000", a.MIMEType, a.SampleRate)
	}
	if a.Ext() != ".wav" {
		t.Errorf("Ext = %q", a.Ext())
	}

	mp3 := audioFromBlob("audio/mpeg", []byte{9})
	if mp3.MIMEType != "audio/mpeg" || !bytes.Equal(mp3.Data, []byte{9}) {
		t.Errorf("mp3 blob changed: %+v", mp3)
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("STUDYBUDDY_SPEECH_PROVIDER", "openai")
	t.Setenv("STUDYBUDDY_SPEECH_VOICE", "nova")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv: %v", err)
	}
	if cfg.Provider != "openai" || cfg.Voice != "nova" || cfg.Language != "en-US" {
		t.Errorf("cfg = %+v", cfg)
	}

	cfg = cfg.WithKeys("g-key", "o-key")
	if cfg.APIKey != "o-key" {
		t.Errorf("APIKey = %q, want o-key", cfg.APIKey)
	}
	cfg = Config{Provider: "gemini", APIKey: "own"}.WithKeys("g-key", "o-key")
	if cfg.APIKey != "own" {
		t.Errorf("explicit key overwritten: %q", cfg.APIKey)
	}
}

func TestNew(t *testing.T) {
	s, err := New(context.Background(), Config{Provider: "mock"})
	if err != nil || s.Name() != "mock" {
		t.Fatalf("New(mock) = %v, %v", s, err)
	}
	if _, err := New(context.Background(), Config{Provider: "espeak"}); err == nil {
		t.Error("expected error for unknown provider")
	}
	if _, err := New(context.Background(), Config{Provider: "openai"}); err == nil {
		t.Error("expected error for missing key")
	}
}

func TestMockSynthesizer_Error(t *testing.T) {
	boom := errors.New("quota")
	m := &MockSynthesizer{Err: boom}

	_, err := m.Synthesize(context.Background(), "hi")
	var serr *SynthesisError
	if !errors.As(err, &serr) || !errors.Is(err, boom) {
		t.Fatalf("err = %v, want SynthesisError wrapping quota", err)
	}
	if m.CallCount() != 1 {
		t.Errorf("CallCount = %d", m.CallCount())
	}
}
