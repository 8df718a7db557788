package speech

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goat-debate/backend/internal/textclean"
)

// TTS converts text into audio bytes.
type TTS interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}

// Synthesizer produces hosted audio URLs for utterances. A Synthesizer
// without a TTS client is the valid "feature disabled" state: it returns no
// URL for every request.
type Synthesizer struct {
	tts     TTS
	store   BlobStore
	logger  *zap.Logger
	newName func() string
}

// NewSynthesizer creates a Synthesizer. tts may be nil when no credential is
// configured; store is required when tts is set.
func NewSynthesizer(tts TTS, store BlobStore, logger *zap.Logger) *Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synthesizer{
		tts:     tts,
		store:   store,
		logger:  logger,
		newName: func() string { return fmt.Sprintf("audio_%s.mp3", uuid.NewString()) },
	}
}

// Synthesize returns a reference URL for the spoken text, or "" when audio
// is disabled or synthesis fails. It never returns an error: audio is never
// a hard dependency for gameplay.
func (s *Synthesizer) Synthesize(ctx context.Context, text, voice string) string {
	if s.tts == nil {
		return ""
	}
	if voice == "" {
		voice = VoiceDefault
	}

	audio, err := s.tts.Synthesize(ctx, textclean.Clean(text), voice)
	if err != nil {
		s.logger.Warn("speech synthesis failed", zap.Error(err))
		return ""
	}

	url, err := s.store.Put(s.newName(), audio)
	if err != nil {
		s.logger.Warn("storing audio failed", zap.Error(err))
		return ""
	}
	return url
}
