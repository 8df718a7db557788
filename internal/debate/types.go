package debate

import (
	"context"

	"github.com/goat-debate/backend/internal/gemini"
)

// ContentGenerator produces debate dialogue. It never fails: provider
// outages degrade to fallback text upstream.
type ContentGenerator interface {
	Generate(ctx context.Context, prompt string, opts gemini.TextOptions) string
}

// SpeechSynthesizer returns a hosted audio URL for an utterance, or "" when
// audio is disabled or unavailable.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text, voice string) string
}

// Scorer awards per-turn points to both sides.
type Scorer interface {
	Score(ctx context.Context, userText, aiText string) (user, ai int)
}

// StartResult is the outcome of starting a debate.
type StartResult struct {
	SessionID  string
	AIText     string
	AIAudioURL string
	UserScore  int
	AIScore    int
}

// TurnResult is the outcome of one processed turn.
type TurnResult struct {
	AIText     string
	AIAudioURL string
	UserScore  int
	AIScore    int
	Finished   bool
	Winner     string
}

// Snapshot is the stored opening of a session.
type Snapshot struct {
	OpeningText     string
	OpeningAudioURL string
}
