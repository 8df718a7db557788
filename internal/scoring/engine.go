// Package scoring awards per-turn points to both debate sides using an
// LLM judge, with a deterministic fallback so a score is always produced.
package scoring

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/goat-debate/backend/internal/gemini"
)

// DefaultCap is the maximum points either side can earn in one turn.
const DefaultCap = 20

const scoreMaxTokens = 32

// The judge must answer with exactly two integers.
var scoreRe = regexp.MustCompile(`^\s*(\d{1,3})\s*,\s*(\d{1,3})\s*$`)

// TextGenerator produces text for a prompt and never fails.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, opts gemini.TextOptions) string
}

// Engine scores one exchange of user and AI utterances.
type Engine struct {
	gen    TextGenerator
	cap    int
	logger *zap.Logger
}

// NewEngine creates an Engine with the given per-turn cap (DefaultCap if <= 0).
func NewEngine(gen TextGenerator, limit int, logger *zap.Logger) *Engine {
	if limit <= 0 {
		limit = DefaultCap
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{gen: gen, cap: limit, logger: logger}
}

// Score returns points for the user and AI utterances, each in [0, cap].
// The LLM judge is asked for a strict two-integer answer; any malformed or
// out-of-range output falls back to word-count scoring.
func (e *Engine) Score(ctx context.Context, userText, aiText string) (int, int) {
	raw := e.gen.Generate(ctx, buildScorePrompt(userText, aiText, e.cap), gemini.TextOptions{
		Temperature:     0.2,
		MaxOutputTokens: scoreMaxTokens,
	})

	user, ai, ok := parseScores(raw, e.cap)
	if !ok {
		e.logger.Warn("unparsable judge scores, using word-count fallback", zap.String("raw", raw))
		return e.fallbackScore(userText), e.fallbackScore(aiText)
	}
	return user, ai
}

// fallbackScore awards one point per word, capped.
func (e *Engine) fallbackScore(text string) int {
	n := len(strings.Fields(text))
	if n > e.cap {
		return e.cap
	}
	return n
}

func parseScores(raw string, limit int) (user, ai int, ok bool) {
	m := scoreRe.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return 0, 0, false
	}
	user, err1 := strconv.Atoi(m[1])
	ai, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	if user < 0 || user > limit || ai < 0 || ai > limit {
		return 0, 0, false
	}
	return user, ai, true
}

func buildScorePrompt(userText, aiText string, limit int) string {
	return fmt.Sprintf(`Score this debate exchange.

Statement A: %s
Statement B: %s

Rate each statement on reasoning (0-8), evidence (0-7), and delivery (0-5),
then sum them so each total is between 0 and %d.
Reply with ONLY the two totals as "A, B" — two numbers separated by a comma,
nothing else.`, userText, aiText, limit)
}
