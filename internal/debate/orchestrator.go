// Package debate drives the debate session lifecycle: starting sessions,
// processing turns through the content, scoring, and speech providers, and
// judging the outcome when time runs out.
package debate

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/goat-debate/backend/internal/content"
	"github.com/goat-debate/backend/internal/gemini"
	"github.com/goat-debate/backend/internal/session"
	"github.com/goat-debate/backend/internal/speech"
)

// Policy defaults.
const (
	DefaultTimeLimit     = 5 * time.Minute
	DefaultHistoryWindow = 5

	dialogueMaxTokens = 160
	judgeMaxTokens    = 40
)

// Orchestrator is the debate state machine. Each session moves one way,
// active to finished, and all per-session work happens under the store's
// per-session lock so turns on one session are strictly serialized.
type Orchestrator struct {
	store   *session.Store
	content ContentGenerator
	speech  SpeechSynthesizer
	scorer  Scorer
	logger  *zap.Logger

	timeLimit     time.Duration
	historyWindow int
}

// NewOrchestrator creates an Orchestrator. timeLimit and historyWindow fall
// back to the defaults when non-positive.
func NewOrchestrator(store *session.Store, gen ContentGenerator, synth SpeechSynthesizer, scorer Scorer, timeLimit time.Duration, historyWindow int, logger *zap.Logger) *Orchestrator {
	if timeLimit <= 0 {
		timeLimit = DefaultTimeLimit
	}
	if historyWindow <= 0 {
		historyWindow = DefaultHistoryWindow
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		store:         store,
		content:       gen,
		speech:        synth,
		scorer:        scorer,
		logger:        logger,
		timeLimit:     timeLimit,
		historyWindow: historyWindow,
	}
}

// StartDebate creates a session. The AI takes char2 when the user claims
// char1, otherwise char1: the AI always plays the side the user did not.
func (o *Orchestrator) StartDebate(ctx context.Context, char1, char2, userSide, domain string) StartResult {
	aiSide := char1
	if strings.EqualFold(userSide, char1) {
		aiSide = char2
	}

	opening := o.content.Generate(ctx, buildOpeningPrompt(aiSide, userSide, domain), gemini.TextOptions{
		Temperature:     content.TempDialogue,
		MaxOutputTokens: dialogueMaxTokens,
	})
	audioURL := o.speech.Synthesize(ctx, opening, speech.VoiceAI)

	sess := o.store.Create(userSide, aiSide, domain, opening, audioURL)
	o.logger.Info("debate started",
		zap.String("session_id", sess.ID),
		zap.String("user_side", userSide),
		zap.String("ai_side", aiSide))

	return StartResult{SessionID: sess.ID, AIText: opening, AIAudioURL: audioURL}
}

// ProcessTurn runs one turn. It returns session.ErrNotFound for an unknown
// id; every provider failure inside the turn degrades rather than erroring.
func (o *Orchestrator) ProcessTurn(ctx context.Context, sessionID, userText string) (TurnResult, error) {
	var res TurnResult
	err := o.store.With(sessionID, func(s *session.Session) error {
		if s.Finished {
			// Terminal state: repeat the outcome without mutating anything.
			res = TurnResult{
				AIText:    finishingLine(s.Winner),
				UserScore: s.UserScore,
				AIScore:   s.AIScore,
				Finished:  true,
				Winner:    s.Winner,
			}
			return nil
		}

		s.AppendUser(userText)

		if o.store.Now().Sub(s.StartTime) >= o.timeLimit {
			res = o.judge(ctx, s)
			return nil
		}

		aiText := o.content.Generate(ctx, buildReplyPrompt(s, o.historyWindow, userText), gemini.TextOptions{
			Temperature:     content.TempDialogue,
			MaxOutputTokens: dialogueMaxTokens,
		})
		s.AppendAI(aiText)

		// Scoring and speech are independent of each other; run both before
		// the turn response.
		var (
			userPts, aiPts int
			audioURL       string
			wg             sync.WaitGroup
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			userPts, aiPts = o.scorer.Score(ctx, userText, aiText)
		}()
		go func() {
			defer wg.Done()
			audioURL = o.speech.Synthesize(ctx, aiText, speech.VoiceAI)
		}()
		wg.Wait()

		s.AddScores(userPts, aiPts)
		res = TurnResult{
			AIText:     aiText,
			AIAudioURL: audioURL,
			UserScore:  s.UserScore,
			AIScore:    s.AIScore,
		}
		return nil
	})
	return res, err
}

// judge ends the session: one content call interprets the full history and
// names the winner.
func (o *Orchestrator) judge(ctx context.Context, s *session.Session) TurnResult {
	winner := strings.TrimSpace(o.content.Generate(ctx, buildJudgePrompt(s), gemini.TextOptions{
		Temperature:     content.TempJudging,
		MaxOutputTokens: judgeMaxTokens,
	}))
	s.Finish(winner)
	o.logger.Info("debate finished",
		zap.String("session_id", s.ID),
		zap.String("winner", winner),
		zap.Int("turns", s.TurnCount))

	return TurnResult{
		AIText:    finishingLine(winner),
		UserScore: s.UserScore,
		AIScore:   s.AIScore,
		Finished:  true,
		Winner:    winner,
	}
}

// GetSnapshot returns the stored opening of a session.
func (o *Orchestrator) GetSnapshot(sessionID string) (Snapshot, error) {
	var snap Snapshot
	err := o.store.With(sessionID, func(s *session.Session) error {
		snap = Snapshot{OpeningText: s.OpeningText, OpeningAudioURL: s.OpeningAudioURL}
		return nil
	})
	return snap, err
}

func finishingLine(winner string) string {
	return fmt.Sprintf("Time don reach! The winner na %s!", winner)
}
