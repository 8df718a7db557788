// Package session holds debate session state and the in-memory store that
// owns it.
package session

import "time"

// Speaker identifies which side produced an utterance.
type Speaker string

const (
	SpeakerUser Speaker = "user"
	SpeakerAI   Speaker = "ai"
)

// Utterance is one piece of dialogue in a debate.
type Utterance struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
}

// DefaultScoreCap bounds either side's points for a single turn.
const DefaultScoreCap = 20

// Session is the full state of one debate. It is owned by the Store; all
// access goes through Store.With so same-session operations serialize.
// Mutation goes through the methods below, which keep the invariants:
// history is append-only and seeded with the AI opening, TurnCount matches
// the number of user utterances, scores never decrease and gain at most the
// per-turn cap per call, and a finished session never changes again.
type Session struct {
	ID        string
	UserSide  string
	AISide    string
	Domain    string
	StartTime time.Time

	OpeningText     string
	OpeningAudioURL string

	History   []Utterance
	TurnCount int
	UserScore int
	AIScore   int
	Finished  bool
	Winner    string

	scoreCap int
}

func newSession(id, userSide, aiSide, domain string, start time.Time, openingText, openingAudioURL string, scoreCap int) *Session {
	if scoreCap <= 0 {
		scoreCap = DefaultScoreCap
	}
	return &Session{
		ID:              id,
		UserSide:        userSide,
		AISide:          aiSide,
		Domain:          domain,
		StartTime:       start,
		OpeningText:     openingText,
		OpeningAudioURL: openingAudioURL,
		History:         []Utterance{{Speaker: SpeakerAI, Text: openingText}},
		scoreCap:        scoreCap,
	}
}

// AppendUser records a user utterance and counts the turn. Empty text still
// counts: what to make of it is the content provider's problem. No-op once
// finished.
func (s *Session) AppendUser(text string) {
	if s.Finished {
		return
	}
	s.History = append(s.History, Utterance{Speaker: SpeakerUser, Text: text})
	s.TurnCount++
}

// AppendAI records an AI utterance. No-op once finished.
func (s *Session) AppendAI(text string) {
	if s.Finished {
		return
	}
	s.History = append(s.History, Utterance{Speaker: SpeakerAI, Text: text})
}

// AddScores accumulates one turn's points. Each increment is clamped to
// [0, cap] so a misbehaving scorer cannot breach the per-turn bound; no-op
// once finished.
func (s *Session) AddScores(user, ai int) {
	if s.Finished {
		return
	}
	s.UserScore += clampScore(user, s.scoreCap)
	s.AIScore += clampScore(ai, s.scoreCap)
}

func clampScore(n, limit int) int {
	if n < 0 {
		return 0
	}
	if n > limit {
		return limit
	}
	return n
}

// Finish latches the terminal state with the judged winner. Only the first
// call has any effect.
func (s *Session) Finish(winner string) {
	if s.Finished {
		return
	}
	s.Finished = true
	s.Winner = winner
}

// Recent returns the last n history entries (all of them when fewer exist).
func (s *Session) Recent(n int) []Utterance {
	if n <= 0 || n >= len(s.History) {
		return s.History
	}
	return s.History[len(s.History)-n:]
}
