package debate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goat-debate/backend/internal/content"
	"github.com/goat-debate/backend/internal/gemini"
	"github.com/goat-debate/backend/internal/session"
)

// mockGen returns canned responses in order and records prompts.
type mockGen struct {
	mu        sync.Mutex
	responses []string
	prompts   []string
	delay     time.Duration
}

func (m *mockGen) Generate(_ context.Context, prompt string, _ gemini.TextOptions) string {
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	if len(m.responses) == 0 {
		return "generic reply"
	}
	resp := m.responses[0]
	if len(m.responses) > 1 {
		m.responses = m.responses[1:]
	}
	return resp
}

type mockSpeech struct {
	url   string
	delay time.Duration
}

func (m *mockSpeech) Synthesize(_ context.Context, _, _ string) string {
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	return m.url
}

type mockScorer struct {
	user, ai int
	delay    time.Duration
}

func (m *mockScorer) Score(_ context.Context, _, _ string) (int, int) {
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	return m.user, m.ai
}

// fakeClock is an adjustable clock for driving the time limit.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestOrchestrator(gen ContentGenerator, synth SpeechSynthesizer, scorer Scorer) (*Orchestrator, *fakeClock) {
	clock := &fakeClock{now: time.Unix(100000, 0)}
	ids := 0
	store := session.NewStore(clock.Now, func() string { ids++; return fmt.Sprintf("sess-%d", ids) }, 0)
	return NewOrchestrator(store, gen, synth, scorer, DefaultTimeLimit, DefaultHistoryWindow, nil), clock
}

func TestStartDebateSymmetricExclusion(t *testing.T) {
	tests := []struct {
		name       string
		userSide   string
		wantAISide string
	}{
		{"user claims char1", "Messi", "Ronaldo"},
		{"user claims char1 case-insensitive", "MESSI", "Ronaldo"},
		{"user claims char2", "Ronaldo", "Messi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &mockGen{responses: []string{"Oya, make we start!"}}
			o, _ := newTestOrchestrator(gen, &mockSpeech{}, &mockScorer{})

			res := o.StartDebate(context.Background(), "Messi", "Ronaldo", tt.userSide, "Football")
			if res.AIText != "Oya, make we start!" {
				t.Errorf("unexpected opening %q", res.AIText)
			}

			snapErr := o.store.With(res.SessionID, func(s *session.Session) error {
				if s.AISide != tt.wantAISide {
					t.Errorf("AI side = %q, want %q", s.AISide, tt.wantAISide)
				}
				if s.UserSide != tt.userSide {
					t.Errorf("user side = %q, want %q", s.UserSide, tt.userSide)
				}
				if len(s.History) != 1 || s.History[0].Speaker != session.SpeakerAI {
					t.Errorf("expected history seeded with AI opening, got %+v", s.History)
				}
				return nil
			})
			if snapErr != nil {
				t.Fatalf("session not stored: %v", snapErr)
			}
		})
	}
}

func TestProcessTurnAccumulates(t *testing.T) {
	gen := &mockGen{responses: []string{"opening", "reply"}}
	o, _ := newTestOrchestrator(gen, &mockSpeech{url: "/static/audio_1.mp3"}, &mockScorer{user: 5, ai: 7})

	start := o.StartDebate(context.Background(), "Messi", "Ronaldo", "Messi", "")

	const turns = 3
	var last TurnResult
	for i := 0; i < turns; i++ {
		var err error
		last, err = o.ProcessTurn(context.Background(), start.SessionID, "my point")
		if err != nil {
			t.Fatalf("turn %d: %v", i, err)
		}
		if last.Finished {
			t.Fatalf("turn %d unexpectedly finished", i)
		}
	}

	if last.AIAudioURL != "/static/audio_1.mp3" {
		t.Errorf("unexpected audio url %q", last.AIAudioURL)
	}
	if last.UserScore != 5*turns || last.AIScore != 7*turns {
		t.Errorf("scores = (%d, %d), want (%d, %d)", last.UserScore, last.AIScore, 5*turns, 7*turns)
	}

	o.store.With(start.SessionID, func(s *session.Session) error {
		if s.TurnCount != turns {
			t.Errorf("TurnCount = %d, want %d", s.TurnCount, turns)
		}
		return nil
	})
}

func TestProcessTurnUnknownSession(t *testing.T) {
	o, _ := newTestOrchestrator(&mockGen{}, &mockSpeech{}, &mockScorer{})
	for _, id := range []string{"no-such-id", ""} {
		if _, err := o.ProcessTurn(context.Background(), id, "text"); !errors.Is(err, session.ErrNotFound) {
			t.Errorf("ProcessTurn(%q) error = %v, want ErrNotFound", id, err)
		}
	}
}

func TestTimeLimitTriggersJudging(t *testing.T) {
	gen := &mockGen{responses: []string{"opening", "reply one", "Ronaldo"}}
	o, clock := newTestOrchestrator(gen, &mockSpeech{url: "/static/a.mp3"}, &mockScorer{user: 3, ai: 4})

	start := o.StartDebate(context.Background(), "Messi", "Ronaldo", "Messi", "")
	if _, err := o.ProcessTurn(context.Background(), start.SessionID, "first point"); err != nil {
		t.Fatal(err)
	}

	clock.Advance(DefaultTimeLimit)

	res, err := o.ProcessTurn(context.Background(), start.SessionID, "last point")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Finished {
		t.Fatal("expected finished result after time limit")
	}
	if res.Winner != "Ronaldo" {
		t.Errorf("winner = %q, want Ronaldo", res.Winner)
	}
	if res.AIText != "Time don reach! The winner na Ronaldo!" {
		t.Errorf("unexpected finishing line %q", res.AIText)
	}
	if res.AIAudioURL != "" {
		t.Errorf("finishing turn should carry no audio, got %q", res.AIAudioURL)
	}
	// Scores from the single completed turn, unchanged by the judging call.
	if res.UserScore != 3 || res.AIScore != 4 {
		t.Errorf("scores = (%d, %d), want (3, 4)", res.UserScore, res.AIScore)
	}

	// The session is terminal: further turns repeat the outcome and mutate
	// nothing.
	again, err := o.ProcessTurn(context.Background(), start.SessionID, "hello?")
	if err != nil {
		t.Fatal(err)
	}
	if !again.Finished || again.Winner != "Ronaldo" {
		t.Errorf("terminal turn = %+v", again)
	}
	if again.UserScore != 3 || again.AIScore != 4 {
		t.Errorf("scores changed on terminal session: (%d, %d)", again.UserScore, again.AIScore)
	}
	o.store.With(start.SessionID, func(s *session.Session) error {
		if s.TurnCount != 2 {
			t.Errorf("TurnCount = %d, want 2", s.TurnCount)
		}
		return nil
	})
}

func TestDegradedProvidersStillCompleteTurn(t *testing.T) {
	// Content at its static fallback and speech disabled: the turn still
	// succeeds with degraded output.
	gen := &mockGen{responses: []string{content.FallbackLine}}
	o, _ := newTestOrchestrator(gen, &mockSpeech{url: ""}, &mockScorer{user: 1, ai: 1})

	start := o.StartDebate(context.Background(), "Messi", "Ronaldo", "Messi", "")
	if start.AIText != content.FallbackLine {
		t.Errorf("unexpected opening %q", start.AIText)
	}

	res, err := o.ProcessTurn(context.Background(), start.SessionID, "point")
	if err != nil {
		t.Fatalf("degraded turn should not error: %v", err)
	}
	if res.Finished || res.AIText == "" {
		t.Errorf("unexpected result %+v", res)
	}
	if res.AIAudioURL != "" {
		t.Errorf("expected no audio, got %q", res.AIAudioURL)
	}
}

func TestEmptyUserTextStillProcessed(t *testing.T) {
	o, _ := newTestOrchestrator(&mockGen{}, &mockSpeech{}, &mockScorer{})
	start := o.StartDebate(context.Background(), "Messi", "Ronaldo", "Messi", "")

	if _, err := o.ProcessTurn(context.Background(), start.SessionID, ""); err != nil {
		t.Fatalf("empty user text should be processed: %v", err)
	}
	o.store.With(start.SessionID, func(s *session.Session) error {
		if s.TurnCount != 1 {
			t.Errorf("TurnCount = %d, want 1", s.TurnCount)
		}
		return nil
	})
}

func TestSameSessionTurnsSerialize(t *testing.T) {
	// Slow providers widen the race window; history must still alternate
	// strictly.
	gen := &mockGen{delay: time.Millisecond}
	o, _ := newTestOrchestrator(gen, &mockSpeech{delay: time.Millisecond}, &mockScorer{user: 1, ai: 1, delay: time.Millisecond})

	start := o.StartDebate(context.Background(), "Messi", "Ronaldo", "Messi", "")

	const turns = 10
	var wg sync.WaitGroup
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := o.ProcessTurn(context.Background(), start.SessionID, "point"); err != nil {
				t.Errorf("turn failed: %v", err)
			}
		}()
	}
	wg.Wait()

	o.store.With(start.SessionID, func(s *session.Session) error {
		if s.TurnCount != turns {
			t.Errorf("TurnCount = %d, want %d", s.TurnCount, turns)
		}
		for i := 1; i < len(s.History); i++ {
			want := session.SpeakerUser
			if i%2 == 0 {
				want = session.SpeakerAI
			}
			if s.History[i].Speaker != want {
				t.Fatalf("history[%d] speaker = %s, want %s", i, s.History[i].Speaker, want)
			}
		}
		if s.UserScore != turns || s.AIScore != turns {
			t.Errorf("scores = (%d, %d), want (%d, %d)", s.UserScore, s.AIScore, turns, turns)
		}
		return nil
	})
}

func TestDistinctSessionsDoNotInterleave(t *testing.T) {
	gen := &mockGen{delay: time.Millisecond}
	o, _ := newTestOrchestrator(gen, &mockSpeech{}, &mockScorer{})

	a := o.StartDebate(context.Background(), "Messi", "Ronaldo", "Messi", "")
	b := o.StartDebate(context.Background(), "Jay-Z", "Nas", "Nas", "")

	var wg sync.WaitGroup
	for _, id := range []string{a.SessionID, b.SessionID} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			for i := 0; i < 5; i++ {
				if _, err := o.ProcessTurn(context.Background(), id, "point for "+id); err != nil {
					t.Errorf("session %s: %v", id, err)
				}
			}
		}(id)
	}
	wg.Wait()

	for _, id := range []string{a.SessionID, b.SessionID} {
		o.store.With(id, func(s *session.Session) error {
			if s.TurnCount != 5 {
				t.Errorf("session %s TurnCount = %d, want 5", id, s.TurnCount)
			}
			for _, u := range s.History {
				if u.Speaker == session.SpeakerUser && u.Text != "point for "+id {
					t.Errorf("session %s contains foreign utterance %q", id, u.Text)
				}
			}
			return nil
		})
	}
}

func TestGetSnapshot(t *testing.T) {
	gen := &mockGen{responses: []string{"the opening line"}}
	o, _ := newTestOrchestrator(gen, &mockSpeech{url: "/static/open.mp3"}, &mockScorer{})

	start := o.StartDebate(context.Background(), "Messi", "Ronaldo", "Messi", "")

	snap, err := o.GetSnapshot(start.SessionID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.OpeningText != "the opening line" || snap.OpeningAudioURL != "/static/open.mp3" {
		t.Errorf("unexpected snapshot %+v", snap)
	}

	if _, err := o.GetSnapshot("missing"); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestJudgePromptSeesFullHistory(t *testing.T) {
	gen := &mockGen{responses: []string{"opening", "r1", "r2", "Messi"}}
	o, clock := newTestOrchestrator(gen, &mockSpeech{}, &mockScorer{})

	start := o.StartDebate(context.Background(), "Messi", "Ronaldo", "Messi", "")
	o.ProcessTurn(context.Background(), start.SessionID, "first argument")
	o.ProcessTurn(context.Background(), start.SessionID, "second argument")
	clock.Advance(DefaultTimeLimit)
	o.ProcessTurn(context.Background(), start.SessionID, "closing argument")

	judgePrompt := gen.prompts[len(gen.prompts)-1]
	for _, want := range []string{"Judge this debate", "Messi", "Ronaldo", "first argument", "second argument", "closing argument", "winner's name"} {
		if !strings.Contains(judgePrompt, want) {
			t.Errorf("judge prompt missing %q:\n%s", want, judgePrompt)
		}
	}
}
