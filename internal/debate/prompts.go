package debate

import (
	"fmt"
	"strings"

	"github.com/goat-debate/backend/internal/session"
)

// formatHistory renders utterances as "Persona: text" lines.
func formatHistory(s *session.Session, entries []session.Utterance) string {
	var sb strings.Builder
	for _, u := range entries {
		name := s.UserSide
		if u.Speaker == session.SpeakerAI {
			name = s.AISide
		}
		fmt.Fprintf(&sb, "%s: %s\n", name, u.Text)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func buildOpeningPrompt(aiSide, userSide, domain string) string {
	topic := "Who is better?"
	if domain != "" {
		topic = fmt.Sprintf("Who is the greatest of all time in %s?", domain)
	}
	return fmt.Sprintf(`You are %s in a debate against %s.
The topic is: %s
Speak in Nigerian Pidgin English.
Be funny, witty, and aggressive but playful.
Keep it short (max 2 sentences).
Start the debate now.`, aiSide, userSide, topic)
}

func buildReplyPrompt(s *session.Session, window int, userText string) string {
	return fmt.Sprintf(`You are %s debating against %s.
Recent conversation:
%s

%s just said: "%s"

Reply in Nigerian Pidgin English.
Be sharp, funny, and defend your side.
Max 2 sentences.`, s.AISide, s.UserSide, formatHistory(s, s.Recent(window)), s.UserSide, userText)
}

func buildJudgePrompt(s *session.Session) string {
	return fmt.Sprintf(`Judge this debate between %s and %s.
History:
%s

Who won based on intelligence, wit, and points?
Reply with just the winner's name.`, s.UserSide, s.AISide, formatHistory(s, s.History))
}
