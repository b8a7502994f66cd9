package consulting

import (
	"context"
	"strings"

	"github.com/bizon-consulting/backend/internal/metrics"
	"github.com/bizon-consulting/backend/internal/models"
)

// Reply answers the last message of a conversation. Model failures fall
// back to keyword-matched canned replies; Reply itself never fails.
func (s *Service) Reply(ctx context.Context, messages []models.ChatMessage, c models.ConsultingInput) string {
	if s.assistant != nil {
		answer, err := s.assistant.Ask(ctx, render(s.tables.chatSystem, c), messages)
		if err == nil {
			metrics.ConsultingReplies.WithLabelValues(metrics.ModeModel).Inc()
			if strings.TrimSpace(answer) == "" {
				return s.tables.emptyReply
			}
			return answer
		}
		s.log.Warn().Err(err).Msg("chat completion failed, using canned reply")
	}
	metrics.ConsultingReplies.WithLabelValues(metrics.ModeCanned).Inc()
	return s.CannedReply(messages, c)
}

func (s *Service) CannedReply(messages []models.ChatMessage, c models.ConsultingInput) string {
	last := ""
	if len(messages) > 0 {
		last = strings.ToLower(messages[len(messages)-1].Content)
	}
	for _, r := range s.tables.replies {
		if containsAny(last, r.keywords) {
			return render(r.tmpl, c)
		}
	}
	return render(s.tables.defaultReply, c)
}
