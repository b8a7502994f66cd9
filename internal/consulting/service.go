package consulting

import (
	"context"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bizon-consulting/backend/internal/ai"
	"github.com/bizon-consulting/backend/internal/models"
)

type Service struct {
	assistant ai.Assistant
	tables    *Tables
	log       zerolog.Logger
}

// NewService accepts a nil assistant; replies then come from the canned set.
func NewService(assistant ai.Assistant, tables *Tables, log zerolog.Logger) *Service {
	return &Service{
		assistant: assistant,
		tables:    tables,
		log:       log.With().Str("component", "consulting").Logger(),
	}
}

// Consult returns the deterministic assessment. When an assistant is
// configured it is asked as well, but its answer is only logged.
func (s *Service) Consult(ctx context.Context, in models.ConsultingInput) models.ConsultingResult {
	if s.assistant != nil {
		prompt := render(s.tables.consultPrompt, in)
		answer, err := s.assistant.Ask(ctx, s.tables.consulting.ConsultSystem, []models.ChatMessage{{Role: "user", Content: prompt}})
		if err != nil {
			s.log.Warn().Err(err).Msg("consulting completion failed")
		} else {
			s.log.Info().Int("answer_chars", len(answer)).Msg("consulting completion received, not used")
		}
	}
	return s.assess(in)
}

func (s *Service) assess(in models.ConsultingInput) models.ConsultingResult {
	t := s.tables.consulting
	score := s.tables.FeasibilityScore(in)

	items, ok := t.Items[in.Industry]
	if !ok {
		items = t.Items[t.DefaultItems]
	}
	return models.ConsultingResult{
		FeasibilityScore:   score,
		FeasibilityComment: comment(t, score),
		RecommendedItems:   append([]models.RecommendedItem(nil), items...),
		BudgetBreakdown:    append([]models.BudgetItem(nil), t.BudgetBreakdown...),
		AvailableSupports:  append([]models.SupportProgram(nil), t.Supports...),
		KeyAdvice:          append([]string(nil), t.KeyAdvice...),
	}
}

// FeasibilityScore is the rounded mean of the budget, location and
// experience scores.
func (tables *Tables) FeasibilityScore(in models.ConsultingInput) int {
	t := tables.consulting
	budget, ok := t.BudgetScores[in.Budget]
	if !ok {
		budget = t.DefaultBudgetScore
	}
	location := t.DefaultLocationScore
	for _, r := range t.LocationScores {
		if containsAny(in.Location, r.Patterns) {
			location = r.Score
			break
		}
	}
	experience, ok := t.ExperienceScores[in.Experience]
	if !ok {
		experience = t.DefaultExperienceScore
	}
	return int(math.Round(float64(budget+location+experience) / 3))
}

func comment(t consultingTables, score int) string {
	for _, c := range t.Comments {
		if score >= c.Min {
			return c.Text
		}
	}
	return t.Comments[len(t.Comments)-1].Text
}

func containsAny(text string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
