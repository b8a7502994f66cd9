package consulting

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/bizon-consulting/backend/internal/models"
)

var (
	//go:embed data/consulting.yaml
	consultingYAML []byte
	//go:embed data/chat.yaml
	chatYAML []byte
)

type scoreRule struct {
	Patterns []string `yaml:"patterns"`
	Score    int      `yaml:"score"`
}

type commentRule struct {
	Min  int    `yaml:"min"`
	Text string `yaml:"text"`
}

type consultingTables struct {
	BudgetScores           map[string]int                      `yaml:"budget_scores"`
	DefaultBudgetScore     int                                 `yaml:"default_budget_score"`
	LocationScores         []scoreRule                         `yaml:"location_scores"`
	DefaultLocationScore   int                                 `yaml:"default_location_score"`
	ExperienceScores       map[string]int                      `yaml:"experience_scores"`
	DefaultExperienceScore int                                 `yaml:"default_experience_score"`
	Comments               []commentRule                       `yaml:"comments"`
	DefaultItems           string                              `yaml:"default_items"`
	Items                  map[string][]models.RecommendedItem `yaml:"items"`
	BudgetBreakdown        []models.BudgetItem                 `yaml:"budget_breakdown"`
	Supports               []models.SupportProgram             `yaml:"supports"`
	KeyAdvice              []string                            `yaml:"key_advice"`
	ConsultSystem          string                              `yaml:"consult_system"`
	ConsultPrompt          string                              `yaml:"consult_prompt"`
}

type replyRule struct {
	Keywords []string `yaml:"keywords"`
	Text     string   `yaml:"text"`
}

type chatTables struct {
	System       string      `yaml:"system"`
	EmptyReply   string      `yaml:"empty_reply"`
	Replies      []replyRule `yaml:"replies"`
	DefaultReply string      `yaml:"default_reply"`
}

type cannedReply struct {
	keywords []string
	tmpl     *template.Template
}

// Tables holds the parsed scoring tables and prompt templates.
type Tables struct {
	consulting    consultingTables
	consultPrompt *template.Template
	chatSystem    *template.Template
	emptyReply    string
	replies       []cannedReply
	defaultReply  *template.Template
}

func LoadTables() (*Tables, error) {
	var ct consultingTables
	if err := yaml.Unmarshal(consultingYAML, &ct); err != nil {
		return nil, fmt.Errorf("parse consulting tables: %w", err)
	}
	var ch chatTables
	if err := yaml.Unmarshal(chatYAML, &ch); err != nil {
		return nil, fmt.Errorf("parse chat tables: %w", err)
	}
	if _, ok := ct.Items[ct.DefaultItems]; !ok {
		return nil, fmt.Errorf("consulting tables: default item set %q is missing", ct.DefaultItems)
	}
	if len(ct.Comments) == 0 {
		return nil, fmt.Errorf("consulting tables: no feasibility comments")
	}

	t := &Tables{consulting: ct, emptyReply: strings.TrimSpace(ch.EmptyReply)}
	var err error
	if t.consultPrompt, err = parseTemplate("consult_prompt", ct.ConsultPrompt); err != nil {
		return nil, err
	}
	if t.chatSystem, err = parseTemplate("chat_system", ch.System); err != nil {
		return nil, err
	}
	if t.defaultReply, err = parseTemplate("default_reply", ch.DefaultReply); err != nil {
		return nil, err
	}
	for i, r := range ch.Replies {
		tmpl, err := parseTemplate(fmt.Sprintf("reply_%d", i), r.Text)
		if err != nil {
			return nil, err
		}
		t.replies = append(t.replies, cannedReply{keywords: r.Keywords, tmpl: tmpl})
	}
	return t, nil
}

func parseTemplate(name, text string) (*template.Template, error) {
	tmpl, err := template.New(name).Option("missingkey=zero").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse %s template: %w", name, err)
	}
	return tmpl, nil
}

func render(tmpl *template.Template, in models.ConsultingInput) string {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, in); err != nil {
		return ""
	}
	return strings.TrimSpace(sb.String())
}
