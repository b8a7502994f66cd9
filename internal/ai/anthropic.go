package ai

import (
	"context"
	"errors"
	"net/http"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/bizon-consulting/backend/internal/models"
)

const DefaultAnthropicModel = anthropic.ModelClaudeSonnet4_20250514

// Messager is satisfied by the SDK's message service.
type Messager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

type AnthropicAssistant struct {
	messages  Messager
	model     string
	maxTokens int64
}

func NewAnthropicAssistant(apiKey, model string) *AnthropicAssistant {
	c := anthropic.NewClient(option.WithAPIKey(apiKey))
	return NewAnthropicAssistantWith(&c.Messages, model)
}

func NewAnthropicAssistantWith(m Messager, model string) *AnthropicAssistant {
	if strings.TrimSpace(model) == "" {
		model = string(DefaultAnthropicModel)
	}
	return &AnthropicAssistant{messages: m, model: model, maxTokens: 2048}
}

func (a *AnthropicAssistant) Ask(ctx context.Context, system string, history []models.ChatMessage) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   a.maxTokens,
		Messages:    toAnthropicMessages(history),
		Temperature: anthropic.Float(0.7),
	}
	if strings.TrimSpace(system) != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	if len(params.Messages) == 0 {
		return "", nil
	}

	resp, err := a.messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
			return "", RateLimitError{}
		}
		return "", err
	}
	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	return sb.String(), nil
}

// toAnthropicMessages merges consecutive turns of the same role and drops
// leading assistant turns, since the API wants alternating turns that start
// with the user.
func toAnthropicMessages(history []models.ChatMessage) []anthropic.MessageParam {
	type turn struct {
		assistant bool
		text      string
	}
	var turns []turn
	for _, h := range history {
		if strings.TrimSpace(h.Content) == "" {
			continue
		}
		isAssistant := normalizeRole(h.Role) == "assistant"
		if len(turns) == 0 && isAssistant {
			continue
		}
		if n := len(turns); n > 0 && turns[n-1].assistant == isAssistant {
			turns[n-1].text += "\n\n" + h.Content
			continue
		}
		turns = append(turns, turn{assistant: isAssistant, text: h.Content})
	}

	out := make([]anthropic.MessageParam, 0, len(turns))
	for _, t := range turns {
		if t.assistant {
			out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(t.text)))
		} else {
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(t.text)))
		}
	}
	return out
}
