package consulting

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/bizon-consulting/backend/internal/models"
)

type fakeAssistant struct {
	answer  string
	err     error
	system  string
	history []models.ChatMessage
	calls   int
}

func (f *fakeAssistant) Ask(_ context.Context, system string, history []models.ChatMessage) (string, error) {
	f.calls++
	f.system = system
	f.history = history
	return f.answer, f.err
}

func newTestService(t *testing.T, a *fakeAssistant) *Service {
	t.Helper()
	tables, err := LoadTables()
	if err != nil {
		t.Fatalf("load tables: %v", err)
	}
	if a == nil {
		return NewService(nil, tables, zerolog.Nop())
	}
	return NewService(a, tables, zerolog.Nop())
}

var sampleInput = models.ConsultingInput{
	Budget:     "5천만원 ~ 7천만원",
	Location:   "서울 강남구",
	Industry:   "카페",
	Experience: "1~3년",
}

func TestConsultScores(t *testing.T) {
	svc := newTestService(t, nil)
	res := svc.Consult(context.Background(), sampleInput)
	// (70 + 85 + 75) / 3 = 76.67
	if res.FeasibilityScore != 77 {
		t.Fatalf("expected 77, got %d", res.FeasibilityScore)
	}
	if !strings.HasPrefix(res.FeasibilityComment, "양호한 조건입니다") {
		t.Fatalf("unexpected comment: %s", res.FeasibilityComment)
	}
	if len(res.RecommendedItems) != 3 || res.RecommendedItems[0].Name != "소형 테이크아웃 카페" {
		t.Fatalf("unexpected items: %+v", res.RecommendedItems)
	}
	if len(res.BudgetBreakdown) != 6 || len(res.AvailableSupports) != 3 || len(res.KeyAdvice) != 3 {
		t.Fatalf("expected full result, got %+v", res)
	}
}

func TestConsultDefaults(t *testing.T) {
	svc := newTestService(t, nil)
	res := svc.Consult(context.Background(), models.ConsultingInput{Budget: "모름", Location: "부산", Industry: "음식점"})
	// (50 + 65 + 60) / 3 = 58.33
	if res.FeasibilityScore != 58 {
		t.Fatalf("expected 58, got %d", res.FeasibilityScore)
	}
	if !strings.HasPrefix(res.FeasibilityComment, "도전 가능한 수준입니다") {
		t.Fatalf("unexpected comment: %s", res.FeasibilityComment)
	}
	if res.RecommendedItems[0].Name != "1인 운영 분식점" {
		t.Fatalf("expected restaurant items, got %+v", res.RecommendedItems)
	}
}

func TestConsultIgnoresModelAnswer(t *testing.T) {
	a := &fakeAssistant{answer: "적합도 점수: 99"}
	svc := newTestService(t, a)
	res := svc.Consult(context.Background(), sampleInput)
	if a.calls != 1 {
		t.Fatalf("expected one completion request, got %d", a.calls)
	}
	if !strings.Contains(a.history[0].Content, "희망 지역: 서울 강남구") || !strings.Contains(a.history[0].Content, "목표 및 고민: 없음") {
		t.Fatalf("unexpected prompt: %s", a.history[0].Content)
	}
	if res.FeasibilityScore != 77 {
		t.Fatalf("expected deterministic score, got %d", res.FeasibilityScore)
	}
}

func TestCannedReplyCostWins(t *testing.T) {
	svc := newTestService(t, nil)
	msgs := []models.ChatMessage{{Role: "user", Content: "상권 선택과 성공 팁, 그리고 창업 비용이 궁금해요"}}
	got := svc.Reply(context.Background(), msgs, sampleInput)
	if !strings.HasPrefix(got, "5천만원 ~ 7천만원 예산으로 카페 창업을 하신다면") {
		t.Fatalf("expected cost reply, got %s", got)
	}
}

func TestCannedReplyOrder(t *testing.T) {
	svc := newTestService(t, nil)
	cases := map[string]string{
		"입지가 걱정돼요":     "서울 강남구은 좋은 선택입니다!",
		"조언 부탁드려요":     "카페 창업 성공을 위한 핵심 조언을",
		"차별화는 어떻게 하죠?": "경쟁이 치열한 것은 사실이지만",
		"대출 받을 수 있나요?": "창업 지원금은 적극적으로 활용하셔야 합니다!",
		"안녕하세요":        "좋은 질문입니다! 카페 창업과 관련하여",
	}
	for msg, prefix := range cases {
		got := svc.CannedReply([]models.ChatMessage{{Role: "user", Content: msg}}, sampleInput)
		if !strings.HasPrefix(got, prefix) {
			t.Fatalf("%s: expected prefix %q, got %q", msg, prefix, got)
		}
	}
}

func TestReplyUsesModel(t *testing.T) {
	a := &fakeAssistant{answer: "모델 답변"}
	svc := newTestService(t, a)
	msgs := []models.ChatMessage{{Role: "user", Content: "비용"}}
	if got := svc.Reply(context.Background(), msgs, sampleInput); got != "모델 답변" {
		t.Fatalf("unexpected reply: %s", got)
	}
	if !strings.Contains(a.system, "희망 업종: 카페") || !strings.Contains(a.system, "창업 경험: 1~3년") {
		t.Fatalf("system prompt is missing context: %s", a.system)
	}
	if len(a.history) != 1 {
		t.Fatalf("expected history to be forwarded")
	}
}

func TestReplyEmptyModelAnswer(t *testing.T) {
	svc := newTestService(t, &fakeAssistant{answer: "  "})
	got := svc.Reply(context.Background(), []models.ChatMessage{{Role: "user", Content: "hi"}}, sampleInput)
	if got != "죄송합니다. 답변을 생성할 수 없습니다." {
		t.Fatalf("unexpected reply: %s", got)
	}
}

func TestReplyFallsBackOnModelError(t *testing.T) {
	svc := newTestService(t, &fakeAssistant{err: errors.New("timeout")})
	got := svc.Reply(context.Background(), []models.ChatMessage{{Role: "user", Content: "지원금 문의"}}, sampleInput)
	if !strings.HasPrefix(got, "창업 지원금은") {
		t.Fatalf("expected canned support reply, got %s", got)
	}
}
