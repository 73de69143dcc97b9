package intent

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/scimatch/scimatch/ai/core/llm"
	"github.com/scimatch/scimatch/ai/gateway"
)

type scriptedLLM struct {
	content string
	err     error
}

func (s *scriptedLLM) Chat(ctx context.Context, messages []llm.Message) (string, *llm.CallStats, error) {
	return s.content, nil, s.err
}

func (s *scriptedLLM) Warmup(ctx context.Context) {}

func extractorWith(content string) *Extractor {
	return NewExtractor(gateway.New(&scriptedLLM{content: content}), time.Second)
}

func TestExtractFromModelContent(t *testing.T) {
	content := "```json\n" + `{
		"messageType": "professor_matching",
		"techDomains": ["人工智能"],
		"cooperationType": "collaboration",
		"userRole": "industry",
		"requirements": ["有产业落地经验"],
		"isVague": false,
		"confidence": 0.95,
		"entities": {"professorNames": []}
	}` + "\n```"
	it := extractorWith(content).Extract(context.Background(), "想找AI教授合作", nil)
	require.Equal(t, TypeProfessorMatching, it.MessageType)
	require.Equal(t, []string{"人工智能"}, it.TechDomains)
	require.Equal(t, "collaboration", it.CooperationType)
	require.Equal(t, []string{"有产业落地经验"}, it.Requirements)
	require.False(t, it.IsVague)
	require.True(t, it.ProfessorQuery)
	require.False(t, it.AchievementQuery)
	require.Equal(t, SourceModel, it.Source)
	require.Equal(t, "想找AI教授合作", it.OriginalQuery)
}

func TestExtractUnparseableFallsToRules(t *testing.T) {
	it := extractorWith("抱歉，我无法处理这个请求。").Extract(context.Background(), "推荐机器学习方向的教授，想合作项目", nil)
	require.Equal(t, SourceRules, it.Source)
	require.Equal(t, TypeProfessorMatching, it.MessageType)
	require.Equal(t, []string{"人工智能"}, it.TechDomains)
	require.Equal(t, "collaboration", it.CooperationType)
	require.False(t, it.IsVague)
}

func TestExtractProviderFailureUsesFallbackTier(t *testing.T) {
	e := NewExtractor(gateway.New(&scriptedLLM{err: context.DeadlineExceeded}), time.Second)
	it := e.Extract(context.Background(), "找个导师咨询人工智能", nil)
	require.Equal(t, SourceFallback, it.Source)
	require.Equal(t, TypeProfessorMatching, it.MessageType)
	require.Equal(t, []string{"人工智能"}, it.TechDomains)
}

func TestVaguenessInvariant(t *testing.T) {
	// Model claims not vague, but provides neither domain nor concrete
	// cooperation type: normalization overrides it.
	content := `{"messageType":"professor_matching","techDomains":[],"cooperationType":"general","isVague":false,"confidence":0.9}`
	it := extractorWith(content).Extract(context.Background(), "推荐教授", nil)
	require.True(t, it.IsVague)

	// And the reverse: a domain plus concrete type is never vague.
	content = `{"messageType":"professor_matching","techDomains":["材料科学"],"cooperationType":"consultation","isVague":true,"confidence":0.9}`
	it = extractorWith(content).Extract(context.Background(), "咨询材料问题", nil)
	require.False(t, it.IsVague)
}

func TestCoarseFlagsFollowKeywordSignal(t *testing.T) {
	// The model routed the turn elsewhere, but the message still reads as
	// an achievement ask; the coarse flag must reflect that.
	content := `{"messageType":"research_discussion","techDomains":["人工智能"],"cooperationType":"general","confidence":0.7}`
	it := extractorWith(content).Extract(context.Background(), "人工智能领域有哪些研究成果", nil)
	require.True(t, it.AchievementQuery)
	require.False(t, it.ProfessorQuery)
}

func TestNormalizeRejectsUnknownEnums(t *testing.T) {
	content := `{"messageType":"weird_type","techDomains":["人工智能"],"cooperationType":"sponsorship","confidence":1.7}`
	it := extractorWith(content).Extract(context.Background(), "聊聊", nil)
	require.Equal(t, TypeGeneralQuery, it.MessageType)
	require.Equal(t, "general", it.CooperationType)
	require.Equal(t, 1.0, it.Confidence)
}

func TestPronounInheritsEntityFromHistory(t *testing.T) {
	history := []Turn{
		{Role: "user", Content: "介绍一下张伟教授"},
		{Role: "assistant", Content: "张伟教授主要研究计算机视觉。"},
	}
	content := `{"messageType":"general_query","techDomains":[],"cooperationType":"general","confidence":0.5}`
	it := extractorWith(content).Extract(context.Background(), "他有哪些项目", history)
	require.Equal(t, []string{"张伟"}, it.ProfessorNames)
	require.Equal(t, TypeContextFollowup, it.MessageType)
}

type stallingLLM struct{}

func (s *stallingLLM) Chat(ctx context.Context, messages []llm.Message) (string, *llm.CallStats, error) {
	select {
	case <-time.After(time.Hour):
		return "too late", nil, nil
	case <-ctx.Done():
		return "", nil, ctx.Err()
	}
}

func (s *stallingLLM) Warmup(ctx context.Context) {}

func TestExtractCompletesUnderTimeoutOnStall(t *testing.T) {
	e := NewExtractor(gateway.New(&stallingLLM{}), 50*time.Millisecond)
	start := time.Now()
	it := e.Extract(context.Background(), "找人工智能教授咨询", nil)
	require.Less(t, time.Since(start), 500*time.Millisecond)
	require.Equal(t, SourceFallback, it.Source)
	require.Equal(t, TypeProfessorMatching, it.MessageType)
}

func TestContextWindowOnlyLastThreeTurns(t *testing.T) {
	history := []Turn{
		{Role: "user", Content: "介绍一下李明教授"},
		{Role: "assistant", Content: "好的。"},
		{Role: "user", Content: "换个话题"},
		{Role: "assistant", Content: "请讲。"},
		{Role: "user", Content: "谢谢"},
	}
	content := `{"messageType":"general_query","techDomains":[],"cooperationType":"general","confidence":0.5}`
	it := extractorWith(content).Extract(context.Background(), "他怎么样", history)
	// 李明 fell outside the three-turn window and must not be inherited.
	require.Empty(t, it.ProfessorNames)
}
