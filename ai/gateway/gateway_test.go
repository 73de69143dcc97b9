package gateway

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/scimatch/scimatch/ai/core/llm"
)

type stubService struct {
	content string
	err     error
	delay   time.Duration
	calls   int
}

func (s *stubService) Chat(ctx context.Context, messages []llm.Message) (string, *llm.CallStats, error) {
	s.calls++
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", nil, ctx.Err()
		}
	}
	return s.content, &llm.CallStats{TotalTokens: 10}, s.err
}

func (s *stubService) Warmup(ctx context.Context) {}

func userMsg(text string) []llm.Message {
	return []llm.Message{llm.SystemPrompt("test"), llm.UserMessage(text)}
}

func TestCallSuccess(t *testing.T) {
	g := New(&stubService{content: "provider answer"})
	res, err := g.Call(context.Background(), KindGeneral, userMsg("你好"), time.Second)
	require.NoError(t, err)
	require.False(t, res.Fallback)
	require.Equal(t, "provider answer", res.Content)
	require.NotNil(t, res.Stats)
}

func TestCallNoMessages(t *testing.T) {
	g := New(&stubService{content: "x"})
	_, err := g.Call(context.Background(), KindGeneral, nil, time.Second)
	require.Error(t, err)
}

func TestCallTimeoutFallsBack(t *testing.T) {
	g := New(&stubService{content: "too late", delay: 200 * time.Millisecond})
	start := time.Now()
	res, err := g.Call(context.Background(), KindRelevance, userMsg("推荐教授"), 20*time.Millisecond)
	require.NoError(t, err)
	require.True(t, res.Fallback)
	require.Less(t, time.Since(start), 150*time.Millisecond)

	var verdict struct {
		IsRelevant bool `json:"isRelevant"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.Content), &verdict))
	require.True(t, verdict.IsRelevant)
}

func TestCallProviderErrorFallsBack(t *testing.T) {
	g := New(&stubService{err: errors.New("upstream 500")})
	res, err := g.Call(context.Background(), KindGeneral, userMsg("你好"), time.Second)
	require.NoError(t, err)
	require.True(t, res.Fallback)
	require.NotEmpty(t, res.Content)
}

func TestCallEmptyContentFallsBack(t *testing.T) {
	g := New(&stubService{content: "   "})
	res, err := g.Call(context.Background(), KindGeneral, userMsg("你好"), time.Second)
	require.NoError(t, err)
	require.True(t, res.Fallback)
}

func TestCallDisabledGateway(t *testing.T) {
	g := New(nil)
	require.False(t, g.Enabled())
	res, err := g.Call(context.Background(), KindClarity, userMsg("找AI教授咨询技术"), time.Second)
	require.NoError(t, err)
	require.True(t, res.Fallback)

	var verdict struct {
		IsClear        bool     `json:"isClear"`
		MissingAspects []string `json:"missingAspects"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.Content), &verdict))
	require.True(t, verdict.IsClear)
	require.Empty(t, verdict.MissingAspects)
}

type captureRecorder struct {
	kind   string
	status string
}

func (c *captureRecorder) ObserveGatewayCall(kind, status string, _ time.Duration) {
	c.kind, c.status = kind, status
}

func TestCallRecordsMetrics(t *testing.T) {
	rec := &captureRecorder{}
	g := New(&stubService{content: "ok"}).WithRecorder(rec)
	_, err := g.Call(context.Background(), KindIntent, userMsg("找教授"), time.Second)
	require.NoError(t, err)
	require.Equal(t, "intent_analysis", rec.kind)
	require.Equal(t, "ok", rec.status)
}
