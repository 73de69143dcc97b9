// Package reason produces the recommendation reasons shown next to
// ranked professors. Only the top candidates are worth a model call; the
// rest ship without reasons. Results are cached per (query, professor)
// so repeated queries skip the provider entirely.
package reason

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/scimatch/scimatch/ai/cache"
	"github.com/scimatch/scimatch/ai/core/llm"
	"github.com/scimatch/scimatch/ai/gateway"
	"github.com/scimatch/scimatch/ai/intent"
	"github.com/scimatch/scimatch/ai/match"
	"github.com/scimatch/scimatch/store"
)

const (
	// TopK is how many candidates get model-written reasons.
	TopK = 5

	// maxReasonRunes caps a single rendered reason point, ellipsis included.
	maxReasonRunes = 80

	// maxPoints is how many points a model reply is trimmed down to.
	maxPoints = 2

	// maxConcurrent bounds the reason fan-out.
	maxConcurrent = 3

	defaultTimeout = 8 * time.Second
)

type cacheKey struct {
	Query       string
	ProfessorID int32
}

// Cache is the reason memo. Keyed by the verbatim user query and the
// professor, capacity-bounded FIFO.
type Cache = cache.FIFOCache[cacheKey, []string]

func NewCache(capacity int) *Cache {
	return cache.NewFIFOCache[cacheKey, []string](capacity)
}

// Generator writes recommendation reasons through the gateway.
type Generator struct {
	gw      *gateway.Gateway
	cache   *Cache
	timeout time.Duration
}

func NewGenerator(gw *gateway.Gateway, c *Cache, timeout time.Duration) *Generator {
	if c == nil {
		c = NewCache(0)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Generator{gw: gw, cache: c, timeout: timeout}
}

// Explain returns one reason list per match, in match order. The first
// TopK entries go through the model concurrently; entries past TopK get
// an empty list, and any failed call gets a deterministic fallback
// reason naming the professor. Explain never fails.
func (g *Generator) Explain(ctx context.Context, it *intent.Intent, matches []match.Match) [][]string {
	reasons := make([][]string, len(matches))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrent)
	for i, m := range matches {
		if i >= TopK {
			reasons[i] = []string{}
			continue
		}
		group.Go(func() error {
			reasons[i] = g.explainOne(groupCtx, it, m.Professor)
			return nil
		})
	}
	// Workers never return errors; Wait only synchronizes.
	_ = group.Wait()
	return reasons
}

func (g *Generator) explainOne(ctx context.Context, it *intent.Intent, professor *store.Professor) []string {
	key := cacheKey{Query: it.OriginalQuery, ProfessorID: professor.ID}
	if cached, ok := g.cache.Get(key); ok {
		return cached
	}

	reasons := []string{templateReason(it, professor)}
	res, err := g.gw.Call(ctx, gateway.KindReason, reasonMessages(it, professor), g.timeout)
	if err == nil && !res.Fallback {
		if rendered := renderReasons(res.Content); len(rendered) > 0 {
			reasons = rendered
		}
	}
	// Fallback reasons are cached too: a flapping provider must not turn
	// repeat queries into repeat calls.
	g.cache.Set(key, reasons)
	return reasons
}

const reasonPrompt = `你是科研合作平台的推荐解释引擎。根据用户需求和教授资料，用中文列出推荐理由，要点之间用分号分隔，每个要点不超过60个字，不要输出其他内容。`

func reasonMessages(it *intent.Intent, professor *store.Professor) []llm.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "用户需求：%s\n", it.OriginalQuery)
	fmt.Fprintf(&b, "教授：%s（%s，%s）\n", professor.Name, professor.Department, professor.Title)
	fmt.Fprintf(&b, "研究方向：%s\n", strings.Join(professor.ResearchAreas, "、"))
	if len(professor.Achievements) > 0 {
		titles := make([]string, 0, len(professor.Achievements))
		for _, a := range professor.Achievements {
			titles = append(titles, a.Title)
		}
		fmt.Fprintf(&b, "代表成果：%s\n", strings.Join(titles, "、"))
	}
	return []llm.Message{llm.SystemPrompt(reasonPrompt), llm.UserMessage(b.String())}
}

// renderReasons normalizes model output into the display form: up to
// maxPoints semicolon-separated points, each capped at maxReasonRunes
// with a trailing ellipsis.
func renderReasons(content string) []string {
	text := strings.TrimSpace(content)
	text = strings.Trim(text, "\"“”")
	text = strings.NewReplacer(";", "；", "\n", "；").Replace(text)

	points := make([]string, 0, maxPoints)
	for _, part := range strings.Split(text, "；") {
		if part = strings.TrimSpace(part); part != "" {
			points = append(points, capReason(part))
		}
		if len(points) == maxPoints {
			break
		}
	}
	return points
}

func capReason(text string) string {
	runes := []rune(text)
	if len(runes) <= maxReasonRunes {
		return text
	}
	return string(runes[:maxReasonRunes-3]) + "..."
}

// templateReason is the dependency-free reason: professor name plus the
// best available hook, worded so it reads fine next to model output.
func templateReason(it *intent.Intent, professor *store.Professor) string {
	field := ""
	switch {
	case len(it.TechDomains) > 0:
		field = it.TechDomains[0]
	case len(professor.ResearchAreas) > 0:
		field = professor.ResearchAreas[0]
	}
	if field == "" {
		return capReason(fmt.Sprintf("%s教授的研究方向与您的需求相关，具备相应的科研基础", professor.Name))
	}
	return capReason(fmt.Sprintf("%s教授长期从事%s相关研究，方向与您的需求高度契合", professor.Name, field))
}
