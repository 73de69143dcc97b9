// Package gate holds the two pre-pipeline checks: relevance (is this
// turn about academic matchmaking at all) and clarity (is the request
// actionable enough to match against). Both degrade to keyword rules
// when the model path fails, and relevance always fails open.
package gate

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/scimatch/scimatch/ai/core/llm"
	"github.com/scimatch/scimatch/ai/gateway"
	"github.com/scimatch/scimatch/ai/internal/strutil"
	"github.com/scimatch/scimatch/ai/keywords"
)

// Relevance is the outcome of the on-topic check.
type Relevance struct {
	IsRelevant bool
	Confidence float64
	Reason     string
}

// Clarity is the outcome of the actionability check. MissingAspects uses
// the stable aspect names "research_field" and "cooperation_type".
type Clarity struct {
	IsClear        bool
	MissingAspects []string
	Suggestion     string
}

// Checker runs both gates through the gateway.
type Checker struct {
	gw               *gateway.Gateway
	relevanceTimeout time.Duration
	clarityTimeout   time.Duration
}

func NewChecker(gw *gateway.Gateway) *Checker {
	return &Checker{
		gw:               gw,
		relevanceTimeout: 3 * time.Second,
		clarityTimeout:   4 * time.Second,
	}
}

// WithTimeouts overrides the per-check budgets and returns c for
// chaining. Non-positive values keep the defaults.
func (c *Checker) WithTimeouts(relevance, clarity time.Duration) *Checker {
	if relevance > 0 {
		c.relevanceTimeout = relevance
	}
	if clarity > 0 {
		c.clarityTimeout = clarity
	}
	return c
}

const relevancePrompt = `你是话题过滤器。判断用户消息是否与"寻找教授、学术研究、产学研合作"相关。只输出JSON：
{"isRelevant": true, "confidence": 0.9, "reason": "简短说明"}
与天气、股票、娱乐、游戏等无关话题判定为不相关。`

// CheckRelevance decides whether message belongs in the pipeline.
// Keyword vocabularies answer first; the model only sees messages the
// vocabularies cannot place. Any failure lets the message through.
func (c *Checker) CheckRelevance(ctx context.Context, message string) *Relevance {
	if keywords.HasRelevantTerm(message) {
		return &Relevance{IsRelevant: true, Confidence: 0.9, Reason: "包含学术合作相关词汇"}
	}
	if keywords.HasIrrelevantTerm(message) {
		return &Relevance{IsRelevant: false, Confidence: 0.9, Reason: "内容与学术合作无关"}
	}

	msgs := []llm.Message{llm.SystemPrompt(relevancePrompt), llm.UserMessage(message)}
	res, err := c.gw.Call(ctx, gateway.KindRelevance, msgs, c.relevanceTimeout)
	if err != nil {
		return failOpen()
	}
	verdict, perr := parseRelevance(res.Content)
	if perr != nil {
		slog.Warn("relevance content unparseable, failing open", "error", perr)
		return failOpen()
	}
	return verdict
}

func failOpen() *Relevance {
	return &Relevance{IsRelevant: true, Confidence: 0.5, Reason: "默认放行"}
}

const clarityPrompt = `判断用户的合作请求是否足够明确：必须同时包含研究领域和合作方式才算明确。只输出JSON：
{"isClear": false, "missingAspects": ["research_field","cooperation_type"], "suggestion": "一句补充建议"}`

// CheckClarity decides whether the request carries enough detail to run
// matching. The rule the model applies (field AND cooperation type) is
// also the rule the fallback applies, so degradation changes latency,
// not semantics. The request rides in the user message so the fallback
// generator sees it verbatim.
func (c *Checker) CheckClarity(ctx context.Context, message string) *Clarity {
	msgs := []llm.Message{llm.SystemPrompt(clarityPrompt), llm.UserMessage(message)}
	res, err := c.gw.Call(ctx, gateway.KindClarity, msgs, c.clarityTimeout)
	if err != nil {
		return clarityFromRules(message)
	}
	verdict, perr := parseClarity(res.Content)
	if perr != nil {
		slog.Warn("clarity content unparseable, using rules", "error", perr)
		return clarityFromRules(message)
	}
	return verdict
}

func clarityFromRules(message string) *Clarity {
	verdict := &Clarity{IsClear: true, MissingAspects: []string{}}
	if len(keywords.DetectDomains(message)) == 0 {
		verdict.IsClear = false
		verdict.MissingAspects = append(verdict.MissingAspects, "research_field")
	}
	if keywords.DetectCooperation(message) == keywords.CooperationGeneral {
		verdict.IsClear = false
		verdict.MissingAspects = append(verdict.MissingAspects, "cooperation_type")
	}
	if !verdict.IsClear {
		verdict.Suggestion = "请补充您感兴趣的研究领域和合作方式"
	}
	return verdict
}

func parseRelevance(content string) (*Relevance, error) {
	payload, err := strutil.ExtractJSONObject(content)
	if err != nil {
		return nil, err
	}
	var wire struct {
		IsRelevant bool    `json:"isRelevant"`
		Confidence float64 `json:"confidence"`
		Reason     string  `json:"reason"`
	}
	if err := json.Unmarshal([]byte(payload), &wire); err != nil {
		return nil, err
	}
	return &Relevance{IsRelevant: wire.IsRelevant, Confidence: wire.Confidence, Reason: wire.Reason}, nil
}

func parseClarity(content string) (*Clarity, error) {
	payload, err := strutil.ExtractJSONObject(content)
	if err != nil {
		return nil, err
	}
	var wire struct {
		IsClear        bool     `json:"isClear"`
		MissingAspects []string `json:"missingAspects"`
		Suggestion     string   `json:"suggestion"`
	}
	if err := json.Unmarshal([]byte(payload), &wire); err != nil {
		return nil, err
	}
	aspects := make([]string, 0, len(wire.MissingAspects))
	for _, a := range wire.MissingAspects {
		switch strings.TrimSpace(a) {
		case "research_field", "cooperation_type":
			aspects = append(aspects, strings.TrimSpace(a))
		}
	}
	return &Clarity{IsClear: wire.IsClear, MissingAspects: aspects, Suggestion: wire.Suggestion}, nil
}
