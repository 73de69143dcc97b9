// Package dialog orchestrates one conversational turn: relevance gate,
// intent extraction, clarity gate, then a leaf handler per message type.
// Every turn terminates with a valid TurnResult inside the aggregate
// budget, whatever the model provider does.
package dialog

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/scimatch/scimatch/ai/gate"
	"github.com/scimatch/scimatch/ai/gateway"
	"github.com/scimatch/scimatch/ai/intent"
	"github.com/scimatch/scimatch/ai/internal/strutil"
	"github.com/scimatch/scimatch/ai/keywords"
	"github.com/scimatch/scimatch/ai/match"
	"github.com/scimatch/scimatch/ai/reason"
	"github.com/scimatch/scimatch/store"
)

const (
	defaultBudget = 25 * time.Second

	// generalTimeout bounds the free-form reply calls (advice, general
	// chat), the longest prompts in the pipeline.
	generalTimeout = 15 * time.Second

	// maxDisplayed caps how many recommendations one reply carries.
	maxDisplayed = 5
)

// TurnObserver receives per-turn observations. Satisfied by
// metrics.Exporter.
type TurnObserver interface {
	ObserveTurn(flowStep, messageType string, duration time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveTurn(string, string, time.Duration) {}

// Engine runs the turn state machine.
type Engine struct {
	gw        *gateway.Gateway
	checker   *gate.Checker
	extractor *intent.Extractor
	scorer    *match.Scorer
	reasons   *reason.Generator
	store     *store.Store

	budget   time.Duration
	observer TurnObserver
}

// Config carries the engine's collaborators. Store and Gateway are
// required; zero Budget means the 25s default.
type Config struct {
	Gateway   *gateway.Gateway
	Checker   *gate.Checker
	Extractor *intent.Extractor
	Scorer    *match.Scorer
	Reasons   *reason.Generator
	Store     *store.Store
	Budget    time.Duration
	Observer  TurnObserver
}

func NewEngine(cfg Config) *Engine {
	e := &Engine{
		gw:        cfg.Gateway,
		checker:   cfg.Checker,
		extractor: cfg.Extractor,
		scorer:    cfg.Scorer,
		reasons:   cfg.Reasons,
		store:     cfg.Store,
		budget:    cfg.Budget,
		observer:  cfg.Observer,
	}
	if e.checker == nil {
		e.checker = gate.NewChecker(cfg.Gateway)
	}
	if e.extractor == nil {
		e.extractor = intent.NewExtractor(cfg.Gateway, 10*time.Second)
	}
	if e.scorer == nil {
		e.scorer = match.NewScorer()
	}
	if e.reasons == nil {
		e.reasons = reason.NewGenerator(cfg.Gateway, nil, 0)
	}
	if e.budget <= 0 {
		e.budget = defaultBudget
	}
	if e.observer == nil {
		e.observer = nopObserver{}
	}
	return e
}

// ProcessTurn runs one turn against the trailing conversation history.
// It always returns a TurnResult: pipeline panics become a soft error
// reply, and a breached budget becomes a degraded quick reply. A
// pipeline still running after the budget has its result discarded.
func (e *Engine) ProcessTurn(ctx context.Context, message string, history []intent.Turn) *TurnResult {
	turnID := uuid.NewString()
	start := time.Now()

	turnCtx, cancel := context.WithTimeout(ctx, e.budget)
	defer cancel()

	results := make(chan *TurnResult)
	go func() {
		res := e.runPipeline(turnCtx, turnID, message, history)
		select {
		case results <- res:
		case <-turnCtx.Done():
			slog.Debug("stale turn result discarded", "turn_id", turnID, "flow_step", res.FlowStep)
		}
	}()

	var result *TurnResult
	select {
	case result = <-results:
	case <-turnCtx.Done():
		result = e.degradedResult(turnID, message)
	}

	elapsed := time.Since(start)
	result.DurationMs = elapsed.Milliseconds()
	e.observer.ObserveTurn(string(result.FlowStep), result.MessageType, elapsed)
	slog.Info("turn processed",
		"turn_id", turnID,
		"message", strutil.Truncate(message, 32),
		"flow_step", result.FlowStep,
		"message_type", result.MessageType,
		"duration", elapsed,
	)
	return result
}

// runPipeline is the guarded pipeline body. Panics in handlers are
// recovered here so one bad turn cannot take the process down.
func (e *Engine) runPipeline(ctx context.Context, turnID, message string, history []intent.Turn) (result *TurnResult) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("turn pipeline panicked", "turn_id", turnID, "panic", r)
			result = &TurnResult{
				TurnID:      turnID,
				FlowStep:    StepError,
				MessageType: intent.TypeGeneralQuery,
				Reply:       "系统繁忙，请稍后再试。",
			}
		}
	}()

	relevance := e.checker.CheckRelevance(ctx, message)
	if !relevance.IsRelevant {
		return &TurnResult{
			TurnID:      turnID,
			FlowStep:    StepIrrelevant,
			MessageType: intent.TypeGeneralQuery,
			Reply: "我是科研合作助手，主要负责教授推荐和学术合作咨询。" +
				"您可以问我类似\"想找人工智能方向的教授合作\"的问题。",
			FollowupQuestions: pickFollowups(generalFollowups),
			ShouldEnd:         true,
		}
	}

	it := e.extractor.Extract(ctx, message, history)

	// Matching on a vague request yields noise; ask for the missing
	// aspects instead. Other message types carry their target in the
	// message itself and skip the clarity gate.
	if it.MessageType == intent.TypeProfessorMatching && it.IsVague {
		clarity := e.checker.CheckClarity(ctx, message)
		if !clarity.IsClear {
			return e.guidanceResult(turnID, clarity)
		}
	}

	return e.answer(ctx, turnID, it, history)
}

// answer dispatches to the leaf handler for the extracted message type.
func (e *Engine) answer(ctx context.Context, turnID string, it *intent.Intent, history []intent.Turn) *TurnResult {
	result := &TurnResult{TurnID: turnID, FlowStep: StepAnswer, MessageType: it.MessageType}
	switch it.MessageType {
	case intent.TypeProfessorMatching:
		e.handleMatching(ctx, it, result)
	case intent.TypeProfessorDeepInquiry:
		e.handleDeepInquiry(ctx, it, result)
	case intent.TypeProfessorComparison:
		e.handleComparison(ctx, it, result)
	case intent.TypeAchievementQuery:
		e.handleAchievements(ctx, it, result)
	case intent.TypeContextFollowup:
		e.handleFollowup(ctx, it, history, result)
	case intent.TypeAcademicAdvice:
		e.handleAdvice(ctx, it, history, result)
	default:
		e.handleGeneral(ctx, it, history, result)
	}
	return result
}

func (e *Engine) guidanceResult(turnID string, clarity *gate.Clarity) *TurnResult {
	options := &ClarificationOptions{}
	for _, aspect := range clarity.MissingAspects {
		switch aspect {
		case "research_field":
			options.Domains = keywords.ClarificationDomains()
		case "cooperation_type":
			options.CooperationTypes = keywords.ClarificationCooperationTypes()
		}
	}
	reply := "为了帮您精准推荐，请再补充一点信息。"
	if clarity.Suggestion != "" {
		reply = clarity.Suggestion + "。"
	}
	return &TurnResult{
		TurnID:            turnID,
		FlowStep:          StepGuidance,
		MessageType:       intent.TypeClarificationNeeded,
		Reply:             reply,
		Clarification:     options,
		FollowupQuestions: pickFollowups(guidanceFollowups),
	}
}

// degradedResult is the dependency-free quick reply for a breached
// budget: no store, no model, nothing that can block.
func (e *Engine) degradedResult(turnID, message string) *TurnResult {
	reply := "当前咨询的人比较多，这个问题处理超时了。您可以换个更具体的问法，比如\"推荐人工智能方向的教授\"。"
	if keywords.IsProfessorQuery(message) {
		reply = "教授推荐正在排队处理，请稍后重试，或补充研究领域让我更快定位，比如\"人工智能方向，想做技术咨询\"。"
	}
	return &TurnResult{
		TurnID:      turnID,
		FlowStep:    StepDegraded,
		MessageType: intent.TypeGeneralQuery,
		Reply:       reply,
	}
}
