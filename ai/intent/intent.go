// Package intent turns a free-text user message into a structured intent:
// message type, research domains, cooperation type and referenced
// entities. Extraction never fails: when the model path yields nothing
// parseable the extractor rebuilds the intent from keyword rules.
package intent

import (
	"context"
	"log/slog"
	"time"

	"github.com/scimatch/scimatch/ai/gateway"
	"github.com/scimatch/scimatch/ai/keywords"
)

// Message types an intent can carry. The dialog engine routes on these.
const (
	TypeProfessorMatching    = "professor_matching"
	TypeProfessorDeepInquiry = "professor_deep_inquiry"
	TypeProfessorComparison  = "professor_comparison"
	TypeAcademicAdvice       = "academic_advice"
	TypeResearchDiscussion   = "research_discussion"
	TypeContextFollowup      = "context_followup"
	TypeAchievementQuery     = "achievement_query"
	TypeClarificationNeeded  = "clarification_needed"
	TypeGeneralQuery         = "general_query"
)

// Extraction sources, recorded for logging and metrics.
const (
	SourceModel    = "model"
	SourceFallback = "fallback"
	SourceRules    = "rules"
)

// contextWindow is how many trailing conversation turns feed the prompt
// and entity inheritance.
const contextWindow = 3

// Turn is one prior exchange in the conversation.
type Turn struct {
	Role    string
	Content string
}

// Intent is the structured reading of one user message.
type Intent struct {
	MessageType     string
	TechDomains     []string
	CooperationType string
	UserRole        string
	Requirements    []string
	IsVague         bool
	Confidence      float64
	ProfessorNames  []string
	Aspects         []string
	OriginalQuery   string
	Source          string

	// Coarse flags derived from the message type or keyword signal.
	// Routing hints for callers that do not care which exact type fired.
	ProfessorQuery   bool
	AchievementQuery bool
}

// Extractor drives intent analysis through the gateway.
type Extractor struct {
	gw      *gateway.Gateway
	timeout time.Duration
}

func NewExtractor(gw *gateway.Gateway, timeout time.Duration) *Extractor {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Extractor{gw: gw, timeout: timeout}
}

// Extract analyses query against the trailing conversation history. It
// always returns a usable intent.
func (e *Extractor) Extract(ctx context.Context, query string, history []Turn) *Intent {
	recent := tail(history, contextWindow)

	res, err := e.gw.Call(ctx, gateway.KindIntent, buildMessages(query, recent), e.timeout)
	var it *Intent
	switch {
	case err != nil:
		// Only reachable on empty input; keep the promise anyway.
		it = fromRules(query)
	default:
		parsed, perr := parseIntent(res.Content)
		if perr != nil {
			slog.Warn("intent content unparseable, using rules", "error", perr)
			it = fromRules(query)
		} else {
			it = parsed
			it.Source = SourceModel
			if res.Fallback {
				it.Source = SourceFallback
			}
		}
	}

	it.OriginalQuery = query
	e.enrich(it, query, recent)
	normalize(it)
	return it
}

// enrich layers rule-derived facts over whatever the model produced:
// entity extraction, aspect detection and pronoun-driven inheritance
// from recent turns.
func (e *Extractor) enrich(it *Intent, query string, recent []Turn) {
	if len(it.ProfessorNames) == 0 {
		it.ProfessorNames = keywords.ExtractPersonNames(query)
	}
	it.Aspects = keywords.DetectAspects(query)

	// A pronoun with no explicit name inherits the entity under
	// discussion from the recent turns, newest first.
	if len(it.ProfessorNames) == 0 && keywords.HasPronoun(query) {
		for i := len(recent) - 1; i >= 0; i-- {
			if names := keywords.ExtractPersonNames(recent[i].Content); len(names) > 0 {
				it.ProfessorNames = names
				if it.MessageType == TypeGeneralQuery {
					it.MessageType = TypeContextFollowup
				}
				break
			}
		}
	}
}

// normalize enforces the invariants extraction promises downstream:
// vagueness is exactly "no domain and no concrete cooperation type",
// confidence stays in [0,1], enums fall back to safe defaults.
func normalize(it *Intent) {
	if !validMessageType(it.MessageType) {
		it.MessageType = TypeGeneralQuery
	}
	if !validCooperation(it.CooperationType) {
		it.CooperationType = keywords.CooperationGeneral
	}
	if it.UserRole == "" {
		it.UserRole = "student"
	}
	it.IsVague = len(it.TechDomains) == 0 && it.CooperationType == keywords.CooperationGeneral
	it.ProfessorQuery = it.MessageType == TypeProfessorMatching || keywords.IsProfessorQuery(it.OriginalQuery)
	it.AchievementQuery = it.MessageType == TypeAchievementQuery || keywords.IsAchievementQuery(it.OriginalQuery)
	if it.Confidence < 0 {
		it.Confidence = 0
	}
	if it.Confidence > 1 {
		it.Confidence = 1
	}
}

// fromRules is the last extraction tier: keyword rules only.
func fromRules(query string) *Intent {
	names := keywords.ExtractPersonNames(query)
	it := &Intent{
		MessageType:     classify(query, names),
		TechDomains:     keywords.DetectDomains(query),
		CooperationType: keywords.DetectCooperation(query),
		UserRole:        keywords.DetectUserRole(query),
		Confidence:      0.6,
		ProfessorNames:  names,
		Source:          SourceRules,
	}
	return it
}

func classify(query string, names []string) string {
	switch {
	case keywords.IsComparisonQuery(query) && len(names) >= 2:
		return TypeProfessorComparison
	case len(names) > 0 && keywords.IsDeepInquiry(query):
		return TypeProfessorDeepInquiry
	case keywords.IsAchievementQuery(query) && !keywords.IsProfessorQuery(query):
		return TypeAchievementQuery
	case keywords.IsProfessorQuery(query):
		return TypeProfessorMatching
	case keywords.IsAdviceQuery(query):
		return TypeAcademicAdvice
	case keywords.HasPronoun(query):
		return TypeContextFollowup
	case keywords.HasRelevantTerm(query):
		return TypeResearchDiscussion
	default:
		return TypeGeneralQuery
	}
}

func validMessageType(t string) bool {
	switch t {
	case TypeProfessorMatching, TypeProfessorDeepInquiry, TypeProfessorComparison,
		TypeAcademicAdvice, TypeResearchDiscussion, TypeContextFollowup,
		TypeAchievementQuery, TypeClarificationNeeded, TypeGeneralQuery:
		return true
	}
	return false
}

func validCooperation(t string) bool {
	switch t {
	case keywords.CooperationConsultation, keywords.CooperationCollaboration,
		keywords.CooperationTraining, keywords.CooperationTransfer,
		keywords.CooperationApplication, keywords.CooperationGeneral:
		return true
	}
	return false
}

func tail(turns []Turn, n int) []Turn {
	if len(turns) <= n {
		return turns
	}
	return turns[len(turns)-n:]
}
