package dialog

import (
	"github.com/scimatch/scimatch/store"
)

// FlowStep tags which branch of the turn state machine produced a result.
type FlowStep string

const (
	// StepIrrelevant: the relevance gate rejected the message.
	StepIrrelevant FlowStep = "irrelevant"
	// StepGuidance: the request was too vague to match; the reply asks
	// for the missing aspects.
	StepGuidance FlowStep = "guidance"
	// StepAnswer: a leaf handler produced a substantive reply.
	StepAnswer FlowStep = "answer"
	// StepDegraded: the aggregate deadline fired; quick reply only.
	StepDegraded FlowStep = "degraded"
	// StepError: a handler panicked or failed; soft apology reply.
	StepError FlowStep = "error"
)

// RankedProfessor is one scored recommendation in a matching reply.
type RankedProfessor struct {
	ID            int32    `json:"id"`
	Name          string   `json:"name"`
	Department    string   `json:"department"`
	Title         string   `json:"title"`
	ResearchAreas []string `json:"researchAreas"`
	Score         float64  `json:"score"`
	Reasons       []string `json:"reasons"`
}

// ProfessorDetail is the payload of a deep-dive reply.
type ProfessorDetail struct {
	Professor *store.Professor `json:"professor"`
	Aspects   []string         `json:"aspects"`
}

// ClarificationOptions lists the choices offered for each missing aspect.
type ClarificationOptions struct {
	Domains          []string `json:"domains,omitempty"`
	CooperationTypes []string `json:"cooperationTypes,omitempty"`
}

// TurnResult is the complete outcome of one dialog turn. Exactly one of
// the payload fields is populated, selected by FlowStep and MessageType.
type TurnResult struct {
	TurnID      string   `json:"turnId"`
	FlowStep    FlowStep `json:"flowStep"`
	MessageType string   `json:"messageType"`
	Reply       string   `json:"reply"`

	Matches       []RankedProfessor             `json:"matches,omitempty"`
	Detail        *ProfessorDetail              `json:"detail,omitempty"`
	Comparison    []*store.Professor            `json:"comparison,omitempty"`
	Achievements  []*store.ProfessorAchievement `json:"achievements,omitempty"`
	Clarification *ClarificationOptions         `json:"clarification,omitempty"`

	FollowupQuestions []string `json:"followupQuestions,omitempty"`
	ShouldEnd         bool     `json:"shouldEnd"`
	DurationMs        int64    `json:"durationMs"`
}
