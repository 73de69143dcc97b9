package gateway

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/scimatch/scimatch/ai/keywords"
)

// fallbackContent answers a call from rules instead of the provider. The
// structured kinds return the same JSON shape the prompt asks the model
// for, so downstream parsers do not care where the content came from.
func fallbackContent(kind PromptKind, userText string) string {
	switch kind {
	case KindRelevance:
		return relevanceFallback(userText)
	case KindClarity:
		return clarityFallback(userText)
	case KindIntent:
		return intentFallback(userText)
	case KindReason:
		return "该教授的研究方向与您的需求高度相关；在相关领域有扎实的研究成果"
	case KindAdvice:
		return adviceFallback(userText)
	case KindComparison:
		return comparisonFallback(userText)
	default:
		return generalFallback(userText)
	}
}

type relevanceVerdict struct {
	IsRelevant bool    `json:"isRelevant"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// relevanceFallback fails open: without a working model we only reject a
// turn when it trips the off-topic vocabulary and nothing on-topic.
func relevanceFallback(userText string) string {
	verdict := relevanceVerdict{IsRelevant: true, Confidence: 0.5, Reason: "默认放行"}
	switch {
	case keywords.HasRelevantTerm(userText):
		verdict.Confidence = 0.9
		verdict.Reason = "包含学术合作相关词汇"
	case keywords.HasIrrelevantTerm(userText):
		verdict = relevanceVerdict{IsRelevant: false, Confidence: 0.9, Reason: "内容与学术合作无关"}
	}
	return mustJSON(verdict)
}

type clarityVerdict struct {
	IsClear        bool     `json:"isClear"`
	MissingAspects []string `json:"missingAspects"`
	Suggestion     string   `json:"suggestion"`
}

// clarityFallback applies the rule the clarity prompt encodes: a request
// is actionable once it names a research field and a cooperation type.
func clarityFallback(userText string) string {
	domains := keywords.DetectDomains(userText)
	cooperation := keywords.DetectCooperation(userText)

	verdict := clarityVerdict{IsClear: true, MissingAspects: []string{}}
	if len(domains) == 0 {
		verdict.IsClear = false
		verdict.MissingAspects = append(verdict.MissingAspects, "research_field")
	}
	if cooperation == keywords.CooperationGeneral {
		verdict.IsClear = false
		verdict.MissingAspects = append(verdict.MissingAspects, "cooperation_type")
	}
	if !verdict.IsClear {
		verdict.Suggestion = "请补充您感兴趣的研究领域和合作方式"
	}
	return mustJSON(verdict)
}

type intentEntities struct {
	ProfessorNames []string `json:"professorNames"`
}

type intentVerdict struct {
	MessageType     string         `json:"messageType"`
	TechDomains     []string       `json:"techDomains"`
	CooperationType string         `json:"cooperationType"`
	UserRole        string         `json:"userRole"`
	Requirements    []string       `json:"requirements"`
	IsVague         bool           `json:"isVague"`
	Confidence      float64        `json:"confidence"`
	Entities        intentEntities `json:"entities"`
}

// intentFallback rebuilds the intent-analysis JSON from keyword rules so
// the extractor parses fallback content with the same code path as model
// content.
func intentFallback(userText string) string {
	domains := keywords.DetectDomains(userText)
	if domains == nil {
		domains = []string{}
	}
	cooperation := keywords.DetectCooperation(userText)
	names := keywords.ExtractPersonNames(userText)
	if names == nil {
		names = []string{}
	}

	verdict := intentVerdict{
		MessageType:     classifyMessageType(userText, names),
		TechDomains:     domains,
		CooperationType: cooperation,
		UserRole:        keywords.DetectUserRole(userText),
		Requirements:    []string{},
		IsVague:         len(domains) == 0 && cooperation == keywords.CooperationGeneral,
		Confidence:      0.6,
		Entities:        intentEntities{ProfessorNames: names},
	}
	return mustJSON(verdict)
}

// classifyMessageType mirrors the routing rules the intent prompt asks
// the model to apply, ordered most-specific first.
func classifyMessageType(userText string, names []string) string {
	switch {
	case keywords.IsComparisonQuery(userText) && len(names) >= 2:
		return "professor_comparison"
	case len(names) > 0 && keywords.IsDeepInquiry(userText):
		return "professor_deep_inquiry"
	case keywords.IsAchievementQuery(userText) && !keywords.IsProfessorQuery(userText):
		return "achievement_query"
	case keywords.IsProfessorQuery(userText):
		return "professor_matching"
	case keywords.IsAdviceQuery(userText):
		return "academic_advice"
	case keywords.HasPronoun(userText):
		return "context_followup"
	case keywords.HasRelevantTerm(userText):
		return "research_discussion"
	default:
		return "general_query"
	}
}

func adviceFallback(userText string) string {
	domains := keywords.DetectDomains(userText)
	field := "目标领域"
	if len(domains) > 0 {
		field = domains[0]
	}
	return fmt.Sprintf("关于%s方向的建议：建议先梳理自身的研究基础和兴趣点，"+
		"关注该领域教授近年的论文和在研项目，再通过邮件附上个人简历与研究设想进行联系。"+
		"如需具体推荐，可以告诉我您的研究方向和合作意向。", field)
}

func comparisonFallback(userText string) string {
	names := keywords.ExtractPersonNames(userText)
	if len(names) >= 2 {
		return fmt.Sprintf("可以从研究方向、代表性成果和在研项目三个维度对比%s。"+
			"您可以分别询问每位教授的详细信息，我来帮您逐项分析。", strings.Join(names, "和"))
	}
	return "请告诉我需要对比的教授姓名（至少两位），我会从研究方向、成果和项目三个维度进行分析。"
}

// generalFallback covers off-pipeline small talk with canned replies.
func generalFallback(userText string) string {
	switch {
	case containsAnyOf(userText, "你好", "您好", "hi", "hello"):
		return "您好！我是科研合作助手，可以帮您寻找合适的教授、了解研究方向或咨询合作方式。请问有什么可以帮您？"
	case containsAnyOf(userText, "谢谢", "感谢"):
		return "不客气！如果还需要了解教授信息或合作建议，随时告诉我。"
	case containsAnyOf(userText, "你能", "功能", "怎么用", "帮我做什么"):
		return "我可以：1. 根据研究领域推荐合适的教授；2. 介绍教授的研究方向和成果；3. 对比多位教授；4. 提供学术合作建议。"
	default:
		return "我是科研合作助手，擅长教授推荐和学术合作咨询。您可以告诉我感兴趣的研究领域，比如\"想找人工智能方向的教授合作\"。"
	}
}

func containsAnyOf(text string, terms ...string) bool {
	lower := strings.ToLower(text)
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

func mustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		// All verdict types marshal cleanly; this guards future edits.
		return "{}"
	}
	return string(data)
}
