package intent

import (
	"fmt"
	"strings"

	"github.com/scimatch/scimatch/ai/core/llm"
)

const intentSystemPrompt = `你是高校产学研合作平台的意图分析引擎。分析用户消息，严格输出一个JSON对象，不要输出任何其他内容：
{
  "messageType": "professor_matching|professor_deep_inquiry|professor_comparison|academic_advice|research_discussion|context_followup|achievement_query|general_query",
  "techDomains": ["涉及的研究领域，如 人工智能、材料科学"],
  "cooperationType": "consultation|collaboration|training|transfer|application|general",
  "userRole": "undergraduate|graduate|phd|industry|student",
  "requirements": ["用户提出的具体要求，如 有企业合作经验"],
  "isVague": false,
  "confidence": 0.9,
  "entities": {"professorNames": ["提到的教授姓名"]}
}
判断规则：
- 要求推荐或寻找教授/专家时为 professor_matching
- 追问某位教授的研究、项目、经历时为 professor_deep_inquiry
- 对比两位及以上教授时为 professor_comparison
- 询问申请、联系、合作方法时为 academic_advice
- 使用"他/她/这位"等代词指代上文实体时为 context_followup
- 未提及任何研究领域且合作意图不明时 isVague 为 true`

// buildMessages assembles the intent-analysis call: system prompt,
// recent turns for context, then the current query.
func buildMessages(query string, recent []Turn) []llm.Message {
	messages := []llm.Message{llm.SystemPrompt(intentSystemPrompt)}
	if len(recent) > 0 {
		var b strings.Builder
		b.WriteString("最近的对话：\n")
		for _, turn := range recent {
			fmt.Fprintf(&b, "[%s] %s\n", turn.Role, turn.Content)
		}
		messages = append(messages, llm.SystemPrompt(b.String()))
	}
	messages = append(messages, llm.UserMessage(query))
	return messages
}
