package dialog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/scimatch/scimatch/ai/core/llm"
	"github.com/scimatch/scimatch/ai/gateway"
	"github.com/scimatch/scimatch/ai/intent"
	"github.com/scimatch/scimatch/ai/keywords"
	"github.com/scimatch/scimatch/store"
)

func (e *Engine) handleMatching(ctx context.Context, it *intent.Intent, result *TurnResult) {
	professors, err := e.store.ListProfessors(ctx, &store.FindProfessor{})
	if err != nil {
		e.softFail(result, "directory list failed", err)
		return
	}

	matches := e.scorer.Rank(it, professors)
	if len(matches) == 0 {
		result.Reply = "暂时没有找到匹配的教授。您可以换一个研究领域，或描述得更具体一些。"
		result.FollowupQuestions = pickFollowups(guidanceFollowups)
		return
	}
	if len(matches) > maxDisplayed {
		matches = matches[:maxDisplayed]
	}

	reasons := e.reasons.Explain(ctx, it, matches)
	result.Matches = make([]RankedProfessor, 0, len(matches))
	for i, m := range matches {
		result.Matches = append(result.Matches, RankedProfessor{
			ID:            m.Professor.ID,
			Name:          m.Professor.Name,
			Department:    m.Professor.Department,
			Title:         m.Professor.Title,
			ResearchAreas: m.Professor.ResearchAreas,
			Score:         m.Score,
			Reasons:       reasons[i],
		})
	}
	result.Reply = matchingReply(it, result.Matches)
	result.FollowupQuestions = pickFollowups(matchingFollowups)
}

func matchingReply(it *intent.Intent, matches []RankedProfessor) string {
	var b strings.Builder
	if len(it.TechDomains) > 0 {
		fmt.Fprintf(&b, "根据您在%s方向的需求，为您推荐%d位教授：\n", strings.Join(it.TechDomains, "、"), len(matches))
	} else {
		fmt.Fprintf(&b, "为您推荐%d位教授：\n", len(matches))
	}
	for i, m := range matches {
		fmt.Fprintf(&b, "%d. %s（%s·%s）：%s\n", i+1, m.Name, m.Department, m.Title, strings.Join(m.Reasons, "；"))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (e *Engine) handleDeepInquiry(ctx context.Context, it *intent.Intent, result *TurnResult) {
	if len(it.ProfessorNames) == 0 {
		result.Reply = "请告诉我您想了解哪位教授，比如\"张伟教授的研究方向\"。"
		result.FollowupQuestions = pickFollowups(generalFollowups)
		return
	}

	name := it.ProfessorNames[0]
	professors, err := e.store.FindProfessorByName(ctx, name, 1)
	if err != nil {
		e.softFail(result, "professor lookup failed", err)
		return
	}
	if len(professors) == 0 {
		result.Reply = fmt.Sprintf("没有找到\"%s\"的资料，请确认姓名，或让我按研究领域为您推荐。", name)
		result.FollowupQuestions = pickFollowups(guidanceFollowups)
		return
	}

	professor := professors[0]
	result.Detail = &ProfessorDetail{Professor: professor, Aspects: it.Aspects}
	result.Reply = detailReply(professor, it.Aspects)
	result.FollowupQuestions = pickFollowups(detailFollowups)
}

func detailReply(professor *store.Professor, aspects []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s，%s%s。", professor.Name, professor.Department, professor.Title)
	if professor.Introduction != "" {
		b.WriteString(professor.Introduction)
	}
	b.WriteString("\n")

	wanted := make(map[string]bool, len(aspects))
	for _, a := range aspects {
		wanted[a] = true
	}
	all := wanted["general"]

	if (all || wanted["research"]) && len(professor.ResearchAreas) > 0 {
		fmt.Fprintf(&b, "研究方向：%s\n", strings.Join(professor.ResearchAreas, "、"))
	}
	if (all || wanted["publications"]) && len(professor.Achievements) > 0 {
		titles := make([]string, 0, len(professor.Achievements))
		for _, a := range professor.Achievements {
			titles = append(titles, a.Title)
		}
		fmt.Fprintf(&b, "代表成果：%s\n", strings.Join(titles, "、"))
	}
	if (all || wanted["projects"]) && len(professor.Projects) > 0 {
		names := make([]string, 0, len(professor.Projects))
		for _, p := range professor.Projects {
			names = append(names, p.Name)
		}
		fmt.Fprintf(&b, "在研项目：%s\n", strings.Join(names, "、"))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (e *Engine) handleComparison(ctx context.Context, it *intent.Intent, result *TurnResult) {
	var resolved []*store.Professor
	seen := make(map[string]bool)
	for _, name := range it.ProfessorNames {
		professors, err := e.store.FindProfessorByName(ctx, name, 1)
		if err != nil {
			e.softFail(result, "professor lookup failed", err)
			return
		}
		if len(professors) > 0 && !seen[professors[0].Name] {
			seen[professors[0].Name] = true
			resolved = append(resolved, professors[0])
		}
	}

	if len(resolved) < 2 {
		// Names mentioned without an academic suffix slip past entity
		// extraction; resolve them against the directory roster.
		all, err := e.store.ListProfessors(ctx, &store.FindProfessor{})
		if err != nil {
			e.softFail(result, "directory list failed", err)
			return
		}
		known := make([]string, 0, len(all))
		byName := make(map[string]*store.Professor, len(all))
		for _, p := range all {
			known = append(known, p.Name)
			byName[p.Name] = p
		}
		for _, name := range keywords.MatchKnownNames(it.OriginalQuery, known) {
			if !seen[name] {
				seen[name] = true
				resolved = append(resolved, byName[name])
			}
		}
	}

	if len(resolved) < 2 {
		// Still not enough directory entries to compare; let the model
		// (or its fallback) ask for usable names.
		e.freeformReply(ctx, gateway.KindComparison, it, nil, result)
		return
	}

	result.Comparison = resolved
	result.Reply = comparisonReply(resolved)
	result.FollowupQuestions = pickFollowups(comparisonFollowups)
}

func comparisonReply(professors []*store.Professor) string {
	var b strings.Builder
	names := make([]string, 0, len(professors))
	for _, p := range professors {
		names = append(names, p.Name)
	}
	fmt.Fprintf(&b, "%s的对比如下：\n", strings.Join(names, "与"))
	for _, p := range professors {
		fmt.Fprintf(&b, "· %s（%s·%s）研究方向：%s；代表成果%d项，在研项目%d项\n",
			p.Name, p.Department, p.Title, strings.Join(p.ResearchAreas, "、"),
			len(p.Achievements), len(p.Projects))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (e *Engine) handleAchievements(ctx context.Context, it *intent.Intent, result *TurnResult) {
	limit := 10
	find := &store.FindAchievement{Limit: &limit}
	if len(it.TechDomains) > 0 {
		find.Keyword = &it.TechDomains[0]
	}
	if len(it.ProfessorNames) > 0 {
		professors, err := e.store.FindProfessorByName(ctx, it.ProfessorNames[0], 1)
		if err != nil {
			e.softFail(result, "professor lookup failed", err)
			return
		}
		if len(professors) > 0 {
			find.ProfessorID = &professors[0].ID
			find.Keyword = nil
		}
	}

	achievements, err := e.store.ListAchievements(ctx, find)
	if err != nil {
		e.softFail(result, "achievement list failed", err)
		return
	}
	if len(achievements) == 0 {
		result.Reply = "暂时没有找到相关的研究成果。您可以换个领域关键词试试。"
		result.FollowupQuestions = pickFollowups(guidanceFollowups)
		return
	}

	result.Achievements = achievements
	var b strings.Builder
	fmt.Fprintf(&b, "为您找到%d项相关成果：\n", len(achievements))
	for i, a := range achievements {
		fmt.Fprintf(&b, "%d. %s（%s）\n", i+1, a.Title, a.ProfessorName)
	}
	result.Reply = strings.TrimRight(b.String(), "\n")
	result.FollowupQuestions = pickFollowups(achievementFollowups)
}

// handleFollowup resolves a pronoun reference: with an inherited entity
// it behaves like a deep dive, otherwise it falls through to general
// conversation.
func (e *Engine) handleFollowup(ctx context.Context, it *intent.Intent, history []intent.Turn, result *TurnResult) {
	if len(it.ProfessorNames) > 0 {
		e.handleDeepInquiry(ctx, it, result)
		return
	}
	e.handleGeneral(ctx, it, history, result)
}

func (e *Engine) handleAdvice(ctx context.Context, it *intent.Intent, history []intent.Turn, result *TurnResult) {
	e.freeformReply(ctx, gateway.KindAdvice, it, history, result)
	result.FollowupQuestions = pickFollowups(adviceFollowups)
}

func (e *Engine) handleGeneral(ctx context.Context, it *intent.Intent, history []intent.Turn, result *TurnResult) {
	e.freeformReply(ctx, gateway.KindGeneral, it, history, result)
	if len(result.FollowupQuestions) == 0 {
		result.FollowupQuestions = pickFollowups(generalFollowups)
	}
}

const freeformPrompt = `你是高校产学研合作平台的科研合作助手，回答要专业、具体、友好，控制在200字以内。`

// freeformReply fills result.Reply from a free-form model call; the
// gateway guarantees usable content whatever the provider does. The call
// gets whatever is left of the turn budget, capped at generalTimeout, so
// earlier stages cannot push this one past the aggregate deadline.
func (e *Engine) freeformReply(ctx context.Context, kind gateway.PromptKind, it *intent.Intent, history []intent.Turn, result *TurnResult) {
	msgs := llm.FormatMessages(freeformPrompt, it.OriginalQuery, recentMessages(history))
	res, err := e.gw.Call(ctx, kind, msgs, freeformTimeout(ctx))
	if err != nil {
		e.softFail(result, "freeform call failed", err)
		return
	}
	result.Reply = res.Content
}

// replyMargin is reserved out of the turn budget for assembling the
// reply after the last model call returns.
const replyMargin = 200 * time.Millisecond

func freeformTimeout(ctx context.Context) time.Duration {
	timeout := generalTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline) - replyMargin; remaining < timeout {
			timeout = remaining
		}
	}
	return timeout
}

// recentMessages converts the trailing turns into provider messages,
// same window as intent extraction.
func recentMessages(history []intent.Turn) []llm.Message {
	const window = 3
	if len(history) > window {
		history = history[len(history)-window:]
	}
	msgs := make([]llm.Message, 0, len(history))
	for _, turn := range history {
		if turn.Role == "assistant" {
			msgs = append(msgs, llm.AssistantMessage(turn.Content))
			continue
		}
		msgs = append(msgs, llm.UserMessage(turn.Content))
	}
	return msgs
}

func (e *Engine) softFail(result *TurnResult, msg string, err error) {
	slog.Error(msg, "turn_id", result.TurnID, "error", err)
	result.FlowStep = StepError
	result.Reply = "系统繁忙，请稍后再试。"
}
