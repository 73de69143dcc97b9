// Package keywords holds the data-driven lookup tables behind every
// rule-based fallback in the pipeline: domain detection, cooperation-type
// detection, relevance vocabularies, and entity extraction patterns.
// Keeping them in one place makes the rules unit-testable independent of
// the extraction flow that consumes them.
package keywords

import (
	"regexp"
	"strings"
)

// Cooperation types resolved by intent extraction.
const (
	CooperationConsultation  = "consultation"
	CooperationCollaboration = "collaboration"
	CooperationTraining      = "training"
	CooperationTransfer      = "transfer"
	CooperationApplication   = "application"
	CooperationGeneral       = "general"
)

type domainEntry struct {
	Name     string
	Triggers []string
}

// domainTable maps trigger words to canonical research domains.
// Order matters: detected domains keep this canonical order so that
// downstream output is deterministic.
var domainTable = []domainEntry{
	{"人工智能", []string{"ai", "人工智能", "机器学习", "深度学习", "ml", "dl", "神经网络", "计算机视觉", "自然语言处理"}},
	{"计算机科学", []string{"计算机", "软件", "算法", "编程", "computer", "大数据", "数据挖掘", "云计算"}},
	{"生物医学", []string{"生物", "医学", "基因", "蛋白质", "临床", "药物"}},
	{"材料科学", []string{"材料", "化学", "物理", "纳米"}},
	{"电子工程", []string{"电子", "电气", "通信", "芯片", "半导体"}},
	{"机械工程", []string{"机械", "自动化", "机器人"}},
	{"环境科学", []string{"环境", "生态", "碳中和"}},
}

type cooperationEntry struct {
	Type     string
	Triggers []string
}

// cooperationTable maps trigger words to cooperation types.
// Checked in order; the first entry with a trigger hit wins.
var cooperationTable = []cooperationEntry{
	{CooperationConsultation, []string{"咨询", "了解", "请教"}},
	{CooperationCollaboration, []string{"合作", "联合研发", "项目"}},
	{CooperationApplication, []string{"申请", "导师", "读研", "读博"}},
	{CooperationTraining, []string{"培养", "实习", "培训"}},
	{CooperationTransfer, []string{"转化", "产业化", "专利"}},
}

// professorTriggers flips the professor-matching flag.
var professorTriggers = []string{"教授", "专家", "老师", "导师", "推荐", "找", "寻找"}

// achievementTriggers flips the achievement-query flag.
var achievementTriggers = []string{"成果", "论文", "专利", "发表"}

// relevantVocabulary: presence of any term marks a turn on-topic.
var relevantVocabulary = []string{
	// Academic
	"教授", "导师", "老师", "研究", "科研", "学术", "论文", "项目",
	// Cooperation
	"合作", "咨询", "联系", "申请", "推荐", "找", "寻找",
	// Tech fields
	"人工智能", "ai", "机器学习", "深度学习", "计算机", "工程", "医学", "生物",
	// Campus
	"院系", "学院", "专业", "大学",
}

// irrelevantVocabulary: terms that mark a turn off-topic when no relevant
// term is present.
var irrelevantVocabulary = []string{
	"天气", "股票", "游戏", "娱乐", "八卦", "购物", "旅游", "美食",
	"电影", "音乐", "体育", "政治", "新闻", "笑话", "聊天",
}

// pronouns used to detect follow-up references to earlier context.
var pronouns = []string{"他", "她", "这个", "那个", "这位", "前面", "上面", "刚才"}

// comparisonTriggers detect multi-entity comparison requests.
var comparisonTriggers = []string{"对比", "比较", "区别", "差异"}

// deepInquiryTriggers detect requests to drill into one entity.
var deepInquiryTriggers = []string{"详细", "具体", "深入", "研究方向", "项目", "经历"}

// adviceTriggers detect academic-advice requests.
var adviceTriggers = []string{"建议", "如何", "怎么", "需要", "条件"}

type aspectEntry struct {
	Name     string
	Triggers []string
}

var aspectTable = []aspectEntry{
	{"research", []string{"研究方向", "研究"}},
	{"projects", []string{"项目", "课题"}},
	{"publications", []string{"论文", "发表", "成果"}},
	{"experience", []string{"经历", "背景", "简历"}},
	{"application", []string{"申请", "条件", "要求"}},
	{"collaboration", []string{"合作"}},
}

// personNamePattern matches common Chinese full names followed by an
// academic suffix. The surname class plus the required suffix keeps the
// pattern from swallowing surrounding prose; names mentioned without a
// suffix are resolved against the professor directory instead, see
// MatchKnownNames.
var personNamePattern = regexp.MustCompile(`([张李王刘陈杨赵黄周吴徐孙胡朱高林何郭马罗宋郑谢韩唐冯于董程曹袁邓许傅沈曾彭吕苏卢蒋蔡贾丁魏薛叶余潘杜戴夏钟汪田任姜范方石姚谭廖邹熊金陆郝孔白崔康毛邱秦江史顾侯邵孟龙万段钱汤尹黎易常武乔贺赖龚文][\x{4e00}-\x{9fa5}]{1,2})(教授|老师|博士)`)

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// DetectDomains returns canonical domains whose trigger words appear in
// text, in canonical table order. Matching is case-insensitive.
func DetectDomains(text string) []string {
	lower := strings.ToLower(text)
	var domains []string
	for _, entry := range domainTable {
		if containsAny(lower, entry.Triggers) {
			domains = append(domains, entry.Name)
		}
	}
	return domains
}

// DetectCooperation returns the cooperation type for text, or
// CooperationGeneral when no trigger matches.
func DetectCooperation(text string) string {
	lower := strings.ToLower(text)
	for _, entry := range cooperationTable {
		if containsAny(lower, entry.Triggers) {
			return entry.Type
		}
	}
	return CooperationGeneral
}

// IsProfessorQuery reports whether text asks for a professor/expert.
func IsProfessorQuery(text string) bool {
	return containsAny(strings.ToLower(text), professorTriggers)
}

// IsAchievementQuery reports whether text asks about research output.
func IsAchievementQuery(text string) bool {
	return containsAny(strings.ToLower(text), achievementTriggers)
}

// HasRelevantTerm reports whether text contains on-topic vocabulary.
func HasRelevantTerm(text string) bool {
	return containsAny(strings.ToLower(text), relevantVocabulary)
}

// HasIrrelevantTerm reports whether text contains off-topic vocabulary.
func HasIrrelevantTerm(text string) bool {
	return containsAny(strings.ToLower(text), irrelevantVocabulary)
}

// HasPronoun reports whether text references earlier context by pronoun.
func HasPronoun(text string) bool {
	return containsAny(text, pronouns)
}

// IsComparisonQuery reports whether text asks to compare entities.
func IsComparisonQuery(text string) bool {
	return containsAny(text, comparisonTriggers)
}

// IsDeepInquiry reports whether text drills into a single entity.
func IsDeepInquiry(text string) bool {
	return containsAny(text, deepInquiryTriggers)
}

// IsAdviceQuery reports whether text asks for academic guidance.
func IsAdviceQuery(text string) bool {
	return containsAny(text, adviceTriggers)
}

// DetectAspects returns the aspects text asks about ("research",
// "projects", ...). Defaults to ["general"] when nothing matches.
func DetectAspects(text string) []string {
	var aspects []string
	for _, entry := range aspectTable {
		if containsAny(text, entry.Triggers) {
			aspects = append(aspects, entry.Name)
		}
	}
	if len(aspects) == 0 {
		return []string{"general"}
	}
	return aspects
}

// ExtractPersonNames returns distinct person names mentioned in text with
// an academic suffix ("张伟教授" yields "张伟"), in order of first
// appearance.
func ExtractPersonNames(text string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, match := range personNamePattern.FindAllStringSubmatch(text, -1) {
		name := match[1]
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// MatchKnownNames returns the entries of known that appear verbatim in
// text, in the order they are listed in known. It catches names mentioned
// without an academic suffix, which ExtractPersonNames cannot segment.
func MatchKnownNames(text string, known []string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, name := range known {
		if name != "" && !seen[name] && strings.Contains(text, name) {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// DetectUserRole guesses the requester's role from self-descriptions.
func DetectUserRole(text string) string {
	switch {
	case strings.Contains(text, "本科") || strings.Contains(text, "大学生"):
		return "undergraduate"
	case strings.Contains(text, "研究生") || strings.Contains(text, "硕士"):
		return "graduate"
	case strings.Contains(text, "博士"):
		return "phd"
	case strings.Contains(text, "企业") || strings.Contains(text, "公司") || strings.Contains(text, "工业界"):
		return "industry"
	default:
		return "student"
	}
}

// ClarificationDomains are the domain options offered when a request
// lacks a research field.
func ClarificationDomains() []string {
	return []string{"人工智能", "材料科学", "生物医学", "电子信息", "机械工程", "环境科学", "计算机科学", "化学工程"}
}

// ClarificationCooperationTypes are the cooperation options offered when
// a request lacks an ask type.
func ClarificationCooperationTypes() []string {
	return []string{"技术咨询", "联合研发", "成果转化", "人才培养", "项目合作"}
}
