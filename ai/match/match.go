// Package match scores professors against an extracted intent. Scoring
// is pure and deterministic: no model calls, no randomness, so ranking
// is reproducible and cheap enough to run over the whole directory on
// every turn.
package match

import (
	"sort"
	"strings"

	"github.com/scimatch/scimatch/ai/intent"
	"github.com/scimatch/scimatch/store"
)

// Component weights. Research interests and proven output dominate;
// ongoing projects break ties.
const (
	researchWeight    = 0.4
	achievementWeight = 0.4
	projectWeight     = 0.2

	// neutralScore is the research component when the intent names no
	// domain: nothing to match on, every research profile reads average.
	neutralScore = 0.5

	// missingPenalty replaces a component when the professor record has
	// no data for it. Worse than any partial match, better than zero, so
	// sparse records sink without vanishing.
	missingPenalty = 0.3

	// InclusionThreshold is the hard floor: only scores strictly above
	// it make the result list.
	InclusionThreshold = 0.3
)

// Match is one ranked candidate.
type Match struct {
	Professor *store.Professor
	Score     float64
}

// Scorer ranks directory entries against intents.
type Scorer struct{}

func NewScorer() *Scorer {
	return &Scorer{}
}

// Score rates how well professor fits it, in [0,1]. The weighted sum is
// always computed; a domain-less intent only neutralizes the research
// component.
func (s *Scorer) Score(it *intent.Intent, professor *store.Professor) float64 {
	research := domainCoverage(it.TechDomains, professor.ResearchAreas)

	achievement := missingPenalty
	if len(professor.Achievements) > 0 {
		achievement = matchingFraction(it.TechDomains, achievementTexts(professor.Achievements))
	}

	project := missingPenalty
	if len(professor.Projects) > 0 {
		project = matchingFraction(it.TechDomains, projectTexts(professor.Projects))
	}

	score := research*researchWeight + achievement*achievementWeight + project*projectWeight
	return clamp01(score)
}

// Rank scores every professor and returns those strictly above the
// inclusion threshold, best first. Equal scores keep directory order.
func (s *Scorer) Rank(it *intent.Intent, professors []*store.Professor) []Match {
	matches := make([]Match, 0, len(professors))
	for _, professor := range professors {
		if score := s.Score(it, professor); score > InclusionThreshold {
			matches = append(matches, Match{Professor: professor, Score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

// domainCoverage is the fraction of wanted domains that appear in any of
// the texts. A domain "appears" when either string contains the other,
// case-insensitively, so "人工智能" matches a record listing "人工智能与模式识别"
// and "机器学习与人工智能" alike. No wanted domains means nothing to judge
// by, which scores neutral.
func domainCoverage(domains []string, texts []string) float64 {
	if len(domains) == 0 {
		return neutralScore
	}
	if len(texts) == 0 {
		return 0
	}
	hits := 0
	for _, domain := range domains {
		if domainMatches(domain, texts) {
			hits++
		}
	}
	return float64(hits) / float64(len(domains))
}

// matchingFraction is the fraction of texts that mention any wanted
// domain. Used for achievements and projects, where the question is how
// much of the professor's output is on-topic, not how much of the ask
// is covered. Matching is one-directional: the record text must contain
// the domain, a title shorter than the domain phrase is not a mention.
func matchingFraction(domains []string, texts []string) float64 {
	if len(texts) == 0 {
		return 0
	}
	hits := 0
	for _, text := range texts {
		lower := strings.ToLower(text)
		for _, domain := range domains {
			if strings.Contains(lower, strings.ToLower(domain)) {
				hits++
				break
			}
		}
	}
	return float64(hits) / float64(len(texts))
}

// domainMatches reports whether domain appears in any of the texts,
// bidirectionally and case-insensitively. Research areas match both
// ways: a listed area may be broader or narrower than the ask.
func domainMatches(domain string, texts []string) bool {
	d := strings.ToLower(domain)
	for _, text := range texts {
		t := strings.ToLower(text)
		if strings.Contains(t, d) || strings.Contains(d, t) {
			return true
		}
	}
	return false
}

func achievementTexts(achievements []store.Achievement) []string {
	texts := make([]string, 0, len(achievements))
	for _, a := range achievements {
		texts = append(texts, a.Title+" "+a.Description)
	}
	return texts
}

func projectTexts(projects []store.Project) []string {
	texts := make([]string, 0, len(projects))
	for _, p := range projects {
		texts = append(texts, p.Name+" "+p.Description)
	}
	return texts
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
