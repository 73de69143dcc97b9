package match

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scimatch/scimatch/ai/intent"
	"github.com/scimatch/scimatch/store"
)

func professor(name string, areas []string, achievements []store.Achievement, projects []store.Project) *store.Professor {
	return &store.Professor{Name: name, ResearchAreas: areas, Achievements: achievements, Projects: projects}
}

func intentWithDomains(domains ...string) *intent.Intent {
	return &intent.Intent{MessageType: intent.TypeProfessorMatching, TechDomains: domains}
}

func TestScoreWithoutDomainsNeutralizesResearchOnly(t *testing.T) {
	s := NewScorer()

	// Sparse record: neutral research, both penalties.
	// 0.5*0.4 + 0.3*0.4 + 0.3*0.2
	sparse := professor("张伟", []string{"人工智能"}, nil, nil)
	require.InDelta(t, 0.38, s.Score(&intent.Intent{}, sparse), 1e-9)

	// A record with output still earns nothing on it without a domain to
	// match: 0.5*0.4 + 0*0.4 + 0*0.2, below the inclusion threshold.
	busy := professor("陈静", []string{"考古学"},
		[]store.Achievement{{Title: "青铜器断代"}},
		[]store.Project{{Name: "遗址调查"}},
	)
	require.InDelta(t, 0.2, s.Score(&intent.Intent{}, busy), 1e-9)
	require.Empty(t, s.Rank(&intent.Intent{}, []*store.Professor{busy}))
}

func TestScoreFullMatch(t *testing.T) {
	s := NewScorer()
	p := professor("张伟",
		[]string{"人工智能"},
		[]store.Achievement{{Title: "人工智能安全研究"}},
		[]store.Project{{Name: "人工智能平台项目"}},
	)
	require.InDelta(t, 1.0, s.Score(intentWithDomains("人工智能"), p), 1e-9)
}

func TestScoreMissingComponentsPenalized(t *testing.T) {
	s := NewScorer()
	p := professor("张伟", []string{"人工智能"}, nil, nil)
	// 1.0*0.4 + 0.3*0.4 + 0.3*0.2
	require.InDelta(t, 0.58, s.Score(intentWithDomains("人工智能"), p), 1e-9)
}

func TestScoreAchievementFraction(t *testing.T) {
	s := NewScorer()
	p := professor("张伟",
		[]string{"人工智能"},
		[]store.Achievement{
			{Title: "人工智能安全研究"},
			{Title: "青铜器断代", Description: "考古方法"},
		},
		nil,
	)
	// research 1.0*0.4 + achievements (1 of 2)*0.4 + missing projects 0.3*0.2
	require.InDelta(t, 0.66, s.Score(intentWithDomains("人工智能"), p), 1e-9)
}

func TestScoreBidirectionalSubstring(t *testing.T) {
	s := NewScorer()
	// Directory lists a broader phrase containing the wanted domain.
	broad := professor("李明", []string{"人工智能与模式识别"}, nil, nil)
	require.Greater(t, s.Score(intentWithDomains("人工智能"), broad), 0.5)

	// And the reverse: wanted domain phrase contains the listed area.
	narrow := professor("王芳", []string{"材料"}, nil, nil)
	require.Greater(t, s.Score(intentWithDomains("材料科学"), narrow), 0.5)
}

func TestAchievementMatchIsOneDirectional(t *testing.T) {
	s := NewScorer()
	// The achievement title is a prefix of the wanted domain phrase:
	// research areas credit it both ways, output does not.
	p := professor("王芳", []string{"材料"},
		[]store.Achievement{{Title: "材料"}},
		nil,
	)
	// research 1.0*0.4 + achievements 0*0.4 + missing projects 0.3*0.2
	require.InDelta(t, 0.46, s.Score(intentWithDomains("材料科学"), p), 1e-9)
}

func TestScoreCaseInsensitive(t *testing.T) {
	s := NewScorer()
	p := professor("李明", []string{"AI Systems"}, nil, nil)
	require.Greater(t, s.Score(intentWithDomains("ai systems"), p), 0.5)
}

func TestRankThresholdIsStrict(t *testing.T) {
	s := NewScorer()
	unrelated := professor("陈静", []string{"考古学"},
		[]store.Achievement{{Title: "青铜器断代"}},
		[]store.Project{{Name: "遗址调查"}},
	)
	matches := s.Rank(intentWithDomains("人工智能"), []*store.Professor{unrelated})
	require.Empty(t, matches, "score at or below 0.3 must be excluded")
}

func TestRankOrdersBestFirstAndKeepsTies(t *testing.T) {
	s := NewScorer()
	full := professor("张伟",
		[]string{"人工智能"},
		[]store.Achievement{{Title: "人工智能研究"}},
		[]store.Project{{Name: "人工智能项目"}},
	)
	partialA := professor("李明", []string{"人工智能"}, nil, nil)
	partialB := professor("王芳", []string{"人工智能"}, nil, nil)

	matches := s.Rank(intentWithDomains("人工智能"), []*store.Professor{partialA, full, partialB})
	require.Len(t, matches, 3)
	require.Equal(t, "张伟", matches[0].Professor.Name)
	// Tied scores keep directory order.
	require.Equal(t, "李明", matches[1].Professor.Name)
	require.Equal(t, "王芳", matches[2].Professor.Name)
}

func TestRankWithoutDomainsKeepsSparseRecords(t *testing.T) {
	s := NewScorer()
	professors := []*store.Professor{
		professor("张伟", []string{"人工智能"}, nil, nil),
		professor("李明", []string{"材料科学"}, nil, nil),
	}
	matches := s.Rank(&intent.Intent{}, professors)
	require.Len(t, matches, 2)
	for _, m := range matches {
		require.InDelta(t, 0.38, m.Score, 1e-9)
	}
}
