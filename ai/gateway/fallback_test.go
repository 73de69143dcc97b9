package gateway

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func decodeIntent(t *testing.T, content string) intentVerdict {
	t.Helper()
	var v intentVerdict
	require.NoError(t, json.Unmarshal([]byte(content), &v))
	return v
}

func TestIntentFallback(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		messageType string
		domains     []string
		cooperation string
		vague       bool
	}{
		{
			name:        "matching with domain and type",
			text:        "想找人工智能方向的教授合作项目",
			messageType: "professor_matching",
			domains:     []string{"人工智能"},
			cooperation: "collaboration",
		},
		{
			name:        "vague when no domain and general type",
			text:        "推荐几位教授",
			messageType: "professor_matching",
			domains:     []string{},
			cooperation: "general",
			vague:       true,
		},
		{
			name:        "deep inquiry on named professor",
			text:        "张伟教授的研究方向是什么，详细介绍一下",
			messageType: "professor_deep_inquiry",
			domains:     []string{},
			cooperation: "general",
			vague:       true,
		},
		{
			name:        "general query",
			text:        "你好",
			messageType: "general_query",
			domains:     []string{},
			cooperation: "general",
			vague:       true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := decodeIntent(t, intentFallback(tt.text))
			require.Equal(t, tt.messageType, v.MessageType)
			require.Equal(t, tt.domains, v.TechDomains)
			require.Equal(t, tt.cooperation, v.CooperationType)
			require.Equal(t, tt.vague, v.IsVague)
		})
	}
}

func TestRelevanceFallbackFailsOpen(t *testing.T) {
	var v relevanceVerdict
	require.NoError(t, json.Unmarshal([]byte(relevanceFallback("帮我写首诗")), &v))
	require.True(t, v.IsRelevant, "unknown content must pass the gate")

	require.NoError(t, json.Unmarshal([]byte(relevanceFallback("今天天气怎么样")), &v))
	require.False(t, v.IsRelevant)
}

func TestClarityFallbackMissingAspects(t *testing.T) {
	var v clarityVerdict
	require.NoError(t, json.Unmarshal([]byte(clarityFallback("找个教授")), &v))
	require.False(t, v.IsClear)
	require.Equal(t, []string{"research_field", "cooperation_type"}, v.MissingAspects)

	require.NoError(t, json.Unmarshal([]byte(clarityFallback("想咨询机器学习问题")), &v))
	require.True(t, v.IsClear)
	require.Empty(t, v.MissingAspects)
}

func TestGeneralFallbackBuckets(t *testing.T) {
	require.Contains(t, generalFallback("你好"), "科研合作助手")
	require.Contains(t, generalFallback("谢谢你"), "不客气")
	require.NotEmpty(t, generalFallback("嗯"))
}
