package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestReportTokensAccumulatesByModel(t *testing.T) {
	reg := NewRegistry()

	reg.ReportTokens("deepseek-chat", TokenUsage{PromptTokens: 120, CompletionTokens: 40, TotalTokens: 160})
	reg.ReportTokens("deepseek-chat", TokenUsage{PromptTokens: 30, CompletionTokens: 10, TotalTokens: 40})

	require.Equal(t, float64(150), testutil.ToFloat64(reg.LLMTokens.WithLabelValues("deepseek-chat", "prompt")))
	require.Equal(t, float64(50), testutil.ToFloat64(reg.LLMTokens.WithLabelValues("deepseek-chat", "completion")))
}

func TestReportTokensSkipsEmptyUsage(t *testing.T) {
	reg := NewRegistry()

	reg.ReportTokens("deepseek-chat", TokenUsage{})

	require.Equal(t, 0, testutil.CollectAndCount(reg.LLMTokens))
}

func TestReportTokensNilRegistry(t *testing.T) {
	var reg *Registry
	require.NotPanics(t, func() {
		reg.ReportTokens("deepseek-chat", TokenUsage{PromptTokens: 1, TotalTokens: 1})
	})
}
