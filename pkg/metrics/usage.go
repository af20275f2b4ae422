package metrics

// TokenUsage captures LLM token counts used to satisfy a request. The JSON
// tags follow the OpenAI-compatible wire format the provider replies with.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// IsZero reports whether usage data is absent.
func (u TokenUsage) IsZero() bool {
	return u.PromptTokens == 0 && u.CompletionTokens == 0 && u.TotalTokens == 0
}

// ReportTokens accumulates per-model token consumption into the registry.
func (r *Registry) ReportTokens(model string, usage TokenUsage) {
	if r == nil || usage.IsZero() {
		return
	}
	r.LLMTokens.WithLabelValues(model, "prompt").Add(float64(usage.PromptTokens))
	r.LLMTokens.WithLabelValues(model, "completion").Add(float64(usage.CompletionTokens))
}
