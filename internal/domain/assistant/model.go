package assistant

// ContextTag selects which system prompt and assistant persona is active.
type ContextTag string

const (
	ContextOutfit ContextTag = "outfit"
	ContextPlant  ContextTag = "plant"
)

// Valid reports whether the tag is one of the supported personas.
func (c ContextTag) Valid() bool {
	return c == ContextOutfit || c == ContextPlant
}

// Message is one turn of a chat transcript. The transcript itself is owned by
// the caller; the bridge never stores it between calls.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Config wires runtime dependencies for the assistant domain.
type Config struct {
	Model        string
	Temperature  float32
	MaxTokens    int
	PromptBudget int
}
