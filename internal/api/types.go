// In file: internal/api/types.go

// Package api defines the public request and response structures for the
// EconoSage gateway's HTTP surface. These types are the contract between the
// chat clients and the gateway; internal packages convert to and from them
// at the handler boundary.
package api

// ChatRequest is the body of a POST /api/v1/chat call.
type ChatRequest struct {
	// UserID identifies the end user, used for logging and rate accounting.
	UserID string `json:"user_id"`
	// ConversationID ties consecutive turns into one explainer session.
	// When empty, the turn is treated as a one-off question with no history.
	ConversationID string `json:"conversation_id"`
	// Message is the raw user question in any supported language.
	Message string `json:"message" binding:"required"`
	// LangCode is the BCP-47-ish language code detected by the client
	// (e.g. "en", "hi", "pt-br"). Optional; used for region defaulting and
	// for translating the answer back into the user's language.
	LangCode string `json:"lang_code"`
}

// ChatResponse is the body returned for a chat turn.
type ChatResponse struct {
	// Answer is the final natural-language reply shown to the user.
	Answer string `json:"answer"`
	// IsTheoretical reports whether the turn was answered without computation.
	IsTheoretical bool `json:"is_theoretical"`
	// Formula is the formula or data-fetch key that was resolved, if any.
	Formula string `json:"formula,omitempty"`
	// Params echoes the parameter mapping used for the computation, so
	// clients can render what the gateway understood.
	Params map[string]any `json:"params,omitempty"`
	// Region is the two-letter region code governing ambiguous defaults.
	Region string `json:"region"`
	// Result is the numeric result of the computation, when one was made.
	Result *float64 `json:"result,omitempty"`
	// FormulaText is the human-readable formula string from the evaluator.
	FormulaText string `json:"formula_text,omitempty"`

	ModelUsed   string `json:"model_used,omitempty"`
	Usage       Usage  `json:"usage"`
	LatencyMS   int64  `json:"latency_ms"`
	CacheStatus string `json:"cache_status"`
}

// Usage holds token accounting for a single LLM exchange (or the sum of
// several exchanges within one turn).
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Add accumulates another usage record into this one.
func (u *Usage) Add(other Usage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
}
