// In file: internal/query/classifier.go
package query

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/econosage/gateway/internal/llm"
)

// Kind is the request class a user turn resolves to.
type Kind string

const (
	// KindTheoretical means "just answer the question" - no formula, no lookup.
	KindTheoretical Kind = "theoretical"
	// KindFormula means a closed-form calculation applies.
	KindFormula Kind = "formula"
	// KindDataFetch means a live external lookup applies (stock price,
	// currency rate, inflation rate, tax rate).
	KindDataFetch Kind = "data_fetch"
)

// Classification is the outcome of classifying one user turn.
type Classification struct {
	Kind Kind
	// Formula is the resolved formula/function key, empty for theoretical.
	Formula string
	// Restatement is the extractable form of the question. For a formula
	// classification it is the "k = v" remainder after the reply prefix; for
	// a data fetch it is the full structured reply. On degradation it is the
	// original user text, so the explainer always has something to answer.
	Restatement string
}

const defaultClassifyTimeout = 8 * time.Second

// replyShape matches the two computational reply formats the model is
// instructed to use. The leading literal and the key are both matched
// case-insensitively.
var replyShape = regexp.MustCompile(`(?i)^(FORMULA|DATA_FETCH):\s*(\w+):`)

// Classifier decides whether a turn is theoretical, a formula computation,
// or a live-data fetch.
//
// The local keyword table gives a fast, free hint, but the authoritative
// decision is always delegated to the model: natural language is too varied
// for substring matching to be trusted on its own ("what's the interest in
// compound interest?" is theoretical). The hint is logged so the two tiers
// can be compared in production; see DESIGN.md for the short-circuit
// trade-off.
type Classifier struct {
	client  llm.Client
	config  *llm.GenerationConfig
	timeout time.Duration
}

// NewClassifier creates a classifier backed by the given model. A
// non-positive timeout falls back to the default bound; the model call is
// the pipeline's only blocking external call and must never run unbounded.
func NewClassifier(client llm.Client, modelID string, timeout time.Duration) *Classifier {
	if timeout <= 0 {
		timeout = defaultClassifyTimeout
	}
	return &Classifier{
		client:  client,
		config:  &llm.GenerationConfig{Model: modelID, MaxTokens: 512},
		timeout: timeout,
	}
}

// KeywordIntent is the local fast path: it scans the intent keyword table in
// order and returns the first formula key with a case-insensitive substring
// hit. ok is false when nothing matches.
func KeywordIntent(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, rec := range intentKeywords {
		for _, kw := range rec.Keywords {
			if strings.Contains(lower, kw) {
				return rec.Key, true
			}
		}
	}
	return "", false
}

// Classify resolves the request class for one user turn.
//
// Any failure - network, quota, timeout, or an unparseable reply - degrades
// to a theoretical classification carrying the original text. The pipeline
// must always produce some response, so errors never propagate past here.
func (c *Classifier) Classify(ctx context.Context, userText string) Classification {
	if hint, ok := KeywordIntent(userText); ok {
		log.Printf("Local keyword hint: %s", hint)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	// Explicitly a new, history-less exchange: classification must not be
	// colored by the ongoing explanation conversation.
	messages := []llm.Message{{Role: llm.RoleUser, Content: buildClassifyPrompt(userText)}}
	result, err := c.client.Generate(ctx, messages, c.config)
	if err != nil {
		log.Printf("Warning: intent classification failed, treating as theoretical: %v", err)
		return Classification{Kind: KindTheoretical, Restatement: userText}
	}

	return parseClassifyReply(result.Content, userText)
}

// parseClassifyReply tests the model's reply against the three accepted
// shapes, in order. Anything else is treated as "just answer the question".
func parseClassifyReply(reply, userText string) Classification {
	trimmed := strings.TrimSpace(reply)

	if strings.EqualFold(trimmed, "theoretical") {
		return Classification{Kind: KindTheoretical, Restatement: trimmed}
	}

	m := replyShape.FindStringSubmatch(trimmed)
	if m == nil {
		log.Printf("Unparseable classification reply %q, treating as theoretical", firstLine(trimmed))
		return Classification{Kind: KindTheoretical, Restatement: trimmed}
	}

	key := strings.ToLower(m[2])
	if !IsKnownKey(key) {
		log.Printf("Classification reply named unknown key %q, treating as theoretical", key)
		return Classification{Kind: KindTheoretical, Restatement: trimmed}
	}

	if strings.EqualFold(m[1], "data_fetch") {
		// The structured prefix stays intact: the extractor's pair-list mode
		// keys off it.
		return Classification{Kind: KindDataFetch, Formula: key, Restatement: trimmed}
	}

	// Only the "k = v" remainder reaches the free-text patterns. The literal
	// word FORMULA must never be scanned for parameters (its leading "for"
	// reads like a country phrase).
	rest := strings.TrimSpace(trimmed[len(m[0]):])
	return Classification{Kind: KindFormula, Formula: key, Restatement: rest}
}

// buildClassifyPrompt renders the fixed instruction prompt enumerating every
// valid formula/function key.
func buildClassifyPrompt(userQuestion string) string {
	return fmt.Sprintf(`You are a finance/economics assistant. Given a user question, detect the intent and respond in ONE of these three exact formats:

1. If it is a theoretical/explanatory question (no formula or data lookup needed), reply with:
THEORETICAL

2. If it is a computational query requiring a formula, reply with:
FORMULA: <formula_key>: param1 = value1, param2 = value2, ...

3. If it is a data-fetch request (stock price, currency rate, inflation, tax rate), reply with:
DATA_FETCH: <function_key>: param1 = value1, param2 = value2, ...

Use formula or function keys only from this list:
%s

Follow strictly:
- Extract all required parameters from the question.
- Use the canonical variable names, like P, r, n, t for compound interest.
- For data fetchers, detect the stock symbol, currency codes, or country code.

User question:
%s`, strings.Join(IntentKeys(), ", "), userQuestion)
}

// firstLine keeps log lines readable when a model rambles across paragraphs.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
