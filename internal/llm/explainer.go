// In file: internal/llm/explainer.go
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/econosage/gateway/internal/api"
)

// ExplainInput carries everything the explainer needs for one turn.
type ExplainInput struct {
	// Question is the user's original, untranslated question.
	Question string
	// ComputedResult is the locally evaluated value, empty for theoretical
	// questions answered directly by the model.
	ComputedResult string
	// FormulaUsed is the human-readable formula string from the evaluator.
	FormulaUsed string
	// Region is the two-letter region code governing the answer's defaults
	// (currency symbols, tax terminology).
	Region string
	// LangCode, when set, asks the model to answer in the user's language.
	LangCode string
}

// Explainer turns computed results (or plain questions) into tutor-style
// natural-language answers, keeping conversation history per session.
//
// The history is threaded through each call rather than held in a package
// global, so any number of user sessions can run concurrently; the caller
// owns persistence of the returned history.
type Explainer struct {
	client Client
	config *GenerationConfig
}

func NewExplainer(client Client, modelID string) *Explainer {
	return &Explainer{
		client: client,
		config: &GenerationConfig{Model: modelID},
	}
}

// Explain answers a turn. It returns the answer, the updated conversation
// history (input history plus this exchange), and token usage.
func (e *Explainer) Explain(ctx context.Context, history []Message, input ExplainInput) (string, []Message, api.Usage, error) {
	prompt := buildExplainPrompt(input)

	messages := append(append([]Message{}, history...), Message{Role: RoleUser, Content: prompt})
	result, err := e.client.Generate(ctx, messages, e.config)
	if err != nil {
		return "", history, api.Usage{}, fmt.Errorf("explainer generation failed: %w", err)
	}

	updated := append(messages, Message{Role: RoleAssistant, Content: result.Content})
	return result.Content, updated, result.Usage, nil
}

// buildExplainPrompt renders the fixed tutor instruction for one turn.
func buildExplainPrompt(input ExplainInput) string {
	var b strings.Builder
	b.WriteString("You are EconoSage, a friendly finance and economics tutor.\n")

	if input.ComputedResult != "" {
		b.WriteString("A deterministic calculation has already been performed for the user's question.\n")
		fmt.Fprintf(&b, "Formula used: %s\n", input.FormulaUsed)
		fmt.Fprintf(&b, "Computed result: %s\n", input.ComputedResult)
		b.WriteString("Explain what this result means in plain language. Do not recompute it; trust the value given.\n")
	} else {
		b.WriteString("Answer the user's question clearly, with a short worked example where it helps.\n")
	}

	if input.Region != "" {
		fmt.Fprintf(&b, "Use conventions for region %s (currency, tax terminology).\n", input.Region)
	}
	if input.LangCode != "" && !strings.HasPrefix(strings.ToLower(input.LangCode), "en") {
		fmt.Fprintf(&b, "Write your entire answer in the user's language (language code: %s).\n", input.LangCode)
	}

	fmt.Fprintf(&b, "\nUser question:\n%s\n", input.Question)
	return b.String()
}
