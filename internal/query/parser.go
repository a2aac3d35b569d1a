// In file: internal/query/parser.go
package query

import (
	"context"
	"log"
)

// ParsedQuery is the orchestrator's output for one user turn. It is created
// fresh per turn, owned exclusively by the caller, and never persisted.
//
// Invariant: when IsTheoretical is true, Formula is empty and Params is
// empty. When Formula is set, it is a key from the intent keyword table that
// the configured registry also supports.
type ParsedQuery struct {
	IsTheoretical bool
	Kind          Kind
	Formula       string
	Params        ParamMap
	Region        string
}

// Parser composes region resolution, intent classification and parameter
// extraction into the single entry point the chat handler consumes. It
// performs no I/O of its own beyond delegating to the classifier; all
// resilience lives in the classifier's degradation path.
type Parser struct {
	classifier *Classifier
	// supports reports whether the downstream registry can actually execute
	// a key. Injected as a plain func to keep this package free of a
	// dependency on the evaluator; nil means "trust the intent table".
	supports func(key string) bool
}

func NewParser(classifier *Classifier, supports func(key string) bool) *Parser {
	return &Parser{classifier: classifier, supports: supports}
}

// Parse resolves one user turn. It never returns an error: every failure
// path inside the pipeline degrades to a theoretical classification, which
// downstream answers as a plain question.
func (p *Parser) Parse(ctx context.Context, userText, langCode string) *ParsedQuery {
	// Region resolution is independent of classification and reads the
	// original text, not the model's restatement.
	region := DetectRegion(userText, langCode)

	cls := p.classifier.Classify(ctx, userText)

	if cls.Kind != KindTheoretical && p.supports != nil && !p.supports(cls.Formula) {
		// The intent table and the registry have drifted apart. Degrading is
		// safer than sending a key downstream that nothing can execute.
		log.Printf("Warning: classified key %q is not executable, treating as theoretical", cls.Formula)
		cls = Classification{Kind: KindTheoretical, Restatement: userText}
	}

	if cls.Kind == KindTheoretical {
		return &ParsedQuery{
			IsTheoretical: true,
			Kind:          KindTheoretical,
			Params:        ParamMap{},
			Region:        region,
		}
	}

	return &ParsedQuery{
		Kind:    cls.Kind,
		Formula: cls.Formula,
		Params:  ExtractParams(cls.Restatement),
		Region:  region,
	}
}
