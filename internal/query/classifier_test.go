// In file: internal/query/classifier_test.go
package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/econosage/gateway/internal/llm"
)

// stubClient is a canned llm.Client for exercising the classifier without a
// live model.
type stubClient struct {
	reply       string
	err         error
	gotMessages []llm.Message
}

var _ llm.Client = (*stubClient)(nil)

func (s *stubClient) Generate(_ context.Context, messages []llm.Message, _ *llm.GenerationConfig) (*llm.GenerationResult, error) {
	s.gotMessages = messages
	if s.err != nil {
		return nil, s.err
	}
	return &llm.GenerationResult{Content: s.reply}, nil
}

func TestKeywordIntent(t *testing.T) {
	tests := []struct {
		text    string
		wantKey string
		wantOK  bool
	}{
		{"What will 5000 become with compound interest?", "compound_interest", true},
		{"money compounding quarterly", "compound_interest", true},
		{"calculate the net present value of this project", "npv", true},
		{"what is the share price of AAPL", "get_stock_price", true},
		{"tell me a story about a dog", "", false},
	}
	for _, tt := range tests {
		key, ok := KeywordIntent(tt.text)
		assert.Equal(t, tt.wantOK, ok, tt.text)
		assert.Equal(t, tt.wantKey, key, tt.text)
	}
}

func TestKeywordIntentSpecificPhraseWins(t *testing.T) {
	// "compound interest" must resolve before the generic "interest rate"
	// entry lower in the table gets a chance.
	key, ok := KeywordIntent("compound interest at a fixed interest rate")
	require.True(t, ok)
	assert.Equal(t, "compound_interest", key)
}

func TestClassifyFormulaReply(t *testing.T) {
	client := &stubClient{reply: "FORMULA: compound_interest: P = 5000, r = 5, t = 3, n = 4"}
	c := NewClassifier(client, "stub-model", 0)

	cls := c.Classify(context.Background(), "What will 5000 become in 3 years at 5%?")

	assert.Equal(t, KindFormula, cls.Kind)
	assert.Equal(t, "compound_interest", cls.Formula)
	assert.Contains(t, cls.Restatement, "P = 5000")
	require.Len(t, client.gotMessages, 1, "classification must be a fresh, history-less exchange")
}

func TestClassifyFormulaReplyCarriesOnlyRemainder(t *testing.T) {
	client := &stubClient{reply: "FORMULA: compound_interest: P = 5000, r = 5, t = 3, n = 4"}
	c := NewClassifier(client, "stub-model", 0)

	cls := c.Classify(context.Background(), "grow 5000 at 5% for 3 years")

	assert.Equal(t, "P = 5000, r = 5, t = 3, n = 4", cls.Restatement,
		"the reply prefix must never reach the parameter patterns")
}

func TestClassifyDataFetchReplyKeepsStructuredPrefix(t *testing.T) {
	client := &stubClient{reply: "DATA_FETCH: get_gst_rate: country_code = IN"}
	c := NewClassifier(client, "stub-model", 0)

	cls := c.Classify(context.Background(), "gst rate in india")

	assert.Equal(t, KindDataFetch, cls.Kind)
	assert.Equal(t, "DATA_FETCH: get_gst_rate: country_code = IN", cls.Restatement)
}

func TestClassifyDataFetchReply(t *testing.T) {
	client := &stubClient{reply: "DATA_FETCH: get_stock_price: stock_symbol = TSLA"}
	c := NewClassifier(client, "stub-model", 0)

	cls := c.Classify(context.Background(), "what is tesla trading at")

	assert.Equal(t, KindDataFetch, cls.Kind)
	assert.Equal(t, "get_stock_price", cls.Formula)
}

func TestClassifyTheoreticalReply(t *testing.T) {
	client := &stubClient{reply: "THEORETICAL"}
	c := NewClassifier(client, "stub-model", 0)

	cls := c.Classify(context.Background(), "why do interest rates exist")

	assert.Equal(t, KindTheoretical, cls.Kind)
	assert.Empty(t, cls.Formula)
}

func TestClassifyReplyKeyIsCaseInsensitive(t *testing.T) {
	client := &stubClient{reply: "formula: Compound_Interest: P = 100"}
	c := NewClassifier(client, "stub-model", 0)

	cls := c.Classify(context.Background(), "compound interest on 100")

	assert.Equal(t, KindFormula, cls.Kind)
	assert.Equal(t, "compound_interest", cls.Formula)
}

func TestClassifyUnknownKeyDegrades(t *testing.T) {
	client := &stubClient{reply: "FORMULA: quantum_finance: x = 1"}
	c := NewClassifier(client, "stub-model", 0)

	cls := c.Classify(context.Background(), "do quantum finance on 1")

	assert.Equal(t, KindTheoretical, cls.Kind, "a key outside the table must never pass through")
	assert.Empty(t, cls.Formula)
}

func TestClassifyUnparseableReplyDegrades(t *testing.T) {
	client := &stubClient{reply: "Sure! Let me think about compound interest for you..."}
	c := NewClassifier(client, "stub-model", 0)

	cls := c.Classify(context.Background(), "compound interest on 100")

	assert.Equal(t, KindTheoretical, cls.Kind)
}

func TestClassifyErrorDegradesWithOriginalText(t *testing.T) {
	const question = "What will 5000 become with compound interest?"
	client := &stubClient{err: errors.New("quota exceeded")}
	c := NewClassifier(client, "stub-model", 0)

	cls := c.Classify(context.Background(), question)

	assert.Equal(t, KindTheoretical, cls.Kind)
	assert.Equal(t, question, cls.Restatement,
		"degradation must hand the original text to the explainer")
}

// slowClient blocks until its context is cancelled, simulating a hung model.
type slowClient struct{}

func (slowClient) Generate(ctx context.Context, _ []llm.Message, _ *llm.GenerationConfig) (*llm.GenerationResult, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestClassifyTimeoutDegrades(t *testing.T) {
	c := NewClassifier(slowClient{}, "stub-model", 50*time.Millisecond)

	start := time.Now()
	cls := c.Classify(context.Background(), "compound interest on 100")

	assert.Equal(t, KindTheoretical, cls.Kind)
	assert.Less(t, time.Since(start), 2*time.Second, "the timeout must bound the call")
}

func TestClassifyPromptEnumeratesKeys(t *testing.T) {
	client := &stubClient{reply: "THEORETICAL"}
	c := NewClassifier(client, "stub-model", 0)

	c.Classify(context.Background(), "anything")

	require.Len(t, client.gotMessages, 1)
	prompt := client.gotMessages[0].Content
	for _, key := range []string{"compound_interest", "npv", "get_stock_price", "get_gst_rate"} {
		assert.Contains(t, prompt, key)
	}
}
