// In file: cmd/gateway/handler.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/econosage/gateway/internal/api"
	"github.com/econosage/gateway/internal/formula"
	"github.com/econosage/gateway/internal/llm"
	"github.com/econosage/gateway/internal/marketdata"
	"github.com/econosage/gateway/internal/query"
	"github.com/econosage/gateway/internal/session"
)

// =================================================================================
// The chat handler runs one full turn of the EconoSage pipeline:
//
//  1. Parse the question: resolve region, classify intent, extract parameters.
//  2. Theoretical questions go straight to the explanation tier.
//  3. Formula questions are enriched with live data where possible, then
//     evaluated deterministically; the numeric result is handed to the
//     explanation tier so the model explains but never computes.
//  4. Data-fetch questions call the matching live-data source directly.
//
// One-off turns (no conversation ID) are served from the response cache when
// possible; conversational turns always run fresh so history stays coherent.
// =================================================================================

type GatewayHandler struct {
	parser    *query.Parser
	market    *marketdata.Manager
	explainer *llm.Explainer
	sessions  *session.Store
	respCache *llm.ResponseCache
	config    *AppConfig
}

func NewGatewayHandler(parser *query.Parser, market *marketdata.Manager, explainer *llm.Explainer, sessions *session.Store, respCache *llm.ResponseCache, config *AppConfig) *GatewayHandler {
	return &GatewayHandler{
		parser:    parser,
		market:    market,
		explainer: explainer,
		sessions:  sessions,
		respCache: respCache,
		config:    config,
	}
}

// HandleChat is the endpoint for POST /api/v1/chat.
func (h *GatewayHandler) HandleChat(c *gin.Context) {
	start := time.Now()

	var req api.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	ctx := c.Request.Context()

	// One-off questions are cacheable; conversational turns depend on
	// history and are not.
	oneOff := req.ConversationID == ""
	cacheInput := req.Message + "|" + req.LangCode
	if oneOff {
		if cached, ok := h.respCache.Check(ctx, cacheInput); ok {
			log.Printf("✅ Response cache HIT for user %s", req.UserID)
			c.JSON(http.StatusOK, api.ChatResponse{
				Answer:      cached,
				Region:      query.DetectRegion(req.Message, req.LangCode),
				CacheStatus: "HIT",
				LatencyMS:   time.Since(start).Milliseconds(),
			})
			return
		}
	}

	parsed := h.parser.Parse(ctx, req.Message, req.LangCode)
	history := h.sessions.Load(ctx, req.ConversationID)

	resp := api.ChatResponse{
		IsTheoretical: parsed.IsTheoretical,
		Region:        parsed.Region,
		ModelUsed:     h.config.Pipeline.ExplainerModel,
		CacheStatus:   "MISS",
	}
	explainInput := llm.ExplainInput{
		Question: req.Message,
		Region:   parsed.Region,
		LangCode: req.LangCode,
	}

	if !parsed.IsTheoretical {
		value, desc, params, err := h.compute(ctx, parsed)
		if err != nil {
			answer, ok := missingParamsReply(err)
			if !ok {
				log.Printf("❌ Computation failed for %q: %v", parsed.Formula, err)
				answer = "Sorry, I couldn't complete that calculation. Please check the values you provided and try again."
			}
			h.finishWithoutModel(c, req, resp, history, answer, start)
			return
		}

		resp.Formula = parsed.Formula
		resp.Result = &value
		resp.FormulaText = desc
		resp.Params = params
		explainInput.ComputedResult = strconv.FormatFloat(value, 'g', -1, 64)
		explainInput.FormulaUsed = desc
	}

	answer, updatedHistory, usage, err := h.explainer.Explain(ctx, history, explainInput)
	if err != nil {
		log.Printf("❌ Explainer failed for user %s: %v", req.UserID, err)
		if resp.Result != nil {
			// The math already succeeded: degrade to the bare result rather
			// than failing a turn that has an answer.
			answer = fmt.Sprintf("%s = %s", resp.FormulaText, explainInput.ComputedResult)
			h.finishWithoutModel(c, req, resp, history, answer, start)
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "The answer service is temporarily unavailable. Please try again."})
		return
	}

	h.sessions.Save(ctx, req.ConversationID, updatedHistory)
	if oneOff {
		h.respCache.Set(ctx, cacheInput, answer)
	}

	resp.Answer = answer
	resp.Usage = usage
	resp.LatencyMS = time.Since(start).Milliseconds()
	c.JSON(http.StatusOK, resp)
}

// compute runs the deterministic half of a non-theoretical turn and returns
// the value, its human-readable description, and the final parameter map
// (after enrichment and region defaults).
func (h *GatewayHandler) compute(ctx context.Context, parsed *query.ParsedQuery) (float64, string, map[string]any, error) {
	params := parsed.Params.Clone()

	if parsed.Kind == query.KindDataFetch {
		// Region-dependent default: country-keyed fetches fall back to the
		// resolved region when the user named no country.
		for _, req := range h.market.Requires(parsed.Formula) {
			if req != "country_code" {
				continue
			}
			if _, present := params["country_code"]; !present {
				params["country_code"] = parsed.Region
			}
		}
		value, desc, err := h.market.Execute(ctx, parsed.Formula, params)
		return value, desc, params, err
	}

	enriched := h.market.Enrich(ctx, params)
	value, desc, err := formula.Execute(parsed.Formula, enriched)
	return value, desc, enriched, err
}

// finishWithoutModel completes a turn whose answer was produced locally,
// with no explainer exchange: record the turn in history, echo it to the
// client, and skip the response cache (local answers are cheap to rebuild).
func (h *GatewayHandler) finishWithoutModel(c *gin.Context, req api.ChatRequest, resp api.ChatResponse, history []llm.Message, answer string, start time.Time) {
	updated := append(append([]llm.Message{}, history...),
		llm.Message{Role: llm.RoleUser, Content: req.Message},
		llm.Message{Role: llm.RoleAssistant, Content: answer},
	)
	h.sessions.Save(c.Request.Context(), req.ConversationID, updated)

	resp.Answer = answer
	resp.ModelUsed = ""
	resp.LatencyMS = time.Since(start).Milliseconds()
	c.JSON(http.StatusOK, resp)
}

// missingParamsReply turns a structured missing-parameter error from either
// the formula registry or a data fetcher into a follow-up question.
func missingParamsReply(err error) (string, bool) {
	if mpe, ok := formula.AsMissingParams(err); ok {
		return fmt.Sprintf("To calculate %s, please also provide: %s.",
			strings.ReplaceAll(mpe.Formula, "_", " "), strings.Join(mpe.Missing, ", ")), true
	}
	var mie *marketdata.MissingInputsError
	if errors.As(err, &mie) {
		return fmt.Sprintf("To look that up, please also provide: %s.",
			strings.Join(mie.Missing, ", ")), true
	}
	return "", false
}
