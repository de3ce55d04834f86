// Package frontdoor implements the /should-i-buy request pipeline: header
// checks, quota gate, payload validation, prompt synthesis, the upstream
// completion call, and validation of the returned decision. Every stage
// fails fast into one terminal response; nothing is retried.
package frontdoor

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/pezo-app/pezo-ai-gateway/internal/api/openai"
	"github.com/pezo-app/pezo-ai-gateway/internal/decision"
	"github.com/pezo-app/pezo-ai-gateway/internal/prompt"
	"github.com/pezo-app/pezo-ai-gateway/internal/quota"
	"github.com/pezo-app/pezo-ai-gateway/internal/server"
	"github.com/pezo-app/pezo-ai-gateway/internal/tokens"
)

// Request headers the client app must send.
const (
	HeaderApp      = "X-PEZO-APP"
	HeaderClientID = "X-CLIENT-ID"
)

// Fixed decoding settings for the upstream call: low temperature for
// determinism, structured JSON output, capped token budget.
const (
	upstreamTemperature = 0.2
	upstreamMaxTokens   = 500
)

type Handler struct {
	client    *openai.Client
	gate      *quota.Gate
	counter   *tokens.Counter
	appSecret string
	model     string
	logger    *slog.Logger
}

// NewHandler wires the pipeline. client may be nil when the upstream
// credential is not configured; requests then fail with the configuration
// error instead of crashing at boot.
func NewHandler(client *openai.Client, gate *quota.Gate, counter *tokens.Counter, appSecret, model string, logger *slog.Logger) *Handler {
	return &Handler{
		client:    client,
		gate:      gate,
		counter:   counter,
		appSecret: appSecret,
		model:     model,
		logger:    logger,
	}
}

// HandleShouldIBuy runs the five pipeline stages in order. Routing and
// preflight are handled by the router and CORS middleware before this point.
func (h *Handler) HandleShouldIBuy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID, _ := ctx.Value(server.RequestIDKey).(string)

	// App identity: a static shared-secret check, not authentication.
	if r.Header.Get(HeaderApp) != h.appSecret {
		server.WriteError(w, http.StatusUnauthorized, "Unauthorized: Invalid app header", "")
		return
	}

	// Client identifier: opaque, used only as the rate-limiting key.
	clientID := r.Header.Get(HeaderClientID)
	if clientID == "" {
		server.WriteError(w, http.StatusBadRequest, "Missing X-CLIENT-ID header", "")
		return
	}
	server.AddLogField(ctx, "client_id", clientID)

	res := h.gate.Check(ctx, clientID, time.Now())
	if res.Tracked {
		remaining := res.Limit - res.Used
		if remaining < 0 {
			remaining = 0
		}
		server.SetRateLimits(ctx, res.Limit, remaining)
	}
	if !res.Allowed {
		server.WriteError(w, http.StatusTooManyRequests, "Rate limit exceeded",
			fmt.Sprintf("Maximum %d requests per day. Please try again tomorrow.", res.Limit))
		return
	}

	var req decision.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.AddError(ctx, err)
		server.WriteError(w, http.StatusBadRequest, "Invalid JSON body", "")
		return
	}

	if field, missing := req.MissingField(); missing {
		server.WriteError(w, http.StatusBadRequest, "Missing required field: "+field, "")
		return
	}

	if h.client == nil {
		h.logger.Error("openai api key not configured", slog.String("request_id", requestID))
		server.WriteError(w, http.StatusInternalServerError, "Server configuration error", "")
		return
	}

	systemPrompt, userPrompt := prompt.Build(&req)

	if h.counter != nil {
		if n, err := h.counter.CountText(h.model, systemPrompt+userPrompt); err == nil {
			h.logger.Info("prompt built",
				slog.String("request_id", requestID),
				slog.Int("prompt_tokens_estimate", n),
			)
		}
	}

	resp, err := h.client.CreateChatCompletion(ctx, &openai.ChatCompletionRequest{
		Model: h.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature:    openai.Temperature(upstreamTemperature),
		MaxTokens:      upstreamMaxTokens,
		ResponseFormat: &openai.ResponseFormat{Type: "json_object"},
	})
	if err != nil {
		// Upstream failure bodies are logged, never surfaced to the caller.
		attrs := []slog.Attr{
			slog.String("request_id", requestID),
			slog.String("error", err.Error()),
		}
		var statusErr *openai.StatusError
		if errors.As(err, &statusErr) {
			attrs = append(attrs, slog.String("upstream_body", statusErr.Body))
		}
		h.logger.LogAttrs(ctx, slog.LevelError, "openai api error", attrs...)
		server.AddError(ctx, err)
		server.WriteError(w, http.StatusBadGateway, "AI service unavailable", "Failed to get AI decision")
		return
	}

	content := resp.FirstContent()
	if content == "" {
		server.WriteError(w, http.StatusBadGateway, "Invalid AI response", "AI did not return a valid response")
		return
	}

	d, err := decision.ParseModelOutput(content)
	if err != nil {
		server.AddError(ctx, err)
		if errors.Is(err, decision.ErrMalformed) {
			h.logger.Error("failed to parse AI response",
				slog.String("request_id", requestID),
				slog.String("raw", content),
			)
			server.WriteError(w, http.StatusBadGateway, "Invalid AI response format", "AI returned invalid JSON")
			return
		}
		server.WriteError(w, http.StatusBadGateway, "Invalid AI response structure", "AI response does not match expected format")
		return
	}

	server.AddLogField(ctx, "decision", d.Decision)
	server.SuccessCORSHeaders(w)
	server.WriteJSON(w, http.StatusOK, d)
}
