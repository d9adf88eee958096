package main

import (
	"encoding/json"
	"net/http"

	"claimcheck/config"
	"claimcheck/engine"
	"claimcheck/services"
)

// maxTextLength bounds enhancement request bodies; anything longer is a
// paste mistake, not prose to analyze.
const maxTextLength = 50_000

// APIHandler handles HTTP API requests
type APIHandler struct {
	app *App
	cfg *config.Config
}

// NewAPIHandler creates a new APIHandler
func NewAPIHandler(app *App, cfg *config.Config) *APIHandler {
	return &APIHandler{app: app, cfg: cfg}
}

// EnhanceRequest is the enhancement request body. Optional booleans are
// pointers so an omitted field takes the default rather than false.
type EnhanceRequest struct {
	Text              string  `json:"text"`
	PreferredProvider string  `json:"preferred_provider,omitempty"`
	RunCompliance     *bool   `json:"run_compliance,omitempty"`
	MinConfidence     float64 `json:"min_confidence,omitempty"`
	UseCache          *bool   `json:"use_cache,omitempty"`
}

// handleEnhance runs the pipeline over the submitted text
func (h *APIHandler) handleEnhance(w http.ResponseWriter, r *http.Request) {
	var req EnhanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	if req.Text == "" {
		h.jsonError(w, "text is required", http.StatusBadRequest)
		return
	}
	if len(req.Text) > maxTextLength {
		h.jsonError(w, "text too long", http.StatusRequestEntityTooLarge)
		return
	}
	if req.MinConfidence < 0 || req.MinConfidence > 1 {
		h.jsonError(w, "min_confidence must be between 0 and 1", http.StatusBadRequest)
		return
	}

	opts := engine.DefaultOptions()
	opts.PreferredProvider = req.PreferredProvider
	opts.MinConfidence = req.MinConfidence
	if req.RunCompliance != nil {
		opts.RunCompliance = *req.RunCompliance
	}
	if req.UseCache != nil {
		opts.CacheEnabled = *req.UseCache
	}

	report, err := h.app.Enhance(r.Context(), req.Text, opts)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.jsonResponse(w, report)
}

// handleHealth returns the health of the service and its providers
func (h *APIHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	providerStatus := h.app.ProviderStatus(r.Context())

	llm := "degraded"
	for _, healthy := range providerStatus {
		if healthy {
			llm = "ok"
			break
		}
	}
	if len(providerStatus) == 0 {
		llm = "pattern_only"
	}

	status := map[string]interface{}{
		"status":    "ok",
		"llm":       llm,
		"providers": providerStatus,
		"breakers":  services.GetGlobalRegistry().Status(),
		"sources": map[string]string{
			"quotes":     h.app.gateway.QuoteSourceName(),
			"indicators": h.app.gateway.IndicatorSourceName(),
		},
	}

	h.jsonResponse(w, status)
}

func (h *APIHandler) jsonResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func (h *APIHandler) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
