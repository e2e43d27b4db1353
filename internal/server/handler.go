package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"GrowthLens/internal/analyzer"
	"GrowthLens/internal/model"
	"GrowthLens/internal/universe"
)

// Analyzer is the slice of the engine the HTTP layer depends on.
type Analyzer interface {
	Analyze(ctx context.Context, req model.Request) (*model.Analysis, error)
}

// Handler serves the analysis API.
type Handler struct {
	analyzer     Analyzer
	registry     *universe.Registry
	providerName string
}

func NewHandler(a Analyzer, reg *universe.Registry, providerName string) *Handler {
	return &Handler{analyzer: a, registry: reg, providerName: providerName}
}

// errorResponse mirrors the {detail: ...} error body clients already expect.
type errorResponse struct {
	Detail string `json:"detail"`
}

// HandleAnalyzeGrowth runs one growth analysis batch.
func (h *Handler) HandleAnalyzeGrowth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Detail: "method not allowed"})
		return
	}

	var req model.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid request body: " + err.Error()})
		return
	}

	analysis, err := h.analyzer.Analyze(r.Context(), req)
	if err != nil {
		var verr *analyzer.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Detail: verr.Msg})
			return
		}
		log.Printf("[WARN] analysis failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

// HandleProviders reports the active provider.
func (h *Handler) HandleProviders(w http.ResponseWriter, r *http.Request) {
	notes := "Default provider (no API key required)"
	if h.providerName != "stooq" {
		notes = "Requires API key"
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"active_provider": h.providerName,
		"notes":           notes,
	})
}

// HandleUniverses lists the registered universe keys.
func (h *Handler) HandleUniverses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"universes": h.registry.Keys()})
}

// HandleHealth is the liveness probe.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Healthy"})
}

// Routes wires the handler into a mux wrapped with CORS and request logging.
func (h *Handler) Routes(allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/analyze-growth", h.HandleAnalyzeGrowth)
	mux.HandleFunc("/providers", h.HandleProviders)
	mux.HandleFunc("/universes", h.HandleUniverses)
	mux.HandleFunc("/health", h.HandleHealth)
	return withRequestLog(withCORS(allowedOrigins, mux))
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[WARN] encode response: %v", err)
	}
}
