package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/davidbz/promptsmith/internal/domain"
	"github.com/davidbz/promptsmith/internal/observability"
)

const (
	maxBodyBytes = 1 << 20

	connectionCheckTimeout = 5 * time.Second

	headerCache = "X-Promptsmith-Cache"
)

// Handler handles HTTP requests.
type Handler struct {
	optimizer domain.Optimizer
	catalog   domain.ModelCatalog
}

// NewHandler creates a new HTTP handler (DI constructor).
func NewHandler(optimizer domain.Optimizer, catalog domain.ModelCatalog) *Handler {
	return &Handler{
		optimizer: optimizer,
		catalog:   catalog,
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// HandleOptimize processes optimization requests.
func (h *Handler) HandleOptimize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Early validation.
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	// Parse request.
	var req domain.OptimizationRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	ctx = observability.WithModel(ctx, req.TargetModel)

	logger := observability.FromContext(ctx)
	logger.Info("optimization request received",
		observability.String("level", string(req.Level)),
		observability.Int("prompt_length", len(req.Prompt)),
		observability.Int("overrides", len(req.RuleOverrides)),
	)

	result, err := h.optimizer.Optimize(ctx, &req)
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			writeError(w, http.StatusBadRequest, errorResponse{Error: vErr.Message, Field: vErr.Field})
			return
		}

		logger.Error("optimization failed", observability.Error(err))
		writeError(w, http.StatusInternalServerError, errorResponse{Error: "optimization failed"})
		return
	}

	setCacheHeaders(w, result)
	writeJSON(ctx, w, http.StatusOK, result)
}

// setCacheHeaders reports whether the result came from the result cache.
func setCacheHeaders(w http.ResponseWriter, result *domain.OptimizationResult) {
	if result == nil {
		return
	}

	if result.CacheHit {
		w.Header().Set(headerCache, "HIT")
		return
	}
	w.Header().Set(headerCache, "MISS")
}

// ModelEntry is one model id and its provider.
type ModelEntry struct {
	ID       string `json:"id"`
	Provider string `json:"provider"`
}

// ProviderEntry describes one adapter.
type ProviderEntry struct {
	Name      string   `json:"name"`
	Provider  string   `json:"provider"`
	Version   string   `json:"version"`
	MaxTokens int      `json:"max_tokens"`
	Roles     []string `json:"roles"`
	Models    []string `json:"models"`
	Connected *bool    `json:"connected,omitempty"`
}

// ModelsResponse is the body of GET /v1/models.
type ModelsResponse struct {
	Models    []ModelEntry    `json:"models"`
	Providers []ProviderEntry `json:"providers"`
}

// HandleModels lists the supported models. With check=true every adapter probes its
// upstream API.
func (h *Handler) HandleModels(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	check := false
	if raw := r.URL.Query().Get("check"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, errorResponse{Error: "check must be a boolean", Field: "check"})
			return
		}
		check = parsed
	}

	adapters, err := h.catalog.Catalog(ctx)
	if err != nil {
		observability.FromContext(ctx).Error("failed to list models", observability.Error(err))
		writeError(w, http.StatusInternalServerError, errorResponse{Error: "failed to list models"})
		return
	}

	writeJSON(ctx, w, http.StatusOK, DescribeModels(ctx, adapters, check))
}

// DescribeModels builds the model listing for adapters.
func DescribeModels(ctx context.Context, adapters []domain.ModelAdapter, check bool) ModelsResponse {
	resp := ModelsResponse{
		Models:    []ModelEntry{},
		Providers: make([]ProviderEntry, 0, len(adapters)),
	}

	for _, adapter := range adapters {
		info := adapter.Info()
		models := append([]string(nil), adapter.SupportedModels()...)
		sort.Strings(models)

		roles := make([]string, 0, len(adapter.SupportedRoles()))
		for _, role := range adapter.SupportedRoles() {
			roles = append(roles, string(role))
		}

		entry := ProviderEntry{
			Name:      info.Name,
			Provider:  info.Provider,
			Version:   info.Version,
			MaxTokens: adapter.MaxTokens(),
			Roles:     roles,
			Models:    models,
		}

		if check {
			checkCtx, cancel := context.WithTimeout(ctx, connectionCheckTimeout)
			connected := adapter.CheckConnection(checkCtx)
			cancel()
			entry.Connected = &connected
		}

		resp.Providers = append(resp.Providers, entry)
		for _, model := range models {
			resp.Models = append(resp.Models, ModelEntry{ID: model, Provider: info.Provider})
		}
	}

	return resp
}

// HandleHealth handles health check requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
	}); err != nil {
		// Already written status, can't change it, just log.
		return
	}
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		observability.FromContext(ctx).Error("failed to encode response", observability.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, body errorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
