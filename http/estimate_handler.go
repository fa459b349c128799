package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"cost-seer/domain"
	"cost-seer/service"
)

// maxBodyBytes caps request bodies; a parameter vector is well under 1KB.
const maxBodyBytes = 4 << 10

type EstimateHandler struct {
	engine *service.EstimationEngine
	store  *service.EstimateStore
	logger *slog.Logger
}

func NewEstimateHandler(
	engine *service.EstimationEngine,
	store *service.EstimateStore,
	logger *slog.Logger,
) *EstimateHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &EstimateHandler{engine: engine, store: store, logger: logger}
}

type estimateResponse struct {
	Parameters domain.ParameterVector       `json:"parameters"`
	Amount     int64                        `json:"amount"`
	Formatted  string                       `json:"formatted"`
	Factors    []service.FactorContribution `json:"factors"`
}

func (h *EstimateHandler) Languages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.writeJSON(w, http.StatusOK, h.engine.LanguageOptions())
}

func (h *EstimateHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !isJSON(r) {
		http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
		return
	}

	var input domain.ParameterVector
	if err := decodeBody(w, r, &input); err != nil {
		h.logger.Debug("decode estimate request", "error", err)
		writeDecodeError(w, err)
		return
	}

	estimate, err := h.engine.Estimate(input)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, estimateResponse{
		Parameters: estimate.Parameters,
		Amount:     estimate.Amount,
		Formatted:  service.FormatCurrency(estimate.Amount),
		Factors:    service.FactorContributions(estimate.Parameters),
	})
}

// Projects lists (GET) or saves (POST) the caller's estimates.
func (h *EstimateHandler) Projects(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listProjects(w, r)
	case http.MethodPost:
		h.saveProject(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *EstimateHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		http.Error(w, "project id is required", http.StatusBadRequest)
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *EstimateHandler) listProjects(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, list)
}

func (h *EstimateHandler) saveProject(w http.ResponseWriter, r *http.Request) {
	if !isJSON(r) {
		http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
		return
	}

	var input domain.Estimate
	if err := decodeBody(w, r, &input); err != nil {
		h.logger.Debug("decode save request", "error", err)
		writeDecodeError(w, err)
		return
	}
	if err := service.Validate(input.Parameters); err != nil {
		h.writeError(w, err)
		return
	}

	saved, err := h.store.Append(r.Context(), input)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if saved == nil {
		// Sin identidad no se persiste nada
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.writeJSON(w, http.StatusCreated, saved)
}

func (h *EstimateHandler) writeError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	var perr *domain.PersistenceError
	switch {
	case errors.As(err, &verr):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &perr):
		h.logger.Error("persistence failure", "op", perr.Op, "error", perr.Err)
		http.Error(w, "storage unavailable", http.StatusInternalServerError)
	default:
		h.logger.Error("request failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// writeJSON encodes into a buffer first so a failed encode never leaves a
// half-written 200.
func (h *EstimateHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		h.logger.Error("encode response", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("write response", "error", err)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func writeDecodeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}
	http.Error(w, "invalid request body", http.StatusBadRequest)
}

func isJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Content-Type"), "application/json")
}
