package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"skysight/internal/domain"
	"skysight/internal/service"
)

// StrategyHandler handles strategy API requests
type StrategyHandler struct {
	svc *service.StrategyService
}

// NewStrategyHandler creates a new strategy handler
func NewStrategyHandler(svc *service.StrategyService) *StrategyHandler {
	return &StrategyHandler{svc: svc}
}

// StrategyRequest is the body of create and update requests
type StrategyRequest struct {
	Name   string        `json:"name"`
	Camera string        `json:"camera"`
	Slews  []domain.Slew `json:"slews"`
}

// List returns all strategies
func (h *StrategyHandler) List(w http.ResponseWriter, r *http.Request) {
	strategies, err := h.svc.List(r.Context())
	if err != nil {
		log.Printf("Failed to list strategies: %v", err)
		writeError(w, "Failed to list strategies", err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, strategies, http.StatusOK)
}

// Create stores a new strategy
func (h *StrategyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req StrategyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	strat, err := h.svc.Create(r.Context(), req.Name, req.Camera, req.Slews)
	if err != nil {
		if isNotFound(err) {
			writeError(w, "Not found", err.Error(), http.StatusNotFound)
			return
		}
		writeError(w, "Failed to create strategy", err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, strat, http.StatusCreated)
}

// Get returns a single strategy
func (h *StrategyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	strat, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			writeError(w, "Not found", err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("Failed to get strategy: %v", err)
		writeError(w, "Failed to get strategy", err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, strat, http.StatusOK)
}

// Update renames a strategy or replaces its slews
func (h *StrategyHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req StrategyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	strat, err := h.svc.Update(r.Context(), id, req.Name, req.Slews)
	if err != nil {
		if isNotFound(err) {
			writeError(w, "Not found", err.Error(), http.StatusNotFound)
			return
		}
		writeError(w, "Failed to update strategy", err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, strat, http.StatusOK)
}

// Delete removes a strategy
func (h *StrategyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.svc.Delete(r.Context(), id); err != nil {
		log.Printf("Failed to delete strategy: %v", err)
		writeError(w, "Failed to delete strategy", err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
