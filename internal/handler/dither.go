package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"skysight/internal/domain"
	"skysight/internal/service"
)

// DitherHandler handles evaluation and optimization API requests
type DitherHandler struct {
	svc *service.DitherService
}

// NewDitherHandler creates a new dither handler
func NewDitherHandler(svc *service.DitherService) *DitherHandler {
	return &DitherHandler{svc: svc}
}

// EvaluateStrategy computes and stores a report for a saved strategy
func (h *DitherHandler) EvaluateStrategy(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	report, err := h.svc.EvaluateStrategy(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			writeError(w, "Not found", err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("Failed to evaluate strategy: %v", err)
		writeError(w, "Failed to evaluate strategy", err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, report, http.StatusOK)
}

// EvaluateRequest is the body of ad hoc evaluation requests. BufferDeg
// optionally grows (or shrinks, when negative) the footprint before
// evaluation.
type EvaluateRequest struct {
	Camera    string        `json:"camera"`
	Slews     []domain.Slew `json:"slews"`
	BufferDeg float64       `json:"buffer_deg,omitempty"`
}

// Evaluate computes a report for a camera and slew sequence that is
// not stored as a strategy
func (h *DitherHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	if req.Camera == "" {
		writeError(w, "Invalid request", "Camera name is required", http.StatusBadRequest)
		return
	}
	if len(req.Slews) == 0 {
		writeError(w, "Invalid request", "At least one slew is required", http.StatusBadRequest)
		return
	}

	report, err := h.svc.EvaluateAdhoc(r.Context(), req.Camera, req.Slews, req.BufferDeg)
	if err != nil {
		if isNotFound(err) {
			writeError(w, "Not found", err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("Failed to evaluate: %v", err)
		writeError(w, "Failed to evaluate", err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, report, http.StatusOK)
}

// Optimize runs a searcher and returns the best strategy found
func (h *DitherHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	var params service.OptimizeParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	if params.CameraName == "" {
		writeError(w, "Invalid request", "Camera name is required", http.StatusBadRequest)
		return
	}

	result, err := h.svc.Optimize(r.Context(), params)
	if err != nil {
		if isNotFound(err) {
			writeError(w, "Not found", err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("Optimization failed: %v", err)
		writeError(w, "Optimization failed", err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, result, http.StatusOK)
}

// ListReports returns stored reports, optionally filtered by strategy
func (h *DitherHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	strategyID := r.URL.Query().Get("strategy_id")

	reports, err := h.svc.ListReports(r.Context(), strategyID)
	if err != nil {
		log.Printf("Failed to list reports: %v", err)
		writeError(w, "Failed to list reports", err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, reports, http.StatusOK)
}

// GetReport returns a single report
func (h *DitherHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	report, err := h.svc.GetReport(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			writeError(w, "Not found", err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("Failed to get report: %v", err)
		writeError(w, "Failed to get report", err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, report, http.StatusOK)
}

// Healthz reports service liveness
func Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}
