package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"skysight/internal/domain"
	"skysight/internal/geom"
	"skysight/internal/service"
)

// CameraHandler handles camera API requests
type CameraHandler struct {
	svc *service.CameraService
}

// NewCameraHandler creates a new camera handler
func NewCameraHandler(svc *service.CameraService) *CameraHandler {
	return &CameraHandler{svc: svc}
}

// CameraRequest is the body of create and update requests
type CameraRequest struct {
	Name      string           `json:"name"`
	Source    string           `json:"source,omitempty"`
	Footprint domain.Footprint `json:"footprint"`
}

// List returns all cameras
func (h *CameraHandler) List(w http.ResponseWriter, r *http.Request) {
	cameras, err := h.svc.List(r.Context())
	if err != nil {
		log.Printf("Failed to list cameras: %v", err)
		writeError(w, "Failed to list cameras", err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, cameras, http.StatusOK)
}

// Create stores a new camera
func (h *CameraHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CameraRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		writeError(w, "Invalid camera", "Camera name is required", http.StatusBadRequest)
		return
	}
	if req.Source == "" {
		req.Source = "api"
	}

	rec, err := h.svc.Save(r.Context(), req.Name, req.Source, req.Footprint)
	if err != nil {
		writeError(w, "Failed to create camera", err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, rec, http.StatusCreated)
}

// Get returns a single camera
func (h *CameraHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	rec, err := h.svc.Get(r.Context(), name)
	if err != nil {
		if isNotFound(err) {
			writeError(w, "Not found", err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("Failed to get camera: %v", err)
		writeError(w, "Failed to get camera", err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, rec, http.StatusOK)
}

// Update replaces a camera definition
func (h *CameraHandler) Update(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var req CameraRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	if req.Source == "" {
		req.Source = "api"
	}

	rec, err := h.svc.Save(r.Context(), name, req.Source, req.Footprint)
	if err != nil {
		writeError(w, "Failed to update camera", err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, rec, http.StatusOK)
}

// Delete removes a camera
func (h *CameraHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	if err := h.svc.Delete(r.Context(), name); err != nil {
		log.Printf("Failed to delete camera: %v", err)
		writeError(w, "Failed to delete camera", err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// FootprintSummary describes the computed geometry of a camera
type FootprintSummary struct {
	Name     string     `json:"name"`
	CCDs     int        `json:"ccds"`
	Area     float64    `json:"area"`
	Radius   float64    `json:"radius"`
	Center   geom.Coord `json:"center"`
	Centroid geom.Coord `json:"centroid"`
	RALim    [2]float64 `json:"ra_lim"`
	DecLim   [2]float64 `json:"dec_lim"`
}

// GetFootprint returns the computed geometry summary of a camera
func (h *CameraHandler) GetFootprint(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	cam, err := h.svc.Camera(r.Context(), name)
	if err != nil {
		if isNotFound(err) {
			writeError(w, "Not found", err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("Failed to build camera geometry: %v", err)
		writeError(w, "Failed to build camera geometry", err.Error(), http.StatusInternalServerError)
		return
	}

	raLim, decLim := cam.Limits()
	writeJSON(w, FootprintSummary{
		Name:     cam.Name(),
		CCDs:     len(cam.Footprint()),
		Area:     cam.Area(),
		Radius:   cam.Radius(),
		Center:   cam.Center(),
		Centroid: cam.Centroid(),
		RALim:    raLim,
		DecLim:   decLim,
	}, http.StatusOK)
}

// ImportYAML imports cameras and strategies from a YAML bundle
func (h *CameraHandler) ImportYAML(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Import(r.Context(), r.Body, "yaml")
	if err != nil {
		log.Printf("Failed to import YAML: %v", err)
		writeError(w, "Failed to import YAML", err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, result, http.StatusOK)
}

// ExportYAML exports all cameras and strategies as YAML
func (h *CameraHandler) ExportYAML(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/x-yaml")
	w.Header().Set("Content-Disposition", "attachment; filename=skysight.yml")

	if err := h.svc.Export(r.Context(), w, "yaml"); err != nil {
		log.Printf("Failed to export YAML: %v", err)
		// Can't write error response as we already set headers
		return
	}
}

// ExportJSON exports all cameras and strategies as JSON
func (h *CameraHandler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=skysight.json")

	if err := h.svc.Export(r.Context(), w, "json"); err != nil {
		log.Printf("Failed to export JSON: %v", err)
		return
	}
}
