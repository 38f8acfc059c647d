package httpd

import (
	"net/http"

	"github.com/RubachokBoss/career-plan-service/internal/models"
)

func (h *Handler) RecordTechnologyProgress(w http.ResponseWriter, r *http.Request) {
	var req models.RecordTechnologyProgressRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "Invalid request body")
		return
	}

	resp, err := h.progressService.RecordTechnologyCompletion(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "Failed to record technology progress")
		return
	}

	writeSuccess(w, resp)
}

func (h *Handler) UpdateTechnologyProgress(w http.ResponseWriter, r *http.Request) {
	id, ok := getIDParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, kindValidation, "Invalid progress ID")
		return
	}

	var req models.UpdateTechnologyProgressRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "Invalid request body")
		return
	}

	resp, err := h.progressService.UpdateTechnologyProgress(r.Context(), id, req.IsCompleted)
	if err != nil {
		h.handleServiceError(w, err, "Failed to update technology progress")
		return
	}

	writeSuccess(w, resp)
}

func (h *Handler) GetTechnologyProgressByAssignment(w http.ResponseWriter, r *http.Request) {
	assignmentID, ok := getIDParam(r, "assignmentID")
	if !ok {
		writeError(w, http.StatusBadRequest, kindValidation, "Invalid assignment ID")
		return
	}

	progress, err := h.progressService.GetProgressByAssignment(r.Context(), assignmentID)
	if err != nil {
		h.handleServiceError(w, err, "Failed to get technology progress")
		return
	}
	if progress == nil {
		progress = []models.TechnologyProgress{}
	}

	writeSuccess(w, progress)
}

func (h *Handler) RecordMaterialProgress(w http.ResponseWriter, r *http.Request) {
	var req models.RecordMaterialProgressRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "Invalid request body")
		return
	}

	progress, err := h.progressService.RecordMaterialCompletion(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "Failed to record material progress")
		return
	}

	writeSuccess(w, progress)
}

func (h *Handler) GetMaterialProgressByAssignment(w http.ResponseWriter, r *http.Request) {
	assignmentID, ok := getIDParam(r, "assignmentID")
	if !ok {
		writeError(w, http.StatusBadRequest, kindValidation, "Invalid assignment ID")
		return
	}

	progress, err := h.progressService.GetMaterialProgressByAssignment(r.Context(), assignmentID)
	if err != nil {
		h.handleServiceError(w, err, "Failed to get material progress")
		return
	}
	if progress == nil {
		progress = []models.MaterialProgress{}
	}

	writeSuccess(w, progress)
}
