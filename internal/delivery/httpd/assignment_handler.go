package httpd

import (
	"net/http"

	"github.com/RubachokBoss/career-plan-service/internal/models"
)

func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAssignmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "Invalid request body")
		return
	}

	assignment, err := h.assignmentService.CreateAssignment(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "Failed to create assignment")
		return
	}

	writeCreated(w, assignment)
}

func (h *Handler) GetAllAssignments(w http.ResponseWriter, r *http.Request) {
	page := getIntQueryParam(r, "page", 1)
	limit := getIntQueryParam(r, "limit", 10)

	assignments, total, err := h.assignmentService.ListAssignments(r.Context(), page, limit)
	if err != nil {
		h.handleServiceError(w, err, "Failed to get assignments")
		return
	}
	if assignments == nil {
		assignments = []models.Assignment{}
	}

	writeSuccess(w, models.ListResponse{
		Items: assignments,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

func (h *Handler) GetAssignmentByID(w http.ResponseWriter, r *http.Request) {
	id, ok := getIDParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, kindValidation, "Invalid assignment ID")
		return
	}

	assignment, err := h.assignmentService.GetAssignment(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, "Failed to get assignment")
		return
	}

	writeSuccess(w, assignment)
}

func (h *Handler) GetAssignmentsByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := getIDParam(r, "userID")
	if !ok {
		writeError(w, http.StatusBadRequest, kindValidation, "Invalid user ID")
		return
	}

	assignments, err := h.assignmentService.GetAssignmentsByUser(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err, "Failed to get user assignments")
		return
	}
	if assignments == nil {
		assignments = []models.Assignment{}
	}

	writeSuccess(w, assignments)
}

func (h *Handler) UpdateMeetingLink(w http.ResponseWriter, r *http.Request) {
	id, ok := getIDParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, kindValidation, "Invalid assignment ID")
		return
	}

	var req models.UpdateMeetingLinkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "Invalid request body")
		return
	}

	assignment, err := h.assignmentService.UpdateMeetingLink(r.Context(), id, req.MeetingLink)
	if err != nil {
		h.handleServiceError(w, err, "Failed to update meeting link")
		return
	}

	writeSuccess(w, assignment)
}

func (h *Handler) UpdateTrainingInstructor(w http.ResponseWriter, r *http.Request) {
	trainingID, ok := getIDParam(r, "trainingID")
	if !ok {
		writeError(w, http.StatusBadRequest, kindValidation, "Invalid training ID")
		return
	}

	var req models.UpdateTrainingInstructorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "Invalid request body")
		return
	}

	resp, err := h.assignmentService.UpdateTrainingInstructor(r.Context(), trainingID, req.InstructorID)
	if err != nil {
		h.handleServiceError(w, err, "Failed to update training instructor")
		return
	}

	writeSuccess(w, resp)
}
