package httpd

import (
	"context"
	"net/http"

	"github.com/RubachokBoss/career-plan-service/internal/models"
)

func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTeamRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "Invalid request body")
		return
	}

	team, err := h.teamService.CreateTeam(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "Failed to create team")
		return
	}

	writeCreated(w, team)
}

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := getIDParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, kindValidation, "Invalid team ID")
		return
	}

	team, err := h.teamService.GetTeam(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, "Failed to get team")
		return
	}

	writeSuccess(w, team)
}

func (h *Handler) AddTeamMember(w http.ResponseWriter, r *http.Request) {
	teamID, ok := getIDParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, kindValidation, "Invalid team ID")
		return
	}

	var req models.AddTeamMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "Invalid request body")
		return
	}

	member, err := h.teamService.AddTeamMember(r.Context(), teamID, &req)
	if err != nil {
		h.handleServiceError(w, err, "Failed to add team member")
		return
	}

	writeCreated(w, member)
}

func (h *Handler) AssignTrainingToTeam(w http.ResponseWriter, r *http.Request) {
	h.assignTraining(w, r, h.teamService.AssignTrainingToTeam)
}

func (h *Handler) AssignTrainingToClients(w http.ResponseWriter, r *http.Request) {
	h.assignTraining(w, r, h.teamService.AssignTrainingToClients)
}

type assignFunc func(ctx context.Context, teamID int64, req *models.AssignTrainingRequest) (*models.BulkAssignmentResult, error)

func (h *Handler) assignTraining(w http.ResponseWriter, r *http.Request, assign assignFunc) {
	teamID, ok := getIDParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, kindValidation, "Invalid team ID")
		return
	}

	var req models.AssignTrainingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "Invalid request body")
		return
	}

	result, err := assign(r.Context(), teamID, &req)
	if err != nil {
		h.handleServiceError(w, err, "Failed to assign training")
		return
	}

	// 201 только если что-то реально создано
	status := http.StatusOK
	if len(result.Created) > 0 {
		status = http.StatusCreated
	}
	writeSuccessStatus(w, status, result)
}
