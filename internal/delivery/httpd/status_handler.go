package httpd

import (
	"net/http"

	"github.com/RubachokBoss/career-plan-service/internal/models"
)

func (h *Handler) GetAllStatuses(w http.ResponseWriter, r *http.Request) {
	page := getIntQueryParam(r, "page", 1)
	limit := getIntQueryParam(r, "limit", 10)

	statuses, total, err := h.statusService.ListStatuses(r.Context(), page, limit)
	if err != nil {
		h.handleServiceError(w, err, "Failed to get training statuses")
		return
	}
	if statuses == nil {
		statuses = []models.UserTrainingStatus{}
	}

	writeSuccess(w, models.ListResponse{
		Items: statuses,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

func (h *Handler) GetUserStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := getIDParam(r, "userID")
	if !ok {
		writeError(w, http.StatusBadRequest, kindValidation, "Invalid user ID")
		return
	}

	status, err := h.statusService.GetUserStatus(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err, "Failed to get training status")
		return
	}

	writeSuccess(w, status)
}

// RefreshUserStatus пересчитывает статус по текущим назначениям пользователя.
func (h *Handler) RefreshUserStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := getIDParam(r, "userID")
	if !ok {
		writeError(w, http.StatusBadRequest, kindValidation, "Invalid user ID")
		return
	}

	status, err := h.statusService.RefreshUserStatus(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err, "Failed to refresh training status")
		return
	}

	writeSuccess(w, status)
}
