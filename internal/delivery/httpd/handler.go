package httpd

import (
	"context"
	"net/http"
	"time"

	"github.com/RubachokBoss/career-plan-service/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	assignmentService service.AssignmentService
	progressService   service.ProgressService
	statusService     service.StatusService
	teamService       service.TeamService
	materialService   service.MaterialService
	health            HealthChecker
	maxUploadSize     int64
	logger            zerolog.Logger
}

func NewHandler(
	assignmentService service.AssignmentService,
	progressService service.ProgressService,
	statusService service.StatusService,
	teamService service.TeamService,
	materialService service.MaterialService,
	health HealthChecker,
	maxUploadSize int64,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		assignmentService: assignmentService,
		progressService:   progressService,
		statusService:     statusService,
		teamService:       teamService,
		materialService:   materialService,
		health:            health,
		maxUploadSize:     maxUploadSize,
		logger:            logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.HealthCheck)

	router.Route("/api/v1", func(api chi.Router) {
		api.Get("/health", h.HealthCheck)

		api.Route("/user-training-assignments", func(r chi.Router) {
			r.Post("/", h.CreateAssignment)
			r.Get("/", h.GetAllAssignments)
			r.Get("/user/{userID}", h.GetAssignmentsByUser)
			r.Put("/training/{trainingID}/instructor", h.UpdateTrainingInstructor)
			r.Get("/{id}", h.GetAssignmentByID)
			r.Put("/{id}/meeting-link", h.UpdateMeetingLink)
		})

		api.Route("/user-technology-progress", func(r chi.Router) {
			r.Post("/", h.RecordTechnologyProgress)
			r.Put("/{id}", h.UpdateTechnologyProgress)
			r.Get("/assignment/{assignmentID}", h.GetTechnologyProgressByAssignment)
		})

		api.Route("/user-material-progress", func(r chi.Router) {
			r.Post("/", h.RecordMaterialProgress)
			r.Get("/assignment/{assignmentID}", h.GetMaterialProgressByAssignment)
		})

		api.Route("/user-training-status", func(r chi.Router) {
			r.Get("/", h.GetAllStatuses)
			r.Get("/user/{userID}", h.GetUserStatus)
			r.Put("/refresh/{userID}", h.RefreshUserStatus)
		})

		api.Route("/teams", func(r chi.Router) {
			r.Post("/", h.CreateTeam)
			r.Get("/{id}", h.GetTeam)
			r.Post("/{id}/members", h.AddTeamMember)
			r.Post("/{id}/assign-training", h.AssignTrainingToTeam)
			r.Post("/{id}/assign-training-to-clients", h.AssignTrainingToClients)
		})

		api.Post("/training-materials/{id}/document", h.UploadMaterialDocument)
	})
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	database := "up"
	if err := h.health.Ping(ctx); err != nil {
		h.logger.Warn().Err(err).Msg("Database ping failed")
		status = http.StatusServiceUnavailable
		database = "down"
	}

	response := map[string]interface{}{
		"status":    http.StatusText(status),
		"service":   "career-plan-service",
		"database":  database,
		"timestamp": time.Now().UTC(),
	}

	writeJSON(w, status, response)
}
