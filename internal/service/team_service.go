package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/RubachokBoss/career-plan-service/internal/models"
	"github.com/RubachokBoss/career-plan-service/internal/repository"
	"github.com/RubachokBoss/career-plan-service/internal/service/integration"
	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/rs/zerolog"
)

type TeamService interface {
	CreateTeam(ctx context.Context, req *models.CreateTeamRequest) (*models.Team, error)
	GetTeam(ctx context.Context, id int64) (*models.TeamWithMembers, error)
	AddTeamMember(ctx context.Context, teamID int64, req *models.AddTeamMemberRequest) (*models.TeamMember, error)
	AssignTrainingToTeam(ctx context.Context, teamID int64, req *models.AssignTrainingRequest) (*models.BulkAssignmentResult, error)
	AssignTrainingToClients(ctx context.Context, teamID int64, req *models.AssignTrainingRequest) (*models.BulkAssignmentResult, error)
}

// TeamOptions tunes bulk assignment.
type TeamOptions struct {
	// ReassignCompleted resets a completed assignment instead of skipping it.
	ReassignCompleted bool
}

type teamService struct {
	store    repository.Store
	notifier notifier
	clock    clock.Clock
	opts     TeamOptions
	logger   zerolog.Logger
}

func NewTeamService(
	store repository.Store,
	publisher integration.EventPublisher,
	clk clock.Clock,
	opts TeamOptions,
	logger zerolog.Logger,
) TeamService {
	return &teamService{
		store:    store,
		notifier: newNotifier(publisher, clk, logger),
		clock:    clk,
		opts:     opts,
		logger:   logger,
	}
}

func (s *teamService) CreateTeam(ctx context.Context, req *models.CreateTeamRequest) (*models.Team, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errors.NewNotValid(nil, "team_name is required")
	}

	supervisor, err := requireUser(ctx, s.store, req.SupervisorID)
	if err != nil {
		return nil, err
	}
	if !supervisor.IsSupervisor() {
		return nil, errors.NotValidf("user %d as supervisor", req.SupervisorID)
	}

	team := &models.Team{
		Name:         name,
		Description:  req.Description,
		SupervisorID: req.SupervisorID,
		Active:       true,
		CreatedAt:    s.clock.Now().UTC(),
	}

	if err := s.store.Teams().Create(ctx, team); err != nil {
		return nil, errors.Annotate(err, "create team")
	}

	s.logger.Info().
		Int64("team_id", team.ID).
		Int64("supervisor_id", team.SupervisorID).
		Msg("Team created")

	return team, nil
}

func (s *teamService) GetTeam(ctx context.Context, id int64) (*models.TeamWithMembers, error) {
	team, err := s.store.Teams().GetByID(ctx, id)
	if err != nil {
		return nil, errors.Annotatef(err, "load team %d", id)
	}
	if team == nil {
		return nil, errors.NotFoundf("team %d", id)
	}

	members, err := s.store.Teams().GetMembers(ctx, id)
	if err != nil {
		return nil, errors.Annotatef(err, "load members of team %d", id)
	}
	if members == nil {
		members = []models.TeamMember{}
	}

	return &models.TeamWithMembers{Team: *team, Members: members}, nil
}

func (s *teamService) AddTeamMember(ctx context.Context, teamID int64, req *models.AddTeamMemberRequest) (*models.TeamMember, error) {
	role, err := models.ParseMemberRole(req.Role)
	if err != nil {
		return nil, errors.NewNotValid(err, "member_role must be instructor or client")
	}

	var member *models.TeamMember

	err = s.store.WithTx(ctx, func(tx repository.Repositories) error {
		if _, err := s.requireActiveTeam(ctx, tx, teamID); err != nil {
			return err
		}

		user, err := requireUser(ctx, tx, req.UserID)
		if err != nil {
			return err
		}

		// Роль в команде должна совпадать с ролью пользователя
		switch role {
		case models.MemberRoleInstructor:
			if !user.IsInstructor() {
				return errors.NotValidf("user %d as team instructor", user.ID)
			}
		case models.MemberRoleClient:
			if !user.Active || user.RoleID != models.RoleClient {
				return errors.NotValidf("user %d as team client", user.ID)
			}
		}

		existing, err := tx.Teams().GetMember(ctx, teamID, req.UserID)
		if err != nil {
			return errors.Annotate(err, "check team membership")
		}
		if existing != nil && existing.Active {
			return errors.AlreadyExistsf("user %d in team %d", req.UserID, teamID)
		}

		member = &models.TeamMember{
			TeamID:   teamID,
			UserID:   req.UserID,
			Role:     role,
			Active:   true,
			JoinedAt: s.clock.Now().UTC(),
		}
		return errors.Annotate(tx.Teams().AddMember(ctx, member), "add team member")
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("team_id", teamID).
		Int64("user_id", member.UserID).
		Str("role", string(member.Role)).
		Msg("Team member added")

	return member, nil
}

// AssignTrainingToTeam assigns the training to every active client of the team.
func (s *teamService) AssignTrainingToTeam(ctx context.Context, teamID int64, req *models.AssignTrainingRequest) (*models.BulkAssignmentResult, error) {
	return s.assign(ctx, teamID, req, false)
}

// AssignTrainingToClients assigns the training to an explicit subset of the
// team's clients. Every id must be an active client of the team.
func (s *teamService) AssignTrainingToClients(ctx context.Context, teamID int64, req *models.AssignTrainingRequest) (*models.BulkAssignmentResult, error) {
	if len(req.ClientIDs) == 0 {
		return nil, errors.NewNotValid(nil, "client_ids is required")
	}
	return s.assign(ctx, teamID, req, true)
}

func (s *teamService) assign(ctx context.Context, teamID int64, req *models.AssignTrainingRequest, explicit bool) (*models.BulkAssignmentResult, error) {
	if req.TrainingID <= 0 {
		return nil, errors.NewNotValid(nil, "training_id is required")
	}

	// Все проверки выполняются до первой записи
	if _, err := s.requireActiveTeam(ctx, s.store, teamID); err != nil {
		return nil, err
	}
	if _, err := requireActiveTraining(ctx, s.store, req.TrainingID); err != nil {
		return nil, err
	}
	if err := requireInstructor(ctx, s.store, req.InstructorID); err != nil {
		return nil, err
	}

	targets, err := s.resolveTargets(ctx, teamID, req.ClientIDs, explicit)
	if err != nil {
		return nil, err
	}

	technologyIDs, err := s.store.Catalog().GetTrainingTechnologyIDs(ctx, req.TrainingID)
	if err != nil {
		return nil, errors.Annotatef(err, "load technologies of training %d", req.TrainingID)
	}

	result := &models.BulkAssignmentResult{
		TeamID:       teamID,
		TrainingID:   req.TrainingID,
		TotalClients: len(targets),
		Created:      []models.CreatedAssignment{},
		Skipped:      []models.SkippedClient{},
	}

	for _, clientID := range targets {
		outcome := s.assignClient(ctx, clientID, req, technologyIDs)

		switch {
		case outcome.skipReason != "":
			result.Skipped = append(result.Skipped, models.SkippedClient{
				ClientID: clientID,
				Reason:   outcome.skipReason,
			})
		default:
			result.Created = append(result.Created, models.CreatedAssignment{
				ClientID:     clientID,
				AssignmentID: outcome.assignment.ID,
				Reassigned:   outcome.reassigned,
			})
			s.notifier.notify(ctx, models.EventAssignmentCreated, outcome.assignment, outcome.status)
		}
	}

	s.logger.Info().
		Int64("team_id", teamID).
		Int64("training_id", req.TrainingID).
		Int("created", len(result.Created)).
		Int("skipped", len(result.Skipped)).
		Msg("Training assigned to team")

	return result, nil
}

type clientOutcome struct {
	assignment *models.Assignment
	status     *models.UserTrainingStatus
	reassigned bool
	skipReason string
}

// assignClient runs one client in its own transaction. Failures turn into a
// skip entry so the rest of the batch goes on.
func (s *teamService) assignClient(ctx context.Context, clientID int64, req *models.AssignTrainingRequest, technologyIDs []int64) clientOutcome {
	var outcome clientOutcome

	err := s.store.WithTx(ctx, func(tx repository.Repositories) error {
		outcome = clientOutcome{}
		now := s.clock.Now().UTC()

		existing, err := tx.Assignments().GetByUserAndTraining(ctx, clientID, req.TrainingID)
		if err != nil {
			return errors.Annotate(err, "check existing assignment")
		}

		switch {
		case existing == nil:
			outcome.assignment, err = createAssignment(ctx, tx, newAssignment{
				UserID:       clientID,
				TrainingID:   req.TrainingID,
				InstructorID: req.InstructorID,
			}, technologyIDs, now)
			if err != nil {
				return err
			}
		case existing.Status == models.AssignmentStatusCompleted && s.opts.ReassignCompleted:
			if err := resetAssignment(ctx, tx, existing, technologyIDs, now); err != nil {
				return err
			}
			outcome.assignment = existing
			outcome.reassigned = true
		default:
			outcome.skipReason = fmt.Sprintf("training already assigned (status: %s)", existing.Status)
			return nil
		}

		outcome.status, err = refreshUserStatus(ctx, tx, clientID, now)
		return err
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("client_id", clientID).
			Int64("training_id", req.TrainingID).
			Msg("Failed to assign training to client")

		reason := "assignment failed"
		if errors.Is(err, errors.AlreadyExists) {
			reason = "training already assigned"
		}
		return clientOutcome{skipReason: reason}
	}

	return outcome
}

// resolveTargets returns the client ids to assign, deduplicated and in
// request order (or membership order when no ids are given).
func (s *teamService) resolveTargets(ctx context.Context, teamID int64, clientIDs []int64, explicit bool) ([]int64, error) {
	members, err := s.store.Teams().GetMembers(ctx, teamID)
	if err != nil {
		return nil, errors.Annotatef(err, "load members of team %d", teamID)
	}

	clients := make(map[int64]bool)
	var ordered []int64
	for _, m := range members {
		if !m.IsActiveClient() || clients[m.UserID] {
			continue
		}
		clients[m.UserID] = true
		ordered = append(ordered, m.UserID)
	}

	if !explicit {
		if len(ordered) == 0 {
			return nil, errors.NewNotValid(nil, fmt.Sprintf("team %d has no active clients", teamID))
		}
		return ordered, nil
	}

	var (
		targets   []int64
		offending []string
		seen      = make(map[int64]bool)
	)
	for _, id := range clientIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		if !clients[id] {
			offending = append(offending, fmt.Sprint(id))
			continue
		}
		targets = append(targets, id)
	}

	if len(offending) > 0 {
		return nil, errors.NewNotValid(nil, fmt.Sprintf(
			"clients %s are not active clients of team %d", strings.Join(offending, ", "), teamID))
	}

	return targets, nil
}

func (s *teamService) requireActiveTeam(ctx context.Context, repos repository.Repositories, teamID int64) (*models.Team, error) {
	team, err := repos.Teams().GetByID(ctx, teamID)
	if err != nil {
		return nil, errors.Annotatef(err, "load team %d", teamID)
	}
	if team == nil || !team.Active {
		return nil, errors.NotFoundf("team %d", teamID)
	}
	return team, nil
}
