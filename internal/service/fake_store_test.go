package service

import (
	"context"
	"sort"
	"sync"

	"github.com/RubachokBoss/career-plan-service/internal/models"
	"github.com/RubachokBoss/career-plan-service/internal/repository"
	"github.com/juju/errors"
)

// fakeData is the whole in-memory database; WithTx restores a copy of it
// when the callback fails.
type fakeData struct {
	nextID int64

	users        map[int64]models.User
	trainings    map[int64]models.Training
	technologies map[int64][]int64
	materials    map[int64]models.TrainingMaterial
	teams        map[int64]models.Team
	members      []models.TeamMember

	assignments map[int64]models.Assignment
	techRows    map[int64]models.TechnologyProgress
	matRows     map[int64]models.MaterialProgress
	statuses    map[int64]models.UserTrainingStatus
}

func (d *fakeData) clone() *fakeData {
	c := *d
	c.users = cloneMap(d.users)
	c.trainings = cloneMap(d.trainings)
	c.technologies = cloneMap(d.technologies)
	c.materials = cloneMap(d.materials)
	c.teams = cloneMap(d.teams)
	c.members = append([]models.TeamMember(nil), d.members...)
	c.assignments = cloneMap(d.assignments)
	c.techRows = cloneMap(d.techRows)
	c.matRows = cloneMap(d.matRows)
	c.statuses = cloneMap(d.statuses)
	return &c
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	c := make(map[K]V, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

type fakeStore struct {
	mu   sync.Mutex
	data *fakeData

	// failCreateFor makes Assignments().Create fail for the given user.
	failCreateFor map[int64]bool
	writes        int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		data: &fakeData{
			users:        map[int64]models.User{},
			trainings:    map[int64]models.Training{},
			technologies: map[int64][]int64{},
			materials:    map[int64]models.TrainingMaterial{},
			teams:        map[int64]models.Team{},
			assignments:  map[int64]models.Assignment{},
			techRows:     map[int64]models.TechnologyProgress{},
			matRows:      map[int64]models.MaterialProgress{},
			statuses:     map[int64]models.UserTrainingStatus{},
		},
		failCreateFor: map[int64]bool{},
	}
}

func (s *fakeStore) id() int64 {
	s.data.nextID++
	return s.data.nextID
}

func (s *fakeStore) WithTx(ctx context.Context, fn func(tx repository.Repositories) error) error {
	s.mu.Lock()
	snapshot := s.data.clone()
	writes := s.writes
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.writes = writes
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *fakeStore) Ping(context.Context) error { return nil }

func (s *fakeStore) Assignments() repository.AssignmentRepository                 { return fakeAssignments{s} }
func (s *fakeStore) TechnologyProgress() repository.TechnologyProgressRepository { return fakeTechProgress{s} }
func (s *fakeStore) MaterialProgress() repository.MaterialProgressRepository     { return fakeMatProgress{s} }
func (s *fakeStore) TrainingStatus() repository.TrainingStatusRepository         { return fakeStatuses{s} }
func (s *fakeStore) Teams() repository.TeamRepository                            { return fakeTeams{s} }
func (s *fakeStore) Catalog() repository.CatalogRepository                       { return fakeCatalog{s} }

// seed helpers

func (s *fakeStore) addUser(id, role int64) {
	s.data.users[id] = models.User{ID: id, Username: "user", RoleID: role, Active: true}
}

func (s *fakeStore) addTraining(id int64, technologyIDs ...int64) {
	s.data.trainings[id] = models.Training{ID: id, Name: "training", Active: true}
	s.data.technologies[id] = technologyIDs
}

func (s *fakeStore) addTeam(id int64, active bool) {
	s.data.teams[id] = models.Team{ID: id, Name: "team", SupervisorID: 1, Active: active}
}

func (s *fakeStore) addMember(teamID, userID int64, role models.MemberRole, active bool) {
	s.data.members = append(s.data.members, models.TeamMember{
		ID: s.id(), TeamID: teamID, UserID: userID, Role: role, Active: active,
	})
}

func (s *fakeStore) assignmentsOf(userID int64) []models.Assignment {
	var out []models.Assignment
	for _, a := range s.data.assignments {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type fakeAssignments struct{ s *fakeStore }

func (r fakeAssignments) Create(_ context.Context, a *models.Assignment) error {
	if r.s.failCreateFor[a.UserID] {
		return errors.New("insert failed")
	}
	for _, existing := range r.s.data.assignments {
		if existing.UserID == a.UserID && existing.TrainingID == a.TrainingID {
			return errors.AlreadyExistsf("assignment of training %d to user %d", a.TrainingID, a.UserID)
		}
	}
	a.ID = r.s.id()
	r.s.data.assignments[a.ID] = *a
	r.s.writes++
	return nil
}

func (r fakeAssignments) GetByID(_ context.Context, id int64) (*models.Assignment, error) {
	a, ok := r.s.data.assignments[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r fakeAssignments) GetByUserAndTraining(_ context.Context, userID, trainingID int64) (*models.Assignment, error) {
	for _, a := range r.s.data.assignments {
		if a.UserID == userID && a.TrainingID == trainingID {
			return &a, nil
		}
	}
	return nil, nil
}

func (r fakeAssignments) GetByUserID(_ context.Context, userID int64) ([]models.Assignment, error) {
	return r.s.assignmentsOf(userID), nil
}

func (r fakeAssignments) GetByTrainingID(_ context.Context, trainingID int64) ([]models.Assignment, error) {
	var out []models.Assignment
	for _, a := range r.s.data.assignments {
		if a.TrainingID == trainingID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r fakeAssignments) GetAll(_ context.Context, limit, offset int) ([]models.Assignment, int, error) {
	var all []models.Assignment
	for _, a := range r.s.data.assignments {
		all = append(all, a)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (r fakeAssignments) UpdateProgress(_ context.Context, id int64, p models.Percentage, status models.AssignmentStatus) error {
	a := r.s.data.assignments[id]
	a.CompletionPercentage = p
	a.Status = status
	r.s.data.assignments[id] = a
	r.s.writes++
	return nil
}

func (r fakeAssignments) UpdateMeetingLink(_ context.Context, id int64, link *string) error {
	a := r.s.data.assignments[id]
	a.MeetingLink = link
	r.s.data.assignments[id] = a
	r.s.writes++
	return nil
}

func (r fakeAssignments) UpdateInstructorByTraining(_ context.Context, trainingID int64, instructorID *int64) (int, error) {
	n := 0
	for id, a := range r.s.data.assignments {
		if a.TrainingID == trainingID {
			a.InstructorID = instructorID
			r.s.data.assignments[id] = a
			n++
		}
	}
	r.s.writes++
	return n, nil
}

type fakeTechProgress struct{ s *fakeStore }

func (r fakeTechProgress) Create(_ context.Context, p *models.TechnologyProgress) error {
	for _, row := range r.s.data.techRows {
		if row.AssignmentID == p.AssignmentID && row.TechnologyID == p.TechnologyID {
			return errors.AlreadyExistsf("progress of technology %d", p.TechnologyID)
		}
	}
	p.ID = r.s.id()
	r.s.data.techRows[p.ID] = *p
	r.s.writes++
	return nil
}

func (r fakeTechProgress) GetByID(_ context.Context, id int64) (*models.TechnologyProgress, error) {
	p, ok := r.s.data.techRows[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r fakeTechProgress) GetByAssignmentAndTechnology(_ context.Context, assignmentID, technologyID int64) (*models.TechnologyProgress, error) {
	for _, p := range r.s.data.techRows {
		if p.AssignmentID == assignmentID && p.TechnologyID == technologyID {
			return &p, nil
		}
	}
	return nil, nil
}

func (r fakeTechProgress) GetByAssignmentID(_ context.Context, assignmentID int64) ([]models.TechnologyProgress, error) {
	var out []models.TechnologyProgress
	for _, p := range r.s.data.techRows {
		if p.AssignmentID == assignmentID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r fakeTechProgress) Update(_ context.Context, p *models.TechnologyProgress) error {
	r.s.data.techRows[p.ID] = *p
	r.s.writes++
	return nil
}

func (r fakeTechProgress) ResetByAssignmentID(_ context.Context, assignmentID int64) error {
	for id, p := range r.s.data.techRows {
		if p.AssignmentID == assignmentID {
			p.IsCompleted = false
			p.CompletedAt = nil
			r.s.data.techRows[id] = p
		}
	}
	r.s.writes++
	return nil
}

type fakeMatProgress struct{ s *fakeStore }

func (r fakeMatProgress) Create(_ context.Context, p *models.MaterialProgress) error {
	p.ID = r.s.id()
	r.s.data.matRows[p.ID] = *p
	r.s.writes++
	return nil
}

func (r fakeMatProgress) Get(_ context.Context, userID, materialID, assignmentID int64) (*models.MaterialProgress, error) {
	for _, p := range r.s.data.matRows {
		if p.UserID == userID && p.MaterialID == materialID && p.AssignmentID == assignmentID {
			return &p, nil
		}
	}
	return nil, nil
}

func (r fakeMatProgress) GetByAssignmentID(_ context.Context, assignmentID int64) ([]models.MaterialProgress, error) {
	var out []models.MaterialProgress
	for _, p := range r.s.data.matRows {
		if p.AssignmentID == assignmentID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r fakeMatProgress) Update(_ context.Context, p *models.MaterialProgress) error {
	r.s.data.matRows[p.ID] = *p
	r.s.writes++
	return nil
}

type fakeStatuses struct{ s *fakeStore }

func (r fakeStatuses) GetByUserID(_ context.Context, userID int64) (*models.UserTrainingStatus, error) {
	st, ok := r.s.data.statuses[userID]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (r fakeStatuses) Create(_ context.Context, st *models.UserTrainingStatus) error {
	st.ID = r.s.id()
	r.s.data.statuses[st.UserID] = *st
	r.s.writes++
	return nil
}

func (r fakeStatuses) Update(_ context.Context, st *models.UserTrainingStatus) error {
	r.s.data.statuses[st.UserID] = *st
	r.s.writes++
	return nil
}

func (r fakeStatuses) GetAll(_ context.Context, limit, offset int) ([]models.UserTrainingStatus, int, error) {
	var all []models.UserTrainingStatus
	for _, st := range r.s.data.statuses {
		all = append(all, st)
	}
	return all, len(all), nil
}

type fakeTeams struct{ s *fakeStore }

func (r fakeTeams) Create(_ context.Context, team *models.Team) error {
	team.ID = r.s.id()
	r.s.data.teams[team.ID] = *team
	r.s.writes++
	return nil
}

func (r fakeTeams) GetByID(_ context.Context, id int64) (*models.Team, error) {
	t, ok := r.s.data.teams[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r fakeTeams) GetMembers(_ context.Context, teamID int64) ([]models.TeamMember, error) {
	var out []models.TeamMember
	for _, m := range r.s.data.members {
		if m.TeamID == teamID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r fakeTeams) GetMember(_ context.Context, teamID, userID int64) (*models.TeamMember, error) {
	var found *models.TeamMember
	for i := range r.s.data.members {
		m := r.s.data.members[i]
		if m.TeamID == teamID && m.UserID == userID && (found == nil || m.Active) {
			found = &m
		}
	}
	return found, nil
}

func (r fakeTeams) AddMember(_ context.Context, m *models.TeamMember) error {
	m.ID = r.s.id()
	r.s.data.members = append(r.s.data.members, *m)
	r.s.writes++
	return nil
}

type fakeCatalog struct{ s *fakeStore }

func (r fakeCatalog) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := r.s.data.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r fakeCatalog) GetTrainingByID(_ context.Context, id int64) (*models.Training, error) {
	t, ok := r.s.data.trainings[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r fakeCatalog) GetTrainingTechnologyIDs(_ context.Context, trainingID int64) ([]int64, error) {
	return append([]int64(nil), r.s.data.technologies[trainingID]...), nil
}

func (r fakeCatalog) GetMaterialByID(_ context.Context, id int64) (*models.TrainingMaterial, error) {
	m, ok := r.s.data.materials[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r fakeCatalog) UpdateMaterialDocument(_ context.Context, id int64, url string) error {
	m := r.s.data.materials[id]
	m.URL = url
	m.Type = models.MaterialTypeDocument
	r.s.data.materials[id] = m
	r.s.writes++
	return nil
}
