package service

import (
	"context"
	"testing"

	"github.com/RubachokBoss/career-plan-service/internal/models"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAssignment_RejectsDuplicate(t *testing.T) {
	env := newTestEnv(TeamOptions{})
	seedAssignment(t, env, 2)

	_, err := env.assignments.CreateAssignment(context.Background(), &models.CreateAssignmentRequest{
		UserID:     clientID,
		TrainingID: trainingID,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.AlreadyExists))

	assert.Len(t, env.store.assignmentsOf(clientID), 1)
}

func TestCreateAssignment_Validation(t *testing.T) {
	env := newTestEnv(TeamOptions{})
	env.store.addUser(clientID, models.RoleClient)
	env.store.addUser(instructorID, models.RoleInstructor)
	env.store.addTraining(trainingID, 100)
	env.store.data.trainings[11] = models.Training{ID: 11, Active: false}
	ctx := context.Background()

	cases := []struct {
		name string
		req  models.CreateAssignmentRequest
		kind error
	}{
		{"missing ids", models.CreateAssignmentRequest{}, errors.NotValid},
		{"unknown user", models.CreateAssignmentRequest{UserID: 404, TrainingID: trainingID}, errors.NotFound},
		{"unknown training", models.CreateAssignmentRequest{UserID: clientID, TrainingID: 404}, errors.NotFound},
		{"inactive training", models.CreateAssignmentRequest{UserID: clientID, TrainingID: 11}, errors.NotFound},
		{"instructor without role", models.CreateAssignmentRequest{UserID: clientID, TrainingID: trainingID, InstructorID: ptr(clientID)}, errors.NotValid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := tc.req
			_, err := env.assignments.CreateAssignment(ctx, &req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.kind), err.Error())
		})
	}

	assert.Zero(t, env.store.writes)
}

func TestCreateAssignment_WithInstructorAndLink(t *testing.T) {
	env := newTestEnv(TeamOptions{})
	env.store.addUser(clientID, models.RoleClient)
	env.store.addUser(instructorID, models.RoleInstructor)
	env.store.addTraining(trainingID, 100, 101, 102)

	link := "https://meet.example/room"
	assignment, err := env.assignments.CreateAssignment(context.Background(), &models.CreateAssignmentRequest{
		UserID:       clientID,
		TrainingID:   trainingID,
		InstructorID: ptr(instructorID),
		MeetingLink:  &link,
	})
	require.NoError(t, err)

	assert.Equal(t, testNow, assignment.CreatedAt)
	assert.Equal(t, link, *assignment.MeetingLink)
	assert.Equal(t, []models.EventType{models.EventAssignmentCreated}, env.publisher.types())

	status := env.store.data.statuses[clientID]
	assert.Equal(t, 1, status.TotalTrainingsAssigned)
	assert.Equal(t, models.OverallStatusAssigned, status.OverallStatus)
}

func TestUpdateMeetingLink(t *testing.T) {
	env := newTestEnv(TeamOptions{})
	assignment, _ := seedAssignment(t, env, 1)
	ctx := context.Background()

	link := "https://meet.example/new"
	updated, err := env.assignments.UpdateMeetingLink(ctx, assignment.ID, &link)
	require.NoError(t, err)
	assert.Equal(t, link, *updated.MeetingLink)

	empty := ""
	updated, err = env.assignments.UpdateMeetingLink(ctx, assignment.ID, &empty)
	require.NoError(t, err)
	assert.Nil(t, updated.MeetingLink)

	_, err = env.assignments.UpdateMeetingLink(ctx, 999, &link)
	assert.True(t, errors.Is(err, errors.NotFound))
}

func TestUpdateTrainingInstructor(t *testing.T) {
	env := newTestEnv(TeamOptions{})
	seedAssignment(t, env, 1)
	env.store.addUser(30, models.RoleClient)
	_, err := env.assignments.CreateAssignment(context.Background(), &models.CreateAssignmentRequest{UserID: 30, TrainingID: trainingID})
	require.NoError(t, err)
	ctx := context.Background()

	resp, err := env.assignments.UpdateTrainingInstructor(ctx, trainingID, ptr(instructorID))
	require.NoError(t, err)
	assert.Equal(t, 2, resp.UpdatedAssignments)

	for _, a := range env.store.data.assignments {
		require.NotNil(t, a.InstructorID)
		assert.Equal(t, instructorID, *a.InstructorID)
	}

	_, err = env.assignments.UpdateTrainingInstructor(ctx, trainingID, ptr(clientID))
	assert.True(t, errors.Is(err, errors.NotValid))

	_, err = env.assignments.UpdateTrainingInstructor(ctx, 404, ptr(instructorID))
	assert.True(t, errors.Is(err, errors.NotFound))
}

func TestListAssignments(t *testing.T) {
	env := newTestEnv(TeamOptions{})
	seedAssignment(t, env, 1)
	ctx := context.Background()

	items, total, err := env.assignments.ListAssignments(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, items, 1)

	byUser, err := env.assignments.GetAssignmentsByUser(ctx, clientID)
	require.NoError(t, err)
	assert.Len(t, byUser, 1)

	_, err = env.assignments.GetAssignmentsByUser(ctx, 404)
	assert.True(t, errors.Is(err, errors.NotFound))
}

func ptr(v int64) *int64 {
	return &v
}
