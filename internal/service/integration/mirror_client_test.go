package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/RubachokBoss/career-plan-service/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEvent() *models.ProgressEvent {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &models.ProgressEvent{
		ID:   "evt-1",
		Type: models.EventProgressUpdated,
		Assignment: &models.Assignment{
			ID:                   42,
			UserID:               3,
			TrainingID:           5,
			Status:               models.AssignmentStatusInProgress,
			CompletionPercentage: models.Percentage(3333),
			CreatedAt:            now,
		},
		UserStatus: &models.UserTrainingStatus{
			UserID:                 3,
			TotalTrainingsAssigned: 1,
			TrainingsInProgress:    1,
			OverallStatus:          models.OverallStatusInProgress,
			LastUpdated:            now,
		},
		OccurredAt: now,
	}
}

func TestMirrorClient_SendsPipeline(t *testing.T) {
	var got pipelineBody

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, pipelinePath, r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"type":"ok"},{"type":"ok"},{"type":"ok"}]}`))
	}))
	defer server.Close()

	client := NewMirrorClient(server.URL+"/", "secret", time.Second, 0, 0, zerolog.Nop())
	require.NoError(t, client.PublishProgressEvent(context.Background(), testEvent()))

	require.Len(t, got.Requests, 3)
	assert.Equal(t, "execute", got.Requests[0].Type)
	assert.Contains(t, got.Requests[0].Stmt.SQL, "user_training_assignments")
	assert.Equal(t, "integer", got.Requests[0].Stmt.Args[0].Type)
	assert.Equal(t, "42", got.Requests[0].Stmt.Args[0].Value)
	assert.Equal(t, "null", got.Requests[0].Stmt.Args[3].Type)
	assert.Equal(t, 33.33, got.Requests[0].Stmt.Args[5].Value)
	assert.Contains(t, got.Requests[1].Stmt.SQL, "user_training_status")
	assert.Equal(t, "close", got.Requests[2].Type)
}

func TestMirrorClient_RetriesServerErrors(t *testing.T) {
	var calls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"results":[{"type":"ok"}]}`))
	}))
	defer server.Close()

	client := NewMirrorClient(server.URL, "", time.Second, 2, time.Millisecond, zerolog.Nop())
	require.NoError(t, client.PublishProgressEvent(context.Background(), testEvent()))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestMirrorClient_DoesNotRetryStatementErrors(t *testing.T) {
	var calls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"results":[{"type":"error","error":{"message":"no such table"}}]}`))
	}))
	defer server.Close()

	client := NewMirrorClient(server.URL, "", time.Second, 3, time.Millisecond, zerolog.Nop())
	err := client.PublishProgressEvent(context.Background(), testEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such table")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestMirrorClient_SkipsEmptyEvent(t *testing.T) {
	client := NewMirrorClient("http://127.0.0.1:1", "", time.Second, 0, 0, zerolog.Nop())
	assert.NoError(t, client.PublishProgressEvent(context.Background(), &models.ProgressEvent{ID: "empty"}))
}

type recordingPublisher struct {
	events []*models.ProgressEvent
	err    error
}

func (p *recordingPublisher) PublishProgressEvent(_ context.Context, event *models.ProgressEvent) error {
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func TestMultiPublisher_ContinuesAfterFailure(t *testing.T) {
	failing := &recordingPublisher{err: assert.AnError}
	ok := &recordingPublisher{}

	publisher := NewMultiPublisher(failing, ok)
	err := publisher.PublishProgressEvent(context.Background(), testEvent())

	assert.Error(t, err)
	assert.Len(t, failing.events, 1)
	assert.Len(t, ok.events, 1)
}
