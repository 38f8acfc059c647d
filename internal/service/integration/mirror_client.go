package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/RubachokBoss/career-plan-service/internal/models"
	"github.com/juju/errors"
	"github.com/rs/zerolog"
)

const pipelinePath = "/v2/pipeline"

// mirrorClient copies assignment and status snapshots into a remote
// SQL-over-HTTP database (libsql pipeline protocol). It only ever upserts.
type mirrorClient struct {
	baseURL    string
	authToken  string
	retryCount int
	retryDelay time.Duration
	client     *http.Client
	logger     zerolog.Logger
}

func NewMirrorClient(baseURL, authToken string, timeout time.Duration, retryCount int, retryDelay time.Duration, logger zerolog.Logger) EventPublisher {
	return &mirrorClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		authToken:  authToken,
		retryCount: retryCount,
		retryDelay: retryDelay,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

type pipelineArg struct {
	Type  string      `json:"type"`
	Value interface{} `json:"value,omitempty"`
}

type pipelineStmt struct {
	SQL  string        `json:"sql"`
	Args []pipelineArg `json:"args,omitempty"`
}

type pipelineRequest struct {
	Type string        `json:"type"`
	Stmt *pipelineStmt `json:"stmt,omitempty"`
}

type pipelineBody struct {
	Requests []pipelineRequest `json:"requests"`
}

type pipelineResult struct {
	Type  string `json:"type"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type pipelineResponse struct {
	Results []pipelineResult `json:"results"`
}

func intArg(v int64) pipelineArg {
	return pipelineArg{Type: "integer", Value: strconv.FormatInt(v, 10)}
}

func textArg(v string) pipelineArg {
	return pipelineArg{Type: "text", Value: v}
}

func floatArg(v float64) pipelineArg {
	return pipelineArg{Type: "float", Value: v}
}

func nullArg() pipelineArg {
	return pipelineArg{Type: "null"}
}

func assignmentStmt(a *models.Assignment) *pipelineStmt {
	instructor := nullArg()
	if a.InstructorID != nil {
		instructor = intArg(*a.InstructorID)
	}
	link := nullArg()
	if a.MeetingLink != nil {
		link = textArg(*a.MeetingLink)
	}

	return &pipelineStmt{
		SQL: `INSERT OR REPLACE INTO user_training_assignments
			(assignment_id, user_id, training_id, instructor_id, assignment_status,
			completion_percentage, instructor_meeting_link, assignment_created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		Args: []pipelineArg{
			intArg(a.ID),
			intArg(a.UserID),
			intArg(a.TrainingID),
			instructor,
			textArg(a.Status.String()),
			floatArg(a.CompletionPercentage.Float64()),
			link,
			textArg(a.CreatedAt.UTC().Format(time.RFC3339)),
		},
	}
}

func statusStmt(s *models.UserTrainingStatus) *pipelineStmt {
	return &pipelineStmt{
		SQL: `INSERT OR REPLACE INTO user_training_status
			(user_id, total_trainings_assigned, trainings_completed, trainings_in_progress,
			overall_status, last_updated)
			VALUES (?, ?, ?, ?, ?, ?)`,
		Args: []pipelineArg{
			intArg(s.UserID),
			intArg(int64(s.TotalTrainingsAssigned)),
			intArg(int64(s.TrainingsCompleted)),
			intArg(int64(s.TrainingsInProgress)),
			textArg(s.OverallStatus.String()),
			textArg(s.LastUpdated.UTC().Format(time.RFC3339)),
		},
	}
}

func (c *mirrorClient) PublishProgressEvent(ctx context.Context, event *models.ProgressEvent) error {
	var requests []pipelineRequest
	if event.Assignment != nil {
		requests = append(requests, pipelineRequest{Type: "execute", Stmt: assignmentStmt(event.Assignment)})
	}
	if event.UserStatus != nil {
		requests = append(requests, pipelineRequest{Type: "execute", Stmt: statusStmt(event.UserStatus)})
	}
	if len(requests) == 0 {
		return nil
	}
	requests = append(requests, pipelineRequest{Type: "close"})

	body, err := json.Marshal(pipelineBody{Requests: requests})
	if err != nil {
		return errors.Annotate(err, "failed to marshal pipeline")
	}

	var lastErr error
	for i := 0; i <= c.retryCount; i++ {
		if i > 0 {
			c.logger.Warn().Int("attempt", i).Str("event_id", event.ID).Msg("Retrying mirror request")
			select {
			case <-ctx.Done():
				return errors.Trace(ctx.Err())
			case <-time.After(c.retryDelay * time.Duration(i)):
			}
		}

		retry, err := c.execute(ctx, body)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retry {
			break
		}
	}

	return errors.Annotatef(lastErr, "mirror failed after %d attempts", c.retryCount+1)
}

// execute sends one pipeline. The bool reports whether the failure is worth
// retrying.
func (c *mirrorClient) execute(ctx context.Context, body []byte) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+pipelinePath, bytes.NewReader(body))
	if err != nil {
		return false, errors.Annotate(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return true, errors.Annotate(err, "failed to send pipeline")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		err := fmt.Errorf("mirror returned status %d: %s", resp.StatusCode, string(payload))
		return resp.StatusCode >= http.StatusInternalServerError, err
	}

	var result pipelineResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, errors.Annotate(err, "failed to decode pipeline response")
	}

	for _, r := range result.Results {
		if r.Type == "error" {
			msg := "unknown error"
			if r.Error != nil {
				msg = r.Error.Message
			}
			return false, errors.Errorf("mirror statement failed: %s", msg)
		}
	}

	return false, nil
}

func (c *mirrorClient) Close() error {
	c.client.CloseIdleConnections()
	return nil
}
