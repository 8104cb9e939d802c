package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/finbudd/cfa-tracker-api/internal/dto"
	"github.com/finbudd/cfa-tracker-api/internal/handler"
	"github.com/finbudd/cfa-tracker-api/internal/service"
)

type stubProgressService struct {
	rollup      dto.TopicRollupResponse
	err         error
	quizCalls   int
	videoCalls  int
	lastStudent string
	lastTopic   string
	lastQuiz    dto.QuizSubmissionRequest
}

func (s *stubProgressService) SubmitQuiz(_ context.Context, studentID string, req dto.QuizSubmissionRequest) (dto.TopicRollupResponse, error) {
	s.quizCalls++
	s.lastStudent = studentID
	s.lastQuiz = req
	if s.err != nil {
		return dto.TopicRollupResponse{}, s.err
	}
	return s.rollup, nil
}

func (s *stubProgressService) UpdateVideoCoverage(_ context.Context, studentID, topicID string, _ dto.VideoCoverageRequest) (dto.TopicRollupResponse, error) {
	s.videoCalls++
	s.lastStudent = studentID
	s.lastTopic = topicID
	if s.err != nil {
		return dto.TopicRollupResponse{}, s.err
	}
	return s.rollup, nil
}

var _ service.ProgressService = (*stubProgressService)(nil)

func newProgressApp(svc service.ProgressService, authenticated bool) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/student", func(c *fiber.Ctx) error {
		if authenticated {
			c.Locals("user_id", "11111111-1111-1111-1111-111111111111")
			c.Locals("user_role", "student")
		}
		return c.Next()
	})
	handler.NewProgressHandler(svc, zerolog.Nop()).Register(group)
	return app
}

func jsonRequest(method, target string, body interface{}) *http.Request {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(method, target, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeEnvelope(t *testing.T, resp *http.Response, data interface{}) (bool, string) {
	t.Helper()
	payload := struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	resp.Body.Close()
	if data != nil && len(payload.Data) > 0 {
		require.NoError(t, json.Unmarshal(payload.Data, data))
	}
	return payload.Success, payload.Message
}

func scorePtr(v float64) *float64 { return &v }

func TestSubmitQuizHandler_Success(t *testing.T) {
	svc := &stubProgressService{rollup: dto.TopicRollupResponse{TopicID: "ethics", QuizCoverage: 2, AvgScore: 80}}
	app := newProgressApp(svc, true)

	req := jsonRequest(http.MethodPost, "/api/v1/student/quizzes", dto.QuizSubmissionRequest{
		TopicID: "ethics",
		QuizID:  "LM1-LOS1",
		Score:   scorePtr(80),
	})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var rollup dto.TopicRollupResponse
	success, message := decodeEnvelope(t, resp, &rollup)
	require.True(t, success)
	require.Equal(t, "quiz score recorded", message)
	require.Equal(t, "ethics", rollup.TopicID)
	require.Equal(t, "11111111-1111-1111-1111-111111111111", svc.lastStudent)
	require.Equal(t, 1, svc.quizCalls)
}

func TestSubmitQuizHandler_ValidationError(t *testing.T) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validationErr := validate.Struct(dto.QuizSubmissionRequest{TopicID: "ethics", QuizID: "LM1-LOS1", Score: scorePtr(150)})
	require.Error(t, validationErr)

	svc := &stubProgressService{err: validationErr}
	app := newProgressApp(svc, true)

	req := jsonRequest(http.MethodPost, "/api/v1/student/quizzes", dto.QuizSubmissionRequest{
		TopicID: "ethics",
		QuizID:  "LM1-LOS1",
		Score:   scorePtr(150),
	})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	success, _ := decodeEnvelope(t, resp, nil)
	require.False(t, success)
}

func TestSubmitQuizHandler_UnknownTopic(t *testing.T) {
	svc := &stubProgressService{err: service.ErrTopicNotFound}
	app := newProgressApp(svc, true)

	req := jsonRequest(http.MethodPost, "/api/v1/student/quizzes", dto.QuizSubmissionRequest{
		TopicID: "astrology",
		QuizID:  "LM1-LOS1",
		Score:   scorePtr(50),
	})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestSubmitQuizHandler_Unauthorized(t *testing.T) {
	svc := &stubProgressService{}
	app := newProgressApp(svc, false)

	req := jsonRequest(http.MethodPost, "/api/v1/student/quizzes", dto.QuizSubmissionRequest{
		TopicID: "ethics",
		QuizID:  "LM1-LOS1",
		Score:   scorePtr(80),
	})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, 0, svc.quizCalls)
}

func TestSubmitQuizHandler_MalformedBody(t *testing.T) {
	svc := &stubProgressService{}
	app := newProgressApp(svc, true)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/student/quizzes", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.Equal(t, 0, svc.quizCalls)
}

func TestUpdateVideoCoverageHandler_Success(t *testing.T) {
	svc := &stubProgressService{rollup: dto.TopicRollupResponse{TopicID: "equity", VideoCoverage: 40}}
	app := newProgressApp(svc, true)

	req := jsonRequest(http.MethodPut, "/api/v1/student/topics/equity/video", dto.VideoCoverageRequest{Coverage: scorePtr(40)})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var rollup dto.TopicRollupResponse
	success, message := decodeEnvelope(t, resp, &rollup)
	require.True(t, success)
	require.Equal(t, "video coverage updated", message)
	require.Equal(t, "equity", svc.lastTopic)
	require.Equal(t, 1, svc.videoCalls)
}
