package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/finbudd/cfa-tracker-api/internal/catalog"
	"github.com/finbudd/cfa-tracker-api/internal/dto"
	"github.com/finbudd/cfa-tracker-api/internal/models"
	"github.com/finbudd/cfa-tracker-api/internal/observability"
	"github.com/finbudd/cfa-tracker-api/internal/progress"
	"github.com/finbudd/cfa-tracker-api/internal/store"
)

// ProgressService owns the mutation workflows: recording quiz attempts and
// video coverage, and keeping the derived rollups consistent with attempt
// history.
type ProgressService interface {
	SubmitQuiz(ctx context.Context, studentID string, req dto.QuizSubmissionRequest) (dto.TopicRollupResponse, error)
	UpdateVideoCoverage(ctx context.Context, studentID, topicID string, req dto.VideoCoverageRequest) (dto.TopicRollupResponse, error)
}

type progressService struct {
	store     store.Store
	catalog   *catalog.Catalog
	cache     *DashboardCache
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewProgressService constructs a ProgressService instance.
func NewProgressService(st store.Store, cat *catalog.Catalog, cache *DashboardCache, validate *validator.Validate, logger zerolog.Logger) ProgressService {
	return &progressService{
		store:     st,
		catalog:   cat,
		cache:     cache,
		validator: validate,
		logger:    logger.With().Str("component", "progress_service").Logger(),
	}
}

// SubmitQuiz appends an attempt and recomputes the topic rollup from the full
// attempt history, so a previously interrupted submission heals on the next
// successful one. Validation failures reject the request before any store
// call.
func (s *progressService) SubmitQuiz(ctx context.Context, studentID string, req dto.QuizSubmissionRequest) (dto.TopicRollupResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.TopicRollupResponse{}, err
	}
	if _, ok := s.catalog.Topic(req.TopicID); !ok {
		return dto.TopicRollupResponse{}, ErrTopicNotFound
	}

	attempt := models.QuizAttempt{
		StudentID: studentID,
		TopicID:   req.TopicID,
		QuizID:    req.QuizID,
		Score:     *req.Score,
	}
	if err := s.store.CreateAttempt(ctx, &attempt); err != nil {
		return dto.TopicRollupResponse{}, err
	}
	observability.QuizSubmissions().Inc()

	rollup, err := s.recomputeRollup(ctx, studentID, req.TopicID)
	if err != nil {
		return dto.TopicRollupResponse{}, err
	}

	s.invalidate(ctx, studentID)
	return rollup, nil
}

// UpdateVideoCoverage sets the watched-video percentage for a topic. The write
// is keyed by (student, topic), so repeating it with the same value leaves a
// single row.
func (s *progressService) UpdateVideoCoverage(ctx context.Context, studentID, topicID string, req dto.VideoCoverageRequest) (dto.TopicRollupResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.TopicRollupResponse{}, err
	}
	if _, ok := s.catalog.Topic(topicID); !ok {
		return dto.TopicRollupResponse{}, ErrTopicNotFound
	}

	record, _, err := s.store.GetProgress(ctx, studentID, topicID)
	if err != nil {
		return dto.TopicRollupResponse{}, err
	}

	record.StudentID = studentID
	record.TopicID = topicID
	record.VideoCoverage = *req.Coverage

	if err := s.store.UpsertProgress(ctx, &record); err != nil {
		return dto.TopicRollupResponse{}, err
	}

	s.invalidate(ctx, studentID)
	return rollupResponse(record), nil
}

func (s *progressService) recomputeRollup(ctx context.Context, studentID, topicID string) (dto.TopicRollupResponse, error) {
	attempts, err := s.store.ListAttempts(ctx, studentID, topicID)
	if err != nil {
		return dto.TopicRollupResponse{}, err
	}

	byQuiz := make(map[string][]float64)
	for _, attempt := range attempts {
		byQuiz[attempt.QuizID] = append(byQuiz[attempt.QuizID], attempt.Score)
	}
	avgScore, quizCoverage := progress.AggregateAttempts(byQuiz)

	// The rollup write must not clobber the separately owned video coverage.
	record, _, err := s.store.GetProgress(ctx, studentID, topicID)
	if err != nil {
		return dto.TopicRollupResponse{}, err
	}

	record.StudentID = studentID
	record.TopicID = topicID
	record.AvgScore = avgScore
	record.QuizCoverage = quizCoverage

	if err := s.store.UpsertProgress(ctx, &record); err != nil {
		return dto.TopicRollupResponse{}, err
	}

	return rollupResponse(record), nil
}

func (s *progressService) invalidate(ctx context.Context, studentID string) {
	s.cache.Invalidate(ctx, studentDashboardCacheKey(studentID), adminDashboardCacheKey)
}

func rollupResponse(record models.ProgressRecord) dto.TopicRollupResponse {
	return dto.TopicRollupResponse{
		TopicID:       record.TopicID,
		VideoCoverage: record.VideoCoverage,
		QuizCoverage:  record.QuizCoverage,
		AvgScore:      record.AvgScore,
	}
}
