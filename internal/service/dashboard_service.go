package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/finbudd/cfa-tracker-api/internal/catalog"
	"github.com/finbudd/cfa-tracker-api/internal/dto"
	"github.com/finbudd/cfa-tracker-api/internal/models"
	"github.com/finbudd/cfa-tracker-api/internal/observability"
	"github.com/finbudd/cfa-tracker-api/internal/progress"
	"github.com/finbudd/cfa-tracker-api/internal/store"
)

// ErrTopicNotFound indicates the requested topic is not part of the catalog.
var ErrTopicNotFound = errors.New("topic not found")

const examDateLayout = "2006-01-02"

// DashboardService produces the candidate-facing dashboard views.
type DashboardService interface {
	GetDashboard(ctx context.Context, studentID string) (dto.StudentDashboardResponse, error)
	GetTopicDetail(ctx context.Context, studentID, topicID string) (dto.TopicDetailResponse, error)
}

type dashboardService struct {
	store           store.Store
	catalog         *catalog.Catalog
	cache           *DashboardCache
	defaultExamDate time.Time
	logger          zerolog.Logger
	now             func() time.Time
}

// NewDashboardService builds the student dashboard aggregator.
func NewDashboardService(st store.Store, cat *catalog.Catalog, cache *DashboardCache, defaultExamDate time.Time, logger zerolog.Logger) DashboardService {
	return &dashboardService{
		store:           st,
		catalog:         cat,
		cache:           cache,
		defaultExamDate: defaultExamDate,
		logger:          logger.With().Str("component", "dashboard_service").Logger(),
		now:             time.Now,
	}
}

func (s *dashboardService) GetDashboard(ctx context.Context, studentID string) (dto.StudentDashboardResponse, error) {
	cacheKey := studentDashboardCacheKey(studentID)

	var cached dto.StudentDashboardResponse
	if s.cache.Get(ctx, cacheKey, &cached) {
		observability.DashboardLoads().WithLabelValues("student", "cache").Inc()
		return cached, nil
	}

	student, err := s.store.GetStudent(ctx, studentID)
	if errors.Is(err, store.ErrNotFound) {
		// Profile creation at sign-up is best-effort, so a missing row is
		// tolerated and rendered with defaults.
		student = models.Student{ID: studentID}
	} else if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	records, err := s.store.ListProgress(ctx, studentID)
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	response := s.buildDashboard(student, records)
	s.cache.Set(ctx, cacheKey, response)
	observability.DashboardLoads().WithLabelValues("student", "store").Inc()

	return response, nil
}

func (s *dashboardService) GetTopicDetail(ctx context.Context, studentID, topicID string) (dto.TopicDetailResponse, error) {
	topic, ok := s.catalog.Topic(topicID)
	if !ok {
		return dto.TopicDetailResponse{}, ErrTopicNotFound
	}

	record, _, err := s.store.GetProgress(ctx, studentID, topicID)
	if err != nil {
		return dto.TopicDetailResponse{}, err
	}

	attempts, err := s.store.ListAttempts(ctx, studentID, topicID)
	if err != nil {
		return dto.TopicDetailResponse{}, err
	}

	return dto.TopicDetailResponse{
		Topic:   topicProgressOf(topic, record),
		History: quizHistoryOf(attempts),
	}, nil
}

func (s *dashboardService) buildDashboard(student models.Student, records []models.ProgressRecord) dto.StudentDashboardResponse {
	recordsByTopic := make(map[string]models.ProgressRecord, len(records))
	for _, record := range records {
		recordsByTopic[record.TopicID] = record
	}

	topics := make([]dto.TopicProgress, 0, len(s.catalog.Topics()))
	aggregate := make(map[string]progress.TopicRecord, len(recordsByTopic))
	for _, topic := range s.catalog.Topics() {
		record := recordsByTopic[topic.ID]
		topics = append(topics, topicProgressOf(topic, record))
		aggregate[topic.ID] = progress.TopicRecord{
			VideoCoverage: record.VideoCoverage,
			QuizCoverage:  record.QuizCoverage,
			AvgScore:      record.AvgScore,
		}
	}

	overall := progress.OverallOf(aggregate, s.catalog.Weights())
	combined := progress.Combined(overall.QuizCoverage, overall.VideoCoverage)
	examDate := student.ExamDateOrDefault(s.defaultExamDate)

	return dto.StudentDashboardResponse{
		Student: dto.StudentInfo{ID: student.ID, Name: student.Name, Email: student.Email},
		Summary: dto.DashboardSummary{
			QuizCoverage:     overall.QuizCoverage,
			VideoCoverage:    overall.VideoCoverage,
			AvgScore:         overall.AvgScore,
			WeightedScore:    overall.WeightedScore,
			CombinedProgress: combined,
			Status:           progress.StatusFor(combined),
			ExamDate:         examDate.Format(examDateLayout),
			DaysRemaining:    progress.DaysRemaining(examDate, s.now()),
		},
		Topics: topics,
	}
}

func topicProgressOf(topic catalog.Topic, record models.ProgressRecord) dto.TopicProgress {
	return dto.TopicProgress{
		TopicID:       topic.ID,
		Name:          topic.Name,
		Color:         topic.Color,
		Weight:        topic.Weight,
		VideoCoverage: record.VideoCoverage,
		QuizCoverage:  record.QuizCoverage,
		AvgScore:      record.AvgScore,
		CoverageColor: progress.ColorFor(record.QuizCoverage),
		ScoreColor:    progress.ColorFor(record.AvgScore),
	}
}

// quizHistoryOf groups attempts by quiz id, preserving both first-seen quiz
// order and attempt order.
func quizHistoryOf(attempts []models.QuizAttempt) []dto.QuizHistory {
	order := make([]string, 0)
	byQuiz := make(map[string][]float64)
	for _, attempt := range attempts {
		if _, seen := byQuiz[attempt.QuizID]; !seen {
			order = append(order, attempt.QuizID)
		}
		byQuiz[attempt.QuizID] = append(byQuiz[attempt.QuizID], attempt.Score)
	}

	history := make([]dto.QuizHistory, 0, len(order))
	for _, quizID := range order {
		history = append(history, dto.QuizHistory{QuizID: quizID, Attempts: byQuiz[quizID]})
	}
	return history
}
