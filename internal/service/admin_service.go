package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/finbudd/cfa-tracker-api/internal/catalog"
	"github.com/finbudd/cfa-tracker-api/internal/dto"
	"github.com/finbudd/cfa-tracker-api/internal/models"
	"github.com/finbudd/cfa-tracker-api/internal/observability"
	"github.com/finbudd/cfa-tracker-api/internal/progress"
	"github.com/finbudd/cfa-tracker-api/internal/store"
)

// AdminService produces the read-only aggregate view across all students.
type AdminService interface {
	GetDashboard(ctx context.Context) (dto.AdminDashboardResponse, error)
}

type adminService struct {
	store           store.Store
	catalog         *catalog.Catalog
	cache           *DashboardCache
	defaultExamDate time.Time
	logger          zerolog.Logger
	now             func() time.Time
}

// NewAdminService builds the roster aggregator.
func NewAdminService(st store.Store, cat *catalog.Catalog, cache *DashboardCache, defaultExamDate time.Time, logger zerolog.Logger) AdminService {
	return &adminService{
		store:           st,
		catalog:         cat,
		cache:           cache,
		defaultExamDate: defaultExamDate,
		logger:          logger.With().Str("component", "admin_service").Logger(),
		now:             time.Now,
	}
}

// GetDashboard loads every student, all progress rollups and all attempts,
// and joins them by student id. A roster with no students yields zeroed KPIs
// and an empty list, never an error.
func (s *adminService) GetDashboard(ctx context.Context) (dto.AdminDashboardResponse, error) {
	var cached dto.AdminDashboardResponse
	if s.cache.Get(ctx, adminDashboardCacheKey, &cached) {
		observability.DashboardLoads().WithLabelValues("admin", "cache").Inc()
		return cached, nil
	}

	students, err := s.store.ListStudents(ctx)
	if err != nil {
		return dto.AdminDashboardResponse{}, err
	}

	records, err := s.store.ListProgress(ctx, "")
	if err != nil {
		return dto.AdminDashboardResponse{}, err
	}

	attempts, err := s.store.ListAttempts(ctx, "", "")
	if err != nil {
		return dto.AdminDashboardResponse{}, err
	}

	response := s.buildDashboard(students, records, attempts)
	s.cache.Set(ctx, adminDashboardCacheKey, response)
	observability.DashboardLoads().WithLabelValues("admin", "store").Inc()

	return response, nil
}

func (s *adminService) buildDashboard(students []models.Student, records []models.ProgressRecord, attempts []models.QuizAttempt) dto.AdminDashboardResponse {
	recordsByStudent := make(map[string]map[string]progress.TopicRecord, len(students))
	for _, record := range records {
		byTopic, ok := recordsByStudent[record.StudentID]
		if !ok {
			byTopic = make(map[string]progress.TopicRecord)
			recordsByStudent[record.StudentID] = byTopic
		}
		byTopic[record.TopicID] = progress.TopicRecord{
			VideoCoverage: record.VideoCoverage,
			QuizCoverage:  record.QuizCoverage,
			AvgScore:      record.AvgScore,
		}
	}

	attemptsByStudent := make(map[string]int)
	for _, attempt := range attempts {
		attemptsByStudent[attempt.StudentID]++
	}

	weights := s.catalog.Weights()
	now := s.now()

	overviews := make([]dto.AdminStudentOverview, 0, len(students))
	var kpis dto.AdminKPIs
	for _, student := range students {
		overall := progress.OverallOf(recordsByStudent[student.ID], weights)
		combined := progress.Combined(overall.QuizCoverage, overall.VideoCoverage)
		examDate := student.ExamDateOrDefault(s.defaultExamDate)

		overviews = append(overviews, dto.AdminStudentOverview{
			ID:               student.ID,
			Name:             student.Name,
			Email:            student.Email,
			ExamDate:         examDate.Format(examDateLayout),
			DaysRemaining:    progress.DaysRemaining(examDate, now),
			QuizCoverage:     overall.QuizCoverage,
			VideoCoverage:    overall.VideoCoverage,
			AvgScore:         overall.AvgScore,
			WeightedScore:    overall.WeightedScore,
			CombinedProgress: combined,
			Status:           progress.StatusFor(combined),
			AttemptCount:     attemptsByStudent[student.ID],
		})

		kpis.AvgQuizCoverage += overall.QuizCoverage
		kpis.AvgScore += overall.AvgScore
	}

	kpis.TotalStudents = len(students)
	if kpis.TotalStudents > 0 {
		kpis.AvgQuizCoverage /= float64(kpis.TotalStudents)
		kpis.AvgScore /= float64(kpis.TotalStudents)
	}

	return dto.AdminDashboardResponse{KPIs: kpis, Students: overviews}
}
