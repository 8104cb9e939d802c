package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/finbudd/cfa-tracker-api/internal/models"
)

type gormStore struct {
	db *gorm.DB
}

// NewGormStore wraps a locally managed database in the Store interface. Used
// for self-hosted deployments and in tests.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// Migrate creates or updates the tracker tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Student{}, &models.ProgressRecord{}, &models.QuizAttempt{})
}

func (s *gormStore) GetStudent(ctx context.Context, id string) (models.Student, error) {
	var student models.Student
	err := s.db.WithContext(ctx).First(&student, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Student{}, ErrNotFound
	}
	if err != nil {
		return models.Student{}, err
	}
	return student, nil
}

func (s *gormStore) ListStudents(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	if err := s.db.WithContext(ctx).Order("created_at").Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

func (s *gormStore) CreateStudent(ctx context.Context, student *models.Student) error {
	return s.db.WithContext(ctx).Create(student).Error
}

func (s *gormStore) GetProgress(ctx context.Context, studentID, topicID string) (models.ProgressRecord, bool, error) {
	var record models.ProgressRecord
	err := s.db.WithContext(ctx).
		Where("student_id = ? AND topic_id = ?", studentID, topicID).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ProgressRecord{}, false, nil
	}
	if err != nil {
		return models.ProgressRecord{}, false, err
	}
	return record, true, nil
}

func (s *gormStore) ListProgress(ctx context.Context, studentID string) ([]models.ProgressRecord, error) {
	query := s.db.WithContext(ctx).Model(&models.ProgressRecord{})
	if studentID != "" {
		query = query.Where("student_id = ?", studentID)
	}

	var records []models.ProgressRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (s *gormStore) UpsertProgress(ctx context.Context, record *models.ProgressRecord) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "topic_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"video_coverage", "quiz_coverage", "avg_score", "updated_at"}),
	}).Create(record).Error
}

func (s *gormStore) CreateAttempt(ctx context.Context, attempt *models.QuizAttempt) error {
	return s.db.WithContext(ctx).Create(attempt).Error
}

func (s *gormStore) ListAttempts(ctx context.Context, studentID, topicID string) ([]models.QuizAttempt, error) {
	query := s.db.WithContext(ctx).Model(&models.QuizAttempt{})
	if studentID != "" {
		query = query.Where("student_id = ?", studentID)
	}
	if topicID != "" {
		query = query.Where("topic_id = ?", topicID)
	}

	var attempts []models.QuizAttempt
	if err := query.Order("id").Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}
