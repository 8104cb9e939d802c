package store

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"gorm.io/datatypes"

	"github.com/finbudd/cfa-tracker-api/internal/backend"
	"github.com/finbudd/cfa-tracker-api/internal/models"
)

const (
	collectionStudents = "students"
	collectionProgress = "student_progress"
	collectionAttempts = "quiz_scores"

	dateLayout = "2006-01-02"
)

type remoteStore struct {
	client     *backend.Client
	serviceKey string
}

// NewRemoteStore exposes the hosted backend's row collections as a Store. Row
// operations run under the caller's bearer token when one is bound to the
// context, falling back to the service key otherwise.
func NewRemoteStore(client *backend.Client, serviceKey string) Store {
	return &remoteStore{client: client, serviceKey: serviceKey}
}

func (s *remoteStore) token(ctx context.Context) string {
	if token := backend.TokenFromContext(ctx); token != "" {
		return token
	}
	return s.serviceKey
}

// studentRow mirrors the students collection. Dates travel as plain
// YYYY-MM-DD strings on the wire.
type studentRow struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	ExamDate *string `json:"exam_date,omitempty"`
}

func (r studentRow) toModel() models.Student {
	student := models.Student{ID: r.ID, Name: r.Name, Email: r.Email}
	if r.ExamDate != nil {
		if parsed, err := time.Parse(dateLayout, *r.ExamDate); err == nil {
			date := datatypes.Date(parsed)
			student.ExamDate = &date
		}
	}
	return student
}

type progressRow struct {
	StudentID     string  `json:"student_id"`
	TopicID       string  `json:"topic_id"`
	VideoCoverage float64 `json:"video_coverage"`
	QuizCoverage  float64 `json:"quiz_coverage"`
	AvgScore      float64 `json:"avg_score"`
}

func (r progressRow) toModel() models.ProgressRecord {
	return models.ProgressRecord{
		StudentID:     r.StudentID,
		TopicID:       r.TopicID,
		VideoCoverage: r.VideoCoverage,
		QuizCoverage:  r.QuizCoverage,
		AvgScore:      r.AvgScore,
	}
}

type attemptRow struct {
	StudentID string  `json:"student_id"`
	TopicID   string  `json:"topic_id"`
	QuizID    string  `json:"quiz_id"`
	Score     float64 `json:"score"`
}

func (s *remoteStore) GetStudent(ctx context.Context, id string) (models.Student, error) {
	var rows []studentRow
	filter := "id=eq." + url.QueryEscape(id)
	if err := s.client.Select(ctx, s.token(ctx), collectionStudents, filter, &rows); err != nil {
		return models.Student{}, err
	}
	if len(rows) == 0 {
		return models.Student{}, ErrNotFound
	}
	return rows[0].toModel(), nil
}

func (s *remoteStore) ListStudents(ctx context.Context) ([]models.Student, error) {
	var rows []studentRow
	if err := s.client.Select(ctx, s.token(ctx), collectionStudents, "select=*", &rows); err != nil {
		return nil, err
	}

	students := make([]models.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, row.toModel())
	}
	return students, nil
}

func (s *remoteStore) CreateStudent(ctx context.Context, student *models.Student) error {
	payload := map[string]interface{}{
		"id":    student.ID,
		"name":  student.Name,
		"email": student.Email,
	}
	if student.ExamDate != nil {
		payload["exam_date"] = time.Time(*student.ExamDate).Format(dateLayout)
	}
	return s.client.Insert(ctx, s.token(ctx), collectionStudents, payload, nil)
}

func (s *remoteStore) GetProgress(ctx context.Context, studentID, topicID string) (models.ProgressRecord, bool, error) {
	var rows []progressRow
	filter := fmt.Sprintf("student_id=eq.%s&topic_id=eq.%s", url.QueryEscape(studentID), url.QueryEscape(topicID))
	if err := s.client.Select(ctx, s.token(ctx), collectionProgress, filter, &rows); err != nil {
		return models.ProgressRecord{}, false, err
	}
	if len(rows) == 0 {
		return models.ProgressRecord{}, false, nil
	}
	return rows[0].toModel(), true, nil
}

func (s *remoteStore) ListProgress(ctx context.Context, studentID string) ([]models.ProgressRecord, error) {
	filter := "select=*"
	if studentID != "" {
		filter = "student_id=eq." + url.QueryEscape(studentID)
	}

	var rows []progressRow
	if err := s.client.Select(ctx, s.token(ctx), collectionProgress, filter, &rows); err != nil {
		return nil, err
	}

	records := make([]models.ProgressRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toModel())
	}
	return records, nil
}

func (s *remoteStore) UpsertProgress(ctx context.Context, record *models.ProgressRecord) error {
	payload := progressRow{
		StudentID:     record.StudentID,
		TopicID:       record.TopicID,
		VideoCoverage: record.VideoCoverage,
		QuizCoverage:  record.QuizCoverage,
		AvgScore:      record.AvgScore,
	}
	return s.client.Upsert(ctx, s.token(ctx), collectionProgress, "student_id,topic_id", payload, nil)
}

func (s *remoteStore) CreateAttempt(ctx context.Context, attempt *models.QuizAttempt) error {
	payload := attemptRow{
		StudentID: attempt.StudentID,
		TopicID:   attempt.TopicID,
		QuizID:    attempt.QuizID,
		Score:     attempt.Score,
	}
	return s.client.Insert(ctx, s.token(ctx), collectionAttempts, payload, nil)
}

func (s *remoteStore) ListAttempts(ctx context.Context, studentID, topicID string) ([]models.QuizAttempt, error) {
	values := url.Values{}
	if studentID != "" {
		values.Set("student_id", "eq."+studentID)
	}
	if topicID != "" {
		values.Set("topic_id", "eq."+topicID)
	}
	values.Set("order", "created_at.asc")

	var rows []attemptRow
	if err := s.client.Select(ctx, s.token(ctx), collectionAttempts, values.Encode(), &rows); err != nil {
		return nil, err
	}

	attempts := make([]models.QuizAttempt, 0, len(rows))
	for _, row := range rows {
		attempts = append(attempts, models.QuizAttempt{
			StudentID: row.StudentID,
			TopicID:   row.TopicID,
			QuizID:    row.QuizID,
			Score:     row.Score,
		})
	}
	return attempts, nil
}
