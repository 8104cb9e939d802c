// Package store abstracts the three tracker collections (students, progress
// rollups, quiz attempts) behind a single interface with two implementations:
// the hosted REST backend and a locally managed database.
package store

import (
	"context"
	"errors"

	"github.com/finbudd/cfa-tracker-api/internal/models"
)

// ErrNotFound indicates the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store provides access to the persisted tracker collections. List operations
// accept empty filter values as wildcards.
type Store interface {
	GetStudent(ctx context.Context, id string) (models.Student, error)
	ListStudents(ctx context.Context) ([]models.Student, error)
	CreateStudent(ctx context.Context, student *models.Student) error

	// GetProgress reports found=false, not an error, when no rollup exists
	// yet for the (student, topic) pair.
	GetProgress(ctx context.Context, studentID, topicID string) (models.ProgressRecord, bool, error)
	ListProgress(ctx context.Context, studentID string) ([]models.ProgressRecord, error)
	UpsertProgress(ctx context.Context, record *models.ProgressRecord) error

	CreateAttempt(ctx context.Context, attempt *models.QuizAttempt) error
	// ListAttempts returns attempts ordered oldest first.
	ListAttempts(ctx context.Context, studentID, topicID string) ([]models.QuizAttempt, error)
}
