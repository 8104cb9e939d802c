package models

import (
	"time"

	"gorm.io/datatypes"
)

// Student is the profile row kept for each registered candidate. Its ID matches
// the identifier assigned by the auth provider at sign-up.
type Student struct {
	ID        string          `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string          `gorm:"size:255;not null" json:"name"`
	Email     string          `gorm:"size:255;uniqueIndex;not null" json:"email"`
	ExamDate  *datatypes.Date `json:"exam_date,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ExamDateOrDefault resolves the candidate's exam date, falling back to the
// session-wide default when the profile has none recorded.
func (s Student) ExamDateOrDefault(fallback time.Time) time.Time {
	if s.ExamDate == nil {
		return fallback
	}
	return time.Time(*s.ExamDate)
}
