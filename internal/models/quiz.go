package models

import "time"

// QuizAttempt is a single recorded quiz score. Attempts are append-only; they
// are never updated or deleted, and multiple attempts may share the same
// (student, topic, quiz) key.
type QuizAttempt struct {
	ID        uint      `gorm:"primaryKey" json:"id,omitempty"`
	StudentID string    `gorm:"type:uuid;not null;index" json:"student_id"`
	TopicID   string    `gorm:"size:64;not null;index" json:"topic_id"`
	QuizID    string    `gorm:"size:64;not null" json:"quiz_id"`
	Score     float64   `gorm:"not null" json:"score"`
	CreatedAt time.Time `json:"created_at"`
}
