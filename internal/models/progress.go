package models

import "time"

// ProgressRecord is the derived per-(student, topic) rollup stored alongside the
// raw quiz attempts. Video coverage is set directly by the candidate; quiz
// coverage and average score are recomputed from attempt history after every
// submission.
type ProgressRecord struct {
	ID            uint      `gorm:"primaryKey" json:"id,omitempty"`
	StudentID     string    `gorm:"type:uuid;not null;uniqueIndex:idx_progress_student_topic" json:"student_id"`
	TopicID       string    `gorm:"size:64;not null;uniqueIndex:idx_progress_student_topic" json:"topic_id"`
	VideoCoverage float64   `json:"video_coverage"`
	QuizCoverage  float64   `json:"quiz_coverage"`
	AvgScore      float64   `json:"avg_score"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
