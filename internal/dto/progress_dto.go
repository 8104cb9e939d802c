package dto

// QuizSubmissionRequest records a new quiz attempt. Score is a pointer so a
// legitimate zero survives required validation.
type QuizSubmissionRequest struct {
	TopicID string   `json:"topic_id" validate:"required"`
	QuizID  string   `json:"quiz_id" validate:"required"`
	Score   *float64 `json:"score" validate:"required,gte=0,lte=100"`
}

// VideoCoverageRequest sets the candidate's watched-video percentage for a
// topic.
type VideoCoverageRequest struct {
	Coverage *float64 `json:"coverage" validate:"required,gte=0,lte=100"`
}

// TopicRollupResponse is the recomputed rollup returned after a mutation.
type TopicRollupResponse struct {
	TopicID       string  `json:"topic_id"`
	VideoCoverage float64 `json:"video_coverage"`
	QuizCoverage  float64 `json:"quiz_coverage"`
	AvgScore      float64 `json:"avg_score"`
}
