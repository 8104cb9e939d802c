package dto

// QuizHistory lists a quiz's attempt scores, oldest first.
type QuizHistory struct {
	QuizID   string    `json:"quiz_id"`
	Attempts []float64 `json:"attempts"`
}

// TopicProgress is the per-topic breakdown line on the dashboard. Every
// catalog topic appears, zero-filled when the candidate has no activity yet.
type TopicProgress struct {
	TopicID       string  `json:"topic_id"`
	Name          string  `json:"name"`
	Color         string  `json:"color"`
	Weight        float64 `json:"weight"`
	VideoCoverage float64 `json:"video_coverage"`
	QuizCoverage  float64 `json:"quiz_coverage"`
	AvgScore      float64 `json:"avg_score"`
	CoverageColor string  `json:"coverage_color"`
	ScoreColor    string  `json:"score_color"`
}

// DashboardSummary holds the candidate's overall metrics.
type DashboardSummary struct {
	QuizCoverage     float64 `json:"quiz_coverage"`
	VideoCoverage    float64 `json:"video_coverage"`
	AvgScore         float64 `json:"avg_score"`
	WeightedScore    float64 `json:"weighted_score"`
	CombinedProgress float64 `json:"combined_progress"`
	Status           string  `json:"status"`
	ExamDate         string  `json:"exam_date"`
	DaysRemaining    int     `json:"days_remaining"`
}

// StudentInfo identifies the candidate a dashboard belongs to.
type StudentInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// StudentDashboardResponse is the full student dashboard payload.
type StudentDashboardResponse struct {
	Student StudentInfo      `json:"student"`
	Summary DashboardSummary `json:"summary"`
	Topics  []TopicProgress  `json:"topics"`
}

// TopicDetailResponse is the topic drill-down: the rollup line plus the full
// attempt history grouped by quiz id.
type TopicDetailResponse struct {
	Topic   TopicProgress `json:"topic"`
	History []QuizHistory `json:"history"`
}
