package dto

// AdminStudentOverview is one roster row on the admin dashboard.
type AdminStudentOverview struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Email            string  `json:"email"`
	ExamDate         string  `json:"exam_date"`
	DaysRemaining    int     `json:"days_remaining"`
	QuizCoverage     float64 `json:"quiz_coverage"`
	VideoCoverage    float64 `json:"video_coverage"`
	AvgScore         float64 `json:"avg_score"`
	WeightedScore    float64 `json:"weighted_score"`
	CombinedProgress float64 `json:"combined_progress"`
	Status           string  `json:"status"`
	AttemptCount     int     `json:"attempt_count"`
}

// AdminKPIs aggregates the roster into headline numbers. All values are zero
// when no students are registered.
type AdminKPIs struct {
	TotalStudents   int     `json:"total_students"`
	AvgQuizCoverage float64 `json:"avg_quiz_coverage"`
	AvgScore        float64 `json:"avg_score"`
}

// AdminDashboardResponse is the read-only aggregate view across all students.
type AdminDashboardResponse struct {
	KPIs     AdminKPIs              `json:"kpis"`
	Students []AdminStudentOverview `json:"students"`
}
