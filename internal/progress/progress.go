// Package progress contains the pure aggregation rules that roll per-topic quiz
// attempts and coverage figures up into dashboard metrics. It performs no I/O;
// topic weights are passed in by the caller.
package progress

import (
	"math"
	"time"
)

// TotalOutcomesPerTopic is the fixed denominator used when converting distinct
// attempted quiz ids into a coverage percentage. It is a compatibility
// constant, not derived from the generated module structure.
const TotalOutcomesPerTopic = 50

// Status classification labels for a candidate's combined progress metric.
const (
	StatusOnTrack   = "On Track"
	StatusNeedsWork = "Needs Work"
	StatusAtRisk    = "At Risk"
)

// Color hints bucketing scores and coverage values for display.
const (
	ColorLow  = "#ef4444"
	ColorMid  = "#f59e0b"
	ColorHigh = "#10b981"
)

// TopicRecord is the per-topic input to the overall rollup.
type TopicRecord struct {
	VideoCoverage float64
	QuizCoverage  float64
	AvgScore      float64
}

// Overall holds the summary metrics across all topics.
type Overall struct {
	QuizCoverage  float64
	VideoCoverage float64
	AvgScore      float64
	WeightedScore float64
}

// AggregateAttempts reduces a topic's attempt history, keyed by quiz id with
// attempts ordered oldest first, into the topic-level average score and quiz
// coverage. Only the most recent attempt per quiz counts toward the average;
// coverage counts distinct quiz ids against the fixed outcome total.
func AggregateAttempts(attemptsByQuiz map[string][]float64) (avgScore, quizCoverage float64) {
	var total float64
	var quizzes int

	for _, attempts := range attemptsByQuiz {
		if len(attempts) == 0 {
			continue
		}
		total += attempts[len(attempts)-1]
		quizzes++
	}

	if quizzes == 0 {
		return 0, 0
	}

	avgScore = total / float64(quizzes)
	quizCoverage = float64(quizzes) / TotalOutcomesPerTopic * 100
	return avgScore, quizCoverage
}

// OverallOf computes summary metrics across the topic set described by
// weights. Topics without a record contribute zeros, so inactive topics drag
// the averages down rather than disappearing from them.
func OverallOf(records map[string]TopicRecord, weights map[string]float64) Overall {
	if len(weights) == 0 {
		return Overall{}
	}

	var overall Overall
	var weightTotal float64
	var weightedTotal float64

	for topicID, weight := range weights {
		record := records[topicID]
		overall.QuizCoverage += record.QuizCoverage
		overall.VideoCoverage += record.VideoCoverage
		overall.AvgScore += record.AvgScore
		weightedTotal += record.AvgScore * weight
		weightTotal += weight
	}

	topics := float64(len(weights))
	overall.QuizCoverage /= topics
	overall.VideoCoverage /= topics
	overall.AvgScore /= topics

	if weightTotal > 0 {
		overall.WeightedScore = weightedTotal / weightTotal
	}

	return overall
}

// Combined folds quiz and video coverage into the single progress percentage
// used for status classification.
func Combined(quizCoverage, videoCoverage float64) float64 {
	return (quizCoverage + videoCoverage) / 2
}

// DaysRemaining counts whole days from now until the exam date, comparing at
// midnight and clamping at zero. A zero exam date yields 0.
func DaysRemaining(examDate, now time.Time) int {
	if examDate.IsZero() {
		return 0
	}

	exam := midnight(examDate)
	today := midnight(now)
	days := int(math.Floor(exam.Sub(today).Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}

// StatusFor classifies a combined progress metric. Boundaries are inclusive at
// the lower end.
func StatusFor(combined float64) string {
	switch {
	case combined >= 70:
		return StatusOnTrack
	case combined >= 50:
		return StatusNeedsWork
	default:
		return StatusAtRisk
	}
}

// ColorFor buckets a score or coverage value into its display color.
func ColorFor(score float64) string {
	switch {
	case score < 50:
		return ColorLow
	case score < 70:
		return ColorMid
	default:
		return ColorHigh
	}
}

func midnight(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
