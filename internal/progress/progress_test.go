package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAggregateAttemptsZeroAttempts(t *testing.T) {
	avg, coverage := AggregateAttempts(nil)
	require.Zero(t, avg)
	require.Zero(t, coverage)

	avg, coverage = AggregateAttempts(map[string][]float64{})
	require.Zero(t, avg)
	require.Zero(t, coverage)
}

func TestAggregateAttemptsUsesLastAttemptPerQuiz(t *testing.T) {
	attempts := map[string][]float64{
		"LM1-LOS1": {60, 90},
		"LM1-LOS2": {40},
	}

	avg, coverage := AggregateAttempts(attempts)
	require.InDelta(t, 65.0, avg, 0.0001, "average must use only the most recent attempt per quiz")
	require.InDelta(t, 4.0, coverage, 0.0001)
}

func TestAggregateAttemptsCoverageCountsDistinctQuizzes(t *testing.T) {
	attempts := map[string][]float64{
		"LM1-LOS1": {50, 70, 90},
	}

	_, coverage := AggregateAttempts(attempts)
	require.InDelta(t, 2.0, coverage, 0.0001, "repeat attempts must not increase coverage")

	attempts["LM1-LOS2"] = []float64{80}
	_, coverage = AggregateAttempts(attempts)
	require.InDelta(t, 4.0, coverage, 0.0001)
}

func TestAggregateAttemptsSingleSubmission(t *testing.T) {
	avg, coverage := AggregateAttempts(map[string][]float64{"LM1-LOS1": {80}})
	require.InDelta(t, 80.0, avg, 0.0001)
	require.InDelta(t, 2.0, coverage, 0.0001)
}

func TestOverallOfWeightedScore(t *testing.T) {
	records := map[string]TopicRecord{
		"a": {AvgScore: 80},
		"b": {AvgScore: 50},
	}
	weights := map[string]float64{"a": 15, "b": 10}

	overall := OverallOf(records, weights)
	require.InDelta(t, 68.0, overall.WeightedScore, 0.0001)
	require.InDelta(t, 65.0, overall.AvgScore, 0.0001)
}

func TestOverallOfMissingTopicsCountAsZero(t *testing.T) {
	records := map[string]TopicRecord{
		"a": {QuizCoverage: 40, AvgScore: 80},
	}
	weights := map[string]float64{"a": 10, "b": 10}

	overall := OverallOf(records, weights)
	require.InDelta(t, 20.0, overall.QuizCoverage, 0.0001)
	require.InDelta(t, 40.0, overall.AvgScore, 0.0001)
	require.InDelta(t, 40.0, overall.WeightedScore, 0.0001)
}

func TestOverallOfNoTopics(t *testing.T) {
	overall := OverallOf(nil, nil)
	require.Zero(t, overall.QuizCoverage)
	require.Zero(t, overall.VideoCoverage)
	require.Zero(t, overall.AvgScore)
	require.Zero(t, overall.WeightedScore)
}

func TestCombined(t *testing.T) {
	require.InDelta(t, 50.0, Combined(40, 60), 0.0001)
	require.Zero(t, Combined(0, 0))
}

func TestDaysRemaining(t *testing.T) {
	now := time.Date(2025, time.June, 1, 15, 30, 0, 0, time.UTC)

	require.Equal(t, 0, DaysRemaining(time.Time{}, now), "unset exam date yields 0")
	require.Equal(t, 0, DaysRemaining(now, now), "exam today yields 0")
	require.Equal(t, 0, DaysRemaining(now.AddDate(0, 0, -10), now), "past exam date is clamped")
	require.Equal(t, 1, DaysRemaining(time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC), now))
	require.Equal(t, 80, DaysRemaining(time.Date(2025, time.August, 20, 0, 0, 0, 0, time.UTC), now))
}

func TestStatusForBoundaries(t *testing.T) {
	require.Equal(t, StatusOnTrack, StatusFor(70))
	require.Equal(t, StatusOnTrack, StatusFor(100))
	require.Equal(t, StatusNeedsWork, StatusFor(69.999))
	require.Equal(t, StatusNeedsWork, StatusFor(50))
	require.Equal(t, StatusAtRisk, StatusFor(49.999))
	require.Equal(t, StatusAtRisk, StatusFor(0))
}

func TestColorFor(t *testing.T) {
	require.Equal(t, ColorLow, ColorFor(49.999))
	require.Equal(t, ColorMid, ColorFor(50))
	require.Equal(t, ColorMid, ColorFor(69.999))
	require.Equal(t, ColorHigh, ColorFor(70))
}
