package catalog

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)
	require.NotEmpty(t, cat.Version())

	topics := cat.Topics()
	require.Len(t, topics, 10)

	var weightTotal float64
	seen := map[string]bool{}
	for _, topic := range topics {
		require.False(t, seen[topic.ID], "topic ids must be unique")
		seen[topic.ID] = true
		require.Greater(t, topic.Weight, 0.0)
		weightTotal += topic.Weight
	}
	require.InDelta(t, 100.0, weightTotal, 0.0001)
}

func TestTopicLookup(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	ethics, ok := cat.Topic("ethics")
	require.True(t, ok)
	require.Equal(t, "Ethics", ethics.Name)

	_, ok = cat.Topic("nope")
	require.False(t, ok)
}

func TestWeightsMatchTopics(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	weights := cat.Weights()
	require.Len(t, weights, len(cat.Topics()))
	for _, topic := range cat.Topics() {
		require.Equal(t, topic.Weight, weights[topic.ID])
	}
}

func TestModulesAreDeterministic(t *testing.T) {
	first, err := Default()
	require.NoError(t, err)
	second, err := Default()
	require.NoError(t, err)

	for _, topic := range first.Topics() {
		a, ok := first.Modules(topic.ID)
		require.True(t, ok)
		b, ok := second.Modules(topic.ID)
		require.True(t, ok)
		require.Equal(t, a, b, "module structure must be stable for a catalog version")
	}
}

func TestModulesStructure(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	topic, ok := cat.Topic("fixedIncome")
	require.True(t, ok)

	modules, ok := cat.Modules(topic.ID)
	require.True(t, ok)
	require.Len(t, modules, topic.ModuleCount)

	for n, module := range modules {
		require.Equal(t, fmt.Sprintf("LM%d", n+1), module.ID)
		require.GreaterOrEqual(t, len(module.Outcomes), minOutcomesPerModule)
		require.LessOrEqual(t, len(module.Outcomes), maxOutcomesPerModule)
		for m, outcome := range module.Outcomes {
			require.Equal(t, fmt.Sprintf("%s-LOS%d", module.ID, m+1), outcome.ID)
		}
	}

	_, ok = cat.Modules("nope")
	require.False(t, ok)
}

func TestParseRejectsInvalidDocuments(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"missing version", `{"topics":[{"id":"a","name":"A","weight":10}]}`},
		{"empty topics", `{"version":"v1","topics":[]}`},
		{"zero weight", `{"version":"v1","topics":[{"id":"a","name":"A","weight":0}]}`},
		{"duplicate ids", `{"version":"v1","topics":[{"id":"a","name":"A","weight":10},{"id":"a","name":"B","weight":5}]}`},
		{"not json", `topics: nope`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parse([]byte(tc.raw))
			require.Error(t, err)
		})
	}
}
