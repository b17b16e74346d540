package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeightedScore_FullCVMapping(t *testing.T) {
	scores := map[string]int{
		"technical_skills": 4,
		"experience_level": 3,
		"achievements":     5,
		"culture_fit":      4,
	}

	weighted := WeightedScore(scores, CVWeights)
	require.InDelta(t, 4.05, weighted, 1e-9)
	require.InDelta(t, 81.0, ToPercentage(weighted), 1e-9)
}

func TestWeightedScore_MissingCriteriaScoreZero(t *testing.T) {
	tests := []struct {
		name   string
		scores map[string]int
		want   float64
	}{
		{"empty mapping", map[string]int{}, 0},
		{"nil mapping", nil, 0},
		{"single criterion", map[string]int{"technical_skills": 5}, 2.0},
		{"unknown keys ignored", map[string]int{"nonsense": 5}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, WeightedScore(tt.scores, CVWeights), 1e-9)
		})
	}
}

func TestWeightedScore_ProjectWeights(t *testing.T) {
	scores := map[string]int{
		"correctness":   5,
		"code_quality":  5,
		"resilience":    5,
		"documentation": 5,
		"creativity":    5,
	}

	assert.InDelta(t, 5.0, WeightedScore(scores, ProjectWeights), 1e-9)
}

func TestToPercentage_Clamps(t *testing.T) {
	assert.Equal(t, 0.0, ToPercentage(-1))
	assert.Equal(t, 100.0, ToPercentage(5))
	assert.Equal(t, 100.0, ToPercentage(7))
	assert.InDelta(t, 50.0, ToPercentage(2.5), 1e-9)
}

func TestToPercentage_Monotonic(t *testing.T) {
	inputs := []float64{-2, 0, 1, 2.5, 4.05, 5, 9}
	for i := 1; i < len(inputs); i++ {
		assert.LessOrEqual(t, ToPercentage(inputs[i-1]), ToPercentage(inputs[i]))
	}
}

func TestRubricWeightsSumToOne(t *testing.T) {
	sum := func(weights map[string]float64) float64 {
		var total float64
		for _, w := range weights {
			total += w
		}
		return total
	}

	assert.InDelta(t, 1.0, sum(CVWeights), 1e-9)
	assert.InDelta(t, 1.0, sum(ProjectWeights), 1e-9)
}
