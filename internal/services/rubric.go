package services

// Fixed rubric weights per track. Each map is disjoint from the other and
// sums to 1.0 by construction.
var CVWeights = map[string]float64{
	"technical_skills": 0.4,
	"experience_level": 0.25,
	"achievements":     0.2,
	"culture_fit":      0.15,
}

var ProjectWeights = map[string]float64{
	"correctness":   0.3,
	"code_quality":  0.25,
	"resilience":    0.2,
	"documentation": 0.15,
	"creativity":    0.1,
}

// WeightedScore sums weight * score over the weight keys. A criterion missing
// from scores contributes 0.
func WeightedScore(scores map[string]int, weights map[string]float64) float64 {
	var total float64
	for key, weight := range weights {
		total += float64(scores[key]) * weight
	}
	return total
}

// ToPercentage converts a weighted 1..5 score to a bounded percentage.
func ToPercentage(score float64) float64 {
	pct := score * 20.0
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
