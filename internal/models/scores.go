package models

// CVScores holds the per-criterion scores returned by the model for the CV
// track. Fields are pointers so a criterion the model omitted is
// distinguishable from an explicit zero; omitted criteria score 0.
type CVScores struct {
	TechnicalSkills *int `json:"technical_skills"`
	ExperienceLevel *int `json:"experience_level"`
	Achievements    *int `json:"achievements"`
	CultureFit      *int `json:"culture_fit"`
}

// Raw returns only the criteria the model actually provided.
func (s CVScores) Raw() map[string]int {
	raw := make(map[string]int)
	putScore(raw, "technical_skills", s.TechnicalSkills)
	putScore(raw, "experience_level", s.ExperienceLevel)
	putScore(raw, "achievements", s.Achievements)
	putScore(raw, "culture_fit", s.CultureFit)
	return raw
}

// ProjectScores holds the per-criterion scores for the project-report track.
type ProjectScores struct {
	Correctness   *int `json:"correctness"`
	CodeQuality   *int `json:"code_quality"`
	Resilience    *int `json:"resilience"`
	Documentation *int `json:"documentation"`
	Creativity    *int `json:"creativity"`
}

func (s ProjectScores) Raw() map[string]int {
	raw := make(map[string]int)
	putScore(raw, "correctness", s.Correctness)
	putScore(raw, "code_quality", s.CodeQuality)
	putScore(raw, "resilience", s.Resilience)
	putScore(raw, "documentation", s.Documentation)
	putScore(raw, "creativity", s.Creativity)
	return raw
}

func putScore(raw map[string]int, key string, value *int) {
	if value != nil {
		raw[key] = *value
	}
}
