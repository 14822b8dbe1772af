package models

import "time"

// RoleFit ratings produced by the model.
const (
	FitStrong   = "Strong"
	FitModerate = "Moderate"
	FitLimited  = "Limited"
)

// CategoryScore is the model's verdict for one taxonomy category.
type CategoryScore struct {
	Score         float64            `json:"score"`
	Observations  []string           `json:"observations"`
	Assessment    string             `json:"assessment"`
	Subcategories map[string]float64 `json:"subcategories,omitempty"`
}

type RoleFit struct {
	Rating        string `json:"rating"`
	Justification string `json:"justification"`
}

// Metadata records the run context attached to every successful analysis.
type Metadata struct {
	AnalyzedAt      time.Time       `json:"analysis_timestamp"`
	JobRole         string          `json:"job_role"`
	ExperienceLevel ExperienceLevel `json:"experience_level"`
	CandidateName   string          `json:"candidate_name,omitempty"`
	Provider        string          `json:"provider"`
	Model           string          `json:"model_used"`
}

// Assessment is the validated record parsed from the model's JSON reply.
// Immutable once returned from the analyzer.
type Assessment struct {
	Summary      string                   `json:"summary"`
	Categories   map[string]CategoryScore `json:"categories"`
	Strengths    []string                 `json:"strengths"`
	Improvements []string                 `json:"improvements"`
	RoleFit      RoleFit                  `json:"role_fit"`
	FinalScore   float64                  `json:"final_score"`
	Metadata     Metadata                 `json:"metadata"`
}

// AverageCategoryScore is the unweighted mean across categories, used by the
// report exporter. Returns 0 when no categories are present.
func (a *Assessment) AverageCategoryScore() float64 {
	if len(a.Categories) == 0 {
		return 0
	}
	var sum float64
	for _, c := range a.Categories {
		sum += c.Score
	}
	return sum / float64(len(a.Categories))
}
