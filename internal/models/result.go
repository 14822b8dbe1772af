package models

type UploadResponse struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	SizeBytes    int64  `json:"size_bytes"`
}

type AssessRequest struct {
	InterviewID     string             `json:"interview_id"`
	JobRole         string             `json:"job_role"`
	ExperienceLevel string             `json:"experience_level"`
	CandidateName   string             `json:"candidate_name,omitempty"`
	Notes           string             `json:"notes,omitempty"`
	Weights         map[string]float64 `json:"weights,omitempty"`
}

type AssessResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type ResultResponse struct {
	ID           string      `json:"id"`
	Status       string      `json:"status"`
	Progress     Progress    `json:"progress"`
	Result       *Assessment `json:"result,omitempty"`
	ErrorMessage string      `json:"error_message,omitempty"`
}
