package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ExperienceLevel is the seniority band the candidate is assessed against.
type ExperienceLevel string

const (
	LevelEntry  ExperienceLevel = "Entry Level (0-2 years)"
	LevelMid    ExperienceLevel = "Mid Level (3-5 years)"
	LevelSenior ExperienceLevel = "Senior (6-10 years)"
	LevelExpert ExperienceLevel = "Expert (10+ years)"
)

func (l ExperienceLevel) Valid() bool {
	switch l {
	case LevelEntry, LevelMid, LevelSenior, LevelExpert:
		return true
	}
	return false
}

// ExperienceLevels lists the accepted bands in display order.
func ExperienceLevels() []ExperienceLevel {
	return []ExperienceLevel{LevelEntry, LevelMid, LevelSenior, LevelExpert}
}

// Interview is an uploaded media recording awaiting or under assessment.
type Interview struct {
	ID               uuid.UUID `json:"id"`
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"original_filename"`
	FilePath         string    `json:"file_path"`
	SizeBytes        int64     `json:"size_bytes"`
	CreatedAt        time.Time `json:"created_at"`
}

type AssessmentStatus string

const (
	StatusQueued       AssessmentStatus = "queued"
	StatusTranscribing AssessmentStatus = "transcribing"
	StatusTranscribed  AssessmentStatus = "transcribed"
	StatusAnalyzing    AssessmentStatus = "analyzing"
	StatusCompleted    AssessmentStatus = "completed"
	StatusFailed       AssessmentStatus = "failed"
)

// Terminal reports whether no further pipeline transitions can occur.
func (s AssessmentStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Progress is the latest pipeline phase notification, kept for polling clients.
type Progress struct {
	Phase    string  `json:"phase"`
	Fraction float64 `json:"fraction"`
}

// AssessmentJob tracks one interview submission from enqueue to completion.
// Result is set exactly once, on success; ErrorMessage on failure.
type AssessmentJob struct {
	ID              uuid.UUID          `json:"id"`
	InterviewID     uuid.UUID          `json:"interview_id"`
	JobRole         string             `json:"job_role"`
	ExperienceLevel ExperienceLevel    `json:"experience_level"`
	CandidateName   string             `json:"candidate_name,omitempty"`
	Notes           string             `json:"notes,omitempty"`
	Weights         map[string]float64 `json:"weights,omitempty"`
	Status          AssessmentStatus   `json:"status"`
	Progress        Progress           `json:"progress"`
	Result          *Assessment        `json:"result,omitempty"`
	ErrorMessage    string             `json:"error_message,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// DisplayName returns the candidate name or a neutral placeholder.
func (j *AssessmentJob) DisplayName() string {
	if strings.TrimSpace(j.CandidateName) == "" {
		return "Candidate"
	}
	return j.CandidateName
}
