package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Bharath8080/interview-assessment-ai/internal/models"
)

type AssessmentRepository interface {
	Create(job *models.AssessmentJob) error
	FindByID(id uuid.UUID) (*models.AssessmentJob, error)
	UpdateStatus(id uuid.UUID, status models.AssessmentStatus) error
	ClaimQueued(id uuid.UUID) (bool, error)
	UpdateProgress(id uuid.UUID, progress models.Progress) error
	UpdateResult(id uuid.UUID, result *models.Assessment) error
	UpdateError(id uuid.UUID, errorMsg string) error
	FindPendingJobs(limit int) ([]models.AssessmentJob, error)
	Delete(id uuid.UUID) error
}

// assessmentRepository is the in-memory session store for assessment jobs.
// Results are held until deleted or the process exits; each pipeline run
// owns its own job record, so the mutex only guards map access.
type assessmentRepository struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]models.AssessmentJob
}

func NewAssessmentRepository() AssessmentRepository {
	return &assessmentRepository{
		jobs: make(map[uuid.UUID]models.AssessmentJob),
	}
}

func (r *assessmentRepository) Create(job *models.AssessmentJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.jobs[job.ID]; exists {
		return fmt.Errorf("assessment %s already exists", job.ID)
	}
	r.jobs[job.ID] = *job
	return nil
}

func (r *assessmentRepository) FindByID(id uuid.UUID) (*models.AssessmentJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[id]
	if !ok {
		return nil, fmt.Errorf("assessment not found")
	}
	return &job, nil
}

func (r *assessmentRepository) UpdateStatus(id uuid.UUID, status models.AssessmentStatus) error {
	return r.update(id, func(job *models.AssessmentJob) {
		job.Status = status
	})
}

// ClaimQueued transitions a queued job to transcribing under the write lock.
// Returns false when the job is no longer queued, so of two workers handed
// the same id only one proceeds.
func (r *assessmentRepository) ClaimQueued(id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return false, fmt.Errorf("assessment not found")
	}
	if job.Status != models.StatusQueued {
		return false, nil
	}
	job.Status = models.StatusTranscribing
	job.UpdatedAt = time.Now()
	r.jobs[id] = job
	return true, nil
}

func (r *assessmentRepository) UpdateProgress(id uuid.UUID, progress models.Progress) error {
	return r.update(id, func(job *models.AssessmentJob) {
		job.Progress = progress
	})
}

func (r *assessmentRepository) UpdateResult(id uuid.UUID, result *models.Assessment) error {
	return r.update(id, func(job *models.AssessmentJob) {
		job.Status = models.StatusCompleted
		job.Result = result
		job.ErrorMessage = ""
	})
}

func (r *assessmentRepository) UpdateError(id uuid.UUID, errorMsg string) error {
	return r.update(id, func(job *models.AssessmentJob) {
		job.Status = models.StatusFailed
		job.ErrorMessage = errorMsg
	})
}

func (r *assessmentRepository) FindPendingJobs(limit int) ([]models.AssessmentJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var pending []models.AssessmentJob
	for _, job := range r.jobs {
		if job.Status == models.StatusQueued {
			pending = append(pending, job)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

func (r *assessmentRepository) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.jobs[id]; !ok {
		return fmt.Errorf("assessment not found")
	}
	delete(r.jobs, id)
	return nil
}

func (r *assessmentRepository) update(id uuid.UUID, apply func(*models.AssessmentJob)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return fmt.Errorf("assessment not found")
	}
	apply(&job)
	job.UpdatedAt = time.Now()
	r.jobs[id] = job
	return nil
}
