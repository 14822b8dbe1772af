package repositories

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/Bharath8080/interview-assessment-ai/internal/models"
)

type InterviewRepository interface {
	Create(interview *models.Interview) error
	FindByID(id uuid.UUID) (*models.Interview, error)
	Delete(id uuid.UUID) error
}

// interviewRepository keeps uploaded-media records in memory. Interviews
// live only for the duration of the process; durable storage is out of scope.
type interviewRepository struct {
	mu         sync.RWMutex
	interviews map[uuid.UUID]models.Interview
}

func NewInterviewRepository() InterviewRepository {
	return &interviewRepository{
		interviews: make(map[uuid.UUID]models.Interview),
	}
}

func (r *interviewRepository) Create(interview *models.Interview) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.interviews[interview.ID]; exists {
		return fmt.Errorf("interview %s already exists", interview.ID)
	}
	r.interviews[interview.ID] = *interview
	return nil
}

func (r *interviewRepository) FindByID(id uuid.UUID) (*models.Interview, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	interview, ok := r.interviews[id]
	if !ok {
		return nil, fmt.Errorf("interview not found")
	}
	return &interview, nil
}

func (r *interviewRepository) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.interviews[id]; !ok {
		return fmt.Errorf("interview not found")
	}
	delete(r.interviews, id)
	return nil
}
