package repositories

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bharath8080/interview-assessment-ai/internal/models"
)

func newQueuedJob(createdAt time.Time) *models.AssessmentJob {
	return &models.AssessmentJob{
		ID:              uuid.New(),
		InterviewID:     uuid.New(),
		JobRole:         "Backend Engineer",
		ExperienceLevel: models.LevelMid,
		Status:          models.StatusQueued,
		CreatedAt:       createdAt,
	}
}

func TestAssessmentCreateAndFind(t *testing.T) {
	repo := NewAssessmentRepository()
	job := newQueuedJob(time.Now())

	require.NoError(t, repo.Create(job))

	found, err := repo.FindByID(job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.JobRole, found.JobRole)
	assert.Equal(t, models.StatusQueued, found.Status)

	// Duplicate ids are rejected.
	assert.Error(t, repo.Create(job))

	_, err = repo.FindByID(uuid.New())
	assert.Error(t, err)
}

func TestAssessmentFindReturnsCopy(t *testing.T) {
	repo := NewAssessmentRepository()
	job := newQueuedJob(time.Now())
	require.NoError(t, repo.Create(job))

	found, err := repo.FindByID(job.ID)
	require.NoError(t, err)
	found.JobRole = "mutated"

	again, err := repo.FindByID(job.ID)
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", again.JobRole)
}

func TestClaimQueued(t *testing.T) {
	repo := NewAssessmentRepository()
	job := newQueuedJob(time.Now())
	require.NoError(t, repo.Create(job))

	claimed, err := repo.ClaimQueued(job.ID)
	require.NoError(t, err)
	assert.True(t, claimed)

	found, err := repo.FindByID(job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusTranscribing, found.Status)

	// A second delivery of the same id loses the claim.
	claimed, err = repo.ClaimQueued(job.ID)
	require.NoError(t, err)
	assert.False(t, claimed)

	_, err = repo.ClaimQueued(uuid.New())
	assert.Error(t, err)
}

func TestClaimQueuedConcurrentSingleWinner(t *testing.T) {
	repo := NewAssessmentRepository()
	job := newQueuedJob(time.Now())
	require.NoError(t, repo.Create(job))

	const workers = 8
	var wg sync.WaitGroup
	var wins int32
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			claimed, err := repo.ClaimQueued(job.ID)
			if err == nil && claimed {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins)
}

func TestAssessmentStatusAndProgressUpdates(t *testing.T) {
	repo := NewAssessmentRepository()
	job := newQueuedJob(time.Now())
	require.NoError(t, repo.Create(job))

	require.NoError(t, repo.UpdateStatus(job.ID, models.StatusTranscribing))
	require.NoError(t, repo.UpdateProgress(job.ID, models.Progress{Phase: "Transcribing audio...", Fraction: 0.2}))

	found, err := repo.FindByID(job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusTranscribing, found.Status)
	assert.Equal(t, "Transcribing audio...", found.Progress.Phase)
	assert.Equal(t, 0.2, found.Progress.Fraction)
	assert.False(t, found.UpdatedAt.IsZero())

	assert.Error(t, repo.UpdateStatus(uuid.New(), models.StatusFailed))
}

func TestAssessmentUpdateResultClearsError(t *testing.T) {
	repo := NewAssessmentRepository()
	job := newQueuedJob(time.Now())
	require.NoError(t, repo.Create(job))

	require.NoError(t, repo.UpdateError(job.ID, "transient failure"))
	require.NoError(t, repo.UpdateResult(job.ID, &models.Assessment{Summary: "ok", FinalScore: 75}))

	found, err := repo.FindByID(job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, found.Status)
	require.NotNil(t, found.Result)
	assert.Equal(t, 75.0, found.Result.FinalScore)
	assert.Empty(t, found.ErrorMessage)
}

func TestAssessmentUpdateErrorMarksFailed(t *testing.T) {
	repo := NewAssessmentRepository()
	job := newQueuedJob(time.Now())
	require.NoError(t, repo.Create(job))

	require.NoError(t, repo.UpdateError(job.ID, "transcription failed"))

	found, err := repo.FindByID(job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, found.Status)
	assert.Equal(t, "transcription failed", found.ErrorMessage)
}

func TestFindPendingJobsOrderAndLimit(t *testing.T) {
	repo := NewAssessmentRepository()

	base := time.Now()
	oldest := newQueuedJob(base.Add(-3 * time.Minute))
	middle := newQueuedJob(base.Add(-2 * time.Minute))
	newest := newQueuedJob(base.Add(-1 * time.Minute))
	running := newQueuedJob(base.Add(-4 * time.Minute))

	for _, job := range []*models.AssessmentJob{newest, oldest, running, middle} {
		require.NoError(t, repo.Create(job))
	}
	require.NoError(t, repo.UpdateStatus(running.ID, models.StatusAnalyzing))

	pending, err := repo.FindPendingJobs(0)
	require.NoError(t, err)
	require.Len(t, pending, 3)
	assert.Equal(t, oldest.ID, pending[0].ID)
	assert.Equal(t, middle.ID, pending[1].ID)
	assert.Equal(t, newest.ID, pending[2].ID)

	limited, err := repo.FindPendingJobs(2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, oldest.ID, limited[0].ID)
}

func TestAssessmentDelete(t *testing.T) {
	repo := NewAssessmentRepository()
	job := newQueuedJob(time.Now())
	require.NoError(t, repo.Create(job))

	require.NoError(t, repo.Delete(job.ID))

	_, err := repo.FindByID(job.ID)
	assert.Error(t, err)
	assert.Error(t, repo.Delete(job.ID))
}

func TestInterviewRepositoryLifecycle(t *testing.T) {
	repo := NewInterviewRepository()

	interview := &models.Interview{
		ID:               uuid.New(),
		Filename:         "interview_abc.mp3",
		OriginalFilename: "candidate.mp3",
		FilePath:         "/tmp/interview_abc.mp3",
		SizeBytes:        2048,
		CreatedAt:        time.Now(),
	}
	require.NoError(t, repo.Create(interview))
	assert.Error(t, repo.Create(interview))

	found, err := repo.FindByID(interview.ID)
	require.NoError(t, err)
	assert.Equal(t, "candidate.mp3", found.OriginalFilename)

	require.NoError(t, repo.Delete(interview.ID))
	_, err = repo.FindByID(interview.ID)
	assert.Error(t, err)
	assert.Error(t, repo.Delete(interview.ID))
}
