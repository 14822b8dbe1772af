package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Bharath8080/interview-assessment-ai/internal/models"
	"github.com/Bharath8080/interview-assessment-ai/internal/repositories"
	"github.com/Bharath8080/interview-assessment-ai/internal/taxonomy"
)

// PipelineService runs one interview submission end to end: transcription,
// analysis, result storage. Every failure is converted to a single
// user-facing message on the job; raw provider errors never leave here.
type PipelineService interface {
	ProcessInterview(ctx context.Context, assessmentID uuid.UUID) error
}

type pipelineService struct {
	assessRepo    repositories.AssessmentRepository
	interviewRepo repositories.InterviewRepository
	transcriber   TranscriptionService
	analyzer      AnalyzerService
	storage       StorageService
	rubric        taxonomy.Taxonomy
	logger        *zap.Logger
}

func NewPipelineService(
	assessRepo repositories.AssessmentRepository,
	interviewRepo repositories.InterviewRepository,
	transcriber TranscriptionService,
	analyzer AnalyzerService,
	storage StorageService,
	rubric taxonomy.Taxonomy,
	logger *zap.Logger,
) PipelineService {
	return &pipelineService{
		assessRepo:    assessRepo,
		interviewRepo: interviewRepo,
		transcriber:   transcriber,
		analyzer:      analyzer,
		storage:       storage,
		rubric:        rubric,
		logger:        logger,
	}
}

func (p *pipelineService) ProcessInterview(ctx context.Context, assessmentID uuid.UUID) error {
	// The pending poller can hand out an id that is already in flight or
	// finished; the claim is atomic, so only one invocation proceeds.
	claimed, err := p.assessRepo.ClaimQueued(assessmentID)
	if err != nil {
		return fmt.Errorf("failed to load assessment: %w", err)
	}
	if !claimed {
		p.logger.Debug("skipping assessment not in queued state",
			zap.String("assessment_id", assessmentID.String()))
		return nil
	}

	job, err := p.assessRepo.FindByID(assessmentID)
	if err != nil {
		return fmt.Errorf("failed to load assessment: %w", err)
	}

	interview, err := p.interviewRepo.FindByID(job.InterviewID)
	if err != nil {
		p.fail(assessmentID, err)
		return fmt.Errorf("failed to load interview: %w", err)
	}

	// The temporary media is released on every exit path, whichever stage
	// the run ends in.
	defer func() {
		if err := p.storage.DeleteFile(interview.Filename); err != nil {
			p.logger.Warn("failed to delete interview media",
				zap.String("filename", interview.Filename), zap.Error(err))
		}
		if err := p.interviewRepo.Delete(interview.ID); err != nil {
			p.logger.Warn("failed to delete interview record",
				zap.String("interview_id", interview.ID.String()), zap.Error(err))
		}
	}()

	p.logger.Info("starting interview pipeline",
		zap.String("assessment_id", assessmentID.String()),
		zap.String("job_role", job.JobRole))

	rubric := p.rubric
	if len(job.Weights) > 0 {
		rubric, err = p.rubric.Normalize(job.Weights)
		if err != nil {
			p.fail(assessmentID, err)
			return fmt.Errorf("failed to apply custom weights: %w", err)
		}
	}

	// Transcription phase. The claim above already moved the job to
	// transcribing.
	p.setProgress(assessmentID, "Transcribing audio...", 0.2)

	transcript, err := p.transcriber.Transcribe(ctx, interview.FilePath, func(message string) {
		p.setProgress(assessmentID, message, 0.4)
	})
	if err != nil {
		p.fail(assessmentID, err)
		return fmt.Errorf("transcription stage failed: %w", err)
	}

	if strings.TrimSpace(transcript) == "" {
		p.fail(assessmentID, ErrEmptyTranscript)
		return ErrEmptyTranscript
	}

	p.setStatus(assessmentID, models.StatusTranscribed)
	p.setProgress(assessmentID, "Transcription complete", 0.5)

	// Analysis phase.
	p.setStatus(assessmentID, models.StatusAnalyzing)
	p.setProgress(assessmentID, "Analyzing interview...", 0.6)

	assessment, err := p.analyzer.Analyze(ctx, transcript, AnalysisRequest{
		JobRole:         job.JobRole,
		ExperienceLevel: job.ExperienceLevel,
		CandidateName:   job.CandidateName,
		Notes:           job.Notes,
		Rubric:          rubric,
	})
	if err != nil {
		p.fail(assessmentID, err)
		return fmt.Errorf("analysis stage failed: %w", err)
	}

	p.setProgress(assessmentID, "Saving results...", 0.9)
	if err := p.assessRepo.UpdateResult(assessmentID, assessment); err != nil {
		p.fail(assessmentID, err)
		return fmt.Errorf("failed to save assessment result: %w", err)
	}
	p.setProgress(assessmentID, "Analysis complete", 1.0)

	p.logger.Info("interview pipeline completed",
		zap.String("assessment_id", assessmentID.String()),
		zap.Float64("final_score", assessment.FinalScore))

	return nil
}

func (p *pipelineService) setStatus(id uuid.UUID, status models.AssessmentStatus) {
	if err := p.assessRepo.UpdateStatus(id, status); err != nil {
		p.logger.Warn("failed to update assessment status",
			zap.String("assessment_id", id.String()), zap.Error(err))
	}
}

func (p *pipelineService) setProgress(id uuid.UUID, phase string, fraction float64) {
	if err := p.assessRepo.UpdateProgress(id, models.Progress{Phase: phase, Fraction: fraction}); err != nil {
		p.logger.Warn("failed to update assessment progress",
			zap.String("assessment_id", id.String()), zap.Error(err))
	}
}

func (p *pipelineService) fail(id uuid.UUID, err error) {
	p.logger.Error("interview pipeline failed",
		zap.String("assessment_id", id.String()), zap.Error(err))
	if updateErr := p.assessRepo.UpdateError(id, userMessage(err)); updateErr != nil {
		p.logger.Warn("failed to record assessment error",
			zap.String("assessment_id", id.String()), zap.Error(updateErr))
	}
}

// userMessage maps pipeline errors to the single message shown to clients.
func userMessage(err error) string {
	switch {
	case errors.Is(err, ErrEmptyTranscript):
		return "No speech detected in the audio. Please check the file quality."
	case errors.Is(err, ErrTranscriptionTimeout):
		return "Transcription timed out. Please try a shorter recording."
	case errors.Is(err, ErrTranscriptionFailed), errors.Is(err, ErrUpload),
		errors.Is(err, ErrJobStart), errors.Is(err, ErrPoll):
		return "Transcription failed. Please verify the recording and try again."
	case errors.Is(err, ErrQuotaExceeded):
		return "API quota exceeded. Please check your billing or try again later."
	case errors.Is(err, ErrModelUnavailable):
		return "The analysis model returned no usable content. Please try again."
	case errors.Is(err, ErrAnalysisParse):
		return "Failed to parse the analysis response after multiple attempts."
	default:
		return "Analysis failed. Please try again."
	}
}
