package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Bharath8080/interview-assessment-ai/internal/repositories"
)

// Worker drains queued assessments into the pipeline. Each job runs on its
// own pipeline invocation; concurrency defaults to one so submissions are
// processed strictly in order.
type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(assessmentID uuid.UUID)
}

type worker struct {
	assessRepo  repositories.AssessmentRepository
	pipeline    PipelineService
	jobQueue    chan uuid.UUID
	concurrency int
	wg          sync.WaitGroup
	stopChan    chan struct{}
	logger      *zap.Logger
}

func NewWorker(
	assessRepo repositories.AssessmentRepository,
	pipeline PipelineService,
	concurrency int,
	logger *zap.Logger,
) Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &worker{
		assessRepo:  assessRepo,
		pipeline:    pipeline,
		jobQueue:    make(chan uuid.UUID, 100),
		concurrency: concurrency,
		stopChan:    make(chan struct{}),
		logger:      logger,
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	w.logger.Info("starting assessment worker", zap.Int("concurrency", w.concurrency))

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollPendingJobs()
}

// Stop implements Worker.
func (w *worker) Stop() {
	w.logger.Info("stopping assessment worker")
	close(w.stopChan)
	w.wg.Wait()
}

// EnqueueJob implements Worker. Never blocks the caller: when the queue is
// full the job is dropped and the pending poller redelivers it.
func (w *worker) EnqueueJob(assessmentID uuid.UUID) {
	select {
	case <-w.stopChan:
		w.logger.Warn("worker stopped, cannot enqueue assessment",
			zap.String("assessment_id", assessmentID.String()))
		return
	default:
	}

	select {
	case w.jobQueue <- assessmentID:
		w.logger.Info("assessment enqueued", zap.String("assessment_id", assessmentID.String()))
	default:
		w.logger.Warn("job queue full, dropping enqueue",
			zap.String("assessment_id", assessmentID.String()))
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			w.logger.Info("worker goroutine stopped", zap.Int("worker_id", workerID))
			return
		case assessmentID := <-w.jobQueue:
			w.logger.Info("processing assessment",
				zap.Int("worker_id", workerID),
				zap.String("assessment_id", assessmentID.String()))
			if err := w.pipeline.ProcessInterview(ctx, assessmentID); err != nil {
				w.logger.Error("assessment processing failed",
					zap.Int("worker_id", workerID),
					zap.String("assessment_id", assessmentID.String()),
					zap.Error(err))
			}
		}
	}
}

// pollPendingJobs re-enqueues jobs that were created but never picked up,
// e.g. when the queue was full at submission time.
func (w *worker) pollPendingJobs() {
	defer w.wg.Done()
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ticker.C:
			pending, err := w.assessRepo.FindPendingJobs(10)
			if err != nil {
				w.logger.Warn("failed to fetch pending assessments", zap.Error(err))
				continue
			}
			for _, job := range pending {
				w.EnqueueJob(job.ID)
			}
		}
	}
}
