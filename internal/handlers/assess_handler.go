package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Bharath8080/interview-assessment-ai/internal/models"
	"github.com/Bharath8080/interview-assessment-ai/internal/repositories"
	"github.com/Bharath8080/interview-assessment-ai/internal/services"
	"github.com/Bharath8080/interview-assessment-ai/internal/taxonomy"
)

type AssessHandler struct {
	assessRepo    repositories.AssessmentRepository
	interviewRepo repositories.InterviewRepository
	worker        services.Worker
	rubric        taxonomy.Taxonomy
}

func NewAssessHandler(
	assessRepo repositories.AssessmentRepository,
	interviewRepo repositories.InterviewRepository,
	worker services.Worker,
	rubric taxonomy.Taxonomy,
) *AssessHandler {
	return &AssessHandler{
		assessRepo:    assessRepo,
		interviewRepo: interviewRepo,
		worker:        worker,
		rubric:        rubric,
	}
}

// HandleAssess handles POST /assessments: validates the request, creates a
// queued assessment job and hands it to the worker.
func (h *AssessHandler) HandleAssess(c *fiber.Ctx) error {
	var req models.AssessRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request payload",
		})
	}

	if req.InterviewID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "interview_id is required",
		})
	}

	if req.JobRole == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "job_role is required",
		})
	}

	level := models.ExperienceLevel(req.ExperienceLevel)
	if !level.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("experience_level must be one of %v", models.ExperienceLevels()),
		})
	}

	interviewID, err := uuid.Parse(req.InterviewID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid interview_id format",
		})
	}

	if _, err := h.interviewRepo.FindByID(interviewID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "interview not found",
		})
	}

	if len(req.Weights) > 0 {
		if _, err := h.rubric.Normalize(req.Weights); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
	}

	job := &models.AssessmentJob{
		ID:              uuid.New(),
		InterviewID:     interviewID,
		JobRole:         req.JobRole,
		ExperienceLevel: level,
		CandidateName:   req.CandidateName,
		Notes:           req.Notes,
		Weights:         req.Weights,
		Status:          models.StatusQueued,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	if err := h.assessRepo.Create(job); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to create assessment job",
		})
	}

	h.worker.EnqueueJob(job.ID)

	return c.Status(fiber.StatusAccepted).JSON(models.AssessResponse{
		ID:     job.ID.String(),
		Status: string(models.StatusQueued),
	})
}
