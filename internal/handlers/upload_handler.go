package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Bharath8080/interview-assessment-ai/internal/models"
	"github.com/Bharath8080/interview-assessment-ai/internal/repositories"
	"github.com/Bharath8080/interview-assessment-ai/internal/services"
)

type UploadHandler struct {
	interviewRepo  repositories.InterviewRepository
	storageService services.StorageService
	maxFileSize    int64
	logger         *zap.Logger
}

func NewUploadHandler(
	interviewRepo repositories.InterviewRepository,
	storageService services.StorageService,
	maxFileSize int64,
	logger *zap.Logger,
) *UploadHandler {
	return &UploadHandler{
		interviewRepo:  interviewRepo,
		storageService: storageService,
		maxFileSize:    maxFileSize,
		logger:         logger,
	}
}

// HandleUpload handles POST /interviews: accepts a single media file under
// the "interview" form field, validates it, and stores it for assessment.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("interview")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "no interview file uploaded, use form field 'interview'",
		})
	}

	if file.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	filename, filePath, err := h.storageService.SaveFile(file)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		h.logger.Error("failed to save uploaded interview", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to save interview file",
		})
	}

	interview := models.Interview{
		ID:               uuid.New(),
		Filename:         filename,
		OriginalFilename: services.SanitizeFilename(file.Filename),
		FilePath:         filePath,
		SizeBytes:        file.Size,
		CreatedAt:        time.Now(),
	}

	if err := h.interviewRepo.Create(&interview); err != nil {
		// Nothing references the file if the record could not be created.
		if delErr := h.storageService.DeleteFile(filename); delErr != nil {
			h.logger.Warn("failed to clean up orphaned upload", zap.Error(delErr))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to save interview record",
		})
	}

	h.logger.Info("interview uploaded",
		zap.String("interview_id", interview.ID.String()),
		zap.Int64("size_bytes", interview.SizeBytes))

	return c.Status(fiber.StatusCreated).JSON(models.UploadResponse{
		ID:           interview.ID.String(),
		Filename:     interview.Filename,
		OriginalName: interview.OriginalFilename,
		SizeBytes:    interview.SizeBytes,
	})
}
