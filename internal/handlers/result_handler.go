package handlers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Bharath8080/interview-assessment-ai/internal/models"
	"github.com/Bharath8080/interview-assessment-ai/internal/repositories"
	"github.com/Bharath8080/interview-assessment-ai/internal/services"
)

type ResultHandler struct {
	assessRepo repositories.AssessmentRepository
	exporter   services.ExporterService
}

func NewResultHandler(assessRepo repositories.AssessmentRepository, exporter services.ExporterService) *ResultHandler {
	return &ResultHandler{
		assessRepo: assessRepo,
		exporter:   exporter,
	}
}

// HandleGetResult handles GET /assessments/:id.
func (h *ResultHandler) HandleGetResult(c *fiber.Ctx) error {
	job, status := h.findJob(c)
	if job == nil {
		return status
	}

	response := models.ResultResponse{
		ID:       job.ID.String(),
		Status:   string(job.Status),
		Progress: job.Progress,
	}

	if job.Status == models.StatusCompleted {
		response.Result = job.Result
	}

	if job.Status == models.StatusFailed {
		response.ErrorMessage = job.ErrorMessage
	}

	return c.JSON(response)
}

// HandleExport handles GET /assessments/:id/export?format=json|csv|report.
func (h *ResultHandler) HandleExport(c *fiber.Ctx) error {
	job, status := h.findJob(c)
	if job == nil {
		return status
	}

	if job.Status != models.StatusCompleted || job.Result == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "assessment is not completed yet",
		})
	}

	name := strings.ReplaceAll(job.DisplayName(), " ", "_")
	format := c.Query("format", "json")

	switch format {
	case "json":
		data, err := h.exporter.ExportJSON(job.Result)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to export assessment",
			})
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		c.Set(fiber.HeaderContentDisposition,
			fmt.Sprintf(`attachment; filename="interview_assessment_%s.json"`, name))
		return c.Send(data)

	case "csv":
		data, err := h.exporter.ExportCSV(job.Result)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to export assessment",
			})
		}
		c.Set(fiber.HeaderContentType, "text/csv")
		c.Set(fiber.HeaderContentDisposition,
			fmt.Sprintf(`attachment; filename="interview_scores_%s.csv"`, name))
		return c.Send(data)

	case "report":
		data := h.exporter.ExportReport(job.Result)
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		c.Set(fiber.HeaderContentDisposition,
			fmt.Sprintf(`attachment; filename="interview_report_%s.txt"`, name))
		return c.Send(data)

	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "format must be one of json, csv, report",
		})
	}
}

// HandleDelete handles DELETE /assessments/:id, clearing a held result.
func (h *ResultHandler) HandleDelete(c *fiber.Ctx) error {
	job, status := h.findJob(c)
	if job == nil {
		return status
	}

	if !job.Status.Terminal() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "assessment is still in progress",
		})
	}

	if err := h.assessRepo.Delete(job.ID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to delete assessment",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ResultHandler) findJob(c *fiber.Ctx) (*models.AssessmentJob, error) {
	assessmentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid assessment ID format",
		})
	}

	job, err := h.assessRepo.FindByID(assessmentID)
	if err != nil {
		return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "assessment not found",
		})
	}

	return job, nil
}
