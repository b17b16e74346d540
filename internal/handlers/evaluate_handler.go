package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/InMyDream21/ai-cv-evaluator-gemini/internal/models"
	"github.com/InMyDream21/ai-cv-evaluator-gemini/internal/repositories"
	"github.com/InMyDream21/ai-cv-evaluator-gemini/internal/services"
)

type EvaluationHandler struct {
	jobRepo    repositories.JobRepository
	uploadRepo repositories.UploadRepository
	worker     services.Worker
}

func NewEvaluationHandler(
	jobRepo repositories.JobRepository,
	uploadRepo repositories.UploadRepository,
	worker services.Worker,
) *EvaluationHandler {
	return &EvaluationHandler{
		jobRepo:    jobRepo,
		uploadRepo: uploadRepo,
		worker:     worker,
	}
}

// HandleEvaluate handles POST /evaluate. Creates a queued job for the upload
// and dispatches it to the worker; the caller polls /result/:id.
func (h *EvaluationHandler) HandleEvaluate(c *fiber.Ctx) error {
	var req models.EvaluateRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.UploadID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "upload_id is required",
		})
	}

	if _, err := h.uploadRepo.FindByID(req.UploadID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Upload not found",
		})
	}

	job := &models.Job{
		UploadID:  req.UploadID,
		Status:    models.StatusQueued,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := h.jobRepo.Create(job); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create evaluation job",
		})
	}

	h.worker.EnqueueJob(job.ID)

	return c.Status(fiber.StatusAccepted).JSON(models.EvaluateResponse{
		ID:     job.ID,
		Status: string(models.StatusQueued),
	})
}
