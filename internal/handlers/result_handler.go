package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/InMyDream21/ai-cv-evaluator-gemini/internal/models"
	"github.com/InMyDream21/ai-cv-evaluator-gemini/internal/repositories"
)

type ResultHandler struct {
	jobRepo repositories.JobRepository
}

func NewResultHandler(jobRepo repositories.JobRepository) *ResultHandler {
	return &ResultHandler{
		jobRepo: jobRepo,
	}
}

// HandleGetResult handles GET /result/:id. Non-terminal jobs render status
// only; failed jobs carry the stored message; completed jobs carry the full
// result payload.
func (h *ResultHandler) HandleGetResult(c *fiber.Ctx) error {
	idParam := c.Params("id")
	jobID, err := strconv.ParseUint(idParam, 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job ID format",
		})
	}

	job, err := h.jobRepo.FindByID(uint(jobID))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Job not found",
		})
	}

	response := models.ResultResponse{
		ID:     job.ID,
		Status: string(job.Status),
	}

	if job.Status == models.StatusCompleted {
		response.Result = &models.EvaluationData{
			CVMatchRate:     derefFloat(job.CVMatchRate),
			CVFeedback:      derefString(job.CVFeedback),
			ProjectScore:    derefFloat(job.ProjectScore),
			ProjectFeedback: derefString(job.ProjectFeedback),
			OverallSummary:  derefString(job.OverallSummary),
		}
	}

	if job.Status == models.StatusFailed && job.ErrorMessage != nil {
		response.ErrorMessage = job.ErrorMessage
	}

	return c.JSON(response)
}

func derefFloat(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
