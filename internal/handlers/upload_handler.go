package handlers

import (
	"fmt"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/InMyDream21/ai-cv-evaluator-gemini/internal/models"
	"github.com/InMyDream21/ai-cv-evaluator-gemini/internal/repositories"
	"github.com/InMyDream21/ai-cv-evaluator-gemini/internal/services"
)

type UploadHandler struct {
	uploadRepo     repositories.UploadRepository
	storageService services.StorageService
	parserService  services.DocumentParserService
	maxFileSize    int64
}

func NewUploadHandler(
	uploadRepo repositories.UploadRepository,
	storageService services.StorageService,
	parserService services.DocumentParserService,
	maxFileSize int64,
) *UploadHandler {
	return &UploadHandler{
		uploadRepo:     uploadRepo,
		storageService: storageService,
		parserService:  parserService,
		maxFileSize:    maxFileSize,
	}
}

// HandleUpload handles POST /upload. Expects multipart fields "cv" and
// "project_report"; both documents are stored, extracted to plain text, and
// persisted as a single upload record.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to parse multipart form",
		})
	}

	cvText, err := h.readDocument(form, "cv")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	projectText, err := h.readDocument(form, "project_report")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	upload := &models.Upload{
		CVText:      cvText,
		ProjectText: projectText,
	}

	if err := h.uploadRepo.Create(upload); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save upload record",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(models.UploadResponse{
		UploadID: upload.ID,
	})
}

// readDocument saves one multipart file to disk and returns its extracted
// text.
func (h *UploadHandler) readDocument(form *multipart.Form, field string) (string, error) {
	files, exists := form.File[field]
	if !exists || len(files) == 0 {
		return "", fmt.Errorf("%s file is required", field)
	}

	file := files[0]
	if file.Size > h.maxFileSize {
		return "", fmt.Errorf("%s file too large. Max size: %d bytes", field, h.maxFileSize)
	}

	filename, filePath, err := h.storageService.SaveFile(file, field)
	if err != nil {
		return "", fmt.Errorf("failed to save %s file: %v", field, err)
	}

	text, err := h.parserService.ExtractText(filePath)
	if err != nil {
		// Keep the upload directory free of files we could not read.
		h.storageService.DeleteFile(filename)
		return "", fmt.Errorf("failed to extract text from %s: %v", field, err)
	}

	return text, nil
}
