package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/InMyDream21/ai-cv-evaluator-gemini/internal/models"
)

type UploadRepository interface {
	Create(upload *models.Upload) error
	FindByID(id uint) (*models.Upload, error)
}

type uploadRepository struct {
	db *gorm.DB
}

func NewUploadRepository(db *gorm.DB) UploadRepository {
	return &uploadRepository{db: db}
}

// Create implements UploadRepository.
func (r *uploadRepository) Create(upload *models.Upload) error {
	if err := r.db.Create(upload).Error; err != nil {
		return fmt.Errorf("failed to create upload: %w", err)
	}

	return nil
}

// FindByID implements UploadRepository.
func (r *uploadRepository) FindByID(id uint) (*models.Upload, error) {
	var upload models.Upload
	if err := r.db.Where("id = ?", id).First(&upload).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("upload not found")
		}

		return nil, fmt.Errorf("failed to find upload: %w", err)
	}

	return &upload, nil
}
