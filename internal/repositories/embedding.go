package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/InMyDream21/ai-cv-evaluator-gemini/internal/models"
)

type EmbeddingRepository interface {
	Append(embedding *models.Embedding) error
	FindByNamespace(namespace string) ([]models.Embedding, error)
}

type embeddingRepository struct {
	db *gorm.DB
}

func NewEmbeddingRepository(db *gorm.DB) EmbeddingRepository {
	return &embeddingRepository{db: db}
}

// Append implements EmbeddingRepository. Inserts only; duplicate chunk IDs
// are allowed, so repeated ingestion of the same corpus stacks up rows.
// Deduplication is the caller's responsibility.
func (r *embeddingRepository) Append(embedding *models.Embedding) error {
	if err := r.db.Create(embedding).Error; err != nil {
		return fmt.Errorf("failed to append embedding: %w", err)
	}

	return nil
}

// FindByNamespace implements EmbeddingRepository. Returns rows in insertion
// order; an unknown namespace yields an empty slice, not an error.
func (r *embeddingRepository) FindByNamespace(namespace string) ([]models.Embedding, error) {
	var embeddings []models.Embedding
	err := r.db.
		Where("namespace = ?", namespace).
		Order("id ASC").
		Find(&embeddings).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find embeddings: %w", err)
	}

	return embeddings, nil
}
