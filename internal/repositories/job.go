package repositories

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/InMyDream21/ai-cv-evaluator-gemini/internal/models"
)

type JobRepository interface {
	Create(job *models.Job) error
	FindByID(id uint) (*models.Job, error)
	MarkProcessing(id uint) error
	UpdateResult(id uint, result *JobResultData) error
	UpdateError(id uint, errorMsg string) error
	FindPendingJobs(limit int) ([]models.Job, error)
}

type JobResultData struct {
	CVMatchRate     *float64
	CVFeedback      *string
	ProjectScore    *float64
	ProjectFeedback *string
	OverallSummary  *string
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

var terminalStatuses = []models.JobStatus{models.StatusCompleted, models.StatusFailed}

func (r *jobRepository) Create(job *models.Job) error {
	if err := r.db.Create(job).Error; err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

func (r *jobRepository) FindByID(id uint) (*models.Job, error) {
	var job models.Job
	if err := r.db.Where("id = ?", id).First(&job).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("job not found")
		}
		return nil, fmt.Errorf("failed to find job: %w", err)
	}
	return &job, nil
}

// MarkProcessing moves a queued job to processing. The status predicate makes
// the claim atomic, so a job enqueued twice is only ever run once.
func (r *jobRepository) MarkProcessing(id uint) error {
	result := r.db.Model(&models.Job{}).
		Where("id = ? AND status = ?", id, models.StatusQueued).
		Updates(map[string]interface{}{
			"status":     models.StatusProcessing,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to mark job processing: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("job not found or already claimed")
	}

	return nil
}

// UpdateResult records the completed terminal state. Terminal rows are never
// overwritten: the status predicate rejects a second terminal write.
func (r *jobRepository) UpdateResult(id uint, data *JobResultData) error {
	updates := map[string]interface{}{
		"status":     models.StatusCompleted,
		"updated_at": time.Now(),
	}

	if data.CVMatchRate != nil {
		updates["cv_match_rate"] = *data.CVMatchRate
	}
	if data.CVFeedback != nil {
		updates["cv_feedback"] = *data.CVFeedback
	}
	if data.ProjectScore != nil {
		updates["project_score"] = *data.ProjectScore
	}
	if data.ProjectFeedback != nil {
		updates["project_feedback"] = *data.ProjectFeedback
	}
	if data.OverallSummary != nil {
		updates["overall_summary"] = *data.OverallSummary
	}

	result := r.db.Model(&models.Job{}).
		Where("id = ? AND status NOT IN ?", id, terminalStatuses).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update result: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("job not found or already terminal")
	}

	return nil
}

// UpdateError records the failed terminal state, guarded the same way as
// UpdateResult.
func (r *jobRepository) UpdateError(id uint, errorMsg string) error {
	result := r.db.Model(&models.Job{}).
		Where("id = ? AND status NOT IN ?", id, terminalStatuses).
		Updates(map[string]interface{}{
			"status":        models.StatusFailed,
			"error_message": errorMsg,
			"updated_at":    time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update error: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("job not found or already terminal")
	}

	return nil
}

func (r *jobRepository) FindPendingJobs(limit int) ([]models.Job, error) {
	var jobs []models.Job
	err := r.db.
		Where("status = ?", models.StatusQueued).
		Order("created_at ASC").
		Limit(limit).
		Find(&jobs).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find pending jobs: %w", err)
	}

	return jobs, nil
}
