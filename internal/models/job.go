package models

import "time"

type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// IsTerminal reports whether no further status transition is allowed.
func (s JobStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job is one asynchronous evaluation of an uploaded document pair.
// Status only moves forward: queued -> processing -> completed|failed.
// Result columns are set iff completed; ErrorMessage is set iff failed.
type Job struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UploadID        uint      `gorm:"not null;index" json:"upload_id"`
	Status          JobStatus `gorm:"not null;default:'queued'" json:"status"`
	CVMatchRate     *float64  `gorm:"type:decimal(5,2)" json:"cv_match_rate,omitempty"`
	CVFeedback      *string   `gorm:"type:text" json:"cv_feedback,omitempty"`
	ProjectScore    *float64  `gorm:"type:decimal(5,2)" json:"project_score,omitempty"`
	ProjectFeedback *string   `gorm:"type:text" json:"project_feedback,omitempty"`
	OverallSummary  *string   `gorm:"type:text" json:"overall_summary,omitempty"`
	ErrorMessage    *string   `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt       time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Upload Upload `gorm:"foreignKey:UploadID" json:"-"`
}

func (Job) TableName() string {
	return "jobs"
}
