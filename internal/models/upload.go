package models

import "time"

// Upload holds the extracted plain text of one submitted document pair.
// Rows are written once at upload time and never mutated.
type Upload struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CVText      string    `gorm:"type:text;not null" json:"cv_text"`
	ProjectText string    `gorm:"type:text;not null" json:"project_text"`
	CreatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Upload) TableName() string {
	return "uploads"
}
