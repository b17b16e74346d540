package models

type UploadResponse struct {
	UploadID uint `json:"upload_id"`
}

type EvaluateRequest struct {
	UploadID uint `json:"upload_id"`
}

type EvaluateResponse struct {
	ID     uint   `json:"id"`
	Status string `json:"status"`
}

type ResultResponse struct {
	ID           uint            `json:"id"`
	Status       string          `json:"status"`
	Result       *EvaluationData `json:"result,omitempty"`
	ErrorMessage *string         `json:"error_message,omitempty"`
}

type EvaluationData struct {
	CVMatchRate     float64 `json:"cv_match_rate"`
	CVFeedback      string  `json:"cv_feedback"`
	ProjectScore    float64 `json:"project_score"`
	ProjectFeedback string  `json:"project_feedback"`
	OverallSummary  string  `json:"overall_summary"`
}
