package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/InMyDream21/ai-cv-evaluator-gemini/internal/models"
	"github.com/InMyDream21/ai-cv-evaluator-gemini/internal/repositories"
)

// placeholderFeedback stands in when the model response carries no usable
// feedback. A malformed response degrades to zero scores rather than failing
// the job.
const placeholderFeedback = "No feedback provided."

type EvaluatorService interface {
	EvaluateCandidate(ctx context.Context, jobID uint) error
}

// TrackEvaluation is the scored outcome of one track (CV or project).
type TrackEvaluation struct {
	RawScores     map[string]int `json:"raw_scores"`
	WeightedScore float64        `json:"weighted_score"`
	Percentage    float64        `json:"percentage"`
	Feedback      string         `json:"feedback"`
}

type evaluatorService struct {
	jobRepo       repositories.JobRepository
	uploadRepo    repositories.UploadRepository
	retriever     Retriever
	gemini        GeminiService
	promptBuilder *PromptBuilder
	rubricText    string
	topK          int
	scoreTemp     float32
	summaryTemp   float32
}

func NewEvaluatorService(
	jobRepo repositories.JobRepository,
	uploadRepo repositories.UploadRepository,
	retriever Retriever,
	gemini GeminiService,
	rubricText string,
	topK int,
	scoreTemp, summaryTemp float32,
) EvaluatorService {
	return &evaluatorService{
		jobRepo:       jobRepo,
		uploadRepo:    uploadRepo,
		retriever:     retriever,
		gemini:        gemini,
		promptBuilder: NewPromptBuilder(),
		rubricText:    rubricText,
		topK:          topK,
		scoreTemp:     scoreTemp,
		summaryTemp:   summaryTemp,
	}
}

type cvEvaluationResponse struct {
	Scores   models.CVScores `json:"scores"`
	Feedback string          `json:"feedback"`
}

type projectEvaluationResponse struct {
	Scores   models.ProjectScores `json:"scores"`
	Feedback string               `json:"feedback"`
}

// EvaluateCandidate runs one job to a terminal state. Any failure past the
// processing claim is recorded on the job, so no job is left in processing.
func (e *evaluatorService) EvaluateCandidate(ctx context.Context, jobID uint) error {
	// Claiming the job fails if another worker already took it; in that case
	// leave the record alone.
	if err := e.jobRepo.MarkProcessing(jobID); err != nil {
		return fmt.Errorf("failed to claim job: %w", err)
	}

	log.Printf("🔄 Starting evaluation for job ID: %d\n", jobID)

	job, err := e.jobRepo.FindByID(jobID)
	if err != nil {
		e.jobRepo.UpdateError(jobID, err.Error())
		return fmt.Errorf("failed to get job: %w", err)
	}

	upload, err := e.uploadRepo.FindByID(job.UploadID)
	if err != nil {
		e.jobRepo.UpdateError(jobID, fmt.Sprintf("Upload not found: %v", err))
		return fmt.Errorf("failed to get upload: %w", err)
	}

	log.Println("🤖 Evaluating CV...")
	cvEval, err := e.evaluateCV(ctx, upload.CVText)
	if err != nil {
		e.jobRepo.UpdateError(jobID, fmt.Sprintf("Failed to evaluate CV: %v", err))
		return fmt.Errorf("failed to evaluate CV: %w", err)
	}

	log.Println("🤖 Evaluating project report...")
	projectEval, err := e.evaluateProject(ctx, upload.ProjectText)
	if err != nil {
		e.jobRepo.UpdateError(jobID, fmt.Sprintf("Failed to evaluate project: %v", err))
		return fmt.Errorf("failed to evaluate project: %w", err)
	}

	log.Println("🤖 Generating overall summary...")
	summary, err := e.generateSummary(ctx, cvEval, projectEval)
	if err != nil {
		e.jobRepo.UpdateError(jobID, fmt.Sprintf("Failed to generate summary: %v", err))
		return fmt.Errorf("failed to generate summary: %w", err)
	}

	log.Println("💾 Saving evaluation results...")
	updateData := &repositories.JobResultData{
		CVMatchRate:     &cvEval.Percentage,
		CVFeedback:      &cvEval.Feedback,
		ProjectScore:    &projectEval.Percentage,
		ProjectFeedback: &projectEval.Feedback,
		OverallSummary:  &summary,
	}

	if err := e.jobRepo.UpdateResult(jobID, updateData); err != nil {
		e.jobRepo.UpdateError(jobID, fmt.Sprintf("Failed to save results: %v", err))
		return fmt.Errorf("failed to save results: %w", err)
	}

	log.Printf("✅ Evaluation completed successfully for job ID: %d\n", jobID)
	return nil
}

// evaluateCV retrieves job-description context using the candidate's own CV
// text as the query, then scores the model's JSON response.
func (e *evaluatorService) evaluateCV(ctx context.Context, cvText string) (*TrackEvaluation, error) {
	chunks, err := e.retriever.TopK(ctx, NamespaceJobDescription, cvText, e.topK)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve CV context: %w", err)
	}

	prompt := e.promptBuilder.BuildCVEvaluationPrompt(FormatContext(chunks), cvText)
	response, err := e.gemini.GenerateText(ctx, prompt, SystemEvaluator, e.scoreTemp)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CV evaluation: %w", err)
	}

	var parsed cvEvaluationResponse
	decodeModelJSON(response, &parsed)

	return e.scoreTrack(parsed.Scores.Raw(), CVWeights, parsed.Feedback), nil
}

// evaluateProject retrieves rubric context using the rubric text as the
// query, then scores the model's JSON response.
func (e *evaluatorService) evaluateProject(ctx context.Context, projectText string) (*TrackEvaluation, error) {
	chunks, err := e.retriever.TopK(ctx, NamespaceProjectRubric, e.rubricText, e.topK)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve project context: %w", err)
	}

	prompt := e.promptBuilder.BuildProjectEvaluationPrompt(FormatContext(chunks), projectText)
	response, err := e.gemini.GenerateText(ctx, prompt, SystemEvaluator, e.scoreTemp)
	if err != nil {
		return nil, fmt.Errorf("failed to generate project evaluation: %w", err)
	}

	var parsed projectEvaluationResponse
	decodeModelJSON(response, &parsed)

	return e.scoreTrack(parsed.Scores.Raw(), ProjectWeights, parsed.Feedback), nil
}

func (e *evaluatorService) scoreTrack(raw map[string]int, weights map[string]float64, feedback string) *TrackEvaluation {
	if feedback == "" {
		feedback = placeholderFeedback
	}

	weighted := WeightedScore(raw, weights)
	return &TrackEvaluation{
		RawScores:     raw,
		WeightedScore: weighted,
		Percentage:    ToPercentage(weighted),
		Feedback:      feedback,
	}
}

// generateSummary composes the final narrative at a lower temperature than
// the scoring calls. The response is used as-is, trimmed.
func (e *evaluatorService) generateSummary(ctx context.Context, cvEval, projectEval *TrackEvaluation) (string, error) {
	prompt := e.promptBuilder.BuildOverallSummaryPrompt(
		cvEval.Percentage,
		projectEval.Percentage,
		cvEval.Feedback,
		projectEval.Feedback,
	)

	summary, err := e.gemini.GenerateText(ctx, prompt, SystemSummarizer, e.summaryTemp)
	if err != nil {
		return "", fmt.Errorf("failed to generate summary: %w", err)
	}

	return strings.TrimSpace(summary), nil
}

// decodeModelJSON parses model output tolerantly: direct parse first, then
// the substring between the first '{' and the last '}'. Reports whether any
// parse succeeded; on failure the target keeps its zero value, which the
// scorer treats as all-criteria-missing.
func decodeModelJSON(response string, target interface{}) bool {
	if json.Unmarshal([]byte(response), target) == nil {
		return true
	}

	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start != -1 && end != -1 && end > start {
		if json.Unmarshal([]byte(response[start:end+1]), target) == nil {
			return true
		}
	}

	return false
}
