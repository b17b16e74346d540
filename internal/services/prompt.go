package services

import (
	"fmt"
	"strings"
)

// SystemEvaluator is the system instruction for both scoring calls.
const SystemEvaluator = `You are a careful evaluator.
Always return valid JSON when asked. Scores must be integers 1..5.
When asked for feedback or summaries, you MUST be extremely concise:
- Use strictly 3-5 short sentences.
- Each sentence MUST be 12 words or fewer.
- No lists, no bullet points, no headers, no preambles, no quotes.
- Do not add extra commentary or explanations beyond the requested sentences.
- Be balanced and fair in your assessments.
- Avoid vague generalities; be specific and actionable.
- You must not return long paragraphs.
- Always adhere to these rules.
- Always give the strengths and gaps.`

// SystemSummarizer is the system instruction for the overall-summary call.
const SystemSummarizer = "You are concise and balanced."

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildCVEvaluationPrompt creates the STRICT JSON scoring prompt for the CV track.
func (pb *PromptBuilder) BuildCVEvaluationPrompt(context, cvText string) string {
	return fmt.Sprintf(`You will evaluate a candidate's CV against a job description.
context from job description (top matches):
%s

return STRICT JSON:
{
    "scores": {
        "technical_skills": <int 1-5>,
        "experience_level": <int 1-5>,
        "achievements": <int 1-5>,
        "culture_fit": <int 1-5>
    },
    "feedback": "<strictly 3-5 short sentences highlighting strengths and gaps, each 12 words or fewer; no lists, no quotes>"
}

CV TEXT:
%s`, context, cvText)
}

// BuildProjectEvaluationPrompt creates the STRICT JSON scoring prompt for the
// project-report track.
func (pb *PromptBuilder) BuildProjectEvaluationPrompt(context, projectText string) string {
	return fmt.Sprintf(`Evaluate a project report against the scoring rubric.
context from rubric (top matches):
%s

return STRICT JSON:
{
    "scores": {
        "correctness": <int 1-5>,
        "code_quality": <int 1-5>,
        "resilience": <int 1-5>,
        "documentation": <int 1-5>,
        "creativity": <int 1-5>
    },
    "feedback": "<strictly 3-5 short sentences highlighting strengths and gaps, each 12 words or fewer; no lists, no quotes>"
}

PROJECT REPORT:
%s`, context, projectText)
}

// BuildOverallSummaryPrompt creates the final narrative prompt. The response
// is consumed as raw text, not JSON.
func (pb *PromptBuilder) BuildOverallSummaryPrompt(cvPercentage, projectPercentage float64, cvFeedback, projectFeedback string) string {
	return fmt.Sprintf(`Summarize candidate fit in strictly 3-5 short sentences considering:
- CV match rate (0..100): %.2f
- Project score (0..100): %.2f
- CV feedback: %s
- Project feedback: %s
Provide strengths, gaps, recommendations. Use strictly 3-5 short sentences, concise and not long paragraphs.`,
		cvPercentage, projectPercentage, cvFeedback, projectFeedback)
}

// FormatContext renders retrieved chunks for prompt injection.
func FormatContext(chunks []ScoredChunk) string {
	if len(chunks) == 0 {
		return "No relevant context found."
	}

	var parts []string
	for _, chunk := range chunks {
		parts = append(parts, "- "+strings.TrimSpace(chunk.Text))
	}

	return strings.Join(parts, "\n\n")
}
