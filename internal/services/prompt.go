package services

import (
	"fmt"
	"strings"

	"github.com/Bharath8080/interview-assessment-ai/internal/models"
	"github.com/Bharath8080/interview-assessment-ai/internal/taxonomy"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildAssessmentPrompt renders the full analysis instruction: rubric,
// interview context and the exact JSON reply shape the model must produce.
// Pure and deterministic for a given input set.
func (pb *PromptBuilder) BuildAssessmentPrompt(
	transcript string,
	jobRole string,
	experienceLevel models.ExperienceLevel,
	candidateName string,
	notes string,
	rubric taxonomy.Taxonomy,
) (string, error) {
	rubricJSON, err := rubric.JSON()
	if err != nil {
		return "", err
	}

	candidate := strings.TrimSpace(candidateName)
	if candidate == "" {
		candidate = "Not specified"
	}

	focusSection := ""
	if strings.TrimSpace(notes) != "" {
		focusSection = fmt.Sprintf("\nAdditional focus areas to consider:\n%s\n", strings.TrimSpace(notes))
	}

	return fmt.Sprintf(`You are an expert interview assessor with deep experience in talent acquisition and human resources.

Analyze the following interview transcript for a %s position at %s experience level.

Candidate: %s

Interview Transcript:
%s

Conduct a comprehensive assessment and provide:

1. Overall impression and summary (100-150 words)
2. For each category below, provide:
   - A score from 0-100
   - 2-3 specific observations
   - A brief qualitative assessment (30-50 words)

Assessment categories:
%s

For each subcategory, provide a score from 0-100.

3. Key strengths (3-5 bullet points)
4. Areas for improvement (3-5 bullet points)
5. Overall fit for the role (Strong/Moderate/Limited) with justification
6. Final score out of 100 based on weighted category scores
%s
Format your response as a JSON object with the following structure:
{
    "summary": "Overall impression summary",
    "categories": {
        "technical_skills": {
            "score": 85,
            "observations": ["Observation 1", "Observation 2"],
            "assessment": "Brief qualitative assessment",
            "subcategories": {
                "core_knowledge": 80,
                "problem_solving": 85,
                "coding_skills": 90,
                "tools_technologies": 85
            }
        }
    },
    "strengths": ["Strength 1", "Strength 2", "Strength 3"],
    "improvements": ["Area 1", "Area 2", "Area 3"],
    "role_fit": {
        "rating": "Strong",
        "justification": "Justification text"
    },
    "final_score": 82
}

Make sure your JSON is valid with proper escaping of quotes and special characters.`,
		jobRole, experienceLevel, candidate, transcript, rubricJSON, focusSection), nil
}
