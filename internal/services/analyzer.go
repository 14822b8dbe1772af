package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Bharath8080/interview-assessment-ai/internal/models"
	"github.com/Bharath8080/interview-assessment-ai/internal/taxonomy"
)

// AnalysisRequest carries the interview context into the analyzer.
type AnalysisRequest struct {
	JobRole         string
	ExperienceLevel models.ExperienceLevel
	CandidateName   string
	Notes           string
	Rubric          taxonomy.Taxonomy
}

type AnalyzerService interface {
	Analyze(ctx context.Context, transcript string, req AnalysisRequest) (*models.Assessment, error)
}

type analyzerService struct {
	provider      ModelProvider
	promptBuilder *PromptBuilder
	maxRetries    int
	retryDelay    time.Duration
	logger        *zap.Logger
}

func NewAnalyzerService(provider ModelProvider, maxRetries int, retryDelay time.Duration, logger *zap.Logger) AnalyzerService {
	return &analyzerService{
		provider:      provider,
		promptBuilder: NewPromptBuilder(),
		maxRetries:    maxRetries,
		retryDelay:    retryDelay,
		logger:        logger,
	}
}

// Analyze sends the transcript to the model and parses the JSON reply into a
// validated assessment. A malformed or out-of-shape reply is retried up to
// maxRetries times; transport and empty-reply failures surface immediately.
func (a *analyzerService) Analyze(ctx context.Context, transcript string, req AnalysisRequest) (*models.Assessment, error) {
	prompt, err := a.promptBuilder.BuildAssessmentPrompt(
		transcript, req.JobRole, req.ExperienceLevel, req.CandidateName, req.Notes, req.Rubric)
	if err != nil {
		return nil, fmt.Errorf("failed to build prompt: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= a.maxRetries; attempt++ {
		a.logger.Info("requesting assessment from model",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", a.maxRetries),
			zap.String("provider", a.provider.Name()))

		reply, err := a.provider.Generate(ctx, prompt)
		if err != nil {
			if isQuotaError(err) {
				return nil, fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
			}
			if errors.Is(err, ErrModelUnavailable) {
				return nil, err
			}
			return nil, fmt.Errorf("model request failed: %w", err)
		}

		assessment, err := a.parseReply(reply, req.Rubric)
		if err == nil {
			assessment.Metadata = models.Metadata{
				AnalyzedAt:      time.Now(),
				JobRole:         req.JobRole,
				ExperienceLevel: req.ExperienceLevel,
				CandidateName:   req.CandidateName,
				Provider:        a.provider.Name(),
				Model:           a.provider.Model(),
			}
			return assessment, nil
		}

		lastErr = err
		a.logger.Warn("model reply failed validation",
			zap.Int("attempt", attempt),
			zap.Error(err))

		if attempt < a.maxRetries {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("analysis cancelled: %w", ctx.Err())
			case <-time.After(a.retryDelay):
			}
		}
	}

	return nil, fmt.Errorf("%w after %d attempts: %v", ErrAnalysisParse, a.maxRetries, lastErr)
}

// parseReply extracts the JSON payload from the raw reply and validates it
// against the rubric before trusting any of it.
func (a *analyzerService) parseReply(reply string, rubric taxonomy.Taxonomy) (*models.Assessment, error) {
	jsonStr := extractJSON(reply)

	var assessment models.Assessment
	if err := json.Unmarshal([]byte(jsonStr), &assessment); err != nil {
		return nil, fmt.Errorf("failed to unmarshal assessment: %w", err)
	}

	if err := validateAssessment(&assessment, rubric); err != nil {
		return nil, err
	}

	return &assessment, nil
}

// extractJSON locates the JSON candidate in a model reply: a fenced block
// labeled json, then any fenced block, then the whole reply.
func extractJSON(text string) string {
	if strings.Contains(text, "```json") {
		after := strings.SplitN(text, "```json", 2)[1]
		return strings.TrimSpace(strings.SplitN(after, "```", 2)[0])
	}

	if strings.Contains(text, "```") {
		parts := strings.SplitN(text, "```", 3)
		if len(parts) >= 2 {
			return strings.TrimSpace(parts[1])
		}
	}

	return strings.TrimSpace(text)
}

// validateAssessment treats the parsed reply as untrusted: every required
// key must be present and every score within range.
func validateAssessment(assessment *models.Assessment, rubric taxonomy.Taxonomy) error {
	if strings.TrimSpace(assessment.Summary) == "" {
		return fmt.Errorf("missing summary")
	}
	if len(assessment.Categories) == 0 {
		return fmt.Errorf("missing categories")
	}

	for id, category := range assessment.Categories {
		if !rubric.Has(id) {
			return fmt.Errorf("category %q is not part of the rubric", id)
		}
		if category.Score < 0 || category.Score > 100 {
			return fmt.Errorf("category %q score %.1f outside [0,100]", id, category.Score)
		}
		if strings.TrimSpace(category.Assessment) == "" {
			return fmt.Errorf("category %q has no qualitative assessment", id)
		}
		if len(category.Observations) == 0 {
			return fmt.Errorf("category %q has no observations", id)
		}
		for subID, score := range category.Subcategories {
			if score < 0 || score > 100 {
				return fmt.Errorf("subcategory %q score %.1f outside [0,100]", subID, score)
			}
		}
	}

	if len(assessment.Strengths) == 0 {
		return fmt.Errorf("missing strengths")
	}
	if len(assessment.Improvements) == 0 {
		return fmt.Errorf("missing improvements")
	}

	switch assessment.RoleFit.Rating {
	case models.FitStrong, models.FitModerate, models.FitLimited:
	default:
		return fmt.Errorf("role_fit rating %q is not one of Strong/Moderate/Limited", assessment.RoleFit.Rating)
	}

	if assessment.FinalScore < 0 || assessment.FinalScore > 100 {
		return fmt.Errorf("final_score %.1f outside [0,100]", assessment.FinalScore)
	}

	return nil
}
