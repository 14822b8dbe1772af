package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Bharath8080/interview-assessment-ai/internal/models"
	"github.com/Bharath8080/interview-assessment-ai/internal/taxonomy"
)

const validAssessmentJSON = `{
  "summary": "A confident candidate with solid backend fundamentals.",
  "categories": {
    "technical_skills": {
      "score": 85,
      "observations": ["Explained the caching strategy clearly", "Walked through API versioning trade-offs"],
      "assessment": "Strong command of core backend concepts.",
      "subcategories": {
        "core_knowledge": 80,
        "problem_solving": 85
      }
    },
    "communication_skills": {
      "score": 78,
      "observations": ["Answers were structured", "Occasionally rushed explanations"],
      "assessment": "Communicates clearly with minor pacing issues."
    }
  },
  "strengths": ["Clear structured answers", "Hands-on system design experience"],
  "improvements": ["Deeper database internals knowledge"],
  "role_fit": {
    "rating": "Strong",
    "justification": "Experience aligns with the role requirements."
  },
  "final_score": 82
}`

type stubProvider struct {
	replies []string
	errs    []error
	calls   int
}

func (s *stubProvider) Name() string  { return "stub" }
func (s *stubProvider) Model() string { return "stub-model" }

func (s *stubProvider) Generate(_ context.Context, _ string) (string, error) {
	idx := s.calls
	s.calls++
	if idx < len(s.errs) && s.errs[idx] != nil {
		return "", s.errs[idx]
	}
	if idx < len(s.replies) {
		return s.replies[idx], nil
	}
	return s.replies[len(s.replies)-1], nil
}

func testRequest() AnalysisRequest {
	return AnalysisRequest{
		JobRole:         "Backend Engineer",
		ExperienceLevel: models.LevelMid,
		CandidateName:   "Jane Doe",
		Rubric:          taxonomy.Default(),
	}
}

func newTestAnalyzer(provider ModelProvider, maxRetries int) AnalyzerService {
	return NewAnalyzerService(provider, maxRetries, 0, zap.NewNop())
}

func TestAnalyzeParsesFencedJSON(t *testing.T) {
	stub := &stubProvider{replies: []string{"Here is the assessment:\n```json\n" + validAssessmentJSON + "\n```"}}
	analyzer := newTestAnalyzer(stub, 3)

	result, err := analyzer.Analyze(context.Background(), "transcript", testRequest())
	require.NoError(t, err)
	require.Equal(t, 1, stub.calls)

	assert.Equal(t, "A confident candidate with solid backend fundamentals.", result.Summary)
	assert.Equal(t, 82.0, result.FinalScore)
	assert.Equal(t, 85.0, result.Categories["technical_skills"].Score)
	assert.Equal(t, 80.0, result.Categories["technical_skills"].Subcategories["core_knowledge"])
	assert.Equal(t, models.FitStrong, result.RoleFit.Rating)

	// Run metadata is attached on success.
	assert.Equal(t, "stub", result.Metadata.Provider)
	assert.Equal(t, "stub-model", result.Metadata.Model)
	assert.Equal(t, "Backend Engineer", result.Metadata.JobRole)
	assert.Equal(t, models.LevelMid, result.Metadata.ExperienceLevel)
	assert.Equal(t, "Jane Doe", result.Metadata.CandidateName)
	assert.False(t, result.Metadata.AnalyzedAt.IsZero())
}

func TestAnalyzeUnlabeledFenceAndBareReply(t *testing.T) {
	cases := []struct {
		name  string
		reply string
	}{
		{"unlabeled fence", "```\n" + validAssessmentJSON + "\n```"},
		{"bare json", validAssessmentJSON},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubProvider{replies: []string{tc.reply}}
			analyzer := newTestAnalyzer(stub, 3)

			result, err := analyzer.Analyze(context.Background(), "transcript", testRequest())
			require.NoError(t, err)
			assert.Equal(t, 82.0, result.FinalScore)
		})
	}
}

func TestAnalyzeRetriesMalformedReplies(t *testing.T) {
	stub := &stubProvider{replies: []string{
		"not json at all",
		"{\"summary\": \"truncated",
		"```json\n" + validAssessmentJSON + "\n```",
	}}
	analyzer := newTestAnalyzer(stub, 3)

	result, err := analyzer.Analyze(context.Background(), "transcript", testRequest())
	require.NoError(t, err)
	assert.Equal(t, 3, stub.calls)
	assert.Equal(t, 82.0, result.FinalScore)
}

func TestAnalyzeExhaustsRetries(t *testing.T) {
	stub := &stubProvider{replies: []string{"still not json"}}
	analyzer := newTestAnalyzer(stub, 3)

	_, err := analyzer.Analyze(context.Background(), "transcript", testRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAnalysisParse)
	assert.Equal(t, 3, stub.calls)
}

func TestAnalyzeRejectsOutOfRangeScores(t *testing.T) {
	reply := `{
  "summary": "ok",
  "categories": {
    "technical_skills": {
      "score": 150,
      "observations": ["obs"],
      "assessment": "fine"
    }
  },
  "strengths": ["s"],
  "improvements": ["i"],
  "role_fit": {"rating": "Strong", "justification": "j"},
  "final_score": 90
}`
	stub := &stubProvider{replies: []string{reply}}
	analyzer := newTestAnalyzer(stub, 2)

	_, err := analyzer.Analyze(context.Background(), "transcript", testRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAnalysisParse)
	assert.Contains(t, err.Error(), "outside [0,100]")
	assert.Equal(t, 2, stub.calls)
}

func TestAnalyzeRejectsUnknownCategory(t *testing.T) {
	reply := `{
  "summary": "ok",
  "categories": {
    "charisma": {
      "score": 80,
      "observations": ["obs"],
      "assessment": "fine"
    }
  },
  "strengths": ["s"],
  "improvements": ["i"],
  "role_fit": {"rating": "Moderate", "justification": "j"},
  "final_score": 70
}`
	stub := &stubProvider{replies: []string{reply}}
	analyzer := newTestAnalyzer(stub, 1)

	_, err := analyzer.Analyze(context.Background(), "transcript", testRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAnalysisParse)
	assert.Contains(t, err.Error(), "not part of the rubric")
}

func TestAnalyzeRejectsInvalidRoleFit(t *testing.T) {
	reply := `{
  "summary": "ok",
  "categories": {
    "technical_skills": {
      "score": 80,
      "observations": ["obs"],
      "assessment": "fine"
    }
  },
  "strengths": ["s"],
  "improvements": ["i"],
  "role_fit": {"rating": "Excellent", "justification": "j"},
  "final_score": 70
}`
	stub := &stubProvider{replies: []string{reply}}
	analyzer := newTestAnalyzer(stub, 1)

	_, err := analyzer.Analyze(context.Background(), "transcript", testRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAnalysisParse)
}

func TestAnalyzeModelUnavailableNotRetried(t *testing.T) {
	stub := &stubProvider{errs: []error{ErrModelUnavailable, ErrModelUnavailable, ErrModelUnavailable}, replies: []string{""}}
	analyzer := newTestAnalyzer(stub, 3)

	_, err := analyzer.Analyze(context.Background(), "transcript", testRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrModelUnavailable)
	assert.Equal(t, 1, stub.calls)
}

func TestAnalyzeQuotaErrorSurfacedDistinctly(t *testing.T) {
	stub := &stubProvider{
		errs:    []error{fmt.Errorf("googleapi: Error 429: Quota exceeded for requests")},
		replies: []string{""},
	}
	analyzer := newTestAnalyzer(stub, 3)

	_, err := analyzer.Analyze(context.Background(), "transcript", testRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Equal(t, 1, stub.calls)
}

func TestAnalyzeTransportErrorNotRetried(t *testing.T) {
	stub := &stubProvider{errs: []error{errors.New("connection reset by peer")}, replies: []string{""}}
	analyzer := newTestAnalyzer(stub, 3)

	_, err := analyzer.Analyze(context.Background(), "transcript", testRequest())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAnalysisParse)
	assert.Equal(t, 1, stub.calls)
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"labeled fence", "prefix\n```json\n{\"a\": 1}\n```\nsuffix", `{"a": 1}`},
		{"unlabeled fence", "prefix\n```\n{\"a\": 1}\n```\nsuffix", `{"a": 1}`},
		{"no fence", "  {\"a\": 1}  ", `{"a": 1}`},
		{"labeled fence wins", "```\nnoise\n```\n```json\n{\"a\": 1}\n```", `{"a": 1}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, extractJSON(tc.in))
		})
	}
}
