package taxonomy

import (
	"math"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultWeightsSumToOne(t *testing.T) {
	rubric := Default()

	require.NoError(t, rubric.Validate())
	assert.InDelta(t, 1.0, rubric.TotalWeight(), WeightTolerance)
}

func TestDefaultHasExpectedCategories(t *testing.T) {
	rubric := Default()

	expected := []string{
		"behavioral_skills",
		"communication_skills",
		"critical_thinking",
		"cultural_fit",
		"decision_making",
		"strengths_weaknesses",
		"technical_skills",
	}
	assert.Equal(t, expected, rubric.IDs())

	for id, category := range rubric {
		assert.NotEmpty(t, category.Name, "category %s", id)
		assert.NotEmpty(t, category.Subcategories, "category %s", id)
	}
}

func TestValidateRejectsBadWeights(t *testing.T) {
	rubric := Default()
	category := rubric["technical_skills"]
	category.Weight = 0.50
	rubric["technical_skills"] = category

	err := rubric.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sum")
}

func TestValidateRejectsEmptyTaxonomy(t *testing.T) {
	require.Error(t, Taxonomy{}.Validate())
}

func TestNormalizeRescalesWeights(t *testing.T) {
	rubric := Default()

	normalized, err := rubric.Normalize(map[string]float64{
		"technical_skills":     0.8,
		"communication_skills": 0.8,
	})
	require.NoError(t, err)

	assert.InDelta(t, 1.0, normalized.TotalWeight(), WeightTolerance)
	// Both boosted categories end up with equal, dominant weights.
	assert.InDelta(t, normalized["technical_skills"].Weight, normalized["communication_skills"].Weight, WeightTolerance)
	assert.Greater(t, normalized["technical_skills"].Weight, normalized["behavioral_skills"].Weight)

	// The original taxonomy is untouched.
	assert.InDelta(t, 0.30, rubric["technical_skills"].Weight, WeightTolerance)
}

func TestNormalizeRejectsUnknownCategory(t *testing.T) {
	_, err := Default().Normalize(map[string]float64{"charisma": 0.5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown category")
}

func TestNormalizeRejectsNegativeWeight(t *testing.T) {
	_, err := Default().Normalize(map[string]float64{"technical_skills": -0.1})
	require.Error(t, err)
}

func TestJSONIsDeterministic(t *testing.T) {
	rubric := Default()

	first, err := rubric.JSON()
	require.NoError(t, err)
	second, err := rubric.JSON()
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.True(t, strings.Contains(first, "technical_skills"))

	// Keys come out sorted, so prompt embedding is stable across runs.
	ids := rubric.IDs()
	assert.True(t, sort.StringsAreSorted(ids))
}

func TestWeightToleranceIsTight(t *testing.T) {
	rubric := Default()
	category := rubric["decision_making"]
	category.Weight += 2 * WeightTolerance
	rubric["decision_making"] = category

	assert.Error(t, rubric.Validate())
	assert.Greater(t, math.Abs(rubric.TotalWeight()-1.0), WeightTolerance)
}
