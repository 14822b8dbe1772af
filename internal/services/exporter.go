package services

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/Bharath8080/interview-assessment-ai/internal/models"
	"github.com/Bharath8080/interview-assessment-ai/internal/taxonomy"
)

// ExporterService serializes a completed assessment for download.
type ExporterService interface {
	ExportJSON(assessment *models.Assessment) ([]byte, error)
	ExportCSV(assessment *models.Assessment) ([]byte, error)
	ExportReport(assessment *models.Assessment) []byte
}

type exporterService struct {
	rubric taxonomy.Taxonomy
}

func NewExporterService(rubric taxonomy.Taxonomy) ExporterService {
	return &exporterService{rubric: rubric}
}

func (e *exporterService) ExportJSON(assessment *models.Assessment) ([]byte, error) {
	data, err := json.MarshalIndent(assessment, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal assessment: %w", err)
	}
	return data, nil
}

// ExportCSV writes one row per category score followed by subcategory rows
// and the final weighted score.
func (e *exporterService) ExportCSV(assessment *models.Assessment) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Category", "Subcategory", "Weight", "Score"}); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, id := range sortedKeys(assessment.Categories) {
		category := assessment.Categories[id]
		name := id
		var weight float64
		if def, ok := e.rubric[id]; ok {
			name = def.Name
			weight = def.Weight
		}

		row := []string{name, "", fmt.Sprintf("%.2f", weight), fmt.Sprintf("%.0f", category.Score)}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}

		for _, subID := range sortedFloatKeys(category.Subcategories) {
			subName := subID
			if def, ok := e.rubric[id]; ok {
				if desc, ok := def.Subcategories[subID]; ok {
					subName = desc
				}
			}
			row := []string{name, subName, "", fmt.Sprintf("%.0f", category.Subcategories[subID])}
			if err := w.Write(row); err != nil {
				return nil, fmt.Errorf("failed to write csv row: %w", err)
			}
		}
	}

	if err := w.Write([]string{"Final Score", "", "", fmt.Sprintf("%.0f", assessment.FinalScore)}); err != nil {
		return nil, fmt.Errorf("failed to write csv row: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportReport renders a plain-text summary suitable for sharing.
func (e *exporterService) ExportReport(assessment *models.Assessment) []byte {
	var b strings.Builder

	candidate := assessment.Metadata.CandidateName
	if candidate == "" {
		candidate = "Candidate"
	}

	fmt.Fprintf(&b, "INTERVIEW ASSESSMENT REPORT\n")
	fmt.Fprintf(&b, "===========================\n\n")
	fmt.Fprintf(&b, "Candidate:        %s\n", candidate)
	fmt.Fprintf(&b, "Position:         %s\n", assessment.Metadata.JobRole)
	fmt.Fprintf(&b, "Experience Level: %s\n", assessment.Metadata.ExperienceLevel)
	fmt.Fprintf(&b, "Analyzed At:      %s\n", assessment.Metadata.AnalyzedAt.Format("January 2, 2006 15:04"))
	fmt.Fprintf(&b, "Model:            %s (%s)\n\n", assessment.Metadata.Model, assessment.Metadata.Provider)

	fmt.Fprintf(&b, "Final Score:      %.0f/100\n", assessment.FinalScore)
	fmt.Fprintf(&b, "Category Average: %.0f/100\n", assessment.AverageCategoryScore())
	fmt.Fprintf(&b, "Role Fit:         %s\n\n", assessment.RoleFit.Rating)

	fmt.Fprintf(&b, "SUMMARY\n-------\n%s\n\n", assessment.Summary)

	fmt.Fprintf(&b, "CATEGORY SCORES\n---------------\n")
	for _, id := range sortedKeys(assessment.Categories) {
		category := assessment.Categories[id]
		name := id
		if def, ok := e.rubric[id]; ok {
			name = def.Name
		}
		fmt.Fprintf(&b, "%-40s %.0f/100\n", name, category.Score)
		for _, obs := range category.Observations {
			fmt.Fprintf(&b, "  - %s\n", obs)
		}
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "KEY STRENGTHS\n-------------\n")
	for _, s := range assessment.Strengths {
		fmt.Fprintf(&b, "  + %s\n", s)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "AREAS FOR IMPROVEMENT\n---------------------\n")
	for _, s := range assessment.Improvements {
		fmt.Fprintf(&b, "  - %s\n", s)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "ROLE FIT ANALYSIS\n-----------------\nRating: %s\n%s\n",
		assessment.RoleFit.Rating, assessment.RoleFit.Justification)

	return []byte(b.String())
}

func sortedKeys(m map[string]models.CategoryScore) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedFloatKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
