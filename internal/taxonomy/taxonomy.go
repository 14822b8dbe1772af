// Package taxonomy defines the fixed scoring rubric the model assesses
// candidates against: categories, subcategories and their weights.
package taxonomy

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// WeightTolerance is the allowed floating-point drift when checking that
// category weights sum to 1.0.
const WeightTolerance = 1e-6

type Category struct {
	Name          string            `json:"name"`
	Weight        float64           `json:"weight"`
	Subcategories map[string]string `json:"subcategories"`
}

type Taxonomy map[string]Category

// Default returns the built-in assessment rubric. Weights sum to 1.0.
func Default() Taxonomy {
	return Taxonomy{
		"technical_skills": {
			Name:   "Technical Skills",
			Weight: 0.30,
			Subcategories: map[string]string{
				"core_knowledge":     "Understanding of domain-specific concepts",
				"problem_solving":    "Approach to solving technical problems",
				"coding_skills":      "Proficiency in programming languages",
				"tools_technologies": "Familiarity with industry-standard tools",
			},
		},
		"communication_skills": {
			Name:   "Communication Skills",
			Weight: 0.20,
			Subcategories: map[string]string{
				"clarity":     "Ability to express thoughts clearly",
				"listening":   "Understanding and responding appropriately",
				"conciseness": "Being to the point without unnecessary details",
				"nonverbal":   "Body language and overall presence",
			},
		},
		"behavioral_skills": {
			Name:   "Behavioral & Soft Skills",
			Weight: 0.15,
			Subcategories: map[string]string{
				"leadership":              "Leadership potential and teamwork abilities",
				"adaptability":            "Flexibility in handling different situations",
				"problem_solving_mindset": "Approach to challenges",
				"emotional_intelligence":  "Handling stress and feedback",
			},
		},
		"strengths_weaknesses": {
			Name:   "Strengths & Weaknesses",
			Weight: 0.10,
			Subcategories: map[string]string{
				"self_awareness":      "Understanding of capabilities and gaps",
				"improvement_mindset": "How weaknesses are addressed",
			},
		},
		"cultural_fit": {
			Name:   "Cultural Fit & Attitude",
			Weight: 0.10,
			Subcategories: map[string]string{
				"values_alignment": "Alignment with company values",
				"growth_mindset":   "Willingness to learn and improve",
				"work_ethic":       "Dedication and responsibility",
			},
		},
		"critical_thinking": {
			Name:   "Problem-Solving & Critical Thinking",
			Weight: 0.10,
			Subcategories: map[string]string{
				"logical_thinking": "Structured approach to problem-solving",
				"creativity":       "Ability to think out of the box",
			},
		},
		"decision_making": {
			Name:   "Decision-Making Ability",
			Weight: 0.05,
			Subcategories: map[string]string{
				"analytical_thinking": "Weighing pros and cons",
				"pressure_handling":   "Making sound decisions under stress",
			},
		},
	}
}

// TotalWeight sums the category weights.
func (t Taxonomy) TotalWeight() float64 {
	var total float64
	for _, c := range t {
		total += c.Weight
	}
	return total
}

// Validate checks the taxonomy is usable as a rubric: non-empty, every
// category named, and weights summing to 1.0 within tolerance.
func (t Taxonomy) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("taxonomy has no categories")
	}
	for id, c := range t {
		if c.Name == "" {
			return fmt.Errorf("category %q has no display name", id)
		}
		if c.Weight < 0 || c.Weight > 1 {
			return fmt.Errorf("category %q weight %.2f outside [0,1]", id, c.Weight)
		}
	}
	if total := t.TotalWeight(); math.Abs(total-1.0) > WeightTolerance {
		return fmt.Errorf("category weights sum to %.6f, want 1.0", total)
	}
	return nil
}

// Has reports whether id is a known category.
func (t Taxonomy) Has(id string) bool {
	_, ok := t[id]
	return ok
}

// IDs returns the category identifiers in sorted order.
func (t Taxonomy) IDs() []string {
	ids := make([]string, 0, len(t))
	for id := range t {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Normalize returns a copy of the taxonomy with the supplied per-category
// weights rescaled so they sum to 1.0. Categories absent from custom keep
// their current weight before rescaling. Unknown ids are rejected.
func (t Taxonomy) Normalize(custom map[string]float64) (Taxonomy, error) {
	for id, w := range custom {
		if !t.Has(id) {
			return nil, fmt.Errorf("unknown category %q in custom weights", id)
		}
		if w < 0 {
			return nil, fmt.Errorf("negative weight %.2f for category %q", w, id)
		}
	}

	out := make(Taxonomy, len(t))
	var total float64
	for id, c := range t {
		w := c.Weight
		if cw, ok := custom[id]; ok {
			w = cw
		}
		total += w
		c.Weight = w
		out[id] = c
	}
	if total <= 0 {
		return nil, fmt.Errorf("custom weights sum to zero")
	}
	for id, c := range out {
		c.Weight = c.Weight / total
		out[id] = c
	}
	return out, nil
}

// JSON renders the taxonomy as indented JSON for prompt embedding.
func (t Taxonomy) JSON() (string, error) {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal taxonomy: %w", err)
	}
	return string(data), nil
}
