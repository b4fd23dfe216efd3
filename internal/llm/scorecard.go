package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"mockprep/interview/internal/models"
)

// ErrEvaluationParse is returned when an evaluator reply holds no valid scorecard.
var ErrEvaluationParse = errors.New("evaluation could not be parsed")

type rawScorecard struct {
	TechnicalScore      *float64 `json:"technicalScore"`
	CommunicationScore  *float64 `json:"communicationScore"`
	ProblemSolvingScore *float64 `json:"problemSolvingScore"`
	OverallScore        *float64 `json:"overallScore"`
	Strengths           []string `json:"strengths"`
	Weaknesses          []string `json:"weaknesses"`
	Suggestions         []string `json:"suggestions"`
	Verdict             *string  `json:"verdict"`
	Summary             *string  `json:"summary"`
}

// ExtractScorecard pulls the first balanced {...} region out of free text and
// validates it against the scorecard schema.
func ExtractScorecard(text string) (*models.Scorecard, error) {
	region, ok := firstObject(text)
	if !ok {
		return nil, fmt.Errorf("%w: no JSON object found in response", ErrEvaluationParse)
	}

	var raw rawScorecard
	if err := json.Unmarshal([]byte(region), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEvaluationParse, err)
	}

	scores := []struct {
		name  string
		value *float64
	}{
		{"technicalScore", raw.TechnicalScore},
		{"communicationScore", raw.CommunicationScore},
		{"problemSolvingScore", raw.ProblemSolvingScore},
		{"overallScore", raw.OverallScore},
	}
	for _, s := range scores {
		if s.value == nil {
			return nil, fmt.Errorf("%w: missing %s", ErrEvaluationParse, s.name)
		}
		if *s.value < 0 || *s.value > 100 {
			return nil, fmt.Errorf("%w: %s out of range: %v", ErrEvaluationParse, s.name, *s.value)
		}
	}

	lists := map[string][]string{
		"strengths":   raw.Strengths,
		"weaknesses":  raw.Weaknesses,
		"suggestions": raw.Suggestions,
	}
	for name, list := range lists {
		if list == nil {
			return nil, fmt.Errorf("%w: missing %s", ErrEvaluationParse, name)
		}
	}

	if raw.Verdict == nil || !models.ValidVerdicts[models.Verdict(*raw.Verdict)] {
		return nil, fmt.Errorf("%w: verdict must be one of Selected, Rejected, On Hold", ErrEvaluationParse)
	}
	if raw.Summary == nil || strings.TrimSpace(*raw.Summary) == "" {
		return nil, fmt.Errorf("%w: missing summary", ErrEvaluationParse)
	}

	return &models.Scorecard{
		TechnicalScore:      *raw.TechnicalScore,
		CommunicationScore:  *raw.CommunicationScore,
		ProblemSolvingScore: *raw.ProblemSolvingScore,
		OverallScore:        *raw.OverallScore,
		Strengths:           raw.Strengths,
		Weaknesses:          raw.Weaknesses,
		Suggestions:         raw.Suggestions,
		Verdict:             models.Verdict(*raw.Verdict),
		Summary:             strings.TrimSpace(*raw.Summary),
	}, nil
}

// firstObject returns the first brace-balanced region, ignoring braces inside string literals.
func firstObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
