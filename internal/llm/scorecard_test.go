package llm

import (
	"errors"
	"testing"

	"mockprep/interview/internal/models"
)

const validScorecard = `{"technicalScore":80,"communicationScore":72.5,"problemSolvingScore":64,"overallScore":74,` +
	`"strengths":["clear trade-offs","knows caching"],"weaknesses":["skipped failure modes"],` +
	`"suggestions":["practice capacity estimates"],"verdict":"On Hold","summary":"Solid {mostly} fundamentals."}`

func TestExtractScorecardIgnoresSurroundingProse(t *testing.T) {
	card, err := ExtractScorecard("Here is the result: " + validScorecard + " Thanks")
	if err != nil {
		t.Fatalf("ExtractScorecard returned error: %v", err)
	}
	if card.TechnicalScore != 80 || card.CommunicationScore != 72.5 || card.OverallScore != 74 {
		t.Fatalf("unexpected scores: %+v", card)
	}
	if card.Verdict != models.VerdictOnHold {
		t.Fatalf("unexpected verdict: %s", card.Verdict)
	}
	if card.Summary != "Solid {mostly} fundamentals." {
		t.Fatalf("braces inside strings should not end the object, got summary %q", card.Summary)
	}
	if len(card.Strengths) != 2 || card.Suggestions[0] != "practice capacity estimates" {
		t.Fatalf("unexpected lists: %+v", card)
	}
}

func TestExtractScorecardTakesFirstBalancedRegion(t *testing.T) {
	card, err := ExtractScorecard("```json\n" + validScorecard + "\n```\nalso {\"note\": 1}")
	if err != nil {
		t.Fatalf("ExtractScorecard returned error: %v", err)
	}
	if card.ProblemSolvingScore != 64 {
		t.Fatalf("unexpected problem solving score: %v", card.ProblemSolvingScore)
	}
}

func TestExtractScorecardFailures(t *testing.T) {
	cases := map[string]string{
		"no object":        "The candidate did fine overall.",
		"unbalanced":       `{"technicalScore": 80`,
		"invalid json":     `{technicalScore: 80}`,
		"missing score":    `{"communicationScore":1,"problemSolvingScore":1,"overallScore":1,"strengths":[],"weaknesses":[],"suggestions":[],"verdict":"Selected","summary":"ok"}`,
		"score too high":   `{"technicalScore":101,"communicationScore":1,"problemSolvingScore":1,"overallScore":1,"strengths":[],"weaknesses":[],"suggestions":[],"verdict":"Selected","summary":"ok"}`,
		"negative score":   `{"technicalScore":-1,"communicationScore":1,"problemSolvingScore":1,"overallScore":1,"strengths":[],"weaknesses":[],"suggestions":[],"verdict":"Selected","summary":"ok"}`,
		"string score":     `{"technicalScore":"80","communicationScore":1,"problemSolvingScore":1,"overallScore":1,"strengths":[],"weaknesses":[],"suggestions":[],"verdict":"Selected","summary":"ok"}`,
		"bad verdict":      `{"technicalScore":1,"communicationScore":1,"problemSolvingScore":1,"overallScore":1,"strengths":[],"weaknesses":[],"suggestions":[],"verdict":"Maybe","summary":"ok"}`,
		"missing list":     `{"technicalScore":1,"communicationScore":1,"problemSolvingScore":1,"overallScore":1,"strengths":[],"suggestions":[],"verdict":"Rejected","summary":"ok"}`,
		"missing summary":  `{"technicalScore":1,"communicationScore":1,"problemSolvingScore":1,"overallScore":1,"strengths":[],"weaknesses":[],"suggestions":[],"verdict":"Rejected"}`,
		"blank summary":    `{"technicalScore":1,"communicationScore":1,"problemSolvingScore":1,"overallScore":1,"strengths":[],"weaknesses":[],"suggestions":[],"verdict":"Rejected","summary":"  "}`,
		"first is garbage": `{"oops"} ` + validScorecard,
	}
	for name, input := range cases {
		if _, err := ExtractScorecard(input); !errors.Is(err, ErrEvaluationParse) {
			t.Fatalf("%s: expected ErrEvaluationParse, got %v", name, err)
		}
	}
}

func TestFirstObject(t *testing.T) {
	region, ok := firstObject(`prefix {"a":"}\"{","b":{"c":1}} suffix`)
	if !ok || region != `{"a":"}\"{","b":{"c":1}}` {
		t.Fatalf("unexpected region %q (ok=%v)", region, ok)
	}
	if _, ok := firstObject("no braces here"); ok {
		t.Fatal("expected no region")
	}
}
